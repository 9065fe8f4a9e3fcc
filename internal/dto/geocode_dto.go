package dto

import "github.com/straypaws/straymap/internal/geocode"

type GeocodeResponse struct {
	Query   string          `json:"query"`
	Results []geocode.Place `json:"results"`
	Count   int             `json:"count"`
}

type ReverseGeocodeResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}
