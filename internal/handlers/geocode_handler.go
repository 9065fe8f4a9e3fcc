package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/straypaws/straymap/internal/dto"
	"github.com/straypaws/straymap/internal/geocode"
)

type GeocodeHandler struct {
	client *geocode.Client
}

func NewGeocodeHandler(client *geocode.Client) *GeocodeHandler {
	return &GeocodeHandler{client: client}
}

// Forward resolves a free-text query to candidate places. Zero results is a
// valid outcome, not an error.
func (h *GeocodeHandler) Forward(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "q query parameter is required",
		})
	}

	places, err := h.client.Forward(c.Context(), query)
	if err != nil {
		if errors.Is(err, geocode.ErrServiceUnavailable) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: "Geocoding service unavailable",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to geocode",
		})
	}

	return c.JSON(dto.GeocodeResponse{
		Query:   query,
		Results: places,
		Count:   len(places),
	})
}

// Reverse resolves coordinates to a display address. An unknown location
// yields an empty address.
func (h *GeocodeHandler) Reverse(c *fiber.Ctx) error {
	point, err := parsePoint(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	address, err := h.client.Reverse(c.Context(), point)
	if err != nil {
		if errors.Is(err, geocode.ErrServiceUnavailable) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: "Geocoding service unavailable",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to reverse geocode",
		})
	}

	return c.JSON(dto.ReverseGeocodeResponse{
		Latitude:  point.Lat,
		Longitude: point.Lng,
		Address:   address,
	})
}
