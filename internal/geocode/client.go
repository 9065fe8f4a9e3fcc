// Package geocode wraps a Nominatim-compatible address lookup service.
// The upstream is rate-limited and best effort: zero results is a valid
// empty outcome, not a fault. Successful lookups are cached in Redis when a
// cache is configured.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/straypaws/straymap/internal/config"
	"github.com/straypaws/straymap/internal/geo"
)

var ErrServiceUnavailable = errors.New("geocoding service unavailable")

// Place is one forward-geocoding match.
type Place struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	cache     *redis.Client // nil when caching is disabled
	cacheTTL  time.Duration
}

func NewClient(cfg *config.Config, cache *redis.Client) *Client {
	return &Client{
		baseURL:   cfg.GeocodeBaseURL,
		userAgent: cfg.GeocodeUserAgent,
		http:      &http.Client{Timeout: cfg.GeocodeTimeout},
		cache:     cache,
		cacheTTL:  cfg.GeocodeCacheTTL,
	}
}

// Forward resolves free-form address text to candidate coordinates. An
// empty slice means the upstream found nothing.
func (c *Client) Forward(ctx context.Context, query string) ([]Place, error) {
	cacheKey := "geocode:fwd:" + query
	if cached, ok := c.cacheGet(ctx, cacheKey); ok {
		var places []Place
		if err := json.Unmarshal(cached, &places); err == nil {
			return places, nil
		}
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "5")

	body, err := c.get(ctx, "/search?"+q.Encode())
	if err != nil {
		return nil, err
	}

	places, err := parseSearchResults(body)
	if err != nil {
		return nil, err
	}

	c.cachePut(ctx, cacheKey, places)
	return places, nil
}

// Reverse resolves a coordinate to address text. An empty string means the
// upstream could not name the location; callers degrade gracefully.
func (c *Client) Reverse(ctx context.Context, p geo.LatLng) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	cacheKey := fmt.Sprintf("geocode:rev:%.6f,%.6f", p.Lat, p.Lng)
	if cached, ok := c.cacheGet(ctx, cacheKey); ok {
		return string(cached), nil
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(p.Lng, 'f', 6, 64))
	q.Set("format", "json")

	body, err := c.get(ctx, "/reverse?"+q.Encode())
	if err != nil {
		return "", err
	}

	address, err := parseReverseResult(body)
	if err != nil {
		return "", err
	}

	if address != "" {
		c.cachePutRaw(ctx, cacheKey, []byte(address))
	}
	return address, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Nominatim returns lat/lon as strings.
type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func parseSearchResults(body []byte) ([]Place, error) {
	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("%w: bad response: %v", ErrServiceUnavailable, err)
	}

	places := make([]Place, 0, len(results))
	for _, r := range results {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lng, errLng := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLng != nil {
			continue
		}
		places = append(places, Place{DisplayName: r.DisplayName, Lat: lat, Lng: lng})
	}
	return places, nil
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func parseReverseResult(body []byte) (string, error) {
	var r reverseResult
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("%w: bad response: %v", ErrServiceUnavailable, err)
	}
	// "Unable to geocode" is the empty outcome, not a fault
	if r.Error != "" {
		return "", nil
	}
	return r.DisplayName, nil
}

// cache helpers: the cache is advisory, failures only get logged

func (c *Client) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	val, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("geocode cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

func (c *Client) cachePut(ctx context.Context, key string, v interface{}) {
	if c.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.cachePutRaw(ctx, key, b)
}

func (c *Client) cachePutRaw(ctx context.Context, key string, b []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, b, c.cacheTTL).Err(); err != nil {
		slog.Warn("geocode cache write failed", "key", key, "error", err)
	}
}
