// internal/geocode/nominatim.go

// Package geocode resolves free-text city names to coordinates through a
// Nominatim-compatible endpoint. Best effort only: callers treat failures
// as degraded signal, never as a hard stop.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"callguard/internal/common/config"
	apperrors "callguard/internal/common/errors"
	commonhttp "callguard/internal/common/http"
)

// Point is a resolved coordinate pair.
type Point struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// Client calls the Nominatim search API.
type Client struct {
	baseURL   string
	userAgent string
	http      *commonhttp.Client
}

func NewClient(cfg config.GeocoderConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http:      commonhttp.NewClient(time.Duration(cfg.Timeout) * time.Millisecond),
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// CityCoordinates resolves a city (optionally qualified by country) to its
// best-match coordinates.
func (c *Client) CityCoordinates(ctx context.Context, city, country string) (*Point, error) {
	query := city
	if country != "" {
		query = fmt.Sprintf("%s, %s", city, country)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.NewGeocodingFailedError(query, err)
	}
	// Nominatim requires an identifying User-Agent.
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		return nil, apperrors.NewGeocodingFailedError(query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewGeocodingFailedError(query, fmt.Errorf("status %d", resp.StatusCode))
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, apperrors.NewGeocodingFailedError(query, err)
	}
	if len(results) == 0 {
		return nil, apperrors.NewGeocodingFailedError(query, fmt.Errorf("no results"))
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, apperrors.NewGeocodingFailedError(query, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, apperrors.NewGeocodingFailedError(query, err)
	}

	return &Point{Latitude: lat, Longitude: lon, DisplayName: results[0].DisplayName}, nil
}
