package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sony/gobreaker"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org/search"
	maxResults     = 5
	minQueryRunes  = 2
)

// Client implements the Geocoder interface for OpenStreetMap Nominatim.
type Client struct {
	baseURL   string
	userAgent string
	language  string
	client    *http.Client
	circuit   *gobreaker.CircuitBreaker
}

// NewClient creates a Nominatim client. Nominatim's usage policy requires an
// identifying User-Agent on every request.
func NewClient(client *http.Client, baseURL, userAgent, language string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nominatim",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		language:  language,
		client:    client,
		circuit:   cb,
	}
}

// Search returns up to five candidates for query. Queries shorter than two
// runes return an empty result without touching the network.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryRunes {
		return nil, nil
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		return c.search(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	places, ok := result.([]Place)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return places, nil
}

func (c *Client) search(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(maxResults))
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim error: status %d", resp.StatusCode)
	}

	var rows []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	places := make([]Place, 0, len(rows))
	for _, row := range rows {
		lat, err := strconv.ParseFloat(row.Lat, 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(row.Lon, 64)
		if err != nil {
			continue
		}
		name := row.Name
		if name == "" {
			name = firstSegment(row.DisplayName)
		}
		places = append(places, Place{
			Name:        name,
			Latitude:    lat,
			Longitude:   lon,
			DisplayName: row.DisplayName,
		})
	}
	return places, nil
}

func firstSegment(displayName string) string {
	name, _, _ := strings.Cut(displayName, ",")
	return strings.TrimSpace(name)
}

// Nominatim API response types.

type nominatimPlace struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}
