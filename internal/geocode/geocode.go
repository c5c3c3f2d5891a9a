// Package geocode resolves free-text place queries to coordinates.
package geocode

import "context"

// Place is a single geocoding candidate.
type Place struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
}

// Geocoder turns a free-text query into a ranked list of candidates.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Place, error)
}
