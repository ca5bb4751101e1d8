package providers

import (
	"context"
	"encoding/json"
)

// NearbySearchParams are the query parameters forwarded to the places API.
type NearbySearchParams struct {
	Location string // "lat,lng"
	Radius   string
	Type     string
	MinPrice string
}

// PlacesProvider defines the interface for the external places search API.
// Responses are returned undecoded into domain types; callers normalize them.
type PlacesProvider interface {
	// NearbySearch returns the decoded JSON document of a nearby search.
	NearbySearch(ctx context.Context, params NearbySearchParams) (any, error)

	// PhotoURL resolves a photo reference to a key-free image URL.
	PhotoURL(ctx context.Context, photoReference string) (string, error)

	// PlaceDetails returns the raw details document for a place.
	PlaceDetails(ctx context.Context, placeID string) (json.RawMessage, error)
}
