package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/providers"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
	"github.com/EatWhereLa/eat-where-la-backend-server/pkg/config"
)

const (
	defaultPhotoMaxWidth   = "400"
	defaultDetailsCacheTTL = 60 * 60 * 24
	defaultHTTPTimeout     = 8 * time.Second
	maxResponseBytes       = 4 << 20
)

// GooglePlacesClient implements the PlacesProvider using the Google Places web service.
type GooglePlacesClient struct {
	apiKey     string
	nearbyURL  string
	photoURL   string
	detailsURL string
	httpClient *http.Client
	cache      providers.CacheProvider
}

// NewGooglePlacesClient creates a new Google Places client. cache may be nil.
func NewGooglePlacesClient(cfg *config.PlacesConfig, cache providers.CacheProvider) providers.PlacesProvider {
	return NewGooglePlacesClientWithHTTPClient(cfg, cache, nil)
}

// NewGooglePlacesClientWithHTTPClient allows overriding the HTTP client (used for tests).
func NewGooglePlacesClientWithHTTPClient(cfg *config.PlacesConfig, cache providers.CacheProvider, httpClient *http.Client) providers.PlacesProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &GooglePlacesClient{
		apiKey:     cfg.APIKey,
		nearbyURL:  cfg.NearbySearchURL,
		photoURL:   cfg.PhotoURL,
		detailsURL: cfg.DetailsURL,
		httpClient: httpClient,
		cache:      cache,
	}
}

// NearbySearch runs a nearby search and returns the decoded response document.
func (c *GooglePlacesClient) NearbySearch(ctx context.Context, params providers.NearbySearchParams) (any, error) {
	query := url.Values{}
	query.Set("location", strings.ReplaceAll(params.Location, "%2C", ","))
	setIfPresent(query, "radius", params.Radius)
	setIfPresent(query, "type", params.Type)
	setIfPresent(query, "minprice", params.MinPrice)

	body, err := c.get(ctx, c.nearbyURL, query)
	if err != nil {
		return nil, fmt.Errorf("nearby search request failed: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode nearby search response: %w", err)
	}
	if err := checkStatus(doc); err != nil {
		return nil, fmt.Errorf("nearby search failed: %w", err)
	}
	return doc, nil
}

// PhotoURL resolves a photo reference to the image it redirects to. The
// returned URL carries no query string, so the API key never leaks.
func (c *GooglePlacesClient) PhotoURL(ctx context.Context, photoReference string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("google places api key is required")
	}

	query := url.Values{}
	query.Set("maxwidth", defaultPhotoMaxWidth)
	query.Set("photoreference", photoReference)
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.photoURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build photo request: %w", err)
	}

	noRedirect := *c.httpClient
	noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := noRedirect.Do(req)
	if err != nil {
		return "", fmt.Errorf("photo request failed: %w", err)
	}
	defer resp.Body.Close()

	var target *url.URL
	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		target, err = resp.Location()
		if err != nil {
			return "", fmt.Errorf("photo redirect has no location: %w", err)
		}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		target = resp.Request.URL
	default:
		return "", fmt.Errorf("photo request returned status %d", resp.StatusCode)
	}

	return (&url.URL{Scheme: target.Scheme, Host: target.Host, Path: target.Path}).String(), nil
}

// PlaceDetails returns the details document for a place, served from cache
// when possible.
func (c *GooglePlacesClient) PlaceDetails(ctx context.Context, placeID string) (json.RawMessage, error) {
	cacheKey := "places:details:" + placeID
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil && json.Valid(cached) {
			return json.RawMessage(cached), nil
		}
	}

	query := url.Values{}
	query.Set("place_id", placeID)

	body, err := c.get(ctx, c.detailsURL, query)
	if err != nil {
		return nil, fmt.Errorf("place details request failed: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode place details response: %w", err)
	}
	if err := checkStatus(doc); err != nil {
		return nil, fmt.Errorf("place details failed: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, body, defaultDetailsCacheTTL); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("place_id", placeID).Msg("Failed to cache place details")
		}
	}
	return json.RawMessage(body), nil
}

func (c *GooglePlacesClient) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, errors.New("google places api key is required")
	}
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// checkStatus rejects API-level failures. ZERO_RESULTS is a valid empty answer.
func checkStatus(doc map[string]any) error {
	status, _ := doc["status"].(string)
	switch status {
	case "", "OK", "ZERO_RESULTS":
		return nil
	}
	if message, _ := doc["error_message"].(string); message != "" {
		return fmt.Errorf("%s - %s", status, message)
	}
	return errors.New(status)
}

func setIfPresent(query url.Values, key, value string) {
	if strings.TrimSpace(value) != "" {
		query.Set(key, value)
	}
}
