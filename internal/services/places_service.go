package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"tripweaver/internal/agents"
	"tripweaver/internal/config"
	"tripweaver/internal/models"
	"tripweaver/internal/pkg/logger"
)

// PlacesService wraps the place search and details HTTP APIs. Detail
// lookups are cached with a TTL, outbound calls are rate limited, and a
// circuit breaker shields the upstream during sustained failures.
type PlacesService struct {
	httpClient *http.Client
	config     config.PlacesConfig
	logger     *logger.Logger
	cache      *gocache.Cache
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

var detailsFields = []string{
	"place_id",
	"name",
	"formatted_address",
	"geometry/location",
	"rating",
	"user_ratings_total",
	"types",
	"price_level",
	"business_status",
	"website",
	"formatted_phone_number",
	"international_phone_number",
	"url",
	"photos",
}

func NewPlacesService(cfg config.PlacesConfig, log *logger.Logger) (*PlacesService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("places API key required")
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "places",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Places circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	log.Info("Places service initialized",
		"base_url", cfg.BaseURL,
		"cache_ttl", cfg.DetailsCacheTTL.String(),
		"requests_per_sec", cfg.RequestsPerSec,
	)

	return &PlacesService{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     log,
		cache:      gocache.New(cfg.DetailsCacheTTL, 10*time.Minute),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
		breaker:    breaker,
	}, nil
}

// request performs one upstream GET with rate limiting, circuit breaking,
// and bounded retries. A non-OK API status is treated as permanent.
func (service *PlacesService) request(ctx context.Context, path string, params url.Values) (map[string]interface{}, error) {
	if err := service.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("key", service.config.APIKey)
	endpoint := fmt.Sprintf("%s/%s?%s", service.config.BaseURL, path, params.Encode())

	result, err := service.breaker.Execute(func() (interface{}, error) {
		return backoff.Retry(ctx, func() (map[string]interface{}, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, backoff.Permanent(err)
			}

			resp, err := service.httpClient.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 500 {
				return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return nil, backoff.Permanent(fmt.Errorf("upstream returned status %d", resp.StatusCode))
			}

			var payload map[string]interface{}
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				return nil, err
			}

			if status, _ := payload["status"].(string); status != "" && status != "OK" && status != "ZERO_RESULTS" {
				message := status
				if errMessage, _ := payload["error_message"].(string); errMessage != "" {
					message = errMessage
				}
				return nil, backoff.Permanent(fmt.Errorf("places API error: %s", message))
			}
			return payload, nil
		},
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxTries(3),
		)
	})
	if err != nil {
		return nil, models.WrapExternalError("places", err)
	}
	return result.(map[string]interface{}), nil
}

// FindPlaces searches for places using a free text query.
func (service *PlacesService) FindPlaces(ctx context.Context, query string) ([]agents.PlaceSummary, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("query", query)
	if service.config.SearchRadius != "" {
		params.Set("radius", service.config.SearchRadius)
	}

	payload, err := service.request(ctx, "place/textsearch/json", params)
	if err != nil {
		service.logger.LogService("places", "find_places", time.Since(start), logger.Fields{
			"query": query,
		}, err)
		return nil, err
	}

	var summaries []agents.PlaceSummary
	if results, ok := payload["results"].([]interface{}); ok {
		for _, raw := range results {
			result, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			placeID, _ := result["place_id"].(string)
			if placeID == "" {
				continue
			}
			name, _ := result["name"].(string)
			summaries = append(summaries, agents.PlaceSummary{PlaceID: placeID, Name: name})
		}
	}

	service.logger.LogService("places", "find_places", time.Since(start), logger.Fields{
		"query":   query,
		"results": len(summaries),
	}, nil)

	return summaries, nil
}

// PlaceDetails returns the normalised details payload for a place,
// consulting the TTL cache first.
func (service *PlacesService) PlaceDetails(ctx context.Context, placeID string) (map[string]interface{}, error) {
	if cached, found := service.cache.Get(placeID); found {
		return cached.(map[string]interface{}), nil
	}

	start := time.Now()

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", strings.Join(detailsFields, ","))

	payload, err := service.request(ctx, "place/details/json", params)
	if err != nil {
		service.logger.LogService("places", "place_details", time.Since(start), logger.Fields{
			"place_id": placeID,
		}, err)
		return nil, err
	}

	result, ok := payload["result"].(map[string]interface{})
	if !ok {
		err := errors.New("place details response did not contain a result")
		service.logger.LogService("places", "place_details", time.Since(start), logger.Fields{
			"place_id": placeID,
		}, err)
		return nil, models.WrapExternalError("places", err)
	}

	normalised := flattenPlaceResult(result, placeID)
	service.cache.SetDefault(placeID, normalised)

	service.logger.LogService("places", "place_details", time.Since(start), logger.Fields{
		"place_id": placeID,
	}, nil)

	return normalised, nil
}

// flattenPlaceResult lifts the nested upstream payload into the flat shape
// the canonical place record decodes from.
func flattenPlaceResult(result map[string]interface{}, placeID string) map[string]interface{} {
	flat := map[string]interface{}{
		"place_id": placeID,
	}
	if id, _ := result["place_id"].(string); id != "" {
		flat["place_id"] = id
	}
	if name, _ := result["name"].(string); name != "" {
		flat["name"] = name
	}
	if address, _ := result["formatted_address"].(string); address != "" {
		flat["formatted_address"] = address
	} else if vicinity, _ := result["vicinity"].(string); vicinity != "" {
		flat["formatted_address"] = vicinity
	}

	if geometry, ok := result["geometry"].(map[string]interface{}); ok {
		if location, ok := geometry["location"].(map[string]interface{}); ok {
			if lat, ok := location["lat"].(float64); ok {
				flat["latitude"] = lat
			}
			if lng, ok := location["lng"].(float64); ok {
				flat["longitude"] = lng
			}
		}
	}

	for source, target := range map[string]string{
		"rating":             "rating",
		"user_ratings_total": "user_ratings_total",
		"price_level":        "price_level",
		"business_status":    "business_status",
		"website":            "website",
		"url":                "google_maps_url",
		"types":              "types",
	} {
		if value, exists := result[source]; exists && value != nil {
			flat[target] = value
		}
	}

	if phone, _ := result["formatted_phone_number"].(string); phone != "" {
		flat["phone_number"] = phone
	} else if phone, _ := result["international_phone_number"].(string); phone != "" {
		flat["phone_number"] = phone
	}

	if photos, ok := result["photos"].([]interface{}); ok && len(photos) > 0 {
		if first, ok := photos[0].(map[string]interface{}); ok {
			if reference, _ := first["photo_reference"].(string); reference != "" {
				flat["photo_reference"] = reference
			}
		}
	}

	return flat
}
