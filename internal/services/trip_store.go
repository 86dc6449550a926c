package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"tripweaver/internal/models"
	"tripweaver/internal/pkg/logger"
)

const (
	sessionKeyPrefix = "session:"
	tripKeyPrefix    = "trip:"
	sessionTTL       = 24 * time.Hour
)

// TripStore persists conversation sessions and finished trips in Redis.
type TripStore struct {
	client *redis.Client
	logger *logger.Logger
}

func NewTripStore(redisURL string, log *logger.Logger) (*TripStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	store := &TripStore{client: client, logger: log}

	if err := store.testConnection(); err != nil {
		return nil, fmt.Errorf("connection to Redis failed: %w", err)
	}

	log.Info("Trip store initialized", "redis_addr", opt.Addr)
	return store, nil
}

func (store *TripStore) testConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return store.client.Ping(ctx).Err()
}

func (store *TripStore) Close() error {
	store.logger.Info("Closing trip store")
	return store.client.Close()
}

func (store *TripStore) HealthCheck(ctx context.Context) error {
	return store.client.Ping(ctx).Err()
}

// LoadSession returns the stored conversation state, or nil when the
// session has no state yet.
func (store *TripStore) LoadSession(ctx context.Context, sessionID string) (*models.ConversationState, error) {
	raw, err := store.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, models.WrapExternalError("redis", err)
	}

	var state models.ConversationState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, models.WrapExternalError("redis", err)
	}
	return &state, nil
}

// SaveSession stores the conversation state with a sliding TTL.
func (store *TripStore) SaveSession(ctx context.Context, state *models.ConversationState) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return models.WrapExternalError("redis", err)
	}
	if err := store.client.Set(ctx, sessionKeyPrefix+state.SessionID, encoded, sessionTTL).Err(); err != nil {
		return models.WrapExternalError("redis", err)
	}
	return nil
}

// SaveTrip persists a finished itinerary and returns its handle.
func (store *TripStore) SaveTrip(ctx context.Context, intent models.TripIntent, itinerary models.Itinerary) (*models.StoredTrip, error) {
	start := time.Now()

	trip := &models.StoredTrip{
		ID:          uuid.NewString(),
		DisplayName: displayName(intent, itinerary),
		Intent:      intent,
		Itinerary:   itinerary,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	encoded, err := json.Marshal(trip)
	if err != nil {
		return nil, models.WrapExternalError("redis", err)
	}
	if err := store.client.Set(ctx, tripKeyPrefix+trip.ID, encoded, 0).Err(); err != nil {
		store.logger.LogService("redis", "save_trip", time.Since(start), logger.Fields{
			"trip_id": trip.ID,
		}, err)
		return nil, models.WrapExternalError("redis", err)
	}

	store.logger.LogService("redis", "save_trip", time.Since(start), logger.Fields{
		"trip_id":      trip.ID,
		"display_name": trip.DisplayName,
	}, nil)

	return trip, nil
}

// GetTrip returns a stored trip by id, or nil when unknown.
func (store *TripStore) GetTrip(ctx context.Context, tripID string) (*models.StoredTrip, error) {
	raw, err := store.client.Get(ctx, tripKeyPrefix+tripID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, models.WrapExternalError("redis", err)
	}

	var trip models.StoredTrip
	if err := json.Unmarshal([]byte(raw), &trip); err != nil {
		return nil, models.WrapExternalError("redis", err)
	}
	return &trip, nil
}

func displayName(intent models.TripIntent, itinerary models.Itinerary) string {
	destination := itinerary.Destination
	if destination == "" {
		destination = intent.Destination
	}
	if destination == "" {
		return "Trip"
	}
	if len(itinerary.Days) > 0 {
		return fmt.Sprintf("%s (%d days)", destination, len(itinerary.Days))
	}
	return destination
}
