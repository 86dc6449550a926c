package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tripweaver/internal/handlers"
	"tripweaver/internal/models"
	"tripweaver/internal/pkg/logger"
	"tripweaver/internal/services"
)

type mockStore struct {
	sessions map[string]*models.ConversationState
	trips    map[string]*models.StoredTrip
	healthy  bool
}

func newMockStore() *mockStore {
	return &mockStore{
		sessions: map[string]*models.ConversationState{},
		trips:    map[string]*models.StoredTrip{},
		healthy:  true,
	}
}

func (store *mockStore) LoadSession(ctx context.Context, sessionID string) (*models.ConversationState, error) {
	return store.sessions[sessionID], nil
}

func (store *mockStore) SaveSession(ctx context.Context, state *models.ConversationState) error {
	store.sessions[state.SessionID] = state
	return nil
}

func (store *mockStore) SaveTrip(ctx context.Context, intent models.TripIntent, itinerary models.Itinerary) (*models.StoredTrip, error) {
	trip := &models.StoredTrip{ID: "trip-1", DisplayName: intent.Destination, Intent: intent, Itinerary: itinerary}
	store.trips[trip.ID] = trip
	return trip, nil
}

func (store *mockStore) GetTrip(ctx context.Context, tripID string) (*models.StoredTrip, error) {
	return store.trips[tripID], nil
}

func (store *mockStore) HealthCheck(ctx context.Context) error {
	if !store.healthy {
		return errors.New("store unreachable")
	}
	return nil
}

type mockPlanner struct {
	itinerary models.Itinerary
	err       error
	cleared   int
}

func (planner *mockPlanner) GeneratePlan(ctx context.Context, intent models.TripIntent) (models.Itinerary, error) {
	return planner.itinerary, planner.err
}

func (planner *mockPlanner) ClearResearchCache() {
	planner.cleared++
}

type mockRefiner struct {
	response models.RefinerResponse
	err      error
}

func (refiner *mockRefiner) Run(ctx context.Context, request models.RefinerRequest, additionalPlaces map[string]models.Place) (models.RefinerResponse, error) {
	return refiner.response, refiner.err
}

func setupTestRouter(store *mockStore, planner *mockPlanner, refiner *mockRefiner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.New(logger.Options{Level: "error"})
	conversation := services.NewConversationService(store, log)
	handler := handlers.New(conversation, planner, refiner, store, log)
	return handler.Router()
}

func TestHealthEndpoint(t *testing.T) {
	store := newMockStore()
	router := setupTestRouter(store, &mockPlanner{}, &mockRefiner{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	store.healthy = false
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 when the store is down, got %d", w.Code)
	}
}

func TestProcessActionEndpoint(t *testing.T) {
	store := newMockStore()
	router := setupTestRouter(store, &mockPlanner{}, &mockRefiner{})

	body, _ := json.Marshal(models.Action{
		Type: models.ActionMessage,
		Text: "Thinking about a trip to Kyoto with my partner in early November",
	})
	req, _ := http.NewRequest("POST", "/api/v1/sessions/s1/actions", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response services.ActionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Brief.Destination != "Kyoto" {
		t.Errorf("Expected destination Kyoto, got %q", response.Brief.Destination)
	}
	if store.sessions["s1"] == nil {
		t.Error("Expected the session to be persisted")
	}
}

func TestPlanEndpoint(t *testing.T) {
	store := newMockStore()
	planner := &mockPlanner{itinerary: models.Itinerary{Destination: "Kyoto", Days: []models.DayPlan{{Label: "Day 1"}}}}
	router := setupTestRouter(store, planner, &mockRefiner{})

	body, _ := json.Marshal(models.TripIntent{Destination: "Kyoto"})
	req, _ := http.NewRequest("POST", "/api/v1/plan", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var trip models.StoredTrip
	if err := json.Unmarshal(w.Body.Bytes(), &trip); err != nil {
		t.Fatalf("Failed to decode trip: %v", err)
	}
	if trip.ID == "" {
		t.Error("Expected a stored trip id")
	}
	if trip.Itinerary.Destination != "Kyoto" {
		t.Errorf("Expected the generated itinerary, got %q", trip.Itinerary.Destination)
	}
}

func TestPlanEndpointMapsValidationErrors(t *testing.T) {
	planner := &mockPlanner{err: models.ErrMissingDestination}
	router := setupTestRouter(newMockStore(), planner, &mockRefiner{})

	body, _ := json.Marshal(models.TripIntent{})
	req, _ := http.NewRequest("POST", "/api/v1/plan", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for a missing destination, got %d", w.Code)
	}
}

func TestPlanFromUnknownSession(t *testing.T) {
	router := setupTestRouter(newMockStore(), &mockPlanner{}, &mockRefiner{})

	req, _ := http.NewRequest("POST", "/api/v1/sessions/ghost/plan", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for an unknown session, got %d", w.Code)
	}
}

func TestRefineEndpointAcceptsEmptyFeedback(t *testing.T) {
	refiner := &mockRefiner{response: models.RefinerResponse{
		UpdatedDay: models.DayPlan{Label: "Day 1"},
	}}
	router := setupTestRouter(newMockStore(), &mockPlanner{}, refiner)

	// No feedback at all; the refiner supplies its generic fallback.
	body, _ := json.Marshal(models.RefinerRequest{Itinerary: models.Itinerary{Destination: "Kyoto"}})
	req, _ := http.NewRequest("POST", "/api/v1/refine", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for empty feedback, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRefineEndpoint(t *testing.T) {
	refiner := &mockRefiner{response: models.RefinerResponse{
		UpdatedDay: models.DayPlan{Label: "Day 2", Summary: "slower afternoon"},
	}}
	router := setupTestRouter(newMockStore(), &mockPlanner{}, refiner)

	body, _ := json.Marshal(models.RefinerRequest{
		Itinerary: models.Itinerary{Destination: "Kyoto"},
		Feedback:  "day two feels rushed",
	})
	req, _ := http.NewRequest("POST", "/api/v1/refine", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetTripEndpoint(t *testing.T) {
	store := newMockStore()
	store.trips["trip-1"] = &models.StoredTrip{ID: "trip-1", DisplayName: "Kyoto (3 days)"}
	router := setupTestRouter(store, &mockPlanner{}, &mockRefiner{})

	req, _ := http.NewRequest("GET", "/api/v1/trips/trip-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	req, _ = http.NewRequest("GET", "/api/v1/trips/ghost", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for an unknown trip, got %d", w.Code)
	}
}

func TestClearResearchCacheEndpoint(t *testing.T) {
	planner := &mockPlanner{}
	router := setupTestRouter(newMockStore(), planner, &mockRefiner{})

	req, _ := http.NewRequest("DELETE", "/api/v1/cache/research", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if planner.cleared != 1 {
		t.Errorf("Expected one cache clear, got %d", planner.cleared)
	}
}
