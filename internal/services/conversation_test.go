package services

import (
	"context"
	"strings"
	"testing"

	"tripweaver/internal/models"
)

// memorySessionStore keeps sessions in a map for tests.
type memorySessionStore struct {
	sessions map[string]*models.ConversationState
	saves    int
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: map[string]*models.ConversationState{}}
}

func (store *memorySessionStore) LoadSession(ctx context.Context, sessionID string) (*models.ConversationState, error) {
	return store.sessions[sessionID], nil
}

func (store *memorySessionStore) SaveSession(ctx context.Context, state *models.ConversationState) error {
	store.saves++
	store.sessions[state.SessionID] = state
	return nil
}

func TestProcessActionFirstMessage(t *testing.T) {
	store := newMemorySessionStore()
	service := NewConversationService(store, testLogger())

	response, err := service.ProcessAction(context.Background(), "s1", models.Action{
		Type: models.ActionMessage,
		Text: "Thinking about a romantic trip to Kyoto with my partner in early November",
	})
	if err != nil {
		t.Fatalf("ProcessAction failed: %v", err)
	}

	if response.Brief.Destination != "Kyoto" {
		t.Errorf("expected destination Kyoto, got %q", response.Brief.Destination)
	}
	if response.ReadyToPlan {
		t.Error("a single message should not satisfy the readiness gate")
	}
	if response.Clarifier == nil {
		t.Fatal("missing fields should produce a clarifier prompt")
	}
	if len(response.PendingFields) == 0 {
		t.Fatal("expected pending fields for an incomplete context")
	}
	if response.TriggerPlanning {
		t.Error("messages never trigger planning")
	}

	state := store.sessions["s1"]
	if state == nil {
		t.Fatal("session should be persisted")
	}
	if len(state.Messages) != 2 {
		t.Fatalf("expected user plus assistant messages, got %d", len(state.Messages))
	}
	if state.Messages[0].Role != "user" || state.Messages[1].Role != "assistant" {
		t.Errorf("unexpected message roles %q, %q", state.Messages[0].Role, state.Messages[1].Role)
	}
	if len(state.PendingFields) == 0 {
		t.Error("pending fields should be remembered for the next turn")
	}
}

func TestProcessActionKeepsContextSticky(t *testing.T) {
	store := newMemorySessionStore()
	service := NewConversationService(store, testLogger())
	ctx := context.Background()

	if _, err := service.ProcessAction(ctx, "s1", models.Action{
		Type: models.ActionMessage,
		Text: "Thinking about a trip to Kyoto with my partner in early November",
	}); err != nil {
		t.Fatalf("first action failed: %v", err)
	}

	response, err := service.ProcessAction(ctx, "s1", models.Action{
		Type: models.ActionMessage,
		Text: "Keep it laid back and splurge on great food",
	})
	if err != nil {
		t.Fatalf("second action failed: %v", err)
	}

	if response.Brief.Destination != "Kyoto" {
		t.Errorf("destination should survive later turns, got %q", response.Brief.Destination)
	}
	if response.Brief.TravelPace != "Laid back" {
		t.Errorf("expected Laid back pace, got %q", response.Brief.TravelPace)
	}
	if response.Brief.Budget != "Splurge" {
		t.Errorf("expected Splurge budget, got %q", response.Brief.Budget)
	}
	if !response.ReadyToPlan {
		t.Errorf("context should be complete, pending %v", response.PendingFields)
	}
	if response.Clarifier != nil {
		t.Error("a complete context should not produce a clarifier")
	}
}

func TestProcessActionCardTriggersPlanning(t *testing.T) {
	store := newMemorySessionStore()
	service := NewConversationService(store, testLogger())

	response, err := service.ProcessAction(context.Background(), "s1", models.Action{
		Type: models.ActionSaveActivity,
		Card: &models.ActivityCard{ID: "c1", Title: "Tea ceremony", Category: "culture"},
	})
	if err != nil {
		t.Fatalf("ProcessAction failed: %v", err)
	}
	if !response.TriggerPlanning {
		t.Error("saving a card should trigger planning")
	}
	if !strings.Contains(response.UserMessage, "Tea ceremony") {
		t.Errorf("card title should appear in the echoed action, got %q", response.UserMessage)
	}

	state := store.sessions["s1"]
	if len(state.Context.SavedCards) != 1 || state.Context.SavedCards[0] != "c1" {
		t.Errorf("saved card id should be persisted, got %v", state.Context.SavedCards)
	}
	if _, known := state.Context.Catalog["c1"]; !known {
		t.Error("card payload should be folded into the session catalog")
	}
}

func completeState(t *testing.T) *models.ConversationState {
	t.Helper()
	state := models.NewConversationState("s1")
	state.Context = models.PlanContext{
		Destination: "Kyoto",
		StartDate:   "2026-11-02",
		EndDate:     "2026-11-06",
		Vibes:       []string{"culinary", "romantic"},
		TravelPace:  "Laid back",
		Budget:      "Splurge",
		GroupType:   "couple",
		GroupSize:   2,
		TimingNote:  "early November",
		Notes:       "celebrating our anniversary",
		SavedCards:  []string{"c1"},
		LikedCards:  []string{"c1", "c2"},
		Catalog: map[string]models.ActivityCard{
			"c1": {ID: "c1", Title: "Tea ceremony", Category: "culture"},
			"c2": {ID: "c2", Title: "Night market crawl", Category: "food"},
		},
	}
	return state
}

func TestBuildTripIntent(t *testing.T) {
	service := NewConversationService(newMemorySessionStore(), testLogger())

	intent, err := service.BuildTripIntent(completeState(t))
	if err != nil {
		t.Fatalf("BuildTripIntent failed: %v", err)
	}

	if intent.Destination != "Kyoto" {
		t.Errorf("unexpected destination %q", intent.Destination)
	}
	if intent.DurationDays != 5 {
		t.Errorf("inclusive date range should yield 5 days, got %d", intent.DurationDays)
	}
	if intent.TravelPace != "Laid back" || intent.Budget != "Splurge" {
		t.Errorf("pace and budget should carry over, got %q/%q", intent.TravelPace, intent.Budget)
	}

	wantInterests := map[string]bool{"culinary": true, "romantic": true, "culture": true, "food": true, "Tea ceremony": true}
	if len(intent.Interests) != len(wantInterests) {
		t.Errorf("expected %d unique interests, got %v", len(wantInterests), intent.Interests)
	}
	for _, interest := range intent.Interests {
		if !wantInterests[interest] {
			t.Errorf("unexpected interest %q", interest)
		}
	}

	if len(intent.MustDo) != 1 || intent.MustDo[0] != "Tea ceremony" {
		t.Errorf("saved picks should become must-do anchors, got %v", intent.MustDo)
	}

	if len(intent.SavedInspirations) != 1 || intent.SavedInspirations[0].ID != "c1" {
		t.Errorf("unexpected saved inspirations %v", intent.SavedInspirations)
	}
	if len(intent.LikedInspirations) != 1 || intent.LikedInspirations[0].ID != "c2" {
		t.Errorf("saved ids must win over liked duplicates, got %v", intent.LikedInspirations)
	}

	for _, segment := range []string{"Timing note: early November", "Group: couple (2 travellers)", "celebrating our anniversary"} {
		if !strings.Contains(intent.Notes, segment) {
			t.Errorf("notes should contain %q, got %q", segment, intent.Notes)
		}
	}
}

func TestBuildTripIntentFlexibleMonths(t *testing.T) {
	service := NewConversationService(newMemorySessionStore(), testLogger())
	state := models.NewConversationState("s1")
	state.Context = models.PlanContext{
		Destination:    "Lisbon",
		FlexibleMonths: []string{"2026-09-01", "late autumn"},
	}

	intent, err := service.BuildTripIntent(state)
	if err != nil {
		t.Fatalf("BuildTripIntent failed: %v", err)
	}
	if !strings.Contains(intent.Notes, "Flexible timing: September 2026, late autumn") {
		t.Errorf("flexible months should be rendered into notes, got %q", intent.Notes)
	}
	if intent.DurationDays != 0 {
		t.Errorf("no dates means no duration, got %d", intent.DurationDays)
	}
}

func TestBuildTripIntentRequiresDestination(t *testing.T) {
	service := NewConversationService(newMemorySessionStore(), testLogger())
	state := models.NewConversationState("s1")

	if _, err := service.BuildTripIntent(state); err != models.ErrMissingDestination {
		t.Fatalf("expected ErrMissingDestination, got %v", err)
	}
}
