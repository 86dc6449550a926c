package models

import (
	"strings"
	"time"
)

// ActivityCard is one selectable experience card surfaced by the gallery.
// The catalog itself lives outside this core; the card payload is kept so
// the brief and trip intent can recover titles and categories from ids.
type ActivityCard struct {
	ID           string `json:"id"`
	Title        string `json:"title,omitempty"`
	Category     string `json:"category,omitempty"`
	LocationHint string `json:"location_hint,omitempty"`
	Priority     string `json:"priority,omitempty"`
}

// Action is one user action record supplied by the UI collaborator.
type Action struct {
	Type string        `json:"type"`
	Text string        `json:"text,omitempty"`
	Card *ActivityCard `json:"card,omitempty"`
}

const (
	ActionMessage      = "message"
	ActionLikeActivity = "like_activity"
	ActionSaveActivity = "save_activity"
	ActionUnlike       = "unlike_activity"
	ActionUnsave       = "unsave_activity"
)

// Message is one entry in the conversation log.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// PlanContext is the raw accumulated planning context for one session. The
// listener never mutates a shared instance; merges produce a new snapshot.
type PlanContext struct {
	Destination    string                  `json:"destination,omitempty"`
	TimingNote     string                  `json:"timing_note,omitempty"`
	StartDate      string                  `json:"start_date,omitempty"`
	EndDate        string                  `json:"end_date,omitempty"`
	FlexibleMonths []string                `json:"flexible_months,omitempty"`
	Vibes          []string                `json:"vibe,omitempty"`
	TravelPace     string                  `json:"travel_pace,omitempty"`
	Budget         string                  `json:"budget,omitempty"`
	GroupType      string                  `json:"group_type,omitempty"`
	GroupSize      int                     `json:"group_size,omitempty"`
	Mood           string                  `json:"mood,omitempty"`
	Occasion       string                  `json:"occasion,omitempty"`
	Notes          string                  `json:"notes,omitempty"`
	PersonalEvents []string                `json:"personal_events,omitempty"`
	LikedCards     []string                `json:"liked_cards,omitempty"`
	SavedCards     []string                `json:"saved_cards,omitempty"`
	Catalog        map[string]ActivityCard `json:"activity_catalog,omitempty"`
}

// Clone returns a deep copy so merged snapshots never share slices or maps
// with the input context.
func (c PlanContext) Clone() PlanContext {
	cloned := c
	cloned.FlexibleMonths = append([]string(nil), c.FlexibleMonths...)
	cloned.Vibes = append([]string(nil), c.Vibes...)
	cloned.PersonalEvents = append([]string(nil), c.PersonalEvents...)
	cloned.LikedCards = append([]string(nil), c.LikedCards...)
	cloned.SavedCards = append([]string(nil), c.SavedCards...)
	if c.Catalog != nil {
		cloned.Catalog = make(map[string]ActivityCard, len(c.Catalog))
		for id, card := range c.Catalog {
			cloned.Catalog[id] = card
		}
	}
	return cloned
}

// AppendNotes folds one more free-text note into the running notes blob.
func (c *PlanContext) AppendNotes(text string) {
	addition := strings.TrimSpace(text)
	if addition == "" {
		return
	}
	existing := strings.TrimSpace(c.Notes)
	if existing == "" {
		c.Notes = addition
		return
	}
	c.Notes = existing + "\n" + addition
}

// ContextUpdate carries the field updates one listener pass detected. Empty
// values mean "no signal"; the sticky merge never clears a field.
type ContextUpdate struct {
	NotesAppend      string                  `json:"notes_append,omitempty"`
	Destination      string                  `json:"destination,omitempty"`
	TimingNote       string                  `json:"timing_note,omitempty"`
	VibeAdd          []string                `json:"vibe_add,omitempty"`
	TravelPace       string                  `json:"travel_pace,omitempty"`
	Budget           string                  `json:"budget,omitempty"`
	GroupType        string                  `json:"group_type,omitempty"`
	GroupSize        int                     `json:"group_size,omitempty"`
	Mood             string                  `json:"mood,omitempty"`
	LikedCardsAdd    []string                `json:"liked_cards_add,omitempty"`
	LikedCardsRemove []string                `json:"liked_cards_remove,omitempty"`
	SavedCardsAdd    []string                `json:"saved_cards_add,omitempty"`
	SavedCardsRemove []string                `json:"saved_cards_remove,omitempty"`
	Catalog          map[string]ActivityCard `json:"activity_catalog,omitempty"`
}

// ConversationState holds everything one planning session accumulates.
type ConversationState struct {
	SessionID     string      `json:"session_id"`
	Messages      []Message   `json:"messages"`
	PendingFields []string    `json:"pending_fields,omitempty"`
	Context       PlanContext `json:"context"`
	Brief         TripBrief   `json:"brief"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func NewConversationState(sessionID string) *ConversationState {
	return &ConversationState{
		SessionID: sessionID,
		Messages:  []Message{},
		UpdatedAt: time.Now(),
	}
}

func (state *ConversationState) AddMessage(role, content string) {
	state.Messages = append(state.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	state.UpdatedAt = time.Now()
}
