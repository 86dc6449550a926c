package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"tripweaver/internal/agents"
	"tripweaver/internal/models"
	"tripweaver/internal/pkg/logger"
)

// SessionStore persists conversation state between traveller actions.
type SessionStore interface {
	LoadSession(ctx context.Context, sessionID string) (*models.ConversationState, error)
	SaveSession(ctx context.Context, state *models.ConversationState) error
}

// ActionResponse is the full outcome of processing one traveller action.
type ActionResponse struct {
	UserMessage     string                  `json:"user_message"`
	ReplyLines      []string                `json:"reply_lines"`
	CallToAction    string                  `json:"call_to_action,omitempty"`
	Clarifier       *agents.ClarifierPrompt `json:"clarifier,omitempty"`
	Brief           models.TripBrief        `json:"brief"`
	PendingFields   []string                `json:"pending_fields,omitempty"`
	ReadyToPlan     bool                    `json:"ready_to_plan"`
	TriggerPlanning bool                    `json:"trigger_planning"`
}

// ConversationService drives the slot-filling dialogue: every traveller
// action passes through the listener, updates the sticky brief, and either
// earns a clarifying follow-up or opens the gate to planning.
type ConversationService struct {
	listener  *agents.Listener
	clarifier *agents.Clarifier
	curator   *agents.Curator
	store     SessionStore
	logger    *logger.Logger
}

func NewConversationService(store SessionStore, log *logger.Logger) *ConversationService {
	return &ConversationService{
		listener:  &agents.Listener{},
		clarifier: &agents.Clarifier{},
		curator:   &agents.Curator{},
		store:     store,
		logger:    log,
	}
}

// ProcessAction interprets one traveller action for the session and returns
// the conversational response alongside the refreshed brief.
func (service *ConversationService) ProcessAction(ctx context.Context, sessionID string, action models.Action) (*ActionResponse, error) {
	start := time.Now()

	state, err := service.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = models.NewConversationState(sessionID)
	}

	result := service.listener.Run(action, state.Context, state.PendingFields)
	merged := agents.MergeContext(state.Context, result.Updates)

	memory := agents.NewTripBriefMemoryFrom(state.Brief)
	brief := memory.Update(merged)

	state.Context = merged
	state.Brief = brief
	state.PendingFields = result.MissingContext
	state.AddMessage("user", result.UserMessage)

	draft := service.curator.Run(result, merged)

	response := &ActionResponse{
		UserMessage:     result.UserMessage,
		ReplyLines:      draft.Lines,
		CallToAction:    draft.CallToAction,
		Brief:           brief,
		PendingFields:   result.MissingContext,
		ReadyToPlan:     agents.ReadyForPlanning(merged),
		TriggerPlanning: result.TriggerPlanning,
	}

	assistantLines := append([]string(nil), draft.Lines...)
	if len(result.MissingContext) > 0 {
		prompt := service.clarifier.Run(result.MissingContext)
		response.Clarifier = &prompt
		assistantLines = append(assistantLines, prompt.Chunks()...)
	}
	state.AddMessage("assistant", strings.Join(assistantLines, "\n"))

	if err := service.store.SaveSession(ctx, state); err != nil {
		return nil, err
	}

	service.logger.LogAgent(sessionID, "listener", "process_action", time.Since(start), logger.Fields{
		"action_type":      result.ActionType,
		"resolved_fields":  result.ResolvedFields,
		"missing_context":  result.MissingContext,
		"trigger_planning": result.TriggerPlanning,
		"ready_to_plan":    response.ReadyToPlan,
	}, nil)

	return response, nil
}

// BuildTripIntent assembles the pipeline input from a completed session
// context. Interests blend vibes with curated card categories, saved picks
// become must-do anchors, and timing plus group details fold into notes.
func (service *ConversationService) BuildTripIntent(state *models.ConversationState) (models.TripIntent, error) {
	context := state.Context

	destination := strings.TrimSpace(context.Destination)
	if destination == "" {
		return models.TripIntent{}, models.ErrMissingDestination
	}

	durationDays := 0
	if start, err := time.Parse("2006-01-02", context.StartDate); err == nil {
		if end, err := time.Parse("2006-01-02", context.EndDate); err == nil && !end.Before(start) {
			durationDays = int(end.Sub(start).Hours()/24) + 1
		}
	}

	saved, liked := collectInspirations(context)

	interests := append([]string(nil), context.Vibes...)
	for _, inspiration := range append(append([]models.Inspiration(nil), saved...), liked...) {
		if inspiration.Category != "" {
			interests = append(interests, inspiration.Category)
		}
	}
	for _, inspiration := range saved {
		if inspiration.Title != "" {
			interests = append(interests, inspiration.Title)
		}
	}
	interests = lo.Uniq(interests)

	mustDo := lo.Uniq(lo.FilterMap(saved, func(inspiration models.Inspiration, _ int) (string, bool) {
		title := inspiration.Title
		if title == "" {
			title = inspiration.ID
		}
		return title, title != ""
	}))
	sort.Strings(mustDo)

	var noteSegments []string
	if len(context.FlexibleMonths) > 0 {
		months := lo.Map(context.FlexibleMonths, func(month string, _ int) string {
			if parsed, err := time.Parse("2006-01-02", month); err == nil {
				return parsed.Format("January 2006")
			}
			return month
		})
		noteSegments = append(noteSegments, "Flexible timing: "+strings.Join(months, ", "))
	}
	if timing := strings.TrimSpace(context.TimingNote); timing != "" {
		noteSegments = append(noteSegments, "Timing note: "+timing)
	}
	if context.GroupType != "" {
		size := context.GroupSize
		if size == 0 {
			size = 1
		}
		noteSegments = append(noteSegments, fmt.Sprintf("Group: %s (%d travellers)", context.GroupType, size))
	}
	if len(context.PersonalEvents) > 0 {
		noteSegments = append(noteSegments, "Personal additions: "+strings.Join(context.PersonalEvents, "; "))
	}
	if notes := strings.TrimSpace(context.Notes); notes != "" {
		noteSegments = append(noteSegments, notes)
	}

	return models.TripIntent{
		Destination:       destination,
		StartDate:         context.StartDate,
		EndDate:           context.EndDate,
		DurationDays:      durationDays,
		TravelPace:        context.TravelPace,
		Budget:            context.Budget,
		Mood:              context.Mood,
		Interests:         interests,
		Notes:             strings.Join(noteSegments, "\n"),
		MustDo:            mustDo,
		SavedInspirations: saved,
		LikedInspirations: liked,
	}, nil
}

// collectInspirations resolves liked and saved card ids against the session
// catalog, deduplicating ids across both lists with saved picks winning.
func collectInspirations(context models.PlanContext) (saved, liked []models.Inspiration) {
	seen := map[string]bool{}

	resolve := func(ids []string) []models.Inspiration {
		var inspirations []models.Inspiration
		for _, id := range ids {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true

			inspiration := models.Inspiration{ID: id}
			if card, known := context.Catalog[id]; known {
				inspiration.Title = card.Title
				inspiration.Category = card.Category
				inspiration.LocationHint = card.LocationHint
				inspiration.Priority = card.Priority
			}
			inspirations = append(inspirations, inspiration)
		}
		return inspirations
	}

	saved = resolve(context.SavedCards)
	liked = resolve(context.LikedCards)
	return saved, liked
}
