package agents

import (
	"context"
	"strings"

	"tripweaver/internal/models"
	"tripweaver/internal/pkg/logger"
	"tripweaver/internal/schema"
)

// PlannerAgent assembles a multi-day itinerary from curated places.
type PlannerAgent struct {
	gen Generator
	log *logger.Logger
}

const plannerPromptVersion = "planner.v1"

const plannerSystemPrompt = "You are a meticulous travel planner. Create a paced itinerary that respects " +
	"opening hours and reasonable travel distances. Provide chronologically ordered " +
	"events that include start_time, end_time when possible, duration_minutes, location, " +
	"and a brief justification. Use the event category field to denote the slot " +
	"(wake_up, breakfast, morning_activity, snack_morning, lunch, afternoon_activity, " +
	"snack_afternoon, dinner, evening_activity). Respond with JSON conforming to the " +
	"Itinerary schema."

func NewPlannerAgent(gen Generator, log *logger.Logger) *PlannerAgent {
	return &PlannerAgent{gen: gen, log: log}
}

// Run returns an itinerary honouring the traveller's intent, taste profile,
// and curated inspirations.
func (agent *PlannerAgent) Run(
	ctx context.Context,
	intent models.TripIntent,
	taste models.TasteProfile,
	corpus models.ResearchCorpus,
) (models.Itinerary, error) {
	payload := map[string]interface{}{
		"trip_intent":   intent,
		"taste_profile": taste,
		"research":      corpus,
	}

	if len(intent.SavedInspirations) > 0 || len(intent.LikedInspirations) > 0 {
		payload["traveler_selected_activities"] = map[string]interface{}{
			"saved": intent.SavedInspirations,
			"liked": intent.LikedInspirations,
		}
	}

	var guidance []string
	if len(intent.SavedInspirations) > 0 {
		guidance = append(guidance,
			"Treat saved inspirations as anchor experiences that must appear in the itinerary.")
	}
	if len(intent.LikedInspirations) > 0 {
		guidance = append(guidance,
			"Use liked inspirations to influence supporting slots: include them when possible or weave their themes into nearby moments.")
	}

	prompt := "Design a day-by-day itinerary that balances activity pace, observes opening hours, " +
		"and minimises unnecessary backtracking.\n" +
		"For each day, produce a cohesive theme (store this in the day summary) and a full " +
		"schedule covering wake-up, breakfast, morning activity, optional morning snack, " +
		"lunch, afternoon activity, optional afternoon snack, dinner, and optional evening " +
		"activity.\n" +
		"Populate each itinerary event with: category (one of the slots listed above), " +
		"start_time in 24-hour HH:MM format, duration_minutes, end_time when known, a " +
		"clear title, the location or place_id, and a short justification explaining why " +
		"it suits the traveller preferences.\n" +
		"If a researched place aligns, reference it by place_id; otherwise include a free-" +
		"text location. Keep meal stops distinctive from activities.\n" +
		"\n# Planning Context\n" +
		formatPromptData(payload) +
		"\n\nOutput must validate against the Itinerary schema."

	if len(guidance) > 0 {
		prompt += "\n# Traveller curated inspirations\n" + strings.Join(guidance, "\n") + "\n"
	}

	itinerary, err := callAgent[models.Itinerary](ctx, agent.gen, agent.log, "planner", GenerationRequest{
		SystemPrompt:  plannerSystemPrompt,
		Prompt:        prompt,
		PromptVersion: plannerPromptVersion,
	}, schema.NormalizeItinerary)
	if err != nil {
		return models.Itinerary{}, err
	}

	if itinerary.Destination == "" {
		itinerary.Destination = intent.Destination
	}

	lookup := buildCorpusLookup(corpus)
	for _, ranked := range taste.Items() {
		if ranked.Place != nil && ranked.Place.PlaceID != "" {
			lookup[ranked.Place.PlaceID] = *ranked.Place
		}
	}
	models.AttachPlaces(lookup, nil, nil, &itinerary)

	return itinerary, nil
}
