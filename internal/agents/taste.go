package agents

import (
	"context"

	"tripweaver/internal/models"
	"tripweaver/internal/pkg/logger"
	"tripweaver/internal/schema"
)

// TasteAgent scores researched places into prioritised recommendations.
type TasteAgent struct {
	gen Generator
	log *logger.Logger
}

const tastePromptVersion = "taste.v1"

const tasteSystemPrompt = "You are a seasoned travel curator. Score the researched places and explain why " +
	"they align with the traveller's interests. Respond with JSON that matches the " +
	"TasteProfile schema."

func NewTasteAgent(gen Generator, log *logger.Logger) *TasteAgent {
	return &TasteAgent{gen: gen, log: log}
}

func buildCorpusLookup(corpus models.ResearchCorpus) map[string]models.Place {
	lookup := map[string]models.Place{}
	for _, item := range corpus.Items() {
		if item.Place != nil && item.Place.PlaceID != "" {
			lookup[item.Place.PlaceID] = *item.Place
		}
	}
	return lookup
}

// Run returns a taste profile aligned with the trip intent.
func (agent *TasteAgent) Run(ctx context.Context, intent models.TripIntent, corpus models.ResearchCorpus) (models.TasteProfile, error) {
	prompt := "Given the trip intent and researched options, rank the places.\n" +
		"Provide scores between 0 and 1, articulate rationales, and ensure the tags " +
		"map back to the traveller's stated interests or constraints.\n" +
		"\n# Context\n" +
		formatPromptData(map[string]interface{}{
			"trip_intent": intent,
			"research":    corpus,
		}) +
		"\n\nReturn JSON that validates against the TasteProfile schema."

	profile, err := callAgent[models.TasteProfile](ctx, agent.gen, agent.log, "taste", GenerationRequest{
		SystemPrompt:  tasteSystemPrompt,
		Prompt:        prompt,
		PromptVersion: tastePromptVersion,
	}, schema.NormalizeTasteProfile)
	if err != nil {
		return models.TasteProfile{}, err
	}

	models.AttachPlaces(buildCorpusLookup(corpus), nil, profile.Items(), nil)
	return profile, nil
}
