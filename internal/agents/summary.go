package agents

import (
	"context"

	"tripweaver/internal/models"
	"tripweaver/internal/pkg/logger"
	"tripweaver/internal/schema"
)

// SummaryAgent produces a short HTML overview of an itinerary.
type SummaryAgent struct {
	gen Generator
	log *logger.Logger
}

const summaryPromptVersion = "summary.v1"

const summarySystemPrompt = "You are a copywriter for a travel service. Summarise the itinerary in an engaging " +
	"yet concise way using HTML paragraphs and lists. Respond with JSON containing only an " +
	"'html' field."

func NewSummaryAgent(gen Generator, log *logger.Logger) *SummaryAgent {
	return &SummaryAgent{gen: gen, log: log}
}

// Run returns an HTML summary for the supplied itinerary.
func (agent *SummaryAgent) Run(ctx context.Context, itinerary models.Itinerary) (string, error) {
	prompt := "Create a short but vivid summary of the itinerary suitable for a trip overview.\n" +
		"Use friendly language, highlight each day's focus, and keep the output under 1200 characters.\n" +
		"\n# Itinerary\n" +
		formatPromptData(itinerary) +
		"\n\nRespond with JSON containing a single 'html' string."

	summary, err := callAgent[models.ItinerarySummary](ctx, agent.gen, agent.log, "summary", GenerationRequest{
		SystemPrompt:  summarySystemPrompt,
		Prompt:        prompt,
		PromptVersion: summaryPromptVersion,
	}, schema.NormalizeSummary)
	if err != nil {
		return "", err
	}
	return summary.HTML, nil
}
