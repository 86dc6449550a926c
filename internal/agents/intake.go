package agents

import (
	"context"

	"tripweaver/internal/models"
	"tripweaver/internal/pkg/logger"
	"tripweaver/internal/schema"
)

// IntakeAgent structures free-form trip notes into a trip intent.
type IntakeAgent struct {
	gen Generator
	log *logger.Logger
}

const intakePromptVersion = "intake.v1"

const intakeSystemPrompt = "You are an expert travel planner capturing the intent for an upcoming trip. " +
	"Only respond with a JSON object that matches the TripIntent schema."

func NewIntakeAgent(gen Generator, log *logger.Logger) *IntakeAgent {
	return &IntakeAgent{gen: gen, log: log}
}

// Run extracts a structured trip intent from raw traveller notes.
func (agent *IntakeAgent) Run(ctx context.Context, freeText string) (models.TripIntent, error) {
	if freeText == "" {
		return models.TripIntent{}, models.NewValidationError("EMPTY_INTAKE", "free text is required for intake")
	}

	payload := map[string]interface{}{
		"free_text": freeText,
	}

	prompt := "Extract a complete TripIntent from the following intake information.\n" +
		"Fill in sensible defaults where details are missing, keeping interests aligned\n" +
		"to the traveller's requests.\n" +
		"\n# Intake Data\n" +
		formatPromptData(payload) +
		"\n\nEnsure destination, dates, pace, interests, and any constraints are clearly captured."

	return callAgent[models.TripIntent](ctx, agent.gen, agent.log, "intake", GenerationRequest{
		SystemPrompt:  intakeSystemPrompt,
		Prompt:        prompt,
		PromptVersion: intakePromptVersion,
	}, schema.NormalizeTripIntent)
}
