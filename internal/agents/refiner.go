package agents

import (
	"context"
	"fmt"
	"strings"

	"tripweaver/internal/models"
	"tripweaver/internal/pkg/logger"
	"tripweaver/internal/schema"
)

// RefinerAgent adjusts one itinerary day in response to traveller feedback.
type RefinerAgent struct {
	gen Generator
	log *logger.Logger
}

const refinerPromptVersion = "refiner.v1"

const refinerSystemPrompt = "You refine travel plans. Update the specified day to address the traveller's feedback " +
	"while keeping the overall itinerary coherent. Only return JSON that conforms to the " +
	"RefinerResponse schema."

func NewRefinerAgent(gen Generator, log *logger.Logger) *RefinerAgent {
	return &RefinerAgent{gen: gen, log: log}
}

func buildEventLookup(itineraries ...*models.Itinerary) map[string]models.Place {
	lookup := map[string]models.Place{}
	for _, itinerary := range itineraries {
		if itinerary == nil {
			continue
		}
		for _, event := range itinerary.AllEvents() {
			if event.Place != nil && event.Place.PlaceID != "" {
				lookup[event.Place.PlaceID] = *event.Place
			}
		}
	}
	return lookup
}

const genericSwapGuidance = "Suggest something different."

// composeFeedback turns raw traveller guidance into the feedback the model
// sees. Swap requests name the activity being replaced; empty guidance falls
// back to a generic ask instead of an empty instruction.
func composeFeedback(request models.RefinerRequest) string {
	guidance := strings.TrimSpace(request.Feedback)

	if target := request.SwapTarget(); target != "" {
		base := fmt.Sprintf("Please replace the activity '%s'.", target)
		if guidance == "" {
			guidance = genericSwapGuidance
		}
		return base + " " + guidance
	}

	if guidance == "" {
		return genericSwapGuidance
	}
	return guidance
}

// Run returns a refiner response honouring the provided feedback. Places
// already attached to either itinerary are carried over; additionalPlaces
// can widen the lookup for events introduced by the refinement.
func (agent *RefinerAgent) Run(
	ctx context.Context,
	request models.RefinerRequest,
	additionalPlaces map[string]models.Place,
) (models.RefinerResponse, error) {
	request.Feedback = composeFeedback(request)

	prompt := "Using the supplied feedback, adjust only the specified day of the itinerary.\n" +
		"Maintain logical pacing, avoid duplicate activities across the trip, and respect " +
		"any constraints.\n" +
		"\n# Refinement Context\n" +
		formatPromptData(map[string]interface{}{
			"request": request,
		}) +
		"\n\nReturn JSON validating against the RefinerResponse schema."

	response, err := callAgent[models.RefinerResponse](ctx, agent.gen, agent.log, "refiner", GenerationRequest{
		SystemPrompt:  refinerSystemPrompt,
		Prompt:        prompt,
		PromptVersion: refinerPromptVersion,
	}, schema.NormalizeRefinerResponse)
	if err != nil {
		return models.RefinerResponse{}, err
	}

	response.EnsureConsistency(request.DayIndex)

	lookup := buildEventLookup(&request.Itinerary, &response.Itinerary)
	for id, place := range additionalPlaces {
		lookup[id] = place
	}
	models.AttachPlaces(lookup, nil, nil, &response.Itinerary)

	return response, nil
}
