// Package agents holds the conversational and generation agents. Each agent
// owns its system prompt and prompt version; generation transport and place
// lookups are injected as interfaces.
package agents

import (
	"context"
	"encoding/json"
	"fmt"
)

// Generator abstracts the chat completion transport used by the
// generation-backed agents.
type Generator interface {
	Generate(ctx context.Context, request GenerationRequest) (string, error)
}

// GenerationRequest captures one prompt sent to the generation transport.
type GenerationRequest struct {
	SystemPrompt  string
	Prompt        string
	PromptVersion string
	Temperature   *float64
	ForceJSON     bool
}

// PlaceSearcher abstracts the place lookup collaborator.
type PlaceSearcher interface {
	FindPlaces(ctx context.Context, query string) ([]PlaceSummary, error)
	PlaceDetails(ctx context.Context, placeID string) (map[string]interface{}, error)
}

// PlaceSummary is the minimal search result needed to drive detail lookups.
type PlaceSummary struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name,omitempty"`
}

// formatPromptData renders arbitrary data for inclusion in a prompt.
func formatPromptData(data interface{}) string {
	rendered, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(rendered)
}
