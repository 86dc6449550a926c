package agents

import (
	"context"
	"fmt"

	"tripweaver/internal/models"
	"tripweaver/internal/pkg/logger"
	"tripweaver/internal/schema"
)

// ResearcherAgent curates lodging, dining, and experience options for a
// trip by combining place search results with a generation pass.
type ResearcherAgent struct {
	gen                   Generator
	places                PlaceSearcher
	log                   *logger.Logger
	maxResultsPerCategory int
}

const researcherPromptVersion = "researcher.v1"

const researcherSystemPrompt = "You are a travel researcher. Categorise each place into the correct bucket " +
	"and describe why it suits the trip. Only emit JSON that matches the ResearchCorpus schema."

func NewResearcherAgent(gen Generator, places PlaceSearcher, log *logger.Logger) *ResearcherAgent {
	return &ResearcherAgent{
		gen:                   gen,
		places:                places,
		log:                   log,
		maxResultsPerCategory: 5,
	}
}

func (agent *ResearcherAgent) buildQueries(intent models.TripIntent) map[string][]string {
	destination := intent.Destination

	experienceQueries := []string{fmt.Sprintf("things to do %s", destination)}
	for _, interest := range intent.Interests {
		experienceQueries = append(experienceQueries, fmt.Sprintf("%s %s", destination, interest))
	}

	return map[string][]string{
		"lodgings": {
			fmt.Sprintf("best hotels in %s", destination),
			fmt.Sprintf("unique stays %s", destination),
		},
		"dining": {
			fmt.Sprintf("top restaurants %s", destination),
			fmt.Sprintf("must try food %s", destination),
		},
		"experiences": experienceQueries,
	}
}

// gatherPlaces runs the category queries, deduplicating by place id across
// every category and capping each category's detail lookups.
func (agent *ResearcherAgent) gatherPlaces(ctx context.Context, queries map[string][]string) (map[string][]map[string]interface{}, error) {
	aggregated := map[string][]map[string]interface{}{}
	seen := map[string]bool{}

	for _, category := range []string{"lodgings", "dining", "experiences"} {
		for _, query := range queries[category] {
			results, err := agent.places.FindPlaces(ctx, query)
			if err != nil {
				agent.log.WithError(err).Warn("Place search failed, continuing with remaining queries",
					"query", query,
					"category", category,
				)
				continue
			}
			for _, result := range results {
				if result.PlaceID == "" || seen[result.PlaceID] {
					continue
				}
				seen[result.PlaceID] = true

				details, err := agent.places.PlaceDetails(ctx, result.PlaceID)
				if err != nil {
					agent.log.WithError(err).Warn("Place details lookup failed",
						"place_id", result.PlaceID,
					)
					continue
				}
				aggregated[category] = append(aggregated[category], details)

				if len(aggregated[category]) >= agent.maxResultsPerCategory {
					break
				}
			}
			if len(aggregated[category]) >= agent.maxResultsPerCategory {
				break
			}
		}
	}

	return aggregated, nil
}

// formatPlaceDetails upgrades raw place payloads into canonical records for
// the prompt; payloads that fail decoding are passed through untouched so
// the generation pass can still consider them.
func (agent *ResearcherAgent) formatPlaceDetails(rawPlaces []map[string]interface{}) []interface{} {
	formatted := make([]interface{}, 0, len(rawPlaces))
	for _, raw := range rawPlaces {
		place, err := schema.DecodePlace(raw)
		if err != nil {
			formatted = append(formatted, raw)
			continue
		}
		formatted = append(formatted, place)
	}
	return formatted
}

// Run returns a research corpus tailored to the trip intent.
func (agent *ResearcherAgent) Run(ctx context.Context, intent models.TripIntent) (models.ResearchCorpus, error) {
	if intent.Destination == "" {
		return models.ResearchCorpus{}, models.ErrMissingDestination
	}

	queries := agent.buildQueries(intent)
	rawPlaces, err := agent.gatherPlaces(ctx, queries)
	if err != nil {
		return models.ResearchCorpus{}, models.WrapExternalError("places", err)
	}

	promptPlaces := map[string]interface{}{}
	for category, details := range rawPlaces {
		promptPlaces[category] = agent.formatPlaceDetails(details)
	}

	prompt := "Given the following trip intent and researched place data, " +
		"select the most relevant options for lodging, dining, and experiences.\n" +
		"Provide concise summaries, highlights, and tags that connect the place to " +
		"the traveller's stated interests.\n" +
		"\n# Research Context\n" +
		formatPromptData(map[string]interface{}{
			"trip_intent": intent,
			"places":      promptPlaces,
		}) +
		"\n\nRespond with JSON adhering to the ResearchCorpus schema."

	corpus, err := callAgent[models.ResearchCorpus](ctx, agent.gen, agent.log, "researcher", GenerationRequest{
		SystemPrompt:  researcherSystemPrompt,
		Prompt:        prompt,
		PromptVersion: researcherPromptVersion,
	}, schema.NormalizeResearchCorpus)
	if err != nil {
		return models.ResearchCorpus{}, err
	}

	lookup := map[string]models.Place{}
	for _, categoryPlaces := range rawPlaces {
		for _, raw := range categoryPlaces {
			place, decodeErr := schema.DecodePlace(raw)
			if decodeErr != nil || place.PlaceID == "" {
				continue
			}
			lookup[place.PlaceID] = place
		}
	}
	models.AttachPlaces(lookup, corpus.Items(), nil, nil)

	return corpus, nil
}
