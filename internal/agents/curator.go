package agents

import (
	"fmt"
	"sort"
	"strings"

	"tripweaver/internal/models"
)

// CuratorDraft is the narrative scaffold assembled for one traveller action.
type CuratorDraft struct {
	Lines        []string `json:"lines"`
	CallToAction string   `json:"call_to_action,omitempty"`
}

// Curator turns structured listener results into conversational copy.
type Curator struct{}

// Run composes a short response acknowledging what the listener captured.
func (curator *Curator) Run(result ListenerResult, context models.PlanContext) CuratorDraft {
	destination := strings.TrimSpace(context.Destination)
	if destination == "" {
		destination = "your trip"
	}

	var lines []string

	switch result.ActionType {
	case models.ActionMessage:
		switch {
		case result.Updates.Destination != "":
			lines = append(lines, fmt.Sprintf("%s is where the reel lights up. I'll build the next act around that skyline.", destination))
		case len(result.Updates.VibeAdd) > 0:
			vibes := append([]string(nil), result.Updates.VibeAdd...)
			sort.Strings(vibes)
			var chips []string
			for _, vibe := range vibes {
				chips = append(chips, "`"+vibe+"`")
			}
			lines = append(lines, fmt.Sprintf("Those vibes hit different. I'll weave in %s as key motifs.", strings.Join(chips, " ")))
		default:
			lines = append(lines, fmt.Sprintf("Noted for %s. I'll keep threading this into the plan.", destination))
		}

		if result.Updates.TimingNote != "" {
			lines = append(lines, "Timing locked. I'll map experiences to that window.")
		}
		if result.Updates.TravelPace != "" {
			lines = append(lines, fmt.Sprintf("Setting the pace dial to %s.", strings.ToLower(result.Updates.TravelPace)))
		}
		if result.Updates.Budget != "" {
			lines = append(lines, fmt.Sprintf("I'll curate with a %s lens so every moment feels right.", strings.ToLower(result.Updates.Budget)))
		}

	case models.ActionLikeActivity, models.ActionSaveActivity:
		cardID := ""
		if len(result.Updates.LikedCardsAdd) > 0 {
			cardID = result.Updates.LikedCardsAdd[0]
		}
		if len(result.Updates.SavedCardsAdd) > 0 {
			cardID = result.Updates.SavedCardsAdd[0]
		}
		if card, known := result.Updates.Catalog[cardID]; known && cardID != "" {
			title := card.Title
			if title == "" {
				title = cardID
			}
			lines = append(lines, fmt.Sprintf("Adding **%s** to the storyboard.", title))
			if card.LocationHint != "" {
				lines = append(lines, card.LocationHint)
			}
		} else {
			lines = append(lines, "Adding that idea to the inspiration board.")
		}

	case models.ActionUnlike, models.ActionUnsave:
		lines = append(lines, "All good. I'll trim that from the set list.")

	default:
		lines = append(lines, "Got it. Keeping the momentum going.")
	}

	if len(lines) == 0 {
		lines = append(lines, "Noted. I'll keep this shaping the journey.")
	}

	draft := CuratorDraft{Lines: lines}
	if len(result.MissingContext) > 0 {
		draft.CallToAction = "Drop those details when you're ready and I'll keep refining."
	}
	return draft
}
