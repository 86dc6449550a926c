package agents

import (
	"context"
	"strings"
	"testing"

	"tripweaver/internal/models"
)

func TestRefinerPadsToRequestedDayIndex(t *testing.T) {
	gen := &stubGenerator{responses: []string{`{
		"itinerary": {"destination": "Kyoto", "days": [
			{"label": "Day 1", "events": []},
			{"label": "Day 2", "events": []}
		]},
		"updated_day": {"label": "Day 6", "events": [{"title": "Arashiyama at dawn"}]}
	}`}}
	agent := NewRefinerAgent(gen, testLogger())

	dayIndex := 5
	response, err := agent.Run(context.Background(), models.RefinerRequest{
		Itinerary: models.Itinerary{Destination: "Kyoto"},
		DayIndex:  &dayIndex,
		Feedback:  "make day six gentler",
	}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(response.Itinerary.Days) != 6 {
		t.Fatalf("Expected padding to 6 days, got %d", len(response.Itinerary.Days))
	}
	for i := 2; i < 5; i++ {
		if len(response.Itinerary.Days[i].Events) != 0 || response.Itinerary.Days[i].Label != "" {
			t.Errorf("Day %d should be an empty placeholder", i)
		}
	}
	if response.Itinerary.Days[5].Label != "Day 6" {
		t.Errorf("Updated day must land at index 5, got %+v", response.Itinerary.Days[5])
	}
}

func TestRefinerReplacesByDateThenLabel(t *testing.T) {
	base := models.Itinerary{
		Destination: "Kyoto",
		Days: []models.DayPlan{
			{Label: "Day 1", Date: "2026-11-02"},
			{Label: "Day 2", Date: "2026-11-03"},
		},
	}

	// Date match wins over position.
	gen := &stubGenerator{responses: []string{`{
		"itinerary": {"destination": "Kyoto", "days": [
			{"label": "Day 1", "date": "2026-11-02"},
			{"label": "Day 2", "date": "2026-11-03"}
		]},
		"updated_day": {"label": "Rainy alternative", "date": "2026-11-03"}
	}`}}
	agent := NewRefinerAgent(gen, testLogger())

	response, err := agent.Run(context.Background(), models.RefinerRequest{
		Itinerary: base,
		Feedback:  "swap the second day for indoor options",
	}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(response.Itinerary.Days) != 2 {
		t.Fatalf("Date match must replace, not append: %d days", len(response.Itinerary.Days))
	}
	if response.Itinerary.Days[1].Label != "Rainy alternative" {
		t.Errorf("Expected replacement at date match, got %+v", response.Itinerary.Days[1])
	}
}

func TestRefinerAppendsWhenNothingMatches(t *testing.T) {
	gen := &stubGenerator{responses: []string{`{
		"itinerary": {"destination": "Kyoto", "days": [{"label": "Day 1"}]},
		"updated_day": {"label": "Bonus day"}
	}`}}
	agent := NewRefinerAgent(gen, testLogger())

	response, err := agent.Run(context.Background(), models.RefinerRequest{
		Itinerary: models.Itinerary{Destination: "Kyoto"},
		Feedback:  "add something extra",
	}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(response.Itinerary.Days) != 2 {
		t.Fatalf("Expected append, got %d days", len(response.Itinerary.Days))
	}
	if response.Itinerary.Days[1].Label != "Bonus day" {
		t.Errorf("Unexpected appended day %+v", response.Itinerary.Days[1])
	}
}

func TestRefinerSwapNamesReplacedActivity(t *testing.T) {
	base := models.Itinerary{
		Destination: "Kyoto",
		Days: []models.DayPlan{{
			Label: "Day 1",
			Events: []models.ItineraryEvent{
				{Title: "Market walk"},
				{Title: "Temple visit"},
			},
		}},
	}

	gen := &stubGenerator{responses: []string{`{
		"itinerary": {"destination": "Kyoto", "days": [{"label": "Day 1"}]},
		"updated_day": {"label": "Day 1"}
	}`}}
	agent := NewRefinerAgent(gen, testLogger())

	dayIndex, eventIndex := 0, 1
	_, err := agent.Run(context.Background(), models.RefinerRequest{
		Itinerary:  base,
		DayIndex:   &dayIndex,
		EventIndex: &eventIndex,
		Feedback:   "something less crowded",
	}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	prompt := gen.requests[0].Prompt
	if !strings.Contains(prompt, "Please replace the activity 'Temple visit'. something less crowded") {
		t.Errorf("Swap feedback must name the replaced activity, prompt was:\n%s", prompt)
	}
}

func TestRefinerEmptyFeedbackFallsBack(t *testing.T) {
	itinerary := models.Itinerary{
		Destination: "Kyoto",
		Days: []models.DayPlan{{
			Label:  "Day 1",
			Events: []models.ItineraryEvent{{Title: "Market walk"}},
		}},
	}
	response := `{
		"itinerary": {"destination": "Kyoto", "days": [{"label": "Day 1"}]},
		"updated_day": {"label": "Day 1"}
	}`

	// Swap with no guidance: the named activity gets the generic ask.
	gen := &stubGenerator{responses: []string{response}}
	agent := NewRefinerAgent(gen, testLogger())
	dayIndex, eventIndex := 0, 0
	if _, err := agent.Run(context.Background(), models.RefinerRequest{
		Itinerary:  itinerary,
		DayIndex:   &dayIndex,
		EventIndex: &eventIndex,
	}, nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if prompt := gen.requests[0].Prompt; !strings.Contains(prompt, "Please replace the activity 'Market walk'. Suggest something different.") {
		t.Errorf("Expected generic fallback after the named activity, prompt was:\n%s", prompt)
	}

	// No event addressed at all: the generic ask stands alone.
	gen = &stubGenerator{responses: []string{response}}
	agent = NewRefinerAgent(gen, testLogger())
	if _, err := agent.Run(context.Background(), models.RefinerRequest{
		Itinerary: itinerary,
		Feedback:  "   ",
	}, nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if prompt := gen.requests[0].Prompt; !strings.Contains(prompt, "Suggest something different.") {
		t.Errorf("Expected the generic ask for empty feedback, prompt was:\n%s", prompt)
	}
}

func TestRefinerSwapTargetOutOfRange(t *testing.T) {
	itinerary := models.Itinerary{
		Destination: "Kyoto",
		Days:        []models.DayPlan{{Label: "Day 1", Events: []models.ItineraryEvent{{Title: "Market walk"}}}},
	}
	dayIndex, eventIndex := 0, 7
	request := models.RefinerRequest{Itinerary: itinerary, DayIndex: &dayIndex, EventIndex: &eventIndex}
	if target := request.SwapTarget(); target != "" {
		t.Errorf("Out-of-range event index must not resolve, got %q", target)
	}

	dayIndex = 3
	eventIndex = 0
	request = models.RefinerRequest{Itinerary: itinerary, DayIndex: &dayIndex, EventIndex: &eventIndex}
	if target := request.SwapTarget(); target != "" {
		t.Errorf("Out-of-range day index must not resolve, got %q", target)
	}
}

func TestRefinerCarriesKnownPlacesForward(t *testing.T) {
	place := models.Place{PlaceID: "p1", Name: "Nishiki Market"}
	request := models.RefinerRequest{
		Itinerary: models.Itinerary{
			Destination: "Kyoto",
			Days: []models.DayPlan{{
				Label:  "Day 1",
				Events: []models.ItineraryEvent{{Title: "Market walk", PlaceID: "p1", Place: &place}},
			}},
		},
		Feedback: "keep the market but earlier",
	}

	gen := &stubGenerator{responses: []string{`{
		"itinerary": {"destination": "Kyoto", "days": [
			{"label": "Day 1", "events": [{"title": "Early market walk", "place_id": "p1"}]}
		]},
		"updated_day": {"label": "Day 1", "events": [{"title": "Early market walk", "place_id": "p1"}]}
	}`}}
	agent := NewRefinerAgent(gen, testLogger())

	response, err := agent.Run(context.Background(), request, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	event := response.Itinerary.Days[0].Events[0]
	if event.Place == nil || event.Place.Name != "Nishiki Market" {
		t.Errorf("Known place must be re-attached, got %+v", event.Place)
	}
}
