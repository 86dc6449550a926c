package agents

import (
	"reflect"
	"testing"

	"tripweaver/internal/models"
)

func TestTripBriefMemoryStickyFields(t *testing.T) {
	memory := NewTripBriefMemory()

	first := memory.Update(models.PlanContext{
		Destination: "Kyoto",
		GroupType:   "Partner getaway",
		GroupSize:   2,
	})
	if first.Destination != "Kyoto" || first.GroupType != "Partner getaway" || first.GroupSize != 2 {
		t.Fatalf("Unexpected initial brief %+v", first)
	}

	// An update that carries no destination keeps the prior one.
	second := memory.Update(models.PlanContext{TravelPace: "Laid back"})
	if second.Destination != "Kyoto" {
		t.Errorf("Destination must stick, got %q", second.Destination)
	}
	if second.TravelPace != "Laid back" {
		t.Errorf("New pace must land, got %q", second.TravelPace)
	}

	// A newer non-empty value replaces.
	third := memory.Update(models.PlanContext{Destination: "Osaka"})
	if third.Destination != "Osaka" {
		t.Errorf("Newer destination must replace, got %q", third.Destination)
	}
}

func TestTripBriefMemoryOccasionFromNotes(t *testing.T) {
	memory := NewTripBriefMemory()

	brief := memory.Update(models.PlanContext{
		Destination: "Paris",
		Notes:       "celebrating our anniversary with a long weekend",
	})
	if brief.Occasion != "anniversary" {
		t.Errorf("Expected occasion anniversary, got %q", brief.Occasion)
	}

	// The detected occasion sticks even when later notes stop mentioning it.
	brief = memory.Update(models.PlanContext{Destination: "Paris", Notes: "museums please"})
	if brief.Occasion != "anniversary" {
		t.Errorf("Occasion must stick, got %q", brief.Occasion)
	}
}

func TestTripBriefMemoryMoodTone(t *testing.T) {
	cases := map[string]string{
		"burned_out":  "soothing",
		"celebration": "celebratory",
		"peaceful":    "calm",
	}
	for mood, tone := range cases {
		memory := NewTripBriefMemory()
		brief := memory.Update(models.PlanContext{Mood: mood})
		if brief.Tone != tone {
			t.Errorf("Mood %q should map to tone %q, got %q", mood, tone, brief.Tone)
		}
	}
}

func TestTripBriefMemoryVibeDedup(t *testing.T) {
	memory := NewTripBriefMemory()
	brief := memory.Update(models.PlanContext{
		Vibes: []string{"Nightlife", "nightlife", " Nightlife ", "Foodie adventures"},
	})
	if !reflect.DeepEqual(brief.Vibes, []string{"Nightlife", "Foodie adventures"}) {
		t.Errorf("Expected case-insensitive dedup preserving order, got %v", brief.Vibes)
	}
}

func TestTripBriefMemoryResume(t *testing.T) {
	memory := NewTripBriefMemoryFrom(models.TripBrief{Destination: "Kyoto", Budget: "Splurge"})
	brief := memory.Update(models.PlanContext{GroupType: "Friends trip"})
	if brief.Destination != "Kyoto" || brief.Budget != "Splurge" || brief.GroupType != "Friends trip" {
		t.Errorf("Resumed memory lost fields: %+v", brief)
	}
}
