package agents

import (
	"strings"
	"sync"

	"tripweaver/internal/models"
)

var occasionKeywords = []string{"anniversary", "honeymoon", "birthday", "proposal", "babymoon"}

var moodTones = map[string]string{
	"burned_out":  "soothing",
	"celebration": "celebratory",
	"peaceful":    "calm",
}

// TripBriefMemory maintains the sticky trip brief for one session. Every
// update folds the latest context snapshot into the brief; fields only ever
// move from empty to set or from one value to a newer non-empty one.
type TripBriefMemory struct {
	mu    sync.Mutex
	brief models.TripBrief
}

func NewTripBriefMemory() *TripBriefMemory {
	return &TripBriefMemory{}
}

// NewTripBriefMemoryFrom resumes a memory from a previously persisted brief.
func NewTripBriefMemoryFrom(brief models.TripBrief) *TripBriefMemory {
	return &TripBriefMemory{brief: brief.Clone()}
}

// Update synchronises the memory with the latest planner context and
// returns the refreshed brief.
func (memory *TripBriefMemory) Update(context models.PlanContext) models.TripBrief {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	next := memory.brief.Clone()

	if destination := strings.TrimSpace(context.Destination); destination != "" {
		next.Destination = destination
	}
	if groupType := strings.TrimSpace(context.GroupType); groupType != "" {
		next.GroupType = groupType
	}
	if context.GroupSize > 0 {
		next.GroupSize = context.GroupSize
	}
	if pace := strings.TrimSpace(context.TravelPace); pace != "" {
		next.TravelPace = pace
	}
	if budget := strings.TrimSpace(context.Budget); budget != "" {
		next.Budget = budget
	}

	if vibes := dedupeVibes(context.Vibes); len(vibes) > 0 {
		next.Vibes = vibes
	}

	mood := strings.TrimSpace(context.Mood)
	if mood != "" {
		next.Mood = mood
	}

	occasion := strings.TrimSpace(context.Occasion)
	if occasion == "" {
		occasion = detectOccasion(context.Notes, context.TimingNote)
	}
	if occasion != "" {
		next.Occasion = occasion
	}

	if mood != "" {
		if tone, known := moodTones[strings.ToLower(mood)]; known {
			next.Tone = tone
		}
	}

	memory.brief = next
	return next.Clone()
}

// Brief returns the current snapshot without updating it.
func (memory *TripBriefMemory) Brief() models.TripBrief {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	return memory.brief.Clone()
}

func dedupeVibes(vibes []string) []string {
	seen := map[string]bool{}
	var cleaned []string
	for _, vibe := range vibes {
		trimmed := strings.TrimSpace(vibe)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if !seen[key] {
			seen[key] = true
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

func detectOccasion(noteParts ...string) string {
	joined := strings.ToLower(strings.Join(noteParts, " "))
	for _, keyword := range occasionKeywords {
		if strings.Contains(joined, keyword) {
			return keyword
		}
	}
	return ""
}
