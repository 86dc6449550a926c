package models

import (
	"fmt"
	"time"
)

// Event category slots recognised by the planner.
const (
	SlotWakeUp            = "wake_up"
	SlotBreakfast         = "breakfast"
	SlotMorningActivity   = "morning_activity"
	SlotSnackMorning      = "snack_morning"
	SlotLunch             = "lunch"
	SlotAfternoonActivity = "afternoon_activity"
	SlotSnackAfternoon    = "snack_afternoon"
	SlotDinner            = "dinner"
	SlotEveningActivity   = "evening_activity"
)

// ItineraryEvent is an individual scheduled activity inside a day. Times are
// kept as 24-hour "HH:MM" strings because upstream output is loose LLM JSON.
type ItineraryEvent struct {
	Title           string   `json:"title"`
	Category        string   `json:"category,omitempty"`
	StartTime       string   `json:"start_time,omitempty"`
	EndTime         string   `json:"end_time,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	Location        string   `json:"location,omitempty"`
	PlaceID         string   `json:"place_id,omitempty"`
	Description     string   `json:"description,omitempty"`
	Justification   string   `json:"justification,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Place           *Place   `json:"place,omitempty"`
}

// DayPlan is the plan for a single day of travel.
type DayPlan struct {
	Label   string           `json:"label,omitempty"`
	Date    string           `json:"date,omitempty"`
	Summary string           `json:"summary,omitempty"`
	Pace    string           `json:"pace,omitempty"`
	Events  []ItineraryEvent `json:"events"`
}

// Anomalies reports events whose end time is not after their start time.
// Detection only; callers decide whether to surface or ignore.
func (day DayPlan) Anomalies() []string {
	var anomalies []string
	for _, event := range day.Events {
		start, okStart := parseClock(event.StartTime)
		end, okEnd := parseClock(event.EndTime)
		if okStart && okEnd && !end.After(start) {
			anomalies = append(anomalies, fmt.Sprintf("event %q ends at or before its start (%s..%s)", event.Title, event.StartTime, event.EndTime))
		}
	}
	return anomalies
}

func parseClock(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Itinerary is the structured multi-day trip plan.
type Itinerary struct {
	Destination string    `json:"destination"`
	StartDate   string    `json:"start_date,omitempty"`
	EndDate     string    `json:"end_date,omitempty"`
	Days        []DayPlan `json:"days"`
	Notes       string    `json:"notes,omitempty"`
}

// AllEvents returns pointers to every event across every day so callers can
// attach places in place.
func (itinerary *Itinerary) AllEvents() []*ItineraryEvent {
	var events []*ItineraryEvent
	for d := range itinerary.Days {
		for e := range itinerary.Days[d].Events {
			events = append(events, &itinerary.Days[d].Events[e])
		}
	}
	return events
}

// ItinerarySummary is the short narrative overview produced by the
// summariser stage.
type ItinerarySummary struct {
	HTML string `json:"html"`
}

// RefinerRequest carries feedback on one day of an existing itinerary.
// EventIndex marks the activity a swap request targets within that day, so
// the composed feedback can name what is being replaced.
type RefinerRequest struct {
	Itinerary             Itinerary `json:"itinerary"`
	DayIndex              *int      `json:"day_index,omitempty"`
	EventIndex            *int      `json:"event_index,omitempty"`
	Feedback              string    `json:"feedback"`
	AdditionalConstraints string    `json:"additional_constraints,omitempty"`
}

// SwapTarget returns the title of the event the request asks to replace, or
// "" when no event is addressable.
func (request RefinerRequest) SwapTarget() string {
	if request.DayIndex == nil || request.EventIndex == nil {
		return ""
	}
	dayIndex, eventIndex := *request.DayIndex, *request.EventIndex
	if dayIndex < 0 || dayIndex >= len(request.Itinerary.Days) {
		return ""
	}
	events := request.Itinerary.Days[dayIndex].Events
	if eventIndex < 0 || eventIndex >= len(events) {
		return ""
	}
	return events[eventIndex].Title
}

// RefinerResponse carries the regenerated itinerary plus the standalone
// updated day.
type RefinerResponse struct {
	Itinerary  Itinerary `json:"itinerary"`
	UpdatedDay DayPlan   `json:"updated_day"`
	Notes      string    `json:"notes,omitempty"`
}

// EnsureConsistency guarantees the updated day occupies a single,
// unambiguous position in the response itinerary. With a preferred index the
// itinerary is padded with empty days until the index exists and the day is
// placed there unconditionally. Without one, the day replaces the first
// existing day with a matching date, else a matching label, else is
// appended.
func (response *RefinerResponse) EnsureConsistency(preferredIndex *int) {
	if preferredIndex != nil {
		index := *preferredIndex
		if index < 0 {
			index = 0
		}
		for len(response.Itinerary.Days) <= index {
			response.Itinerary.Days = append(response.Itinerary.Days, DayPlan{})
		}
		response.Itinerary.Days[index] = response.UpdatedDay
		return
	}

	if response.UpdatedDay.Date != "" {
		for i, day := range response.Itinerary.Days {
			if day.Date == response.UpdatedDay.Date {
				response.Itinerary.Days[i] = response.UpdatedDay
				return
			}
		}
	}
	if response.UpdatedDay.Label != "" {
		for i, day := range response.Itinerary.Days {
			if day.Label == response.UpdatedDay.Label {
				response.Itinerary.Days[i] = response.UpdatedDay
				return
			}
		}
	}

	response.Itinerary.Days = append(response.Itinerary.Days, response.UpdatedDay)
}
