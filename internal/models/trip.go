package models

// Inspiration is one traveller-selected experience carried into planning.
type Inspiration struct {
	ID           string `json:"id"`
	Title        string `json:"title,omitempty"`
	Category     string `json:"category,omitempty"`
	LocationHint string `json:"location_hint,omitempty"`
	Priority     string `json:"priority,omitempty"`
}

// TripIntent is the finalised structured input to the generation pipeline.
type TripIntent struct {
	Destination        string        `json:"destination"`
	StartDate          string        `json:"start_date,omitempty"`
	EndDate            string        `json:"end_date,omitempty"`
	DurationDays       int           `json:"duration_days,omitempty"`
	TravelPace         string        `json:"travel_pace,omitempty"`
	Budget             string        `json:"budget,omitempty"`
	Mood               string        `json:"mood,omitempty"`
	Interests          []string      `json:"interests,omitempty"`
	MustDo             []string      `json:"must_do,omitempty"`
	Exclusions         []string      `json:"exclusions,omitempty"`
	DiningPreferences  []string      `json:"dining_preferences,omitempty"`
	LodgingPreferences []string      `json:"lodging_preferences,omitempty"`
	Notes              string        `json:"notes,omitempty"`
	SavedInspirations  []Inspiration `json:"saved_inspirations,omitempty"`
	LikedInspirations  []Inspiration `json:"liked_inspirations,omitempty"`
}

// StoredTrip is the handle returned by the persistence collaborator.
type StoredTrip struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Intent      TripIntent `json:"intent"`
	Itinerary   Itinerary  `json:"itinerary"`
	CreatedAt   string     `json:"created_at"`
}
