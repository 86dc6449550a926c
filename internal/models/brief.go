package models

// TripBrief is the canonical, deduplicated snapshot of the traveller's
// intent. Fields are sticky: a new non-empty value overrides, an absent
// value keeps the prior one.
type TripBrief struct {
	Destination string   `json:"destination,omitempty"`
	GroupType   string   `json:"group_type,omitempty"`
	GroupSize   int      `json:"group_size,omitempty"`
	TravelPace  string   `json:"travel_pace,omitempty"`
	Budget      string   `json:"budget,omitempty"`
	Vibes       []string `json:"vibes"`
	Mood        string   `json:"mood,omitempty"`
	Tone        string   `json:"tone,omitempty"`
	Occasion    string   `json:"occasion,omitempty"`
}

func (brief TripBrief) Clone() TripBrief {
	cloned := brief
	cloned.Vibes = append([]string(nil), brief.Vibes...)
	return cloned
}
