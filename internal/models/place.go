package models

// Place is the normalised representation of a looked-up point of interest.
// Immutable once resolved; shared by reference across research items, ranked
// items, and itinerary events.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	Types            []string `json:"types,omitempty"`
	PriceLevel       *int     `json:"price_level,omitempty"`
	BusinessStatus   string   `json:"business_status,omitempty"`
	Website          string   `json:"website,omitempty"`
	PhoneNumber      string   `json:"phone_number,omitempty"`
	GoogleMapsURL    string   `json:"google_maps_url,omitempty"`
	PhotoReference   string   `json:"photo_reference,omitempty"`
}
