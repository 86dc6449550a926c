package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachPlacesResolvesKnownIDs(t *testing.T) {
	lookup := map[string]Place{
		"p1": {PlaceID: "p1", Name: "Gion Ryokan"},
		"p2": {PlaceID: "p2", Name: "Nishiki Market"},
	}
	research := []*ResearchItem{
		{PlaceID: "p1"},
		{PlaceID: "missing"},
		{PlaceID: ""},
	}
	ranked := []*RankedItem{{PlaceID: "p2"}}
	itinerary := &Itinerary{
		Days: []DayPlan{{Events: []ItineraryEvent{{Title: "Market walk", PlaceID: "p2"}}}},
	}

	AttachPlaces(lookup, research, ranked, itinerary)

	require.NotNil(t, research[0].Place)
	assert.Equal(t, "Gion Ryokan", research[0].Place.Name)
	assert.Nil(t, research[1].Place, "unknown ids must stay unresolved")
	assert.Nil(t, research[2].Place, "empty ids must stay unresolved")
	require.NotNil(t, ranked[0].Place)
	assert.Equal(t, "Nishiki Market", ranked[0].Place.Name)
	require.NotNil(t, itinerary.Days[0].Events[0].Place)
	assert.Equal(t, "p2", itinerary.Days[0].Events[0].Place.PlaceID)
}

func TestAttachPlacesKeepsExistingPlace(t *testing.T) {
	existing := &Place{PlaceID: "p1", Name: "Already resolved"}
	lookup := map[string]Place{"p1": {PlaceID: "p1", Name: "Lookup copy"}}
	research := []*ResearchItem{{PlaceID: "p1", Place: existing}}

	AttachPlaces(lookup, research, nil, nil)

	assert.Same(t, existing, research[0].Place)
}

func TestAttachPlacesCopiesLookupValues(t *testing.T) {
	lookup := map[string]Place{"p1": {PlaceID: "p1", Name: "Original"}}
	first := []*ResearchItem{{PlaceID: "p1"}}
	second := []*ResearchItem{{PlaceID: "p1"}}

	AttachPlaces(lookup, first, nil, nil)
	AttachPlaces(lookup, second, nil, nil)

	first[0].Place.Name = "Mutated"
	assert.Equal(t, "Original", second[0].Place.Name)
}
