package models

// AttachPlaces joins place references to canonical Place records. For each
// item whose place id is present but whose embedded place is absent, the
// place found by identifier lookup is attached. Nothing is ever fabricated:
// ids missing from the lookup are left unresolved.
func AttachPlaces(lookup map[string]Place, researchItems []*ResearchItem, rankedItems []*RankedItem, itinerary *Itinerary) {
	for _, item := range researchItems {
		if item.Place == nil && item.PlaceID != "" {
			if place, ok := lookup[item.PlaceID]; ok {
				attached := place
				item.Place = &attached
			}
		}
	}

	for _, item := range rankedItems {
		if item.Place == nil && item.PlaceID != "" {
			if place, ok := lookup[item.PlaceID]; ok {
				attached := place
				item.Place = &attached
			}
		}
	}

	if itinerary != nil {
		for _, event := range itinerary.AllEvents() {
			if event.Place == nil && event.PlaceID != "" {
				if place, ok := lookup[event.PlaceID]; ok {
					attached := place
					event.Place = &attached
				}
			}
		}
	}
}
