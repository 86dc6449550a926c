package models

// ResearchItem is one researched place annotated for later stages. Every
// item carries a place id; when the upstream output omits one, the schema
// layer synthesises a deterministic "generated-" id before this record is
// constructed.
type ResearchItem struct {
	PlaceID     string   `json:"place_id"`
	Place       *Place   `json:"place,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
	Suitability string   `json:"suitability,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ResearchCorpus is the curated set of researched places grouped by theme.
type ResearchCorpus struct {
	Lodgings    []ResearchItem `json:"lodgings"`
	Dining      []ResearchItem `json:"dining"`
	Experiences []ResearchItem `json:"experiences"`
	Other       []ResearchItem `json:"other"`
}

// Items returns pointers to every research item across all buckets so
// callers can attach places in place.
func (corpus *ResearchCorpus) Items() []*ResearchItem {
	var items []*ResearchItem
	for _, bucket := range [][]ResearchItem{corpus.Lodgings, corpus.Dining, corpus.Experiences, corpus.Other} {
		for i := range bucket {
			items = append(items, &bucket[i])
		}
	}
	return items
}

// RankedItem is a scored place surfaced for travellers.
type RankedItem struct {
	PlaceID   string   `json:"place_id"`
	Score     float64  `json:"score"`
	Rationale string   `json:"rationale,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Category  string   `json:"category,omitempty"`
	Place     *Place   `json:"place,omitempty"`
}

// TasteProfile holds prioritised places aligned to a trip intent.
type TasteProfile struct {
	TopPicks  []RankedItem `json:"top_picks"`
	Backups   []RankedItem `json:"backups"`
	Wildcards []RankedItem `json:"wildcard"`
}

func (profile *TasteProfile) Items() []*RankedItem {
	var items []*RankedItem
	for _, bucket := range [][]RankedItem{profile.TopPicks, profile.Backups, profile.Wildcards} {
		for i := range bucket {
			items = append(items, &bucket[i])
		}
	}
	return items
}
