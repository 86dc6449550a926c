package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// GeneratedIDPrefix marks place identifiers synthesised by this layer rather
// than returned by the place lookup collaborator.
const GeneratedIDPrefix = "generated-"

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9]+`)
	slugCollapse = regexp.MustCompile(`-+`)
	listSplit    = regexp.MustCompile(`[\n,]+`)
)

// Slugify produces a deterministic, URL-friendly slug.
func Slugify(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = slugInvalid.ReplaceAllString(value, "-")
	value = slugCollapse.ReplaceAllString(value, "-")
	return strings.Trim(value, "-")
}

// SynthesizePlaceID derives a stable identifier from descriptive text parts.
// Returns "" when no part yields a usable slug.
func SynthesizePlaceID(parts ...string) string {
	var usable []string
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			usable = append(usable, part)
		}
	}
	if len(usable) == 0 {
		return ""
	}
	slug := Slugify(strings.Join(usable, " "))
	if slug == "" {
		return ""
	}
	return GeneratedIDPrefix + slug
}

func asMap(value interface{}) (map[string]interface{}, bool) {
	mapped, ok := value.(map[string]interface{})
	return mapped, ok
}

func asList(value interface{}) ([]interface{}, bool) {
	list, ok := value.([]interface{})
	return list, ok
}

func stringOf(value interface{}) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprintf("%v", typed)
	}
}

// canonicalizeAliases moves the first present alias onto the canonical key
// and drops the remaining aliases. A value already on the canonical key
// wins, which keeps repeated normalisation a no-op.
func canonicalizeAliases(payload map[string]interface{}, canonical string, aliases ...string) {
	if _, exists := payload[canonical]; !exists {
		for _, alias := range aliases {
			if value, ok := payload[alias]; ok {
				payload[canonical] = value
				break
			}
		}
	}
	for _, alias := range aliases {
		delete(payload, alias)
	}
}

// ensureList coerces a single object or a delimited string into a sequence.
func ensureList(payload map[string]interface{}, key string) {
	value, exists := payload[key]
	if !exists || value == nil {
		return
	}
	switch typed := value.(type) {
	case []interface{}:
		return
	case string:
		var parts []interface{}
		for _, part := range listSplit.Split(typed, -1) {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		payload[key] = parts
	default:
		payload[key] = []interface{}{typed}
	}
}

// Unwrap strips redundant nesting such as {"itinerary": {"trip": {...}}},
// repeating until no further unwrap applies.
func Unwrap(payload map[string]interface{}, keys ...string) map[string]interface{} {
	candidate := payload
	for _, key := range keys {
		for {
			nested, ok := asMap(candidate[key])
			if !ok {
				break
			}
			candidate = nested
		}
	}
	return candidate
}

func normalizePlace(payload map[string]interface{}) map[string]interface{} {
	canonicalizeAliases(payload, "formatted_address", "address")
	ensureList(payload, "types")
	return payload
}

// NormalizeResearchItem coerces the common deviations produced by the
// research stage: alias field names, delimited strings where lists are
// expected, name/address floated to the top level, and a missing place id.
func NormalizeResearchItem(payload map[string]interface{}) map[string]interface{} {
	canonicalizeAliases(payload, "summary", "description")
	canonicalizeAliases(payload, "highlights", "reasons", "why")
	canonicalizeAliases(payload, "suitability", "fit")
	canonicalizeAliases(payload, "tags", "themes")
	ensureList(payload, "highlights")
	ensureList(payload, "tags")

	place, _ := asMap(payload["place"])
	for _, key := range []string{"name", "address", "formatted_address"} {
		value, ok := payload[key]
		if !ok || stringOf(value) == "" {
			continue
		}
		if place == nil {
			place = map[string]interface{}{}
		}
		target := key
		if key == "address" {
			target = "formatted_address"
		}
		if _, exists := place[target]; !exists {
			place[target] = value
		}
		delete(payload, key)
	}
	if place != nil {
		normalizePlace(place)
		payload["place"] = place
	}

	if stringOf(payload["place_id"]) == "" {
		candidateID := ""
		if place != nil {
			candidateID = stringOf(place["place_id"])
		}
		if candidateID == "" {
			var slugParts []string
			if place != nil {
				if name := stringOf(place["name"]); name != "" {
					slugParts = append(slugParts, name)
				}
				if address := stringOf(place["formatted_address"]); address != "" {
					slugParts = append(slugParts, address)
				}
			}
			if len(slugParts) == 0 {
				if summary := stringOf(payload["summary"]); summary != "" {
					slugParts = append(slugParts, summary)
				}
			}
			if len(slugParts) == 0 {
				if highlights, ok := asList(payload["highlights"]); ok && len(highlights) > 0 {
					if first := stringOf(highlights[0]); first != "" {
						slugParts = append(slugParts, first)
					}
				}
			}
			candidateID = SynthesizePlaceID(slugParts...)
		}
		if candidateID != "" {
			payload["place_id"] = candidateID
		}
	}

	if place != nil && stringOf(place["place_id"]) == "" && stringOf(payload["place_id"]) != "" {
		place["place_id"] = payload["place_id"]
	}

	return payload
}

func normalizeItemBucket(payload map[string]interface{}, canonical string, aliases ...string) {
	canonicalizeAliases(payload, canonical, aliases...)

	value, exists := payload[canonical]
	var items []interface{}
	switch typed := value.(type) {
	case nil:
		if !exists {
			payload[canonical] = []interface{}{}
			return
		}
		items = []interface{}{}
	case []interface{}:
		items = typed
	case map[string]interface{}:
		items = []interface{}{typed}
	default:
		items = []interface{}{typed}
	}

	cleaned := make([]interface{}, 0, len(items))
	for _, item := range items {
		if mapped, ok := asMap(item); ok {
			cleaned = append(cleaned, NormalizeResearchItem(mapped))
		} else {
			cleaned = append(cleaned, item)
		}
	}
	payload[canonical] = cleaned
}

// NormalizeResearchCorpus coerces loose research output into the canonical
// bucket layout.
func NormalizeResearchCorpus(payload map[string]interface{}) map[string]interface{} {
	payload = Unwrap(payload, "research", "corpus")
	normalizeItemBucket(payload, "lodgings", "lodging", "stays")
	normalizeItemBucket(payload, "dining", "restaurants", "food")
	normalizeItemBucket(payload, "experiences", "activities", "things_to_do")
	normalizeItemBucket(payload, "other")
	return payload
}

func normalizeRankedItem(payload map[string]interface{}) map[string]interface{} {
	canonicalizeAliases(payload, "score", "rating")
	canonicalizeAliases(payload, "rationale", "reason")
	canonicalizeAliases(payload, "tags", "themes")
	ensureList(payload, "tags")
	if place, ok := asMap(payload["place"]); ok {
		normalizePlace(place)
		if stringOf(payload["place_id"]) == "" {
			payload["place_id"] = place["place_id"]
		}
	}
	return payload
}

func normalizeRankedBucket(payload map[string]interface{}, canonical string, aliases ...string) {
	canonicalizeAliases(payload, canonical, aliases...)

	items, ok := asList(payload[canonical])
	if !ok {
		if single, okMap := asMap(payload[canonical]); okMap {
			items = []interface{}{single}
		} else {
			payload[canonical] = []interface{}{}
			return
		}
	}

	cleaned := make([]interface{}, 0, len(items))
	for _, item := range items {
		if mapped, okMap := asMap(item); okMap {
			cleaned = append(cleaned, normalizeRankedItem(mapped))
		} else {
			cleaned = append(cleaned, item)
		}
	}
	payload[canonical] = cleaned
}

// NormalizeTasteProfile coerces loose taste-ranking output into canonical
// priority buckets.
func NormalizeTasteProfile(payload map[string]interface{}) map[string]interface{} {
	payload = Unwrap(payload, "taste_profile", "profile")
	normalizeRankedBucket(payload, "top_picks", "primary")
	normalizeRankedBucket(payload, "backups", "secondary", "alternatives")
	normalizeRankedBucket(payload, "wildcard", "wildcards", "extras")
	return payload
}

func normalizeEvent(payload map[string]interface{}) map[string]interface{} {
	canonicalizeAliases(payload, "justification", "why")
	canonicalizeAliases(payload, "category", "slot")
	ensureList(payload, "tags")
	if place, ok := asMap(payload["place"]); ok {
		normalizePlace(place)
		if stringOf(payload["place_id"]) == "" {
			payload["place_id"] = place["place_id"]
		}
	}
	return payload
}

func normalizeDay(payload map[string]interface{}) map[string]interface{} {
	events, ok := asList(payload["events"])
	if !ok {
		if single, okMap := asMap(payload["events"]); okMap {
			events = []interface{}{single}
		} else {
			return payload
		}
	}
	cleaned := make([]interface{}, 0, len(events))
	for _, event := range events {
		if mapped, okMap := asMap(event); okMap {
			cleaned = append(cleaned, normalizeEvent(mapped))
		} else {
			cleaned = append(cleaned, event)
		}
	}
	payload["events"] = cleaned
	return payload
}

// NormalizeItinerary unwraps the common {"itinerary": {"trip": {...}}}
// nesting and coerces day and event payloads.
func NormalizeItinerary(payload map[string]interface{}) map[string]interface{} {
	payload = Unwrap(payload, "itinerary", "trip")

	days, ok := asList(payload["days"])
	if !ok {
		if single, okMap := asMap(payload["days"]); okMap {
			days = []interface{}{single}
		} else {
			return payload
		}
	}
	cleaned := make([]interface{}, 0, len(days))
	for _, day := range days {
		if mapped, okMap := asMap(day); okMap {
			cleaned = append(cleaned, normalizeDay(mapped))
		} else {
			cleaned = append(cleaned, day)
		}
	}
	payload["days"] = cleaned
	return payload
}

// NormalizeTripIntent accepts the pace alias and coerces list fields.
func NormalizeTripIntent(payload map[string]interface{}) map[string]interface{} {
	payload = Unwrap(payload, "trip_intent", "intent")
	canonicalizeAliases(payload, "travel_pace", "pace")
	ensureList(payload, "interests")
	ensureList(payload, "must_do")
	ensureList(payload, "exclusions")
	ensureList(payload, "dining_preferences")
	ensureList(payload, "lodging_preferences")
	return payload
}

// NormalizeRefinerResponse normalises the embedded itinerary and day.
func NormalizeRefinerResponse(payload map[string]interface{}) map[string]interface{} {
	if nested, ok := asMap(payload["itinerary"]); ok {
		payload["itinerary"] = NormalizeItinerary(nested)
	}
	if day, ok := asMap(payload["updated_day"]); ok {
		payload["updated_day"] = normalizeDay(day)
	}
	canonicalizeAliases(payload, "updated_day", "day")
	return payload
}

// NormalizeSummary tolerates a bare string where {"html": ...} is expected.
func NormalizeSummary(payload map[string]interface{}) map[string]interface{} {
	canonicalizeAliases(payload, "html", "summary", "content")
	return payload
}
