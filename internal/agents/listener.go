package agents

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"tripweaver/internal/models"
)

// VibeOptions are the canonical vibe labels surfaced to travellers.
var VibeOptions = []string{
	"Nightlife",
	"Foodie adventures",
	"Culture & history",
	"Outdoors & nature",
	"Something eclectic",
}

// PaceOptions are the canonical travel pace labels.
var PaceOptions = []string{"Laid back", "Balanced", "All-out"}

// BudgetOptions are the canonical budget lane labels.
var BudgetOptions = []string{"Shoestring", "Moderate", "Splurge"}

// RequiredFields lists the planner context fields in the order they should
// be requested from the traveller.
var RequiredFields = []string{"destination", "timing", "vibe", "travel_pace", "budget", "group"}

// keywordRule maps a lowercase substring to a canonical label. Rules are
// ordered slices, not maps, so earlier entries win deterministically.
type keywordRule struct {
	keyword string
	label   string
}

var vibeKeywordRules = []keywordRule{
	{"night", "Nightlife"},
	{"club", "Nightlife"},
	{"bar", "Nightlife"},
	{"food", "Foodie adventures"},
	{"eat", "Foodie adventures"},
	{"restaurant", "Foodie adventures"},
	{"culture", "Culture & history"},
	{"museum", "Culture & history"},
	{"history", "Culture & history"},
	{"outdoor", "Outdoors & nature"},
	{"hike", "Outdoors & nature"},
	{"nature", "Outdoors & nature"},
	{"forest", "Outdoors & nature"},
	{"eclectic", "Something eclectic"},
	{"art", "Something eclectic"},
	{"design", "Something eclectic"},
}

var groupTypeRules = []keywordRule{
	{"solo", "Just me"},
	{"alone", "Just me"},
	{"myself", "Just me"},
	{"partner", "Partner getaway"},
	{"spouse", "Partner getaway"},
	{"wife", "Partner getaway"},
	{"husband", "Partner getaway"},
	{"girlfriend", "Partner getaway"},
	{"boyfriend", "Partner getaway"},
	{"couple", "Partner getaway"},
	{"family", "Family crew"},
	{"kids", "Family crew"},
	{"parents", "Family crew"},
	{"friends", "Friends trip"},
	{"buddies", "Friends trip"},
	{"mates", "Friends trip"},
	{"cowork", "Workmates"},
	{"colleague", "Workmates"},
	{"team", "Workmates"},
	{"office", "Workmates"},
}

var moodRules = []keywordRule{
	{"burned out", "burned_out"},
	{"burnt out", "burned_out"},
	{"burned-out", "burned_out"},
	{"burnt-out", "burned_out"},
	{"overwhelmed", "burned_out"},
	{"exhausted", "burned_out"},
	{"fried", "burned_out"},
	{"stressed", "burned_out"},
	{"drained", "burned_out"},
	{"celebrate", "celebration"},
	{"celebration", "celebration"},
	{"birthday", "celebration"},
	{"anniversary", "celebration"},
	{"promotion", "celebration"},
	{"engagement", "celebration"},
	{"honeymoon", "celebration"},
	{"bachelorette", "celebration"},
	{"bachelor party", "celebration"},
	{"graduation", "celebration"},
	{"peaceful", "peaceful"},
	{"peace", "peaceful"},
	{"calm", "peaceful"},
	{"serene", "peaceful"},
	{"restful", "peaceful"},
	{"unwind", "peaceful"},
	{"relax", "peaceful"},
	{"recharge", "peaceful"},
	{"reset", "peaceful"},
	{"quiet", "peaceful"},
}

var laidBackMarkers = []string{"laid back", "laid-back", "laidback", "relax", "slow", "chill", "easy", "unhurried"}
var balancedMarkers = []string{"balanced", "mix", "medium", "moderate"}
var allOutMarkers = []string{"packed", "full", "busy", "nonstop", "all out", "all-out"}

var shoestringMarkers = []string{"cheap", "budget", "shoestring", "tight", "save"}
var moderateMarkers = []string{"mid", "moderate", "reasonable", "comfortable", "middle"}
var splurgeMarkers = []string{"lux", "splurge", "premium", "fancy", "high end", "high-end"}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var timingMarkers = []string{"week", "weekend", "month", "summer", "winter"}

var numberWordRules = []struct {
	word  string
	value int
}{
	{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4}, {"five", 5},
	{"six", 6}, {"seven", 7}, {"eight", 8}, {"nine", 9}, {"ten", 10},
	{"eleven", 11}, {"twelve", 12},
}

var groupSizeDefaults = []struct {
	keyword string
	value   int
}{
	{"couple", 2}, {"pair", 2}, {"duo", 2}, {"solo", 1}, {"myself", 1},
}

var destinationStopWords = map[string]bool{
	"in": true, "for": true, "with": true, "during": true, "over": true,
	"around": true, "through": true, "while": true, "when": true,
	"because": true, "since": true, "after": true, "before": true,
	"on": true, "at": true, "by": true, "from": true, "this": true,
	"next": true, "the": true, "a": true, "an": true, "my": true,
	"our": true, "his": true, "her": true, "their": true,
}

var (
	whitespaceRun    = regexp.MustCompile(`\s+`)
	digitRun         = regexp.MustCompile(`\d+`)
	yearPattern      = regexp.MustCompile(`\d{4}`)
	dateFragment     = regexp.MustCompile(`\d{1,2}/\d{1,2}`)
	destinationLead  = regexp.MustCompile(`(?i)(?:to|in|around|for)\s+([A-Za-z][A-Za-z\s\-']{2,})`)
	vibeChunkSplit   = regexp.MustCompile(`[,/]| and `)
)

func normalizeText(text string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
}

func matchRule(lowered string, rules []keywordRule) string {
	for _, rule := range rules {
		if strings.Contains(lowered, rule.keyword) {
			return rule.label
		}
	}
	return ""
}

func containsAnyMarker(lowered string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func titleCase(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		upper := false
		for j, r := range runes {
			if !upper && r >= 'a' && r <= 'z' {
				runes[j] = r - ('a' - 'A')
				upper = true
			} else if r == '-' || r == '\'' {
				upper = false
			}
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// ExtractGroupType returns the canonical group label detected in the text.
func ExtractGroupType(text string) string {
	return matchRule(normalizeText(text), groupTypeRules)
}

// ExtractGroupSize returns the traveller count detected in the text, or 0.
func ExtractGroupSize(text string) int {
	if digits := digitRun.FindString(text); digits != "" {
		if value, err := strconv.Atoi(digits); err == nil && value > 0 {
			return value
		}
	}
	lowered := normalizeText(text)
	for _, rule := range numberWordRules {
		if strings.Contains(lowered, rule.word) {
			return rule.value
		}
	}
	for _, rule := range groupSizeDefaults {
		if strings.Contains(lowered, rule.keyword) {
			return rule.value
		}
	}
	return 0
}

// ExtractVibes returns every canonical vibe label detected in the text.
func ExtractVibes(text string) []string {
	lowered := normalizeText(text)
	var detected []string
	seen := map[string]bool{}

	appendVibe := func(option string) {
		if !seen[option] {
			seen[option] = true
			detected = append(detected, option)
		}
	}

	for _, option := range VibeOptions {
		if strings.Contains(lowered, strings.ToLower(option)) {
			appendVibe(option)
		}
	}
	for _, rule := range vibeKeywordRules {
		if strings.Contains(lowered, rule.keyword) {
			appendVibe(rule.label)
		}
	}
	for _, chunk := range vibeChunkSplit.Split(lowered, -1) {
		chunk = strings.TrimSpace(chunk)
		for _, option := range VibeOptions {
			if chunk == strings.ToLower(option) {
				appendVibe(option)
			}
		}
	}
	return detected
}

// ExtractMood returns the detected traveller mood, or "".
func ExtractMood(text string) string {
	lowered := normalizeText(text)
	if lowered == "" {
		return ""
	}
	return matchRule(lowered, moodRules)
}

// InferTravelPace returns the canonical pace label implied by the text.
func InferTravelPace(text string) string {
	lowered := normalizeText(text)
	if containsAnyMarker(lowered, laidBackMarkers) {
		return "Laid back"
	}
	if containsAnyMarker(lowered, balancedMarkers) {
		return "Balanced"
	}
	if containsAnyMarker(lowered, allOutMarkers) {
		return "All-out"
	}
	return ""
}

// InferBudget returns the canonical budget label implied by the text.
func InferBudget(text string) string {
	lowered := normalizeText(text)
	if containsAnyMarker(lowered, shoestringMarkers) {
		return "Shoestring"
	}
	if containsAnyMarker(lowered, moderateMarkers) {
		return "Moderate"
	}
	if containsAnyMarker(lowered, splurgeMarkers) {
		return "Splurge"
	}
	return ""
}

// ExtractTiming returns the original text as a timing note when it carries a
// recognisable timing signal, or "".
func ExtractTiming(text string) string {
	lowered := normalizeText(text)
	if containsAnyMarker(lowered, monthNames) {
		return strings.TrimSpace(text)
	}
	if yearPattern.MatchString(lowered) || dateFragment.MatchString(lowered) {
		return strings.TrimSpace(text)
	}
	if containsAnyMarker(lowered, timingMarkers) {
		return strings.TrimSpace(text)
	}
	return ""
}

// GuessDestination extracts a Title-cased destination candidate, or "".
func GuessDestination(text string) string {
	stripped := strings.TrimSpace(text)
	if stripped == "" {
		return ""
	}

	if match := destinationLead.FindStringSubmatch(stripped); match != nil {
		candidate := strings.TrimSpace(match[1])
		var tokens []string
		for _, raw := range strings.Fields(candidate) {
			cleaned := strings.Trim(raw, " ,.;:!?")
			if cleaned == "" {
				continue
			}
			if destinationStopWords[strings.ToLower(cleaned)] && len(tokens) > 0 {
				break
			}
			tokens = append(tokens, cleaned)
		}
		candidate = strings.Trim(strings.Join(tokens, " "), "- ,")
		if candidate != "" {
			return titleCase(candidate)
		}
	}

	if tokens := strings.Fields(stripped); len(tokens) >= 1 && len(tokens) <= 4 {
		return titleCase(stripped)
	}
	return ""
}

// ListenerResult describes the outcome of one listener pass.
type ListenerResult struct {
	ActionType      string               `json:"action_type"`
	UserMessage     string               `json:"user_message"`
	Updates         models.ContextUpdate `json:"context_updates"`
	MissingContext  []string             `json:"missing_context"`
	ResolvedFields  []string             `json:"resolved_fields"`
	TriggerPlanning bool                 `json:"trigger_planning"`
}

// Listener turns raw traveller actions into structured context updates.
// Extraction is deterministic rule matching; no generation call happens on
// the conversational path.
type Listener struct{}

// Run interprets one traveller action against the current context. The
// context itself is never mutated; detected signals land in the result's
// update set for the caller to merge.
func (listener *Listener) Run(action models.Action, context models.PlanContext, pendingFields []string) ListenerResult {
	actionType := action.Type
	if actionType == "" {
		actionType = models.ActionMessage
	}

	result := ListenerResult{ActionType: actionType}

	switch actionType {
	case models.ActionMessage:
		listener.handleMessage(strings.TrimSpace(action.Text), &result)
	case models.ActionLikeActivity, models.ActionSaveActivity, models.ActionUnlike, models.ActionUnsave:
		listener.handleCardAction(actionType, action.Card, &result)
	default:
		result.UserMessage = "Noted."
	}

	merged := MergeContext(context, result.Updates)

	for _, field := range pendingFields {
		if HasField(merged, field) {
			result.ResolvedFields = append(result.ResolvedFields, field)
		}
	}

	result.MissingContext = detectMissingFields(merged, pendingFields, result.ResolvedFields)
	return result
}

func (listener *Listener) handleMessage(text string, result *ListenerResult) {
	result.UserMessage = text
	if result.UserMessage == "" {
		result.UserMessage = "Sharing more trip details."
	}
	if text == "" {
		return
	}

	result.Updates.NotesAppend = text
	result.Updates.Destination = GuessDestination(text)
	result.Updates.TimingNote = ExtractTiming(text)
	result.Updates.VibeAdd = ExtractVibes(text)
	result.Updates.TravelPace = InferTravelPace(text)
	result.Updates.Budget = InferBudget(text)
	result.Updates.GroupType = ExtractGroupType(text)
	result.Updates.GroupSize = ExtractGroupSize(text)
	result.Updates.Mood = ExtractMood(text)
}

func (listener *Listener) handleCardAction(actionType string, card *models.ActivityCard, result *ListenerResult) {
	title := "this experience"
	id := ""
	if card != nil {
		if card.Title != "" {
			title = card.Title
		} else if card.ID != "" {
			title = card.ID
		}
		id = card.ID
	}
	if id == "" {
		id = title
	}

	switch actionType {
	case models.ActionLikeActivity:
		result.UserMessage = "❤️ Liked " + title
		result.Updates.LikedCardsAdd = []string{id}
		result.TriggerPlanning = true
	case models.ActionSaveActivity:
		result.UserMessage = "🔖 Saved " + title
		result.Updates.SavedCardsAdd = []string{id}
		result.TriggerPlanning = true
	case models.ActionUnlike:
		result.UserMessage = "Removed like from " + title
		result.Updates.LikedCardsRemove = []string{id}
	case models.ActionUnsave:
		result.UserMessage = "Removed " + title + " from saved picks"
		result.Updates.SavedCardsRemove = []string{id}
	}

	entry := models.ActivityCard{ID: id, Title: title}
	if card != nil {
		entry = *card
		entry.ID = id
	}
	result.Updates.Catalog = map[string]models.ActivityCard{id: entry}
}

// MergeContext folds an update set into a context snapshot and returns the
// merged copy. Empty update values never clear existing fields, and vibes
// accumulate as a sorted, case-insensitive set.
func MergeContext(base models.PlanContext, updates models.ContextUpdate) models.PlanContext {
	merged := base.Clone()

	merged.AppendNotes(updates.NotesAppend)

	if updates.Destination != "" {
		merged.Destination = updates.Destination
	}
	if updates.TimingNote != "" {
		merged.TimingNote = updates.TimingNote
	}
	if updates.TravelPace != "" {
		merged.TravelPace = updates.TravelPace
	}
	if updates.Budget != "" {
		merged.Budget = updates.Budget
	}
	if updates.GroupType != "" {
		merged.GroupType = updates.GroupType
	}
	if updates.GroupSize > 0 {
		merged.GroupSize = updates.GroupSize
	}
	if updates.Mood != "" {
		merged.Mood = updates.Mood
	}

	if len(updates.VibeAdd) > 0 {
		current := map[string]string{}
		for _, vibe := range merged.Vibes {
			if trimmed := strings.TrimSpace(vibe); trimmed != "" {
				current[strings.ToLower(trimmed)] = trimmed
			}
		}
		for _, vibe := range updates.VibeAdd {
			if trimmed := strings.TrimSpace(vibe); trimmed != "" {
				if _, exists := current[strings.ToLower(trimmed)]; !exists {
					current[strings.ToLower(trimmed)] = trimmed
				}
			}
		}
		var vibes []string
		for _, vibe := range current {
			vibes = append(vibes, vibe)
		}
		sort.Strings(vibes)
		merged.Vibes = vibes
	}

	merged.LikedCards = addCards(removeCards(merged.LikedCards, updates.LikedCardsRemove), updates.LikedCardsAdd)
	merged.SavedCards = addCards(removeCards(merged.SavedCards, updates.SavedCardsRemove), updates.SavedCardsAdd)

	if len(updates.Catalog) > 0 {
		if merged.Catalog == nil {
			merged.Catalog = map[string]models.ActivityCard{}
		}
		for id, card := range updates.Catalog {
			merged.Catalog[id] = card
		}
	}

	return merged
}

func addCards(cards []string, additions []string) []string {
	for _, id := range additions {
		duplicate := false
		for _, existing := range cards {
			if existing == id {
				duplicate = true
				break
			}
		}
		if !duplicate {
			cards = append(cards, id)
		}
	}
	return cards
}

func removeCards(cards []string, removals []string) []string {
	if len(removals) == 0 {
		return cards
	}
	drop := map[string]bool{}
	for _, id := range removals {
		drop[id] = true
	}
	var kept []string
	for _, id := range cards {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	return kept
}

// HasField reports whether the context satisfies one required planner field.
func HasField(context models.PlanContext, field string) bool {
	switch field {
	case "destination":
		return strings.TrimSpace(context.Destination) != ""
	case "timing":
		if context.StartDate != "" && context.EndDate != "" {
			return true
		}
		if len(context.FlexibleMonths) > 0 {
			return true
		}
		return strings.TrimSpace(context.TimingNote) != ""
	case "vibe":
		return len(context.Vibes) > 0
	case "travel_pace":
		return containsOption(context.TravelPace, PaceOptions)
	case "budget":
		return containsOption(context.Budget, BudgetOptions)
	case "group":
		if strings.TrimSpace(context.GroupType) != "" {
			return true
		}
		return context.GroupSize > 0
	}
	return false
}

func containsOption(value string, options []string) bool {
	trimmed := strings.TrimSpace(value)
	for _, option := range options {
		if trimmed == option {
			return true
		}
	}
	return false
}

// detectMissingFields re-reports still-pending fields first; only once every
// pending field resolves does it advance to the next unmet required field.
func detectMissingFields(context models.PlanContext, pending []string, resolved []string) []string {
	var remaining []string
	seen := map[string]bool{}
	for _, field := range pending {
		if containsField(resolved, field) || seen[field] {
			continue
		}
		seen[field] = true
		remaining = append(remaining, field)
	}
	if len(remaining) > 0 {
		return remaining
	}

	for _, field := range RequiredFields {
		if !HasField(context, field) {
			return []string{field}
		}
	}
	return nil
}

func containsField(fields []string, field string) bool {
	for _, candidate := range fields {
		if candidate == field {
			return true
		}
	}
	return false
}
