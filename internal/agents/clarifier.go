package agents

import "strings"

// ClarifierPrompt is the structured follow-up produced by the clarifier.
type ClarifierPrompt struct {
	Fields  []string `json:"fields"`
	Message string   `json:"message"`
}

// Chunks splits the message into stream-friendly segments.
func (prompt ClarifierPrompt) Chunks() []string {
	if prompt.Message == "" {
		return nil
	}
	var chunks []string
	for _, segment := range strings.Split(prompt.Message, "\n") {
		if trimmed := strings.TrimSpace(segment); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}
	if len(chunks) == 0 {
		return []string{prompt.Message}
	}
	return chunks
}

// Clarifier crafts follow-up questions for missing planner context.
type Clarifier struct{}

var fieldPrompts = map[string]string{
	"destination": "What's the headline city or region you're plotting?",
	"timing":      "When should this adventure take place? Share dates or a rough window.",
	"vibe":        "Paint the vibe. Nightlife, nature, culture? Give me a few keywords.",
	"travel_pace": "Should days feel laid back, balanced, or all-out?",
	"budget":      "What budget lane are we in: shoestring, moderate, or splurge?",
	"group":       "Who's coming along and how big is the crew?",
}

// Run returns a clarifying follow-up covering the provided fields. Unknown
// fields are skipped; with nothing recognised a generic nudge is returned.
func (clarifier *Clarifier) Run(missingFields []string) ClarifierPrompt {
	var fields []string
	for _, field := range missingFields {
		if _, known := fieldPrompts[field]; known {
			fields = append(fields, field)
		}
	}
	if len(fields) == 0 {
		return ClarifierPrompt{Message: "Tell me a little more."}
	}

	lines := []string{fieldPrompts[fields[0]]}
	if len(fields) > 1 {
		var extras []string
		for _, field := range fields[1:] {
			extras = append(extras, fieldPrompts[field])
		}
		lines = append(lines, strings.Join(extras, ", "))
	}

	return ClarifierPrompt{
		Fields:  fields,
		Message: strings.Join(lines, "\n\n"),
	}
}
