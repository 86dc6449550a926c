package agents

import "tripweaver/internal/models"

// ReadyForPlanning reports whether every required planner field is present
// in the context. Pure predicate; gating side effects belong to the caller.
func ReadyForPlanning(context models.PlanContext) bool {
	return len(MissingFields(context)) == 0
}

// MissingFields returns every required field the context does not yet
// satisfy, in request-priority order.
func MissingFields(context models.PlanContext) []string {
	var missing []string
	for _, field := range RequiredFields {
		if !HasField(context, field) {
			missing = append(missing, field)
		}
	}
	return missing
}
