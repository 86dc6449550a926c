package models

import "fmt"

// PipelineError is the typed error surfaced by pipeline stages and agents.
type PipelineError struct {
	Code    string
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

func (e *PipelineError) WithCause(cause error) *PipelineError {
	e.Cause = cause
	return e
}

func NewValidationError(code, message string) *PipelineError {
	return &PipelineError{Code: code, Message: message}
}

func NewTimeoutError(code, message string) *PipelineError {
	return &PipelineError{Code: code, Message: message}
}

func WrapExternalError(service string, err error) *PipelineError {
	return &PipelineError{
		Code:    fmt.Sprintf("%s_ERROR", service),
		Message: "external service call failed",
		Cause:   err,
	}
}

// NewAgentError reports a generation stage whose output could not be
// validated against its target record type.
func NewAgentError(targetType string, cause error) *PipelineError {
	return &PipelineError{
		Code:    "AGENT_EXECUTION",
		Message: fmt.Sprintf("agent response could not be validated as %s", targetType),
		Cause:   cause,
	}
}

// ErrMissingDestination is raised before any network call when research is
// requested without a destination.
var ErrMissingDestination = NewValidationError(
	"MISSING_DESTINATION",
	"trip intent must include a destination or raw notes for intake",
)
