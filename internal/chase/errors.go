package chase

import (
	"errors"
	"fmt"
)

// EngineErrorCode categorizes engine errors.
type EngineErrorCode string

const (
	// ErrCodeNotCartesian indicates a free-model construction was requested
	// for a theory with a non-unique axiom.
	ErrCodeNotCartesian EngineErrorCode = "NOT_CARTESIAN"

	// ErrCodeRecorder indicates the trace recorder failed mid-run.
	ErrCodeRecorder EngineErrorCode = "RECORDER_FAILED"
)

// EngineError is a structured engine failure. These signal caller errors or
// infrastructure failures, never data problems: malformed theories degrade
// to non-matching triggers and capped runs return silently.
type EngineError struct {
	Code    EngineErrorCode
	Message string
	Axiom   string
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Axiom != "" {
		return fmt.Sprintf("%s: %s (axiom=%s)", e.Code, e.Message, e.Axiom)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNotCartesianError creates an EngineError for FreeReflect's
// precondition violation, naming the first non-unique axiom.
func NewNotCartesianError(axiom string) *EngineError {
	return &EngineError{
		Code:    ErrCodeNotCartesian,
		Message: "free reflection requires every axiom to carry a unique witness",
		Axiom:   axiom,
	}
}

// IsNotCartesianError reports whether err is a cartesian precondition
// violation. Uses errors.As to handle wrapped errors.
func IsNotCartesianError(err error) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeNotCartesian
	}
	return false
}
