package stylist

import (
	"errors"
	"fmt"
)

// AnalysisError represents a failed or unparseable vision analysis. No session
// is created when the analysis fails.
type AnalysisError struct {
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis error: %s (caused by: %v)", e.Message, e.Cause)
	}
	return fmt.Sprintf("analysis error: %s", e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// NewAnalysisError creates a new analysis error
func NewAnalysisError(message string, cause error) *AnalysisError {
	return &AnalysisError{Message: message, Cause: cause}
}

// IsAnalysisError reports whether err is an analysis error.
func IsAnalysisError(err error) bool {
	var ae *AnalysisError
	return errors.As(err, &ae)
}

// GenerationError represents a failed image generation for one occasion. It is
// recorded on the session as an empty image path plus this reason; sibling
// occasions are unaffected.
type GenerationError struct {
	Occasion string
	Message  string
	Cause    error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation error for occasion %s: %s (caused by: %v)", e.Occasion, e.Message, e.Cause)
	}
	return fmt.Sprintf("generation error for occasion %s: %s", e.Occasion, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// NewGenerationError creates a new generation error
func NewGenerationError(occasion, message string, cause error) *GenerationError {
	return &GenerationError{Occasion: occasion, Message: message, Cause: cause}
}
