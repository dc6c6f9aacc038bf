package patient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound         = errors.New("patient not found")
	ErrInvalidID        = errors.New("invalid id")
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// FieldIssue names one offending input field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed caller input.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Field + " " + is.Message
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Fields returns the names of the offending fields.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		out[i] = is.Field
	}
	return out
}

func newValidationError(issues []FieldIssue) error {
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

// storeErr passes taxonomy errors through and folds everything else into
// ErrStoreUnavailable, keeping the cause for server-side logs.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID) || errors.As(err, &verr) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
