package submission

import (
	"errors"
	"fmt"
)

var (
	ErrContentTooShort  = errors.New("blog content too short")
	ErrTermsNotAccepted = errors.New("terms not accepted")

	// errRoundTrip marks a serialize/parse divergence. It is a defect in the
	// codec, not a user-correctable condition, and is never a ValidationError.
	errRoundTrip = errors.New("serialized payload did not round-trip")
)

// ValidationError is a user-correctable gate failure. Message is the
// user-facing string; Err is the sentinel kind for errors.Is checks.
type ValidationError struct {
	Err     error
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Reason returns the stable label used for journal records and the
// rejection metrics.
func (e *ValidationError) Reason() string {
	switch {
	case errors.Is(e.Err, ErrContentTooShort):
		return "content_too_short"
	case errors.Is(e.Err, ErrTermsNotAccepted):
		return "terms_not_accepted"
	default:
		return "unknown"
	}
}

// UserMessage maps any pipeline error to the string shown to the user.
// Non-validation errors get a generic line; they are defects, not conditions
// the user can correct.
func UserMessage(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	return "Something went wrong while processing your submission. Please try again."
}
