package recipe

import (
	"fmt"
	"net/http"
)

// Kind classifies a failed lookup.
type Kind string

const (
	// KindClient indicates missing or blank input.
	KindClient Kind = "CLIENT"
	// KindConfiguration indicates the API key is not configured.
	KindConfiguration Kind = "CONFIGURATION"
	// KindAuth indicates the API rejected the configured key.
	KindAuth Kind = "AUTH"
	// KindQuota indicates the API quota is exhausted.
	KindQuota Kind = "QUOTA"
	// KindUpstream indicates any other non-success API status.
	KindUpstream Kind = "UPSTREAM"
	// KindInternal indicates anything unexpected.
	KindInternal Kind = "INTERNAL"
)

// User-facing messages.
const (
	MsgIngredientsRequired = "Ingredients parameter is required"
	MsgConfiguration       = "Server configuration error"
	MsgInvalidAPIKey       = "Invalid API key"
	MsgQuotaExceeded       = "API quota exceeded. Please try again later."
	MsgUpstream            = "Failed to fetch recipes from Spoonacular"
	MsgInternal            = "An unexpected error occurred"
)

// Error is the failure result of a lookup. Message is safe to show to
// clients; Cause is for logs only.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, cause error) *Error {
	e := &Error{Kind: kind, Cause: cause}
	switch kind {
	case KindClient:
		e.Status, e.Message = http.StatusBadRequest, MsgIngredientsRequired
	case KindConfiguration:
		e.Status, e.Message = http.StatusInternalServerError, MsgConfiguration
	case KindAuth:
		// The key belongs to the server, so a rejected key is a server fault.
		e.Status, e.Message = http.StatusInternalServerError, MsgInvalidAPIKey
	case KindQuota:
		e.Status, e.Message = http.StatusServiceUnavailable, MsgQuotaExceeded
	case KindUpstream:
		e.Status, e.Message = http.StatusBadGateway, MsgUpstream
	default:
		e.Kind = KindInternal
		e.Status, e.Message = http.StatusInternalServerError, MsgInternal
	}
	return e
}

// Internal wraps cause as a KindInternal error.
func Internal(cause error) *Error {
	return newError(KindInternal, cause)
}
