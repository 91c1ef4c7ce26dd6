package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingAPIKey     = errors.New("youtube api key is required")
	ErrNoSearchTerms     = errors.New("at least one search term is required")
	ErrSearchInProgress  = errors.New("a search is already in progress")
	ErrNoPendingChannels = errors.New("no pending channels to load")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrUnauthorized      = errors.New("unauthorized user")
	ErrNotAgreed         = errors.New("terms of use have not been accepted")

	// Cache storage backends.
	ErrEntryNotFound = errors.New("cache entry not found")
	ErrStorageFull   = errors.New("cache storage capacity exceeded")
)

// ValidationError reports a run precondition that failed before any remote call was made.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidation wraps err as a ValidationError for field.
func NewValidation(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// APIError is a failed call to the YouTube Data API.
type APIError struct {
	Kind    Kind
	Status  int
	Reason  string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("youtube api %s: %s", e.Kind, e.Message)
	}
	if e.Reason != "" {
		return fmt.Sprintf("youtube api %s (%d, %s): %s", e.Kind, e.Status, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube api %s (%d): %s", e.Kind, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Classify maps an HTTP status and the reason/message embedded in the error body to a Kind.
func Classify(status int, reason, message string) Kind {
	text := strings.ToLower(reason + " " + message)
	has := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}

	switch {
	case status == 403:
		switch {
		case has("quota", "exceeded"):
			return KindQuotaExceeded
		case has("forbidden"):
			return KindInvalidCredential
		case has("not configured", "accessnotconfigured"):
			return KindApiNotEnabled
		}
		return KindUnknown
	case status == 400:
		if has("keyinvalid", "api key not valid") {
			return KindInvalidCredential
		}
		return KindBadRequest
	default:
		return KindUnknown
	}
}

// KindOf walks the error chain and reports its Kind.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// UserMessage renders err as the single user-facing message for its Kind.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return "Please enter your YouTube Data API key."
	case errors.Is(err, ErrNoSearchTerms):
		return "Please enter at least one search keyword."
	case errors.Is(err, ErrSearchInProgress):
		return "A search is already running. Wait for it to finish."
	case errors.Is(err, ErrNoPendingChannels):
		return "There are no more channels to analyze."
	case errors.Is(err, ErrNotAgreed):
		return "Please accept the terms of use first."
	case errors.Is(err, ErrSessionNotFound):
		return "The search session does not exist or has expired."
	case errors.Is(err, ErrUnauthorized):
		return "You are not authorized to use this service."
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return fmt.Sprintf("Invalid search settings: %v.", ve)
	}

	var ae *APIError
	if !errors.As(err, &ae) {
		return fmt.Sprintf("An error occurred: %v", err)
	}
	switch ae.Kind {
	case KindQuotaExceeded:
		return "API quota limit reached. Check your API quota in the Google Cloud Console."
	case KindInvalidCredential:
		return "The API key is invalid. Enter a valid YouTube Data API v3 key."
	case KindApiNotEnabled:
		return "YouTube Data API v3 is not enabled. Enable the API in the Google Cloud Console."
	case KindNetwork:
		return "A network error occurred. Check your internet connection."
	case KindBadRequest:
		return "Request error: " + fallback(ae.Message, "check the search conditions.")
	}
	if ae.Status == 403 {
		return "API access error: " + fallback(ae.Message, "check the API key or its permissions.")
	}
	return fmt.Sprintf("An error occurred (%d): %s", ae.Status, fallback(ae.Message, "check the API key or the request."))
}

func fallback(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
