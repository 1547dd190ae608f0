package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a game session does not exist or was discarded.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrModeNotFound is returned when a mode ID is not in the arcade.
	ErrModeNotFound = errors.New("game mode not found")
	// ErrCatalogNotFound indicates the catalog content could not be loaded.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrInvalidTransition is returned when an event does not apply to the current phase.
	// The state is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition for current phase")
	// ErrNoMountedMode is returned when the shell has nothing mounted for a profile.
	ErrNoMountedMode = errors.New("no game mode mounted")
	// ErrWrongModeKind is returned when a call does not match the mounted mode (board vs quiz).
	ErrWrongModeKind = errors.New("operation not supported by this mode")

	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrUnknownCounter = errors.New("unknown progress counter")

	ErrEmptyMessage    = errors.New("message text is empty")
	ErrMessageNotFound = errors.New("message not found")

	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrUnknownAgeGroup     = errors.New("unknown age group")

	ErrUnauthenticated     = errors.New("you must be logged in to submit feedback")
	ErrEmptyFeedback       = errors.New("please enter your feedback")
	ErrInvalidRating       = errors.New("rating must be between 0 and 5")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidSignUp       = errors.New("email, password and name are required")
	ErrDocumentStoreClosed = errors.New("document store unavailable")
)

// ConfigurationError reports a catalog that cannot start a session.
type ConfigurationError struct {
	Mode   ModeID
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Mode == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error in mode %s: %s", e.Mode, e.Reason)
}

// PersistenceReadError reports a stored value that could not be decoded.
// It is recovered locally by falling back to the zero value.
type PersistenceReadError struct {
	Key string
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Key, e.Err)
}

func (e *PersistenceReadError) Unwrap() error { return e.Err }

// ExternalServiceError wraps failures of the identity/document store.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
