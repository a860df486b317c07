package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels for the failure modes the handlers translate into HTTP statuses.
var (
	// ErrNotConfigured means the Gemini credential was absent at startup.
	ErrNotConfigured = errors.New("gemini ai not configured")
	// ErrSessionNotFound means the referenced diagnosis session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionComplete means an answer was submitted after every question
	// was already answered.
	ErrSessionComplete = errors.New("all questions already answered")
)

// AppError wraps an underlying error with an HTTP status and a message that
// is safe to return to the client.
type AppError struct {
	Err     error
	Status  int
	Message string
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Gateway wraps a Model Gateway transport failure. Session endpoints surface
// these to the caller as retryable errors.
func Gateway(err error) *AppError {
	return New(err, http.StatusBadGateway, "model gateway call failed")
}

// WrapRedis wraps a Redis failure with a consistent status and message.
func WrapRedis(err error) *AppError {
	return New(err, http.StatusBadGateway, "redis operation failed")
}

// Status extracts the HTTP status carried by err, defaulting sentinel and
// unknown errors to sensible codes.
func Status(err error) int {
	var app *AppError
	if errors.As(err, &app) {
		return app.Status
	}
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSessionComplete):
		return http.StatusConflict
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
