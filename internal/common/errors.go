package common

import (
	"errors"
	"fmt"
	"net/http"

	"codecoach/internal/platform/piston"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidInput       = errors.New("username and password are required")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")

	ErrModelUnavailable  = errors.New("model provider unavailable")
	ErrNoValidJSON       = errors.New("no valid JSON object in model reply")
	ErrIncompleteProblem = errors.New("problem record is missing required fields")
	ErrMalformedProblem  = errors.New("problem record is not valid JSON")
	ErrMissingProblem    = errors.New("problem record is required")

	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrMissingCode         = errors.New("code is required")
	ErrExecutionFailed     = errors.New("code execution failed")
	ErrProxyUnavailable    = errors.New("execution service unavailable")

	ErrNotFound       = errors.New("requested resource not found")
	ErrInternalServer = errors.New("internal server error")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrDuplicateUsername),
		errors.Is(err, ErrIncompleteProblem),
		errors.Is(err, ErrMalformedProblem),
		errors.Is(err, ErrMissingProblem),
		errors.Is(err, ErrUnsupportedLanguage),
		errors.Is(err, ErrMissingCode):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrModelUnavailable),
		errors.Is(err, ErrNoValidJSON),
		errors.Is(err, ErrProxyUnavailable):
		return http.StatusInternalServerError
	}

	// Execution failures mirror the sandbox's own status.
	var statusErr *piston.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	if errors.Is(err, ErrExecutionFailed) {
		return http.StatusInternalServerError
	}

	// Unique violations that slipped past the repository.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
