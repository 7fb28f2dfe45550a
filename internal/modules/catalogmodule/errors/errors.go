// Package errors provides structured error handling for the catalog module.
// It defines the sentinel errors callers match with errors.Is and a
// CatalogError carrying the failing operation and the ids involved.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mantonx/cinelist/internal/types"
)

// ErrorType classifies where a catalog error originated
type ErrorType string

const (
	// ErrorTypeValidation indicates bad caller input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound indicates a missing local or remote record
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeConflict indicates the TMDb id is already stored
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeDatabase indicates a persistence failure
	ErrorTypeDatabase ErrorType = "database"
	// ErrorTypeExternal indicates a failure talking to the remote catalog
	ErrorTypeExternal ErrorType = "external"
)

// Sentinel errors for common scenarios
var (
	// ErrNotFound indicates the movie does not exist locally or remotely
	ErrNotFound = errors.New("movie not found")

	// ErrInvalidArgument indicates a malformed request, e.g. a blank search query
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict indicates the external id is already stored on another row
	ErrConflict = errors.New("movie already exists for external id")

	// ErrExternalSource indicates the remote catalog failed or timed out.
	// It always travels with ErrNotFound.
	ErrExternalSource = errors.New("external catalog unavailable")
)

// CatalogError provides structured error information with context
type CatalogError struct {
	Type       ErrorType // Error classification
	Op         string    // Operation that failed, e.g. "add_to_favorites"
	MovieID    uint      // Local id if applicable
	ExternalID int       // TMDb id if applicable
	Err        error     // Underlying error
}

// Error implements the error interface
func (e *CatalogError) Error() string {
	switch {
	case e.MovieID != 0:
		return fmt.Sprintf("%s error in %s [movie=%d]: %v", e.Type, e.Op, e.MovieID, e.Err)
	case e.ExternalID != 0:
		return fmt.Sprintf("%s error in %s [tmdb=%d]: %v", e.Type, e.Op, e.ExternalID, e.Err)
	default:
		return fmt.Sprintf("%s error in %s: %v", e.Type, e.Op, e.Err)
	}
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *CatalogError) Unwrap() error {
	return e.Err
}

// New creates a new CatalogError
func New(errType ErrorType, op string, err error) *CatalogError {
	return &CatalogError{Type: errType, Op: op, Err: err}
}

// WithMovie adds local id context to the error
func (e *CatalogError) WithMovie(id uint) *CatalogError {
	e.MovieID = id
	return e
}

// WithExternal adds TMDb id context to the error
func (e *CatalogError) WithExternal(id int) *CatalogError {
	e.ExternalID = id
	return e
}

// NotFound creates a not-found error
func NotFound(op string) *CatalogError {
	return New(ErrorTypeNotFound, op, ErrNotFound)
}

// InvalidArgument creates a validation error with a reason
func InvalidArgument(op, reason string) *CatalogError {
	return New(ErrorTypeValidation, op, fmt.Errorf("%w: %s", ErrInvalidArgument, reason))
}

// DatabaseError creates a persistence error
func DatabaseError(op string, err error) *CatalogError {
	return New(ErrorTypeDatabase, op, err)
}

// Conflict creates an error for a TMDb id that is already stored
func Conflict(op string, tmdbID int) *CatalogError {
	return New(ErrorTypeConflict, op, fmt.Errorf("%w: tmdb_id %d", ErrConflict, tmdbID)).WithExternal(tmdbID)
}

// ExternalError creates a remote catalog error that callers see as a
// missing movie. The chain matches both ErrNotFound and ErrExternalSource.
func ExternalError(op string, err error) *CatalogError {
	return New(ErrorTypeExternal, op, fmt.Errorf("%w: %w: %v", ErrNotFound, ErrExternalSource, err))
}

// GetType extracts the error type from an error
func GetType(err error) ErrorType {
	var cErr *CatalogError
	if errors.As(err, &cErr) {
		return cErr.Type
	}
	return ErrorTypeDatabase
}

// ToAppError converts a catalog error into the HTTP-facing AppError
func ToAppError(err error) *types.AppError {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var cErr *CatalogError
	errors.As(err, &cErr)

	switch {
	case errors.Is(err, ErrNotFound):
		id := ""
		if cErr != nil {
			if cErr.MovieID != 0 {
				id = strconv.FormatUint(uint64(cErr.MovieID), 10)
			} else if cErr.ExternalID != 0 {
				id = strconv.Itoa(cErr.ExternalID)
			}
		}
		notFound := types.NewNotFoundError("movie", id)
		if errors.Is(err, ErrExternalSource) {
			notFound.WithContext("source", "tmdb").
				WithUserMessage("TMDb could not be reached, try again later")
			notFound.Retryable = true
		}
		return notFound
	case errors.Is(err, ErrInvalidArgument):
		return types.NewValidationError("invalid request", err.Error())
	case errors.Is(err, ErrConflict):
		return types.NewConflictError("movie already exists", err)
	case errors.Is(err, context.DeadlineExceeded):
		return types.NewAppErrorWithCause(types.ErrorCodeTimeout, "catalog operation timed out", http.StatusGatewayTimeout, err)
	case errors.Is(err, context.Canceled):
		return types.NewAppErrorWithCause(types.ErrorCodeCancelled, "catalog operation cancelled", http.StatusRequestTimeout, err)
	default:
		return types.NewInternalError("catalog operation failed", err)
	}
}
