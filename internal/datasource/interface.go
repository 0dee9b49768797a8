package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/pitwall/internal/models"
)

// DataSource defines the interface for fetching historical results from external providers
type DataSource interface {
	// FetchCircuits retrieves the circuits on a season's calendar
	FetchCircuits(ctx context.Context, season int) ([]models.Circuit, error)

	// FetchRace retrieves the race classification for a season and circuit
	FetchRace(ctx context.Context, season int, circuitID string) (*models.Race, error)

	// FetchQualifying retrieves the qualifying classification for a season and circuit
	FetchQualifying(ctx context.Context, season int, circuitID string) (*models.QualifyingSession, error)

	// Name returns the name of the data source
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
	ErrCodeUnknown           = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrInvalidData       = errors.New("invalid data format")
	ErrNetworkError      = errors.New("network error")
	ErrServerError       = errors.New("server error")
	ErrCircuitOpen       = errors.New("circuit breaker open")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
