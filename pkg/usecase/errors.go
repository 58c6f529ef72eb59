package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	// Request errors
	ErrInvalidCoordinates = goerr.New("invalid coordinates")
	ErrInvalidField       = goerr.New("invalid plan item field")

	// Concurrency errors. A second request while one is pending is rejected,
	// never queued.
	ErrIntakeInFlight  = goerr.New("plan request already in progress")
	ErrCaptureInFlight = goerr.New("export already in progress")

	// Upstream errors
	ErrLookupFailed = goerr.New("location lookup failed")
)

// Context keys for error values
const (
	FieldKey = "field"
)
