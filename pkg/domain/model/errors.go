package model

import "github.com/m-mizutani/goerr/v2"

// Intake and export failures. None of them is fatal; the plan store stays
// usable after any of them.
var (
	ErrLocationUnavailable = goerr.New("location is not available on this device")
	ErrLocationDenied      = goerr.New("location access denied")
	ErrIntakeFailed        = goerr.New("failed to obtain a plan")
	ErrCaptureFailed       = goerr.New("failed to capture itinerary")
	ErrEncodeFailed        = goerr.New("failed to encode itinerary")
)

// ErrSessionNotFound is returned by session repositories for unknown ids
var ErrSessionNotFound = goerr.New("session not found")

// Context keys for error values
const (
	SessionIDKey = "session_id"
	ItemIDKey    = "item_id"
	LatitudeKey  = "lat"
	LongitudeKey = "lng"
	ExportKey    = "export"
)
