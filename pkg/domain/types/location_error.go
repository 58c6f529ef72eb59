package types

import "fmt"

// LocationError is the reason a device could not provide its position
type LocationError string

const (
	LocationErrorNone        LocationError = ""
	LocationErrorUnsupported LocationError = "unsupported"
	LocationErrorDenied      LocationError = "denied"
)

// IsValid checks if the location error is a known value. The empty value means no error.
func (e LocationError) IsValid() bool {
	switch e {
	case LocationErrorNone,
		LocationErrorUnsupported,
		LocationErrorDenied:
		return true
	default:
		return false
	}
}

// String returns the string representation of the location error
func (e LocationError) String() string {
	return string(e)
}

// ParseLocationError parses a string into a LocationError
func ParseLocationError(s string) (LocationError, error) {
	e := LocationError(s)
	if !e.IsValid() {
		return "", fmt.Errorf("invalid location error: %s", s)
	}
	return e, nil
}
