package interfaces

import "io"

// Repository defines the interface for session state storage
type Repository interface {
	io.Closer

	Session() SessionRepository
}
