package memory

import (
	"github.com/secmon-lab/perfectday/pkg/domain/interfaces"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

// ErrNotFound is returned when a session does not exist
var ErrNotFound = model.ErrSessionNotFound

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	session *sessionRepository
}

var _ interfaces.Repository = &Memory{}

// Option configures the in-memory repository
type Option func(*Memory)

// WithIDGenerator makes every plan store created by the repository use gen
func WithIDGenerator(gen model.IDGenerator) Option {
	return func(m *Memory) {
		m.session.storeOpts = append(m.session.storeOpts, model.WithIDGenerator(gen))
	}
}

func New(opts ...Option) *Memory {
	m := &Memory{
		session: newSessionRepository(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Session() interfaces.SessionRepository {
	return m.session
}

// Close is a no-op; state lives only as long as the process
func (m *Memory) Close() error {
	return nil
}
