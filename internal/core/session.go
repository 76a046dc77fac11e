package core

import (
	"fmt"

	"github.com/google/uuid"

	"hydracore/pkg/domain"
)

// Session binds one result source, one persistence context, and a registry
// of entity mappings into a single logical unit of work. A session drives
// one coordinated load pipeline at a time; it is not safe for concurrent use.
type Session struct {
	id       uuid.UUID
	source   domain.ResultSource
	mappings map[string]domain.EntityMapping
	pc       *PersistenceContext
	log      domain.Logger
	metrics  MetricsRecorder
	closed   bool
}

// SessionOption customizes session construction.
type SessionOption func(*Session)

// WithLogger installs a logger for the session and its persistence context.
func WithLogger(log domain.Logger) SessionOption {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics installs a metrics recorder shared by the session's pipeline.
func WithMetrics(rec MetricsRecorder) SessionOption {
	return func(s *Session) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// NewSession constructs a session over the given source and mappings.
// Mappings are validated up front so load paths can assume them well formed.
func NewSession(source domain.ResultSource, mappings []domain.EntityMapping, opts ...SessionOption) (*Session, error) {
	s := &Session{
		id:       uuid.New(),
		source:   source,
		mappings: make(map[string]domain.EntityMapping, len(mappings)),
		log:      domain.NopLogger{},
		metrics:  NopMetricsRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, m := range mappings {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("session mappings: %w", err)
		}
		if _, dup := s.mappings[m.Name]; dup {
			return nil, fmt.Errorf("session mappings: duplicate entity %q", m.Name)
		}
		s.mappings[m.Name] = m
	}
	s.pc = NewPersistenceContext(s.log, s.metrics)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Source returns the result source the session reads from.
func (s *Session) Source() domain.ResultSource {
	return s.source
}

// Mapping returns the registered mapping for the given entity name.
func (s *Session) Mapping(entity string) (domain.EntityMapping, bool) {
	m, ok := s.mappings[entity]
	return m, ok
}

// PersistenceContext returns the session's first-level cache.
func (s *Session) PersistenceContext() *PersistenceContext {
	return s.pc
}

// Logger returns the session logger.
func (s *Session) Logger() domain.Logger {
	return s.log
}

// Metrics returns the session metrics recorder.
func (s *Session) Metrics() MetricsRecorder {
	return s.metrics
}

// Close clears the persistence context, running load-context failsafe
// cleanup, then closes the result source. Close is idempotent.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.pc.Clear()
	if err := s.source.Close(); err != nil {
		return fmt.Errorf("close result source: %w", err)
	}
	return nil
}
