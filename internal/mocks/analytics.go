package mocks

import (
	"sync"

	"github.com/opencube/cube-draft-api/internal/analytics"
	"github.com/opencube/cube-draft-api/internal/logger"
)

// MockAnalyticsSink records events in memory for local development and
// tests, no ClickHouse server required.
type MockAnalyticsSink struct {
	mu     sync.Mutex
	events []analytics.Event
}

// NewMockAnalyticsSink creates a mock analytics sink.
func NewMockAnalyticsSink() *MockAnalyticsSink {
	logger.Info("Using mock analytics sink for local development")
	return &MockAnalyticsSink{}
}

// RecordEvent stores the event in memory.
func (m *MockAnalyticsSink) RecordEvent(ev analytics.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	logger.Debug("Mock analytics event", "kind", ev.Kind, "draft_id", ev.DraftID, "oracle_id", ev.OracleID)
	return nil
}

// Events returns a copy of the recorded events.
func (m *MockAnalyticsSink) Events() []analytics.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]analytics.Event{}, m.events...)
}

// Close is a no-op.
func (m *MockAnalyticsSink) Close() error {
	return nil
}
