package shared

import "time"

// Clock is an abstraction for time operations, allowing solve timings to be mocked in tests
type Clock interface {
	Now() time.Time
	Since(start time.Time) time.Duration
}

// RealClock implements Clock using the actual system time
type RealClock struct{}

// Now returns the current system time in UTC
func (r *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Since returns the wall time elapsed since start
func (r *RealClock) Since(start time.Time) time.Duration {
	return time.Since(start)
}

// MockClock implements Clock with a controllable time for testing
type MockClock struct {
	CurrentTime time.Time
}

// Now returns the mock's current time
func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

// Since measures against the mock's current time
func (m *MockClock) Since(start time.Time) time.Duration {
	return m.CurrentTime.Sub(start)
}

// Advance moves the mock clock forward by the given duration
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// NewMockClock creates a MockClock starting at the given time.
// If zero time is provided, starts at current time
func NewMockClock(startTime time.Time) *MockClock {
	if startTime.IsZero() {
		startTime = time.Now()
	}
	return &MockClock{CurrentTime: startTime}
}

// NewRealClock creates a RealClock instance
func NewRealClock() Clock {
	return &RealClock{}
}
