package input

import (
	"math/rand"
	"sync"
)

// Mock is a simulated watch for laptop testing without hardware. Each poll
// the orientation drifts by a small random amount, clamped to ±90°, and
// gestures injected via InjectGesture are delivered one per poll.
//
// Inject methods may be called from another goroutine (a demo script or a
// test), so internal state is mutex-protected.
type Mock struct {
	mu          sync.Mutex
	connected   bool
	drift       bool
	orientation Orientation
	gestures    []Gesture
}

// NewMock creates a disconnected mock watch. When drift is true the
// orientation wanders randomly on every poll; when false it only changes
// through InjectOrientation.
func NewMock(drift bool) *Mock {
	return &Mock{drift: drift}
}

// Connect marks the mock as connected. Never fails.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = true
	return nil
}

// Disconnect marks the mock as disconnected. Idempotent.
func (m *Mock) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

// Poll returns the current orientation and the next queued gesture.
func (m *Mock) Poll() (Orientation, Gesture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return Orientation{}, Gesture{}, ErrDisconnected
	}

	if m.drift {
		m.orientation.Roll = clamp(m.orientation.Roll+randStep(), -90, 90)
		m.orientation.Pitch = clamp(m.orientation.Pitch+randStep(), -90, 90)
	}

	var g Gesture
	if len(m.gestures) > 0 {
		g = m.gestures[0]
		m.gestures = m.gestures[1:]
	}

	return m.orientation, g, nil
}

// InjectOrientation sets the orientation returned by subsequent polls.
func (m *Mock) InjectOrientation(roll, pitch float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orientation = Orientation{Roll: roll, Pitch: pitch}
}

// InjectGesture queues a gesture event for delivery on a future poll.
func (m *Mock) InjectGesture(kind GestureKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gestures = append(m.gestures, Gesture{Kind: kind})
}

func randStep() float64 {
	return (rand.Float64() - 0.5) * 4 // ±2 degrees per poll
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
