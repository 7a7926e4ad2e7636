// Package input provides wrist-wearable input sources for teleoperation.
//
// A Source produces one orientation sample and at most one gesture event
// per poll. Two implementations exist: Mock for laptop testing without
// hardware and Bridge for a real watch streaming over WebSocket. The
// control loop never branches on which one it was given.
package input

import "errors"

// Sentinel errors a Source reports through Poll. A missing gesture is not
// an error; Poll only fails when the device itself is gone or unreadable.
var (
	// ErrDisconnected means the device link is down. Poll and Connect
	// return it; the control loop treats it as fatal for the session.
	ErrDisconnected = errors.New("input: device disconnected")

	// ErrRead means the device answered but the sample was unusable.
	ErrRead = errors.New("input: read failed")
)

// Ensure both implementations satisfy Source
var (
	_ Source = (*Mock)(nil)
	_ Source = (*Bridge)(nil)
)

// Source is a wrist-wearable device the control loop polls each tick.
type Source interface {
	// Connect establishes the device link. It blocks until the device is
	// ready or the attempt fails.
	Connect() error

	// Disconnect tears the link down. Idempotent and safe to call from
	// the shutdown path even if Connect never succeeded.
	Disconnect() error

	// Poll returns the latest orientation sample and the next pending
	// gesture event. A gesture with Kind GestureNone means no gesture
	// occurred, which is a normal reading. Poll must return promptly.
	Poll() (Orientation, Gesture, error)
}
