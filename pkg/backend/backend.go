// Package backend provides command executors for the teleoperation loop.
//
// A Backend applies discrete motion and action commands to a robot. The
// Console variant prints what it would do, for dry runs on a laptop; the
// HTTP variant drives a real robot daemon. StopAll and Shutdown must be
// safe to call repeatedly and from the shutdown path even if no command
// was ever executed.
package backend

import "github.com/teslashibe/go-teleop/pkg/command"

// Ensure both implementations satisfy Backend
var (
	_ Backend = (*Console)(nil)
	_ Backend = (*HTTP)(nil)
)

// Backend executes robot commands. Calls are never concurrent; the control
// loop applies commands in strict tick order.
type Backend interface {
	// ExecuteMotion applies a base drive command.
	ExecuteMotion(m command.Motion) error

	// ExecuteAction applies an auxiliary command. ActionNone is a no-op.
	ExecuteAction(a command.Action) error

	// StopAll halts all motion and actions immediately. Idempotent.
	StopAll() error

	// Shutdown releases backend resources. Idempotent.
	Shutdown() error
}
