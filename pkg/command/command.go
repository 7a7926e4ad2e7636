// Package command defines the discrete command vocabulary forwarded to the
// robot: base motion commands, auxiliary action commands, and the combined
// RobotCommand unit.
package command

import "fmt"

// Motion is a discrete base drive command. Exactly one motion is active at
// any instant.
type Motion int

const (
	Stop Motion = iota
	MoveForward
	MoveBackward
	MoveLeft
	MoveRight
)

// String returns the motion name for logging and the wire protocol.
func (m Motion) String() string {
	switch m {
	case Stop:
		return "stop"
	case MoveForward:
		return "move_forward"
	case MoveBackward:
		return "move_backward"
	case MoveLeft:
		return "move_left"
	case MoveRight:
		return "move_right"
	default:
		return fmt.Sprintf("motion(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler so motions serialize as
// their names in JSON payloads.
func (m Motion) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Action is a discrete non-motion command.
type Action int

const (
	ActionNone Action = iota
	ActionPickup
)

// String returns the action name for logging and the wire protocol.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionPickup:
		return "pickup"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// RobotCommand is the unit forwarded to the executor each tick. It is a
// plain comparable struct so change detection is a struct equality check.
type RobotCommand struct {
	Motion Motion `json:"motion"`
	Action Action `json:"action"`
}

// Halt is the fail-safe command: base stopped, no action.
var Halt = RobotCommand{Motion: Stop, Action: ActionNone}

// String returns a compact form like "move_right/pickup".
func (c RobotCommand) String() string {
	return c.Motion.String() + "/" + c.Action.String()
}
