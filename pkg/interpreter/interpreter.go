// Package interpreter converts raw wrist orientation and gesture samples
// into discrete robot commands. It is purely computational: no I/O, no
// clock access, fully deterministic given its inputs.
package interpreter

import (
	"log/slog"
	"math"
	"time"

	"github.com/teslashibe/go-teleop/pkg/command"
	"github.com/teslashibe/go-teleop/pkg/input"
)

// Defaults used when a Config field is left zero.
const (
	DefaultDeadZoneDeg = 15.0
	DefaultDebounce    = 200 * time.Millisecond
)

// Config holds the interpretation thresholds.
type Config struct {
	// DeadZoneDeg is the tilt magnitude below which the wrist is neutral.
	// The comparison is exclusive: a tilt exactly at the threshold is
	// still neutral.
	DeadZoneDeg float64

	// Debounce is the minimum time between accepted gesture triggers.
	Debounce time.Duration

	// Logger receives suppressed-gesture debug events. Optional.
	Logger *slog.Logger
}

// axis identifies which tilt axis last produced a motion command.
// Used to break ties deterministically when both axes read equal.
type axis int

const (
	axisRoll axis = iota
	axisPitch
)

// Interpreter turns orientation and gesture samples into commands.
// It carries two pieces of temporal state: the motion produced by the
// previous orientation sample (for tie-break hysteresis) and the time of
// the last accepted gesture trigger (for debounce). Not safe for
// concurrent use; the control loop is the only caller.
type Interpreter struct {
	deadZone   float64
	debounceMS int64
	log        *slog.Logger

	lastMotion command.Motion

	lastTriggerMS int64
	hasTrigger    bool

	committed    command.RobotCommand
	hasCommitted bool
}

// New creates an Interpreter with the given thresholds.
func New(cfg Config) *Interpreter {
	if cfg.DeadZoneDeg <= 0 {
		cfg.DeadZoneDeg = DefaultDeadZoneDeg
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Interpreter{
		deadZone:   cfg.DeadZoneDeg,
		debounceMS: cfg.Debounce.Milliseconds(),
		log:        cfg.Logger,
	}
}

// InterpretOrientation maps a tilt sample onto a motion command.
//
// A sample is neutral (stop) when both |roll| and |pitch| are within the
// dead zone. Otherwise the axis with the larger magnitude wins and its sign
// selects the direction. When both magnitudes are exactly equal the axis
// that produced the previous motion wins, so noisy equal readings do not
// oscillate between two commands; with no previous motion, roll wins.
//
// Non-finite samples (NaN, ±Inf) are treated as neutral rather than
// propagated as motion. The interpreter's last-motion state updates on
// every call.
func (it *Interpreter) InterpretOrientation(o input.Orientation) command.Motion {
	motion := it.classify(o.Roll, o.Pitch)
	it.lastMotion = motion
	return motion
}

func (it *Interpreter) classify(roll, pitch float64) command.Motion {
	if !isFinite(roll) || !isFinite(pitch) {
		return command.Stop
	}

	absRoll := math.Abs(roll)
	absPitch := math.Abs(pitch)

	if absRoll <= it.deadZone && absPitch <= it.deadZone {
		return command.Stop
	}

	dominant := axisRoll
	switch {
	case absPitch > absRoll:
		dominant = axisPitch
	case absPitch == absRoll:
		dominant = it.previousAxis()
	}

	if dominant == axisPitch {
		if pitch > 0 {
			return command.MoveForward
		}
		return command.MoveBackward
	}
	if roll > 0 {
		return command.MoveRight
	}
	return command.MoveLeft
}

// previousAxis derives the tie-break axis from the last emitted motion.
// Stop carries no direction, so it falls through to the lateral default.
func (it *Interpreter) previousAxis() axis {
	switch it.lastMotion {
	case command.MoveLeft, command.MoveRight:
		return axisRoll
	case command.MoveForward, command.MoveBackward:
		return axisPitch
	default:
		return axisRoll
	}
}

// InterpretGesture maps a gesture event onto an action command.
//
// A tap produces a pickup only when no trigger has been accepted yet or the
// debounce window since the last accepted trigger has elapsed. Suppressed
// taps do not move the debounce anchor, so a burst of rapid taps cannot
// push the window forward indefinitely. nowMS must be monotonically
// non-decreasing across calls; the interpreter never reads a clock itself.
func (it *Interpreter) InterpretGesture(g input.Gesture, nowMS int64) command.Action {
	if g.Kind != input.GestureTap {
		return command.ActionNone
	}
	if it.hasTrigger && nowMS-it.lastTriggerMS < it.debounceMS {
		it.log.Debug("gesture suppressed", "kind", g.Kind.String(), "since_ms", nowMS-it.lastTriggerMS)
		return command.ActionNone
	}
	it.lastTriggerMS = nowMS
	it.hasTrigger = true
	return command.ActionPickup
}

// HasChanged reports whether cmd differs from the last committed command.
// The first call after construction always reports a change so the
// executor receives an initial command. Pure: does not mutate state.
func (it *Interpreter) HasChanged(cmd command.RobotCommand) bool {
	if !it.hasCommitted {
		return true
	}
	return cmd != it.committed
}

// Commit records cmd as the current command for future change detection.
// The controller calls this only after the command is accepted for the
// tick, normally after a successful forward to the executor.
func (it *Interpreter) Commit(cmd command.RobotCommand) {
	it.committed = cmd
	it.hasCommitted = true
}

// Committed returns the last committed command, or the fail-safe halt
// command if nothing has been committed yet.
func (it *Interpreter) Committed() command.RobotCommand {
	if !it.hasCommitted {
		return command.Halt
	}
	return it.committed
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
