// Package teleop provides the teleoperation control loop: it polls a wrist
// input source at a fixed cadence, interprets samples into robot commands,
// forwards changes to the command executor, and guarantees an ordered,
// time-boxed shutdown on any terminal condition.
package teleop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-teleop/pkg/backend"
	"github.com/teslashibe/go-teleop/pkg/command"
	"github.com/teslashibe/go-teleop/pkg/input"
	"github.com/teslashibe/go-teleop/pkg/interpreter"
)

// DefaultPollInterval is the control loop cadence when none is configured.
const DefaultPollInterval = 50 * time.Millisecond

// stepTimeout bounds each cleanup step so the full shutdown sequence
// completes within the one-second budget even if a collaborator hangs.
const stepTimeout = 300 * time.Millisecond

// EventSink receives session events. The controller calls OnCommand at
// most once per actual command change plus once per heartbeat re-emission,
// never unconditionally per tick, and OnShutdown exactly once.
type EventSink interface {
	OnCommand(cmd command.RobotCommand, heartbeat bool)
	OnShutdown(cause StopCause, err error)
}

// Config wires the controller's collaborators and cadence.
type Config struct {
	Source  input.Source
	Backend backend.Backend
	Interp  *interpreter.Interpreter

	// PollInterval is the tick cadence. Defaults to 50ms.
	PollInterval time.Duration

	// Heartbeat re-forwards the current command every interval as a
	// liveness signal. Zero disables it.
	Heartbeat time.Duration

	// Logger is required for session reporting; defaults to slog.Default().
	Logger *slog.Logger

	// Sink receives command and shutdown events. Optional.
	Sink EventSink
}

// Controller owns the run loop and lifecycle state machine. One controller
// drives one session; it is not reusable after Stopped.
type Controller struct {
	source input.Source
	exec   backend.Backend
	interp *interpreter.Interpreter

	poll      time.Duration
	heartbeat time.Duration
	log       *slog.Logger
	sink      EventSink
	session   string

	mu       sync.RWMutex
	state    Lifecycle
	cause    StopCause
	causeErr error

	stop     chan struct{}
	stopOnce sync.Once

	shutdownOnce sync.Once
}

// New creates a controller. Source, Backend and Interp are required.
func New(cfg Config) (*Controller, error) {
	if cfg.Source == nil {
		return nil, errors.New("teleop: input source is required")
	}
	if cfg.Backend == nil {
		return nil, errors.New("teleop: backend is required")
	}
	if cfg.Interp == nil {
		return nil, errors.New("teleop: interpreter is required")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	session := uuid.New().String()
	return &Controller{
		source:    cfg.Source,
		exec:      cfg.Backend,
		interp:    cfg.Interp,
		poll:      cfg.PollInterval,
		heartbeat: cfg.Heartbeat,
		log:       cfg.Logger.With("session", session),
		sink:      cfg.Sink,
		session:   session,
		state:     Init,
		stop:      make(chan struct{}),
	}, nil
}

// SetSink attaches an event sink. Must be called before Run; resolves the
// construction cycle between the controller and sinks that also need a
// reference to it, like the dashboard.
func (c *Controller) SetSink(sink EventSink) {
	c.sink = sink
}

// Session returns the session identifier used in logs and events.
func (c *Controller) Session() string {
	return c.session
}

// State returns the current lifecycle state.
func (c *Controller) State() Lifecycle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) setState(s Lifecycle) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) setCause(cause StopCause, err error) {
	c.mu.Lock()
	c.cause = cause
	c.causeErr = err
	c.mu.Unlock()
}

func (c *Controller) stopCause() (StopCause, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cause, c.causeErr
}

// Stop requests a programmatic stop. The loop observes it within one poll
// interval and runs the normal shutdown sequence.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Run drives the session to completion: connect, loop until a terminal
// condition, shut down. It returns nil when the session ended by operator
// request and the terminating error otherwise. Cancelling ctx is
// equivalent to calling Stop.
func (c *Controller) Run(ctx context.Context) error {
	c.setState(Connecting)
	c.log.Info("connecting to input source")

	if err := c.source.Connect(); err != nil {
		c.setCause(CauseError, err)
		c.log.Error("input source connect failed", "err", err)
		c.Shutdown()
		return fmt.Errorf("connect input source: %w", err)
	}

	c.setState(Running)
	c.log.Info("teleoperation started", "poll", c.poll, "heartbeat", c.heartbeat)

	start := time.Now()
	lastBeat := start

	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			c.setCause(CauseInterrupt, nil)
			break loop
		case <-c.stop:
			c.setCause(CauseInterrupt, nil)
			break loop
		case now := <-ticker.C:
			if err := c.tick(now.Sub(start).Milliseconds(), now, &lastBeat); err != nil {
				if errors.Is(err, input.ErrDisconnected) {
					c.setCause(CauseDisconnect, err)
				} else {
					c.setCause(CauseError, err)
				}
				break loop
			}
		}
	}

	c.report()
	c.Shutdown()

	cause, err := c.stopCause()
	if cause == CauseInterrupt {
		return nil
	}
	return err
}

// tick runs one poll/interpret/forward cycle. Any error aborts the
// iteration and the session; partially applied commands are not retried.
func (c *Controller) tick(nowMS int64, now time.Time, lastBeat *time.Time) error {
	sample, gesture, err := c.source.Poll()
	if err != nil {
		return fmt.Errorf("poll input source: %w", err)
	}

	motion := c.interp.InterpretOrientation(sample)
	action := c.interp.InterpretGesture(gesture, nowMS)
	cmd := command.RobotCommand{Motion: motion, Action: action}

	if c.interp.HasChanged(cmd) {
		if err := c.forward(cmd); err != nil {
			return err
		}
		c.interp.Commit(cmd)
		*lastBeat = now
		c.log.Info("command", "motion", cmd.Motion.String(), "action", cmd.Action.String())
		if c.sink != nil {
			c.sink.OnCommand(cmd, false)
		}
		return nil
	}

	if c.heartbeat > 0 && now.Sub(*lastBeat) >= c.heartbeat {
		// Liveness re-emission. Only the motion is re-sent: replaying a
		// pickup trigger would repeat the grasp.
		current := c.interp.Committed()
		if err := c.exec.ExecuteMotion(current.Motion); err != nil {
			return fmt.Errorf("heartbeat forward: %w", err)
		}
		*lastBeat = now
		c.log.Debug("heartbeat", "motion", current.Motion.String())
		if c.sink != nil {
			c.sink.OnCommand(current, true)
		}
	}

	return nil
}

func (c *Controller) forward(cmd command.RobotCommand) error {
	if err := c.exec.ExecuteMotion(cmd.Motion); err != nil {
		return fmt.Errorf("execute motion %s: %w", cmd.Motion, err)
	}
	if cmd.Action != command.ActionNone {
		if err := c.exec.ExecuteAction(cmd.Action); err != nil {
			return fmt.Errorf("execute action %s: %w", cmd.Action, err)
		}
	}
	return nil
}

// report emits the single termination message naming the trigger.
func (c *Controller) report() {
	cause, err := c.stopCause()
	switch cause {
	case CauseInterrupt:
		c.log.Info("teleoperation stopped", "cause", cause.String())
	case CauseDisconnect:
		c.log.Error("input source disconnected", "cause", cause.String(), "err", err)
	default:
		c.log.Error("control loop failed", "cause", cause.String(), "err", err)
	}
}

// Shutdown runs the ordered cleanup sequence: stop all motion, release the
// executor, disconnect the input source. Each step is best-effort and
// independently time-boxed so the whole sequence finishes within about a
// second even if a collaborator blocks. Idempotent and safe to call
// concurrently with Run.
func (c *Controller) Shutdown() {
	c.shutdownOnce.Do(func() {
		c.setState(Stopping)

		c.runStep("stop all motion", c.exec.StopAll)
		c.runStep("shutdown backend", c.exec.Shutdown)
		c.runStep("disconnect input source", c.source.Disconnect)

		c.setState(Stopped)
		c.log.Info("executor stopped, session closed")

		if c.sink != nil {
			cause, err := c.stopCause()
			c.sink.OnShutdown(cause, err)
		}
	})
}

// runStep executes one cleanup step with a timeout. A step that blocks is
// abandoned (its goroutine is left to finish on its own) so later steps
// still run.
func (c *Controller) runStep(name string, fn func() error) {
	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		if err != nil {
			c.log.Warn("cleanup step failed", "step", name, "err", err)
		}
	case <-time.After(stepTimeout):
		c.log.Warn("cleanup step timed out", "step", name)
	}
}
