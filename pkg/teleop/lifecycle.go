package teleop

// Lifecycle is the controller's state. Transitions are monotonic except
// for the error-triggered Running→Stopping edge; Stopped is terminal.
type Lifecycle int

const (
	Init Lifecycle = iota
	Connecting
	Running
	Stopping
	Stopped
)

// String returns the lifecycle state name.
func (l Lifecycle) String() string {
	switch l {
	case Init:
		return "init"
	case Connecting:
		return "connecting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StopCause classifies why a session ended. Interrupt is a normal,
// operator-requested stop; the others are failures.
type StopCause int

const (
	CauseInterrupt StopCause = iota
	CauseDisconnect
	CauseError
)

// String returns the cause name used in logs and shutdown events.
func (c StopCause) String() string {
	switch c {
	case CauseInterrupt:
		return "interrupt"
	case CauseDisconnect:
		return "disconnect"
	case CauseError:
		return "error"
	default:
		return "unknown"
	}
}
