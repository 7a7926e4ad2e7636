package backend

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/teslashibe/go-teleop/pkg/command"
)

// Console prints commands instead of driving hardware. Used for laptop
// dry runs with the mock watch.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	stopped bool
}

// NewConsole creates a console backend writing to stdout.
func NewConsole() *Console {
	return &Console{w: os.Stdout}
}

// NewConsoleWriter creates a console backend writing to w. Used in tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{w: w}
}

// ExecuteMotion prints the drive command.
func (c *Console) ExecuteMotion(m command.Motion) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch m {
	case command.MoveForward:
		fmt.Fprintln(c.w, "🤖 driving forward")
	case command.MoveBackward:
		fmt.Fprintln(c.w, "🤖 driving backward")
	case command.MoveLeft:
		fmt.Fprintln(c.w, "🤖 driving left")
	case command.MoveRight:
		fmt.Fprintln(c.w, "🤖 driving right")
	case command.Stop:
		fmt.Fprintln(c.w, "🤖 stopping base")
	}
	return nil
}

// ExecuteAction prints the action command.
func (c *Console) ExecuteAction(a command.Action) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if a == command.ActionPickup {
		fmt.Fprintln(c.w, "🤖 pickup triggered")
	}
	return nil
}

// StopAll prints the emergency stop.
func (c *Console) StopAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	fmt.Fprintln(c.w, "🤖 emergency stop engaged")
	return nil
}

// Shutdown prints the shutdown notice.
func (c *Console) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	fmt.Fprintln(c.w, "🤖 backend shut down")
	return nil
}
