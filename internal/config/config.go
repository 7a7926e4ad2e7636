// Package config provides configuration for go-teleop commands.
// Values come from the environment (TELEOP_* variables) with sensible
// defaults; command-line flags in cmd/teleop may override them.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime configuration for the teleoperation stack.
type Config struct {
	// DeadZoneDeg is the wrist-tilt magnitude (degrees) treated as neutral.
	DeadZoneDeg float64 `env:"TELEOP_DEAD_ZONE_DEG" envDefault:"15"`

	// GestureDebounceMS is the minimum time between accepted gesture
	// triggers, in milliseconds.
	GestureDebounceMS int64 `env:"TELEOP_GESTURE_DEBOUNCE_MS" envDefault:"200"`

	// PollIntervalMS is the control loop cadence in milliseconds.
	PollIntervalMS int64 `env:"TELEOP_POLL_INTERVAL_MS" envDefault:"50"`

	// HeartbeatMS re-emits the current command every N milliseconds as a
	// liveness signal. Zero disables the heartbeat.
	HeartbeatMS int64 `env:"TELEOP_HEARTBEAT_MS" envDefault:"0"`

	// WatchURL is the WebSocket URL of the watch bridge, e.g.
	// ws://localhost:9090/ws. Ignored in mock mode.
	WatchURL string `env:"TELEOP_WATCH_URL" envDefault:"ws://localhost:9090/ws"`

	// RobotAddr is the host:port of the robot daemon HTTP API.
	// Empty selects the console backend.
	RobotAddr string `env:"TELEOP_ROBOT_ADDR"`

	// DashboardPort is the port for the live dashboard. Zero disables it.
	DashboardPort int `env:"TELEOP_DASHBOARD_PORT" envDefault:"0"`

	// Mock selects the simulated watch input instead of the bridge.
	Mock bool `env:"TELEOP_MOCK" envDefault:"false"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"TELEOP_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the control loop cannot run with.
func (c Config) Validate() error {
	if c.DeadZoneDeg < 0 {
		return fmt.Errorf("dead zone must be non-negative, got %v", c.DeadZoneDeg)
	}
	if c.GestureDebounceMS < 0 {
		return fmt.Errorf("gesture debounce must be non-negative, got %d", c.GestureDebounceMS)
	}
	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("poll interval must be positive, got %d", c.PollIntervalMS)
	}
	if c.HeartbeatMS < 0 {
		return fmt.Errorf("heartbeat interval must be non-negative, got %d", c.HeartbeatMS)
	}
	return nil
}

// PollInterval returns the poll cadence as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Heartbeat returns the heartbeat cadence as a duration, or zero if disabled.
func (c Config) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatMS) * time.Millisecond
}

// RobotAPIURL returns the robot daemon HTTP API base URL.
func (c Config) RobotAPIURL() string {
	return fmt.Sprintf("http://%s", c.RobotAddr)
}
