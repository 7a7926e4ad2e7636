package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15.0, cfg.DeadZoneDeg)
	assert.Equal(t, int64(200), cfg.GestureDebounceMS)
	assert.Equal(t, 50*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, time.Duration(0), cfg.Heartbeat())
	assert.False(t, cfg.Mock)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TELEOP_DEAD_ZONE_DEG", "20")
	t.Setenv("TELEOP_POLL_INTERVAL_MS", "100")
	t.Setenv("TELEOP_HEARTBEAT_MS", "5000")
	t.Setenv("TELEOP_MOCK", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 20.0, cfg.DeadZoneDeg)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, 5*time.Second, cfg.Heartbeat())
	assert.True(t, cfg.Mock)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"negative dead zone", func(c *Config) { c.DeadZoneDeg = -1 }, true},
		{"negative debounce", func(c *Config) { c.GestureDebounceMS = -1 }, true},
		{"zero poll interval", func(c *Config) { c.PollIntervalMS = 0 }, true},
		{"negative heartbeat", func(c *Config) { c.HeartbeatMS = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(&cfg)

			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRobotAPIURL(t *testing.T) {
	cfg := Config{RobotAddr: "192.168.68.80:8000"}
	assert.Equal(t, "http://192.168.68.80:8000", cfg.RobotAPIURL())
}
