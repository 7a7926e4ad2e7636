package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/teslashibe/go-teleop/internal/httpc"
	"github.com/teslashibe/go-teleop/pkg/command"
)

// HTTP drives a robot daemon over its REST API. Motion commands become
// base velocity requests, the pickup action triggers the daemon's grasp
// routine. All requests go through the shared short-timeout client so a
// stuck daemon surfaces as an error instead of stalling the control loop.
type HTTP struct {
	BaseURL string
	client  *http.Client

	// Speed is the base translation speed in m/s used for drive commands.
	Speed float64
}

// NewHTTP creates an HTTP backend for a daemon at baseURL, e.g.
// http://192.168.68.80:8000.
func NewHTTP(baseURL string) *HTTP {
	return &HTTP{
		BaseURL: baseURL,
		client:  httpc.Client,
		Speed:   0.2,
	}
}

// ExecuteMotion sends a base velocity request for the given motion.
func (h *HTTP) ExecuteMotion(m command.Motion) error {
	vx, vy := 0.0, 0.0
	switch m {
	case command.MoveForward:
		vx = h.Speed
	case command.MoveBackward:
		vx = -h.Speed
	case command.MoveLeft:
		vy = h.Speed
	case command.MoveRight:
		vy = -h.Speed
	case command.Stop:
		// zero velocity
	}

	payload := map[string]interface{}{
		"vx": vx,
		"vy": vy,
	}
	return h.post("/api/base/velocity", payload)
}

// ExecuteAction triggers the daemon's pickup routine. ActionNone is a
// no-op.
func (h *HTTP) ExecuteAction(a command.Action) error {
	if a != command.ActionPickup {
		return nil
	}
	return h.post("/api/arm/pickup", nil)
}

// StopAll halts base and arm immediately. Safe to call repeatedly.
func (h *HTTP) StopAll() error {
	return h.post("/api/stop", nil)
}

// Shutdown closes idle connections. The daemon itself stays up.
func (h *HTTP) Shutdown() error {
	h.client.CloseIdleConnections()
	return nil
}

func (h *HTTP) post(path string, payload interface{}) error {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return fmt.Errorf("encode %s payload: %w", path, err)
		}
	}

	resp, err := h.client.Post(h.BaseURL+path, "application/json", &body)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("POST %s: daemon returned %d", path, resp.StatusCode)
	}
	return nil
}
