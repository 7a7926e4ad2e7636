// Package protocol defines the WebSocket message types used by go-teleop.
// The same envelope is shared by the watch bridge (watch → controller) and
// the dashboard event stream (controller → browser).
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslashibe/go-teleop/pkg/command"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Watch → Controller messages
	TypeOrientation MessageType = "orientation" // Wrist tilt sample
	TypeGesture     MessageType = "gesture"     // Tap or similar gesture

	// Controller → Dashboard messages
	TypeCommand   MessageType = "command"   // Command change event
	TypeHeartbeat MessageType = "heartbeat" // Periodic re-emission
	TypeShutdown  MessageType = "shutdown"  // Session terminated

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Watch → Controller Message Types
// =============================================================================

// OrientationData carries one wrist tilt sample. Bridges differ in what
// they report: some send roll/pitch in degrees directly, some only a
// rotation quaternion, some only raw accelerometer values. All fields are
// optional; the bridge input derives roll/pitch from whichever is present.
type OrientationData struct {
	Roll       *float64    `json:"roll,omitempty"`       // degrees
	Pitch      *float64    `json:"pitch,omitempty"`      // degrees
	Quaternion *[4]float64 `json:"quaternion,omitempty"` // w, x, y, z
	Accel      *[3]float64 `json:"accel,omitempty"`      // m/s², device frame
}

// GestureData carries a detected gesture.
type GestureData struct {
	Gesture     string `json:"gesture"` // "tap", "double_tap", "pinch", ...
	TimestampMS int64  `json:"ts"`
}

// =============================================================================
// Controller → Dashboard Message Types
// =============================================================================

// CommandEvent is broadcast on every accepted command change and on
// heartbeat re-emissions.
type CommandEvent struct {
	Session   string               `json:"session"`
	Command   command.RobotCommand `json:"command"`
	Heartbeat bool                 `json:"heartbeat,omitempty"`
}

// ShutdownEvent is broadcast exactly once when a session terminates.
type ShutdownEvent struct {
	Session string `json:"session"`
	Cause   string `json:"cause"` // "interrupt", "disconnect", "error"
	Detail  string `json:"detail,omitempty"`
}
