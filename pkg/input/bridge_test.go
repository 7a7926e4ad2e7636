package input

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-teleop/pkg/protocol"
)

// bridgeServer is a fake watch bridge: it upgrades to WebSocket and plays
// back a fixed message sequence, then keeps the connection open.
func bridgeServer(t *testing.T, play func(conn *websocket.Conn)) (url string, done chan struct{}) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	done = make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		play(conn)
		<-done
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(done) })

	return "ws" + strings.TrimPrefix(srv.URL, "http"), done
}

func sendOrientation(t *testing.T, conn *websocket.Conn, roll, pitch float64) {
	t.Helper()
	msg, err := protocol.NewMessage(protocol.TypeOrientation, protocol.OrientationData{
		Roll:  &roll,
		Pitch: &pitch,
	})
	require.NoError(t, err)
	raw, err := msg.Bytes()
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

func sendGesture(t *testing.T, conn *websocket.Conn, gesture string, ts int64) {
	t.Helper()
	msg, err := protocol.NewMessage(protocol.TypeGesture, protocol.GestureData{
		Gesture:     gesture,
		TimestampMS: ts,
	})
	require.NoError(t, err)
	raw, err := msg.Bytes()
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

func TestBridge_ConnectAndCalibrate(t *testing.T) {
	url, _ := bridgeServer(t, func(conn *websocket.Conn) {
		// Resting pose samples establish the zero offset
		for i := 0; i < calibSamples; i++ {
			sendOrientation(t, conn, 2, 2)
		}
		// Then a sustained tilt
		for i := 0; i < 50; i++ {
			sendOrientation(t, conn, 32, 2)
			time.Sleep(2 * time.Millisecond)
		}
	})

	b := NewBridge(url, nil)
	require.NoError(t, b.Connect())
	defer b.Disconnect()

	require.Eventually(t, func() bool {
		o, _, err := b.Poll()
		return err == nil && math.Abs(o.Roll-30) < 0.5 && math.Abs(o.Pitch) < 0.5
	}, 2*time.Second, 5*time.Millisecond, "tilt should read relative to the calibrated zero")
}

func TestBridge_GestureNormalization(t *testing.T) {
	url, _ := bridgeServer(t, func(conn *websocket.Conn) {
		for i := 0; i < calibSamples+1; i++ {
			sendOrientation(t, conn, 0, 0)
		}
		sendGesture(t, conn, "double_tap", 123)
		sendGesture(t, conn, "idle", 200) // dropped
	})

	b := NewBridge(url, nil)
	require.NoError(t, b.Connect())
	defer b.Disconnect()

	require.Eventually(t, func() bool {
		_, g, err := b.Poll()
		if err != nil {
			return false
		}
		return g.Kind == GestureTap
	}, 2*time.Second, 5*time.Millisecond)

	// The idle gesture never surfaces
	_, g, err := b.Poll()
	require.NoError(t, err)
	assert.Equal(t, GestureNone, g.Kind)
}

func TestBridge_ServerGoneIsDisconnect(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for i := 0; i < calibSamples+1; i++ {
			sendOrientation(t, conn, 0, 0)
		}
		conn.Close()
	}))
	defer srv.Close()

	b := NewBridge("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, b.Connect())
	defer b.Disconnect()

	require.Eventually(t, func() bool {
		_, _, err := b.Poll()
		return err != nil
	}, 2*time.Second, 5*time.Millisecond, "a closed link must surface as a poll error")
}

func TestBridge_ConnectRefused(t *testing.T) {
	b := NewBridge("ws://127.0.0.1:1/ws", nil)
	require.Error(t, b.Connect())
}

func TestDeriveRollPitch(t *testing.T) {
	deg30 := 30.0 * math.Pi / 180

	tests := []struct {
		name      string
		data      protocol.OrientationData
		wantRoll  float64
		wantPitch float64
		wantOK    bool
	}{
		{
			name:     "direct angles win",
			data:     protocol.OrientationData{Roll: f(12), Pitch: f(-8)},
			wantRoll: 12, wantPitch: -8, wantOK: true,
		},
		{
			name: "quaternion roll",
			data: protocol.OrientationData{
				Quaternion: &[4]float64{math.Cos(deg30 / 2), math.Sin(deg30 / 2), 0, 0},
			},
			wantRoll: 30, wantPitch: 0, wantOK: true,
		},
		{
			name: "quaternion pitch",
			data: protocol.OrientationData{
				Quaternion: &[4]float64{math.Cos(deg30 / 2), 0, math.Sin(deg30 / 2), 0},
			},
			wantRoll: 0, wantPitch: 30, wantOK: true,
		},
		{
			name: "accelerometer fallback",
			data: protocol.OrientationData{
				Accel: &[3]float64{math.Sin(deg30) * 9.81, 0, math.Cos(deg30) * 9.81},
			},
			wantRoll: 30, wantPitch: 0, wantOK: true,
		},
		{
			name:   "empty payload",
			data:   protocol.OrientationData{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roll, pitch, ok := deriveRollPitch(tt.data)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.InDelta(t, tt.wantRoll, roll, 0.01)
				assert.InDelta(t, tt.wantPitch, pitch, 0.01)
			}
		})
	}
}

func f(v float64) *float64 { return &v }
