package input

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-teleop/pkg/protocol"
)

const (
	dialTimeout    = 5 * time.Second
	firstSampleMax = 8 * time.Second
	calibSamples   = 10
	maxGestureQ    = 16
)

// Bridge reads a real watch through a WebSocket bridge process that
// publishes protocol messages (orientation samples, gestures). A reader
// goroutine keeps the latest sample current; Poll just snapshots it, so
// the control loop never blocks on the network.
//
// The first few samples after connecting are averaged into a zero offset,
// so the wearer's resting wrist pose reads as neutral.
type Bridge struct {
	url string
	log *slog.Logger

	mu          sync.Mutex
	conn        *websocket.Conn
	connected   bool
	readErr     error
	orientation Orientation
	gestures    []Gesture

	rollOffset  float64
	pitchOffset float64
	calibCount  int
	calibRoll   float64
	calibPitch  float64
	calibrated  bool

	firstSample chan struct{}
	firstOnce   sync.Once
}

// NewBridge creates a bridge for the given WebSocket URL, e.g.
// ws://localhost:9090/ws.
func NewBridge(url string, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		url:         url,
		log:         logger,
		firstSample: make(chan struct{}),
	}
}

// Connect dials the bridge and blocks until the watch delivers its first
// calibrated orientation sample, or fails.
func (b *Bridge) Connect() error {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.Dial(b.url, nil)
	if err != nil {
		return fmt.Errorf("dial watch bridge %s: %w", b.url, err)
	}

	b.mu.Lock()
	b.conn = conn
	b.connected = true
	b.mu.Unlock()

	go b.readLoop(conn)

	select {
	case <-b.firstSample:
		b.log.Info("watch connected", "url", b.url)
		return nil
	case <-time.After(firstSampleMax):
		b.Disconnect()
		return fmt.Errorf("watch bridge %s: no orientation data: %w", b.url, ErrDisconnected)
	}
}

// Disconnect closes the link. Idempotent; the reader goroutine exits when
// the connection closes under it.
func (b *Bridge) Disconnect() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
	b.connected = false
	return nil
}

// Poll returns the latest orientation and the next pending gesture.
func (b *Bridge) Poll() (Orientation, Gesture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readErr != nil {
		return Orientation{}, Gesture{}, fmt.Errorf("watch bridge: %v: %w", b.readErr, ErrDisconnected)
	}
	if !b.connected {
		return Orientation{}, Gesture{}, ErrDisconnected
	}

	var g Gesture
	if len(b.gestures) > 0 {
		g = b.gestures[0]
		b.gestures = b.gestures[1:]
	}

	return b.orientation, g, nil
}

func (b *Bridge) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			b.mu.Lock()
			if b.connected {
				b.readErr = err
			}
			b.mu.Unlock()
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			b.log.Debug("watch bridge: bad message", "err", err)
			continue
		}

		switch msg.Type {
		case protocol.TypeOrientation:
			b.handleOrientation(msg)
		case protocol.TypeGesture:
			b.handleGesture(msg)
		case protocol.TypePing:
			pong, _ := protocol.NewMessage(protocol.TypePong, nil)
			if raw, err := pong.Bytes(); err == nil {
				conn.WriteMessage(websocket.TextMessage, raw)
			}
		}
	}
}

func (b *Bridge) handleOrientation(msg *protocol.Message) {
	var d protocol.OrientationData
	if err := msg.ParseData(&d); err != nil {
		b.log.Debug("watch bridge: bad orientation payload", "err", err)
		return
	}

	roll, pitch, ok := deriveRollPitch(d)
	if !ok {
		return
	}

	b.mu.Lock()
	if !b.calibrated {
		b.calibRoll += roll
		b.calibPitch += pitch
		b.calibCount++
		if b.calibCount >= calibSamples {
			b.rollOffset = b.calibRoll / float64(b.calibCount)
			b.pitchOffset = b.calibPitch / float64(b.calibCount)
			b.calibrated = true
		}
		b.mu.Unlock()
		return
	}
	b.orientation = Orientation{
		Roll:  roll - b.rollOffset,
		Pitch: pitch - b.pitchOffset,
	}
	b.mu.Unlock()

	b.firstOnce.Do(func() { close(b.firstSample) })
}

func (b *Bridge) handleGesture(msg *protocol.Message) {
	var d protocol.GestureData
	if err := msg.ParseData(&d); err != nil {
		b.log.Debug("watch bridge: bad gesture payload", "err", err)
		return
	}

	kind := normalizeGesture(d.Gesture)
	if kind == GestureNone {
		return
	}

	b.mu.Lock()
	if len(b.gestures) >= maxGestureQ {
		b.gestures = b.gestures[1:]
	}
	b.gestures = append(b.gestures, Gesture{Kind: kind})
	b.mu.Unlock()
}

// normalizeGesture maps bridge gesture names onto gesture kinds. Tap-like
// gestures (tap, double_tap, pinch) all count as a tap; idle and unknown
// names are dropped.
func normalizeGesture(name string) GestureKind {
	switch name {
	case "tap", "double_tap", "pinch":
		return GestureTap
	default:
		return GestureNone
	}
}

// deriveRollPitch extracts roll/pitch degrees from whichever representation
// the bridge sent: direct angles, a rotation quaternion, or raw
// accelerometer values as a last resort.
func deriveRollPitch(d protocol.OrientationData) (roll, pitch float64, ok bool) {
	if d.Roll != nil && d.Pitch != nil {
		return *d.Roll, *d.Pitch, true
	}
	if q := d.Quaternion; q != nil {
		return quatToRollPitch(q[0], q[1], q[2], q[3])
	}
	if a := d.Accel; a != nil {
		return accelToRollPitch(a[0], a[1], a[2])
	}
	return 0, 0, false
}

func quatToRollPitch(w, x, y, z float64) (roll, pitch float64, ok bool) {
	sinrCosp := 2 * (w*x + y*z)
	cosrCosp := 1 - 2*(x*x+y*y)
	roll = degrees(math.Atan2(sinrCosp, cosrCosp))

	sinp := 2 * (w*y - z*x)
	sinp = clamp(sinp, -1, 1)
	pitch = degrees(math.Asin(sinp))

	return roll, pitch, true
}

// accelToRollPitch is a gravity-based estimate used when the bridge sends
// neither angles nor a quaternion. Valid only while the wrist is not
// accelerating, which is good enough for tilt steering.
func accelToRollPitch(ax, ay, az float64) (roll, pitch float64, ok bool) {
	if az == 0 {
		az = 1e-6
	}
	roll = degrees(math.Atan2(ax, az))
	pitch = degrees(math.Atan2(ay, math.Sqrt(ax*ax+az*az)))
	return roll, pitch, true
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
