package input

import (
	"errors"
	"testing"
)

func TestMock_PollBeforeConnect(t *testing.T) {
	m := NewMock(false)
	if _, _, err := m.Poll(); !errors.Is(err, ErrDisconnected) {
		t.Errorf("Poll() before connect = %v, want ErrDisconnected", err)
	}
}

func TestMock_InjectOrientation(t *testing.T) {
	m := NewMock(false)
	if err := m.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	m.InjectOrientation(30, -10)
	o, _, err := m.Poll()
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if o.Roll != 30 || o.Pitch != -10 {
		t.Errorf("Poll() orientation = %+v, want {30 -10}", o)
	}
}

func TestMock_GestureDeliveredOnce(t *testing.T) {
	m := NewMock(false)
	m.Connect()
	m.InjectGesture(GestureTap)

	_, g, _ := m.Poll()
	if g.Kind != GestureTap {
		t.Errorf("first poll gesture = %+v, want tap", g)
	}

	_, g, _ = m.Poll()
	if g.Kind != GestureNone {
		t.Errorf("second poll gesture = %+v, want none", g)
	}
}

func TestMock_DriftStaysInRange(t *testing.T) {
	m := NewMock(true)
	m.Connect()

	for i := 0; i < 500; i++ {
		o, _, err := m.Poll()
		if err != nil {
			t.Fatalf("Poll() error = %v", err)
		}
		if o.Roll < -90 || o.Roll > 90 || o.Pitch < -90 || o.Pitch > 90 {
			t.Fatalf("drift escaped ±90: %+v", o)
		}
	}
}

func TestMock_DisconnectIdempotent(t *testing.T) {
	m := NewMock(false)
	m.Connect()
	if err := m.Disconnect(); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if err := m.Disconnect(); err != nil {
		t.Fatalf("second Disconnect() error = %v", err)
	}
	if _, _, err := m.Poll(); !errors.Is(err, ErrDisconnected) {
		t.Errorf("Poll() after disconnect = %v, want ErrDisconnected", err)
	}
}
