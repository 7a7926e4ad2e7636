package hub

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// slowClient registers a client whose send channel is unbuffered, so any
// broadcast immediately takes the drop path. The pumps are never started.
func slowClient(h *Hub, id string) *Client {
	c := &Client{id: id, hub: h, send: make(chan []byte)}
	h.register <- c
	return c
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	h := New("test")
	go h.Run()
	defer h.Stop()

	// No clients registered: broadcasting must not block or panic
	for i := 0; i < 100; i++ {
		h.Broadcast([]byte(`{"type":"command"}`))
	}

	if got := h.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d, want 0", got)
	}
}

// Run with -race: the slow-client drop mutates the client map while
// ClientCount reads it from other goroutines.
func TestHub_SlowClientDropRacesClientCount(t *testing.T) {
	h := New("test")
	go h.Run()
	defer h.Stop()

	for i := 0; i < 64; i++ {
		slowClient(h, fmt.Sprintf("c%d", i))
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					h.ClientCount()
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		h.Broadcast([]byte(`{"type":"heartbeat"}`))
	}

	// All clients are slow, so every one gets dropped
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d, want 0 after drops", h.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}

	close(stop)
	wg.Wait()
}

func TestHub_StopTerminatesRun(t *testing.T) {
	h := New("test")

	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	c := slowClient(h, "c0")

	h.Stop()
	h.Stop() // idempotent

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after Stop()")
	}

	// Stop closes the send channels of remaining clients
	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected closed send channel, got payload")
		}
	case <-time.After(time.Second):
		t.Error("client send channel not closed after Stop()")
	}
}

func TestHub_BroadcastJSONError(t *testing.T) {
	h := New("test")

	// Channels cannot be marshaled
	if err := h.BroadcastJSON(make(chan int)); err == nil {
		t.Error("BroadcastJSON() should reject unmarshalable values")
	}
}
