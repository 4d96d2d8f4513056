package ws

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"testing"
)

func newTestHub() *Hub {
	return NewHub(log.New(&strings.Builder{}, "", 0))
}

func TestRegisterJoinsRoom(t *testing.T) {
	h := newTestHub()
	c := NewClient(h, nil, "u1", nil)

	h.Register(c)
	if got := h.RoomSize("u1"); got != 1 {
		t.Fatalf("room size = %d, want 1", got)
	}

	h.Unregister(c)
	if got := h.RoomSize("u1"); got != 0 {
		t.Fatalf("room size after leave = %d, want 0", got)
	}
}

func TestUnregisterTwiceLogsOneDisconnect(t *testing.T) {
	var buf strings.Builder
	h := NewHub(log.New(&buf, "", 0))
	c := NewClient(h, nil, "u1", nil)
	h.Register(c)

	h.Unregister(c)
	h.Unregister(c)

	if got := strings.Count(buf.String(), "WS disconnected"); got != 1 {
		t.Fatalf("disconnect logged %d times, want 1", got)
	}
}

func TestEmitReachesOnlyTargetRoom(t *testing.T) {
	h := newTestHub()
	c1 := NewClient(h, nil, "u1", nil)
	c2 := NewClient(h, nil, "u2", nil)
	h.Register(c1)
	h.Register(c2)

	if err := h.Emit("u1", "notifyRequest", "hello"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	select {
	case b := <-c1.send:
		var env Envelope
		if err := json.Unmarshal(b, &env); err != nil {
			t.Fatalf("bad frame: %v", err)
		}
		if env.Event != "notifyRequest" || env.Payload != "hello" {
			t.Errorf("frame = %+v", env)
		}
	default:
		t.Fatalf("target room received nothing")
	}

	select {
	case <-c2.send:
		t.Fatalf("emit leaked into another room")
	default:
	}
}

func TestEmitToEmptyRoomIsDropped(t *testing.T) {
	h := newTestHub()
	if err := h.Emit("nobody-home", "notifyRequest", "hello"); err != nil {
		t.Fatalf("empty-room emit must be a silent drop, got %v", err)
	}
}

func TestEmitDisconnectsSlowClient(t *testing.T) {
	h := newTestHub()
	c := NewClient(h, nil, "u1", nil)
	h.Register(c)

	for i := 0; i < sendBufferSize; i++ {
		c.send <- []byte("x")
	}

	if err := h.Emit("u1", "notifyRequest", "overflow"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := h.RoomSize("u1"); got != 0 {
		t.Fatalf("slow client still registered, room size = %d", got)
	}
}

func TestConcurrentEmitSurvivesSlowClientDisconnect(t *testing.T) {
	const (
		emitters   = 8
		iterations = 500
	)

	for i := 0; i < iterations; i++ {
		h := newTestHub()
		c := NewClient(h, nil, "u1", nil)
		h.Register(c)

		for j := 0; j < sendBufferSize; j++ {
			c.send <- []byte("x")
		}

		var wg sync.WaitGroup
		for j := 0; j < emitters; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						t.Errorf("Emit panicked: %v", r)
					}
				}()
				if err := h.Emit("u1", "notifyRequest", "overflow"); err != nil {
					t.Errorf("unexpected err: %v", err)
				}
			}()
		}
		wg.Wait()

		if got := h.RoomSize("u1"); got != 0 {
			t.Fatalf("slow client still registered, room size = %d", got)
		}
	}
}

func TestSecondConnectionSharesRoom(t *testing.T) {
	h := newTestHub()
	a := NewClient(h, nil, "u1", nil)
	b := NewClient(h, nil, "u1", nil)
	h.Register(a)
	h.Register(b)

	if err := h.Emit("u1", "notifyRequest", "both"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(a.send) != 1 || len(b.send) != 1 {
		t.Fatalf("fan-out within room failed: %d/%d", len(a.send), len(b.send))
	}
}
