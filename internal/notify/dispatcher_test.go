package notify

import (
	"errors"
	"log"
	"strings"
	"testing"

	"skillswap/internal/domain/request"

	"github.com/google/uuid"
)

type recordedEmit struct {
	room, event, payload string
}

type fakeEmitter struct {
	emits []recordedEmit
	err   error
}

func (f *fakeEmitter) Emit(room, event, payload string) error {
	f.emits = append(f.emits, recordedEmit{room: room, event: event, payload: payload})
	return f.err
}

func sampleRequest(status request.Status) request.ExchangeRequest {
	return request.ExchangeRequest{
		ID:             uuid.New(),
		Sender:         &request.Participant{ID: uuid.New(), Name: "Alice"},
		Receiver:       &request.Participant{ID: uuid.New(), Name: "Bob"},
		OfferedSkill:   request.SkillRef{ID: uuid.New(), Title: "Go"},
		RequestedSkill: request.SkillRef{ID: uuid.New(), Title: "Photography"},
		Status:         status,
	}
}

func TestNotifyNewRequest(t *testing.T) {
	em := &fakeEmitter{}
	d := NewDispatcher(em, log.New(&strings.Builder{}, "", 0))

	r := sampleRequest(request.StatusPending)
	d.NotifyNewRequest(r)

	if len(em.emits) != 1 {
		t.Fatalf("emitted %d times, want 1", len(em.emits))
	}
	e := em.emits[0]
	if e.room != r.Receiver.ID.String() {
		t.Errorf("room = %s, want receiver %s", e.room, r.Receiver.ID)
	}
	if e.event != EventNotifyRequest {
		t.Errorf("event = %s, want %s", e.event, EventNotifyRequest)
	}
	want := "Alice offers to exchange Photography for Go with you, Bob!"
	if e.payload != want {
		t.Errorf("payload = %q, want %q", e.payload, want)
	}
}

func TestNotifyUpdateRequest_Accepted(t *testing.T) {
	em := &fakeEmitter{}
	d := NewDispatcher(em, log.New(&strings.Builder{}, "", 0))

	r := sampleRequest(request.StatusAccepted)
	d.NotifyUpdateRequest(r)

	if len(em.emits) != 1 {
		t.Fatalf("emitted %d times, want 1", len(em.emits))
	}
	e := em.emits[0]
	if e.room != r.Sender.ID.String() {
		t.Errorf("room = %s, want sender %s", e.room, r.Sender.ID)
	}
	for _, part := range []string{"Alice", "Bob", "Go", "Photography"} {
		if !strings.Contains(e.payload, part) {
			t.Errorf("payload %q missing %q", e.payload, part)
		}
	}
	want := "Bob agreed to exchange Photography for Go with you, Alice!"
	if e.payload != want {
		t.Errorf("payload = %q, want %q", e.payload, want)
	}
}

func TestNotifyUpdateRequest_Rejected(t *testing.T) {
	em := &fakeEmitter{}
	d := NewDispatcher(em, log.New(&strings.Builder{}, "", 0))

	d.NotifyUpdateRequest(sampleRequest(request.StatusRejected))

	want := "Unfortunately, Bob declined to exchange Photography for Go with you, Alice!"
	if em.emits[0].payload != want {
		t.Errorf("payload = %q, want %q", em.emits[0].payload, want)
	}
}

func TestNotifyUpdateRequest_FallbackMessage(t *testing.T) {
	em := &fakeEmitter{}
	d := NewDispatcher(em, log.New(&strings.Builder{}, "", 0))

	d.NotifyUpdateRequest(sampleRequest(request.StatusInProgress))

	want := "We wanted to tell you something, but something went wrong..."
	if em.emits[0].payload != want {
		t.Errorf("payload = %q, want %q", em.emits[0].payload, want)
	}
}

func TestNotifyNewMessage(t *testing.T) {
	em := &fakeEmitter{}
	d := NewDispatcher(em, log.New(&strings.Builder{}, "", 0))

	d.NotifyNewMessage("room-42", Message{Text: "hello", Sender: "Alice", Receiver: "Bob"})

	e := em.emits[0]
	if e.event != EventSendMessageToUser {
		t.Errorf("event = %s, want %s", e.event, EventSendMessageToUser)
	}
	if want := "Message for Bob from Alice: hello!"; e.payload != want {
		t.Errorf("payload = %q, want %q", e.payload, want)
	}
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	var buf strings.Builder
	em := &fakeEmitter{err: errors.New("no live connection")}
	d := NewDispatcher(em, log.New(&buf, "", 0))

	d.NotifyNewRequest(sampleRequest(request.StatusPending))

	if !strings.Contains(buf.String(), "notify failed") {
		t.Errorf("expected failure to be logged, got %q", buf.String())
	}
}

func TestMissingParticipantIsDropped(t *testing.T) {
	em := &fakeEmitter{}
	d := NewDispatcher(em, log.New(&strings.Builder{}, "", 0))

	r := sampleRequest(request.StatusPending)
	r.Sender = nil
	d.NotifyNewRequest(r)
	d.NotifyUpdateRequest(r)

	if len(em.emits) != 0 {
		t.Fatalf("emitted %d times for participant-less request, want 0", len(em.emits))
	}
}
