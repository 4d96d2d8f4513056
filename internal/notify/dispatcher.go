package notify

import (
	"fmt"
	"log"

	"skillswap/internal/domain/request"
)

const (
	EventNotifyRequest     = "notifyRequest"
	EventSendMessageToUser = "sendMessageToUser"
)

// Emitter is the single delivery primitive the dispatcher needs from its
// transport: push a payload to every live connection joined to a room.
// Implementations must not block; delivery is best-effort.
type Emitter interface {
	Emit(room, event, payload string) error
}

// Dispatcher composes human-readable notification text and pushes it to
// the addressed user's room. Delivery is fire-and-forget: failures are
// logged here and never reach the lifecycle operation that triggered them.
type Dispatcher struct {
	emitter Emitter
	logger  *log.Logger
}

func NewDispatcher(emitter Emitter, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{emitter: emitter, logger: logger}
}

// NotifyNewRequest tells the receiver a new exchange proposal arrived.
func (d *Dispatcher) NotifyNewRequest(r request.ExchangeRequest) {
	if r.Sender == nil || r.Receiver == nil {
		d.logger.Printf("notify dropped | reason=missing_participant request=%s", r.ID)
		return
	}

	msg := fmt.Sprintf(
		"%s offers to exchange %s for %s with you, %s!",
		r.Sender.Name, r.RequestedSkill.Title, r.OfferedSkill.Title, r.Receiver.Name,
	)
	d.deliver(r.Receiver.ID.String(), EventNotifyRequest, msg)
}

// NotifyUpdateRequest tells the original sender how the receiver acted on
// their proposal. Statuses without a dedicated template get a generic line.
func (d *Dispatcher) NotifyUpdateRequest(r request.ExchangeRequest) {
	if r.Sender == nil || r.Receiver == nil {
		d.logger.Printf("notify dropped | reason=missing_participant request=%s", r.ID)
		return
	}

	var msg string
	switch r.Status {
	case request.StatusAccepted:
		msg = fmt.Sprintf(
			"%s agreed to exchange %s for %s with you, %s!",
			r.Receiver.Name, r.RequestedSkill.Title, r.OfferedSkill.Title, r.Sender.Name,
		)
	case request.StatusRejected:
		msg = fmt.Sprintf(
			"Unfortunately, %s declined to exchange %s for %s with you, %s!",
			r.Receiver.Name, r.RequestedSkill.Title, r.OfferedSkill.Title, r.Sender.Name,
		)
	default:
		msg = "We wanted to tell you something, but something went wrong..."
	}
	d.deliver(r.Sender.ID.String(), EventNotifyRequest, msg)
}

// Message is a generic user-to-user note relayed over the push channel.
type Message struct {
	Text     string
	Sender   string
	Receiver string
}

// NotifyNewMessage relays a user-to-user message to the target room.
func (d *Dispatcher) NotifyNewMessage(room string, m Message) {
	msg := fmt.Sprintf("Message for %s from %s: %s!", m.Receiver, m.Sender, m.Text)
	d.deliver(room, EventSendMessageToUser, msg)
}

func (d *Dispatcher) deliver(room, event, payload string) {
	if d.emitter == nil {
		d.logger.Printf("notify dropped | reason=no_emitter room=%s event=%s", room, event)
		return
	}
	if err := d.emitter.Emit(room, event, payload); err != nil {
		d.logger.Printf("notify failed | room=%s event=%s error=%v", room, event, err)
	}
}
