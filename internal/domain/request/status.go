package request

import "errors"

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusAccepted   Status = "ACCEPTED"
	StatusRejected   Status = "REJECTED"
	StatusInProgress Status = "INPROGRESS"
	StatusDone       Status = "DONE"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// ActiveStatuses are the statuses surfaced by the incoming/outgoing views.
var ActiveStatuses = []Status{StatusPending, StatusInProgress}

var legalTransitions = map[Status][]Status{
	StatusPending:    {StatusAccepted, StatusRejected},
	StatusAccepted:   {StatusInProgress},
	StatusInProgress: {StatusDone},
	// REJECTED and DONE are terminal.
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is legal. A
// no-op write (same status) is allowed so that a read-marking update
// carrying the current status does not fail.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, allowed := range legalTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}
