package fsm

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
)

// Operation is something that can be done to a post
type Operation int

const (
	// OpAddText appends text to the post content
	OpAddText Operation = iota
	// OpRequestReview asks for the post to be reviewed
	OpRequestReview
	// OpApprove records an approval
	OpApprove
	// OpReject sends the post back to Draft
	OpReject
)

// Event names understood by the underlying state machine
const (
	EventAddText       = "add_text"
	EventRequestReview = "request_review"
	EventApprove       = "approve"
	EventReject        = "reject"
)

var operationEvents = map[Operation]string{
	OpAddText:       EventAddText,
	OpRequestReview: EventRequestReview,
	OpApprove:       EventApprove,
	OpReject:        EventReject,
}

func (o Operation) String() string {
	switch o {
	case OpAddText:
		return "AddText"
	case OpRequestReview:
		return "RequestReview"
	case OpApprove:
		return "Approve"
	case OpReject:
		return "Reject"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// event is the state machine event name for the operation
func (o Operation) event() string {
	return operationEvents[o]
}

func operationFor(event string) Operation {
	for op, name := range operationEvents {
		if name == event {
			return op
		}
	}
	return Operation(-1)
}

// Transition defines a transition from the given state to the To state
type Transition struct {
	// From is the state the transition applies to
	From State
	// On is the operation which triggers the transition
	On Operation
	// To is the State to transition to
	To State
}

// transitions is the whole transition graph, adding text never moves the
// post, so it has no entry here
var transitions = fsm.Events{
	{Name: EventRequestReview, Src: []string{Draft().String()}, Dst: PendingReview().String()},
	{Name: EventApprove, Src: []string{PendingReview().String()}, Dst: Published(0).String()},
	{Name: EventApprove, Src: []string{Published(0).String()}, Dst: Published(1).String()},
	{Name: EventReject, Src: []string{PendingReview().String(), Published(0).String(), Published(1).String()}, Dst: Draft().String()},
}

// newMachine builds a state machine over the transition graph starting in s
func newMachine(s State, callbacks fsm.Callbacks) *fsm.FSM {
	return fsm.NewFSM(s.String(), transitions, callbacks)
}

// fire sends the event for op to the machine and reports whether the
// machine changed state, operations not allowed in the current state are
// no-ops
func fire(ctx context.Context, m *fsm.FSM, op Operation, args ...interface{}) (bool, error) {
	name := op.event()
	if name == "" || !m.Can(name) {
		return false, nil
	}

	if err := m.Event(ctx, name, args...); err != nil {
		var invalid fsm.InvalidEventError
		var none fsm.NoTransitionError
		if errors.As(err, &invalid) || errors.As(err, &none) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Next returns the state reached by applying op in state s
// Operations that are not allowed in s leave the state unchanged
func Next(s State, op Operation) State {
	s = s.normalize()

	m := newMachine(s, nil)
	if changed, err := fire(context.Background(), m, op); err != nil || !changed {
		return s
	}

	return parseState(m.Current())
}

// Transitions returns the transition table, one row per source state
func Transitions() []Transition {
	var out []Transition
	for _, desc := range transitions {
		for _, src := range desc.Src {
			out = append(out, Transition{
				From: parseState(src),
				On:   operationFor(desc.Name),
				To:   parseState(desc.Dst),
			})
		}
	}
	return out
}
