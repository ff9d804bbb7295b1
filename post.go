package fsm

import (
	"context"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// Post is a document moving through the editorial states
// A Post is not safe for concurrent use; run it under a StateMachine
// or guard it with a mutex when it is shared
// Copies of a Post share its state, create independent posts with NewPost
type Post struct {
	id      uuid.UUID
	machine *fsm.FSM
	content string
	logger  *zap.Logger
}

// NewPost creates an empty post in the Draft state
func NewPost() *Post {
	p := &Post{
		id:     uuid.New(),
		logger: zap.NewNop(),
	}

	p.machine = newMachine(Draft(), fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			fields := []zap.Field{
				zap.String("event", e.Event),
				zap.String("from", e.Src),
				zap.String("to", e.Dst),
			}
			if len(e.Args) > 0 {
				if ev, ok := e.Args[0].(Event); ok {
					fields = append(fields, zap.Stringer("id", ev.ID()))
				}
			}
			p.logger.Debug("event applied", fields...)
		},
	})

	return p
}

// ID is the unique identifier for the post
func (p *Post) ID() uuid.UUID {
	return p.id
}

// State returns a copy of the current state
func (p *Post) State() State {
	return parseState(p.machine.Current())
}

// AddText appends text to the content while the post is a draft
// In any other state it does nothing
func (p *Post) AddText(text string) {
	if p.State().AcceptsText() {
		p.content += text
	}
}

// RequestReview moves a draft to PendingReview
func (p *Post) RequestReview() {
	p.fire(OpRequestReview)
}

// Approve records an approval: the first approval publishes the post,
// the second makes its content visible
func (p *Post) Approve() {
	p.fire(OpApprove)
}

// Reject returns the post to Draft, dropping any recorded approvals
// The content is kept
func (p *Post) Reject() {
	p.fire(OpReject)
}

// Content returns the text of the post once it has been approved twice,
// and an empty string before that
func (p *Post) Content() string {
	if !p.State().ContentVisible() {
		return ""
	}

	return p.content
}

// Apply performs the operation carried by e
// changed reports whether the post's state or content moved, known is
// false for events of a type the post does not handle, which are ignored
func (p *Post) Apply(e Event) (changed bool, known bool) {
	switch ev := e.(type) {
	case AddTextEvent:
		size := len(p.content)
		p.AddText(ev.Text)
		return len(p.content) != size, true
	case RequestReviewEvent, ApproveEvent, RejectEvent:
		return p.fire(ev.Operation(), ev), true
	default:
		return false, false
	}
}

func (p *Post) fire(op Operation, args ...interface{}) bool {
	changed, err := fire(context.Background(), p.machine, op, args...)
	if err != nil {
		p.logger.Warn("transition failed",
			zap.Stringer("operation", op),
			zap.Stringer("state", p.State()),
			zap.Error(err))
	}
	return changed
}
