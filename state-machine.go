package fsm

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status is sent by a StateMachine once it stops running a post
type Status struct {
	// PostID identifies the post that was run
	PostID uuid.UUID
	// State is the state of the post when the machine stopped
	State State
	// Content is the visible content of the post when the machine stopped
	Content string
	// Applied counts the events that changed the post
	Applied int
	// Ignored counts the events that were no-ops or of an unknown type
	Ignored int
	// Error is set when the machine was stopped by its context
	Error error
}

// Option configures a StateMachine
type Option func(*StateMachine)

// WithLogger sets the logger used to report processed events
func WithLogger(logger *zap.Logger) Option {
	return func(sm *StateMachine) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

// StateMachine applies the events published on its channel to a post
// While it runs, the machine's goroutine is the only one touching the post
type StateMachine struct {
	eventsChannel chan Event
	logger        *zap.Logger
}

// New creates a state machine that reads events from the given channel
func New(events chan Event, opts ...Option) *StateMachine {
	stateMachine := StateMachine{
		eventsChannel: events,
		logger:        zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&stateMachine)
	}

	return &stateMachine
}

// Run starts processing events for the post in a separate goroutine
// The returned channel receives a single Status after the events
// channel is closed
func (sm StateMachine) Run(post *Post) chan Status {
	return sm.RunContext(context.Background(), post)
}

// RunContext is like Run but also stops when ctx is done, reporting
// ctx.Err() in the Status
func (sm StateMachine) RunContext(ctx context.Context, post *Post) chan Status {
	if post == nil {
		post = NewPost()
	}

	statusChannel := make(chan Status, 1)
	go sm.run(ctx, post, statusChannel)
	return statusChannel
}

func (sm StateMachine) run(ctx context.Context, post *Post, statusChannel chan<- Status) {
	status := Status{PostID: post.ID()}
	logger := sm.logger.With(zap.Stringer("post", post.ID()))

	prev := post.logger
	post.logger = logger

	defer func() {
		post.logger = prev
		status.State = post.State()
		status.Content = post.Content()
		statusChannel <- status
	}()

	for {
		select {
		case <-ctx.Done():
			status.Error = ctx.Err()
			return
		case e, ok := <-sm.eventsChannel:
			if !ok {
				return
			}

			from := post.State()
			changed, known := post.Apply(e)

			switch {
			case !known:
				logger.Warn("unknown event, ignoring")
				status.Ignored++
			case !changed:
				logger.Debug("event ignored",
					zap.Stringer("event", e.Operation()),
					zap.Stringer("state", from))
				status.Ignored++
			default:
				if e.Operation() == OpAddText {
					logger.Debug("text added", zap.Stringer("id", e.ID()))
				}
				status.Applied++
			}
		}
	}
}
