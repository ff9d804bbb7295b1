package fsm

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyOnce sync.Once
	entropyMu   sync.Mutex
	entropy     *ulid.MonotonicEntropy
)

// NewULID returns a ULID that sorts after every ULID previously
// returned in this process
func NewULID() ulid.ULID {
	entropyOnce.Do(func() {
		entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	})

	entropyMu.Lock()
	defer entropyMu.Unlock()

	for {
		id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
		if err != nil {
			continue
		}
		return id
	}
}

// Event is something that happens to a post
// Posts apply events to determine whether the state
// should transition to a new state
type Event interface {
	// ID is the unique identifier for the event
	ID() ulid.ULID
	// Timestamp of the event
	Timestamp() time.Time
	// Operation the event performs on a post
	Operation() Operation
}

type header struct {
	id        ulid.ULID
	timestamp time.Time
}

func newHeader() header {
	return header{
		id:        NewULID(),
		timestamp: time.Now(),
	}
}

// ID is the unique identifier for the event
func (h header) ID() ulid.ULID {
	return h.id
}

// Timestamp is the time when the event was created
func (h header) Timestamp() time.Time {
	return h.timestamp
}

// AddTextEvent represents appending text to a post
type AddTextEvent struct {
	header
	Text string
}

// Operation returns OpAddText
func (AddTextEvent) Operation() Operation {
	return OpAddText
}

// AddText constructs an AddTextEvent
func AddText(text string) AddTextEvent {
	return AddTextEvent{header: newHeader(), Text: text}
}

// RequestReviewEvent represents a review request
type RequestReviewEvent struct {
	header
}

// Operation returns OpRequestReview
func (RequestReviewEvent) Operation() Operation {
	return OpRequestReview
}

// RequestReview constructs a RequestReviewEvent
func RequestReview() RequestReviewEvent {
	return RequestReviewEvent{header: newHeader()}
}

// ApproveEvent represents one approval of a post
type ApproveEvent struct {
	header
}

// Operation returns OpApprove
func (ApproveEvent) Operation() Operation {
	return OpApprove
}

// Approve constructs an ApproveEvent
func Approve() ApproveEvent {
	return ApproveEvent{header: newHeader()}
}

// RejectEvent represents a rejection of a post
type RejectEvent struct {
	header
}

// Operation returns OpReject
func (RejectEvent) Operation() Operation {
	return OpReject
}

// Reject constructs a RejectEvent
func Reject() RejectEvent {
	return RejectEvent{header: newHeader()}
}
