package fsm

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postIn drives a fresh post with text into the given state
func postIn(t *testing.T, s State) *Post {
	t.Helper()

	p := NewPost()
	p.AddText("body")

	switch s {
	case Draft():
	case PendingReview():
		p.RequestReview()
	case Published(0):
		p.RequestReview()
		p.Approve()
	case Published(1):
		p.RequestReview()
		p.Approve()
		p.Approve()
	default:
		t.Fatalf("unsupported state %s", s)
	}

	require.Equal(t, s, p.State())
	return p
}

func TestNewPost(t *testing.T) {
	p := NewPost()

	assert.Equal(t, Draft(), p.State())
	assert.Empty(t, p.Content())
	assert.NotEqual(t, uuid.Nil, p.ID())
	assert.NotEqual(t, p.ID(), NewPost().ID())
}

func TestPost_ContentVisibleOnlyAfterTwoApprovals(t *testing.T) {
	for _, s := range allStates {
		t.Run(s.String(), func(t *testing.T) {
			p := postIn(t, s)
			if s == Published(1) {
				assert.Equal(t, "body", p.Content())
			} else {
				assert.Empty(t, p.Content())
			}
		})
	}
}

func TestPost_AddTextOnlyInDraft(t *testing.T) {
	for _, s := range allStates {
		t.Run(s.String(), func(t *testing.T) {
			p := postIn(t, s)
			p.AddText(" more")

			assert.Equal(t, s, p.State())
			assert.Equal(t, s == Draft(), p.content == "body more")
			if s != Draft() {
				assert.Equal(t, "body", p.content)
			}
		})
	}
}

func TestPost_RequestReviewOnlyFromDraft(t *testing.T) {
	for _, s := range allStates {
		t.Run(s.String(), func(t *testing.T) {
			p := postIn(t, s)
			p.RequestReview()

			if s == Draft() {
				assert.Equal(t, PendingReview(), p.State())
			} else {
				assert.Equal(t, s, p.State())
			}
		})
	}
}

func TestPost_ApproveTwice(t *testing.T) {
	p := postIn(t, PendingReview())

	p.Approve()
	assert.Equal(t, Published(0), p.State())
	assert.Empty(t, p.Content())

	p.Approve()
	assert.Equal(t, Published(1), p.State())
	assert.Equal(t, "body", p.Content())

	p.Approve()
	assert.Equal(t, Published(1), p.State())
}

func TestPost_ApproveDraftIsNoop(t *testing.T) {
	p := NewPost()
	p.Approve()
	p.Approve()

	assert.Equal(t, Draft(), p.State())
}

func TestPost_RejectResetsApprovals(t *testing.T) {
	for _, s := range allStates {
		t.Run(s.String(), func(t *testing.T) {
			p := postIn(t, s)
			p.Reject()
			assert.Equal(t, Draft(), p.State())

			p.RequestReview()
			p.Approve()
			assert.Empty(t, p.Content(), "one approval after reject must keep content hidden")

			p.Approve()
			assert.Equal(t, "body", p.Content())
		})
	}
}

func TestPost_RejectDraftIsIdempotent(t *testing.T) {
	p := NewPost()
	p.AddText("body")
	p.Reject()
	p.Reject()

	assert.Equal(t, Draft(), p.State())
	assert.Equal(t, "body", p.content)
}

func TestPost_Scenario(t *testing.T) {
	p := NewPost()

	p.AddText("I ate a salad for lunch today")
	assert.Equal(t, "", p.Content())

	p.RequestReview()
	assert.Equal(t, "", p.Content())

	p.Approve()
	assert.Equal(t, "", p.Content())

	p.Approve()
	assert.Equal(t, "I ate a salad for lunch today", p.Content())

	p.AddText(" and still remained hungry")
	assert.Equal(t, "I ate a salad for lunch today", p.Content())

	p.Reject()
	assert.Equal(t, Draft(), p.State())

	p.AddText(" and still remained hungry")
	p.RequestReview()
	p.Approve()
	p.Approve()
	assert.Equal(t, "I ate a salad for lunch today and still remained hungry", p.Content())
}

type strayEvent struct {
	header
}

func (strayEvent) Operation() Operation {
	return OpApprove
}

func TestPost_Apply(t *testing.T) {
	p := NewPost()

	steps := []struct {
		event   Event
		changed bool
	}{
		{AddText("body"), true},
		{AddText(""), false},
		{Approve(), false},
		{RequestReview(), true},
		{RequestReview(), false},
		{AddText(" more"), false},
		{Approve(), true},
		{Approve(), true},
		{Approve(), false},
		{Reject(), true},
		{Reject(), false},
	}

	for i, step := range steps {
		changed, known := p.Apply(step.event)
		assert.True(t, known, "step %d", i)
		assert.Equal(t, step.changed, changed, "step %d: %s", i, step.event.Operation())
	}

	assert.Equal(t, Draft(), p.State())
	assert.Equal(t, "body", p.content)
}

func TestPost_ApplyUnknownEvent(t *testing.T) {
	p := postIn(t, Published(0))

	changed, known := p.Apply(strayEvent{header: newHeader()})
	assert.False(t, changed)
	assert.False(t, known)

	changed, known = p.Apply(nil)
	assert.False(t, changed)
	assert.False(t, known)

	assert.Equal(t, Published(0), p.State())
}

func TestPost_CopyDoesNotPanic(t *testing.T) {
	p := NewPost()
	p.AddText("a")

	q := *p
	require.NotPanics(t, func() { q.AddText("b") })
	assert.Equal(t, "a", p.content)
	assert.Equal(t, "ab", q.content)
}
