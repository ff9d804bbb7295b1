package fsm

import "fmt"

// Phase is the editorial phase a post is in
type Phase int

const (
	// PhaseDraft is the initial phase, the only one in which text can be added
	PhaseDraft Phase = iota
	// PhasePendingReview means the author has asked for review
	PhasePendingReview
	// PhasePublished means the post has been approved at least once
	PhasePublished
)

func (p Phase) String() string {
	switch p {
	case PhaseDraft:
		return "Draft"
	case PhasePendingReview:
		return "PendingReview"
	case PhasePublished:
		return "Published"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State represents a state of the post machine
// It is a tagged value: Approvals is only meaningful when
// Phase is PhasePublished and is either 0 or 1
// The zero value is the Draft state
type State struct {
	Phase     Phase
	Approvals int
}

// Draft returns the Draft state
func Draft() State {
	return State{Phase: PhaseDraft}
}

// PendingReview returns the PendingReview state
func PendingReview() State {
	return State{Phase: PhasePendingReview}
}

// Published returns the Published state with the given number of
// recorded approvals, clamped to 0 or 1
func Published(approvals int) State {
	if approvals < 0 {
		approvals = 0
	}
	if approvals > 1 {
		approvals = 1
	}

	return State{Phase: PhasePublished, Approvals: approvals}
}

// AcceptsText reports whether text may be appended in this state
func (s State) AcceptsText() bool {
	return s.Phase == PhaseDraft
}

// ContentVisible reports whether the content can be read in this state
// Only a post published with the second approval recorded is visible
func (s State) ContentVisible() bool {
	return s.Phase == PhasePublished && s.Approvals == 1
}

// normalize drops an Approvals count that the phase does not carry
func (s State) normalize() State {
	if s.Phase == PhasePublished {
		return Published(s.Approvals)
	}

	return State{Phase: s.Phase}
}

var statesByName = func() map[string]State {
	states := map[string]State{}
	for _, s := range []State{Draft(), PendingReview(), Published(0), Published(1)} {
		states[s.String()] = s
	}
	return states
}()

// parseState maps a state machine state name back to its State
func parseState(name string) State {
	if s, ok := statesByName[name]; ok {
		return s
	}
	return Draft()
}

func (s State) String() string {
	if s.Phase == PhasePublished {
		return fmt.Sprintf("%s(%d)", s.Phase, s.Approvals)
	}

	return s.Phase.String()
}
