package field

import "github.com/rs/zerolog"

// Transition names a state change applied to a TextField.
type Transition string

const (
	TransitionGainFocus Transition = "gain-focus"
	TransitionLoseFocus Transition = "lose-focus"
	TransitionMarkDirty Transition = "mark-dirty"
	TransitionMarkClean Transition = "mark-clean"
)

// Snapshot is a point-in-time copy of the focus and dirty axes.
type Snapshot struct {
	Focused bool
	Dirty   bool
}

// Shrink reports whether a label should render in its compact position.
func (s Snapshot) Shrink() bool {
	return s.Dirty || s.Focused
}

// Observer is notified after a transition changed the state.
type Observer func(Transition, Snapshot)

// State tracks the two independent axes of a TextField: focus and dirty.
// Transitions are idempotent; a write that leaves the value unchanged does
// not notify observers. State is not safe for concurrent use, events are
// expected to arrive from a single dispatcher.
type State struct {
	focused   bool
	dirty     bool
	observers []Observer
	logger    zerolog.Logger
}

// NewState returns an unfocused, clean state.
func NewState() *State {
	return &State{logger: zerolog.Nop()}
}

// Focused reports whether the wrapped input currently holds focus.
func (s *State) Focused() bool {
	return s.focused
}

// Dirty reports whether the wrapped input currently holds content.
func (s *State) Dirty() bool {
	return s.dirty
}

// Snapshot returns a copy of both axes.
func (s *State) Snapshot() Snapshot {
	return Snapshot{Focused: s.focused, Dirty: s.dirty}
}

// Observe registers fn; observers run in registration order.
func (s *State) Observe(fn Observer) {
	if fn == nil {
		return
	}
	s.observers = append(s.observers, fn)
}

// GainFocus moves the focus axis to focused.
func (s *State) GainFocus() bool {
	return s.set(&s.focused, true, TransitionGainFocus)
}

// LoseFocus moves the focus axis to unfocused.
func (s *State) LoseFocus() bool {
	return s.set(&s.focused, false, TransitionLoseFocus)
}

// MarkDirty moves the dirty axis to dirty.
func (s *State) MarkDirty() bool {
	return s.set(&s.dirty, true, TransitionMarkDirty)
}

// MarkClean moves the dirty axis to clean.
func (s *State) MarkClean() bool {
	return s.set(&s.dirty, false, TransitionMarkClean)
}

func (s *State) set(axis *bool, value bool, transition Transition) bool {
	if *axis == value {
		return false
	}
	*axis = value

	snapshot := s.Snapshot()
	s.logger.Debug().
		Str("transition", string(transition)).
		Bool("focused", snapshot.Focused).
		Bool("dirty", snapshot.Dirty).
		Msg("textfield state changed")

	for _, observer := range s.observers {
		observer(transition, snapshot)
	}
	return true
}
