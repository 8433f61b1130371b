package testsupport

import (
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-textfield/pkg/field"
)

// Event is one recorded state transition.
type Event struct {
	Transition field.Transition
	Snapshot   field.Snapshot
}

// Recorder collects the transitions of a field.State.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Record attaches a new Recorder to state.
func Record(state *field.State) *Recorder {
	rec := &Recorder{}
	state.Observe(rec.observe)
	return rec
}

func (r *Recorder) observe(transition field.Transition, snapshot field.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Transition: transition, Snapshot: snapshot})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Transitions returns the recorded transition names in order.
func (r *Recorder) Transitions() []field.Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]field.Transition, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, event.Transition)
	}
	return out
}

// Selector is a go-theme selector returning a fixed manifest, recording the
// names it was asked for.
type Selector struct {
	Manifest *theme.Manifest
	Err      error

	mu    sync.Mutex
	calls [][2]string
}

// Select implements theme.ThemeSelector. Empty names fall back to the
// manifest name and the variant is echoed back.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.Lock()
	s.calls = append(s.calls, [2]string{name, variant})
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	if name == "" && s.Manifest != nil {
		name = s.Manifest.Name
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: s.Manifest}, nil
}

// Calls returns the (theme, variant) pairs passed to Select.
func (s *Selector) Calls() [][2]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][2]string(nil), s.calls...)
}
