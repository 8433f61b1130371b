package field

import (
	"slices"
	"strings"
)

// Handler is an event callback attached to an input-like child.
type Handler func()

// Handlers is an ordered handler list. Fire runs every handler in slice order,
// so the first entry always observes the event before the rest.
type Handlers []Handler

// Chain returns a new list with first ahead of the receiver's handlers. The
// receiver is not modified.
func (h Handlers) Chain(first Handler) Handlers {
	out := make(Handlers, 0, len(h)+1)
	if first != nil {
		out = append(out, first)
	}
	for _, fn := range h {
		if fn != nil {
			out = append(out, fn)
		}
	}
	return out
}

// Fire invokes the handlers in order. Nil entries are skipped.
func (h Handlers) Fire() {
	for _, fn := range h {
		if fn != nil {
			fn()
		}
	}
}

// InputProps are the props a TextField overrides on input-like children.
type InputProps struct {
	Class   string
	OnFocus Handlers
	OnBlur  Handlers
	// OnDirty fires when the input goes from empty to non-empty content.
	OnDirty Handlers
	// OnClean fires when the input content becomes empty.
	OnClean Handlers
}

// Clone copies the handler slices so the clone can be chained independently.
func (p InputProps) Clone() InputProps {
	return InputProps{
		Class:   p.Class,
		OnFocus: slices.Clone(p.OnFocus),
		OnBlur:  slices.Clone(p.OnBlur),
		OnDirty: slices.Clone(p.OnDirty),
		OnClean: slices.Clone(p.OnClean),
	}
}

// LabelProps are the props a TextField overrides on label-like children.
// A nil Error, Required or Shrink means the label did not set it and the
// container should derive it.
type LabelProps struct {
	Class    string
	Error    *bool
	Required *bool
	Shrink   *bool
	Focused  bool
}

// Bool returns a pointer to v, for explicitly set optional label props.
func Bool(v bool) *bool {
	return &v
}

// BoolValue dereferences an optional prop, treating nil as false.
func BoolValue(v *bool) bool {
	return v != nil && *v
}

// MergeClasses joins class lists into a single space separated string,
// dropping empty and duplicate tokens. The first occurrence of a token keeps
// its position.
func MergeClasses(lists ...string) string {
	seen := make(map[string]struct{})
	tokens := make([]string, 0, len(lists))
	for _, list := range lists {
		for _, token := range strings.Fields(list) {
			if _, exists := seen[token]; exists {
				continue
			}
			seen[token] = struct{}{}
			tokens = append(tokens, token)
		}
	}
	return strings.Join(tokens, " ")
}
