package field

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-textfield/pkg/style"
)

// Props are the caller supplied props of a single render.
type Props struct {
	Children []Node
	// Class is merged into the root class after the sheet classes.
	Class string
	// Error is the default error flag for labels that do not set one.
	Error bool
	// Required is the default required flag for labels that do not set one.
	Required bool
	// Attrs are passed through verbatim onto the wrapper element.
	Attrs map[string]string
}

// Rendered is the output of TextField.Render: the wrapper class, passthrough
// attributes and the children with derived props applied.
type Rendered struct {
	Class    string
	Attrs    map[string]string
	Children []Node
	Classes  style.ClassMap
	State    Snapshot
	// Error and Required echo the container props for renderers that style
	// the wrapper itself.
	Error    bool
	Required bool
}

// Option customises a TextField.
type Option func(*TextField)

// WithStyleSheet replaces the default sheet.
func WithStyleSheet(sheet *style.Sheet) Option {
	return func(f *TextField) {
		if sheet != nil {
			f.sheet = sheet
		}
	}
}

// WithLogger attaches a logger used for transition and contract diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *TextField) {
		f.logger = logger
	}
}

// WithState seeds the field with an existing state, e.g. to restore focus
// after a rebuild.
func WithState(state *State) Option {
	return func(f *TextField) {
		if state != nil {
			f.state = state
		}
	}
}

// TextField coordinates focus, dirty, error and required state between the
// input-like and label-like children it wraps. Children never reference each
// other; the container derives their props on every render.
type TextField struct {
	styles style.Renderer
	sheet  *style.Sheet
	state  *State
	logger zerolog.Logger
}

// New constructs a TextField using styles to resolve class names.
func New(styles style.Renderer, options ...Option) *TextField {
	f := &TextField{
		styles: styles,
		sheet:  StyleSheet,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.state == nil {
		f.state = NewState()
	}
	f.state.logger = f.logger
	return f
}

// State exposes the field state for observation and transitions.
func (f *TextField) State() *State {
	return f.state
}

// Render resolves the class names for the current state and derives the
// props of every tagged child. Untagged children are returned as is.
func (f *TextField) Render(props Props) (Rendered, error) {
	var classes style.ClassMap
	if f.styles != nil {
		resolved, err := f.styles.Render(f.sheet)
		if err != nil {
			return Rendered{}, fmt.Errorf("textfield: render style sheet: %w", err)
		}
		classes = resolved
	}

	snapshot := f.state.Snapshot()
	transitions := TransitionsFor(f.state)

	children := make([]Node, len(props.Children))
	for idx, child := range props.Children {
		children[idx] = f.renderChild(child, props, snapshot, classes, transitions)
	}

	return Rendered{
		Class:    ResolveRootClass(classes, snapshot.Focused, props.Error, props.Class),
		Attrs:    cloneAttrs(props.Attrs),
		Children: children,
		Classes:  classes,
		State:    snapshot,
		Error:    props.Error,
		Required: props.Required,
	}, nil
}

// Syncer is implemented by input-like children that can report the value
// they were mounted with.
type Syncer interface {
	HasValue() bool
	Sync()
}

// Mount renders props and lets every derived input implementing Syncer
// report its current value, so prefilled inputs start dirty. Empty inputs
// report first; the field is dirty when any input holds content. The result
// reflects the synced state.
func (f *TextField) Mount(props Props) (Rendered, error) {
	rendered, err := f.Render(props)
	if err != nil {
		return Rendered{}, err
	}

	before := f.state.Snapshot()
	var filled []Syncer
	for _, child := range rendered.Children {
		if Classify(child) != CapabilityInput {
			continue
		}
		syncer, ok := child.(Syncer)
		if !ok {
			continue
		}
		if syncer.HasValue() {
			filled = append(filled, syncer)
			continue
		}
		syncer.Sync()
	}
	for _, syncer := range filled {
		syncer.Sync()
	}

	if f.state.Snapshot() == before {
		return rendered, nil
	}
	return f.Render(props)
}

func (f *TextField) renderChild(child Node, props Props, snapshot Snapshot, classes style.ClassMap, transitions Transitions) Node {
	switch capability := Classify(child); capability {
	case CapabilityInput:
		input, ok := child.(InputComponent)
		if !ok {
			f.logContractViolation(child, capability)
			return child
		}
		return input.WithInputProps(DeriveInputProps(input.InputProps(), classes.Class(style.SlotInput), transitions))
	case CapabilityLabel:
		label, ok := child.(LabelComponent)
		if !ok {
			f.logContractViolation(child, capability)
			return child
		}
		return label.WithLabelProps(DeriveLabelProps(label.LabelProps(), props, snapshot, classes.Class(style.SlotLabel)))
	default:
		return child
	}
}

func (f *TextField) logContractViolation(child Node, capability Capability) {
	f.logger.Debug().
		Str("capability", capability.String()).
		Str("type", fmt.Sprintf("%T", child)).
		Msg("textfield child does not accept derived props, passing through")
}

func cloneAttrs(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
