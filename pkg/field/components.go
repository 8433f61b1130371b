package field

import "maps"

// Input is the built-in input-like child. Its event methods fire the handler
// lists in Props, which is how a wrapping TextField observes focus and
// content changes.
type Input struct {
	ID          string
	Name        string
	Type        string
	Value       string
	Placeholder string
	Attrs       map[string]string
	Props       InputProps
}

var (
	_ InputComponent = (*Input)(nil)
	_ Syncer         = (*Input)(nil)
)

// Capability implements Tagged.
func (*Input) Capability() Capability {
	return CapabilityInput
}

// InputProps implements InputComponent.
func (in *Input) InputProps() InputProps {
	return in.Props.Clone()
}

// WithInputProps implements InputComponent.
func (in *Input) WithInputProps(props InputProps) InputComponent {
	clone := *in
	clone.Attrs = maps.Clone(in.Attrs)
	clone.Props = props.Clone()
	return &clone
}

// Focus reports that the input gained focus.
func (in *Input) Focus() {
	in.Props.OnFocus.Fire()
}

// Blur reports that the input lost focus.
func (in *Input) Blur() {
	in.Props.OnBlur.Fire()
}

// SetValue stores value and reports whether the input became dirty or clean.
func (in *Input) SetValue(value string) {
	in.Value = value
	in.Sync()
}

// HasValue reports whether the input holds content.
func (in *Input) HasValue() bool {
	return isDirty(in.Value)
}

// Sync reports the dirty/clean status of the current value. TextField.Mount
// calls it for inputs created with a prefilled value.
func (in *Input) Sync() {
	if isDirty(in.Value) {
		in.Props.OnDirty.Fire()
		return
	}
	in.Props.OnClean.Fire()
}

func isDirty(value string) bool {
	return value != ""
}

// Label is the built-in label-like child.
type Label struct {
	For   string
	Text  string
	Attrs map[string]string
	Props LabelProps
}

var _ LabelComponent = (*Label)(nil)

// Capability implements Tagged.
func (*Label) Capability() Capability {
	return CapabilityLabel
}

// LabelProps implements LabelComponent.
func (l *Label) LabelProps() LabelProps {
	return l.Props
}

// WithLabelProps implements LabelComponent.
func (l *Label) WithLabelProps(props LabelProps) LabelComponent {
	clone := *l
	clone.Attrs = maps.Clone(l.Attrs)
	clone.Props = props
	return &clone
}

// Shrink reports the resolved shrink flag.
func (l *Label) Shrink() bool {
	return BoolValue(l.Props.Shrink)
}

// Error reports the resolved error flag.
func (l *Label) Error() bool {
	return BoolValue(l.Props.Error)
}

// Required reports the resolved required flag.
func (l *Label) Required() bool {
	return BoolValue(l.Props.Required)
}

// Markup is an opaque child holding raw HTML. Renderers sanitize it.
type Markup string

// Text is an opaque child holding plain text. Renderers escape it.
type Text string
