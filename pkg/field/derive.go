package field

// Transitions holds the container-side handlers chained ahead of an input's
// own callbacks.
type Transitions struct {
	Focus Handler
	Blur  Handler
	Dirty Handler
	Clean Handler
}

// TransitionsFor binds the four transitions of state as handlers.
func TransitionsFor(state *State) Transitions {
	return Transitions{
		Focus: func() { state.GainFocus() },
		Blur:  func() { state.LoseFocus() },
		Dirty: func() { state.MarkDirty() },
		Clean: func() { state.MarkClean() },
	}
}

// DeriveInputProps computes the override props for an input-like child. The
// container handler runs first for every event, so state is already updated
// when the child's own handlers run.
func DeriveInputProps(own InputProps, inputClass string, t Transitions) InputProps {
	return InputProps{
		Class:   MergeClasses(inputClass, own.Class),
		OnFocus: own.OnFocus.Chain(t.Focus),
		OnBlur:  own.OnBlur.Chain(t.Blur),
		OnDirty: own.OnDirty.Chain(t.Dirty),
		OnClean: own.OnClean.Chain(t.Clean),
	}
}

// DeriveLabelProps computes the override props for a label-like child.
// Explicitly set Error, Required and Shrink values on the label win; unset
// ones default to the container props and to dirty || focused.
func DeriveLabelProps(own LabelProps, props Props, snapshot Snapshot, labelClass string) LabelProps {
	derived := LabelProps{
		Class:    MergeClasses(labelClass, own.Class),
		Error:    own.Error,
		Required: own.Required,
		Shrink:   own.Shrink,
		Focused:  snapshot.Focused,
	}
	if derived.Error == nil {
		derived.Error = Bool(props.Error)
	}
	if derived.Required == nil {
		derived.Required = Bool(props.Required)
	}
	if derived.Shrink == nil {
		derived.Shrink = Bool(snapshot.Shrink())
	}
	return derived
}
