package field

import "reflect"

// Capability tags a child node with the role it plays inside a TextField.
type Capability uint8

const (
	// CapabilityOpaque marks children the container passes through untouched.
	CapabilityOpaque Capability = iota
	// CapabilityInput marks editable children that report focus and dirty
	// transitions back to the container.
	CapabilityInput
	// CapabilityLabel marks caption children whose visual state is driven by
	// the container.
	CapabilityLabel
)

func (c Capability) String() string {
	switch c {
	case CapabilityInput:
		return "input"
	case CapabilityLabel:
		return "label"
	default:
		return "opaque"
	}
}

// Node is any child value handed to a TextField. Nodes that do not implement
// Tagged are opaque.
type Node any

// Tagged is implemented by children that carry a capability tag. The tag is a
// property of the child's type and must not vary between instances.
type Tagged interface {
	Capability() Capability
}

// InputComponent is the contract for children tagged CapabilityInput.
// WithInputProps must return a copy; the receiver stays untouched.
type InputComponent interface {
	Tagged
	InputProps() InputProps
	WithInputProps(InputProps) InputComponent
}

// LabelComponent is the contract for children tagged CapabilityLabel. Unset
// optional props in LabelProps signal that the container may derive them.
type LabelComponent interface {
	Tagged
	LabelProps() LabelProps
	WithLabelProps(LabelProps) LabelComponent
}

// Classify reports the capability of node. It is total: nil, typed nil and
// untagged values resolve to CapabilityOpaque.
func Classify(node Node) Capability {
	tagged, ok := node.(Tagged)
	if !ok || isNil(tagged) {
		return CapabilityOpaque
	}
	switch c := tagged.Capability(); c {
	case CapabilityInput, CapabilityLabel:
		return c
	default:
		return CapabilityOpaque
	}
}

func isNil(node Node) bool {
	if node == nil {
		return true
	}
	switch v := reflect.ValueOf(node); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
