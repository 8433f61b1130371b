// Package style defines the boundary between TextField and the style-theme
// collaborator: style sheet descriptors go in, a slot to class token mapping
// comes out. Manager is the built-in collaborator backed by go-theme.
package style

// Slot names a logical class bucket of a style sheet.
type Slot string

const (
	SlotRoot    Slot = "root"
	SlotLabel   Slot = "label"
	SlotInput   Slot = "input"
	SlotFocused Slot = "focused"
	SlotError   Slot = "error"
)

// ClassMap maps slots to the scoped class tokens produced for a sheet.
type ClassMap map[Slot]string

// Class returns the token for slot, or an empty string when the sheet did not
// declare it.
func (c ClassMap) Class(slot Slot) string {
	if c == nil {
		return ""
	}
	return c[slot]
}

// Renderer turns a style sheet into class tokens for the current theme.
// Implementations must return the same mapping for identical input and theme.
type Renderer interface {
	Render(sheet *Sheet) (ClassMap, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(sheet *Sheet) (ClassMap, error)

// Render calls f(sheet).
func (f RendererFunc) Render(sheet *Sheet) (ClassMap, error) {
	return f(sheet)
}
