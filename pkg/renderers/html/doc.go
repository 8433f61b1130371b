// Package html renders a field.Rendered as an HTML fragment using pongo2
// templates. Markup children are sanitized with bluemonday, text children are
// escaped and passthrough attributes are emitted sorted by name.
package html
