// Package textfield is the convenience entry point of go-textfield. It
// re-exports the core types and wraps the orchestrator for callers that want
// rendered output from a definition in one call.
package textfield

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-textfield/pkg/definition"
	"github.com/goliatone/go-textfield/pkg/field"
	"github.com/goliatone/go-textfield/pkg/orchestrator"
	"github.com/goliatone/go-textfield/pkg/render"
	"github.com/goliatone/go-textfield/pkg/style"
)

// Props are the caller supplied props of one render.
type Props = field.Props

// Rendered is the output of a field render.
type Rendered = field.Rendered

// Input and Label are the built-in tagged children.
type (
	Input = field.Input
	Label = field.Label
)

// Markup and Text are opaque children rendered as sanitized HTML and escaped
// text respectively.
type (
	Markup = field.Markup
	Text   = field.Text
)

// RenderOptions describes per-request renderer instructions.
type RenderOptions = render.RenderOptions

// Definition is a declarative field description.
type Definition = definition.Definition

// New constructs a TextField using styles to resolve class names. A nil
// styles renders without classes.
func New(styles style.Renderer, options ...field.Option) *field.TextField {
	return field.New(styles, options...)
}

// NewStyleManager constructs the go-theme backed style collaborator.
func NewStyleManager(options ...style.ManagerOption) *style.Manager {
	return style.NewManager(options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the definition source and renders it with the named
// renderer (html when empty).
func GenerateHTML(ctx context.Context, source definition.Source, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:   source,
		Renderer: rendererName,
	})
}

// GenerateHTMLFromDefinition renders a definition the caller already holds.
func GenerateHTMLFromDefinition(ctx context.Context, def *definition.Definition, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Definition: def,
		Renderer:   rendererName,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme and variant names on requests resolve to tokens and assets.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}
