// Package render defines the renderer contract for rendered text fields and a
// registry to look renderers up by name.
package render

import (
	"context"

	"github.com/goliatone/go-textfield/pkg/field"
)

// Renderer turns a rendered TextField into output bytes.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, rendered field.Rendered, opts RenderOptions) ([]byte, error)
}
