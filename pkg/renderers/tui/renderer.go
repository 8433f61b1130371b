package tui

import (
	"context"
	"fmt"
	stdhtml "html"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-textfield/pkg/field"
	"github.com/goliatone/go-textfield/pkg/render"
)

// Name is the registry name of the text view renderer.
const Name = "tui"

const defaultWidth = 24

// Renderer implements render.Renderer as a plain text view of a field,
// styled with lipgloss. Labels lift above the value once shrunk and the
// underline takes the accent color on focus and the error color on error.
type Renderer struct {
	palette Palette
	theme   Theme
	width   int
	lg      *lipgloss.Renderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults.
func New(options ...Option) *Renderer {
	r := &Renderer{
		palette: DefaultPalette,
		theme:   Theme{PromptPrefix: "> ", ErrorPrefix: "! "},
		width:   defaultWidth,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.lg == nil {
		r.lg = lipgloss.DefaultRenderer()
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render draws the children top to bottom.
func (r *Renderer) Render(ctx context.Context, rendered field.Rendered, opts render.RenderOptions) ([]byte, error) {
	view, err := r.View(ctx, rendered, opts)
	if err != nil {
		return nil, err
	}
	return []byte(view), nil
}

// View returns the text view followed by any helper messages. Children
// carrying translation keys are localized first.
func (r *Renderer) View(ctx context.Context, rendered field.Rendered, opts render.RenderOptions) (string, error) {
	palette := r.resolvePalette(opts.Theme)
	errored := rendered.Error || labelErrored(rendered.Children)
	rendered = render.LocalizeRendered(rendered, opts)

	lines := make([]string, 0, len(rendered.Children)+1)
	for idx, child := range rendered.Children {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		line, err := r.renderChild(child, rendered.State, errored, palette)
		if err != nil {
			return "", fmt.Errorf("tui renderer: child %d: %w", idx, err)
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	lines = append(lines, r.renderMessages(opts.Messages, errored, palette)...)
	return strings.Join(lines, "\n"), nil
}

func (r *Renderer) renderMessages(messages []string, errored bool, palette Palette) []string {
	messages = render.MergeMessages(nil, messages...)
	if len(messages) == 0 {
		return nil
	}
	prefix := "  "
	style := r.lg.NewStyle().Foreground(lipgloss.Color(palette.Muted))
	if errored {
		prefix = r.theme.ErrorPrefix
		style = style.Foreground(lipgloss.Color(palette.Error))
	}
	out := make([]string, 0, len(messages))
	for _, message := range messages {
		out = append(out, style.Render(prefix+message))
	}
	return out
}

func (r *Renderer) renderChild(child field.Node, state field.Snapshot, errored bool, palette Palette) (string, error) {
	switch node := child.(type) {
	case nil:
		return "", nil
	case *field.Label:
		if node == nil {
			return "", nil
		}
		return r.renderLabel(node, palette), nil
	case *field.Input:
		if node == nil {
			return "", nil
		}
		return r.renderInput(node, state, errored, palette), nil
	case field.Markup:
		return strings.TrimSpace(stdhtml.UnescapeString(markupStripper().Sanitize(string(node)))), nil
	case field.Text:
		return string(node), nil
	case fmt.Stringer:
		return node.String(), nil
	case string:
		return node, nil
	default:
		return "", fmt.Errorf("unsupported child type %T", child)
	}
}

func (r *Renderer) renderLabel(label *field.Label, palette Palette) string {
	text := label.Text
	if label.Required() {
		text += " *"
	}

	color := palette.Muted
	switch {
	case label.Error():
		color = palette.Error
	case label.Props.Focused:
		color = palette.Accent
	}
	style := r.lg.NewStyle().Foreground(lipgloss.Color(color))
	if label.Shrink() {
		style = style.Faint(true)
	} else {
		style = style.Bold(true)
	}
	return style.Render(text)
}

func (r *Renderer) renderInput(input *field.Input, state field.Snapshot, errored bool, palette Palette) string {
	value := input.Value
	valueStyle := r.lg.NewStyle().Foreground(lipgloss.Color(palette.Text))
	if value == "" {
		value = input.Placeholder
		valueStyle = valueStyle.Foreground(lipgloss.Color(palette.Muted)).Italic(true)
	}
	if input.Type == "password" && input.Value != "" {
		value = strings.Repeat("*", len([]rune(input.Value)))
	}

	width := r.width
	if w := lipgloss.Width(value) + lipgloss.Width(r.theme.PromptPrefix); w > width {
		width = w
	}

	underline := palette.Divider
	glyph := "─"
	switch {
	case errored:
		underline, glyph = palette.Error, "━"
	case state.Focused:
		underline, glyph = palette.Accent, "━"
	}

	line := r.theme.PromptPrefix + valueStyle.Render(value)
	rule := r.lg.NewStyle().Foreground(lipgloss.Color(underline)).Render(strings.Repeat(glyph, width))
	return lipgloss.JoinVertical(lipgloss.Left, line, rule)
}

func (r *Renderer) resolvePalette(cfg *theme.RendererConfig) Palette {
	palette := r.palette
	if cfg == nil {
		return palette
	}
	for token, value := range cfg.CSSVars {
		if apply, ok := paletteTokens[token]; ok && terminalColor(value) {
			apply(&palette, value)
		}
	}
	return palette
}

// terminalColor reports whether lipgloss can use value: a hex color or an
// ANSI index. CSS functions such as rgba() are skipped.
func terminalColor(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if strings.HasPrefix(value, "#") {
		return len(value) == 4 || len(value) == 7
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func labelErrored(children []field.Node) bool {
	for _, child := range children {
		if label, ok := child.(*field.Label); ok && label != nil && label.Error() {
			return true
		}
	}
	return false
}

var (
	stripOnce   sync.Once
	stripPolicy *bluemonday.Policy
)

func markupStripper() *bluemonday.Policy {
	stripOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}
