package tui

import "github.com/charmbracelet/lipgloss"

// Palette holds the colors of the text view. Values are anything lipgloss
// accepts as a color: ANSI indexes or hex strings.
type Palette struct {
	Accent  string
	Error   string
	Text    string
	Muted   string
	Divider string
}

// DefaultPalette is the terminal counterpart of style.DefaultTokens.
var DefaultPalette = Palette{
	Accent:  "#ff4081",
	Error:   "#f44336",
	Text:    "#212121",
	Muted:   "#757575",
	Divider: "#9e9e9e",
}

// paletteTokens maps go-theme CSS variables onto palette entries.
var paletteTokens = map[string]func(*Palette, string){
	"--accent":     func(p *Palette, v string) { p.Accent = v },
	"--error":      func(p *Palette, v string) { p.Error = v },
	"--text":       func(p *Palette, v string) { p.Text = v },
	"--text-muted": func(p *Palette, v string) { p.Muted = v },
	"--divider":    func(p *Palette, v string) { p.Divider = v },
}

// Theme captures optional prefixes the view and session print.
type Theme struct {
	PromptPrefix string
	ErrorPrefix  string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPalette replaces the default palette. Theme CSS variables passed at
// render time still take precedence.
func WithPalette(palette Palette) Option {
	return func(r *Renderer) {
		r.palette = palette
	}
}

// WithTheme applies optional prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithWidth sets the minimum width of the input underline.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithLipglossRenderer selects the lipgloss renderer, e.g. one bound to a
// specific output to control color detection.
func WithLipglossRenderer(renderer *lipgloss.Renderer) Option {
	return func(r *Renderer) {
		if renderer != nil {
			r.lg = renderer
		}
	}
}
