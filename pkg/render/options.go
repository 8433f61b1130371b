package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the rendered field.
type RenderOptions struct {
	// Theme is the resolved go-theme configuration. Renderers emit its CSS
	// variables and asset links when present.
	Theme *theme.RendererConfig
	// Stylesheet is CSS generated by the style manager for this render.
	Stylesheet string
	// IncludeStyles asks renderers that support it to inline Stylesheet.
	IncludeStyles bool
	// Messages are helper or validation messages shown under the field. They
	// render in the error colour when the field is in the error state.
	Messages []string
	// Locale, Translator and OnMissing drive LocalizeRendered.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}
