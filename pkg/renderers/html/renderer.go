package html

import (
	"context"
	"embed"
	"fmt"
	stdhtml "html"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	gotemplatepkg "github.com/goliatone/go-template"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-textfield/pkg/field"
	"github.com/goliatone/go-textfield/pkg/render"
	rendertemplate "github.com/goliatone/go-textfield/pkg/render/template"
	gotemplate "github.com/goliatone/go-textfield/pkg/render/template/gotemplate"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const (
	// Name is the registry name of the HTML renderer.
	Name = "html"

	// ThemeStylesheetAsset is the go-theme asset key linked when present.
	ThemeStylesheetAsset = "textfield.stylesheet"

	templateField = "templates/textfield.tmpl"
	templateInput = "templates/input.tmpl"
	templateLabel = "templates/label.tmpl"
)

// Element lets custom children render their own markup. The output is
// trusted and inserted verbatim.
type Element interface {
	RenderHTML(ctx context.Context) (string, error)
}

// TemplatesFS exposes the embedded templates so callers can copy and adapt
// them.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	templateFuncs    map[string]any
	goTemplate       bool
	goTemplateOpts   []gotemplatepkg.Option
	policy           *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle. It must contain the
// templates/ directory layout of TemplatesFS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTemplateFuncs registers helpers for custom templates, for example
// render.TemplateI18nFuncs. Ignored when WithTemplateRenderer is used.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFuncs == nil {
			cfg.templateFuncs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFuncs[name] = fn
		}
	}
}

// WithGoTemplateEngine renders through a github.com/goliatone/go-template
// engine instead of the built-in pongo2 set. The options are applied after
// the template source, extension and template funcs.
func WithGoTemplateEngine(options ...gotemplatepkg.Option) Option {
	return func(cfg *config) {
		cfg.goTemplate = true
		cfg.goTemplateOpts = append(cfg.goTemplateOpts, options...)
	}
}

// WithSanitizer replaces the policy applied to Markup children.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// Renderer renders a field.Rendered as an HTML fragment.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	policy    *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engineOpts := []gotemplate.Option{
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		}
		if len(cfg.templateFuncs) > 0 {
			engineOpts = append(engineOpts, gotemplate.WithTemplateFunc(cfg.templateFuncs))
		}
		var err error
		if cfg.goTemplate {
			engineOpts = append(engineOpts, gotemplate.WithGoTemplateOptions(cfg.goTemplateOpts...))
			renderer, err = gotemplate.NewGoTemplate(engineOpts...)
		} else {
			renderer, err = gotemplate.New(engineOpts...)
		}
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
	}

	policy := cfg.policy
	if policy == nil {
		policy = markupSanitizer()
	}

	return &Renderer{templates: renderer, policy: policy}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits the wrapper element with the resolved class, passthrough
// attributes, every child in order and the helper messages. Children
// carrying translation keys are localized first.
func (r *Renderer) Render(ctx context.Context, rendered field.Rendered, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	rendered = render.LocalizeRendered(rendered, opts)

	children := make([]string, 0, len(rendered.Children))
	for idx, child := range rendered.Children {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		markup, err := r.renderChild(ctx, child)
		if err != nil {
			return nil, fmt.Errorf("html renderer: child %d: %w", idx, err)
		}
		if markup = strings.TrimSpace(markup); markup != "" {
			children = append(children, markup)
		}
	}

	data := map[string]any{
		"class":    rendered.Class,
		"attrs":    attrList(rendered.Attrs),
		"children": children,
		"focused":  rendered.State.Focused,
		"dirty":    rendered.State.Dirty,
		"errored":  rendered.Error,
		"messages": render.MergeMessages(nil, opts.Messages...),
		"locale":   opts.Locale,
	}
	if opts.IncludeStyles && strings.TrimSpace(opts.Stylesheet) != "" && !strings.Contains(strings.ToLower(opts.Stylesheet), "</style") {
		data["stylesheet"] = opts.Stylesheet
	}
	applyTheme(data, opts.Theme, opts.IncludeStyles)

	result, err := r.templates.RenderTemplate(templateField, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) renderChild(ctx context.Context, child field.Node) (string, error) {
	switch node := child.(type) {
	case nil:
		return "", nil
	case *field.Input:
		if node == nil {
			return "", nil
		}
		return r.renderInput(node)
	case *field.Label:
		if node == nil {
			return "", nil
		}
		return r.renderLabel(node)
	case field.Markup:
		return r.policy.Sanitize(string(node)), nil
	case field.Text:
		return stdhtml.EscapeString(string(node)), nil
	case Element:
		return node.RenderHTML(ctx)
	case fmt.Stringer:
		return stdhtml.EscapeString(node.String()), nil
	case string:
		return stdhtml.EscapeString(node), nil
	default:
		return "", fmt.Errorf("unsupported child type %T", child)
	}
}

func (r *Renderer) renderInput(input *field.Input) (string, error) {
	inputType := strings.TrimSpace(input.Type)
	if inputType == "" {
		inputType = "text"
	}
	return r.templates.RenderTemplate(templateInput, map[string]any{
		"id":          input.ID,
		"name":        input.Name,
		"type":        inputType,
		"class":       input.Props.Class,
		"value":       input.Value,
		"placeholder": input.Placeholder,
		"attrs":       attrList(input.Attrs),
	})
}

func (r *Renderer) renderLabel(label *field.Label) (string, error) {
	return r.templates.RenderTemplate(templateLabel, map[string]any{
		"label_for": label.For,
		"text":      label.Text,
		"class":     label.Props.Class,
		"shrink":    label.Shrink(),
		"focused":   label.Props.Focused,
		"errored":   label.Error(),
		"required":  label.Required(),
		"attrs":     attrList(label.Attrs),
	})
}

func applyTheme(data map[string]any, cfg *theme.RendererConfig, includeStyles bool) {
	if cfg == nil || !includeStyles {
		return
	}
	data["theme_name"] = cfg.Theme
	// the style manager CSS already declares the token variables
	if _, inlined := data["stylesheet"]; !inlined {
		if vars := cssVarsStyle(cfg.CSSVars); vars != "" {
			data["theme_vars"] = vars
		}
	}
	if cfg.AssetURL != nil {
		if href := cfg.AssetURL(ThemeStylesheetAsset); href != "" {
			data["theme_stylesheet"] = href
		}
	}
}

// attrList sorts attributes by name and drops names that are not safe to
// emit, including inline event handlers.
func attrList(attrs map[string]string) []map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if safeAttrName(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]map[string]any, 0, len(names))
	for _, name := range names {
		out = append(out, map[string]any{"name": name, "value": attrs[name]})
	}
	return out
}

func safeAttrName(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "on") || lower == "class" || lower == "style" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == ':':
		default:
			return false
		}
	}
	return true
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		if strings.ContainsAny(vars[key], ";{}<") {
			continue
		}
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";")
	}
	b.WriteString(" }")
	return b.String()
}

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		policy.AllowAttrs("aria-hidden", "aria-live", "role").Globally()
		markupPolicy = policy
	})
	return markupPolicy
}
