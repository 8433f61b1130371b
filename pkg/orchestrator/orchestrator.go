package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-textfield/pkg/definition"
	"github.com/goliatone/go-textfield/pkg/field"
	"github.com/goliatone/go-textfield/pkg/render"
	"github.com/goliatone/go-textfield/pkg/renderers/html"
	"github.com/goliatone/go-textfield/pkg/renderers/tui"
	"github.com/goliatone/go-textfield/pkg/style"
)

const defaultRendererName = html.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = strings.TrimSpace(name)
	}
}

// WithStyleRenderer pins the style collaborator for every request. Theme
// names on requests are ignored unless the renderer is a *style.Manager.
func WithStyleRenderer(renderer style.Renderer) Option {
	return func(o *Orchestrator) {
		o.styles = renderer
	}
}

// WithThemeSelector resolves request theme names through a go-theme selector.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.selector = selector
	}
}

// WithManagerOptions are applied to every style manager the orchestrator
// creates per theme and variant.
func WithManagerOptions(options ...style.ManagerOption) Option {
	return func(o *Orchestrator) {
		o.managerOptions = append(o.managerOptions, options...)
	}
}

// WithTransformer registers a Transformer run on every loaded definition.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithTranslator localizes labels and placeholders that carry translation
// keys.
func WithTranslator(t render.Translator) Option {
	return func(o *Orchestrator) {
		o.translator = t
	}
}

// WithMissingTranslationHandler overrides the text used when a key cannot be
// translated. By default the authored text is kept.
func WithMissingTranslationHandler(handler render.MissingTranslationHandler) Option {
	return func(o *Orchestrator) {
		o.onMissing = handler
	}
}

// WithLogger attaches a logger to the orchestrator and the fields it builds.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the pipeline from definition to rendered output.
// It applies sensible defaults (html and tui renderers, default style sheet)
// while remaining open to dependency injection. Orchestrator is safe for
// concurrent use; style managers are shared per theme and variant.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	styles          style.Renderer
	selector        theme.ThemeSelector
	managerOptions  []style.ManagerOption
	transformer     Transformer
	translator      render.Translator
	onMissing       render.MissingTranslationHandler
	logger          zerolog.Logger
	initialiseErr   error

	mu       sync.Mutex
	managers map[string]*style.Manager
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zerolog.Nop(),
		managers:        make(map[string]*style.Manager),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render one text field.
type Request struct {
	// Definition bypasses loading when the caller already holds one. It is
	// cloned before transformation.
	Definition *definition.Definition

	// Source locates the definition document. Optional when Definition is set.
	Source definition.Source

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant select the go-theme theme. Empty values let
	// the selector pick its defaults.
	ThemeName    string
	ThemeVariant string

	// IncludeStyles asks renderers to inline the generated stylesheet.
	IncludeStyles bool

	// State restores the focus and dirty flags of an earlier render. Without
	// it the field is mounted and prefilled inputs start dirty.
	State *field.State

	// Messages are appended to the helper messages of the definition.
	Messages []string

	// ErrorPayload carries server validation errors keyed by field path.
	// Entries matching an input name or id become messages and put the
	// field in the error state.
	ErrorPayload map[string][]string

	// Locale selects the translation locale.
	Locale string
}

// Generate executes the definition → field → renderer sequence and returns
// the rendered bytes (HTML for the default renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	def, err := o.resolveDefinition(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := o.applyTransformer(ctx, def); err != nil {
		return nil, err
	}
	messages := applyMessages(def, req)

	styles, err := o.StyleRenderer(req.ThemeName, req.ThemeVariant)
	if err != nil {
		return nil, err
	}

	tf := field.New(styles, field.WithLogger(o.logger), field.WithState(req.State))
	var rendered field.Rendered
	if req.State != nil {
		rendered, err = tf.Render(def.Props())
	} else {
		rendered, err = tf.Mount(def.Props())
	}
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render field: %w", err)
	}

	opts, err := renderOptions(styles, req.IncludeStyles)
	if err != nil {
		return nil, err
	}
	opts.Messages = messages
	opts.Locale = req.Locale
	opts.Translator = o.translator
	opts.OnMissing = o.onMissing

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	o.logger.Debug().
		Str("renderer", renderer.Name()).
		Str("theme", req.ThemeName).
		Str("variant", req.ThemeVariant).
		Int("children", len(rendered.Children)).
		Int("messages", len(messages)).
		Bool("error", rendered.Error).
		Msg("textfield generate")

	output, err := renderer.Render(ctx, rendered, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Stylesheet renders the default sheet for a theme and returns the CSS the
// style manager produced.
func (o *Orchestrator) Stylesheet(themeName, variant string) (string, error) {
	styles, err := o.StyleRenderer(themeName, variant)
	if err != nil {
		return "", err
	}
	manager, ok := styles.(*style.Manager)
	if !ok {
		return "", errors.New("orchestrator: style renderer does not produce CSS")
	}
	if _, err := manager.Render(field.StyleSheet); err != nil {
		return "", fmt.Errorf("orchestrator: render style sheet: %w", err)
	}
	return manager.CSS()
}

// StyleRenderer returns the style collaborator for a theme and variant,
// creating and caching a style manager on first use.
func (o *Orchestrator) StyleRenderer(themeName, variant string) (style.Renderer, error) {
	if o.styles != nil {
		return o.styles, nil
	}

	key := strings.TrimSpace(themeName) + "/" + strings.TrimSpace(variant)

	o.mu.Lock()
	defer o.mu.Unlock()

	if manager, ok := o.managers[key]; ok {
		return manager, nil
	}

	options := append([]style.ManagerOption(nil), o.managerOptions...)
	if o.selector != nil {
		options = append(options, style.WithThemeSelector(o.selector, themeName, variant))
	} else if key != "/" {
		return nil, fmt.Errorf("orchestrator: theme %q requested without a theme selector", key)
	}

	manager := style.NewManager(options...)
	o.managers[key] = manager
	return manager, nil
}

func (o *Orchestrator) resolveDefinition(ctx context.Context, req Request) (*definition.Definition, error) {
	if req.Definition != nil {
		def := req.Definition.Clone()
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
		return def, nil
	}
	if req.Source == nil {
		return nil, errors.New("orchestrator: source or definition is required")
	}
	def, err := definition.LoadSource(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load definition: %w", err)
	}
	return def, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, def *definition.Definition) error {
	if o.transformer == nil || def == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, def); err != nil {
		return fmt.Errorf("orchestrator: transform definition: %w", err)
	}
	return nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := strings.TrimSpace(name)
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
		o.registry.MustRegister(tui.New())
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

// applyMessages merges definition, request and payload messages. Payload
// matches flip the definition into the error state.
func applyMessages(def *definition.Definition, req Request) []string {
	var names []string
	for _, child := range def.Children {
		if child.Kind != definition.KindInput {
			continue
		}
		names = append(names, child.Name, child.ID)
	}
	names = append(names, def.ID)

	serverErrors := render.MessagesFor(req.ErrorPayload, names...)
	if len(serverErrors) > 0 {
		def.Error = true
	}
	messages := render.MergeMessages(def.Messages, req.Messages...)
	return render.MergeMessages(messages, serverErrors...)
}

func renderOptions(styles style.Renderer, includeStyles bool) (render.RenderOptions, error) {
	opts := render.RenderOptions{IncludeStyles: includeStyles}
	manager, ok := styles.(*style.Manager)
	if !ok {
		return opts, nil
	}

	cfg, err := manager.RendererConfig()
	if err != nil {
		return opts, fmt.Errorf("orchestrator: theme config: %w", err)
	}
	opts.Theme = cfg

	if includeStyles {
		css, err := manager.CSS()
		if err != nil {
			return opts, fmt.Errorf("orchestrator: stylesheet: %w", err)
		}
		opts.Stylesheet = css
	}
	return opts, nil
}
