package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-textfield/pkg/field"
	"github.com/goliatone/go-textfield/pkg/render"
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) SessionOption {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithRenderer overrides the view renderer.
func WithRenderer(renderer *Renderer) SessionOption {
	return func(s *Session) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithThemeConfig colors the view from a go-theme renderer config.
func WithThemeConfig(cfg *theme.RendererConfig) SessionOption {
	return func(s *Session) {
		s.viewOpts.Theme = cfg
	}
}

// WithViewOptions sets the render options used for every view, including
// helper messages and translation. A theme set by WithThemeConfig is kept
// when opts.Theme is nil.
func WithViewOptions(opts render.RenderOptions) SessionOption {
	return func(s *Session) {
		if opts.Theme == nil {
			opts.Theme = s.viewOpts.Theme
		}
		s.viewOpts = opts
	}
}

// WithSessionLogger attaches a logger for per-input diagnostics.
func WithSessionLogger(logger zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session walks a field's inputs interactively. Every input is focused,
// prompted, updated and blurred through its derived handlers, so the field
// state and view evolve exactly as they would under real input events.
type Session struct {
	field    *field.TextField
	props    field.Props
	driver   PromptDriver
	renderer *Renderer
	viewOpts render.RenderOptions
	logger   zerolog.Logger
}

// NewSession prepares a session over tf rendered with props. Values entered
// are written back into the *field.Input children of props.
func NewSession(tf *field.TextField, props field.Props, options ...SessionOption) (*Session, error) {
	if tf == nil {
		return nil, errors.New("tui: text field is nil")
	}
	s := &Session{
		field:  tf,
		props:  props,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	if s.renderer == nil {
		s.renderer = New()
	}
	return s, nil
}

// Run prompts every input in order and returns the collected values keyed by
// input name, falling back to the id and then the child position.
func (s *Session) Run(ctx context.Context) (map[string]string, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}

	if _, err := s.field.Mount(s.props); err != nil {
		return nil, err
	}

	values := make(map[string]string)
	for idx, child := range s.props.Children {
		source, ok := child.(*field.Input)
		if !ok || source == nil {
			continue
		}
		value, err := s.promptInput(ctx, idx, source)
		if err != nil {
			return nil, err
		}
		values[inputKey(source, idx)] = value
	}

	if err := s.show(ctx); err != nil {
		return nil, err
	}
	return values, nil
}

func (s *Session) promptInput(ctx context.Context, idx int, source *field.Input) (string, error) {
	rendered, err := s.field.Render(s.props)
	if err != nil {
		return "", err
	}
	derived, ok := rendered.Children[idx].(*field.Input)
	if !ok {
		return "", fmt.Errorf("tui: child %d did not render as an input", idx)
	}

	derived.Focus()
	if err := s.show(ctx); err != nil {
		return "", err
	}

	localized := render.LocalizeRendered(rendered, s.viewOpts)
	help := derived.Placeholder
	if input, ok := localized.Children[idx].(*field.Input); ok {
		help = input.Placeholder
	}
	cfg := InputConfig{
		Message:   promptMessage(localized.Children, source, idx),
		Default:   source.Value,
		Help:      help,
		Validator: s.validator(),
	}
	var value string
	if source.Type == "password" {
		value, err = s.driver.Password(ctx, cfg)
	} else {
		value, err = s.driver.Input(ctx, cfg)
	}
	if err != nil {
		derived.Blur()
		return "", err
	}

	source.Value = value
	derived.SetValue(value)
	derived.Blur()

	s.logger.Debug().
		Str("input", inputKey(source, idx)).
		Bool("dirty", s.field.State().Dirty()).
		Msg("textfield input collected")
	return value, nil
}

func (s *Session) show(ctx context.Context) error {
	rendered, err := s.field.Render(s.props)
	if err != nil {
		return err
	}
	view, err := s.renderer.View(ctx, rendered, s.viewOpts)
	if err != nil {
		return err
	}
	return s.driver.Info(ctx, view)
}

func (s *Session) validator() func(string) error {
	if !s.props.Required {
		return nil
	}
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return ErrValueRequired
		}
		return nil
	}
}

// promptMessage prefers the text of a label pointing at the input, then any
// label, then the input name.
func promptMessage(children []field.Node, input *field.Input, idx int) string {
	var fallback string
	for _, child := range children {
		label, ok := child.(*field.Label)
		if !ok || label == nil || label.Text == "" {
			continue
		}
		if input.ID != "" && label.For == input.ID {
			return label.Text
		}
		if fallback == "" {
			fallback = label.Text
		}
	}
	if fallback != "" {
		return fallback
	}
	return inputKey(input, idx)
}

func inputKey(input *field.Input, idx int) string {
	switch {
	case input.Name != "":
		return input.Name
	case input.ID != "":
		return input.ID
	default:
		return "input-" + strconv.Itoa(idx)
	}
}
