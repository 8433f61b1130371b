package tui

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-textfield/pkg/field"
	"github.com/goliatone/go-textfield/pkg/render"
)

const editorHelp = "tab next • shift+tab previous • enter submit • esc cancel"

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithEditorRenderer overrides the view renderer.
func WithEditorRenderer(renderer *Renderer) EditorOption {
	return func(e *Editor) {
		if renderer != nil {
			e.renderer = renderer
		}
	}
}

// WithEditorViewOptions sets the render options used for the field view.
func WithEditorViewOptions(opts render.RenderOptions) EditorOption {
	return func(e *Editor) {
		e.viewOpts = opts
	}
}

// WithEditorLogger attaches a logger for per-key diagnostics.
func WithEditorLogger(logger zerolog.Logger) EditorOption {
	return func(e *Editor) {
		e.logger = logger
	}
}

// Editor is a bubbletea model that edits every input of a field in place.
// Moving between inputs blurs and focuses the derived children and each
// keystroke goes through SetValue, so the field state follows the cursor.
type Editor struct {
	ctx      context.Context
	field    *field.TextField
	props    field.Props
	renderer *Renderer
	viewOpts render.RenderOptions
	logger   zerolog.Logger

	inputs []int
	cursor int
	editor textinput.Model

	problem   string
	submitted bool
	aborted   bool
}

// NewEditor prepares an editor over tf rendered with props. The field is
// mounted so prefilled inputs count as dirty, then the first input is focused.
func NewEditor(ctx context.Context, tf *field.TextField, props field.Props, options ...EditorOption) (Editor, error) {
	if tf == nil {
		return Editor{}, errors.New("tui: text field is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	e := Editor{
		ctx:    ctx,
		field:  tf,
		props:  props,
		logger: zerolog.Nop(),
		editor: textinput.New(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&e)
	}
	if e.renderer == nil {
		e.renderer = New()
	}

	for idx, child := range props.Children {
		if input, ok := child.(*field.Input); ok && input != nil {
			e.inputs = append(e.inputs, idx)
		}
	}
	if len(e.inputs) == 0 {
		return Editor{}, errors.New("tui: field has no inputs")
	}

	if _, err := tf.Mount(props); err != nil {
		return Editor{}, err
	}
	e.editor.Prompt = e.renderer.theme.PromptPrefix
	e.editor.Focus()
	if err := e.enter(); err != nil {
		return Editor{}, err
	}
	return e, nil
}

func (e Editor) Init() tea.Cmd {
	return textinput.Blink
}

func (e Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		e.editor, cmd = e.editor.Update(msg)
		return e, cmd
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		e.aborted = true
		e.leave()
		return e, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		e.move(1)
		return e, nil
	case tea.KeyShiftTab, tea.KeyUp:
		e.move(-1)
		return e, nil
	case tea.KeyEnter:
		if e.cursor < len(e.inputs)-1 {
			e.move(1)
			return e, nil
		}
		if missing := e.firstMissing(); missing >= 0 {
			e.problem = ErrValueRequired.Error()
			e.jump(missing)
			return e, nil
		}
		e.submitted = true
		e.leave()
		return e, tea.Quit
	}

	var cmd tea.Cmd
	e.editor, cmd = e.editor.Update(msg)
	source := e.source()
	if value := e.editor.Value(); value != source.Value {
		source.Value = value
		e.problem = ""
		e.dispatch(func(input *field.Input) { input.SetValue(value) })
		e.logger.Debug().
			Str("input", inputKey(source, e.inputs[e.cursor])).
			Bool("dirty", e.field.State().Dirty()).
			Msg("textfield input edited")
	}
	return e, cmd
}

// View renders the field, any problem and the line being edited.
func (e Editor) View() string {
	opts := e.viewOpts
	rendered, err := e.field.Render(e.props)
	if err != nil {
		return err.Error()
	}
	if e.problem != "" {
		rendered.Error = true
		opts.Messages = render.MergeMessages(opts.Messages, e.problem)
	}
	view, err := e.renderer.View(e.ctx, rendered, opts)
	if err != nil {
		return err.Error()
	}
	if e.submitted || e.aborted {
		return view + "\n"
	}

	help := e.renderer.lg.NewStyle().Faint(true).Render(editorHelp)
	return strings.Join([]string{view, "", e.editor.View(), help}, "\n")
}

// Values returns the current values keyed like Session.Run.
func (e Editor) Values() map[string]string {
	values := make(map[string]string, len(e.inputs))
	for _, idx := range e.inputs {
		input := e.props.Children[idx].(*field.Input)
		values[inputKey(input, idx)] = input.Value
	}
	return values
}

// Err reports ErrAborted once the user cancelled the editor.
func (e Editor) Err() error {
	if e.aborted {
		return ErrAborted
	}
	return nil
}

// Submitted reports whether the user confirmed the last input.
func (e Editor) Submitted() bool {
	return e.submitted
}

func (e *Editor) move(step int) {
	e.jump((e.cursor + step + len(e.inputs)) % len(e.inputs))
}

func (e *Editor) jump(cursor int) {
	if cursor == e.cursor {
		return
	}
	e.leave()
	e.cursor = cursor
	_ = e.enter()
}

func (e *Editor) enter() error {
	source := e.source()
	e.editor.SetValue(source.Value)
	e.editor.Placeholder = source.Placeholder
	e.editor.EchoMode = textinput.EchoNormal
	if source.Type == "password" {
		e.editor.EchoMode = textinput.EchoPassword
		e.editor.EchoCharacter = '*'
	}
	return e.dispatch((*field.Input).Focus)
}

func (e *Editor) leave() {
	_ = e.dispatch((*field.Input).Blur)
}

// dispatch runs fn against the freshly derived copy of the current input so
// the container handlers fire.
func (e *Editor) dispatch(fn func(*field.Input)) error {
	rendered, err := e.field.Render(e.props)
	if err != nil {
		e.logger.Debug().Err(err).Msg("textfield editor render failed")
		return err
	}
	derived, ok := rendered.Children[e.inputs[e.cursor]].(*field.Input)
	if !ok {
		return errors.New("tui: derived child is not an input")
	}
	fn(derived)
	return nil
}

func (e *Editor) source() *field.Input {
	return e.props.Children[e.inputs[e.cursor]].(*field.Input)
}

func (e *Editor) firstMissing() int {
	if !e.props.Required {
		return -1
	}
	for pos, idx := range e.inputs {
		if strings.TrimSpace(e.props.Children[idx].(*field.Input).Value) == "" {
			return pos
		}
	}
	return -1
}

// RunEditor runs an Editor as a bubbletea program on in and out and returns
// the collected values.
func RunEditor(ctx context.Context, tf *field.TextField, props field.Props, in io.Reader, out io.Writer, options ...EditorOption) (map[string]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	model, err := NewEditor(ctx, tf, props, options...)
	if err != nil {
		return nil, err
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if in != nil {
		programOpts = append(programOpts, tea.WithInput(in))
	}
	if out != nil {
		programOpts = append(programOpts, tea.WithOutput(out))
	}

	final, err := tea.NewProgram(model, programOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	result, ok := final.(Editor)
	if !ok {
		return nil, errors.New("tui: unexpected editor model")
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return result.Values(), nil
}
