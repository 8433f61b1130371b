package tui

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-textfield/pkg/field"
	"github.com/goliatone/go-textfield/pkg/testsupport"
)

func editorProps() field.Props {
	return field.Props{
		Required: true,
		Children: []field.Node{
			&field.Label{For: "first", Text: "First"},
			&field.Input{ID: "first", Name: "first"},
			&field.Input{ID: "secret", Name: "secret", Type: "password"},
		},
	}
}

func press(t *testing.T, m Editor, msg tea.Msg) (Editor, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	editor, ok := next.(Editor)
	require.True(t, ok)
	return editor, cmd
}

func typeText(t *testing.T, m Editor, text string) Editor {
	t.Helper()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestEditor_DrivesFieldState(t *testing.T) {
	tf := field.New(nil)
	recorder := testsupport.Record(tf.State())

	props := editorProps()
	m, err := NewEditor(context.Background(), tf, props, WithEditorRenderer(plainRenderer()))
	require.NoError(t, err)
	assert.True(t, tf.State().Focused())

	m = typeText(t, m, "Ada")
	assert.True(t, tf.State().Dirty())
	assert.Equal(t, "Ada", props.Children[1].(*field.Input).Value)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, tf.State().Focused())
	assert.Contains(t, m.View(), "Ada")

	m = typeText(t, m, "pw")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.Submitted())
	assert.False(t, tf.State().Focused())
	assert.NoError(t, m.Err())
	assert.Equal(t, map[string]string{"first": "Ada", "secret": "pw"}, m.Values())
	assert.NotContains(t, m.View(), "pw")

	assert.Equal(t, []field.Transition{
		field.TransitionGainFocus,
		field.TransitionMarkDirty,
		field.TransitionLoseFocus,
		field.TransitionGainFocus,
		field.TransitionLoseFocus,
	}, recorder.Transitions())
	events := recorder.Events()
	assert.True(t, events[1].Snapshot.Dirty)
}

func TestEditor_RequiredBlocksSubmit(t *testing.T) {
	tf := field.New(nil)
	m, err := NewEditor(context.Background(), tf, editorProps(), WithEditorRenderer(plainRenderer()))
	require.NoError(t, err)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.Submitted())
	assert.Contains(t, m.View(), ErrValueRequired.Error())
	assert.Equal(t, 0, m.cursor)

	m = typeText(t, m, "x")
	assert.NotContains(t, m.View(), ErrValueRequired.Error())
}

func TestEditor_Abort(t *testing.T) {
	tf := field.New(nil)
	m, err := NewEditor(context.Background(), tf, editorProps(), WithEditorRenderer(plainRenderer()))
	require.NoError(t, err)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.ErrorIs(t, m.Err(), ErrAborted)
	assert.False(t, tf.State().Focused())
}

func TestNewEditor_Errors(t *testing.T) {
	_, err := NewEditor(context.Background(), nil, editorProps())
	require.Error(t, err)

	_, err = NewEditor(context.Background(), field.New(nil), field.Props{Children: []field.Node{field.Text("x")}})
	require.Error(t, err)
}

func TestEditor_PrefilledInputMountsDirty(t *testing.T) {
	tf := field.New(nil)
	recorder := testsupport.Record(tf.State())

	props := field.Props{Children: []field.Node{
		&field.Label{For: "email", Text: "Email"},
		&field.Input{ID: "email", Name: "email", Value: "ada@example.com"},
	}}
	m, err := NewEditor(context.Background(), tf, props, WithEditorRenderer(plainRenderer()))
	require.NoError(t, err)

	assert.True(t, tf.State().Dirty())
	assert.Equal(t, []field.Transition{field.TransitionMarkDirty, field.TransitionGainFocus}, recorder.Transitions())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.Submitted())
	assert.True(t, tf.State().Dirty())
	assert.Equal(t, map[string]string{"email": "ada@example.com"}, m.Values())
}

func TestRunEditor_NilContextDefaults(t *testing.T) {
	tf := field.New(nil)
	props := field.Props{Children: []field.Node{&field.Input{Name: "name"}}}

	//nolint:staticcheck // nil context is the case under test
	values, err := RunEditor(nil, tf, props, strings.NewReader("ada\r"), io.Discard, WithEditorRenderer(plainRenderer()))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "ada"}, values)
}
