package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-textfield/pkg/field"
	"github.com/goliatone/go-textfield/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestLocalizeRendered_UsesKeysAndFallbacks(t *testing.T) {
	label := &field.Label{Text: "Name", Attrs: map[string]string{render.AttrTextKey: "fields.name"}}
	input := &field.Input{Placeholder: "Enter name", Attrs: map[string]string{render.AttrPlaceholderKey: "fields.name.placeholder"}}
	untranslated := &field.Label{Text: "", Attrs: map[string]string{render.AttrTextKey: "fields.other"}}
	rendered := field.Rendered{Children: []field.Node{label, input, untranslated, field.Text("static")}}

	got := render.LocalizeRendered(rendered, render.RenderOptions{
		Locale:     "es",
		Translator: stubTranslator{"fields.name": "Nombre"},
	})

	if text := got.Children[0].(*field.Label).Text; text != "Nombre" {
		t.Fatalf("expected translated label, got %q", text)
	}
	if placeholder := got.Children[1].(*field.Input).Placeholder; placeholder != "Enter name" {
		t.Fatalf("expected placeholder fallback, got %q", placeholder)
	}
	if text := got.Children[2].(*field.Label).Text; text != "fields.other" {
		t.Fatalf("expected key when no fallback, got %q", text)
	}
	if got.Children[3] != field.Node(field.Text("static")) {
		t.Fatalf("opaque child changed")
	}
	if label.Text != "Name" {
		t.Fatalf("source label mutated")
	}
}

func TestLocalizeRendered_OnMissingAndNoKeys(t *testing.T) {
	var missing []string
	rendered := field.Rendered{Children: []field.Node{
		&field.Label{Text: "City", Attrs: map[string]string{render.AttrTextKey: "fields.city"}},
	}}
	got := render.LocalizeRendered(rendered, render.RenderOptions{
		Locale: "fr",
		OnMissing: func(locale, key string, _ []any, err error) string {
			if !errors.Is(err, render.ErrMissingTranslator) {
				t.Fatalf("expected ErrMissingTranslator, got %v", err)
			}
			missing = append(missing, locale+":"+key)
			return "?" + key
		},
	})
	if text := got.Children[0].(*field.Label).Text; text != "?fields.city" {
		t.Fatalf("expected handler output, got %q", text)
	}
	if diff := cmp.Diff([]string{"fr:fields.city"}, missing); diff != "" {
		t.Fatalf("missing calls mismatch (-want +got):\n%s", diff)
	}

	plain := field.Rendered{Children: []field.Node{&field.Label{Text: "City"}}}
	if out := render.LocalizeRendered(plain, render.RenderOptions{}); out.Children[0] != plain.Children[0] {
		t.Fatalf("children without keys must pass through")
	}
}

func TestTemplateI18nFuncs(t *testing.T) {
	funcs := render.TemplateI18nFuncs(stubTranslator{"hello": "Bonjour"}, render.TemplateI18nConfig{})

	translate := funcs["translate"].(func(any, string, ...any) string)
	if got := translate("fr", "hello"); got != "Bonjour" {
		t.Fatalf("expected translation, got %q", got)
	}
	if got := translate(map[string]any{"locale": "fr"}, "missing"); got != "missing" {
		t.Fatalf("expected key fallback, got %q", got)
	}

	current := funcs["current_locale"].(func(any) string)
	if got := current(map[string]string{"locale": "de"}); got != "de" {
		t.Fatalf("expected locale from map, got %q", got)
	}
}

func TestMergeAndMapMessages(t *testing.T) {
	if diff := cmp.Diff([]string{"a", "b"}, render.MergeMessages([]string{" a ", ""}, "b", "a")); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}

	payload := map[string][]string{
		"/data/attributes/email": {"is invalid"},
		"email":                  {"is invalid", "is taken"},
		"body.name":              {"is required"},
		"items.0":                {"ignored"},
	}
	got := render.MessagesFor(payload, "email")
	if diff := cmp.Diff([]string{"is invalid", "is taken"}, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if got := render.MessagesFor(payload, "phone"); got != nil {
		t.Fatalf("expected no messages, got %v", got)
	}
}

func TestMessagesFor_PathForms(t *testing.T) {
	payload := map[string][]string{
		"/data/attributes/data":  {"data is invalid"},
		"/body/payload/0":        {"payload is empty"},
		"/data/attributes/a~1b":  {"slash name"},
		"/data/attributes/c~0d":  {"tilde name"},
		"user.email":             {"dotted name"},
		"/data/attributes/email": {"pointer email"},
	}
	tests := []struct {
		name string
		want []string
	}{
		{name: "data", want: []string{"data is invalid"}},
		{name: "payload", want: []string{"payload is empty"}},
		{name: "attributes", want: nil},
		{name: "a/b", want: []string{"slash name"}},
		{name: "c~d", want: []string{"tilde name"}},
		{name: "user.email", want: []string{"dotted name"}},
		{name: "email", want: []string{"pointer email", "dotted name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, render.MessagesFor(payload, tt.name)); diff != "" {
				t.Fatalf("messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
