package html_test

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	gotemplatepkg "github.com/goliatone/go-template"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-textfield/pkg/field"
	"github.com/goliatone/go-textfield/pkg/render"
	"github.com/goliatone/go-textfield/pkg/renderers/html"
	"github.com/goliatone/go-textfield/pkg/style"
)

func TestRenderer_RendersDerivedChildren(t *testing.T) {
	tf := field.New(stubStyles())
	rendered, err := tf.Render(field.Props{
		Required: true,
		Error:    true,
		Class:    "wide",
		Attrs:    map[string]string{"id": "email-field", "data-test": "email", "onclick": "alert(1)"},
		Children: []field.Node{
			&field.Label{For: "email", Text: "Email <address>"},
			&field.Input{ID: "email", Name: "email", Type: "email", Value: `a"b`},
			field.Markup(`<b class="hint">Private<script>alert(1)</script></b>`),
			field.Text("5 < 6"),
		},
	})
	if err != nil {
		t.Fatalf("field render: %v", err)
	}

	out := renderHTML(t, rendered, render.RenderOptions{})

	for _, want := range []string{
		`<div class="root error wide" data-focused="false" data-dirty="false" data-test="email" id="email-field">`,
		`<label for="email" class="label" data-shrink="false" data-focused="false" data-error="true">Email &lt;address&gt;<span class="textfield-required" aria-hidden="true"> *</span></label>`,
		`<input id="email" name="email" type="email" class="input" value="a&quot;b">`,
		`<b class="hint">Private</b>`,
		`5 &lt; 6`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	for _, banned := range []string{"<script", "onclick"} {
		if strings.Contains(out, banned) {
			t.Fatalf("output must not contain %q:\n%s", banned, out)
		}
	}
}

func TestRenderer_ReflectsStateAfterEvents(t *testing.T) {
	tf := field.New(stubStyles())
	props := field.Props{Children: []field.Node{&field.Label{Text: "Name"}, &field.Input{Name: "name"}}}

	rendered, err := tf.Render(props)
	if err != nil {
		t.Fatalf("field render: %v", err)
	}
	input := rendered.Children[1].(*field.Input)
	input.Focus()
	input.SetValue("Ada")

	rendered, err = tf.Render(props)
	if err != nil {
		t.Fatalf("field render: %v", err)
	}
	out := renderHTML(t, rendered, render.RenderOptions{})

	for _, want := range []string{
		`class="root focused" data-focused="true" data-dirty="true"`,
		`data-shrink="true" data-focused="true"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderer_IncludesStylesAndTheme(t *testing.T) {
	cfg := &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"--accent": "#654321"},
		AssetURL: func(key string) string {
			if key == html.ThemeStylesheetAsset {
				return "/themes/acme/textfield.css"
			}
			return ""
		},
	}

	out := renderHTML(t, field.Rendered{Class: "root"}, render.RenderOptions{Theme: cfg, IncludeStyles: true})
	for _, want := range []string{
		`<style data-textfield-theme="acme">:root { --accent: #654321; }</style>`,
		`<link rel="stylesheet" href="/themes/acme/textfield.css">`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	out = renderHTML(t, field.Rendered{Class: "root"}, render.RenderOptions{Theme: cfg, Stylesheet: ".root { display: flex; }", IncludeStyles: true})
	if !strings.Contains(out, "<style>.root { display: flex; }</style>") {
		t.Fatalf("stylesheet not inlined:\n%s", out)
	}
	if strings.Contains(out, "data-textfield-theme") {
		t.Fatalf("theme vars duplicated next to stylesheet:\n%s", out)
	}

	out = renderHTML(t, field.Rendered{Class: "root"}, render.RenderOptions{Theme: cfg, Stylesheet: ".root {}"})
	if strings.Contains(out, "<style") || strings.Contains(out, "<link") {
		t.Fatalf("styles emitted without IncludeStyles:\n%s", out)
	}
}

func TestRenderer_CustomElementsAndErrors(t *testing.T) {
	out := renderHTML(t, field.Rendered{Children: []field.Node{customElement{}}}, render.RenderOptions{})
	if !strings.Contains(out, `<em data-custom="true">custom</em>`) {
		t.Fatalf("custom element not rendered:\n%s", out)
	}

	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	_, err = renderer.Render(context.Background(), field.Rendered{Children: []field.Node{42}}, render.RenderOptions{})
	if err == nil {
		t.Fatalf("expected unsupported child error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = renderer.Render(ctx, field.Rendered{Children: []field.Node{field.Text("x")}}, render.RenderOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestRenderer_MessagesAndLocalization(t *testing.T) {
	rendered := field.Rendered{
		Class: "root",
		Error: true,
		Children: []field.Node{
			&field.Label{For: "city", Text: "City", Attrs: map[string]string{render.AttrTextKey: "fields.city"}},
			&field.Input{ID: "city", Name: "city", Attrs: map[string]string{render.AttrPlaceholderKey: "fields.city.hint"}},
		},
	}
	translator := render.TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
		if locale == "es" && key == "fields.city" {
			return "Ciudad", nil
		}
		return "", errors.New("missing")
	})

	out := renderHTML(t, rendered, render.RenderOptions{
		Locale:     "es",
		Translator: translator,
		Messages:   []string{"Required", " Required ", "Use <letters>"},
	})

	for _, want := range []string{
		`>Ciudad</label>`,
		`placeholder="fields.city.hint"`,
		`<p class="textfield-helper" data-error="true" role="alert">Required</p>`,
		`<p class="textfield-helper" data-error="true" role="alert">Use &lt;letters&gt;</p>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, ">Required</p>") != 1 {
		t.Fatalf("duplicate messages not merged:\n%s", out)
	}
	if label := rendered.Children[0].(*field.Label); label.Text != "City" {
		t.Fatalf("rendered children mutated: %q", label.Text)
	}

	out = renderHTML(t, field.Rendered{Class: "root"}, render.RenderOptions{Messages: []string{"Hint"}})
	if !strings.Contains(out, `<p class="textfield-helper">Hint</p>`) {
		t.Fatalf("helper message missing:\n%s", out)
	}
}

func TestRenderer_TemplateFuncs(t *testing.T) {
	files := fstest.MapFS{
		"templates/textfield.tmpl": {Data: []byte(`<div class="{{ class }}" title="{{ translate(locale, "form.title") }}"></div>`)},
	}
	for _, name := range []string{"templates/input.tmpl", "templates/label.tmpl"} {
		data, err := fs.ReadFile(html.TemplatesFS(), name)
		if err != nil {
			t.Fatalf("read embedded %s: %v", name, err)
		}
		files[name] = &fstest.MapFile{Data: data}
	}

	translator := render.TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
		return locale + ":" + key, nil
	})
	renderer, err := html.New(
		html.WithTemplatesFS(files),
		html.WithTemplateFuncs(render.TemplateI18nFuncs(translator, render.TemplateI18nConfig{})),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), field.Rendered{Class: "root"}, render.RenderOptions{Locale: "fr"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `title="fr:form.title"`) {
		t.Fatalf("template func not applied:\n%s", out)
	}
}

func TestRenderer_GoTemplateEngine(t *testing.T) {
	tf := field.New(stubStyles())
	props := field.Props{
		Required: true,
		Attrs:    map[string]string{"data-test": "email"},
		Children: []field.Node{
			&field.Label{For: "email", Text: "Email"},
			&field.Input{ID: "email", Name: "email", Value: "ada@example.com"},
			field.Markup(`<b>hint</b>`),
		},
	}
	rendered, err := tf.Mount(props)
	if err != nil {
		t.Fatalf("field mount: %v", err)
	}
	opts := render.RenderOptions{Messages: []string{"Work address"}}

	want := renderHTML(t, rendered, opts)

	renderer, err := html.New(html.WithGoTemplateEngine())
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), rendered, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != want {
		t.Fatalf("go-template output differs:\n got: %s\nwant: %s", out, want)
	}
	if !strings.Contains(want, `data-shrink="true"`) {
		t.Fatalf("label over prefilled input is not shrunk:\n%s", want)
	}
}

func TestRenderer_GoTemplateEngineOptions(t *testing.T) {
	files := fstest.MapFS{
		"templates/textfield.tmpl": {Data: []byte(`<div class="{{ class }}" data-env="{{ env }}" data-focused="{{ focused|data_bool }}"></div>`)},
	}
	renderer, err := html.New(
		html.WithTemplatesFS(files),
		html.WithGoTemplateEngine(gotemplatepkg.WithGlobalData(map[string]any{"env": "staging"})),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), field.Rendered{Class: "root"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != `<div class="root" data-env="staging" data-focused="false"></div>` {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRenderer_SkipsTypedNilChildren(t *testing.T) {
	var (
		nilInput *field.Input
		nilLabel *field.Label
	)
	tf := field.New(stubStyles())
	rendered, err := tf.Mount(field.Props{Children: []field.Node{
		nilLabel,
		nilInput,
		&field.Input{Name: "email", Attrs: map[string]string{render.AttrPlaceholderKey: "fields.email"}},
	}})
	if err != nil {
		t.Fatalf("field mount: %v", err)
	}

	translator := render.TranslatorFunc(func(_, key string, _ ...any) (string, error) {
		return "t:" + key, nil
	})
	out := renderHTML(t, rendered, render.RenderOptions{Translator: translator})
	if !strings.Contains(out, `placeholder="t:fields.email"`) {
		t.Fatalf("keyed input not localized:\n%s", out)
	}
	if strings.Count(out, "<input") != 1 || strings.Contains(out, "<label") {
		t.Fatalf("typed nil children must render nothing:\n%s", out)
	}
}

func TestRenderer_Metadata(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "html" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected metadata %q %q", renderer.Name(), renderer.ContentType())
	}
}

func renderHTML(t *testing.T, rendered field.Rendered, opts render.RenderOptions) string {
	t.Helper()
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), rendered, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func stubStyles() style.Renderer {
	return style.RendererFunc(func(*style.Sheet) (style.ClassMap, error) {
		return style.ClassMap{
			style.SlotRoot:    "root",
			style.SlotLabel:   "label",
			style.SlotInput:   "input",
			style.SlotFocused: "focused",
			style.SlotError:   "error",
		}, nil
	})
}

type customElement struct{}

func (customElement) RenderHTML(context.Context) (string, error) {
	return `<em data-custom="true">custom</em>`, nil
}
