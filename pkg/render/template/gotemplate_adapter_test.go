package template_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-textfield/pkg/render/template/gotemplate"
	"github.com/goliatone/go-textfield/pkg/testsupport"
)

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	if result != "Hello Ada!" {
		t.Fatalf("render template mismatch: got %q", result)
	}
	if written != result {
		t.Fatalf("writer mismatch: got %q", written)
	}
}

func TestGoTemplateEngine_AutoescapesValues(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("hello", map[string]any{"name": "<b>"})
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if result != "Hello &lt;b&gt;!" {
		t.Fatalf("expected escaped output, got %q", result)
	}
}

func TestGoTemplateEngine_GlobalContextAndStructData(t *testing.T) {
	engine, err := gotemplate.New(
		gotemplate.WithFS(testTemplates()),
		gotemplate.WithGlobalData(map[string]any{"env": "staging"}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	data := struct {
		Name string `json:"name"`
	}{Name: "Grace"}

	result, err := engine.RenderTemplate("use-global.tmpl", data)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if result != "Grace@staging" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_RenderString(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Render("{{ name|trim }}-{{ name|length }}", map[string]any{"name": "  x  "})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "x-5" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_DataBoolFilter(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Render("{{ a|data_bool }}-{{ b|data_bool }}-{{ missing|data_bool }}", map[string]any{"a": true, "b": false})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "true-false-false" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	if err := engine.RegisterFilter("textfield_shout", func(input any, _ any) (any, error) {
		return strings.ToUpper(input.(string)) + "!", nil
	}); err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("textfield_shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}

	result, err := engine.RenderString("{{ name|textfield_shout }}", map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "ADA!" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_Errors(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without template source")
	}

	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
	if _, err := engine.RenderTemplate("hello", []string{"not", "an", "object"}); err == nil {
		t.Fatalf("expected error for non-object data")
	}

	var nilEngine *gotemplate.Engine
	if _, err := nilEngine.RenderTemplate("hello", nil); err == nil {
		t.Fatalf("expected error for nil engine")
	}
	if err := engine.RegisterFilter("", nil); err == nil {
		t.Fatalf("expected error for empty filter")
	}
	if _, err := engine.RenderString("{% if %}", nil); err == nil {
		t.Fatalf("expected parse error")
	}

	failing := errors.New("write failed")
	if _, err := engine.RenderTemplate("hello", map[string]any{"name": "x"}, failingWriter{err: failing}); !errors.Is(err, failing) {
		t.Fatalf("expected writer error, got %v", err)
	}
}

func TestNewGoTemplate_SharesFiltersAndFuncs(t *testing.T) {
	engine, err := gotemplate.NewGoTemplate(
		gotemplate.WithFS(testTemplates()),
		gotemplate.WithGlobalData(map[string]any{"env": "staging"}),
		gotemplate.WithTemplateFunc(map[string]any{"greet": func(name string) string { return "hi " + name }}),
		gotemplate.WithGoTemplateOptions(gotemplatepkg.WithGlobalData(map[string]any{"region": "eu"})),
	)
	if err != nil {
		t.Fatalf("new go-template engine: %v", err)
	}

	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if result != "Hello Ada!" {
		t.Fatalf("render template mismatch: got %q", result)
	}

	result, err = engine.RenderString(`{{ a|data_bool }}-{{ greet(name) }}-{{ env }}-{{ region }}`, map[string]any{"a": true, "name": "Ada"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "true-hi Ada-staging-eu" {
		t.Fatalf("unexpected output %q", result)
	}

	if _, err := gotemplate.NewGoTemplate(); err == nil {
		t.Fatalf("expected error without template source")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	engine, err := gotemplate.New(gotemplate.WithFS(testTemplates()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func testTemplates() fstest.MapFS {
	return fstest.MapFS{
		"hello.tmpl":      {Data: []byte("Hello {{ name }}!")},
		"use-global.tmpl": {Data: []byte("{{ name }}@{{ env }}")},
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }
