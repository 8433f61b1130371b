package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-textfield/pkg/definition"
)

// MustLoadDefinition reads a YAML field definition fixture.
func MustLoadDefinition(t *testing.T, path string) *definition.Definition {
	t.Helper()

	def, err := LoadDefinition(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinition returns a Definition without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadDefinition(path string) (*definition.Definition, error) {
	if path == "" {
		return nil, errors.New("testsupport: definition path is required")
	}
	def, err := definition.LoadSource(context.Background(), definition.SourceFromFile(path))
	if err != nil {
		return nil, fmt.Errorf("testsupport: %w", err)
	}
	return def, nil
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
