package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-textfield/pkg/definition"
	"github.com/goliatone/go-textfield/pkg/field"
)

// Transformer mutates a definition after it is loaded and before the field
// renders it. Implementations can relabel children, toggle flags or inject
// attributes.
type Transformer interface {
	Transform(ctx context.Context, def *definition.Definition) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, def *definition.Definition) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, def *definition.Definition) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, def)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Children are addressed by id:
//
//	{
//	  "class": "compact",
//	  "required": true,
//	  "attrs": {"data-locale": "fr"},
//	  "children": {
//	    "email": {"placeholder": "vous@exemple.fr"},
//	    "email-label": {"text": "Courriel"}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Class    string                    `json:"class"`
	Error    *bool                     `json:"error"`
	Required *bool                     `json:"required"`
	Attrs    map[string]string         `json:"attrs"`
	Children map[string]jsonChildPatch `json:"children"`
}

type jsonChildPatch struct {
	Text        string            `json:"text"`
	Placeholder string            `json:"placeholder"`
	Value       *string           `json:"value"`
	Class       string            `json:"class"`
	Error       *bool             `json:"error"`
	Required    *bool             `json:"required"`
	Shrink      *bool             `json:"shrink"`
	Attrs       map[string]string `json:"attrs"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied definition.
// The patched definition is validated again.
func (t *JSONPresetTransformer) Transform(ctx context.Context, def *definition.Definition) error {
	if def == nil {
		return errors.New("json preset transformer: definition is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := t.document
	if doc.Class != "" {
		def.Class = field.MergeClasses(def.Class, doc.Class)
	}
	if doc.Error != nil {
		def.Error = *doc.Error
	}
	if doc.Required != nil {
		def.Required = *doc.Required
	}
	def.Attrs = mergeStringMap(def.Attrs, doc.Attrs)

	for id, patch := range doc.Children {
		child := findChildByID(def.Children, id)
		if child == nil {
			return fmt.Errorf("json preset transformer: child %q not found", id)
		}
		applyChildPatch(child, patch)
	}
	return def.Validate()
}

func applyChildPatch(child *definition.Child, patch jsonChildPatch) {
	if patch.Text != "" {
		child.Text = patch.Text
	}
	if patch.Placeholder != "" {
		child.Placeholder = patch.Placeholder
	}
	if patch.Value != nil {
		child.Value = *patch.Value
	}
	if patch.Class != "" {
		child.Class = field.MergeClasses(child.Class, patch.Class)
	}
	if patch.Error != nil {
		child.Error = field.Bool(*patch.Error)
	}
	if patch.Required != nil {
		child.Required = field.Bool(*patch.Required)
	}
	if patch.Shrink != nil {
		child.Shrink = field.Bool(*patch.Shrink)
	}
	child.Attrs = mergeStringMap(child.Attrs, patch.Attrs)
}

// findChildByID matches the child id, falling back to the data-id attribute
// for labels and markup that carry no id of their own.
func findChildByID(children []definition.Child, id string) *definition.Child {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	for idx := range children {
		if children[idx].ID == id || children[idx].Attrs["data-id"] == id {
			return &children[idx]
		}
	}
	return nil
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
