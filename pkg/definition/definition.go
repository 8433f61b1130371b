// Package definition loads declarative TextField descriptions from YAML and
// turns them into field.Props.
package definition

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-textfield/pkg/field"
	"github.com/goliatone/go-textfield/pkg/render"
)

// Child kinds accepted in a definition.
const (
	KindInput  = "input"
	KindLabel  = "label"
	KindMarkup = "markup"
	KindText   = "text"
)

// Definition describes one TextField and its children.
type Definition struct {
	ID       string            `yaml:"id" json:"id" validate:"omitempty,html_id"`
	Class    string            `yaml:"class,omitempty" json:"class,omitempty"`
	Error    bool              `yaml:"error,omitempty" json:"error,omitempty"`
	Required bool              `yaml:"required,omitempty" json:"required,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty" validate:"dive,keys,attr_name,endkeys,max=2048"`
	Messages []string          `yaml:"messages,omitempty" json:"messages,omitempty" validate:"dive,max=512"`
	Children []Child           `yaml:"children" json:"children" validate:"dive"`
}

// Child describes a single child. Label flags left out of the document stay
// unset so the container derives them.
type Child struct {
	Kind           string            `yaml:"kind" json:"kind" validate:"required,oneof=input label markup text"`
	ID             string            `yaml:"id,omitempty" json:"id,omitempty" validate:"omitempty,html_id"`
	Name           string            `yaml:"name,omitempty" json:"name,omitempty"`
	Type           string            `yaml:"type,omitempty" json:"type,omitempty" validate:"omitempty,oneof=text email password search tel url number"`
	Value          string            `yaml:"value,omitempty" json:"value,omitempty"`
	Placeholder    string            `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Text           string            `yaml:"text,omitempty" json:"text,omitempty"`
	TextKey        string            `yaml:"text_key,omitempty" json:"text_key,omitempty"`
	PlaceholderKey string            `yaml:"placeholder_key,omitempty" json:"placeholder_key,omitempty"`
	For            string            `yaml:"for,omitempty" json:"for,omitempty"`
	Class          string            `yaml:"class,omitempty" json:"class,omitempty"`
	Error          *bool             `yaml:"error,omitempty" json:"error,omitempty"`
	Required       *bool             `yaml:"required,omitempty" json:"required,omitempty"`
	Shrink         *bool             `yaml:"shrink,omitempty" json:"shrink,omitempty"`
	Attrs          map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty" validate:"dive,keys,attr_name,endkeys,max=2048"`

}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("html_id", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return value != "" && !strings.ContainsAny(value, " \t\n\"'<>&")
		})
		_ = v.RegisterValidation("attr_name", func(fl validator.FieldLevel) bool {
			return validAttrName(fl.Field().String())
		})

		validateInst = v
	})
	return validateInst
}

func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	// event handler attributes are never passed through
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

// Load decodes and validates a YAML definition.
func Load(r io.Reader) (*Definition, error) {
	if r == nil {
		return nil, errors.New("definition: reader is nil")
	}
	var def Definition
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("definition: decode: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks struct constraints.
func (d *Definition) Validate() error {
	if d == nil {
		return errors.New("definition: definition is nil")
	}
	if err := validatorInstance().Struct(d); err != nil {
		return fmt.Errorf("definition: validate: %w", err)
	}
	return nil
}

// Clone returns a deep copy.
func (d *Definition) Clone() *Definition {
	if d == nil {
		return nil
	}
	out := *d
	out.Attrs = maps.Clone(d.Attrs)
	out.Messages = slices.Clone(d.Messages)
	out.Children = make([]Child, len(d.Children))
	for idx, child := range d.Children {
		child.Attrs = maps.Clone(child.Attrs)
		child.Error = cloneBool(child.Error)
		child.Required = cloneBool(child.Required)
		child.Shrink = cloneBool(child.Shrink)
		out.Children[idx] = child
	}
	return &out
}

// Props builds container props. Each call returns fresh children.
func (d *Definition) Props() field.Props {
	if d == nil {
		return field.Props{}
	}
	attrs := maps.Clone(d.Attrs)
	if d.ID != "" {
		if attrs == nil {
			attrs = make(map[string]string, 1)
		}
		attrs["id"] = d.ID
	}

	children := make([]field.Node, 0, len(d.Children))
	for _, child := range d.Children {
		children = append(children, child.node())
	}

	return field.Props{
		Children: children,
		Class:    d.Class,
		Error:    d.Error,
		Required: d.Required,
		Attrs:    attrs,
	}
}

func (c Child) node() field.Node {
	switch c.Kind {
	case KindInput:
		return &field.Input{
			ID:          c.ID,
			Name:        c.Name,
			Type:        c.Type,
			Value:       c.Value,
			Placeholder: c.Placeholder,
			Attrs:       withKey(c.Attrs, render.AttrPlaceholderKey, c.PlaceholderKey),
			Props:       field.InputProps{Class: c.Class},
		}
	case KindLabel:
		return &field.Label{
			For:   c.For,
			Text:  c.Text,
			Attrs: withKey(c.Attrs, render.AttrTextKey, c.TextKey),
			Props: field.LabelProps{
				Class:    c.Class,
				Error:    cloneBool(c.Error),
				Required: cloneBool(c.Required),
				Shrink:   cloneBool(c.Shrink),
			},
		}
	case KindMarkup:
		return field.Markup(c.Text)
	default:
		return field.Text(c.Text)
	}
}

func withKey(attrs map[string]string, name, key string) map[string]string {
	out := maps.Clone(attrs)
	if key = strings.TrimSpace(key); key == "" {
		return out
	}
	if out == nil {
		out = make(map[string]string, 1)
	}
	out[name] = key
	return out
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	return field.Bool(*v)
}
