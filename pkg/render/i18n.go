package render

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-textfield/pkg/field"
)

// Attributes holding translation keys on tagged children. Definitions set
// them from text_key and placeholder_key.
const (
	AttrTextKey        = "data-i18n-text"
	AttrPlaceholderKey = "data-i18n-placeholder"
)

// ErrMissingTranslator is passed to the missing handler when no translator is
// configured.
var ErrMissingTranslator = errors.New("render: translator is nil")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts plain functions to the Translator interface.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls fn.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler returns the string used when a key cannot be
// translated. args carries a {"default": fallback} map as its first entry.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if len(args) > 0 {
		if params, ok := args[0].(map[string]any); ok {
			if fallback, ok := params["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// LocalizeRendered translates label text and input placeholders that carry a
// translation key attribute. Children with keys are replaced by copies; the
// input is never mutated.
func LocalizeRendered(rendered field.Rendered, opts RenderOptions) field.Rendered {
	if !slices.ContainsFunc(rendered.Children, hasTranslationKey) {
		return rendered
	}

	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	children := make([]field.Node, len(rendered.Children))
	for idx, child := range rendered.Children {
		switch node := child.(type) {
		case *field.Label:
			if node == nil {
				break
			}
			if key := node.Attrs[AttrTextKey]; key != "" {
				localized := *node
				localized.Attrs = maps.Clone(node.Attrs)
				localized.Text = translate(opts.Locale, key, node.Text, opts.Translator, onMissing)
				children[idx] = &localized
				continue
			}
		case *field.Input:
			if node == nil {
				break
			}
			if key := node.Attrs[AttrPlaceholderKey]; key != "" {
				localized := *node
				localized.Attrs = maps.Clone(node.Attrs)
				localized.Placeholder = translate(opts.Locale, key, node.Placeholder, opts.Translator, onMissing)
				children[idx] = &localized
				continue
			}
		}
		children[idx] = child
	}
	rendered.Children = children
	return rendered
}

func hasTranslationKey(child field.Node) bool {
	switch node := child.(type) {
	case *field.Label:
		return node != nil && node.Attrs[AttrTextKey] != ""
	case *field.Input:
		return node != nil && node.Attrs[AttrPlaceholderKey] != ""
	default:
		return false
	}
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
