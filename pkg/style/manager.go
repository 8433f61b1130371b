package style

import (
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// DefaultTokens seed every manager; theme manifests and variants override them.
var DefaultTokens = map[string]string{
	"accent":     "#ff4081",
	"error":      "#f44336",
	"text":       "rgba(0, 0, 0, 0.87)",
	"text-muted": "rgba(0, 0, 0, 0.54)",
	"divider":    "rgba(0, 0, 0, 0.12)",
}

// ErrThemeNotSelected is returned when the selector yields no selection.
var ErrThemeNotSelected = errors.New("style: theme selection is empty")

var classNameUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ManagerOption customises a Manager.
type ManagerOption func(*Manager)

// WithThemeSelector resolves tokens through a go-theme selector using the
// given theme and variant names.
func WithThemeSelector(selector theme.ThemeSelector, themeName, variant string) ManagerOption {
	return func(m *Manager) {
		m.selector = selector
		m.themeName = strings.TrimSpace(themeName)
		m.variant = strings.TrimSpace(variant)
	}
}

// WithTokens overrides tokens on top of DefaultTokens, before theme tokens.
func WithTokens(tokens map[string]string) ManagerOption {
	return func(m *Manager) {
		for key, value := range tokens {
			if key = strings.TrimSpace(key); key != "" {
				m.baseTokens[key] = value
			}
		}
	}
}

// WithClassPrefix prepends prefix to every generated class token.
func WithClassPrefix(prefix string) ManagerOption {
	return func(m *Manager) {
		m.prefix = classNameUnsafe.ReplaceAllString(strings.TrimSpace(prefix), "-")
	}
}

// Manager is the go-theme backed style collaborator. It scopes class tokens
// per sheet, theme and variant, caches the results and accumulates the CSS of
// every sheet it rendered. Manager is safe for concurrent use.
type Manager struct {
	mu sync.RWMutex

	selector   theme.ThemeSelector
	themeName  string
	variant    string
	prefix     string
	baseTokens map[string]string

	resolved  bool
	selection *theme.Selection
	tokens    map[string]string

	sheets []attachedSheet
	index  map[string]int
}

type attachedSheet struct {
	sheet   Sheet
	classes ClassMap
}

// NewManager constructs a Manager applying options.
func NewManager(options ...ManagerOption) *Manager {
	m := &Manager{
		baseTokens: make(map[string]string, len(DefaultTokens)),
		index:      make(map[string]int),
	}
	mergeTokens(m.baseTokens, DefaultTokens)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// Render implements Renderer.
func (m *Manager) Render(sheet *Sheet) (ClassMap, error) {
	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	if err := m.resolveTheme(); err != nil {
		return nil, err
	}

	fingerprint := sheet.fingerprint()

	m.mu.RLock()
	if idx, ok := m.index[fingerprint]; ok {
		classes := cloneClassMap(m.sheets[idx].classes)
		m.mu.RUnlock()
		return classes, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.index[fingerprint]; ok {
		return cloneClassMap(m.sheets[idx].classes), nil
	}

	scope := scopeHash(fingerprint, m.themeKey())
	name := classNameUnsafe.ReplaceAllString(sheet.Name, "-")
	classes := make(ClassMap, len(sheet.Rules))
	for _, rule := range sheet.Rules {
		slot := Slot(strings.TrimSpace(string(rule.Slot)))
		token := name + "-" + string(slot) + "-" + scope
		if m.prefix != "" {
			token = m.prefix + "-" + token
		}
		classes[slot] = token
	}

	m.index[fingerprint] = len(m.sheets)
	m.sheets = append(m.sheets, attachedSheet{sheet: cloneSheet(*sheet), classes: classes})
	return cloneClassMap(classes), nil
}

// Tokens returns the resolved theme tokens.
func (m *Manager) Tokens() (map[string]string, error) {
	if err := m.resolveTheme(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneStringMap(m.tokens), nil
}

// RendererConfig exposes the resolved theme in the go-theme renderer format
// so renderers can emit CSS variables and theme asset links.
func (m *Manager) RendererConfig() (*theme.RendererConfig, error) {
	if err := m.resolveTheme(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg := &theme.RendererConfig{
		Theme:   m.themeName,
		Variant: m.variant,
		Tokens:  cloneStringMap(m.tokens),
		CSSVars: cssVars(m.tokens),
	}
	if m.selection != nil {
		cfg.Theme = m.selection.Theme
		cfg.Variant = m.selection.Variant
		cfg.AssetURL = assetResolver(m.selection)
	}
	return cfg, nil
}

// CSS returns custom properties for the theme tokens followed by the scoped
// rules of every sheet rendered so far, in render order.
func (m *Manager) CSS() (string, error) {
	if err := m.resolveTheme(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder
	vars := cssVars(m.tokens)
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}\n")

	for _, attached := range m.sheets {
		for _, rule := range attached.sheet.Rules {
			selector := "." + attached.classes[Slot(strings.TrimSpace(string(rule.Slot)))]
			writeRule(&b, selector, rule.Declarations)
			for _, block := range rule.Nested {
				writeRule(&b, strings.ReplaceAll(block.Selector, "&", selector), block.Declarations)
			}
		}
	}
	return b.String(), nil
}

func (m *Manager) resolveTheme() error {
	m.mu.RLock()
	resolved := m.resolved
	m.mu.RUnlock()
	if resolved {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resolved {
		return nil
	}

	tokens := cloneStringMap(m.baseTokens)
	if tokens == nil {
		tokens = make(map[string]string)
	}
	if m.selector != nil {
		selection, err := m.selector.Select(m.themeName, m.variant)
		if err != nil {
			return fmt.Errorf("style: select theme %q/%q: %w", m.themeName, m.variant, err)
		}
		if selection == nil {
			return ErrThemeNotSelected
		}
		if manifest := selection.Manifest; manifest != nil {
			mergeTokens(tokens, manifest.Tokens)
			if variant, ok := manifest.Variants[selection.Variant]; ok {
				mergeTokens(tokens, variant.Tokens)
			}
		}
		m.selection = selection
		m.themeName = selection.Theme
		m.variant = selection.Variant
	}

	m.tokens = tokens
	m.resolved = true
	return nil
}

func (m *Manager) themeKey() string {
	return m.themeName + "/" + m.variant
}

func assetResolver(selection *theme.Selection) func(string) string {
	manifest := selection.Manifest
	if manifest == nil {
		return func(string) string { return "" }
	}
	prefix := strings.TrimRight(manifest.Assets.Prefix, "/")
	files := cloneStringMap(manifest.Assets.Files)
	if files == nil {
		files = make(map[string]string)
	}
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		if variant.Assets.Prefix != "" {
			prefix = strings.TrimRight(variant.Assets.Prefix, "/")
		}
		for key, file := range variant.Assets.Files {
			files[key] = file
		}
	}
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
			return file
		}
		return prefix + "/" + file
	}
}

func writeRule(b *strings.Builder, selector string, decls []Declaration) {
	if len(decls) == 0 {
		return
	}
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, decl := range decls {
		b.WriteString("  ")
		b.WriteString(strings.TrimSpace(decl.Property))
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(decl.Value))
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
}

func scopeHash(parts ...string) string {
	h := fnv.New32a()
	for _, part := range parts {
		_, _ = h.Write([]byte(part))
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%06x", h.Sum32()&0xffffff)
}

func cssVars(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		name := classNameUnsafe.ReplaceAllString(key, "-")
		out["--"+name] = value
	}
	return out
}

func mergeTokens(dst, src map[string]string) {
	for key, value := range src {
		if key = strings.TrimSpace(key); key != "" {
			dst[key] = value
		}
	}
}

func cloneSheet(src Sheet) Sheet {
	out := Sheet{Name: src.Name, Rules: make([]Rule, len(src.Rules))}
	for idx, rule := range src.Rules {
		cloned := Rule{
			Slot:         rule.Slot,
			Declarations: append([]Declaration(nil), rule.Declarations...),
		}
		for _, block := range rule.Nested {
			cloned.Nested = append(cloned.Nested, Block{
				Selector:     block.Selector,
				Declarations: append([]Declaration(nil), block.Declarations...),
			})
		}
		out.Rules[idx] = cloned
	}
	return out
}

func cloneClassMap(src ClassMap) ClassMap {
	out := make(ClassMap, len(src))
	for slot, class := range src {
		out[slot] = class
	}
	return out
}

func cloneStringMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
