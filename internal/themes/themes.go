// Package themes loads go-theme manifests from a YAML file and selects among
// them for the CLI.
package themes

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

var (
	// ErrThemeNotFound is returned when a requested theme is not in the file.
	ErrThemeNotFound = errors.New("themes: theme not found")
	// ErrVariantNotFound is returned for an unknown variant of a known theme.
	ErrVariantNotFound = errors.New("themes: variant not found")
)

// File is the on-disk theme catalogue.
type File struct {
	Default        string     `yaml:"default"`
	DefaultVariant string     `yaml:"default_variant"`
	Themes         []Manifest `yaml:"themes" validate:"required,min=1,unique=Name,dive"`
}

// Manifest mirrors theme.Manifest in YAML.
type Manifest struct {
	Name     string             `yaml:"name" validate:"required"`
	Version  string             `yaml:"version"`
	Tokens   map[string]string  `yaml:"tokens"`
	Assets   Assets             `yaml:"assets"`
	Variants map[string]Variant `yaml:"variants" validate:"dive"`
}

// Variant mirrors theme.Variant in YAML.
type Variant struct {
	Tokens map[string]string `yaml:"tokens"`
	Assets Assets            `yaml:"assets"`
}

// Assets mirrors theme.Assets in YAML.
type Assets struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Catalog is a theme.ThemeSelector over the manifests of one file.
type Catalog struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
	provider       theme.ThemeProvider
}

var _ theme.ThemeSelector = (*Catalog)(nil)

// Load decodes, validates and registers the manifests in r.
func Load(r io.Reader) (*Catalog, error) {
	if r == nil {
		return nil, errors.New("themes: reader is nil")
	}
	var file File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("themes: decode: %w", err)
	}
	if err := validatorInstance().Struct(file); err != nil {
		return nil, fmt.Errorf("themes: validate: %w", err)
	}
	return newCatalog(file)
}

// LoadFile reads the catalogue at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("themes: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

func newCatalog(file File) (*Catalog, error) {
	registry := theme.NewRegistry()
	catalog := &Catalog{
		manifests:      make(map[string]*theme.Manifest, len(file.Themes)),
		defaultTheme:   strings.TrimSpace(file.Default),
		defaultVariant: strings.TrimSpace(file.DefaultVariant),
	}

	for _, doc := range file.Themes {
		manifest := doc.manifest()
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("themes: register %q: %w", manifest.Name, err)
		}
		catalog.manifests[manifest.Name] = manifest
	}
	catalog.provider = registry

	if catalog.defaultTheme == "" {
		catalog.defaultTheme = file.Themes[0].Name
	}
	if _, ok := catalog.manifests[catalog.defaultTheme]; !ok {
		return nil, fmt.Errorf("themes: default %q: %w", catalog.defaultTheme, ErrThemeNotFound)
	}
	return catalog, nil
}

func (m Manifest) manifest() *theme.Manifest {
	out := &theme.Manifest{
		Name:    strings.TrimSpace(m.Name),
		Version: m.Version,
		Tokens:  m.Tokens,
		Assets:  theme.Assets{Prefix: m.Assets.Prefix, Files: m.Assets.Files},
	}
	if len(m.Variants) > 0 {
		out.Variants = make(map[string]theme.Variant, len(m.Variants))
		for name, variant := range m.Variants {
			out.Variants[name] = theme.Variant{
				Tokens: variant.Tokens,
				Assets: theme.Assets{Prefix: variant.Assets.Prefix, Files: variant.Assets.Files},
			}
		}
	}
	return out
}

// Select implements theme.ThemeSelector. Empty names fall back to the file
// defaults; the default variant only applies when the theme declares it.
func (c *Catalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.defaultTheme
	}
	manifest, ok := c.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}

	variant = strings.TrimSpace(variant)
	switch {
	case variant == "":
		if _, ok := manifest.Variants[c.defaultVariant]; ok {
			variant = c.defaultVariant
		}
	default:
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q/%q", ErrVariantNotFound, name, variant)
		}
	}

	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Names lists the themes in the catalogue.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Provider exposes the go-theme registry the manifests were registered with.
func (c *Catalog) Provider() theme.ThemeProvider {
	return c.provider
}
