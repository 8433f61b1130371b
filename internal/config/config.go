// Package config loads the CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the textfield CLI configuration.
type Config struct {
	Renderer      string            `yaml:"renderer" validate:"omitempty,oneof=html tui"`
	IncludeStyles bool              `yaml:"include_styles"`
	ClassPrefix   string            `yaml:"class_prefix" validate:"omitempty,alphanum_dash"`
	Tokens        map[string]string `yaml:"tokens" validate:"dive,keys,required,endkeys,css_value"`
	Theme         Theme             `yaml:"theme"`
	Log           Log               `yaml:"log"`
}

// Theme points at a go-theme manifest file and the selection to use.
type Theme struct {
	File    string `yaml:"file"`
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
}

// Log configures the CLI logger.
type Log struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Human bool   `yaml:"human"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Renderer: "html",
		Log:      Log{Level: "info", Human: true},
	}
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("alphanum_dash", func(fl validator.FieldLevel) bool {
			for _, r := range fl.Field().String() {
				switch {
				case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
				default:
					return false
				}
			}
			return true
		})
		_ = v.RegisterValidation("css_value", func(fl validator.FieldLevel) bool {
			return !strings.ContainsAny(fl.Field().String(), ";{}<>")
		})
		validateInst = v
	})
	return validateInst
}

// Load decodes r over the defaults and validates the result.
func Load(r io.Reader) (Config, error) {
	if r == nil {
		return Config{}, errors.New("config: reader is nil")
	}
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads the configuration at path.
func LoadFile(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()
	return Load(file)
}

// Validate checks struct constraints.
func (c Config) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		return fmt.Errorf("config: validate: %w", err)
	}
	return nil
}
