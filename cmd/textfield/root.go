package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-textfield/internal/config"
	"github.com/goliatone/go-textfield/internal/logger"
	"github.com/goliatone/go-textfield/internal/themes"
	"github.com/goliatone/go-textfield/pkg/orchestrator"
	"github.com/goliatone/go-textfield/pkg/style"
)

type rootFlags struct {
	configPath string
	logLevel   string
	theme      string
	variant    string
	themeFile  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "textfield",
		Short:         "Render composable text fields from YAML definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a textfield.yaml configuration file")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, disabled)")
	cmd.PersistentFlags().StringVar(&flags.theme, "theme", "", "Theme name from the theme file")
	cmd.PersistentFlags().StringVar(&flags.variant, "variant", "", "Theme variant")
	cmd.PersistentFlags().StringVar(&flags.themeFile, "theme-file", "", "Path to a YAML theme catalogue")

	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newCSSCmd(flags))
	cmd.AddCommand(newPromptCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// app holds the collaborators shared by every subcommand.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	catalog *themes.Catalog
	orch    *orchestrator.Orchestrator
}

func loadApp(cmd *cobra.Command, flags *rootFlags, extra ...orchestrator.Option) (*app, error) {
	cfg := config.Default()
	if path := strings.TrimSpace(flags.configPath); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, newCommandError("load configuration", path, err, "Check the file against the documented keys.")
		}
		cfg = loaded
	}
	applyFlagOverrides(&cfg, flags)
	if err := cfg.Validate(); err != nil {
		return nil, newCommandError("load configuration", "flag overrides", err, "Use a supported log level.")
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, HumanReadable: cfg.Log.Human, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return nil, newCommandError("create logger", cfg.Log.Level, err, "Use a supported log level.")
	}
	log = logger.WithFields(log, map[string]any{"command": cmd.Name()})

	options := []orchestrator.Option{
		orchestrator.WithLogger(log),
		orchestrator.WithManagerOptions(
			style.WithTokens(cfg.Tokens),
			style.WithClassPrefix(cfg.ClassPrefix),
		),
	}

	a := &app{cfg: cfg, log: log}
	if file := strings.TrimSpace(cfg.Theme.File); file != "" {
		catalog, err := themes.LoadFile(file)
		if err != nil {
			return nil, newCommandError("load themes", file, err, "Check the theme catalogue is valid YAML with at least one theme.")
		}
		a.catalog = catalog
		options = append(options, orchestrator.WithThemeSelector(catalog))
		log.Debug().Strs("themes", catalog.Names()).Msg("theme catalogue loaded")
	}

	a.orch = orchestrator.New(append(options, extra...)...)
	return a, nil
}

func applyFlagOverrides(cfg *config.Config, flags *rootFlags) {
	if v := strings.TrimSpace(flags.logLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(flags.theme); v != "" {
		cfg.Theme.Name = v
	}
	if v := strings.TrimSpace(flags.variant); v != "" {
		cfg.Theme.Variant = v
	}
	if v := strings.TrimSpace(flags.themeFile); v != "" {
		cfg.Theme.File = v
	}
}

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}
