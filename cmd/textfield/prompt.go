package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/goliatone/go-textfield/pkg/definition"
	"github.com/goliatone/go-textfield/pkg/field"
	"github.com/goliatone/go-textfield/pkg/render"
	"github.com/goliatone/go-textfield/pkg/renderers/tui"
	"github.com/goliatone/go-textfield/pkg/style"
)

// newPromptDriver is replaced in tests.
var newPromptDriver = func(out io.Writer) tui.PromptDriver {
	return tui.NewSurveyDriver(out)
}

const (
	promptModeAuto   = "auto"
	promptModeSurvey = "survey"
	promptModeEditor = "editor"
)

type promptOptions struct {
	jsonOutput bool
	mode       string
}

func newPromptCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &promptOptions{}

	cmd := &cobra.Command{
		Use:   "prompt <definition.yaml>",
		Short: "Fill a text field interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(cmd, rootFlags, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print collected values as JSON")
	cmd.Flags().StringVar(&opts.mode, "mode", promptModeAuto, "Input mode: auto, survey (one question per input) or editor (full screen)")
	return cmd
}

func runPrompt(cmd *cobra.Command, rootFlags *rootFlags, path string, opts *promptOptions) error {
	mode, err := resolvePromptMode(opts.mode, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	a, err := loadApp(cmd, rootFlags)
	if err != nil {
		return err
	}

	def, err := definition.LoadSource(cmd.Context(), definition.SourceFromFile(path))
	if err != nil {
		return newCommandError("prompt", path, err, "Validate the definition file.")
	}

	styles, err := a.orch.StyleRenderer(a.cfg.Theme.Name, a.cfg.Theme.Variant)
	if err != nil {
		return newCommandError("prompt", "resolving styles", err, "Check the theme name and variant exist in the theme file.")
	}

	viewOpts := render.RenderOptions{Messages: def.Messages}
	if manager, ok := styles.(*style.Manager); ok {
		cfg, err := manager.RendererConfig()
		if err != nil {
			return newCommandError("prompt", "resolving theme", err, "Check the theme file.")
		}
		viewOpts.Theme = cfg
	}

	tf := field.New(styles, field.WithLogger(a.log))

	var values map[string]string
	if mode == promptModeEditor {
		values, err = tui.RunEditor(cmd.Context(), tf, def.Props(), cmd.InOrStdin(), cmd.ErrOrStderr(),
			tui.WithEditorViewOptions(viewOpts),
			tui.WithEditorLogger(a.log),
		)
	} else {
		var session *tui.Session
		session, err = tui.NewSession(tf, def.Props(),
			tui.WithPromptDriver(newPromptDriver(cmd.OutOrStdout())),
			tui.WithViewOptions(viewOpts),
			tui.WithSessionLogger(a.log),
		)
		if err != nil {
			return err
		}
		values, err = session.Run(cmd.Context())
	}
	if err != nil {
		return newCommandError("prompt", path, err, "Press Ctrl+C or Esc only to abort the session.")
	}
	return printValues(cmd.OutOrStdout(), values, opts.jsonOutput)
}

// resolvePromptMode picks the editor only when both ends are terminals.
func resolvePromptMode(mode string, in io.Reader, out io.Writer) (string, error) {
	switch mode {
	case promptModeSurvey, promptModeEditor:
		return mode, nil
	case "", promptModeAuto:
		if isTerminal(in) && isTerminal(out) {
			return promptModeEditor, nil
		}
		return promptModeSurvey, nil
	default:
		return "", newCommandError("prompt", "mode", fmt.Errorf("unknown mode %q", mode), "Use auto, survey or editor.")
	}
}

func isTerminal(stream any) bool {
	if file, ok := stream.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

func printValues(out io.Writer, values map[string]string, jsonOutput bool) error {
	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(values)
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := fmt.Fprintf(out, "%s=%s\n", key, values[key]); err != nil {
			return err
		}
	}
	return nil
}
