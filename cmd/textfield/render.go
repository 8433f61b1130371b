package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-textfield/pkg/definition"
	"github.com/goliatone/go-textfield/pkg/orchestrator"
)

type renderOptions struct {
	renderer      string
	output        string
	preset        string
	includeStyles bool
	messages      []string
	errorsFile    string
}

func newRenderCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <definition.yaml>",
		Short: "Render a text field definition as HTML or a terminal view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, rootFlags, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.renderer, "renderer", "r", "", "Renderer name (html, tui); defaults to the configured renderer")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "JSON preset applied to the definition before rendering")
	cmd.Flags().BoolVar(&opts.includeStyles, "include-styles", false, "Inline the generated stylesheet")
	cmd.Flags().StringArrayVarP(&opts.messages, "message", "m", nil, "Helper message shown under the field (repeatable)")
	cmd.Flags().StringVar(&opts.errorsFile, "errors", "", "JSON file of server validation errors keyed by field path")

	return cmd
}

func runRender(cmd *cobra.Command, rootFlags *rootFlags, opts *renderOptions, path string) error {
	var extra []orchestrator.Option
	if opts.preset != "" {
		data, err := os.ReadFile(opts.preset)
		if err != nil {
			return newCommandError("render", "reading preset", err, "Check the --preset path.")
		}
		transformer, err := orchestrator.NewJSONPresetTransformer(data)
		if err != nil {
			return newCommandError("render", "parsing preset", err, "Presets are JSON documents keyed by child id.")
		}
		extra = append(extra, orchestrator.WithTransformer(transformer))
	}

	payload, err := readErrorPayload(opts.errorsFile)
	if err != nil {
		return err
	}

	a, err := loadApp(cmd, rootFlags, extra...)
	if err != nil {
		return err
	}

	renderer := opts.renderer
	if renderer == "" {
		renderer = a.cfg.Renderer
	}

	output, err := a.orch.Generate(cmd.Context(), orchestrator.Request{
		Source:        definition.SourceFromFile(path),
		Renderer:      renderer,
		ThemeName:     a.cfg.Theme.Name,
		ThemeVariant:  a.cfg.Theme.Variant,
		IncludeStyles: opts.includeStyles || a.cfg.IncludeStyles,
		Messages:      opts.messages,
		ErrorPayload:  payload,
	})
	if err != nil {
		return newCommandError("render", path, err, "Validate the definition and theme selection.")
	}

	return writeOutput(cmd, opts.output, output)
}

func readErrorPayload(path string) (map[string][]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newCommandError("render", "reading errors", err, "Check the --errors path.")
	}
	var payload map[string][]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, newCommandError("render", "parsing errors", err, `Errors are JSON objects such as {"email": ["is invalid"]}.`)
	}
	return payload, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		if _, err := cmd.OutOrStdout().Write(append(data, '\n')); err != nil {
			return err
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return newCommandError("write output", path, err, "Check the output directory exists and is writable.")
	}
	cmd.PrintErrf("Written to %s\n", path)
	return nil
}
