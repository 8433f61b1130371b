package main

import (
	"github.com/spf13/cobra"
)

func newCSSCmd(rootFlags *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "css",
		Short: "Emit the scoped text field stylesheet for the selected theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, rootFlags)
			if err != nil {
				return err
			}
			css, err := a.orch.Stylesheet(a.cfg.Theme.Name, a.cfg.Theme.Variant)
			if err != nil {
				return newCommandError("render stylesheet", a.cfg.Theme.Name, err, "Check the theme name and variant exist in the theme file.")
			}
			return writeOutput(cmd, output, []byte(css))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the stylesheet to a file instead of stdout")
	return cmd
}
