package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"enrichment/internal/tui"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:         "tui",
		Short:       "Start the terminal UI",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{logToFile: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			wd, err := os.Getwd()
			if err != nil {
				wd = "."
			}
			return tui.Run(a.Controller, tui.Options{
				DefaultPath: filepath.Join(wd, a.Config.Excel.DefaultFilename),
			}, opts.logger.Named("tui"))
		},
	}
}
