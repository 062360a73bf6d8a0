package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"enrichment/internal/model"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the most recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			entries := a.Controller.History()
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No previous runs.")
				return nil
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("RUN", "SKUS", "SKU BLOCKS", "SEQ/NAME BLOCKS")
			for _, e := range entries {
				t.Row(
					strconv.Itoa(e.Index+1),
					strings.Join(e.Summary, ", "),
					strconv.Itoa(len(e.Run.SKUData)),
					strconv.Itoa(len(e.Run.SeqNameData)),
				)
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
	cmd.AddCommand(newHistoryExportCmd(opts))
	return cmd
}

func newHistoryExportCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export N",
		Short: "Recall run N (1 = most recent) and write it to an xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid run number %q: %w", args[0], model.ErrHistoryIndex)
			}
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.Controller.Recall(n - 1); err != nil {
				return err
			}
			res, err := a.Controller.Complete(saveToFile(output))
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "enrichment.xlsx", "output xlsx path")
	return cmd
}
