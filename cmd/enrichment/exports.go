package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newExportsCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "List the export log (every save attempt)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if a.Store == nil {
				return errors.New("export log database unavailable")
			}
			logs, err := a.Store.ListExportLogs(limit)
			if err != nil {
				return fmt.Errorf("list export logs: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(logs) == 0 {
				fmt.Fprintln(out, "No exports yet.")
				return nil
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("TIME", "STATUS", "DESTINATION", "ROWS", "GROUPS", "ERROR")
			for _, l := range logs {
				t.Row(
					l.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					l.Status,
					l.Destination,
					strconv.Itoa(l.DataRows),
					strings.Join(l.TaxonomyGroups, ", "),
					l.ErrorMessage,
				)
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries")
	return cmd
}
