package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"enrichment/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage config.toml",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to config.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.SaveConfig(opts.cfg, path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			opts.logger.Info("配置已写入", zap.String("path", path))
			fmt.Fprintf(cmd.OutOrStdout(), "配置已写入: %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
