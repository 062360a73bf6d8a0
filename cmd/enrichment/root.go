package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"enrichment/internal/app"
	"enrichment/internal/config"
)

// logToFile 标记需要把日志写入文件的子命令（终端界面占用 stdout）
const logToFile = "log-to-file"

type rootOptions struct {
	configPath string
	port       int
	dev        bool
	dataDir    string
	verbose    bool

	cfg    *config.AppConfig
	logger *zap.Logger
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "enrichment",
		Short: "Enrichment - build formatted xlsx sheets from pasted SKU and SEQ/NAME data",
		Long: `Enrichment collects tab-delimited SKU data (Step 1) and SEQ/NAME data (Step 2),
then assembles them into a single formatted spreadsheet.

Run without arguments to start the local web UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, false)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: config.toml beside the executable)")
	root.PersistentFlags().IntVarP(&opts.port, "port", "p", 0, "HTTP port (overrides config)")
	root.PersistentFlags().BoolVar(&opts.dev, "dev", false, "development mode")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory (overrides config)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newAssembleCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newExportsCmd(opts))
	root.AddCommand(newConfigCmd(opts))

	return root
}

// setup 加载配置、应用命令行覆盖并初始化日志
func (o *rootOptions) setup(cmd *cobra.Command) error {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, info, err := config.LoadConfigWithInfo(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("port") && o.port > 0 {
		cfg.Server.Port = o.port
	}
	if o.dev {
		cfg.Server.DevMode = true
	}
	if o.dataDir != "" {
		cfg.Data.DataDir = o.dataDir
	}
	o.cfg = cfg

	logOpts := app.LoggerOptions{
		Level:   cfg.Log.Level,
		Verbose: o.verbose,
		Dev:     cfg.Server.DevMode,
	}
	if _, ok := cmd.Annotations[logToFile]; ok && cfg.Log.File != "" {
		if _, err := config.EnsureDataDir(cfg); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
		logOpts.File = config.GetDataPath(cfg, cfg.Log.File)
	}
	if o.logger == nil {
		logger, err := app.NewLogger(logOpts)
		if err != nil {
			return err
		}
		o.logger = logger
	}

	o.logger.Debug("配置已加载",
		zap.String("path", info.Path),
		zap.Bool("found", info.Found),
		zap.Bool("portInFile", info.PortSpecified),
		zap.Int("port", cfg.Server.Port),
		zap.String("dataDir", cfg.Data.DataDir))
	return nil
}

// newApp 按当前配置组装应用
func (o *rootOptions) newApp() (*app.App, error) {
	return app.New(o.cfg, o.logger)
}
