package app

import (
	"fmt"

	"go.uber.org/zap"

	"enrichment/internal/config"
	"enrichment/internal/service/excel"
	"enrichment/internal/service/history"
	"enrichment/internal/service/workflow"
	"enrichment/internal/store"
)

// App 组装后的应用依赖
type App struct {
	Config     *config.AppConfig
	DataDir    string
	Logger     *zap.Logger
	Exporter   *excel.Exporter
	History    *history.Store
	Store      *store.Store
	Controller *workflow.Controller
}

// New 按配置初始化数据目录、历史文件、导出日志库与控制器。
// 导出日志库打开失败时仅记录警告，其余功能照常可用。
func New(cfg *config.AppConfig, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	a := &App{
		Config:  cfg,
		DataDir: dataDir,
		Logger:  logger,
		Exporter: excel.NewExporter(excel.Options{
			SheetName:   cfg.Excel.SheetName,
			HeaderFill:  cfg.Excel.HeaderFill,
			SectionFill: cfg.Excel.SectionFill,
		}),
		History: history.NewStore(
			config.GetDataPath(cfg, cfg.Data.HistoryFile),
			cfg.Data.HistoryLimit,
			logger.Named("history"),
		),
	}

	var exports workflow.ExportLogger
	if cfg.Data.ExportDB != "" {
		st, err := store.New(config.GetDataPath(cfg, cfg.Data.ExportDB))
		if err != nil {
			logger.Warn("导出日志库不可用", zap.Error(err))
		} else {
			a.Store = st
			exports = st
		}
	}

	a.Controller = workflow.NewController(a.Exporter, a.History, exports, logger.Named("workflow"))
	logger.Debug("应用已初始化",
		zap.String("dataDir", dataDir),
		zap.String("history", a.History.Path()))
	return a, nil
}

// Close 释放资源
func (a *App) Close() error {
	_ = a.Logger.Sync()
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
