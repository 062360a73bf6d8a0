package app

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOptions 日志选项
type LoggerOptions struct {
	Level   string
	Verbose bool
	Dev     bool
	File    string // 非空时只写文件（终端界面模式）
}

// NewLogger 基于 zap 生产配置构建日志
func NewLogger(opts LoggerOptions) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if opts.Dev {
		config = zap.NewDevelopmentConfig()
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)

	if opts.File != "" {
		config.OutputPaths = []string{opts.File}
		config.ErrorOutputPaths = []string{opts.File}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
