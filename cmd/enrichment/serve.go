package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"enrichment/internal/server"
	"enrichment/internal/util"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var noBrowser bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local web UI (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, noBrowser)
		},
	}
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "do not open the browser on start")
	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions, noBrowser bool) error {
	a, err := opts.newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "==========================================")
	fmt.Fprintln(out, "  Enrichment - SKU sheet builder")
	fmt.Fprintln(out, "==========================================")
	fmt.Fprintf(out, "数据目录: %s\n", a.DataDir)

	srv := server.NewServer(a)
	addr := fmt.Sprintf("127.0.0.1:%d", a.Config.Server.Port)
	if err := srv.Start(addr); err != nil {
		return fmt.Errorf("服务启动失败: %w", err)
	}
	url := fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)
	opts.logger.Info("服务已启动", zap.String("addr", srv.Addr()))

	if a.Config.Server.DevMode {
		fmt.Fprintf(out, "开发模式: 请访问 %s\n", url)
	} else if !noBrowser {
		fmt.Fprintf(out, "正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			opts.logger.Warn("无法自动打开浏览器", zap.Error(err))
			fmt.Fprintf(out, "无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Fprintf(out, "请访问 %s\n", url)
	}

	fmt.Fprintln(out, "\n按 Ctrl+C 停止服务...")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	fmt.Fprintln(out, "\n正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		opts.logger.Warn("关闭服务失败", zap.Error(err))
	}
	return nil
}
