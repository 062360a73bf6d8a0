package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"enrichment/internal/api"
	"enrichment/internal/app"
)

//go:embed all:dist
var staticFiles embed.FS

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	http   *http.Server
	addr   net.Addr
	api    *api.Handler
	logger *zap.Logger
	done   chan struct{}
}

// purgeInterval 过期下载的清理周期
const purgeInterval = time.Minute

// NewServer 创建服务器
func NewServer(a *app.App) *Server {
	devMode := a.Config.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := a.Logger.Named("server")
	handler := api.NewHandler(
		a.Controller,
		a.Store,
		filepath.Join(a.DataDir, "exports"),
		a.Config.Excel.DefaultFilename,
		logger,
	)

	s := &Server{
		router: gin.New(),
		api:    handler,
		logger: logger,
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes(devMode)

	return s
}

// Handler 返回路由（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("请求",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	s.api.RegisterRoutes(s.router.Group("/api"))

	// 静态资源
	if devMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
		return
	}

	sub, _ := fs.Sub(staticFiles, "dist")
	assetsSub, _ := fs.Sub(sub, "assets")
	s.router.StaticFS("/assets", http.FS(assetsSub))

	index := func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
	s.router.GET("/", index)
	s.router.NoRoute(index)
}

// Start 在后台监听 addr；监听失败立即返回错误
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.addr = ln.Addr()
	s.http = &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	s.done = make(chan struct{})
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("服务异常退出", zap.Error(err))
		}
	}()
	go s.purgeLoop(purgeInterval)
	return nil
}

func (s *Server) purgeLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if n := s.api.PurgeExpired(); n > 0 {
				s.logger.Info("已清理过期下载", zap.Int("count", n))
			}
		}
	}
}

// Addr 实际监听地址；未启动时为空
func (s *Server) Addr() string {
	if s.addr == nil {
		return ""
	}
	return s.addr.String()
}

// Shutdown 优雅关闭，并丢弃尚未下载的导出文件
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.api.Close()
	if s.http == nil {
		return nil
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	return s.http.Shutdown(ctx)
}
