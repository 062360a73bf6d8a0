package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"enrichment/internal/service/workflow"
	"enrichment/internal/store"
)

// Handler API 处理器
type Handler struct {
	controller *workflow.Controller
	exports    *store.Store
	exportDir  string
	filename   string
	downloads  *downloadStore
	ttl        time.Duration
	logger     *zap.Logger
}

// NewHandler 创建 API 处理器；exports 可为 nil
func NewHandler(controller *workflow.Controller, exports *store.Store, exportDir, filename string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if filename == "" {
		filename = "enrichment.xlsx"
	}
	h := &Handler{
		controller: controller,
		exports:    exports,
		exportDir:  exportDir,
		filename:   filename,
		ttl:        downloadTTL,
		logger:     logger,
	}
	h.downloads = newDownloadStore(func(d download, reason error) {
		h.logger.Info("导出未下载，已丢弃", zap.String("path", d.filePath), zap.Error(reason))
		h.controller.Discard(d.exportID, reason)
	})
	return h
}

// PurgeExpired 清理过期下载，返回清理数量
func (h *Handler) PurgeExpired() int {
	return h.downloads.purgeExpired()
}

// Close 丢弃所有未下载的导出文件
func (h *Handler) Close() {
	h.downloads.close()
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 会话
	router.GET("/session", h.GetSession)
	router.POST("/session/primary", h.PastePrimary)
	router.POST("/session/secondary", h.PasteSecondary)
	router.POST("/session/add-another", h.AddAnother)
	router.POST("/session/skip", h.Skip)
	router.POST("/session/back", h.GoBack)
	router.POST("/session/clear", h.Clear)
	router.POST("/session/complete", h.Complete)

	// 下载
	router.GET("/export/download/:token", h.Download)

	// 历史
	router.GET("/history", h.ListHistory)
	router.POST("/history/:index/recall", h.Recall)

	// 导出日志
	router.GET("/exports", h.ListExports)
}
