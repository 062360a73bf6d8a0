package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"enrichment/internal/model"
	"enrichment/internal/service/workflow"
)

const downloadTTL = 10 * time.Minute

// CompleteResponse 生成完成响应
type CompleteResponse struct {
	Filename    string        `json:"filename"`
	DownloadURL string        `json:"downloadUrl"`
	DataRows    int           `json:"dataRows"`
	Groups      []string      `json:"groups"`
	Warnings    []string      `json:"warnings,omitempty"`
	Session     workflow.View `json:"session"`
}

// Complete 生成 Excel 并返回一次性下载地址（浏览器保存对话框即目标选择）。
// 会话、历史和导出日志在下载完成后才更新。
// POST /api/session/complete
func (h *Handler) Complete(c *gin.Context) {
	var tempPath string
	save := func(f *excelize.File) (string, error) {
		if err := os.MkdirAll(h.exportDir, 0755); err != nil {
			return "", fmt.Errorf("%w: %v", model.ErrFileWrite, err)
		}
		tempPath = filepath.Join(h.exportDir, fmt.Sprintf("enrichment_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
		if err := f.SaveAs(tempPath); err != nil {
			_ = os.Remove(tempPath)
			return tempPath, fmt.Errorf("%w: %v", model.ErrFileWrite, err)
		}
		return h.filename, nil
	}

	staged, err := h.controller.Stage(save)
	if err != nil {
		h.fail(c, err)
		return
	}
	token := h.downloads.put(download{
		exportID: staged.ID,
		filePath: tempPath,
		filename: h.filename,
	}, h.ttl)

	res := staged.Result
	c.JSON(http.StatusOK, CompleteResponse{
		Filename:    res.Destination,
		DownloadURL: "/api/export/download/" + token,
		DataRows:    res.DataRows,
		Groups:      res.Groups,
		Warnings:    res.Warnings,
		Session:     res.View,
	})
}

// Download 下载生成的 Excel（一次性），传输完成后提交本次导出
// GET /api/export/download/:token
func (h *Handler) Download(c *gin.Context) {
	item, ok := h.downloads.take(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "download link expired", Kind: "not_found"})
		return
	}
	defer func() {
		if err := os.Remove(item.filePath); err != nil {
			h.logger.Warn("删除临时导出文件失败", zap.String("path", item.filePath), zap.Error(err))
		}
	}()

	if _, err := os.Stat(item.filePath); err != nil {
		h.controller.Discard(item.exportID, fmt.Errorf("%w: %v", model.ErrFileWrite, err))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "export file missing", Kind: "not_found"})
		return
	}

	c.Header("Content-Disposition", buildContentDisposition(item.filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.filePath)

	if status := c.Writer.Status(); status != http.StatusOK {
		h.controller.Discard(item.exportID, fmt.Errorf("%w: download returned status %d", model.ErrFileWrite, status))
		return
	}
	if _, err := h.controller.Commit(item.exportID); err != nil {
		h.logger.Warn("提交导出失败", zap.String("id", item.exportID), zap.Error(err))
	}
}

// ListExports 导出日志
// GET /api/exports
func (h *Handler) ListExports(c *gin.Context) {
	if h.exports == nil {
		c.JSON(http.StatusOK, gin.H{"items": []any{}})
		return
	}
	logs, err := h.exports.ListExportLogs(50)
	if err != nil {
		h.logger.Error("查询导出日志失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list exports", Kind: "internal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}

func buildContentDisposition(filename string) string {
	ascii := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, filename)
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", ascii, url.PathEscape(filename))
}
