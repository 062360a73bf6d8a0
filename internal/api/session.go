package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enrichment/internal/service/workflow"
)

// PasteRequest 粘贴请求
type PasteRequest struct {
	Text string `json:"text"`
}

// GetSession 获取会话状态
// GET /api/session
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.View())
}

// PastePrimary Step 1：粘贴 SKU 数据
// POST /api/session/primary
func (h *Handler) PastePrimary(c *gin.Context) {
	h.paste(c, h.controller.PastePrimary)
}

// PasteSecondary Step 2：粘贴 SEQ / NAME 数据
// POST /api/session/secondary
func (h *Handler) PasteSecondary(c *gin.Context) {
	h.paste(c, h.controller.PasteSecondary)
}

func (h *Handler) paste(c *gin.Context, fn func(string) (workflow.View, error)) {
	var req PasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Kind: "bad_request"})
		return
	}
	view, err := fn(req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddAnother 添加下一个 SKU
// POST /api/session/add-another
func (h *Handler) AddAnother(c *gin.Context) {
	view, err := h.controller.AddAnother()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Skip 跳过 Step 2
// POST /api/session/skip
func (h *Handler) Skip(c *gin.Context) {
	view, err := h.controller.Skip()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GoBack 撤销最近一次粘贴
// POST /api/session/back
func (h *Handler) GoBack(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.GoBack())
}

// Clear 清空会话
// POST /api/session/clear
func (h *Handler) Clear(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Clear())
}
