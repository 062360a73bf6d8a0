package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"enrichment/internal/model"
)

// ListHistory 历史列表（最近在前）
// GET /api/history
func (h *Handler) ListHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.controller.History()})
}

// Recall 回填历史
// POST /api/history/:index/recall
func (h *Handler) Recall(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.fail(c, model.ErrHistoryIndex)
		return
	}
	res, err := h.controller.Recall(index)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
