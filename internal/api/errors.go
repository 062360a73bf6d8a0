package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"enrichment/internal/model"
	"enrichment/internal/service/workflow"
)

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error   string         `json:"error"`
	Kind    string         `json:"kind"`
	Session *workflow.View `json:"session,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrActionUnavailable):
		return http.StatusConflict
	case errors.Is(err, model.ErrHistoryIndex):
		return http.StatusNotFound
	case errors.Is(err, model.ErrParse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	view := h.controller.View()
	c.JSON(statusFor(err), ErrorResponse{
		Error:   err.Error(),
		Kind:    model.ErrorKind(err),
		Session: &view,
	})
}
