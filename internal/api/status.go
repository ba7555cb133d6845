package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version 应用版本
const Version = "1.0.0"

// GetStatus 系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	historyEnabled := h.store != nil && h.cfg.Data.KeepHistory

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"version":        Version,
		"historyEnabled": historyEnabled,
		"maxUploadMb":    h.cfg.Reconcile.MaxUploadMB,
	})
}

// ListRuns 运行历史
// GET /api/runs
func (h *Handler) ListRuns(c *gin.Context) {
	if h.store == nil || !h.cfg.Data.KeepHistory {
		c.JSON(http.StatusOK, gin.H{"runs": []any{}, "historyEnabled": false})
		return
	}

	runs, err := h.store.ListRuns(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取运行历史失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs, "historyEnabled": true})
}
