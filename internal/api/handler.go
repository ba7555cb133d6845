package api

import (
	"github.com/gin-gonic/gin"

	"quotafinder/internal/config"
	"quotafinder/internal/store"
)

// Handler API 处理器
// store 可为 nil（关闭运行历史时）
type Handler struct {
	cfg       *config.AppConfig
	store     *store.Store
	downloads *downloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(cfg *config.AppConfig, st *store.Store) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     st,
		downloads: newDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	// 文件格式说明
	router.GET("/instructions", h.GetInstructions)

	// 对账
	router.POST("/reconcile", h.Reconcile)

	// 运行历史
	router.GET("/runs", h.ListRuns)

	// 结果下载
	router.GET("/download/:token", h.Download)
}
