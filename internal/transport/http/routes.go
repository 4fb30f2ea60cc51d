package httpt

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *WebhookHandler) setupRoutes() {
	h.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h.router.GET("/", h.panelHandler)

	webhooks := h.router.Group("/webhooks")
	webhooks.Use(h.bodyLimitMiddleware(), h.signatureMiddleware())
	{
		webhooks.POST("/orders/create", h.orderCreateHandler)
	}

	if h.adminToken == "" {
		return
	}

	api := h.router.Group("/api/v1")
	api.Use(h.adminAuthMiddleware(), h.bodyLimitMiddleware())
	{
		api.POST("/orders/reprocess", h.reprocessHandler)
	}
}
