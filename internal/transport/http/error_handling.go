package httpt

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/entity"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/logger"

	"github.com/gin-gonic/gin"
)

// handleProcessError reports a webhook processing failure in the body while
// keeping the status at 200.
func (h *WebhookHandler) handleProcessError(c *gin.Context, err error, op string) {
	h.log.Ctx(c.Request.Context()).LogAttrs(c.Request.Context(), logger.ErrorLevel, op+" failed",
		logger.Err(err),
		logger.String("path", c.Request.URL.Path),
		logger.String("shop_domain", c.GetHeader(headerShopDomain)),
	)

	c.JSON(http.StatusOK, newErrorResponse(err))
}

// handleServiceError maps failures on the operator API to real status codes.
func (h *WebhookHandler) handleServiceError(c *gin.Context, err error, op string) {
	log := h.log.Ctx(c.Request.Context())

	log.LogAttrs(c.Request.Context(), logger.ErrorLevel, op+" failed",
		logger.Err(err),
		logger.String("remote_addr", c.ClientIP()),
		logger.String("user_agent", c.Request.UserAgent()),
	)

	resp := newErrorResponse(err)
	switch {
	case errors.Is(err, entity.ErrInvalidData):
		c.JSON(http.StatusBadRequest, resp)
	case errors.Is(err, entity.ErrTransport), errors.Is(err, entity.ErrBackendRejected):
		c.JSON(http.StatusBadGateway, resp)
	default:
		c.JSON(http.StatusInternalServerError, resp)
	}
}

func (h *WebhookHandler) recoveryHandler(c *gin.Context, recovered any) {
	h.log.Ctx(c.Request.Context()).LogAttrs(c.Request.Context(), logger.ErrorLevel, "panic recovered",
		logger.String("panic", fmt.Sprint(recovered)),
		logger.String("path", c.Request.URL.Path),
	)

	status := http.StatusOK
	if c.FullPath() != "/webhooks/orders/create" {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, newErrorResponse(errors.New("internal error")))
}
