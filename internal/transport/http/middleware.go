package httpt

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/entity"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	headerRequestID   = "X-Request-ID"
	headerWebhookID   = "X-Shopify-Webhook-Id"
	headerTopic       = "X-Shopify-Topic"
	headerHMAC        = "X-Shopify-Hmac-Sha256"
	headerShopDomain  = "X-Shopify-Shop-Domain"
	headerAuthPrefix  = "Bearer "
	_maxRequestIDSize = 128

	_rawBodyKey = "raw_body"
)

func (h *WebhookHandler) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := incomingRequestID(c)
		if requestID == "" {
			requestID = h.log.GenerateRequestID()
		}
		ctx := h.log.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(headerRequestID, requestID)

		c.Next()
	}
}

// incomingRequestID prefers an explicit request id, then the upstream
// delivery id, so retried deliveries can be correlated in logs.
func incomingRequestID(c *gin.Context) string {
	for _, header := range []string{headerRequestID, headerWebhookID} {
		if v := strings.TrimSpace(c.GetHeader(header)); v != "" && len(v) <= _maxRequestIDSize {
			return v
		}
	}
	return ""
}

func (h *WebhookHandler) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		h.log.LogAttrs(c.Request.Context(), logger.InfoLevel, "HTTP request",
			logger.String("method", method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", statusCode),
			logger.String("duration", latency.String()),
			logger.String("client_ip", c.ClientIP()),
			logger.String("user_agent", c.Request.UserAgent()),
		)

		h.metrics.Request(method, path, statusCode, latency)

		if latency > h.slowThreshold {
			h.metrics.SlowRequest(method, path, statusCode, latency)
		}
	}
}

// bodyLimitMiddleware reads the whole body once, keeps the raw bytes for
// signature checks and hands a fresh reader to the next handler.
func (h *WebhookHandler) bodyLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
		if err != nil {
			log := h.log.Ctx(c.Request.Context())

			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				log.LogAttrs(c.Request.Context(), logger.WarnLevel, "request body too large",
					logger.Int64("limit", tooLarge.Limit),
				)
			} else {
				log.LogAttrs(c.Request.Context(), logger.WarnLevel, "failed to read request body",
					logger.Err(err),
				)
			}

			c.AbortWithStatusJSON(http.StatusOK, newOutcomeResponse(entity.OutcomeInvalidPayload, "request body could not be read"))
			return
		}

		c.Set(_rawBodyKey, body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}

// signatureMiddleware checks the base64 HMAC-SHA256 of the raw body. With no
// secret configured every request passes.
func (h *WebhookHandler) signatureMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(h.secret) == 0 {
			c.Next()
			return
		}

		raw, _ := c.Get(_rawBodyKey)
		body, _ := raw.([]byte)
		if !ValidSignature(body, c.GetHeader(headerHMAC), h.secret) {
			h.log.Ctx(c.Request.Context()).LogAttrs(c.Request.Context(), logger.WarnLevel, "webhook signature mismatch",
				logger.String("shop_domain", c.GetHeader(headerShopDomain)),
				logger.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: entity.ErrInvalidSignature.Error()})
			return
		}

		c.Next()
	}
}

func (h *WebhookHandler) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), headerAuthPrefix)
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
			h.log.Ctx(c.Request.Context()).LogAttrs(c.Request.Context(), logger.WarnLevel, "admin request rejected",
				logger.String("path", c.Request.URL.Path),
				logger.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: entity.ErrUnauthorized.Error()})
			return
		}

		c.Next()
	}
}

// Sign returns the base64 HMAC-SHA256 of body under secret, in the form the
// upstream platform puts in the signature header.
func Sign(body, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func ValidSignature(body []byte, signature string, secret []byte) bool {
	got, err := base64.StdEncoding.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(got) == 0 {
		return false
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
