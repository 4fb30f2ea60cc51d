package httpt

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/config"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/entity"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/logger"

	"github.com/gin-gonic/gin"
)

type panelData struct {
	AppName           string
	Version           string
	Env               string
	Topic             string
	PickupWarehouseID string
	SourceWarehouseID string
	GracePeriod       time.Duration
	CallTimeout       time.Duration
	Concurrency       int
	LookupPrefix      string
	StripPrefix       bool
	SignatureEnabled  bool
	ReprocessEnabled  bool
	TagKeywords       []string
	ShippingKeywords  []string
	PickupLocation    string
}

func newPanelData(cfg *config.Config) panelData {
	return panelData{
		AppName:           cfg.App.Name,
		Version:           cfg.App.Version,
		Env:               cfg.Env,
		Topic:             cfg.Webhook.Topic,
		PickupWarehouseID: cfg.Fulfillment.PickupWarehouseID,
		SourceWarehouseID: cfg.Fulfillment.SourceWarehouseID,
		GracePeriod:       cfg.Reassignment.GracePeriod,
		CallTimeout:       cfg.Fulfillment.CallTimeout,
		Concurrency:       cfg.Reassignment.Concurrency,
		LookupPrefix:      cfg.Reassignment.LookupPrefix,
		StripPrefix:       cfg.Reassignment.StripPrefix,
		SignatureEnabled:  cfg.Webhook.Secret != "",
		ReprocessEnabled:  cfg.Admin.Token != "",
		TagKeywords:       cfg.Classifier.TagKeywords,
		ShippingKeywords:  cfg.Classifier.ShippingKeywords,
		PickupLocation:    cfg.Classifier.PickupLocationName,
	}
}

func (h *WebhookHandler) panelHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.panel)
}

// orderCreateHandler answers 200 for every business outcome, including
// internal failures, so the upstream platform does not start redelivering.
func (h *WebhookHandler) orderCreateHandler(c *gin.Context) {
	const op = "transport.orderCreateHandler"

	ctx := c.Request.Context()
	log := h.log.Ctx(ctx)

	if topic := c.GetHeader(headerTopic); topic != h.topic {
		log.LogAttrs(ctx, logger.InfoLevel, "ignoring webhook with unexpected topic",
			logger.String("topic", topic),
			logger.String("expected_topic", h.topic),
		)
		c.JSON(http.StatusOK, newOutcomeResponse(entity.OutcomeIgnoredWrongTopic, ""))
		return
	}

	var order entity.Order
	if err := json.NewDecoder(c.Request.Body).Decode(&order); err != nil {
		log.LogAttrs(ctx, logger.InfoLevel, "webhook body is not a valid order",
			logger.String("op", op),
			logger.Err(err),
		)
		c.JSON(http.StatusOK, newOutcomeResponse(entity.OutcomeInvalidPayload, ""))
		return
	}

	procCtx, cancel := h.processingContext(ctx)
	defer cancel()

	result, err := h.svc.Process(procCtx, &order)
	if err != nil {
		h.handleProcessError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, newResultResponse(result))
}

func (h *WebhookHandler) reprocessHandler(c *gin.Context) {
	const op = "transport.reprocessHandler"

	ctx := c.Request.Context()
	log := h.log.Ctx(ctx)

	var order entity.Order
	if err := json.NewDecoder(c.Request.Body).Decode(&order); err != nil {
		log.LogAttrs(ctx, logger.WarnLevel, "invalid reprocess request body",
			logger.String("op", op),
			logger.Err(err),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body must be an order JSON object"})
		return
	}

	log.LogAttrs(ctx, logger.InfoLevel, "manual reprocess requested",
		logger.String("order_id", string(order.ID)),
		logger.String("order_name", order.Name),
	)

	procCtx, cancel := h.processingContext(ctx)
	defer cancel()

	result, err := h.svc.Reprocess(procCtx, &order)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, newResultResponse(result))
}
