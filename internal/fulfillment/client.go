// Package fulfillment talks to the downstream fulfillment system's GraphQL API.
package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/config"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/entity"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/logger"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/metric"
)

const (
	OperationFindOrder        = "find_order"
	OperationReassignShipment = "reassign_shipment"

	_maxResponseBytes = 4 << 20
)

type Client struct {
	endpoint    string
	token       string
	callTimeout time.Duration
	httpClient  *http.Client
	log         logger.Logger
	metrics     metric.Downstream
}

func NewClient(
	cfg *config.Fulfillment,
	log logger.Logger,
	metrics metric.Downstream,
	opts ...Option,
) (*Client, error) {
	c := &Client{
		endpoint:    cfg.URL,
		token:       cfg.Token,
		callTimeout: cfg.CallTimeout,
		httpClient:  &http.Client{},
		log:         log,
		metrics:     metrics,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("fulfillment.NewClient: validation: %w", err)
	}
	return c, nil
}

// FindOrderWithShipments returns entity.ErrOrderNotFound when the order has
// not been synced yet.
func (c *Client) FindOrderWithShipments(
	ctx context.Context,
	lookupKey string,
) (*entity.DownstreamOrder, error) {
	const op = "fulfillment.FindOrderWithShipments"

	var data findOrderData
	err := c.do(ctx, OperationFindOrder, graphQLRequest{
		Query:         findOrderWithShipmentsQuery,
		OperationName: "FindOrderWithShipments",
		Variables:     map[string]any{"orderNumber": lookupKey},
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if data.Orders == nil || data.Orders.Data == nil || len(data.Orders.Data.Edges) == 0 ||
		data.Orders.Data.Edges[0].Node == nil {
		return nil, fmt.Errorf("%s: lookup key %q: %w", op, lookupKey, entity.ErrOrderNotFound)
	}

	node := data.Orders.Data.Edges[0].Node
	order := &entity.DownstreamOrder{
		ID:          node.ID,
		OrderNumber: node.OrderNumber,
		Shipments:   make([]entity.Shipment, 0, len(node.Shipments)),
	}
	for _, s := range node.Shipments {
		order.Shipments = append(order.Shipments, entity.Shipment{
			ID:          s.ID,
			WarehouseID: deref(s.WarehouseID),
		})
	}
	return order, nil
}

// ReassignShipment moves one shipment to warehouseID and returns the id of
// the updated shipment.
func (c *Client) ReassignShipment(
	ctx context.Context,
	orderID, shipmentID, warehouseID string,
) (string, error) {
	const op = "fulfillment.ReassignShipment"

	var data reassignShipmentData
	err := c.do(ctx, OperationReassignShipment, graphQLRequest{
		Query:         reassignShipmentMutation,
		OperationName: "ReassignShipment",
		Variables: map[string]any{
			"orderId":     orderID,
			"shipmentId":  shipmentID,
			"warehouseId": warehouseID,
		},
	}, &data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if data.Payload == nil || data.Payload.Shipment == nil {
		c.metrics.CallFailed(OperationReassignShipment, ReasonRejected)
		return "", fmt.Errorf("%s: shipment %s: empty mutation payload: %w",
			op, shipmentID, entity.ErrBackendRejected)
	}
	return data.Payload.Shipment.ID, nil
}

func (c *Client) do(ctx context.Context, operation string, gqlReq graphQLRequest, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	start := time.Now()
	err := c.roundTrip(ctx, gqlReq, out)
	c.metrics.ObserveCall(operation, time.Since(start))

	if err != nil {
		c.metrics.CallFailed(operation, Reason(err))
		c.log.LogAttrs(ctx, logger.DebugLevel, "fulfillment call failed",
			logger.String("operation", operation),
			logger.String("reason", Reason(err)),
			logger.Err(err),
		)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, gqlReq graphQLRequest, out any) error {
	body, err := json.Marshal(gqlReq)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if requestID := logger.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", entity.ErrTransport, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, _maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", entity.ErrTransport, err)
	}

	if err = statusError(resp.StatusCode, payload); err != nil {
		return err
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err = json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("%w: decode response: %w", entity.ErrTransport, err)
	}

	if len(envelope.Errors) > 0 {
		return fmt.Errorf("%w: %s", entity.ErrBackendRejected, joinMessages(envelope.Errors))
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err = json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %w", entity.ErrTransport, err)
	}
	return nil
}

func statusError(status int, payload []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %w: status %d", entity.ErrBackendRejected, entity.ErrUnauthorized, status)
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: status %d: %s", entity.ErrTransport, status, snippet(payload))
	default:
		return fmt.Errorf("%w: status %d: %s", entity.ErrBackendRejected, status, snippet(payload))
	}
}

const (
	ReasonNotFound  = "not_found"
	ReasonTransport = "transport"
	ReasonRejected  = "rejected"
	ReasonUnknown   = "unknown"
)

// Reason maps an error from this package to a short label for logs and metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, entity.ErrOrderNotFound):
		return ReasonNotFound
	case errors.Is(err, entity.ErrTransport), errors.Is(err, context.DeadlineExceeded):
		return ReasonTransport
	case errors.Is(err, entity.ErrBackendRejected):
		return ReasonRejected
	default:
		return ReasonUnknown
	}
}

// IsRetryable reports whether repeating the call may succeed.
func IsRetryable(err error) bool {
	return Reason(err) == ReasonTransport
}

func joinMessages(errs []graphQLError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func snippet(payload []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(payload))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
