package httpt_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/classifier"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/config"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/fulfillment"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/service"
	httpt "github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/transport/http"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/logger"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/metric"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShipment struct {
	ID          string `json:"id"`
	WarehouseID string `json:"warehouse_id"`
}

// fakeFulfillment is a minimal GraphQL backend keyed by order number.
type fakeFulfillment struct {
	mu        sync.Mutex
	orders    map[string][]fakeShipment
	lookups   int
	mutations []map[string]any

	// hang, when set, holds every ReassignShipment call until it is closed
	// or the caller gives up.
	hang chan struct{}
}

func (f *fakeFulfillment) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OperationName string         `json:"operationName"`
		Variables     map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if req.OperationName == "ReassignShipment" && f.hang != nil {
		select {
		case <-f.hang:
		case <-r.Context().Done():
		}
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch req.OperationName {
	case "FindOrderWithShipments":
		f.lookups++
		number, _ := req.Variables["orderNumber"].(string)
		edges := []any{}
		if shipments, ok := f.orders[number]; ok {
			edges = append(edges, map[string]any{"node": map[string]any{
				"id":           "gid-" + number,
				"order_number": number,
				"shipments":    shipments,
			}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"orders": map[string]any{"data": map[string]any{"edges": edges}}},
		})
	case "ReassignShipment":
		f.mutations = append(f.mutations, req.Variables)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"shipment_update_warehouse": map[string]any{
				"shipment": map[string]any{
					"id":           req.Variables["shipmentId"],
					"warehouse_id": req.Variables["warehouseId"],
				},
			}},
		})
	default:
		_ = json.NewEncoder(w).Encode(map[string]any{"errors": []any{map[string]any{"message": "unknown operation"}}})
	}
}

func (f *fakeFulfillment) calls() (int, []map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups, append([]map[string]any(nil), f.mutations...)
}

func newEndToEnd(t *testing.T, orders map[string][]fakeShipment) (*gin.Engine, *fakeFulfillment) {
	t.Helper()

	backend := &fakeFulfillment{orders: orders}
	return newEndToEndWith(t, testConfig(), backend), backend
}

func newEndToEndWith(t *testing.T, cfg *config.Config, backend *fakeFulfillment) *gin.Engine {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	if backend.hang != nil {
		t.Cleanup(func() { close(backend.hang) })
	}

	cfg.Fulfillment.URL = srv.URL
	factory := metric.NewFactory()
	log := logger.NewNop()

	client, err := fulfillment.NewClient(&cfg.Fulfillment, log, factory.Downstream())
	require.NoError(t, err)

	svc, err := service.NewReassignmentService(
		client,
		classifier.New(classifier.Rules{
			TagKeywords:      cfg.Classifier.TagKeywords,
			ShippingKeywords: cfg.Classifier.ShippingKeywords,
		}),
		nil,
		service.SettingsFromConfig(cfg),
		log,
		factory.Reassignment(),
		factory.Downstream(),
	)
	require.NoError(t, err)

	return newTestHandler(t, cfg, svc)
}

func TestEndToEnd_PickupTagBothShipmentsReassigned(t *testing.T) {
	router, backend := newEndToEnd(t, map[string][]fakeShipment{
		"1001": {{ID: "s1", WarehouseID: "wh-main"}, {ID: "s2", WarehouseID: "wh-main"}},
	})

	rec := postWebhook(router, orderCreated,
		`{"id": 1, "name": "#1001", "tags": ["pickup-order"], "shipping_lines": []}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Matched)
	assert.True(t, resp.Processed)
	assert.Equal(t, 2, resp.ShipmentsTotal)
	assert.Equal(t, 2, resp.ShipmentsReassigned)
	assert.Equal(t, 0, resp.SkippedAlreadyCorrect)

	_, mutations := backend.calls()
	require.Len(t, mutations, 2)
	for _, vars := range mutations {
		assert.Equal(t, "gid-1001", vars["orderId"])
		assert.Equal(t, "wh-pickup", vars["warehouseId"])
	}
}

func TestEndToEnd_StandardShippingNotPickup(t *testing.T) {
	router, backend := newEndToEnd(t, map[string][]fakeShipment{
		"1002": {{ID: "s1", WarehouseID: "wh-main"}},
	})

	rec := postWebhook(router, orderCreated,
		`{"id": 2, "name": "#1002", "tags": [], "shipping_lines": [{"code": "standard", "title": "Standard Shipping"}]}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "not_pickup", resp.Status)
	assert.False(t, resp.Matched)
	lookups, mutations := backend.calls()
	assert.Zero(t, lookups)
	assert.Empty(t, mutations)
}

func TestEndToEnd_OrderNotSynced(t *testing.T) {
	router, backend := newEndToEnd(t, map[string][]fakeShipment{})

	rec := postWebhook(router, orderCreated, `{"id": 3, "name": "#1003", "tags": "pickup"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "order_not_synced", resp.Status)
	assert.True(t, resp.Matched)
	assert.Equal(t, 0, resp.ShipmentsTotal)
	lookups, mutations := backend.calls()
	assert.Equal(t, 1, lookups)
	assert.Empty(t, mutations)
}

func TestEndToEnd_ShipmentAlreadyAtPickup(t *testing.T) {
	router, backend := newEndToEnd(t, map[string][]fakeShipment{
		"1004": {{ID: "s1", WarehouseID: "wh-pickup"}},
	})

	rec := postWebhook(router, orderCreated, `{"id": 4, "name": "#1004", "tags": "Pickup"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, 1, resp.ShipmentsTotal)
	assert.Equal(t, 0, resp.ShipmentsReassigned)
	assert.Equal(t, 1, resp.SkippedAlreadyCorrect)
	_, mutations := backend.calls()
	assert.Empty(t, mutations)
}

func TestEndToEnd_WrongTopicMakesNoDownstreamCalls(t *testing.T) {
	router, backend := newEndToEnd(t, map[string][]fakeShipment{
		"1005": {{ID: "s1", WarehouseID: "wh-main"}},
	})

	rec := postWebhook(router, "orders/paid", `{"id": 5, "name": "#1005", "tags": "pickup"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ignored_wrong_topic", decodeResponse(t, rec).Status)
	lookups, _ := backend.calls()
	assert.Zero(t, lookups)
}

func TestEndToEnd_HungBackendStillAnswersWithinWriteTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.WriteTimeout = time.Second
	cfg.Fulfillment.CallTimeout = 200 * time.Millisecond

	backend := &fakeFulfillment{
		orders: map[string][]fakeShipment{
			"1006": {
				{ID: "s1", WarehouseID: "wh-main"},
				{ID: "s2", WarehouseID: "wh-main"},
				{ID: "s3", WarehouseID: "wh-main"},
			},
		},
		hang: make(chan struct{}),
	}
	router := newEndToEndWith(t, cfg, backend)

	srv := httptest.NewUnstartedServer(router)
	srv.Config.WriteTimeout = cfg.HTTP.WriteTimeout
	srv.Start()
	t.Cleanup(srv.Close)

	req, err := http.NewRequest(http.MethodPost, srv.URL+webhookPath,
		strings.NewReader(`{"id": 6, "name": "#1006", "tags": "pickup"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Topic", orderCreated)

	start := time.Now()
	res, err := srv.Client().Do(req)
	require.NoError(t, err, "the webhook must get a response before the write deadline")
	defer res.Body.Close()

	assert.Less(t, time.Since(start), cfg.HTTP.WriteTimeout)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var resp httpt.ReassignmentResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	assert.Equal(t, "partial_failure", resp.Status)
	assert.True(t, resp.Matched)
	assert.Equal(t, 3, resp.ShipmentsTotal)
	assert.Equal(t, 0, resp.ShipmentsReassigned)
	assert.Equal(t, 3, resp.ShipmentsFailed)
}
