package metric_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/metric"

	"github.com/stretchr/testify/require"
)

func TestStatusClass(t *testing.T) {
	require.Equal(t, "2xx", metric.StatusClass(http.StatusOK))
	require.Equal(t, "4xx", metric.StatusClass(http.StatusUnauthorized))
	require.Equal(t, "5xx", metric.StatusClass(http.StatusBadGateway))
	require.Equal(t, "unknown", metric.StatusClass(0))
}

func TestFactory_HandlerExposesDomainMetrics(t *testing.T) {
	f := metric.NewFactory()

	f.HTTP().Request(http.MethodPost, "/webhooks/orders/create", http.StatusOK, time.Second)
	f.Reassignment().Outcome("success")
	f.Reassignment().Shipment("reassigned")
	f.Reassignment().GraceWait(10 * time.Second)
	f.Downstream().ObserveCall("find_order", 150*time.Millisecond)
	f.Downstream().CallFailed("reassign_shipment", "transport")
	f.Downstream().Retry("reassign_shipment")
	f.Publisher().EventPublished("outcomes")

	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	for _, name := range []string{
		"http_requests_total",
		"reassign_webhook_outcomes_total",
		"reassign_shipments_total",
		"reassign_grace_wait_seconds",
		"fulfillment_call_duration_seconds",
		"fulfillment_call_failures_total",
		"fulfillment_call_retries_total",
		"outcome_events_published_total",
	} {
		require.Contains(t, string(body), name)
	}
}
