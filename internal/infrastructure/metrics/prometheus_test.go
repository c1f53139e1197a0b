package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_Contadores(t *testing.T) {
	p := New("ledger")

	p.MovementRecorded("OUT", "OUT")
	p.MovementRecorded("OUT", "OUT")
	p.MovementRecorded("IN", "IN")
	p.MovementRejected("insufficient_stock")
	p.AlertPublished("LOW_STOCK", "HIGH")
	p.PurchaseListGenerated("MANUAL")
	p.SuggestionsGenerated(3)
	p.ObserveRequest("GET", "/api/items/:id", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.movements.WithLabelValues("OUT", "OUT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.movements.WithLabelValues("IN", "IN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.rejections.WithLabelValues("insufficient_stock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.alerts.WithLabelValues("LOW_STOCK", "HIGH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.purchaseLists.WithLabelValues("MANUAL")))
	assert.Equal(t, 1, testutil.CollectAndCount(p.suggestions))
	assert.Equal(t, 1, testutil.CollectAndCount(p.requestDurations))
}

func TestPrometheus_Handler(t *testing.T) {
	p := New("ledger")
	p.MovementRecorded("WASTE", "OUT")

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ledger_movements_recorded_total{direction="OUT",type="WASTE"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
