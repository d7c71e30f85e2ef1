package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketsnap-inventory/internal/infrastructure/metrics"
)

func TestInventoryMetrics_CuentaPorAccionYResultado(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewInventoryMetrics(reg)
	require.NoError(t, err)

	m.ObserveMutation("SALE", "committed", 5*time.Millisecond)
	m.ObserveMutation("SALE", "committed", 3*time.Millisecond)
	m.ObserveMutation("SALE", "rejected", time.Millisecond)

	expected := `
# HELP inventory_stock_mutations_total Mutaciones de stock intentadas por acción y resultado
# TYPE inventory_stock_mutations_total counter
inventory_stock_mutations_total{action="SALE",outcome="committed"} 2
inventory_stock_mutations_total{action="SALE",outcome="rejected"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "inventory_stock_mutations_total"))
	n, err := testutil.GatherAndCount(reg, "inventory_stock_mutation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewInventoryMetrics_RegistroRepetidoReutiliza(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := metrics.NewInventoryMetrics(reg)
	require.NoError(t, err)
	second, err := metrics.NewInventoryMetrics(reg)
	require.NoError(t, err)

	first.ObserveMutation("ADD", "committed", time.Millisecond)
	second.ObserveMutation("ADD", "committed", time.Millisecond)

	expected := `
# HELP inventory_stock_mutations_total Mutaciones de stock intentadas por acción y resultado
# TYPE inventory_stock_mutations_total counter
inventory_stock_mutations_total{action="ADD",outcome="committed"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "inventory_stock_mutations_total"))
}

func TestHandler_ExponeMetricas(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewInventoryMetrics(reg)
	require.NoError(t, err)
	m.ObserveMutation("RESTOCK", "failed", time.Millisecond)

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `inventory_stock_mutations_total{action="RESTOCK",outcome="failed"} 1`)
}
