package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_LedgerCounters(t *testing.T) {
	m := New()

	m.AppendCommitted(coins.KindSpent)
	m.AppendCommitted(coins.KindSpent)
	m.AppendRejected(coins.ErrCodeInsufficientBalance)
	m.AppendRetried()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ledgerAppends.WithLabelValues("spent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerRejected.WithLabelValues(string(coins.ErrCodeInsufficientBalance))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerRetries))
}

func TestMetrics_Handler_ExposesRegisteredMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/api/coins/balance", http.StatusOK, 5*time.Millisecond)
	m.EventPublished(coins.EventTypeCoinsCredited)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "cartquest_http_requests_total"))
	assert.True(t, strings.Contains(body, `cartquest_domain_events_total{type="coins.credited"} 1`))
}

func TestMetrics_InstancesAreIndependent(t *testing.T) {
	a := New()
	b := New()

	a.AppendRetried()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.ledgerRetries))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ledgerRetries))
}
