package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Veraticus/finsense/internal/common"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersMetrics(t *testing.T) {
	m := New()
	m.ObserveCounts(model.StatusCounts{})

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	// A second instance has its own registry and does not panic.
	assert.NotPanics(t, func() { New() })
}

func TestObserveDecision(t *testing.T) {
	m := New()

	m.ObserveDecision(model.ActionApprove, nil)
	m.ObserveDecision(model.ActionApprove, nil)
	m.ObserveDecision(model.ActionApprove, &common.TransitionError{Op: "approve", ID: "1", From: "manual"})
	m.ObserveDecision(model.ActionRecategorize, fmt.Errorf("%w: Yachts", common.ErrInvalidCategory))
	m.ObserveDecision(model.ActionReset, fmt.Errorf("boom"))

	assert.InDelta(t, 2, testutil.ToFloat64(m.Decisions.WithLabelValues("approve")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.DecisionErrors.WithLabelValues("approve", "invalid_transition")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.DecisionErrors.WithLabelValues("recategorize", "invalid_category")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.DecisionErrors.WithLabelValues("reset", "other")), 0)
}

func TestObserveCounts(t *testing.T) {
	m := New()
	m.ObserveCounts(model.StatusCounts{AutoApproved: 3, NeedsReview: 4, Manual: 1})

	assert.InDelta(t, 3, testutil.ToFloat64(m.Transactions.WithLabelValues("auto-approved")), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(m.Transactions.WithLabelValues("needs-review")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Transactions.WithLabelValues("manual")), 0)
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/transactions/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.InDelta(t, 3, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/transactions/{id}", "404")), 0)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "finsense_http_requests_total")
}
