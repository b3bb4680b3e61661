package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCache(t *testing.T) {
	before := testutil.ToFloat64(cacheLookupsTotal.WithLabelValues(LayerMemo, "hit"))
	RecordCache(LayerMemo, true)
	RecordCache(LayerShared, false)

	assert.Equal(t, before+1, testutil.ToFloat64(cacheLookupsTotal.WithLabelValues(LayerMemo, "hit")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(cacheLookupsTotal.WithLabelValues(LayerShared, "miss")), 1.0)
}

func TestHandler_ExposesListingMetrics(t *testing.T) {
	ObserveQuery(10*time.Millisecond, nil)
	ObserveQuery(time.Millisecond, errors.New("boom"))
	RecordInvalidation(3)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "listing_query_duration_seconds")
	assert.Contains(t, rr.Body.String(), "listing_cache_invalidated_keys_total")
}
