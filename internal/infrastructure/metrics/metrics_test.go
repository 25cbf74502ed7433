package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_CountsCacheAndHTTP(t *testing.T) {
	c := NewCollector()

	c.CacheHit()
	c.CacheHit()
	c.CacheMiss()
	c.ObserveHTTP(http.MethodGet, "/api/v1/products/{id}", http.StatusOK, 15*time.Millisecond)
	c.SetProbe("cache", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheMisses))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.CacheErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/api/v1/products/{id}", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.ProbeUp.WithLabelValues("cache")))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a := NewCollector()
	b := NewCollector()

	a.CacheMiss()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.CacheMisses))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CacheMisses))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.CacheHit()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "catalog_product_cache_hits_total 1")
}

func TestCollector_ReportHealth(t *testing.T) {
	c := NewCollector()

	c.ReportHealth([]usecase.ProbeReport{
		{Component: "store", Status: usecase.ProbeUp},
		{Component: "cache", Status: usecase.ProbeDown},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ProbeUp.WithLabelValues("store")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.ProbeUp.WithLabelValues("cache")))
}
