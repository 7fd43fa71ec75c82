package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceExposesCollectors(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/teachers", http.StatusOK, 15*time.Millisecond)
	metrics.ObserveDBQuery("teachers.list", 2*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requestTotal.WithLabelValues("GET", "/api/teachers", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.dbQueryDuration))

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "school_api_http_requests_total")
	assert.Contains(t, rec.Body.String(), `school_api_db_query_duration_seconds_count{query="teachers.list"} 1`)
}

func TestMetricsServiceCacheLookupsByResource(t *testing.T) {
	metrics := NewMetricsService()
	metrics.RecordCacheLookup("school:teachers:list", true, time.Millisecond)
	metrics.RecordCacheLookup("school:teachers:7", false, time.Millisecond)
	metrics.RecordCacheLookup("bare", false, time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheLookups.WithLabelValues("teachers", "hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheLookups.WithLabelValues("teachers", "miss")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheLookups.WithLabelValues("unknown", "miss")))
	assert.InDelta(t, 1.0/3.0, testutil.ToFloat64(metrics.cacheHitRatio), 1e-9)
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	metrics.RecordCacheLookup("school:x:1", true, time.Millisecond)
	metrics.ObserveDBQuery("x", time.Millisecond)
	metrics.RecordMutation("teachers", "create", outcomeOK)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMutationsCountedByOutcome(t *testing.T) {
	metrics := NewMetricsService()
	repo := newFakeEnrollmentRepo()
	svc := NewEnrollmentService(repo, Dependencies{Metrics: metrics})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateEnrollmentRequest{StudentID: 1, CourseID: 2})
	require.NoError(t, err)

	repo.createErr = &pq.Error{Code: "23503"}
	_, err = svc.Create(ctx, CreateEnrollmentRequest{StudentID: 1, CourseID: 99})
	require.Error(t, err)

	repo.createErr = errors.New("connection reset")
	_, err = svc.Create(ctx, CreateEnrollmentRequest{StudentID: 1, CourseID: 2})
	require.Error(t, err)

	require.Error(t, svc.Delete(ctx, 404))

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.mutations.WithLabelValues("enrollments", "create", outcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.mutations.WithLabelValues("enrollments", "create", outcomeRejected)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.mutations.WithLabelValues("enrollments", "create", outcomeFailed)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.mutations.WithLabelValues("enrollments", "delete", outcomeRejected)))
}

func TestMetricsServiceExposesCacheLatency(t *testing.T) {
	metrics := NewMetricsService()
	metrics.RecordCacheLookup("school:students:list", false, time.Millisecond)
	metrics.RecordCacheLookup("school:students:3", true, time.Millisecond)
	metrics.ObserveCacheWrite(time.Millisecond)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "school_api_cache_lookup_seconds_count 2")
	assert.Contains(t, rec.Body.String(), "school_api_cache_write_seconds_count 1")
}
