package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/horarios-api/internal/models"
)

type failingCacheRepo struct{}

func (failingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("redis unavailable")
}

func (failingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("redis unavailable")
}

func (failingCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("redis unavailable")
}

func TestCacheServiceBestEffort(t *testing.T) {
	metrics := NewMetricsService()
	cache := NewCacheService(failingCacheRepo{}, metrics, time.Minute, nil, true)
	ctx := context.Background()

	var dest []string
	assert.False(t, cache.Get(ctx, "k", &dest))
	cache.Set(ctx, "k", []string{"v"}, 0)
	cache.Invalidate(ctx, "k*")
	assert.Equal(t, uint64(1), metrics.Snapshot().CacheMisses)
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newCacheRepoStub()
	cache := NewCacheService(repo, nil, 0, nil, false)
	assert.False(t, cache.Enabled())
	cache.Set(context.Background(), "k", 1, 0)
	assert.Empty(t, repo.values)

	var nilCache *CacheService
	assert.False(t, nilCache.Get(context.Background(), "k", new(int)))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
	metrics.RecordSubmission(OutcomeSuccess)
	metrics.RecordAuthAttempt(models.AuthMethodToken, OutcomeFailure)
	assert.Equal(t, models.SystemMetrics{}, metrics.Snapshot())
}

func TestMetricsSnapshotAverages(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest("GET", "/preferences", 200, 10*time.Millisecond)
	metrics.ObserveHTTPRequest("POST", "/submit", 200, 30*time.Millisecond)
	metrics.ObserveDBQuery("replace_priorities", 4*time.Millisecond)
	metrics.RecordSubmission(OutcomeSuccess)
	metrics.RecordSubmission(OutcomeFailure)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(2), snapshot.RequestsTotal)
	assert.InDelta(t, 20.0, snapshot.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(1), snapshot.DBQueryCount)
	assert.InDelta(t, 4.0, snapshot.AverageDBQueryDurationMs, 0.001)
	assert.Equal(t, uint64(1), snapshot.Submissions)
	assert.Positive(t, snapshot.Goroutines)
}

func TestAuditServiceAsyncDelivery(t *testing.T) {
	repo := &auditRecorderStub{}
	audit := NewAuditService(repo, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	audit.Start(ctx)

	audit.Record(ctx, "1", models.AuditActionLogin, "session", "sid", map[string]string{"method": "token"}, RequestMeta{IP: "10.0.0.1", UserAgent: "test"})
	audit.Stop()

	require.Len(t, repo.logs, 1)
	entry := repo.logs[0]
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "1", *entry.UserID)
	assert.Equal(t, "10.0.0.1", entry.IPAddress)
	assert.JSONEq(t, `{"method":"token"}`, string(entry.NewValues))
}

func TestAuditServiceNil(t *testing.T) {
	var audit *AuditService
	audit.Record(context.Background(), "1", models.AuditActionLogin, "session", "", nil, RequestMeta{})
}
