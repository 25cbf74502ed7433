package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/cfg"
	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/DRSN-tech/ecommerce-backend/pkg/clients"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	r "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	hits, misses, errors int
}

func (o *countingObserver) CacheHit()   { o.hits++ }
func (o *countingObserver) CacheMiss()  { o.misses++ }
func (o *countingObserver) CacheError() { o.errors++ }

func setup(t *testing.T) (*CacheRepo, *miniredis.Miniredis, *countingObserver) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := &clients.RedisClient{Client: r.NewClient(&r.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})}
	t.Cleanup(func() { _ = client.Close() })

	obs := &countingObserver{}
	repo := NewCacheRepo(client, &cfg.RedisCfg{OpTimeout: time.Second, ProductTTL: time.Hour}, obs, logger.Nop{})

	return repo, mr, obs
}

func sampleProduct() *domain.Product {
	ts := time.Date(2024, 3, 1, 9, 30, 0, 123000000, time.UTC)

	return &domain.Product{
		ID:            "P1",
		Name:          "Mouse",
		Description:   "Wireless mouse",
		Price:         decimal.RequireFromString("9.99"),
		StockQuantity: 5,
		Category:      "Electronics",
		Active:        true,
		CreatedAt:     ts,
		UpdatedAt:     ts,
		Reviews: []domain.Review{{
			ID: "R1", ProductID: "P1", UserID: "u1", Rating: 5, Comment: "great",
			CreatedAt: ts, UpdatedAt: ts,
		}},
	}
}

func TestCacheRepo_SetThenGet(t *testing.T) {
	repo, mr, obs := setup(t)
	ctx := context.Background()
	product := sampleProduct()

	require.NoError(t, repo.SetProduct(ctx, product, 90*time.Minute))
	assert.True(t, mr.Exists("product:P1"))
	assert.Equal(t, 90*time.Minute, mr.TTL("product:P1"))

	got, err := repo.GetProduct(ctx, "P1")
	require.NoError(t, err)
	require.NotNil(t, got)

	want, _ := json.Marshal(product)
	have, _ := json.Marshal(got)
	assert.JSONEq(t, string(want), string(have))
	assert.True(t, product.Price.Equal(got.Price))
	assert.Equal(t, 1, obs.hits)
}

func TestCacheRepo_Miss(t *testing.T) {
	repo, _, obs := setup(t)

	got, err := repo.GetProduct(context.Background(), "nope")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, obs.misses)
}

func TestCacheRepo_CorruptedEntryEvicted(t *testing.T) {
	repo, mr, obs := setup(t)
	require.NoError(t, mr.Set("product:P1", "{not json"))

	got, err := repo.GetProduct(context.Background(), "P1")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("product:P1"))
	assert.Equal(t, 1, obs.misses)
}

func TestCacheRepo_Delete(t *testing.T) {
	repo, mr, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, repo.SetProduct(ctx, sampleProduct(), time.Hour))

	require.NoError(t, repo.DeleteProduct(ctx, "P1"))
	require.NoError(t, repo.DeleteProduct(ctx, "P1"))

	assert.False(t, mr.Exists("product:P1"))
}

func TestCacheRepo_FlushOnlyProductKeys(t *testing.T) {
	repo, mr, _ := setup(t)
	ctx := context.Background()

	for _, id := range []string{"P1", "P2", "P3"} {
		p := sampleProduct()
		p.ID = id
		require.NoError(t, repo.SetProduct(ctx, p, time.Hour))
	}
	require.NoError(t, mr.Set("session:abc", "keep"))

	removed, err := repo.FlushProducts(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.True(t, mr.Exists("session:abc"))
	assert.False(t, mr.Exists("product:P2"))
}

func TestCacheRepo_BreakerOpensWhenRedisIsDown(t *testing.T) {
	repo, mr, obs := setup(t)
	mr.Close()
	ctx := context.Background()

	for i := 0; i < breakerFailures; i++ {
		_, err := repo.GetProduct(ctx, "P1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}

	_, err := repo.GetProduct(ctx, "P1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, breakerFailures+1, obs.errors)
}

func TestHealthProbe(t *testing.T) {
	repo, mr, _ := setup(t)
	probe := NewHealthProbe(repo.client)

	report, err := probe.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cache", report.Component)
	assert.Equal(t, "PONG", report.Details["ping"])

	mr.Close()
	_, err = probe.Probe(context.Background())
	assert.Error(t, err)
}

func TestParseInfo(t *testing.T) {
	info := "# Server\r\nredis_version:7.2.4\r\nuptime_in_seconds:42\r\n\r\n# Clients\r\nconnected_clients:3\r\nblocked_clients:0\r\n# Memory\r\nused_memory_human:1.05M\r\n"

	got := parseInfo(info)

	assert.Equal(t, map[string]string{
		"redis_version":     "7.2.4",
		"uptime_in_seconds": "42",
		"connected_clients": "3",
		"used_memory_human": "1.05M",
	}, got)
}
