package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/cfg"
	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/DRSN-tech/ecommerce-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/ecommerce-backend/pkg/clients"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

const (
	productKeyPrefix = "product:"
	scanBatch        = 100

	breakerFailures = 5
	breakerTimeout  = 30 * time.Second
)

// CacheObserver получает события попаданий и промахов, например для метрик.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
	CacheError()
}

type CacheRepo struct {
	client   *clients.RedisClient
	conv     converter.ProductConverter
	cfg      *cfg.RedisCfg
	breaker  *gobreaker.CircuitBreaker
	observer CacheObserver
	logger   logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, observer CacheObserver, logger logger.Logger) *CacheRepo {
	repo := &CacheRepo{
		client:   client,
		cfg:      cfg,
		observer: observer,
		logger:   logger,
	}

	repo.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-product-cache",
		MaxRequests: 1,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s state changed from %s to %s", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, r.Nil)
		},
	})

	return repo
}

// GetProduct читает снимок товара. Промах возвращается как (nil, nil).
// Испорченный снимок удаляется и тоже считается промахом.
func (c *CacheRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.OpTimeout)
	defer cancel()

	key := productKey(id)

	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.client.Client.Get(ctx, key).Bytes()
	})
	if errors.Is(err, r.Nil) {
		c.miss()
		return nil, nil
	}
	if err != nil {
		c.failed()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	data, _ := res.([]byte)

	var model converter.ProductRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return c.evictCorrupted(ctx, key, err)
	}

	product, err := c.conv.ToDomain(&model)
	if err != nil {
		return c.evictCorrupted(ctx, key, err)
	}

	if product.ID != id {
		return c.evictCorrupted(ctx, key, errors.New("cached product id mismatch"))
	}

	c.hit()
	return product, nil
}

// SetProduct кладёт полный снимок товара с заданным TTL.
func (c *CacheRepo) SetProduct(ctx context.Context, product *domain.Product, ttl time.Duration) error {
	data, err := json.Marshal(c.conv.ToRedisModel(product))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.OpTimeout)
	defer cancel()

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Client.Set(ctx, productKey(product.ID), data, ttl).Err()
	})
	if err != nil {
		c.failed()
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheRepo) DeleteProduct(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.OpTimeout)
	defer cancel()

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Client.Del(ctx, productKey(id)).Err()
	})
	if err != nil {
		c.failed()
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// FlushProducts удаляет все ключи товаров через SCAN, не блокируя Redis командой KEYS.
// Другие ключи базы не трогаются.
func (c *CacheRepo) FlushProducts(ctx context.Context) (int64, error) {
	var (
		cursor  uint64
		removed int64
	)

	for {
		keys, next, err := c.client.Client.Scan(ctx, cursor, productKeyPrefix+"*", scanBatch).Result()
		if err != nil {
			return removed, e.Wrap(whereami.WhereAmI(), err)
		}

		if len(keys) > 0 {
			n, err := c.client.Client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, e.Wrap(whereami.WhereAmI(), err)
			}
			removed += n
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

func (c *CacheRepo) evictCorrupted(ctx context.Context, key string, cause error) (*domain.Product, error) {
	c.logger.Warnf("Corrupted cache entry evicted. key: %s, error: %v", key, e.Wrap(whereami.WhereAmI(), cause))

	if err := c.client.Client.Del(ctx, key).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	c.miss()
	return nil, nil
}

func (c *CacheRepo) hit() {
	if c.observer != nil {
		c.observer.CacheHit()
	}
}

func (c *CacheRepo) miss() {
	if c.observer != nil {
		c.observer.CacheMiss()
	}
}

func (c *CacheRepo) failed() {
	if c.observer != nil {
		c.observer.CacheError()
	}
}

// productKey возвращает Redis-ключ для одного товара
func productKey(id string) string {
	return productKeyPrefix + id
}
