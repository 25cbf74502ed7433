package clients

import (
	"context"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/cfg"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const redisClientName = "ecommerce-catalog"

// RedisClient — клиент кэша каталога.
type RedisClient struct {
	Client    *r.Client
	opTimeout time.Duration
}

func NewRedisClient(c *cfg.RedisCfg) *RedisClient {
	opts := &r.Options{
		Addr:         c.Addr,
		Username:     c.User,
		Password:     c.Password,
		DB:           c.DB,
		ClientName:   redisClientName,
		MaxRetries:   c.MaxRetries,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.Timeout,
		WriteTimeout: c.Timeout,
	}

	return &RedisClient{Client: r.NewClient(opts), opTimeout: c.OpTimeout}
}

// Ping проверяет соединение. При заданном OpTimeout ожидание им ограничено.
func (rc *RedisClient) Ping(ctx context.Context) error {
	if rc.opTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rc.opTimeout)
		defer cancel()
	}

	if err := rc.Client.Ping(ctx).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (rc *RedisClient) Close() error {
	return rc.Client.Close()
}
