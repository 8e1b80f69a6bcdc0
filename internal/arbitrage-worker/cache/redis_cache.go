package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dbchung2/betarb/pkg/contracts/events"
	"github.com/dbchung2/betarb/pkg/contracts/keys"
)

// RedisCache encapsula o cache do último ArbitrageSnapshot por esporte/mercado
// Client: cliente Redis
// TTL: tempo de expiração dos registros
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisCache cria uma instância de cache Redis com TTL configurável
func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// SetSnapshot substitui o snapshot atual do esporte/mercado
func (r *RedisCache) SetSnapshot(ctx context.Context, s events.ArbitrageSnapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, keys.ArbitrageSnapshot(s.SportKey, s.MarketKey), b, r.TTL).Err()
}
