package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/dbchung2/betarb/pkg/contracts/events"
	"github.com/dbchung2/betarb/pkg/contracts/keys"
)

// Cache lê o que o worker e o ingest gravaram no Redis
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

// GetSnapshot retorna o último snapshot avaliado do esporte/mercado; ok=false quando ausente
func (c *Cache) GetSnapshot(ctx context.Context, sportKey, marketKey string) (events.ArbitrageSnapshot, bool, error) {
	var s events.ArbitrageSnapshot
	ok, err := c.get(ctx, keys.ArbitrageSnapshot(sportKey, marketKey), &s)
	return s, ok, err
}

// GetSportGroups retorna as ligas agrupadas por categoria
func (c *Cache) GetSportGroups(ctx context.Context) ([]events.SportGroup, bool, error) {
	var g []events.SportGroup
	ok, err := c.get(ctx, keys.SportGroups, &g)
	return g, ok, err
}

func (c *Cache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}
