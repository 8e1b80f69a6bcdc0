package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dbchung2/betarb/pkg/contracts/events"
	"github.com/dbchung2/betarb/pkg/contracts/keys"
)

// SportsCache guarda a lista de ligas agrupada por categoria
type SportsCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSportsCache(c *redis.Client, ttl time.Duration) *SportsCache {
	return &SportsCache{Client: c, TTL: ttl}
}

// SetSports agrupa e grava a lista de ligas ativas
func (s *SportsCache) SetSports(ctx context.Context, sports []events.Sport) error {
	b, err := json.Marshal(events.GroupSports(sports))
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, keys.SportGroups, b, s.TTL).Err()
}
