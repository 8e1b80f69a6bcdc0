package pubsub

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type RedisBroadcaster struct {
	r *redis.Client
}

func NewRedisBroadcaster(r *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{r: r}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.r.Publish(ctx, channel, payload).Err()
}

// WSUpdate é o payload padrão para o WS do arbitrage-service.
// Channel é "esporte:mercado", o mesmo usado nas inscrições dos clientes.
type WSUpdate struct {
	Channel string      `json:"channel"`
	Payload interface{} `json:"payload"`
}
