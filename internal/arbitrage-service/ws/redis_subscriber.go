package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StartRedisSubscriber inicia uma goroutine que escuta o canal Redis Pub/Sub
// e repassa os snapshots recebidos para os clientes WebSocket via Hub
//
// Funcionamento:
// - Recebe mensagens JSON do canal Redis
// - Desserializa para ArbitrageUpdate
// - Chama hub.Broadcast para enviar aos clientes inscritos no canal do update
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		defer sub.Close() // encerra a inscrição ao finalizar o contexto
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if err := Dispatch(hub, []byte(msg.Payload)); err != nil {
					log.Warn("ws subscriber unmarshal error", zap.Error(err))
				}
			}
		}
	}()
}

// Dispatch decodifica uma mensagem do Pub/Sub e a entrega ao Hub
func Dispatch(hub *Hub, payload []byte) error {
	var upd ArbitrageUpdate
	if err := json.Unmarshal(payload, &upd); err != nil {
		return err
	}
	hub.Broadcast(upd) // envia atualização para todos os clientes inscritos
	return nil
}
