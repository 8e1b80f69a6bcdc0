package publisher

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/dbchung2/betarb/pkg/contracts/events"
)

// MessageWriter é satisfeito por *kafka.Writer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// EventPublisher publica oportunidades detectadas, uma mensagem por jogo
type EventPublisher struct {
	W MessageWriter
}

func NewEventPublisher(w MessageWriter) *EventPublisher {
	return &EventPublisher{W: w}
}

// PublishDetected envia todas as oportunidades do ciclo num único lote; chave = game_id
func (p *EventPublisher) PublishDetected(ctx context.Context, opps []events.ArbitrageDetected) error {
	if len(opps) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(opps))
	for _, o := range opps {
		b, err := json.Marshal(o)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{Key: []byte(o.GameID), Value: b, Time: o.DetectedAt})
	}
	return p.W.WriteMessages(ctx, msgs...)
}

// DeadLetter reenvia mensagens que não puderam ser processadas, preservando chave e valor
type DeadLetter struct {
	W MessageWriter
}

func NewDeadLetter(w MessageWriter) *DeadLetter {
	return &DeadLetter{W: w}
}

func (d *DeadLetter) Send(ctx context.Context, m kafka.Message, reason string) error {
	return d.W.WriteMessages(ctx, kafka.Message{
		Key:     m.Key,
		Value:   m.Value,
		Headers: []kafka.Header{{Key: "dlq_reason", Value: []byte(reason)}},
	})
}
