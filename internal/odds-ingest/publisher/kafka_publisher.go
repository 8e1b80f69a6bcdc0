package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/dbchung2/betarb/pkg/contracts/events"
)

// KafkaPublisher encapsula o writer Kafka e o logger.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewKafkaPublisher cria um publisher para o tópico de snapshots.
// Em ambientes local/dev garante a existência do tópico antes de inicializar o writer.
func NewKafkaPublisher(brokers []string, topic string, env string, log *zap.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not provided")
	}

	if env == "local" || env == "dev" {
		ensureTopic(brokers[0], topic, log)
	}

	// Writer com chave por hash: snapshots do mesmo esporte/mercado ficam ordenados na partição
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		ReadTimeout:            10 * time.Second,
		WriteTimeout:           10 * time.Second,
	}

	return &KafkaPublisher{writer: writer, log: log}, nil
}

// ensureTopic cria o tópico via controller do cluster; falhas só são logadas
func ensureTopic(broker, topic string, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		log.Warn("failed to connect to kafka", zap.Error(err))
		return
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		log.Warn("failed to get kafka controller", zap.Error(err))
		return
	}

	cconn, err := kafka.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		log.Warn("failed to dial controller", zap.Error(err))
		return
	}
	defer cconn.Close()

	// Particionamento compatível com single-broker
	err = cconn.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	switch {
	case err == nil:
		log.Info("kafka topic created", zap.String("topic", topic))
	case !strings.Contains(err.Error(), "already exists"):
		log.Warn("failed to create kafka topic", zap.String("topic", topic), zap.Error(err))
	}
}

// Publish serializa o snapshot em JSON; a chave é "esporte:mercado".
func (p *KafkaPublisher) Publish(ctx context.Context, s events.OddsSnapshot) error {
	value, err := json.Marshal(s)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(events.ChannelKey(s.SportKey, s.MarketKey)),
		Value: value,
		Time:  s.FetchedAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to publish odds snapshot", zap.String("snapshot_id", s.SnapshotID), zap.Error(err))
		return err
	}

	p.log.Debug("published odds snapshot",
		zap.String("snapshot_id", s.SnapshotID),
		zap.String("sport", s.SportKey),
		zap.String("market", s.MarketKey),
		zap.Int("games", len(s.Games)),
	)
	return nil
}

// Close finaliza o writer e libera recursos associados.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
