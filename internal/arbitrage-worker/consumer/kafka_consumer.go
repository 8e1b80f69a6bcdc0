package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/dbchung2/betarb/internal/arbitrage-worker/pubsub"
	"github.com/dbchung2/betarb/pkg/arbitrage"
	"github.com/dbchung2/betarb/pkg/contracts/events"
	"github.com/dbchung2/betarb/pkg/oddsmath"
)

// MessageReader é satisfeito por *kafka.Reader
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type SnapshotCache interface {
	SetSnapshot(ctx context.Context, s events.ArbitrageSnapshot) error
}

type OpportunityStore interface {
	ReplaceCurrent(ctx context.Context, sportKey, marketKey string, opps []events.ArbitrageDetected) error
}

type DetectedPublisher interface {
	PublishDetected(ctx context.Context, opps []events.ArbitrageDetected) error
}

type DeadLetterSender interface {
	Send(ctx context.Context, m kafka.Message, reason string) error
}

type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Processor consome snapshots de odds do Kafka, roda o motor de arbitragem e
// distribui o resultado (cache, banco, tópico de oportunidades e broadcast WS).
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log    *zap.Logger
	Reader MessageReader
	Engine *arbitrage.Engine

	Cache       SnapshotCache
	Repo        OpportunityStore
	Events      DetectedPublisher // opcional
	DLQ         DeadLetterSender  // opcional
	Broadcaster Broadcaster       // opcional
	Channel     string            // canal Redis Pub/Sub lido pelo arbitrage-service

	OnConsumed func()              // métricas (counter++)
	OnCached   func()              // métricas
	OnPersist  func()              // métricas
	OnDetected func(n int)         // métricas: oportunidades por ciclo
	OnCycle    func(time.Duration) // métricas: latência de avaliação
	OnError    func(string)        // métricas por fase

	now func() time.Time
}

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.reportError("read")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed() // callback de métrica: mensagem consumida
		}

		p.Handle(ctx, m)
	}
}

// Handle processa uma mensagem. Falhas de cache, banco ou publicação são logadas
// e não interrompem as etapas seguintes.
func (p *Processor) Handle(ctx context.Context, m kafka.Message) {
	var snap events.OddsSnapshot
	if err := json.Unmarshal(m.Value, &snap); err != nil {
		p.Log.Warn("invalid message", zap.Error(err))
		p.reportError("decode")
		p.deadLetter(ctx, m, "decode")
		return
	}

	format, err := oddsmath.ParseFormat(snap.OddsFormat)
	if err != nil {
		p.Log.Warn("invalid odds format", zap.String("snapshot_id", snap.SnapshotID), zap.Error(err))
		p.reportError("format")
		p.deadLetter(ctx, m, "format")
		return
	}
	if snap.Error != "" {
		p.Log.Info("snapshot carries fetch error, clearing current set",
			zap.String("snapshot_id", snap.SnapshotID), zap.String("error", snap.Error))
	}

	start := p.clock()
	annotated := p.Engine.ProcessGames(snap.Games, format)
	if p.OnCycle != nil {
		p.OnCycle(p.clock().Sub(start))
	}

	result := events.ArbitrageSnapshot{
		SnapshotID:  snap.SnapshotID,
		SportKey:    snap.SportKey,
		MarketKey:   snap.MarketKey,
		Games:       annotated,
		EvaluatedAt: p.clock().UTC(),
	}
	detected := Detected(result)
	result.Opportunities = len(detected)
	if p.OnDetected != nil {
		p.OnDetected(len(detected))
	}

	// Atualiza cache Redis com o snapshot avaliado
	if err := p.Cache.SetSnapshot(ctx, result); err != nil {
		p.Log.Warn("redis set failed", zap.Error(err))
		p.reportError("cache")
		// não bloqueia persistência se falhar o cache
	} else if p.OnCached != nil {
		p.OnCached() // callback de métrica: cache atualizado
	}

	// Substitui o conjunto atual no Postgres
	if err := p.Repo.ReplaceCurrent(ctx, snap.SportKey, snap.MarketKey, detected); err != nil {
		p.Log.Warn("db replace failed", zap.Error(err))
		p.reportError("db_replace")
	} else if p.OnPersist != nil {
		p.OnPersist() // callback de métrica: persistência concluída
	}

	if p.Events != nil {
		if err := p.Events.PublishDetected(ctx, detected); err != nil {
			p.Log.Warn("publish detected failed", zap.Error(err))
			p.reportError("publish")
		}
	}

	p.broadcast(result)

	p.Log.Debug("snapshot evaluated",
		zap.String("snapshot_id", snap.SnapshotID),
		zap.String("sport", snap.SportKey),
		zap.String("market", snap.MarketKey),
		zap.Int("games", len(annotated)),
		zap.Int("opportunities", len(detected)),
	)
}

// Detected extrai um evento por jogo com arbitragem, na ordem dos jogos
func Detected(s events.ArbitrageSnapshot) []events.ArbitrageDetected {
	out := []events.ArbitrageDetected{}
	for _, g := range s.Games {
		if !g.HasArbitrage || g.ArbitrageOpportunity == nil {
			continue
		}
		out = append(out, events.ArbitrageDetected{
			SnapshotID:   s.SnapshotID,
			GameID:       g.ID,
			SportKey:     s.SportKey,
			MarketKey:    s.MarketKey,
			HomeTeam:     g.HomeTeam,
			AwayTeam:     g.AwayTeam,
			CommenceTime: g.CommenceTime,
			Opportunity:  *g.ArbitrageOpportunity,
			DetectedAt:   s.EvaluatedAt,
		})
	}
	return out
}

// broadcast envia o snapshot para o WebSocket via Redis Pub/Sub
func (p *Processor) broadcast(s events.ArbitrageSnapshot) {
	if p.Broadcaster == nil {
		return
	}
	b, err := json.Marshal(pubsub.WSUpdate{Channel: events.ChannelKey(s.SportKey, s.MarketKey), Payload: s})
	if err != nil {
		p.reportError("broadcast")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := p.Broadcaster.Publish(ctx, p.Channel, b); err != nil {
		p.Log.Warn("ws broadcast publish failed", zap.Error(err))
		p.reportError("broadcast")
	}
}

func (p *Processor) deadLetter(ctx context.Context, m kafka.Message, reason string) {
	if p.DLQ == nil {
		return
	}
	if err := p.DLQ.Send(ctx, m, reason); err != nil {
		p.Log.Error("dlq publish failed", zap.Error(err))
		p.reportError("dlq")
	}
}

func (p *Processor) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

func (p *Processor) reportError(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}
