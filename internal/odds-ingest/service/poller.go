package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dbchung2/betarb/pkg/contracts/events"
)

// OddsSource é a fonte de odds (Odds API ou simulador)
type OddsSource interface {
	Sports(ctx context.Context) ([]events.Sport, error)
	Odds(ctx context.Context, sport, market, format string) ([]events.Game, error)
}

// SnapshotPublisher entrega snapshots ao barramento
type SnapshotPublisher interface {
	Publish(ctx context.Context, s events.OddsSnapshot) error
}

// SportsStore guarda a lista de ligas para a API
type SportsStore interface {
	SetSports(ctx context.Context, sports []events.Sport) error
}

// Poller consulta a fonte de odds periodicamente e publica um snapshot por
// esporte × mercado. Uma busca que falha publica um snapshot vazio com Error preenchido.
type Poller struct {
	Log       *zap.Logger
	Source    OddsSource
	Publisher SnapshotPublisher
	Sports    SportsStore // opcional

	SportKeys  []string
	Markets    []string
	OddsFormat string
	Interval   time.Duration
	SourceName string

	OnFetched   func(sport, market string, games int) // métricas
	OnPublished func()                                // métricas
	OnError     func(stage string)                    // métricas por fase

	now func() time.Time
}

// Start roda um ciclo imediatamente e depois a cada Interval, até o contexto ser cancelado.
func (p *Poller) Start(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		p.Tick(ctx)
		select {
		case <-ctx.Done():
			p.Log.Info("context canceled, stopping poller")
			return
		case <-ticker.C:
		}
	}
}

// Tick executa um ciclo completo: atualiza ligas e publica todos os snapshots
func (p *Poller) Tick(ctx context.Context) {
	p.refreshSports(ctx)

	for _, sport := range p.SportKeys {
		for _, market := range p.Markets {
			if ctx.Err() != nil {
				return
			}
			snap := p.fetch(ctx, sport, market)
			if err := p.Publisher.Publish(ctx, snap); err != nil {
				p.Log.Warn("publish snapshot failed", zap.String("sport", sport), zap.String("market", market), zap.Error(err))
				p.reportError("publish")
				continue
			}
			if p.OnPublished != nil {
				p.OnPublished()
			}
		}
	}
}

func (p *Poller) fetch(ctx context.Context, sport, market string) events.OddsSnapshot {
	snap := events.OddsSnapshot{
		SnapshotID: uuid.NewString(),
		SportKey:   sport,
		MarketKey:  market,
		OddsFormat: p.OddsFormat,
		Games:      []events.Game{},
		FetchedAt:  p.clock().UTC(),
		Source:     p.SourceName,
	}

	games, err := p.Source.Odds(ctx, sport, market, p.OddsFormat)
	if err != nil {
		// sequência vazia: o worker anota zero jogos e limpa o conjunto atual
		p.Log.Warn("fetch odds failed", zap.String("sport", sport), zap.String("market", market), zap.Error(err))
		p.reportError("fetch")
		snap.Error = err.Error()
		return snap
	}
	if games != nil {
		snap.Games = games
	}
	if p.OnFetched != nil {
		p.OnFetched(sport, market, len(snap.Games))
	}
	return snap
}

func (p *Poller) refreshSports(ctx context.Context) {
	if p.Sports == nil {
		return
	}
	sports, err := p.Source.Sports(ctx)
	if err != nil {
		p.Log.Warn("fetch sports failed", zap.Error(err))
		p.reportError("sports")
		return
	}
	if err := p.Sports.SetSports(ctx, sports); err != nil {
		p.Log.Warn("cache sports failed", zap.Error(err))
		p.reportError("cache")
	}
}

func (p *Poller) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

func (p *Poller) reportError(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}
