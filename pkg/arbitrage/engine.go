package arbitrage

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dbchung2/betarb/pkg/contracts/events"
	"github.com/dbchung2/betarb/pkg/oddsmath"
)

// Engine aplica o roteador de mercado a jogos, isoladamente ou em lote.
// Callbacks de métricas são opcionais.
type Engine struct {
	Log        *zap.Logger
	TotalStake float64 // stake total distribuído entre as pernas (default 100)
	Workers    int     // avaliações em paralelo no lote; <= 1 avalia em sequência

	OnEvaluated func(shape MarketShape, hasArbitrage bool) // métricas por jogo avaliado
	OnError     func(stage string)                         // métricas por falha isolada
}

// NewEngine cria um motor com stake total e número de workers informados
func NewEngine(log *zap.Logger, totalStake float64, workers int) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if totalStake <= 0 {
		totalStake = DefaultTotalStake
	}
	return &Engine{Log: log, TotalStake: totalStake, Workers: workers}
}

// EvaluateGame anota um jogo. Jogos com menos de 2 casas não passam pelo roteador.
// O erro só ocorre para entrada inválida (odds fora do domínio, múltiplos mercados);
// nesse caso o jogo volta anotado como sem arbitragem.
func (e *Engine) EvaluateGame(game events.Game, f oddsmath.Format) (events.AnnotatedGame, error) {
	out := events.AnnotatedGame{Game: game}
	if len(game.Bookmakers) < 2 {
		return out, nil
	}

	quotes, err := CollectQuotes(game, f)
	if err != nil {
		return out, fmt.Errorf("game %s: %w", game.ID, err)
	}

	shape := Classify(game)
	opp, ok := evaluators[shape].evaluate(game, quotes, e.totalStake())
	if e.OnEvaluated != nil {
		e.OnEvaluated(shape, ok)
	}
	if !ok {
		return out, nil
	}

	profit := opp.ProfitPercent
	out.HasArbitrage = true
	out.ArbitrageProfit = &profit
	out.ArbitrageOpportunity = &opp
	return out, nil
}

func (e *Engine) totalStake() float64 {
	if e.TotalStake <= 0 {
		return DefaultTotalStake
	}
	return e.TotalStake
}

func (e *Engine) log() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

func (e *Engine) reportError(stage string) {
	if e.OnError != nil {
		e.OnError(stage)
	}
}

func errorStage(err error) string {
	switch {
	case errors.Is(err, ErrMultipleMarkets):
		return "market"
	case errors.Is(err, oddsmath.ErrInvalidAmericanOdds), errors.Is(err, oddsmath.ErrInvalidDecimalOdds):
		return "odds"
	case errors.Is(err, oddsmath.ErrUnknownFormat):
		return "format"
	default:
		return "evaluate"
	}
}
