package arbitrage

import (
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dbchung2/betarb/pkg/contracts/events"
	"github.com/dbchung2/betarb/pkg/oddsmath"
)

// ProcessGames anota todos os jogos preservando ordem e quantidade.
// Falhas de um jogo são logadas e não impedem a anotação dos demais.
func (e *Engine) ProcessGames(games []events.Game, f oddsmath.Format) []events.AnnotatedGame {
	out := make([]events.AnnotatedGame, len(games))
	if len(games) == 0 {
		return out
	}

	var g errgroup.Group
	if e.Workers > 1 {
		g.SetLimit(e.Workers)
	} else {
		g.SetLimit(1)
	}

	for i := range games {
		g.Go(func() error {
			out[i] = e.evaluateIsolated(games[i], f)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// evaluateIsolated nunca propaga erro nem panic de um jogo para o lote
func (e *Engine) evaluateIsolated(game events.Game, f oddsmath.Format) (out events.AnnotatedGame) {
	defer func() {
		if r := recover(); r != nil {
			e.log().Error("game evaluation panicked", zap.String("game_id", game.ID), zap.Any("panic", r))
			e.reportError("panic")
			out = events.AnnotatedGame{Game: game}
		}
	}()

	annotated, err := e.EvaluateGame(game, f)
	if err != nil {
		e.log().Warn("game evaluation failed", zap.String("game_id", game.ID), zap.Error(err))
		e.reportError(errorStage(err))
	}
	return annotated
}
