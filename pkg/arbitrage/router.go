package arbitrage

import "github.com/dbchung2/betarb/pkg/contracts/events"

// shapeEvaluator avalia as cotações de um jogo conforme a variante do mercado
type shapeEvaluator interface {
	evaluate(game events.Game, quotes []Quote, totalStake float64) (events.ArbitrageOpportunity, bool)
}

var evaluators = map[MarketShape]shapeEvaluator{
	ShapeMoneyline: moneyline{},
	ShapePoints:    points{},
}

// moneyline: um único mapa de melhores preços por nome de resultado
type moneyline struct{}

func (moneyline) evaluate(_ events.Game, quotes []Quote, totalStake float64) (events.ArbitrageOpportunity, bool) {
	best := SelectBestPrices(quotes, ByName)
	if len(best) < 2 {
		return events.ArbitrageOpportunity{}, false
	}
	return Evaluate(best, totalStake)
}

// points: cada linha é avaliada separadamente e fica só a de menor índice abaixo de 1
type points struct{}

type pointGroup struct {
	line   float64
	quotes []Quote
}

func (points) evaluate(game events.Game, quotes []Quote, totalStake float64) (events.ArbitrageOpportunity, bool) {
	var (
		best  events.ArbitrageOpportunity
		found bool
	)
	for _, g := range groupByLine(game, quotes) {
		prices := SelectBestPrices(g.quotes, ByNameAndPoint)
		if len(prices) < 2 {
			continue
		}
		opp, ok := Evaluate(prices, totalStake)
		if !ok {
			continue
		}
		if !found || opp.ArbitrageIndex < best.ArbitrageIndex {
			best, found = opp, true
		}
	}
	return best, found
}

// groupByLine particiona as cotações com point em grupos disjuntos por linha,
// na ordem em que cada linha aparece. Em spreads a linha do visitante é espelhada
// (Home -3.5 e Away +3.5 formam o mesmo grupo); em totals a linha é o próprio point.
// Cotações sem point são ignoradas.
func groupByLine(game events.Game, quotes []Quote) []pointGroup {
	var groups []pointGroup
	idx := make(map[float64]int)

	for _, q := range quotes {
		if q.Point == nil {
			continue
		}
		line := *q.Point
		if q.MarketKey == MarketSpreads && q.Name == game.AwayTeam {
			line = -line
		}
		i, ok := idx[line]
		if !ok {
			i = len(groups)
			idx[line] = i
			groups = append(groups, pointGroup{line: line})
		}
		groups[i].quotes = append(groups[i].quotes, q)
	}
	return groups
}
