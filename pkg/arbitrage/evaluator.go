package arbitrage

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/dbchung2/betarb/pkg/contracts/events"
)

// DefaultTotalStake é usado quando nenhum stake total é configurado
const DefaultTotalStake = 100.0

// ArbitrageIndex soma as probabilidades implícitas dos melhores preços (Σ 1/price).
// Existe arbitragem quando o índice é menor que 1.
func ArbitrageIndex(best BestPrices) float64 {
	if len(best) < 2 {
		return math.Inf(1)
	}
	sum := 0.0
	for _, b := range best {
		sum += 1.0 / b.Price
	}
	return sum
}

// Evaluate calcula lucro e divisão de stake para um grupo de melhores preços.
// Retorna ok=false quando há menos de 2 resultados ou índice >= 1.
//
// Valores monetários e o lucro são arredondados para centavos (meio para longe
// do zero); a soma dos stakes pode diferir de totalStake em alguns centavos.
func Evaluate(best BestPrices, totalStake float64) (events.ArbitrageOpportunity, bool) {
	index := ArbitrageIndex(best)
	if index >= 1 {
		return events.ArbitrageOpportunity{}, false
	}

	profit := (1 - index) / index * 100

	bets := make([]events.Bet, 0, len(best))
	for _, b := range best {
		implied := 1.0 / b.Price
		stake := totalStake * (implied / index)

		bets = append(bets, events.Bet{
			Bookmaker: b.Bookmaker,
			Outcome:   b.Outcome,
			Point:     b.Point,
			Odds:      b.Price,
			Stake:     roundCents(stake),
			Return:    roundCents(stake * b.Price),
		})
	}

	return events.ArbitrageOpportunity{
		ProfitPercent:  roundCents(profit),
		ArbitrageIndex: index,
		TotalStake:     totalStake,
		Bets:           bets,
	}, true
}

func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
