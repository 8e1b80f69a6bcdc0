// Package arbitrage detecta arbitragens ("surebets") entre casas de apostas para
// um jogo e calcula a divisão de stake que garante o mesmo retorno em qualquer
// resultado.
package arbitrage

import (
	"errors"
	"fmt"

	"github.com/dbchung2/betarb/pkg/contracts/events"
	"github.com/dbchung2/betarb/pkg/oddsmath"
)

// MarketSpreads é a chave de mercado de handicap, cujas linhas são espelhadas entre os times.
// Em spreads as cotações são agrupadas pela linha do mandante (point do visitante
// com sinal invertido): Home -3.5 forma grupo com Away +3.5, nunca com Away -3.5.
// Cada aposta mantém o próprio point com sinal.
const MarketSpreads = "spreads"

// ErrMultipleMarkets indica uma casa com mais de um mercado na mesma resposta.
// O motor avalia um único mercado por requisição.
var ErrMultipleMarkets = errors.New("bookmaker carries more than one market")

// MarketShape é a variante do mercado de um jogo, resolvida uma única vez
type MarketShape int

const (
	ShapeMoneyline MarketShape = iota // h2h: 2 ou 3 resultados sem linha
	ShapePoints                       // spreads/totals: resultados agrupados por linha
)

func (s MarketShape) String() string {
	if s == ShapePoints {
		return "points"
	}
	return "moneyline"
}

// Quote é uma cotação normalizada para decimal, já associada à casa que a ofereceu
type Quote struct {
	Bookmaker string
	MarketKey string
	Name      string
	Point     *float64
	Price     float64
}

// Classify inspeciona o mercado da primeira casa com ao menos uma cotação:
// qualquer cotação com point classifica o jogo como mercado de pontos.
// Casas sem mercado ou com mercado vazio não decidem a variante.
func Classify(game events.Game) MarketShape {
	for _, bk := range game.Bookmakers {
		m, ok, err := primaryMarket(bk)
		if err != nil || !ok || len(m.Outcomes) == 0 {
			continue
		}
		for _, o := range m.Outcomes {
			if o.HasPoint() {
				return ShapePoints
			}
		}
		return ShapeMoneyline
	}
	return ShapeMoneyline
}

// primaryMarket retorna o único mercado da casa; ok=false quando não há mercado
func primaryMarket(bk events.Bookmaker) (events.Market, bool, error) {
	switch len(bk.Markets) {
	case 0:
		return events.Market{}, false, nil
	case 1:
		return bk.Markets[0], true, nil
	default:
		return events.Market{}, false, fmt.Errorf("%w: %s has %d", ErrMultipleMarkets, bk.Title, len(bk.Markets))
	}
}

// CollectQuotes extrai as cotações de todas as casas, na ordem da lista de casas,
// normalizando o preço do formato declarado para decimal.
// Casas sem mercado ou com mercado vazio não contribuem com nada.
func CollectQuotes(game events.Game, f oddsmath.Format) ([]Quote, error) {
	var quotes []Quote
	for _, bk := range game.Bookmakers {
		m, ok, err := primaryMarket(bk)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for _, o := range m.Outcomes {
			price, err := oddsmath.ToDecimal(o.Price, f)
			if err != nil {
				return nil, fmt.Errorf("bookmaker %s outcome %s: %w", bk.Title, o.Name, err)
			}
			quotes = append(quotes, Quote{
				Bookmaker: bk.Title,
				MarketKey: m.Key,
				Name:      o.Name,
				Point:     o.Point,
				Price:     price,
			})
		}
	}
	return quotes, nil
}
