// Package view aplica as opções de exibição da grade de arbitragem:
// ordenação, filtro de oportunidades e formato das odds.
package view

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/dbchung2/betarb/internal/arbitrage-service/dto"
	"github.com/dbchung2/betarb/pkg/contracts/events"
	"github.com/dbchung2/betarb/pkg/oddsmath"
)

type SortOption string

const (
	SortProfit SortOption = "profit"
	SortTime   SortOption = "time"
	SortSport  SortOption = "sport"
)

var ErrInvalidSort = errors.New("invalid sort option")

// Options controla a montagem da grade
type Options struct {
	Sort          SortOption
	OnlyArbitrage bool
	Display       oddsmath.Format
}

// ParseOptions lê sort, only e display da query; ausentes assumem profit, todos os jogos e decimal
func ParseOptions(q url.Values) (Options, error) {
	opts := Options{Sort: SortProfit, Display: oddsmath.FormatDecimal}

	switch s := SortOption(strings.ToLower(q.Get("sort"))); s {
	case "":
	case SortProfit, SortTime, SortSport:
		opts.Sort = s
	default:
		return Options{}, fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}

	opts.OnlyArbitrage = strings.EqualFold(q.Get("only"), "arbitrage")

	if d := q.Get("display"); d != "" {
		f, err := oddsmath.ParseFormat(strings.ToLower(d))
		if err != nil {
			return Options{}, err
		}
		opts.Display = f
	}
	return opts, nil
}

// Build ordena, filtra e formata os jogos anotados sem alterar o slice de entrada
func Build(games []events.AnnotatedGame, opts Options) ([]dto.GameView, error) {
	sorted := make([]events.AnnotatedGame, 0, len(games))
	for _, g := range games {
		if opts.OnlyArbitrage && !g.HasArbitrage {
			continue
		}
		sorted = append(sorted, g)
	}
	Sort(sorted, opts.Sort)

	out := make([]dto.GameView, 0, len(sorted))
	for _, g := range sorted {
		v := dto.GameView{Game: g.Game, HasArbitrage: g.HasArbitrage, ArbitrageProfit: g.ArbitrageProfit}
		if g.ArbitrageOpportunity != nil {
			opp, err := formatOpportunity(*g.ArbitrageOpportunity, opts.Display)
			if err != nil {
				return nil, fmt.Errorf("game %s: %w", g.ID, err)
			}
			v.ArbitrageOpportunity = &opp
		}
		out = append(out, v)
	}
	return out, nil
}

// Sort ordena de forma estável: profit decrescente (sem arbitragem conta como 0),
// time crescente por commence_time e sport alfabético pelo título.
func Sort(games []events.AnnotatedGame, by SortOption) {
	switch by {
	case SortProfit:
		sort.SliceStable(games, func(i, j int) bool { return profit(games[i]) > profit(games[j]) })
	case SortTime:
		sort.SliceStable(games, func(i, j int) bool {
			return commence(games[i]).Before(commence(games[j]))
		})
	case SortSport:
		sort.SliceStable(games, func(i, j int) bool { return games[i].SportTitle < games[j].SportTitle })
	}
}

func formatOpportunity(o events.ArbitrageOpportunity, display oddsmath.Format) (dto.OpportunityView, error) {
	v := dto.OpportunityView{
		ProfitPercent:  o.ProfitPercent,
		ArbitrageIndex: o.ArbitrageIndex,
		TotalStake:     o.TotalStake,
		Bets:           make([]dto.BetView, 0, len(o.Bets)),
	}
	for _, b := range o.Bets {
		s, err := oddsmath.FormatDecimalOdds(b.Odds, display)
		if err != nil {
			return dto.OpportunityView{}, err
		}
		v.Bets = append(v.Bets, dto.BetView{Bet: b, DisplayOdds: s})
	}
	return v, nil
}

func profit(g events.AnnotatedGame) float64 {
	if g.ArbitrageProfit == nil {
		return 0
	}
	return *g.ArbitrageProfit
}

var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// commence interpreta o horário RFC3339; valores inválidos vão para o fim
func commence(g events.AnnotatedGame) time.Time {
	t, err := time.Parse(time.RFC3339, g.CommenceTime)
	if err != nil {
		return farFuture
	}
	return t
}
