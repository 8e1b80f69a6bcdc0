// Package generator produz cotações simuladas no formato da The Odds API.
// Cada casa aplica uma margem e um ruído próprios sobre probabilidades justas,
// de modo que a combinação das melhores cotações às vezes forma uma arbitragem.
package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/dbchung2/betarb/pkg/contracts/events"
	"github.com/dbchung2/betarb/pkg/oddsmath"
)

var (
	ErrUnknownSport  = errors.New("unknown sport")
	ErrUnknownMarket = errors.New("unknown market")
)

type league struct {
	sport     events.Sport
	teams     []string
	baseTotal float64
	hasDraw   bool
}

// Catálogo fixo de ligas simuladas
var catalog = []league{
	{
		sport:     events.Sport{Key: "basketball_nba", Group: "Basketball", Title: "NBA", Description: "US Basketball", Active: true},
		teams:     []string{"Boston Celtics", "Miami Heat", "Denver Nuggets", "Los Angeles Lakers", "Golden State Warriors", "Milwaukee Bucks"},
		baseTotal: 220.5,
	},
	{
		sport:     events.Sport{Key: "americanfootball_nfl", Group: "American Football", Title: "NFL", Description: "US Football", Active: true},
		teams:     []string{"Kansas City Chiefs", "Buffalo Bills", "San Francisco 49ers", "Dallas Cowboys"},
		baseTotal: 44.5,
	},
	{
		sport:     events.Sport{Key: "soccer_epl", Group: "Soccer", Title: "EPL", Description: "English Premier League", Active: true},
		teams:     []string{"Arsenal", "Liverpool", "Manchester City", "Chelsea"},
		baseTotal: 2.5,
		hasDraw:   true,
	},
	{
		sport:     events.Sport{Key: "basketball_ncaab", Group: "Basketball", Title: "NCAAB", Description: "US College Basketball", Active: false},
		teams:     []string{"Duke Blue Devils", "Kansas Jayhawks"},
		baseTotal: 140.5,
	},
}

// Generator é seguro para uso concorrente
type Generator struct {
	Bookmakers []string

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// New cria um gerador; a mesma seed produz a mesma sequência de cotações
func New(bookmakers []string, seed int64) *Generator {
	return &Generator{
		Bookmakers: bookmakers,
		rng:        rand.New(rand.NewSource(seed)),
		now:        time.Now,
	}
}

// Sports lista todas as ligas do catálogo, ativas ou não
func (g *Generator) Sports() []events.Sport {
	out := make([]events.Sport, 0, len(catalog))
	for _, l := range catalog {
		out = append(out, l.sport)
	}
	return out
}

// Odds gera os jogos de uma liga para um único mercado. bookmakers filtra a lista
// configurada; vazio usa todas.
func (g *Generator) Odds(sport, market string, format oddsmath.Format, bookmakers []string) ([]events.Game, error) {
	l, ok := find(sport)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSport, sport)
	}
	switch market {
	case "h2h", "totals", "spreads":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMarket, market)
	}

	books := g.selectBookmakers(bookmakers)

	g.mu.Lock()
	defer g.mu.Unlock()

	start := g.now().UTC().Truncate(time.Hour)
	games := make([]events.Game, 0, len(l.teams)/2)
	for i := 0; i+1 < len(l.teams); i += 2 {
		game := events.Game{
			ID:           fmt.Sprintf("%s-%03d", l.sport.Key, i/2+1),
			SportKey:     l.sport.Key,
			SportTitle:   l.sport.Title,
			CommenceTime: start.Add(time.Duration(i/2+1) * 3 * time.Hour).Format(time.RFC3339),
			HomeTeam:     l.teams[i],
			AwayTeam:     l.teams[i+1],
		}

		fair := g.fairProbabilities(l)
		for _, bk := range books {
			outcomes, err := g.quote(l, game, market, fair, format)
			if err != nil {
				return nil, err
			}
			game.Bookmakers = append(game.Bookmakers, events.Bookmaker{
				Key:        bk,
				Title:      title(bk),
				LastUpdate: g.now().UTC().Format(time.RFC3339),
				Link:       "https://" + bk + ".example/event/" + game.ID,
				Markets:    []events.Market{{Key: market, LastUpdate: g.now().UTC().Format(time.RFC3339), Outcomes: outcomes}},
			})
		}
		games = append(games, game)
	}
	return games, nil
}

// fairProbabilities sorteia as probabilidades justas do jogo (casa, visitante e, no futebol, empate)
func (g *Generator) fairProbabilities(l league) []float64 {
	home := 0.3 + g.rng.Float64()*0.4
	if !l.hasDraw {
		return []float64{home, 1 - home}
	}
	draw := 0.22 + g.rng.Float64()*0.08
	rest := 1 - draw
	return []float64{home * rest, rest - home*rest, draw}
}

func (g *Generator) quote(l league, game events.Game, market string, fair []float64, format oddsmath.Format) ([]events.Outcome, error) {
	margin := 0.02 + g.rng.Float64()*0.05

	var outcomes []events.Outcome
	switch market {
	case "h2h":
		names := []string{game.HomeTeam, game.AwayTeam, "Draw"}
		for i, p := range fair {
			outcomes = append(outcomes, events.Outcome{Name: names[i], Price: g.price(p, margin)})
		}
	case "totals":
		line := l.baseTotal + g.lineShift()
		outcomes = []events.Outcome{
			{Name: "Over", Price: g.price(0.5, margin), Point: events.PointPtr(line)},
			{Name: "Under", Price: g.price(0.5, margin), Point: events.PointPtr(line)},
		}
	case "spreads":
		line := -spreadFor(fair[0]-fair[1]) + g.lineShift()
		outcomes = []events.Outcome{
			{Name: game.HomeTeam, Price: g.price(0.5, margin), Point: events.PointPtr(line)},
			{Name: game.AwayTeam, Price: g.price(0.5, margin), Point: events.PointPtr(-line)},
		}
	}

	if format == oddsmath.FormatAmerican {
		for i := range outcomes {
			american, err := oddsmath.DecimalToAmerican(outcomes[i].Price)
			if err != nil {
				return nil, err
			}
			outcomes[i].Price = float64(american)
		}
	}
	return outcomes, nil
}

// price aplica margem e ruído de ±6% sobre a probabilidade justa; 2 casas, mínimo 1.01
func (g *Generator) price(p, margin float64) float64 {
	noise := 0.94 + g.rng.Float64()*0.12
	dec := 1 / (p * (1 + margin) * noise)
	return math.Max(1.01, math.Round(dec*100)/100)
}

// lineShift desloca a linha de uma casa em 0 ou ±1 ponto
func (g *Generator) lineShift() float64 {
	return float64(g.rng.Intn(3) - 1)
}

// spreadFor converte a diferença de probabilidade em linha de handicap terminada em .5
func spreadFor(edge float64) float64 {
	return math.Floor(edge*20) + 0.5
}

func (g *Generator) selectBookmakers(filter []string) []string {
	if len(filter) == 0 {
		return g.Bookmakers
	}
	allowed := make(map[string]struct{}, len(filter))
	for _, b := range filter {
		allowed[b] = struct{}{}
	}
	var out []string
	for _, b := range g.Bookmakers {
		if _, ok := allowed[b]; ok {
			out = append(out, b)
		}
	}
	return out
}

func find(sport string) (league, bool) {
	for _, l := range catalog {
		if l.sport.Key == sport {
			return l, true
		}
	}
	return league{}, false
}

// title gera o nome de exibição a partir da chave ("williamhill_us" → "Williamhill Us")
func title(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
