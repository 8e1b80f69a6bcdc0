package generator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dbchung2/betarb/pkg/arbitrage"
	"github.com/dbchung2/betarb/pkg/oddsmath"
)

var books = []string{"draftkings", "fanduel", "betmgm", "bovada", "williamhill_us"}

func TestOdds_Moneyline(t *testing.T) {
	g := New(books, 7)

	games, err := g.Odds("basketball_nba", "h2h", oddsmath.FormatDecimal, nil)
	require.NoError(t, err)
	require.Len(t, games, 3)

	for _, game := range games {
		assert.Equal(t, "basketball_nba", game.SportKey)
		require.Len(t, game.Bookmakers, len(books))
		for _, bk := range game.Bookmakers {
			require.Len(t, bk.Markets, 1)
			m := bk.Markets[0]
			assert.Equal(t, "h2h", m.Key)
			require.Len(t, m.Outcomes, 2)
			assert.Equal(t, game.HomeTeam, m.Outcomes[0].Name)
			assert.Equal(t, game.AwayTeam, m.Outcomes[1].Name)
			for _, o := range m.Outcomes {
				assert.Greater(t, o.Price, 1.0)
				assert.Nil(t, o.Point)
			}
		}
	}
}

func TestOdds_SoccerHasDraw(t *testing.T) {
	games, err := New(books, 7).Odds("soccer_epl", "h2h", oddsmath.FormatDecimal, nil)
	require.NoError(t, err)
	require.NotEmpty(t, games)
	outcomes := games[0].Bookmakers[0].Markets[0].Outcomes
	require.Len(t, outcomes, 3)
	assert.Equal(t, "Draw", outcomes[2].Name)
}

func TestOdds_American(t *testing.T) {
	games, err := New(books, 11).Odds("americanfootball_nfl", "totals", oddsmath.FormatAmerican, nil)
	require.NoError(t, err)

	for _, game := range games {
		for _, bk := range game.Bookmakers {
			for _, o := range bk.Markets[0].Outcomes {
				assert.Equal(t, math.Trunc(o.Price), o.Price)
				assert.GreaterOrEqual(t, math.Abs(o.Price), 100.0)
				require.NotNil(t, o.Point)
			}
		}
	}
}

func TestOdds_SpreadsMirrorLines(t *testing.T) {
	games, err := New(books, 3).Odds("basketball_nba", "spreads", oddsmath.FormatDecimal, nil)
	require.NoError(t, err)

	for _, game := range games {
		for _, bk := range game.Bookmakers {
			o := bk.Markets[0].Outcomes
			require.Len(t, o, 2)
			assert.Equal(t, *o[0].Point, -*o[1].Point)
		}
	}
}

func TestOdds_BookmakerFilter(t *testing.T) {
	games, err := New(books, 1).Odds("basketball_nba", "h2h", oddsmath.FormatDecimal, []string{"fanduel", "unknown"})
	require.NoError(t, err)
	require.Len(t, games[0].Bookmakers, 1)
	assert.Equal(t, "fanduel", games[0].Bookmakers[0].Key)
	assert.Equal(t, "Fanduel", games[0].Bookmakers[0].Title)
}

func TestOdds_Errors(t *testing.T) {
	g := New(books, 1)

	_, err := g.Odds("curling_world", "h2h", oddsmath.FormatDecimal, nil)
	assert.ErrorIs(t, err, ErrUnknownSport)

	_, err = g.Odds("basketball_nba", "outrights", oddsmath.FormatDecimal, nil)
	assert.ErrorIs(t, err, ErrUnknownMarket)
}

func TestOdds_Deterministic(t *testing.T) {
	a, err := New(books, 99).Odds("basketball_nba", "totals", oddsmath.FormatDecimal, nil)
	require.NoError(t, err)
	b, err := New(books, 99).Odds("basketball_nba", "totals", oddsmath.FormatDecimal, nil)
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, a[i].Bookmakers[0].Markets[0].Outcomes, b[i].Bookmakers[0].Markets[0].Outcomes)
	}
}

func TestOdds_ProducesArbitrage(t *testing.T) {
	g := New([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}, 5)
	engine := arbitrage.NewEngine(zap.NewNop(), 100, 1)

	found := 0
	for round := 0; round < 50; round++ {
		games, err := g.Odds("basketball_nba", "h2h", oddsmath.FormatDecimal, nil)
		require.NoError(t, err)
		for _, annotated := range engine.ProcessGames(games, oddsmath.FormatDecimal) {
			if annotated.HasArbitrage {
				found++
			}
		}
	}
	assert.Positive(t, found)
}

func TestSports(t *testing.T) {
	sports := New(books, 1).Sports()
	require.Len(t, sports, 4)
	assert.Equal(t, "basketball_nba", sports[0].Key)
	assert.False(t, sports[3].Active)
}
