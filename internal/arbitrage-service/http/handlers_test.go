package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dbchung2/betarb/internal/arbitrage-service/dto"
	"github.com/dbchung2/betarb/internal/arbitrage-service/repo"
	"github.com/dbchung2/betarb/pkg/arbitrage"
	"github.com/dbchung2/betarb/pkg/contracts/events"
)

type fakeCache struct {
	snaps  map[string]events.ArbitrageSnapshot
	groups []events.SportGroup
	err    error
}

func (f *fakeCache) GetSnapshot(_ context.Context, sport, market string) (events.ArbitrageSnapshot, bool, error) {
	if f.err != nil {
		return events.ArbitrageSnapshot{}, false, f.err
	}
	s, ok := f.snaps[events.ChannelKey(sport, market)]
	return s, ok, nil
}

func (f *fakeCache) GetSportGroups(context.Context) ([]events.SportGroup, bool, error) {
	return f.groups, f.groups != nil, f.err
}

type fakeRepo struct {
	filter repo.Filter
	opps   []dto.Opportunity
}

func (f *fakeRepo) ListOpportunities(_ context.Context, flt repo.Filter) ([]dto.Opportunity, error) {
	f.filter = flt
	return f.opps, nil
}

func newAPI(c *fakeCache, r *fakeRepo) *API {
	return &API{
		Log:      zap.NewNop(),
		Cache:    c,
		ReadRepo: r,
		Engine:   arbitrage.NewEngine(zap.NewNop(), 100, 2),
	}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func snapshot() events.ArbitrageSnapshot {
	profit := 7.44
	return events.ArbitrageSnapshot{
		SnapshotID:    "snap-1",
		SportKey:      "basketball_nba",
		MarketKey:     "h2h",
		Opportunities: 1,
		EvaluatedAt:   time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
		Games: []events.AnnotatedGame{
			{Game: events.Game{ID: "none", SportTitle: "NBA"}},
			{
				Game:            events.Game{ID: "arb", SportTitle: "NBA"},
				HasArbitrage:    true,
				ArbitrageProfit: &profit,
				ArbitrageOpportunity: &events.ArbitrageOpportunity{
					ProfitPercent: profit,
					Bets: []events.Bet{
						{Bookmaker: "Bk1", Outcome: "Team A", Odds: 2.2, Stake: 48.84, Return: 107.44},
						{Bookmaker: "Bk2", Outcome: "Team B", Odds: 2.1, Stake: 51.16, Return: 107.44},
					},
				},
			},
		},
	}
}

func TestGetArbitrage(t *testing.T) {
	api := newAPI(&fakeCache{snaps: map[string]events.ArbitrageSnapshot{"basketball_nba:h2h": snapshot()}}, &fakeRepo{})
	h := api.Router()

	rec := do(t, h, http.MethodGet, "/v1/arbitrage/basketball_nba/h2h?display=american", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ArbitrageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "snap-1", resp.SnapshotID)
	assert.Equal(t, 2, resp.TotalGames)
	assert.Equal(t, 1, resp.ArbitrageGames)
	assert.Equal(t, "profit", resp.Sort)
	require.Len(t, resp.Games, 2)
	assert.Equal(t, "arb", resp.Games[0].ID)
	assert.Equal(t, "+120", resp.Games[0].ArbitrageOpportunity.Bets[0].DisplayOdds)
	assert.Equal(t, "+110", resp.Games[0].ArbitrageOpportunity.Bets[1].DisplayOdds)

	rec = do(t, h, http.MethodGet, "/v1/arbitrage/basketball_nba/h2h?only=arbitrage", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Games, 1)
}

func TestGetArbitrage_Errors(t *testing.T) {
	h := newAPI(&fakeCache{snaps: map[string]events.ArbitrageSnapshot{}}, &fakeRepo{}).Router()

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/arbitrage/soccer_epl/h2h", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/arbitrage/soccer_epl/h2h?sort=bookmaker", "").Code)

	broken := newAPI(&fakeCache{err: errors.New("redis down")}, &fakeRepo{}).Router()
	assert.Equal(t, http.StatusInternalServerError, do(t, broken, http.MethodGet, "/v1/arbitrage/soccer_epl/h2h", "").Code)
}

func TestListSports(t *testing.T) {
	groups := []events.SportGroup{{Group: "Basketball", Sports: []events.Sport{{Key: "basketball_nba"}}}}
	h := newAPI(&fakeCache{groups: groups}, &fakeRepo{}).Router()

	rec := do(t, h, http.MethodGet, "/v1/sports", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []events.SportGroup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, groups, got)

	empty := newAPI(&fakeCache{}, &fakeRepo{}).Router()
	assert.Equal(t, http.StatusNotFound, do(t, empty, http.MethodGet, "/v1/sports", "").Code)
}

func TestEvaluate(t *testing.T) {
	h := newAPI(&fakeCache{}, &fakeRepo{}).Router()
	body := `{"games":[
		{"id":"g1","home_team":"Team A","away_team":"Team B","bookmakers":[
			{"title":"Bookmaker 1","markets":[{"key":"h2h","outcomes":[{"name":"Team A","price":120},{"name":"Team B","price":-130}]}]},
			{"title":"Bookmaker 2","markets":[{"key":"h2h","outcomes":[{"name":"Team A","price":110},{"name":"Team B","price":-110}]}]}
		]},
		{"id":"g2","bookmakers":[]}
	]}`

	rec := do(t, h, http.MethodPost, "/v1/arbitrage/evaluate?format=american&stake=200", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Games, 2)
	assert.Equal(t, 1, resp.ArbitrageGames)
	assert.True(t, resp.Games[0].HasArbitrage)
	assert.InDelta(t, 2.21, *resp.Games[0].ArbitrageProfit, 0.01)
	assert.Equal(t, 200.0, resp.Games[0].ArbitrageOpportunity.TotalStake)
	assert.False(t, resp.Games[1].HasArbitrage)
}

func TestEvaluate_BadRequests(t *testing.T) {
	h := newAPI(&fakeCache{}, &fakeRepo{}).Router()

	tests := []struct {
		name, target, body string
	}{
		{"unknown format", "/v1/arbitrage/evaluate?format=fractional", `{"games":[]}`},
		{"negative stake", "/v1/arbitrage/evaluate?stake=-5", `{"games":[]}`},
		{"bad body", "/v1/arbitrage/evaluate", `{"games":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, tt.target, tt.body).Code)
		})
	}
}

func TestListOpportunities(t *testing.T) {
	r := &fakeRepo{opps: []dto.Opportunity{{GameID: "g1", ProfitPercent: 3.1}}}
	h := newAPI(&fakeCache{}, r).Router()

	rec := do(t, h, http.MethodGet, "/v1/opportunities?sport=basketball_nba&market=h2h&min_profit=1.5&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, repo.Filter{SportKey: "basketball_nba", MarketKey: "h2h", MinProfit: 1.5, Limit: 10}, r.filter)

	var got []dto.Opportunity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "g1", got[0].GameID)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/opportunities?limit=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/opportunities?min_profit=abc", "").Code)
}

func TestObserveReportsRoutePattern(t *testing.T) {
	api := newAPI(&fakeCache{snaps: map[string]events.ArbitrageSnapshot{}}, &fakeRepo{})
	var route string
	var status int
	api.OnRequest = func(r string, s int) { route, status = r, s }

	do(t, api.Router(), http.MethodGet, "/v1/arbitrage/basketball_nba/totals", "")

	assert.Equal(t, "/v1/arbitrage/{sport}/{market}", route)
	assert.Equal(t, http.StatusNotFound, status)
}
