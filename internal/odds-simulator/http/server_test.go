package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dbchung2/betarb/internal/odds-ingest/oddsapi"
	"github.com/dbchung2/betarb/internal/odds-simulator/generator"
)

func newServer(key string, quota int64) *httptest.Server {
	s := &Server{
		Log:       zap.NewNop(),
		Generator: generator.New([]string{"draftkings", "fanduel"}, 42),
		APIKey:    key,
		Quota:     quota,
	}
	return httptest.NewServer(s.Router())
}

// o simulador precisa ser consumível pelo próprio cliente da Odds API
func TestServer_WithOddsAPIClient(t *testing.T) {
	srv := newServer("secret", 10)
	defer srv.Close()

	c := oddsapi.NewClient(srv.URL+"/v4", "secret", []string{"fanduel"})
	remaining := -1
	c.OnQuota = func(n int) { remaining = n }

	sports, err := c.Sports(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, sports)
	assert.Equal(t, 9, remaining)

	games, err := c.Odds(context.Background(), "basketball_nba", "totals", "american")
	require.NoError(t, err)
	require.NotEmpty(t, games)
	require.Len(t, games[0].Bookmakers, 1)
	assert.Equal(t, "fanduel", games[0].Bookmakers[0].Key)
	assert.NotEmpty(t, games[0].Bookmakers[0].Link)
	assert.Equal(t, 8, remaining)
}

func TestServer_Errors(t *testing.T) {
	srv := newServer("secret", 2)
	defer srv.Close()

	get := func(path string) int {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, get("/v4/sports?apiKey=wrong"))
	assert.Equal(t, http.StatusNotFound, get("/v4/sports/curling/odds?apiKey=secret"))
	assert.Equal(t, http.StatusUnprocessableEntity, get("/v4/sports/basketball_nba/odds?apiKey=secret&markets=h2h,totals"))
	assert.Equal(t, http.StatusTooManyRequests, get("/v4/sports?apiKey=secret"))
}
