package oddsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbchung2/betarb/pkg/contracts/events"
)

func TestClient_Odds(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/sports/basketball_nba/odds", r.URL.Path)
		gotQuery = map[string]string{
			"apiKey":     r.URL.Query().Get("apiKey"),
			"markets":    r.URL.Query().Get("markets"),
			"oddsFormat": r.URL.Query().Get("oddsFormat"),
			"bookmakers": r.URL.Query().Get("bookmakers"),
		}
		w.Header().Set("x-requests-remaining", "479")
		_ = json.NewEncoder(w).Encode([]events.Game{{
			ID:       "g1",
			HomeTeam: "Boston Celtics",
			AwayTeam: "Miami Heat",
			Bookmakers: []events.Bookmaker{{
				Title: "FanDuel",
				Markets: []events.Market{{Key: "totals", Outcomes: []events.Outcome{
					{Name: "Over", Price: -110, Point: events.PointPtr(220.5)},
				}}},
			}},
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/v4/", "secret", []string{"fanduel", "draftkings"})
	remaining := 0
	c.OnQuota = func(n int) { remaining = n }

	games, err := c.Odds(context.Background(), "basketball_nba", "totals", "american")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Boston Celtics", games[0].HomeTeam)
	assert.Equal(t, 220.5, *games[0].Bookmakers[0].Markets[0].Outcomes[0].Point)

	assert.Equal(t, map[string]string{
		"apiKey":     "secret",
		"markets":    "totals",
		"oddsFormat": "american",
		"bookmakers": "fanduel,draftkings",
	}, gotQuery)
	assert.Equal(t, 479, remaining)
}

func TestClient_Sports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sports", r.URL.Path)
		_, _ = w.Write([]byte(`[{"key":"basketball_nba","group":"Basketball","title":"NBA","active":true}]`))
	}))
	defer srv.Close()

	sports, err := NewClient(srv.URL, "", nil).Sports(context.Background())
	require.NoError(t, err)
	require.Len(t, sports, 1)
	assert.Equal(t, "Basketball", sports[0].Group)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", nil).Odds(context.Background(), "soccer_epl", "h2h", "decimal")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "quota exceeded", apiErr.Body)
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", nil).Odds(context.Background(), "soccer_epl", "h2h", "decimal")
	assert.ErrorContains(t, err, "decode")
}
