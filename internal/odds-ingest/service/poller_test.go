package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dbchung2/betarb/pkg/contracts/events"
)

type fakeSource struct {
	games    map[string][]events.Game
	fail     map[string]error
	sports   []events.Sport
	sportErr error
}

func (f *fakeSource) Sports(context.Context) ([]events.Sport, error) { return f.sports, f.sportErr }

func (f *fakeSource) Odds(_ context.Context, sport, market, _ string) ([]events.Game, error) {
	k := events.ChannelKey(sport, market)
	if err := f.fail[k]; err != nil {
		return nil, err
	}
	return f.games[k], nil
}

type fakePublisher struct{ got []events.OddsSnapshot }

func (f *fakePublisher) Publish(_ context.Context, s events.OddsSnapshot) error {
	f.got = append(f.got, s)
	return nil
}

type fakeSports struct{ got []events.Sport }

func (f *fakeSports) SetSports(_ context.Context, s []events.Sport) error {
	f.got = s
	return nil
}

func TestPoller_Tick(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	src := &fakeSource{
		games: map[string][]events.Game{
			"basketball_nba:h2h": {{ID: "g1"}, {ID: "g2"}},
		},
		fail: map[string]error{
			"basketball_nba:totals": errors.New("status 429"),
		},
		sports: []events.Sport{{Key: "basketball_nba", Group: "Basketball", Active: true}},
	}
	pub := &fakePublisher{}
	store := &fakeSports{}
	var stages []string

	p := &Poller{
		Log:        zap.NewNop(),
		Source:     src,
		Publisher:  pub,
		Sports:     store,
		SportKeys:  []string{"basketball_nba"},
		Markets:    []string{"h2h", "totals"},
		OddsFormat: "american",
		SourceName: "test",
		OnError:    func(stage string) { stages = append(stages, stage) },
		now:        func() time.Time { return fixed },
	}

	p.Tick(context.Background())

	require.Len(t, pub.got, 2)

	h2h := pub.got[0]
	assert.Equal(t, "h2h", h2h.MarketKey)
	assert.Equal(t, "american", h2h.OddsFormat)
	assert.Len(t, h2h.Games, 2)
	assert.Empty(t, h2h.Error)
	assert.NotEmpty(t, h2h.SnapshotID)
	assert.Equal(t, fixed, h2h.FetchedAt)

	totals := pub.got[1]
	assert.Equal(t, "totals", totals.MarketKey)
	assert.NotNil(t, totals.Games)
	assert.Empty(t, totals.Games)
	assert.Equal(t, "status 429", totals.Error)

	assert.NotEqual(t, h2h.SnapshotID, totals.SnapshotID)
	assert.Equal(t, []string{"fetch"}, stages)
	assert.Len(t, store.got, 1)
}

func TestPoller_SportsFailureDoesNotStopOdds(t *testing.T) {
	pub := &fakePublisher{}
	p := &Poller{
		Log:       zap.NewNop(),
		Source:    &fakeSource{sportErr: errors.New("down")},
		Publisher: pub,
		Sports:    &fakeSports{},
		SportKeys: []string{"soccer_epl"},
		Markets:   []string{"h2h"},
	}

	p.Tick(context.Background())

	require.Len(t, pub.got, 1)
	assert.Empty(t, pub.got[0].Games)
}

func TestPoller_CanceledContext(t *testing.T) {
	pub := &fakePublisher{}
	p := &Poller{
		Log:       zap.NewNop(),
		Source:    &fakeSource{},
		Publisher: pub,
		SportKeys: []string{"a", "b"},
		Markets:   []string{"h2h"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Start(ctx)

	assert.Empty(t, pub.got)
}
