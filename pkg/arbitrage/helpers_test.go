package arbitrage_test

import "github.com/dbchung2/betarb/pkg/contracts/events"

func outcome(name string, price float64) events.Outcome {
	return events.Outcome{Name: name, Price: price}
}

func pointOutcome(name string, price, point float64) events.Outcome {
	return events.Outcome{Name: name, Price: price, Point: events.PointPtr(point)}
}

func bookmaker(title, market string, outcomes ...events.Outcome) events.Bookmaker {
	return events.Bookmaker{
		Key:     title,
		Title:   title,
		Markets: []events.Market{{Key: market, Outcomes: outcomes}},
	}
}

func game(id string, bookmakers ...events.Bookmaker) events.Game {
	return events.Game{
		ID:           id,
		SportKey:     "basketball_nba",
		SportTitle:   "NBA",
		CommenceTime: "2024-01-01T00:00:00Z",
		HomeTeam:     "Team A",
		AwayTeam:     "Team B",
		Bookmakers:   bookmakers,
	}
}

func findBet(bets []events.Bet, name string) (events.Bet, bool) {
	for _, b := range bets {
		if b.Outcome == name {
			return b, true
		}
	}
	return events.Bet{}, false
}
