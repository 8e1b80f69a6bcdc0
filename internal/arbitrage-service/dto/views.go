package dto

import (
	"time"

	"github.com/dbchung2/betarb/pkg/contracts/events"
)

// BetView é uma perna da arbitragem com a odd formatada para exibição
type BetView struct {
	events.Bet
	DisplayOdds string `json:"displayOdds"`
}

// OpportunityView é a oportunidade com as pernas já formatadas
type OpportunityView struct {
	ProfitPercent  float64   `json:"profit"`
	ArbitrageIndex float64   `json:"arbitrage_index"`
	TotalStake     float64   `json:"total_stake"`
	Bets           []BetView `json:"bets"`
}

// GameView representa um jogo anotado como exibido na grade
type GameView struct {
	events.Game
	HasArbitrage         bool             `json:"hasArbitrage"`
	ArbitrageProfit      *float64         `json:"arbitrageProfit,omitempty"`
	ArbitrageOpportunity *OpportunityView `json:"arbitrageOpportunity,omitempty"`
}

// ArbitrageResponse é a resposta de GET /v1/arbitrage/{sport}/{market}
type ArbitrageResponse struct {
	SnapshotID     string     `json:"snapshotId"`
	SportKey       string     `json:"sportKey"`
	MarketKey      string     `json:"marketKey"`
	EvaluatedAt    time.Time  `json:"evaluatedAt"`
	Sort           string     `json:"sort"`
	Display        string     `json:"display"`
	TotalGames     int        `json:"totalGames"`
	ArbitrageGames int        `json:"arbitrageGames"`
	Games          []GameView `json:"games"`
}

// EvaluateRequest é o corpo de POST /v1/arbitrage/evaluate
type EvaluateRequest struct {
	Games []events.Game `json:"games"`
}

// EvaluateResponse devolve os jogos anotados na mesma ordem da requisição
type EvaluateResponse struct {
	Games          []events.AnnotatedGame `json:"games"`
	ArbitrageGames int                    `json:"arbitrageGames"`
}

// Opportunity é uma linha do conjunto atual persistido
type Opportunity struct {
	SportKey       string       `json:"sportKey"`
	MarketKey      string       `json:"marketKey"`
	GameID         string       `json:"gameId"`
	SnapshotID     string       `json:"snapshotId"`
	HomeTeam       string       `json:"homeTeam"`
	AwayTeam       string       `json:"awayTeam"`
	CommenceTime   string       `json:"commenceTime"`
	ProfitPercent  float64      `json:"profit"`
	ArbitrageIndex float64      `json:"arbitrageIndex"`
	TotalStake     float64      `json:"totalStake"`
	Bets           []events.Bet `json:"bets"`
	DetectedAt     time.Time    `json:"detectedAt"`
}
