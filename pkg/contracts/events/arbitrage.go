package events

// Bet é uma perna da arbitragem: onde apostar, quanto e quanto retorna.
// Odds é sempre decimal, independente do formato da fonte.
type Bet struct {
	Bookmaker string   `json:"bookmaker"`
	Outcome   string   `json:"team"`
	Point     *float64 `json:"point,omitempty"`
	Odds      float64  `json:"odds"`
	Stake     float64  `json:"stake"`
	Return    float64  `json:"return"`
}

// ArbitrageOpportunity é o resultado de uma arbitragem encontrada
type ArbitrageOpportunity struct {
	ProfitPercent  float64 `json:"profit"`
	ArbitrageIndex float64 `json:"arbitrage_index"`
	TotalStake     float64 `json:"total_stake"`
	Bets           []Bet   `json:"bets"`
}

// AnnotatedGame é o jogo original anotado com o status de arbitragem.
// Criado pelo processador em lote e nunca alterado depois.
type AnnotatedGame struct {
	Game
	HasArbitrage         bool                  `json:"hasArbitrage"`
	ArbitrageProfit      *float64              `json:"arbitrageProfit,omitempty"`
	ArbitrageOpportunity *ArbitrageOpportunity `json:"arbitrageOpportunity,omitempty"`
}
