package events

import "time"

// OddsSnapshot é publicado no tópico "odds_snapshots" pelo odds-ingest-service.
// Cada snapshot corresponde a uma requisição (esporte + mercado) à Odds API,
// com todas as cotações em um único formato declarado em OddsFormat.
type OddsSnapshot struct {
	SnapshotID string    `json:"snapshot_id"`
	SportKey   string    `json:"sport_key"`
	MarketKey  string    `json:"market_key"`
	OddsFormat string    `json:"odds_format"` // "decimal" | "american"
	Games      []Game    `json:"games"`
	FetchedAt  time.Time `json:"fetched_at"`
	Source     string    `json:"source"`
	Error      string    `json:"error,omitempty"` // preenchido quando a busca falhou (Games vazio)
}

// ArbitrageSnapshot é o resultado de um ciclo de avaliação de um OddsSnapshot
type ArbitrageSnapshot struct {
	SnapshotID    string          `json:"snapshot_id"`
	SportKey      string          `json:"sport_key"`
	MarketKey     string          `json:"market_key"`
	Games         []AnnotatedGame `json:"games"`
	Opportunities int             `json:"opportunities"`
	EvaluatedAt   time.Time       `json:"evaluated_at"`
}

// ArbitrageDetected é publicado no tópico "arbitrage_detected" para cada jogo com arbitragem
type ArbitrageDetected struct {
	SnapshotID   string               `json:"snapshot_id"`
	GameID       string               `json:"game_id"`
	SportKey     string               `json:"sport_key"`
	MarketKey    string               `json:"market_key"`
	HomeTeam     string               `json:"home_team"`
	AwayTeam     string               `json:"away_team"`
	CommenceTime string               `json:"commence_time"`
	Opportunity  ArbitrageOpportunity `json:"opportunity"`
	DetectedAt   time.Time            `json:"detected_at"`
}

// ChannelKey identifica o par esporte/mercado em caches, canais e chaves Kafka
func ChannelKey(sportKey, marketKey string) string { return sportKey + ":" + marketKey }
