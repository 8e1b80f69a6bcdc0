package topics

const (
	// Odds
	OddsSnapshots = "odds_snapshots"

	// Arbitragem
	ArbitrageDetected = "arbitrage_detected"

	// DLQs
	OddsSnapshotsDLQ = "odds_snapshots_dlq"
)
