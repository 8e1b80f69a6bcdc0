package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dbchung2/betarb/pkg/contracts/events"
)

// Schema da tabela com o conjunto atual de oportunidades; não há histórico.
const Schema = `
	CREATE TABLE IF NOT EXISTS arbitrage_current (
	  sport_key       TEXT        NOT NULL,
	  market_key      TEXT        NOT NULL,
	  game_id         TEXT        NOT NULL,
	  snapshot_id     TEXT        NOT NULL,
	  home_team       TEXT        NOT NULL,
	  away_team       TEXT        NOT NULL,
	  commence_time   TEXT        NOT NULL,
	  profit_percent  NUMERIC(10,2) NOT NULL,
	  arbitrage_index DOUBLE PRECISION NOT NULL,
	  total_stake     NUMERIC(12,2) NOT NULL,
	  bets            JSONB       NOT NULL,
	  detected_at     TIMESTAMPTZ NOT NULL,
	  PRIMARY KEY (sport_key, market_key, game_id)
	)
`

// PostgresRepo persiste o conjunto atual de oportunidades por esporte/mercado
// DB: conexão com o banco de dados
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// EnsureSchema cria a tabela se ainda não existir
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, Schema)
	return err
}

// ReplaceCurrent troca, numa única transação, o conjunto de oportunidades do
// esporte/mercado pelo resultado do ciclo mais recente
func (r *PostgresRepo) ReplaceCurrent(ctx context.Context, sportKey, marketKey string, opps []events.ArbitrageDetected) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM arbitrage_current WHERE sport_key = $1 AND market_key = $2`,
		sportKey, marketKey,
	); err != nil {
		return fmt.Errorf("delete current: %w", err)
	}

	const q = `
		INSERT INTO arbitrage_current
		  (sport_key, market_key, game_id, snapshot_id, home_team, away_team, commence_time,
		   profit_percent, arbitrage_index, total_stake, bets, detected_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (sport_key, market_key, game_id) DO UPDATE SET
		  snapshot_id     = EXCLUDED.snapshot_id,
		  profit_percent  = EXCLUDED.profit_percent,
		  arbitrage_index = EXCLUDED.arbitrage_index,
		  total_stake     = EXCLUDED.total_stake,
		  bets            = EXCLUDED.bets,
		  detected_at     = EXCLUDED.detected_at
	`
	for _, o := range opps {
		bets, err := json.Marshal(o.Opportunity.Bets)
		if err != nil {
			return fmt.Errorf("marshal bets %s: %w", o.GameID, err)
		}
		if _, err := tx.ExecContext(ctx, q,
			o.SportKey, o.MarketKey, o.GameID, o.SnapshotID, o.HomeTeam, o.AwayTeam, o.CommenceTime,
			o.Opportunity.ProfitPercent, o.Opportunity.ArbitrageIndex, o.Opportunity.TotalStake,
			bets, o.DetectedAt,
		); err != nil {
			return fmt.Errorf("insert %s: %w", o.GameID, err)
		}
	}

	return tx.Commit()
}
