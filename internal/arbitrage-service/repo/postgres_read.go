package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dbchung2/betarb/internal/arbitrage-service/dto"
)

type ReadRepo struct {
	DB *sql.DB
}

// Filter restringe a listagem; campos vazios não filtram
type Filter struct {
	SportKey  string
	MarketKey string
	MinProfit float64
	Limit     int
}

// ListOpportunities lista o conjunto atual ordenado por lucro decrescente
func (r *ReadRepo) ListOpportunities(ctx context.Context, f Filter) ([]dto.Opportunity, error) {
	const q = `
		SELECT sport_key, market_key, game_id, snapshot_id, home_team, away_team, commence_time,
		       profit_percent, arbitrage_index, total_stake, bets, detected_at
		FROM arbitrage_current
		WHERE ($1 = '' OR sport_key = $1)
		  AND ($2 = '' OR market_key = $2)
		  AND profit_percent >= $3
		ORDER BY profit_percent DESC, commence_time
		LIMIT $4;
	`
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.DB.QueryContext(ctx, q, f.SportKey, f.MarketKey, f.MinProfit, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []dto.Opportunity{}
	for rows.Next() {
		var (
			o    dto.Opportunity
			bets []byte
		)
		if err := rows.Scan(&o.SportKey, &o.MarketKey, &o.GameID, &o.SnapshotID, &o.HomeTeam, &o.AwayTeam,
			&o.CommenceTime, &o.ProfitPercent, &o.ArbitrageIndex, &o.TotalStake, &bets, &o.DetectedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(bets, &o.Bets); err != nil {
			return nil, fmt.Errorf("decode bets %s: %w", o.GameID, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
