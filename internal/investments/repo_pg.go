package investments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements HoldingsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Portfolio, error) {
	const query = `
SELECT user_id, holdings, source_name, imported_at
FROM investment_holdings
WHERE user_id = $1`
	var (
		p   Portfolio
		raw []byte
	)
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&p.UserID, &raw, &p.SourceName, &p.ImportedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Portfolio{}, ErrNotFound
		}
		return Portfolio{}, err
	}
	if err := json.Unmarshal(raw, &p.Holdings); err != nil {
		return Portfolio{}, fmt.Errorf("decode holdings: %w", err)
	}
	return p, nil
}

// Replace upserts the user's holdings, discarding any previous import.
func (r *PGRepo) Replace(ctx context.Context, p Portfolio) error {
	const query = `
INSERT INTO investment_holdings (user_id, holdings, source_name, imported_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE
SET holdings = EXCLUDED.holdings,
    source_name = EXCLUDED.source_name,
    imported_at = EXCLUDED.imported_at`
	raw, err := json.Marshal(p.Holdings)
	if err != nil {
		return fmt.Errorf("encode holdings: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query, p.UserID, raw, p.SourceName, p.ImportedAt)
	return err
}
