package risk

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements AnalysesRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, age, investment_horizon, risk_tolerance, emergency_fund, income_stability,
    risk_score, risk_category, asset_allocation, recommendations, created_at`

func (r *PGRepo) Create(ctx context.Context, a Analysis) error {
	const query = `
INSERT INTO risk_analyses (
    id,
    user_id,
    age,
    investment_horizon,
    risk_tolerance,
    emergency_fund,
    income_stability,
    risk_score,
    risk_category,
    asset_allocation,
    recommendations,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	allocation, err := json.Marshal(a.Result.Allocation)
	if err != nil {
		return fmt.Errorf("encode allocation: %w", err)
	}
	recs, err := json.Marshal(a.Result.Recommendations)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		a.Profile.Age,
		a.Profile.InvestmentHorizon,
		a.Profile.RiskTolerance,
		a.Profile.EmergencyFund,
		a.Profile.IncomeStability,
		a.Result.Score,
		a.Result.Category,
		allocation,
		recs,
		a.CreatedAt,
	)
	return err
}

func (r *PGRepo) Latest(ctx context.Context, userID string) (Analysis, error) {
	query := `SELECT ` + selectColumns + `
FROM risk_analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1`
	a, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return a, err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	query := `SELECT ` + selectColumns + `
FROM risk_analyses
WHERE user_id = $1
ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += "\nLIMIT $2"
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner) (Analysis, error) {
	var (
		a          Analysis
		allocation []byte
		recs       []byte
	)
	if err := s.Scan(
		&a.ID,
		&a.UserID,
		&a.Profile.Age,
		&a.Profile.InvestmentHorizon,
		&a.Profile.RiskTolerance,
		&a.Profile.EmergencyFund,
		&a.Profile.IncomeStability,
		&a.Result.Score,
		&a.Result.Category,
		&allocation,
		&recs,
		&a.CreatedAt,
	); err != nil {
		return Analysis{}, err
	}
	if err := json.Unmarshal(allocation, &a.Result.Allocation); err != nil {
		return Analysis{}, fmt.Errorf("decode allocation: %w", err)
	}
	if err := json.Unmarshal(recs, &a.Result.Recommendations); err != nil {
		return Analysis{}, fmt.Errorf("decode recommendations: %w", err)
	}
	return a, nil
}
