package investments

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"finance-backend/internal/shared/telemetry"
	"finance-backend/internal/tabular"
)

// Service imports and summarizes investment holdings.
type Service struct {
	Repo HoldingsRepo
	Now  func() time.Time
}

func NewService(repo HoldingsRepo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// Import parses an XLSX or CSV upload and replaces the user's holdings with its rows.
func (s *Service) Import(ctx context.Context, userID, fileName string, data []byte) ([]Investment, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if ext != tabular.TypeXLSX && ext != tabular.TypeCSV {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(fileName))
	}
	table, err := tabular.Read(data, ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	holdings, err := Parse(table)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return nil, ErrNoData
	}

	p := Portfolio{
		UserID:     userID,
		Holdings:   holdings,
		SourceName: filepath.Base(fileName),
		ImportedAt: s.now(),
	}
	if err := s.Repo.Replace(ctx, p); err != nil {
		return nil, fmt.Errorf("save holdings: %w", err)
	}
	telemetry.Info("investments.imported", map[string]any{
		"user_id": userID,
		"count":   len(holdings),
		"source":  p.SourceName,
	})
	return holdings, nil
}

// List returns the user's imported holdings, or the sample portfolio when none exist.
func (s *Service) List(ctx context.Context, userID string) ([]Investment, bool, error) {
	p, err := s.Repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return SampleHoldings(), true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return p.Holdings, false, nil
}

// Summary aggregates the holdings List would return.
func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	p, err := s.Repo.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		sum := Summarize(SampleHoldings())
		sum.Sample = true
		return sum, nil
	case err != nil:
		return Summary{}, err
	}
	sum := Summarize(p.Holdings)
	importedAt := p.ImportedAt
	sum.ImportedAt = &importedAt
	return sum, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
