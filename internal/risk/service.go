package risk

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"finance-backend/internal/shared/telemetry"
)

// Service scores questionnaires and records the results.
type Service struct {
	Repo    AnalysesRepo
	Weights Weights
	Now     func() time.Time
}

func NewService(repo AnalysesRepo) *Service {
	return &Service{Repo: repo, Weights: DefaultWeights(), Now: time.Now}
}

// Analyze validates the input, scores it and appends a new analysis for the user.
func (s *Service) Analyze(ctx context.Context, userID string, in ProfileInput) (Analysis, error) {
	if strings.TrimSpace(userID) == "" {
		return Analysis{}, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	profile, err := in.Profile()
	if err != nil {
		return Analysis{}, err
	}
	w := s.Weights
	if math.Abs(w.Sum()-1) > 1e-9 {
		w = DefaultWeights()
	}

	a := Analysis{
		ID:        uuid.NewString(),
		UserID:    userID,
		Profile:   profile,
		Result:    Evaluate(profile, w),
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return Analysis{}, fmt.Errorf("save risk analysis: %w", err)
	}
	telemetry.Info("risk.analyzed", map[string]any{
		"user_id":  userID,
		"score":    a.Result.Score,
		"category": a.Result.Category,
	})
	return a, nil
}

// Latest returns the user's newest analysis or ErrNotFound.
func (s *Service) Latest(ctx context.Context, userID string) (Analysis, error) {
	return s.Repo.Latest(ctx, userID)
}

func (s *Service) History(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	return s.Repo.ListByUser(ctx, userID, limit)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
