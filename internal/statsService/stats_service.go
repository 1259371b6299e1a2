package stats

import (
	"fmt"
	"time"

	"auction-market/internal/accesspolicy"
	"auction-market/internal/auctionerrors"
	"auction-market/internal/models"
	"auction-market/internal/repository"
)

// StatsService exposes the admin KPI block. Auction phases are computed
// against the current time on every call, consistent with how closedness is
// evaluated everywhere else.
type StatsService struct {
	stats repository.StatsStore
}

// NewStatsService creates a new StatsService instance.
func NewStatsService(stats repository.StatsStore) *StatsService {
	return &StatsService{stats: stats}
}

// Collect returns the platform KPI numbers, admin only.
func (s *StatsService) Collect(user models.User) (repository.Stats, error) {
	if !accesspolicy.CanViewMarketData(user) {
		return repository.Stats{}, fmt.Errorf("collect stats: %w", auctionerrors.ErrForbidden)
	}
	st, err := s.stats.CollectStats(time.Now().UTC())
	if err != nil {
		return repository.Stats{}, fmt.Errorf("collect stats: %w", err)
	}
	return st, nil
}
