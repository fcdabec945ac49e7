package service

import (
	"context"
	"time"

	"github.com/hoangnt/moneytalk/internal/book"
	"github.com/hoangnt/moneytalk/internal/ledger"
	"github.com/hoangnt/moneytalk/internal/models"
)

// recentLimit caps the dashboard's recent-transactions strip.
const recentLimit = 5

// DashboardView is the read model backing the overview and stats screens:
// every field is recomputed from the transaction list on each request.
type DashboardView struct {
	Balances ledger.Balances        `json:"balances"`
	Summary  ledger.Summary         `json:"summary"`
	Recent   []models.Transaction   `json:"recent"`
	Filtered []models.Transaction   `json:"transactions"`
	BarData  []ledger.SeriesPoint   `json:"barData"`
	PieData  []ledger.CategoryPoint `json:"pieData"`
}

// DashboardService assembles derived views over a user's book.
type DashboardService struct {
	shelf *book.Shelf
	now   func() time.Time
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(shelf *book.Shelf) *DashboardService {
	return &DashboardService{shelf: shelf, now: time.Now}
}

// View computes the full dashboard for one user and period. Balances
// always cover the unfiltered list; the summary, series, and breakdown
// cover the period window.
func (s *DashboardService) View(ctx context.Context, username string, period models.Period) (*DashboardView, error) {
	b, err := s.shelf.Open(ctx, username)
	if err != nil {
		return nil, err
	}

	txns := b.Snapshot()
	filtered := ledger.FilterPeriod(txns, period, s.now())

	recent := filtered
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return &DashboardView{
		Balances: ledger.ComputeBalances(txns),
		Summary:  ledger.Summarize(filtered),
		Recent:   recent,
		Filtered: filtered,
		BarData:  ledger.DailySeries(filtered),
		PieData:  ledger.CategoryBreakdown(filtered),
	}, nil
}
