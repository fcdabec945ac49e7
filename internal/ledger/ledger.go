// Package ledger computes derived views over a transaction snapshot:
// wallet balances, period-filtered lists, daily income/expense series,
// and per-category expense breakdowns.
//
// Every function is pure and side-effect free. Balances are recomputed on
// every read rather than cached; the lists involved are small enough that
// this is correct and sufficient.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/hoangnt/moneytalk/internal/models"
)

// Balances holds the derived totals for both wallets.
// Invariant: Total == Cash + Account.
type Balances struct {
	Cash    float64 `json:"cash"`
	Account float64 `json:"account"`
	Total   float64 `json:"total"`
}

// Summary holds income and expense totals over a filtered set.
type Summary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// SeriesPoint is one day's income/expense bucket for the bar chart.
type SeriesPoint struct {
	Name    string  `json:"name"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// CategoryPoint is one category's summed expense for the pie chart.
type CategoryPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// palette is cycled by sort rank when coloring category points.
var palette = []string{"#6366f1", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6", "#ec4899", "#14b8a6"}

// ComputeBalances folds the full transaction list into per-wallet totals.
// Each transaction contributes its signed amount to exactly one wallet.
func ComputeBalances(txns []models.Transaction) Balances {
	var b Balances
	for _, t := range txns {
		if t.Wallet == models.WalletCash {
			b.Cash += t.Signed()
		} else {
			b.Account += t.Signed()
		}
	}
	b.Total = b.Cash + b.Account
	return b
}

// FilterPeriod retains transactions whose date falls in the same calendar
// window as now, sorted most recent first. Only MONTH actually filters;
// the remaining granularities are declared extension points and pass
// everything through.
func FilterPeriod(txns []models.Transaction, period models.Period, now time.Time) []models.Transaction {
	filtered := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if period == models.PeriodMonth {
			if t.Date.Month() != now.Month() || t.Date.Year() != now.Year() {
				continue
			}
		}
		filtered = append(filtered, t)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date.Time)
	})
	return filtered
}

// Summarize sums income and expense over an already-filtered set.
func Summarize(txns []models.Transaction) Summary {
	var s Summary
	for _, t := range txns {
		if t.Type == models.TypeIncome {
			s.Income += t.Amount
		} else {
			s.Expense += t.Amount
		}
	}
	return s
}

// DailySeries groups transactions into day-of-month buckets labelled
// "D/M", summing income and expense separately per bucket. Buckets are
// emitted in ascending chronological order; days with no activity are
// not synthesized.
func DailySeries(txns []models.Transaction) []SeriesPoint {
	type bucket struct {
		day   time.Time
		point SeriesPoint
	}
	index := make(map[string]int)
	var buckets []bucket

	for _, t := range txns {
		key := fmt.Sprintf("%d/%d", t.Date.Day(), int(t.Date.Month()))
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			day := time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, t.Date.Location())
			buckets = append(buckets, bucket{day: day, point: SeriesPoint{Name: key}})
		}
		if t.Type == models.TypeIncome {
			buckets[i].point.Income += t.Amount
		} else {
			buckets[i].point.Expense += t.Amount
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].day.Before(buckets[j].day)
	})

	points := make([]SeriesPoint, len(buckets))
	for i, b := range buckets {
		points[i] = b.point
	}
	return points
}

// CategoryBreakdown sums expenses per category label, sorted descending
// by value, and colors each point by cycling the palette over the sort
// rank. Labels are matched byte for byte: "Food" and "food" are distinct
// categories, deliberately.
func CategoryBreakdown(txns []models.Transaction) []CategoryPoint {
	index := make(map[string]int)
	var points []CategoryPoint
	for _, t := range txns {
		if t.Type != models.TypeExpense {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(points)
			index[t.Category] = i
			points = append(points, CategoryPoint{Name: t.Category})
		}
		points[i].Value += t.Amount
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value > points[j].Value
	})
	for i := range points {
		points[i].Color = palette[i%len(palette)]
	}
	return points
}
