package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/hoangnt/moneytalk/internal/models"
)

func tx(amount float64, typ models.TransactionType, wallet models.WalletType, category, date string) models.Transaction {
	d, err := models.ParseCivilTime(date)
	if err != nil {
		panic(err)
	}
	return models.Transaction{
		ID:       date + category,
		Amount:   amount,
		Type:     typ,
		Wallet:   wallet,
		Category: category,
		Date:     d,
	}
}

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name        string
		txns        []models.Transaction
		wantCash    float64
		wantAccount float64
	}{
		{
			name: "empty list yields zero balances",
		},
		{
			name: "income and expense split by wallet",
			txns: []models.Transaction{
				tx(100000, models.TypeIncome, models.WalletCash, "Lương", "2024-03-01T09:00:00"),
				tx(30000, models.TypeExpense, models.WalletCash, "Ăn uống", "2024-03-02T12:00:00"),
				tx(500000, models.TypeIncome, models.WalletAccount, "Lương", "2024-03-05T08:00:00"),
				tx(120000, models.TypeExpense, models.WalletAccount, "Mua sắm", "2024-03-06T19:30:00"),
			},
			wantCash:    70000,
			wantAccount: 380000,
		},
		{
			name: "negative cash balance is possible",
			txns: []models.Transaction{
				tx(50000, models.TypeExpense, models.WalletCash, "Ăn uống", "2024-03-02T12:00:00"),
			},
			wantCash: -50000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBalances(tt.txns)
			if got.Cash != tt.wantCash {
				t.Errorf("cash = %v, want %v", got.Cash, tt.wantCash)
			}
			if got.Account != tt.wantAccount {
				t.Errorf("account = %v, want %v", got.Account, tt.wantAccount)
			}
			if got.Total != got.Cash+got.Account {
				t.Errorf("total = %v, want cash+account = %v", got.Total, got.Cash+got.Account)
			}

			// Total must also equal the sum of signed contributions.
			var signed float64
			for _, x := range tt.txns {
				signed += x.Signed()
			}
			if math.Abs(got.Total-signed) > 1e-9 {
				t.Errorf("total = %v, want signed sum %v", got.Total, signed)
			}
		})
	}
}

func TestFilterPeriodMonth(t *testing.T) {
	txns := []models.Transaction{
		tx(10000, models.TypeExpense, models.WalletCash, "Ăn uống", "2024-03-01T08:00:00"),
		tx(20000, models.TypeExpense, models.WalletCash, "Ăn uống", "2024-02-28T08:00:00"),
		tx(30000, models.TypeIncome, models.WalletCash, "Lương", "2024-03-20T08:00:00"),
		tx(40000, models.TypeExpense, models.WalletCash, "Ăn uống", "2023-03-15T08:00:00"),
		tx(50000, models.TypeExpense, models.WalletAccount, "Mua sắm", "2024-03-10T08:00:00"),
	}
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)

	got := FilterPeriod(txns, models.PeriodMonth, now)

	if len(got) != 3 {
		t.Fatalf("filtered %d transactions, want 3", len(got))
	}
	for _, x := range got {
		if x.Date.Month() != time.March || x.Date.Year() != 2024 {
			t.Errorf("transaction %s outside March 2024", x.Date)
		}
	}
	// Sorted descending by timestamp.
	for i := 1; i < len(got); i++ {
		if got[i].Date.After(got[i-1].Date.Time) {
			t.Errorf("result not sorted descending at index %d", i)
		}
	}
	if got[0].Amount != 30000 || got[2].Amount != 10000 {
		t.Errorf("unexpected order: first=%v last=%v", got[0].Amount, got[2].Amount)
	}
}

func TestFilterPeriodOtherGranularitiesPassThrough(t *testing.T) {
	txns := []models.Transaction{
		tx(10000, models.TypeExpense, models.WalletCash, "Ăn uống", "2024-03-01T08:00:00"),
		tx(20000, models.TypeExpense, models.WalletCash, "Ăn uống", "2021-07-04T08:00:00"),
	}
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)

	for _, p := range []models.Period{models.PeriodDay, models.PeriodWeek, models.PeriodYear} {
		if got := FilterPeriod(txns, p, now); len(got) != len(txns) {
			t.Errorf("period %s filtered to %d, want all %d", p, len(got), len(txns))
		}
	}
}

func TestSummarize(t *testing.T) {
	txns := []models.Transaction{
		tx(100000, models.TypeIncome, models.WalletCash, "Lương", "2024-03-01T08:00:00"),
		tx(30000, models.TypeExpense, models.WalletCash, "Ăn uống", "2024-03-02T08:00:00"),
		tx(20000, models.TypeExpense, models.WalletAccount, "Di chuyển", "2024-03-03T08:00:00"),
	}
	got := Summarize(txns)
	if got.Income != 100000 {
		t.Errorf("income = %v, want 100000", got.Income)
	}
	if got.Expense != 50000 {
		t.Errorf("expense = %v, want 50000", got.Expense)
	}
}

func TestDailySeries(t *testing.T) {
	txns := []models.Transaction{
		tx(30000, models.TypeExpense, models.WalletCash, "Ăn uống", "2024-03-05T12:00:00"),
		tx(100000, models.TypeIncome, models.WalletCash, "Lương", "2024-03-05T08:00:00"),
		tx(20000, models.TypeExpense, models.WalletCash, "Ăn uống", "2024-03-02T19:00:00"),
	}

	got := DailySeries(txns)

	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2", len(got))
	}
	// Ascending chronological order.
	if got[0].Name != "2/3" || got[1].Name != "5/3" {
		t.Fatalf("bucket order = [%s %s], want [2/3 5/3]", got[0].Name, got[1].Name)
	}
	if got[0].Expense != 20000 || got[0].Income != 0 {
		t.Errorf("bucket 2/3 = %+v, want expense 20000, income 0", got[0])
	}
	if got[1].Income != 100000 || got[1].Expense != 30000 {
		t.Errorf("bucket 5/3 = %+v, want income 100000, expense 30000", got[1])
	}
}

func TestDailySeriesEmpty(t *testing.T) {
	if got := DailySeries(nil); len(got) != 0 {
		t.Errorf("got %d buckets from empty input, want 0", len(got))
	}
}

func TestCategoryBreakdown(t *testing.T) {
	txns := []models.Transaction{
		tx(30000, models.TypeExpense, models.WalletCash, "Food", "2024-03-01T08:00:00"),
		tx(20000, models.TypeExpense, models.WalletCash, "Food", "2024-03-02T08:00:00"),
		tx(10000, models.TypeExpense, models.WalletCash, "Transport", "2024-03-03T08:00:00"),
		tx(999999, models.TypeIncome, models.WalletCash, "Salary", "2024-03-04T08:00:00"),
	}

	got := CategoryBreakdown(txns)

	if len(got) != 2 {
		t.Fatalf("got %d categories, want 2 (income excluded)", len(got))
	}
	if got[0].Name != "Food" || got[0].Value != 50000 {
		t.Errorf("first = %+v, want Food 50000", got[0])
	}
	if got[1].Name != "Transport" || got[1].Value != 10000 {
		t.Errorf("second = %+v, want Transport 10000", got[1])
	}
	if got[0].Color != palette[0] || got[1].Color != palette[1] {
		t.Errorf("colors = [%s %s], want palette rank order", got[0].Color, got[1].Color)
	}
}

func TestCategoryBreakdownCaseSensitive(t *testing.T) {
	txns := []models.Transaction{
		tx(30000, models.TypeExpense, models.WalletCash, "Food", "2024-03-01T08:00:00"),
		tx(20000, models.TypeExpense, models.WalletCash, "food", "2024-03-02T08:00:00"),
	}
	got := CategoryBreakdown(txns)
	if len(got) != 2 {
		t.Fatalf("got %d categories, want 2: labels are matched byte for byte", len(got))
	}
}

func TestCategoryBreakdownPaletteWraps(t *testing.T) {
	var txns []models.Transaction
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	for i, n := range names {
		txns = append(txns, tx(float64(1000-i), models.TypeExpense, models.WalletCash, n, "2024-03-01T08:00:00"))
	}
	got := CategoryBreakdown(txns)
	if len(got) != len(names) {
		t.Fatalf("got %d categories, want %d", len(got), len(names))
	}
	if got[7].Color != palette[0] || got[8].Color != palette[1] {
		t.Errorf("palette did not wrap: rank 7 color %s, rank 8 color %s", got[7].Color, got[8].Color)
	}
}
