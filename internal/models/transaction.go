package models

import (
	"fmt"
	"time"
)

// TransactionType tags a transaction as money coming in or going out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// WalletType identifies one of the two fixed wallets.
type WalletType string

const (
	WalletCash    WalletType = "cash"
	WalletAccount WalletType = "account"
)

// Valid reports whether w is one of the two known wallets.
func (w WalletType) Valid() bool {
	return w == WalletCash || w == WalletAccount
}

// Period selects the granularity of a time-filtered view.
// Only MONTH is currently exercised by the dashboard; the other
// granularities are declared extension points and filter nothing.
type Period string

const (
	PeriodDay   Period = "DAY"
	PeriodWeek  Period = "WEEK"
	PeriodMonth Period = "MONTH"
	PeriodYear  Period = "YEAR"
)

// civilLayout is the wire and storage format for transaction dates:
// a local date+time with no timezone designator.
const civilLayout = "2006-01-02T15:04:05"

// CivilTime is a local date+time without a timezone, serialized as
// "YYYY-MM-DDTHH:mm:ss".
type CivilTime struct {
	time.Time
}

// NewCivilTime truncates t to second precision in its own location.
func NewCivilTime(t time.Time) CivilTime {
	return CivilTime{t.Truncate(time.Second)}
}

// ParseCivilTime parses the "YYYY-MM-DDTHH:mm:ss" wire format.
func ParseCivilTime(s string) (CivilTime, error) {
	t, err := time.ParseInLocation(civilLayout, s, time.Local)
	if err != nil {
		return CivilTime{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return CivilTime{t}, nil
}

// String formats the civil layout.
func (c CivilTime) String() string {
	return c.Format(civilLayout)
}

// MarshalJSON implements json.Marshaler.
func (c CivilTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *CivilTime) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid civil time %s", b)
	}
	parsed, err := ParseCivilTime(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Transaction is a single logged income or expense entry.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// Amount is the unsigned magnitude; Type carries the sign.
	// Invariant: Amount > 0.
	Amount float64 `json:"amount"`

	// Type is income or expense.
	Type TransactionType `json:"type"`

	// Wallet is the cash pool this entry belongs to.
	Wallet WalletType `json:"wallet"`

	// Category is a free-text label. No normalization is applied:
	// "Food" and "food" are distinct categories.
	Category string `json:"category"`

	// Description is free text.
	Description string `json:"description"`

	// Date is the local civil date+time the entry was recorded.
	Date CivilTime `json:"date"`
}

// Signed returns the transaction's contribution to a balance:
// +Amount for income, -Amount for expense.
func (t Transaction) Signed() float64 {
	if t.Type == TypeIncome {
		return t.Amount
	}
	return -t.Amount
}
