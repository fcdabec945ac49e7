package sqlite

import (
	"context"
	"fmt"

	"github.com/hoangnt/moneytalk/internal/models"
)

// LoadTransactions returns a user's stored snapshot in its stored order
// (most recent first, as the book maintains it).
func (s *SQLiteStore) LoadTransactions(ctx context.Context, username string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount, type, wallet, category, description, date
		 FROM transactions WHERE username = ? ORDER BY position`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()

	txns := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var date string
		if err := rows.Scan(&t.ID, &t.Amount, &t.Type, &t.Wallet, &t.Category, &t.Description, &date); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Date, err = models.ParseCivilTime(date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored date: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

// ReplaceTransactions atomically swaps the user's full snapshot: every
// mutation writes the whole list, never a delta, inside one database
// transaction.
func (s *SQLiteStore) ReplaceTransactions(ctx context.Context, username string, txns []models.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE username = ?", username); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	for i, t := range txns {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (username, position, id, amount, type, wallet, category, description, date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			username, i, t.ID, t.Amount, string(t.Type), string(t.Wallet), t.Category, t.Description, t.Date.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}
