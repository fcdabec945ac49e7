package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hoangnt/moneytalk/internal/models"
)

// LoadMessages returns a user's chat transcript in append order.
func (s *SQLiteStore) LoadMessages(ctx context.Context, username string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, sender, timestamp, is_transaction_result
		 FROM messages WHERE username = ? ORDER BY seq`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	msgs := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Text, &m.Sender, &m.Timestamp, &m.IsTransactionResult); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return msgs, nil
}

// AppendMessage appends one message to the user's transcript. The
// transcript is append-only; sequence numbers are assigned here.
func (s *SQLiteStore) AppendMessage(ctx context.Context, username string, msg models.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next sql.NullInt64
	if err := tx.QueryRowContext(ctx,
		"SELECT MAX(seq) + 1 FROM messages WHERE username = ?", username,
	).Scan(&next); err != nil {
		return fmt.Errorf("failed to allocate sequence: %w", err)
	}
	seq := int64(0)
	if next.Valid {
		seq = next.Int64
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (username, seq, id, text, sender, timestamp, is_transaction_result)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		username, seq, msg.ID, msg.Text, string(msg.Sender), msg.Timestamp, msg.IsTransactionResult,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit message: %w", err)
	}

	return nil
}
