// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/hoangnt/moneytalk/internal/models"
)

// Store defines the persistence port for MoneyTalk. All per-user data is
// partitioned by username. The abstraction keeps the domain packages
// testable without a real database and allows swapping backends without
// changing the service layer.
type Store interface {
	// CreateUser persists a new user. Fails if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by username.
	// Returns (nil, nil) when the user does not exist.
	GetUser(ctx context.Context, username string) (*models.User, error)

	// UpdateUser updates a user's display name, avatar, and password hash.
	UpdateUser(ctx context.Context, user *models.User) error

	// LoadTransactions returns the stored snapshot for a user, in stored
	// order (most recent first). A user with no data yields an empty slice.
	LoadTransactions(ctx context.Context, username string) ([]models.Transaction, error)

	// ReplaceTransactions atomically replaces the user's full snapshot.
	ReplaceTransactions(ctx context.Context, username string, txns []models.Transaction) error

	// LoadMessages returns the user's chat transcript in append order.
	LoadMessages(ctx context.Context, username string) ([]models.Message, error)

	// AppendMessage appends one message to the user's transcript.
	AppendMessage(ctx context.Context, username string, msg models.Message) error

	// Close releases any resources held by the store.
	Close() error
}
