// Package book holds a user's in-memory transaction list and its mutation
// entrypoints. The list is the source of truth for a session; the injected
// sink is a durability layer written through on every mutation.
package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hoangnt/moneytalk/internal/models"
)

// Defaults applied when the classifier or a tool call omits fields.
const (
	DefaultCategory    = "Khác"
	DefaultDescription = "Giao dịch từ giọng nói"

	TransferOutCategory = "Chuyển tiền"
	TransferInCategory  = "Nhận tiền"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidType   = errors.New("unknown transaction type")
	ErrInvalidWallet = errors.New("unknown wallet")
)

// Sink persists a user's full transaction snapshot. Writes replace the
// previous snapshot wholesale; there is no delta persistence.
type Sink interface {
	ReplaceTransactions(ctx context.Context, username string, txns []models.Transaction) error
}

// Book is one user's transaction list. The slice is ordered most recent
// first; mutations run to completion under the lock, and the snapshot is
// durably persisted before any mutation returns.
type Book struct {
	username string
	sink     Sink

	mu   sync.Mutex
	txns []models.Transaction

	// now is swappable for tests.
	now func() time.Time
}

// New creates a Book seeded with an existing snapshot.
func New(username string, txns []models.Transaction, sink Sink) *Book {
	return &Book{
		username: username,
		sink:     sink,
		txns:     txns,
		now:      time.Now,
	}
}

// Snapshot returns a copy of the current list, most recent first.
func (b *Book) Snapshot() []models.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Transaction, len(b.txns))
	copy(out, b.txns)
	return out
}

// Log records a single transaction stamped with the current local time.
// Empty category and description fall back to the fixed defaults.
func (b *Book) Log(ctx context.Context, amount float64, typ models.TransactionType, wallet models.WalletType, category, description string) (models.Transaction, error) {
	if amount <= 0 {
		return models.Transaction{}, ErrInvalidAmount
	}
	if !typ.Valid() {
		return models.Transaction{}, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}
	if !wallet.Valid() {
		return models.Transaction{}, fmt.Errorf("%w: %q", ErrInvalidWallet, wallet)
	}
	if category == "" {
		category = DefaultCategory
	}
	if description == "" {
		description = DefaultDescription
	}

	txn := models.Transaction{
		ID:          uuid.New().String(),
		Amount:      amount,
		Type:        typ,
		Wallet:      wallet,
		Category:    category,
		Description: description,
		Date:        models.NewCivilTime(b.now()),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.commit(ctx, prepend(b.txns, txn)); err != nil {
		return models.Transaction{}, err
	}
	slog.Info("Transaction logged",
		"username", b.username,
		"transaction_id", txn.ID,
		"type", txn.Type,
		"wallet", txn.Wallet,
		"amount", txn.Amount,
	)
	return txn, nil
}

// Transfer moves value between wallets by materializing a balanced pair of
// transactions sharing one timestamp: an expense at from, then an income at
// to. The pair is inserted and persisted together or not at all.
//
// A transfer from a wallet to itself is accepted and records a net-zero
// pair; whether that should be rejected is an open product question.
func (b *Book) Transfer(ctx context.Context, amount float64, from, to models.WalletType, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidWallet, from, to)
	}

	stamp := models.NewCivilTime(b.now())
	outDesc, inDesc := description, description
	if description == "" {
		outDesc = "Chuyển đến " + walletLabel(to)
		inDesc = "Nhận từ " + walletLabel(from)
	}

	withdrawal := models.Transaction{
		ID:          uuid.New().String(),
		Amount:      amount,
		Type:        models.TypeExpense,
		Wallet:      from,
		Category:    TransferOutCategory,
		Description: outDesc,
		Date:        stamp,
	}
	deposit := models.Transaction{
		ID:          uuid.New().String(),
		Amount:      amount,
		Type:        models.TypeIncome,
		Wallet:      to,
		Category:    TransferInCategory,
		Description: inDesc,
		Date:        stamp,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	// The withdrawal heads the list, with the deposit right behind it.
	next := make([]models.Transaction, 0, len(b.txns)+2)
	next = append(next, withdrawal, deposit)
	next = append(next, b.txns...)
	if err := b.commit(ctx, next); err != nil {
		return err
	}
	slog.Info("Transfer recorded",
		"username", b.username,
		"from", from,
		"to", to,
		"amount", amount,
	)
	return nil
}

// Edit replaces the stored record with a matching ID by full-object
// substitution. An unknown ID is a silent no-op.
func (b *Book) Edit(ctx context.Context, updated models.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := make([]models.Transaction, len(b.txns))
	copy(next, b.txns)
	found := false
	for i, t := range next {
		if t.ID == updated.ID {
			next[i] = updated
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	return b.commit(ctx, next)
}

// Delete removes the record with the given ID. An unknown ID is a no-op.
func (b *Book) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := make([]models.Transaction, 0, len(b.txns))
	found := false
	for _, t := range b.txns {
		if t.ID == id {
			found = true
			continue
		}
		next = append(next, t)
	}
	if !found {
		return nil
	}
	return b.commit(ctx, next)
}

// commit persists next and only then swaps it in. A failed write leaves
// the in-memory list untouched. Callers must hold b.mu.
func (b *Book) commit(ctx context.Context, next []models.Transaction) error {
	if err := b.sink.ReplaceTransactions(ctx, b.username, next); err != nil {
		return fmt.Errorf("failed to persist transactions: %w", err)
	}
	b.txns = next
	return nil
}

func prepend(txns []models.Transaction, txn models.Transaction) []models.Transaction {
	next := make([]models.Transaction, 0, len(txns)+1)
	next = append(next, txn)
	next = append(next, txns...)
	return next
}

func walletLabel(w models.WalletType) string {
	if w == models.WalletCash {
		return "Tiền mặt"
	}
	return "Tài khoản"
}
