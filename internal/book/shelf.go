package book

import (
	"context"
	"sync"

	"github.com/hoangnt/moneytalk/internal/models"
)

// Loader reads a user's stored transaction snapshot.
type Loader interface {
	LoadTransactions(ctx context.Context, username string) ([]models.Transaction, error)
}

// Shelf hands out one Book per username, loading the stored snapshot on
// first access. All callers for a username share the same Book, which is
// the sole synchronization point for that user's transaction list.
type Shelf struct {
	loader Loader
	sink   Sink

	mu    sync.Mutex
	books map[string]*Book
}

// NewShelf creates a Shelf backed by the given load/persist ports.
func NewShelf(loader Loader, sink Sink) *Shelf {
	return &Shelf{
		loader: loader,
		sink:   sink,
		books:  make(map[string]*Book),
	}
}

// Open returns the Book for username, creating it from storage if this is
// the first access.
func (s *Shelf) Open(ctx context.Context, username string) (*Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.books[username]; ok {
		return b, nil
	}
	txns, err := s.loader.LoadTransactions(ctx, username)
	if err != nil {
		return nil, err
	}
	b := New(username, txns, s.sink)
	s.books[username] = b
	return b, nil
}
