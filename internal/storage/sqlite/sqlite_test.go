package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hoangnt/moneytalk/internal/models"
)

func TestSQLiteStore(t *testing.T) {
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "moneytalk-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("CreateUser and GetUser round-trip", func(t *testing.T) {
		user := &models.User{
			Username:     "an",
			Name:         "Nguyễn Văn An",
			PasswordHash: "$2a$10$fakehash",
		}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetUser(ctx, "an")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got == nil || got.Name != user.Name || got.PasswordHash != user.PasswordHash {
			t.Errorf("GetUser = %+v, want %+v", got, user)
		}
	})

	t.Run("GetUser returns nil for unknown username", func(t *testing.T) {
		got, err := store.GetUser(ctx, "nobody")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got != nil {
			t.Errorf("GetUser = %+v, want nil", got)
		}
	})

	t.Run("CreateUser rejects duplicate username", func(t *testing.T) {
		dup := &models.User{Username: "an", Name: "Khác", PasswordHash: "x"}
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected duplicate username to fail")
		}
	})

	t.Run("UpdateUser changes profile fields", func(t *testing.T) {
		user, err := store.GetUser(ctx, "an")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		user.Name = "An Nguyễn"
		user.Avatar = "data:image/png;base64,abc"
		if err := store.UpdateUser(ctx, user); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}

		got, err := store.GetUser(ctx, "an")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.Name != "An Nguyễn" || got.Avatar != user.Avatar {
			t.Errorf("UpdateUser not applied: %+v", got)
		}
	})

	t.Run("ReplaceTransactions preserves stored order", func(t *testing.T) {
		date, _ := models.ParseCivilTime("2024-03-15T10:30:00")
		snapshot := []models.Transaction{
			{ID: "t2", Amount: 20000, Type: models.TypeIncome, Wallet: models.WalletAccount, Category: "Lương", Description: "thưởng", Date: date},
			{ID: "t1", Amount: 10000, Type: models.TypeExpense, Wallet: models.WalletCash, Category: "Ăn uống", Description: "phở", Date: date},
		}
		if err := store.ReplaceTransactions(ctx, "an", snapshot); err != nil {
			t.Fatalf("ReplaceTransactions failed: %v", err)
		}

		got, err := store.LoadTransactions(ctx, "an")
		if err != nil {
			t.Fatalf("LoadTransactions failed: %v", err)
		}
		if len(got) != 2 || got[0].ID != "t2" || got[1].ID != "t1" {
			t.Fatalf("LoadTransactions = %+v, want t2 then t1", got)
		}
		if got[1].Date.String() != "2024-03-15T10:30:00" {
			t.Errorf("date round-trip = %s", got[1].Date)
		}

		// Replace again with a shorter snapshot: old rows must be gone.
		if err := store.ReplaceTransactions(ctx, "an", snapshot[:1]); err != nil {
			t.Fatalf("ReplaceTransactions failed: %v", err)
		}
		got, err = store.LoadTransactions(ctx, "an")
		if err != nil {
			t.Fatalf("LoadTransactions failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != "t2" {
			t.Errorf("LoadTransactions after replace = %+v", got)
		}
	})

	t.Run("LoadTransactions for unknown user is empty", func(t *testing.T) {
		got, err := store.LoadTransactions(ctx, "nobody")
		if err != nil {
			t.Fatalf("LoadTransactions failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("LoadTransactions = %+v, want empty", got)
		}
	})

	t.Run("AppendMessage keeps append order", func(t *testing.T) {
		msgs := []models.Message{
			{ID: "m1", Text: "mua phở 50k", Sender: models.SenderUser, Timestamp: 1},
			{ID: "m2", Text: "Đã lưu giao dịch.", Sender: models.SenderAI, Timestamp: 2, IsTransactionResult: true},
		}
		for _, m := range msgs {
			if err := store.AppendMessage(ctx, "an", m); err != nil {
				t.Fatalf("AppendMessage failed: %v", err)
			}
		}

		got, err := store.LoadMessages(ctx, "an")
		if err != nil {
			t.Fatalf("LoadMessages failed: %v", err)
		}
		if len(got) != 2 || got[0].ID != "m1" || got[1].ID != "m2" {
			t.Fatalf("LoadMessages = %+v", got)
		}
		if !got[1].IsTransactionResult {
			t.Error("IsTransactionResult flag lost")
		}
	})
}
