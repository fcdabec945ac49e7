package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hoangnt/moneytalk/internal/assistant"
	"github.com/hoangnt/moneytalk/internal/auth"
	"github.com/hoangnt/moneytalk/internal/book"
	"github.com/hoangnt/moneytalk/internal/config"
	"github.com/hoangnt/moneytalk/internal/models"
	"github.com/hoangnt/moneytalk/internal/service"
	"github.com/hoangnt/moneytalk/internal/storage/sqlite"
)

type stubClassifier struct {
	result *assistant.Result
}

func (c *stubClassifier) Process(ctx context.Context, text, today string) (*assistant.Result, error) {
	if c.result == nil {
		return &assistant.Result{Action: assistant.ActionChat, ChatResponse: "ok"}, nil
	}
	return c.result, nil
}

type testEnv struct {
	server     *httptest.Server
	classifier *stubClassifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "moneytalk-server-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := sqlite.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	classifier := &stubClassifier{}
	shelf := book.NewShelf(store, store)
	cfg := &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}

	srv := New(
		store,
		auth.NewPasswordAuthenticator(store),
		auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		shelf,
		service.NewChatService(store, shelf, classifier),
		service.NewDashboardService(shelf),
		cfg,
	)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return &testEnv{server: ts, classifier: classifier}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func (e *testEnv) register(t *testing.T, username, name string) string {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"name":     name,
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Register returned status %d", resp.StatusCode)
	}
	var body authResponse
	decode(t, resp, &body)
	if body.Token == "" {
		t.Fatal("Expected a token")
	}
	return body.Token
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "hoang", "Hoang")

	resp := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "hoang",
		"name":     "Someone Else",
		"password": "secret123",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected status %d for duplicate username, got %d", http.StatusConflict, resp.StatusCode)
	}

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "hoang",
		"password": "wrong",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status %d for bad password, got %d", http.StatusUnauthorized, resp.StatusCode)
	}

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "hoang",
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Login returned status %d", resp.StatusCode)
	}
	var body authResponse
	decode(t, resp, &body)
	if body.User.Name != "Hoang" {
		t.Errorf("Expected name 'Hoang', got %q", body.User.Name)
	}
}

func TestRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/transactions", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status %d without token, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "hoang", "Hoang")

	resp := env.do(t, http.MethodPost, "/api/transactions", token, transactionRequest{
		Amount:   50000,
		Type:     models.TypeExpense,
		Wallet:   models.WalletCash,
		Category: "Ăn uống",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create returned status %d", resp.StatusCode)
	}
	var created models.Transaction
	decode(t, resp, &created)
	if created.ID == "" {
		t.Fatal("Expected an ID on the created transaction")
	}

	resp = env.do(t, http.MethodPut, "/api/transactions/"+created.ID, token, transactionRequest{
		Amount:      75000,
		Type:        models.TypeExpense,
		Wallet:      models.WalletAccount,
		Category:    "Ăn uống",
		Description: "ăn tối",
		Date:        created.Date.String(),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Edit returned status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/transactions", token, nil)
	var txns []models.Transaction
	decode(t, resp, &txns)
	if len(txns) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Amount != 75000 || txns[0].Wallet != models.WalletAccount {
		t.Errorf("Edit not applied: got %+v", txns[0])
	}

	resp = env.do(t, http.MethodDelete, "/api/transactions/"+created.ID, token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Delete returned status %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/transactions", token, nil)
	decode(t, resp, &txns)
	if len(txns) != 0 {
		t.Errorf("Expected no transactions after delete, got %d", len(txns))
	}
}

func TestInvalidTransactionRejected(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "hoang", "Hoang")

	tests := []struct {
		name string
		req  transactionRequest
	}{
		{"zero amount", transactionRequest{Amount: 0, Type: models.TypeExpense, Wallet: models.WalletCash}},
		{"bad type", transactionRequest{Amount: 100, Type: "loan", Wallet: models.WalletCash}},
		{"bad wallet", transactionRequest{Amount: 100, Type: models.TypeIncome, Wallet: "crypto"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/transactions", token, tt.req)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
			}
		})
	}
}

func TestTransferAndDashboard(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "hoang", "Hoang")

	resp := env.do(t, http.MethodPost, "/api/transactions", token, transactionRequest{
		Amount: 200000,
		Type:   models.TypeIncome,
		Wallet: models.WalletCash,
	})
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/transfers", token, transferRequest{
		Amount: 50000,
		From:   models.WalletCash,
		To:     models.WalletAccount,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Transfer returned status %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/dashboard", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Dashboard returned status %d", resp.StatusCode)
	}
	var view service.DashboardView
	decode(t, resp, &view)
	if view.Balances.Cash != 150000 {
		t.Errorf("Expected cash balance 150000, got %v", view.Balances.Cash)
	}
	if view.Balances.Account != 50000 {
		t.Errorf("Expected account balance 50000, got %v", view.Balances.Account)
	}
	if view.Balances.Total != 200000 {
		t.Errorf("Expected total balance 200000, got %v", view.Balances.Total)
	}

	resp = env.do(t, http.MethodGet, "/api/dashboard?period=DECADE", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status %d for unknown period, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestChatFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "hoang", "Hoang")

	resp := env.do(t, http.MethodGet, "/api/chat", token, nil)
	var history chatHistoryResponse
	decode(t, resp, &history)
	if len(history.Messages) != 1 {
		t.Fatalf("Expected welcome message, got %d messages", len(history.Messages))
	}

	env.classifier.result = &assistant.Result{
		Action: assistant.ActionTransaction,
		TransactionData: &assistant.TransactionData{
			Amount:   30000,
			Type:     models.TypeExpense,
			Wallet:   models.WalletCash,
			Category: "Ăn uống",
		},
		ChatResponse: "Đã ghi 30.000đ ăn sáng.",
	}

	resp = env.do(t, http.MethodPost, "/api/chat", token, chatRequest{Text: "ăn sáng 30k"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Chat send returned status %d", resp.StatusCode)
	}
	var sent chatHistoryResponse
	decode(t, resp, &sent)
	if len(sent.Messages) != 2 {
		t.Fatalf("Expected user and assistant messages, got %d", len(sent.Messages))
	}
	if !sent.Messages[1].IsTransactionResult {
		t.Error("Expected the assistant message to be flagged as a transaction result")
	}

	resp = env.do(t, http.MethodGet, "/api/transactions", token, nil)
	var txns []models.Transaction
	decode(t, resp, &txns)
	if len(txns) != 1 {
		t.Fatalf("Expected the chat verdict to log a transaction, got %d", len(txns))
	}

	resp = env.do(t, http.MethodPost, "/api/chat", token, chatRequest{Text: "   "})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status %d for empty text, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "hoang", "Hoang")

	resp := env.do(t, http.MethodPut, "/api/me", token, updateProfileRequest{
		Name:   "Hoang Nguyen",
		Avatar: "https://example.com/a.png",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Update profile returned status %d", resp.StatusCode)
	}
	var profile models.Profile
	decode(t, resp, &profile)
	if profile.Name != "Hoang Nguyen" {
		t.Errorf("Expected updated name, got %q", profile.Name)
	}

	resp = env.do(t, http.MethodGet, "/api/me", token, nil)
	decode(t, resp, &profile)
	if profile.Avatar != "https://example.com/a.png" {
		t.Errorf("Expected updated avatar, got %q", profile.Avatar)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/metrics")
	if err != nil {
		t.Fatalf("Metrics request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}
