package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hoangnt/moneytalk/internal/book"
	"github.com/hoangnt/moneytalk/internal/middleware"
	"github.com/hoangnt/moneytalk/internal/models"
)

type transactionRequest struct {
	Amount      float64                `json:"amount"`
	Type        models.TransactionType `json:"type"`
	Wallet      models.WalletType      `json:"wallet"`
	Category    string                 `json:"category"`
	Description string                 `json:"description"`
	Date        string                 `json:"date"`
}

type transferRequest struct {
	Amount      float64           `json:"amount"`
	From        models.WalletType `json:"from"`
	To          models.WalletType `json:"to"`
	Description string            `json:"description"`
}

func (s *Server) openBook(w http.ResponseWriter, r *http.Request) (*book.Book, bool) {
	username := middleware.GetUsername(r.Context())
	b, err := s.shelf.Open(r.Context(), username)
	if err != nil {
		slog.Error("failed to open book", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return nil, false
	}
	return b, true
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	b, ok := s.openBook(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b.Snapshot())
}

func (s *Server) handleLogTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, ok := s.openBook(w, r)
	if !ok {
		return
	}

	txn, err := b.Log(r.Context(), req.Amount, req.Type, req.Wallet, req.Category, req.Description)
	if err != nil {
		if isBookError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to log transaction", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 || !req.Type.Valid() || !req.Wallet.Valid() {
		writeError(w, http.StatusBadRequest, "invalid transaction")
		return
	}
	date, err := models.ParseCivilTime(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	b, ok := s.openBook(w, r)
	if !ok {
		return
	}

	updated := models.Transaction{
		ID:          chi.URLParam(r, "id"),
		Amount:      req.Amount,
		Type:        req.Type,
		Wallet:      req.Wallet,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
	}
	if err := b.Edit(r.Context(), updated); err != nil {
		slog.Error("failed to edit transaction", "id", updated.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	b, ok := s.openBook(w, r)
	if !ok {
		return
	}
	if err := b.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("failed to delete transaction", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, ok := s.openBook(w, r)
	if !ok {
		return
	}

	if err := b.Transfer(r.Context(), req.Amount, req.From, req.To, req.Description); err != nil {
		if isBookError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to transfer", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to transfer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	period := models.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = models.PeriodMonth
	}
	switch period {
	case models.PeriodDay, models.PeriodWeek, models.PeriodMonth, models.PeriodYear:
	default:
		writeError(w, http.StatusBadRequest, "invalid period")
		return
	}

	username := middleware.GetUsername(r.Context())
	view, err := s.dashboard.View(r.Context(), username, period)
	if err != nil {
		slog.Error("failed to build dashboard", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func isBookError(err error) bool {
	return errors.Is(err, book.ErrInvalidAmount) ||
		errors.Is(err, book.ErrInvalidType) ||
		errors.Is(err, book.ErrInvalidWallet)
}
