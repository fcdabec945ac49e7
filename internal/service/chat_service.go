// Package service orchestrates the domain packages behind the HTTP
// surface: the chat pipeline (classifier -> book -> transcript) and the
// dashboard read model.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hoangnt/moneytalk/internal/assistant"
	"github.com/hoangnt/moneytalk/internal/book"
	"github.com/hoangnt/moneytalk/internal/models"
)

// Fixed narration strings used when the classifier's own reply is empty,
// and for local failures.
const (
	savedTransactionReply = "Đã lưu giao dịch."
	savedTransferReply    = "Đã thực hiện luân chuyển."
	notUnderstoodReply    = "Tôi không hiểu ý bạn."
	internalErrorReply    = "Xin lỗi, có lỗi xảy ra."
)

var (
	ErrEmptyText = errors.New("text is required")
	// ErrBusy is returned while a previous classification for the same
	// user is still in flight; submissions are not queued.
	ErrBusy = errors.New("a request is already being processed")
)

// TranscriptStore is the slice of storage the chat pipeline needs.
type TranscriptStore interface {
	LoadMessages(ctx context.Context, username string) ([]models.Message, error)
	AppendMessage(ctx context.Context, username string, msg models.Message) error
}

// ChatService runs typed and dictated input through the classifier and
// applies the resulting action to the user's book.
type ChatService struct {
	store      TranscriptStore
	shelf      *book.Shelf
	classifier assistant.Classifier

	mu       sync.Mutex
	inflight map[string]bool

	now func() time.Time
}

// NewChatService creates a ChatService.
func NewChatService(store TranscriptStore, shelf *book.Shelf, classifier assistant.Classifier) *ChatService {
	return &ChatService{
		store:      store,
		shelf:      shelf,
		classifier: classifier,
		inflight:   make(map[string]bool),
		now:        time.Now,
	}
}

// History returns the user's transcript, seeding the welcome message on
// first access.
func (s *ChatService) History(ctx context.Context, username, displayName string) ([]models.Message, error) {
	msgs, err := s.store.LoadMessages(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(msgs) > 0 {
		return msgs, nil
	}

	welcome := models.Message{
		ID:        uuid.New().String(),
		Text:      fmt.Sprintf("Chào %s! Tôi có thể giúp gì cho bạn hôm nay?", displayName),
		Sender:    models.SenderAI,
		Timestamp: s.now().UnixMilli(),
	}
	if err := s.store.AppendMessage(ctx, username, welcome); err != nil {
		return nil, err
	}
	return []models.Message{welcome}, nil
}

// Send appends the user's text to the transcript, asks the classifier for
// a verdict, applies any resulting mutation, and appends the AI's reply.
// Both new messages are returned. Only one Send per user runs at a time;
// a concurrent call fails fast with ErrBusy.
func (s *ChatService) Send(ctx context.Context, username, text string) ([]models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	s.mu.Lock()
	if s.inflight[username] {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.inflight[username] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inflight, username)
		s.mu.Unlock()
	}()

	userMsg := models.Message{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    models.SenderUser,
		Timestamp: s.now().UnixMilli(),
	}
	if err := s.store.AppendMessage(ctx, username, userMsg); err != nil {
		return nil, err
	}

	result, err := s.classifier.Process(ctx, text, s.now().Format("2006-01-02"))
	if err != nil {
		// The failure class is deliberately not surfaced to the chat.
		slog.Error("classifier failed", "username", username, "error", err)
		result = assistant.Fallback()
	}

	reply, isResult := s.apply(ctx, username, result)

	aiMsg := models.Message{
		ID:                  uuid.New().String(),
		Text:                reply,
		Sender:              models.SenderAI,
		Timestamp:           s.now().UnixMilli(),
		IsTransactionResult: isResult,
	}
	if err := s.store.AppendMessage(ctx, username, aiMsg); err != nil {
		return nil, err
	}

	return []models.Message{userMsg, aiMsg}, nil
}

// apply dispatches the classifier's verdict into the user's book and
// picks the narration for the transcript.
func (s *ChatService) apply(ctx context.Context, username string, result *assistant.Result) (reply string, isResult bool) {
	switch {
	case result.Action == assistant.ActionTransaction && result.TransactionData != nil:
		d := result.TransactionData
		b, err := s.shelf.Open(ctx, username)
		if err == nil {
			_, err = b.Log(ctx, d.Amount, d.Type, d.Wallet, d.Category, d.Description)
		}
		if err != nil {
			slog.Error("failed to log transaction", "username", username, "error", err)
			return internalErrorReply, false
		}
		return fallbackText(result.ChatResponse, savedTransactionReply), true

	case result.Action == assistant.ActionTransfer && result.TransferData != nil:
		d := result.TransferData
		b, err := s.shelf.Open(ctx, username)
		if err == nil {
			err = b.Transfer(ctx, d.Amount, d.From, d.To, d.Description)
		}
		if err != nil {
			slog.Error("failed to transfer", "username", username, "error", err)
			return internalErrorReply, false
		}
		return fallbackText(result.ChatResponse, savedTransferReply), true

	default:
		return fallbackText(result.ChatResponse, notUnderstoodReply), false
	}
}

func fallbackText(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
