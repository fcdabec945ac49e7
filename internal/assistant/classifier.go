// Package assistant integrates the external natural-language model that
// turns free-form user text into a structured financial action or a
// conversational reply.
package assistant

import (
	"context"

	"github.com/hoangnt/moneytalk/internal/models"
)

// Action tags the classifier's verdict on a piece of user text.
type Action string

const (
	ActionTransaction Action = "transaction"
	ActionTransfer    Action = "transfer"
	ActionChat        Action = "chat"
)

// FallbackReply is substituted for any transport or parse failure from the
// remote model. Callers never see the underlying error.
const FallbackReply = "Xin lỗi, hệ thống đang bận."

// TransactionData is the payload accompanying ActionTransaction.
type TransactionData struct {
	Amount      float64                `json:"amount"`
	Type        models.TransactionType `json:"type"`
	Wallet      models.WalletType      `json:"wallet"`
	Category    string                 `json:"category"`
	Description string                 `json:"description"`
	Date        string                 `json:"date"`
}

// TransferData is the payload accompanying ActionTransfer.
type TransferData struct {
	Amount      float64           `json:"amount"`
	From        models.WalletType `json:"from"`
	To          models.WalletType `json:"to"`
	Description string            `json:"description"`
	Date        string            `json:"date"`
}

// Result is the classifier's reply: exactly one action tag, the matching
// payload when the action is not plain chat, and a narration string that
// is always present on the wire.
type Result struct {
	Action          Action           `json:"action"`
	TransactionData *TransactionData `json:"transactionData,omitempty"`
	TransferData    *TransferData    `json:"transferData,omitempty"`
	ChatResponse    string           `json:"chatResponse"`
}

// Classifier turns raw user text into a tagged Result. The current date is
// passed so the remote side can resolve relative phrases like "hôm qua".
// Amount shorthand ("10k" -> 10000) and wallet-vocabulary defaulting are
// entirely the remote side's responsibility.
type Classifier interface {
	Process(ctx context.Context, text string, today string) (*Result, error)
}

// Fallback returns the generic apologetic chat result used when the remote
// call fails in any way.
func Fallback() *Result {
	return &Result{Action: ActionChat, ChatResponse: FallbackReply}
}
