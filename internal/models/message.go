package models

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message is one entry in a user's append-only chat transcript.
type Message struct {
	// ID is the unique identifier for the message (UUID format).
	ID string `json:"id"`

	// Text is the message body.
	Text string `json:"text"`

	// Sender is "user" or "ai".
	Sender Sender `json:"sender"`

	// Timestamp is Unix milliseconds when the message was appended.
	Timestamp int64 `json:"timestamp"`

	// IsTransactionResult marks an AI message that narrates a committed
	// transaction or transfer, as opposed to plain conversation.
	IsTransactionResult bool `json:"isTransactionResult,omitempty"`
}
