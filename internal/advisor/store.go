package advisor

import "context"

// ConversationStore keeps recent chat turns per user. Implementations bound the history by
// turn count and drop conversations idle longer than their TTL.
type ConversationStore interface {
	Load(ctx context.Context, userID string) ([]ChatMessage, error)
	Append(ctx context.Context, userID string, msgs ...ChatMessage) error
	Clear(ctx context.Context, userID string) error
}

const (
	DefaultMaxTurns = 20
	messagesPerTurn = 2
)

func maxMessages(maxTurns int) int {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return maxTurns * messagesPerTurn
}
