package advisor

import (
	"errors"
	"time"
)

var ErrInvalidInput = errors.New("invalid input")

// Insight is a one-off piece of advice for the dashboard.
type Insight struct {
	Message    string  `json:"message"`
	Confidence float64 `json:"confidence"`
	Degraded   bool    `json:"degraded"`
}

// Reply is the advisor's answer to a chat message.
type Reply struct {
	Response string `json:"response"`
	Degraded bool   `json:"degraded"`
}

// ChatMessage is one stored turn half.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
