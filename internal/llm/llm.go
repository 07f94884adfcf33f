// Package llm defines the chat-completion contract shared by the AI advisor and document analyzer.
package llm

import (
	"context"
	"errors"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrUnavailable marks any provider failure: missing key, transport error, timeout, non-2xx or empty reply.
// Callers turn it into a degraded result.
var ErrUnavailable = errors.New("llm provider unavailable")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one chat-completion call.
type Request struct {
	Messages    []Message
	JSON        bool
	Temperature *float32
	MaxTokens   int
}

// Client abstracts chat-completion providers.
type Client interface {
	Chat(ctx context.Context, req Request) (string, error)
}

// Unconfigured is used when no API key is set.
type Unconfigured struct{}

func (Unconfigured) Chat(context.Context, Request) (string, error) {
	return "", ErrUnavailable
}

// ExtractJSON returns the outermost JSON object in a reply, dropping markdown fences or chatter
// some models add around it. The input is returned trimmed when no object is found.
func ExtractJSON(reply string) string {
	s := strings.TrimSpace(reply)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

// Float32 is a convenience for Request.Temperature.
func Float32(v float32) *float32 { return &v }
