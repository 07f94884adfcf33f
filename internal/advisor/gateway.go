// Package advisor serves AI insights and the advisor chat on top of an llm.Client.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"finance-backend/internal/llm"
	"finance-backend/internal/risk"
	"finance-backend/internal/shared/metrics"
	"finance-backend/internal/shared/telemetry"
)

const (
	UnavailableInsight = "AI insights are currently unavailable. Please try again later."
	UnavailableChat    = "I'm sorry, I couldn't process your request at this time. Please try again later."
	Greeting           = "How can I help you with your financial planning today?"

	maxMessageLength = 4000
	chatMaxTokens    = 1024
	insightMaxTokens = 256
)

const systemPrompt = "You are a helpful financial advisor specializing in Indian markets and financial systems. " +
	"Give ethical, accurate and concise advice. Use INR (₹) for any currency values."

// RiskSource provides the caller's latest risk analysis, if any.
type RiskSource interface {
	Latest(ctx context.Context, userID string) (risk.Analysis, error)
}

// Gateway wraps the chat-completion provider. Provider failures become degraded results.
type Gateway struct {
	LLM   llm.Client
	Store ConversationStore
	Risk  RiskSource
	Now   func() time.Time
}

func NewGateway(client llm.Client, store ConversationStore, riskSource RiskSource) *Gateway {
	if client == nil {
		client = llm.Unconfigured{}
	}
	return &Gateway{LLM: client, Store: store, Risk: riskSource, Now: time.Now}
}

type insightReply struct {
	Message    string  `json:"message"`
	Confidence float64 `json:"confidence"`
}

// Insight returns one actionable insight, personalised with the latest risk profile when present.
func (g *Gateway) Insight(ctx context.Context, userID string) Insight {
	prompt := fmt.Sprintf(`Based on current economic trends in India and global markets, provide one actionable
financial insight that would be valuable for this investor. Keep it under 200 characters.

Context: %s

Reply as JSON: {"message": "your insight", "confidence": a number between 0 and 1}`, g.userContext(ctx, userID))

	reply, err := g.LLM.Chat(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		JSON:        true,
		Temperature: llm.Float32(0.7),
		MaxTokens:   insightMaxTokens,
	})
	if err != nil {
		g.degraded("advisor.insight.degraded", userID, err)
		return Insight{Message: UnavailableInsight, Confidence: 0, Degraded: true}
	}
	return ParseInsight(reply)
}

// ParseInsight reads {message, confidence}. A non-JSON reply becomes the message with zero confidence.
func ParseInsight(reply string) Insight {
	var parsed insightReply
	if err := json.Unmarshal([]byte(llm.ExtractJSON(reply)), &parsed); err == nil && strings.TrimSpace(parsed.Message) != "" {
		return Insight{Message: strings.TrimSpace(parsed.Message), Confidence: normalizeConfidence(parsed.Confidence)}
	}
	return Insight{Message: strings.TrimSpace(reply), Confidence: 0}
}

// normalizeConfidence accepts 0-1 or a 0-100 percentage.
func normalizeConfidence(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		v = v / 100
	}
	return math.Round(math.Min(v, 1)*100) / 100
}

// Chat answers message in the context of history. A nil history uses the stored conversation.
// Only successful exchanges are stored.
func (g *Gateway) Chat(ctx context.Context, userID, message string, history []llm.Message) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" || len(message) > maxMessageLength {
		return Reply{}, ErrInvalidInput
	}
	if history == nil {
		history = g.storedHistory(ctx, userID)
	}

	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, h := range history {
		if h.Role != llm.RoleUser && h.Role != llm.RoleAssistant {
			continue
		}
		msgs = append(msgs, h)
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	response, err := g.LLM.Chat(ctx, llm.Request{
		Messages:    msgs,
		Temperature: llm.Float32(0.7),
		MaxTokens:   chatMaxTokens,
	})
	response = strings.TrimSpace(response)
	if err == nil && response == "" {
		err = fmt.Errorf("%w: empty reply", llm.ErrUnavailable)
	}
	if err != nil {
		g.degraded("advisor.chat.degraded", userID, err)
		return Reply{Response: UnavailableChat, Degraded: true}, nil
	}

	if g.Store != nil {
		now := g.now()
		if err := g.Store.Append(ctx, userID,
			ChatMessage{ID: uuid.NewString(), Role: llm.RoleUser, Content: message, Timestamp: now},
			ChatMessage{ID: uuid.NewString(), Role: llm.RoleAssistant, Content: response, Timestamp: now},
		); err != nil {
			telemetry.Warn("advisor.history.append_failed", map[string]any{"user_id": userID, "error": err.Error()})
		}
	}
	return Reply{Response: response}, nil
}

// History returns the stored conversation, or a greeting when there is none.
func (g *Gateway) History(ctx context.Context, userID string) ([]ChatMessage, error) {
	var msgs []ChatMessage
	if g.Store != nil {
		var err error
		msgs, err = g.Store.Load(ctx, userID)
		if err != nil {
			return nil, err
		}
	}
	if len(msgs) == 0 {
		return []ChatMessage{{ID: uuid.NewString(), Role: llm.RoleAssistant, Content: Greeting, Timestamp: g.now()}}, nil
	}
	return msgs, nil
}

// ClearHistory forgets the stored conversation.
func (g *Gateway) ClearHistory(ctx context.Context, userID string) error {
	if g.Store == nil {
		return nil
	}
	return g.Store.Clear(ctx, userID)
}

func (g *Gateway) storedHistory(ctx context.Context, userID string) []llm.Message {
	if g.Store == nil {
		return nil
	}
	stored, err := g.Store.Load(ctx, userID)
	if err != nil {
		telemetry.Warn("advisor.history.load_failed", map[string]any{"user_id": userID, "error": err.Error()})
		return nil
	}
	out := make([]llm.Message, 0, len(stored))
	for _, m := range stored {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func (g *Gateway) userContext(ctx context.Context, userID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current date: %s. The user is interested in financial advice for Indian markets.", g.now().Format("2006-01-02"))
	if g.Risk == nil {
		return b.String()
	}
	latest, err := g.Risk.Latest(ctx, userID)
	if err != nil {
		if !errors.Is(err, risk.ErrNotFound) {
			telemetry.Warn("advisor.risk.load_failed", map[string]any{"user_id": userID, "error": err.Error()})
		}
		return b.String()
	}
	a := latest.Result.Allocation
	fmt.Fprintf(&b, " Their risk profile is %s (score %.1f) with a suggested allocation of %d%% equities, %d%% fixed income, %d%% gold and %d%% cash.",
		latest.Result.Category, latest.Result.Score, a.Equities, a.FixedIncome, a.Gold, a.Cash)
	return b.String()
}

func (g *Gateway) degraded(event, userID string, err error) {
	metrics.IncProviderDegraded("llm")
	telemetry.Warn(event, map[string]any{"user_id": userID, "error": err.Error()})
}

func (g *Gateway) now() time.Time {
	if g.Now != nil {
		return g.Now().UTC()
	}
	return time.Now().UTC()
}
