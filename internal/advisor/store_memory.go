package advisor

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process ConversationStore.
type MemoryStore struct {
	mu       sync.Mutex
	maxTurns int
	ttl      time.Duration
	now      func() time.Time
	convs    map[string]*conversation
}

type conversation struct {
	messages   []ChatMessage
	lastActive time.Time
}

// NewMemoryStore builds a store keeping at most maxTurns exchanges per user; ttl <= 0 disables expiry.
func NewMemoryStore(maxTurns int, ttl time.Duration, now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{maxTurns: maxTurns, ttl: ttl, now: now, convs: make(map[string]*conversation)}
}

func (s *MemoryStore) Load(ctx context.Context, userID string) ([]ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	conv, ok := s.convs[userID]
	if !ok {
		return nil, nil
	}
	return append([]ChatMessage(nil), conv.messages...), nil
}

func (s *MemoryStore) Append(ctx context.Context, userID string, msgs ...ChatMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	conv, ok := s.convs[userID]
	if !ok {
		conv = &conversation{}
		s.convs[userID] = conv
	}
	conv.messages = append(conv.messages, msgs...)
	if limit := maxMessages(s.maxTurns); len(conv.messages) > limit {
		conv.messages = append([]ChatMessage(nil), conv.messages[len(conv.messages)-limit:]...)
	}
	conv.lastActive = s.now()
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, userID)
	return nil
}

func (s *MemoryStore) evictLocked() {
	if s.ttl <= 0 {
		return
	}
	now := s.now()
	for id, conv := range s.convs {
		if now.Sub(conv.lastActive) >= s.ttl {
			delete(s.convs, id)
		}
	}
}

var _ ConversationStore = (*MemoryStore)(nil)
