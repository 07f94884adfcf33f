package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "advisor:chat:"

// RedisStore keeps each conversation in a capped Redis list that expires when idle.
type RedisStore struct {
	client   redis.UniversalClient
	maxTurns int
	ttl      time.Duration
}

func NewRedisStore(client redis.UniversalClient, maxTurns int, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, maxTurns: maxTurns, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func historyKey(userID string) string {
	return redisKeyPrefix + userID
}

// trimStart is the LTRIM start index that keeps the newest maxTurns exchanges.
func trimStart(maxTurns int) int64 {
	return -int64(maxMessages(maxTurns))
}

func (s *RedisStore) Load(ctx context.Context, userID string) ([]ChatMessage, error) {
	raw, err := s.client.LRange(ctx, historyKey(userID), 0, -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	return decodeMessages(raw)
}

func (s *RedisStore) Append(ctx context.Context, userID string, msgs ...ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	values, err := encodeMessages(msgs)
	if err != nil {
		return err
	}
	key := historyKey(userID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, trimStart(s.maxTurns), -1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, historyKey(userID)).Err()
}

func encodeMessages(msgs []ChatMessage) ([]any, error) {
	values := make([]any, 0, len(msgs))
	for _, msg := range msgs {
		data, err := json.Marshal(msg)
		if err != nil {
			return nil, fmt.Errorf("encode chat message: %w", err)
		}
		values = append(values, string(data))
	}
	return values, nil
}

func decodeMessages(raw []string) ([]ChatMessage, error) {
	msgs := make([]ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("decode chat message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

var _ ConversationStore = (*RedisStore)(nil)
