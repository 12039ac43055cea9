package chefbot

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "chefbot:"
	sessionTTL       = time.Hour
)

// historyLimit keeps the stored transcript small; only the most recent
// turns matter for grounding.
const historyLimit = 6

// State is one assistant session: the flattened recipe context plus the
// trailing transcript.
type State struct {
	RecipeContext string    `json:"recipe_context,omitempty"`
	History       []Message `json:"history,omitempty"`
}

// SessionStore persists assistant state keyed by session id. A missing
// session loads as the zero State.
type SessionStore interface {
	Load(ctx context.Context, sid string) (State, error)
	Save(ctx context.Context, sid string, st State) error
}

// RedisStore keeps sessions in Redis with a sliding 1h TTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context, sid string) (State, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		// corrupt session, start fresh
		return State{}, nil
	}
	return st, nil
}

func (s *RedisStore) Save(ctx context.Context, sid string, st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+sid, raw, sessionTTL).Err()
}

// MemoryStore is the single-process fallback used when no Redis URL is
// configured, and in tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]State{}}
}

func (s *MemoryStore) Load(_ context.Context, sid string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sid], nil
}

func (s *MemoryStore) Save(_ context.Context, sid string, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = st
	return nil
}
