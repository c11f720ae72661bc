package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/dietrec/backend/internal/types"
)

// SessionTTL is how long an idle session is kept
const SessionTTL = 24 * time.Hour

// SessionStore keeps sessions in Redis as JSON
type SessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// Ensure SessionStore implements ISessionStore
var _ ISessionStore = (*SessionStore)(nil)

// NewSessionStore creates a new SessionStore
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{redis: client, ttl: SessionTTL}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// New creates and saves an empty session
func (s *SessionStore) New(ctx context.Context) (*types.Session, error) {
	now := time.Now()
	session := &types.Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get retrieves a session from Redis
func (s *SessionStore) Get(ctx context.Context, id string) (*types.Session, error) {
	data, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Save writes the session and refreshes its TTL
func (s *SessionStore) Save(ctx context.Context, session *types.Session) error {
	session.UpdatedAt = time.Now()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.redis.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session to Redis: %w", err)
	}
	return nil
}

// Delete removes a session from Redis
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}
