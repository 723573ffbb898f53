package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"screenbot/internal/model"
)

// SessionCache holds per-user conversation state keyed by user identity
type SessionCache interface {
	// Get returns the stored session, or nil when the user has none
	Get(ctx context.Context, userID int64) (*model.Session, error)
	Set(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, userID int64) error
}

// memorySessionCache is the default process-local store. Sessions do not
// survive a restart.
type memorySessionCache struct {
	mu       sync.Mutex
	sessions map[int64]*model.Session
}

// NewMemorySessionCache creates an in-process session cache
func NewMemorySessionCache() SessionCache {
	return &memorySessionCache{
		sessions: make(map[int64]*model.Session),
	}
}

func (c *memorySessionCache) Get(ctx context.Context, userID int64) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[userID]
	if !ok {
		return nil, nil
	}
	return cloneSession(s), nil
}

func (c *memorySessionCache) Set(ctx context.Context, session *model.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.UserID] = cloneSession(session)
	return nil
}

func (c *memorySessionCache) Delete(ctx context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, userID)
	return nil
}

// cloneSession keeps callers from sharing the stored answers map
func cloneSession(s *model.Session) *model.Session {
	out := *s
	out.Answers = make(map[model.QuestionKey]string, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	if s.LastPrompt != nil {
		ref := *s.LastPrompt
		out.LastPrompt = &ref
	}
	return &out
}

type redisSessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionCache creates a session cache shared between bot replicas
func NewRedisSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &redisSessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *redisSessionCache) key(userID int64) string {
	return fmt.Sprintf("screen:session:%d", userID)
}

func (c *redisSessionCache) Get(ctx context.Context, userID int64) (*model.Session, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	if session.Answers == nil {
		session.Answers = make(map[model.QuestionKey]string)
	}
	return &session, nil
}

func (c *redisSessionCache) Set(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(session.UserID), data, c.ttl).Err()
}

func (c *redisSessionCache) Delete(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}
