package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"screenbot/internal/model"
)

// AdminBufferLimit is how many recent admin messages are remembered per admin
const AdminBufferLimit = 6

// AdminMessageBuffer remembers the most recent messages shown to an admin so
// they can be removed together. Each call is one atomic read-modify-write.
type AdminMessageBuffer interface {
	// Track appends a handle, evicting the oldest beyond the limit
	Track(ctx context.Context, adminID int64, ref model.MessageRef) error
	// Drain returns the tracked handles oldest first and clears the buffer
	Drain(ctx context.Context, adminID int64) ([]model.MessageRef, error)
}

type memoryAdminBuffer struct {
	mu    sync.Mutex
	limit int
	refs  map[int64][]model.MessageRef
}

// NewMemoryAdminBuffer creates an in-process admin message buffer
func NewMemoryAdminBuffer(limit int) AdminMessageBuffer {
	return &memoryAdminBuffer{
		limit: limit,
		refs:  make(map[int64][]model.MessageRef),
	}
}

func (b *memoryAdminBuffer) Track(ctx context.Context, adminID int64, ref model.MessageRef) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf := append(b.refs[adminID], ref)
	if len(buf) > b.limit {
		buf = append([]model.MessageRef(nil), buf[len(buf)-b.limit:]...)
	}
	b.refs[adminID] = buf
	return nil
}

func (b *memoryAdminBuffer) Drain(ctx context.Context, adminID int64) ([]model.MessageRef, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf := b.refs[adminID]
	delete(b.refs, adminID)
	return buf, nil
}

type redisAdminBuffer struct {
	client *redis.Client
	limit  int
}

// NewRedisAdminBuffer creates an admin message buffer backed by a capped Redis list
func NewRedisAdminBuffer(client *redis.Client, limit int) AdminMessageBuffer {
	return &redisAdminBuffer{
		client: client,
		limit:  limit,
	}
}

func (b *redisAdminBuffer) key(adminID int64) string {
	return fmt.Sprintf("screen:admin:%d:msgs", adminID)
}

func (b *redisAdminBuffer) Track(ctx context.Context, adminID int64, ref model.MessageRef) error {
	data, err := json.Marshal(ref)
	if err != nil {
		return err
	}
	key := b.key(adminID)
	_, err = b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.LTrim(ctx, key, int64(-b.limit), -1)
		return nil
	})
	return err
}

func (b *redisAdminBuffer) Drain(ctx context.Context, adminID int64) ([]model.MessageRef, error) {
	key := b.key(adminID)
	var items *redis.StringSliceCmd
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, err
	}

	refs := make([]model.MessageRef, 0, len(items.Val()))
	for _, item := range items.Val() {
		var ref model.MessageRef
		if err := json.Unmarshal([]byte(item), &ref); err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
