// Package rediscache provides the Redis-backed read cache for notes.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/priyankashah3107/notes/internal/domain"
	"github.com/priyankashah3107/notes/internal/repository"
)

// defaultTTL keeps entries short-lived; the cache only has to absorb the
// refetch bursts that follow a note:updated broadcast.
const defaultTTL = 5 * time.Minute

// RedisNoteCache implements repository.NoteCache on a shared Redis instance.
type RedisNoteCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisNoteCache creates a cache with the given key prefix (defaults to
// "notes:").
func NewRedisNoteCache(client *redis.Client, keyPrefix string) *RedisNoteCache {
	if client == nil {
		panic("redis client cannot be nil for RedisNoteCache")
	}
	if keyPrefix == "" {
		keyPrefix = "notes:"
	}
	return &RedisNoteCache{client: client, keyPrefix: keyPrefix, ttl: defaultTTL}
}

func (c *RedisNoteCache) noteKey(noteID string) string {
	return fmt.Sprintf("%snote:%s", c.keyPrefix, noteID)
}

func (c *RedisNoteCache) Get(ctx context.Context, noteID string) (*domain.Note, error) {
	raw, err := c.client.Get(ctx, c.noteKey(noteID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get note '%s': %w", noteID, err)
	}
	var note domain.Note
	if err := json.Unmarshal([]byte(raw), &note); err != nil {
		// A corrupt entry behaves like a miss; the next Set repairs it.
		_ = c.client.Del(ctx, c.noteKey(noteID)).Err()
		return nil, repository.ErrNotFound
	}
	return &note, nil
}

func (c *RedisNoteCache) Set(ctx context.Context, note *domain.Note) error {
	raw, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("redis: marshal note '%s': %w", note.ID, err)
	}
	if err := c.client.Set(ctx, c.noteKey(note.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set note '%s': %w", note.ID, err)
	}
	return nil
}

func (c *RedisNoteCache) Invalidate(ctx context.Context, noteID string) error {
	if err := c.client.Del(ctx, c.noteKey(noteID)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate note '%s': %w", noteID, err)
	}
	return nil
}
