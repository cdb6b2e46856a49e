// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// feed.go provides a Valkey-backed snapshot of the post list, keyed per
// session. The feed view is the only reader and writer: it fills the
// snapshot after fetching from the backend and mutates it through the
// optimistic like/delete paths. The snapshot is a view cache, never a
// source of truth — anything that changes posts through the editor
// invalidates it so the feed re-fetches.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"inkfeed/internal/models"
)

const (
	// feedKeyPrefix namespaces feed snapshot keys in Valkey.
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL is how long a feed snapshot stays usable.
	DefaultFeedTTL = 5 * time.Minute
)

// FeedCache manages per-session post snapshots in Valkey.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Valkey client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Get retrieves the cached post snapshot for a session. The second return
// is false on a miss or an unreadable entry.
func (fc *FeedCache) Get(ctx context.Context, sessionID string) ([]models.Post, bool) {
	if sessionID == "" {
		return nil, false
	}

	payload, err := fc.client.Get(ctx, feedKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "error", err)
		return nil, false
	}

	var posts []models.Post
	if err := json.Unmarshal(payload, &posts); err != nil {
		slog.Warn("feed cache decode error", "error", err)
		return nil, false
	}
	return posts, true
}

// Set stores the post snapshot for a session with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, sessionID string, posts []models.Post) {
	if sessionID == "" {
		return
	}

	payload, err := json.Marshal(posts)
	if err != nil {
		slog.Warn("feed cache encode error", "error", err)
		return
	}
	if err := fc.client.Set(ctx, feedKeyPrefix+sessionID, payload, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "error", err)
	}
}

// Invalidate drops the snapshot for one session, forcing the next feed
// load to re-fetch from the backend.
func (fc *FeedCache) Invalidate(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := fc.client.Del(ctx, feedKeyPrefix+sessionID).Err(); err != nil {
		slog.Warn("feed cache invalidate error", "error", err)
	}
}

// InvalidateAll drops every session's snapshot by scanning for the prefix.
// Used after a post is created, updated or deleted, since any session's
// snapshot could contain stale data.
func (fc *FeedCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := fc.client.Scan(ctx, cursor, feedKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("feed cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("feed cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("feed cache fully cleared", "deleted", deleted)
	}
}
