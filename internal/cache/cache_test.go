// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"inkfeed/internal/models"
)

// testRedisClient returns a Redis client for tests.
// Skips if Redis is unavailable.
func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("REDIS_HOST", "localhost")
	port := envOr("REDIS_PORT", "6379")
	password := os.Getenv("REDIS_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Redis not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "feed:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnect(t *testing.T) {
	host := envOr("REDIS_HOST", "localhost")
	port := envOr("REDIS_PORT", "6379")

	client, err := Connect(host, port, "")
	if err != nil {
		t.Skipf("skipping integration test: Redis not reachable: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Errorf("ping after Connect failed: %v", err)
	}
}

func TestFeedCacheRoundTrip(t *testing.T) {
	client := testRedisClient(t)
	fc := NewFeedCache(client, time.Minute)
	ctx := context.Background()

	posts := []models.Post{
		{ID: "1", Title: "First", Author: models.Author{Username: "alice"}},
		{ID: "2", Title: "Second", Tags: []string{"go"}},
	}

	if _, ok := fc.Get(ctx, "sess-a"); ok {
		t.Fatal("expected a miss before Set")
	}

	fc.Set(ctx, "sess-a", posts)

	got, ok := fc.Get(ctx, "sess-a")
	if !ok {
		t.Fatal("expected a hit after Set")
	}
	if len(got) != 2 || got[0].Title != "First" || got[1].Tags[0] != "go" {
		t.Errorf("got = %+v", got)
	}
}

func TestFeedCacheIsolatesSessions(t *testing.T) {
	client := testRedisClient(t)
	fc := NewFeedCache(client, time.Minute)
	ctx := context.Background()

	fc.Set(ctx, "sess-a", []models.Post{{ID: "1"}})

	if _, ok := fc.Get(ctx, "sess-b"); ok {
		t.Error("another session must not see the snapshot")
	}
}

func TestFeedCacheInvalidate(t *testing.T) {
	client := testRedisClient(t)
	fc := NewFeedCache(client, time.Minute)
	ctx := context.Background()

	fc.Set(ctx, "sess-a", []models.Post{{ID: "1"}})
	fc.Invalidate(ctx, "sess-a")

	if _, ok := fc.Get(ctx, "sess-a"); ok {
		t.Error("expected a miss after Invalidate")
	}
}

func TestFeedCacheInvalidateAll(t *testing.T) {
	client := testRedisClient(t)
	fc := NewFeedCache(client, time.Minute)
	ctx := context.Background()

	fc.Set(ctx, "sess-a", []models.Post{{ID: "1"}})
	fc.Set(ctx, "sess-b", []models.Post{{ID: "2"}})

	fc.InvalidateAll(ctx)

	if _, ok := fc.Get(ctx, "sess-a"); ok {
		t.Error("sess-a snapshot survived InvalidateAll")
	}
	if _, ok := fc.Get(ctx, "sess-b"); ok {
		t.Error("sess-b snapshot survived InvalidateAll")
	}
}
