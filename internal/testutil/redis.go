package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisLockPrefix = "alertnotify:testutil:db:"

// SetupTestRedis returns a client bound to a Redis logical database reserved
// for t. The database is flushed before use and released on cleanup.
func SetupTestRedis(t TB) *redis.Client {
	t.Helper()
	addr := envOr("TEST_REDIS_ADDR", envOr("REDIS_ADDR", "localhost:56379"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	probe := redis.NewClient(&redis.Options{Addr: addr})
	if err := probe.Ping(ctx).Err(); err != nil {
		_ = probe.Close()
		unavailable(t, requireRedis(), "redis not available at %s: %v", addr, err)
	}
	_ = probe.Close()

	dbIndex := reserveRedisDB(t, addr)
	client := redis.NewClient(&redis.Options{Addr: addr, DB: dbIndex})
	if err := client.FlushDB(ctx).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("flush redis db %d: %v", dbIndex, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// reserveRedisDB claims one of DB 1..15 with a lock key stored in DB 0 so
// parallel packages never flush each other's data.
func reserveRedisDB(t TB, addr string) int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}

	meta := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = meta.Close() }()

	owner := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
	for i := 1; i <= 15; i++ {
		key := redisLockPrefix + strconv.Itoa(i)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		ok, err := meta.SetNX(ctx, key, owner, 30*time.Minute).Result()
		cancel()
		if err != nil || !ok {
			continue
		}
		t.Cleanup(func() {
			c := redis.NewClient(&redis.Options{Addr: addr})
			defer func() { _ = c.Close() }()
			cctx, ccancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer ccancel()
			_ = c.Del(cctx, key).Err()
		})
		return i
	}
	t.Logf("no free redis db at %s, sharing db 1", addr)
	return 1
}
