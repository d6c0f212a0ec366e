package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	dom "Taskboard/internal/domain"

	"github.com/redis/go-redis/v9"
)

// TaskCache caches derived task views in Redis.
//
// Views are stored under the generation current when the read began, and
// every write bumps the generation, so a fill racing a write can never be
// served afterwards. Categories are never cached.
//
// All keys live under task:<namespace>:. Caches sharing a namespace must
// sit in front of the same store.
type TaskCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	keyGen  string
	keyView string
}

// NewTaskCache returns a new TaskCache whose keys are scoped to namespace.
func NewTaskCache(rdb *redis.Client, ttl time.Duration, namespace string) *TaskCache {
	prefix := "task:" + namespace + ":"
	return &TaskCache{rdb: rdb, ttl: ttl, keyGen: prefix + "gen", keyView: prefix + "view:"}
}

// Generation returns the current write generation, 0 if none yet.
func (c *TaskCache) Generation(ctx context.Context) (int64, error) {
	n, err := c.rdb.Get(ctx, c.keyGen).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// GetView returns the cached view for key at gen, or nil on a miss.
func (c *TaskCache) GetView(ctx context.Context, gen int64, key string) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, c.viewKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := make([]dom.Task, 0)
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetView stores a view under key at gen.
func (c *TaskCache) SetView(ctx context.Context, gen int64, key string, list []dom.Task) error {
	if list == nil {
		list = []dom.Task{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.viewKey(gen, key), b, c.ttl).Err()
}

// InvalidateAll bumps the generation and drops stored views (cache invalidation on write).
func (c *TaskCache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, c.keyGen).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, c.keyView+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *TaskCache) viewKey(gen int64, key string) string {
	return c.keyView + strconv.FormatInt(gen, 10) + ":" + key
}
