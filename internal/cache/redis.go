package cache

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"taskboard/pkg/logger"
)

// Connect parses url, applies poolSize and pings the server.
func Connect(ctx context.Context, url string, poolSize int) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if poolSize > 0 {
		opts.PoolSize = poolSize
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	logger.Info(ctx, "Redis client initialized", "pool_size", opts.PoolSize)
	return client, nil
}

// ListKey is the key holding the serialized task list of one server instance.
func ListKey(instanceID string) string {
	return "tasks:" + instanceID + ":all"
}

// Entry encodes a cached list body as "<generation>\n<body>".
func Entry(gen uint64, body []byte) []byte {
	out := strconv.AppendUint(nil, gen, 10)
	out = append(out, '\n')
	return append(out, body...)
}

func parseEntry(v []byte) (uint64, []byte, bool) {
	head, body, ok := bytes.Cut(v, []byte{'\n'})
	if !ok {
		return 0, nil, false
	}
	gen, err := strconv.ParseUint(string(head), 10, 64)
	if err != nil {
		return 0, nil, false
	}
	return gen, body, true
}

// TaskCache stores the raw JSON of GET /tasks for one instance, tagged
// with the store generation it was built from.
// A nil *TaskCache, or one without a client, is a permanent miss.
type TaskCache struct {
	client   *redis.Client
	instance string
	ttl      time.Duration
}

// NewTaskCache returns a cache for instanceID's task list.
func NewTaskCache(client *redis.Client, instanceID string, ttl time.Duration) *TaskCache {
	return &TaskCache{client: client, instance: instanceID, ttl: ttl}
}

func (c *TaskCache) enabled() bool { return c != nil && c.client != nil }

// GetRawTasks returns the cached list body built at generation gen.
// Returns (nil, false) on miss, error, or an entry from another generation.
func (c *TaskCache) GetRawTasks(ctx context.Context, gen uint64) ([]byte, bool) {
	if !c.enabled() {
		return nil, false
	}
	b, err := c.client.Get(ctx, ListKey(c.instance)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get tasks failed", "error", err)
		return nil, false
	}
	cached, body, ok := parseEntry(b)
	if !ok || cached != gen {
		return nil, false
	}
	return body, true
}

// SetRawTasks writes the list body built at generation gen with the configured TTL.
func (c *TaskCache) SetRawTasks(ctx context.Context, gen uint64, b []byte) {
	if !c.enabled() {
		return
	}
	if err := c.client.Set(ctx, ListKey(c.instance), Entry(gen, b), c.ttl).Err(); err != nil {
		logger.Debug(ctx, "Redis set tasks failed", "error", err)
	}
}

// InvalidateTasks deletes this instance's list so the next read rebuilds it.
func (c *TaskCache) InvalidateTasks(ctx context.Context) {
	if c != nil {
		c.InvalidateInstance(ctx, c.instance)
	}
}

// InvalidateInstance deletes the list cached by another instance.
func (c *TaskCache) InvalidateInstance(ctx context.Context, instanceID string) {
	if !c.enabled() {
		return
	}
	if err := c.client.Del(ctx, ListKey(instanceID)).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate tasks failed", "error", err, "instance", instanceID)
	}
}

// Ping reports whether the backing redis is reachable. A disabled cache is always healthy.
func (c *TaskCache) Ping(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the redis client.
func (c *TaskCache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.client.Close()
}
