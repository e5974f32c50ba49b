package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/erni27/imcache"
)

// Client is the shared in-process cache used for the voted-email sets, the
// results snapshots, submission status records, counters, and generation
// stamps. It is injected explicitly wherever caching is needed; there is no
// ambient global state. Current implementation is imcache-backed while
// runtime wiring is finalized for an external cache backend.
type Client struct {
	kv       *imcache.Cache[string, []byte]
	sets     *imcache.Cache[string, map[string]struct{}]
	counters *imcache.Cache[string, int64]
	gens     *imcache.Cache[string, uint64]

	// mu serializes read-modify-write cycles on sets and counters; imcache
	// guards individual operations but not compound ones.
	mu     sync.Mutex
	logger *slog.Logger
}

func New(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		kv:       imcache.New(imcache.WithCleanerOption[string, []byte](time.Minute)),
		sets:     imcache.New(imcache.WithCleanerOption[string, map[string]struct{}](time.Minute)),
		counters: imcache.New(imcache.WithCleanerOption[string, int64](time.Minute)),
		gens:     imcache.New[string, uint64](),
		logger:   logger,
	}
}

func (c *Client) Get(key string) ([]byte, bool) {
	return c.kv.Get(key)
}

func (c *Client) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		c.kv.Set(key, value, imcache.WithNoExpiration())
		return
	}
	c.kv.Set(key, value, imcache.WithExpiration(ttl))
}

func (c *Client) Delete(key string) {
	c.kv.Remove(key)
}

// SAdd adds member to the set at key and resets the whole-set expiry, so
// every write extends the set's lifetime the way EXPIRE after SADD would.
func (c *Client) SAdd(key string, member string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	members, _ := c.sets.Get(key)
	next := make(map[string]struct{}, len(members)+1)
	for m := range members {
		next[m] = struct{}{}
	}
	next[member] = struct{}{}
	c.setMembers(key, next, ttl)
}

func (c *Client) SRem(key string, member string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	members, ok := c.sets.Get(key)
	if !ok {
		return
	}
	next := make(map[string]struct{}, len(members))
	for m := range members {
		if m != member {
			next[m] = struct{}{}
		}
	}
	c.setMembers(key, next, ttl)
}

func (c *Client) SIsMember(key string, member string) bool {
	members, ok := c.sets.Get(key)
	if !ok {
		return false
	}
	_, present := members[member]
	return present
}

func (c *Client) SCard(key string) int {
	members, _ := c.sets.Get(key)
	return len(members)
}

// Increment adds delta to the counter at key, creating it with the given
// TTL when absent, and returns the new value.
func (c *Client) Increment(key string, delta int64, ttl time.Duration) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	current, _ := c.counters.Get(key)
	next := current + delta
	if ttl <= 0 {
		c.counters.Set(key, next, imcache.WithNoExpiration())
	} else {
		c.counters.Set(key, next, imcache.WithExpiration(ttl))
	}
	return next
}

func (c *Client) CounterValue(key string) int64 {
	value, _ := c.counters.Get(key)
	return value
}

// Generation returns the current generation stamp for key, starting at 1.
// Stamps never expire; they only move forward.
func (c *Client) Generation(key string) uint64 {
	if gen, ok := c.gens.Get(key); ok {
		return gen
	}
	return 1
}

// BumpGeneration advances the stamp for key, orphaning every cache entry
// whose key embeds the previous generation.
func (c *Client) BumpGeneration(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := uint64(2)
	if gen, ok := c.gens.Get(key); ok {
		next = gen + 1
	}
	c.gens.Set(key, next, imcache.WithNoExpiration())
	return next
}

func (c *Client) setMembers(key string, members map[string]struct{}, ttl time.Duration) {
	if len(members) == 0 {
		c.sets.Remove(key)
		return
	}
	if ttl <= 0 {
		c.sets.Set(key, members, imcache.WithNoExpiration())
		return
	}
	c.sets.Set(key, members, imcache.WithExpiration(ttl))
}
