package lms

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL 缓存客户端的有效期
const DefaultCacheTTL = 30 * time.Minute

type cacheEntry struct {
	client    *Client
	timestamp time.Time
}

// CacheOption 缓存选项
type CacheOption func(*ClientCache)

// WithCacheTTL 设置有效期
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *ClientCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheClock 替换时钟
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *ClientCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithClientOptions 缓存创建客户端时附加的选项
func WithClientOptions(opts ...Option) CacheOption {
	return func(c *ClientCache) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

// ClientCache 按 (环境, 域名, 用户) 缓存已登录的客户端。
// 读取时惰性淘汰过期项，不做容量限制，也不主动清扫。
type ClientCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time

	clientOpts []Option
	group      singleflight.Group
}

// NewClientCache 创建缓存
func NewClientCache(opts ...CacheOption) *ClientCache {
	c := &ClientCache{
		entries: make(map[string]cacheEntry),
		ttl:     DefaultCacheTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CacheKey 组合缓存键
func CacheKey(environmentID, domain, userCode string) string {
	return strings.Join([]string{environmentID, domain, userCode}, "|")
}

// TTL 有效期
func (c *ClientCache) TTL() time.Duration {
	return c.ttl
}

// Get 命中且未过期时返回客户端，过期项被删除并视为未命中
func (c *ClientCache) Get(environmentID, domain, userCode string) *Client {
	key := CacheKey(environmentID, domain, userCode)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		cacheLookupTotal.WithLabelValues("miss").Inc()
		return nil
	}
	if c.now().Sub(entry.timestamp) > c.ttl {
		delete(c.entries, key)
		cacheLookupTotal.WithLabelValues("expired").Inc()
		return nil
	}
	cacheLookupTotal.WithLabelValues("hit").Inc()
	return entry.client
}

// Set 写入或覆盖
func (c *ClientCache) Set(environmentID, domain, userCode string, client *Client) {
	if client == nil {
		return
	}
	key := CacheKey(environmentID, domain, userCode)

	c.mu.Lock()
	c.entries[key] = cacheEntry{client: client, timestamp: c.now()}
	c.mu.Unlock()
}

// Clear 删除一项
func (c *ClientCache) Clear(environmentID, domain, userCode string) {
	key := CacheKey(environmentID, domain, userCode)

	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// ClearAll 清空
func (c *ClientCache) ClearAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len 当前条目数（含尚未淘汰的过期项）
func (c *ClientCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// NewClient 使用缓存的客户端选项创建一个未登录、未缓存的客户端
func (c *ClientCache) NewClient(env *Environment, dmn, userCode, pass string) (*Client, error) {
	opts := make([]Option, 0, len(c.clientOpts)+2)
	opts = append(opts, c.clientOpts...)
	opts = append(opts, WithDomain(dmn), WithCredentials(userCode, pass))
	return NewClient(env, opts...)
}

// GetOrCreate 返回缓存的客户端，未命中时创建并登录，登录成功才写入缓存。
// 同一键的并发未命中合并为一次登录，登录不随首个调用方的 ctx 取消。
func (c *ClientCache) GetOrCreate(ctx context.Context, env *Environment, dmn, userCode, pass string) (*Client, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}
	if dmn == "" {
		dmn = env.Domain
	}
	if userCode == "" {
		userCode = env.UserCode
	}

	if client := c.Get(env.ID, dmn, userCode); client != nil {
		return client, nil
	}

	v, err, _ := c.group.Do(CacheKey(env.ID, dmn, userCode), func() (any, error) {
		if client := c.Get(env.ID, dmn, userCode); client != nil {
			return client, nil
		}
		client, err := c.NewClient(env, dmn, userCode, pass)
		if err != nil {
			return nil, err
		}
		if err := client.Login(context.WithoutCancel(ctx), "", ""); err != nil {
			return nil, err
		}
		c.Set(env.ID, dmn, userCode, client)
		return client, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Client), nil
}
