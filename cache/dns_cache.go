package cache

import (
	"context"
	"errors"
	"fmt"

	"violet-dnscache/middleware"
	"violet-dnscache/utils"
)

var (
	// ErrInvalidDomain 域名格式无效
	ErrInvalidDomain = errors.New("域名格式无效")
	// ErrInvalidIPv4 IPv4 地址格式无效
	ErrInvalidIPv4 = errors.New("IPv4 地址格式无效")
)

// DNSCache DNS 缓存接口
type DNSCache interface {
	Get(domain string) (string, bool)
	Put(domain, ipv4 string, ttlSecs int) error
	Delete(domain string) error
	Clear() error
}

// FetchFunc 缓存未命中时的回源函数
type FetchFunc func(ctx context.Context, domain string) (ipv4 string, ttlSecs int, err error)

// MemoryDNSCache 内存 DNS 缓存，校验输入后委托给 Store
type MemoryDNSCache struct {
	store  *Store
	logger *middleware.Logger
	flight *middleware.Singleflight
}

var _ DNSCache = (*MemoryDNSCache)(nil)

// NewMemoryDNSCache 创建新的内存 DNS 缓存
func NewMemoryDNSCache(maxCapacity int, logger *middleware.Logger, opts ...Option) (*MemoryDNSCache, error) {
	if logger == nil {
		logger = middleware.NewDiscardLogger()
	}

	store, err := NewStore(maxCapacity, opts...)
	if err != nil {
		return nil, err
	}

	// 保留调用方通过 WithEvictHook 传入的回调
	next := store.onEvict
	store.onEvict = func(domain string, reason EvictReason) {
		logger.LogCacheEvict(domain, reason.String())
		if next != nil {
			next(domain, reason)
		}
	}

	return &MemoryDNSCache{
		store:  store,
		logger: logger,
		flight: middleware.NewSingleflight(),
	}, nil
}

// Store 返回底层存储
func (c *MemoryDNSCache) Store() *Store {
	return c.store
}

// Get 获取缓存的 IPv4 地址
func (c *MemoryDNSCache) Get(domain string) (string, bool) {
	ipv4, _, ok := c.Lookup(domain)
	return ipv4, ok
}

// Lookup 获取缓存的 IPv4 地址及剩余 TTL（秒）
func (c *MemoryDNSCache) Lookup(domain string) (string, int, bool) {
	entry, ok := c.store.Get(domain)
	if !ok {
		c.logger.LogCacheMiss(domain)
		return "", 0, false
	}

	remaining := entry.RemainingTTL(c.store.Now())
	c.logger.LogCacheHit(domain, entry.IPv4, remaining)
	return entry.IPv4, remaining, true
}

// Put 校验后写入缓存，非正 TTL 会删除已有条目
func (c *MemoryDNSCache) Put(domain, ipv4 string, ttlSecs int) error {
	if !utils.ValidDomain(domain) {
		return fmt.Errorf("%w: %s", ErrInvalidDomain, domain)
	}
	if !utils.ValidIPv4(ipv4) {
		return fmt.Errorf("%w: %s", ErrInvalidIPv4, ipv4)
	}

	entry := NewCacheEntry(domain, ipv4, ttlSecs, c.store.Now())
	c.store.Put(domain, entry)
	c.logger.LogCacheSet(domain, ipv4, ttlSecs)
	return nil
}

// Delete 删除缓存
func (c *MemoryDNSCache) Delete(domain string) error {
	c.store.Delete(domain)
	c.logger.LogCacheDelete(domain)
	return nil
}

// Clear 清空缓存
func (c *MemoryDNSCache) Clear() error {
	c.store.Clear()
	return nil
}

// GetOrFetch 未命中时回源并写入缓存
//
// 同一域名的并发未命中只会执行一次 fetch，其余调用方共享结果。
// 回源返回非正 TTL 时结果照常返回但不写入缓存。
func (c *MemoryDNSCache) GetOrFetch(ctx context.Context, domain string, fetch FetchFunc) (string, error) {
	if !utils.ValidDomain(domain) {
		return "", fmt.Errorf("%w: %s", ErrInvalidDomain, domain)
	}
	if ipv4, ok := c.Get(domain); ok {
		return ipv4, nil
	}

	result, _, err := c.flight.Do(domain, func() (middleware.FetchResult, error) {
		if err := ctx.Err(); err != nil {
			return middleware.FetchResult{}, err
		}
		// 前一轮回源可能已经写入
		if entry, ok := c.store.Peek(domain); ok {
			return middleware.FetchResult{IPv4: entry.IPv4, TTLSecs: entry.TTLSecs}, nil
		}

		ipv4, ttlSecs, err := fetch(ctx, domain)
		if err != nil {
			return middleware.FetchResult{}, fmt.Errorf("回源查询失败: %w", err)
		}
		if err := c.Put(domain, ipv4, ttlSecs); err != nil {
			return middleware.FetchResult{}, err
		}
		return middleware.FetchResult{IPv4: ipv4, TTLSecs: ttlSecs}, nil
	})
	if err != nil {
		c.logger.LogError("fetch", domain, err, nil)
		return "", err
	}

	return result.IPv4, nil
}
