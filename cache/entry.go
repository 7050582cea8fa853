package cache

import (
	"math"
	"strings"
	"time"
)

// CacheEntry 缓存条目（创建后不可修改，覆盖写入会生成新条目）
type CacheEntry struct {
	DomainName string    // 域名（同时也是缓存键）
	IPv4       string    // 点分十进制 IPv4 地址
	TTLSecs    int       // 存活时间（秒）
	CreatedAt  time.Time // 创建时间
}

// NewCacheEntry 以指定创建时间构造缓存条目
func NewCacheEntry(domain, ipv4 string, ttlSecs int, createdAt time.Time) CacheEntry {
	return CacheEntry{
		DomainName: domain,
		IPv4:       ipv4,
		TTLSecs:    ttlSecs,
		CreatedAt:  createdAt,
	}
}

// maxTTLSecs time.Duration 能表示的最大秒数
const maxTTLSecs = math.MaxInt64 / int64(time.Second)

// ExpiresAt 返回过期时间，负 TTL 按 0 处理，超出 time.Duration 范围时截断
func (e CacheEntry) ExpiresAt() time.Time {
	ttl := int64(e.TTLSecs)
	if ttl < 0 {
		ttl = 0
	}
	if ttl > maxTTLSecs {
		ttl = maxTTLSecs
	}
	return e.CreatedAt.Add(time.Duration(ttl) * time.Second)
}

// IsExpired 检查是否过期
func (e CacheEntry) IsExpired(now time.Time) bool {
	return !now.Before(e.ExpiresAt())
}

// RemainingTTL 计算剩余 TTL（秒）
func (e CacheEntry) RemainingTTL(now time.Time) int {
	remaining := int(e.ExpiresAt().Sub(now) / time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ExpiryKey 过期索引键，按 (过期时间, 域名) 排序
type ExpiryKey struct {
	ExpiresAt time.Time
	Domain    string
}

// compareExpiryKeys 域名作为同一时刻过期时的次序
func compareExpiryKeys(a, b interface{}) int {
	ka := a.(ExpiryKey)
	kb := b.(ExpiryKey)
	if c := ka.ExpiresAt.Compare(kb.ExpiresAt); c != 0 {
		return c
	}
	return strings.Compare(ka.Domain, kb.Domain)
}
