package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNegativeCapacity 容量为负数
var ErrNegativeCapacity = errors.New("max_capacity 不能为负数")

// indexRecord 将三个结构关联起来的唯一事实来源
type indexRecord struct {
	node      NodeHandle
	entry     CacheEntry
	expiryKey ExpiryKey
}

// Option Store 可选项
type Option func(*Store)

// WithClock 替换时钟（测试使用）
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithEvictHook 条目被移除时回调
//
// 回调在 Store 锁内执行，不能再调用 Store 的任何方法。
func WithEvictHook(hook func(domain string, reason EvictReason)) Option {
	return func(s *Store) {
		s.onEvict = hook
	}
}

// Store TTL + LRU 存储
//
//   - recency: LRU 链表（head = LRU, tail = MRU）
//   - expiry:  过期索引，保存 ExpiryKey(expires_at, domain)
//   - index:   域名 -> indexRecord
//
// 所有修改在同一把互斥锁内完成，*Locked 方法假定调用方已持有锁。
type Store struct {
	mu sync.Mutex

	id          string
	maxCapacity int
	index       map[string]*indexRecord
	recency     *RecencyList
	expiry      *ExpiryIndex

	now     func() time.Time
	onEvict func(domain string, reason EvictReason)

	hits        uint64
	misses      uint64
	expirations uint64
	evictions   uint64
}

// NewStore 创建存储，容量为负数时返回 ErrNegativeCapacity
func NewStore(maxCapacity int, opts ...Option) (*Store, error) {
	if maxCapacity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCapacity, maxCapacity)
	}

	s := &Store{
		id:          uuid.NewString(),
		maxCapacity: maxCapacity,
		index:       make(map[string]*indexRecord),
		recency:     NewRecencyList(),
		expiry:      NewExpiryIndex(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID 返回实例标识
func (s *Store) ID() string {
	return s.id
}

// Cap 返回最大容量
func (s *Store) Cap() int {
	return s.maxCapacity
}

// Now 返回 Store 使用的当前时间
func (s *Store) Now() time.Time {
	return s.now()
}

// Used 返回当前存活的键数量
func (s *Store) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index)
}

// Put 写入或覆盖条目
//
// 非正 TTL 视为删除请求；容量为 0 时丢弃。覆盖写入会完全替换旧条目的 TTL 与创建时间。
func (s *Store) Put(domain string, entry CacheEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.TTLSecs <= 0 {
		s.removeLocked(domain, EvictDeleted)
		return
	}

	now := s.now()
	s.sweepLocked(now)

	newKey := ExpiryKey{ExpiresAt: entry.ExpiresAt(), Domain: domain}

	// 覆盖写入：不重新检查容量
	if rec, ok := s.index[domain]; ok {
		s.expiry.Remove(rec.expiryKey)
		s.expiry.Insert(newKey)
		rec.entry = entry
		rec.expiryKey = newKey
		s.recency.Touch(rec.node)
		return
	}

	if s.maxCapacity == 0 {
		return
	}

	s.ensureCapacityLocked(now)
	if len(s.index) >= s.maxCapacity {
		return
	}

	node := s.recency.PushBack(domain)
	s.expiry.Insert(newKey)
	s.index[domain] = &indexRecord{
		node:      node,
		entry:     entry,
		expiryKey: newKey,
	}
}

// Get 读取条目，过期条目在访问时被移除
func (s *Store) Get(domain string) (CacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, ok := s.index[domain]
	if !ok {
		s.sweepLocked(now)
		s.misses++
		return CacheEntry{}, false
	}

	if rec.entry.IsExpired(now) {
		s.removeLocked(domain, EvictExpired)
		s.misses++
		return CacheEntry{}, false
	}

	s.recency.Touch(rec.node)
	s.hits++
	return rec.entry, true
}

// Peek 读取未过期的条目，不更新 LRU 顺序和命中统计
func (s *Store) Peek(domain string) (CacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.index[domain]
	if !ok || rec.entry.IsExpired(s.now()) {
		return CacheEntry{}, false
	}
	return rec.entry, true
}

// Delete 删除条目，不存在时不做任何操作
func (s *Store) Delete(domain string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(domain, EvictDeleted)
}

// Sweep 移除所有已过期条目，返回移除数量
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sweepLocked(s.now())
}

// Clear 清空所有条目，不触发回调
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.index = make(map[string]*indexRecord)
	s.recency.Reset()
	s.expiry.Clear()
}

// Keys 按 MRU -> LRU 顺序返回所有键（包含尚未清理的过期键）
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	domains := s.recency.Domains()
	for i, j := 0, len(domains)-1; i < j; i, j = i+1, j-1 {
		domains[i], domains[j] = domains[j], domains[i]
	}
	return domains
}

// Stats 返回统计快照
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		ID:          s.id,
		Hits:        s.hits,
		Misses:      s.misses,
		Expirations: s.expirations,
		Evictions:   s.evictions,
		Used:        len(s.index),
		Capacity:    s.maxCapacity,
	}
}

// ensureCapacityLocked 先清理过期条目，再按 LRU 淘汰，直到低于容量或为空
func (s *Store) ensureCapacityLocked(now time.Time) {
	for {
		s.sweepLocked(now)
		if len(s.index) == 0 || len(s.index) < s.maxCapacity {
			return
		}

		domain, ok := s.recency.PopFront()
		if !ok {
			return
		}
		s.detachLocked(domain, EvictCapacity, false)
	}
}

// sweepLocked 从过期索引最小值开始移除，遇到第一个未过期的键即停止
func (s *Store) sweepLocked(now time.Time) int {
	removed := 0
	for {
		key, ok := s.expiry.PeekMin()
		if !ok || key.ExpiresAt.After(now) {
			return removed
		}
		if !s.removeLocked(key.Domain, EvictExpired) {
			s.expiry.Remove(key)
			continue
		}
		removed++
	}
}

// removeLocked 同时从三个结构中移除键，惰性过期、主动清理和删除共用
func (s *Store) removeLocked(domain string, reason EvictReason) bool {
	return s.detachLocked(domain, reason, true)
}

// detachLocked 移除索引记录和过期键；LRU 淘汰时节点已由 PopFront 摘除，unlink 为 false
func (s *Store) detachLocked(domain string, reason EvictReason, unlink bool) bool {
	rec, ok := s.index[domain]
	if !ok {
		return false
	}
	delete(s.index, domain)
	s.expiry.Remove(rec.expiryKey)
	if unlink {
		s.recency.Remove(rec.node)
	}

	switch reason {
	case EvictExpired:
		s.expirations++
	case EvictCapacity:
		s.evictions++
	}
	s.notifyLocked(domain, reason)
	return true
}

func (s *Store) notifyLocked(domain string, reason EvictReason) {
	if s.onEvict != nil {
		s.onEvict(domain, reason)
	}
}
