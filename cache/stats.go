package cache

import "fmt"

// EvictReason 条目被移除的原因
type EvictReason int

const (
	EvictExpired  EvictReason = iota // TTL 到期
	EvictCapacity                    // 容量不足，按 LRU 淘汰
	EvictDeleted                     // 显式删除或非正 TTL 覆盖
)

func (r EvictReason) String() string {
	switch r {
	case EvictExpired:
		return "expired"
	case EvictCapacity:
		return "capacity"
	case EvictDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("EvictReason(%d)", int(r))
	}
}

// Stats 运行统计快照，计数器在 Store 锁内更新
type Stats struct {
	ID          string
	Hits        uint64
	Misses      uint64
	Expirations uint64
	Evictions   uint64
	Used        int
	Capacity    int
}

// HitRatio 命中率，没有任何查询时返回 0
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
