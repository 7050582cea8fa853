package cache

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

// ExpiryIndex 按 (过期时间, 域名) 排序的有序集合
type ExpiryIndex struct {
	tree *redblacktree.Tree
}

// NewExpiryIndex 创建空索引
func NewExpiryIndex() *ExpiryIndex {
	return &ExpiryIndex{
		tree: redblacktree.NewWith(compareExpiryKeys),
	}
}

// Insert 插入键，O(log n)
func (x *ExpiryIndex) Insert(key ExpiryKey) {
	x.tree.Put(key, struct{}{})
}

// Remove 按值删除，键不存在时不做任何操作
func (x *ExpiryIndex) Remove(key ExpiryKey) {
	x.tree.Remove(key)
}

// Contains 检查键是否存在
func (x *ExpiryIndex) Contains(key ExpiryKey) bool {
	_, found := x.tree.Get(key)
	return found
}

// PeekMin 返回最早过期的键
func (x *ExpiryIndex) PeekMin() (ExpiryKey, bool) {
	node := x.tree.Left()
	if node == nil {
		return ExpiryKey{}, false
	}
	return node.Key.(ExpiryKey), true
}

// PopMin 移除并返回最早过期的键
func (x *ExpiryIndex) PopMin() (ExpiryKey, bool) {
	key, ok := x.PeekMin()
	if !ok {
		return ExpiryKey{}, false
	}
	x.tree.Remove(key)
	return key, true
}

// Len 返回键数量
func (x *ExpiryIndex) Len() int {
	return x.tree.Size()
}

// Keys 按升序返回所有键
func (x *ExpiryIndex) Keys() []ExpiryKey {
	raw := x.tree.Keys()
	out := make([]ExpiryKey, 0, len(raw))
	for _, k := range raw {
		out = append(out, k.(ExpiryKey))
	}
	return out
}

// Clear 清空索引
func (x *ExpiryIndex) Clear() {
	x.tree.Clear()
}
