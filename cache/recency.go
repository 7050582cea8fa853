package cache

// NodeHandle 节点在 arena 中的下标，仅在 Store 内部持有
type NodeHandle int

const nilHandle NodeHandle = -1

type recencyNode struct {
	domain string
	prev   NodeHandle
	next   NodeHandle
}

// RecencyList 基于 arena 的双向链表
//
// head 端为最久未使用（LRU），tail 端为最近使用（MRU）。
// 节点通过稳定下标互相引用，释放的槽位进入空闲链表复用。
type RecencyList struct {
	nodes []recencyNode
	free  []NodeHandle
	head  NodeHandle
	tail  NodeHandle
	size  int
}

// NewRecencyList 创建空链表
func NewRecencyList() *RecencyList {
	return &RecencyList{
		head: nilHandle,
		tail: nilHandle,
	}
}

// Len 返回节点数量
func (l *RecencyList) Len() int {
	return l.size
}

// PushBack 分配新节点并追加到 MRU 端
func (l *RecencyList) PushBack(domain string) NodeHandle {
	var h NodeHandle
	if n := len(l.free); n > 0 {
		h = l.free[n-1]
		l.free = l.free[:n-1]
		l.nodes[h] = recencyNode{domain: domain, prev: nilHandle, next: nilHandle}
	} else {
		h = NodeHandle(len(l.nodes))
		l.nodes = append(l.nodes, recencyNode{domain: domain, prev: nilHandle, next: nilHandle})
	}
	l.link(h)
	return h
}

// Remove 摘除节点并回收槽位
func (l *RecencyList) Remove(h NodeHandle) {
	l.unlink(h)
	l.release(h)
}

// Touch 将节点移动到 MRU 端，已在 MRU 端时不做任何操作
func (l *RecencyList) Touch(h NodeHandle) {
	if h == l.tail {
		return
	}
	l.unlink(h)
	l.link(h)
}

// PopFront 移除并返回最久未使用的节点对应的域名
func (l *RecencyList) PopFront() (string, bool) {
	h := l.head
	if h == nilHandle {
		return "", false
	}
	domain := l.nodes[h].domain
	l.Remove(h)
	return domain, true
}

// Domain 返回节点对应的域名
func (l *RecencyList) Domain(h NodeHandle) string {
	return l.nodes[h].domain
}

// Domains 按 LRU -> MRU 顺序返回所有域名
func (l *RecencyList) Domains() []string {
	out := make([]string, 0, l.size)
	for h := l.head; h != nilHandle; h = l.nodes[h].next {
		out = append(out, l.nodes[h].domain)
	}
	return out
}

// Reset 清空链表
func (l *RecencyList) Reset() {
	l.nodes = nil
	l.free = nil
	l.head = nilHandle
	l.tail = nilHandle
	l.size = 0
}

// link 追加到 tail，节点必须处于游离状态
func (l *RecencyList) link(h NodeHandle) {
	n := &l.nodes[h]
	n.prev = l.tail
	n.next = nilHandle
	if l.tail != nilHandle {
		l.nodes[l.tail].next = h
	} else {
		l.head = h
	}
	l.tail = h
	l.size++
}

func (l *RecencyList) unlink(h NodeHandle) {
	n := &l.nodes[h]
	if n.prev != nilHandle {
		l.nodes[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nilHandle {
		l.nodes[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev = nilHandle
	n.next = nilHandle
	l.size--
}

func (l *RecencyList) release(h NodeHandle) {
	l.nodes[h].domain = ""
	l.free = append(l.free, h)
}
