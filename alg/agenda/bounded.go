package agenda

import (
	"container/heap"
	"sort"
)

// Bounded keeps at most Capacity elements, at most one per key. The worst
// element sits at the root so that it can be evicted when a better element
// for an unrepresented key arrives.
type Bounded struct {
	Capacity int

	better Better
	items  []interface{}
	keys   []int
	pos    map[int]int

	Evicted, Rejected int
}

var _ heap.Interface = &Bounded{}

func NewBounded(capacity int, better Better) *Bounded {
	return &Bounded{
		Capacity: capacity,
		better:   better,
		items:    make([]interface{}, 0, capacity),
		keys:     make([]int, 0, capacity),
		pos:      make(map[int]int, capacity),
	}
}

func (b *Bounded) Len() int {
	return len(b.items)
}

// Less is reversed: the root holds the element every other element beats.
func (b *Bounded) Less(i, j int) bool {
	return b.better(b.items[j], b.items[i])
}

func (b *Bounded) Swap(i, j int) {
	b.items[i], b.items[j] = b.items[j], b.items[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
	b.pos[b.keys[i]] = i
	b.pos[b.keys[j]] = j
}

type keyed struct {
	key  int
	item interface{}
}

func (b *Bounded) Push(x interface{}) {
	k := x.(keyed)
	b.pos[k.key] = len(b.items)
	b.items = append(b.items, k.item)
	b.keys = append(b.keys, k.key)
}

func (b *Bounded) Pop() interface{} {
	n := len(b.items) - 1
	k := keyed{b.keys[n], b.items[n]}
	delete(b.pos, k.key)
	b.items[n] = nil
	b.items, b.keys = b.items[:n], b.keys[:n]
	return k
}

// Offer inserts item under key. It returns whether the item was admitted and
// the element it displaced, if any (a worse element for the same key, or the
// global worst when the heap was full).
func (b *Bounded) Offer(key int, item interface{}) (bool, interface{}) {
	if i, exists := b.pos[key]; exists {
		if !b.better(item, b.items[i]) {
			b.Rejected++
			return false, nil
		}
		displaced := b.items[i]
		b.items[i] = item
		heap.Fix(b, i)
		return true, displaced
	}
	if len(b.items) < b.Capacity {
		heap.Push(b, keyed{key, item})
		return true, nil
	}
	if len(b.items) == 0 || !b.better(item, b.items[0]) {
		b.Rejected++
		return false, nil
	}
	worst := heap.Remove(b, 0).(keyed)
	b.Evicted++
	heap.Push(b, keyed{key, item})
	return true, worst.item
}

// PopBest removes and returns the best element. The best element is a
// leaf of the reversed heap, so this scans the lower half.
func (b *Bounded) PopBest() (interface{}, bool) {
	n := len(b.items)
	if n == 0 {
		return nil, false
	}
	best := n / 2
	for i := best + 1; i < n; i++ {
		if b.better(b.items[i], b.items[best]) {
			best = i
		}
	}
	return heap.Remove(b, best).(keyed).item, true
}

// Worst returns the root element without removing it.
func (b *Bounded) Worst() (interface{}, bool) {
	if len(b.items) == 0 {
		return nil, false
	}
	return b.items[0], true
}

// Sorted returns the contents best-first and leaves the heap untouched.
func (b *Bounded) Sorted() []interface{} {
	retval := make([]interface{}, len(b.items))
	copy(retval, b.items)
	sort.Slice(retval, func(i, j int) bool { return b.better(retval[i], retval[j]) })
	return retval
}

func (b *Bounded) Clear() {
	for i := range b.items {
		b.items[i] = nil
	}
	b.items, b.keys = b.items[:0], b.keys[:0]
	for k := range b.pos {
		delete(b.pos, k)
	}
	b.Evicted, b.Rejected = 0, 0
}
