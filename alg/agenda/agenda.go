// Package agenda holds the per-cell priority queues of the beam parser.
// An agenda lives for the visitation of a single chart cell.
package agenda

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/trees/binaryheap"
)

// Better reports whether a must leave the agenda before b. It must be a
// strict total order for the agenda to be deterministic.
type Better func(a, b interface{}) bool

type Agenda struct {
	heap   *binaryheap.Heap
	better Better
}

// New returns an empty max-agenda ordered by better.
func New(better Better) *Agenda {
	a := &Agenda{better: better}
	a.heap = binaryheap.NewWith(func(x, y interface{}) int {
		switch {
		case better(x, y):
			return -1
		case better(y, x):
			return 1
		default:
			return 0
		}
	})
	return a
}

func (a *Agenda) Push(x interface{}) {
	a.heap.Push(x)
}

// Pop removes the best element; ok is false on an empty agenda.
func (a *Agenda) Pop() (interface{}, bool) {
	return a.heap.Pop()
}

func (a *Agenda) Peek() (interface{}, bool) {
	return a.heap.Peek()
}

func (a *Agenda) Len() int {
	return a.heap.Size()
}

func (a *Agenda) Clear() {
	a.heap.Clear()
}

func (a *Agenda) String() string {
	values := a.heap.Values()
	sort.Slice(values, func(i, j int) bool { return a.better(values[i], values[j]) })
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = fmt.Sprintf("%v", v)
	}
	return strings.Join(strs, " , ")
}
