package agenda

import (
	"reflect"
	"testing"
)

type scored struct {
	id    int
	score float64
}

func betterScored(a, b interface{}) bool {
	x, y := a.(scored), b.(scored)
	if x.score != y.score {
		return x.score > y.score
	}
	return x.id < y.id
}

func drain(a *Agenda) []int {
	var ids []int
	for {
		x, ok := a.Pop()
		if !ok {
			return ids
		}
		ids = append(ids, x.(scored).id)
	}
}

func TestAgendaOrder(t *testing.T) {
	a := New(betterScored)
	for _, s := range []scored{{1, -2}, {2, -1}, {3, -3}, {4, -1}, {5, 0}} {
		a.Push(s)
	}
	if a.Len() != 5 {
		t.Errorf("Expected 5 elements, got %d", a.Len())
	}
	if top, _ := a.Peek(); top.(scored).id != 5 {
		t.Errorf("Expected 5 on top, got %v", top)
	}
	if ids := drain(a); !reflect.DeepEqual(ids, []int{5, 2, 4, 1, 3}) {
		t.Errorf("Got pop order %v", ids)
	}
	if _, ok := a.Pop(); ok {
		t.Errorf("Pop on empty agenda succeeded")
	}
	a.Push(scored{6, 0})
	a.Clear()
	if a.Len() != 0 {
		t.Errorf("Clear left %d elements", a.Len())
	}
}

func TestBoundedEvicts(t *testing.T) {
	b := NewBounded(3, betterScored)
	for key, s := range []scored{{0, -1}, {1, -5}, {2, -3}} {
		if ok, displaced := b.Offer(key, s); !ok || displaced != nil {
			t.Errorf("Offer %v: got %v %v", s, ok, displaced)
		}
	}
	if worst, _ := b.Worst(); worst.(scored).id != 1 {
		t.Errorf("Expected 1 as worst, got %v", worst)
	}
	ok, displaced := b.Offer(3, scored{3, -2})
	if !ok || displaced.(scored).id != 1 || b.Evicted != 1 {
		t.Errorf("Expected 1 evicted, got %v %v evicted %d", ok, displaced, b.Evicted)
	}
	if ok, _ := b.Offer(4, scored{4, -10}); ok || b.Rejected != 1 {
		t.Errorf("Expected rejection of a worse element")
	}
	var ids []int
	for _, x := range b.Sorted() {
		ids = append(ids, x.(scored).id)
	}
	if !reflect.DeepEqual(ids, []int{0, 3, 2}) {
		t.Errorf("Got sorted %v", ids)
	}
}

func TestBoundedSameKey(t *testing.T) {
	b := NewBounded(2, betterScored)
	b.Offer(7, scored{0, -4})
	b.Offer(8, scored{1, -2})
	if ok, _ := b.Offer(7, scored{2, -5}); ok {
		t.Errorf("A worse element replaced its key")
	}
	ok, displaced := b.Offer(7, scored{3, -1})
	if !ok || displaced.(scored).id != 0 || b.Len() != 2 {
		t.Errorf("Expected 0 replaced, got %v %v len %d", ok, displaced, b.Len())
	}
	if worst, _ := b.Worst(); worst.(scored).id != 1 {
		t.Errorf("Heap not fixed after replacement, worst %v", worst)
	}
}

func TestBoundedPopBest(t *testing.T) {
	b := NewBounded(8, betterScored)
	scores := []float64{-3, -1, -4, -1.5, -5, -9, -2, -6}
	for key, score := range scores {
		b.Offer(key, scored{key, score})
	}
	var ids []int
	for {
		x, ok := b.PopBest()
		if !ok {
			break
		}
		ids = append(ids, x.(scored).id)
	}
	if !reflect.DeepEqual(ids, []int{1, 3, 6, 0, 2, 4, 7, 5}) {
		t.Errorf("Got pop order %v", ids)
	}
	if b.Len() != 0 {
		t.Errorf("Expected empty heap, got %d", b.Len())
	}
	b.Offer(1, scored{1, 0})
	if b.Len() != 1 {
		t.Errorf("Key not released after PopBest")
	}
	b.Clear()
	if _, ok := b.Worst(); ok {
		t.Errorf("Clear left elements")
	}
}

func TestBoundedKeepsHeapOrder(t *testing.T) {
	b := NewBounded(5, betterScored)
	for i := 0; i < 40; i++ {
		// keys repeat, so later offers replace or evict earlier ones
		b.Offer(i%7, scored{i, float64((i * 17) % 23)})
		sorted := b.Sorted()
		worst, _ := b.Worst()
		if worst != sorted[len(sorted)-1] {
			t.Fatalf("Offer %d: worst %v is not last of %v", i, worst, sorted)
		}
		if b.Len() > b.Capacity {
			t.Fatalf("Offer %d: %d elements over capacity %d", i, b.Len(), b.Capacity)
		}
	}
	expected := b.Sorted()
	for i := range expected {
		x, ok := b.PopBest()
		if !ok || x != expected[i] {
			t.Fatalf("PopBest %d: got %v, expected %v", i, x, expected[i])
		}
	}
}
