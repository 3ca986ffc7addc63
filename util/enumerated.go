package util

import (
	"fmt"
	"sync"
)

// EnumSet maps symbol names to dense indices and back. Once Frozen it is
// read-only and may be shared between parser goroutines.
type EnumSet struct {
	mu     sync.RWMutex
	Enum   map[string]int
	Index  []string
	Frozen bool
}

// Add returns the index of value, and true if it was newly added.
func (e *EnumSet) Add(value string) (int, bool) {
	if e.Frozen {
		panic("Cannot add value to frozen enum set: " + value)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	enum, exists := e.Enum[value]
	if exists {
		return enum, false
	}
	enum = len(e.Index)
	e.Enum[value] = enum
	e.Index = append(e.Index, value)
	return enum, true
}

func (e *EnumSet) IndexOf(value string) (int, bool) {
	if e.Frozen {
		enum, exists := e.Enum[value]
		return enum, exists
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	enum, exists := e.Enum[value]
	return enum, exists
}

func (e *EnumSet) ValueOf(index int) string {
	if !e.Frozen {
		e.mu.RLock()
		defer e.mu.RUnlock()
	}
	if index < 0 || len(e.Index) <= index {
		panic(fmt.Sprintf("Unknown index requested: %v of %v", index, len(e.Index)))
	}
	return e.Index[index]
}

func (e *EnumSet) Len() int {
	if !e.Frozen {
		e.mu.RLock()
		defer e.mu.RUnlock()
	}
	return len(e.Index)
}

// Freeze makes the set immutable; lookups then skip locking.
func (e *EnumSet) Freeze() {
	e.mu.Lock()
	e.Frozen = true
	e.mu.Unlock()
}

func (e *EnumSet) Values() []string {
	retval := make([]string, e.Len())
	copy(retval, e.Index)
	return retval
}

func NewEnumSet(capacity int) *EnumSet {
	return &EnumSet{
		Enum:  make(map[string]int, capacity),
		Index: make([]string, 0, capacity),
	}
}
