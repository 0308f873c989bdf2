package expr

import (
	"fmt"
	"sync"
)

// ForeignStruct is an opaque host-owned value with shared (read-only from
// the language's perspective) ownership, e.g. a compiled regex or an open
// socket handed back from a foreign function (spec.md §3).
type ForeignStruct struct {
	TypeName string
	Value    interface{}
}

func (f *ForeignStruct) Kind() Kind { return KindForeignStruct }
func (f *ForeignStruct) String() string {
	return fmt.Sprintf("<foreign:%s>", f.TypeName)
}

// ForeignStructMut is the mutable counterpart, guarded by a reader-writer
// lock so that foreign code holding references across calls cannot
// corrupt state (spec.md §5).
type ForeignStructMut struct {
	mu       sync.RWMutex
	TypeName string
	Value    interface{}
}

func NewForeignStructMut(typeName string, value interface{}) *ForeignStructMut {
	return &ForeignStructMut{TypeName: typeName, Value: value}
}

func (f *ForeignStructMut) Kind() Kind { return KindForeignStructMut }
func (f *ForeignStructMut) String() string {
	return fmt.Sprintf("<foreign-mut:%s>", f.TypeName)
}

// With runs fn with the read lock held and returns its result.
func (f *ForeignStructMut) With(fn func(value interface{}) Expression) Expression {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return fn(f.Value)
}

// Mutate runs fn with the write lock held, allowing it to replace Value.
func (f *ForeignStructMut) Mutate(fn func(value interface{}) (interface{}, Expression)) Expression {
	f.mu.Lock()
	defer f.mu.Unlock()
	newValue, result := fn(f.Value)
	f.Value = newValue
	return result
}
