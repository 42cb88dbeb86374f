// Package enums holds the process-wide registry binding enumerated constant
// names to their values. Registered types serialize as their constant name
// (quoted) and parse back from it; unregistered named numeric types are
// treated as plain numbers.
package enums

import (
	"reflect"
	"sync"
)

// Table maps constant names to underlying values and back for one enum type.
// Name matching is case-sensitive. A value with no registered name has no
// textual form and serializes numerically.
type Table struct {
	byName  map[string]int64
	byValue map[int64]string
}

// Resolve returns the underlying value for a constant name. Unresolvable
// names yield the zero value, matching the degrade contract.
func (t *Table) Resolve(name string) int64 {
	return t.byName[name]
}

// Name returns the registered name for an underlying value, or "" when the
// value has no name.
func (t *Table) Name(value int64) string {
	return t.byValue[value]
}

// registry is keyed by reflect.Type. Racing registrations of the same type
// are idempotent as long as callers pass the same name set, which is the
// intended use (registration from package init).
var registry sync.Map

// Register binds the given constant names to typ. Later registrations for
// the same type replace earlier ones.
func Register(typ reflect.Type, names map[string]int64) {
	t := &Table{
		byName:  make(map[string]int64, len(names)),
		byValue: make(map[int64]string, len(names)),
	}
	for name, value := range names {
		t.byName[name] = value
		// First name registered for a value wins only if none is present;
		// map iteration order makes ties arbitrary, so callers should avoid
		// aliased values when round-tripping matters.
		if _, ok := t.byValue[value]; !ok {
			t.byValue[value] = name
		}
	}
	registry.Store(typ, t)
}

// Lookup returns the table for typ, or nil when typ is not a registered
// enum type.
func Lookup(typ reflect.Type) *Table {
	val, ok := registry.Load(typ)
	if !ok {
		return nil
	}
	return val.(*Table)
}
