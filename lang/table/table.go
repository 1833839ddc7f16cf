// Package table implements the open-addressed hash table, keyed by interned
// strings, that backs both the VM's globals and the GC's string intern pool
// (spec.md §4.2). It is hand-rolled rather than built on a third-party map
// because the probing and tombstone semantics it exposes (find_entry's
// miss-vs-tombstone distinction, a deterministic probe sequence, find_string
// keying by raw content before a handle exists) are themselves the tested
// contract — see DESIGN.md for why no example repo's map library could serve
// this instead.
package table

import "github.com/mna/lockhart/lang/value"

const (
	minCapacity = 8
	maxLoad     = 0.75
)

// entry is a single slot. A live empty slot has Key == nil and Value ==
// value.Nil. A tombstone (deleted slot, still visible to probing) has Key ==
// nil and Value == Bool(true).
type entry struct {
	key   *value.ObjString
	value value.Value
}

func (e *entry) isTombstone() bool {
	if e.key != nil {
		return false
	}
	b, ok := e.value.(value.Bool)
	return ok && bool(b)
}

func (e *entry) isTrueEmpty() bool { return e.key == nil && !e.isTombstone() }

// Table is an open-addressed hash map from interned strings to values.
type Table struct {
	entries []entry
	count   int // live entries plus tombstones; drives the load factor
}

// New returns an empty table.
func New() *Table { return &Table{} }

// Count returns the number of live (non-tombstone) entries.
func (t *Table) Count() int {
	n := 0
	for i := range t.entries {
		if t.entries[i].key != nil {
			n++
		}
	}
	return n
}

func (t *Table) findEntry(entries []entry, key *value.ObjString) int {
	cap := len(entries)
	idx := int(key.Hash) & (cap - 1)
	tombstone := -1
	for {
		e := &entries[idx]
		switch {
		case e.key == nil:
			if e.isTombstone() {
				if tombstone == -1 {
					tombstone = idx
				}
			} else {
				// true miss: return the tombstone candidate if we saw one, else
				// this empty slot.
				if tombstone != -1 {
					return tombstone
				}
				return idx
			}
		case e.key == key:
			return idx
		}
		idx = (idx + 1) & (cap - 1)
	}
}

// findString probes by content rather than by handle, for use by the intern
// pool before a candidate ObjString handle exists: it returns the existing
// ObjString whose bytes equal chars and whose hash equals h, or nil if none
// is present.
func (t *Table) findString(chars string, h uint32) *value.ObjString {
	if len(t.entries) == 0 {
		return nil
	}
	cap := len(t.entries)
	idx := int(h) & (cap - 1)
	for {
		e := &t.entries[idx]
		switch {
		case e.isTrueEmpty():
			return nil
		case e.key != nil && e.key.Hash == h && e.key.Chars == chars:
			return e.key
		}
		idx = (idx + 1) & (cap - 1)
	}
}

// FindString is the exported form of findString, used by the GC's intern
// pool.
func (t *Table) FindString(chars string, h uint32) *value.ObjString {
	return t.findString(chars, h)
}

func (t *Table) grow(newCap int) {
	newEntries := make([]entry, newCap)
	var newCount int
	for i := range t.entries {
		e := &t.entries[i]
		if e.key == nil {
			continue // drop tombstones and true-empty slots
		}
		idx := t.findEntry(newEntries, e.key)
		newEntries[idx] = *e
		newCount++
	}
	t.entries = newEntries
	t.count = newCount
}

// Set inserts or updates key's value. It returns true if this created a new
// entry (key was not previously present).
func (t *Table) Set(key *value.ObjString, v value.Value) bool {
	if len(t.entries) == 0 || float64(t.count+1) > float64(len(t.entries))*maxLoad {
		newCap := minCapacity
		if len(t.entries)*2 > newCap {
			newCap = len(t.entries) * 2
		}
		t.grow(newCap)
	}

	idx := t.findEntry(t.entries, key)
	e := &t.entries[idx]
	isNewKey := e.key == nil
	if isNewKey && e.isTrueEmpty() {
		t.count++
	}
	e.key = key
	e.value = v
	return isNewKey
}

// Get returns the value associated with key, or (nil, false) if absent.
func (t *Table) Get(key *value.ObjString) (value.Value, bool) {
	if len(t.entries) == 0 {
		return nil, false
	}
	idx := t.findEntry(t.entries, key)
	e := &t.entries[idx]
	if e.key == nil {
		return nil, false
	}
	return e.value, true
}

// Has reports whether key is present, without allocating a result value.
func (t *Table) Has(key *value.ObjString) bool {
	_, ok := t.Get(key)
	return ok
}

// Delete removes key, leaving a tombstone so that later probes for other
// keys that hashed into the same chain are unaffected. Returns true if key
// was present.
func (t *Table) Delete(key *value.ObjString) bool {
	if len(t.entries) == 0 {
		return false
	}
	idx := t.findEntry(t.entries, key)
	e := &t.entries[idx]
	if e.key == nil {
		return false
	}
	e.key = nil
	e.value = value.Bool(true)
	return true
}

// Keys returns every live key, for root enumeration by the garbage collector.
// The caller must not modify the result.
func (t *Table) Keys() []*value.ObjString {
	keys := make([]*value.ObjString, 0, t.count)
	for i := range t.entries {
		if t.entries[i].key != nil {
			keys = append(keys, t.entries[i].key)
		}
	}
	return keys
}

// Values returns every live value, for root enumeration by the garbage
// collector. The caller must not modify the result.
func (t *Table) Values() []value.Value {
	vals := make([]value.Value, 0, t.count)
	for i := range t.entries {
		if t.entries[i].key != nil {
			vals = append(vals, t.entries[i].value)
		}
	}
	return vals
}
