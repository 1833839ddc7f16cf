// Package gc implements Lockhart's precise mark-sweep garbage collector and
// string interning pool (spec.md §4.1). It owns every heap object (ObjString,
// ObjFunction) the compiler and VM allocate; those two are its sole mutators,
// and never concurrently (spec.md §5).
package gc

import (
	"github.com/mna/lockhart/lang/table"
	"github.com/mna/lockhart/lang/value"
)

const (
	defaultNextGC = 1 << 20 // 1 MiB
	growthFactor  = 2
	minimumHeap   = 1 << 20 // 1 MiB
)

// Heap owns the intrusive list of every allocated object, the weak string
// intern pool, and the allocation accounting that decides when a collection
// is due.
type Heap struct {
	objects value.HeapHandle // head of the intrusive allocation list
	strings *table.Table     // intern pool; holds strings weakly (see sweepInterned)

	bytesAllocated int
	nextGC         int

	grey []value.HeapHandle

	// collections counts completed mark-sweep cycles, for diagnostics/tests.
	collections int
}

// New returns an empty heap.
func New() *Heap {
	return &Heap{strings: table.New(), nextGC: defaultNextGC}
}

// BytesAllocated is the sum of the recorded sizes of every currently live
// object.
func (h *Heap) BytesAllocated() int { return h.bytesAllocated }

// NextGC is the bytes_allocated threshold past which a collection is due.
func (h *Heap) NextGC() int { return h.nextGC }

// Collections returns the number of completed mark-sweep cycles.
func (h *Heap) Collections() int { return h.collections }

// alloc links obj into the heap's allocation list and accounts for its size.
func (h *Heap) alloc(obj value.HeapHandle) {
	obj.Header().SetNext(h.objects)
	h.objects = obj
	h.bytesAllocated += obj.Header().Size()
}

// NewFunction allocates a fresh, empty ObjFunction named name (which may be
// nil for the anonymous top-level script).
func (h *Heap) NewFunction(name *value.ObjString) *value.ObjFunction {
	fn := value.NewObjFunction(name)
	h.alloc(fn)
	return fn
}

// Intern returns the canonical ObjString for chars: if an interned string
// with identical content already exists, its handle is returned; otherwise a
// new ObjString is allocated, interned, and returned. Equal inputs always
// return handle-equal results (spec.md §4.1, "Interning contract").
func (h *Heap) Intern(chars string) *value.ObjString {
	hash := value.FNV1a(chars)
	if existing := h.strings.FindString(chars, hash); existing != nil {
		return existing
	}
	s := value.NewObjString(chars)
	h.alloc(s)
	h.strings.Set(s, value.Nil)
	return s
}

// ShouldCollect reports whether bytes_allocated has crossed the next_gc
// threshold, i.e. whether a collection is due at the next safe point.
func (h *Heap) ShouldCollect() bool { return h.bytesAllocated > h.nextGC }

// CollectIfNeeded runs a full mark-sweep cycle if ShouldCollect, using
// markRoots to discover every root value: the caller (VM or compiler) invokes
// the supplied mark function once per root it owns (stack slots, globals
// table entries, call-frame functions, the compiling-function chain — spec.md
// §4.1's four root categories). It is always safe to call at opcode
// boundaries and immediately after any NewFunction/Intern, per spec.md's
// "safe points" rule.
func (h *Heap) CollectIfNeeded(markRoots func(mark func(value.Value))) {
	if !h.ShouldCollect() {
		return
	}
	h.Collect(markRoots)
}

// Collect runs an unconditional mark-sweep cycle. Exposed directly for tests
// and for explicit GC-on-demand tooling; production call sites should prefer
// CollectIfNeeded.
func (h *Heap) Collect(markRoots func(mark func(value.Value))) {
	h.grey = h.grey[:0]
	markRoots(h.markValue)
	h.blacken()
	h.sweepInterned()
	h.sweep()
	h.collections++

	if h.bytesAllocated*growthFactor > minimumHeap {
		h.nextGC = h.bytesAllocated * growthFactor
	} else {
		h.nextGC = minimumHeap
	}
}

// markValue pushes v's object onto the grey worklist if v is a heap handle
// that is not already marked.
func (h *Heap) markValue(v value.Value) {
	hh, ok := v.(value.HeapHandle)
	if !ok || hh == nil {
		return
	}
	if hh.Header().Marked() {
		return
	}
	hh.Header().Mark()
	h.grey = append(h.grey, hh)
}

// blacken drains the grey worklist, marking every value transitively
// reachable from each grey object.
func (h *Heap) blacken() {
	for len(h.grey) > 0 {
		n := len(h.grey) - 1
		obj := h.grey[n]
		h.grey = h.grey[:n]

		switch o := obj.(type) {
		case *value.ObjString:
			// no further references
		case *value.ObjFunction:
			if o.Name != nil {
				h.markValue(o.Name)
			}
			for _, c := range o.Chunk.Constants {
				h.markValue(c)
			}
		}
	}
}

// sweepInterned deletes every intern-pool entry whose key was not marked
// during this cycle: the pool holds strings only weakly, so an otherwise
// unreachable string must not keep itself alive merely by being interned
// (spec.md §4.1, "Weak intern pool").
func (h *Heap) sweepInterned() {
	for _, k := range h.strings.Keys() {
		if !k.Marked() {
			h.strings.Delete(k)
		}
	}
}

// sweep walks the intrusive allocation list, freeing every unmarked object
// and clearing the mark bit of every marked (surviving) one.
func (h *Heap) sweep() {
	var prev value.HeapHandle
	cur := h.objects
	for cur != nil {
		if cur.Header().Marked() {
			cur.Header().Unmark()
			prev = cur
			cur = cur.Header().Next()
			continue
		}

		unreached := cur
		cur = cur.Header().Next()
		if prev == nil {
			h.objects = cur
		} else {
			prev.Header().SetNext(cur)
		}
		h.bytesAllocated -= unreached.Header().Size()
	}
}
