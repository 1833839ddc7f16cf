package value

// ObjString is a heap-allocated, interned string. Two ObjString allocations
// with equal Chars are never created: lang/gc.Heap.Intern guarantees that
// identical byte sequences share one allocation and therefore one handle
// (spec.md §3, §4.1 "Interning contract").
type ObjString struct {
	HeapObject
	Chars string
	Hash  uint32
}

func (s *ObjString) Header() *HeapObject { return &s.HeapObject }

func (s *ObjString) String() string { return s.Chars }
func (*ObjString) Type() string     { return "string" }

// FNV1a computes the 32-bit FNV-1a hash of s, used both to key the intern
// pool and as ObjString.Hash.
func FNV1a(s string) uint32 {
	const (
		offset = 2166136261
		prime  = 16777619
	)
	h := uint32(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}

// NewObjString constructs an ObjString for chars. Callers outside lang/gc
// should not call this directly: use Heap.Intern so that equal strings share
// a handle.
func NewObjString(chars string) *ObjString {
	return &ObjString{
		HeapObject: HeapObject{kind: KindString, size: stringSize(chars)},
		Chars:      chars,
		Hash:       FNV1a(chars),
	}
}

// stringHeaderOverhead is a fixed estimate of the non-content bytes of an
// ObjString allocation (header fields + Go string header), used only for the
// allocator's bytes_allocated bookkeeping (spec.md §4.1).
const stringHeaderOverhead = 32

func stringSize(chars string) int {
	return len(chars) + stringHeaderOverhead
}
