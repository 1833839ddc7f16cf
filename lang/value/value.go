// Package value defines Lockhart's runtime value model: the Value variants
// (Number, Bool, Nil, String, Function), the HeapObject header every
// GC-managed allocation carries, and the two heap object kinds (ObjString,
// ObjFunction) the garbage collector in lang/gc owns.
package value

import "fmt"

// Value is the interface implemented by every value the machine manipulates.
// Number, Bool and NilType are value types (trivially copyable, as spec.md
// §3 requires); *ObjString and *ObjFunction are non-owning handles into the
// GC-managed heap, stable until the object they reference is swept.
type Value interface {
	// String returns the display form of the value, per spec.md §6's value
	// display format.
	String() string
	// Type returns a short, lowercase name for the value's type, used in
	// runtime error messages ("type mismatch", "not callable", etc).
	Type() string
}

// Number is a Lockhart numeric value.
type Number float64

func (n Number) String() string { return formatNumber(float64(n)) }
func (Number) Type() string     { return "number" }

// formatNumber renders f using the shortest decimal representation that
// round-trips, without a trailing ".0" for integral values (spec.md §6).
func formatNumber(f float64) string {
	return fmt.Sprintf("%g", f)
}

// Bool is a Lockhart boolean value.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string { return "bool" }

// NilType is the type of Nil. Its only legal value is the Nil constant. It is
// represented as a zero-sized type, not a pointer, so that Nil needs no
// allocation and can be compared with ==.
type NilType struct{}

// Nil is the sole Value of type NilType.
var Nil = NilType{}

func (NilType) String() string { return "nil" }
func (NilType) Type() string   { return "nil" }
