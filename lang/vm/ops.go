package vm

import "github.com/mna/lockhart/lang/value"

// isFalsey implements Lockhart's truthiness rule: Nil, Bool(false) and
// Number(0) are falsey; everything else is truthy (spec.md §4.4,
// "Falsity"). This is distinct from falsify, used by Not, and from Eq,
// strict equality — spec.md §9 pins all three as deliberately different
// operations.
func isFalsey(v value.Value) bool {
	switch v := v.(type) {
	case value.NilType:
		return true
	case value.Bool:
		return !bool(v)
	case value.Number:
		return v == 0
	default:
		return false
	}
}

// falsify computes the operand of Not: Bool negates, Number compares to
// zero, anything else is simply not-falsey (spec.md §4.4, "Falsity").
func falsify(v value.Value) bool {
	switch v := v.(type) {
	case value.Bool:
		return !bool(v)
	case value.Number:
		return v == 0
	default:
		return false
	}
}

// valuesEqual implements Lockhart's Eq: same-variant equality only, strings
// compared by handle identity (sound because of interning); different
// variants are never equal and never error (spec.md §4.4, "Equality").
func valuesEqual(a, b value.Value) bool {
	switch a := a.(type) {
	case value.NilType:
		_, ok := b.(value.NilType)
		return ok
	case value.Bool:
		bb, ok := b.(value.Bool)
		return ok && a == bb
	case value.Number:
		bb, ok := b.(value.Number)
		return ok && a == bb
	case *value.ObjString:
		bb, ok := b.(*value.ObjString)
		return ok && a == bb
	case *value.ObjFunction:
		bb, ok := b.(*value.ObjFunction)
		return ok && a == bb
	default:
		return false
	}
}
