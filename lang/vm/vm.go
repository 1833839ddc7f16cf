// Package vm implements Lockhart's stack-based bytecode virtual machine: an
// instruction-pointer-driven dispatch loop over a value stack, using
// per-call frames for function invocation with local-slot windowing and
// return semantics (spec.md §4.4).
package vm

import (
	"fmt"
	"io"

	"github.com/mna/lockhart/lang/compiler"
	"github.com/mna/lockhart/lang/gc"
	"github.com/mna/lockhart/lang/table"
	"github.com/mna/lockhart/lang/value"
)

// maxStack is the fixed capacity of the value stack.
const maxStack = 256

// maxFrames is the fixed capacity of the call-frame array.
const maxFrames = 64

// frame is a single call-frame: the function being executed, its
// instruction pointer, and the base slot into the shared value stack where
// its local slot 0 (conventionally the callee itself) lives (spec.md §3,
// "Call frame").
type frame struct {
	fn   *value.ObjFunction
	ip   int
	base int
}

// VM executes compiled Lockhart programs. One VM instance owns the value
// stack, the frame array, the globals table and the heap across any number
// of successive Interpret calls, so that a REPL session can accumulate
// global definitions (spec.md §7, "Recovery").
type VM struct {
	stack    [maxStack]value.Value
	stackTop int

	frames     [maxFrames]frame
	frameCount int

	globals *table.Table
	heap    *gc.Heap

	stdout io.Writer
}

// New returns a VM that writes "print" output to stdout.
func New(stdout io.Writer) *VM {
	return &VM{
		globals: table.New(),
		heap:    gc.New(),
		stdout:  stdout,
	}
}

// RuntimeError is a failure during bytecode dispatch: a type mismatch, an
// undefined global, a wrong-arity call, exceeding the frame limit, etc.
// (spec.md §7).
type RuntimeError struct {
	Msg  string
	Line int
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// Interpret compiles src (named filename, for error positions) and runs it
// to completion. A compile error is returned without executing any
// bytecode; a runtime error unwinds the stack and frames accumulated during
// this call before being returned (spec.md §4.4, "Entry"; §7).
func (vm *VM) Interpret(filename string, src []byte) error {
	fn, err := compiler.Compile(vm.heap, filename, src)
	if err != nil {
		return err
	}

	if err := vm.push(fn); err != nil {
		vm.reset()
		return err
	}
	if err := vm.call(fn, 0); err != nil {
		vm.reset()
		return err
	}

	if err := vm.run(); err != nil {
		vm.reset()
		return err
	}
	return nil
}

// Global returns the current value of the named global, for REPL inspection
// and tests. The name is interned against this VM's heap so that lookup
// shares the same handle the compiler would have produced.
func (vm *VM) Global(name string) (value.Value, bool) {
	return vm.globals.Get(vm.heap.Intern(name))
}

// reset clears the stack and frames after a runtime error, so the next
// Interpret call (e.g. the REPL's next line) starts from a clean slate
// while keeping globals and heap state intact.
func (vm *VM) reset() {
	vm.stackTop = 0
	vm.frameCount = 0
}

// push appends v to the value stack, raising a runtime error instead of
// indexing out of bounds if the fixed-capacity stack is full: an ordinary
// recursive call can overrun stack capacity well before it overruns the
// frame-count limit, so this check is the real backstop (spec.md §8, "stack
// top <= stack capacity").
func (vm *VM) push(v value.Value) error {
	if vm.stackTop >= maxStack {
		return vm.runtimeErrorf(0, "Stack Overflow")
	}
	vm.stack[vm.stackTop] = v
	vm.stackTop++
	return nil
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

// markRoots visits every root value the collector must trace: the live
// portion of the value stack, every globals-table key and value, and every
// active frame's function (spec.md §4.1, root categories 1-3; category 4,
// the compiling-function chain, is the compiler's own concern).
func (vm *VM) markRoots(mark func(value.Value)) {
	for i := 0; i < vm.stackTop; i++ {
		mark(vm.stack[i])
	}
	for _, k := range vm.globals.Keys() {
		mark(k)
	}
	for _, v := range vm.globals.Values() {
		mark(v)
	}
	for i := 0; i < vm.frameCount; i++ {
		mark(vm.frames[i].fn)
	}
}

func (vm *VM) collectIfNeeded() { vm.heap.CollectIfNeeded(vm.markRoots) }

func (vm *VM) runtimeErrorf(line int, format string, args ...interface{}) error {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...), Line: line}
}
