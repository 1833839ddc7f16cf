// Package compiler implements Lockhart's single-pass compiler: a
// recursive-descent parser driven by a precedence-climbing operator table
// that emits bytecode directly while consuming tokens, with no intermediate
// AST. It resolves lexical scope (globals vs. locals) and nests a nested
// stack of compiler contexts for function bodies.
package compiler

import (
	"fmt"

	"github.com/mna/lockhart/lang/gc"
	"github.com/mna/lockhart/lang/scanner"
	"github.com/mna/lockhart/lang/token"
	"github.com/mna/lockhart/lang/value"
)

// maxArity is the maximum number of parameters a function may declare, and
// the maximum number of arguments a call may pass (spec.md §3, §4.3).
const maxArity = 255

// maxLocals bounds the number of local slots a single function body may use,
// matching the fixed-width varint-friendly slot index space.
const maxLocals = 256

// funcType distinguishes the implicit top-level script from a named
// function body, so the compiler can reject "return" at script scope.
type funcType int

const (
	scriptFunc funcType = iota
	functionFunc
)

// local is one entry of a function compiler's locals array: the name token
// it was declared with, and the scope depth it belongs to. depth == -1
// marks an uninitialized local (declared but not yet past its initializer).
type local struct {
	name  string
	depth int
}

// funcCompiler is the per-function compiler context. Function compilation
// nests a new funcCompiler with a link to the enclosing one; on completion
// the current context is replaced by its enclosing one (spec.md §9, "Nested
// compiler contexts").
type funcCompiler struct {
	enclosing *funcCompiler

	function *value.ObjFunction
	funcType funcType

	locals     []local
	scopeDepth int
}

// Error is a compile-time error: a message and, where available, the source
// position of the token that triggered it.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

// compiler holds the whole state of a single compilation: the token stream,
// the current/previous token, and the stack of nested function contexts.
type compiler struct {
	heap *gc.Heap
	sc   scanner.Scanner

	cur, prev tokInfo

	fc *funcCompiler

	err *Error // first error encountered; compilation aborts once set
}

type tokInfo struct {
	tok token.Token
	pos token.Position
	lit string
}

// Compile compiles src (named filename, for error positions) into the root
// ObjFunction representing the top-level script. On any syntax or semantic
// error, it returns a non-nil *Error and a nil function: compilation halts
// hard on the first error, with no panic-mode synchronization (spec.md
// §4.3, "Errors").
func Compile(heap *gc.Heap, filename string, src []byte) (fn *value.ObjFunction, err error) {
	c := &compiler{heap: heap}
	c.sc.Init(filename, src, c.lexError)

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abortCompile); ok {
				fn, err = nil, c.err
				return
			}
			panic(r)
		}
	}()

	c.pushFunc(scriptFunc, nil)
	c.advance()
	for !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.EOF, "expected end of file")

	root := c.popFunc()
	return root, nil
}

// abortCompile is panicked once, from c.errorAt, to unwind straight out of
// Compile on the first error: the compiler does not attempt recovery.
type abortCompile struct{}

func (c *compiler) lexError(pos token.Position, msg string) {
	c.errorAt(pos, msg)
}

// errorAt records the first error seen and aborts compilation. Subsequent
// calls (e.g. further lexical errors reported by the scanner after the
// first) are ignored: the compiler has already committed to aborting.
func (c *compiler) errorAt(pos token.Position, msg string) {
	if c.err != nil {
		return
	}
	c.err = &Error{Pos: pos, Msg: msg}
	panic(abortCompile{})
}

func (c *compiler) errorf(format string, args ...interface{}) {
	c.errorAt(c.cur.pos, fmt.Sprintf(format, args...))
}

func (c *compiler) errorAtPrev(format string, args ...interface{}) {
	c.errorAt(c.prev.pos, fmt.Sprintf(format, args...))
}

// advance consumes the current token, making it previous, and scans the
// next one into current.
func (c *compiler) advance() {
	c.prev = c.cur
	tok, pos, lit := c.sc.Scan()
	c.cur = tokInfo{tok: tok, pos: pos, lit: lit}
}

// check reports whether the current token is tok.
func (c *compiler) check(tok token.Token) bool { return c.cur.tok == tok }

// match consumes the current token and returns true if it is tok, otherwise
// leaves it in place and returns false.
func (c *compiler) match(tok token.Token) bool {
	if !c.check(tok) {
		return false
	}
	c.advance()
	return true
}

// consume requires the current token to be tok, advancing past it; otherwise
// it aborts compilation with msg.
func (c *compiler) consume(tok token.Token, msg string) {
	if c.check(tok) {
		c.advance()
		return
	}
	c.errorf("%s, found %s", msg, c.cur.tok.GoString())
}

func (c *compiler) chunk() *value.Chunk { return c.fc.function.Chunk }

func (c *compiler) line() int { return c.prev.pos.Line }

// pushFunc starts a new, nested function compiler context named by name (nil
// for the anonymous top-level script).
func (c *compiler) pushFunc(ft funcType, name *value.ObjString) {
	fn := c.heap.NewFunction(name)
	nc := &funcCompiler{enclosing: c.fc, function: fn, funcType: ft}
	// Slot 0 of every frame is reserved for the VM's internal use (the
	// callee itself); locals proper begin at slot 1 (spec.md §3, §4.3).
	nc.locals = append(nc.locals, local{name: "", depth: 0})
	c.fc = nc
	if ft == functionFunc {
		// A function body's parameters and top-level statements live in one
		// outermost scope that is never explicitly closed (spec.md §4.3,
		// "Function compilation"). The top-level script has no such scope:
		// its declarations stay at depth 0, i.e. globals.
		c.beginScope()
	}
}

// popFunc finishes the current function compiler context, emitting the
// implicit trailing "return nil", and restores the enclosing context.
func (c *compiler) popFunc() *value.ObjFunction {
	c.emitReturn()
	fn := c.fc.function
	c.fc = c.fc.enclosing
	return fn
}
