package compiler

import (
	"github.com/mna/lockhart/lang/chunk"
	"github.com/mna/lockhart/lang/token"
)

// beginScope enters a new lexical scope.
func (c *compiler) beginScope() { c.fc.scopeDepth++ }

// endScope leaves the current lexical scope, popping every local declared
// within it so they reclaim their stack slots in LIFO order (spec.md §4.3,
// "Scope lifecycle").
func (c *compiler) endScope() {
	fc := c.fc
	fc.scopeDepth--
	for len(fc.locals) > 0 && fc.locals[len(fc.locals)-1].depth > fc.scopeDepth {
		c.emitOp(chunk.POP)
		fc.locals = fc.locals[:len(fc.locals)-1]
	}
}

// declareVariable registers name as a new local in the current scope. At
// global scope (depth 0) it is a no-op: globals are resolved dynamically by
// name, not by slot (spec.md §4.3, "declare_variable").
func (c *compiler) declareVariable(name string) {
	fc := c.fc
	if fc.scopeDepth == 0 {
		return
	}

	for i := len(fc.locals) - 1; i >= 0; i-- {
		l := fc.locals[i]
		if l.depth != -1 && l.depth < fc.scopeDepth {
			break
		}
		if l.name == name {
			c.errorAtPrev("variable %q already exists in this scope", name)
		}
	}
	c.addLocal(name)
}

func (c *compiler) addLocal(name string) {
	if len(c.fc.locals) >= maxLocals {
		c.errorAtPrev("too many local variables in function")
		return
	}
	c.fc.locals = append(c.fc.locals, local{name: name, depth: -1})
}

// parseVariable consumes an identifier token, declares it (if inside a
// scope), and returns the constant-pool index to use with DefineGlobal (0,
// unused, for a local) — spec.md §4.3, "parse_variable".
func (c *compiler) parseVariable(errMsg string) uint32 {
	c.consume(token.IDENT, errMsg)
	name := c.prev.lit

	c.declareVariable(name)
	if c.fc.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(name)
}

// markInitialized marks the most recently declared local as usable by
// giving it the current scope depth in place of the -1 "uninitialized"
// sentinel, so later references resolve to it (spec.md §4.3,
// "mark_initialized"). At global scope it is a no-op.
func (c *compiler) markInitialized() {
	if c.fc.scopeDepth == 0 {
		return
	}
	c.fc.locals[len(c.fc.locals)-1].depth = c.fc.scopeDepth
}

// defineVariable finalizes a variable declaration: at local scope the
// initializer's value is already sitting in the local's slot, so only the
// local is marked initialized; at global scope a DefineGlobal opcode pops
// the value into the globals table (spec.md §4.3, "define_variable").
func (c *compiler) defineVariable(constIdx uint32) {
	if c.fc.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOperand(chunk.DEFINEGLOBAL, constIdx)
}

// resolveLocal scans the current function's locals from newest to oldest
// for name, returning its slot index. An uninitialized match (still mid
// initializer) is a compile error: "cannot read variable in its own
// initializer" (spec.md §4.3, "resolve_local").
func (c *compiler) resolveLocal(name string) (int, bool) {
	fc := c.fc
	for i := len(fc.locals) - 1; i >= 0; i-- {
		if fc.locals[i].name == name {
			if fc.locals[i].depth == -1 {
				c.errorAtPrev("can't read local variable %q in its own initializer", name)
			}
			return i, true
		}
	}
	return 0, false
}
