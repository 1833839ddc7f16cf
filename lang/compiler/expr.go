package compiler

import (
	"strconv"

	"github.com/mna/lockhart/lang/chunk"
	"github.com/mna/lockhart/lang/token"
	"github.com/mna/lockhart/lang/value"
)

func (c *compiler) emitOp(op chunk.Opcode) int {
	return c.chunk().WriteOp(op, c.line())
}

func (c *compiler) emitOperand(op chunk.Opcode, operand uint32) int {
	return c.chunk().WriteOperand(op, operand, c.line())
}

func (c *compiler) emitJump(op chunk.Opcode) int {
	return c.chunk().WriteJump(op, c.line())
}

func (c *compiler) patchJump(pos int) { c.chunk().PatchJump(pos) }

func (c *compiler) emitLoop(loopStart int) { c.chunk().EmitLoop(loopStart, c.line()) }

func (c *compiler) emitConstant(v value.Value) {
	c.emitOperand(chunk.CONSTANT, c.chunk().AddConstant(v))
}

func (c *compiler) emitReturn() {
	c.emitOp(chunk.NIL)
	c.emitOp(chunk.RETURN)
}

// number parses the previous NUMBER token's literal as a float64 and emits
// it as a constant (spec.md §4.3, "number").
func number(c *compiler, _ bool) {
	f, err := strconv.ParseFloat(c.prev.lit, 64)
	if err != nil {
		c.errorAtPrev("invalid number literal %q", c.prev.lit)
		return
	}
	c.emitConstant(value.Number(f))
}

// stringLit interns the previous STRING token's literal and emits it as a
// constant (spec.md §4.3, "string").
func stringLit(c *compiler, _ bool) {
	s := c.heap.Intern(c.prev.lit)
	c.emitConstant(s)
}

// literal emits the nullary opcode for a true/false/nil keyword token
// (spec.md §4.3, "literal").
func literal(c *compiler, _ bool) {
	switch c.prev.tok {
	case token.FALSE:
		c.emitOp(chunk.FALSE)
	case token.TRUE:
		c.emitOp(chunk.TRUE)
	case token.NIL:
		c.emitOp(chunk.NIL)
	}
}

// grouping parses a parenthesized expression (spec.md §4.3, "grouping").
func grouping(c *compiler, _ bool) {
	c.expression()
	c.consume(token.RPAREN, "expected ')' after expression")
}

// unary parses a prefix "-" or "!" and emits its nullary opcode (spec.md
// §4.3, "unary").
func unary(c *compiler, _ bool) {
	op := c.prev.tok
	c.parsePrecedence(precUnary)
	switch op {
	case token.MINUS:
		c.emitOp(chunk.NEGATE)
	case token.BANG:
		c.emitOp(chunk.NOT)
	}
}

// binary parses the right operand of a left-associative binary operator at
// one precedence level above the operator's own, then emits its opcode(s).
// ">=" and "<=" have no dedicated opcode and are synthesized from Lt/Gt plus
// Not (spec.md §4.3, "binary").
func binary(c *compiler, _ bool) {
	op := c.prev.tok
	r := getRule(op)
	c.parsePrecedence(r.precedence + 1)

	switch op {
	case token.PLUS:
		c.emitOp(chunk.ADD)
	case token.MINUS:
		c.emitOp(chunk.SUB)
	case token.STAR:
		c.emitOp(chunk.MUL)
	case token.SLASH:
		c.emitOp(chunk.DIV)
	case token.PERCENT:
		c.emitOp(chunk.MOD)
	case token.EQL:
		c.emitOp(chunk.EQ)
	case token.NEQ:
		c.emitOp(chunk.EQ)
		c.emitOp(chunk.NOT)
	case token.GT:
		c.emitOp(chunk.GT)
	case token.GE:
		c.emitOp(chunk.LT)
		c.emitOp(chunk.NOT)
	case token.LT:
		c.emitOp(chunk.LT)
	case token.LE:
		c.emitOp(chunk.GT)
		c.emitOp(chunk.NOT)
	}
}

// and_ implements short-circuit "and": if the left operand is falsey, skip
// the right operand entirely, leaving the falsey value as the result
// (spec.md §4.3, "and").
func and_(c *compiler, _ bool) {
	endJump := c.emitJump(chunk.JUMPIFFALSE)
	c.emitOp(chunk.POP)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

// or_ implements short-circuit "or": if the left operand is truthy, skip the
// right operand entirely (spec.md §4.3, "or").
func or_(c *compiler, _ bool) {
	elseJump := c.emitJump(chunk.JUMPIFFALSE)
	endJump := c.emitJump(chunk.JUMP)

	c.patchJump(elseJump)
	c.emitOp(chunk.POP)

	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

// variable resolves the previous IDENT token as a local or global and emits
// either a get or, if canAssign and the current token is "=", a set opcode
// (spec.md §4.3, "variable", "named_variable").
func variable(c *compiler, canAssign bool) {
	name := c.prev.lit

	var getOp, setOp chunk.Opcode
	var operand uint32
	if slot, ok := c.resolveLocal(name); ok {
		getOp, setOp = chunk.GETLOCAL, chunk.SETLOCAL
		operand = uint32(slot)
	} else {
		getOp, setOp = chunk.GETGLOBAL, chunk.SETGLOBAL
		operand = c.identifierConstant(name)
	}

	if canAssign && c.match(token.EQ) {
		c.expression()
		c.emitOperand(setOp, operand)
		return
	}
	c.emitOperand(getOp, operand)
}

// call parses a parenthesized, comma-separated argument list and emits
// Call(argc) (spec.md §4.3, "call").
func call(c *compiler, _ bool) {
	argc := c.argumentList()
	c.emitOperand(chunk.CALL, uint32(argc))
}

func (c *compiler) argumentList() int {
	argc := 0
	if !c.check(token.RPAREN) {
		for {
			c.expression()
			if argc == maxArity {
				c.errorAtPrev("can't have more than %d arguments", maxArity)
			}
			argc++
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RPAREN, "expected ')' after arguments")
	return argc
}

// identifierConstant interns name and appends it to the current chunk's
// constant pool, returning its index.
func (c *compiler) identifierConstant(name string) uint32 {
	return c.chunk().AddConstant(c.heap.Intern(name))
}
