package compiler

import (
	"github.com/mna/lockhart/lang/chunk"
	"github.com/mna/lockhart/lang/token"
)

// declaration parses a let/fn declaration, or falls through to a statement
// (spec.md §4.3, "Declarations").
func (c *compiler) declaration() {
	switch {
	case c.match(token.LET):
		c.letDeclaration()
	case c.match(token.FN):
		c.fnDeclaration()
	default:
		c.statement()
	}
}

// statement parses any non-declaration statement (spec.md §4.3,
// "Statements").
func (c *compiler) statement() {
	switch {
	case c.match(token.PRINT):
		c.printStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.FOR):
		c.forStatement()
	case c.match(token.RETURN):
		c.returnStatement()
	case c.match(token.LBRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *compiler) block() {
	for !c.check(token.RBRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RBRACE, "expected '}' after block")
}

func (c *compiler) letDeclaration() {
	constIdx := c.parseVariable("expected variable name")
	if c.match(token.EQ) {
		c.expression()
	} else {
		c.emitOp(chunk.NIL)
	}
	c.consume(token.SEMI, "expected ';' after variable declaration")
	c.defineVariable(constIdx)
}

func (c *compiler) fnDeclaration() {
	constIdx := c.parseVariable("expected function name")
	name := c.prev.lit
	c.markInitialized()
	c.funcBody(functionFunc, name)
	c.defineVariable(constIdx)
}

// funcBody compiles a function's parameter list and body in a nested
// compiler context, then emits the completed function as a constant in the
// enclosing chunk (spec.md §4.3, "Function compilation").
func (c *compiler) funcBody(ft funcType, name string) {
	c.pushFunc(ft, c.heap.Intern(name))

	c.consume(token.LPAREN, "expected '(' after function name")
	if !c.check(token.RPAREN) {
		for {
			c.fc.function.Arity++
			if c.fc.function.Arity > maxArity {
				c.errorAtPrev("can't have more than %d parameters", maxArity)
			}
			paramConst := c.parseVariable("expected parameter name")
			c.defineVariable(paramConst)
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RPAREN, "expected ')' after parameters")
	c.consume(token.LBRACE, "expected '{' before function body")
	c.block()

	fn := c.popFunc()
	c.emitConstant(fn)
}

func (c *compiler) printStatement() {
	c.expression()
	c.consume(token.SEMI, "expected ';' after value")
	c.emitOp(chunk.PRINT)
}

func (c *compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMI, "expected ';' after expression")
	c.emitOp(chunk.POP)
}

func (c *compiler) ifStatement() {
	c.consume(token.LPAREN, "expected '(' after 'if'")
	c.expression()
	c.consume(token.RPAREN, "expected ')' after condition")

	thenJump := c.emitJump(chunk.JUMPIFFALSE)
	c.emitOp(chunk.POP)
	c.statement()

	elseJump := c.emitJump(chunk.JUMP)
	c.patchJump(thenJump)
	c.emitOp(chunk.POP)

	if c.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *compiler) whileStatement() {
	loopStart := len(c.chunk().Code)
	c.consume(token.LPAREN, "expected '(' after 'while'")
	c.expression()
	c.consume(token.RPAREN, "expected ')' after condition")

	exitJump := c.emitJump(chunk.JUMPIFFALSE)
	c.emitOp(chunk.POP)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(chunk.POP)
}

// forStatement desugars the three-clause for loop into the equivalent
// while-loop bytecode shape (spec.md §4.3, "for").
func (c *compiler) forStatement() {
	c.beginScope()
	c.consume(token.LPAREN, "expected '(' after 'for'")

	switch {
	case c.match(token.SEMI):
		// no initializer
	case c.match(token.LET):
		c.letDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := len(c.chunk().Code)
	exitJump := -1
	if !c.match(token.SEMI) {
		c.expression()
		c.consume(token.SEMI, "expected ';' after loop condition")

		exitJump = c.emitJump(chunk.JUMPIFFALSE)
		c.emitOp(chunk.POP)
	}

	if !c.check(token.RPAREN) {
		bodyJump := c.emitJump(chunk.JUMP)
		incrStart := len(c.chunk().Code)
		c.expression()
		c.emitOp(chunk.POP)
		c.consume(token.RPAREN, "expected ')' after for clauses")

		c.emitLoop(loopStart)
		loopStart = incrStart
		c.patchJump(bodyJump)
	} else {
		c.consume(token.RPAREN, "expected ')' after for clauses")
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(chunk.POP)
	}

	c.endScope()
}

func (c *compiler) returnStatement() {
	if c.fc.funcType == scriptFunc {
		c.errorAtPrev("can't return from top-level code")
	}

	if c.match(token.SEMI) {
		c.emitReturn()
		return
	}
	c.expression()
	c.consume(token.SEMI, "expected ';' after return value")
	c.emitOp(chunk.RETURN)
}
