package compiler

import "github.com/mna/lockhart/lang/token"

// precedence orders Lockhart's binary operators, lowest to highest
// (spec.md §4.3).
type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

// parseFn is a prefix or infix parse handler. canAssign tells a variable
// handler whether a trailing "=" is allowed to be consumed as an assignment
// (spec.md §4.3, "Pratt driver").
type parseFn func(c *compiler, canAssign bool)

type rule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

// ruleTable is the static Pratt rule table, indexed by token kind. It is
// filled in init because the parse handlers it holds refer back to it
// through getRule.
var ruleTable map[token.Token]rule

func init() { ruleTable = buildRuleTable() }

func buildRuleTable() map[token.Token]rule {
	r := make(map[token.Token]rule)
	r[token.LPAREN] = rule{prefix: grouping, infix: call, precedence: precCall}
	r[token.MINUS] = rule{prefix: unary, infix: binary, precedence: precTerm}
	r[token.PLUS] = rule{infix: binary, precedence: precTerm}
	r[token.SLASH] = rule{infix: binary, precedence: precFactor}
	r[token.STAR] = rule{infix: binary, precedence: precFactor}
	r[token.PERCENT] = rule{infix: binary, precedence: precFactor}
	r[token.BANG] = rule{prefix: unary}
	r[token.NEQ] = rule{infix: binary, precedence: precEquality}
	r[token.EQL] = rule{infix: binary, precedence: precEquality}
	r[token.GT] = rule{infix: binary, precedence: precComparison}
	r[token.GE] = rule{infix: binary, precedence: precComparison}
	r[token.LT] = rule{infix: binary, precedence: precComparison}
	r[token.LE] = rule{infix: binary, precedence: precComparison}
	r[token.IDENT] = rule{prefix: variable}
	r[token.STRING] = rule{prefix: stringLit}
	r[token.NUMBER] = rule{prefix: number}
	r[token.AND] = rule{infix: and_, precedence: precAnd}
	r[token.OR] = rule{infix: or_, precedence: precOr}
	r[token.FALSE] = rule{prefix: literal}
	r[token.TRUE] = rule{prefix: literal}
	r[token.NIL] = rule{prefix: literal}
	return r
}

func getRule(tok token.Token) rule {
	return ruleTable[tok]
}

// parsePrecedence parses an expression whose operators bind at least as
// tightly as minPrec, emitting bytecode directly (spec.md §4.3, "Pratt
// driver").
func (c *compiler) parsePrecedence(minPrec precedence) {
	c.advance()
	pr := getRule(c.prev.tok)
	if pr.prefix == nil {
		c.errorAtPrev("expected expression")
		return
	}

	canAssign := minPrec <= precAssignment
	pr.prefix(c, canAssign)

	for minPrec <= getRule(c.cur.tok).precedence {
		c.advance()
		infix := getRule(c.prev.tok).infix
		infix(c, canAssign)
	}

	if canAssign && c.match(token.EQ) {
		c.errorAtPrev("invalid assignment target")
	}
}

func (c *compiler) expression() {
	c.parsePrecedence(precAssignment)
}
