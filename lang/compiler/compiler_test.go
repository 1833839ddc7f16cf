package compiler_test

import (
	"bytes"
	"testing"

	"github.com/mna/lockhart/lang/compiler"
	"github.com/mna/lockhart/lang/gc"
	"github.com/mna/lockhart/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileOK(t *testing.T, src string) *value.ObjFunction {
	t.Helper()
	fn, err := compiler.Compile(gc.New(), "test", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, fn)
	return fn
}

func disasm(fn *value.ObjFunction) string {
	var buf bytes.Buffer
	fn.Chunk.Disassemble(&buf, "test")
	return buf.String()
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	fn := compileOK(t, "let result = 1 + 2 * 3 - 4 / 2;")
	out := disasm(fn)
	assert.Contains(t, out, "MUL")
	assert.Contains(t, out, "DIV")
	assert.Contains(t, out, "ADD")
	assert.Contains(t, out, "SUB")
	assert.Contains(t, out, "DEFINE_GLOBAL")
}

func TestCompileStringConcat(t *testing.T) {
	fn := compileOK(t, `let msg = "hello" + " world";`)
	out := disasm(fn)
	assert.Contains(t, out, "ADD")
	require.Len(t, fn.Chunk.Constants, 3) // "hello", " world", name "msg"
}

func TestCompileBooleanOperators(t *testing.T) {
	fn := compileOK(t, "let a = true and false; let b = false or true; let c = !false;")
	out := disasm(fn)
	assert.Contains(t, out, "JUMP_IF_FALSE")
	assert.Contains(t, out, "NOT")
}

func TestCompileWhileLoop(t *testing.T) {
	fn := compileOK(t, "let i = 0; while (i < 4) { i = i + 1; }")
	out := disasm(fn)
	assert.Contains(t, out, "LOOP")
	assert.Contains(t, out, "LT")
}

func TestCompileFunctionDeclaration(t *testing.T) {
	fn := compileOK(t, "fn add(a, b) { return a + b; } let out = add(2, 3);")
	out := disasm(fn)
	assert.Contains(t, out, "CALL")

	var fnConst *value.ObjFunction
	for _, c := range fn.Chunk.Constants {
		if f, ok := c.(*value.ObjFunction); ok {
			fnConst = f
		}
	}
	require.NotNil(t, fnConst)
	assert.Equal(t, 2, fnConst.Arity)
	assert.Equal(t, "<fn add>", fnConst.String())
}

func TestCompileShadowingLocalInBlock(t *testing.T) {
	fn := compileOK(t, "let x = 1; { let x = 2; } print x;")
	out := disasm(fn)
	assert.Contains(t, out, "GET_GLOBAL")
}

func TestCompileErrorMissingSemicolon(t *testing.T) {
	_, err := compiler.Compile(gc.New(), "test", []byte("let x = 1"))
	require.Error(t, err)
	var cerr *compiler.Error
	require.ErrorAs(t, err, &cerr)
}

func TestCompileErrorReturnAtTopLevel(t *testing.T) {
	_, err := compiler.Compile(gc.New(), "test", []byte("return 1;"))
	require.Error(t, err)
}

func TestCompileErrorDuplicateLocal(t *testing.T) {
	_, err := compiler.Compile(gc.New(), "test", []byte("{ let x = 1; let x = 2; }"))
	require.Error(t, err)
}

func TestCompileErrorInvalidAssignmentTarget(t *testing.T) {
	_, err := compiler.Compile(gc.New(), "test", []byte("1 = 2;"))
	require.Error(t, err)
}

func TestCompileErrorTooManyParameters(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("fn f(")
	for i := 0; i < 256; i++ {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("a")
		buf.WriteString(itoa(i))
	}
	buf.WriteString(") { return 1; }")

	_, err := compiler.Compile(gc.New(), "test", buf.Bytes())
	require.Error(t, err)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}

func TestCompileForLoopConditionEmitsExitJump(t *testing.T) {
	fn := compileOK(t, "for (;false;) { print 1; }")
	out := disasm(fn)
	assert.Contains(t, out, "JUMP_IF_FALSE")
}
