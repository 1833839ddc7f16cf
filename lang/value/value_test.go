package value_test

import (
	"bytes"
	"testing"

	"github.com/mna/lockhart/lang/chunk"
	"github.com/mna/lockhart/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueDisplay(t *testing.T) {
	assert.Equal(t, "3", value.Number(3).String())
	assert.Equal(t, "3.5", value.Number(3.5).String())
	assert.Equal(t, "-1", value.Number(-1).String())
	assert.Equal(t, "true", value.Bool(true).String())
	assert.Equal(t, "false", value.Bool(false).String())
	assert.Equal(t, "nil", value.Nil.String())
}

func TestValueType(t *testing.T) {
	assert.Equal(t, "number", value.Number(1).Type())
	assert.Equal(t, "bool", value.Bool(true).Type())
	assert.Equal(t, "nil", value.Nil.Type())
}

func TestObjStringDisplay(t *testing.T) {
	s := value.NewObjString("hello")
	assert.Equal(t, "hello", s.String())
	assert.Equal(t, "string", s.Type())
	assert.Equal(t, value.FNV1a("hello"), s.Hash)
}

func TestFNV1aStable(t *testing.T) {
	assert.Equal(t, value.FNV1a("hello"), value.FNV1a("hello"))
	assert.NotEqual(t, value.FNV1a("hello"), value.FNV1a("world"))
}

func TestObjFunctionDisplay(t *testing.T) {
	anon := value.NewObjFunction(nil)
	assert.Equal(t, "<script>", anon.String())
	assert.Equal(t, "function", anon.Type())

	named := value.NewObjFunction(value.NewObjString("add"))
	assert.Equal(t, "<fn add>", named.String())
}

func TestChunkWriteAndDisassemble(t *testing.T) {
	c := value.NewChunk()
	idx := c.AddConstant(value.Number(1))
	c.WriteOperand(chunk.CONSTANT, idx, 1)
	c.WriteOp(chunk.PRINT, 1)
	c.WriteOp(chunk.RETURN, 2)

	require.Len(t, c.Lines, len(c.Code))
	assert.Equal(t, 1, c.Lines[0])
	assert.Equal(t, 2, c.Lines[len(c.Lines)-1])

	var buf bytes.Buffer
	c.Disassemble(&buf, "test")
	out := buf.String()
	assert.Contains(t, out, "== test ==")
	assert.Contains(t, out, "CONSTANT")
	assert.Contains(t, out, "1") // the constant's display form
	assert.Contains(t, out, "PRINT")
	assert.Contains(t, out, "RETURN")
}

func TestChunkJumpPatchedForward(t *testing.T) {
	c := value.NewChunk()
	jumpPos := c.WriteJump(chunk.JUMPIFFALSE, 1)
	c.WriteOp(chunk.POP, 1)
	c.WriteOp(chunk.POP, 2)
	c.PatchJump(jumpPos)

	operandAt := jumpPos + 1
	offset := chunk.ReadJump(c.Code, operandAt)
	wantOffset := len(c.Code) - (jumpPos + 1 + chunk.JumpOperandWidth)
	assert.Equal(t, uint16(wantOffset), offset)
}

func TestChunkEmitLoopBacksUp(t *testing.T) {
	c := value.NewChunk()
	loopStart := len(c.Code)
	c.WriteOp(chunk.NOP, 1)
	c.EmitLoop(loopStart, 2)

	loopPos := len(c.Code) - (1 + chunk.JumpOperandWidth)
	offset := chunk.ReadJump(c.Code, loopPos+1)
	wantOffset := (loopPos + 1 + chunk.JumpOperandWidth) - loopStart
	assert.Equal(t, uint16(wantOffset), offset)
}

func TestHeapHandleHeaderAccessors(t *testing.T) {
	s := value.NewObjString("x")
	var hh value.HeapHandle = s
	assert.False(t, hh.Header().Marked())
	hh.Header().Mark()
	assert.True(t, hh.Header().Marked())
	hh.Header().Unmark()
	assert.False(t, hh.Header().Marked())
	assert.Equal(t, value.KindString, hh.Header().Kind())
}
