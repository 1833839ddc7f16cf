package value

import (
	"io"

	"github.com/mna/lockhart/lang/chunk"
)

// Chunk is an append-only instruction buffer plus its associated constant
// pool, owned by exactly one ObjFunction (spec.md §3). Lines runs parallel to
// Code, one entry per byte, recording the source line the byte's instruction
// was compiled from (redundant across an instruction's operand bytes, traded
// for a simpler, allocation-free lookup during disassembly and runtime
// errors).
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []Value
}

// NewChunk returns an empty chunk.
func NewChunk() *Chunk { return &Chunk{} }

func (c *Chunk) fill(n, line int) {
	for i := 0; i < n; i++ {
		c.Lines = append(c.Lines, line)
	}
}

// WriteOp appends a nullary opcode and returns the index it was written at.
func (c *Chunk) WriteOp(op chunk.Opcode, line int) int {
	pos := len(c.Code)
	c.Code = append(c.Code, byte(op))
	c.fill(1, line)
	return pos
}

// WriteOperand appends an opcode followed by a varint-encoded operand (a
// constant index, local slot, or call argument count) and returns the index
// the opcode was written at.
func (c *Chunk) WriteOperand(op chunk.Opcode, operand uint32, line int) int {
	pos := len(c.Code)
	c.Code = append(c.Code, byte(op))
	before := len(c.Code)
	c.Code = chunk.PutVarint(c.Code, operand)
	c.fill(1+(len(c.Code)-before), line)
	return pos
}

// WriteJump appends a jump opcode with a placeholder zero offset and returns
// the index the opcode was written at, for later use with PatchJump.
func (c *Chunk) WriteJump(op chunk.Opcode, line int) int {
	pos := len(c.Code)
	c.Code = append(c.Code, byte(op))
	c.Code = chunk.PutJump(c.Code, 0)
	c.fill(1+chunk.JumpOperandWidth, line)
	return pos
}

// PatchJump rewrites the placeholder offset of the jump instruction at index
// pos (as returned by WriteJump) so that it jumps to the current end of the
// chunk (spec.md §4.3, back-patching).
func (c *Chunk) PatchJump(pos int) {
	offset := len(c.Code) - (pos + 1 + chunk.JumpOperandWidth)
	operandAt := pos + 1
	patched := chunk.PutJump(nil, uint16(offset))
	copy(c.Code[operandAt:operandAt+chunk.JumpOperandWidth], patched)
}

// EmitLoop appends a LOOP instruction that jumps back to loopStart (an index
// previously recorded by the caller, typically the start of a while/for
// condition).
func (c *Chunk) EmitLoop(loopStart, line int) {
	pos := c.WriteJump(chunk.LOOP, line)
	offset := (pos + 1 + chunk.JumpOperandWidth) - loopStart
	operandAt := pos + 1
	patched := chunk.PutJump(nil, uint16(offset))
	copy(c.Code[operandAt:operandAt+chunk.JumpOperandWidth], patched)
}

// AddConstant appends v to the constant pool and returns its index.
func (c *Chunk) AddConstant(v Value) uint32 {
	c.Constants = append(c.Constants, v)
	return uint32(len(c.Constants) - 1)
}

// Disassemble writes a textual dump of the chunk's instructions to w.
func (c *Chunk) Disassemble(w io.Writer, name string) {
	chunk.Disassemble(w, name, c.Code, c.Lines, func(idx uint32) string {
		return c.Constants[idx].String()
	})
}
