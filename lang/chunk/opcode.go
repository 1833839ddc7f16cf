// Package chunk defines Lockhart's bytecode instruction set: the Opcode
// enumeration, the varint operand encoding shared by every operand-bearing
// instruction, and a textual disassembler used by the CLI's diagnostic
// "disassemble" command. It has no knowledge of runtime values; the chunk
// (code + constant pool) that embeds these instructions is assembled by
// lang/value, which owns the Value type the constant pool holds.
package chunk

import "fmt"

// Opcode is a single bytecode instruction.
type Opcode uint8

//nolint:revive
const (
	NOP Opcode = iota

	// stack operations
	POP
	PRINT

	// nullary operators
	NEGATE
	NOT
	ADD
	SUB
	MUL
	DIV
	MOD
	EQ
	GT
	LT

	NIL
	TRUE
	FALSE

	RETURN

	// --- opcodes with a varint operand go below this line ---

	CONSTANT     // CONSTANT<idx>      push constants[idx]
	DEFINEGLOBAL // DEFINEGLOBAL<idx>  globals[constants[idx]] = pop()
	GETGLOBAL    // GETGLOBAL<idx>     push globals[constants[idx]]
	SETGLOBAL    // SETGLOBAL<idx>     globals[constants[idx]] = peek(0)
	GETLOCAL     // GETLOCAL<slot>     push stack[frame.base+slot]
	SETLOCAL     // SETLOCAL<slot>     stack[frame.base+slot] = peek(0)
	CALL         // CALL<argc>         invoke the callee at stack[sp-1-argc]

	// --- opcodes with a fixed-width jump operand go below this line ---

	JUMP        // JUMP<offset>        ip += offset
	JUMPIFFALSE // JUMPIFFALSE<offset> if is_falsey(peek(0)): ip += offset
	LOOP        // LOOP<offset>        ip -= offset

	OpcodeArgMin  = CONSTANT
	OpcodeJumpMin = JUMP
	OpcodeMax     = LOOP
)

var opcodeNames = [...]string{
	NOP:          "nop",
	POP:          "pop",
	PRINT:        "print",
	NEGATE:       "negate",
	NOT:          "not",
	ADD:          "add",
	SUB:          "sub",
	MUL:          "mul",
	DIV:          "div",
	MOD:          "mod",
	EQ:           "eq",
	GT:           "gt",
	LT:           "lt",
	NIL:          "nil",
	TRUE:         "true",
	FALSE:        "false",
	RETURN:       "return",
	CONSTANT:     "constant",
	DEFINEGLOBAL: "define_global",
	GETGLOBAL:    "get_global",
	SETGLOBAL:    "set_global",
	GETLOCAL:     "get_local",
	SETLOCAL:     "set_local",
	CALL:         "call",
	JUMP:         "jump",
	JUMPIFFALSE:  "jump_if_false",
	LOOP:         "loop",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("illegal op (%d)", op)
}

// HasOperand reports whether op is followed by an operand in the instruction
// stream (either a varint constant/slot/argc index, or a fixed-width jump
// displacement).
func (op Opcode) HasOperand() bool { return op >= OpcodeArgMin }

// IsJump reports whether op carries a jump displacement, which unlike other
// operands is always encoded on a fixed 2 bytes so it can be back-patched
// once its target is known (spec.md §4.3, back-patching).
func (op Opcode) IsJump() bool { return op >= OpcodeJumpMin }

// JumpOperandWidth is the fixed size, in bytes, of a jump instruction's
// operand.
const JumpOperandWidth = 2

// PutVarint encodes x as a 7-bit little-endian varint (like encoding/binary's
// Uvarint, but capped to the uint32 range Lockhart's operand indices need)
// and appends it to buf.
func PutVarint(buf []byte, x uint32) []byte {
	for x >= 0x80 {
		buf = append(buf, byte(x)|0x80)
		x >>= 7
	}
	return append(buf, byte(x))
}

// VarintLen returns the number of bytes PutVarint would append for x.
func VarintLen(x uint32) int {
	n := 1
	for x >= 0x80 {
		n++
		x >>= 7
	}
	return n
}

// ReadVarint decodes a varint starting at code[pos] and returns the decoded
// value along with the position immediately following it.
func ReadVarint(code []byte, pos int) (uint32, int) {
	var x uint32
	for s := uint(0); ; s += 7 {
		b := code[pos]
		pos++
		x |= uint32(b&0x7f) << s
		if b < 0x80 {
			break
		}
	}
	return x, pos
}

// PutJump encodes offset on the fixed JumpOperandWidth of bytes, big-endian,
// and appends it to buf.
func PutJump(buf []byte, offset uint16) []byte {
	return append(buf, byte(offset>>8), byte(offset))
}

// ReadJump decodes a fixed-width jump operand starting at code[pos].
func ReadJump(code []byte, pos int) uint16 {
	return uint16(code[pos])<<8 | uint16(code[pos+1])
}
