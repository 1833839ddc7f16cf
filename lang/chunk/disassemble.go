package chunk

import (
	"fmt"
	"io"
)

// ConstantFormatter renders the constant at idx as text, for disassembly
// output (CONSTANT, DEFINEGLOBAL, GETGLOBAL and SETGLOBAL all index the
// constant pool).
type ConstantFormatter func(idx uint32) string

// Disassemble writes a human-readable dump of code to w, one instruction per
// line, in the "== name ==" / "OP_NAME" format used throughout the reference
// implementation this language is modeled on.
func Disassemble(w io.Writer, name string, code []byte, lines []int, fmtConstant ConstantFormatter) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for pc := 0; pc < len(code); {
		pc = disassembleInstruction(w, code, lines, pc, fmtConstant)
	}
}

func disassembleInstruction(w io.Writer, code []byte, lines []int, pc int, fmtConstant ConstantFormatter) int {
	op := Opcode(code[pc])

	lineCol := fmt.Sprintf("%4d", pc)
	if pc > 0 && lines[pc] == lines[pc-1] {
		lineCol += "    |"
	} else {
		lineCol += fmt.Sprintf(" %4d", lines[pc])
	}

	switch {
	case op.IsJump():
		offset := ReadJump(code, pc+1)
		fmt.Fprintf(w, "%s OP_%s %d\n", lineCol, name(op), offset)
		return pc + 1 + JumpOperandWidth

	case op.HasOperand():
		arg, next := ReadVarint(code, pc+1)
		if fmtConstant != nil && (op == CONSTANT || op == DEFINEGLOBAL || op == GETGLOBAL || op == SETGLOBAL) {
			fmt.Fprintf(w, "%s OP_%s %d '%s'\n", lineCol, name(op), arg, fmtConstant(arg))
		} else {
			fmt.Fprintf(w, "%s OP_%s %d\n", lineCol, name(op), arg)
		}
		return next

	default:
		fmt.Fprintf(w, "%s OP_%s\n", lineCol, name(op))
		return pc + 1
	}
}

func name(op Opcode) string {
	s := op.String()
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
