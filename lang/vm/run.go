package vm

import (
	"fmt"
	"math"

	"github.com/mna/lockhart/lang/chunk"
	"github.com/mna/lockhart/lang/value"
)

// run drives the dispatch loop over the topmost frame until either the
// outermost frame returns (success) or a runtime error is produced
// (spec.md §4.4, "Dispatch").
func (vm *VM) run() error {
	fr := &vm.frames[vm.frameCount-1]

	for {
		vm.collectIfNeeded()

		code := fr.fn.Chunk.Code
		line := fr.fn.Chunk.Lines[fr.ip]
		op := chunk.Opcode(code[fr.ip])
		fr.ip++

		switch {
		case op.IsJump():
			offset := int(chunk.ReadJump(code, fr.ip))
			fr.ip += chunk.JumpOperandWidth
			switch op {
			case chunk.JUMP:
				fr.ip += offset
			case chunk.JUMPIFFALSE:
				if isFalsey(vm.peek(0)) {
					fr.ip += offset
				}
			case chunk.LOOP:
				fr.ip -= offset
			}

		case op.HasOperand():
			operand, next := chunk.ReadVarint(code, fr.ip)
			fr.ip = next

			switch op {
			case chunk.CONSTANT:
				if err := vm.push(fr.fn.Chunk.Constants[operand]); err != nil {
					return err
				}

			case chunk.DEFINEGLOBAL:
				name := fr.fn.Chunk.Constants[operand].(*value.ObjString)
				vm.globals.Set(name, vm.pop())

			case chunk.GETGLOBAL:
				name := fr.fn.Chunk.Constants[operand].(*value.ObjString)
				v, ok := vm.globals.Get(name)
				if !ok {
					return vm.runtimeErrorf(line, "Undefined Variable")
				}
				if err := vm.push(v); err != nil {
					return err
				}

			case chunk.SETGLOBAL:
				name := fr.fn.Chunk.Constants[operand].(*value.ObjString)
				if !vm.globals.Has(name) {
					return vm.runtimeErrorf(line, "Undefined Variable")
				}
				vm.globals.Set(name, vm.peek(0))

			case chunk.GETLOCAL:
				if err := vm.push(vm.stack[fr.base+int(operand)]); err != nil {
					return err
				}

			case chunk.SETLOCAL:
				vm.stack[fr.base+int(operand)] = vm.peek(0)

			case chunk.CALL:
				argc := int(operand)
				if err := vm.callValue(argc); err != nil {
					return err
				}
				fr = &vm.frames[vm.frameCount-1]
			}

		default:
			if err := vm.dispatchNullary(op, line); err != nil {
				return err
			}
			if op == chunk.RETURN {
				result := vm.pop()
				vm.frameCount--
				vm.stackTop = fr.base
				if err := vm.push(result); err != nil {
					return err
				}
				if vm.frameCount == 0 {
					// the sentinel top-level function was dropped by the stackTop
					// reset above; discard the script's own return value
					vm.pop()
					return nil
				}
				fr = &vm.frames[vm.frameCount-1]
			}
		}
	}
}

// dispatchNullary executes every opcode with no operand except RETURN,
// whose frame-popping half is handled by the caller (spec.md §4.4,
// per-opcode table).
func (vm *VM) dispatchNullary(op chunk.Opcode, line int) error {
	switch op {
	case chunk.NOP:
		// no-op

	case chunk.POP:
		vm.pop()

	case chunk.PRINT:
		fmt.Fprintln(vm.stdout, vm.pop().String())

	case chunk.NEGATE:
		n, ok := vm.peek(0).(value.Number)
		if !ok {
			return vm.runtimeErrorf(line, "operand must be a number")
		}
		vm.stack[vm.stackTop-1] = -n

	case chunk.NOT:
		vm.stack[vm.stackTop-1] = value.Bool(falsify(vm.peek(0)))

	case chunk.ADD:
		b, a := vm.pop(), vm.pop()
		if as, ok := a.(*value.ObjString); ok {
			bs, ok := b.(*value.ObjString)
			if !ok {
				return vm.runtimeErrorf(line, "operands must be two numbers or two strings")
			}
			return vm.push(vm.heap.Intern(as.Chars + bs.Chars))
		}
		an, aok := a.(value.Number)
		bn, bok := b.(value.Number)
		if !aok || !bok {
			return vm.runtimeErrorf(line, "operands must be two numbers or two strings")
		}
		return vm.push(an + bn)

	case chunk.SUB:
		return vm.binaryNumberOp(line, func(a, b float64) float64 { return a - b })
	case chunk.MUL:
		return vm.binaryNumberOp(line, func(a, b float64) float64 { return a * b })
	case chunk.DIV:
		return vm.binaryNumberOp(line, func(a, b float64) float64 { return a / b })
	case chunk.MOD:
		return vm.binaryNumberOp(line, math.Mod)

	case chunk.EQ:
		b, a := vm.pop(), vm.pop()
		return vm.push(value.Bool(valuesEqual(a, b)))

	case chunk.GT:
		return vm.binaryCompareOp(line, func(a, b float64) bool { return a > b })
	case chunk.LT:
		return vm.binaryCompareOp(line, func(a, b float64) bool { return a < b })

	case chunk.NIL:
		return vm.push(value.Nil)
	case chunk.TRUE:
		return vm.push(value.Bool(true))
	case chunk.FALSE:
		return vm.push(value.Bool(false))

	case chunk.RETURN:
		// frame-popping handled by run, after this returns nil

	default:
		return vm.runtimeErrorf(line, "illegal opcode %s", op)
	}
	return nil
}

func (vm *VM) binaryNumberOp(line int, op func(a, b float64) float64) error {
	b, ok1 := vm.pop().(value.Number)
	a, ok2 := vm.pop().(value.Number)
	if !ok1 || !ok2 {
		return vm.runtimeErrorf(line, "operands must be numbers")
	}
	return vm.push(value.Number(op(float64(a), float64(b))))
}

func (vm *VM) binaryCompareOp(line int, op func(a, b float64) bool) error {
	b, ok1 := vm.pop().(value.Number)
	a, ok2 := vm.pop().(value.Number)
	if !ok1 || !ok2 {
		return vm.runtimeErrorf(line, "operands must be numbers")
	}
	return vm.push(value.Bool(op(float64(a), float64(b))))
}
