package vm

import "github.com/mna/lockhart/lang/value"

// call installs a new frame for fn, checking arity and the frame-count
// limit first (spec.md §4.4, "Call").
func (vm *VM) call(fn *value.ObjFunction, argc int) error {
	if argc != fn.Arity {
		return vm.runtimeErrorf(0, "Expected %d args but found %d", fn.Arity, argc)
	}
	if vm.frameCount == maxFrames {
		return vm.runtimeErrorf(0, "Stack Overflow")
	}

	vm.frames[vm.frameCount] = frame{
		fn:   fn,
		ip:   0,
		base: vm.stackTop - argc - 1,
	}
	vm.frameCount++
	return nil
}

// callValue dispatches a call to whatever value sits at stack[sp-1-argc]:
// only functions are callable in Lockhart (spec.md §4.4, "call_value").
func (vm *VM) callValue(argc int) error {
	callee := vm.peek(argc)
	fn, ok := callee.(*value.ObjFunction)
	if !ok {
		return vm.runtimeErrorf(0, "calling uncallable value of type %s", callee.Type())
	}
	return vm.call(fn, argc)
}
