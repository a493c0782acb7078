package machine

import (
	"fmt"
	"unsafe"

	"github.com/lumen-lang/lumen/lang/compiler"
	"github.com/lumen-lang/lumen/lang/types"
)

// Interpret compiles source and, if compilation succeeds, runs it on th.
// th is initialized lazily on first use, so a zero-value Thread is ready to
// call Interpret with.
func (th *Thread) Interpret(source string) (Result, error) {
	th.init()
	th.steps = 0

	fn, err := compiler.Compile(source)
	if err != nil {
		return CompileError, err
	}

	th.internConstants(fn)
	closure := th.newClosure(fn)
	th.push(types.Object(closure))
	if err := th.callClosure(closure, 0); err != nil {
		return RuntimeError, err
	}

	if err := th.run(); err != nil {
		return RuntimeError, err
	}
	return OK, nil
}

func (th *Thread) push(v types.Value) {
	th.stack[th.stackTop] = v
	th.stackTop++
}

func (th *Thread) pop() types.Value {
	th.stackTop--
	return th.stack[th.stackTop]
}

func (th *Thread) peek(distance int) types.Value {
	return th.stack[th.stackTop-1-distance]
}

func (th *Thread) resetStack() {
	th.stackTop = 0
	th.frameCount = 0
	th.openUpvalues = nil
}

// run executes bytecode from the current (innermost) call frame until the
// frame stack empties (the initial script closure returns) or a runtime
// error occurs.
func (th *Thread) run() error {
	fr := &th.frames[th.frameCount-1]

	readByte := func() byte {
		b := fr.chunk().Code[fr.ip]
		fr.ip++
		return b
	}
	readShort := func() int {
		hi := fr.chunk().Code[fr.ip]
		lo := fr.chunk().Code[fr.ip+1]
		fr.ip += 2
		return int(hi)<<8 | int(lo)
	}
	readConstant := func() types.Value {
		return fr.chunk().Constants[readByte()]
	}
	readString := func() *types.String {
		return readConstant().AsString()
	}

	for {
		th.steps++
		if th.steps >= th.maxSteps {
			return th.runtimeError("thread cancelled: step limit exceeded")
		}
		if th.cancelled.Load() {
			return th.runtimeError("thread cancelled")
		}

		op := types.OpCode(readByte())
		switch op {
		case types.OpConstant:
			th.push(readConstant())

		case types.OpNil:
			th.push(types.Nil)
		case types.OpTrue:
			th.push(types.True)
		case types.OpFalse:
			th.push(types.False)
		case types.OpPop:
			th.pop()

		case types.OpGetLocal:
			slot := readByte()
			th.push(th.stack[fr.slots+int(slot)])
		case types.OpSetLocal:
			slot := readByte()
			th.stack[fr.slots+int(slot)] = th.peek(0)

		case types.OpGetGlobal:
			name := readString()
			v, ok := th.globals.Get(name)
			if !ok {
				return th.runtimeError("Undefined variable '%s'.", name.Chars)
			}
			th.push(v)
		case types.OpDefineGlobal:
			name := readString()
			th.globals.Set(name, th.peek(0))
			th.pop()
		case types.OpSetGlobal:
			name := readString()
			if th.globals.Set(name, th.peek(0)) {
				th.globals.Delete(name)
				return th.runtimeError("Undefined variable '%s'.", name.Chars)
			}

		case types.OpGetUpvalue:
			slot := readByte()
			th.push(*fr.closure.Upvalues[slot].Location)
		case types.OpSetUpvalue:
			slot := readByte()
			*fr.closure.Upvalues[slot].Location = th.peek(0)

		case types.OpGetProperty:
			if !th.peek(0).IsObjKind(types.ObjInstanceKind) {
				return th.runtimeError("Only instances have properties.")
			}
			inst := th.peek(0).AsObject().(*types.Instance)
			name := readString()

			if v, ok := inst.Fields.Get(name); ok {
				th.pop()
				th.push(v)
				break
			}
			if err := th.bindMethod(inst.Class, name); err != nil {
				return err
			}

		case types.OpSetProperty:
			if !th.peek(1).IsObjKind(types.ObjInstanceKind) {
				return th.runtimeError("Only instances have fields.")
			}
			inst := th.peek(1).AsObject().(*types.Instance)
			name := readString()
			inst.Fields.Set(name, th.peek(0))
			v := th.pop()
			th.pop()
			th.push(v)

		case types.OpGetSuper:
			name := readString()
			superclass := th.pop().AsObject().(*types.Class)
			if err := th.bindMethod(superclass, name); err != nil {
				return err
			}

		case types.OpEqual:
			b := th.pop()
			a := th.pop()
			th.push(types.Bool(a.Equal(b)))
		case types.OpNotEqual:
			b := th.pop()
			a := th.pop()
			th.push(types.Bool(!a.Equal(b)))
		case types.OpGreater, types.OpLess:
			if !th.peek(0).IsNumber() || !th.peek(1).IsNumber() {
				return th.runtimeError("Operands must be numbers.")
			}
			b := th.pop().AsNumber()
			a := th.pop().AsNumber()
			if op == types.OpGreater {
				th.push(types.Bool(a > b))
			} else {
				th.push(types.Bool(a < b))
			}

		case types.OpAdd:
			switch {
			case th.peek(0).IsString() && th.peek(1).IsString():
				th.concatenate()
			case th.peek(0).IsNumber() && th.peek(1).IsNumber():
				b := th.pop().AsNumber()
				a := th.pop().AsNumber()
				th.push(types.Number(a + b))
			default:
				return th.runtimeError("Operands must be two numbers or two strings.")
			}
		case types.OpSubtract, types.OpMultiply, types.OpDivide:
			if !th.peek(0).IsNumber() || !th.peek(1).IsNumber() {
				return th.runtimeError("Operands must be numbers.")
			}
			b := th.pop().AsNumber()
			a := th.pop().AsNumber()
			switch op {
			case types.OpSubtract:
				th.push(types.Number(a - b))
			case types.OpMultiply:
				th.push(types.Number(a * b))
			case types.OpDivide:
				th.push(types.Number(a / b))
			}

		case types.OpNot:
			th.push(types.Bool(th.pop().Falsey()))
		case types.OpNegate:
			if !th.peek(0).IsNumber() {
				return th.runtimeError("Operand must be a number.")
			}
			th.push(types.Number(-th.pop().AsNumber()))

		case types.OpPrint:
			fmt.Fprintln(th.stdout, th.pop().String())

		case types.OpJump:
			offset := readShort()
			fr.ip += offset
		case types.OpJumpIfFalse:
			offset := readShort()
			if th.peek(0).Falsey() {
				fr.ip += offset
			}
		case types.OpLoop:
			offset := readShort()
			fr.ip -= offset

		case types.OpCall:
			argCount := int(readByte())
			if err := th.callValue(th.peek(argCount), argCount); err != nil {
				return err
			}
			fr = &th.frames[th.frameCount-1]

		case types.OpInvoke:
			method := readString()
			argCount := int(readByte())
			if err := th.invoke(method, argCount); err != nil {
				return err
			}
			fr = &th.frames[th.frameCount-1]

		case types.OpSuperInvoke:
			method := readString()
			argCount := int(readByte())
			superclass := th.pop().AsObject().(*types.Class)
			if err := th.invokeFromClass(superclass, method, argCount); err != nil {
				return err
			}
			fr = &th.frames[th.frameCount-1]

		case types.OpClosure:
			fn := readConstant().AsObject().(*types.Function)
			closure := th.newClosure(fn)
			th.push(types.Object(closure))
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := readByte()
				index := readByte()
				if isLocal != 0 {
					closure.Upvalues[i] = th.captureUpvalue(&th.stack[fr.slots+int(index)])
				} else {
					closure.Upvalues[i] = fr.closure.Upvalues[index]
				}
			}

		case types.OpCloseUpvalue:
			th.closeUpvalues(th.stackTop - 1)
			th.pop()

		case types.OpReturn:
			result := th.pop()
			th.closeUpvalues(fr.slots)
			th.frameCount--
			if th.frameCount == 0 {
				th.pop()
				return nil
			}
			th.stackTop = fr.slots
			th.push(result)
			fr = &th.frames[th.frameCount-1]

		case types.OpClass:
			th.push(types.Object(th.newClass(readString())))

		case types.OpInherit:
			superVal := th.peek(1)
			if !superVal.IsObjKind(types.ObjClassKind) {
				return th.runtimeError("Superclass must be a class.")
			}
			subclass := th.peek(0).AsObject().(*types.Class)
			superVal.AsObject().(*types.Class).Methods.AddAll(subclass.Methods)
			th.pop() // subclass

		case types.OpMethod:
			th.defineMethod(readString())

		default:
			return th.runtimeError("internal error: unimplemented opcode %s", op)
		}
	}
}

func (th *Thread) concatenate() {
	b := th.peek(0).AsString()
	a := th.peek(1).AsString()
	result := th.internString(a.Chars + b.Chars)
	th.pop()
	th.pop()
	th.push(types.Object(result))
}

// callValue dispatches a call to whatever kind of callable sits on the
// stack: a Closure pushes a new frame, a Native calls straight through, a
// Class constructs a new Instance (invoking init if defined), and a
// BoundMethod rewrites the receiver into slot 0 before dispatching to its
// underlying Closure.
func (th *Thread) callValue(callee types.Value, argCount int) error {
	if !callee.IsObject() {
		return th.runtimeError("Can only call functions and classes.")
	}
	switch c := callee.AsObject().(type) {
	case *types.Closure:
		return th.callClosure(c, argCount)
	case *types.Native:
		args := th.stack[th.stackTop-argCount : th.stackTop]
		result, err := c.Fn(args)
		if err != nil {
			return th.runtimeError("%s", err)
		}
		th.stackTop -= argCount + 1
		th.push(result)
		return nil
	case *types.Class:
		inst := th.newInstance(c)
		th.stack[th.stackTop-argCount-1] = types.Object(inst)
		if init, ok := c.Methods.Get(th.initString); ok {
			return th.callClosure(init.AsObject().(*types.Closure), argCount)
		}
		if argCount != 0 {
			return th.runtimeError("Expected 0 arguments but got %d.", argCount)
		}
		return nil
	case *types.BoundMethod:
		th.stack[th.stackTop-argCount-1] = c.Receiver
		return th.callClosure(c.Method, argCount)
	default:
		return th.runtimeError("Can only call functions and classes.")
	}
}

func (th *Thread) callClosure(closure *types.Closure, argCount int) error {
	if argCount != closure.Fn.Arity {
		return th.runtimeError("Expected %d arguments but got %d.", closure.Fn.Arity, argCount)
	}
	if th.frameCount == framesMax {
		return th.runtimeError("Stack overflow.")
	}
	if th.DisableRecursion {
		for i := 0; i < th.frameCount; i++ {
			if th.frames[i].closure.Fn == closure.Fn {
				return th.runtimeError("function %s called recursively", closure.Fn.DisplayName())
			}
		}
	}

	fr := &th.frames[th.frameCount]
	th.frameCount++
	fr.closure = closure
	fr.ip = 0
	fr.slots = th.stackTop - argCount - 1
	return nil
}

func (th *Thread) invoke(name *types.String, argCount int) error {
	receiver := th.peek(argCount)
	if !receiver.IsObjKind(types.ObjInstanceKind) {
		return th.runtimeError("Only instances have methods.")
	}
	inst := receiver.AsObject().(*types.Instance)

	if v, ok := inst.Fields.Get(name); ok {
		th.stack[th.stackTop-argCount-1] = v
		return th.callValue(v, argCount)
	}
	return th.invokeFromClass(inst.Class, name, argCount)
}

func (th *Thread) invokeFromClass(class *types.Class, name *types.String, argCount int) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return th.runtimeError("Undefined property '%s'.", name.Chars)
	}
	return th.callClosure(method.AsObject().(*types.Closure), argCount)
}

func (th *Thread) bindMethod(class *types.Class, name *types.String) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return th.runtimeError("Undefined property '%s'.", name.Chars)
	}
	bound := &types.BoundMethod{Receiver: th.peek(0), Method: method.AsObject().(*types.Closure)}
	th.linkObject(bound)
	th.pop()
	th.push(types.Object(bound))
	return nil
}

func (th *Thread) defineMethod(name *types.String) {
	method := th.peek(0)
	class := th.peek(1).AsObject().(*types.Class)
	class.Methods.Set(name, method)
	th.pop()
}

// captureUpvalue returns an open Upvalue pointing at slot, reusing an
// existing one if the same stack slot is already captured, and otherwise
// inserting a freshly allocated one into th.openUpvalues, kept sorted by
// descending slot address as cLox's vm.c does, so closeUpvalues can stop
// early.
func (th *Thread) captureUpvalue(slot *types.Value) *types.Upvalue {
	var prev *types.Upvalue
	up := th.openUpvalues
	for up != nil && addrOf(up.Location) > addrOf(slot) {
		prev = up
		up = up.NextOpen
	}
	if up != nil && up.Location == slot {
		return up
	}

	created := types.NewUpvalue(slot)
	th.linkObject(created)
	created.NextOpen = up
	if prev == nil {
		th.openUpvalues = created
	} else {
		prev.NextOpen = created
	}
	return created
}

func addrOf(v *types.Value) uintptr { return uintptr(unsafe.Pointer(v)) }

// closeUpvalues closes every open upvalue whose stack slot is at index >=
// fromSlot, copying its value out of the stack into the Upvalue's own
// storage so it survives the frame returning.
func (th *Thread) closeUpvalues(fromSlot int) {
	threshold := addrOf(&th.stack[fromSlot])
	for th.openUpvalues != nil && addrOf(th.openUpvalues.Location) >= threshold {
		up := th.openUpvalues
		th.openUpvalues = up.NextOpen
		up.Close()
	}
}

// runtimeError builds a *runtimeErr carrying a cLox-style stack trace from
// the thread's currently active frames, then resets the thread to a clean
// state so a subsequent Interpret call starts fresh.
func (th *Thread) runtimeError(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	trace := make([]string, 0, th.frameCount)
	for i := th.frameCount - 1; i >= 0; i-- {
		fr := &th.frames[i]
		trace = append(trace, fmt.Sprintf("[line %d] in %s", fr.line(), fr.closure.Fn.DisplayName()))
	}
	th.resetStack()
	return &runtimeErr{Message: msg, Trace: trace}
}
