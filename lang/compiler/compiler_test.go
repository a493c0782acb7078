package compiler_test

import (
	"testing"

	"github.com/lumen-lang/lumen/lang/compiler"
	"github.com/lumen-lang/lumen/lang/types"
	"github.com/stretchr/testify/require"
)

func compileOK(t *testing.T, src string) *types.Function {
	t.Helper()
	fn, err := compiler.Compile(src)
	require.NoError(t, err)
	require.NotNil(t, fn)
	return fn
}

func TestCompileArithmeticExpression(t *testing.T) {
	fn := compileOK(t, `print 1 + 2 * 3;`)
	require.Contains(t, fn.Chunk.Code, byte(types.OpPrint))
	require.Contains(t, fn.Chunk.Code, byte(types.OpMultiply))
	require.Contains(t, fn.Chunk.Code, byte(types.OpAdd))
}

func TestCompileVarDeclarationAndGlobal(t *testing.T) {
	fn := compileOK(t, `var x = 10; print x;`)
	require.Contains(t, fn.Chunk.Code, byte(types.OpDefineGlobal))
	require.Contains(t, fn.Chunk.Code, byte(types.OpGetGlobal))
}

func TestCompileLocalScopeUsesLocalOps(t *testing.T) {
	fn := compileOK(t, `{ var x = 1; print x; }`)
	require.Contains(t, fn.Chunk.Code, byte(types.OpGetLocal))
	require.NotContains(t, fn.Chunk.Code, byte(types.OpDefineGlobal))
}

func TestCompileIfElseEmitsJumps(t *testing.T) {
	fn := compileOK(t, `if (true) { print 1; } else { print 2; }`)
	require.Contains(t, fn.Chunk.Code, byte(types.OpJumpIfFalse))
	require.Contains(t, fn.Chunk.Code, byte(types.OpJump))
}

func TestCompileWhileEmitsLoop(t *testing.T) {
	fn := compileOK(t, `while (false) { print 1; }`)
	require.Contains(t, fn.Chunk.Code, byte(types.OpLoop))
}

func TestCompileForDesugarsToLoop(t *testing.T) {
	fn := compileOK(t, `for (var i = 0; i < 3; i = i + 1) { print i; }`)
	require.Contains(t, fn.Chunk.Code, byte(types.OpLoop))
	require.Contains(t, fn.Chunk.Code, byte(types.OpJumpIfFalse))
}

func TestCompileFunctionProducesClosureOpcode(t *testing.T) {
	fn := compileOK(t, `fun add(a, b) { return a + b; } print add(1, 2);`)
	require.Contains(t, fn.Chunk.Code, byte(types.OpClosure))
	require.Contains(t, fn.Chunk.Code, byte(types.OpCall))

	var nested *types.Function
	for _, c := range fn.Chunk.Constants {
		if c.IsObjKind(types.ObjFunctionKind) {
			nested = c.AsObject().(*types.Function)
		}
	}
	require.NotNil(t, nested)
	require.Equal(t, 2, nested.Arity)
}

func TestCompileClassAndMethod(t *testing.T) {
	fn := compileOK(t, `
class Greeter {
  init(name) {
    this.name = name;
  }
  greet() {
    print this.name;
  }
}
var g = Greeter("world");
g.greet();
`)
	require.Contains(t, fn.Chunk.Code, byte(types.OpClass))
	require.Contains(t, fn.Chunk.Code, byte(types.OpMethod))
	require.Contains(t, fn.Chunk.Code, byte(types.OpInvoke))

	// `this.name = name` is compiled into init's own chunk.
	var initFn *types.Function
	for _, c := range fn.Chunk.Constants {
		if c.IsObjKind(types.ObjFunctionKind) {
			if f := c.AsObject().(*types.Function); f.DisplayName() == "init" {
				initFn = f
			}
		}
	}
	require.NotNil(t, initFn)
	require.Contains(t, initFn.Chunk.Code, byte(types.OpSetProperty))
}

func TestCompileClassInheritanceEmitsInherit(t *testing.T) {
	fn := compileOK(t, `
class Animal { speak() { print "..."; } }
class Dog < Animal { speak() { super.speak(); } }
`)
	require.Contains(t, fn.Chunk.Code, byte(types.OpInherit))

	// `super.speak()` is compiled into Dog's speak method, the last function
	// constant of the script.
	var dogSpeak *types.Function
	for _, c := range fn.Chunk.Constants {
		if c.IsObjKind(types.ObjFunctionKind) {
			dogSpeak = c.AsObject().(*types.Function)
		}
	}
	require.NotNil(t, dogSpeak)
	require.Contains(t, dogSpeak.Chunk.Code, byte(types.OpSuperInvoke))
}

func TestCompileClosureCapturesUpvalue(t *testing.T) {
	fn := compileOK(t, `
fun outer() {
  var x = 1;
  fun inner() { return x; }
  return inner;
}
`)
	var outerFn *types.Function
	for _, c := range fn.Chunk.Constants {
		if c.IsObjKind(types.ObjFunctionKind) {
			outerFn = c.AsObject().(*types.Function)
		}
	}
	require.NotNil(t, outerFn)
	var innerFn *types.Function
	for _, c := range outerFn.Chunk.Constants {
		if c.IsObjKind(types.ObjFunctionKind) {
			innerFn = c.AsObject().(*types.Function)
		}
	}
	require.NotNil(t, innerFn)
	require.Equal(t, 1, innerFn.UpvalueCount)
	require.Contains(t, outerFn.Chunk.Code, byte(types.OpClosure))
}

func TestCompileErrorsReportPanicModeRecovery(t *testing.T) {
	_, err := compiler.Compile(`var = 1; var y = 2;`)
	require.Error(t, err)
	list, ok := err.(compiler.ErrorList)
	require.True(t, ok)
	require.NotEmpty(t, list)
}

func TestCompileReturnOutsideFunctionIsError(t *testing.T) {
	_, err := compiler.Compile(`return 1;`)
	require.Error(t, err)
}

func TestCompileThisOutsideClassIsError(t *testing.T) {
	_, err := compiler.Compile(`print this;`)
	require.Error(t, err)
}

func TestCompileInvalidAssignmentTargetIsError(t *testing.T) {
	_, err := compiler.Compile(`1 + 2 = 3;`)
	require.Error(t, err)
}
