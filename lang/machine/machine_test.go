package machine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lumen-lang/lumen/lang/machine"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, machine.Result, error) {
	t.Helper()
	var out bytes.Buffer
	th := &machine.Thread{Stdout: &out}
	res, err := th.Interpret(src)
	return out.String(), res, err
}

func TestInterpretArithmeticAndPrint(t *testing.T) {
	out, res, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	require.Equal(t, machine.OK, res)
	require.Equal(t, "7\n", out)
}

func TestInterpretStringConcatenation(t *testing.T) {
	out, _, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	require.Equal(t, "foobar\n", out)
}

func TestInterpretStringEqualityIsByContent(t *testing.T) {
	out, _, err := run(t, `
		var a = "hi";
		var b = "h" + "i";
		print a == b;
	`)
	require.NoError(t, err)
	require.Equal(t, "true\n", out)
}

func TestInterpretGlobalsAndLocals(t *testing.T) {
	out, _, err := run(t, `
		var x = 1;
		{
			var x = 2;
			print x;
		}
		print x;
	`)
	require.NoError(t, err)
	require.Equal(t, "2\n1\n", out)
}

func TestInterpretIfElseAndWhile(t *testing.T) {
	out, _, err := run(t, `
		var i = 0;
		while (i < 3) {
			if (i == 1) { print "one"; } else { print i; }
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	require.Equal(t, "0\none\n2\n", out)
}

func TestInterpretForLoop(t *testing.T) {
	out, _, err := run(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.NoError(t, err)
	require.Equal(t, "0\n1\n2\n", out)
}

func TestInterpretClosureCapturesUpvalue(t *testing.T) {
	out, _, err := run(t, `
		fun makeCounter() {
			var count = 0;
			fun counter() {
				count = count + 1;
				print count;
			}
			return counter;
		}
		var c = makeCounter();
		c();
		c();
	`)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n", out)
}

func TestInterpretClassesMethodsAndThis(t *testing.T) {
	out, _, err := run(t, `
		class Counter {
			init(start) {
				this.value = start;
			}
			bump() {
				this.value = this.value + 1;
				return this.value;
			}
		}
		var c = Counter(10);
		print c.bump();
		print c.bump();
	`)
	require.NoError(t, err)
	require.Equal(t, "11\n12\n", out)
}

func TestInterpretInheritanceAndSuper(t *testing.T) {
	out, _, err := run(t, `
		class Animal {
			speak() {
				print "...";
			}
		}
		class Dog < Animal {
			speak() {
				super.speak();
				print "Woof";
			}
		}
		Dog().speak();
	`)
	require.NoError(t, err)
	require.Equal(t, "...\nWoof\n", out)
}

func TestInterpretBoundMethodCanBeCalledLater(t *testing.T) {
	out, _, err := run(t, `
		class Greeter {
			hello() { print "hi"; }
		}
		var g = Greeter();
		var fn = g.hello;
		fn();
	`)
	require.NoError(t, err)
	require.Equal(t, "hi\n", out)
}

func TestInterpretClockNativeReturnsNumber(t *testing.T) {
	out, _, err := run(t, `print clock() > 0;`)
	require.NoError(t, err)
	require.Equal(t, "true\n", out)
}

func TestInterpretRuntimeErrorUndefinedVariable(t *testing.T) {
	_, res, err := run(t, `print undefined;`)
	require.Error(t, err)
	require.Equal(t, machine.RuntimeError, res)
	require.Contains(t, err.Error(), "Undefined variable")
}

func TestInterpretRuntimeErrorTypeMismatch(t *testing.T) {
	_, res, err := run(t, `print 1 + "a";`)
	require.Error(t, err)
	require.Equal(t, machine.RuntimeError, res)
}

func TestInterpretCompileErrorReturnsCompileErrorResult(t *testing.T) {
	_, res, err := run(t, `var = 1;`)
	require.Error(t, err)
	require.Equal(t, machine.CompileError, res)
}

func TestInterpretStackTraceHasOneLinePerFrame(t *testing.T) {
	_, _, err := run(t, `
		fun a() { b(); }
		fun b() { c(); }
		fun c() { print 1/0 == 1/0; undefinedThing(); }
		a();
	`)
	require.Error(t, err)
	lines := strings.Split(err.Error(), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
}

func TestInterpretGCStressDoesNotCorruptLiveValues(t *testing.T) {
	var out bytes.Buffer
	th := &machine.Thread{Stdout: &out, GCStress: true}
	_, err := th.Interpret(`
		class Node {
			init(value) {
				this.value = value;
			}
		}
		fun build(n) {
			var head = nil;
			var i = 0;
			while (i < n) {
				var node = Node(i);
				head = node;
				i = i + 1;
			}
			return head;
		}
		var last = build(50);
		print last.value;
	`)
	require.NoError(t, err)
	require.Equal(t, "49\n", out.String())
}

func TestInterpretMaxStepsCancelsRunawayLoop(t *testing.T) {
	var out bytes.Buffer
	th := &machine.Thread{Stdout: &out, MaxSteps: 1000}
	res, err := th.Interpret(`while (true) { print 1; }`)
	require.Error(t, err)
	require.Equal(t, machine.RuntimeError, res)
}

func TestInterpretDisableRecursionRejectsSelfCall(t *testing.T) {
	var out bytes.Buffer
	th := &machine.Thread{Stdout: &out, DisableRecursion: true}
	res, err := th.Interpret(`
		fun loop(n) {
			if (n > 0) loop(n - 1);
		}
		loop(3);
	`)
	require.Error(t, err)
	require.Equal(t, machine.RuntimeError, res)
	require.Contains(t, err.Error(), "recursively")
}
