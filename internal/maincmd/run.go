package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/lumen-lang/lumen/lang/machine"
)

// compileError wraps a CompileError result so exitCodeFor can map it to 65
// without the caller needing to inspect machine.Result directly.
type compileError struct{ err error }

func (e *compileError) Error() string { return e.err.Error() }
func (e *compileError) Unwrap() error { return e.err }

// runError wraps a RuntimeError result so exitCodeFor can map it to 70.
type runError struct{ err error }

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

// Run compiles and executes the source file named by args[0], or starts a
// REPL over stdin if args is empty.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	th := &machine.Thread{
		Stdout:   stdio.Stdout,
		Stderr:   stdio.Stderr,
		GCStress: c.GCStress,
		GCLogging: c.GCLog,
	}

	if len(args) == 0 {
		return repl(ctx, stdio, th)
	}
	return runFile(stdio, th, args[0])
}

func runFile(stdio mainer.Stdio, th *machine.Thread, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	res, err := th.Interpret(string(src))
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
	}
	return classify(res, err)
}

func repl(ctx context.Context, stdio mainer.Stdio, th *machine.Thread) error {
	scanner := bufio.NewScanner(stdio.Stdin)
	fmt.Fprint(stdio.Stdout, "> ")
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := scanner.Text()
		if _, err := th.Interpret(line); err != nil {
			// a REPL keeps prompting after an error in one line
			fmt.Fprintln(stdio.Stderr, err)
		}
		fmt.Fprint(stdio.Stdout, "> ")
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// classify turns an Interpret result into the command error that
// exitCodeFor expects. It prints nothing: the caller has already printed
// the error (Main does not print command errors).
func classify(res machine.Result, err error) error {
	if err == nil {
		return nil
	}
	switch res {
	case machine.CompileError:
		return &compileError{err: err}
	case machine.RuntimeError:
		return &runError{err: err}
	default:
		return err
	}
}
