package machine

import (
	"context"
	"io"
	"os"
	"sync/atomic"

	"github.com/lumen-lang/lumen/lang/types"
)

const (
	framesMax = 64
	stackMax  = framesMax * 256
)

// Thread is a single execution of a compiled program: the call-frame stack,
// the operand stack, the globals table, the string intern pool, and the GC
// bookkeeping that together make up the machine's complete runtime state.
// The zero value is not ready to use; call Interpret, which performs
// one-time initialization on first use.
type Thread struct {
	// Name optionally identifies the thread, for debugging. It does not
	// appear in runtime error traces.
	Name string

	// Stdout is where `print` statements are written and Stderr is where
	// GCLogging output is written. Runtime errors are not written to either;
	// Interpret returns them. If nil, os.Stdout/os.Stderr are used.
	Stdout io.Writer
	Stderr io.Writer

	// MaxSteps bounds the number of bytecode instructions a single
	// Interpret call may execute before the thread cancels itself with a
	// RuntimeError. A value <= 0 means no limit.
	MaxSteps int

	// DisableRecursion rejects a call whose closure's Function is already
	// active somewhere on the call stack. It is a safety check for running
	// untrusted scripts, off by default since recursion is ordinary control
	// flow for this language.
	DisableRecursion bool

	// GCStress forces a collection before every allocation, to shake out GC
	// correctness bugs at the cost of performance; mirrors cLox's
	// DEBUG_STRESS_GC build flag.
	GCStress bool

	// GCLogging writes a begin line and an end line to Stderr on every
	// collection, the end line describing bytes freed and the new threshold,
	// mirroring cLox's DEBUG_LOG_GC.
	GCLogging bool

	ctx       context.Context
	ctxCancel func()
	cancelled atomic.Bool
	steps     uint64
	maxSteps  uint64

	stdout io.Writer
	stderr io.Writer

	frames     [framesMax]callFrame
	frameCount int

	stack    [stackMax]types.Value
	stackTop int

	globals *types.Table
	strings *types.Table

	openUpvalues *types.Upvalue
	objects      types.Obj

	initString *types.String

	bytesAllocated int64
	nextGC         int64
	grayStack      []types.Obj

	interned map[*types.Function]bool
}

func (th *Thread) init() {
	if th.stdout != nil || th.stderr != nil {
		return // already initialized
	}
	if th.MaxSteps <= 0 {
		th.maxSteps--
	} else {
		th.maxSteps = uint64(th.MaxSteps)
	}
	if th.Stdout != nil {
		th.stdout = th.Stdout
	} else {
		th.stdout = os.Stdout
	}
	if th.Stderr != nil {
		th.stderr = th.Stderr
	} else {
		th.stderr = os.Stderr
	}
	th.ctx = context.Background()
	th.ctxCancel = func() {}

	th.globals = types.NewTable()
	th.strings = types.NewTable()
	th.nextGC = 1024 * 1024
	th.initString = th.internString("init")

	th.defineNatives()
}

// Cancel asynchronously stops the thread at its next step check, as if
// MaxSteps had been reached. Safe to call from another goroutine, matching
// the teacher's ctx-cancellation idiom in lang/machine/thread.go.
func (th *Thread) Cancel() {
	th.cancelled.Store(true)
}
