package machine

import "github.com/lumen-lang/lumen/lang/types"

// callFrame records one active call to a Closure: its own instruction
// pointer into the closure's chunk, and the base index into the Thread's
// value stack where its locals (parameters first) begin.
type callFrame struct {
	closure *types.Closure
	ip      int
	slots   int
}

func (fr *callFrame) chunk() *types.Chunk { return &fr.closure.Fn.Chunk }

func (fr *callFrame) line() int {
	if fr.ip == 0 {
		return 0
	}
	return int(fr.chunk().Lines[fr.ip-1])
}
