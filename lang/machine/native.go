package machine

import (
	"time"

	"github.com/lumen-lang/lumen/lang/types"
)

// defineNatives installs the globals available to every script before its
// top-level code runs, grounded on cLox's vm.c defineNative registration.
func (th *Thread) defineNatives() {
	th.defineNative("clock", nativeClock)
}

func (th *Thread) defineNative(name string, fn types.NativeFn) {
	n := &types.Native{Name: name, Fn: fn}
	th.linkObject(n)
	th.globals.Set(th.internString(name), types.Object(n))
}

// nativeClock returns the number of seconds elapsed since the Unix epoch, as
// a float64, mirroring clockNative's use of the C standard library's clock().
func nativeClock(args []types.Value) (types.Value, error) {
	return types.Number(float64(time.Now().UnixNano()) / 1e9), nil
}
