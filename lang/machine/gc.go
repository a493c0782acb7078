package machine

import (
	"fmt"

	"github.com/lumen-lang/lumen/lang/types"
)

// collectGarbage runs one full tri-color mark-sweep cycle: mark every root,
// trace (blacken) the gray worklist until it's empty, weak-sweep the string
// intern table of strings no other live object still references, then sweep
// the all-objects list of everything left unmarked. It grows nextGC by a
// factor of 2 over the post-collection live-byte count, mirroring cLox's
// vm.c collectGarbage.
func (th *Thread) collectGarbage() {
	before := th.bytesAllocated
	if th.GCLogging {
		fmt.Fprintln(th.stderr, "-- gc begin")
	}

	th.markRoots()
	th.traceReferences()
	th.sweepStrings()
	th.sweepObjects()

	th.nextGC = th.bytesAllocated * 2
	if th.nextGC < 1024*1024 {
		th.nextGC = 1024 * 1024
	}

	if th.GCLogging {
		fmt.Fprintf(th.stderr, "-- gc end: collected %d bytes (from %d to %d) next at %d\n",
			before-th.bytesAllocated, before, th.bytesAllocated, th.nextGC)
	}
}

func (th *Thread) markRoots() {
	for i := 0; i < th.stackTop; i++ {
		th.markValue(th.stack[i])
	}
	for i := 0; i < th.frameCount; i++ {
		th.markObject(th.frames[i].closure)
	}
	for up := th.openUpvalues; up != nil; up = up.NextOpen {
		th.markObject(up)
	}
	th.markTable(th.globals)
	th.markObject(th.initString)
}

func (th *Thread) markValue(v types.Value) {
	if v.IsObject() {
		th.markObject(v.AsObject())
	}
}

// markObject marks o black-eligible (adds it to the gray worklist) if it
// isn't already marked. Nil-safe so callers needn't special-case absent
// fields (e.g. Function.Name on the top-level script).
func (th *Thread) markObject(o types.Obj) {
	if o == nil || types.IsMarked(o) {
		return
	}
	types.SetMarked(o, true)
	th.grayStack = append(th.grayStack, o)
}

func (th *Thread) markTable(t *types.Table) {
	t.Each(func(key *types.String, value types.Value) {
		th.markObject(key)
		th.markValue(value)
	})
}

// traceReferences pops objects off the gray worklist, blackening each (i.e.
// marking every object it points to) until the worklist is empty.
func (th *Thread) traceReferences() {
	for len(th.grayStack) > 0 {
		n := len(th.grayStack) - 1
		o := th.grayStack[n]
		th.grayStack = th.grayStack[:n]
		th.blackenObject(o)
	}
}

func (th *Thread) blackenObject(o types.Obj) {
	switch obj := o.(type) {
	case *types.String, *types.Native:
		// no outgoing references
	case *types.Upvalue:
		th.markValue(obj.Closed)
	case *types.Function:
		th.markObject(obj.Name)
		for _, c := range obj.Chunk.Constants {
			th.markValue(c)
		}
	case *types.Closure:
		th.markObject(obj.Fn)
		for _, up := range obj.Upvalues {
			th.markObject(up)
		}
	case *types.Class:
		th.markObject(obj.Name)
		th.markTable(obj.Methods)
	case *types.Instance:
		th.markObject(obj.Class)
		th.markTable(obj.Fields)
	case *types.BoundMethod:
		th.markValue(obj.Receiver)
		th.markObject(obj.Method)
	}
}

// sweepStrings removes every intern-table entry whose key didn't survive
// the mark phase -- the intern table holds a weak reference to each string,
// never itself keeping one alive.
func (th *Thread) sweepStrings() {
	var dead []*types.String
	th.strings.Each(func(key *types.String, _ types.Value) {
		if !types.IsMarked(key) {
			dead = append(dead, key)
		}
	})
	for _, key := range dead {
		th.strings.Delete(key)
	}
}

// sweepObjects walks the all-objects list, unlinking and discarding every
// unmarked object and clearing the mark bit on every object that survives,
// so the next cycle starts white again.
func (th *Thread) sweepObjects() {
	var prev types.Obj
	obj := th.objects
	for obj != nil {
		if types.IsMarked(obj) {
			types.SetMarked(obj, false)
			prev = obj
			obj = types.NextObj(obj)
			continue
		}

		unreached := obj
		obj = types.NextObj(obj)
		if prev == nil {
			th.objects = obj
		} else {
			types.SetNextObj(prev, obj)
		}
		th.bytesAllocated -= objSize(unreached)
	}
}
