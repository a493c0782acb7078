package machine

import "github.com/lumen-lang/lumen/lang/types"

// Rough per-kind size estimates driving the bytesAllocated/nextGC trigger;
// exact byte counts don't matter, only that larger objects push the
// threshold sooner, matching cLox's reallocate-based accounting in spirit.
const (
	sizeString      = 32
	sizeClosure     = 48
	sizeUpvalue     = 32
	sizeClass       = 40
	sizeInstance    = 40
	sizeBoundMethod = 32
)

// linkObject threads o into the thread's intrusive all-objects list and
// accounts its estimated size, triggering a collection first if the
// allocation would cross nextGC (or always, in GCStress mode).
func (th *Thread) linkObject(o types.Obj) {
	th.maybeCollect(objSize(o))
	types.SetNextObj(o, th.objects)
	th.objects = o
}

func objSize(o types.Obj) int64 {
	switch o.(type) {
	case *types.String:
		return sizeString
	case *types.Closure:
		return sizeClosure
	case *types.Upvalue:
		return sizeUpvalue
	case *types.Class:
		return sizeClass
	case *types.Instance:
		return sizeInstance
	case *types.BoundMethod:
		return sizeBoundMethod
	default:
		return 16
	}
}

func (th *Thread) maybeCollect(size int64) {
	th.bytesAllocated += size
	if th.GCStress || th.bytesAllocated > th.nextGC {
		th.collectGarbage()
	}
}

// internString returns the canonical *types.String for s, allocating and
// linking a new one only if s has never been seen by this thread before.
func (th *Thread) internString(s string) *types.String {
	hash := types.HashString(s)
	if existing := th.strings.FindString(s, hash); existing != nil {
		return existing
	}
	str := types.NewString(s)
	th.linkObject(str)
	th.strings.Set(str, types.Nil)
	return str
}

func (th *Thread) newClosure(fn *types.Function) *types.Closure {
	c := types.NewClosure(fn)
	th.linkObject(c)
	return c
}

// internConstants walks fn's constant pool, recursing into any nested
// Function constants (from OP_CLOSURE), and rewrites every String constant
// to this thread's canonical interned instance. The compiler allocates its
// string constants with no Thread to intern against, so this is the point
// where a freshly compiled Function's literals join the runtime's string
// identity space -- required for Value.Equal's pointer-equality shortcut on
// strings to hold for two constant-pool occurrences of the same literal.
func (th *Thread) internConstants(fn *types.Function) {
	if th.interned == nil {
		th.interned = make(map[*types.Function]bool)
	}
	if th.interned[fn] {
		return
	}
	th.interned[fn] = true

	for i, c := range fn.Chunk.Constants {
		switch {
		case c.IsString():
			fn.Chunk.Constants[i] = types.Object(th.internString(c.AsString().Chars))
		case c.IsObjKind(types.ObjFunctionKind):
			th.internConstants(c.AsObject().(*types.Function))
		}
	}
}

func (th *Thread) newClass(name *types.String) *types.Class {
	c := types.NewClass(name)
	th.linkObject(c)
	return c
}

func (th *Thread) newInstance(class *types.Class) *types.Instance {
	i := types.NewInstance(class)
	th.linkObject(i)
	return i
}
