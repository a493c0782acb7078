package types

// ObjKind identifies the runtime kind of a heap object.
type ObjKind uint8

const (
	ObjStringKind ObjKind = iota
	ObjFunctionKind
	ObjNativeKind
	ObjClosureKind
	ObjUpvalueKind
	ObjClassKind
	ObjInstanceKind
	ObjBoundMethodKind
)

func (k ObjKind) String() string { return objKindNames[k] }

var objKindNames = [...]string{
	ObjStringKind:      "string",
	ObjFunctionKind:    "function",
	ObjNativeKind:      "native",
	ObjClosureKind:     "closure",
	ObjUpvalueKind:     "upvalue",
	ObjClassKind:       "class",
	ObjInstanceKind:    "instance",
	ObjBoundMethodKind: "bound method",
}

// Obj is the interface implemented by every heap-allocated object kind. All
// object kinds embed Header, which threads every live object into a single
// intrusive list for the GC's sweep phase and carries the mark bit used by
// its mark phase.
type Obj interface {
	ObjKind() ObjKind
	String() string
	header() *Header
}

// Header is the common object header: {kind is implicit via the dynamic
// type, marked, next}. It is embedded by every concrete object kind.
type Header struct {
	Marked bool
	Next   Obj
}

func (h *Header) header() *Header { return h }

// IsMarked reports the object's current mark-phase color: unmarked (white)
// or marked (gray while on the GC worklist, black once traced).
func IsMarked(o Obj) bool { return o.header().Marked }

// SetMarked sets the object's mark bit.
func SetMarked(o Obj, marked bool) { o.header().Marked = marked }

// NextObj returns the object's link in the VM's intrusive all-objects list.
func NextObj(o Obj) Obj { return o.header().Next }

// SetNextObj sets the object's link in the VM's intrusive all-objects list.
func SetNextObj(o Obj, next Obj) { o.header().Next = next }
