package types

// String is the heap representation of an interned string. Chars is a Go
// string (already an immutable, already-owned byte sequence), so unlike the
// original C implementation there is no separate heap byte array to manage;
// Hash is precomputed once at construction and reused by the intern Table
// and by equality checks elsewhere.
type String struct {
	Header
	Chars string
	Hash  uint32
}

var _ Obj = (*String)(nil)

// NewString allocates a new, un-interned String object wrapping s. Callers
// that want interning semantics should go through the VM's intern table
// (see the machine package's Thread.internString) rather than constructing Strings
// directly.
func NewString(s string) *String {
	return &String{Chars: s, Hash: HashString(s)}
}

func (s *String) ObjKind() ObjKind { return ObjStringKind }
func (s *String) String() string  { return s.Chars }

// HashString computes the FNV-1a 32-bit hash of s, as required by the
// intern table's bucket placement.
func HashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
