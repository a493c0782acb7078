package types

// maxLoad is the load-factor threshold that triggers a rehash.
const maxLoad = 0.75

// entry is one slot of a Table. A nil Key means the slot is either empty
// (Value is the zero Value) or a tombstone (Value is True) -- tombstones
// are occupied for probing purposes but absent for retrieval, so that
// deletions don't break probe chains for keys inserted afterward.
type entry struct {
	Key   *String
	Value Value
}

// Table is an open-addressing hash table with linear probing, keyed by
// *String. Keys are compared by hash and content, so two distinct *String
// objects with the same characters address the same entry. It backs the
// VM's string intern pool, its globals table,
// every Class's method table and every Instance's field table.
type Table struct {
	count     int // live entries + tombstones, drives the load-factor trigger
	liveCount int // live entries only, returned by Count
	entries   []entry
}

// NewTable returns an empty Table.
func NewTable() *Table { return &Table{} }

// Count returns the number of live (non-tombstone) entries. It is O(1)
// thanks to bookkeeping in Set/Delete.
func (t *Table) Count() int { return t.liveCount }

// Get returns the value associated with key, and whether it was found.
func (t *Table) Get(key *String) (Value, bool) {
	if len(t.entries) == 0 {
		return Value{}, false
	}
	e := t.find(key)
	if e.Key == nil {
		return Value{}, false
	}
	return e.Value, true
}

// Set associates key with value, growing the table first if needed. It
// returns true if this inserted a brand new key (as opposed to overwriting
// an existing one).
func (t *Table) Set(key *String, value Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*maxLoad {
		t.grow()
	}

	e := t.find(key)
	isNew := e.Key == nil
	if isNew && e.Value.IsNil() {
		// Brand new slot, not a reused tombstone.
		t.count++
		t.liveCount++
	} else if isNew {
		// Reusing a tombstone slot.
		t.liveCount++
	}
	e.Key = key
	e.Value = value
	return isNew
}

// Delete removes key from the table, if present, replacing its slot with a
// tombstone so later probes for other keys are not broken.
func (t *Table) Delete(key *String) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := t.find(key)
	if e.Key == nil {
		return false
	}
	e.Key = nil
	e.Value = True // tombstone sentinel
	t.liveCount--
	return true
}

// AddAll copies every live entry of t into dst, used by OP_INHERIT to seed
// a subclass's method table with its superclass's methods.
func (t *Table) AddAll(dst *Table) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Key != nil {
			dst.Set(e.Key, e.Value)
		}
	}
}

// FindString looks up an interned string with the given content and
// precomputed hash without allocating a *String first; it is the
// hook the VM's intern table uses to decide whether a freshly scanned or
// concatenated string already exists.
func (t *Table) FindString(chars string, hash uint32) *String {
	if len(t.entries) == 0 {
		return nil
	}
	mask := uint32(len(t.entries) - 1)
	idx := hash & mask
	for {
		e := &t.entries[idx]
		if e.Key == nil {
			// Stop at a true empty slot (not a tombstone: Value is nil for those).
			if e.Value.IsNil() {
				return nil
			}
		} else if e.Key.Hash == hash && e.Key.Chars == chars {
			return e.Key
		}
		idx = (idx + 1) & mask
	}
}

// Each calls fn once for every live entry in the table, in bucket order. It
// is used by the GC's mark phase to trace a table's keys and values.
func (t *Table) Each(fn func(key *String, value Value)) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Key != nil {
			fn(e.Key, e.Value)
		}
	}
}

func (t *Table) find(key *String) *entry {
	mask := uint32(len(t.entries) - 1)
	idx := key.Hash & mask
	var tombstone *entry
	for {
		e := &t.entries[idx]
		if e.Key == nil {
			if e.Value.IsNil() {
				// Truly empty: return the tombstone we found earlier, if any, so
				// Set can reuse it; otherwise this empty slot itself.
				if tombstone != nil {
					return tombstone
				}
				return e
			}
			// Tombstone.
			if tombstone == nil {
				tombstone = e
			}
		} else if e.Key.Hash == key.Hash && e.Key.Chars == key.Chars {
			return e
		}
		idx = (idx + 1) & mask
	}
}

func (t *Table) grow() {
	newCap := 8
	if cur := len(t.entries); cur > 0 {
		newCap = cur * 2
	}
	old := t.entries
	t.entries = make([]entry, newCap)
	t.count = 0
	t.liveCount = 0
	for i := range old {
		e := &old[i]
		if e.Key == nil {
			continue
		}
		dst := t.find(e.Key)
		dst.Key = e.Key
		dst.Value = e.Value
		t.count++
		t.liveCount++
	}
}
