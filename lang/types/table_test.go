package types

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableSetGetDelete(t *testing.T) {
	tbl := NewTable()
	a := NewString("a")
	b := NewString("b")

	require.True(t, tbl.Set(a, Number(1)))
	require.False(t, tbl.Set(a, Number(2))) // overwrite, not new

	v, ok := tbl.Get(a)
	require.True(t, ok)
	require.Equal(t, 2.0, v.AsNumber())

	_, ok = tbl.Get(b)
	require.False(t, ok)

	require.True(t, tbl.Delete(a))
	_, ok = tbl.Get(a)
	require.False(t, ok)
	require.False(t, tbl.Delete(a)) // already gone
}

func TestTableTombstoneProbing(t *testing.T) {
	// Insert twenty keys, delete every other one, then ensure the remaining
	// ones are still reachable: tombstones must be treated as occupied during
	// probing.
	tbl := NewTable()
	keys := make([]*String, 0, 20)
	for i := 0; i < 20; i++ {
		k := NewString(fmt.Sprintf("key%d", i))
		keys = append(keys, k)
		tbl.Set(k, Number(float64(i)))
	}
	for i := 0; i < 20; i += 2 {
		require.True(t, tbl.Delete(keys[i]))
	}
	for i := 1; i < 20; i += 2 {
		v, ok := tbl.Get(keys[i])
		require.True(t, ok, "key%d should still be found after interleaved deletes", i)
		require.Equal(t, float64(i), v.AsNumber())
	}
}

func TestTableGrowsOnLoadFactor(t *testing.T) {
	tbl := NewTable()
	for i := 0; i < 100; i++ {
		tbl.Set(NewString(fmt.Sprintf("k%d", i)), Number(float64(i)))
	}
	require.Equal(t, 100, tbl.Count())
}

func TestTableAddAll(t *testing.T) {
	src := NewTable()
	src.Set(NewString("x"), Number(1))
	src.Set(NewString("y"), Number(2))

	dst := NewTable()
	dst.Set(NewString("z"), Number(3))
	src.AddAll(dst)

	for _, name := range []string{"x", "y", "z"} {
		_, ok := dst.Get(NewString(name))
		require.True(t, ok, "missing %s after AddAll", name)
	}
}

func TestTableFindString(t *testing.T) {
	tbl := NewTable()
	s := NewString("hello")
	tbl.Set(s, Bool(true))

	found := tbl.FindString("hello", HashString("hello"))
	require.Same(t, s, found)

	require.Nil(t, tbl.FindString("nope", HashString("nope")))
}
