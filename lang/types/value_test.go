package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruthiness(t *testing.T) {
	require.True(t, Nil.Falsey())
	require.True(t, False.Falsey())
	require.False(t, True.Falsey())
	require.False(t, Number(0).Falsey())
	require.False(t, Object(NewString("")).Falsey())
}

func TestEqualByType(t *testing.T) {
	require.True(t, Number(1).Equal(Number(1)))
	require.False(t, Number(1).Equal(Number(2)))
	require.False(t, Number(1).Equal(True))
	require.True(t, Nil.Equal(Nil))
	require.True(t, True.Equal(True))
	require.False(t, True.Equal(False))
}

func TestEqualObjectsAreReference(t *testing.T) {
	a := Object(NewString("abc"))
	b := Object(NewString("abc"))
	require.False(t, a.Equal(b), "distinct String objects with equal content must not compare equal without interning")

	c := a
	require.True(t, a.Equal(c))
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{42, "42"},
		{-3, "-3"},
		{3.14, "3.14"},
		{1.5, "1.5"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, FormatNumber(c.in))
	}
}

func TestValueString(t *testing.T) {
	require.Equal(t, "nil", Nil.String())
	require.Equal(t, "true", True.String())
	require.Equal(t, "false", False.String())
	require.Equal(t, "7", Number(7).String())
	require.Equal(t, "hi", Object(NewString("hi")).String())
}
