package compiler_test

import (
	"strings"
	"testing"

	"github.com/lumen-lang/lumen/lang/compiler"
	"github.com/stretchr/testify/require"
)

func TestDisassembleListsOpcodeNames(t *testing.T) {
	fn, err := compiler.Compile(`var x = 1 + 2; print x;`)
	require.NoError(t, err)

	var buf strings.Builder
	compiler.Disassemble(&buf, fn, "script")

	out := buf.String()
	require.Contains(t, out, "== script ==")
	require.Contains(t, out, "OP_ADD")
	require.Contains(t, out, "OP_PRINT")
	require.Contains(t, out, "OP_DEFINE_GLOBAL")
}

func TestDisassembleRecursesIntoNestedFunctions(t *testing.T) {
	fn, err := compiler.Compile(`fun add(a, b) { return a + b; }`)
	require.NoError(t, err)

	var buf strings.Builder
	compiler.Disassemble(&buf, fn, "script")

	out := buf.String()
	require.Contains(t, out, "== add ==")
	require.Contains(t, out, "OP_ADD")
}
