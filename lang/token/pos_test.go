package token

import "testing"

func TestMakePosLineCol(t *testing.T) {
	cases := []struct {
		line, col int
	}{
		{1, 1},
		{1, 80},
		{42, 1},
		{1000, 12},
	}
	for _, c := range cases {
		p := MakePos(c.line, c.col)
		gotLine, gotCol := p.LineCol()
		if gotLine != c.line || gotCol != c.col {
			t.Errorf("MakePos(%d, %d).LineCol() = (%d, %d)", c.line, c.col, gotLine, gotCol)
		}
		if p.Unknown() {
			t.Errorf("MakePos(%d, %d).Unknown() = true, want false", c.line, c.col)
		}
		if p.Line() != c.line {
			t.Errorf("MakePos(%d, %d).Line() = %d, want %d", c.line, c.col, p.Line(), c.line)
		}
	}
}

func TestPosUnknown(t *testing.T) {
	var zero Pos
	if !zero.Unknown() {
		t.Errorf("zero Pos.Unknown() = false, want true")
	}
	if zero.String() != "?" {
		t.Errorf("zero Pos.String() = %q, want %q", zero.String(), "?")
	}
}

func TestPosString(t *testing.T) {
	p := MakePos(3, 7)
	if got, want := p.String(), "3:7"; got != want {
		t.Errorf("Pos.String() = %q, want %q", got, want)
	}
}
