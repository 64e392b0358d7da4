package source_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava12/floyd/source"
)

func TestLineColSingleLine (t *testing.T) {
	s := source.New("<string>", []byte("abc"))
	line, col := s.LineCol(1)
	require.Equal(t, 1, line)
	require.Equal(t, 2, col)
}

func TestLineColMultiLine (t *testing.T) {
	s := source.New("g.peg", []byte("ab\ncd\nef"))
	line, col := s.LineCol(4) // 'c'
	require.Equal(t, 2, line)
	require.Equal(t, 2, col)

	line, col = s.LineCol(7) // 'f'
	require.Equal(t, 3, line)
	require.Equal(t, 2, col)
}

func TestLineColEndOfInput (t *testing.T) {
	s := source.New("<string>", []byte("ad"))
	line, col := s.LineCol(2)
	require.Equal(t, 1, line)
	require.Equal(t, 3, col)
}

func TestPosRoundTrips (t *testing.T) {
	s := source.New("g.peg", []byte("ab\ncd\nef"))
	for _, pos := range []int{0, 1, 3, 4, 7} {
		line, col := s.LineCol(pos)
		require.Equal(t, pos, s.Pos(line, col), "pos=%d", pos)
	}
}

func TestUnicodeIsCodePointIndexed (t *testing.T) {
	// "café" - the 'é' is a single code point that takes two bytes in UTF-8.
	s := source.New("<string>", []byte("café"))
	require.Equal(t, 4, s.Len())
	require.Equal(t, 'é', s.At(3))
}

func TestAtOutOfRange (t *testing.T) {
	s := source.New("<string>", []byte("ab"))
	require.Equal(t, rune(0xFFFD), s.At(-1))
	require.Equal(t, rune(0xFFFD), s.At(100))
}

func TestPosImplementsSourcePos (t *testing.T) {
	s := source.New("g.peg", []byte("abc\ndef"))
	p := source.At(s, 5)
	require.Equal(t, "g.peg", p.SourceName())
	require.Equal(t, 2, p.Line())
	require.Equal(t, 2, p.Col())
}
