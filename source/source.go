// Package source provides a character-indexed view of grammar and input
// text, with on-demand line/column computation from absolute code-point
// offsets. Every offset used anywhere in floyd — grammar source offsets,
// input text offsets, error positions — is a code-point offset into the
// Source's Runes, never a byte offset.
package source

import (
	"unicode/utf8"
)

// Source holds the decoded content of a single named text (a grammar file
// or a parser's input text) together with a line-start index used to turn
// an absolute code-point offset into a 1-based (line, col) pair on demand.
type Source struct {
	name       string
	runes      []rune
	lineStarts []int
	prevLine   int
}

// New decodes content as UTF-8 and builds a Source named name.
// Invalid UTF-8 sequences decode as utf8.RuneError, one rune each,
// matching utf8.DecodeRune's own behavior.
func New (name string, content []byte) *Source {
	runes := make([]rune, 0, len(content))
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		runes = append(runes, r)
		i += size
	}
	return NewFromRunes(name, runes)
}

// NewFromRunes builds a Source directly from already-decoded text.
func NewFromRunes (name string, runes []rune) *Source {
	s := &Source{name: name, runes: runes, prevLine: -1}
	lineStarts := []int{0}
	for i, r := range runes {
		if r == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	s.lineStarts = lineStarts
	return s
}

// Name returns the source's name (a file path, or "<string>" for ad hoc text).
func (s *Source) Name () string {
	return s.name
}

// Runes returns the decoded content. Callers must not mutate the slice.
func (s *Source) Runes () []rune {
	return s.runes
}

// Len returns the number of code points in the source.
func (s *Source) Len () int {
	return len(s.runes)
}

// At returns the code point at pos, or utf8.RuneError if pos is out of range.
func (s *Source) At (pos int) rune {
	if pos < 0 || pos >= len(s.runes) {
		return utf8.RuneError
	}
	return s.runes[pos]
}

// Slice returns the code points in [from, to), clamped to the source's bounds.
func (s *Source) Slice (from, to int) []rune {
	if from < 0 {
		from = 0
	}
	if to > len(s.runes) {
		to = len(s.runes)
	}
	if from >= to {
		return nil
	}
	return s.runes[from:to]
}

// String returns the code points in [from, to) as a string.
func (s *Source) String (from, to int) string {
	return string(s.Slice(from, to))
}

// LineCol converts an absolute code-point offset into a 1-based line and
// column. Offsets past the end of the source clamp to the position just
// after the last code point (this is how the interpreter reports
// end-of-input errors).
func (s *Source) LineCol (pos int) (line, col int) {
	lineIndex := s.findLineIndex(clamp(pos, 0, len(s.runes)))
	return lineIndex + 1, clamp(pos, 0, len(s.runes)) - s.lineStarts[lineIndex] + 1
}

// Pos converts a 1-based (line, col) back into an absolute code-point offset.
func (s *Source) Pos (line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}
	if line > len(s.lineStarts) {
		return len(s.runes)
	}
	res := s.lineStarts[line-1] + col - 1
	if res > len(s.runes) {
		return len(s.runes)
	}
	return res
}

func clamp (v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// findLineIndex binary-searches lineStarts for the line containing pos,
// caching the previous result the way a single forward-scanning parser
// tends to re-query nearby offsets.
func (s *Source) findLineIndex (pos int) int {
	if s.prevLine >= 0 && s.lineStarts[s.prevLine] <= pos {
		i := s.prevLine
		last := len(s.lineStarts) - 1
		for i < last && s.lineStarts[i+1] <= pos {
			i++
		}
		s.prevLine = i
		return i
	}

	lo, hi := 0, len(s.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) >> 1
		if s.lineStarts[mid] <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	s.prevLine = lo
	return lo
}

// Pos identifies a single offset within a Source, along with its
// precomputed line and column. It implements errors.SourcePos.
type Pos struct {
	src       *Source
	pos       int
	line, col int
}

// At builds a Pos for the given offset within src.
func At (src *Source, pos int) Pos {
	if src == nil {
		return Pos{}
	}
	line, col := src.LineCol(pos)
	return Pos{src, pos, line, col}
}

func (p Pos) Source () *Source { return p.src }
func (p Pos) Offset () int     { return p.pos }
func (p Pos) Line () int       { return p.line }
func (p Pos) Col () int        { return p.col }

// SourceName implements errors.SourcePos.
func (p Pos) SourceName () string {
	if p.src == nil {
		return ""
	}
	return p.src.Name()
}
