package errfmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ava12/floyd/errfmt"
)

func TestSuggestRanksTheClosestNameFirst (t *testing.T) {
	known := []string{"start", "expression", "statement", "number"}
	got := errfmt.Suggest("statment", known, 3)
	if assert.NotEmpty(t, got) {
		assert.Equal(t, "statement", got[0])
	}
}

func TestSuggestCapsResultCount (t *testing.T) {
	known := []string{"aaa", "aab", "aac", "aad"}
	got := errfmt.Suggest("aaa", known, 2)
	assert.LessOrEqual(t, len(got), 2)
}

func TestHintIsEmptyWithNoCloseCandidate (t *testing.T) {
	assert.Equal(t, "", errfmt.Hint("zzzzzzzzzz", []string{"start", "expr"}))
}

func TestHintNamesASingleCandidate (t *testing.T) {
	hint := errfmt.Hint("statment", []string{"statement"})
	assert.Equal(t, ` (did you mean "statement"?)`, hint)
}
