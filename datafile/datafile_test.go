package datafile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/floyd/datafile"
	"github.com/ava12/floyd/hostlang"
)

func TestLoadReadsAndValidatesAYamlDocument (t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
greeting: hello
retries: 3
tags: [a, b, c]
limits:
  max: 10
  min: 0
`), 0o644))

	values, err := datafile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", values["greeting"])
	assert.Equal(t, 3, values["retries"])
	assert.Equal(t, []any{"a", "b", "c"}, values["tags"])
	assert.Equal(t, map[string]any{"max": 10, "min": 0}, values["limits"])
}

func TestLoadRejectsANonMappingTopLevelDocument (t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not-a-mapping"), 0o644))

	_, err := datafile.Load(path)
	assert.Error(t, err)
}

func TestParseRejectsInvalidYamlSyntax (t *testing.T) {
	_, err := datafile.Parse([]byte("key: [unterminated"), "<mem>")
	assert.Error(t, err)
}

func TestToExternsWrapsEveryValueAsConst (t *testing.T) {
	externs := datafile.ToExterns(map[string]any{
		"greeting": "hello",
		"retries":  3,
	})
	require.Contains(t, externs, "greeting")
	assert.Equal(t, hostlang.ExternConst, externs["greeting"].Kind)
	assert.Equal(t, "hello", externs["greeting"].Const)
	assert.Equal(t, 3, externs["retries"].Const)
}
