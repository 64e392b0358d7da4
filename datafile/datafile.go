// Package datafile loads the optional externs-default document: a
// flat YAML file of name/value pairs supplying default const externs
// for a grammar, validated against a fixed JSON Schema before it is
// trusted.
package datafile

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/ava12/floyd/errors"
	"github.com/ava12/floyd/hostlang"
)

// schemaJSON restricts a datafile to name/value pairs where every
// value is a scalar, a list, or a map — there is no YAML syntax for a
// function reference, so "func"/"pfunc" externs can never come from a
// datafile, only "const" ones.
const schemaJSON = `{
  "type": "object",
  "additionalProperties": {
    "type": ["string", "number", "boolean", "null", "array", "object"]
  }
}`

var datafileSchema = mustCompileSchema()

func mustCompileSchema () *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("datafile.json", strings.NewReader(schemaJSON)); err != nil {
		panic(err)
	}
	s, err := compiler.Compile("datafile.json")
	if err != nil {
		panic(err)
	}
	return s
}

// Load reads and validates the YAML document at path.
func Load (path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse validates and decodes a YAML document already in memory; name
// is used only to identify the source in error messages.
func Parse (data []byte, name string) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Format(errors.DatafileErrors, "%s: %s", name, err)
	}

	// jsonschema validates the shapes encoding/json produces (float64
	// numbers, map[string]any, []any); yaml.v3 decodes ints as int and
	// nested mappings the same way map[string]any does, so round-trip
	// through json to normalize before validating rather than trust
	// that the two decoders agree on every edge case.
	normalized, err := normalizeForSchema(raw)
	if err != nil {
		return nil, errors.Format(errors.DatafileErrors, "%s: %s", name, err)
	}
	if err := datafileSchema.Validate(normalized); err != nil {
		return nil, errors.Format(errors.DatafileErrors, "%s: %s", name, err)
	}
	return raw, nil
}

func normalizeForSchema (raw map[string]any) (any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// ToExterns turns a datafile's decoded values into const extern
// bindings, in the hostlang.Extern map form interp.NewProgram takes. A
// caller typically overlays its own %externs bindings on top of these
// so a datafile only ever supplies a default.
func ToExterns (values map[string]any) map[string]hostlang.Extern {
	externs := make(map[string]hostlang.Extern, len(values))
	for name, v := range values {
		externs[name] = hostlang.Extern{Kind: hostlang.ExternConst, Const: hostlang.Value(v)}
	}
	return externs
}
