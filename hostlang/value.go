// Package hostlang implements the small dynamically-typed expression
// language embedded in semantic actions and predicates: literals,
// arithmetic, list/dict building, and calls to built-in functions or
// caller-supplied externs.
package hostlang

import (
	"github.com/ava12/floyd/errors"
)

// Value is the dynamic value type the host language operates on: nil,
// bool, int64, float64, string, []Value, map[string]Value, or a Func.
// The grammar interpreter's own semantic values (produced by matching
// operators) share this same representation: immutable primitives,
// lists, and dictionaries.
type Value = any

// Func is a callable host value: a built-in function or a caller
// extern of kind "func".
type Func func (args []Value) (Value, error)

// PFunc is a callable host value that additionally receives the running
// Machine as an implicit first argument (extern kind "pfunc").
type PFunc func (m Machine, args []Value) (Value, error)

// Machine is the minimal view of the running interpreter that host
// expressions need: the special identifiers pos() and colno(), and the
// name of the innermost active rule.
// interp.State implements this; hostlang never imports interp, so
// there is no import cycle between the two.
type Machine interface {
	Pos () int
	ColNo () int
	RuleName () string
}

// ExternKind classifies a caller-supplied extern binding (the
// "%externs" pragma).
type ExternKind int

const (
	ExternConst ExternKind = iota
	ExternFunc
	ExternPFunc
)

// Extern is one caller-supplied binding, keyed by name in a grammar's
// extern table.
type Extern struct {
	Kind  ExternKind
	Const Value
	Func  Func
	PFunc PFunc
}

// Scopes is a stack of label-binding frames. Frame 0 is
// the outermost (never popped) frame; the last frame is the innermost.
type Scopes struct {
	frames []map[string]Value
}

// NewScopes returns a Scopes stack with a single, empty outermost frame.
func NewScopes () *Scopes {
	return &Scopes{frames: []map[string]Value{{}}}
}

// Push installs a fresh innermost frame (entering a `scope` node).
func (s *Scopes) Push () {
	s.frames = append(s.frames, map[string]Value{})
}

// Pop removes the innermost frame (leaving a `scope` node).
func (s *Scopes) Pop () {
	s.frames = s.frames[:len(s.frames)-1]
}

// Bind sets name in the innermost frame (a `label` node succeeding).
func (s *Scopes) Bind (name string, v Value) {
	s.frames[len(s.frames)-1][name] = v
}

// Local looks up name in the innermost frame only ($k positional labels
// and same-sequence named labels always resolve here).
func (s *Scopes) Local (name string) (Value, bool) {
	v, ok := s.frames[len(s.frames)-1][name]
	return v, ok
}

// Outer looks up name across every frame, innermost first (named labels
// that close over a surrounding scope).
func (s *Scopes) Outer (name string) (Value, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Depth returns the number of active frames.
func (s *Scopes) Depth () int {
	return len(s.frames)
}

// Env bundles everything Eval needs to resolve identifiers and dispatch
// calls: the running scope stack, the extern table, the builtin
// function tables, and a Machine for the special identifiers.
type Env struct {
	Scopes   *Scopes
	Externs  map[string]Extern
	Builtins map[string]Func

	// MachineBuiltins holds the handful of builtins that need access to
	// the running Machine: node(), pos(), colno(). Eval binds Machine at
	// identifier-resolution time and hands the caller back a plain Func.
	MachineBuiltins map[string]PFunc

	Machine Machine
}

// UnresolvedIdentError builds the host error raised when an e_ident node
// cannot be resolved to a local, outer, extern, or builtin binding
//.
func UnresolvedIdentError (name string) error {
	return errors.Format(errors.HostErrors, "unresolved identifier %q", name)
}
