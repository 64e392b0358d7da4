package builtins

import (
	"github.com/ava12/floyd/errors"
	"github.com/ava12/floyd/hostlang"
)

// NewMachineBuiltins returns the three built-ins that need access to the
// running parse: node(), pos(), and colno().
func NewMachineBuiltins () map[string]hostlang.PFunc {
	return map[string]hostlang.PFunc{
		"pos": func (m hostlang.Machine, a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 0 {
				return nil, badArgs("pos", a)
			}
			return int64(m.Pos()), nil
		},
		"colno": func (m hostlang.Machine, a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 0 {
				return nil, badArgs("colno", a)
			}
			return int64(m.ColNo()), nil
		},
		"node": func (m hostlang.Machine, a []hostlang.Value) (hostlang.Value, error) {
			if len(a) == 0 {
				return nil, errors.Format(errors.HostErrors, "node: expected at least one argument")
			}
			return a[0], nil
		},
	}
}
