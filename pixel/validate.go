/*
Copyright (C) 2024-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package pixel

import "fmt"

// validateArities walks root and fails with a *LoweringError if any
// InputCall inside a Link's function body references an id >= that
// function's arity. This is a pure compile-time check — spec.md §4.3's
// "a later lowering step fails if build produces an InputCall whose id
// is ≥ arity". It does not need to know how many runtime inputs RunOn
// will eventually be given; see checkSourceIndices for that half.
func validateArities(root *ChainLink) error {
	var walk func(n *ChainLink) error
	walk = func(n *ChainLink) error {
		if n.IsSource {
			return nil
		}
		if err := validateExpression(n.Fn.Body, n.Fn.Arity); err != nil {
			return err
		}
		for _, in := range n.Inputs {
			if err := walk(in); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}

// checkSourceIndices fails with a *ConstructionError if any ImageSource
// reachable from root refers to an index >= numInputs. Unlike
// validateArities this can only run once the caller has committed to an
// actual input list (spec.md §4.4: "< number_of_runtime_inputs_at_call_time"),
// so RunOn and Interpret call it, not Compile.
func checkSourceIndices(root *ChainLink, numInputs int) error {
	if MaxSourceIndex(root) >= numInputs {
		return &ConstructionError{
			Op:  "run_on",
			Msg: fmt.Sprintf("chain references image source %d but only %d inputs were supplied", MaxSourceIndex(root), numInputs),
		}
	}
	return nil
}

// validateExpression checks every InputCall reachable from e references an
// id < arity.
func validateExpression(e Expression, arity int) error {
	switch n := e.(type) {
	case Const, Var:
		return nil
	case Add:
		if err := validateExpression(n.Lhs, arity); err != nil {
			return err
		}
		return validateExpression(n.Rhs, arity)
	case Mul:
		if err := validateExpression(n.Lhs, arity); err != nil {
			return err
		}
		return validateExpression(n.Rhs, arity)
	case Sqrt:
		return validateExpression(n.Child, arity)
	case InputCall:
		if n.Id >= arity {
			return &LoweringError{
				Op:  "compile",
				Msg: fmt.Sprintf("input id %d >= function arity %d", n.Id, arity),
			}
		}
		if err := validateExpression(n.X, arity); err != nil {
			return err
		}
		return validateExpression(n.Y, arity)
	default:
		return &LoweringError{Op: "compile", Msg: fmt.Sprintf("unknown expression node %T", e)}
	}
}
