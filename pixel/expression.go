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

// Expression is a node in a per-pixel arithmetic AST. Implementations are
// immutable value objects; a tree built once is never mutated afterward.
// Sharing a node between two parents is allowed but not required — both
// the interpreter and the JIT lowering walk it as a tree.
type Expression interface {
	// isExpression is unexported so Expression stays a closed sum type:
	// Const, Var, Add, Mul, Sqrt, InputCall are the only variants.
	isExpression()
}

// Axis selects which output coordinate a Var refers to.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// Const is an integer literal.
type Const struct{ Value int64 }

// Var refers to the current output coordinate of the enclosing Function's
// invocation. Two calls to X() or Y() produce independent Var nodes, so
// repeated use within one expression never requires sharing a node.
type Var struct{ Axis Axis }

// Add is ordinary two's-complement 64-bit addition. Subtraction is
// desugared to Add(lhs, Const{-n}) by the SubConst helper below.
type Add struct{ Lhs, Rhs Expression }

// Mul is ordinary two's-complement 64-bit multiplication.
type Mul struct{ Lhs, Rhs Expression }

// Sqrt is the integer square root defined in runtime.go: the largest
// n >= 0 with n*n <= Child's value. Behavior for negative operands is
// unspecified; producers must not pass negative values.
type Sqrt struct{ Child Expression }

// InputCall calls the enclosing Function's Id-th producer at coordinates
// (X, Y) evaluated in the current environment. Id must be < the arity of
// the Function this expression is the body of; that is checked during
// Compile, not at construction (an Expression does not know its own
// enclosing Function).
type InputCall struct {
	Id   int
	X, Y Expression
}

func (Const) isExpression()     {}
func (Var) isExpression()       {}
func (Add) isExpression()       {}
func (Mul) isExpression()       {}
func (Sqrt) isExpression()      {}
func (InputCall) isExpression() {}

// ConstOf builds an integer literal node.
func ConstOf(v int64) Expression { return Const{Value: v} }

// X returns a fresh reference to the current output column.
func X() Expression { return Var{Axis: AxisX} }

// Y returns a fresh reference to the current output row.
func Y() Expression { return Var{Axis: AxisY} }

// Sum adds two expressions.
func Sum(a, b Expression) Expression { return Add{Lhs: a, Rhs: b} }

// Product multiplies two expressions.
func Product(a, b Expression) Expression { return Mul{Lhs: a, Rhs: b} }

// AddConst adds an int64 constant to an expression: Add(e, Const{n}), with
// the expression on the left.
func AddConst(e Expression, n int64) Expression { return Add{Lhs: e, Rhs: Const{Value: n}} }

// SubConst subtracts an int64 constant from an expression: Add(e, Const{-n}).
func SubConst(e Expression, n int64) Expression { return Add{Lhs: e, Rhs: Const{Value: -n}} }

// MulConst multiplies an expression by an int64 constant: Mul(e, Const{n}),
// with the expression on the left.
func MulConst(e Expression, n int64) Expression { return Mul{Lhs: e, Rhs: Const{Value: n}} }

// SqrtOf wraps an expression in an integer square root.
func SqrtOf(e Expression) Expression { return Sqrt{Child: e} }

// InputBuilder closes over a fixed producer index so that a Function's
// build callback can write input(x, y) instead of threading the id by
// hand. NewFunction hands out one of these per producer slot.
type InputBuilder struct{ id int }

// At constructs a call of this producer at coordinates (x, y).
func (b InputBuilder) At(x, y Expression) Expression {
	return InputCall{Id: b.id, X: x, Y: y}
}
