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

// Function is a named per-pixel computation: an arity (number of producer
// inputs) plus an expression whose free variables are the two coordinates
// and Arity input-call builders. Function fully owns its Body AST.
type Function struct {
	Arity int
	Body  Expression
}

// Builder is the callback signature passed to NewFunction. It receives two
// coordinate constructors and Arity input builders, and returns the
// expression to use as the function body.
type Builder func(x, y func() Expression, inputs []InputBuilder) Expression

// NewFunction constructs a Function by calling build with fresh coordinate
// builders and one InputBuilder per producer slot in [0, arity).
func NewFunction(arity int, build Builder) Function {
	inputs := make([]InputBuilder, arity)
	for i := 0; i < arity; i++ {
		inputs[i] = InputBuilder{id: i}
	}
	body := build(X, Y, inputs)
	return Function{Arity: arity, Body: body}
}

// Kernel3x3 builds the arity-1 function that convolves its single input
// with a 3x3 integer kernel, written as a sum of nine weighted input calls
// at offset coordinates. Grounded on Function::gen_3x3_kernel.
func Kernel3x3(k [3][3]int64) Function {
	return NewFunction(1, func(x, y func() Expression, inputs []InputBuilder) Expression {
		in := inputs[0]
		var sum Expression
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				weight := k[dy+1][dx+1]
				if weight == 0 {
					continue
				}
				px := in.At(offset(x, dx), offset(y, dy))
				var term Expression = px
				if weight != 1 {
					term = MulConst(px, weight)
				}
				if sum == nil {
					sum = term
				} else {
					sum = Sum(sum, term)
				}
			}
		}
		if sum == nil {
			return ConstOf(0)
		}
		return sum
	})
}

// offset builds coord() + n, desugaring n == 0 to a bare coordinate
// reference so Kernel3x3's center tap doesn't emit a dead Add(x, 0); the
// weight == 1 case in Kernel3x3 gets the same treatment for Mul(_, 1).
func offset(coord func() Expression, n int) Expression {
	if n == 0 {
		return coord()
	}
	if n < 0 {
		return SubConst(coord(), int64(-n))
	}
	return AddConst(coord(), int64(n))
}
