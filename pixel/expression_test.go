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

import "testing"

func TestConstructorsBuildExpectedShapes(t *testing.T) {
	if got := ConstOf(7); got != (Const{Value: 7}) {
		t.Fatalf("ConstOf: got %#v", got)
	}
	if got := X(); got != (Var{Axis: AxisX}) {
		t.Fatalf("X: got %#v", got)
	}
	if got := Y(); got != (Var{Axis: AxisY}) {
		t.Fatalf("Y: got %#v", got)
	}
	sum := Sum(ConstOf(1), ConstOf(2))
	if _, ok := sum.(Add); !ok {
		t.Fatalf("Sum did not build an Add: %#v", sum)
	}
	product := Product(ConstOf(3), ConstOf(4))
	if _, ok := product.(Mul); !ok {
		t.Fatalf("Product did not build a Mul: %#v", product)
	}
}

func TestSubConstNegatesTheConstant(t *testing.T) {
	e := SubConst(X(), 5)
	add, ok := e.(Add)
	if !ok {
		t.Fatalf("SubConst did not build an Add: %#v", e)
	}
	c, ok := add.Rhs.(Const)
	if !ok || c.Value != -5 {
		t.Fatalf("expected rhs Const{-5}, got %#v", add.Rhs)
	}
}

func TestInputBuilderAtCarriesItsID(t *testing.T) {
	fn := NewFunction(2, func(x, y func() Expression, inputs []InputBuilder) Expression {
		return inputs[1].At(x(), y())
	})
	call, ok := fn.Body.(InputCall)
	if !ok {
		t.Fatalf("expected InputCall body, got %#v", fn.Body)
	}
	if call.Id != 1 {
		t.Fatalf("expected input id 1, got %d", call.Id)
	}
}

func TestSqrtOfWrapsChild(t *testing.T) {
	e := SqrtOf(ConstOf(9))
	s, ok := e.(Sqrt)
	if !ok {
		t.Fatalf("expected Sqrt, got %#v", e)
	}
	if s.Child != Expression(Const{Value: 9}) {
		t.Fatalf("unexpected child: %#v", s.Child)
	}
}
