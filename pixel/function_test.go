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

func TestNewFunctionAssignsDistinctInputIDs(t *testing.T) {
	var ids []int
	NewFunction(3, func(x, y func() Expression, inputs []InputBuilder) Expression {
		for _, in := range inputs {
			call := in.At(x(), y()).(InputCall)
			ids = append(ids, call.Id)
		}
		return ConstOf(0)
	})
	want := []int{0, 1, 2}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("input %d: expected id %d, got %d", i, id, ids[i])
		}
	}
}

func TestKernel3x3IdentityIsJustCenterTap(t *testing.T) {
	identity := [3][3]int64{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	}
	fn := Kernel3x3(identity)
	call, ok := fn.Body.(InputCall)
	if !ok {
		t.Fatalf("expected a bare InputCall for a single nonzero center tap, got %#v", fn.Body)
	}
	if call.X != Expression(Var{Axis: AxisX}) || call.Y != Expression(Var{Axis: AxisY}) {
		t.Fatalf("center tap should read (x, y) directly with no offset, got (%#v, %#v)", call.X, call.Y)
	}
}

func TestKernel3x3AllZeroIsConstZero(t *testing.T) {
	fn := Kernel3x3([3][3]int64{})
	c, ok := fn.Body.(Const)
	if !ok || c.Value != 0 {
		t.Fatalf("expected Const{0} for an all-zero kernel, got %#v", fn.Body)
	}
}

func TestKernel3x3SobelXEvaluatesCorrectly(t *testing.T) {
	fn := Kernel3x3(sobelXKernel)
	img := ImageView{Width: 3, Height: 3, Pixels: []byte{
		10, 20, 30,
		40, 50, 60,
		70, 80, 90,
	}}
	got := evalChain(&ChainLink{IsSource: false, Fn: fn, Inputs: []*ChainLink{ImageSource(0)}}, []ImageView{img}, 1, 1)
	// sobel_x = (-1*10 + 1*30) + (-2*40 + 2*60) + (-1*70 + 1*90) = 20 + 40 + 20 = 80
	if got != 80 {
		t.Fatalf("expected 80, got %d", got)
	}
}
