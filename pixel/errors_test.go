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

import (
	"errors"
	"testing"
)

func TestInterpretRejectsEmptyInputs(t *testing.T) {
	_, err := Interpret(ImageSource(0), nil)
	var ce *ConstructionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConstructionError, got %v", err)
	}
}

func TestInterpretRejectsMismatchedDimensions(t *testing.T) {
	fn := NewFunction(2, func(x, y func() Expression, inputs []InputBuilder) Expression {
		return Sum(inputs[0].At(x(), y()), inputs[1].At(x(), y()))
	})
	root := Link([]*ChainLink{ImageSource(0), ImageSource(1)}, fn)
	a := ImageView{Width: 2, Height: 2, Pixels: make([]byte, 4)}
	b := ImageView{Width: 3, Height: 2, Pixels: make([]byte, 6)}
	_, err := Interpret(root, []ImageView{a, b})
	var ce *ConstructionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConstructionError, got %v", err)
	}
}

func TestInterpretRejectsOutOfRangeSourceIndex(t *testing.T) {
	root := ImageSource(2)
	img := ImageView{Width: 2, Height: 2, Pixels: make([]byte, 4)}
	_, err := Interpret(root, []ImageView{img})
	var ce *ConstructionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConstructionError, got %v", err)
	}
}

func TestInterpretRejectsArityViolationAtLoweringTime(t *testing.T) {
	fn := Function{Arity: 1, Body: InputCall{Id: 5, X: X(), Y: Y()}}
	root := Link([]*ChainLink{ImageSource(0)}, fn)
	img := ImageView{Width: 2, Height: 2, Pixels: make([]byte, 4)}
	_, err := Interpret(root, []ImageView{img})
	var le *LoweringError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoweringError, got %v", err)
	}
}
