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

func TestImageSourceRejectsNegativeIndex(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a negative source index")
		}
	}()
	ImageSource(-1)
}

func TestLinkRejectsArityMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an arity mismatch")
		}
	}()
	Link([]*ChainLink{ImageSource(0)}, NewFunction(2, func(x, y func() Expression, inputs []InputBuilder) Expression {
		return ConstOf(0)
	}))
}

func TestMaxSourceIndexWalksTheWholeDAG(t *testing.T) {
	a := ImageSource(0)
	b := ImageSource(3)
	combine := NewFunction(2, func(x, y func() Expression, inputs []InputBuilder) Expression {
		return Sum(inputs[0].At(x(), y()), inputs[1].At(x(), y()))
	})
	root := Link([]*ChainLink{a, b}, combine)
	if got := MaxSourceIndex(root); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestMaxSourceIndexOfBareSourceIsItsOwnIndex(t *testing.T) {
	if got := MaxSourceIndex(ImageSource(5)); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}
