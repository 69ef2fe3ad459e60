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
	"testing"
	"unsafe"
)

func TestCoreIsqrtIsFloor(t *testing.T) {
	cases := []struct {
		v, want int64
	}{
		{0, 0}, {1, 1}, {2, 1}, {3, 1}, {4, 2},
		{8, 2}, {9, 3}, {15, 3}, {16, 4}, {-5, 0},
	}
	for _, c := range cases {
		if got := coreIsqrt(c.v); got != c.want {
			t.Errorf("coreIsqrt(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestCoreInputAtPtrClampsOutOfBounds(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	bases := []uintptr{uintptrOf(buf)}
	if got := coreInputAtPtr(0, 0, 2, 2, uintptrOf(bases), 0); got != 1 {
		t.Fatalf("(0,0): got %d", got)
	}
	if got := coreInputAtPtr(-1, 0, 2, 2, uintptrOf(bases), 0); got != 0 {
		t.Fatalf("out-of-bounds x: got %d", got)
	}
	if got := coreInputAtPtr(0, 2, 2, 2, uintptrOf(bases), 0); got != 0 {
		t.Fatalf("out-of-bounds y: got %d", got)
	}
}

func TestInterpretIdentityPassesThrough(t *testing.T) {
	img := ImageView{Width: 2, Height: 2, Pixels: []byte{10, 20, 30, 40}}
	out, err := Interpret(ImageSource(0), []ImageView{img})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range img.Pixels {
		if out.Pixels[i] != want {
			t.Fatalf("pixel %d: got %d want %d", i, out.Pixels[i], want)
		}
	}
}

func TestInterpretClampsToByteRange(t *testing.T) {
	fn := NewFunction(1, func(x, y func() Expression, inputs []InputBuilder) Expression {
		return MulConst(inputs[0].At(x(), y()), 1000)
	})
	root := Link([]*ChainLink{ImageSource(0)}, fn)
	img := ImageView{Width: 1, Height: 1, Pixels: []byte{1}}
	out, err := Interpret(root, []ImageView{img})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Pixels[0] != 255 {
		t.Fatalf("expected clamp to 255, got %d", out.Pixels[0])
	}
}

func TestInterpretClampsNegativeToZero(t *testing.T) {
	fn := NewFunction(1, func(x, y func() Expression, inputs []InputBuilder) Expression {
		return SubConst(inputs[0].At(x(), y()), 1000)
	})
	root := Link([]*ChainLink{ImageSource(0)}, fn)
	img := ImageView{Width: 1, Height: 1, Pixels: []byte{1}}
	out, err := Interpret(root, []ImageView{img})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Pixels[0] != 0 {
		t.Fatalf("expected clamp to 0, got %d", out.Pixels[0])
	}
}

// TestInterpretSobelMagnitudeOnFlatImageIsZeroAtInterior checks the
// gradient-magnitude-is-zero property only at interior pixels, which have a
// full 3x3 neighborhood of identical values. Border pixels read out-of-bounds
// taps as 0 (not 128, per the out-of-bounds clamp rule), so a border pixel's
// Sobel gradient is nonzero even on a perfectly flat image — that edge
// contribution clamps to 255 after squaring/sqrt, not 0.
func TestInterpretSobelMagnitudeOnFlatImageIsZeroAtInterior(t *testing.T) {
	img := ImageView{Width: 4, Height: 4, Pixels: make([]byte, 16)}
	for i := range img.Pixels {
		img.Pixels[i] = 128
	}
	root := PresetSobelMagnitude(ImageSource(0))
	out, err := Interpret(root, []ImageView{img})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for y := 1; y < 3; y++ {
		for x := 1; x < 3; x++ {
			v := out.Pixels[y*4+x]
			if v != 0 {
				t.Fatalf("interior pixel (%d,%d): expected 0 on a flat image, got %d", x, y, v)
			}
		}
	}
}

func TestInterpretShiftReadsOffsetCoordinate(t *testing.T) {
	img := ImageView{Width: 3, Height: 1, Pixels: []byte{1, 2, 3}}
	root := PresetShift(ImageSource(0), 1, 0)
	out, err := Interpret(root, []ImageView{img})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{2, 3, 0} // last column shifts in an out-of-bounds (clamped to 0) read
	for i, w := range want {
		if out.Pixels[i] != w {
			t.Fatalf("pixel %d: got %d want %d", i, out.Pixels[i], w)
		}
	}
}

// uintptrOf is a tiny test helper avoiding repeated unsafe.Pointer noise at
// call sites above.
func uintptrOf[T any](s []T) uintptr {
	return uintptr(unsafe.Pointer(&s[0]))
}
