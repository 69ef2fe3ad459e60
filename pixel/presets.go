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

// Kernel weight tables grounded on the original Sobel example's sobel_x /
// sobel_y matrices. Every preset here sticks to integer addition and
// multiplication (plus Sqrt for the magnitude combine) — this package has
// no division primitive, so a normalized box-blur average isn't
// expressible without introducing one; see DESIGN.md.
var (
	sobelXKernel = [3][3]int64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelYKernel = [3][3]int64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
	sharpenKernel = [3][3]int64{
		{0, -1, 0},
		{-1, 5, -1},
		{0, -1, 0},
	}
	edgeEnhanceKernel = [3][3]int64{
		{-1, -1, -1},
		{-1, 8, -1},
		{-1, -1, -1},
	}
	boxSumKernel = [3][3]int64{
		{1, 1, 1},
		{1, 1, 1},
		{1, 1, 1},
	}
)

// magnitudeFn combines two single-channel gradient chains into
// sqrt(a^2 + b^2), the same combine step sobel_native.rs performs in f64
// before truncating — done here entirely in int64.
var magnitudeFn = NewFunction(2, func(x, y func() Expression, inputs []InputBuilder) Expression {
	a := inputs[0].At(x(), y())
	b := inputs[1].At(x(), y())
	return SqrtOf(Sum(Product(a, a), Product(b, b)))
})

// PresetIdentity passes the input through unchanged.
//
// It is a one-node chain with no Link at all, useful as a baseline for
// --no-jit timing comparisons.
func PresetIdentity(source *ChainLink) *ChainLink {
	return source
}

// PresetSobelX convolves source with the horizontal Sobel kernel.
func PresetSobelX(source *ChainLink) *ChainLink {
	return Link([]*ChainLink{source}, Kernel3x3(sobelXKernel))
}

// PresetSobelY convolves source with the vertical Sobel kernel.
func PresetSobelY(source *ChainLink) *ChainLink {
	return Link([]*ChainLink{source}, Kernel3x3(sobelYKernel))
}

// PresetSobelMagnitude computes the Sobel gradient magnitude, sqrt(x^2+y^2).
//
// It composes PresetSobelX and PresetSobelY through magnitudeFn, reproducing
// the gradient-magnitude edge detector from sobel_native.rs as a three-link
// chain.
func PresetSobelMagnitude(source *ChainLink) *ChainLink {
	sx := PresetSobelX(source)
	sy := PresetSobelY(source)
	return Link([]*ChainLink{sx, sy}, magnitudeFn)
}

// PresetSharpen applies an unscaled 3x3 sharpening convolution.
//
// The kernel has a center weight of 5 and the four orthogonal neighbors at
// -1.
func PresetSharpen(source *ChainLink) *ChainLink {
	return Link([]*ChainLink{source}, Kernel3x3(sharpenKernel))
}

// PresetEdgeEnhance applies an 8-neighbor Laplacian-style edge filter.
func PresetEdgeEnhance(source *ChainLink) *ChainLink {
	return Link([]*ChainLink{source}, Kernel3x3(edgeEnhanceKernel))
}

// PresetBoxSum convolves source with an unweighted 3x3 sum (every tap is 1).
//
// It is not a true box-blur average — this package has no division
// primitive — so the result is the raw 9-tap sum clamped to a byte, useful
// as a cheap local-brightness accumulator rather than a smoothing filter.
func PresetBoxSum(source *ChainLink) *ChainLink {
	return Link([]*ChainLink{source}, Kernel3x3(boxSumKernel))
}

// PresetShift reads input pixels at (x+dx, y+dy) for each output
// coordinate, so the image content moves by (-dx, -dy).
func PresetShift(source *ChainLink, dx, dy int64) *ChainLink {
	fn := NewFunction(1, func(x, y func() Expression, inputs []InputBuilder) Expression {
		return inputs[0].At(AddConst(x(), dx), AddConst(y(), dy))
	})
	return Link([]*ChainLink{source}, fn)
}
