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

import "unsafe"

// coreIsqrt returns the largest n >= 0 such that n*n <= v, per spec.md §3.
// For v < 0 the result is unspecified (callers must not pass negative
// values — Sqrt is only ever applied to values a producer believes are
// non-negative, same contract as the original core_isqrt).
//
// This is the same monotonic, step-by-one scan as expression.rs's
// SqrtExpr::compile (no Newton's method, no float sqrt). The amd64 JIT does
// not emit this loop itself; it calls this function by address — see
// jit_amd64.go.
func coreIsqrt(v int64) int64 {
	if v <= 0 {
		return 0
	}
	var n int64
	for (n+1)*(n+1) <= v {
		n++
	}
	return n
}

// coreInputAtPtr is the pointer-level pixel fetch the amd64 JIT backend
// calls into. inputsBase points at an array of raw byte-buffer pointers
// (one per input image passed to RunOn); idx selects which one. width/height are shared across all inputs because
// RunOn requires uniform dimensions (spec.md §4.7 step 1).
//
// Out-of-bounds coordinates clamp to 0, matching core_input_at's contract
// exactly: "coordinates outside [0,width)×[0,height) yield 0".
func coreInputAtPtr(x, y, width, height int64, inputsBase uintptr, idx int64) int64 {
	if x < 0 || y < 0 || x >= width || y >= height {
		return 0
	}
	bufPtr := *(*uintptr)(unsafe.Pointer(inputsBase + uintptr(idx)*unsafe.Sizeof(uintptr(0))))
	p := (*byte)(unsafe.Pointer(bufPtr + uintptr(y*width+x)))
	return int64(*p)
}

// Interpret evaluates root against inputs by walking the Expression trees
// directly in Go, with no code generation at all. It backs the arm64
// fallback (jit_arm64.go) and the CLI's --no-jit benchmark baseline
// (spec.md's original sobel_native.rs harness), and serves as the golden
// oracle the JIT-path tests compare against.
func Interpret(root *ChainLink, inputs []ImageView) (Image, error) {
	if len(inputs) == 0 {
		return Image{}, &ConstructionError{Op: "run_on", Msg: "no input images supplied"}
	}
	width, height := inputs[0].Dimensions()
	for _, in := range inputs[1:] {
		w, h := in.Dimensions()
		if w != width || h != height {
			return Image{}, &ConstructionError{Op: "run_on", Msg: "input dimensions do not match"}
		}
	}
	if err := validateArities(root); err != nil {
		return Image{}, err
	}
	if err := checkSourceIndices(root, len(inputs)); err != nil {
		return Image{}, err
	}

	out := NewImage(width, height)
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			v := evalChain(root, inputs, int64(i), int64(j))
			out.Pixels[j*width+i] = clampPixel(v)
		}
	}
	return out, nil
}

func evalChain(n *ChainLink, inputs []ImageView, x, y int64) int64 {
	if n.IsSource {
		return inputs[n.SourceIndex].At(int(x), int(y))
	}
	return evalExpr(n.Fn.Body, n.Inputs, inputs, x, y)
}

func evalExpr(e Expression, producers []*ChainLink, inputs []ImageView, x, y int64) int64 {
	switch n := e.(type) {
	case Const:
		return n.Value
	case Var:
		if n.Axis == AxisX {
			return x
		}
		return y
	case Add:
		return evalExpr(n.Lhs, producers, inputs, x, y) + evalExpr(n.Rhs, producers, inputs, x, y)
	case Mul:
		return evalExpr(n.Lhs, producers, inputs, x, y) * evalExpr(n.Rhs, producers, inputs, x, y)
	case Sqrt:
		return coreIsqrt(evalExpr(n.Child, producers, inputs, x, y))
	case InputCall:
		nx := evalExpr(n.X, producers, inputs, x, y)
		ny := evalExpr(n.Y, producers, inputs, x, y)
		return evalChain(producers[n.Id], inputs, nx, ny)
	default:
		panic(&LoweringError{Op: "interpret", Msg: "unknown expression node"})
	}
}
