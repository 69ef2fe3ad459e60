//go:build arm64

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

// This package's native code generator only targets amd64 (see
// jit_amd64.go) — arm64 gets no machine-code emitter here, unlike that
// file's instruction encoders this one has no bytes to produce. Rather
// than leave arm64 compiling to a stub that panics at RunOn time, Compile
// falls back to the tree-walking Interpret evaluator: every chain this
// package can lower on amd64 still produces correct pixels here, just
// without native-code throughput.
func compileNative(root *ChainLink, numInputs int) (*nativeProgram, error) {
	return &nativeProgram{interpreted: true, interpretRoot: root}, nil
}
