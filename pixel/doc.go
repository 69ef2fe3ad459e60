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

// Package pixel is an embedded DSL and JIT compiler for point-and-stencil
// 8-bit image pipelines.
//
// A host program builds an Expression tree, wraps it in a Function, wires
// Functions together into a ChainLink DAG rooted at ImageSource leaves, and
// calls Compile once. Compile walks the chain and emits native machine code
// (amd64) or, on architectures without a code generator, falls back to a
// tree-walking Interpret. The resulting CompiledChain.RunOn can then be
// called many times against different same-sized input buffers.
package pixel
