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

import "fmt"

// ChainLink is a DAG node describing how Functions compose into a
// pipeline. It is a tagged variant, not a class hierarchy: exactly one of
// Source (an ImageSource leaf) or the combination of Inputs+Fn (a Link
// interior) is populated, selected by IsSource.
//
// ChainLink holds non-owning references to its children and Function —
// the caller keeps them alive until Compile returns.
type ChainLink struct {
	IsSource bool

	// Populated when IsSource is true.
	SourceIndex int

	// Populated when IsSource is false.
	Inputs []*ChainLink
	Fn     Function
}

// ImageSource constructs a leaf chain node referring to the index-th input
// buffer slot supplied at run time. index is a caller-assigned integer
// with no global registry — unlike the original's `source_count` global
// counter, distinct sources just pick distinct indices.
func ImageSource(index int) *ChainLink {
	if index < 0 {
		panic(&ConstructionError{Op: "image_source", Msg: fmt.Sprintf("negative index %d", index)})
	}
	return &ChainLink{IsSource: true, SourceIndex: index}
}

// Link composes inputs positionally into fn: input i supplies fn's i-th
// producer. Panics with a *ConstructionError if the input count does not
// match fn.Arity — this is a programmer error, caught at graph-construction
// time rather than deep inside lowering.
func Link(inputs []*ChainLink, fn Function) *ChainLink {
	if len(inputs) != fn.Arity {
		panic(&ConstructionError{
			Op:  "link",
			Msg: fmt.Sprintf("function has arity %d but %d inputs were supplied", fn.Arity, len(inputs)),
		})
	}
	return &ChainLink{IsSource: false, Inputs: inputs, Fn: fn}
}

// MaxSourceIndex returns the largest ImageSource index reachable from root,
// or -1 if root has no ImageSource descendants (an arity-0 Link). Compile
// does not reject that case; it compiles the chain with zero inputs.
func MaxSourceIndex(root *ChainLink) int {
	max := -1
	var walk func(n *ChainLink)
	walk = func(n *ChainLink) {
		if n.IsSource {
			if n.SourceIndex > max {
				max = n.SourceIndex
			}
			return
		}
		for _, in := range n.Inputs {
			walk(in)
		}
	}
	walk(root)
	return max
}
