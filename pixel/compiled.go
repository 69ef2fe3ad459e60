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
	"runtime"
	"sync"
	"unsafe"

	"github.com/google/uuid"
)

// nativeEntry is the signature every compiled chain's machine code
// presents, regardless of which inputs or Functions it was lowered from.
// Go's ABIInternal places width, height, out, inputsBase, numInputs into
// RAX, RBX, RCX, RDI, RSI respectively — see jit_amd64.go.
type nativeEntry func(width, height int64, out, inputsBase unsafe.Pointer, numInputs int64)

// nativeProgram is what an architecture's compileNative produces: either
// real machine code backed by an mmap'd execPage, or (arm64) a marker that
// tells RunOn to fall back to Interpret.
type nativeProgram struct {
	page  *execPage
	entry nativeEntry

	interpreted   bool
	interpretRoot *ChainLink
}

// CompiledChain is the lowered form of a ChainLink, ready to run against
// any input set wide enough for its ImageSource references. A CompiledChain
// is safe for concurrent RunOn calls: its machine code is read-only once
// Compile returns.
type CompiledChain struct {
	ID   uuid.UUID
	root *ChainLink

	numInputs int
	prog      *nativeProgram

	mu     sync.Mutex
	closed bool
}

// Compile lowers root to its runnable form: native amd64 machine code where
// available, or an interpreted fallback on other architectures. It performs
// every static check Compile can make without knowing the eventual input
// count — arity checks on every InputCall — but defers the ImageSource
// count check to RunOn, since that is the first point numInputs is known.
func Compile(root *ChainLink) (*CompiledChain, error) {
	if root == nil {
		return nil, &ConstructionError{Op: "compile", Msg: "nil chain root"}
	}
	if err := validateArities(root); err != nil {
		return nil, err
	}

	numInputs := MaxSourceIndex(root) + 1
	prog, err := compileNative(root, numInputs)
	if err != nil {
		return nil, err
	}

	cc := &CompiledChain{
		ID:        uuid.New(),
		root:      root,
		numInputs: numInputs,
		prog:      prog,
	}
	if prog.page != nil {
		runtime.SetFinalizer(cc, (*CompiledChain).Close)
	}
	registerChain(cc)
	return cc, nil
}

// RunOn evaluates the compiled chain over inputs, which must all share the
// same dimensions (spec.md §4.7 step 1) and must cover every ImageSource
// index the chain references. Safe to call after Close only in the sense
// that it returns an error rather than touching freed memory.
func (cc *CompiledChain) RunOn(inputs []ImageView) (Image, error) {
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
	if err := checkSourceIndices(cc.root, len(inputs)); err != nil {
		return Image{}, err
	}

	cc.mu.Lock()
	closed := cc.closed
	cc.mu.Unlock()
	if closed {
		return Image{}, &ConstructionError{Op: "run_on", Msg: "chain is closed"}
	}

	if cc.prog.interpreted {
		metricsRecordRun()
		return Interpret(cc.prog.interpretRoot, inputs)
	}

	out := NewImage(width, height)
	bases := make([]uintptr, len(inputs))
	for i, in := range inputs {
		bases[i] = uintptr(unsafe.Pointer(&in.Pixels[0]))
	}

	metricsRecordRun()
	cc.prog.entry(
		int64(width), int64(height),
		unsafe.Pointer(&out.Pixels[0]),
		unsafe.Pointer(&bases[0]),
		int64(len(inputs)),
	)
	return out, nil
}

// Close releases the executable memory backing a native CompiledChain. It
// is safe to call more than once and safe to call on an interpreted
// (arm64) chain, which owns no native memory.
func (cc *CompiledChain) Close() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.closed {
		return
	}
	cc.closed = true
	if cc.prog.page != nil {
		cc.prog.page.release()
	}
	unregisterChain(cc.ID)
}
