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

// jitFixup records a forward reference that must be patched once every
// label's final position is known.
type jitFixup struct {
	codePos  int32
	labelID  uint8
	size     uint8 // currently always 4 (rel32)
	relative bool
}

// jitWriter is the architecture-independent code emitter scaffold shared by
// every backend: a raw byte cursor into a pre-sized buffer, plus a small
// label/fixup table for branches whose target isn't known yet when the
// branch itself is emitted (loop back-edges, out-of-bounds early-outs).
// Architecture-specific instruction encoders live in jit_<arch>.go.
type jitWriter struct {
	Ptr   unsafe.Pointer
	Start unsafe.Pointer
	End   unsafe.Pointer

	labels    [32]int32
	labelNext uint8

	fixups    [64]jitFixup
	fixupNext uint8
}

// newJITWriter wraps a freshly allocated code buffer. size only sets End;
// the emit methods do not check writes against it. The buffer itself is
// allocated by the caller (execbuf.go) because it must come from mmap'd
// memory, not a plain Go slice.
func newJITWriter(base unsafe.Pointer, size int) *jitWriter {
	return &jitWriter{
		Ptr:   base,
		Start: base,
		End:   unsafe.Add(base, size),
	}
}

// len reports how many bytes have been written so far.
func (w *jitWriter) len() int {
	return int(uintptr(w.Ptr) - uintptr(w.Start))
}

// defineLabel marks the current position as a branch target.
func (w *jitWriter) defineLabel() uint8 {
	id := w.labelNext
	w.labelNext++
	w.labels[id] = int32(w.len())
	return id
}

// reserveLabel allocates a label ID whose position is filled in later by
// markLabel — used for forward branches (skip-ahead on out-of-bounds, loop
// exit) where the target isn't known until more code has been emitted.
func (w *jitWriter) reserveLabel() uint8 {
	id := w.labelNext
	w.labelNext++
	w.labels[id] = -1
	return id
}

// markLabel fixes the position of a label reserved earlier via reserveLabel.
func (w *jitWriter) markLabel(id uint8) {
	w.labels[id] = int32(w.len())
}

// addFixup records that the 4 bytes about to be written at the current
// position are a rel32 (or abs32) reference to labelID, to be patched by
// resolveFixups once every label has a final position.
func (w *jitWriter) addFixup(labelID uint8, size uint8, relative bool) {
	w.fixups[w.fixupNext] = jitFixup{
		codePos:  int32(w.len()),
		labelID:  labelID,
		size:     size,
		relative: relative,
	}
	w.fixupNext++
}

// resolveFixups patches every recorded fixup now that all labels have been
// placed. Must run exactly once, after the last byte of the function body
// has been emitted.
func (w *jitWriter) resolveFixups() {
	for i := uint8(0); i < w.fixupNext; i++ {
		f := &w.fixups[i]
		target := w.labels[f.labelID]
		if target < 0 {
			panic("pixel: jit label never marked")
		}
		addr := unsafe.Add(w.Start, int(f.codePos))
		if f.relative {
			*(*int32)(addr) = target - (f.codePos + int32(f.size))
		} else {
			*(*int32)(addr) = target
		}
	}
}

func (w *jitWriter) emitByte(b byte) {
	*(*byte)(w.Ptr) = b
	w.Ptr = unsafe.Add(w.Ptr, 1)
}

func (w *jitWriter) emitBytes(bs ...byte) {
	for _, b := range bs {
		w.emitByte(b)
	}
}

func (w *jitWriter) emitU32(v uint32) {
	*(*uint32)(w.Ptr) = v
	w.Ptr = unsafe.Add(w.Ptr, 4)
}

func (w *jitWriter) emitU64(v uint64) {
	*(*uint64)(w.Ptr) = v
	w.Ptr = unsafe.Add(w.Ptr, 8)
}
