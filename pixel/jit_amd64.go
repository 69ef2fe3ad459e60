//go:build amd64

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
	"reflect"
	"unsafe"
)

// AMD64 register constants. Go's internal ABI (ABIInternal) passes the
// first few integer/pointer arguments in RAX, RBX, RCX, RDI, RSI, R8, R9,
// R10, R11 in that order — not RAX..RDX..R15 in register-number order, and
// notably not the System V C order either. R14 is reserved at runtime as
// the current goroutine pointer and must never be treated as scratch.
const (
	regRAX reg = 0
	regRCX reg = 1
	regRDX reg = 2
	regRBX reg = 3
	regRSP reg = 4
	regRBP reg = 5
	regRSI reg = 6
	regRDI reg = 7
	regR8  reg = 8
	regR9  reg = 9
	regR10 reg = 10
	regR11 reg = 11
	regR12 reg = 12
	regR13 reg = 13
	regR14 reg = 14 // the "g" register — never repurposed
	regR15 reg = 15
)

// Condition codes for jccLabel.
const (
	ccE  byte = 0x04
	ccNE byte = 0x05
	ccL  byte = 0x0C
	ccGE byte = 0x0D
	ccLE byte = 0x0E
	ccG  byte = 0x0F
)

func (w *jitWriter) patchU32At(posFromStart int, v uint32) {
	addr := unsafe.Add(w.Start, posFromStart)
	*(*uint32)(addr) = v
}

// encodeMemOp emits <opcode> with a ModRM/disp32 addressing [baseReg+disp].
// regField is whichever operand ModRM's reg bits encode — the load
// destination for 0x8B, the store source for 0x89. Always uses the disp32
// form, even for small offsets: our frame slots are few and this package
// favors one obviously-correct encoding path over a disp8 special case.
func (w *jitWriter) encodeMemOp(opcode byte, regField, baseReg reg, disp int32) {
	rex := byte(0x48)
	if regField >= 8 {
		rex |= 0x04
	}
	if baseReg >= 8 {
		rex |= 0x01
	}
	modrm := 0x80 | (byte(regField&7) << 3) | byte(baseReg&7)
	if baseReg&7 == 4 { // RSP/R12 need a SIB byte
		w.emitBytes(rex, opcode, modrm, 0x24)
	} else {
		w.emitBytes(rex, opcode, modrm)
	}
	w.emitU32(uint32(disp))
}

func (w *jitWriter) movRegMem(dst, base reg, disp int32) { w.encodeMemOp(0x8B, dst, base, disp) }
func (w *jitWriter) movMemReg(base, src reg, disp int32) { w.encodeMemOp(0x89, src, base, disp) }

func (w *jitWriter) loadSlotToReg(dst reg, slot int32)  { w.movRegMem(dst, regRBP, slot) }
func (w *jitWriter) storeRegToSlot(src reg, slot int32) { w.movMemReg(regRBP, src, slot) }

func (w *jitWriter) movRegImm64(dst reg, imm uint64) {
	rex := byte(0x48)
	if dst >= 8 {
		rex |= 0x01
	}
	w.emitBytes(rex, 0xB8|byte(dst&7))
	w.emitU64(imm)
}

func (w *jitWriter) movRegReg(dst, src reg) {
	rex := byte(0x48)
	if src >= 8 {
		rex |= 0x04
	}
	if dst >= 8 {
		rex |= 0x01
	}
	modrm := 0xC0 | (byte(src&7) << 3) | byte(dst&7)
	w.emitBytes(rex, 0x89, modrm)
}

// aluRegReg emits a REX.W ALU op: <opcode> dst, src (ADD=0x01, SUB=0x29, CMP=0x39).
func (w *jitWriter) aluRegReg(opcode byte, dst, src reg) {
	rex := byte(0x48)
	if src >= 8 {
		rex |= 0x04
	}
	if dst >= 8 {
		rex |= 0x01
	}
	modrm := 0xC0 | (byte(src&7) << 3) | byte(dst&7)
	w.emitBytes(rex, opcode, modrm)
}

func (w *jitWriter) addRegReg(dst, src reg) { w.aluRegReg(0x01, dst, src) }
func (w *jitWriter) cmpRegReg(a, b reg)     { w.aluRegReg(0x39, a, b) }

// imulRegReg emits IMUL dst, src (REX.W 0F AF /r, signed dst *= src).
func (w *jitWriter) imulRegReg(dst, src reg) {
	rex := byte(0x48)
	if dst >= 8 {
		rex |= 0x04
	}
	if src >= 8 {
		rex |= 0x01
	}
	modrm := 0xC0 | (byte(dst&7) << 3) | byte(src&7)
	w.emitBytes(rex, 0x0F, 0xAF, modrm)
}

func (w *jitWriter) cmpRegImm32(dst reg, imm int32) {
	rex := byte(0x48)
	if dst >= 8 {
		rex |= 0x01
	}
	modrm := 0xF8 | byte(dst&7) // /7 = CMP
	w.emitBytes(rex, 0x81, modrm)
	w.emitU32(uint32(imm))
}

// incSlot emits INC qword [rbp+disp32].
func (w *jitWriter) incSlot(slot int32) {
	modrm := 0x80 | byte(regRBP&7) // /0 = INC
	w.emitBytes(0x48, 0xFF, modrm)
	w.emitU32(uint32(slot))
}

// storeByteIndirect emits MOV byte [base], al-of-src.
func (w *jitWriter) storeByteIndirect(base, src reg) {
	rex := byte(0x40)
	if src >= 8 {
		rex |= 0x04
	}
	if base >= 8 {
		rex |= 0x01
	}
	modrm := (byte(src&7) << 3) | byte(base&7)
	if rex != 0x40 {
		w.emitBytes(rex, 0x88, modrm)
	} else {
		w.emitBytes(0x88, modrm)
	}
}

func (w *jitWriter) jccLabel(cc byte, labelID uint8) {
	w.emitBytes(0x0F, 0x80|cc)
	w.addFixup(labelID, 4, true)
	w.emitU32(0)
}

func (w *jitWriter) jmpLabel(labelID uint8) {
	w.emitByte(0xE9)
	w.addFixup(labelID, 4, true)
	w.emitU32(0)
}

// callReg emits CALL r/m64 (FF /2) against an absolute address already
// loaded into r — the idiom every call site here uses to reach into
// ordinary Go functions (coreIsqrt, coreInputAtPtr) by address, since this
// package takes those addresses from reflect.ValueOf(...).Pointer(),
// resolved once at package initialization.
func (w *jitWriter) callReg(r reg) {
	rex := byte(0x48)
	if r >= 8 {
		rex |= 0x01
	}
	modrm := 0xD0 | byte(r&7)
	w.emitBytes(rex, 0xFF, modrm)
}

var coreInputAtPtrAddr = reflect.ValueOf(coreInputAtPtr).Pointer()
var coreIsqrtAddr = reflect.ValueOf(coreIsqrt).Pointer()

// compileExpr lowers e to a sequence of stack-slot computations and returns
// the slot holding its result. producers is the enclosing Function's Inputs
// list, needed to resolve InputCall.Id; xSlot/ySlot are the coordinate
// slots this expression evaluates under (the top-level pixel loop's i/j for
// a chain root, or a freshly computed offset pair for a nested InputCall).
func compileExpr(ctx *jitContext, e Expression, producers []*ChainLink, xSlot, ySlot int32) int32 {
	w := ctx.w
	switch n := e.(type) {
	case Const:
		slot := ctx.allocSlot()
		w.movRegImm64(regRAX, uint64(n.Value))
		w.storeRegToSlot(regRAX, slot)
		return slot
	case Var:
		if n.Axis == AxisX {
			return xSlot
		}
		return ySlot
	case Add:
		ls := compileExpr(ctx, n.Lhs, producers, xSlot, ySlot)
		rs := compileExpr(ctx, n.Rhs, producers, xSlot, ySlot)
		w.loadSlotToReg(regRAX, ls)
		w.loadSlotToReg(regRBX, rs)
		w.addRegReg(regRAX, regRBX)
		slot := ctx.allocSlot()
		w.storeRegToSlot(regRAX, slot)
		return slot
	case Mul:
		ls := compileExpr(ctx, n.Lhs, producers, xSlot, ySlot)
		rs := compileExpr(ctx, n.Rhs, producers, xSlot, ySlot)
		w.loadSlotToReg(regRAX, ls)
		w.loadSlotToReg(regRBX, rs)
		w.imulRegReg(regRAX, regRBX)
		slot := ctx.allocSlot()
		w.storeRegToSlot(regRAX, slot)
		return slot
	case Sqrt:
		cs := compileExpr(ctx, n.Child, producers, xSlot, ySlot)
		w.loadSlotToReg(regRAX, cs)
		w.movRegImm64(regR11, uint64(coreIsqrtAddr))
		w.callReg(regR11)
		slot := ctx.allocSlot()
		w.storeRegToSlot(regRAX, slot)
		return slot
	case InputCall:
		nx := compileExpr(ctx, n.X, producers, xSlot, ySlot)
		ny := compileExpr(ctx, n.Y, producers, xSlot, ySlot)
		return compileLink(ctx, producers[n.Id], nx, ny)
	default:
		panic(&LoweringError{Op: "compile", Msg: "unknown expression node in amd64 backend"})
	}
}

// compileLink lowers one ChainLink evaluated at (xSlot, ySlot) to a result
// slot: an ImageSource leaf becomes a coreInputAtPtr call, a Link becomes
// its Function body compiled against its own producer list. Mirrors
// evalChain's dispatch exactly.
func compileLink(ctx *jitContext, n *ChainLink, xSlot, ySlot int32) int32 {
	if n.IsSource {
		return emitInputCall(ctx, xSlot, ySlot, n.SourceIndex)
	}
	return compileExpr(ctx, n.Fn.Body, n.Inputs, xSlot, ySlot)
}

// emitInputCall calls coreInputAtPtr(x, y, width, height, inputsBase, idx).
// x and y are moved into RAX/RBX before width/height/inputsBase are
// reloaded from their frame slots into RCX/RDI/RSI — in that order, so a
// coordinate that happens to already sit in RCX/RDI/RSI is never clobbered
// by the later loads.
func emitInputCall(ctx *jitContext, xSlot, ySlot int32, idx int) int32 {
	w := ctx.w
	w.loadSlotToReg(regRAX, xSlot)
	w.loadSlotToReg(regRBX, ySlot)
	w.loadSlotToReg(regRCX, ctx.widthSlot)
	w.loadSlotToReg(regRDI, ctx.heightSlot)
	w.loadSlotToReg(regRSI, ctx.inputsBaseSlot)
	w.movRegImm64(regR8, uint64(idx))
	w.movRegImm64(regR11, uint64(coreInputAtPtrAddr))
	w.callReg(regR11)
	slot := ctx.allocSlot()
	w.storeRegToSlot(regRAX, slot)
	return slot
}

// compileNative lowers root to amd64 machine code running the full
// width*height pixel loop, and returns it wrapped as a directly callable
// nativeEntry. The generated function has signature
//
//	func(width, height int64, out, inputsBase unsafe.Pointer, numInputs int64)
//
// which under Go's ABIInternal places its five arguments in
// RAX, RBX, RCX, RDI, RSI respectively — no stack-passed arguments at all.
func compileNative(root *ChainLink, numInputs int) (*nativeProgram, error) {
	page, err := allocExecPage(64 * 1024)
	if err != nil {
		return nil, &LoweringError{Op: "mmap", Msg: err.Error()}
	}

	w := newJITWriter(page.rwBase, page.size)
	ctx := &jitContext{w: w}
	ctx.widthSlot = ctx.allocSlot()
	ctx.heightSlot = ctx.allocSlot()
	ctx.outSlot = ctx.allocSlot()
	ctx.inputsBaseSlot = ctx.allocSlot()
	ctx.numInputsSlot = ctx.allocSlot()
	ctx.jSlot = ctx.allocSlot()
	ctx.iSlot = ctx.allocSlot()

	// prologue
	w.emitByte(0x55)                   // push rbp
	w.emitBytes(0x48, 0x89, 0xE5)       // mov rbp, rsp
	w.emitBytes(0x48, 0x81, 0xEC)       // sub rsp, imm32 (patched below)
	subRspPos := w.len()
	w.emitU32(0)

	// spill incoming arguments before anything else touches RAX/RBX/RCX/RDI/RSI
	w.storeRegToSlot(regRAX, ctx.widthSlot)
	w.storeRegToSlot(regRBX, ctx.heightSlot)
	w.storeRegToSlot(regRCX, ctx.outSlot)
	w.storeRegToSlot(regRDI, ctx.inputsBaseSlot)
	w.storeRegToSlot(regRSI, ctx.numInputsSlot)

	// j = 0
	w.movRegImm64(regRAX, 0)
	w.storeRegToSlot(regRAX, ctx.jSlot)

	jLoop := w.defineLabel()
	w.loadSlotToReg(regRAX, ctx.jSlot)
	w.loadSlotToReg(regRBX, ctx.heightSlot)
	w.cmpRegReg(regRAX, regRBX)
	jDone := w.reserveLabel()
	w.jccLabel(ccGE, jDone)

	// i = 0
	w.movRegImm64(regRAX, 0)
	w.storeRegToSlot(regRAX, ctx.iSlot)

	iLoop := w.defineLabel()
	w.loadSlotToReg(regRAX, ctx.iSlot)
	w.loadSlotToReg(regRBX, ctx.widthSlot)
	w.cmpRegReg(regRAX, regRBX)
	iDone := w.reserveLabel()
	w.jccLabel(ccGE, iDone)

	resultSlot := compileLink(ctx, root, ctx.iSlot, ctx.jSlot)

	// clamp result to [0, 255]
	w.loadSlotToReg(regRAX, resultSlot)
	w.cmpRegImm32(regRAX, 0)
	skipNeg := w.reserveLabel()
	w.jccLabel(ccGE, skipNeg)
	w.movRegImm64(regRAX, 0)
	w.markLabel(skipNeg)
	w.cmpRegImm32(regRAX, 255)
	skipHigh := w.reserveLabel()
	w.jccLabel(ccLE, skipHigh)
	w.movRegImm64(regRAX, 255)
	w.markLabel(skipHigh)

	// address = out + j*width + i, store clamped byte (AL) there
	w.loadSlotToReg(regRBX, ctx.jSlot)
	w.loadSlotToReg(regRCX, ctx.widthSlot)
	w.imulRegReg(regRBX, regRCX)
	w.loadSlotToReg(regRCX, ctx.iSlot)
	w.addRegReg(regRBX, regRCX)
	w.loadSlotToReg(regRCX, ctx.outSlot)
	w.addRegReg(regRBX, regRCX)
	w.storeByteIndirect(regRBX, regRAX)

	w.incSlot(ctx.iSlot)
	w.jmpLabel(iLoop)
	w.markLabel(iDone)

	w.incSlot(ctx.jSlot)
	w.jmpLabel(jLoop)
	w.markLabel(jDone)

	// epilogue
	frameSize := ctx.frameSize()
	w.emitBytes(0x48, 0x81, 0xC4) // add rsp, imm32
	w.emitU32(uint32(frameSize))
	w.emitByte(0x5D) // pop rbp
	w.emitByte(0xC3) // ret

	w.patchU32At(subRspPos, uint32(frameSize))
	w.resolveFixups()

	if err := page.makeExecutable(); err != nil {
		page.release()
		return nil, &LoweringError{Op: "mprotect", Msg: err.Error()}
	}

	return &nativeProgram{page: page, entry: wrapNativeEntry(page.rwBase)}, nil
}

// wrapNativeEntry casts a bare code address into a callable Go func value.
// A Go func value at rest is just a pointer to a "funcval" whose first word
// is the entry PC; constructing that one-field struct ourselves and
// re-reading its address as the func type produces a value the runtime's
// normal CALL-through-closure path will happily invoke.
func wrapNativeEntry(codeStart unsafe.Pointer) nativeEntry {
	fnval := unsafe.Pointer(&struct{ code unsafe.Pointer }{codeStart})
	return *(*nativeEntry)(unsafe.Pointer(&fnval))
}
