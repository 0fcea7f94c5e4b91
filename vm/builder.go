// Copyright 2024 The TMBASIC Authors
// This file is part of TMBASIC.
//
// TMBASIC is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// TMBASIC is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with TMBASIC. If not, see <http://www.gnu.org/licenses/>.

package vm

// Builder assembles a procedure's instruction stream byte by byte. It is
// not a compiler: it is the programmatic assembler tests and embedders use
// to construct bytecode directly, in the spirit of probe-lang's
// vm_test.go instr/instrWide/program helpers and KTStephano-GVM's
// assembler package.
type Builder struct {
	buf []byte
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Len returns the current instruction stream length, useful for computing
// jump targets before they're known (patch the target after emitting the
// rest of the body).
func (b *Builder) Len() int { return len(b.buf) }

// Bytes returns the assembled instruction stream.
func (b *Builder) Bytes() []byte { return b.buf }

func (b *Builder) emit(op Opcode) *Builder {
	b.buf = append(b.buf, byte(op))
	return b
}

func (b *Builder) u8(v uint8) *Builder   { b.buf = append(b.buf, v); return b }
func (b *Builder) u16(v uint16) *Builder { var t [2]byte; putUint16(t[:], v); b.buf = append(b.buf, t[:]...); return b }
func (b *Builder) u32(v uint32) *Builder { var t [4]byte; putUint32(t[:], v); b.buf = append(b.buf, t[:]...); return b }
func (b *Builder) u64(v uint64) *Builder { var t [8]byte; putUint64(t[:], v); b.buf = append(b.buf, t[:]...); return b }
func (b *Builder) i64(v int64) *Builder  { var t [8]byte; putInt64(t[:], v); b.buf = append(b.buf, t[:]...); return b }

func (b *Builder) Exit() *Builder { return b.emit(OpExit) }

func (b *Builder) PushImmediateInt64(n int64) *Builder {
	return b.emit(OpPushImmediateInt64).i64(n)
}

func (b *Builder) PushImmediateDec128(sign uint8, hi, lo uint64, exp int64) *Builder {
	return b.emit(OpPushImmediateDec128).u8(0).u8(sign).u64(hi).u64(lo).i64(exp)
}

func (b *Builder) PushImmediateUtf8(s string) *Builder {
	b.emit(OpPushImmediateUtf8).u32(uint32(len(s)))
	b.buf = append(b.buf, s...)
	return b
}

func (b *Builder) PopValue() *Builder        { return b.emit(OpPopValue) }
func (b *Builder) PopObject() *Builder       { return b.emit(OpPopObject) }
func (b *Builder) DuplicateValue() *Builder  { return b.emit(OpDuplicateValue) }
func (b *Builder) DuplicateObject() *Builder { return b.emit(OpDuplicateObject) }
func (b *Builder) SwapValues() *Builder      { return b.emit(OpSwapValues) }
func (b *Builder) SwapObjects() *Builder     { return b.emit(OpSwapObjects) }

func (b *Builder) InitLocals(nVals, nObjs uint16) *Builder {
	return b.emit(OpInitLocals).u16(nVals).u16(nObjs)
}

func (b *Builder) PushArgumentValue(idx uint8) *Builder  { return b.emit(OpPushArgumentValue).u8(idx) }
func (b *Builder) PushArgumentObject(idx uint8) *Builder { return b.emit(OpPushArgumentObject).u8(idx) }
func (b *Builder) SetArgumentValue(idx uint8) *Builder   { return b.emit(OpSetArgumentValue).u8(idx) }
func (b *Builder) SetArgumentObject(idx uint8) *Builder  { return b.emit(OpSetArgumentObject).u8(idx) }

func (b *Builder) PushGlobalValue(idx uint16) *Builder  { return b.emit(OpPushGlobalValue).u16(idx) }
func (b *Builder) PushGlobalObject(idx uint16) *Builder { return b.emit(OpPushGlobalObject).u16(idx) }
func (b *Builder) SetGlobalValue(idx uint16) *Builder   { return b.emit(OpSetGlobalValue).u16(idx) }
func (b *Builder) SetGlobalObject(idx uint16) *Builder  { return b.emit(OpSetGlobalObject).u16(idx) }

func (b *Builder) PushLocalValue(idx uint16) *Builder  { return b.emit(OpPushLocalValue).u16(idx) }
func (b *Builder) PushLocalObject(idx uint16) *Builder { return b.emit(OpPushLocalObject).u16(idx) }
func (b *Builder) SetLocalValue(idx uint16) *Builder   { return b.emit(OpSetLocalValue).u16(idx) }
func (b *Builder) SetLocalObject(idx uint16) *Builder  { return b.emit(OpSetLocalObject).u16(idx) }
func (b *Builder) ClearLocalObject(idx uint16) *Builder { return b.emit(OpClearLocalObject).u16(idx) }

func (b *Builder) Jump(target uint32) *Builder          { return b.emit(OpJump).u32(target) }
func (b *Builder) BranchIfTrue(target uint32) *Builder  { return b.emit(OpBranchIfTrue).u32(target) }
func (b *Builder) BranchIfFalse(target uint32) *Builder { return b.emit(OpBranchIfFalse).u32(target) }

func (b *Builder) Call(procIdx uint32, nVals, nObjs uint8) *Builder {
	return b.emit(OpCall).u32(procIdx).u8(nVals).u8(nObjs)
}
func (b *Builder) CallV(procIdx uint32, nVals, nObjs uint8) *Builder {
	return b.emit(OpCallV).u32(procIdx).u8(nVals).u8(nObjs)
}
func (b *Builder) CallO(procIdx uint32, nVals, nObjs uint8) *Builder {
	return b.emit(OpCallO).u32(procIdx).u8(nVals).u8(nObjs)
}

func (b *Builder) Return() *Builder       { return b.emit(OpReturn) }
func (b *Builder) ReturnValue() *Builder  { return b.emit(OpReturnValue) }
func (b *Builder) ReturnObject() *Builder { return b.emit(OpReturnObject) }

func (b *Builder) SystemCall(id uint16, nVals, nObjs uint8) *Builder {
	return b.emit(OpSystemCall).u16(id).u8(nVals).u8(nObjs)
}
func (b *Builder) SystemCallV(id uint16, nVals, nObjs uint8) *Builder {
	return b.emit(OpSystemCallV).u16(id).u8(nVals).u8(nObjs)
}
func (b *Builder) SystemCallO(id uint16, nVals, nObjs uint8) *Builder {
	return b.emit(OpSystemCallO).u16(id).u8(nVals).u8(nObjs)
}
func (b *Builder) SystemCallVO(id uint16, nVals, nObjs uint8) *Builder {
	return b.emit(OpSystemCallVO).u16(id).u8(nVals).u8(nObjs)
}

func (b *Builder) SetError() *Builder      { return b.emit(OpSetError) }
func (b *Builder) ClearError() *Builder    { return b.emit(OpClearError) }
func (b *Builder) BubbleError() *Builder   { return b.emit(OpBubbleError) }
func (b *Builder) ReturnIfError() *Builder { return b.emit(OpReturnIfError) }
func (b *Builder) BranchIfError(target uint32) *Builder {
	return b.emit(OpBranchIfError).u32(target)
}

func (b *Builder) RecordNew(nVals, nObjs uint16) *Builder {
	return b.emit(OpRecordNew).u16(nVals).u16(nObjs)
}
func (b *Builder) RecordGetValue(idx uint16) *Builder  { return b.emit(OpRecordGetValue).u16(idx) }
func (b *Builder) RecordGetObject(idx uint16) *Builder { return b.emit(OpRecordGetObject).u16(idx) }
func (b *Builder) RecordSetValue(idx uint16) *Builder  { return b.emit(OpRecordSetValue).u16(idx) }
func (b *Builder) RecordSetObject(idx uint16) *Builder { return b.emit(OpRecordSetObject).u16(idx) }

func (b *Builder) ValueListNew(n uint16) *Builder  { return b.emit(OpValueListNew).u16(n) }
func (b *Builder) ObjectListNew(n uint16) *Builder { return b.emit(OpObjectListNew).u16(n) }

// DottedSuffix is a test/embedder-facing suffix descriptor for
// DottedExpressionSet{Value,Object}.
type DottedSuffix struct {
	Tag      byte
	FieldIdx uint16
}

func (b *Builder) dottedSet(op Opcode, suffixes []DottedSuffix, numKeyValues, numKeyObjects uint8) *Builder {
	b.emit(op).u8(uint8(len(suffixes))).u8(numKeyValues).u8(numKeyObjects)
	for _, s := range suffixes {
		b.u8(s.Tag)
		if s.Tag == 0x01 || s.Tag == 0x02 {
			b.u16(s.FieldIdx)
		}
	}
	return b
}

func (b *Builder) DottedExpressionSetValue(suffixes []DottedSuffix, numKeyValues, numKeyObjects uint8) *Builder {
	return b.dottedSet(OpDottedExpressionSetValue, suffixes, numKeyValues, numKeyObjects)
}

func (b *Builder) DottedExpressionSetObject(suffixes []DottedSuffix, numKeyValues, numKeyObjects uint8) *Builder {
	return b.dottedSet(OpDottedExpressionSetObject, suffixes, numKeyValues, numKeyObjects)
}
