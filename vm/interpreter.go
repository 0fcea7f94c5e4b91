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

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultValueStackCapacity  = 4096
	defaultObjectStackCapacity = 4096
)

// Interpreter is the dual-stack VM: hot state (procedure, pc, vsi, osi)
// plus the two fixed-capacity stacks, the call-frame stack, the error
// register, and the system-call registry. One Interpreter runs one
// Program at a time; it is not safe for concurrent use from multiple
// goroutines.
type Interpreter struct {
	program *Program

	values  []Value
	objects []Object
	vsi     int
	osi     int

	frames  []callFrame
	procIdx int
	pc      int

	errReg errorState

	bus        *SyscallBus
	consoleIn  ConsoleReader
	consoleOut ConsoleWriter

	logger *zap.Logger
	runID  uuid.UUID

	globalValuesSlice  []Value
	globalObjectsSlice []Object
}

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithStackCapacities overrides the default fixed stack sizes.
func WithStackCapacities(valueCap, objectCap int) Option {
	return func(in *Interpreter) {
		in.values = make([]Value, valueCap)
		in.objects = make([]Object, objectCap)
	}
}

// WithSyscallBus installs the system-call registry; without this option an
// empty bus is used, so any SystemCall* opcode fails with a fatal error.
func WithSyscallBus(bus *SyscallBus) Option {
	return func(in *Interpreter) { in.bus = bus }
}

// WithLogger attaches structured logging of procedure entry/exit, syscall
// dispatch, and error-register transitions at Debug level.
func WithLogger(l *zap.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// NewInterpreter constructs an Interpreter over program, reading/writing
// the given console streams. Call Init before the first Run.
func NewInterpreter(program *Program, consoleIn ConsoleReader, consoleOut ConsoleWriter, opts ...Option) *Interpreter {
	in := &Interpreter{
		program:    program,
		values:     make([]Value, defaultValueStackCapacity),
		objects:    make([]Object, defaultObjectStackCapacity),
		bus:        NewSyscallBus(),
		consoleIn:  consoleIn,
		consoleOut: consoleOut,
		logger:     zap.NewNop(),
		runID:      uuid.New(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// RegisterSystemCall installs or replaces a single entry in the bus,
// primarily for test doubles.
func (in *Interpreter) RegisterSystemCall(id uint16, name string, numVals, numObjs int, returnsValue, returnsObject bool, handler SyscallHandler) {
	in.bus.Register(id, name, numVals, numObjs, returnsValue, returnsObject, handler)
}

// Init resets the stacks and call-frame stack and sets procedureIdx as the
// entry point.
func (in *Interpreter) Init(procedureIdx int) error {
	if procedureIdx < 0 || procedureIdx >= len(in.program.Procedures) {
		return newFatalf("vm: procedure index %d out of range [0,%d)", procedureIdx, len(in.program.Procedures))
	}
	in.vsi = 0
	in.osi = 0
	in.frames = in.frames[:0]
	in.procIdx = procedureIdx
	in.pc = 0
	in.errReg = errorState{}
	return nil
}

// GetError returns the live error register contents, or nil if clear.
func (in *Interpreter) GetError() *VMError {
	if !in.errReg.hasError {
		return nil
	}
	msg := ""
	if in.errReg.message != nil {
		msg = in.errReg.message.ToUtf8()
	}
	return &VMError{Code: in.errReg.code, Message: msg}
}

func (in *Interpreter) pushValue(v Value) error {
	if in.vsi >= len(in.values) {
		return newFatalf("vm: value stack overflow (capacity %d)", len(in.values))
	}
	in.values[in.vsi] = v
	in.vsi++
	return nil
}

func (in *Interpreter) popValue() (Value, error) {
	if in.vsi <= 0 {
		return Value{}, newFatalf("vm: value stack underflow")
	}
	in.vsi--
	v := in.values[in.vsi]
	in.values[in.vsi] = Value{}
	return v, nil
}

func (in *Interpreter) pushObject(o Object) error {
	if in.osi >= len(in.objects) {
		return newFatalf("vm: object stack overflow (capacity %d)", len(in.objects))
	}
	in.objects[in.osi] = o
	in.osi++
	return nil
}

func (in *Interpreter) popObject() (Object, error) {
	if in.osi <= 0 {
		return nil, newFatalf("vm: object stack underflow")
	}
	in.osi--
	o := in.objects[in.osi]
	in.objects[in.osi] = nil
	return o, nil
}

func (in *Interpreter) currentProcedure() *Procedure {
	return in.program.Procedures[in.procIdx]
}

func (in *Interpreter) raiseError(code Value, message string) {
	in.errReg = errorState{hasError: true, code: code, message: NewString(message)}
	in.logger.Debug("error raised", zap.String("run", in.runID.String()), zap.String("message", message))
}

func (in *Interpreter) raiseInternal(err error) {
	in.raiseError(ValueFromInt32(int32(ErrorCodeInternal)), err.Error())
}

// Run executes up to maxCycles opcodes. It returns true if the run is
// resumable (the cycle budget was exhausted mid-program) and false if the
// program terminated (Exit, or the call stack emptied via Return). A
// non-nil error indicates a fatal, unrecoverable defect — not the same as
// the recoverable error register.
func (in *Interpreter) Run(maxCycles int) (bool, error) {
	for cycle := 0; cycle < maxCycles; cycle++ {
		proc := in.currentProcedure()
		if in.pc >= len(proc.Instructions) {
			return false, newFatalf("vm: program counter %d past end of procedure %q", in.pc, proc.Name)
		}
		done, err := in.step(proc)
		if err != nil {
			return false, err
		}
		if done {
			return false, nil
		}
	}
	return true, nil
}

func (in *Interpreter) step(proc *Procedure) (done bool, err error) {
	instr := proc.Instructions
	op := Opcode(instr[in.pc])
	in.pc++
	if !op.valid() {
		return false, newFatalf("vm: unknown opcode %d at pc %d", instr[in.pc-1], in.pc-1)
	}

	switch op {
	case OpExit:
		return true, nil

	case OpPushImmediateInt64:
		n := getInt64(in.readOperand(instr, 8))
		if err := in.pushValue(ValueFromInt64(n)); err != nil {
			return false, err
		}

	case OpPushImmediateDec128:
		b := in.readOperand(instr, 1+1+8+8+8)
		sign := b[1]
		hi := getUint64(b[2:10])
		lo := getUint64(b[10:18])
		exp := getInt64(b[18:26])
		if err := in.pushValue(ValueFromTriple(sign, hi, lo, exp)); err != nil {
			return false, err
		}

	case OpPushImmediateUtf8:
		n := int(getUint32(in.readOperand(instr, 4)))
		payload := instr[in.pc : in.pc+n]
		in.pc += n
		if err := in.pushObject(NewString(string(payload))); err != nil {
			return false, err
		}

	case OpPopValue:
		if _, err := in.popValue(); err != nil {
			return false, err
		}
	case OpPopObject:
		if _, err := in.popObject(); err != nil {
			return false, err
		}

	case OpDuplicateValue:
		if in.vsi <= 0 {
			return false, newFatalf("vm: DuplicateValue on empty value stack")
		}
		if err := in.pushValue(in.values[in.vsi-1]); err != nil {
			return false, err
		}
	case OpDuplicateObject:
		if in.osi <= 0 {
			return false, newFatalf("vm: DuplicateObject on empty object stack")
		}
		if err := in.pushObject(in.objects[in.osi-1]); err != nil {
			return false, err
		}

	case OpSwapValues:
		if in.vsi < 2 {
			return false, newFatalf("vm: SwapValues needs 2 values")
		}
		in.values[in.vsi-1], in.values[in.vsi-2] = in.values[in.vsi-2], in.values[in.vsi-1]
	case OpSwapObjects:
		if in.osi < 2 {
			return false, newFatalf("vm: SwapObjects needs 2 objects")
		}
		in.objects[in.osi-1], in.objects[in.osi-2] = in.objects[in.osi-2], in.objects[in.osi-1]

	case OpInitLocals:
		b := in.readOperand(instr, 4)
		nv := int(getUint16(b[0:2]))
		no := int(getUint16(b[2:4]))
		for i := 0; i < nv; i++ {
			if err := in.pushValue(Value{}); err != nil {
				return false, err
			}
		}
		for i := 0; i < no; i++ {
			if err := in.pushObject(nil); err != nil {
				return false, err
			}
		}

	case OpPushArgumentValue:
		idx := int(in.readOperand(instr, 1)[0])
		base := in.currentArgsValueBase()
		if idx < 0 || base+idx >= in.vsi {
			return false, newFatalf("vm: argument value index %d out of range", idx)
		}
		if err := in.pushValue(in.values[base+idx]); err != nil {
			return false, err
		}
	case OpPushArgumentObject:
		idx := int(in.readOperand(instr, 1)[0])
		base := in.currentArgsObjectBase()
		if idx < 0 || base+idx >= in.osi {
			return false, newFatalf("vm: argument object index %d out of range", idx)
		}
		if err := in.pushObject(in.objects[base+idx]); err != nil {
			return false, err
		}
	case OpSetArgumentValue:
		idx := int(in.readOperand(instr, 1)[0])
		v, err := in.popValue()
		if err != nil {
			return false, err
		}
		base := in.currentArgsValueBase()
		in.values[base+idx] = v
	case OpSetArgumentObject:
		idx := int(in.readOperand(instr, 1)[0])
		o, err := in.popObject()
		if err != nil {
			return false, err
		}
		base := in.currentArgsObjectBase()
		in.objects[base+idx] = o

	case OpPushGlobalValue:
		idx := int(getUint16(in.readOperand(instr, 2)))
		if idx < 0 || idx >= in.program.GlobalValuesCount {
			return false, newFatalf("vm: global value index %d out of range", idx)
		}
		if err := in.pushValue(in.globalValues()[idx]); err != nil {
			return false, err
		}
	case OpPushGlobalObject:
		idx := int(getUint16(in.readOperand(instr, 2)))
		if idx < 0 || idx >= in.program.GlobalObjectsCount {
			return false, newFatalf("vm: global object index %d out of range", idx)
		}
		if err := in.pushObject(in.globalObjects()[idx]); err != nil {
			return false, err
		}
	case OpSetGlobalValue:
		idx := int(getUint16(in.readOperand(instr, 2)))
		v, err := in.popValue()
		if err != nil {
			return false, err
		}
		in.globalValues()[idx] = v
	case OpSetGlobalObject:
		idx := int(getUint16(in.readOperand(instr, 2)))
		o, err := in.popObject()
		if err != nil {
			return false, err
		}
		in.globalObjects()[idx] = o

	case OpPushLocalValue:
		idx := int(getUint16(in.readOperand(instr, 2)))
		base := in.currentLocalsValueBase()
		if err := in.pushValue(in.values[base+idx]); err != nil {
			return false, err
		}
	case OpPushLocalObject:
		idx := int(getUint16(in.readOperand(instr, 2)))
		base := in.currentLocalsObjectBase()
		if err := in.pushObject(in.objects[base+idx]); err != nil {
			return false, err
		}
	case OpSetLocalValue:
		idx := int(getUint16(in.readOperand(instr, 2)))
		v, err := in.popValue()
		if err != nil {
			return false, err
		}
		base := in.currentLocalsValueBase()
		in.values[base+idx] = v
	case OpSetLocalObject:
		idx := int(getUint16(in.readOperand(instr, 2)))
		o, err := in.popObject()
		if err != nil {
			return false, err
		}
		base := in.currentLocalsObjectBase()
		in.objects[base+idx] = o
	case OpClearLocalObject:
		idx := int(getUint16(in.readOperand(instr, 2)))
		base := in.currentLocalsObjectBase()
		in.objects[base+idx] = nil

	case OpJump:
		target := getUint32(in.readOperand(instr, 4))
		in.pc = int(target)
	case OpBranchIfTrue:
		target := getUint32(in.readOperand(instr, 4))
		cond, err := in.popValue()
		if err != nil {
			return false, err
		}
		if cond.GetBoolean() {
			in.pc = int(target)
		}
	case OpBranchIfFalse:
		target := getUint32(in.readOperand(instr, 4))
		cond, err := in.popValue()
		if err != nil {
			return false, err
		}
		if !cond.GetBoolean() {
			in.pc = int(target)
		}

	case OpCall, OpCallV, OpCallO:
		b := in.readOperand(instr, 6)
		procIdx := int(getUint32(b[0:4]))
		nv := int(b[4])
		no := int(b[5])
		if procIdx < 0 || procIdx >= len(in.program.Procedures) {
			return false, newFatalf("vm: call to out-of-range procedure %d", procIdx)
		}
		in.frames = append(in.frames, callFrame{
			callerProcedure:       in.procIdx,
			returnInstruction:     in.pc,
			numArgsValues:         nv,
			numArgsObjects:        no,
			valueStackArgsStart:   in.vsi - nv,
			objectStackArgsStart:  in.osi - no,
			returnsValue:          op == OpCallV,
			returnsObject:         op == OpCallO,
		})
		in.logger.Debug("call", zap.String("run", in.runID.String()), zap.Int("proc", procIdx))
		in.procIdx = procIdx
		in.pc = 0

	case OpReturn, OpReturnValue, OpReturnObject:
		var retVal Value
		var retObj Object
		if op == OpReturnValue {
			v, err := in.popValue()
			if err != nil {
				return false, err
			}
			retVal = v
		}
		if op == OpReturnObject {
			o, err := in.popObject()
			if err != nil {
				return false, err
			}
			retObj = o
		}
		if len(in.frames) == 0 {
			return true, nil
		}
		frame := in.frames[len(in.frames)-1]
		in.frames = in.frames[:len(in.frames)-1]
		in.vsi = frame.valueStackArgsStart
		in.osi = frame.objectStackArgsStart
		in.procIdx = frame.callerProcedure
		in.pc = frame.returnInstruction
		in.logger.Debug("return", zap.String("run", in.runID.String()), zap.Int("proc", in.procIdx))
		if op == OpReturnValue {
			if err := in.pushValue(retVal); err != nil {
				return false, err
			}
		}
		if op == OpReturnObject {
			if err := in.pushObject(retObj); err != nil {
				return false, err
			}
		}

	case OpSystemCall, OpSystemCallV, OpSystemCallO, OpSystemCallVO:
		b := in.readOperand(instr, 4)
		id := getUint16(b[0:2])
		nv := int(b[2])
		no := int(b[3])
		if err := in.dispatchSystemCall(id, nv, no); err != nil {
			return false, err
		}

	case OpSetError:
		msgObj, err := in.popObject()
		if err != nil {
			return false, err
		}
		code, err := in.popValue()
		if err != nil {
			return false, err
		}
		msg, ok := msgObj.(*StringObject)
		if !ok {
			return false, newFatalf("vm: SetError message operand is not a String")
		}
		in.errReg = errorState{hasError: true, code: code, message: msg}
		in.logger.Debug("SetError", zap.String("run", in.runID.String()))

	case OpClearError:
		in.errReg = errorState{}

	case OpBubbleError:
		if in.errReg.message == nil {
			return false, newFatalf("vm: BubbleError with no error message set")
		}
		in.errReg.hasError = true

	case OpReturnIfError:
		if in.errReg.hasError {
			if len(in.frames) == 0 {
				return true, nil
			}
			frame := in.frames[len(in.frames)-1]
			in.frames = in.frames[:len(in.frames)-1]
			in.vsi = frame.valueStackArgsStart
			in.osi = frame.objectStackArgsStart
			in.procIdx = frame.callerProcedure
			in.pc = frame.returnInstruction
		}

	case OpBranchIfError:
		target := getUint32(in.readOperand(instr, 4))
		if in.errReg.hasError {
			in.pc = int(target)
		}

	case OpRecordNew:
		b := in.readOperand(instr, 4)
		nv := int(getUint16(b[0:2]))
		no := int(getUint16(b[2:4]))
		rec := NewRecord(nv, no)
		for i := no - 1; i >= 0; i-- {
			o, err := in.popObject()
			if err != nil {
				return false, err
			}
			rec.objects[i] = o
		}
		for i := nv - 1; i >= 0; i-- {
			v, err := in.popValue()
			if err != nil {
				return false, err
			}
			rec.values[i] = v
		}
		if err := in.pushObject(rec); err != nil {
			return false, err
		}

	case OpRecordGetValue:
		idx := int(getUint16(in.readOperand(instr, 2)))
		obj, err := in.popObject()
		if err != nil {
			return false, err
		}
		rec, ok := obj.(*Record)
		if !ok {
			return false, newFatalf("vm: RecordGetValue on non-Record")
		}
		v, err := rec.GetValue(idx)
		if err != nil {
			return false, err
		}
		if err := in.pushValue(v); err != nil {
			return false, err
		}
	case OpRecordGetObject:
		idx := int(getUint16(in.readOperand(instr, 2)))
		obj, err := in.popObject()
		if err != nil {
			return false, err
		}
		rec, ok := obj.(*Record)
		if !ok {
			return false, newFatalf("vm: RecordGetObject on non-Record")
		}
		o, err := rec.GetObject(idx)
		if err != nil {
			return false, err
		}
		if err := in.pushObject(o); err != nil {
			return false, err
		}
	case OpRecordSetValue:
		idx := int(getUint16(in.readOperand(instr, 2)))
		obj, err := in.popObject()
		if err != nil {
			return false, err
		}
		v, err := in.popValue()
		if err != nil {
			return false, err
		}
		rec, ok := obj.(*Record)
		if !ok {
			return false, newFatalf("vm: RecordSetValue on non-Record")
		}
		next, err := rec.WithValue(idx, v)
		if err != nil {
			return false, err
		}
		if err := in.pushObject(next); err != nil {
			return false, err
		}
	case OpRecordSetObject:
		newObj, err := in.popObject()
		if err != nil {
			return false, err
		}
		recObj, err := in.popObject()
		if err != nil {
			return false, err
		}
		rec, ok := recObj.(*Record)
		if !ok {
			return false, newFatalf("vm: RecordSetObject on non-Record")
		}
		idx := int(getUint16(in.readOperand(instr, 2)))
		next, err := rec.WithObject(idx, newObj)
		if err != nil {
			return false, err
		}
		if err := in.pushObject(next); err != nil {
			return false, err
		}

	case OpValueListNew:
		n := int(getUint16(in.readOperand(instr, 2)))
		items := make([]Value, n)
		for i := n - 1; i >= 0; i-- {
			v, err := in.popValue()
			if err != nil {
				return false, err
			}
			items[i] = v
		}
		if err := in.pushObject(NewValueList(items)); err != nil {
			return false, err
		}
	case OpObjectListNew:
		n := int(getUint16(in.readOperand(instr, 2)))
		items := make([]Object, n)
		for i := n - 1; i >= 0; i-- {
			o, err := in.popObject()
			if err != nil {
				return false, err
			}
			items[i] = o
		}
		if err := in.pushObject(NewObjectList(items)); err != nil {
			return false, err
		}

	case OpDottedExpressionSetValue:
		if err := in.execDottedSet(instr, true); err != nil {
			return false, err
		}
	case OpDottedExpressionSetObject:
		if err := in.execDottedSet(instr, false); err != nil {
			return false, err
		}

	default:
		return false, newFatalf("vm: opcode %s not implemented in dispatch", op)
	}

	return false, nil
}

// readOperand returns the n bytes at pc and advances pc past them. The
// RecordSetObject handler reads its u16 operand after popping both
// operands, so callers that need a different ordering read the operand
// explicitly instead of relying on this helper running first — see the
// RecordSetObject case above.
func (in *Interpreter) readOperand(instr []byte, n int) []byte {
	b := instr[in.pc : in.pc+n]
	in.pc += n
	return b
}

func (in *Interpreter) currentArgsValueBase() int {
	if len(in.frames) == 0 {
		return 0
	}
	return in.frames[len(in.frames)-1].valueStackArgsStart
}

func (in *Interpreter) currentArgsObjectBase() int {
	if len(in.frames) == 0 {
		return 0
	}
	return in.frames[len(in.frames)-1].objectStackArgsStart
}

// currentLocalsValueBase and currentLocalsObjectBase return the start of
// the locals region, immediately above the args region on each stack:
// PushLocalValue/PushLocalObject index from there, distinct from
// PushArgumentValue/PushArgumentObject which index from the args base.
func (in *Interpreter) currentLocalsValueBase() int {
	if len(in.frames) == 0 {
		return 0
	}
	f := in.frames[len(in.frames)-1]
	return f.valueStackArgsStart + f.numArgsValues
}

func (in *Interpreter) currentLocalsObjectBase() int {
	if len(in.frames) == 0 {
		return 0
	}
	f := in.frames[len(in.frames)-1]
	return f.objectStackArgsStart + f.numArgsObjects
}

func (in *Interpreter) globalValues() []Value {
	if in.globalValuesSlice == nil {
		in.globalValuesSlice = make([]Value, in.program.GlobalValuesCount)
	}
	return in.globalValuesSlice
}

func (in *Interpreter) globalObjects() []Object {
	if in.globalObjectsSlice == nil {
		in.globalObjectsSlice = make([]Object, in.program.GlobalObjectsCount)
	}
	return in.globalObjectsSlice
}
