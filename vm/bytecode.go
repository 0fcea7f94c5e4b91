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
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Opcode is the one-byte instruction tag.
type Opcode uint8

const (
	OpExit Opcode = iota
	OpPushImmediateInt64
	OpPushImmediateDec128
	OpPushImmediateUtf8
	OpPopValue
	OpPopObject
	OpDuplicateValue
	OpDuplicateObject
	OpSwapValues
	OpSwapObjects
	OpInitLocals
	OpPushArgumentValue
	OpPushArgumentObject
	OpSetArgumentValue
	OpSetArgumentObject
	OpPushGlobalValue
	OpPushGlobalObject
	OpSetGlobalValue
	OpSetGlobalObject
	OpPushLocalValue
	OpPushLocalObject
	OpSetLocalValue
	OpSetLocalObject
	OpClearLocalObject
	OpJump
	OpBranchIfTrue
	OpBranchIfFalse
	OpCall
	OpCallV
	OpCallO
	OpReturn
	OpReturnValue
	OpReturnObject
	OpSystemCall
	OpSystemCallV
	OpSystemCallO
	OpSystemCallVO
	OpSetError
	OpClearError
	OpBubbleError
	OpReturnIfError
	OpBranchIfError
	OpRecordNew
	OpRecordGetValue
	OpRecordGetObject
	OpRecordSetValue
	OpRecordSetObject
	OpValueListNew
	OpObjectListNew
	OpDottedExpressionSetValue
	OpDottedExpressionSetObject

	opcodeCount
)

var opcodeNames = [opcodeCount]string{
	OpExit:                      "Exit",
	OpPushImmediateInt64:        "PushImmediateInt64",
	OpPushImmediateDec128:       "PushImmediateDec128",
	OpPushImmediateUtf8:         "PushImmediateUtf8",
	OpPopValue:                  "PopValue",
	OpPopObject:                 "PopObject",
	OpDuplicateValue:            "DuplicateValue",
	OpDuplicateObject:           "DuplicateObject",
	OpSwapValues:                "SwapValues",
	OpSwapObjects:               "SwapObjects",
	OpInitLocals:                "InitLocals",
	OpPushArgumentValue:         "PushArgumentValue",
	OpPushArgumentObject:        "PushArgumentObject",
	OpSetArgumentValue:          "SetArgumentValue",
	OpSetArgumentObject:         "SetArgumentObject",
	OpPushGlobalValue:           "PushGlobalValue",
	OpPushGlobalObject:          "PushGlobalObject",
	OpSetGlobalValue:            "SetGlobalValue",
	OpSetGlobalObject:           "SetGlobalObject",
	OpPushLocalValue:            "PushLocalValue",
	OpPushLocalObject:           "PushLocalObject",
	OpSetLocalValue:             "SetLocalValue",
	OpSetLocalObject:            "SetLocalObject",
	OpClearLocalObject:          "ClearLocalObject",
	OpJump:                      "Jump",
	OpBranchIfTrue:              "BranchIfTrue",
	OpBranchIfFalse:             "BranchIfFalse",
	OpCall:                      "Call",
	OpCallV:                     "CallV",
	OpCallO:                     "CallO",
	OpReturn:                    "Return",
	OpReturnValue:               "ReturnValue",
	OpReturnObject:              "ReturnObject",
	OpSystemCall:                "SystemCall",
	OpSystemCallV:               "SystemCallV",
	OpSystemCallO:               "SystemCallO",
	OpSystemCallVO:              "SystemCallVO",
	OpSetError:                  "SetError",
	OpClearError:                "ClearError",
	OpBubbleError:               "BubbleError",
	OpReturnIfError:             "ReturnIfError",
	OpBranchIfError:             "BranchIfError",
	OpRecordNew:                 "RecordNew",
	OpRecordGetValue:            "RecordGetValue",
	OpRecordGetObject:           "RecordGetObject",
	OpRecordSetValue:            "RecordSetValue",
	OpRecordSetObject:           "RecordSetObject",
	OpValueListNew:              "ValueListNew",
	OpObjectListNew:             "ObjectListNew",
	OpDottedExpressionSetValue:  "DottedExpressionSetValue",
	OpDottedExpressionSetObject: "DottedExpressionSetObject",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", op)
}

func (op Opcode) valid() bool { return op < opcodeCount }

// operandWidth returns the fixed byte width of an opcode's immediate
// operands (excluding any trailing variable-length payload, which
// PushImmediateUtf8 and DottedExpressionSet* decode specially). For the
// dotted-set opcodes this is the three count bytes only; the suffix
// descriptors that follow are not included.
func operandWidth(op Opcode) int {
	switch op {
	case OpExit, OpPopValue, OpPopObject, OpDuplicateValue, OpDuplicateObject,
		OpSwapValues, OpSwapObjects, OpReturn, OpClearError, OpBubbleError,
		OpReturnIfError:
		return 0
	case OpPushImmediateInt64:
		return 8
	case OpPushImmediateDec128:
		return 1 + 1 + 8 + 8 + 8 // tag, sign, hi, lo, exp
	case OpPushImmediateUtf8:
		return 4 // length prefix; payload bytes follow separately
	case OpInitLocals:
		return 2 + 2
	case OpPushArgumentValue, OpPushArgumentObject, OpSetArgumentValue, OpSetArgumentObject:
		return 1
	case OpPushGlobalValue, OpPushGlobalObject, OpSetGlobalValue, OpSetGlobalObject,
		OpPushLocalValue, OpPushLocalObject, OpSetLocalValue, OpSetLocalObject, OpClearLocalObject:
		return 2
	case OpJump, OpBranchIfTrue, OpBranchIfFalse, OpBranchIfError:
		return 4
	case OpCall, OpCallV, OpCallO:
		return 4 + 1 + 1
	case OpSystemCall, OpSystemCallV, OpSystemCallO, OpSystemCallVO:
		return 2 + 1 + 1
	case OpReturnValue, OpReturnObject:
		return 0
	case OpSetError:
		return 0
	case OpRecordNew:
		return 2 + 2
	case OpRecordGetValue, OpRecordGetObject, OpRecordSetValue, OpRecordSetObject:
		return 2
	case OpValueListNew, OpObjectListNew:
		return 2
	case OpDottedExpressionSetValue, OpDottedExpressionSetObject:
		return 1 + 1 + 1 // num_suffixes, num_key_values, num_key_objects; suffix bytes are variable
	default:
		return 0
	}
}

// putUint16/putUint32/putUint64/putInt64 are little-endian encode helpers
// used by builder.go, matching the wire format's "little-endian, no padding."
func putUint16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func putUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func putUint64(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }
func putInt64(b []byte, v int64)   { binary.LittleEndian.PutUint64(b, uint64(v)) }

func getUint16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func getUint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func getUint64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
func getInt64(b []byte) int64   { return int64(binary.LittleEndian.Uint64(b)) }

// Disassemble renders a procedure's instruction stream as human-readable
// text, one instruction per line with its byte offset, mnemonic, and
// decoded operands. Adapted from probe-lang/lang/vm/opcodes.go's
// Disassemble, extended for this VM's variable-width dotted-set operands
// and colorized with fatih/color.
func Disassemble(instructions []byte) string {
	mnemonic := color.New(color.FgCyan, color.Bold)
	operand := color.New(color.FgYellow)

	var b strings.Builder
	pc := 0
	for pc < len(instructions) {
		start := pc
		op := Opcode(instructions[pc])
		pc++
		fmt.Fprintf(&b, "%04x ", start)
		if !op.valid() {
			fmt.Fprintf(&b, "<invalid opcode %d>\n", instructions[start])
			continue
		}
		b.WriteString(mnemonic.Sprint(op.String()))

		switch op {
		case OpPushImmediateInt64:
			b.WriteString(" " + operand.Sprint(getInt64(instructions[pc:pc+8])))
			pc += 8
		case OpPushImmediateDec128:
			tag, sign := instructions[pc], instructions[pc+1]
			hi := getUint64(instructions[pc+2 : pc+10])
			lo := getUint64(instructions[pc+10 : pc+18])
			exp := getInt64(instructions[pc+18 : pc+26])
			fmt.Fprintf(&b, " tag=%d sign=%d hi=%d lo=%d exp=%d", tag, sign, hi, lo, exp)
			pc += 26
		case OpPushImmediateUtf8:
			n := int(getUint32(instructions[pc : pc+4]))
			pc += 4
			fmt.Fprintf(&b, " %q", string(instructions[pc:pc+n]))
			pc += n
		case OpInitLocals:
			nv := getUint16(instructions[pc : pc+2])
			no := getUint16(instructions[pc+2 : pc+4])
			fmt.Fprintf(&b, " n_vals=%d n_objs=%d", nv, no)
			pc += 4
		case OpPushArgumentValue, OpPushArgumentObject, OpSetArgumentValue, OpSetArgumentObject:
			fmt.Fprintf(&b, " idx=%d", instructions[pc])
			pc++
		case OpPushGlobalValue, OpPushGlobalObject, OpSetGlobalValue, OpSetGlobalObject,
			OpPushLocalValue, OpPushLocalObject, OpSetLocalValue, OpSetLocalObject, OpClearLocalObject:
			fmt.Fprintf(&b, " idx=%d", getUint16(instructions[pc:pc+2]))
			pc += 2
		case OpJump, OpBranchIfTrue, OpBranchIfFalse, OpBranchIfError:
			fmt.Fprintf(&b, " target=0x%04x", getUint32(instructions[pc:pc+4]))
			pc += 4
		case OpCall, OpCallV, OpCallO:
			procIdx := getUint32(instructions[pc : pc+4])
			nv, no := instructions[pc+4], instructions[pc+5]
			fmt.Fprintf(&b, " proc=%d n_vals=%d n_objs=%d", procIdx, nv, no)
			pc += 6
		case OpSystemCall, OpSystemCallV, OpSystemCallO, OpSystemCallVO:
			id := getUint16(instructions[pc : pc+2])
			nv, no := instructions[pc+2], instructions[pc+3]
			fmt.Fprintf(&b, " id=%d n_vals=%d n_objs=%d", id, nv, no)
			pc += 4
		case OpRecordNew:
			nv := getUint16(instructions[pc : pc+2])
			no := getUint16(instructions[pc+2 : pc+4])
			fmt.Fprintf(&b, " n_vals=%d n_objs=%d", nv, no)
			pc += 4
		case OpRecordGetValue, OpRecordGetObject, OpRecordSetValue, OpRecordSetObject,
			OpValueListNew, OpObjectListNew:
			fmt.Fprintf(&b, " idx=%d", getUint16(instructions[pc:pc+2]))
			pc += 2
		case OpDottedExpressionSetValue, OpDottedExpressionSetObject:
			numSuffixes := int(instructions[pc])
			numKeyV, numKeyO := instructions[pc+1], instructions[pc+2]
			pc += 3
			fmt.Fprintf(&b, " suffixes=%d key_vals=%d key_objs=%d [", numSuffixes, numKeyV, numKeyO)
			for i := 0; i < numSuffixes; i++ {
				tag := instructions[pc]
				pc++
				if tag == 0x01 || tag == 0x02 {
					fmt.Fprintf(&b, "%#x(field=%d) ", tag, getUint16(instructions[pc:pc+2]))
					pc += 2
				} else {
					fmt.Fprintf(&b, "%#x ", tag)
				}
			}
			b.WriteString("]")
		}
		b.WriteString("\n")
	}
	return b.String()
}
