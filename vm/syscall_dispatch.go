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

import "go.uber.org/zap"

// dispatchSystemCall implements the SystemCall/SystemCallV/SystemCallO/
// SystemCallVO opcodes: build a read-only view of the top n_vals/n_objs
// operands, invoke the registered handler, then pop the operands and push
// whatever the registry entry declares as returned (which of the four
// opcode variants was used does not change this). On handler failure,
// operands are still popped and the error register is set instead of any
// return value being pushed.
func (in *Interpreter) dispatchSystemCall(id uint16, numVals, numObjs int) error {
	entry, ok := in.bus.lookup(id)
	if !ok {
		return newFatalf("vm: system call id %d not registered", id)
	}
	if entry.numVals != numVals || entry.numObjs != numObjs {
		return newFatalf("vm: system call %q arity mismatch: bytecode says (%d,%d), registry says (%d,%d)",
			entry.name, numVals, numObjs, entry.numVals, entry.numObjs)
	}

	if in.vsi < numVals || in.osi < numObjs {
		return newFatalf("vm: system call %q: not enough operands on stack", entry.name)
	}

	vals := append([]Value(nil), in.values[in.vsi-numVals:in.vsi]...)
	objs := append([]Object(nil), in.objects[in.osi-numObjs:in.osi]...)

	in.logger.Debug("syscall", zap.String("run", in.runID.String()), zap.String("name", entry.name))

	result := entry.handler(SystemCallInput{
		Values:     vals,
		Objects:    objs,
		ConsoleIn:  in.consoleIn,
		ConsoleOut: in.consoleOut,
	})

	for i := 0; i < numVals; i++ {
		if _, err := in.popValue(); err != nil {
			return err
		}
	}
	for i := 0; i < numObjs; i++ {
		if _, err := in.popObject(); err != nil {
			return err
		}
	}

	if result.HasError {
		in.raiseError(result.ErrorCode, result.ErrorMessage)
		return nil
	}

	if entry.returnsValue {
		if err := in.pushValue(result.ReturnedValue); err != nil {
			return err
		}
	}
	if entry.returnsObject {
		if err := in.pushObject(result.ReturnedObject); err != nil {
			return err
		}
	}
	return nil
}
