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

// Procedure is a frozen bytecode body plus metadata: a compiled BASIC
// subroutine or function. Procedures live for the
// Program's lifetime and are never mutated after Program load.
type Procedure struct {
	Name             string
	Instructions     []byte
	ParamValueCount  int
	ParamObjectCount int
	ReturnsValue     bool
	ReturnsObject    bool
}

// ProcedureRef is the Object-kind wrapper around a Procedure index, used
// when a procedure is passed around as a first-class object (e.g. bound
// into a record or list); the VM's own opcode set never produces one
// directly, but the object model's kind enum reserves the shape for
// callers that build composites containing procedure references.
type ProcedureRef struct {
	ProcIndex int
}

func (p *ProcedureRef) Kind() ObjectKind { return KindProcedureRef }
