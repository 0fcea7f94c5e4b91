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
	"testing"

	"github.com/stretchr/testify/require"
)

func oneProcProgram(instructions []byte, globalValues, globalObjects int) *Program {
	return &Program{
		Procedures: []*Procedure{
			{Name: "main", Instructions: instructions},
		},
		GlobalValuesCount:     globalValues,
		GlobalObjectsCount:    globalObjects,
		StartupProcedureIndex: 0,
	}
}

func newTestInterpreter(program *Program) *Interpreter {
	return NewInterpreter(program, nil, nil, WithStackCapacities(64, 64))
}

// Scenario 1: Smoke.
func TestSmoke(t *testing.T) {
	instrs := NewBuilder().PushImmediateInt64(42).Exit().Bytes()
	in := newTestInterpreter(oneProcProgram(instrs, 0, 0))
	require.NoError(t, in.Init(0))

	resumable, err := in.Run(100)
	require.NoError(t, err)
	require.False(t, resumable)
	require.Nil(t, in.GetError())
	require.Equal(t, 1, in.vsi)
	require.Equal(t, int64(42), in.values[0].GetInt64())
}

// Scenario 2: Branch.
func TestBranch(t *testing.T) {
	b := NewBuilder()
	b.PushImmediateInt64(0)
	branchAt := b.Len()
	b.BranchIfFalse(0) // patched below
	b.PushImmediateInt64(1)
	jumpAt := b.Len()
	b.Jump(0) // patched below
	labelL := b.Len()
	b.PushImmediateInt64(2)
	labelE := b.Len()
	b.Exit()

	instrs := b.Bytes()
	putUint32(instrs[branchAt+1:branchAt+5], uint32(labelL))
	putUint32(instrs[jumpAt+1:jumpAt+5], uint32(labelE))

	in := newTestInterpreter(oneProcProgram(instrs, 0, 0))
	require.NoError(t, in.Init(0))
	resumable, err := in.Run(100)
	require.NoError(t, err)
	require.False(t, resumable)
	require.Equal(t, 1, in.vsi)
	require.Equal(t, int64(2), in.values[0].GetInt64())
}

// Scenario 3: Persistent record set.
func TestPersistentRecordSet(t *testing.T) {
	instrs := NewBuilder().
		PushImmediateInt64(7).
		RecordNew(1, 0).
		DuplicateObject().
		PushImmediateInt64(9).
		RecordSetValue(0).
		Exit().
		Bytes()

	in := newTestInterpreter(oneProcProgram(instrs, 0, 0))
	require.NoError(t, in.Init(0))
	resumable, err := in.Run(100)
	require.NoError(t, err)
	require.False(t, resumable)
	require.Equal(t, 2, in.osi)

	r0 := in.objects[0].(*Record)
	r1 := in.objects[1].(*Record)
	v0, err := r0.GetValue(0)
	require.NoError(t, err)
	require.Equal(t, int64(7), v0.GetInt64())
	v1, err := r1.GetValue(0)
	require.NoError(t, err)
	require.Equal(t, int64(9), v1.GetInt64())
}

// Scenario 4: Dotted update.
func TestDottedUpdate(t *testing.T) {
	b := NewBuilder()
	// inner = Record{a=1}
	b.PushImmediateInt64(1).RecordNew(1, 0)
	// outer = Record{inner=inner}
	b.RecordNew(0, 1)
	// DottedExpressionSetValue outer.inner.a = 5, suffixes [0x02 field=0, 0x01 field=0]
	b.PushImmediateInt64(5)
	b.DottedExpressionSetValue([]DottedSuffix{
		{Tag: 0x02, FieldIdx: 0},
		{Tag: 0x01, FieldIdx: 0},
	}, 0, 0)
	b.Exit()

	in := newTestInterpreter(oneProcProgram(b.Bytes(), 0, 0))
	require.NoError(t, in.Init(0))
	resumable, err := in.Run(100)
	require.NoError(t, err)
	require.False(t, resumable)

	require.Equal(t, 1, in.osi)
	newOuter := in.objects[0].(*Record)
	newInnerObj, err := newOuter.GetObject(0)
	require.NoError(t, err)
	newInner := newInnerObj.(*Record)
	a, err := newInner.GetValue(0)
	require.NoError(t, err)
	require.Equal(t, int64(5), a.GetInt64())
}

// Scenario 5: Map idempotence.
func TestMapIdempotence(t *testing.T) {
	m := NewValueToValueMap()
	k := ValueFromInt64(1)
	v := ValueFromInt64(2)
	m = m.Put(k, v)
	m = m.Put(k, v)
	require.Equal(t, 1, m.Len())
	got, ok := m.Get(k)
	require.True(t, ok)
	require.True(t, got.Equal(v))
}

// Scenario 6: Error propagation.
func TestErrorPropagation(t *testing.T) {
	const failingSyscallID = 1

	instrs := NewBuilder().
		SystemCall(failingSyscallID, 0, 0).
		ReturnIfError().
		PushImmediateInt64(99).
		Exit().
		Bytes()

	in := newTestInterpreter(oneProcProgram(instrs, 0, 0))
	in.RegisterSystemCall(failingSyscallID, "AlwaysFails", 0, 0, false, false, func(SystemCallInput) SystemCallResult {
		return SystemCallResult{
			HasError:     true,
			ErrorCode:    ValueFromInt32(int32(ErrorCodeIoFailure)),
			ErrorMessage: "synthetic failure",
		}
	})
	require.NoError(t, in.Init(0))

	resumable, err := in.Run(100)
	require.NoError(t, err)
	require.False(t, resumable)

	vmErr := in.GetError()
	require.NotNil(t, vmErr)
	require.Equal(t, "synthetic failure", vmErr.Message)
	require.Equal(t, 0, len(in.frames))
}

// Universal invariant: empty list constructors are legal (Open Question 1).
func TestEmptyListConstructorsAreLegal(t *testing.T) {
	instrs := NewBuilder().ValueListNew(0).ObjectListNew(0).Exit().Bytes()
	in := newTestInterpreter(oneProcProgram(instrs, 0, 0))
	require.NoError(t, in.Init(0))
	resumable, err := in.Run(100)
	require.NoError(t, err)
	require.False(t, resumable)
	require.Equal(t, 2, in.osi)
	vl := in.objects[0].(*ValueList)
	ol := in.objects[1].(*ObjectList)
	require.Equal(t, 0, vl.Len())
	require.Equal(t, 0, ol.Len())
}

// Call/return balance: calling a procedure that pushes and returns a value
// restores (vsi, osi) to the caller's pre-call value plus the return.
func TestCallReturnBalance(t *testing.T) {
	callee := NewBuilder().PushImmediateInt64(123).ReturnValue().Bytes()
	caller := NewBuilder().CallV(1, 0, 0).Exit().Bytes()

	program := &Program{
		Procedures: []*Procedure{
			{Name: "main", Instructions: caller},
			{Name: "callee", Instructions: callee, ReturnsValue: true},
		},
		StartupProcedureIndex: 0,
	}
	in := newTestInterpreter(program)
	require.NoError(t, in.Init(0))
	resumable, err := in.Run(100)
	require.NoError(t, err)
	require.False(t, resumable)
	require.Equal(t, 1, in.vsi)
	require.Equal(t, int64(123), in.values[0].GetInt64())
}
