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

// callFrame is the saved caller context: who called, where to
// resume, the arg-region shape on both stacks, and whether the call
// expects a value or object return. Locals live immediately above the
// args region on each stack.
type callFrame struct {
	callerProcedure       int
	returnInstruction     int
	numArgsValues         int
	numArgsObjects        int
	valueStackArgsStart   int
	objectStackArgsStart  int
	returnsValue          bool
	returnsObject         bool
}
