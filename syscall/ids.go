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

// Package syscall supplies the concrete handlers for tmbasic's fixed
// system-call registry: console I/O, string primitives,
// locale enumeration, date/time construction, and optional constructors.
// The VM itself only knows about vm.SyscallBus/vm.SyscallHandler; this
// package is the host-side implementation bound to a bus at startup.
package syscall

// System call IDs. Stable once assigned: bytecode references these
// numerically, so a compiler targeting this VM must agree on the table.
const (
	IDPrintString uint16 = 1
	IDFlushConsoleOutput uint16 = 2
	IDChr uint16 = 3
	IDLen uint16 = 4
	IDCharacters uint16 = 5
	IDAvailableLocales uint16 = 6
	IDDateNew uint16 = 7
	IDDateYear uint16 = 8
	IDDateMonth uint16 = 9
	IDDateDay uint16 = 10
	IDDateTimeNew uint16 = 11
	IDOptionalValueNew uint16 = 12
	IDOptionalObjectNew uint16 = 13
)
