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

package syscall

import "github.com/sdizdarevic/tmbasic/vm"

// Register binds every builtin system call to bus under its fixed ID.
// An embedding host calls this once after constructing the Interpreter's
// SyscallBus and before the first Run.
func Register(bus *vm.SyscallBus) {
	bus.Register(IDPrintString, "PrintString", 0, 1, false, false, printString)
	bus.Register(IDFlushConsoleOutput, "FlushConsoleOutput", 0, 0, false, false, flushConsoleOutput)
	bus.Register(IDChr, "Chr", 1, 0, false, true, chr)
	bus.Register(IDLen, "Len", 0, 1, true, false, lenSyscall)
	bus.Register(IDCharacters, "Characters", 0, 1, false, true, characters)
	bus.Register(IDAvailableLocales, "AvailableLocales", 0, 0, false, true, availableLocales)
	bus.Register(IDDateNew, "DateNew", 3, 0, false, true, dateNew)
	bus.Register(IDDateYear, "DateYear", 0, 1, true, false, dateYear)
	bus.Register(IDDateMonth, "DateMonth", 0, 1, true, false, dateMonth)
	bus.Register(IDDateDay, "DateDay", 0, 1, true, false, dateDay)
	bus.Register(IDDateTimeNew, "DateTimeNew", 6, 0, false, true, dateTimeNew)
	bus.Register(IDOptionalValueNew, "OptionalValueNew", 2, 0, false, true, optionalValueNew)
	bus.Register(IDOptionalObjectNew, "OptionalObjectNew", 1, 1, false, true, optionalObjectNew)
}
