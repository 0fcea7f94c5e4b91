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

import (
	"golang.org/x/text/unicode/norm"

	"github.com/sdizdarevic/tmbasic/vm"
)

// printString implements PrintString(s): representative entry,
// (n_vals=0, n_objs=1, no return).
func printString(in vm.SystemCallInput) vm.SystemCallResult {
	s, ok := in.Objects[0].(*vm.StringObject)
	if !ok {
		return errResult(vm.ErrorCodeInternal, "PrintString: operand is not a String")
	}
	if in.ConsoleOut != nil {
		if _, err := in.ConsoleOut.WriteString(s.ToUtf8()); err != nil {
			return errResult(vm.ErrorCodeIoFailure, err.Error())
		}
	}
	return vm.SystemCallResult{}
}

// flushConsoleOutput implements FlushConsoleOutput: (0,0,no return).
// The console stream this VM is handed is unbuffered at this layer, so
// there's nothing to flush; the call exists for bytecode compatibility
// with hosts that buffer console output themselves.
func flushConsoleOutput(in vm.SystemCallInput) vm.SystemCallResult {
	return vm.SystemCallResult{}
}

// chr implements Chr(n) -> String: (1,0,returns object).
func chr(in vm.SystemCallInput) vm.SystemCallResult {
	n := in.Values[0].GetInt32()
	return vm.SystemCallResult{ReturnedObject: vm.NewString(string(rune(n)))}
}

// lenSyscall implements Len(s) -> Number: (0,1,returns value).
func lenSyscall(in vm.SystemCallInput) vm.SystemCallResult {
	s, ok := in.Objects[0].(*vm.StringObject)
	if !ok {
		return errResult(vm.ErrorCodeInternal, "Len: operand is not a String")
	}
	return vm.SystemCallResult{ReturnedValue: vm.ValueFromInt32(int32(s.Len()))}
}

// characters implements Characters(s) -> ObjectList<String>:
// (0,1,returns object). Splits by Unicode scalar value after NFC
// normalization. No locale operand is accepted, and the split is not a
// locale-aware grapheme-cluster break.
func characters(in vm.SystemCallInput) vm.SystemCallResult {
	s, ok := in.Objects[0].(*vm.StringObject)
	if !ok {
		return errResult(vm.ErrorCodeInternal, "Characters: operand is not a String")
	}
	normalized := norm.NFC.String(s.ToUtf8())
	items := make([]vm.Object, 0, len(normalized))
	for _, r := range normalized {
		items = append(items, vm.NewString(string(r)))
	}
	return vm.SystemCallResult{ReturnedObject: vm.NewObjectList(items)}
}

// availableLocales implements AvailableLocales -> ObjectList<String>:
// (0,0,returns object). Enumerates a fixed small set of BCP-47 tags
// rather than a full ICU locale database.
func availableLocales(in vm.SystemCallInput) vm.SystemCallResult {
	tags := []string{"en", "en-US", "en-GB", "de", "fr", "es", "ja", "zh"}
	items := make([]vm.Object, 0, len(tags))
	for _, t := range tags {
		items = append(items, vm.NewString(t))
	}
	return vm.SystemCallResult{ReturnedObject: vm.NewObjectList(items)}
}

func errResult(code vm.ErrorCode, message string) vm.SystemCallResult {
	return vm.SystemCallResult{
		HasError:     true,
		ErrorCode:    vm.ValueFromInt32(int32(code)),
		ErrorMessage: message,
	}
}
