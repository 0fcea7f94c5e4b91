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

// optionalValueNew implements an optional-value constructor: (2,0,returns
// object) — Values[0] is a present/missing flag, Values[1] the payload
// when present, mirroring the has_value/value pair an Optional carries
// internally.
func optionalValueNew(in vm.SystemCallInput) vm.SystemCallResult {
	if in.Values[0].GetBoolean() {
		return vm.SystemCallResult{ReturnedObject: vm.NewPresentValueOptional(in.Values[1])}
	}
	return vm.SystemCallResult{ReturnedObject: vm.NewMissingValueOptional()}
}

// optionalObjectNew implements an optional-object constructor: (1,1,
// returns object) — the value operand is the present/missing flag, the
// object operand the payload when present.
func optionalObjectNew(in vm.SystemCallInput) vm.SystemCallResult {
	if in.Values[0].GetBoolean() {
		return vm.SystemCallResult{ReturnedObject: vm.NewPresentObjectOptional(in.Objects[0])}
	}
	return vm.SystemCallResult{ReturnedObject: vm.NewMissingObjectOptional()}
}
