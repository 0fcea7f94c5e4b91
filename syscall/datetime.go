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
	"time"

	"github.com/sdizdarevic/tmbasic/vm"
)

// A Date is laid out as a one-value-slot Record: {epochDay}. A
// single epoch-day count keeps year/month/day derivable without carrying
// a full time.Time through bytecode-visible state.
const dateEpochDayField = 0

func epochDay(t time.Time) int64 {
	return t.Unix() / 86400
}

func dateFromEpochDay(days int64) time.Time {
	return time.Unix(days*86400, 0).UTC()
}

// dateNew implements a Date constructor from year/month/day: (3,0,returns
// object), one of the date/time constructors.
func dateNew(in vm.SystemCallInput) vm.SystemCallResult {
	year := int(in.Values[0].GetInt32())
	month := int(in.Values[1].GetInt32())
	day := int(in.Values[2].GetInt32())
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	rec := vm.NewRecord(1, 0)
	next, err := rec.WithValue(dateEpochDayField, vm.ValueFromInt64(epochDay(t)))
	if err != nil {
		return errResult(vm.ErrorCodeInternal, err.Error())
	}
	return vm.SystemCallResult{ReturnedObject: next}
}

func dateField(in vm.SystemCallInput, extract func(time.Time) int32) vm.SystemCallResult {
	rec, ok := in.Objects[0].(*vm.Record)
	if !ok {
		return errResult(vm.ErrorCodeInternal, "Date accessor: operand is not a Record")
	}
	days, err := rec.GetValue(dateEpochDayField)
	if err != nil {
		return errResult(vm.ErrorCodeInternal, err.Error())
	}
	t := dateFromEpochDay(days.GetInt64())
	return vm.SystemCallResult{ReturnedValue: vm.ValueFromInt32(extract(t))}
}

// dateYear, dateMonth, dateDay implement the Date accessors:
// (0,1,returns value).
func dateYear(in vm.SystemCallInput) vm.SystemCallResult {
	return dateField(in, func(t time.Time) int32 { return int32(t.Year()) })
}

func dateMonth(in vm.SystemCallInput) vm.SystemCallResult {
	return dateField(in, func(t time.Time) int32 { return int32(t.Month()) })
}

func dateDay(in vm.SystemCallInput) vm.SystemCallResult {
	return dateField(in, func(t time.Time) int32 { return int32(t.Day()) })
}

// dateTimeNew implements a DateTime constructor: (6,0,returns object),
// {year, month, day, hour, minute, second} folded to a Unix-seconds slot,
// mirroring dateNew's epoch-based Record encoding.
func dateTimeNew(in vm.SystemCallInput) vm.SystemCallResult {
	year := int(in.Values[0].GetInt32())
	month := int(in.Values[1].GetInt32())
	day := int(in.Values[2].GetInt32())
	hour := int(in.Values[3].GetInt32())
	minute := int(in.Values[4].GetInt32())
	second := int(in.Values[5].GetInt32())
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	rec := vm.NewRecord(1, 0)
	next, err := rec.WithValue(0, vm.ValueFromInt64(t.Unix()))
	if err != nil {
		return errResult(vm.ErrorCodeInternal, err.Error())
	}
	return vm.SystemCallResult{ReturnedObject: next}
}
