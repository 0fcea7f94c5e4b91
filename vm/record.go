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

// Record is two parallel fixed-length vectors of Value and Object,
// indexed by a compile-time slot number. Records are immutable after
// construction; With* constructors copy-and-overwrite one slot, sharing
// every other slot's reference with the source record.
type Record struct {
	values  []Value
	objects []Object
}

// NewRecord builds a Record with the given number of value and object
// slots, all zero/nil.
func NewRecord(numValues, numObjects int) *Record {
	return &Record{
		values:  make([]Value, numValues),
		objects: make([]Object, numObjects),
	}
}

func (r *Record) Kind() ObjectKind { return KindRecord }

// NumValues and NumObjects report the record's fixed arity.
func (r *Record) NumValues() int  { return len(r.values) }
func (r *Record) NumObjects() int { return len(r.objects) }

// GetValue returns the value at idx.
func (r *Record) GetValue(idx int) (Value, error) {
	if idx < 0 || idx >= len(r.values) {
		return Value{}, newFatalf("vm: record value field %d out of range [0,%d)", idx, len(r.values))
	}
	return r.values[idx], nil
}

// GetObject returns the object at idx.
func (r *Record) GetObject(idx int) (Object, error) {
	if idx < 0 || idx >= len(r.objects) {
		return nil, newFatalf("vm: record object field %d out of range [0,%d)", idx, len(r.objects))
	}
	return r.objects[idx], nil
}

// WithValue returns a new Record equal to r except slot idx holds v.
// r is left unmodified.
func (r *Record) WithValue(idx int, v Value) (*Record, error) {
	if idx < 0 || idx >= len(r.values) {
		return nil, newFatalf("vm: record value field %d out of range [0,%d)", idx, len(r.values))
	}
	next := &Record{values: append([]Value(nil), r.values...), objects: r.objects}
	next.values[idx] = v
	return next, nil
}

// WithObject returns a new Record equal to r except slot idx holds o.
func (r *Record) WithObject(idx int, o Object) (*Record, error) {
	if idx < 0 || idx >= len(r.objects) {
		return nil, newFatalf("vm: record object field %d out of range [0,%d)", idx, len(r.objects))
	}
	next := &Record{values: r.values, objects: append([]Object(nil), r.objects...)}
	next.objects[idx] = o
	return next, nil
}
