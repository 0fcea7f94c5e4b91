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

// ValueOptional is either present (carrying a Value) or missing.
type ValueOptional struct {
	present bool
	val     Value
}

// NewMissingValueOptional returns a missing ValueOptional.
func NewMissingValueOptional() *ValueOptional { return &ValueOptional{} }

// NewPresentValueOptional returns a ValueOptional carrying v.
func NewPresentValueOptional(v Value) *ValueOptional {
	return &ValueOptional{present: true, val: v}
}

func (o *ValueOptional) Kind() ObjectKind { return KindValueOptional }

// HasValue reports whether a payload is present.
func (o *ValueOptional) HasValue() bool { return o.present }

// Value returns the payload; callers must check HasValue first.
func (o *ValueOptional) Value() (Value, error) {
	if !o.present {
		return Value{}, newFatalf("vm: read of missing value optional")
	}
	return o.val, nil
}

// ObjectOptional is the Object-valued counterpart of ValueOptional.
type ObjectOptional struct {
	present bool
	val     Object
}

// NewMissingObjectOptional returns a missing ObjectOptional.
func NewMissingObjectOptional() *ObjectOptional { return &ObjectOptional{} }

// NewPresentObjectOptional returns an ObjectOptional carrying v.
func NewPresentObjectOptional(v Object) *ObjectOptional {
	return &ObjectOptional{present: true, val: v}
}

func (o *ObjectOptional) Kind() ObjectKind { return KindObjectOptional }

// HasValue reports whether a payload is present.
func (o *ObjectOptional) HasValue() bool { return o.present }

// Value returns the payload; callers must check HasValue first.
func (o *ObjectOptional) Value() (Object, error) {
	if !o.present {
		return nil, newFatalf("vm: read of missing object optional")
	}
	return o.val, nil
}
