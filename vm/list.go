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

// ValueList is a persistent ordered sequence of Value. Every
// mutating-looking operation returns a new list; the contract is purely
// functional behavior, so this port uses plain copy-on-write slices
// rather than a finger-tree — structural sharing is permitted but not
// required.
type ValueList struct {
	items []Value
}

// NewValueList builds a ValueList from items, copying them so the caller's
// backing array can't alias the new list.
func NewValueList(items []Value) *ValueList {
	cp := make([]Value, len(items))
	copy(cp, items)
	return &ValueList{items: cp}
}

func (l *ValueList) Kind() ObjectKind { return KindValueList }

// Len returns the number of elements.
func (l *ValueList) Len() int { return len(l.items) }

// Get returns the element at index i.
func (l *ValueList) Get(i int) (Value, error) {
	if i < 0 || i >= len(l.items) {
		return Value{}, newFatalf("vm: value list index %d out of range [0,%d)", i, len(l.items))
	}
	return l.items[i], nil
}

// With returns a new list with element i replaced (insert=false, 0<=i<len)
// or a new element inserted before i (insert=true, 0<=i<=len).
func (l *ValueList) With(insert bool, i int, v Value) (*ValueList, error) {
	if insert {
		if i < 0 || i > len(l.items) {
			return nil, newFatalf("vm: value list insert index %d out of range [0,%d]", i, len(l.items))
		}
		next := make([]Value, 0, len(l.items)+1)
		next = append(next, l.items[:i]...)
		next = append(next, v)
		next = append(next, l.items[i:]...)
		return &ValueList{items: next}, nil
	}
	if i < 0 || i >= len(l.items) {
		return nil, newFatalf("vm: value list index %d out of range [0,%d)", i, len(l.items))
	}
	next := append([]Value(nil), l.items...)
	next[i] = v
	return &ValueList{items: next}, nil
}

// Delete returns a new list with element i removed.
func (l *ValueList) Delete(i int) (*ValueList, error) {
	if i < 0 || i >= len(l.items) {
		return nil, newFatalf("vm: value list index %d out of range [0,%d)", i, len(l.items))
	}
	next := make([]Value, 0, len(l.items)-1)
	next = append(next, l.items[:i]...)
	next = append(next, l.items[i+1:]...)
	return &ValueList{items: next}, nil
}

// ConcatValueLists returns a new list holding a's elements followed by b's.
func ConcatValueLists(a, b *ValueList) *ValueList {
	next := make([]Value, 0, len(a.items)+len(b.items))
	next = append(next, a.items...)
	next = append(next, b.items...)
	return &ValueList{items: next}
}

// ObjectList is the Object-valued counterpart of ValueList.
type ObjectList struct {
	items []Object
}

// NewObjectList builds an ObjectList from items.
func NewObjectList(items []Object) *ObjectList {
	cp := make([]Object, len(items))
	copy(cp, items)
	return &ObjectList{items: cp}
}

func (l *ObjectList) Kind() ObjectKind { return KindObjectList }

// Len returns the number of elements.
func (l *ObjectList) Len() int { return len(l.items) }

// Get returns the element at index i.
func (l *ObjectList) Get(i int) (Object, error) {
	if i < 0 || i >= len(l.items) {
		return nil, newFatalf("vm: object list index %d out of range [0,%d)", i, len(l.items))
	}
	return l.items[i], nil
}

// With returns a new list with element i replaced or a new element
// inserted before i.
func (l *ObjectList) With(insert bool, i int, o Object) (*ObjectList, error) {
	if insert {
		if i < 0 || i > len(l.items) {
			return nil, newFatalf("vm: object list insert index %d out of range [0,%d]", i, len(l.items))
		}
		next := make([]Object, 0, len(l.items)+1)
		next = append(next, l.items[:i]...)
		next = append(next, o)
		next = append(next, l.items[i:]...)
		return &ObjectList{items: next}, nil
	}
	if i < 0 || i >= len(l.items) {
		return nil, newFatalf("vm: object list index %d out of range [0,%d)", i, len(l.items))
	}
	next := append([]Object(nil), l.items...)
	next[i] = o
	return &ObjectList{items: next}, nil
}

// Delete returns a new list with element i removed.
func (l *ObjectList) Delete(i int) (*ObjectList, error) {
	if i < 0 || i >= len(l.items) {
		return nil, newFatalf("vm: object list index %d out of range [0,%d)", i, len(l.items))
	}
	next := make([]Object, 0, len(l.items)-1)
	next = append(next, l.items[:i]...)
	next = append(next, l.items[i+1:]...)
	return &ObjectList{items: next}, nil
}

// ConcatObjectLists returns a new list holding a's elements followed by b's.
func ConcatObjectLists(a, b *ObjectList) *ObjectList {
	next := make([]Object, 0, len(a.items)+len(b.items))
	next = append(next, a.items...)
	next = append(next, b.items...)
	return &ObjectList{items: next}
}
