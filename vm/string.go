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

import "unicode/utf16"

// StringObject is a UTF-16 code-unit sequence with a length. The code
// units are cached alongside the canonical UTF-8 form so length/index
// operations don't re-encode on every call; equality and hash are defined
// over the code-unit sequence, not the UTF-8 bytes.
type StringObject struct {
	utf8  string
	units []uint16
}

// NewString builds a StringObject from a Go (UTF-8) string.
func NewString(s string) *StringObject {
	return &StringObject{utf8: s, units: utf16.Encode([]rune(s))}
}

// NewStringFromUnits builds a StringObject directly from UTF-16 code units;
// Concat uses it to build its result.
func NewStringFromUnits(units []uint16) *StringObject {
	cp := make([]uint16, len(units))
	copy(cp, units)
	return &StringObject{utf8: string(utf16.Decode(cp)), units: cp}
}

func (s *StringObject) Kind() ObjectKind { return KindString }

// ToUtf8 returns the UTF-8 encoding.
func (s *StringObject) ToUtf8() string { return s.utf8 }

// Len returns the UTF-16 code-unit length.
func (s *StringObject) Len() int { return len(s.units) }

// Unit returns the code unit at index i.
func (s *StringObject) Unit(i int) (uint16, error) {
	if i < 0 || i >= len(s.units) {
		return 0, newFatalf("vm: string index %d out of range [0,%d)", i, len(s.units))
	}
	return s.units[i], nil
}

// Equal compares two strings by code-unit sequence.
func (s *StringObject) Equal(other *StringObject) bool {
	if len(s.units) != len(other.units) {
		return false
	}
	for i, u := range s.units {
		if other.units[i] != u {
			return false
		}
	}
	return true
}

// Hash derives a stable hash from the code-unit sequence, used as the map
// key for Object-keyed maps (see map.go).
func (s *StringObject) Hash() string {
	b := make([]byte, 0, 2*len(s.units))
	for _, u := range s.units {
		b = append(b, byte(u), byte(u>>8))
	}
	return string(b)
}

// Concat returns a new StringObject holding s followed by other.
func (s *StringObject) Concat(other *StringObject) *StringObject {
	units := make([]uint16, 0, len(s.units)+len(other.units))
	units = append(units, s.units...)
	units = append(units, other.units...)
	return NewStringFromUnits(units)
}
