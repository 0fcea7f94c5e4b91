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

import "strings"

// hashObject derives a stable hash key for an Object used as a map key. Only
// String, Record, and the list kinds are meaningful map keys in practice;
// hashing recurses through them so a Record-of-Values or a ValueList can
// serve as a composite key, matching the "keys unique" contract without
// restricting key shape.
func hashObject(o Object) (string, error) {
	if o == nil {
		return "\x00nil", nil
	}
	switch v := o.(type) {
	case *StringObject:
		return "s:" + v.Hash(), nil
	case *Record:
		var b strings.Builder
		b.WriteString("r:")
		for _, val := range v.values {
			b.WriteString(val.Hash())
			b.WriteByte(',')
		}
		for _, obj := range v.objects {
			h, err := hashObject(obj)
			if err != nil {
				return "", err
			}
			b.WriteString(h)
			b.WriteByte(',')
		}
		return b.String(), nil
	case *ValueList:
		var b strings.Builder
		b.WriteString("vl:")
		for _, val := range v.items {
			b.WriteString(val.Hash())
			b.WriteByte(',')
		}
		return b.String(), nil
	case *ObjectList:
		var b strings.Builder
		b.WriteString("ol:")
		for _, obj := range v.items {
			h, err := hashObject(obj)
			if err != nil {
				return "", err
			}
			b.WriteString(h)
			b.WriteByte(',')
		}
		return b.String(), nil
	default:
		return "", newFatalf("vm: object of kind %s is not hashable as a map key", o.Kind())
	}
}
