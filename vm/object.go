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

// ObjectKind discriminates the eleven runtime object shapes.
type ObjectKind uint8

const (
	KindString ObjectKind = iota
	KindRecord
	KindValueList
	KindObjectList
	KindValueToValueMap
	KindValueToObjectMap
	KindObjectToValueMap
	KindObjectToObjectMap
	KindValueOptional
	KindObjectOptional
	KindProcedureRef
)

func (k ObjectKind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindRecord:
		return "Record"
	case KindValueList:
		return "ValueList"
	case KindObjectList:
		return "ObjectList"
	case KindValueToValueMap:
		return "ValueToValueMap"
	case KindValueToObjectMap:
		return "ValueToObjectMap"
	case KindObjectToValueMap:
		return "ObjectToValueMap"
	case KindObjectToObjectMap:
		return "ObjectToObjectMap"
	case KindValueOptional:
		return "ValueOptional"
	case KindObjectOptional:
		return "ObjectOptional"
	case KindProcedureRef:
		return "ProcedureRef"
	default:
		return "Unknown"
	}
}

// Object is any non-scalar runtime datum. Every concrete object type
// (StringObject, *Record, *ValueList, ...) implements this and is
// immutable once constructed. Go's garbage collector retires the manual
// reference-counting the original relies on: since object graphs are
// acyclic by construction, there is no cycle a GC could fail to collect,
// so plain GC-managed pointers are a faithful, simpler substitute and no
// refcount field is carried on any object.
type Object interface {
	Kind() ObjectKind
}
