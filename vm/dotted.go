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

// dottedSuffix is one decoded suffix descriptor from the
// DottedExpressionSet* operand stream.
type dottedSuffix struct {
	tag      byte
	fieldIdx uint16
}

// execDottedSet implements the structural-update engine: it decodes the
// suffix chain, pops the keys/target/source off both stacks in the order
// the stack layout lays them out, then rebuilds every container on the
// path via the relevant With* constructor.
//
// Key popping order: the layout puts the last-encountered suffix's key
// on top of its stack, so this collects all value-keys and all
// object-keys via plain pops (which yields them last-suffix-first),
// storing each pop from the end of its array backwards so the arrays end
// up in suffix-encounter order before recursing.
func (in *Interpreter) execDottedSet(instr []byte, isValue bool) error {
	numSuffixes := int(instr[in.pc])
	numKeyValues := int(instr[in.pc+1])
	numKeyObjects := int(instr[in.pc+2])
	in.pc += 3

	suffixes := make([]dottedSuffix, numSuffixes)
	for i := 0; i < numSuffixes; i++ {
		tag := instr[in.pc]
		in.pc++
		var fieldIdx uint16
		if tag == 0x01 || tag == 0x02 {
			fieldIdx = getUint16(instr[in.pc : in.pc+2])
			in.pc += 2
		}
		suffixes[i] = dottedSuffix{tag: tag, fieldIdx: fieldIdx}
	}
	if numSuffixes == 0 {
		return newFatalf("vm: dotted-set with zero suffixes")
	}

	keyObjectsRev := make([]Object, numKeyObjects)
	for i := numKeyObjects - 1; i >= 0; i-- {
		o, err := in.popObject()
		if err != nil {
			return err
		}
		keyObjectsRev[i] = o
	}

	targetBase, err := in.popObject()
	if err != nil {
		return err
	}

	var sourceObject Object
	if !isValue {
		sourceObject, err = in.popObject()
		if err != nil {
			return err
		}
	}

	keyValuesRev := make([]Value, numKeyValues)
	for i := numKeyValues - 1; i >= 0; i-- {
		v, err := in.popValue()
		if err != nil {
			return err
		}
		keyValuesRev[i] = v
	}

	var sourceValue Value
	if isValue {
		sourceValue, err = in.popValue()
		if err != nil {
			return err
		}
	}

	st := &dottedState{
		suffixes:     suffixes,
		keyValues:    keyValuesRev,
		keyObjects:   keyObjectsRev,
		sourceValue:  sourceValue,
		sourceObject: sourceObject,
		isValue:      isValue,
	}
	newBase, err := st.recurse(targetBase, 0)
	if err != nil {
		return err
	}
	return in.pushObject(newBase)
}

type dottedState struct {
	suffixes   []dottedSuffix
	keyValues  []Value
	keyObjects []Object

	valueKeyCursor  int
	objectKeyCursor int

	sourceValue  Value
	sourceObject Object
	isValue      bool
}

func (st *dottedState) nextValueKey() (Value, error) {
	if st.valueKeyCursor >= len(st.keyValues) {
		return Value{}, newFatalf("vm: dotted-set ran out of value keys")
	}
	k := st.keyValues[st.valueKeyCursor]
	st.valueKeyCursor++
	return k, nil
}

func (st *dottedState) nextObjectKey() (Object, error) {
	if st.objectKeyCursor >= len(st.keyObjects) {
		return nil, newFatalf("vm: dotted-set ran out of object keys")
	}
	k := st.keyObjects[st.objectKeyCursor]
	st.objectKeyCursor++
	return k, nil
}

// recurse rebuilds base and everything above it on the path, applying
// suffixes[idx:] in order.
func (st *dottedState) recurse(base Object, idx int) (Object, error) {
	suffix := st.suffixes[idx]
	isLast := idx == len(st.suffixes)-1

	switch suffix.tag {
	case 0x01: // Record value field — always terminal, Values have no substructure.
		if !isLast {
			return nil, newFatalf("vm: dotted-set tag 0x01 (record value field) must be the last suffix")
		}
		if !st.isValue {
			return nil, newFatalf("vm: dotted-set tag 0x01 requires a value source")
		}
		rec, ok := base.(*Record)
		if !ok {
			return nil, newFatalf("vm: dotted-set tag 0x01 on non-Record base (%s)", base.Kind())
		}
		return rec.WithValue(int(suffix.fieldIdx), st.sourceValue)

	case 0x02: // Record object field — may be terminal or a descent point.
		rec, ok := base.(*Record)
		if !ok {
			return nil, newFatalf("vm: dotted-set tag 0x02 on non-Record base (%s)", base.Kind())
		}
		if isLast {
			if st.isValue {
				return nil, newFatalf("vm: dotted-set tag 0x02 terminal requires an object source")
			}
			return rec.WithObject(int(suffix.fieldIdx), st.sourceObject)
		}
		child, err := rec.GetObject(int(suffix.fieldIdx))
		if err != nil {
			return nil, err
		}
		newChild, err := st.recurse(child, idx+1)
		if err != nil {
			return nil, err
		}
		return rec.WithObject(int(suffix.fieldIdx), newChild)

	case 0x03: // Value index/key -> value element — always terminal.
		key, err := st.nextValueKey()
		if err != nil {
			return nil, err
		}
		if !isLast {
			return nil, newFatalf("vm: dotted-set tag 0x03 must be the last suffix")
		}
		if !st.isValue {
			return nil, newFatalf("vm: dotted-set tag 0x03 requires a value source")
		}
		switch b := base.(type) {
		case *ValueList:
			return b.With(false, int(key.GetInt32()), st.sourceValue)
		case *ValueToValueMap:
			return b.Put(key, st.sourceValue), nil
		default:
			return nil, newFatalf("vm: dotted-set tag 0x03 on unsupported base kind %s", base.Kind())
		}

	case 0x04: // Value index/key -> object element.
		key, err := st.nextValueKey()
		if err != nil {
			return nil, err
		}
		switch b := base.(type) {
		case *ObjectList:
			idx32 := int(key.GetInt32())
			if isLast {
				if st.isValue {
					return nil, newFatalf("vm: dotted-set tag 0x04 terminal requires an object source")
				}
				return b.With(false, idx32, st.sourceObject)
			}
			child, err := b.Get(idx32)
			if err != nil {
				return nil, err
			}
			newChild, err := st.recurse(child, idx+1)
			if err != nil {
				return nil, err
			}
			return b.With(false, idx32, newChild)
		case *ValueToObjectMap:
			if isLast {
				if st.isValue {
					return nil, newFatalf("vm: dotted-set tag 0x04 terminal requires an object source")
				}
				return b.Put(key, st.sourceObject), nil
			}
			child, ok := b.Get(key)
			if !ok {
				return nil, newFatalf("vm: dotted-set tag 0x04 key not found in map")
			}
			newChild, err := st.recurse(child, idx+1)
			if err != nil {
				return nil, err
			}
			return b.Put(key, newChild), nil
		default:
			return nil, newFatalf("vm: dotted-set tag 0x04 on unsupported base kind %s", base.Kind())
		}

	case 0x05: // Object key -> value element — always terminal.
		key, err := st.nextObjectKey()
		if err != nil {
			return nil, err
		}
		if !isLast {
			return nil, newFatalf("vm: dotted-set tag 0x05 must be the last suffix")
		}
		if !st.isValue {
			return nil, newFatalf("vm: dotted-set tag 0x05 requires a value source")
		}
		b, ok := base.(*ObjectToValueMap)
		if !ok {
			return nil, newFatalf("vm: dotted-set tag 0x05 on unsupported base kind %s", base.Kind())
		}
		return b.Put(key, st.sourceValue)

	case 0x06: // Object key -> object element.
		key, err := st.nextObjectKey()
		if err != nil {
			return nil, err
		}
		b, ok := base.(*ObjectToObjectMap)
		if !ok {
			return nil, newFatalf("vm: dotted-set tag 0x06 on unsupported base kind %s", base.Kind())
		}
		if isLast {
			if st.isValue {
				return nil, newFatalf("vm: dotted-set tag 0x06 terminal requires an object source")
			}
			return b.Put(key, st.sourceObject)
		}
		child, ok2, err := b.Get(key)
		if err != nil {
			return nil, err
		}
		if !ok2 {
			return nil, newFatalf("vm: dotted-set tag 0x06 key not found in map")
		}
		newChild, err := st.recurse(child, idx+1)
		if err != nil {
			return nil, err
		}
		return b.Put(key, newChild)

	default:
		return nil, newFatalf("vm: dotted-set unknown suffix tag %#x", suffix.tag)
	}
}
