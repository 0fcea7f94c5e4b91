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

// Persistent maps, four shapes keyed by Value or Object and storing Value
// or Object. Each "put"/"remove" returns a new map holding a full copy of
// the entries; only the key-order slice is shared, when a put overwrites
// an existing key. The old map is never modified.
//
// Iteration order is the order keys were first inserted: deterministic
// for a given construction history, without claiming any particular
// canonical ordering across instances.

type vvEntry struct {
	key Value
	val Value
}

// ValueToValueMap maps Value keys to Value payloads.
type ValueToValueMap struct {
	order   []string
	entries map[string]vvEntry
}

// NewValueToValueMap returns an empty map.
func NewValueToValueMap() *ValueToValueMap {
	return &ValueToValueMap{entries: map[string]vvEntry{}}
}

func (m *ValueToValueMap) Kind() ObjectKind { return KindValueToValueMap }

// Len returns the number of entries.
func (m *ValueToValueMap) Len() int { return len(m.order) }

// Get returns the value for k and whether it was present.
func (m *ValueToValueMap) Get(k Value) (Value, bool) {
	e, ok := m.entries[k.Hash()]
	return e.val, ok
}

// Contains reports whether k is present.
func (m *ValueToValueMap) Contains(k Value) bool {
	_, ok := m.entries[k.Hash()]
	return ok
}

// Put returns a new map with k bound to v, preserving insertion order for
// new keys and the original position for overwritten keys.
func (m *ValueToValueMap) Put(k, v Value) *ValueToValueMap {
	h := k.Hash()
	next := &ValueToValueMap{entries: make(map[string]vvEntry, len(m.entries)+1)}
	for hk, ev := range m.entries {
		next.entries[hk] = ev
	}
	if _, existed := m.entries[h]; !existed {
		next.order = append(append([]string(nil), m.order...), h)
	} else {
		next.order = m.order
	}
	next.entries[h] = vvEntry{key: k, val: v}
	return next
}

// Remove returns a new map with k absent.
func (m *ValueToValueMap) Remove(k Value) *ValueToValueMap {
	h := k.Hash()
	if _, ok := m.entries[h]; !ok {
		return m
	}
	next := &ValueToValueMap{entries: make(map[string]vvEntry, len(m.entries))}
	for hk, ev := range m.entries {
		if hk == h {
			continue
		}
		next.entries[hk] = ev
	}
	for _, hk := range m.order {
		if hk != h {
			next.order = append(next.order, hk)
		}
	}
	return next
}

type voEntry struct {
	key Value
	val Object
}

// ValueToObjectMap maps Value keys to Object payloads.
type ValueToObjectMap struct {
	order   []string
	entries map[string]voEntry
}

// NewValueToObjectMap returns an empty map.
func NewValueToObjectMap() *ValueToObjectMap {
	return &ValueToObjectMap{entries: map[string]voEntry{}}
}

func (m *ValueToObjectMap) Kind() ObjectKind { return KindValueToObjectMap }
func (m *ValueToObjectMap) Len() int         { return len(m.order) }

func (m *ValueToObjectMap) Get(k Value) (Object, bool) {
	e, ok := m.entries[k.Hash()]
	return e.val, ok
}

func (m *ValueToObjectMap) Contains(k Value) bool {
	_, ok := m.entries[k.Hash()]
	return ok
}

func (m *ValueToObjectMap) Put(k Value, v Object) *ValueToObjectMap {
	h := k.Hash()
	next := &ValueToObjectMap{entries: make(map[string]voEntry, len(m.entries)+1)}
	for hk, ev := range m.entries {
		next.entries[hk] = ev
	}
	if _, existed := m.entries[h]; !existed {
		next.order = append(append([]string(nil), m.order...), h)
	} else {
		next.order = m.order
	}
	next.entries[h] = voEntry{key: k, val: v}
	return next
}

func (m *ValueToObjectMap) Remove(k Value) *ValueToObjectMap {
	h := k.Hash()
	if _, ok := m.entries[h]; !ok {
		return m
	}
	next := &ValueToObjectMap{entries: make(map[string]voEntry, len(m.entries))}
	for hk, ev := range m.entries {
		if hk == h {
			continue
		}
		next.entries[hk] = ev
	}
	for _, hk := range m.order {
		if hk != h {
			next.order = append(next.order, hk)
		}
	}
	return next
}

type ovEntry struct {
	key Object
	val Value
}

// ObjectToValueMap maps Object keys to Value payloads.
type ObjectToValueMap struct {
	order   []string
	entries map[string]ovEntry
}

// NewObjectToValueMap returns an empty map.
func NewObjectToValueMap() *ObjectToValueMap {
	return &ObjectToValueMap{entries: map[string]ovEntry{}}
}

func (m *ObjectToValueMap) Kind() ObjectKind { return KindObjectToValueMap }
func (m *ObjectToValueMap) Len() int         { return len(m.order) }

func (m *ObjectToValueMap) Get(k Object) (Value, bool, error) {
	h, err := hashObject(k)
	if err != nil {
		return Value{}, false, err
	}
	e, ok := m.entries[h]
	return e.val, ok, nil
}

func (m *ObjectToValueMap) Contains(k Object) (bool, error) {
	h, err := hashObject(k)
	if err != nil {
		return false, err
	}
	_, ok := m.entries[h]
	return ok, nil
}

func (m *ObjectToValueMap) Put(k Object, v Value) (*ObjectToValueMap, error) {
	h, err := hashObject(k)
	if err != nil {
		return nil, err
	}
	next := &ObjectToValueMap{entries: make(map[string]ovEntry, len(m.entries)+1)}
	for hk, ev := range m.entries {
		next.entries[hk] = ev
	}
	if _, existed := m.entries[h]; !existed {
		next.order = append(append([]string(nil), m.order...), h)
	} else {
		next.order = m.order
	}
	next.entries[h] = ovEntry{key: k, val: v}
	return next, nil
}

func (m *ObjectToValueMap) Remove(k Object) (*ObjectToValueMap, error) {
	h, err := hashObject(k)
	if err != nil {
		return nil, err
	}
	if _, ok := m.entries[h]; !ok {
		return m, nil
	}
	next := &ObjectToValueMap{entries: make(map[string]ovEntry, len(m.entries))}
	for hk, ev := range m.entries {
		if hk == h {
			continue
		}
		next.entries[hk] = ev
	}
	for _, hk := range m.order {
		if hk != h {
			next.order = append(next.order, hk)
		}
	}
	return next, nil
}

type ooEntry struct {
	key Object
	val Object
}

// ObjectToObjectMap maps Object keys to Object payloads.
type ObjectToObjectMap struct {
	order   []string
	entries map[string]ooEntry
}

// NewObjectToObjectMap returns an empty map.
func NewObjectToObjectMap() *ObjectToObjectMap {
	return &ObjectToObjectMap{entries: map[string]ooEntry{}}
}

func (m *ObjectToObjectMap) Kind() ObjectKind { return KindObjectToObjectMap }
func (m *ObjectToObjectMap) Len() int         { return len(m.order) }

func (m *ObjectToObjectMap) Get(k Object) (Object, bool, error) {
	h, err := hashObject(k)
	if err != nil {
		return nil, false, err
	}
	e, ok := m.entries[h]
	return e.val, ok, nil
}

func (m *ObjectToObjectMap) Contains(k Object) (bool, error) {
	h, err := hashObject(k)
	if err != nil {
		return false, err
	}
	_, ok := m.entries[h]
	return ok, nil
}

func (m *ObjectToObjectMap) Put(k, v Object) (*ObjectToObjectMap, error) {
	h, err := hashObject(k)
	if err != nil {
		return nil, err
	}
	next := &ObjectToObjectMap{entries: make(map[string]ooEntry, len(m.entries)+1)}
	for hk, ev := range m.entries {
		next.entries[hk] = ev
	}
	if _, existed := m.entries[h]; !existed {
		next.order = append(append([]string(nil), m.order...), h)
	} else {
		next.order = m.order
	}
	next.entries[h] = ooEntry{key: k, val: v}
	return next, nil
}

func (m *ObjectToObjectMap) Remove(k Object) (*ObjectToObjectMap, error) {
	h, err := hashObject(k)
	if err != nil {
		return nil, err
	}
	if _, ok := m.entries[h]; !ok {
		return m, nil
	}
	next := &ObjectToObjectMap{entries: make(map[string]ooEntry, len(m.entries))}
	for hk, ev := range m.entries {
		if hk == h {
			continue
		}
		next.entries[hk] = ev
	}
	for _, hk := range m.order {
		if hk != h {
			next.order = append(next.order, hk)
		}
	}
	return next, nil
}
