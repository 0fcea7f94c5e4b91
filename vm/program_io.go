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

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Program is the VM's sole input: an immutable container of procedures
// and global slots. Once loaded, a Program is never mutated; it may be
// shared read-only across VM instances.
type Program struct {
	Procedures            []*Procedure
	GlobalValuesCount     int
	GlobalObjectsCount    int
	StartupProcedureIndex int
}

const programMagic = "TMBP"

// Serialize writes the Program to the little-endian, unpadded wire format:
// magic, procedure count, each procedure's name/arity/body, then the three
// trailing header fields.
func (p *Program) Serialize() []byte {
	var buf bytes.Buffer
	buf.WriteString(programMagic)
	writeUint32(&buf, uint32(len(p.Procedures)))
	for _, proc := range p.Procedures {
		writeString(&buf, proc.Name)
		writeUint32(&buf, uint32(proc.ParamValueCount))
		writeUint32(&buf, uint32(proc.ParamObjectCount))
		writeBool(&buf, proc.ReturnsValue)
		writeBool(&buf, proc.ReturnsObject)
		writeUint32(&buf, uint32(len(proc.Instructions)))
		buf.Write(proc.Instructions)
	}
	writeUint32(&buf, uint32(p.GlobalValuesCount))
	writeUint32(&buf, uint32(p.GlobalObjectsCount))
	writeUint32(&buf, uint32(p.StartupProcedureIndex))
	return buf.Bytes()
}

// DeserializeProgram parses the wire format Serialize produces.
func DeserializeProgram(data []byte) (*Program, error) {
	r := bytes.NewReader(data)
	magic := make([]byte, 4)
	if _, err := r.Read(magic); err != nil || string(magic) != programMagic {
		return nil, newFatalf("vm: bad program magic")
	}
	procCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	procs := make([]*Procedure, procCount)
	for i := range procs {
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		nv, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		no, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		rv, err := readBool(r)
		if err != nil {
			return nil, err
		}
		ro, err := readBool(r)
		if err != nil {
			return nil, err
		}
		instrLen, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		instrs := make([]byte, instrLen)
		if _, err := r.Read(instrs); err != nil {
			return nil, fmt.Errorf("vm: reading procedure %d instructions: %w", i, err)
		}
		procs[i] = &Procedure{
			Name:             name,
			Instructions:     instrs,
			ParamValueCount:  int(nv),
			ParamObjectCount: int(no),
			ReturnsValue:     rv,
			ReturnsObject:    ro,
		}
	}
	gv, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	goCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	startup, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	return &Program{
		Procedures:            procs,
		GlobalValuesCount:     int(gv),
		GlobalObjectsCount:    int(goCount),
		StartupProcedureIndex: int(startup),
	}, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, fmt.Errorf("vm: truncated program: %w", err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, fmt.Errorf("vm: truncated program: %w", err)
	}
	return b != 0, nil
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return "", fmt.Errorf("vm: truncated program: %w", err)
	}
	return string(b), nil
}
