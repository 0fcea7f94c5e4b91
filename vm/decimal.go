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

// Package vm implements the TMBASIC bytecode interpreter: the scalar
// Value, the persistent Object model, the Program/Procedure bytecode
// container, and the dual-stack interpreter loop.
package vm

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Value is the single scalar type TMBASIC bytecode operates on: one
// arbitrary-precision decimal number. Booleans are 0/non-zero; integers
// are the floor of the decimal. Values are copied by value.
//
// decimal.Decimal stands in for the original's 128-bit IEEE decimal; it
// trades a fixed bit layout for arbitrary precision, which is the
// idiomatic Go rendition of "one decimal number, no silent float error."
type Value struct {
	num decimal.Decimal
}

// ValueFromInt64 builds a Value from a signed 64-bit integer.
func ValueFromInt64(n int64) Value {
	return Value{num: decimal.NewFromInt(n)}
}

// ValueFromInt32 builds a Value from a signed 32-bit integer.
func ValueFromInt32(n int32) Value {
	return Value{num: decimal.NewFromInt(int64(n))}
}

// ValueFromFloat64 builds a Value from a float64.
func ValueFromFloat64(f float64) Value {
	return Value{num: decimal.NewFromFloat(f)}
}

// ValueFromString parses a decimal literal into a Value.
func ValueFromString(s string) (Value, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Value{}, fmt.Errorf("vm: invalid decimal literal %q: %w", s, err)
	}
	return Value{num: d}, nil
}

// ValueFromBool builds the canonical 0/1 boolean Value.
func ValueFromBool(b bool) Value {
	if b {
		return Value{num: decimal.New(1, 0)}
	}
	return Value{num: decimal.Zero}
}

// ValueFromTriple reconstructs a Value from the PushImmediateDec128 operand
// layout: an unscaled 128-bit coefficient split across hi/lo 64-bit words,
// a sign bit, and a base-10 exponent. See bytecode.go for the wire format.
func ValueFromTriple(sign uint8, hi, lo uint64, exp int64) Value {
	coeff := new(big.Int).Lsh(new(big.Int).SetUint64(hi), 64)
	coeff.Or(coeff, new(big.Int).SetUint64(lo))
	if sign != 0 {
		coeff.Neg(coeff)
	}
	return Value{num: decimal.NewFromBigInt(coeff, int32(exp))}
}

// Triple decomposes the Value into the PushImmediateDec128 wire format.
func (v Value) Triple() (sign uint8, hi, lo uint64, exp int64) {
	coeff := v.num.Coefficient()
	if coeff.Sign() < 0 {
		sign = 1
		coeff = new(big.Int).Neg(coeff)
	}
	mask := new(big.Int).SetUint64(^uint64(0))
	lo = new(big.Int).And(coeff, mask).Uint64()
	hi = new(big.Int).Rsh(coeff, 64).Uint64()
	exp = int64(v.num.Exponent())
	return
}

// getBoolean reports num != 0.
func (v Value) getBoolean() bool { return !v.num.IsZero() }

// GetBoolean reports num != 0.
func (v Value) GetBoolean() bool { return v.getBoolean() }

// SetBoolean assigns 1 or 0.
func (v *Value) SetBoolean(b bool) { *v = ValueFromBool(b) }

// GetInt32 returns the floor of the decimal, narrowed to int32.
func (v Value) GetInt32() int32 { return int32(v.num.Floor().IntPart()) }

// GetInt64 returns the floor of the decimal as int64.
func (v Value) GetInt64() int64 { return v.num.Floor().IntPart() }

// GetDouble converts the decimal to a float64.
func (v Value) GetDouble() float64 {
	f, _ := v.num.Float64()
	return f
}

// String renders the decimal in canonical form.
func (v Value) String() string { return v.num.String() }

// Equal reports whether two Values carry the same decimal value.
func (v Value) Equal(other Value) bool { return v.num.Equal(other.num) }

// Compare returns -1, 0, or 1 ordering v against other.
func (v Value) Compare(other Value) int { return v.num.Cmp(other.num) }

// Hash derives a stable hash from the decimal representation, used as the
// map key for Value-keyed maps (see map.go).
func (v Value) Hash() string { return v.num.String() }

// Add, Sub, Mul implement the arithmetic ops used by the compiler's
// operator-resolution layer, outside the VM's own opcode set, which only
// ever pushes/pops pre-computed Values produced by such host helpers or
// by system calls.
func (v Value) Add(other Value) Value { return Value{num: v.num.Add(other.num)} }
func (v Value) Sub(other Value) Value { return Value{num: v.num.Sub(other.num)} }
func (v Value) Mul(other Value) Value { return Value{num: v.num.Mul(other.num)} }

// Div returns v / other. Division by zero returns ErrDivisionByZero and a
// zero Value.
func (v Value) Div(other Value) (Value, error) {
	if other.num.IsZero() {
		return Value{}, ErrDivisionByZero
	}
	return Value{num: v.num.DivRound(other.num, int32(decimalDivisionScale))}, nil
}

// Mod returns v mod other (BASIC "mod" semantics: result takes the sign of
// the dividend, matching the original's decimal library behavior).
func (v Value) Mod(other Value) (Value, error) {
	if other.num.IsZero() {
		return Value{}, ErrDivisionByZero
	}
	return Value{num: v.num.Mod(other.num)}, nil
}

// Floor returns the largest integer value not greater than v.
func (v Value) Floor() Value { return Value{num: v.num.Floor()} }

// decimalDivisionScale bounds the number of fractional digits DivRound
// retains; it mirrors mpdecimal's default working precision closely enough
// for BASIC-level arithmetic without claiming bit-exact IEEE-128 results.
const decimalDivisionScale = 34
