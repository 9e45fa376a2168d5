// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

// Package numeric provides an arbitrary-precision rational number type, Num,
// and OmegaNum, a value of Num adjoined with the symbolic infinities used as
// DBM bounds and as GSPN exit rates. There is no rational/decimal library
// anywhere in the retrieval pack (checked for shopspring/decimal, apd,
// ericlagergren/decimal); Num is built on the standard library's math/big,
// which is the only candidate for exact arbitrary-precision arithmetic.
package numeric

import (
	"fmt"
	"math/big"
)

// Eps is the global tolerance used for "is zero" / "is one" tests on reals.
const Eps = 1e-6

// Num is an arbitrary-precision signed rational. The zero value is 0.
type Num struct {
	r big.Rat
}

// NewInt returns the Num with value v.
func NewInt(v int64) Num {
	var n Num
	n.r.SetInt64(v)
	return n
}

// NewFloat returns the Num closest to v (v must be finite).
func NewFloat(v float64) Num {
	var n Num
	n.r.SetFloat64(v)
	return n
}

// NewRat returns the Num equal to num/den.
func NewRat(num, den int64) Num {
	var n Num
	n.r.SetFrac64(num, den)
	return n
}

// Float64 returns the nearest float64 approximation of n.
func (n Num) Float64() float64 {
	f, _ := n.r.Float64()
	return f
}

// Add returns a + b.
func Add(a, b Num) Num {
	var n Num
	n.r.Add(&a.r, &b.r)
	return n
}

// Sub returns a - b.
func Sub(a, b Num) Num {
	var n Num
	n.r.Sub(&a.r, &b.r)
	return n
}

// Mul returns a * b.
func Mul(a, b Num) Num {
	var n Num
	n.r.Mul(&a.r, &b.r)
	return n
}

// Div returns a / b. Panics if b is zero; callers in this module check the
// divisor first (expr.Eval reports expr.DivisionByZero, the expoly package
// ErrDivisionByZero).
func Div(a, b Num) Num {
	var n Num
	n.r.Quo(&a.r, &b.r)
	return n
}

// Neg returns -a.
func Neg(a Num) Num {
	var n Num
	n.r.Neg(&a.r)
	return n
}

// Compare returns -1, 0 or +1 as a is less than, equal to, or greater than b.
func Compare(a, b Num) int {
	return a.r.Cmp(&b.r)
}

// IsZero reports whether n is exactly zero.
func (n Num) IsZero() bool {
	return n.r.Sign() == 0
}

// IsZeroEps reports whether n is within Eps of zero, used for the
// ExprEval "is zero"/"is one" tests on reals.
func (n Num) IsZeroEps() bool {
	f := n.Float64()
	return f > -Eps && f < Eps
}

// IsOneEps reports whether n is within Eps of one.
func (n Num) IsOneEps() bool {
	return Sub(n, NewInt(1)).IsZeroEps()
}

// Sign returns -1, 0, +1 according to the sign of n.
func (n Num) Sign() int {
	return n.r.Sign()
}

func (n Num) String() string {
	if n.r.IsInt() {
		return n.r.Num().String()
	}
	return n.r.RatString()
}

var _ fmt.Stringer = Num{}
