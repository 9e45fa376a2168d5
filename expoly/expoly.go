// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

// Package expoly implements expolynomial algebra: functions of the form
// sum_i c_i * t^{n_i} * e^{a_i*t}, the density/weight representation used
// by Partitioned stochastic features and by the (out-of-core) transient
// integration step that consumes a timed succession graph. There is no
// expolynomial or symbolic-calculus library anywhere in the retrieval
// pack or the wider ecosystem for this specific algebra, so it is built
// directly on numeric.Num (documented in DESIGN.md).
package expoly

import (
	"fmt"
	"math"
	"strings"

	"github.com/oris-tool/sirio-sub002/numeric"
)

// Term is one monomial*exponential summand: Coeff * t^Degree * e^(Rate*t).
type Term struct {
	Coeff  numeric.Num
	Degree int
	Rate   numeric.Num
}

// Expolynomial is a sum of Terms.
type Expolynomial struct {
	Terms []Term
}

// New returns the expolynomial with the given terms, not yet simplified.
func New(terms ...Term) Expolynomial {
	return Expolynomial{Terms: append([]Term(nil), terms...)}
}

// Zero is the expolynomial identically 0.
var Zero = Expolynomial{}

// Add returns e + o.
func (e Expolynomial) Add(o Expolynomial) Expolynomial {
	out := append(append([]Term(nil), e.Terms...), o.Terms...)
	return Expolynomial{Terms: out}.simplify()
}

// Sub returns e - o.
func (e Expolynomial) Sub(o Expolynomial) Expolynomial {
	return e.Add(o.MulConst(numeric.NewInt(-1)))
}

// MulConst returns e scaled by the constant c.
func (e Expolynomial) MulConst(c numeric.Num) Expolynomial {
	out := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		out[i] = Term{Coeff: numeric.Mul(t.Coeff, c), Degree: t.Degree, Rate: t.Rate}
	}
	return Expolynomial{Terms: out}
}

// ErrDivisionByZero is returned by DivConst when the divisor is zero.
type ErrDivisionByZero struct{}

func (ErrDivisionByZero) Error() string { return "expoly: division by zero constant" }

// DivConst returns e scaled by 1/c.
func (e Expolynomial) DivConst(c numeric.Num) (Expolynomial, error) {
	if c.IsZeroEps() {
		return Expolynomial{}, ErrDivisionByZero{}
	}
	out := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		out[i] = Term{Coeff: numeric.Div(t.Coeff, c), Degree: t.Degree, Rate: t.Rate}
	}
	return Expolynomial{Terms: out}, nil
}

// simplify merges terms sharing the same (Degree, Rate) and drops
// near-zero coefficients.
func (e Expolynomial) simplify() Expolynomial {
	type key struct {
		degree int
		rate   string
	}
	merged := map[key]Term{}
	var order []key
	for _, t := range e.Terms {
		k := key{degree: t.Degree, rate: t.Rate.String()}
		if existing, ok := merged[k]; ok {
			existing.Coeff = numeric.Add(existing.Coeff, t.Coeff)
			merged[k] = existing
		} else {
			merged[k] = t
			order = append(order, k)
		}
	}
	out := make([]Term, 0, len(order))
	for _, k := range order {
		t := merged[k]
		if !t.Coeff.IsZeroEps() {
			out = append(out, t)
		}
	}
	return Expolynomial{Terms: out}
}

// binomial returns C(n,k).
func binomial(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	result := int64(1)
	for i := 0; i < k; i++ {
		result = result * int64(n-i) / int64(i+1)
	}
	return result
}

// Shift substitutes t -> t+delta, the time-origin change applied when a
// support interval is translated to start at 0.
func (e Expolynomial) Shift(delta numeric.Num) Expolynomial {
	var out []Term
	for _, t := range e.Terms {
		// e^(rate*(t+delta)) = e^(rate*delta) * e^(rate*t); expand
		// (t+delta)^n via the binomial theorem.
		rateDelta := numeric.Mul(t.Rate, delta)
		expFactor := numeric.NewFloat(expApprox(rateDelta.Float64()))
		for k := 0; k <= t.Degree; k++ {
			coeff := numeric.Mul(t.Coeff, expFactor)
			coeff = numeric.Mul(coeff, numeric.NewInt(binomial(t.Degree, k)))
			deltaPow := numeric.NewFloat(powApprox(delta.Float64(), t.Degree-k))
			coeff = numeric.Mul(coeff, deltaPow)
			out = append(out, Term{Coeff: coeff, Degree: k, Rate: t.Rate})
		}
	}
	return Expolynomial{Terms: out}.simplify()
}

func powApprox(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

func expApprox(x float64) float64 {
	return math.Exp(x)
}

// Integrate returns the antiderivative of e with respect to t, with
// constant of integration 0. For Rate==0 terms this is ordinary polynomial
// integration; for Rate!=0 terms it applies the standard reduction
// formula for integral of t^n*e^(a t) dt by parts, producing a sum of at
// most Degree+1 terms of decreasing degree.
func (e Expolynomial) Integrate() (Expolynomial, error) {
	var out []Term
	for _, t := range e.Terms {
		if t.Rate.IsZeroEps() {
			out = append(out, Term{
				Coeff:  numeric.Div(t.Coeff, numeric.NewInt(int64(t.Degree+1))),
				Degree: t.Degree + 1,
				Rate:   t.Rate,
			})
			continue
		}
		terms, err := integrateExpTerm(t)
		if err != nil {
			return Expolynomial{}, err
		}
		out = append(out, terms...)
	}
	return Expolynomial{Terms: out}.simplify(), nil
}

// integrateExpTerm applies integral(t^n e^(a t) dt) =
// t^n e^(a t)/a - (n/a) * integral(t^(n-1) e^(a t) dt), recursively.
func integrateExpTerm(t Term) ([]Term, error) {
	if t.Rate.IsZeroEps() {
		return nil, ErrDivisionByZero{}
	}
	var out []Term
	coeff := numeric.Div(t.Coeff, t.Rate)
	sign := numeric.NewInt(1)
	degree := t.Degree
	for degree >= 0 {
		out = append(out, Term{Coeff: numeric.Mul(coeff, sign), Degree: degree, Rate: t.Rate})
		if degree == 0 {
			break
		}
		coeff = numeric.Mul(coeff, numeric.NewInt(int64(degree)))
		coeff = numeric.Div(coeff, t.Rate)
		sign = numeric.Mul(sign, numeric.NewInt(-1))
		degree--
	}
	return out, nil
}

// Substitute evaluates e at t.
func (e Expolynomial) Substitute(t numeric.Num) numeric.Num {
	sum := numeric.NewInt(0)
	tf := t.Float64()
	for _, term := range e.Terms {
		val := powApprox(tf, term.Degree)
		if !term.Rate.IsZeroEps() {
			val *= math.Exp(term.Rate.Float64() * tf)
		}
		sum = numeric.Add(sum, numeric.Mul(term.Coeff, numeric.NewFloat(val)))
	}
	return sum
}

func (e Expolynomial) String() string {
	if len(e.Terms) == 0 {
		return "0"
	}
	parts := make([]string, len(e.Terms))
	for i, t := range e.Terms {
		switch {
		case t.Rate.IsZeroEps() && t.Degree == 0:
			parts[i] = t.Coeff.String()
		case t.Rate.IsZeroEps():
			parts[i] = fmt.Sprintf("%s*t^%d", t.Coeff, t.Degree)
		case t.Degree == 0:
			parts[i] = fmt.Sprintf("%s*e^(%s t)", t.Coeff, t.Rate)
		default:
			parts[i] = fmt.Sprintf("%s*t^%d*e^(%s t)", t.Coeff, t.Degree, t.Rate)
		}
	}
	return strings.Join(parts, " + ")
}
