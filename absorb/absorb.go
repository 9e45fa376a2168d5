// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

// Package absorb solves for the absorption probabilities of a discrete-time
// Markov chain split into transient and absorbing states, the canonical
// (I-Q)A = R linear system. Concrete values flow through gonum's mat.Dense,
// the linear-algebra library already used elsewhere in the dependency pack,
// rather than a hand-rolled Gaussian elimination.
package absorb

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular wraps a gonum Condition error raised while solving or
// inverting (I-Q). It means the transient/absorbing split passed in does
// not correspond to a proper absorbing chain: every transient state must
// have a path to some absorbing state, or (I-Q) is singular.
type ErrSingular struct {
	Err error
}

func (e ErrSingular) Error() string {
	return fmt.Sprintf("absorb: (I-Q) is singular, chain has no escape from a transient subset: %v", e.Err)
}

func (e ErrSingular) Unwrap() error { return e.Err }

func asSingular(err error) error {
	var cond mat.Condition
	if errors.As(err, &cond) {
		return ErrSingular{Err: err}
	}
	return err
}

// AbsorptionProbs returns the nTransient-by-nAbsorbing matrix A where
// A.At(i,j) is the probability of eventually being absorbed into absorbing
// state j starting from transient state i, given:
//   - q, the nTransient-by-nTransient sub-matrix of transition probabilities
//     among transient states;
//   - r, the nTransient-by-nAbsorbing sub-matrix of one-step transition
//     probabilities from transient states directly into absorbing states.
func AbsorptionProbs(q, r *mat.Dense) (*mat.Dense, error) {
	nt, ntc := q.Dims()
	if nt != ntc {
		return nil, fmt.Errorf("absorb: Q must be square, got %d x %d", nt, ntc)
	}
	rRows, _ := r.Dims()
	if rRows != nt {
		return nil, fmt.Errorf("absorb: R must have %d rows to match Q, got %d", nt, rRows)
	}

	iMinusQ := mat.NewDense(nt, nt, nil)
	iMinusQ.Sub(identity(nt), q)

	var a mat.Dense
	if err := a.Solve(iMinusQ, r); err != nil {
		return nil, fmt.Errorf("absorb: solving (I-Q)A=R: %w", asSingular(err))
	}
	return &a, nil
}

func identity(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}
	return id
}

// ExpectedVisits returns N = (I-Q)^-1, the fundamental matrix whose (i,j)
// entry is the expected number of visits to transient state j starting
// from transient state i before absorption.
func ExpectedVisits(q *mat.Dense) (*mat.Dense, error) {
	nt, ntc := q.Dims()
	if nt != ntc {
		return nil, fmt.Errorf("absorb: Q must be square, got %d x %d", nt, ntc)
	}
	iMinusQ := mat.NewDense(nt, nt, nil)
	iMinusQ.Sub(identity(nt), q)
	var n mat.Dense
	if err := n.Inverse(iMinusQ); err != nil {
		return nil, fmt.Errorf("absorb: inverting (I-Q): %w", asSingular(err))
	}
	return &n, nil
}
