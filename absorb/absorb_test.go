// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package absorb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAbsorptionProbsSingularMatrix(t *testing.T) {
	// Q = [[1]] means the lone transient state never leaves itself, so
	// (I-Q) = [[0]] is singular: there is no escape to an absorbing state.
	q := mat.NewDense(1, 1, []float64{1})
	r := mat.NewDense(1, 1, []float64{0})
	_, err := AbsorptionProbs(q, r)
	require.Error(t, err)
	var singular ErrSingular
	require.ErrorAs(t, err, &singular)
}

func TestAbsorptionProbsSimpleGambler(t *testing.T) {
	// Classic gambler's ruin with 2 transient states (1, 2 dollars) and 2
	// absorbing states (0 and 3 dollars), fair coin: from i, go to i-1 or
	// i+1 with probability 1/2 each.
	q := mat.NewDense(2, 2, []float64{
		0, 0.5,
		0.5, 0,
	})
	r := mat.NewDense(2, 2, []float64{
		0.5, 0,
		0, 0.5,
	})
	a, err := AbsorptionProbs(q, r)
	require.NoError(t, err)
	// Known closed form: P(absorbed at 3 | start at 1) = 1/3, at 2 -> 2/3.
	require.InDelta(t, 2.0/3.0, a.At(0, 0), 1e-9)
	require.InDelta(t, 1.0/3.0, a.At(0, 1), 1e-9)
	require.InDelta(t, 1.0/3.0, a.At(1, 0), 1e-9)
	require.InDelta(t, 2.0/3.0, a.At(1, 1), 1e-9)
}

func TestAbsorptionProbsRowsSumToOne(t *testing.T) {
	q := mat.NewDense(1, 1, []float64{0.5})
	r := mat.NewDense(1, 2, []float64{0.3, 0.2})
	a, err := AbsorptionProbs(q, r)
	require.NoError(t, err)
	require.InDelta(t, 1.0, a.At(0, 0)+a.At(0, 1), 1e-9)
}

func TestAbsorptionProbsDimensionMismatch(t *testing.T) {
	q := mat.NewDense(2, 3, nil)
	r := mat.NewDense(2, 1, nil)
	_, err := AbsorptionProbs(q, r)
	require.Error(t, err)
}

func TestExpectedVisits(t *testing.T) {
	q := mat.NewDense(1, 1, []float64{0.5})
	n, err := ExpectedVisits(q)
	require.NoError(t, err)
	require.InDelta(t, 2.0, n.At(0, 0), 1e-9)
}
