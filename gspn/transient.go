// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package gspn

import (
	"fmt"

	"github.com/oris-tool/sirio-sub002/expoly"
	"github.com/oris-tool/sirio-sub002/numeric"
)

// SojournCDF returns the cumulative distribution function of the sojourn
// time spent in a tangible state with total exit rate lambda, 1 - e^(-lambda
// t), represented as an expolynomial: a constant 1 term plus a single decaying
// exponential term. A zero exit rate describes an absorbing state, whose
// sojourn time is infinite and has no expolynomial representation.
func SojournCDF(lambda numeric.OmegaNum) (expoly.Expolynomial, error) {
	if !lambda.IsFinite() {
		return expoly.Expolynomial{}, fmt.Errorf("gspn: sojourn time of a state with infinite exit rate is degenerate")
	}
	rate := lambda.Float64()
	if rate <= 0 {
		return expoly.Expolynomial{}, fmt.Errorf("gspn: state is absorbing, sojourn time has no finite expectation")
	}
	one := expoly.New(expoly.Term{Coeff: numeric.NewInt(1), Degree: 0, Rate: numeric.NewFloat(0)})
	decay := expoly.New(expoly.Term{Coeff: numeric.NewInt(-1), Degree: 0, Rate: numeric.NewFloat(-rate)})
	return one.Add(decay), nil
}
