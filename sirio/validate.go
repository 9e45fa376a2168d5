// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

// Package sirio is the top-level analysis entry point: it validates a net
// against the requirements of a chosen analysis, then drives the
// succession-graph enumeration (succ, enum), vanishing-state reduction
// (gspn) and Markov-chain solution (chain, absorb) packages to produce a
// timed state-class graph or a GSPN's steady-state distribution.
package sirio

import (
	"fmt"

	"github.com/oris-tool/sirio-sub002/petri"
)

// ErrInvalidNet collects the validation failures reported by CanAnalyzeGSPN
// or CanAnalyzeTimed.
type ErrInvalidNet struct {
	Violations []string
}

func (e ErrInvalidNet) Error() string {
	return fmt.Sprintf("sirio: net fails validation with %d violation(s): %v", len(e.Violations), e.Violations)
}

// CanAnalyzeGSPN reports every transition that is not stochastic, whose
// stochastic density is neither Immediate nor Exponential — the two
// density kinds a GSPN reachability analysis understands — and every
// general (non-exponential, non-immediate) stochastic transition that
// carries any ClockRate expression at all, a constant 1 included, a
// clock-rescaled general distribution being outside what a GSPN's
// embedded-DTMC reduction can represent.
func CanAnalyzeGSPN(net *petri.Net) []string {
	var violations []string
	for i := 0; i < net.NumTransitions(); i++ {
		t := petri.TransitionId(i)
		st, ok := net.StochasticOf(t)
		if !ok {
			violations = append(violations, fmt.Sprintf("transition %s is not stochastic", net.TransitionName(t)))
			continue
		}
		if !st.IsImmediate() && !st.IsExponential() {
			violations = append(violations, fmt.Sprintf("transition %s is neither EXP nor IMM", net.TransitionName(t)))
			if st.ClockRate != nil {
				violations = append(violations, fmt.Sprintf("GEN transition %s has clock_rate != 1", net.TransitionName(t)))
			}
		}
	}
	return violations
}

// CanAnalyzeTimed reports every transition that carries neither a Timed
// feature nor a Stochastic feature. It does not report a transition that
// has only a Stochastic feature, although TimedAnalysis reads firing
// intervals from Timed features alone and fails with
// succ.ErrUnsupportedTransition once such a transition becomes enabled.
func CanAnalyzeTimed(net *petri.Net) []string {
	var violations []string
	for i := 0; i < net.NumTransitions(); i++ {
		t := petri.TransitionId(i)
		_, hasTimed := net.TimedOf(t)
		_, hasStochastic := net.StochasticOf(t)
		if !hasTimed && !hasStochastic {
			violations = append(violations, fmt.Sprintf("transition %s is not stochastic", net.TransitionName(t)))
		}
	}
	return violations
}
