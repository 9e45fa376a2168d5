// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package succ

import (
	"github.com/oris-tool/sirio-sub002/expr"
	"github.com/oris-tool/sirio-sub002/numeric"
	"github.com/oris-tool/sirio-sub002/petri"
	"github.com/oris-tool/sirio-sub002/stateclass"
)

// GSPNSuccessor is the outcome of firing one transition from a GSPN state:
// the resulting SPN class and the probability mass assigned to the edge.
type GSPNSuccessor struct {
	Class       stateclass.Class
	Probability float64
}

// ExitRateInfo classifies a marking's exit rate: +inf with the set of
// enabled immediate transitions if any are enabled (vanishing), otherwise
// the sum of rate*clock_rate over enabled exponential transitions
// (tangible, possibly 0 meaning stop-absorbed).
func ExitRateInfo(net *petri.Net, m petri.Marking) (rate numeric.OmegaNum, imm, exp []petri.TransitionId, err error) {
	enabled, err := net.AllEnabled(m)
	if err != nil {
		return numeric.OmegaNum{}, nil, nil, err
	}
	env := expr.NewEnv(petri.Bindings{Net: net, M: m})
	for _, t := range enabled {
		st, ok := net.StochasticOf(t)
		if !ok {
			return numeric.OmegaNum{}, nil, nil, ErrUnsupportedTransition{
				Transition: net.TransitionName(t),
				Reason:     "not stochastic",
			}
		}
		switch {
		case st.IsImmediate():
			w, err := weightOf(net, t, env)
			if err != nil {
				return numeric.OmegaNum{}, nil, nil, err
			}
			if w > 0 {
				imm = append(imm, t)
			}
		case st.IsExponential():
			exp = append(exp, t)
		default:
			return numeric.OmegaNum{}, nil, nil, ErrUnsupportedTransition{
				Transition: net.TransitionName(t),
				Reason:     "neither EXP nor IMM",
			}
		}
	}
	if len(imm) > 0 {
		return numeric.PosInf, imm, exp, nil
	}
	sum := 0.0
	for _, t := range exp {
		lambda, clockRate, err := expRate(net, t, env)
		if err != nil {
			return numeric.OmegaNum{}, nil, nil, err
		}
		sum += lambda * clockRate
	}
	return numeric.Finite(numeric.NewFloat(sum)), imm, exp, nil
}

func expRate(net *petri.Net, t petri.TransitionId, env expr.Env) (lambda, clockRate float64, err error) {
	st, _ := net.StochasticOf(t)
	lambda = st.Density.Param
	clockRate = 1.0
	if st.ClockRate != nil {
		v, err := expr.EvalNum(st.ClockRate, env)
		if err != nil {
			return 0, 0, err
		}
		clockRate = v.Float64()
	}
	return lambda, clockRate, nil
}

func weightOf(net *petri.Net, t petri.TransitionId, env expr.Env) (float64, error) {
	st, _ := net.StochasticOf(t)
	if st.Weight == nil {
		return 1.0, nil
	}
	v, err := expr.EvalNum(st.Weight, env)
	if err != nil {
		return 0, err
	}
	return v.Float64(), nil
}

// maxPrioritySubset returns the subset of ts with the highest Priority
// feature value (NoPriority for transitions without one).
func maxPrioritySubset(net *petri.Net, ts []petri.TransitionId) []petri.TransitionId {
	best := petri.NoPriority
	var bestSet []petri.TransitionId
	for _, t := range ts {
		p := net.PriorityOf(t)
		switch {
		case p > best:
			best = p
			bestSet = []petri.TransitionId{t}
		case p == best:
			bestSet = append(bestSet, t)
		}
	}
	return bestSet
}

// GSPNEval computes the successor SPN class reached by firing tau from
// marking m, or ok=false if tau is rejected (not in the maximum-priority
// immediate subset, or zero probability).
func GSPNEval(net *petri.Net, m petri.Marking, tau petri.TransitionId) (GSPNSuccessor, bool, error) {
	exitRate, imm, exp, err := ExitRateInfo(net, m)
	if err != nil {
		return GSPNSuccessor{}, false, err
	}
	env := expr.NewEnv(petri.Bindings{Net: net, M: m})

	var p float64
	if len(imm) > 0 {
		h := maxPrioritySubset(net, imm)
		if !containsTransition(h, tau) {
			return GSPNSuccessor{}, false, nil
		}
		total := 0.0
		for _, t := range h {
			w, err := weightOf(net, t, env)
			if err != nil {
				return GSPNSuccessor{}, false, err
			}
			total += w
		}
		if total <= 0 {
			return GSPNSuccessor{}, false, nil
		}
		wt, err := weightOf(net, tau, env)
		if err != nil {
			return GSPNSuccessor{}, false, err
		}
		p = wt / total
	} else {
		if !containsTransition(exp, tau) {
			return GSPNSuccessor{}, false, nil
		}
		denom := exitRate.Float64()
		if denom <= 0 {
			return GSPNSuccessor{}, false, nil
		}
		lambda, clockRate, err := expRate(net, tau, env)
		if err != nil {
			return GSPNSuccessor{}, false, err
		}
		p = (lambda * clockRate) / denom
	}
	if p <= 0 {
		return GSPNSuccessor{}, false, nil
	}

	mNext, err := net.Fire(m, tau)
	if err != nil {
		return GSPNSuccessor{}, false, err
	}
	exitNext, _, _, err := ExitRateInfo(net, mNext)
	if err != nil {
		return GSPNSuccessor{}, false, err
	}
	cls := stateclass.Class{
		Petri:  stateclass.PetriFeature{Marking: mNext},
		HasSPN: true,
		SPN:    stateclass.SPNFeature{Marking: mNext, ExitRate: exitNext},
	}
	return GSPNSuccessor{Class: cls, Probability: p}, true, nil
}
