// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package sirio

import (
	"context"

	"github.com/oris-tool/sirio-sub002/chain"
	"github.com/oris-tool/sirio-sub002/dbm"
	"github.com/oris-tool/sirio-sub002/enum"
	"github.com/oris-tool/sirio-sub002/gspn"
	"github.com/oris-tool/sirio-sub002/petri"
	"github.com/oris-tool/sirio-sub002/stateclass"
	"github.com/oris-tool/sirio-sub002/succ"
)

// Config holds the options shared by TimedAnalysis and GSPNReachability.
type Config struct {
	Policy  enum.Policy
	Monitor context.Context
	Logger  Logger

	// LocalStop, if set, halts expansion of a timed branch whose class
	// satisfies it without discarding the class itself.
	LocalStop func(stateclass.Class) bool

	IncludeAge        bool
	MarkRegenerations bool
	RegenerationKind  stateclass.RegenerationKind
	ExcludeZeroProb   bool
}

func (c Config) enumConfig() enum.Config[stateclass.TimedKey, stateclass.Class] {
	return enum.Config[stateclass.TimedKey, stateclass.Class]{
		Policy:    c.Policy,
		Monitor:   c.Monitor,
		Logger:    c.Logger,
		LocalStop: c.LocalStop,
	}
}

// TimedAnalysis validates net for the timed (TPN/stochastic-TPN) semantics
// and builds the timed state-class succession graph rooted at m0.
func TimedAnalysis(net *petri.Net, m0 petri.Marking, cfg Config) (*enum.Graph[stateclass.TimedKey, stateclass.Class], error) {
	if violations := CanAnalyzeTimed(net); len(violations) > 0 {
		return nil, ErrInvalidNet{Violations: violations}
	}
	initial, err := initialTimedClass(net, m0, cfg.IncludeAge)
	if err != nil {
		return nil, err
	}

	sc := succ.TimedConfig{
		IncludeAge:        cfg.IncludeAge,
		ExcludeZeroProb:   cfg.ExcludeZeroProb,
		MarkRegenerations: cfg.MarkRegenerations,
		RegenerationKind:  cfg.RegenerationKind,
	}
	e := &enum.Enumerator[stateclass.TimedKey, stateclass.Class, petri.TransitionId]{
		Config: cfg.enumConfig(),
		EnabledEvents: func(s stateclass.Class) ([]petri.TransitionId, error) {
			return s.Petri.Enabled, nil
		},
		SuccessorEval: func(s stateclass.Class, ev petri.TransitionId) (stateclass.Class, bool, error) {
			return succ.TimedEval(net, s, ev, sc)
		},
		KeyOf: func(s stateclass.Class) (stateclass.TimedKey, error) { return s.Key() },
	}
	return e.Run(initial)
}

// initialTimedClass builds the root timed state class: the firing domain
// constrains every initially enabled transition to its static [EFT,LFT]
// interval measured from the shared Ground origin.
func initialTimedClass(net *petri.Net, m0 petri.Marking, includeAge bool) (stateclass.Class, error) {
	enabled, err := net.AllEnabled(m0)
	if err != nil {
		return stateclass.Class{}, err
	}
	z := dbm.New()
	specs := make([]dbm.VarSpec, 0, len(enabled))
	for _, t := range enabled {
		tf, ok := net.TimedOf(t)
		if !ok {
			return stateclass.Class{}, succ.ErrUnsupportedTransition{
				Transition: net.TransitionName(t),
				Reason:     "enabled without a Timed feature",
			}
		}
		lft, finite := tf.Interval.LFTFinite()
		specs = append(specs, dbm.VarSpec{
			Name:     net.TransitionName(t),
			EFT:      tf.Interval.EFT(),
			LFT:      lft,
			LFTInfty: !finite,
		})
	}
	if len(specs) > 0 {
		if err := z.AddVariables(specs); err != nil {
			return stateclass.Class{}, err
		}
	}
	if includeAge {
		if err := z.AddVariables([]dbm.VarSpec{{Name: dbm.Age, EFT: 0, LFT: 0, LFTInfty: true}}); err != nil {
			return stateclass.Class{}, err
		}
	}
	return stateclass.Class{
		Petri:    stateclass.PetriFeature{Marking: m0, Enabled: enabled, NewlyEnabled: enabled},
		HasTimed: true,
		Timed:    stateclass.TimedStateFeature{Domain: z},
	}, nil
}

// Result is the outcome of a GSPNReachability run: the tangible-reduced
// graph and the embedded CTMC built from it, keyed by the per-marking
// interned handle.
type Result struct {
	Reduced *gspn.Reduced
	CTMC    *chain.CTMC[petri.Handle]
}

// GSPNReachability validates net for GSPN semantics, enumerates its full
// marking graph rooted at m0, reduces away vanishing markings and returns
// the resulting embedded CTMC over tangible markings.
func GSPNReachability(net *petri.Net, m0 petri.Marking, cfg Config) (*Result, error) {
	if violations := CanAnalyzeGSPN(net); len(violations) > 0 {
		return nil, ErrInvalidNet{Violations: violations}
	}

	full, err := gspn.BuildFullGraph(net, m0, enum.Config[stateclass.GSPNKey, stateclass.Class]{
		Policy:  cfg.Policy,
		Monitor: cfg.Monitor,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	reduced, err := gspn.TangibleReduction(full)
	if err != nil {
		return nil, err
	}

	ctmc := chain.NewCTMC[petri.Handle]()
	for _, idx := range reduced.Tangible {
		s := full.Node(idx).State
		h, err := s.Petri.Marking.Unique()
		if err != nil {
			return nil, err
		}
		ctmc.SetExitRate(h, s.SPN.ExitRate.Float64())
	}
	for _, idx := range reduced.Tangible {
		fromHandle, err := full.Node(idx).State.Petri.Marking.Unique()
		if err != nil {
			return nil, err
		}
		for _, te := range reduced.Edges[idx] {
			toHandle, err := te.To.Unique()
			if err != nil {
				return nil, err
			}
			ctmc.Embedded.AddTransition(fromHandle, toHandle, te.Prob)
		}
	}
	for _, root := range full.Roots() {
		init, err := gspn.InitialDistribution(full, root)
		if err != nil {
			return nil, err
		}
		for _, te := range init {
			h, err := te.To.Unique()
			if err != nil {
				return nil, err
			}
			ctmc.Embedded.SetInitial(h, ctmc.Embedded.InitialProbs[h]+te.Prob)
		}
	}

	return &Result{Reduced: reduced, CTMC: ctmc}, nil
}

// SteadyState is a convenience wrapper around chain: it runs
// GSPNReachability and solves the resulting CTMC for its steady-state
// distribution over tangible markings.
func SteadyState(net *petri.Net, m0 petri.Marking, cfg Config, maxIter int, tol float64) (map[petri.Handle]float64, error) {
	res, err := GSPNReachability(net, m0, cfg)
	if err != nil {
		return nil, err
	}
	return res.CTMC.SteadyState(maxIter, tol)
}
