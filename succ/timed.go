// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package succ

import (
	"fmt"

	"github.com/oris-tool/sirio-sub002/dbm"
	"github.com/oris-tool/sirio-sub002/numeric"
	"github.com/oris-tool/sirio-sub002/petri"
	"github.com/oris-tool/sirio-sub002/stateclass"
)

// TimedConfig carries the optional behaviors of TimedEval: IncludeAge keeps
// a never-projected "age" clock tracking elapsed time since the initial
// state; ExcludeZeroProb applies the zero-probability pruning rule;
// MarkRegenerations attaches a Regeneration tag using the chosen strategy.
type TimedConfig struct {
	IncludeAge        bool
	ExcludeZeroProb   bool
	MarkRegenerations bool
	RegenerationKind  stateclass.RegenerationKind
}

func varName(net *petri.Net, t petri.TransitionId) string { return net.TransitionName(t) }

func containsTransition(set []petri.TransitionId, t petri.TransitionId) bool {
	for _, s := range set {
		if s == t {
			return true
		}
	}
	return false
}

func removeTransition(set []petri.TransitionId, t petri.TransitionId) []petri.TransitionId {
	out := make([]petri.TransitionId, 0, len(set))
	for _, s := range set {
		if s != t {
			out = append(out, s)
		}
	}
	return out
}

func diffTransitions(a, b []petri.TransitionId) []petri.TransitionId {
	var out []petri.TransitionId
	for _, t := range a {
		if !containsTransition(b, t) {
			out = append(out, t)
		}
	}
	return out
}

// TimedEval computes the successor timed state class reached by firing tau
// from s, or ok=false if tau is rejected by the priority, zero-probability
// or firability-conditioning rules. s must carry a TimedStateFeature.
func TimedEval(net *petri.Net, s stateclass.Class, tau petri.TransitionId, cfg TimedConfig) (stateclass.Class, bool, error) {
	if !s.HasTimed {
		return stateclass.Class{}, false, fmt.Errorf("succ: TimedEval requires a TimedStateFeature")
	}
	d := s.Timed.Domain
	vTau := varName(net, tau)

	if reject, err := rejectOnPriority(net, d, vTau, tau); err != nil || reject {
		return stateclass.Class{}, false, err
	}
	if cfg.ExcludeZeroProb {
		if reject, err := rejectOnZeroProb(d, s.Petri.Enabled, vTau, tau, net); err != nil || reject {
			return stateclass.Class{}, false, err
		}
	}

	dp := d.Clone()
	ceiling := make([]string, 0, len(s.Petri.Enabled))
	for _, o := range s.Petri.Enabled {
		ceiling = append(ceiling, varName(net, o))
	}
	if err := dp.ImposeVarLower(vTau, ceiling); err != nil {
		if err == dbm.ErrEmptyZone {
			return stateclass.Class{}, false, nil
		}
		return stateclass.Class{}, false, err
	}
	if err := dp.SetNewGround(vTau); err != nil {
		return stateclass.Class{}, false, err
	}

	mNext, err := net.Fire(s.Petri.Marking, tau)
	if err != nil {
		return stateclass.Class{}, false, err
	}
	enabledNext, err := net.AllEnabled(mNext)
	if err != nil {
		return stateclass.Class{}, false, err
	}
	oldMinusTau := removeTransition(s.Petri.Enabled, tau)
	disabled := diffTransitions(oldMinusTau, enabledNext)
	newlyEnabled := diffTransitions(enabledNext, oldMinusTau)

	if len(disabled) > 0 {
		names := make([]string, len(disabled))
		for i, t := range disabled {
			names[i] = varName(net, t)
		}
		if dp, err = dp.ProjectVariables(names); err != nil {
			return stateclass.Class{}, false, err
		}
	}

	var specs []dbm.VarSpec
	for _, n := range newlyEnabled {
		tf, ok := net.TimedOf(n)
		if !ok {
			return stateclass.Class{}, false, ErrUnsupportedTransition{
				Transition: net.TransitionName(n),
				Reason:     "newly enabled without a Timed feature",
			}
		}
		lft, finite := tf.Interval.LFTFinite()
		specs = append(specs, dbm.VarSpec{
			Name:     varName(net, n),
			EFT:      tf.Interval.EFT(),
			LFT:      lft,
			LFTInfty: !finite,
		})
	}
	if len(specs) > 0 {
		if err := dp.AddVariables(specs); err != nil {
			return stateclass.Class{}, false, err
		}
	}

	if cfg.IncludeAge {
		if _, err := dp.GetBound(dbm.Age, dbm.Age); err != nil {
			if err := dp.AddVariables([]dbm.VarSpec{{Name: dbm.Age, EFT: 0, LFT: 0, LFTInfty: true}}); err != nil {
				return stateclass.Class{}, false, err
			}
		}
	}

	next := stateclass.Class{
		Petri: stateclass.PetriFeature{
			Marking:      mNext,
			Enabled:      enabledNext,
			NewlyEnabled: newlyEnabled,
			Disabled:     disabled,
		},
		HasTimed: true,
		Timed:    stateclass.TimedStateFeature{Domain: dp},
	}
	if cfg.MarkRegenerations {
		next.Regeneration = classifyRegeneration(net, next, cfg.RegenerationKind)
	}
	return next, true, nil
}

// rejectOnPriority implements step 2: among the transitions synchronized
// with tau at null delay, tau must have maximum priority.
func rejectOnPriority(net *petri.Net, d *dbm.Zone, vTau string, tau petri.TransitionId) (bool, error) {
	nullDelay, err := d.GetNullDelayVariables(vTau)
	if err != nil {
		return false, err
	}
	prioTau := net.PriorityOf(tau)
	for _, name := range nullDelay {
		if name == dbm.Ground || name == dbm.Age {
			continue
		}
		other, err := net.Transition(name)
		if err != nil {
			continue
		}
		if net.PriorityOf(other) > prioTau {
			return true, nil
		}
	}
	return false, nil
}

// rejectOnZeroProb implements step 3: reject when tau's firing would carry
// zero probability mass relative to a synchronized variable o that has
// already drifted from ground.
func rejectOnZeroProb(d *dbm.Zone, enabled []petri.TransitionId, vTau string, tau petri.TransitionId, net *petri.Net) (bool, error) {
	for _, o := range enabled {
		if o == tau {
			continue
		}
		vO := varName(net, o)
		if vO == dbm.Ground || vO == dbm.Age {
			continue
		}
		bOTau, err := d.GetBound(vO, vTau)
		if err != nil {
			return false, err
		}
		bTauO, err := d.GetBound(vTau, vO)
		if err != nil {
			return false, err
		}
		if !bOTau.IsZeroBound() || numeric.OmegaCompare(bTauO, numeric.Zero) <= 0 {
			continue
		}
		bTauGround, err := d.GetBound(vTau, dbm.Ground)
		if err != nil {
			return false, err
		}
		bGroundTau, err := d.GetBound(dbm.Ground, vTau)
		if err != nil {
			return false, err
		}
		bOGround, err := d.GetBound(vO, dbm.Ground)
		if err != nil {
			return false, err
		}
		bGroundO, err := d.GetBound(dbm.Ground, vO)
		if err != nil {
			return false, err
		}
		sum1, err1 := numeric.OmegaAdd(bTauGround, bGroundTau)
		sum2, err2 := numeric.OmegaAdd(bOGround, bGroundO)
		if err1 != nil || err2 != nil {
			continue
		}
		if numeric.OmegaCompare(sum1, numeric.Zero) > 0 || numeric.OmegaCompare(sum2, numeric.Zero) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// classifyRegeneration reports a Regeneration tag when every enabled
// transition with a non-exponential (general) timing distribution was
// newly enabled by this firing. RegenerationSyncsRefined additionally
// requires that none of those general transitions share a null-delay
// synchronization with a transition that was not newly enabled.
func classifyRegeneration(net *petri.Net, s stateclass.Class, kind stateclass.RegenerationKind) stateclass.Regeneration {
	if kind == stateclass.RegenerationNone {
		return stateclass.Regeneration{}
	}
	for _, t := range s.Petri.Enabled {
		if !isGeneralTiming(net, t) {
			continue
		}
		if !containsTransition(s.Petri.NewlyEnabled, t) {
			return stateclass.Regeneration{}
		}
		if kind == stateclass.RegenerationSyncsRefined {
			synced, err := s.Timed.Domain.GetNullDelayVariables(varName(net, t))
			if err != nil {
				continue
			}
			for _, name := range synced {
				if name == dbm.Ground || name == dbm.Age {
					continue
				}
				other, err := net.Transition(name)
				if err == nil && !containsTransition(s.Petri.NewlyEnabled, other) {
					return stateclass.Regeneration{}
				}
			}
		}
	}
	return stateclass.Regeneration{Tagged: true, Kind: kind}
}

func isGeneralTiming(net *petri.Net, t petri.TransitionId) bool {
	if st, ok := net.StochasticOf(t); ok {
		return !st.IsExponential()
	}
	return true
}
