// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package petri

import (
	"fmt"
	"math"

	"github.com/oris-tool/sirio-sub002/expr"
)

// Bindings adapts a Marking to expr.Bindings, resolving a place name to its
// current token count. It never allows mutation (expr.Bindings has no
// setter): guards and conditions always evaluate against a read-only view
// of the marking.
type Bindings struct {
	Net *Net
	M   Marking
}

func (b Bindings) Lookup(name string) (expr.Value, bool) {
	p, err := b.Net.Place(name)
	if err != nil {
		return expr.Value{}, false
	}
	return expr.IntValue(int64(b.M.Get(p))), true
}

// IsEnabled reports whether transition t is enabled at marking m: every
// precondition is met, no inhibitor fires, and (if present) the
// EnablingFunction guard evaluates to true. Ported from dalzilio-nets'
// marking.go IsEnabled, extended with the guard clause.
func (net *Net) IsEnabled(m Marking, t TransitionId) (bool, error) {
	for _, a := range net.Pre.get(t) {
		if m.Get(a.Pl) < a.Mult {
			return false, nil
		}
	}
	for _, a := range net.Inhib.get(t) {
		if m.Get(a.Pl) >= a.Mult {
			return false, nil
		}
	}
	if ef, ok := net.EnablingOf(t); ok {
		ok, err := expr.EvalBool(ef.Cond, expr.NewEnv(Bindings{Net: net, M: m}))
		if err != nil {
			return false, fmt.Errorf("petri: evaluating enabling function of %q: %w", net.TransitionName(t), err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// AllEnabled returns the set of enabled transitions at m, in the
// deterministic insertion order of transitions declared on the net.
func (net *Net) AllEnabled(m Marking) ([]TransitionId, error) {
	enabled := make([]TransitionId, 0)
	for t := 0; t < net.NumTransitions(); t++ {
		ok, err := net.IsEnabled(m, TransitionId(t))
		if err != nil {
			return nil, err
		}
		if ok {
			enabled = append(enabled, TransitionId(t))
		}
	}
	return enabled, nil
}

// ErrNegativeTokens is returned by Fire when an arc effect or post-update
// would drive a place below zero after clamping is not applicable (arc
// effects never clamp: an enabled transition is guaranteed not to underflow
// on its own preconditions; this only fires on a modeling inconsistency).
type ErrNegativeTokens struct {
	Place string
}

func (e ErrNegativeTokens) Error() string {
	return fmt.Sprintf("petri: negative token count at place %q", e.Place)
}

// Fire computes the marking obtained by firing transition t at m: remove
// mult(p,t) tokens from each precondition place, add mult(t,p) tokens to
// each postcondition place, then, if t carries a PostUpdater, apply its
// assignments sequentially against the intermediate marking. A PostUpdater
// result that is not an integer is rounded to nearest and clamped at 0.
func (net *Net) Fire(m Marking, t TransitionId) (Marking, error) {
	next := m.Clone()
	for _, a := range net.Pre.get(t) {
		next = next.AddToPlace(a.Pl, -a.Mult)
		if next.Get(a.Pl) < 0 {
			return nil, ErrNegativeTokens{Place: net.PlaceName(a.Pl)}
		}
	}
	for _, a := range net.Post.get(t) {
		next = next.AddToPlace(a.Pl, a.Mult)
	}
	pu, ok := net.PostUpdaterOf(t)
	if !ok {
		return next, nil
	}
	for _, assign := range pu.Assignments {
		env := expr.NewEnv(Bindings{Net: net, M: next})
		v, err := expr.EvalNum(assign.Value, env)
		if err != nil {
			return nil, fmt.Errorf("petri: post-update of %q: %w", net.TransitionName(t), err)
		}
		rounded := int(math.Round(v.Float64()))
		if rounded < 0 {
			rounded = 0
		}
		next = next.AddToPlace(assign.Place, rounded-next.Get(assign.Place))
	}
	return next, nil
}
