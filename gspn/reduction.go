// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

// Package gspn builds a GSPN's full marking graph (tangible and vanishing
// states alike) and reduces it to the embedded tangible-to-tangible DTMC by
// walking out every chain of immediate firings, the classic vanishing-state
// elimination step of a stochastic Petri net analysis.
package gspn

import (
	"fmt"

	"github.com/oris-tool/sirio-sub002/enum"
	"github.com/oris-tool/sirio-sub002/petri"
	"github.com/oris-tool/sirio-sub002/stateclass"
	"github.com/oris-tool/sirio-sub002/succ"
)

// ErrTimelock reports an immediate-firing cycle with no tangible exit: the
// net can spend zero time cycling through vanishing markings forever.
type ErrTimelock struct {
	Markings []petri.Marking
}

func (e ErrTimelock) Error() string {
	return fmt.Sprintf("gspn: timelock detected over %d vanishing marking(s)", len(e.Markings))
}

// BuildFullGraph enumerates every GSPN state reachable from m0, deduplicated
// by marking, with each edge labeled by the firing probability computed by
// succ.GSPNEval.
func BuildFullGraph(net *petri.Net, m0 petri.Marking, cfg enum.Config[stateclass.GSPNKey, stateclass.Class]) (*enum.Graph[stateclass.GSPNKey, stateclass.Class], error) {
	exitRate, _, _, err := succ.ExitRateInfo(net, m0)
	if err != nil {
		return nil, err
	}
	initial := stateclass.Class{
		Petri:  stateclass.PetriFeature{Marking: m0},
		HasSPN: true,
		SPN:    stateclass.SPNFeature{Marking: m0, ExitRate: exitRate},
	}

	var lastProb float64
	e := &enum.Enumerator[stateclass.GSPNKey, stateclass.Class, petri.TransitionId]{
		Config: cfg,
		EnabledEvents: func(s stateclass.Class) ([]petri.TransitionId, error) {
			return net.AllEnabled(s.Petri.Marking)
		},
		SuccessorEval: func(s stateclass.Class, ev petri.TransitionId) (stateclass.Class, bool, error) {
			out, ok, err := succ.GSPNEval(net, s.Petri.Marking, ev)
			if err != nil || !ok {
				return stateclass.Class{}, ok, err
			}
			lastProb = out.Probability
			return out.Class, true, nil
		},
		KeyOf: func(s stateclass.Class) (stateclass.GSPNKey, error) { return s.GSPNKeyOf() },
		EdgeLabel: func(from stateclass.Class, ev petri.TransitionId, to stateclass.Class) any {
			return lastProb
		},
	}
	return e.Run(initial)
}

// TangibleEdge is a reduced transition between two tangible (or
// stop-absorbed) markings, with the immediate-firing chains in between
// collapsed into a single probability mass.
type TangibleEdge struct {
	From, To petri.Marking
	Prob     float64
}

// Reduced is the embedded-DTMC view of a full GSPN graph: only tangible
// nodes remain, with TangibleEdge connecting them directly.
type Reduced struct {
	Graph    *enum.Graph[stateclass.GSPNKey, stateclass.Class]
	Tangible []int
	Edges    map[int][]TangibleEdge
}

// TangibleReduction walks out every vanishing chain reachable from each
// tangible node of full, grounded on the recursive mark-and-recurse shape
// of a depth-first traversal. It first checks the vanishing-only subgraph
// for a cycle (an immediate-firing loop with no tangible exit), reporting
// ErrTimelock before attempting any reduction.
func TangibleReduction(full *enum.Graph[stateclass.GSPNKey, stateclass.Class]) (*Reduced, error) {
	if err := detectVanishingCycle(full); err != nil {
		return nil, err
	}

	n := full.NumNodes()
	var tangibleIdx []int
	for i := 0; i < n; i++ {
		s := full.Node(i).State
		if s.SPN.IsTangible() || s.SPN.IsStopAbsorbed() {
			tangibleIdx = append(tangibleIdx, i)
		}
	}
	edges := make(map[int][]TangibleEdge, len(tangibleIdx))
	for _, i := range tangibleIdx {
		edges[i] = reduceFrom(full, i)
	}
	return &Reduced{Graph: full, Tangible: tangibleIdx, Edges: edges}, nil
}

// InitialDistribution returns the embedded DTMC's initial distribution
// given a (possibly vanishing) root node: a tangible root starts with all
// of its own mass, while a vanishing root is reduced away exactly like any
// other vanishing chain.
func InitialDistribution(full *enum.Graph[stateclass.GSPNKey, stateclass.Class], root int) ([]TangibleEdge, error) {
	if err := detectVanishingCycle(full); err != nil {
		return nil, err
	}
	s := full.Node(root).State
	if s.SPN.IsTangible() || s.SPN.IsStopAbsorbed() {
		return []TangibleEdge{{From: s.Petri.Marking, To: s.Petri.Marking, Prob: 1.0}}, nil
	}
	return reduceFrom(full, root), nil
}

// detectVanishingCycle reports ErrTimelock if the subgraph induced by
// vanishing (non-tangible) nodes contains a cycle.
func detectVanishingCycle(full *enum.Graph[stateclass.GSPNKey, stateclass.Class]) error {
	n := full.NumNodes()
	const unvisited, onStack, done = 0, 1, 2
	state := make([]int, n)
	var stack []int

	var visit func(i int) error
	visit = func(i int) error {
		s := full.Node(i).State
		if s.SPN.IsTangible() || s.SPN.IsStopAbsorbed() {
			return nil
		}
		switch state[i] {
		case onStack:
			var markings []petri.Marking
			for _, si := range stack {
				markings = append(markings, full.Node(si).State.Petri.Marking)
			}
			return ErrTimelock{Markings: markings}
		case done:
			return nil
		}
		state[i] = onStack
		stack = append(stack, i)
		for _, e := range full.Edges(i) {
			if err := visit(e.To); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = done
		return nil
	}
	for i := 0; i < n; i++ {
		if err := visit(i); err != nil {
			return err
		}
	}
	return nil
}

// reduceFrom accumulates the probability mass reaching every tangible
// descendant of start through chains of immediate firings. The
// vanishing-only subgraph is acyclic by the time this runs, and only the
// first visit of start is expanded (a chain leading back to a tangible
// start ends there, as a self-loop), so plain recursion terminates.
func reduceFrom(full *enum.Graph[stateclass.GSPNKey, stateclass.Class], start int) []TangibleEdge {
	acc := map[int]float64{}

	var visit func(idx int, prob float64, first bool)
	visit = func(idx int, prob float64, first bool) {
		s := full.Node(idx).State
		if !first && (s.SPN.IsTangible() || s.SPN.IsStopAbsorbed()) {
			acc[idx] += prob
			return
		}
		for _, e := range full.Edges(idx) {
			p, _ := e.Label.(float64)
			visit(e.To, prob*p, false)
		}
	}

	visit(start, 1.0, true)
	out := make([]TangibleEdge, 0, len(acc))
	startMarking := full.Node(start).State.Petri.Marking
	for idx, p := range acc {
		out = append(out, TangibleEdge{From: startMarking, To: full.Node(idx).State.Petri.Marking, Prob: p})
	}
	return out
}
