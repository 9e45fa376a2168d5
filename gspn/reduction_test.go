// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package gspn

import (
	"testing"

	"github.com/oris-tool/sirio-sub002/enum"
	"github.com/oris-tool/sirio-sub002/petri"
	"github.com/oris-tool/sirio-sub002/stateclass"
	"github.com/stretchr/testify/require"
)

func addExp(net *petri.Net, t petri.TransitionId, rate float64) {
	net.AddFeature(t, petri.Feature{
		Kind:       petri.FeatureStochastic,
		Stochastic: petri.Stochastic{Density: petri.Density{Kind: petri.DensityExponential, Param: rate}},
	})
}

func addImm(net *petri.Net, t petri.TransitionId) {
	net.AddFeature(t, petri.Feature{
		Kind:       petri.FeatureStochastic,
		Stochastic: petri.Stochastic{Density: petri.Density{Kind: petri.DensityDeterministic, Param: 0}},
	})
}

// buildVanishingChain builds p1--t1(EXP)-->p2--t2(IMM)-->p3--t3(EXP)-->p1,
// so that the marking {p2:1} is vanishing and must be reduced away.
func buildVanishingChain() (*petri.Net, petri.PlaceId, petri.PlaceId, petri.PlaceId) {
	net := petri.NewNet("chain")
	p1 := net.AddPlace("p1")
	p2 := net.AddPlace("p2")
	p3 := net.AddPlace("p3")
	t1 := net.AddTransition("t1")
	t2 := net.AddTransition("t2")
	t3 := net.AddTransition("t3")
	net.AddPrecondition(p1, t1, 1)
	net.AddPostcondition(t1, p2, 1)
	net.AddPrecondition(p2, t2, 1)
	net.AddPostcondition(t2, p3, 1)
	net.AddPrecondition(p3, t3, 1)
	net.AddPostcondition(t3, p1, 1)
	addExp(net, t1, 2.0)
	addImm(net, t2)
	addExp(net, t3, 3.0)
	return net, p1, p2, p3
}

func TestBuildFullGraphAndTangibleReduction(t *testing.T) {
	net, p1, p2, p3 := buildVanishingChain()
	m0 := petri.Marking{}.AddToPlace(p1, 1)

	full, err := BuildFullGraph(net, m0, enum.Config[stateclass.GSPNKey, stateclass.Class]{})
	require.NoError(t, err)
	require.Equal(t, 3, full.NumNodes())

	reduced, err := TangibleReduction(full)
	require.NoError(t, err)
	require.Len(t, reduced.Tangible, 2, "p1 and p3 are tangible, p2 is vanishing")

	var fromP1 []TangibleEdge
	for _, idx := range reduced.Tangible {
		if full.Node(idx).State.Petri.Marking.Get(p1) == 1 {
			fromP1 = reduced.Edges[idx]
		}
	}
	require.Len(t, fromP1, 1)
	require.Equal(t, 1, fromP1[0].To.Get(p3), "the vanishing hop through p2 collapses directly to p3")
	require.InDelta(t, 1.0, fromP1[0].Prob, 1e-9)
}

// buildTimelock builds an immediate cycle p1<->p2 with no tangible exit.
func buildTimelock() (*petri.Net, petri.PlaceId) {
	net := petri.NewNet("timelock")
	p1 := net.AddPlace("p1")
	p2 := net.AddPlace("p2")
	t1 := net.AddTransition("t1")
	t2 := net.AddTransition("t2")
	net.AddPrecondition(p1, t1, 1)
	net.AddPostcondition(t1, p2, 1)
	net.AddPrecondition(p2, t2, 1)
	net.AddPostcondition(t2, p1, 1)
	addImm(net, t1)
	addImm(net, t2)
	return net, p1
}

func TestTangibleReductionDetectsTimelock(t *testing.T) {
	net, p1 := buildTimelock()
	m0 := petri.Marking{}.AddToPlace(p1, 1)

	full, err := BuildFullGraph(net, m0, enum.Config[stateclass.GSPNKey, stateclass.Class]{})
	require.NoError(t, err)

	_, err = TangibleReduction(full)
	require.Error(t, err)
	var timelock ErrTimelock
	require.ErrorAs(t, err, &timelock)
}
