// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package sirio

import (
	"testing"

	"github.com/oris-tool/sirio-sub002/gspn"
	"github.com/oris-tool/sirio-sub002/petri"
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

func addTimed(net *petri.Net, t petri.TransitionId, eft, lft int) {
	net.AddFeature(t, petri.Feature{
		Kind: petri.FeatureTimed,
		Timed: petri.Timed{Interval: petri.TimeInterval{
			Left:  petri.Bound{Bkind: petri.BCLOSE, Value: eft},
			Right: petri.Bound{Bkind: petri.BCLOSE, Value: lft},
		}},
	})
}

// buildDeterministicCycle is a two-state CTMC cycle: p1 -(rate 1)-> p2
// -(rate 2)-> p1.
func buildDeterministicCycle() (*petri.Net, petri.PlaceId, petri.PlaceId) {
	net := petri.NewNet("cycle")
	p1 := net.AddPlace("p1")
	p2 := net.AddPlace("p2")
	t1 := net.AddTransition("t1")
	t2 := net.AddTransition("t2")
	net.AddPrecondition(p1, t1, 1)
	net.AddPostcondition(t1, p2, 1)
	net.AddPrecondition(p2, t2, 1)
	net.AddPostcondition(t2, p1, 1)
	addExp(net, t1, 1.0)
	addExp(net, t2, 2.0)
	return net, p1, p2
}

func TestSteadyStateDeterministicSingleCycle(t *testing.T) {
	net, p1, _ := buildDeterministicCycle()
	m0 := petri.Marking{}.AddToPlace(p1, 1)

	ss, err := SteadyState(net, m0, Config{}, 1000, 1e-12)
	require.NoError(t, err)
	require.Len(t, ss, 2)

	var total float64
	for _, p := range ss {
		total += p
	}
	require.InDelta(t, 1.0, total, 1e-6)
}

func TestGSPNReachabilityRespectsImmediatePriority(t *testing.T) {
	net := petri.NewNet("prio")
	p1 := net.AddPlace("p1")
	p2 := net.AddPlace("p2")
	p3 := net.AddPlace("p3")
	t1 := net.AddTransition("t1")
	t2 := net.AddTransition("t2")
	t3 := net.AddTransition("t3")
	net.AddPrecondition(p1, t1, 1)
	net.AddPostcondition(t1, p2, 1)
	net.AddPrecondition(p1, t2, 1)
	net.AddPostcondition(t2, p3, 1)
	net.AddPrecondition(p2, t3, 1)
	net.AddPrecondition(p3, t3, 1)
	addImm(net, t1)
	addImm(net, t2)
	addExp(net, t3, 1.0)
	net.AddFeature(t2, petri.Feature{Kind: petri.FeaturePriority, Priority: petri.Priority{Value: 1}})

	m0 := petri.Marking{}.AddToPlace(p1, 1)
	res, err := GSPNReachability(net, m0, Config{})
	require.NoError(t, err)
	require.Len(t, res.Reduced.Tangible, 1, "only the higher-priority t2 branch is ever reached")
}

// buildVanishingChain mirrors gspn's own reduction scenario: firing through
// a vanishing marking collapses to a single tangible-to-tangible edge.
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

func TestGSPNReachabilityEliminatesVanishingStates(t *testing.T) {
	net, p1, p2, _ := buildVanishingChain()
	m0 := petri.Marking{}.AddToPlace(p1, 1)

	res, err := GSPNReachability(net, m0, Config{})
	require.NoError(t, err)
	require.Len(t, res.Reduced.Tangible, 2)
	for _, idx := range res.Reduced.Tangible {
		require.NotEqual(t, p2, res.Reduced.Graph.Node(idx).State.Petri.Marking[0].Pl, "p2's vanishing marking must not survive reduction")
	}
}

func TestGSPNReachabilityReportsTimelock(t *testing.T) {
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

	m0 := petri.Marking{}.AddToPlace(p1, 1)
	_, err := GSPNReachability(net, m0, Config{})
	require.Error(t, err)
	var timelock gspn.ErrTimelock
	require.ErrorAs(t, err, &timelock)
}

func TestTimedAnalysisSingleCycle(t *testing.T) {
	net := petri.NewNet("timed-cycle")
	p1 := net.AddPlace("p1")
	p2 := net.AddPlace("p2")
	t1 := net.AddTransition("t1")
	t2 := net.AddTransition("t2")
	net.AddPrecondition(p1, t1, 1)
	net.AddPostcondition(t1, p2, 1)
	net.AddPrecondition(p2, t2, 1)
	net.AddPostcondition(t2, p1, 1)
	addTimed(net, t1, 1, 2)
	addTimed(net, t2, 3, 5)

	m0 := petri.Marking{}.AddToPlace(p1, 1)
	g, err := TimedAnalysis(net, m0, Config{})
	require.NoError(t, err)
	require.Equal(t, 2, g.NumNodes(), "the timed class graph cycles back to a class equal to the root")
}

func TestGSPNReachabilityRejectsInvalidNet(t *testing.T) {
	net := petri.NewNet("bad")
	p1 := net.AddPlace("p1")
	t1 := net.AddTransition("t1")
	net.AddPrecondition(p1, t1, 1)

	m0 := petri.Marking{}.AddToPlace(p1, 1)
	_, err := GSPNReachability(net, m0, Config{})
	require.Error(t, err)
	var invalid ErrInvalidNet
	require.ErrorAs(t, err, &invalid)
}
