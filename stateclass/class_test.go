// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package stateclass

import (
	"testing"

	"github.com/oris-tool/sirio-sub002/dbm"
	"github.com/oris-tool/sirio-sub002/numeric"
	"github.com/oris-tool/sirio-sub002/petri"
	"github.com/stretchr/testify/require"
)

func TestSPNFeatureClassification(t *testing.T) {
	vanishing := SPNFeature{ExitRate: numeric.PosInf}
	require.True(t, vanishing.IsVanishing())
	require.False(t, vanishing.IsTangible())
	require.False(t, vanishing.IsStopAbsorbed())

	tangible := SPNFeature{ExitRate: numeric.Finite(numeric.NewFloat(2.5))}
	require.True(t, tangible.IsTangible())
	require.False(t, tangible.IsVanishing())

	stopped := SPNFeature{ExitRate: numeric.Zero}
	require.True(t, stopped.IsStopAbsorbed())
	require.False(t, stopped.IsTangible())
}

func TestKeyDistinguishesZonesOverSameMarking(t *testing.T) {
	net := petri.NewNet("k")
	p1 := net.AddPlace("p1")
	m := petri.Marking{}.AddToPlace(p1, 1)

	z1 := dbm.New()
	require.NoError(t, z1.AddVariables([]dbm.VarSpec{{Name: "t1", EFT: 1, LFT: 2}}))
	z2 := dbm.New()
	require.NoError(t, z2.AddVariables([]dbm.VarSpec{{Name: "t1", EFT: 3, LFT: 5}}))

	c1 := Class{Petri: PetriFeature{Marking: m}, HasTimed: true, Timed: TimedStateFeature{Domain: z1}}
	c2 := Class{Petri: PetriFeature{Marking: m}, HasTimed: true, Timed: TimedStateFeature{Domain: z2}}

	k1, err := c1.Key()
	require.NoError(t, err)
	k2, err := c2.Key()
	require.NoError(t, err)
	require.NotEqual(t, k1, k2)
}

func TestGSPNKeyIgnoresEverythingButMarking(t *testing.T) {
	net := petri.NewNet("k")
	p1 := net.AddPlace("p1")
	m := petri.Marking{}.AddToPlace(p1, 1)

	c1 := Class{Petri: PetriFeature{Marking: m}, HasSPN: true, SPN: SPNFeature{ExitRate: numeric.PosInf}}
	c2 := Class{Petri: PetriFeature{Marking: m}, HasSPN: true, SPN: SPNFeature{ExitRate: numeric.Zero}}

	k1, err := c1.GSPNKeyOf()
	require.NoError(t, err)
	k2, err := c2.GSPNKeyOf()
	require.NoError(t, err)
	require.Equal(t, k1, k2)
}
