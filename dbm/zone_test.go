package dbm

import (
	"testing"

	"github.com/oris-tool/sirio-sub002/numeric"
	"github.com/stretchr/testify/require"
)

func canonicalInvariants(t *testing.T, z *Zone) {
	t.Helper()
	vars := z.Variables()
	for i, a := range vars {
		b, err := z.GetBound(a, a)
		require.NoError(t, err)
		require.True(t, numeric.OmegaCompare(b, numeric.Zero) == 0, "B[%s][%s] must be 0", a, a)
		_ = i
	}
	for _, a := range vars {
		for _, k := range vars {
			for _, b := range vars {
				aib, err := z.GetBound(a, b)
				require.NoError(t, err)
				aik, _ := z.GetBound(a, k)
				kib, _ := z.GetBound(k, b)
				sum, err := numeric.OmegaAdd(aik, kib)
				if err != nil {
					continue
				}
				require.True(t, numeric.OmegaCompare(aib, sum) <= 0,
					"triangle inequality violated: B[%s][%s]=%v > B[%s][%s]+B[%s][%s]=%v", a, b, aib, a, k, k, b, sum)
			}
		}
	}
}

func TestZoneAddVariablesCanonical(t *testing.T) {
	z := New()
	require.NoError(t, z.AddVariables([]VarSpec{
		{Name: "v1", EFT: 1, LFT: 2},
		{Name: "v2", EFT: 0, LFT: 1},
	}))
	canonicalInvariants(t, z)

	b, err := z.GetBound(Ground, "v1")
	require.NoError(t, err)
	require.Equal(t, int64(2), mustFinite(t, b))
}

func mustFinite(t *testing.T, o numeric.OmegaNum) int64 {
	t.Helper()
	v, ok := o.Value()
	require.True(t, ok)
	return int64(v.Float64())
}

// TestDBMFiringS6 covers two newly-enabled transitions with
// (eft,lft)=(1,2) and (0,1). After firing the second at t=0, the first
// remains with bounds (1,2) relative to the new ground.
func TestDBMFiringS6(t *testing.T) {
	z := New()
	require.NoError(t, z.AddVariables([]VarSpec{
		{Name: "v1", EFT: 1, LFT: 2},
		{Name: "v2", EFT: 0, LFT: 1},
	}))

	require.NoError(t, z.ImposeVarLower("v2", []string{Ground, "v1"}))
	require.NoError(t, z.SetNewGround("v2"))
	canonicalInvariants(t, z)

	upper, err := z.GetBound(Ground, "v1")
	require.NoError(t, err)
	require.Equal(t, int64(2), mustFinite(t, upper))

	lower, err := z.GetBound("v1", Ground)
	require.NoError(t, err)
	require.Equal(t, int64(-1), mustFinite(t, lower))
}

func TestCanonicalizeIdempotent(t *testing.T) {
	z := New()
	require.NoError(t, z.AddVariables([]VarSpec{{Name: "v1", EFT: 1, LFT: 5}}))
	snapshot := z.Clone()
	require.NoError(t, z.Canonicalize())
	require.True(t, z.Equal(snapshot))
}

// TestSetNewGroundDropsOldGround covers the fix for unbounded variable
// growth across firings: the displaced old-ground variable must be
// projected away rather than kept under a synthetic name, and Ground must
// still be a valid lookup afterward.
func TestSetNewGroundDropsOldGround(t *testing.T) {
	z := New()
	require.NoError(t, z.AddVariables([]VarSpec{{Name: "v1", EFT: 1, LFT: 3}}))

	require.NoError(t, z.SetNewGround("v1"))
	require.ElementsMatch(t, []string{Ground}, z.Variables())

	b, err := z.GetBound(Ground, Ground)
	require.NoError(t, err)
	require.True(t, numeric.OmegaCompare(b, numeric.Zero) == 0)
}

// TestSetNewGroundAllowsVariableNameReuse covers the scenario behind a
// cyclic net: a transition fires, disables, and is later newly enabled
// again under the same name. Without dropping the old variable slot, the
// second AddVariables call would collide with a stale index entry.
func TestSetNewGroundAllowsVariableNameReuse(t *testing.T) {
	z := New()
	require.NoError(t, z.AddVariables([]VarSpec{{Name: "t1", EFT: 1, LFT: 2}}))
	require.NoError(t, z.SetNewGround("t1"))
	require.Len(t, z.Variables(), 1)

	require.NoError(t, z.AddVariables([]VarSpec{{Name: "t2", EFT: 3, LFT: 5}}))
	require.NoError(t, z.SetNewGround("t2"))
	require.Len(t, z.Variables(), 1)

	// t1 fires again under the same name; must not collide with a stale entry.
	require.NoError(t, z.AddVariables([]VarSpec{{Name: "t1", EFT: 1, LFT: 2}}))
	require.Len(t, z.Variables(), 2)
}

func TestImposeVarLowerEmptyZone(t *testing.T) {
	z := New()
	require.NoError(t, z.AddVariables([]VarSpec{{Name: "v1", EFT: 5, LFT: 10}}))
	// v1 is constrained to [5,10]; forcing v1 <= ground (i.e. v1 <= 0) is
	// unsatisfiable and must leave the zone empty.
	_ = z.ImposeVarLower("v1", []string{Ground})
	require.True(t, z.IsEmpty())
}

func TestProjectVariables(t *testing.T) {
	z := New()
	require.NoError(t, z.AddVariables([]VarSpec{
		{Name: "v1", EFT: 1, LFT: 2},
		{Name: "v2", EFT: 0, LFT: 1},
	}))
	nz, err := z.ProjectVariables([]string{"v2"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{Ground, "v1"}, nz.Variables())
}

func TestGetNullDelayVariables(t *testing.T) {
	z := New()
	require.NoError(t, z.AddVariables([]VarSpec{
		{Name: "v1", EFT: 0, LFT: 0},
		{Name: "v2", EFT: 1, LFT: 2},
	}))
	nulls, err := z.GetNullDelayVariables(Ground)
	require.NoError(t, err)
	require.Contains(t, nulls, "v1")
	require.NotContains(t, nulls, "v2")
}
