package petri

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkingAddToPlace(t *testing.T) {
	tables := []struct {
		m        Marking
		pl       PlaceId
		mult     int
		expected Marking
	}{
		{Marking{}, 2, 6, Marking{Atom{2, 6}}},
		{Marking{Atom{3, 4}}, 3, 6, Marking{Atom{3, 10}}},
		{Marking{Atom{4, 4}}, 3, 0, Marking{Atom{4, 4}}},
		{Marking{Atom{4, 4}}, 4, -4, Marking{}},
		{Marking{Atom{4, 4}}, 3, 2, Marking{Atom{3, 2}, Atom{4, 4}}},
		{Marking{Atom{0, -1}, Atom{5, 4}}, 5, -1, Marking{Atom{0, -1}, Atom{5, 3}}},
		{Marking{Atom{6, 7}, Atom{8, 7}, Atom{10, 4}}, 8, -7, Marking{Atom{6, 7}, Atom{10, 4}}},
	}

	for _, tt := range tables {
		actual := tt.m.AddToPlace(tt.pl, tt.mult)
		require.Truef(t, actual.Equal(tt.expected), "%v.AddToPlace(%d, %d): expected %v, actual %v", tt.m, tt.pl, tt.mult, tt.expected, actual)
	}
}

func TestMarkingDominatesSubmarking(t *testing.T) {
	m := Marking{Atom{1, 1}, Atom{2, 2}}
	require.True(t, m.Dominates(Marking{Atom{2, 2}}))
	require.False(t, m.Dominates(Marking{Atom{3, 1}}))
}

func TestMarkingEnablingMonotone(t *testing.T) {
	net := NewNet("mono")
	p1 := net.AddPlace("p1")
	p2 := net.AddPlace("p2")
	t1 := net.AddTransition("t1")
	net.AddPrecondition(p1, t1, 1)
	net.AddInhibitor(p2, t1, 3)

	m := Marking{Atom{p1, 1}}
	mPrime := Marking{Atom{p1, 2}}
	require.True(t, m.Leq(mPrime))

	enabledAtM, err := net.IsEnabled(m, t1)
	require.NoError(t, err)
	enabledAtMPrime, err := net.IsEnabled(mPrime, t1)
	require.NoError(t, err)
	require.True(t, enabledAtM)
	require.True(t, enabledAtMPrime)
}
