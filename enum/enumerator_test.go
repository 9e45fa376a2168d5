// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package enum

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// countUp is a toy state: an integer counter bounded by a ceiling, with one
// event ("inc") per reachable successor.
func countUp(ceiling int) *Enumerator[int, int, string] {
	return &Enumerator[int, int, string]{
		EnabledEvents: func(s int) ([]string, error) {
			if s >= ceiling {
				return nil, nil
			}
			return []string{"inc"}, nil
		},
		SuccessorEval: func(s int, ev string) (int, bool, error) {
			return s + 1, true, nil
		},
		KeyOf: func(s int) (int, error) { return s, nil },
	}
}

func TestRunBuildsLinearChain(t *testing.T) {
	e := countUp(3)
	g, err := e.Run(0)
	require.NoError(t, err)
	require.Equal(t, 4, g.NumNodes())
	require.Len(t, g.Roots(), 1)
}

func TestRunDeduplicatesConvergingStates(t *testing.T) {
	// Two distinct events from 0 both lead to 1; the graph must still have
	// exactly 2 nodes with 2 edges converging on the same node.
	e := &Enumerator[int, int, string]{
		EnabledEvents: func(s int) ([]string, error) {
			if s == 0 {
				return []string{"a", "b"}, nil
			}
			return nil, nil
		},
		SuccessorEval: func(s int, ev string) (int, bool, error) { return 1, true, nil },
		KeyOf:         func(s int) (int, error) { return s, nil },
	}
	g, err := e.Run(0)
	require.NoError(t, err)
	require.Equal(t, 2, g.NumNodes())
	require.Len(t, g.Edges(0), 2)
}

func TestRunHonorsLocalStop(t *testing.T) {
	e := countUp(10)
	e.Config.LocalStop = func(s int) bool { return s >= 2 }
	g, err := e.Run(0)
	require.NoError(t, err)
	require.Equal(t, 3, g.NumNodes())
	require.True(t, g.Node(2).LocalStop)
}

func TestRunHonorsGlobalStop(t *testing.T) {
	e := countUp(10)
	e.Config.GlobalStop = func(g *Graph[int, int]) bool { return g.NumNodes() >= 2 }
	g, err := e.Run(0)
	require.NoError(t, err)
	require.Equal(t, 2, g.NumNodes())
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := countUp(100)
	e.Config.Monitor = ctx
	g, err := e.Run(0)
	require.NoError(t, err)
	require.Equal(t, 1, g.NumNodes())
}

func TestRunPropagatesSuccessorEvalError(t *testing.T) {
	e := countUp(1)
	e.SuccessorEval = func(s int, ev string) (int, bool, error) {
		return 0, false, context.DeadlineExceeded
	}
	_, err := e.Run(0)
	require.Error(t, err)
}

func TestRunSkipsRejectedSuccessor(t *testing.T) {
	e := countUp(5)
	e.SuccessorEval = func(s int, ev string) (int, bool, error) {
		if s == 1 {
			return 0, false, nil
		}
		return s + 1, true, nil
	}
	g, err := e.Run(0)
	require.NoError(t, err)
	require.Equal(t, 2, g.NumNodes())
}

func TestLIFOPolicyStillVisitsEveryNode(t *testing.T) {
	e := countUp(5)
	e.Config.Policy = PolicyLIFO
	g, err := e.Run(0)
	require.NoError(t, err)
	require.Equal(t, 6, g.NumNodes())
}
