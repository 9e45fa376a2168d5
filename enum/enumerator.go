// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package enum

import (
	"context"
	"fmt"
)

// Config holds the policy, stop criteria and hooks shared by every
// Enumerator run, grounded on lvlath/core's functional-options-friendly
// plain-struct configuration.
type Config[K comparable, S any] struct {
	Policy  Policy
	Monitor context.Context
	Logger  Logger

	// LocalStop, if non-nil, is the StateStopCriterion: a boolean predicate
	// on a state (typically a marking condition) that halts expansion of
	// that branch without discarding the node itself.
	LocalStop func(S) bool

	// GlobalStop, if non-nil, halts the whole run once satisfied.
	GlobalStop func(*Graph[K, S]) bool

	// TauMax and AgeOf implement the TruncationPolicy: a branch whose state
	// reports an age (via AgeOf) exceeding TauMax is treated as LocalStop.
	// Used for transient analyses run with IncludeAge.
	TauMax float64
	AgeOf  func(S) (age float64, ok bool)

	PreProcessor  func(S) S
	PostProcessor func(S)
}

func (c Config[K, S]) logger() Logger {
	if c.Logger == nil {
		return NoopLogger
	}
	return c.Logger
}

// Enumerator is the generic worklist algorithm parameterized by an
// enabled-events builder, a successor evaluator, a key function recognizing
// state equality, and (optionally) an edge-label function — the firing
// transition and, for GSPN analyses, its probability.
type Enumerator[K comparable, S any, E any] struct {
	Config Config[K, S]

	EnabledEvents func(S) ([]E, error)
	SuccessorEval func(S, E) (S, bool, error)
	KeyOf         func(S) (K, error)
	EdgeLabel     func(from S, ev E, to S) any
}

// Run builds the succession graph reachable from initial. On cancellation
// (via Config.Monitor) or on GlobalStop it returns the partial graph built
// so far, unchanged and consistent, with a nil error.
func (e *Enumerator[K, S, E]) Run(initial S) (*Graph[K, S], error) {
	g := NewGraph[K, S]()
	log := e.Config.logger()

	k0, err := e.KeyOf(initial)
	if err != nil {
		return nil, fmt.Errorf("enum: keying initial state: %w", err)
	}
	root := g.AddNode(k0, initial)
	g.SetRoot(root)

	wl := &worklist{policy: e.Config.Policy}
	wl.push(root)
	log.Infof("enum: enumeration started")

	for {
		if e.Config.Monitor != nil && e.Config.Monitor.Err() != nil {
			log.Infof("enum: cancelled after %d nodes", g.NumNodes())
			return g, nil
		}
		if e.Config.GlobalStop != nil && e.Config.GlobalStop(g) {
			log.Infof("enum: global stop after %d nodes", g.NumNodes())
			return g, nil
		}
		idx, ok := wl.pop()
		if !ok {
			log.Infof("enum: worklist drained, %d nodes", g.NumNodes())
			return g, nil
		}
		node := g.Node(idx)
		if e.shouldLocalStop(node.State) {
			g.SetLocalStop(idx)
			log.Debugf("enum: node %d local-stopped", idx)
			continue
		}

		events, err := e.EnabledEvents(node.State)
		if err != nil {
			return g, fmt.Errorf("enum: enabled events at node %d: %w", idx, err)
		}
		for _, ev := range events {
			next, okFire, err := e.SuccessorEval(node.State, ev)
			if err != nil {
				return g, fmt.Errorf("enum: successor eval at node %d: %w", idx, err)
			}
			if !okFire {
				continue
			}
			if e.Config.PreProcessor != nil {
				next = e.Config.PreProcessor(next)
			}
			k, err := e.KeyOf(next)
			if err != nil {
				return g, fmt.Errorf("enum: keying successor of node %d: %w", idx, err)
			}
			label := e.labelFor(node.State, ev, next)
			if existing, found := g.Lookup(k); found {
				g.AddEdge(idx, existing, label)
				continue
			}
			newIdx := g.AddNode(k, next)
			if e.Config.PostProcessor != nil {
				e.Config.PostProcessor(next)
			}
			g.AddEdge(idx, newIdx, label)
			wl.push(newIdx)
		}
	}
}

func (e *Enumerator[K, S, E]) labelFor(from S, ev E, to S) any {
	if e.EdgeLabel != nil {
		return e.EdgeLabel(from, ev, to)
	}
	return ev
}

func (e *Enumerator[K, S, E]) shouldLocalStop(s S) bool {
	if e.Config.LocalStop != nil && e.Config.LocalStop(s) {
		return true
	}
	if e.Config.TauMax > 0 && e.Config.AgeOf != nil {
		if age, ok := e.Config.AgeOf(s); ok && age > e.Config.TauMax {
			return true
		}
	}
	return false
}
