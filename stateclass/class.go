// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

// Package stateclass defines the symbolic reachable state used by both
// analysis paths: a marking and transition-set bookkeeping shared by every
// analysis, plus whichever of a DBM clock zone (timed path) or an SPN exit
// rate (GSPN path) applies.
package stateclass

import (
	"github.com/oris-tool/sirio-sub002/dbm"
	"github.com/oris-tool/sirio-sub002/numeric"
	"github.com/oris-tool/sirio-sub002/petri"
)

// PetriFeature carries the marking and the enabled/newly-enabled/disabled
// transition sets produced by the last firing.
type PetriFeature struct {
	Marking      petri.Marking
	Enabled      []petri.TransitionId
	NewlyEnabled []petri.TransitionId
	Disabled     []petri.TransitionId
}

// TimedStateFeature carries the canonical DBM zone over clock variables,
// present only in timed (TPN) analyses.
type TimedStateFeature struct {
	Domain *dbm.Zone
}

// SPNFeature carries the marking and exit rate of a GSPN state. ExitRate is
// +inf for a vanishing state, 0 for a stop-absorbed state, and any finite
// positive value for a tangible state.
type SPNFeature struct {
	Marking  petri.Marking
	ExitRate numeric.OmegaNum
}

// IsVanishing reports whether f has at least one enabled immediate
// transition (exit rate +inf).
func (f SPNFeature) IsVanishing() bool { return f.ExitRate.Sign() == numeric.SigPosInf }

// IsTangible reports whether f has a finite positive exit rate.
func (f SPNFeature) IsTangible() bool {
	return f.ExitRate.IsFinite() && !f.ExitRate.IsZeroBound()
}

// IsStopAbsorbed reports whether f is a deadlock (exit rate exactly 0).
func (f SPNFeature) IsStopAbsorbed() bool {
	return f.ExitRate.IsFinite() && f.ExitRate.IsZeroBound()
}

// RegenerationKind selects the strategy used to decide whether a state is a
// regeneration point.
type RegenerationKind uint8

const (
	// RegenerationNone means regeneration tagging is not performed.
	RegenerationNone RegenerationKind = iota
	// RegenerationPlain tags a state whenever every enabled general
	// (non-exponential) transition was newly enabled by the last firing.
	RegenerationPlain
	// RegenerationSyncsRefined additionally requires that none of those
	// general transitions share a null-delay synchronization with a
	// transition that was not newly enabled.
	RegenerationSyncsRefined
)

// Regeneration tags a state where every enabled general-distribution timer
// has just been enabled, making the future independent of the past beyond
// this state.
type Regeneration struct {
	Tagged bool
	Kind   RegenerationKind
}

// Class is a symbolic reachable state: a PetriFeature plus whichever of
// TimedStateFeature/SPNFeature apply to the analysis in progress, plus
// optional Regeneration and LocalStop markers. All fields are value types
// except the DBM zone, which TimedStateFeature holds by pointer; a Class
// owns its features and is never mutated in place once stored in a
// succession graph.
type Class struct {
	Petri PetriFeature

	HasTimed bool
	Timed    TimedStateFeature

	HasSPN bool
	SPN    SPNFeature

	Regeneration Regeneration
	LocalStop    bool
}
