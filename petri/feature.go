// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package petri

import "github.com/oris-tool/sirio-sub002/expr"

// FeatureKind tags the variant carried by a Feature: a closed enumeration
// instead of a runtime-type-tagged feature bag.
type FeatureKind uint8

const (
	FeatureTimed FeatureKind = iota
	FeatureStochastic
	FeaturePriority
	FeatureEnabling
	FeaturePostUpdate
)

// DensityKind enumerates the stochastic density variants of a Stochastic
// feature.
type DensityKind uint8

const (
	DensityExponential DensityKind = iota
	DensityErlang
	DensityUniform
	DensityDeterministic
	DensityPartitioned
)

// Density describes the firing-time density of a non-immediate stochastic
// transition. Immediate transitions use DensityDeterministic with Param==0.
type Density struct {
	Kind DensityKind
	// Exponential: Param = lambda.
	// Erlang: Param = lambda, K = shape.
	// Uniform: Param = a, Param2 = b.
	// Deterministic: Param = d (d==0 denotes Immediate).
	// Partitioned: Supports holds (support interval, expolynomial weight) pairs.
	Param, Param2 float64
	K             int
	Supports      []PartitionedSupport
}

// PartitionedSupport is one (support, weight) branch of a Partitioned
// density. Weight is referenced only by name here; expoly.Expolynomial is
// the concrete algebra used downstream by the (out-of-core) transient solver.
type PartitionedSupport struct {
	Support TimeInterval
	Weight  string // name of an expoly.Expolynomial registered elsewhere
}

// Timed is the Timed{eft,lft} feature.
type Timed struct {
	Interval TimeInterval
}

// Stochastic is the Stochastic{density, clock_rate, weight} feature.
// ClockRate and Weight are marking expressions, evaluated via expr.Eval.
type Stochastic struct {
	Density   Density
	ClockRate expr.Expr
	Weight    expr.Expr
}

// IsImmediate reports whether s denotes an Immediate transition:
// Deterministic(0) with a weight.
func (s Stochastic) IsImmediate() bool {
	return s.Density.Kind == DensityDeterministic && s.Density.Param == 0
}

// IsExponential reports whether s is Exponential(lambda) (lft = +inf).
func (s Stochastic) IsExponential() bool {
	return s.Density.Kind == DensityExponential
}

// Priority is the Priority(int) feature; transitions without it are treated
// as having priority -inf.
type Priority struct {
	Value int
}

// NoPriority is the priority value used for transitions without an explicit
// Priority feature.
const NoPriority = -1 << 30

// EnablingFunction is the EnablingFunction(cond) feature: a boolean marking
// expression gating enabling, in addition to pre/inhibitor arcs.
type EnablingFunction struct {
	Cond expr.Expr
}

// Assignment is one `place := expr;` step of a PostUpdater.
type Assignment struct {
	Place PlaceId
	Value expr.Expr
}

// PostUpdater is the PostUpdater(assignments) feature: a sequential list of
// assignments applied to the marking after arc effects.
type PostUpdater struct {
	Assignments []Assignment
}

// Feature is a tagged union with one variant per recognized feature kind,
// in place of a feature bag keyed by runtime type tag. Only one of the
// typed fields is meaningful, selected by Kind.
type Feature struct {
	Kind        FeatureKind
	Timed       Timed
	Stochastic  Stochastic
	Priority    Priority
	Enabling    EnablingFunction
	PostUpdater PostUpdater
}
