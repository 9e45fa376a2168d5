// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package petri

import (
	"fmt"
)

// arcSet is a sparse transition -> place -> multiplicity map, used for the
// three arc relations (Precondition, Postcondition, InhibitorArc), one
// Marking of deltas per transition, indexed by TransitionId. This mirrors
// dalzilio-nets' per-transition Cond/Inhib/Pre/Delta slices, generalized to
// three independent relations instead of a combined Delta, so precondition,
// postcondition and inhibitor arcs can be added and inspected separately.
type arcSet []Marking

func (a *arcSet) ensure(t TransitionId) {
	for TransitionId(len(*a)) <= t {
		*a = append(*a, nil)
	}
}

func (a arcSet) get(t TransitionId) Marking {
	if int(t) >= len(a) {
		return nil
	}
	return a[t]
}

// Net is a Petri net with places, transitions and the three sparse arc
// relations, plus a feature bag per transition and a priority relation.
// Places and transitions are identified by arena ids (PlaceId/TransitionId)
// rather than cyclic pointers.
type Net struct {
	Name string

	places      arena
	transitions arena

	Pre    arcSet // Precondition: Pre[t].Get(p) = multiplicity of arc p->t
	Post   arcSet // Postcondition: Post[t].Get(p) = multiplicity of arc t->p
	Inhib  arcSet // InhibitorArc: Inhib[t].Get(p) = capacity threshold
	Prio   [][]TransitionId
	Tlabel []string

	features [][]Feature // features[t] is the fixed-capacity feature bag of transition t

	Initial Marking
}

// NewNet returns an empty, named Net.
func NewNet(name string) *Net {
	return &Net{Name: name, places: newArena(), transitions: newArena()}
}

// AddPlace interns name as a place and returns its id.
func (net *Net) AddPlace(name string) PlaceId {
	id, _ := net.places.intern(name)
	return PlaceId(id)
}

// Place returns the id of an already-added place.
func (net *Net) Place(name string) (PlaceId, error) {
	id, ok := net.places.lookup(name)
	if !ok {
		return 0, ErrUnknownPlace{Name: name}
	}
	return PlaceId(id), nil
}

// PlaceName returns the name of a place id.
func (net *Net) PlaceName(p PlaceId) string { return net.places.name(int(p)) }

// NumPlaces returns the number of interned places.
func (net *Net) NumPlaces() int { return net.places.len() }

// AddTransition interns name as a transition and returns its id.
func (net *Net) AddTransition(name string) TransitionId {
	id, created := net.transitions.intern(name)
	t := TransitionId(id)
	if created {
		net.Pre.ensure(t)
		net.Post.ensure(t)
		net.Inhib.ensure(t)
		for TransitionId(len(net.Prio)) <= t {
			net.Prio = append(net.Prio, nil)
		}
		for TransitionId(len(net.Tlabel)) <= t {
			net.Tlabel = append(net.Tlabel, "")
		}
		for TransitionId(len(net.features)) <= t {
			net.features = append(net.features, nil)
		}
	}
	return t
}

// Transition returns the id of an already-added transition.
func (net *Net) Transition(name string) (TransitionId, error) {
	id, ok := net.transitions.lookup(name)
	if !ok {
		return 0, ErrUnknownTransition{Name: name}
	}
	return TransitionId(id), nil
}

// TransitionName returns the name of a transition id.
func (net *Net) TransitionName(t TransitionId) string { return net.transitions.name(int(t)) }

// NumTransitions returns the number of interned transitions, and is also
// the deterministic iteration bound used by AllEnabled: iteration over
// enabled transitions follows insertion order as declared on the net.
func (net *Net) NumTransitions() int { return net.transitions.len() }

// AddPrecondition adds an arc p -> t with multiplicity mult.
func (net *Net) AddPrecondition(p PlaceId, t TransitionId, mult int) {
	net.Pre.ensure(t)
	net.Pre[t] = net.Pre[t].AddToPlace(p, mult)
}

// AddPostcondition adds an arc t -> p with multiplicity mult.
func (net *Net) AddPostcondition(t TransitionId, p PlaceId, mult int) {
	net.Post.ensure(t)
	net.Post[t] = net.Post[t].AddToPlace(p, mult)
}

// AddInhibitor adds an inhibitor arc p -| t with capacity mult.
func (net *Net) AddInhibitor(p PlaceId, t TransitionId, mult int) {
	net.Inhib.ensure(t)
	net.Inhib[t] = net.Inhib[t].AddToPlace(p, mult)
}

// AddFeature appends f to t's feature bag.
func (net *Net) AddFeature(t TransitionId, f Feature) {
	for TransitionId(len(net.features)) <= t {
		net.features = append(net.features, nil)
	}
	net.features[t] = append(net.features[t], f)
}

// Features returns the feature bag of t.
func (net *Net) Features(t TransitionId) []Feature {
	if int(t) >= len(net.features) {
		return nil
	}
	return net.features[t]
}

// TimedOf returns the Timed feature of t, if any.
func (net *Net) TimedOf(t TransitionId) (Timed, bool) {
	for _, f := range net.Features(t) {
		if f.Kind == FeatureTimed {
			return f.Timed, true
		}
	}
	return Timed{}, false
}

// StochasticOf returns the Stochastic feature of t, if any.
func (net *Net) StochasticOf(t TransitionId) (Stochastic, bool) {
	for _, f := range net.Features(t) {
		if f.Kind == FeatureStochastic {
			return f.Stochastic, true
		}
	}
	return Stochastic{}, false
}

// PriorityOf returns t's Priority feature value, or NoPriority if absent.
func (net *Net) PriorityOf(t TransitionId) int {
	for _, f := range net.Features(t) {
		if f.Kind == FeaturePriority {
			return f.Priority.Value
		}
	}
	return NoPriority
}

// EnablingOf returns t's EnablingFunction feature, if any.
func (net *Net) EnablingOf(t TransitionId) (EnablingFunction, bool) {
	for _, f := range net.Features(t) {
		if f.Kind == FeatureEnabling {
			return f.Enabling, true
		}
	}
	return EnablingFunction{}, false
}

// PostUpdaterOf returns t's PostUpdater feature, if any.
func (net *Net) PostUpdaterOf(t TransitionId) (PostUpdater, bool) {
	for _, f := range net.Features(t) {
		if f.Kind == FeaturePostUpdate {
			return f.PostUpdater, true
		}
	}
	return PostUpdater{}, false
}

// AddPriority records that lower has lower priority than higher (net.Prio[higher]
// lists all transitions with lower priority), mirroring dalzilio-nets'
// net.Prio convention.
func (net *Net) AddPriority(higher, lower TransitionId) {
	for TransitionId(len(net.Prio)) <= higher {
		net.Prio = append(net.Prio, nil)
	}
	net.Prio[higher] = setAdd(net.Prio[higher], lower)
}

// ErrCyclicPriority is returned by PrioClosure when the priority relation
// has a cycle.
type ErrCyclicPriority struct{ Transition string }

func (e ErrCyclicPriority) Error() string {
	return fmt.Sprintf("petri: cyclic priority dependency involving %q", e.Transition)
}

// PrioClosure computes the transitive closure of the priority relation,
// ported near-verbatim from dalzilio-nets/nets.go's (*Net).PrioClosure.
func (net *Net) PrioClosure() error {
	done := []TransitionId{}
	work := []TransitionId{}
	for k, v := range net.Prio {
		if len(v) == 0 {
			done = setAdd(done, TransitionId(k))
		} else {
			work = setAdd(work, TransitionId(k))
		}
	}
	if len(done) == net.NumTransitions() {
		return nil
	}
	if len(done) == 0 {
		return fmt.Errorf("petri: problem with priorities, no minimal elements")
	}
	for {
		if len(work) == 0 {
			return nil
		}
		workn := []TransitionId{}
		donen := make([]TransitionId, len(done))
		copy(donen, done)
		for _, t := range work {
			if setIncluded(net.Prio[t], done) {
				for _, v := range net.Prio[t] {
					net.Prio[t] = setUnion(net.Prio[t], net.Prio[v])
				}
				donen = setAdd(donen, t)
			} else {
				workn = setAdd(workn, t)
			}
		}
		if len(workn) == len(work) {
			for _, t := range work {
				if setMember(net.Prio[t], t) >= 0 {
					return ErrCyclicPriority{Transition: net.TransitionName(t)}
				}
			}
			return fmt.Errorf("petri: cyclic dependencies between priorities")
		}
		work = workn
		done = donen
	}
}
