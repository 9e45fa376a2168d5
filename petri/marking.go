// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package petri

// Marking is a set of Atoms (place ids and multiplicities), sorted in
// increasing order by place id. Items with multiplicity 0 never appear.
// This is the same convention used for dalzilio-nets' Marking, generalized
// from a bare place index to a PlaceId.
type Marking []Atom

// Atom is a pair of a place id and a (nonnegative, for markings; possibly
// negative for arc deltas) multiplicity.
type Atom struct {
	Pl   PlaceId
	Mult int
}

// AddToPlace returns a new Marking obtained from m by adding mult tokens to
// place pl.
func (m Marking) AddToPlace(pl PlaceId, mult int) Marking {
	if mult == 0 {
		return m
	}
	if m == nil {
		return Marking{Atom{pl, mult}}
	}
	for i := range m {
		if m[i].Pl == pl {
			m[i].Mult += mult
			if m[i].Mult == 0 {
				return append(m[:i], m[i+1:]...)
			}
			return m
		}
		if m[i].Pl > pl {
			return append(m[:i], append(Marking{Atom{pl, mult}}, m[i:]...)...)
		}
	}
	return append(m, Atom{pl, mult})
}

// Add returns the pointwise sum of two markings, m and m2.
func (m Marking) Add(m2 Marking) Marking {
	res := make(Marking, 0, len(m)+len(m2))
	k1, k2 := 0, 0
	for {
		switch {
		case k1 == len(m):
			return append(res, m2[k2:]...)
		case k2 == len(m2):
			return append(res, m[k1:]...)
		case m[k1].Pl == m2[k2].Pl:
			if mult := m[k1].Mult + m2[k2].Mult; mult != 0 {
				res = append(res, Atom{Pl: m[k1].Pl, Mult: mult})
			}
			k1++
			k2++
		case m[k1].Pl < m2[k2].Pl:
			res = append(res, m[k1])
			k1++
		default:
			res = append(res, m2[k2])
			k2++
		}
	}
}

// Get returns the multiplicity associated with place pl, or 0 if absent.
func (m Marking) Get(pl PlaceId) int {
	for _, a := range m {
		if a.Pl == pl {
			return a.Mult
		}
		if a.Pl > pl {
			return 0
		}
	}
	return 0
}

// Clone returns a copy of m.
func (m Marking) Clone() Marking {
	mc := make(Marking, len(m))
	copy(mc, m)
	return mc
}

// Equal reports whether m2 is equal to m (equality is by sorted contents).
func (m Marking) Equal(m2 Marking) bool {
	if len(m) != len(m2) {
		return false
	}
	for k := range m {
		if m[k] != m2[k] {
			return false
		}
	}
	return true
}

// Dominates reports whether m is a super-marking of m2: m(p) >= m2(p) for
// every place p appearing in m2, e.g. {p1:1,p2:2}.Dominates({p2:2}) is true.
func (m Marking) Dominates(m2 Marking) bool {
	for _, a := range m2 {
		if m.Get(a.Pl) < a.Mult {
			return false
		}
	}
	return true
}

// Leq is the pointwise order used by the enabling-monotonicity invariant:
// m.Leq(m2) holds when m(p) <= m2(p) for every place p appearing in either
// marking.
func (m Marking) Leq(m2 Marking) bool {
	places := map[PlaceId]struct{}{}
	for _, a := range m {
		places[a.Pl] = struct{}{}
	}
	for _, a := range m2 {
		places[a.Pl] = struct{}{}
	}
	for p := range places {
		if m.Get(p) > m2.Get(p) {
			return false
		}
	}
	return true
}
