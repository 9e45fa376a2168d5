// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

package stateclass

import "github.com/oris-tool/sirio-sub002/petri"

// TimedKey is the dedup key for timed-path states: a state class equals
// another exactly when its marking handle and canonical DBM zone both
// match. The enabled set is a deterministic function of the marking; the
// newly-enabled and disabled sets, which depend on the firing that
// produced the class, are not compared.
type TimedKey struct {
	Marking petri.Handle
	Zone    string
}

// Key returns c's TimedKey. c must carry a TimedStateFeature.
func (c Class) Key() (TimedKey, error) {
	h, err := c.Petri.Marking.Unique()
	if err != nil {
		return TimedKey{}, err
	}
	return TimedKey{Marking: h, Zone: c.Timed.Domain.CanonicalKey()}, nil
}

// GSPNKey is the dedup key for GSPN-path states: equality is by marking
// alone, so every successor reaching the same marking shares one node;
// each firing still adds its own edge to it.
type GSPNKey struct {
	Marking petri.Handle
}

// GSPNKeyOf returns c's GSPNKey.
func (c Class) GSPNKeyOf() (GSPNKey, error) {
	h, err := c.Petri.Marking.Unique()
	if err != nil {
		return GSPNKey{}, err
	}
	return GSPNKey{Marking: h}, nil
}
