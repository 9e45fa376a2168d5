// Copyright (c) 2024 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package petri

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unique"
)

// Handle is a unique identifier for a Marking: the canonical, interned
// version (using the standard library's unique package) of a binary
// encoding of a Marking. Ported from dalzilio-nets/unique.go, generalized
// from int place indices to PlaceId. Handles are the dedup key the
// Enumerator uses to recognize that two independently-computed successor
// markings name the same state.
type Handle unique.Handle[string]

// Value returns a copy of the string value that produced the Handle.
func (h Handle) Value() string {
	return unique.Handle[string](h).Value()
}

// Unique returns a unique Handle for m. It only accepts nonnegative
// markings whose multiplicities fit into a uint32.
func (m Marking) Unique() (Handle, error) {
	var buf bytes.Buffer
	buf.Grow(8 * len(m))
	arr := make([]byte, 4)
	for _, v := range m {
		if v.Mult < 0 {
			return Handle(unique.Make("")), fmt.Errorf("petri: negative multiplicity")
		}
		if v.Mult >= math.MaxInt32 {
			return Handle(unique.Make("")), fmt.Errorf("petri: multiplicity over MaxInt32")
		}
		binary.BigEndian.PutUint32(arr, uint32(v.Pl))
		buf.Write(arr)
		binary.BigEndian.PutUint32(arr, uint32(v.Mult))
		buf.Write(arr)
	}
	return Handle(unique.Make(buf.String())), nil
}

// Marking returns the marking associated with a marking Handle. Relies on
// the fact that places occurring in markings are kept in increasing order.
func (h Handle) Marking() Marking {
	m := Marking{}
	s := []byte(h.Value())
	i := 0
	for i < len(s) {
		a := Atom{
			Pl:   PlaceId(binary.BigEndian.Uint32(s[i : i+4])),
			Mult: int(binary.BigEndian.Uint32(s[i+4 : i+8])),
		}
		m = append(m, a)
		i += 8
	}
	return m
}
