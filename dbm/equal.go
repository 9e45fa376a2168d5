package dbm

import (
	"sort"
	"strings"

	"github.com/oris-tool/sirio-sub002/numeric"
)

// Equal reports whether z and other denote the same canonical zone, modulo
// the order in which variables were added.
func (z *Zone) Equal(other *Zone) bool {
	if len(z.names) != len(other.names) {
		return false
	}
	order := z.commonOrder()
	for _, n := range order {
		if _, ok := other.index[n]; !ok {
			return false
		}
	}
	for _, a := range order {
		for _, b := range order {
			ia, ib := z.index[a], z.index[b]
			ja, jb := other.index[a], other.index[b]
			if numeric.OmegaCompare(z.b[ia][ib], other.b[ja][jb]) != 0 {
				return false
			}
		}
	}
	return true
}

// commonOrder returns a deterministic ordering of z's variables: Ground
// first, then all others sorted lexically.
func (z *Zone) commonOrder() []string {
	others := make([]string, 0, len(z.names)-1)
	for _, n := range z.names {
		if n != Ground {
			others = append(others, n)
		}
	}
	sort.Strings(others)
	return append([]string{Ground}, others...)
}

// CanonicalKey returns a deterministic string encoding of z, suitable as a
// map key, invariant to the order in which variables were added (the same
// ordering used by Equal).
func (z *Zone) CanonicalKey() string {
	order := z.commonOrder()
	var sb strings.Builder
	for _, n := range order {
		sb.WriteString(n)
		sb.WriteByte(';')
	}
	sb.WriteByte('|')
	for _, a := range order {
		ia := z.index[a]
		for _, b := range order {
			ib := z.index[b]
			sb.WriteString(z.b[ia][ib].String())
			sb.WriteByte(',')
		}
	}
	return sb.String()
}
