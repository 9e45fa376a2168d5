// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

// Package dbm implements the canonical Difference Bound Matrix zone used to
// represent a timed state class's clock domain. There is no DBM or zone
// library anywhere in the retrieval pack; the matrix
// representation and Floyd-Warshall canonicalization are grounded on the
// square-matrix, index-based style of dalzilio-nets' own Marking/Net
// indexing convention (arena ids rather than names used as map keys
// everywhere on the hot path) and on lvlath/matrix's "algorithms return
// sentinel errors, never panic" convention for its errors.go.
package dbm

import (
	"fmt"

	"github.com/oris-tool/sirio-sub002/numeric"
)

// Ground is the reserved name of the zero/ground clock variable, always
// present in a Zone.
const Ground = "t*"

// Age is the reserved name of the elapsed-time-since-initial-state
// variable, used only when IncludeAge is enabled (succ.TimedConfig,
// sirio.Config).
const Age = "age"

// Zone is a canonical DBM over a dynamic, named set of variables (always
// containing Ground). B[i][j] bounds vj - vi. The ground variable is always
// held at matrix index 0.
type Zone struct {
	names []string
	index map[string]int
	b     [][]numeric.OmegaNum
}

// ErrUnknownVariable is returned when an operation references a variable
// not present in the zone.
type ErrUnknownVariable struct{ Name string }

func (e ErrUnknownVariable) Error() string { return fmt.Sprintf("dbm: unknown variable %q", e.Name) }

// ErrVariableExists is returned by AddVariables when a name collides with
// an existing variable.
type ErrVariableExists struct{ Name string }

func (e ErrVariableExists) Error() string {
	return fmt.Sprintf("dbm: variable %q already present", e.Name)
}

// ErrEmptyZone is returned by operations that would leave, or detect, an
// empty (unsatisfiable) zone.
var ErrEmptyZone = fmt.Errorf("dbm: empty zone after conditioning")

// New returns a fresh canonical Zone with only the ground variable.
func New() *Zone {
	z := &Zone{
		names: []string{Ground},
		index: map[string]int{Ground: 0},
		b:     [][]numeric.OmegaNum{{numeric.Zero}},
	}
	return z
}

// Variables returns the zone's variable names, ground first, in matrix
// index order.
func (z *Zone) Variables() []string {
	out := make([]string, len(z.names))
	copy(out, z.names)
	return out
}

// Len returns the number of variables in the zone.
func (z *Zone) Len() int { return len(z.names) }

func (z *Zone) idx(name string) (int, error) {
	i, ok := z.index[name]
	if !ok {
		return 0, ErrUnknownVariable{Name: name}
	}
	return i, nil
}

// GetBound returns B[a][b], the upper bound on vb - va.
func (z *Zone) GetBound(a, b string) (numeric.OmegaNum, error) {
	ia, err := z.idx(a)
	if err != nil {
		return numeric.OmegaNum{}, err
	}
	ib, err := z.idx(b)
	if err != nil {
		return numeric.OmegaNum{}, err
	}
	return z.b[ia][ib], nil
}

// setBound sets B[i][j] without canonicalizing.
func (z *Zone) setBound(i, j int, v numeric.OmegaNum) {
	z.b[i][j] = v
}

// Clone returns a deep copy of z.
func (z *Zone) Clone() *Zone {
	nz := &Zone{
		names: append([]string(nil), z.names...),
		index: make(map[string]int, len(z.index)),
		b:     make([][]numeric.OmegaNum, len(z.b)),
	}
	for k, v := range z.index {
		nz.index[k] = v
	}
	for i := range z.b {
		nz.b[i] = append([]numeric.OmegaNum(nil), z.b[i]...)
	}
	return nz
}

// VarSpec describes one new clock variable to add via AddVariables: its
// earliest and latest firing time bounds relative to ground.
type VarSpec struct {
	Name     string
	EFT      int
	LFT      int
	LFTInfty bool
}

// AddVariables appends each new variable w in specs with
// B[ground][w] := lft and B[w][ground] := -eft, then canonicalizes.
func (z *Zone) AddVariables(specs []VarSpec) error {
	for _, s := range specs {
		if _, exists := z.index[s.Name]; exists {
			return ErrVariableExists{Name: s.Name}
		}
	}
	for _, s := range specs {
		idxNew := len(z.names)
		z.names = append(z.names, s.Name)
		z.index[s.Name] = idxNew
		for i := range z.b {
			z.b[i] = append(z.b[i], numeric.PosInf)
		}
		row := make([]numeric.OmegaNum, len(z.names))
		for i := range row {
			row[i] = numeric.PosInf
		}
		row[idxNew] = numeric.Zero
		z.b = append(z.b, row)

		lft := numeric.PosInf
		if !s.LFTInfty {
			lft = numeric.FiniteInt(int64(s.LFT))
		}
		z.setBound(0, idxNew, lft)
		z.setBound(idxNew, 0, numeric.FiniteInt(int64(-s.EFT)))
	}
	return z.Canonicalize()
}

// Canonicalize runs in-place Floyd-Warshall shortest-path closure, O(|V|^3),
// the step every mutating operation in this package must perform before
// returning. It returns ErrEmptyZone if the result has a negative cycle
// (B[i][i] < 0 for some i).
func (z *Zone) Canonicalize() error {
	n := len(z.names)
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if z.b[i][k].IsInfinite() && z.b[i][k].Sign() == numeric.SigPosInf {
				continue
			}
			for j := 0; j < n; j++ {
				via, err := numeric.OmegaAdd(z.b[i][k], z.b[k][j])
				if err != nil {
					continue
				}
				if numeric.OmegaCompare(via, z.b[i][j]) < 0 {
					z.b[i][j] = via
				}
			}
		}
	}
	for i := 0; i < n; i++ {
		if numeric.OmegaCompare(z.b[i][i], numeric.Zero) < 0 {
			return ErrEmptyZone
		}
		z.b[i][i] = numeric.Zero
	}
	return nil
}

// IsEmpty reports whether z is unsatisfiable. It re-canonicalizes first.
func (z *Zone) IsEmpty() bool {
	return z.Canonicalize() != nil
}

// ImposeVarLower forces v <= w for every w in ceilingVars: firability
// conditioning for the transition whose clock is v, which must not exceed
// any other currently-enabled clock — the standard "fire the earliest
// enabled clock" zone constraint. Given the bound convention B[i][j] bounds
// vj-vi, "v <= w" is the constraint (v - w) <= 0, i.e. B[w][v] := min(B[w][v], 0).
// Canonicalizes afterward; returns ErrEmptyZone if the result is
// unsatisfiable.
func (z *Zone) ImposeVarLower(v string, ceilingVars []string) error {
	iv, err := z.idx(v)
	if err != nil {
		return err
	}
	for _, w := range ceilingVars {
		iw, err := z.idx(w)
		if err != nil {
			return err
		}
		if iw == iv {
			continue
		}
		z.b[iw][iv] = numeric.OmegaMin(z.b[iw][iv], numeric.Zero)
	}
	return z.Canonicalize()
}

// SetNewGround implements the firing of clock v: time is now reckoned from
// v's firing instant. Since B already stores every pairwise difference
// vj-vi independent of which variable is conventionally "ground", this is a
// row/column swap between v's index and the ground index (0): v's distances
// move into position 0, which keeps the name Ground ("t*") since that name
// is always bound to index 0. The displaced old-ground data, now sitting at
// v's former index, is no longer meaningful once the time origin has moved
// and is dropped outright rather than kept under a synthetic name, so the
// variable count does not grow with every firing. Re-canonicalizes before
// dropping, since the drop relies on the matrix already being tight.
func (z *Zone) SetNewGround(v string) error {
	iv, err := z.idx(v)
	if err != nil {
		return err
	}
	if iv == 0 {
		return nil // v is already ground
	}
	n := len(z.names)
	for i := 0; i < n; i++ {
		z.b[i][0], z.b[i][iv] = z.b[i][iv], z.b[i][0]
	}
	for j := 0; j < n; j++ {
		z.b[0][j], z.b[iv][j] = z.b[iv][j], z.b[0][j]
	}
	if err := z.Canonicalize(); err != nil {
		return err
	}
	z.dropIndexAt(iv)
	return nil
}

// dropIndexAt removes the variable at matrix index i, which must not be 0
// (Ground always stays at index 0), and rebuilds the name index.
func (z *Zone) dropIndexAt(i int) {
	z.names = append(z.names[:i], z.names[i+1:]...)
	for j := range z.b {
		z.b[j] = append(z.b[j][:i], z.b[j][i+1:]...)
	}
	z.b = append(z.b[:i], z.b[i+1:]...)
	z.index = make(map[string]int, len(z.names))
	for k, name := range z.names {
		z.index[name] = k
	}
}

// ProjectVariables eliminates the named variables by dropping their
// rows/cols, after first canonicalizing so the remaining bounds stay tight
// (Fourier-Motzkin elimination reduces to matrix deletion once canonical).
func (z *Zone) ProjectVariables(vars []string) (*Zone, error) {
	if err := z.Canonicalize(); err != nil {
		return nil, err
	}
	drop := make(map[int]bool, len(vars))
	for _, v := range vars {
		i, err := z.idx(v)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			return nil, fmt.Errorf("dbm: cannot project ground variable %q", Ground)
		}
		drop[i] = true
	}
	nz := &Zone{index: make(map[string]int)}
	for i, name := range z.names {
		if drop[i] {
			continue
		}
		nz.names = append(nz.names, name)
		nz.index[name] = len(nz.names) - 1
	}
	nz.b = make([][]numeric.OmegaNum, len(nz.names))
	ii := 0
	for i := range z.names {
		if drop[i] {
			continue
		}
		row := make([]numeric.OmegaNum, 0, len(nz.names))
		for j := range z.names {
			if drop[j] {
				continue
			}
			row = append(row, z.b[i][j])
		}
		nz.b[ii] = row
		ii++
	}
	return nz, nz.Canonicalize()
}

// GetNullDelayVariables returns {w != v : B[v][w] = 0 and B[w][v] = 0}, the
// set of variables synchronized with v at zero delay.
func (z *Zone) GetNullDelayVariables(v string) ([]string, error) {
	iv, err := z.idx(v)
	if err != nil {
		return nil, err
	}
	var out []string
	for j, name := range z.names {
		if j == iv {
			continue
		}
		if z.b[iv][j].IsZeroBound() && z.b[j][iv].IsZeroBound() {
			out = append(out, name)
		}
	}
	return out, nil
}
