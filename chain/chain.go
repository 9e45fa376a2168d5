// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

// Package chain implements generic discrete- and continuous-time Markov
// chain structures built from a reduced state graph: a set of initial
// states with their probabilities, a probability graph of one-step
// transitions, and, for the continuous case, a per-state exit rate.
package chain

import (
	"fmt"

	"github.com/oris-tool/sirio-sub002/absorb"
	"gonum.org/v1/gonum/mat"
)

// DTMC is a discrete-time Markov chain over a comparable, opaque state
// key S. States is the insertion-ordered set of distinct states seen so
// far, kept alongside the map-based adjacency for deterministic iteration
// when building matrices.
type DTMC[S comparable] struct {
	States       []S
	index        map[S]int
	InitialProbs map[S]float64
	ProbsGraph   map[S]map[S]float64
}

// NewDTMC returns an empty DTMC.
func NewDTMC[S comparable]() *DTMC[S] {
	return &DTMC[S]{
		index:        map[S]int{},
		InitialProbs: map[S]float64{},
		ProbsGraph:   map[S]map[S]float64{},
	}
}

// AddState registers s if not already present and returns its index.
func (c *DTMC[S]) AddState(s S) int {
	if i, ok := c.index[s]; ok {
		return i
	}
	i := len(c.States)
	c.States = append(c.States, s)
	c.index[s] = i
	c.ProbsGraph[s] = map[S]float64{}
	return i
}

// SetInitial records s as an initial state with probability p.
func (c *DTMC[S]) SetInitial(s S, p float64) {
	c.AddState(s)
	c.InitialProbs[s] = p
}

// AddTransition accumulates probability mass p onto the edge from -> to,
// so repeated calls for the same pair (e.g. distinct vanishing chains
// collapsing onto the same tangible target) sum correctly.
func (c *DTMC[S]) AddTransition(from, to S, p float64) {
	c.AddState(from)
	c.AddState(to)
	c.ProbsGraph[from][to] += p
}

// TransitionMatrix returns the dense |States| x |States| transition matrix,
// in the order of c.States.
func (c *DTMC[S]) TransitionMatrix() *mat.Dense {
	n := len(c.States)
	data := make([]float64, n*n)
	for i, s := range c.States {
		for to, p := range c.ProbsGraph[s] {
			j := c.index[to]
			data[i*n+j] = p
		}
	}
	return mat.NewDense(n, n, data)
}

// ErrNoInitialState is returned when a chain has no initial state recorded.
type ErrNoInitialState struct{}

func (ErrNoInitialState) Error() string { return "chain: no initial state recorded" }

// StationaryDistribution solves pi = pi*P, normalized, via power iteration
// from the chain's initial distribution. It returns an error if the chain
// is empty or the iteration does not settle within maxIter steps.
func (c *DTMC[S]) StationaryDistribution(maxIter int, tol float64) (map[S]float64, error) {
	n := len(c.States)
	if n == 0 {
		return nil, ErrNoInitialState{}
	}
	pi := make([]float64, n)
	var total float64
	for s, p := range c.InitialProbs {
		pi[c.index[s]] = p
		total += p
	}
	if total == 0 {
		return nil, ErrNoInitialState{}
	}
	for i := range pi {
		pi[i] /= total
	}

	p := c.TransitionMatrix()
	cur := mat.NewVecDense(n, pi)
	converged := false
	for iter := 0; iter < maxIter; iter++ {
		var next mat.VecDense
		next.MulVec(p.T(), cur)
		diff := 0.0
		for i := 0; i < n; i++ {
			// Step the lazy chain (I+P)/2: it has the same stationary
			// distribution as P but is aperiodic, so a periodic chain
			// settles instead of oscillating.
			v := 0.5 * (next.AtVec(i) + cur.AtVec(i))
			next.SetVec(i, v)
			d := v - cur.AtVec(i)
			if d < 0 {
				d = -d
			}
			diff += d
		}
		cur = &next
		if diff < tol {
			converged = true
			break
		}
	}
	if !converged {
		return nil, fmt.Errorf("chain: power iteration did not settle within %d steps", maxIter)
	}
	out := make(map[S]float64, n)
	for i, s := range c.States {
		out[s] = cur.AtVec(i)
	}
	return out, nil
}

// AbsorptionProbabilities partitions c's states into the given absorbing
// set and every other (transient) state, and solves for the probability of
// eventual absorption into each absorbing state starting from each
// transient state, via absorb.AbsorptionProbs. The result has one row per
// transient state; absorbing states do not appear as keys.
func (c *DTMC[S]) AbsorptionProbabilities(absorbing []S) (map[S]map[S]float64, error) {
	absorbSet := make(map[S]bool, len(absorbing))
	for _, s := range absorbing {
		absorbSet[s] = true
	}
	var transient, abs []S
	for _, s := range c.States {
		if absorbSet[s] {
			abs = append(abs, s)
		} else {
			transient = append(transient, s)
		}
	}
	nt, na := len(transient), len(abs)
	if nt == 0 || na == 0 {
		return map[S]map[S]float64{}, nil
	}
	tIndex := make(map[S]int, nt)
	for i, s := range transient {
		tIndex[s] = i
	}
	aIndex := make(map[S]int, na)
	for j, s := range abs {
		aIndex[s] = j
	}
	qData := make([]float64, nt*nt)
	rData := make([]float64, nt*na)
	for i, s := range transient {
		for to, p := range c.ProbsGraph[s] {
			if j, ok := tIndex[to]; ok {
				qData[i*nt+j] = p
			} else if j, ok := aIndex[to]; ok {
				rData[i*na+j] = p
			}
		}
	}
	a, err := absorb.AbsorptionProbs(mat.NewDense(nt, nt, qData), mat.NewDense(nt, na, rData))
	if err != nil {
		return nil, err
	}
	out := make(map[S]map[S]float64, nt)
	for i, s := range transient {
		row := make(map[S]float64, na)
		for j, t := range abs {
			row[t] = a.At(i, j)
		}
		out[s] = row
	}
	return out, nil
}

// CTMC is a continuous-time Markov chain: an embedded DTMC plus the exit
// rate of each state (the sum of outgoing rates, equivalently the
// reciprocal of the expected sojourn time).
type CTMC[S comparable] struct {
	Embedded *DTMC[S]
	ExitRate map[S]float64
}

// NewCTMC returns a CTMC over an empty embedded chain.
func NewCTMC[S comparable]() *CTMC[S] {
	return &CTMC[S]{Embedded: NewDTMC[S](), ExitRate: map[S]float64{}}
}

// SetExitRate records s's exit rate; a rate of 0 marks s as absorbing.
func (c *CTMC[S]) SetExitRate(s S, rate float64) {
	c.Embedded.AddState(s)
	c.ExitRate[s] = rate
}

// SteadyState computes the CTMC steady-state distribution from the
// embedded DTMC's stationary distribution pi via the standard
// time-reweighting pi_CTMC[s] = pi[s]/rate[s], renormalized. States with
// an unset (zero) exit rate are treated as absorbing and excluded from the
// time-weighted average, matching the convention that an absorbing state
// holds forever once reached.
func (c *CTMC[S]) SteadyState(maxIter int, tol float64) (map[S]float64, error) {
	pi, err := c.Embedded.StationaryDistribution(maxIter, tol)
	if err != nil {
		return nil, err
	}
	weighted := make(map[S]float64, len(pi))
	var total float64
	for s, p := range pi {
		rate, ok := c.ExitRate[s]
		if !ok || rate == 0 {
			continue
		}
		w := p / rate
		weighted[s] = w
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("chain: steady state undefined, every reachable state is absorbing")
	}
	for s := range weighted {
		weighted[s] /= total
	}
	return weighted, nil
}
