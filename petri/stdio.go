// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package petri

import (
	"bytes"
	"fmt"
	"io"
)

// Fprint writes a deterministic textual dump of the net's places,
// transitions, arcs and priorities to w. This is a debugging/snapshot aid,
// adapted from dalzilio-nets/stdio.go's Fprint — it is not a parseable file
// format.
func (net *Net) Fprint(w io.Writer) {
	fmt.Fprintf(w, "#\n# net %s\n", net.Name)
	fmt.Fprintf(w, "# %d places, %d transitions\n#\n\n", net.NumPlaces(), net.NumTransitions())

	for p := 0; p < net.NumPlaces(); p++ {
		fmt.Fprintf(w, "pl %s", net.PlaceName(PlaceId(p)))
		if tok := net.Initial.Get(PlaceId(p)); tok != 0 {
			fmt.Fprintf(w, " (%d)", tok)
		}
		fmt.Fprint(w, "\n")
	}
	for t := 0; t < net.NumTransitions(); t++ {
		tid := TransitionId(t)
		fmt.Fprintf(w, "tr %s", net.TransitionName(tid))
		if timed, ok := net.TimedOf(tid); ok && !timed.Interval.Trivial() {
			fmt.Fprintf(w, " %s", timed.Interval)
		}
		fmt.Fprint(w, net.printTransitionArcs(tid))
	}
	for t, v := range net.Prio {
		if len(v) != 0 {
			fmt.Fprintf(w, "pr %s >", net.TransitionName(TransitionId(t)))
			for _, o := range v {
				fmt.Fprintf(w, " %s", net.TransitionName(o))
			}
			fmt.Fprint(w, "\n")
		}
	}
}

func (net *Net) printTransitionArcs(t TransitionId) string {
	var left, right bytes.Buffer
	for p := 0; p < net.NumPlaces(); p++ {
		pl := PlaceId(p)
		name := net.PlaceName(pl)
		if in := net.Pre.get(t).Get(pl); in != 0 {
			fmt.Fprintf(&left, " %s*%d", name, in)
		}
		if out := net.Post.get(t).Get(pl); out != 0 {
			fmt.Fprintf(&right, " %s*%d", name, out)
		}
		if cap := net.Inhib.get(t).Get(pl); cap != 0 {
			fmt.Fprintf(&left, " %s?-%d", name, cap)
		}
	}
	return fmt.Sprintf("%s ->%s\n", left.String(), right.String())
}

// String returns a textual representation of the net.
func (net *Net) String() string {
	var buf bytes.Buffer
	net.Fprint(&buf)
	return buf.String()
}
