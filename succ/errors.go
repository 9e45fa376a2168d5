// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

// Package succ implements the two SuccessorEval variants that advance a
// state class across one firing: TimedEval for the timed-state-class
// (TPN) path and GSPNEval for the GSPN reachability path.
package succ

import "fmt"

// ErrUnsupportedTransition is returned when a transition enabled under an
// analysis carries a feature combination that analysis does not support:
// for GSPN, neither Exponential nor Immediate; for timed, no Timed feature
// on a newly-enabled transition.
type ErrUnsupportedTransition struct {
	Transition string
	Reason     string
}

func (e ErrUnsupportedTransition) Error() string {
	return fmt.Sprintf("succ: transition %q unsupported: %s", e.Transition, e.Reason)
}
