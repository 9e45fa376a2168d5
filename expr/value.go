// Copyright 2025. Silvano DAL ZILIO. All rights reserved.
// Use of this source code is governed by the AGPL license
// that can be found in the LICENSE file.

// Package expr implements the closed-grammar boolean/numeric expression
// language used to evaluate guards, weights, clock rates and post-update
// assignments against a marking. It replaces reflection-based method
// resolution and visitor-based AST traversal with a fixed sum type and
// pattern matching, and replaces a mutable global print sink with an
// injected capability. It never imports the petri package — a Bindings
// adapter from Marking to Value lives in petri, keeping expr a leaf.
package expr

import (
	"fmt"

	"github.com/oris-tool/sirio-sub002/numeric"
)

// ValueKind tags the variant carried by a Value.
type ValueKind uint8

const (
	KindNum ValueKind = iota
	KindBool
)

// Value is the result of evaluating an Expr: either a numeric or boolean
// scalar. There is no implicit conversion between the two.
type Value struct {
	Kind ValueKind
	Num  numeric.Num
	Bool bool
}

// NumValue wraps a numeric.Num as a Value.
func NumValue(n numeric.Num) Value { return Value{Kind: KindNum, Num: n} }

// IntValue wraps an int64 as a numeric Value.
func IntValue(v int64) Value { return NumValue(numeric.NewInt(v)) }

// BoolValue wraps a bool as a Value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func (v Value) String() string {
	if v.Kind == KindBool {
		return fmt.Sprintf("%t", v.Bool)
	}
	return v.Num.String()
}

// TypeMismatch is returned whenever an operator or intrinsic receives an
// operand of the wrong ValueKind, including a boolean-returning predicate
// evaluated against a non-boolean operand.
type TypeMismatch struct {
	Context string
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("expr: type mismatch in %s", e.Context)
}

// UndefinedSymbol is returned when a variable or a call target is not bound.
type UndefinedSymbol struct {
	Name string
}

func (e UndefinedSymbol) Error() string {
	return fmt.Sprintf("expr: undefined symbol %q", e.Name)
}

// DivisionByZero is returned when a division or modulo divisor has absolute
// value below numeric.Eps.
type DivisionByZero struct{}

func (DivisionByZero) Error() string { return "expr: division by zero" }

// ReadOnlyBindings reports an attempt to mutate through a read-only
// Bindings instance. No function in this package returns it: Bindings
// offers no setter, so guards and conditions always evaluate against
// read-only bindings and cannot attempt a mutation.
type ReadOnlyBindings struct{}

func (ReadOnlyBindings) Error() string { return "expr: bindings are read-only" }
