package numeric

import (
	"fmt"
	"math"
)

// Sig is the sign of an OmegaNum's infinite component. SigFinite marks an
// ordinary, finite value.
type Sig int8

const (
	SigFinite Sig = 0
	SigPosInf Sig = 1
	SigNegInf Sig = -1
)

// OmegaNum adjoins the symbolic infinities {+inf, -inf} to Num, matching the
// Omega± domain used for DBM bounds and GSPN exit rates. Arithmetic follows
// the standard extended-real rules: an infinity absorbs any finite operand in
// addition, and 0*inf is undefined.
type OmegaNum struct {
	sig Sig
	val Num // meaningful only when sig == SigFinite
}

// Finite wraps a finite Num as an OmegaNum.
func Finite(n Num) OmegaNum { return OmegaNum{sig: SigFinite, val: n} }

// FiniteInt wraps an int64 as a finite OmegaNum.
func FiniteInt(v int64) OmegaNum { return Finite(NewInt(v)) }

// PosInf is +infinity.
var PosInf = OmegaNum{sig: SigPosInf}

// NegInf is -infinity.
var NegInf = OmegaNum{sig: SigNegInf}

// Zero is the finite value 0.
var Zero = FiniteInt(0)

// IsInfinite reports whether o is +inf or -inf.
func (o OmegaNum) IsInfinite() bool { return o.sig != SigFinite }

// IsFinite reports whether o carries a finite value.
func (o OmegaNum) IsFinite() bool { return o.sig == SigFinite }

// Sign returns the sign of o's infinite component, or SigFinite.
func (o OmegaNum) Sign() Sig { return o.sig }

// Value returns the finite payload of o. The second result is false if o is
// infinite.
func (o OmegaNum) Value() (Num, bool) {
	if o.sig != SigFinite {
		return Num{}, false
	}
	return o.val, true
}

// Float64 returns o as a float64, using math.Inf for the infinite cases.
func (o OmegaNum) Float64() float64 {
	switch o.sig {
	case SigPosInf:
		return math.Inf(1)
	case SigNegInf:
		return math.Inf(-1)
	default:
		return o.val.Float64()
	}
}

// ErrUndefinedArithmetic is returned for the undefined 0*inf combination.
type ErrUndefinedArithmetic struct{ Op string }

func (e ErrUndefinedArithmetic) Error() string {
	return fmt.Sprintf("numeric: undefined result for %s", e.Op)
}

// OmegaAdd returns a+b. An infinity absorbs any finite operand; opposite
// infinities cancel to an error since the DBM/CTMC algebra never needs
// inf + (-inf).
func OmegaAdd(a, b OmegaNum) (OmegaNum, error) {
	switch {
	case a.sig == SigFinite && b.sig == SigFinite:
		return Finite(Add(a.val, b.val)), nil
	case a.sig == SigFinite:
		return b, nil
	case b.sig == SigFinite:
		return a, nil
	case a.sig == b.sig:
		return a, nil
	default:
		return OmegaNum{}, ErrUndefinedArithmetic{Op: "inf + -inf"}
	}
}

// OmegaSub returns a-b.
func OmegaSub(a, b OmegaNum) (OmegaNum, error) {
	nb, err := OmegaNeg(b)
	if err != nil {
		return OmegaNum{}, err
	}
	return OmegaAdd(a, nb)
}

// OmegaNeg returns -a.
func OmegaNeg(a OmegaNum) (OmegaNum, error) {
	switch a.sig {
	case SigFinite:
		return Finite(Neg(a.val)), nil
	case SigPosInf:
		return NegInf, nil
	default:
		return PosInf, nil
	}
}

// OmegaMul returns a*b. 0*inf (in either order) is undefined and fails.
func OmegaMul(a, b OmegaNum) (OmegaNum, error) {
	if a.sig == SigFinite && b.sig == SigFinite {
		return Finite(Mul(a.val, b.val)), nil
	}
	if a.sig == SigFinite {
		if a.val.IsZero() {
			return OmegaNum{}, ErrUndefinedArithmetic{Op: "0 * inf"}
		}
		return signedInf(a.val.Sign(), b.sig), nil
	}
	if b.sig == SigFinite {
		if b.val.IsZero() {
			return OmegaNum{}, ErrUndefinedArithmetic{Op: "0 * inf"}
		}
		return signedInf(b.val.Sign(), a.sig), nil
	}
	if a.sig == b.sig {
		return PosInf, nil
	}
	return NegInf, nil
}

func signedInf(finiteSign int, infSig Sig) OmegaNum {
	if finiteSign < 0 {
		if infSig == SigPosInf {
			return NegInf
		}
		return PosInf
	}
	if infSig == SigPosInf {
		return PosInf
	}
	return NegInf
}

// OmegaCompare returns -1, 0, +1 as a is less than, equal to, or greater
// than b, ordering -inf < finite < +inf.
func OmegaCompare(a, b OmegaNum) int {
	if a.sig != b.sig {
		if a.sig < b.sig {
			return -1
		}
		return 1
	}
	if a.sig != SigFinite {
		return 0
	}
	return Compare(a.val, b.val)
}

// OmegaMin returns the smaller of a and b.
func OmegaMin(a, b OmegaNum) OmegaNum {
	if OmegaCompare(a, b) <= 0 {
		return a
	}
	return b
}

// OmegaMax returns the larger of a and b.
func OmegaMax(a, b OmegaNum) OmegaNum {
	if OmegaCompare(a, b) >= 0 {
		return a
	}
	return b
}

// IsZeroBound reports whether o is the finite value 0, the test the DBM and
// successor-evaluator layers use for "no delay" / "synchronized" bounds.
func (o OmegaNum) IsZeroBound() bool {
	return o.sig == SigFinite && o.val.IsZero()
}

func (o OmegaNum) String() string {
	switch o.sig {
	case SigPosInf:
		return "+inf"
	case SigNegInf:
		return "-inf"
	default:
		return o.val.String()
	}
}
