package expr

import (
	"math"

	"github.com/oris-tool/sirio-sub002/numeric"
)

// evalMod implements %, split by operand type: when both operands are
// integral it uses floored integer modulo (the result takes the divisor's
// sign, so for a positive divisor it is the Euclidean remainder); otherwise
// it falls back to float64 math.Mod (truncated, sign follows the dividend)
// for the real path.
func evalMod(x, y numeric.Num) (Value, error) {
	if y.IsZeroEps() {
		return Value{}, DivisionByZero{}
	}
	if isIntegral(x) && isIntegral(y) {
		xi, yi := int64(math.Round(x.Float64())), int64(math.Round(y.Float64()))
		m := xi % yi
		if m != 0 && (m < 0) != (yi < 0) {
			m += yi
		}
		return NumValue(numeric.NewInt(m)), nil
	}
	return NumValue(numeric.NewFloat(math.Mod(x.Float64(), y.Float64()))), nil
}

// evalPow implements ^. Exponentiation on arbitrary-precision rationals with
// a rational exponent has no exact closed form in general, so we compute it
// in float64 and lift the result back into Num; this is the one operator in
// the grammar that is not exact.
func evalPow(x, y numeric.Num) (Value, error) {
	return NumValue(numeric.NewFloat(math.Pow(x.Float64(), y.Float64()))), nil
}

func isIntegral(n numeric.Num) bool {
	return n.Float64() == math.Trunc(n.Float64())
}

// evalCall resolves the fixed, closed set of intrinsics. A Call whose Name
// matches no intrinsic fails with UndefinedSymbol; env.Bindings is not
// consulted for calls.
func evalCall(c Call, env Env) (Value, error) {
	switch c.Name {
	case "If":
		if len(c.Args) != 3 {
			return Value{}, TypeMismatch{Context: "If takes 3 arguments"}
		}
		cond, err := EvalBool(c.Args[0], env)
		if err != nil {
			return Value{}, err
		}
		if cond {
			return Eval(c.Args[1], env)
		}
		return Eval(c.Args[2], env)
	case "min", "max":
		return evalMinMax(c, env)
	case "floor":
		return evalUnaryNumFn(c, env, math.Floor)
	case "round":
		return evalUnaryNumFn(c, env, math.Round)
	case "ceil":
		return evalUnaryNumFn(c, env, math.Ceil)
	case "abs":
		return evalUnaryNumFn(c, env, math.Abs)
	case "ToInt":
		v, err := evalUnaryNumFn(c, env, math.Trunc)
		return v, err
	case "ToReal":
		if len(c.Args) != 1 {
			return Value{}, TypeMismatch{Context: "ToReal takes 1 argument"}
		}
		return Eval(c.Args[0], env)
	case "Print", "PrintValue":
		vals := make([]Value, 0, len(c.Args))
		for _, a := range c.Args {
			v, err := Eval(a, env)
			if err != nil {
				return Value{}, err
			}
			vals = append(vals, v)
		}
		if env.Print != nil {
			env.Print.Print(vals...)
		}
		if len(vals) > 0 {
			return vals[len(vals)-1], nil
		}
		return Value{}, nil
	default:
		return Value{}, UndefinedSymbol{Name: c.Name}
	}
}

func evalMinMax(c Call, env Env) (Value, error) {
	if len(c.Args) < 2 {
		return Value{}, TypeMismatch{Context: c.Name + " takes at least 2 arguments"}
	}
	best, err := EvalNum(c.Args[0], env)
	if err != nil {
		return Value{}, err
	}
	for _, a := range c.Args[1:] {
		v, err := EvalNum(a, env)
		if err != nil {
			return Value{}, err
		}
		cmp := numeric.Compare(v, best)
		if (c.Name == "min" && cmp < 0) || (c.Name == "max" && cmp > 0) {
			best = v
		}
	}
	return NumValue(best), nil
}

func evalUnaryNumFn(c Call, env Env, fn func(float64) float64) (Value, error) {
	if len(c.Args) != 1 {
		return Value{}, TypeMismatch{Context: "unary numeric intrinsic takes 1 argument"}
	}
	x, err := EvalNum(c.Args[0], env)
	if err != nil {
		return Value{}, err
	}
	return NumValue(numeric.NewFloat(fn(x.Float64()))), nil
}
