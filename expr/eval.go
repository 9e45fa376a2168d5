package expr

import (
	"github.com/oris-tool/sirio-sub002/numeric"
)

// Eval evaluates e against env: integer/real literals, variables bound to
// current token counts, arithmetic, comparisons, logical connectives,
// If(c,a,b), and the fixed intrinsic set resolved in builtins.go.
func Eval(e Expr, env Env) (Value, error) {
	switch n := e.(type) {
	case Const:
		return n.Value, nil
	case Var:
		v, ok := env.Bindings.Lookup(n.Name)
		if !ok {
			return Value{}, UndefinedSymbol{Name: n.Name}
		}
		return v, nil
	case Brackets:
		return Eval(n.X, env)
	case Unary:
		return evalUnary(n, env)
	case Binary:
		return evalBinary(n, env)
	case Call:
		return evalCall(n, env)
	default:
		// Expr is a closed, unexported-method interface; unreachable
		// unless a new variant is added here and in expr.go.
		return Value{}, TypeMismatch{Context: "unknown expression node"}
	}
}

// EvalBool evaluates e and requires the result to be boolean, the shape
// needed by enabling guards, local-stop predicates and marking conditions.
func EvalBool(e Expr, env Env) (bool, error) {
	v, err := Eval(e, env)
	if err != nil {
		return false, err
	}
	if v.Kind != KindBool {
		return false, TypeMismatch{Context: "boolean context"}
	}
	return v.Bool, nil
}

// EvalNum evaluates e and requires the result to be numeric.
func EvalNum(e Expr, env Env) (numeric.Num, error) {
	v, err := Eval(e, env)
	if err != nil {
		return numeric.Num{}, err
	}
	if v.Kind != KindNum {
		return numeric.Num{}, TypeMismatch{Context: "numeric context"}
	}
	return v.Num, nil
}

func evalUnary(n Unary, env Env) (Value, error) {
	x, err := Eval(n.X, env)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case OpNeg:
		if x.Kind != KindNum {
			return Value{}, TypeMismatch{Context: "unary -"}
		}
		return NumValue(numeric.Neg(x.Num)), nil
	case OpPos:
		if x.Kind != KindNum {
			return Value{}, TypeMismatch{Context: "unary +"}
		}
		return x, nil
	case OpNot:
		if x.Kind != KindBool {
			return Value{}, TypeMismatch{Context: "logical !"}
		}
		return BoolValue(!x.Bool), nil
	default:
		return Value{}, TypeMismatch{Context: "unary operator"}
	}
}

func evalBinary(n Binary, env Env) (Value, error) {
	// Short-circuit logical connectives evaluate y lazily.
	if n.Op == OpAnd || n.Op == OpOr {
		x, err := Eval(n.X, env)
		if err != nil {
			return Value{}, err
		}
		if x.Kind != KindBool {
			return Value{}, TypeMismatch{Context: "logical operand"}
		}
		if n.Op == OpAnd && !x.Bool {
			return BoolValue(false), nil
		}
		if n.Op == OpOr && x.Bool {
			return BoolValue(true), nil
		}
		y, err := Eval(n.Y, env)
		if err != nil {
			return Value{}, err
		}
		if y.Kind != KindBool {
			return Value{}, TypeMismatch{Context: "logical operand"}
		}
		return y, nil
	}

	x, err := Eval(n.X, env)
	if err != nil {
		return Value{}, err
	}
	y, err := Eval(n.Y, env)
	if err != nil {
		return Value{}, err
	}

	switch n.Op {
	case OpEq, OpNe:
		eq, err := valuesEqual(x, y)
		if err != nil {
			return Value{}, err
		}
		if n.Op == OpNe {
			eq = !eq
		}
		return BoolValue(eq), nil
	case OpLt, OpLe, OpGt, OpGe:
		if x.Kind != KindNum || y.Kind != KindNum {
			return Value{}, TypeMismatch{Context: "comparison"}
		}
		c := numeric.Compare(x.Num, y.Num)
		switch n.Op {
		case OpLt:
			return BoolValue(c < 0), nil
		case OpLe:
			return BoolValue(c <= 0), nil
		case OpGt:
			return BoolValue(c > 0), nil
		default:
			return BoolValue(c >= 0), nil
		}
	}

	if x.Kind != KindNum || y.Kind != KindNum {
		return Value{}, TypeMismatch{Context: "arithmetic operand"}
	}
	switch n.Op {
	case OpAdd:
		return NumValue(numeric.Add(x.Num, y.Num)), nil
	case OpSub:
		return NumValue(numeric.Sub(x.Num, y.Num)), nil
	case OpMul:
		return NumValue(numeric.Mul(x.Num, y.Num)), nil
	case OpDiv:
		if y.Num.IsZeroEps() {
			return Value{}, DivisionByZero{}
		}
		return NumValue(numeric.Div(x.Num, y.Num)), nil
	case OpMod:
		return evalMod(x.Num, y.Num)
	case OpPow:
		return evalPow(x.Num, y.Num)
	default:
		return Value{}, TypeMismatch{Context: "binary operator"}
	}
}

func valuesEqual(x, y Value) (bool, error) {
	if x.Kind != y.Kind {
		return false, TypeMismatch{Context: "equality between different kinds"}
	}
	if x.Kind == KindBool {
		return x.Bool == y.Bool, nil
	}
	return numeric.Compare(x.Num, y.Num) == 0, nil
}
