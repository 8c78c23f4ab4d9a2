package ir

import (
	"math/big"
	"strings"

	"sleuth/internal/ast"
	"sleuth/internal/types"
)

// Constant-folding assist for extended-IR mode. Folding is attempted
// opportunistically before binary/unary lowering; inapplicability is not
// an error, the engine falls back to normal lowering.

type foldKind int

const (
	foldInt foldKind = iota
	foldBool
	foldString
)

type foldValue struct {
	kind foldKind
	i    *big.Int
	b    bool
	s    string
}

func intValue(i *big.Int) foldValue  { return foldValue{kind: foldInt, i: i} }
func boolValue(b bool) foldValue     { return foldValue{kind: foldBool, b: b} }
func stringValue(s string) foldValue { return foldValue{kind: foldString, s: s} }

func (v foldValue) text() string {
	switch v.kind {
	case foldInt:
		return v.i.String()
	case foldBool:
		if v.b {
			return "true"
		}
		return "false"
	}
	return v.s
}

// tryFold reduces e to a Constant in the scratch store when the whole
// subtree is compile-time constant. The constant's type is guessed from
// the operator category, not derived from static types: signed operators
// yield the unsigned representation type, boolean values the boolean
// type, numeric values the numeric type, and anything else the string
// type. The fallback order is relied upon downstream; do not refine it.
func (lw *Lowerer) tryFold(e ast.Expr) (bool, error) {
	v, ok := foldExpr(e)
	if !ok {
		return false, nil
	}

	var t *types.Elementary
	bin, isBinary := e.(*ast.Binary)
	switch {
	case isBinary && bin.Operator.IsSigned():
		t = types.Elem("uint")
	case v.kind == foldBool:
		t = types.Elem("bool")
	case v.kind == foldInt:
		t = types.Elem("int")
	default:
		t = types.Elem("string")
	}

	return true, lw.scratch.set(e, NewConstant(v.text(), t))
}

func foldExpr(e ast.Expr) (foldValue, bool) {
	switch n := e.(type) {
	case *ast.Literal:
		return foldLiteral(n)
	case *ast.Binary:
		left, ok := foldExpr(n.Left)
		if !ok {
			return foldValue{}, false
		}
		right, ok := foldExpr(n.Right)
		if !ok {
			return foldValue{}, false
		}
		return foldBinary(n.Operator, left, right)
	case *ast.Unary:
		v, ok := foldExpr(n.Operand)
		if !ok {
			return foldValue{}, false
		}
		return foldUnary(n.Operator, v)
	}
	return foldValue{}, false
}

func foldLiteral(n *ast.Literal) (foldValue, bool) {
	if n.Subdenomination != "" {
		// Unit suffixes scale the value; leave them to normal lowering.
		return foldValue{}, false
	}
	switch n.Value {
	case "true":
		return boolValue(true), true
	case "false":
		return boolValue(false), true
	}
	if i, ok := parseIntLiteral(n.Value); ok {
		return intValue(i), true
	}
	return stringValue(n.Value), true
}

func parseIntLiteral(s string) (*big.Int, bool) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return new(big.Int).SetString(s[2:], 16)
	}
	return new(big.Int).SetString(s, 10)
}

func foldBinary(op ast.BinaryOp, left, right foldValue) (foldValue, bool) {
	if left.kind == foldBool && right.kind == foldBool {
		switch op {
		case ast.LOGIC_AND:
			return boolValue(left.b && right.b), true
		case ast.LOGIC_OR:
			return boolValue(left.b || right.b), true
		case ast.EQUAL:
			return boolValue(left.b == right.b), true
		case ast.NOT_EQUAL:
			return boolValue(left.b != right.b), true
		}
		return foldValue{}, false
	}

	if left.kind == foldString && right.kind == foldString {
		switch op {
		case ast.EQUAL:
			return boolValue(left.s == right.s), true
		case ast.NOT_EQUAL:
			return boolValue(left.s != right.s), true
		}
		return foldValue{}, false
	}

	if left.kind != foldInt || right.kind != foldInt {
		return foldValue{}, false
	}

	l, r := left.i, right.i
	switch op {
	case ast.POWER:
		if r.Sign() < 0 || r.Cmp(big.NewInt(512)) > 0 {
			return foldValue{}, false
		}
		return intValue(new(big.Int).Exp(l, r, nil)), true
	case ast.MUL:
		return intValue(new(big.Int).Mul(l, r)), true
	case ast.DIV, ast.DIV_SIGNED:
		if r.Sign() == 0 {
			return foldValue{}, false
		}
		return intValue(new(big.Int).Quo(l, r)), true
	case ast.MOD, ast.MOD_SIGNED:
		if r.Sign() == 0 {
			return foldValue{}, false
		}
		return intValue(new(big.Int).Rem(l, r)), true
	case ast.ADD:
		return intValue(new(big.Int).Add(l, r)), true
	case ast.SUB:
		return intValue(new(big.Int).Sub(l, r)), true
	case ast.SHL:
		if !r.IsUint64() || r.Uint64() > 1024 {
			return foldValue{}, false
		}
		return intValue(new(big.Int).Lsh(l, uint(r.Uint64()))), true
	case ast.SHR, ast.SHR_ARITHMETIC:
		if !r.IsUint64() || r.Uint64() > 1024 {
			return foldValue{}, false
		}
		return intValue(new(big.Int).Rsh(l, uint(r.Uint64()))), true
	case ast.BIT_AND:
		return intValue(new(big.Int).And(l, r)), true
	case ast.BIT_XOR:
		return intValue(new(big.Int).Xor(l, r)), true
	case ast.BIT_OR:
		return intValue(new(big.Int).Or(l, r)), true
	case ast.LESS, ast.LESS_SIGNED:
		return boolValue(l.Cmp(r) < 0), true
	case ast.GREATER, ast.GREATER_SIGNED:
		return boolValue(l.Cmp(r) > 0), true
	case ast.LESS_EQUAL:
		return boolValue(l.Cmp(r) <= 0), true
	case ast.GREATER_EQUAL:
		return boolValue(l.Cmp(r) >= 0), true
	case ast.EQUAL:
		return boolValue(l.Cmp(r) == 0), true
	case ast.NOT_EQUAL:
		return boolValue(l.Cmp(r) != 0), true
	}
	return foldValue{}, false
}

func foldUnary(op ast.UnaryOp, v foldValue) (foldValue, bool) {
	switch op {
	case ast.NOT:
		if v.kind == foldBool {
			return boolValue(!v.b), true
		}
	case ast.MINUS_PRE:
		if v.kind == foldInt {
			return intValue(new(big.Int).Neg(v.i)), true
		}
	case ast.PLUS_PRE:
		return v, true
	}
	// Bitwise-not depends on the operand width, which folding does not
	// track.
	return foldValue{}, false
}
