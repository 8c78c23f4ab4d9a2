package ast

import (
	"fmt"
	"strings"

	"sleuth/internal/decl"
	"sleuth/internal/types"
)

// Identifier references a declaration resolved by the upstream checker.
type Identifier struct {
	Name  string
	Value decl.Symbol
}

// Literal carries its elementary type and an optional unit suffix
// ("wei", "days", ...) attached by the front end.
type Literal struct {
	Value           string
	Type            types.Type
	Subdenomination string
}

// TypeName is an elementary type used in value position, e.g. the type
// argument of abi.decode or a cast target parsed as an expression.
type TypeName struct {
	Type types.Type
}

type Assignment struct {
	Left       Expr
	Right      Expr
	Operator   AssignOp
	ReturnType types.Type
}

type Binary struct {
	Left     Expr
	Right    Expr
	Operator BinaryOp
}

type Unary struct {
	Operand  Expr
	Operator UnaryOp
}

// Index is array/mapping subscripting. Type is the static type of the
// whole access, attached upstream.
type Index struct {
	Base Expr
	Key  Expr
	Type types.Type
}

type Member struct {
	Base       Expr
	MemberName string
}

// Call covers every call-shaped expression. Signature is the static type
// signature of the call ("tuple(uint256,bool)" for multi-value returns).
// Gas, Value and Salt capture explicit {gas:, value:, salt:} modifiers.
type Call struct {
	Callee    Expr
	Arguments []Expr
	Signature string
	Gas       Expr
	Value     Expr
	Salt      Expr
}

type NewArray struct {
	Depth    int
	ElemType types.Type
}

type NewContract struct {
	ContractName string
	Value        Expr
	Salt         Expr
}

type NewElementary struct {
	Type types.Type
}

// Tuple is a parenthesized tuple or an inline array literal. Elements may
// contain nil entries for intentionally discarded destructuring slots.
type Tuple struct {
	Elements      []Expr
	IsInlineArray bool
}

type TypeConversion struct {
	Operand Expr
	Type    types.Type
}

// Conditional is a ternary expression. It cannot be lowered; statement-level
// ternaries must be eliminated upstream via control-flow branching.
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (e *Identifier) String() string { return e.Name }

func (e *Literal) String() string {
	if e.Subdenomination != "" {
		return e.Value + " " + e.Subdenomination
	}
	return e.Value
}

func (e *TypeName) String() string { return e.Type.String() }

func (e *Assignment) String() string {
	return fmt.Sprintf("%s %s %s", e.Left, e.Operator, e.Right)
}

func (e *Binary) String() string {
	return fmt.Sprintf("%s %s %s", e.Left, e.Operator, e.Right)
}

func (e *Unary) String() string {
	switch e.Operator {
	case INC_POST, DEC_POST:
		return fmt.Sprintf("%s%s", e.Operand, e.Operator)
	case DELETE:
		return fmt.Sprintf("delete %s", e.Operand)
	}
	return fmt.Sprintf("%s%s", e.Operator, e.Operand)
}

func (e *Index) String() string {
	return fmt.Sprintf("%s[%s]", e.Base, e.Key)
}

func (e *Member) String() string {
	return fmt.Sprintf("%s.%s", e.Base, e.MemberName)
}

func (e *Call) String() string {
	args := make([]string, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Callee, strings.Join(args, ", "))
}

func (e *NewArray) String() string {
	return fmt.Sprintf("new %s%s", e.ElemType, strings.Repeat("[]", e.Depth))
}

func (e *NewContract) String() string { return "new " + e.ContractName }

func (e *NewElementary) String() string { return "new " + e.Type.String() }

func (e *Tuple) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		if el != nil {
			parts[i] = el.String()
		}
	}
	if e.IsInlineArray {
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (e *TypeConversion) String() string {
	return fmt.Sprintf("%s(%s)", e.Type, e.Operand)
}

func (e *Conditional) String() string {
	return fmt.Sprintf("%s ? %s : %s", e.Cond, e.Then, e.Else)
}
