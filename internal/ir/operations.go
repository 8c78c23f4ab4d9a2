package ir

import (
	"sleuth/internal/decl"
	"sleuth/internal/types"
)

// Operation is one IR instruction. Instructions are immutable once
// appended; the slice they live in reflects the exact execution order
// (operands before operators, arguments before calls).
type Operation interface {
	// Result returns the value the instruction defines, or nil for
	// instructions that produce none (Argument, Return, Delete targets
	// are mutations of existing slots).
	Result() Operand
	Operands() []Operand
	String() string
}

// Assignment copies Src into Dest.
type Assignment struct {
	Dest       Operand
	Src        Operand
	ReturnType types.Type
}

// Binary computes Left <Op> Right into Dest. Compound assignments reuse
// the destination as the left operand.
type Binary struct {
	Dest  Operand
	Left  Operand
	Right Operand
	Op    BinaryOp
}

type Unary struct {
	Dest Operand
	Src  Operand
	Op   UnaryOp
}

// TypeConversion is an explicit conversion of Src to type To, stored in
// Dest.
type TypeConversion struct {
	Dest Operand
	Src  Operand
	To   types.Type
}

// Index produces a reference to Base[Key].
type Index struct {
	Dest *Reference
	Base Operand
	Key  Operand
	Type types.Type
}

// Member produces a reference to the named member slot of Base.
type Member struct {
	Dest *Reference
	Base Operand
	Name *Constant
}

// InitArray materializes an ordered list of values into Dest.
type InitArray struct {
	Dest   Operand
	Values []Operand
}

// Unpack extracts component Index of a tuple value into Dest.
type Unpack struct {
	Dest  Operand
	Tuple *TupleValue
	Index int
}

// Delete resets the target slot; the operand symbol remains the result of
// the enclosing expression.
type Delete struct {
	Dest   Operand
	Target Operand
}

type Return struct {
	Value Operand
}

// Argument marks one explicitly passed call argument. One Argument is
// emitted per argument, in source order, before the call instruction.
type Argument struct {
	Value Operand
}

// InternalCall is a call to a known function symbol.
type InternalCall struct {
	Dest      Operand
	Callee    *decl.Function
	ArgCount  int
	Signature string
}

// BuiltinCall is a direct call to an environment pseudo-function such as
// balance(address).
type BuiltinCall struct {
	Dest       Operand
	Callee     *decl.BuiltinFunction
	ArgCount   int
	ReturnType types.Type
	Args       []Operand
}

// PendingCall is an unresolved call placeholder. Deciding whether it is a
// plain external call, a low-level call or a library call is deferred to a
// later resolution pass; until then it exposes the callee, argument count,
// destination, static signature and any explicit gas/value/salt modifiers.
type PendingCall struct {
	Dest      Operand
	Callee    Operand
	ArgCount  int
	Signature string
	Gas       Operand
	CallValue Operand
	Salt      Operand
}

// PendingNewArray is an unresolved array construction placeholder.
type PendingNewArray struct {
	Dest  Operand
	Depth int
	Elem  types.Type
}

// PendingNewContract is an unresolved contract construction placeholder.
type PendingNewContract struct {
	Dest         Operand
	ContractName string
	CallValue    Operand
	Salt         Operand
}

// PendingNewElementary is an unresolved elementary-type construction
// placeholder.
type PendingNewElementary struct {
	Dest Operand
	Type types.Type
}

func (op *Assignment) Result() Operand     { return op.Dest }
func (op *Assignment) Operands() []Operand { return []Operand{op.Src} }

func (op *Binary) Result() Operand     { return op.Dest }
func (op *Binary) Operands() []Operand { return []Operand{op.Left, op.Right} }

func (op *Unary) Result() Operand     { return op.Dest }
func (op *Unary) Operands() []Operand { return []Operand{op.Src} }

func (op *TypeConversion) Result() Operand     { return op.Dest }
func (op *TypeConversion) Operands() []Operand { return []Operand{op.Src} }

func (op *Index) Result() Operand     { return op.Dest }
func (op *Index) Operands() []Operand { return []Operand{op.Base, op.Key} }

func (op *Member) Result() Operand     { return op.Dest }
func (op *Member) Operands() []Operand { return []Operand{op.Base} }

func (op *InitArray) Result() Operand     { return op.Dest }
func (op *InitArray) Operands() []Operand { return op.Values }

func (op *Unpack) Result() Operand     { return op.Dest }
func (op *Unpack) Operands() []Operand { return []Operand{op.Tuple} }

func (op *Delete) Result() Operand     { return nil }
func (op *Delete) Operands() []Operand { return []Operand{op.Target} }

func (op *Return) Result() Operand { return nil }
func (op *Return) Operands() []Operand {
	if op.Value == nil {
		return nil
	}
	return []Operand{op.Value}
}

func (op *Argument) Result() Operand     { return nil }
func (op *Argument) Operands() []Operand { return []Operand{op.Value} }

func (op *InternalCall) Result() Operand     { return op.Dest }
func (op *InternalCall) Operands() []Operand { return []Operand{op.Callee} }

func (op *BuiltinCall) Result() Operand     { return op.Dest }
func (op *BuiltinCall) Operands() []Operand { return op.Args }

func (op *PendingCall) Result() Operand { return op.Dest }
func (op *PendingCall) Operands() []Operand {
	ops := []Operand{op.Callee}
	for _, mod := range []Operand{op.Gas, op.CallValue, op.Salt} {
		if mod != nil {
			ops = append(ops, mod)
		}
	}
	return ops
}

func (op *PendingNewArray) Result() Operand     { return op.Dest }
func (op *PendingNewArray) Operands() []Operand { return nil }

func (op *PendingNewContract) Result() Operand { return op.Dest }
func (op *PendingNewContract) Operands() []Operand {
	var ops []Operand
	for _, mod := range []Operand{op.CallValue, op.Salt} {
		if mod != nil {
			ops = append(ops, mod)
		}
	}
	return ops
}

func (op *PendingNewElementary) Result() Operand     { return op.Dest }
func (op *PendingNewElementary) Operands() []Operand { return nil }
