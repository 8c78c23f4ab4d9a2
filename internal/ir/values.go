package ir

import (
	"fmt"
	"strings"

	"sleuth/internal/decl"
	"sleuth/internal/types"
)

// Operand is anything an instruction can reference: values created during
// lowering (Constant, Temporary, Reference, TupleValue), pre-existing
// declarations (decl.Symbol), and occasionally a type itself (types.Type),
// e.g. the type argument of an abi.decode. Consumers must check for the
// type case.
type Operand interface {
	String() string
}

// OperandList is the ordered per-slot value list a tuple expression yields
// for its parent assignment. Entries are nil for discarded slots.
type OperandList []Operand

func (l OperandList) String() string {
	parts := make([]string, len(l))
	for i, o := range l {
		if o == nil {
			parts[i] = "_"
		} else {
			parts[i] = o.String()
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Constant is a literal value with its elementary type and optional
// unit suffix.
type Constant struct {
	Value           string
	Type            types.Type
	Subdenomination string
}

func NewConstant(value string, t types.Type) *Constant {
	return &Constant{Value: value, Type: t}
}

func (c *Constant) String() string {
	if c.Subdenomination != "" {
		return c.Value + " " + c.Subdenomination
	}
	return c.Value
}

// Temporary is a fresh slot holding exactly one value. Type is set when
// the destination type is already known at creation, e.g. from a callee's
// declared return type; otherwise it is nil.
type Temporary struct {
	Index int
	Type  types.Type
}

func (t *Temporary) String() string { return fmt.Sprintf("TMP_%d", t.Index) }

// Reference is a fresh slot denoting an aliasable location (array element
// or member slot) rather than a value. Member records the accessed member
// name when the reference was produced by a member access, so that
// downstream consumers can recognize e.g. low-level call selectors.
type Reference struct {
	Index  int
	Type   types.Type
	Member string
}

func (r *Reference) String() string { return fmt.Sprintf("REF_%d", r.Index) }

// TupleValue is a fresh slot grouping the values returned together from a
// multi-value call; components are extracted by index via Unpack.
type TupleValue struct {
	Index int
}

func (t *TupleValue) String() string { return fmt.Sprintf("TUPLE_%d", t.Index) }

// operandType returns the static type of an operand when one is known.
func operandType(o Operand) types.Type {
	switch v := o.(type) {
	case *Constant:
		return v.Type
	case *Temporary:
		return v.Type
	case *Reference:
		return v.Type
	case *decl.Variable:
		return v.Type
	case *decl.Builtin:
		return v.Type
	}
	return nil
}

// isAddressValue reports whether the operand is a variable-shaped value of
// address type.
func isAddressValue(o Operand) bool {
	switch o.(type) {
	case *decl.Variable, *Temporary, *Reference:
		return types.IsAddressType(operandType(o))
	}
	return false
}
