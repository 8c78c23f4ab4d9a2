package ir

import (
	"fmt"
	"strings"
)

// Textual forms of the instructions, used by the CLI printer, the REPL and
// the tests. One line per instruction, destination first.

func (op *Assignment) String() string {
	return fmt.Sprintf("%s = %s", op.Dest, op.Src)
}

func (op *Binary) String() string {
	return fmt.Sprintf("%s = %s %s %s", op.Dest, op.Left, op.Op, op.Right)
}

func (op *Unary) String() string {
	return fmt.Sprintf("%s = %s%s", op.Dest, op.Op, op.Src)
}

func (op *TypeConversion) String() string {
	return fmt.Sprintf("%s = CONVERT %s to %s", op.Dest, op.Src, op.To)
}

func (op *Index) String() string {
	return fmt.Sprintf("%s -> %s[%s]", op.Dest, op.Base, op.Key)
}

func (op *Member) String() string {
	return fmt.Sprintf("%s -> %s.%s", op.Dest, op.Base, op.Name)
}

func (op *InitArray) String() string {
	parts := make([]string, len(op.Values))
	for i, v := range op.Values {
		if v == nil {
			parts[i] = "_"
		} else {
			parts[i] = v.String()
		}
	}
	return fmt.Sprintf("%s = INIT_ARRAY [%s]", op.Dest, strings.Join(parts, ", "))
}

func (op *Unpack) String() string {
	return fmt.Sprintf("%s = UNPACK %s index: %d", op.Dest, op.Tuple, op.Index)
}

func (op *Delete) String() string {
	return fmt.Sprintf("DELETE %s", op.Target)
}

func (op *Return) String() string {
	if op.Value == nil {
		return "RETURN"
	}
	return fmt.Sprintf("RETURN %s", op.Value)
}

func (op *Argument) String() string {
	return fmt.Sprintf("ARG %s", op.Value)
}

func (op *InternalCall) String() string {
	return fmt.Sprintf("%s = INTERNAL_CALL %s args: %d", op.Dest, op.Callee, op.ArgCount)
}

func (op *BuiltinCall) String() string {
	parts := make([]string, len(op.Args))
	for i, a := range op.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s = BUILTIN_CALL %s(%s)", op.Dest, op.Callee.Name, strings.Join(parts, ", "))
}

func (op *PendingCall) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s = PENDING_CALL %s args: %d", op.Dest, op.Callee, op.ArgCount)
	if op.Gas != nil {
		fmt.Fprintf(&b, " gas: %s", op.Gas)
	}
	if op.CallValue != nil {
		fmt.Fprintf(&b, " value: %s", op.CallValue)
	}
	if op.Salt != nil {
		fmt.Fprintf(&b, " salt: %s", op.Salt)
	}
	return b.String()
}

func (op *PendingNewArray) String() string {
	return fmt.Sprintf("%s = NEW_ARRAY %s%s", op.Dest, op.Elem, strings.Repeat("[]", op.Depth))
}

func (op *PendingNewContract) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s = NEW_CONTRACT %s", op.Dest, op.ContractName)
	if op.CallValue != nil {
		fmt.Fprintf(&b, " value: %s", op.CallValue)
	}
	if op.Salt != nil {
		fmt.Fprintf(&b, " salt: %s", op.Salt)
	}
	return b.String()
}

func (op *PendingNewElementary) String() string {
	return fmt.Sprintf("%s = NEW %s", op.Dest, op.Type)
}
