package ast

type AssignOp int

const (
	// Special / error
	ILLEGAL_ASSIGN AssignOp = iota
	ASSIGN
	OR_ASSIGN
	XOR_ASSIGN
	AND_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN
	ADD_ASSIGN
	SUB_ASSIGN
	MUL_ASSIGN
	DIV_ASSIGN
	MOD_ASSIGN
)

func (op AssignOp) String() string {
	switch op {
	case ASSIGN:
		return "="
	case OR_ASSIGN:
		return "|="
	case XOR_ASSIGN:
		return "^="
	case AND_ASSIGN:
		return "&="
	case SHL_ASSIGN:
		return "<<="
	case SHR_ASSIGN:
		return ">>="
	case ADD_ASSIGN:
		return "+="
	case SUB_ASSIGN:
		return "-="
	case MUL_ASSIGN:
		return "*="
	case DIV_ASSIGN:
		return "/="
	case MOD_ASSIGN:
		return "%="
	}
	return "<illegal assign>"
}

type BinaryOp int

const (
	ILLEGAL_BINARY BinaryOp = iota
	POWER
	MUL
	DIV
	MOD
	ADD
	SUB
	SHL
	SHR
	BIT_AND
	BIT_XOR
	BIT_OR
	LESS
	GREATER
	LESS_EQUAL
	GREATER_EQUAL
	EQUAL
	NOT_EQUAL
	LOGIC_AND
	LOGIC_OR

	// Signed variants attached by the upstream checker when the operand
	// types demand sign-aware semantics.
	DIV_SIGNED
	MOD_SIGNED
	LESS_SIGNED
	GREATER_SIGNED
	SHR_ARITHMETIC
)

func (op BinaryOp) String() string {
	switch op {
	case POWER:
		return "**"
	case MUL:
		return "*"
	case DIV, DIV_SIGNED:
		return "/"
	case MOD, MOD_SIGNED:
		return "%"
	case ADD:
		return "+"
	case SUB:
		return "-"
	case SHL:
		return "<<"
	case SHR, SHR_ARITHMETIC:
		return ">>"
	case BIT_AND:
		return "&"
	case BIT_XOR:
		return "^"
	case BIT_OR:
		return "|"
	case LESS, LESS_SIGNED:
		return "<"
	case GREATER, GREATER_SIGNED:
		return ">"
	case LESS_EQUAL:
		return "<="
	case GREATER_EQUAL:
		return ">="
	case EQUAL:
		return "=="
	case NOT_EQUAL:
		return "!="
	case LOGIC_AND:
		return "&&"
	case LOGIC_OR:
		return "||"
	}
	return "<illegal binary>"
}

// IsSigned reports whether the operator carries signed semantics.
func (op BinaryOp) IsSigned() bool {
	switch op {
	case DIV_SIGNED, MOD_SIGNED, LESS_SIGNED, GREATER_SIGNED, SHR_ARITHMETIC:
		return true
	}
	return false
}

type UnaryOp int

const (
	ILLEGAL_UNARY UnaryOp = iota
	NOT
	BIT_NOT
	DELETE
	INC_PRE
	DEC_PRE
	INC_POST
	DEC_POST
	PLUS_PRE
	MINUS_PRE
)

func (op UnaryOp) String() string {
	switch op {
	case NOT:
		return "!"
	case BIT_NOT:
		return "~"
	case DELETE:
		return "delete"
	case INC_PRE, INC_POST:
		return "++"
	case DEC_PRE, DEC_POST:
		return "--"
	case PLUS_PRE:
		return "+"
	case MINUS_PRE:
		return "-"
	}
	return "<illegal unary>"
}
