package ir

import "sleuth/internal/ast"

// The IR operates on unsigned opcodes only: surface operators with signed
// semantics are rewritten during lowering into sign-extend / unsigned-op /
// truncate sequences.

type BinaryOp string

const (
	OpPower        BinaryOp = "**"
	OpMul          BinaryOp = "*"
	OpDiv          BinaryOp = "/"
	OpMod          BinaryOp = "%"
	OpAdd          BinaryOp = "+"
	OpSub          BinaryOp = "-"
	OpShl          BinaryOp = "<<"
	OpShr          BinaryOp = ">>"
	OpAnd          BinaryOp = "&"
	OpXor          BinaryOp = "^"
	OpOr           BinaryOp = "|"
	OpLess         BinaryOp = "<"
	OpGreater      BinaryOp = ">"
	OpLessEqual    BinaryOp = "<="
	OpGreaterEqual BinaryOp = ">="
	OpEqual        BinaryOp = "=="
	OpNotEqual     BinaryOp = "!="
	OpLogicAnd     BinaryOp = "&&"
	OpLogicOr      BinaryOp = "||"
)

type UnaryOp string

const (
	OpNot    UnaryOp = "!"
	OpBitNot UnaryOp = "~"
)

var binaryToIR = map[ast.BinaryOp]BinaryOp{
	ast.POWER:         OpPower,
	ast.MUL:           OpMul,
	ast.DIV:           OpDiv,
	ast.MOD:           OpMod,
	ast.ADD:           OpAdd,
	ast.SUB:           OpSub,
	ast.SHL:           OpShl,
	ast.SHR:           OpShr,
	ast.BIT_AND:       OpAnd,
	ast.BIT_XOR:       OpXor,
	ast.BIT_OR:        OpOr,
	ast.LESS:          OpLess,
	ast.GREATER:       OpGreater,
	ast.LESS_EQUAL:    OpLessEqual,
	ast.GREATER_EQUAL: OpGreaterEqual,
	ast.EQUAL:         OpEqual,
	ast.NOT_EQUAL:     OpNotEqual,
	ast.LOGIC_AND:     OpLogicAnd,
	ast.LOGIC_OR:      OpLogicOr,
}

// signedToUnsigned maps surface operators with signed semantics to the
// unsigned opcode applied between the sign-extend and truncate conversions.
var signedToUnsigned = map[ast.BinaryOp]BinaryOp{
	ast.DIV_SIGNED:     OpDiv,
	ast.MOD_SIGNED:     OpMod,
	ast.LESS_SIGNED:    OpLess,
	ast.GREATER_SIGNED: OpGreater,
	ast.SHR_ARITHMETIC: OpShr,
}

// compoundToBinary maps compound assignment operators to the in-place
// binary opcode. Plain ASSIGN is handled separately; an operator missing
// here is a lowering invariant violation.
var compoundToBinary = map[ast.AssignOp]BinaryOp{
	ast.OR_ASSIGN:  OpOr,
	ast.XOR_ASSIGN: OpXor,
	ast.AND_ASSIGN: OpAnd,
	ast.SHL_ASSIGN: OpShl,
	ast.SHR_ASSIGN: OpShr,
	ast.ADD_ASSIGN: OpAdd,
	ast.SUB_ASSIGN: OpSub,
	ast.MUL_ASSIGN: OpMul,
	ast.DIV_ASSIGN: OpDiv,
	ast.MOD_ASSIGN: OpMod,
}

var unaryToIR = map[ast.UnaryOp]UnaryOp{
	ast.NOT:     OpNot,
	ast.BIT_NOT: OpBitNot,
}
