package ast

// Expr is a parsed, type-annotated expression-tree node. Nodes are
// immutable for the duration of lowering and their pointer identity is
// stable, which makes them usable as scratch-store keys.
type Expr interface {
	Kind() NodeKind
	String() string
	isExpr()
}

type NodeKind int

const (
	ILLEGAL NodeKind = iota
	IDENTIFIER
	LITERAL
	TYPE_NAME
	ASSIGNMENT
	BINARY_EXPR
	UNARY_EXPR
	INDEX_EXPR
	MEMBER_EXPR
	CALL_EXPR
	NEW_ARRAY
	NEW_CONTRACT
	NEW_ELEMENTARY
	TUPLE_EXPR
	TYPE_CONVERSION
	CONDITIONAL
)

func (*Identifier) isExpr()     {}
func (*Literal) isExpr()        {}
func (*TypeName) isExpr()       {}
func (*Assignment) isExpr()     {}
func (*Binary) isExpr()         {}
func (*Unary) isExpr()          {}
func (*Index) isExpr()          {}
func (*Member) isExpr()         {}
func (*Call) isExpr()           {}
func (*NewArray) isExpr()       {}
func (*NewContract) isExpr()    {}
func (*NewElementary) isExpr()  {}
func (*Tuple) isExpr()          {}
func (*TypeConversion) isExpr() {}
func (*Conditional) isExpr()    {}

func (*Identifier) Kind() NodeKind     { return IDENTIFIER }
func (*Literal) Kind() NodeKind        { return LITERAL }
func (*TypeName) Kind() NodeKind       { return TYPE_NAME }
func (*Assignment) Kind() NodeKind     { return ASSIGNMENT }
func (*Binary) Kind() NodeKind         { return BINARY_EXPR }
func (*Unary) Kind() NodeKind          { return UNARY_EXPR }
func (*Index) Kind() NodeKind          { return INDEX_EXPR }
func (*Member) Kind() NodeKind         { return MEMBER_EXPR }
func (*Call) Kind() NodeKind           { return CALL_EXPR }
func (*NewArray) Kind() NodeKind       { return NEW_ARRAY }
func (*NewContract) Kind() NodeKind    { return NEW_CONTRACT }
func (*NewElementary) Kind() NodeKind  { return NEW_ELEMENTARY }
func (*Tuple) Kind() NodeKind          { return TUPLE_EXPR }
func (*TypeConversion) Kind() NodeKind { return TYPE_CONVERSION }
func (*Conditional) Kind() NodeKind    { return CONDITIONAL }
