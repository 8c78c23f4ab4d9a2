package parser

// Grammar of the analysis snippet language: a flat sequence of
// declarations and statements. Declarations introduce the symbols the
// statements reference; statements are single expressions lowered to IR.

type Snippet struct {
	Items []*Item `parser:"@@*"`
}

type Item struct {
	Comment  *Comment      `parser:"  @@"`
	Fn       *FnDecl       `parser:"| @@"`
	Alias    *TypeDecl     `parser:"| @@"`
	Enum     *EnumDecl     `parser:"| @@"`
	Contract *ContractDecl `parser:"| @@"`
	Var      *VarDecl      `parser:"| @@"`
	Stmt     *Stmt         `parser:"| @@"`
}

type Comment struct {
	Text string `parser:"@Comment"`
}

type VarDecl struct {
	Kind string   `parser:"@(\"let\" | \"storage\")"`
	Type *TypeRef `parser:"@@"`
	Name string   `parser:"@Ident"`
	Init *Expr    `parser:"[ \"=\" @@ ] \";\""`
}

type FnDecl struct {
	Name    string     `parser:"\"fn\" @Ident \"(\" \")\""`
	Returns []*TypeRef `parser:"[ \"returns\" \"(\" [ @@ { \",\" @@ } ] \")\" ] \";\""`
}

type TypeDecl struct {
	Name       string   `parser:"\"type\" @Ident"`
	Underlying *TypeRef `parser:"\"is\" @@ \";\""`
}

type EnumDecl struct {
	Name    string   `parser:"\"enum\" @Ident \"{\""`
	Members []string `parser:"[ @Ident { \",\" @Ident } ] \"}\""`
}

type ContractDecl struct {
	Name    string            `parser:"\"contract\" @Ident \"{\""`
	Members []*ContractMember `parser:"@@* \"}\""`
}

type ContractMember struct {
	Alias *TypeDecl  `parser:"  @@"`
	Error *ErrorDecl `parser:"| @@"`
}

type ErrorDecl struct {
	Name string `parser:"\"error\" @Ident \";\""`
}

type TypeRef struct {
	Name string `parser:"@Ident"`
	Dims []*Dim `parser:"{ @@ }"`
}

type Dim struct {
	Length string `parser:"\"[\" [ @Integer ] \"]\""`
}

type Stmt struct {
	Return *ReturnStmt `parser:"  @@"`
	Expr   *ExprStmt   `parser:"| @@"`
}

type ReturnStmt struct {
	Expr *Expr `parser:"\"return\" @@ \";\""`
}

type ExprStmt struct {
	Expr *Expr `parser:"@@ \";\""`
}

type Expr struct {
	Assign *AssignExpr `parser:"@@"`
}

// AssignExpr is right-associative so chained assignments nest naturally.
type AssignExpr struct {
	Left  *TernaryExpr `parser:"@@"`
	Op    string       `parser:"[ @(\"=\" | \"+=\" | \"-=\" | \"*=\" | \"/=\" | \"%=\" | \"&=\" | \"|=\" | \"^=\" | \"<<=\" | \">>=\")"`
	Right *AssignExpr  `parser:"@@ ]"`
}

type TernaryExpr struct {
	Cond *BinaryExpr `parser:"@@"`
	Then *Expr       `parser:"[ \"?\" @@"`
	Else *Expr       `parser:"\":\" @@ ]"`
}

// BinaryExpr is a flat operand/operator list; precedence is resolved by
// the binder.
type BinaryExpr struct {
	Left *UnaryExpr `parser:"@@"`
	Ops  []*BinOp   `parser:"{ @@ }"`
}

type BinOp struct {
	Operator string     `parser:"@(\"**\" | \"*\" | \"/\" | \"%\" | \"+\" | \"-\" | \"<<\" | \">>\" | \"<=\" | \">=\" | \"<\" | \">\" | \"==\" | \"!=\" | \"&&\" | \"||\" | \"&\" | \"^\" | \"|\")"`
	Right    *UnaryExpr `parser:"@@"`
}

type UnaryExpr struct {
	Operator string       `parser:"[ @(\"!\" | \"~\" | \"-\" | \"+\" | \"++\" | \"--\" | \"delete\") ]"`
	Value    *PostfixExpr `parser:"@@"`
}

type PostfixExpr struct {
	Primary *PrimaryExpr `parser:"@@"`
	Suffix  []*PostfixOp `parser:"{ @@ }"`
}

type PostfixOp struct {
	Member *string     `parser:"  \".\" @Ident"`
	Index  *Expr       `parser:"| \"[\" @@ \"]\""`
	Call   *CallSuffix `parser:"| @@"`
	Opts   *CallOpts   `parser:"| @@"`
	Inc    *string     `parser:"| @(\"++\" | \"--\")"`
}

type CallSuffix struct {
	Open string  `parser:"@\"(\""`
	Args []*Expr `parser:"[ @@ { \",\" @@ } ] \")\""`
}

type CallOpts struct {
	Opts []*CallOpt `parser:"\"{\" [ @@ { \",\" @@ } ] \"}\""`
}

type CallOpt struct {
	Name  string `parser:"@(\"gas\" | \"value\" | \"salt\") \":\""`
	Value *Expr  `parser:"@@"`
}

type PrimaryExpr struct {
	New    *NewExpr   `parser:"  @@"`
	Bool   *string    `parser:"| @(\"true\" | \"false\")"`
	Number *NumberLit `parser:"| @@"`
	Str    *string    `parser:"| @String"`
	Ident  *string    `parser:"| @Ident"`
	Array  *ArrayLit  `parser:"| @@"`
	Tuple  *TupleLit  `parser:"| @@"`
}

type NumberLit struct {
	Value string  `parser:"@Integer"`
	Unit  *string `parser:"[ @(\"wei\" | \"gwei\" | \"ether\" | \"seconds\" | \"minutes\" | \"hours\" | \"days\" | \"weeks\") ]"`
}

type NewExpr struct {
	Name string `parser:"\"new\" @Ident"`
	Dims []*Dim `parser:"{ @@ }"`
}

type ArrayLit struct {
	Elements []*Expr `parser:"\"[\" [ @@ { \",\" @@ } ] \"]\""`
}

// TupleLit keeps empty slots: a missing element between commas is a
// discarded destructuring target.
type TupleLit struct {
	First *TupleElem   `parser:"\"(\" [ @@ ]"`
	Rest  []*TupleRest `parser:"{ @@ } \")\""`
}

type TupleRest struct {
	Comma string     `parser:"@\",\""`
	Elem  *TupleElem `parser:"[ @@ ]"`
}

type TupleElem struct {
	Decl *DeclTarget `parser:"  @@"`
	Expr *Expr       `parser:"| @@"`
}

// DeclTarget is an in-place declaration inside a destructuring tuple,
// e.g. the "uint a" in (uint a, , bool b) = g().
type DeclTarget struct {
	Type *TypeRef `parser:"@@"`
	Name string   `parser:"@Ident"`
}
