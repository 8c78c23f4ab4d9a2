package parser

import (
	"fmt"
	"strings"

	"sleuth/internal/ast"
	"sleuth/internal/decl"
	"sleuth/internal/errors"
	"sleuth/internal/types"
)

// The binder turns the parse tree into typed ast expressions: it resolves
// identifiers against the declaration table, rebuilds the flat binary
// operand/operator lists with proper precedence, and selects the signed
// operator variants from the operand types.

// Statement is one bound statement-level expression.
type Statement struct {
	Expr     ast.Expr
	IsReturn bool
}

type BindError struct {
	Code    string
	Message string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func bindErrorf(code, format string, args ...interface{}) *BindError {
	return &BindError{Code: code, Message: fmt.Sprintf(format, args...)}
}

type Binder struct {
	table   *decl.Table
	aliases map[string]*types.Alias
}

func NewBinder() *Binder {
	return &Binder{
		table:   decl.NewTable(nil),
		aliases: make(map[string]*types.Alias),
	}
}

// Table exposes the declaration table for callers that pre-register
// symbols (tests, the REPL).
func (b *Binder) Table() *decl.Table { return b.table }

// Bind processes every item of a parsed snippet: declarations populate
// the table, statements become bound expressions in source order.
func (b *Binder) Bind(snippet *Snippet) ([]Statement, error) {
	var stmts []Statement
	for _, item := range snippet.Items {
		switch {
		case item.Comment != nil:
			// elided in normal parses, tolerated here
		case item.Fn != nil:
			b.bindFn(item.Fn)
		case item.Alias != nil:
			b.bindAlias(item.Alias)
		case item.Enum != nil:
			b.table.Define(&decl.Enum{Name: item.Enum.Name, Members: item.Enum.Members})
		case item.Contract != nil:
			b.bindContract(item.Contract)
		case item.Var != nil:
			stmt, err := b.bindVar(item.Var)
			if err != nil {
				return nil, err
			}
			if stmt != nil {
				stmts = append(stmts, *stmt)
			}
		case item.Stmt != nil:
			stmt, err := b.bindStmt(item.Stmt)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, *stmt)
		}
	}
	return stmts, nil
}

func (b *Binder) bindFn(fn *FnDecl) {
	returns := make([]types.Type, len(fn.Returns))
	for i, r := range fn.Returns {
		returns[i] = b.resolveType(r)
	}
	b.table.Define(&decl.Function{Name: fn.Name, Returns: returns})
}

func (b *Binder) bindAlias(td *TypeDecl) *types.Alias {
	alias := &types.Alias{Name: td.Name, Underlying: b.resolveType(td.Underlying)}
	b.aliases[td.Name] = alias
	return alias
}

func (b *Binder) bindContract(cd *ContractDecl) {
	contract := decl.NewContract(cd.Name)
	for _, m := range cd.Members {
		switch {
		case m.Alias != nil:
			contract.Types[m.Alias.Name] = &types.Alias{
				Name:       m.Alias.Name,
				Underlying: b.resolveType(m.Alias.Underlying),
			}
		case m.Error != nil:
			contract.Errors[m.Error.Name] = &decl.CustomError{Name: m.Error.Name}
		}
	}
	b.table.Define(contract)
}

func (b *Binder) bindVar(vd *VarDecl) (*Statement, error) {
	t := b.resolveType(vd.Type)
	var v *decl.Variable
	if vd.Kind == "storage" {
		v = decl.NewState(vd.Name, t)
	} else {
		v = decl.NewLocal(vd.Name, t)
	}
	b.table.Define(v)

	if vd.Init == nil {
		return nil, nil
	}
	right, err := b.bindExpr(vd.Init)
	if err != nil {
		return nil, err
	}
	return &Statement{Expr: &ast.Assignment{
		Left:       &ast.Identifier{Name: v.Name, Value: v},
		Right:      right,
		Operator:   ast.ASSIGN,
		ReturnType: t,
	}}, nil
}

func (b *Binder) bindStmt(s *Stmt) (*Statement, error) {
	if s.Return != nil {
		e, err := b.bindExpr(s.Return.Expr)
		if err != nil {
			return nil, err
		}
		return &Statement{Expr: e, IsReturn: true}, nil
	}
	e, err := b.bindExpr(s.Expr.Expr)
	if err != nil {
		return nil, err
	}
	return &Statement{Expr: e}, nil
}

// resolveType maps a syntactic type reference to the type model. Alias
// names resolve to their declared alias; anything else is taken as an
// elementary type name. Array dimensions wrap outside-in.
func (b *Binder) resolveType(tr *TypeRef) types.Type {
	var t types.Type
	if alias, ok := b.aliases[tr.Name]; ok {
		t = alias
	} else {
		t = types.Elem(tr.Name)
	}
	for _, d := range tr.Dims {
		t = &types.Array{Elem: t, Length: d.Length}
	}
	return t
}

func (b *Binder) bindExpr(e *Expr) (ast.Expr, error) {
	return b.bindAssign(e.Assign)
}

var assignOps = map[string]ast.AssignOp{
	"=":   ast.ASSIGN,
	"|=":  ast.OR_ASSIGN,
	"^=":  ast.XOR_ASSIGN,
	"&=":  ast.AND_ASSIGN,
	"<<=": ast.SHL_ASSIGN,
	">>=": ast.SHR_ASSIGN,
	"+=":  ast.ADD_ASSIGN,
	"-=":  ast.SUB_ASSIGN,
	"*=":  ast.MUL_ASSIGN,
	"/=":  ast.DIV_ASSIGN,
	"%=":  ast.MOD_ASSIGN,
}

func (b *Binder) bindAssign(a *AssignExpr) (ast.Expr, error) {
	left, err := b.bindTernary(a.Left)
	if err != nil {
		return nil, err
	}
	if a.Op == "" {
		return left, nil
	}
	right, err := b.bindAssign(a.Right)
	if err != nil {
		return nil, err
	}
	op, ok := assignOps[a.Op]
	if !ok {
		return nil, bindErrorf(errors.ErrorInvalidStatement, "unknown assignment operator %q", a.Op)
	}
	return &ast.Assignment{
		Left:       left,
		Right:      right,
		Operator:   op,
		ReturnType: b.typeOf(left),
	}, nil
}

func (b *Binder) bindTernary(t *TernaryExpr) (ast.Expr, error) {
	cond, err := b.bindBinary(t.Cond)
	if err != nil {
		return nil, err
	}
	if t.Then == nil {
		return cond, nil
	}
	then, err := b.bindExpr(t.Then)
	if err != nil {
		return nil, err
	}
	els, err := b.bindExpr(t.Else)
	if err != nil {
		return nil, err
	}
	return &ast.Conditional{Cond: cond, Then: then, Else: els}, nil
}

var binaryPrecedence = map[string]int{
	"||": 0,
	"&&": 1,
	"==": 2, "!=": 2,
	"<": 3, ">": 3, "<=": 3, ">=": 3,
	"|": 4,
	"^": 5,
	"&": 6,
	"<<": 7, ">>": 7,
	"+": 8, "-": 8,
	"*": 9, "/": 9, "%": 9,
	"**": 10,
}

var binaryOps = map[string]ast.BinaryOp{
	"**": ast.POWER,
	"*":  ast.MUL,
	"/":  ast.DIV,
	"%":  ast.MOD,
	"+":  ast.ADD,
	"-":  ast.SUB,
	"<<": ast.SHL,
	">>": ast.SHR,
	"&":  ast.BIT_AND,
	"^":  ast.BIT_XOR,
	"|":  ast.BIT_OR,
	"<":  ast.LESS,
	">":  ast.GREATER,
	"<=": ast.LESS_EQUAL,
	">=": ast.GREATER_EQUAL,
	"==": ast.EQUAL,
	"!=": ast.NOT_EQUAL,
	"&&": ast.LOGIC_AND,
	"||": ast.LOGIC_OR,
}

// bindBinary resolves the flat operand/operator list with precedence
// climbing.
func (b *Binder) bindBinary(be *BinaryExpr) (ast.Expr, error) {
	left, err := b.bindUnary(be.Left)
	if err != nil {
		return nil, err
	}
	expr, rest, err := b.climb(left, be.Ops, 0)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, bindErrorf(errors.ErrorInvalidStatement, "dangling operator %q", rest[0].Operator)
	}
	return expr, nil
}

func (b *Binder) climb(left ast.Expr, ops []*BinOp, minPrec int) (ast.Expr, []*BinOp, error) {
	for len(ops) > 0 {
		prec, ok := binaryPrecedence[ops[0].Operator]
		if !ok {
			return nil, nil, bindErrorf(errors.ErrorInvalidStatement, "unknown operator %q", ops[0].Operator)
		}
		if prec < minPrec {
			break
		}
		op := ops[0]
		ops = ops[1:]

		right, err := b.bindUnary(op.Right)
		if err != nil {
			return nil, nil, err
		}
		for len(ops) > 0 {
			nextPrec, ok := binaryPrecedence[ops[0].Operator]
			if !ok || nextPrec <= prec {
				break
			}
			right, ops, err = b.climb(right, ops, nextPrec)
			if err != nil {
				return nil, nil, err
			}
		}
		left = &ast.Binary{Left: left, Right: right, Operator: b.selectOp(op.Operator, left, right)}
	}
	return left, ops, nil
}

// selectOp picks the signed operator variant when the operand types carry
// signed semantics.
func (b *Binder) selectOp(operator string, left, right ast.Expr) ast.BinaryOp {
	op := binaryOps[operator]
	switch op {
	case ast.DIV, ast.MOD, ast.LESS, ast.GREATER:
		if b.isSigned(left) && b.isSigned(right) {
			switch op {
			case ast.DIV:
				return ast.DIV_SIGNED
			case ast.MOD:
				return ast.MOD_SIGNED
			case ast.LESS:
				return ast.LESS_SIGNED
			case ast.GREATER:
				return ast.GREATER_SIGNED
			}
		}
	case ast.SHR:
		// The shifted value alone decides arithmetic vs logical.
		if b.isSigned(left) {
			return ast.SHR_ARITHMETIC
		}
	}
	return op
}

func (b *Binder) isSigned(e ast.Expr) bool {
	t, ok := b.typeOf(e).(*types.Elementary)
	return ok && t.Signed() && t.Bits() > 0
}

// typeOf is a best-effort static type: enough for signed-variant selection
// and assignment return types, nil where unknown.
func (b *Binder) typeOf(e ast.Expr) types.Type {
	switch n := e.(type) {
	case *ast.Identifier:
		switch v := n.Value.(type) {
		case *decl.Variable:
			return v.Type
		case *decl.Builtin:
			return v.Type
		}
	case *ast.Literal:
		return n.Type
	case *ast.Index:
		return n.Type
	case *ast.TypeConversion:
		return n.Type
	case *ast.Assignment:
		return n.ReturnType
	case *ast.Unary:
		return b.typeOf(n.Operand)
	}
	return nil
}

var prefixOps = map[string]ast.UnaryOp{
	"!":      ast.NOT,
	"~":      ast.BIT_NOT,
	"delete": ast.DELETE,
	"++":     ast.INC_PRE,
	"--":     ast.DEC_PRE,
	"+":      ast.PLUS_PRE,
	"-":      ast.MINUS_PRE,
}

func (b *Binder) bindUnary(u *UnaryExpr) (ast.Expr, error) {
	value, err := b.bindPostfix(u.Value)
	if err != nil {
		return nil, err
	}
	if u.Operator == "" {
		return value, nil
	}
	op, ok := prefixOps[u.Operator]
	if !ok {
		return nil, bindErrorf(errors.ErrorInvalidStatement, "unknown prefix operator %q", u.Operator)
	}
	return &ast.Unary{Operand: value, Operator: op}, nil
}

func (b *Binder) bindPostfix(p *PostfixExpr) (ast.Expr, error) {
	base, err := b.bindPrimary(p.Primary)
	if err != nil {
		return nil, err
	}

	// A {gas:, value:, salt:} group binds to the call or construction it
	// precedes.
	var pendingOpts *CallOpts
	for _, suffix := range p.Suffix {
		switch {
		case suffix.Member != nil:
			base, err = b.bindMember(base, *suffix.Member)
		case suffix.Index != nil:
			var key ast.Expr
			key, err = b.bindExpr(suffix.Index)
			if err == nil {
				base = &ast.Index{Base: base, Key: key, Type: b.elementType(base)}
			}
		case suffix.Opts != nil:
			if pendingOpts != nil {
				return nil, bindErrorf(errors.ErrorInvalidStatement, "duplicate call option group")
			}
			pendingOpts = suffix.Opts
		case suffix.Call != nil:
			base, err = b.bindCall(base, suffix.Call, pendingOpts)
			pendingOpts = nil
		case suffix.Inc != nil:
			if *suffix.Inc == "++" {
				base = &ast.Unary{Operand: base, Operator: ast.INC_POST}
			} else {
				base = &ast.Unary{Operand: base, Operator: ast.DEC_POST}
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if pendingOpts != nil {
		// Options directly on a contract construction, new C{value: v}.
		if nc, ok := base.(*ast.NewContract); ok {
			return base, b.applyOpts(pendingOpts, &ast.Call{Callee: nc})
		}
		return nil, bindErrorf(errors.ErrorInvalidStatement, "call options without a following call")
	}
	return base, nil
}

func (b *Binder) bindMember(base ast.Expr, name string) (ast.Expr, error) {
	// msg.sender, tx.origin and friends are single pseudo-variables, not
	// member accesses.
	if id, ok := base.(*ast.Identifier); ok && id.Value == nil {
		qualified := id.Name + "." + name
		if builtin := decl.BuiltinVariable(qualified); builtin != nil {
			return &ast.Identifier{Name: qualified, Value: builtin}, nil
		}
		// Other members of a namespace (abi.decode, block.timestamp)
		// stay member accesses over the namespace pseudo-variable.
		if ns := decl.BuiltinVariable(id.Name); ns != nil {
			id.Value = ns
		}
	}
	return &ast.Member{Base: base, MemberName: name}, nil
}

func (b *Binder) bindCall(callee ast.Expr, cs *CallSuffix, opts *CallOpts) (ast.Expr, error) {
	args := make([]ast.Expr, len(cs.Args))
	for i, a := range cs.Args {
		bound, err := b.bindExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = bound
	}

	// A type name in callee position is an explicit conversion; the lone
	// exception is zero-argument address(), the environment pseudo-function
	// for the executing account.
	if tn, ok := callee.(*ast.TypeName); ok {
		if elem, isElem := tn.Type.(*types.Elementary); isElem && elem.Name == "address" && len(args) == 0 {
			return &ast.Call{Callee: &ast.Identifier{Name: "address", Value: decl.BuiltinFunc("address()")}}, nil
		}
		if len(args) != 1 {
			return nil, bindErrorf(errors.ErrorInvalidStatement, "conversion to %s takes one argument, got %d", tn.Type, len(args))
		}
		return &ast.TypeConversion{Operand: args[0], Type: tn.Type}, nil
	}

	// Constructions take their modifiers on the construction node itself.
	if nc, ok := callee.(*ast.NewContract); ok && opts != nil {
		if err := b.applyOpts(opts, &ast.Call{Callee: nc}); err != nil {
			return nil, err
		}
		opts = nil
	}

	call := &ast.Call{Callee: callee, Arguments: args}
	if opts != nil {
		if err := b.applyOpts(opts, call); err != nil {
			return nil, err
		}
	}
	b.resolveCallee(call)
	return call, nil
}

// applyOpts copies a {gas:, value:, salt:} group onto a call. When the
// callee is a contract construction the value and salt belong to it.
func (b *Binder) applyOpts(opts *CallOpts, call *ast.Call) error {
	nc, _ := call.Callee.(*ast.NewContract)
	for _, opt := range opts.Opts {
		bound, err := b.bindExpr(opt.Value)
		if err != nil {
			return err
		}
		switch opt.Name {
		case "gas":
			call.Gas = bound
		case "value":
			if nc != nil {
				nc.Value = bound
			} else {
				call.Value = bound
			}
		case "salt":
			if nc != nil {
				nc.Salt = bound
			} else {
				call.Salt = bound
			}
		}
	}
	return nil
}

// Bare names of the environment pseudo-functions, mapped to the signature
// keys the declaration layer uses.
var environmentFunctions = map[string]string{
	"caller":      "caller()",
	"origin":      "origin()",
	"extcodesize": "extcodesize(uint256)",
	"selfbalance": "selfbalance()",
	"address":     "address()",
	"callvalue":   "callvalue()",
}

// resolveCallee finishes an unresolved identifier callee against the
// environment pseudo-functions and computes the static call signature.
func (b *Binder) resolveCallee(call *ast.Call) {
	if id, ok := call.Callee.(*ast.Identifier); ok && id.Value == nil {
		if sig, ok := environmentFunctions[id.Name]; ok {
			id.Value = decl.BuiltinFunc(sig)
		}
	}
	if id, ok := call.Callee.(*ast.Identifier); ok {
		if fn, ok := id.Value.(*decl.Function); ok {
			call.Signature = functionSignature(fn)
		}
	}
}

func functionSignature(fn *decl.Function) string {
	if len(fn.Returns) <= 1 {
		return ""
	}
	parts := make([]string, len(fn.Returns))
	for i, t := range fn.Returns {
		parts[i] = t.String()
	}
	return "tuple(" + strings.Join(parts, ",") + ")"
}

// elementType derives the element type of an indexed array-typed base.
func (b *Binder) elementType(base ast.Expr) types.Type {
	if arr, ok := b.typeOf(base).(*types.Array); ok {
		return arr.Elem
	}
	return nil
}

func (b *Binder) bindPrimary(p *PrimaryExpr) (ast.Expr, error) {
	switch {
	case p.New != nil:
		return b.bindNew(p.New), nil
	case p.Bool != nil:
		return &ast.Literal{Value: *p.Bool, Type: types.Elem("bool")}, nil
	case p.Number != nil:
		lit := &ast.Literal{Value: p.Number.Value, Type: types.Elem("uint256")}
		if p.Number.Unit != nil {
			lit.Subdenomination = *p.Number.Unit
		}
		return lit, nil
	case p.Str != nil:
		return &ast.Literal{Value: strings.Trim(*p.Str, `"`), Type: types.Elem("string")}, nil
	case p.Ident != nil:
		return b.bindIdent(*p.Ident)
	case p.Array != nil:
		return b.bindArray(p.Array)
	case p.Tuple != nil:
		return b.bindTuple(p.Tuple)
	}
	return nil, bindErrorf(errors.ErrorInvalidStatement, "empty expression")
}

func (b *Binder) bindIdent(name string) (ast.Expr, error) {
	if sym := b.table.Lookup(name); sym != nil {
		return &ast.Identifier{Name: name, Value: sym}, nil
	}
	if alias, ok := b.aliases[name]; ok {
		return &ast.TypeName{Type: alias}, nil
	}
	if isElementaryName(name) {
		return &ast.TypeName{Type: types.Elem(name)}, nil
	}
	// msg/tx/block/abi must stay unresolved here: the enclosing member
	// access binds qualified names like msg.sender as single composed
	// pseudo-variables and only falls back to the namespace entry for the
	// rest (abi.decode, block.timestamp).
	if name == "msg" || name == "tx" || name == "block" || name == "abi" {
		return &ast.Identifier{Name: name}, nil
	}
	if builtin := decl.BuiltinVariable(name); builtin != nil {
		return &ast.Identifier{Name: name, Value: builtin}, nil
	}
	if name == "type" {
		return &ast.Identifier{Name: name, Value: decl.BuiltinFunc("type()")}, nil
	}
	// Environment pseudo-functions are recognized by the enclosing call
	// rule; anything still naked fails there or here.
	if _, ok := environmentFunctions[name]; ok {
		return &ast.Identifier{Name: name}, nil
	}
	return nil, bindErrorf(errors.ErrorUndefinedVariable, "undefined identifier %q", name)
}

func (b *Binder) bindNew(n *NewExpr) ast.Expr {
	if len(n.Dims) > 0 {
		return &ast.NewArray{Depth: len(n.Dims), ElemType: b.resolveType(&TypeRef{Name: n.Name})}
	}
	if sym := b.table.Lookup(n.Name); sym != nil {
		if _, ok := sym.(*decl.Contract); ok {
			return &ast.NewContract{ContractName: n.Name}
		}
	}
	return &ast.NewElementary{Type: types.Elem(n.Name)}
}

func (b *Binder) bindArray(a *ArrayLit) (ast.Expr, error) {
	elements := make([]ast.Expr, len(a.Elements))
	for i, e := range a.Elements {
		bound, err := b.bindExpr(e)
		if err != nil {
			return nil, err
		}
		elements[i] = bound
	}
	return &ast.Tuple{Elements: elements, IsInlineArray: true}, nil
}

func (b *Binder) bindTuple(t *TupleLit) (ast.Expr, error) {
	raw := make([]*TupleElem, 0, len(t.Rest)+1)
	raw = append(raw, t.First)
	for _, r := range t.Rest {
		raw = append(raw, r.Elem)
	}

	elements := make([]ast.Expr, len(raw))
	for i, el := range raw {
		if el == nil {
			continue
		}
		bound, err := b.bindTupleElem(el, i)
		if err != nil {
			return nil, err
		}
		elements[i] = bound
	}
	return &ast.Tuple{Elements: elements}, nil
}

func (b *Binder) bindTupleElem(el *TupleElem, index int) (ast.Expr, error) {
	if el.Decl != nil {
		v := decl.NewTupleLocal(el.Decl.Name, b.resolveType(el.Decl.Type), index)
		b.table.Define(v)
		return &ast.Identifier{Name: v.Name, Value: v}, nil
	}
	return b.bindExpr(el.Expr)
}

var elementaryNames = map[string]bool{
	"bool": true, "address": true, "string": true, "bytes": true,
}

func isElementaryName(name string) bool {
	if elementaryNames[name] {
		return true
	}
	t := types.Elem(name)
	if t.Bits() > 0 {
		return true
	}
	return strings.HasPrefix(name, "bytes") && len(name) > 5
}
