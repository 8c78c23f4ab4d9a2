package ir

import (
	"strings"

	"github.com/tliron/commonlog"

	"sleuth/internal/ast"
	"sleuth/internal/decl"
	"sleuth/internal/types"
)

var log = commonlog.GetLogger("sleuth.ir")

// Config controls optional lowering behavior. It is passed explicitly to
// the entry point; the engine reads no ambient state.
type Config struct {
	// FoldConstants enables the extended-IR mode that short-circuits
	// compile-time-constant binary/unary subtrees to literals.
	FoldConstants bool
}

// Block is the basic-block node that receives the lowered operations.
type Block interface {
	IsReturnPoint() bool
	Append(op Operation)
}

// Lowerer lowers one statement-level expression into an ordered operation
// list. Each statement gets a fresh Lowerer: the scratch store and the
// operation buffer are private to it, so statements may be lowered in
// parallel by an outer driver.
type Lowerer struct {
	block   Block
	cfg     Config
	scratch *scratch
	ops     []Operation

	tempCounter  int
	refCounter   int
	tupleCounter int
}

// LowerExpression lowers e, attaches the finished operation list to the
// block, and returns it. When the block is a function-return point the
// final value is wrapped in a closing Return operation. On error nothing
// is attached: lowering either fully succeeds for the whole statement or
// fails as a unit.
func LowerExpression(e ast.Expr, block Block, cfg Config) ([]Operation, error) {
	lw := &Lowerer{
		block:   block,
		cfg:     cfg,
		scratch: newScratch(),
	}

	if err := lw.lower(e); err != nil {
		log.Debugf("lowering failed for %s: %s", e, err)
		return nil, err
	}

	final, err := lw.scratch.take(e)
	if err != nil {
		return nil, err
	}
	if block.IsReturnPoint() {
		lw.emit(&Return{Value: final})
	}

	if n := lw.scratch.size(); n != 0 {
		return nil, invariantf("%d scratch entries left after lowering %s", n, e)
	}

	for _, op := range lw.ops {
		block.Append(op)
	}
	return lw.ops, nil
}

func (lw *Lowerer) emit(op Operation) {
	lw.ops = append(lw.ops, op)
}

func (lw *Lowerer) newTemp(t types.Type) *Temporary {
	tmp := &Temporary{Index: lw.tempCounter, Type: t}
	lw.tempCounter++
	return tmp
}

func (lw *Lowerer) newRef() *Reference {
	ref := &Reference{Index: lw.refCounter}
	lw.refCounter++
	return ref
}

func (lw *Lowerer) newTuple() *TupleValue {
	tv := &TupleValue{Index: lw.tupleCounter}
	lw.tupleCounter++
	return tv
}

// lower dispatches post-order over the closed node-kind set: children are
// lowered first, then the node's rule consumes their scratch values and
// records its own. An unknown node kind is an internal bug, not a
// fallback case.
func (lw *Lowerer) lower(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.Identifier:
		if n.Value == nil {
			return invariantf("identifier %s reached lowering without a bound declaration", n.Name)
		}
		return lw.scratch.set(n, n.Value)
	case *ast.Literal:
		return lw.scratch.set(n, &Constant{Value: n.Value, Type: n.Type, Subdenomination: n.Subdenomination})
	case *ast.TypeName:
		return lw.scratch.set(n, n.Type)
	case *ast.Assignment:
		return lw.lowerAssignment(n)
	case *ast.Binary:
		return lw.lowerBinary(n)
	case *ast.Unary:
		return lw.lowerUnary(n)
	case *ast.Index:
		return lw.lowerIndex(n)
	case *ast.Member:
		return lw.lowerMember(n)
	case *ast.Call:
		return lw.lowerCall(n)
	case *ast.NewArray:
		val := lw.newTemp(nil)
		lw.emit(&PendingNewArray{Dest: val, Depth: n.Depth, Elem: n.ElemType})
		return lw.scratch.set(n, val)
	case *ast.NewContract:
		return lw.lowerNewContract(n)
	case *ast.NewElementary:
		val := lw.newTemp(nil)
		lw.emit(&PendingNewElementary{Dest: val, Type: n.Type})
		return lw.scratch.set(n, val)
	case *ast.Tuple:
		return lw.lowerTuple(n)
	case *ast.TypeConversion:
		return lw.lowerTypeConversion(n)
	case *ast.Conditional:
		return unsupportedf("ternary operator is not convertible to IR: %s", n)
	}
	return invariantf("unknown expression node %T", e)
}

// convertAssignment translates one surface assignment operator into either
// a plain assignment or an in-place binary operation.
func convertAssignment(left, right Operand, op ast.AssignOp, returnType types.Type) (Operation, error) {
	if op == ast.ASSIGN {
		return &Assignment{Dest: left, Src: right, ReturnType: returnType}, nil
	}
	binOp, ok := compoundToBinary[op]
	if !ok {
		return nil, invariantf("no opcode mapping for assignment operator %s", op)
	}
	return &Binary{Dest: left, Left: left, Right: right, Op: binOp}, nil
}

func (lw *Lowerer) lowerAssignment(n *ast.Assignment) error {
	if err := lw.lower(n.Left); err != nil {
		return err
	}
	if err := lw.lower(n.Right); err != nil {
		return err
	}
	left, err := lw.scratch.take(n.Left)
	if err != nil {
		return err
	}
	right, err := lw.scratch.take(n.Right)
	if err != nil {
		return err
	}

	if targets, ok := left.(OperandList); ok {
		if values, ok := right.(OperandList); ok {
			// Element-wise destructuring of a tuple literal.
			if len(targets) != len(values) {
				return invariantf("tuple assignment arity mismatch: %d targets, %d values", len(targets), len(values))
			}
			for i, target := range targets {
				if target == nil {
					continue
				}
				op, err := convertAssignment(target, values[i], n.Operator, n.ReturnType)
				if err != nil {
					return err
				}
				lw.emit(op)
			}
			return lw.scratch.set(n, nil)
		}
		tuple, ok := right.(*TupleValue)
		if !ok {
			return invariantf("destructuring assignment from non-tuple value %s", right)
		}
		for i, target := range targets {
			if target == nil {
				continue
			}
			// A discarded leading/trailing slot still consumes an
			// index: prefer the declared slot recorded on the target.
			index := i
			if v, ok := target.(*decl.Variable); ok && v.TupleIndex >= 0 {
				index = v.TupleIndex
			}
			lw.emit(&Unpack{Dest: target, Tuple: tuple, Index: index})
		}
		return lw.scratch.set(n, nil)
	}

	// Single target declared as one slot of a destructuring tuple,
	// e.g. (uint a,,) = g().
	if v, ok := left.(*decl.Variable); ok && v.TupleIndex >= 0 {
		if tuple, ok := right.(*TupleValue); ok {
			lw.emit(&Unpack{Dest: v, Tuple: tuple, Index: v.TupleIndex})
			return lw.scratch.set(n, nil)
		}
	}

	// Inline array literal on the right: uint8[2] v = [1, 2].
	if values, ok := right.(OperandList); ok {
		lw.emit(&InitArray{Dest: left, Values: values})
		return lw.scratch.set(n, left)
	}

	op, err := convertAssignment(left, right, n.Operator, n.ReturnType)
	if err != nil {
		return err
	}
	lw.emit(op)
	// The produced value is the left side, so chained assignments
	// (a = b = 1) compose.
	return lw.scratch.set(n, left)
}

func (lw *Lowerer) lowerBinary(n *ast.Binary) error {
	if lw.cfg.FoldConstants {
		if folded, err := lw.tryFold(n); folded || err != nil {
			return err
		}
	}

	if err := lw.lower(n.Left); err != nil {
		return err
	}
	if err := lw.lower(n.Right); err != nil {
		return err
	}
	left, err := lw.scratch.take(n.Left)
	if err != nil {
		return err
	}
	right, err := lw.scratch.take(n.Right)
	if err != nil {
		return err
	}

	if op, ok := signedToUnsigned[n.Operator]; ok {
		// Sign-extend the operands into full-width signed temporaries,
		// apply the unsigned opcode, and truncate the result back to
		// the unsigned representation type. The shift count of an
		// arithmetic right shift is never resigned.
		newLeft := lw.newTemp(types.Elem("int256"))
		lw.emit(&TypeConversion{Dest: newLeft, Src: left, To: types.Elem("int256")})

		newRight := right
		if n.Operator != ast.SHR_ARITHMETIC {
			signed := lw.newTemp(types.Elem("int256"))
			lw.emit(&TypeConversion{Dest: signed, Src: right, To: types.Elem("int256")})
			newRight = signed
		}

		newFinal := lw.newTemp(nil)
		lw.emit(&Binary{Dest: newFinal, Left: newLeft, Right: newRight, Op: op})

		val := lw.newTemp(types.Elem("uint256"))
		lw.emit(&TypeConversion{Dest: val, Src: newFinal, To: types.Elem("uint256")})
		return lw.scratch.set(n, val)
	}

	op, ok := binaryToIR[n.Operator]
	if !ok {
		return invariantf("no opcode mapping for binary operator %s", n.Operator)
	}
	val := lw.newTemp(nil)
	lw.emit(&Binary{Dest: val, Left: left, Right: right, Op: op})
	return lw.scratch.set(n, val)
}

func (lw *Lowerer) lowerUnary(n *ast.Unary) error {
	if lw.cfg.FoldConstants {
		if folded, err := lw.tryFold(n); folded || err != nil {
			return err
		}
	}

	if err := lw.lower(n.Operand); err != nil {
		return err
	}
	value, err := lw.scratch.take(n.Operand)
	if err != nil {
		return err
	}

	switch n.Operator {
	case ast.NOT, ast.BIT_NOT:
		val := lw.newTemp(nil)
		lw.emit(&Unary{Dest: val, Src: value, Op: unaryToIR[n.Operator]})
		return lw.scratch.set(n, val)
	case ast.DELETE:
		lw.emit(&Delete{Dest: value, Target: value})
		return lw.scratch.set(n, value)
	case ast.INC_PRE:
		lw.emit(&Binary{Dest: value, Left: value, Right: one(value), Op: OpAdd})
		return lw.scratch.set(n, value)
	case ast.DEC_PRE:
		lw.emit(&Binary{Dest: value, Left: value, Right: one(value), Op: OpSub})
		return lw.scratch.set(n, value)
	case ast.INC_POST:
		// Save the pre-mutation value, then mutate in place.
		saved := lw.newTemp(nil)
		lw.emit(&Assignment{Dest: saved, Src: value, ReturnType: operandType(value)})
		lw.emit(&Binary{Dest: value, Left: value, Right: one(value), Op: OpAdd})
		return lw.scratch.set(n, saved)
	case ast.DEC_POST:
		saved := lw.newTemp(nil)
		lw.emit(&Assignment{Dest: saved, Src: value, ReturnType: operandType(value)})
		lw.emit(&Binary{Dest: value, Left: value, Right: one(value), Op: OpSub})
		return lw.scratch.set(n, saved)
	case ast.PLUS_PRE:
		return lw.scratch.set(n, value)
	case ast.MINUS_PRE:
		val := lw.newTemp(nil)
		lw.emit(&Binary{Dest: val, Left: NewConstant("0", operandType(value)), Right: value, Op: OpSub})
		return lw.scratch.set(n, val)
	}
	return invariantf("unary operation %s is not convertible to IR", n.Operator)
}

// one builds the constant 1 typed like the mutated operand.
func one(value Operand) *Constant {
	return NewConstant("1", operandType(value))
}

func (lw *Lowerer) lowerIndex(n *ast.Index) error {
	if err := lw.lower(n.Base); err != nil {
		return err
	}
	if err := lw.lower(n.Key); err != nil {
		return err
	}
	base, err := lw.scratch.take(n.Base)
	if err != nil {
		return err
	}
	key, err := lw.scratch.take(n.Key)
	if err != nil {
		return err
	}

	// The base can be a type for abi.decode(data, uint[2]): derive an
	// array type from the constant length instead of emitting anything.
	if t, ok := base.(types.Type); ok {
		length, ok := key.(*Constant)
		if !ok {
			return invariantf("array type length %s is not a constant", key)
		}
		return lw.scratch.set(n, &types.Array{Elem: t, Length: length.Value})
	}

	// Indexing into an anonymous in-place list literal, like [0,1][x]:
	// materialize it first.
	if values, ok := base.(OperandList); ok {
		materialized := lw.newTemp(nil)
		lw.emit(&InitArray{Dest: materialized, Values: values})
		base = materialized
	}

	ref := lw.newRef()
	ref.Type = n.Type
	lw.emit(&Index{Dest: ref, Base: base, Key: key, Type: n.Type})
	return lw.scratch.set(n, ref)
}

func (lw *Lowerer) lowerMember(n *ast.Member) error {
	// type(X).min / type(X).max resolve directly to a constant; the
	// type(...) call underneath is never lowered.
	if n.MemberName == "min" || n.MemberName == "max" {
		if resolved, cst, err := minMaxConstant(n); err != nil {
			return err
		} else if resolved {
			return lw.scratch.set(n, cst)
		}
	}

	if err := lw.lower(n.Base); err != nil {
		return err
	}
	base, err := lw.scratch.take(n.Base)
	if err != nil {
		return err
	}

	// balance/code/codehash on an address-typed value lower to the
	// matching single-argument builtin call.
	switch n.MemberName {
	case "balance", "code", "codehash":
		if isAddressValue(base) {
			builtin := decl.BuiltinFunc(n.MemberName + "(address)")
			val := lw.newTemp(builtin.ReturnType)
			lw.emit(&BuiltinCall{
				Dest:       val,
				Callee:     builtin,
				ArgCount:   1,
				ReturnType: builtin.ReturnType,
				Args:       []Operand{base},
			})
			return lw.scratch.set(n, val)
		}
	}

	// wrap/unwrap selectors pass the alias through; the enclosing call
	// turns them into conversions.
	if alias, ok := base.(*types.Alias); ok {
		if n.MemberName == "wrap" || n.MemberName == "unwrap" {
			return lw.scratch.set(n, alias)
		}
	}

	// Members of a contract symbol can name a nested user-defined type
	// or one of its custom errors; both resolve without an instruction.
	if contract, ok := base.(*decl.Contract); ok {
		if alias, ok := contract.Types[n.MemberName]; ok {
			return lw.scratch.set(n, alias)
		}
		if customErr, ok := contract.Errors[n.MemberName]; ok {
			return lw.scratch.set(n, customErr)
		}
	}

	ref := lw.newRef()
	ref.Member = n.MemberName
	lw.emit(&Member{Dest: ref, Base: base, Name: NewConstant(n.MemberName, nil)})
	return lw.scratch.set(n, ref)
}

// minMaxConstant resolves type(X).min/.max when the member target is a
// call to the type() pseudo-function over an elementary type or an enum.
func minMaxConstant(n *ast.Member) (bool, *Constant, error) {
	call, ok := n.Base.(*ast.Call)
	if !ok {
		return false, nil, nil
	}
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return false, nil, nil
	}
	builtin, ok := callee.Value.(*decl.BuiltinFunction)
	if !ok || builtin.Name != "type()" {
		return false, nil, nil
	}
	if len(call.Arguments) != 1 {
		return false, nil, invariantf("type() takes one type argument, got %d", len(call.Arguments))
	}

	switch arg := call.Arguments[0].(type) {
	case *ast.TypeName:
		elem, ok := arg.Type.(*types.Elementary)
		if !ok {
			return false, nil, invariantf("type(%s) is not an elementary type", arg.Type)
		}
		var value string
		if n.MemberName == "min" {
			value, ok = elem.Min()
		} else {
			value, ok = elem.Max()
		}
		if !ok {
			return false, nil, invariantf("type %s has no %s", elem, n.MemberName)
		}
		return true, NewConstant(value, elem), nil
	case *ast.Identifier:
		enum, ok := arg.Value.(*decl.Enum)
		if !ok {
			return false, nil, invariantf("type(%s) argument is neither an elementary type nor an enum", arg)
		}
		if n.MemberName == "min" {
			return true, NewConstant(enum.Min(), nil), nil
		}
		return true, NewConstant(enum.Max(), nil), nil
	}
	return false, nil, invariantf("unexpected type() argument %s", call.Arguments[0])
}

func (lw *Lowerer) lowerCall(n *ast.Call) error {
	if err := lw.lower(n.Callee); err != nil {
		return err
	}

	// Explicit {gas:, value:, salt:} modifiers are children too and are
	// lowered in source order, before the arguments.
	var gas, callValue, salt Operand
	var err error
	if gas, err = lw.lowerModifier(n.Gas); err != nil {
		return err
	}
	if callValue, err = lw.lowerModifier(n.Value); err != nil {
		return err
	}
	if salt, err = lw.lowerModifier(n.Salt); err != nil {
		return err
	}

	args := make([]Operand, 0, len(n.Arguments))
	for _, argExpr := range n.Arguments {
		if argExpr == nil {
			continue
		}
		if err := lw.lower(argExpr); err != nil {
			return err
		}
		arg, err := lw.scratch.take(argExpr)
		if err != nil {
			return err
		}
		args = append(args, arg)
	}

	called, err := lw.scratch.take(n.Callee)
	if err != nil {
		return err
	}

	for _, arg := range args {
		lw.emit(&Argument{Value: arg})
	}

	switch callee := called.(type) {
	case *decl.Function:
		dest, err := lw.callDestination(n.Signature, callee)
		if err != nil {
			return err
		}
		lw.emit(&InternalCall{Dest: dest, Callee: callee, ArgCount: len(args), Signature: n.Signature})
		return lw.scratch.set(n, dest)

	case *types.Alias:
		return lw.lowerWrapUnwrap(n, callee, args)

	case *decl.BuiltinFunction:
		if handled, err := lw.lowerEnvironmentCall(n, callee, args); handled || err != nil {
			return err
		}
	}

	// Unresolved call: emit a placeholder carrying everything the later
	// resolution pass needs.
	var dest Operand
	if isTupleSignature(n.Signature) {
		dest = lw.newTuple()
	} else {
		dest = lw.newTemp(nil)
	}
	lw.emit(&PendingCall{
		Dest:      dest,
		Callee:    called,
		ArgCount:  len(args),
		Signature: n.Signature,
		Gas:       gas,
		CallValue: callValue,
		Salt:      salt,
	})
	return lw.scratch.set(n, dest)
}

func (lw *Lowerer) lowerModifier(e ast.Expr) (Operand, error) {
	if e == nil {
		return nil, nil
	}
	if err := lw.lower(e); err != nil {
		return nil, err
	}
	return lw.scratch.take(e)
}

// callDestination allocates the destination for a resolved call: a tuple
// when the static signature denotes multiple returns, otherwise a
// temporary pre-typed from the single declared return.
func (lw *Lowerer) callDestination(signature string, callee *decl.Function) (Operand, error) {
	if isTupleSignature(signature) {
		return lw.newTuple(), nil
	}
	switch len(callee.Returns) {
	case 0:
		return lw.newTemp(nil), nil
	case 1:
		return lw.newTemp(callee.Returns[0]), nil
	}
	return nil, invariantf("%s declares %d returns but %q is not a tuple signature",
		callee, len(callee.Returns), signature)
}

func isTupleSignature(signature string) bool {
	return strings.HasPrefix(signature, "tuple(") && signature != "tuple()"
}

// lowerWrapUnwrap turns Alias.wrap(x) into a conversion to the alias and
// Alias.unwrap(x) into a conversion to its underlying type.
func (lw *Lowerer) lowerWrapUnwrap(n *ast.Call, alias *types.Alias, args []Operand) error {
	member, ok := n.Callee.(*ast.Member)
	if !ok || len(args) != 1 {
		return invariantf("alias %s used as a callee outside wrap/unwrap", alias)
	}
	var dest types.Type
	switch member.MemberName {
	case "wrap":
		dest = alias
	case "unwrap":
		dest = alias.Underlying
	default:
		return invariantf("unknown alias selector %s.%s", alias, member.MemberName)
	}
	val := lw.newTemp(dest)
	lw.emit(&TypeConversion{Dest: val, Src: args[0], To: dest})
	return lw.scratch.set(n, val)
}

// lowerEnvironmentCall synthesizes the higher-level access equivalent to a
// fixed set of environment pseudo-functions instead of emitting a generic
// call. Unrecognized builtins fall through to the placeholder path.
func (lw *Lowerer) lowerEnvironmentCall(n *ast.Call, callee *decl.BuiltinFunction, args []Operand) (bool, error) {
	// The caller/origin/callvalue assignments are deliberately typed
	// uint256 even though the first two read address-shaped values;
	// downstream consumers key on this exact representation type.
	switch callee.Name {
	case "caller()":
		val := lw.newTemp(nil)
		lw.emit(&Assignment{Dest: val, Src: decl.BuiltinVariable("msg.sender"), ReturnType: types.Elem("uint256")})
		return true, lw.scratch.set(n, val)
	case "origin()":
		val := lw.newTemp(nil)
		lw.emit(&Assignment{Dest: val, Src: decl.BuiltinVariable("tx.origin"), ReturnType: types.Elem("uint256")})
		return true, lw.scratch.set(n, val)
	case "callvalue()":
		val := lw.newTemp(nil)
		lw.emit(&Assignment{Dest: val, Src: decl.BuiltinVariable("msg.value"), ReturnType: types.Elem("uint256")})
		return true, lw.scratch.set(n, val)
	case "extcodesize(uint256)":
		if len(args) != 1 {
			return false, invariantf("extcodesize takes one argument, got %d", len(args))
		}
		ref := lw.newRef()
		ref.Member = "codesize"
		lw.emit(&Member{Dest: ref, Base: args[0], Name: NewConstant("codesize", nil)})
		return true, lw.scratch.set(n, ref)
	case "selfbalance()":
		addr := lw.newTemp(types.Elem("address"))
		lw.emit(&TypeConversion{Dest: addr, Src: decl.BuiltinVariable("this"), To: types.Elem("address")})
		ref := lw.newRef()
		ref.Member = "balance"
		lw.emit(&Member{Dest: ref, Base: addr, Name: NewConstant("balance", nil)})
		return true, lw.scratch.set(n, ref)
	case "address()":
		val := lw.newTemp(types.Elem("address"))
		lw.emit(&TypeConversion{Dest: val, Src: decl.BuiltinVariable("this"), To: types.Elem("address")})
		return true, lw.scratch.set(n, val)
	}
	return false, nil
}

func (lw *Lowerer) lowerNewContract(n *ast.NewContract) error {
	callValue, err := lw.lowerModifier(n.Value)
	if err != nil {
		return err
	}
	salt, err := lw.lowerModifier(n.Salt)
	if err != nil {
		return err
	}
	val := lw.newTemp(nil)
	lw.emit(&PendingNewContract{Dest: val, ContractName: n.ContractName, CallValue: callValue, Salt: salt})
	return lw.scratch.set(n, val)
}

func (lw *Lowerer) lowerTuple(n *ast.Tuple) error {
	values := make(OperandList, len(n.Elements))
	for i, el := range n.Elements {
		if el == nil {
			continue
		}
		if err := lw.lower(el); err != nil {
			return err
		}
		v, err := lw.scratch.take(el)
		if err != nil {
			return err
		}
		values[i] = v
	}

	if n.IsInlineArray {
		materialized := lw.newTemp(nil)
		lw.emit(&InitArray{Dest: materialized, Values: values})
		return lw.scratch.set(n, materialized)
	}
	if len(values) == 1 {
		return lw.scratch.set(n, values[0])
	}
	return lw.scratch.set(n, values)
}

func (lw *Lowerer) lowerTypeConversion(n *ast.TypeConversion) error {
	if err := lw.lower(n.Operand); err != nil {
		return err
	}
	src, err := lw.scratch.take(n.Operand)
	if err != nil {
		return err
	}
	val := lw.newTemp(n.Type)
	lw.emit(&TypeConversion{Dest: val, Src: src, To: n.Type})
	return lw.scratch.set(n, val)
}
