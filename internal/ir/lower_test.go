package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sleuth/internal/ast"
	"sleuth/internal/decl"
	"sleuth/internal/types"
)

type testBlock struct {
	returnPoint bool
	ops         []Operation
}

func (b *testBlock) IsReturnPoint() bool { return b.returnPoint }
func (b *testBlock) Append(op Operation) { b.ops = append(b.ops, op) }

func lower(t *testing.T, e ast.Expr) []string {
	t.Helper()
	block := &testBlock{}
	ops, err := LowerExpression(e, block, Config{})
	assert.NoError(t, err)
	assert.Equal(t, len(ops), len(block.ops), "attached operations must match the returned list")
	return opStrings(ops)
}

func lowerReturn(t *testing.T, e ast.Expr) ([]Operation, []string) {
	t.Helper()
	block := &testBlock{returnPoint: true}
	ops, err := LowerExpression(e, block, Config{})
	assert.NoError(t, err)
	return ops, opStrings(ops)
}

func opStrings(ops []Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.String()
	}
	return out
}

func local(name, typeName string) *ast.Identifier {
	v := decl.NewLocal(name, types.Elem(typeName))
	return &ast.Identifier{Name: name, Value: v}
}

func uintLit(value string) *ast.Literal {
	return &ast.Literal{Value: value, Type: types.Elem("uint256")}
}

func TestLowerBinary(t *testing.T) {
	t.Run("SimpleAddition", func(t *testing.T) {
		e := &ast.Binary{Left: local("a", "uint256"), Right: local("b", "uint256"), Operator: ast.ADD}
		got := lower(t, e)
		assert.Equal(t, []string{"TMP_0 = a + b"}, got)
	})

	t.Run("NestedOperandOrder", func(t *testing.T) {
		// (a + b) * c: the inner addition is emitted first.
		e := &ast.Binary{
			Left:     &ast.Binary{Left: local("a", "uint256"), Right: local("b", "uint256"), Operator: ast.ADD},
			Right:    local("c", "uint256"),
			Operator: ast.MUL,
		}
		got := lower(t, e)
		assert.Equal(t, []string{
			"TMP_0 = a + b",
			"TMP_1 = TMP_0 * c",
		}, got)
	})

	t.Run("SignedComparison", func(t *testing.T) {
		e := &ast.Binary{Left: local("a", "int8"), Right: local("b", "int8"), Operator: ast.LESS_SIGNED}
		got := lower(t, e)
		assert.Equal(t, []string{
			"TMP_0 = CONVERT a to int256",
			"TMP_1 = CONVERT b to int256",
			"TMP_2 = TMP_0 < TMP_1",
			"TMP_3 = CONVERT TMP_2 to uint256",
		}, got)
	})

	t.Run("ArithmeticRightShiftKeepsShiftCount", func(t *testing.T) {
		// Only the shifted value is sign-extended; the count keeps its type.
		e := &ast.Binary{Left: local("a", "int256"), Right: local("n", "uint256"), Operator: ast.SHR_ARITHMETIC}
		got := lower(t, e)
		assert.Equal(t, []string{
			"TMP_0 = CONVERT a to int256",
			"TMP_1 = TMP_0 >> n",
			"TMP_2 = CONVERT TMP_1 to uint256",
		}, got)
	})

	t.Run("SignedDivision", func(t *testing.T) {
		e := &ast.Binary{Left: local("a", "int128"), Right: local("b", "int128"), Operator: ast.DIV_SIGNED}
		got := lower(t, e)
		assert.Len(t, got, 4)
		assert.Equal(t, "TMP_2 = TMP_0 / TMP_1", got[2])
	})
}

func TestLowerAssignment(t *testing.T) {
	t.Run("Plain", func(t *testing.T) {
		e := &ast.Assignment{Left: local("x", "uint256"), Right: uintLit("1"), Operator: ast.ASSIGN}
		got := lower(t, e)
		assert.Equal(t, []string{"x = 1"}, got)
	})

	t.Run("ChainedProducesLeft", func(t *testing.T) {
		// a = (b = 1): the inner assignment's value is its left side.
		inner := &ast.Assignment{Left: local("b", "uint256"), Right: uintLit("1"), Operator: ast.ASSIGN}
		e := &ast.Assignment{Left: local("a", "uint256"), Right: inner, Operator: ast.ASSIGN}
		ops, got := lowerReturn(t, e)
		assert.Equal(t, []string{"b = 1", "a = b", "RETURN a"}, got)

		ret := ops[len(ops)-1].(*Return)
		assert.Equal(t, "a", ret.Value.String())
	})

	t.Run("CompoundRewritesInPlace", func(t *testing.T) {
		e := &ast.Assignment{Left: local("x", "uint256"), Right: local("y", "uint256"), Operator: ast.ADD_ASSIGN}
		got := lower(t, e)
		assert.Equal(t, []string{"x = x + y"}, got)
	})

	t.Run("InlineArrayInitializer", func(t *testing.T) {
		right := &ast.Tuple{Elements: []ast.Expr{uintLit("1"), uintLit("2")}, IsInlineArray: true}
		e := &ast.Assignment{Left: local("v", "uint8"), Right: right, Operator: ast.ASSIGN}
		got := lower(t, e)
		assert.Equal(t, []string{
			"TMP_0 = INIT_ARRAY [1, 2]",
			"v = TMP_0",
		}, got)
	})
}

func TestLowerDestructuring(t *testing.T) {
	g := &decl.Function{Name: "g", Returns: []types.Type{
		types.Elem("uint256"), types.Elem("uint256"), types.Elem("uint256"),
	}}
	call := func() *ast.Call {
		return &ast.Call{
			Callee:    &ast.Identifier{Name: "g", Value: g},
			Signature: "tuple(uint256,uint256,uint256)",
		}
	}

	t.Run("DiscardedSlotsKeepIndices", func(t *testing.T) {
		a := decl.NewTupleLocal("a", types.Elem("uint256"), 0)
		c := decl.NewTupleLocal("c", types.Elem("uint256"), 2)
		left := &ast.Tuple{Elements: []ast.Expr{
			&ast.Identifier{Name: "a", Value: a},
			nil,
			&ast.Identifier{Name: "c", Value: c},
		}}
		e := &ast.Assignment{Left: left, Right: call(), Operator: ast.ASSIGN}

		block := &testBlock{}
		ops, err := LowerExpression(e, block, Config{})
		assert.NoError(t, err)
		assert.Equal(t, []string{
			"TUPLE_0 = INTERNAL_CALL g() args: 0",
			"a = UNPACK TUPLE_0 index: 0",
			"c = UNPACK TUPLE_0 index: 2",
		}, opStrings(ops))

		unpacks := []*Unpack{ops[1].(*Unpack), ops[2].(*Unpack)}
		assert.Equal(t, 0, unpacks[0].Index)
		assert.Equal(t, 2, unpacks[1].Index)
	})

	t.Run("SingleTargetUsesDeclaredSlot", func(t *testing.T) {
		// (uint a,,) collapses to one target that still unpacks slot 0.
		a := decl.NewTupleLocal("a", types.Elem("uint256"), 0)
		e := &ast.Assignment{
			Left:     &ast.Identifier{Name: "a", Value: a},
			Right:    call(),
			Operator: ast.ASSIGN,
		}
		got := lower(t, e)
		assert.Equal(t, []string{
			"TUPLE_0 = INTERNAL_CALL g() args: 0",
			"a = UNPACK TUPLE_0 index: 0",
		}, got)
	})

	t.Run("TupleLiteralAssignsElementWise", func(t *testing.T) {
		x, y := local("x", "uint256"), local("y", "uint256")
		left := &ast.Tuple{Elements: []ast.Expr{x, y}}
		right := &ast.Tuple{Elements: []ast.Expr{uintLit("1"), uintLit("2")}}
		e := &ast.Assignment{Left: left, Right: right, Operator: ast.ASSIGN}
		got := lower(t, e)
		assert.Equal(t, []string{"x = 1", "y = 2"}, got)
	})
}

func TestLowerUnary(t *testing.T) {
	t.Run("PostfixIncrementSavesOldValue", func(t *testing.T) {
		e := &ast.Unary{Operand: local("i", "uint256"), Operator: ast.INC_POST}
		_, got := lowerReturn(t, e)
		assert.Equal(t, []string{
			"TMP_0 = i",
			"i = i + 1",
			"RETURN TMP_0",
		}, got)
	})

	t.Run("PrefixIncrementProducesVariable", func(t *testing.T) {
		e := &ast.Unary{Operand: local("i", "uint256"), Operator: ast.INC_PRE}
		_, got := lowerReturn(t, e)
		assert.Equal(t, []string{"i = i + 1", "RETURN i"}, got)
	})

	t.Run("Delete", func(t *testing.T) {
		e := &ast.Unary{Operand: local("a", "uint256"), Operator: ast.DELETE}
		_, got := lowerReturn(t, e)
		assert.Equal(t, []string{"DELETE a", "RETURN a"}, got)
	})

	t.Run("UnaryMinusSubtractsFromZero", func(t *testing.T) {
		e := &ast.Unary{Operand: local("a", "uint256"), Operator: ast.MINUS_PRE}
		got := lower(t, e)
		assert.Equal(t, []string{"TMP_0 = 0 - a"}, got)
	})

	t.Run("UnaryPlusIsTransparent", func(t *testing.T) {
		e := &ast.Unary{Operand: local("a", "uint256"), Operator: ast.PLUS_PRE}
		_, got := lowerReturn(t, e)
		assert.Equal(t, []string{"RETURN a"}, got)
	})

	t.Run("LogicalNot", func(t *testing.T) {
		e := &ast.Unary{Operand: local("ok", "bool"), Operator: ast.NOT}
		got := lower(t, e)
		assert.Equal(t, []string{"TMP_0 = !ok"}, got)
	})
}

func TestLowerIndex(t *testing.T) {
	t.Run("PlainIndexing", func(t *testing.T) {
		e := &ast.Index{Base: local("m", "uint256"), Key: local("k", "uint256"), Type: types.Elem("uint256")}
		got := lower(t, e)
		assert.Equal(t, []string{"REF_0 -> m[k]"}, got)
	})

	t.Run("IndexingTupleLiteralMaterializes", func(t *testing.T) {
		base := &ast.Tuple{Elements: []ast.Expr{uintLit("1"), uintLit("2")}}
		e := &ast.Index{Base: base, Key: local("x", "uint256")}
		got := lower(t, e)
		assert.Equal(t, []string{
			"TMP_0 = INIT_ARRAY [1, 2]",
			"REF_0 -> TMP_0[x]",
		}, got)
	})

	t.Run("TypeBaseDerivesArrayType", func(t *testing.T) {
		// The uint256[2] inside abi.decode produces a type, not code.
		e := &ast.Index{Base: &ast.TypeName{Type: types.Elem("uint256")}, Key: uintLit("2")}
		ops, _ := lowerReturn(t, e)
		assert.Len(t, ops, 1)

		ret := ops[0].(*Return)
		arr, ok := ret.Value.(*types.Array)
		if assert.True(t, ok, "final value should be a derived array type") {
			assert.Equal(t, "uint256[2]", arr.String())
		}
	})
}

func TestLowerMember(t *testing.T) {
	t.Run("PlainMemberRecordsName", func(t *testing.T) {
		e := &ast.Member{Base: local("x", "address"), MemberName: "call"}
		block := &testBlock{}
		ops, err := LowerExpression(e, block, Config{})
		assert.NoError(t, err)
		assert.Equal(t, []string{"REF_0 -> x.call"}, opStrings(ops))
		assert.Equal(t, "call", ops[0].(*Member).Dest.Member)
	})

	t.Run("BalanceOnAddressLowersToBuiltin", func(t *testing.T) {
		e := &ast.Member{Base: local("x", "address"), MemberName: "balance"}
		got := lower(t, e)
		assert.Equal(t, []string{"TMP_0 = BUILTIN_CALL balance(address)(x)"}, got)
	})

	t.Run("BalanceOnNonAddressStaysMember", func(t *testing.T) {
		e := &ast.Member{Base: local("s", "uint256"), MemberName: "balance"}
		got := lower(t, e)
		assert.Equal(t, []string{"REF_0 -> s.balance"}, got)
	})

	t.Run("TypeMinMaxResolvesToConstant", func(t *testing.T) {
		typeCall := &ast.Call{
			Callee:    &ast.Identifier{Name: "type", Value: decl.BuiltinFunc("type()")},
			Arguments: []ast.Expr{&ast.TypeName{Type: types.Elem("uint8")}},
		}
		e := &ast.Member{Base: typeCall, MemberName: "max"}
		ops, got := lowerReturn(t, e)
		assert.Equal(t, []string{"RETURN 255"}, got)

		cst := ops[0].(*Return).Value.(*Constant)
		assert.Equal(t, "255", cst.Value)
		assert.Equal(t, "uint8", cst.Type.String())
	})

	t.Run("TypeMinOfSignedType", func(t *testing.T) {
		typeCall := &ast.Call{
			Callee:    &ast.Identifier{Name: "type", Value: decl.BuiltinFunc("type()")},
			Arguments: []ast.Expr{&ast.TypeName{Type: types.Elem("int8")}},
		}
		e := &ast.Member{Base: typeCall, MemberName: "min"}
		_, got := lowerReturn(t, e)
		assert.Equal(t, []string{"RETURN -128"}, got)
	})

	t.Run("TypeMaxOfEnum", func(t *testing.T) {
		colors := &decl.Enum{Name: "Color", Members: []string{"Red", "Green", "Blue"}}
		typeCall := &ast.Call{
			Callee:    &ast.Identifier{Name: "type", Value: decl.BuiltinFunc("type()")},
			Arguments: []ast.Expr{&ast.Identifier{Name: "Color", Value: colors}},
		}
		e := &ast.Member{Base: typeCall, MemberName: "max"}
		_, got := lowerReturn(t, e)
		assert.Equal(t, []string{"RETURN 2"}, got)
	})

	t.Run("ContractNestedTypeAndError", func(t *testing.T) {
		contract := decl.NewContract("C")
		contract.Types["Id"] = &types.Alias{Name: "Id", Underlying: types.Elem("uint256")}
		contract.Errors["Nope"] = &decl.CustomError{Name: "Nope"}
		base := &ast.Identifier{Name: "C", Value: contract}

		e := &ast.Member{Base: base, MemberName: "Nope"}
		ops, _ := lowerReturn(t, e)
		assert.Len(t, ops, 1)
		assert.Equal(t, "Nope", ops[0].(*Return).Value.String())
	})
}

func TestLowerCall(t *testing.T) {
	t.Run("ArgumentsBeforeCall", func(t *testing.T) {
		f := &decl.Function{Name: "f", Returns: []types.Type{types.Elem("uint256")}}
		e := &ast.Call{
			Callee:    &ast.Identifier{Name: "f", Value: f},
			Arguments: []ast.Expr{local("a", "uint256"), uintLit("2")},
		}
		got := lower(t, e)
		assert.Equal(t, []string{
			"ARG a",
			"ARG 2",
			"TMP_0 = INTERNAL_CALL f() args: 2",
		}, got)
	})

	t.Run("LowLevelCallCarriesModifiers", func(t *testing.T) {
		e := &ast.Call{
			Callee:    &ast.Member{Base: local("x", "address"), MemberName: "call"},
			Arguments: []ast.Expr{&ast.Literal{Value: "", Type: types.Elem("string")}},
			Value:     local("v", "uint256"),
		}
		block := &testBlock{}
		ops, err := LowerExpression(e, block, Config{})
		assert.NoError(t, err)
		assert.Equal(t, []string{
			"REF_0 -> x.call",
			"ARG ",
			"TMP_0 = PENDING_CALL REF_0 args: 1 value: v",
		}, opStrings(ops))

		pending := ops[2].(*PendingCall)
		assert.Equal(t, "v", pending.CallValue.String())
		assert.Nil(t, pending.Gas)
		assert.Nil(t, pending.Salt)
	})

	t.Run("TupleSignatureAllocatesTupleValue", func(t *testing.T) {
		g := &decl.Function{Name: "g", Returns: []types.Type{types.Elem("uint256"), types.Elem("bool")}}
		e := &ast.Call{
			Callee:    &ast.Identifier{Name: "g", Value: g},
			Signature: "tuple(uint256,bool)",
		}
		block := &testBlock{}
		ops, err := LowerExpression(e, block, Config{})
		assert.NoError(t, err)
		call := ops[0].(*InternalCall)
		_, isTuple := call.Dest.(*TupleValue)
		assert.True(t, isTuple)
	})

	t.Run("EmptyTupleSignatureStaysTemporary", func(t *testing.T) {
		f := &decl.Function{Name: "f"}
		e := &ast.Call{
			Callee:    &ast.Identifier{Name: "f", Value: f},
			Signature: "tuple()",
		}
		block := &testBlock{}
		ops, err := LowerExpression(e, block, Config{})
		assert.NoError(t, err)
		_, isTemp := ops[0].(*InternalCall).Dest.(*Temporary)
		assert.True(t, isTemp)
	})

	t.Run("WrapLowersToConversion", func(t *testing.T) {
		alias := &types.Alias{Name: "MyInt", Underlying: types.Elem("int256")}
		e := &ast.Call{
			Callee:    &ast.Member{Base: &ast.TypeName{Type: alias}, MemberName: "wrap"},
			Arguments: []ast.Expr{local("x", "int256")},
		}
		got := lower(t, e)
		assert.Equal(t, []string{
			"ARG x",
			"TMP_0 = CONVERT x to MyInt",
		}, got)
	})

	t.Run("UnwrapLowersToUnderlying", func(t *testing.T) {
		alias := &types.Alias{Name: "MyInt", Underlying: types.Elem("int256")}
		e := &ast.Call{
			Callee:    &ast.Member{Base: &ast.TypeName{Type: alias}, MemberName: "unwrap"},
			Arguments: []ast.Expr{local("w", "uint256")},
		}
		got := lower(t, e)
		assert.Equal(t, []string{
			"ARG w",
			"TMP_0 = CONVERT w to int256",
		}, got)
	})
}

func TestLowerEnvironment(t *testing.T) {
	callTo := func(sig string, args ...ast.Expr) *ast.Call {
		return &ast.Call{
			Callee:    &ast.Identifier{Name: sig, Value: decl.BuiltinFunc(sig)},
			Arguments: args,
		}
	}

	t.Run("Caller", func(t *testing.T) {
		got := lower(t, callTo("caller()"))
		assert.Equal(t, []string{"TMP_0 = msg.sender"}, got)
	})

	t.Run("Origin", func(t *testing.T) {
		got := lower(t, callTo("origin()"))
		assert.Equal(t, []string{"TMP_0 = tx.origin"}, got)
	})

	t.Run("Callvalue", func(t *testing.T) {
		got := lower(t, callTo("callvalue()"))
		assert.Equal(t, []string{"TMP_0 = msg.value"}, got)
	})

	t.Run("Extcodesize", func(t *testing.T) {
		got := lower(t, callTo("extcodesize(uint256)", local("a", "uint256")))
		assert.Equal(t, []string{
			"ARG a",
			"REF_0 -> a.codesize",
		}, got)
	})

	t.Run("SelfbalanceIsTwoSteps", func(t *testing.T) {
		got := lower(t, callTo("selfbalance()"))
		assert.Equal(t, []string{
			"TMP_0 = CONVERT this to address",
			"REF_0 -> TMP_0.balance",
		}, got)
	})

	t.Run("AddressOfSelf", func(t *testing.T) {
		got := lower(t, callTo("address()"))
		assert.Equal(t, []string{"TMP_0 = CONVERT this to address"}, got)
	})
}

func TestLowerConstruction(t *testing.T) {
	t.Run("NewArray", func(t *testing.T) {
		e := &ast.NewArray{Depth: 1, ElemType: types.Elem("uint256")}
		got := lower(t, e)
		assert.Equal(t, []string{"TMP_0 = NEW_ARRAY uint256[]"}, got)
	})

	t.Run("NewElementary", func(t *testing.T) {
		e := &ast.NewElementary{Type: types.Elem("bytes")}
		got := lower(t, e)
		assert.Equal(t, []string{"TMP_0 = NEW bytes"}, got)
	})

	t.Run("NewContractWithValueAndCall", func(t *testing.T) {
		e := &ast.Call{
			Callee:    &ast.NewContract{ContractName: "C", Value: local("v", "uint256")},
			Arguments: []ast.Expr{uintLit("1")},
		}
		got := lower(t, e)
		assert.Equal(t, []string{
			"TMP_0 = NEW_CONTRACT C value: v",
			"ARG 1",
			"TMP_1 = PENDING_CALL TMP_0 args: 1",
		}, got)
	})
}

func TestLowerTypeConversion(t *testing.T) {
	e := &ast.TypeConversion{Operand: local("x", "uint256"), Type: types.Elem("uint128")}
	got := lower(t, e)
	assert.Equal(t, []string{"TMP_0 = CONVERT x to uint128"}, got)
}

func TestLowerErrors(t *testing.T) {
	t.Run("TernaryIsFatal", func(t *testing.T) {
		e := &ast.Conditional{Cond: local("c", "bool"), Then: uintLit("1"), Else: uintLit("2")}
		block := &testBlock{}
		ops, err := LowerExpression(e, block, Config{})
		assert.Error(t, err)
		assert.Nil(t, ops)
		assert.Empty(t, block.ops, "no operations may be attached on failure")

		lowerErr, ok := err.(*LoweringError)
		if assert.True(t, ok) {
			assert.Equal(t, "E0700", lowerErr.Code)
		}
	})

	t.Run("UnboundIdentifierIsInvariantViolation", func(t *testing.T) {
		e := &ast.Identifier{Name: "ghost"}
		block := &testBlock{}
		_, err := LowerExpression(e, block, Config{})
		assert.Error(t, err)

		lowerErr, ok := err.(*LoweringError)
		if assert.True(t, ok) {
			assert.Equal(t, "E0701", lowerErr.Code)
		}
	})

	t.Run("FailureInsideSubtreeAttachesNothing", func(t *testing.T) {
		e := &ast.Binary{
			Left:     local("a", "uint256"),
			Right:    &ast.Conditional{Cond: local("c", "bool"), Then: uintLit("1"), Else: uintLit("2")},
			Operator: ast.ADD,
		}
		block := &testBlock{}
		_, err := LowerExpression(e, block, Config{})
		assert.Error(t, err)
		assert.Empty(t, block.ops)
	})
}

func TestCountersAreIndependent(t *testing.T) {
	// Temporaries, references and tuples number from zero independently.
	e := &ast.Assignment{
		Left: local("x", "uint256"),
		Right: &ast.Binary{
			Left:     &ast.Index{Base: local("m", "uint256"), Key: uintLit("0")},
			Right:    uintLit("1"),
			Operator: ast.ADD,
		},
		Operator: ast.ASSIGN,
	}
	got := lower(t, e)
	assert.Equal(t, []string{
		"REF_0 -> m[0]",
		"TMP_0 = REF_0 + 1",
		"x = TMP_0",
	}, got)
}
