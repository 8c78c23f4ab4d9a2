package detectors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sleuth/internal/cfg"
	"sleuth/internal/decl"
	"sleuth/internal/ir"
	"sleuth/internal/types"
)

func pendingLowLevel(member string, dest ir.Operand) *ir.PendingCall {
	return &ir.PendingCall{
		Dest:     dest,
		Callee:   &ir.Reference{Index: 0, Member: member},
		ArgCount: 1,
	}
}

func TestUncheckedLowLevelCall(t *testing.T) {
	t.Run("UnusedResultIsFlagged", func(t *testing.T) {
		unit := cfg.NewUnit("test")
		fn := unit.AddFunction("f")
		node := fn.AddNode(cfg.NodeExpression, nil)
		node.Append(pendingLowLevel("call", &ir.Temporary{Index: 0}))

		findings := Run(unit.Functions, Default())
		if assert.Len(t, findings, 1) {
			assert.Equal(t, "unchecked-lowlevel", findings[0].Detector.Name())
			assert.Equal(t, "W0800", findings[0].Detector.Code())
			assert.Same(t, fn, findings[0].Function)
		}
	})

	t.Run("CheckedResultIsClean", func(t *testing.T) {
		unit := cfg.NewUnit("test")
		fn := unit.AddFunction("f")
		dest := &ir.Temporary{Index: 0, Type: types.Elem("bool")}
		node := fn.AddNode(cfg.NodeExpression, nil)
		node.Append(pendingLowLevel("send", dest))

		ok := decl.NewLocal("ok", types.Elem("bool"))
		check := fn.AddNode(cfg.NodeExpression, nil)
		check.Append(&ir.Assignment{Dest: ok, Src: dest})

		findings := Run(unit.Functions, Default())
		assert.Empty(t, findings)
	})

	t.Run("ResultConsumedByReturn", func(t *testing.T) {
		unit := cfg.NewUnit("test")
		fn := unit.AddFunction("f")
		dest := &ir.Temporary{Index: 0}
		node := fn.AddNode(cfg.NodeReturn, nil)
		node.Append(pendingLowLevel("delegatecall", dest))
		node.Append(&ir.Return{Value: dest})

		findings := Run(unit.Functions, Default())
		assert.Empty(t, findings)
	})

	t.Run("TupleReturnConsumesTheResult", func(t *testing.T) {
		// A multi-value return carries its values as an operand list;
		// the runner must unwrap it instead of hashing the slice.
		unit := cfg.NewUnit("test")
		fn := unit.AddFunction("f")
		a := decl.NewLocal("a", types.Elem("uint256"))
		dest := &ir.Temporary{Index: 0}
		node := fn.AddNode(cfg.NodeReturn, nil)
		node.Append(pendingLowLevel("call", dest))
		node.Append(&ir.Return{Value: ir.OperandList{a, nil, dest}})

		findings := Run(unit.Functions, Default())
		assert.Empty(t, findings)
	})

	t.Run("TupleReturnLeavesOtherResultsUnread", func(t *testing.T) {
		unit := cfg.NewUnit("test")
		fn := unit.AddFunction("f")
		a := decl.NewLocal("a", types.Elem("uint256"))
		b := decl.NewLocal("b", types.Elem("uint256"))
		node := fn.AddNode(cfg.NodeExpression, nil)
		node.Append(pendingLowLevel("send", &ir.Temporary{Index: 0}))
		ret := fn.AddNode(cfg.NodeReturn, nil)
		ret.Append(&ir.Return{Value: ir.OperandList{a, b}})

		findings := Run(unit.Functions, Default())
		assert.Len(t, findings, 1)
	})

	t.Run("HighLevelCallIsIgnored", func(t *testing.T) {
		unit := cfg.NewUnit("test")
		fn := unit.AddFunction("f")
		node := fn.AddNode(cfg.NodeExpression, nil)
		node.Append(pendingLowLevel("transfer", &ir.Temporary{Index: 0}))

		findings := Run(unit.Functions, Default())
		assert.Empty(t, findings)
	})

	t.Run("NonMemberCalleeIsIgnored", func(t *testing.T) {
		unit := cfg.NewUnit("test")
		fn := unit.AddFunction("f")
		node := fn.AddNode(cfg.NodeExpression, nil)
		node.Append(&ir.PendingCall{
			Dest:   &ir.Temporary{Index: 0},
			Callee: &ir.Temporary{Index: 1},
		})

		findings := Run(unit.Functions, Default())
		assert.Empty(t, findings)
	})
}
