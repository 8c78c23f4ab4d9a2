package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sleuth/internal/ast"
	"sleuth/internal/decl"
	"sleuth/internal/types"
)

func assignStmt(name, value string) ast.Expr {
	v := decl.NewLocal(name, types.Elem("uint256"))
	return &ast.Assignment{
		Left:     &ast.Identifier{Name: name, Value: v},
		Right:    &ast.Literal{Value: value, Type: types.Elem("uint256")},
		Operator: ast.ASSIGN,
	}
}

func TestFunctionLower(t *testing.T) {
	t.Run("NodesKeepTheirOperations", func(t *testing.T) {
		unit := NewUnit("test")
		fn := unit.AddFunction("f")
		fn.AddNode(NodeExpression, assignStmt("a", "1"))
		fn.AddNode(NodeExpression, assignStmt("b", "2"))

		assert.NoError(t, fn.Lower())
		assert.Len(t, fn.Nodes[0].Operations(), 1)
		assert.Len(t, fn.Nodes[1].Operations(), 1)
		assert.Len(t, fn.Operations(), 2)
	})

	t.Run("ReturnNodeAppendsReturn", func(t *testing.T) {
		unit := NewUnit("test")
		fn := unit.AddFunction("f")
		fn.AddNode(NodeReturn, assignStmt("a", "1"))

		assert.NoError(t, fn.Lower())
		ops := fn.Nodes[0].Operations()
		if assert.Len(t, ops, 2) {
			assert.Equal(t, "RETURN a", ops[1].String())
		}
	})

	t.Run("FailingNodeAbortsAndStaysEmpty", func(t *testing.T) {
		unit := NewUnit("test")
		fn := unit.AddFunction("f")
		fn.AddNode(NodeExpression, assignStmt("a", "1"))
		bad := &ast.Conditional{
			Cond: &ast.Literal{Value: "true", Type: types.Elem("bool")},
			Then: &ast.Literal{Value: "1", Type: types.Elem("uint256")},
			Else: &ast.Literal{Value: "2", Type: types.Elem("uint256")},
		}
		fn.AddNode(NodeExpression, bad)

		assert.Error(t, fn.Lower())
		assert.Len(t, fn.Nodes[0].Operations(), 1, "earlier nodes keep their result")
		assert.Empty(t, fn.Nodes[1].Operations(), "the failing node gets none")
	})
}
