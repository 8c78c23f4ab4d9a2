package cfg

import (
	"fmt"

	"sleuth/internal/ast"
	"sleuth/internal/ir"
)

// A minimal control-flow skeleton: straight-line statement nodes owned by
// a function, each carrying one statement-level expression and, after
// lowering, its operation list. Branch structure is out of scope here;
// detectors only need the per-function instruction stream.

// Unit is one analysis unit (a source file or snippet session).
type Unit struct {
	Name string
	// ExtendedIR enables constant folding during lowering.
	ExtendedIR bool

	Functions []*Function
}

func NewUnit(name string) *Unit {
	return &Unit{Name: name}
}

func (u *Unit) AddFunction(name string) *Function {
	f := &Function{Name: name, Unit: u}
	u.Functions = append(u.Functions, f)
	return f
}

type NodeKind int

const (
	NodeExpression NodeKind = iota
	NodeReturn
)

func (k NodeKind) String() string {
	if k == NodeReturn {
		return "RETURN"
	}
	return "EXPRESSION"
}

// Node is one statement. It satisfies ir.Block: the lowering engine asks
// whether the node is a return point and appends the finished operations.
type Node struct {
	Index int
	Kind  NodeKind
	Expr  ast.Expr

	ops []ir.Operation
}

func (n *Node) IsReturnPoint() bool { return n.Kind == NodeReturn }

func (n *Node) Append(op ir.Operation) { n.ops = append(n.ops, op) }

// Operations returns the lowered instruction list, nil before lowering or
// after a lowering failure.
func (n *Node) Operations() []ir.Operation { return n.ops }

func (n *Node) String() string {
	return fmt.Sprintf("node %d (%s): %s", n.Index, n.Kind, n.Expr)
}

// Function owns an ordered list of statement nodes.
type Function struct {
	Name  string
	Unit  *Unit
	Nodes []*Node
}

func (f *Function) AddNode(kind NodeKind, e ast.Expr) *Node {
	n := &Node{Index: len(f.Nodes), Kind: kind, Expr: e}
	f.Nodes = append(f.Nodes, n)
	return n
}

// Lower lowers every node of the function in order. The first failing
// statement aborts the function; earlier nodes keep their operations,
// the failing node gets none.
func (f *Function) Lower() error {
	cfg := ir.Config{FoldConstants: f.Unit != nil && f.Unit.ExtendedIR}
	for _, n := range f.Nodes {
		if n.Expr == nil {
			continue
		}
		if _, err := ir.LowerExpression(n.Expr, n, cfg); err != nil {
			return fmt.Errorf("lowering node %d of %s: %w", n.Index, f.Name, err)
		}
	}
	return nil
}

// Operations returns the function's full instruction stream in node order.
func (f *Function) Operations() []ir.Operation {
	var ops []ir.Operation
	for _, n := range f.Nodes {
		ops = append(ops, n.ops...)
	}
	return ops
}
