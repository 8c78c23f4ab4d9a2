package ir

import "sleuth/internal/ast"

// scratch is the per-statement association from each expression node to
// the operand it lowered to. Each slot is written at most once, read at
// most once by the parent rule (or the top-level caller for the final
// value), and cleared on that read. Violations are internal-consistency
// bugs and fail loudly.
//
// The store is owned by a single Lowerer and never shared across
// statements, so no stale cross-statement state is possible.
type scratch struct {
	vals map[ast.Expr]Operand
}

func newScratch() *scratch {
	return &scratch{vals: make(map[ast.Expr]Operand)}
}

func (s *scratch) set(e ast.Expr, v Operand) error {
	if _, exists := s.vals[e]; exists {
		return invariantf("scratch slot for %s written twice", e)
	}
	s.vals[e] = v
	return nil
}

func (s *scratch) take(e ast.Expr) (Operand, error) {
	v, exists := s.vals[e]
	if !exists {
		return nil, invariantf("scratch slot for %s read before being written or read twice", e)
	}
	delete(s.vals, e)
	return v, nil
}

func (s *scratch) size() int {
	return len(s.vals)
}
