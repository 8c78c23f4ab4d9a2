package detectors

import (
	"github.com/tliron/commonlog"

	"sleuth/internal/cfg"
	"sleuth/internal/errors"
	"sleuth/internal/ir"
)

var log = commonlog.GetLogger("sleuth.detectors")

// Detector flags individual instructions. Match sees one instruction plus
// the usage information the runner precomputed; stateless detectors can
// ignore the context.
type Detector interface {
	Name() string
	Code() string
	Description() string
	Match(op ir.Operation, ctx *Context) bool
}

// Context carries per-function facts shared by all detectors.
type Context struct {
	Function *cfg.Function
	// unread holds result values no later instruction consumes.
	unread map[ir.Operand]bool
}

// ResultUnused reports whether the value defined by op is never read by a
// later instruction in the function (including the closing Return).
func (c *Context) ResultUnused(op ir.Operation) bool {
	res := op.Result()
	if res == nil {
		return false
	}
	if _, ok := res.(ir.OperandList); ok {
		return false
	}
	return c.unread[res]
}

// Finding is one detector hit.
type Finding struct {
	Function *cfg.Function
	Node     *cfg.Node
	Op       ir.Operation
	Detector Detector
}

func (f *Finding) Diagnostic() errors.Diagnostic {
	return errors.Diagnostic{
		Level:   errors.Warning,
		Code:    f.Detector.Code(),
		Message: f.Detector.Description() + ": " + f.Op.String(),
	}
}

// Run applies every detector to every lowered instruction of the
// functions, in source order.
func Run(functions []*cfg.Function, dets []Detector) []*Finding {
	var findings []*Finding
	for _, fn := range functions {
		log.Debugf("running %d detectors over %s", len(dets), fn.Name)
		ctx := newContext(fn)
		for _, node := range fn.Nodes {
			for _, op := range node.Operations() {
				for _, d := range dets {
					if d.Match(op, ctx) {
						findings = append(findings, &Finding{
							Function: fn,
							Node:     node,
							Op:       op,
							Detector: d,
						})
					}
				}
			}
		}
	}
	return findings
}

func newContext(fn *cfg.Function) *Context {
	ops := fn.Operations()
	unread := make(map[ir.Operand]bool)
	for _, op := range ops {
		res := op.Result()
		if res == nil {
			continue
		}
		if _, ok := res.(ir.OperandList); ok {
			continue
		}
		unread[res] = true
	}
	for _, op := range ops {
		for _, o := range op.Operands() {
			markRead(unread, o)
		}
	}
	return &Context{Function: fn, unread: unread}
}

// markRead clears one consumed operand. Operand lists are slices and not
// hashable; their elements are unwrapped individually, skipping the nil
// holes of discarded tuple slots.
func markRead(unread map[ir.Operand]bool, o ir.Operand) {
	if list, ok := o.(ir.OperandList); ok {
		for _, el := range list {
			if el != nil {
				markRead(unread, el)
			}
		}
		return
	}
	if o == nil {
		return
	}
	delete(unread, o)
}
