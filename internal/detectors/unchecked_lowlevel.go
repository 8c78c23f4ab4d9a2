package detectors

import (
	"sleuth/internal/errors"
	"sleuth/internal/ir"
)

// Low-level call selectors whose boolean success result must be checked
// by the caller; ignoring it silently swallows failures.
var lowLevelNames = map[string]bool{
	"call":         true,
	"delegatecall": true,
	"staticcall":   true,
	"callcode":     true,
	"send":         true,
}

// UncheckedLowLevelCall flags a pending call through a low-level selector
// whose result no later instruction reads.
type UncheckedLowLevelCall struct{}

func (UncheckedLowLevelCall) Name() string { return "unchecked-lowlevel" }

func (UncheckedLowLevelCall) Code() string { return errors.WarningUncheckedCall }

func (UncheckedLowLevelCall) Description() string {
	return "the return value of a low-level call is not checked"
}

func (UncheckedLowLevelCall) Match(op ir.Operation, ctx *Context) bool {
	call, ok := op.(*ir.PendingCall)
	if !ok {
		return false
	}
	callee, ok := call.Callee.(*ir.Reference)
	if !ok || !lowLevelNames[callee.Member] {
		return false
	}
	return ctx.ResultUnused(call)
}

// Default returns the detector set the CLI runs when none is selected.
func Default() []Detector {
	return []Detector{UncheckedLowLevelCall{}}
}
