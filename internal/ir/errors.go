package ir

import (
	"fmt"

	"sleuth/internal/errors"
)

// LoweringError is a fatal failure while lowering one statement. No
// instructions are attached to the owning node when lowering fails; the
// caller decides whether to abort the analysis unit or skip the function.
type LoweringError struct {
	Code    string
	Message string
}

func (e *LoweringError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// unsupportedf reports an expression construct this layer refuses, e.g. a
// ternary that should have been eliminated upstream.
func unsupportedf(format string, args ...interface{}) *LoweringError {
	return &LoweringError{
		Code:    errors.ErrorUnsupportedConstruct,
		Message: fmt.Sprintf(format, args...),
	}
}

// invariantf reports an internal-consistency bug, not a user error.
func invariantf(format string, args ...interface{}) *LoweringError {
	return &LoweringError{
		Code:    errors.ErrorLoweringInvariant,
		Message: fmt.Sprintf(format, args...),
	}
}
