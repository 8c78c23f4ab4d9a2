package lsp

import (
	stderrors "errors"

	"github.com/alecthomas/participle/v2"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"sleuth/internal/cfg"
	"sleuth/internal/detectors"
	"sleuth/internal/errors"
	"sleuth/internal/ir"
	"sleuth/internal/parser"
)

// Analyze runs the whole pipeline over one snippet document and converts
// everything it finds into LSP diagnostics: syntax errors, binder errors,
// lowering failures and detector findings.
func Analyze(filename, source string) []protocol.Diagnostic {
	snippet, err := parser.ParseString(filename, source)
	if err != nil {
		return []protocol.Diagnostic{syntaxDiagnostic(err)}
	}

	binder := parser.NewBinder()
	stmts, err := binder.Bind(snippet)
	if err != nil {
		return []protocol.Diagnostic{errorDiagnostic(err)}
	}

	unit := cfg.NewUnit(filename)
	fn := unit.AddFunction("snippet")
	for _, s := range stmts {
		kind := cfg.NodeExpression
		if s.IsReturn {
			kind = cfg.NodeReturn
		}
		fn.AddNode(kind, s.Expr)
	}
	if err := fn.Lower(); err != nil {
		return []protocol.Diagnostic{errorDiagnostic(err)}
	}

	var diagnostics []protocol.Diagnostic
	for _, finding := range detectors.Run(unit.Functions, detectors.Default()) {
		diagnostics = append(diagnostics, fromDiagnostic(finding.Diagnostic()))
	}
	return diagnostics
}

func syntaxDiagnostic(err error) protocol.Diagnostic {
	line, column := 0, 0
	message := err.Error()
	if pe, ok := err.(interface{ Unwrap() error }); ok {
		if inner, ok := pe.Unwrap().(participle.Error); ok {
			pos := inner.Position()
			line, column = pos.Line-1, pos.Column-1
			message = inner.Message()
		}
	}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(max(line, 0)), Character: uint32(max(column, 0))},
			End:   protocol.Position{Line: uint32(max(line, 0)), Character: uint32(max(column, 0) + 5)},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("sleuth"),
		Message:  message,
	}
}

// errorDiagnostic maps binder and lowering failures, which carry no
// positions, onto the start of the document.
func errorDiagnostic(err error) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	var code string
	var bindErr *parser.BindError
	var lowerErr *ir.LoweringError
	switch {
	case stderrors.As(err, &bindErr):
		code = bindErr.Code
	case stderrors.As(err, &lowerErr):
		code = lowerErr.Code
	}
	if code != "" && errors.IsWarning(code) {
		severity = protocol.DiagnosticSeverityWarning
	}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 1},
		},
		Severity: ptrSeverity(severity),
		Source:   ptrString("sleuth"),
		Message:  err.Error(),
	}
}

func fromDiagnostic(d errors.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if d.Level == errors.Warning {
		severity = protocol.DiagnosticSeverityWarning
	}
	line := max(d.Line-1, 0)
	column := max(d.Column-1, 0)
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(column)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(column + max(d.Length, 1))},
		},
		Severity: ptrSeverity(severity),
		Source:   ptrString("sleuth"),
		Message:  d.Code + ": " + d.Message,
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
