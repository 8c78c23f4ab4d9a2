package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestAnalyze(t *testing.T) {
	t.Run("CleanSourceHasNoDiagnostics", func(t *testing.T) {
		diags := Analyze("t.sl", `
			let uint256 a;
			a = 1 + 2;
		`)
		assert.Empty(t, diags)
	})

	t.Run("SyntaxErrorIsReported", func(t *testing.T) {
		diags := Analyze("t.sl", `let uint256 ;`)
		if assert.Len(t, diags, 1) {
			assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
		}
	})

	t.Run("UndefinedIdentifierIsReported", func(t *testing.T) {
		diags := Analyze("t.sl", `zzz;`)
		if assert.Len(t, diags, 1) {
			assert.Contains(t, diags[0].Message, "zzz")
		}
	})

	t.Run("UncheckedLowLevelCallIsWarning", func(t *testing.T) {
		diags := Analyze("t.sl", `
			let address x;
			x.call("");
		`)
		if assert.Len(t, diags, 1) {
			assert.Equal(t, protocol.DiagnosticSeverityWarning, *diags[0].Severity)
			assert.Contains(t, diags[0].Message, "W0800")
		}
	})

	t.Run("TernaryIsReportedAsError", func(t *testing.T) {
		diags := Analyze("t.sl", `
			let bool c;
			c ? 1 : 2;
		`)
		if assert.Len(t, diags, 1) {
			assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
			assert.Contains(t, diags[0].Message, "E0700")
		}
	})
}
