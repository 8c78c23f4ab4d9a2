package parser

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"sleuth/internal/errors"
)

var snippetParser = participle.MustBuild[Snippet](
	participle.Lexer(snippetLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)

// ParseFile parses a snippet file from disk.
func ParseFile(path string) (*Snippet, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}

// ParseString parses snippet source. Syntax errors come back wrapped with
// a rendered caret diagnostic.
func ParseString(filename, source string) (*Snippet, error) {
	snippet, err := snippetParser.ParseString(filename, source)
	if err != nil {
		return nil, syntaxError(filename, source, err)
	}
	return snippet, nil
}

// SyntaxError carries the participle error plus the rendered diagnostic.
type SyntaxError struct {
	Err      error
	Rendered string
}

func (e *SyntaxError) Error() string { return e.Err.Error() }

func (e *SyntaxError) Unwrap() error { return e.Err }

func syntaxError(filename, source string, err error) error {
	pe, ok := err.(participle.Error)
	if !ok {
		return err
	}
	pos := pe.Position()
	reporter := errors.NewReporter(filename, source)
	rendered := reporter.Format(errors.Diagnostic{
		Level:   errors.Error,
		Code:    errors.ErrorSyntax,
		Message: pe.Message(),
		Line:    pos.Line,
		Column:  pos.Column,
	})
	return &SyntaxError{Err: err, Rendered: rendered}
}
