package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Level represents the severity of a diagnostic
type Level string

const (
	Error   Level = "error"
	Warning Level = "warning"
	Note    Level = "note"
)

// Diagnostic is a structured analyzer message tied to a source location.
type Diagnostic struct {
	Level   Level
	Code    string // Error code like E0700
	Message string
	Line    int // 1-based source line
	Column  int // 1-based source column
	Length  int // Length of the problematic region
}

// Reporter handles consistent diagnostic formatting for one source file
type Reporter struct {
	filename string
	lines    []string
}

// NewReporter creates a new reporter for a file
func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders a diagnostic with Rust-like styling:
//
//	error[E0700]: message
//	   --> file:3:7
//	    │
//	  3 │ x = a ? b : c;
//	    │     ^^^^^
func (r *Reporter) Format(d Diagnostic) string {
	var result strings.Builder

	levelColor := levelColor(d.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if d.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n",
			levelColor(string(d.Level)), d.Code, d.Message))
	} else {
		result.WriteString(fmt.Sprintf("%s: %s\n",
			levelColor(string(d.Level)), d.Message))
	}

	lineNumberWidth := lineNumberWidth(d.Line)
	indent := strings.Repeat(" ", lineNumberWidth)

	result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n",
		indent, dim("-->"), r.filename, d.Line, d.Column))
	result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if d.Line > 0 && d.Line <= len(r.lines) {
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", lineNumberWidth, d.Line)),
			dim("│"),
			r.lines[d.Line-1]))

		result.WriteString(fmt.Sprintf("%s %s %s\n",
			indent, dim("│"), marker(d.Column, d.Length, d.Level)))
	}

	result.WriteString("\n")
	return result.String()
}

func levelColor(level Level) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// marker creates the underline for the offending region
func marker(column, length int, level Level) string {
	if length <= 0 {
		length = 1
	}
	spaces := strings.Repeat(" ", max(0, column-1))
	return spaces + levelColor(level)(strings.Repeat("^", length))
}

// lineNumberWidth calculates the gutter width, with a minimum of 3 for
// visual alignment
func lineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3
	}
	return width
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
