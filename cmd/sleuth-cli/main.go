// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"sleuth/internal/cfg"
	"sleuth/internal/detectors"
	"sleuth/internal/parser"
	"sleuth/repl"
)

func main() {
	extended := false
	var path string
	for _, arg := range os.Args[1:] {
		if arg == "--extended" {
			extended = true
			continue
		}
		path = arg
	}
	if path == "" {
		repl.Run(os.Stdin, os.Stdout, extended)
		return
	}

	startTime := time.Now()

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		os.Exit(1)
	}

	snippet, err := parser.ParseString(path, string(source))
	if err != nil {
		if syntaxErr, ok := err.(*parser.SyntaxError); ok {
			fmt.Print(syntaxErr.Rendered)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		fail(startTime)
	}

	binder := parser.NewBinder()
	stmts, err := binder.Bind(snippet)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fail(startTime)
	}

	unit := cfg.NewUnit(path)
	unit.ExtendedIR = extended
	fn := unit.AddFunction("snippet")
	for _, s := range stmts {
		kind := cfg.NodeExpression
		if s.IsReturn {
			kind = cfg.NodeReturn
		}
		fn.AddNode(kind, s.Expr)
	}

	if err := fn.Lower(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fail(startTime)
	}

	for _, node := range fn.Nodes {
		fmt.Printf("// %s\n", node.Expr)
		for _, op := range node.Operations() {
			fmt.Printf("  %s\n", op)
		}
	}

	findings := detectors.Run(unit.Functions, detectors.Default())
	for _, f := range findings {
		d := f.Diagnostic()
		color.Yellow("%s[%s]: %s", d.Level, d.Code, d.Message)
	}

	color.Green("Successfully processed %s in %s", path, formatDuration(time.Since(startTime)))
}

func fail(startTime time.Time) {
	color.Red("Analysis failed after %s", formatDuration(time.Since(startTime)))
	os.Exit(1)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
