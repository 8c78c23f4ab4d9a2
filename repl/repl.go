// SPDX-License-Identifier: Apache-2.0

// Package repl implements the interactive session: declarations persist
// across inputs, statements are lowered and printed immediately.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"sleuth/internal/cfg"
	"sleuth/internal/ir"
	"sleuth/internal/parser"
)

const prompt = ">> "

// Run reads inputs line by line until EOF or an exit command. Each line
// must be a complete declaration or statement.
func Run(in io.Reader, out io.Writer, extended bool) {
	binder := parser.NewBinder()
	unit := cfg.NewUnit("repl")
	unit.ExtendedIR = extended
	fn := unit.AddFunction("repl")

	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(out, "sleuth interactive session (exit to quit)")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}

		snippet, err := parser.ParseString("repl", line)
		if err != nil {
			if syntaxErr, ok := err.(*parser.SyntaxError); ok {
				fmt.Fprint(out, syntaxErr.Rendered)
			} else {
				fmt.Fprintln(out, red(err.Error()))
			}
			continue
		}

		stmts, err := binder.Bind(snippet)
		if err != nil {
			fmt.Fprintln(out, red(err.Error()))
			continue
		}

		for _, s := range stmts {
			kind := cfg.NodeExpression
			if s.IsReturn {
				kind = cfg.NodeReturn
			}
			node := fn.AddNode(kind, s.Expr)
			ops, err := ir.LowerExpression(s.Expr, node, ir.Config{FoldConstants: extended})
			if err != nil {
				fmt.Fprintln(out, red(err.Error()))
				continue
			}
			for _, op := range ops {
				fmt.Fprintf(out, "  %s\n", op)
			}
		}
	}
}
