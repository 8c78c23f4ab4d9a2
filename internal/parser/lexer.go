package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var snippetLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{Name: "Comment", Pattern: `//[^\n]*`, Action: nil},

		// String literals
		{Name: "String", Pattern: `"[^"]*"`, Action: nil},

		// Integer literals (hex before decimal)
		{Name: "Integer", Pattern: `0x[0-9a-fA-F]+|[0-9]+`, Action: nil},

		// Keywords and Identifiers
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Action: nil},

		// Operators (longest first)
		{Name: "Operator", Pattern: `(\*\*|\+\+|--|<<=|>>=|<<|>>|\|\||&&|==|!=|<=|>=|\+=|-=|\*=|/=|%=|&=|\|=|\^=|=|[-+*/%&|^~!<>?:])`, Action: nil},

		// Punctuation (must come after operators)
		{Name: "Punctuation", Pattern: `[{}[\](),;.]`, Action: nil},

		// Whitespace
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},
	},
})
