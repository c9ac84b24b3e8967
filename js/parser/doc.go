// Package parser provides a lexer and recursive-descent parser for
// ECMAScript source extended with an embedded query sublanguage.
//
// # Overview
//
// The parser reads a whole source unit, tokenizes it and produces a concrete
// syntax tree (CST). Every node carries its source span. Query expressions
// (select, from, where, join, produce, using, within, union) are parsed by
// the same grammar whether they appear as a statement or as an operand.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (CST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │ Brace stack │     │ Error nodes │
//	                    │ regex state │     │ (recovery)  │
//	                    └─────────────┘     └─────────────┘
//
// # Lexer
//
// The lexer is a state machine over bytes. It keeps a stack of open brace
// frames so the '}' closing a template substitution resumes template text,
// and it remembers whether a regular expression may start at the current
// position based on the last default channel token:
//
//	a / b       // Divide
//	return /b/  // RegularExpressionLiteral
//
// Whitespace, line terminators and comments are emitted on the hidden
// channel. Malformed tokens are emitted on the error channel together with a
// *LexicalError.
//
// Words reserved only in strict mode (let, static, implements, ...) are
// keywords when the lexer runs in strict mode, the default, and identifiers
// otherwise.
//
// # Parsing
//
//	p := parser.ParseProgram(strings.NewReader(src), parser.WithFile("main.js"))
//	tree, err := p.Finish()
//
// Without WithRecovery the first error abandons the parse and Finish returns
// a nil tree. With WithRecovery the parser skips to the next statement
// boundary, leaves an Error node in the tree and keeps going.
//
// Automatic semicolon insertion follows the usual rule: a statement ends at
// an explicit ';', before '}', at end of input, or before a token on a later
// line. return, throw, break and continue only take an operand that starts
// on the same line.
//
// # Node Structure
//
// All nodes share one type:
//
//	type Node struct {
//	    Kind     NodeKind
//	    Span     Span
//	    Children []*Node
//	    Token    *Token
//	    Flags    NodeFlags
//	    Error    *Error
//	    Parent   *Node
//	}
//
// Token holds the identifying token of a leaf or the operator of an interior
// node. Modifiers such as async, static and optional chaining are Flags.
package parser
