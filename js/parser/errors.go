package parser

import (
	"fmt"
	"strings"
)

type LexicalErrorKind int

const (
	LexUnexpectedCharacter LexicalErrorKind = iota
	LexUnterminatedString
	LexUnterminatedTemplate
	LexUnterminatedComment
	LexUnterminatedRegex
	LexInvalidEscape
	LexInvalidNumber
	LexInvalidRegex
)

var lexicalErrorKindNames = map[LexicalErrorKind]string{
	LexUnexpectedCharacter:  "unexpected character",
	LexUnterminatedString:   "unterminated string literal",
	LexUnterminatedTemplate: "unterminated template literal",
	LexUnterminatedComment:  "unterminated comment",
	LexUnterminatedRegex:    "unterminated regular expression",
	LexInvalidEscape:        "invalid escape sequence",
	LexInvalidNumber:        "invalid numeric literal",
	LexInvalidRegex:         "invalid regular expression",
}

func (k LexicalErrorKind) String() string {
	if name, ok := lexicalErrorKindNames[k]; ok {
		return name
	}
	return "lexical error"
}

type LexicalError struct {
	Kind    LexicalErrorKind
	Message string
	Span    Span
}

func (e *LexicalError) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return locate(e.Span.Start) + msg
}

type SyntaxError struct {
	Message  string
	Span     Span
	Got      Token
	Expected []TokenKind
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	b.WriteString(locate(e.Span.Start))
	b.WriteString(e.Message)
	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, k := range e.Expected {
			names[i] = k.String()
		}
		fmt.Fprintf(&b, " (expected %s)", strings.Join(names, ", "))
	}
	return b.String()
}

// ErrorList collects every error reported while parsing one source unit, in
// source order.
type ErrorList []error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
}

func (l ErrorList) Unwrap() []error {
	return l
}

// Err returns nil for an empty list so callers can return it directly.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func locate(pos Position) string {
	if pos.File != "" {
		return fmt.Sprintf("%s:%d:%d: ", pos.File, pos.Line, pos.Column)
	}
	return fmt.Sprintf("%d:%d: ", pos.Line, pos.Column)
}
