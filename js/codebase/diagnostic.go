package codebase

import (
	"errors"
	"strings"

	"github.com/dhamidi/esq/js/parser"
)

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

type Diagnostic struct {
	Span     parser.Span
	Severity Severity
	// Source is "lexer" or "parser".
	Source  string
	Message string
}

// DiagnosticsFromErrors converts lexical and syntax errors. Errors without a
// position are reported at the start of the file.
func DiagnosticsFromErrors(errs []error) []Diagnostic {
	var diags []Diagnostic
	for _, err := range errs {
		var lexErr *parser.LexicalError
		var synErr *parser.SyntaxError
		switch {
		case errors.As(err, &lexErr):
			diags = append(diags, Diagnostic{
				Span:     lexErr.Span,
				Severity: SeverityError,
				Source:   "lexer",
				Message:  lexicalMessage(lexErr),
			})
		case errors.As(err, &synErr):
			diags = append(diags, Diagnostic{
				Span:     synErr.Span,
				Severity: SeverityError,
				Source:   "parser",
				Message:  syntaxMessage(synErr),
			})
		default:
			start := parser.Position{Line: 1, Column: 1}
			diags = append(diags, Diagnostic{
				Span:     parser.Span{Start: start, End: start},
				Severity: SeverityError,
				Source:   "parser",
				Message:  err.Error(),
			})
		}
	}
	return diags
}

func lexicalMessage(err *parser.LexicalError) string {
	if err.Message == "" {
		return err.Kind.String()
	}
	return err.Kind.String() + ": " + err.Message
}

func syntaxMessage(err *parser.SyntaxError) string {
	if len(err.Expected) == 0 {
		return err.Message
	}
	expected := make([]string, len(err.Expected))
	for i, kind := range err.Expected {
		expected[i] = "'" + kind.String() + "'"
	}
	return err.Message + " (expected " + strings.Join(expected, " or ") + ")"
}
