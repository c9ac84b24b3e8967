package parser

import (
	"errors"
	"testing"

	"github.com/dlclark/regexp2"
)

func significantKinds(t *testing.T, input string, opts ...LexerOption) []TokenKind {
	t.Helper()
	lexer := NewLexer([]byte(input), "test.js", opts...)
	var got []TokenKind
	for {
		tok := lexer.NextToken()
		if tok.Channel == ChannelDefault {
			got = append(got, tok.Kind)
		}
		if tok.Kind == TokenEOF {
			break
		}
	}
	return got
}

func assertKinds(t *testing.T, got, want []TokenKind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"var x = 1;", []TokenKind{TokenVar, TokenIdentifier, TokenAssign, TokenDecimalLiteral, TokenSemiColon, TokenEOF}},
		{"a / b", []TokenKind{TokenIdentifier, TokenDivide, TokenIdentifier, TokenEOF}},
		{"a /= b", []TokenKind{TokenIdentifier, TokenDivideAssign, TokenIdentifier, TokenEOF}},
		{"return /abc/", []TokenKind{TokenReturn, TokenRegularExpressionLiteral, TokenEOF}},
		{"x = /ab+c/gi", []TokenKind{TokenIdentifier, TokenAssign, TokenRegularExpressionLiteral, TokenEOF}},
		{"f(/[/]/)", []TokenKind{TokenIdentifier, TokenOpenParen, TokenRegularExpressionLiteral, TokenCloseParen, TokenEOF}},
		{"(a) / 2", []TokenKind{TokenOpenParen, TokenIdentifier, TokenCloseParen, TokenDivide, TokenDecimalLiteral, TokenEOF}},
		{"// comment\nx", []TokenKind{TokenIdentifier, TokenEOF}},
		{"/* block */ x", []TokenKind{TokenIdentifier, TokenEOF}},
		{"<!-- html --> x", []TokenKind{TokenIdentifier, TokenEOF}},
		{"#!/usr/bin/env node\nx", []TokenKind{TokenIdentifier, TokenEOF}},
		{"a?.b", []TokenKind{TokenIdentifier, TokenQuestionMarkDot, TokenIdentifier, TokenEOF}},
		{"a?.5:0", []TokenKind{TokenIdentifier, TokenQuestionMark, TokenDecimalLiteral, TokenColon, TokenDecimalLiteral, TokenEOF}},
		{"a ?? b", []TokenKind{TokenIdentifier, TokenNullCoalesce, TokenIdentifier, TokenEOF}},
		{"x >>>= 1", []TokenKind{TokenIdentifier, TokenRightShiftLogicalAssign, TokenDecimalLiteral, TokenEOF}},
		{"a === b !== c", []TokenKind{TokenIdentifier, TokenIdentityEquals, TokenIdentifier, TokenIdentityNotEquals, TokenIdentifier, TokenEOF}},
		{"(x) => x ** 2", []TokenKind{TokenOpenParen, TokenIdentifier, TokenCloseParen, TokenArrow, TokenIdentifier, TokenPower, TokenDecimalLiteral, TokenEOF}},
		{"...rest", []TokenKind{TokenEllipsis, TokenIdentifier, TokenEOF}},
		{"#priv", []TokenKind{TokenHashtag, TokenIdentifier, TokenEOF}},
		{"null true false", []TokenKind{TokenNullLiteral, TokenBooleanLiteral, TokenBooleanLiteral, TokenEOF}},
		{"1_000 .5 1e10 2.5e-3", []TokenKind{TokenDecimalLiteral, TokenDecimalLiteral, TokenDecimalLiteral, TokenDecimalLiteral, TokenEOF}},
		{"0x1F 0o17 0b101", []TokenKind{TokenHexIntegerLiteral, TokenOctalIntegerLiteral2, TokenBinaryIntegerLiteral, TokenEOF}},
		{"10n 0x1Fn 0o7n 0b1n", []TokenKind{TokenBigDecimalIntegerLiteral, TokenBigHexIntegerLiteral, TokenBigOctalIntegerLiteral, TokenBigBinaryIntegerLiteral, TokenEOF}},
		{`"double" 'single'`, []TokenKind{TokenStringLiteral, TokenStringLiteral, TokenEOF}},
		{"https://example.com/users", []TokenKind{TokenURL, TokenEOF}},
		{"from https://example.com/a where", []TokenKind{TokenIdentifier, TokenURL, TokenIdentifier, TokenEOF}},
		{"`plain`", []TokenKind{TokenBackTick, TokenTemplateStringAtom, TokenBackTick, TokenEOF}},
		{"``", []TokenKind{TokenBackTick, TokenBackTick, TokenEOF}},
		{"`a${b}c`", []TokenKind{
			TokenBackTick, TokenTemplateStringAtom, TokenTemplateStringStartExpression,
			TokenIdentifier, TokenTemplateCloseBrace, TokenTemplateStringAtom, TokenBackTick, TokenEOF,
		}},
		{"`a${ {x:1} }b`", []TokenKind{
			TokenBackTick, TokenTemplateStringAtom, TokenTemplateStringStartExpression,
			TokenOpenBrace, TokenIdentifier, TokenColon, TokenDecimalLiteral, TokenCloseBrace,
			TokenTemplateCloseBrace, TokenTemplateStringAtom, TokenBackTick, TokenEOF,
		}},
		{"`${`${x}`}`", []TokenKind{
			TokenBackTick, TokenTemplateStringStartExpression,
			TokenBackTick, TokenTemplateStringStartExpression, TokenIdentifier, TokenTemplateCloseBrace, TokenBackTick,
			TokenTemplateCloseBrace, TokenBackTick, TokenEOF,
		}},
		{"select * from users", []TokenKind{TokenIdentifier, TokenMultiply, TokenIdentifier, TokenIdentifier, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assertKinds(t, significantKinds(t, tt.input), tt.expected)
		})
	}
}

func TestLexerStrictMode(t *testing.T) {
	tests := []struct {
		input  string
		strict bool
		want   TokenKind
	}{
		{"let", true, TokenLet},
		{"let", false, TokenIdentifier},
		{"static", true, TokenStatic},
		{"static", false, TokenIdentifier},
		{"implements", true, TokenImplements},
		{"interface", false, TokenIdentifier},
		{"async", true, TokenIdentifier},
		{"of", true, TokenIdentifier},
		{"yield", false, TokenYield},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := significantKinds(t, tt.input, LexStrict(tt.strict))
			if got[0] != tt.want {
				t.Errorf("got %v, want %v", got[0], tt.want)
			}
		})
	}
}

func TestLexerBraceDepth(t *testing.T) {
	tests := []struct {
		input string
		depth int
	}{
		{"{}", 0},
		{"{ { } }", 0},
		{"`a${ {x: {y: 1}} }b`", 0},
		{"function f() { return `${a}` }", 0},
		{"{", 1},
		{"`${ {", 2},
		{"}", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.js")
			for lexer.NextToken().Kind != TokenEOF {
			}
			if got := lexer.BraceDepth(); got != tt.depth {
				t.Errorf("got depth %d, want %d", got, tt.depth)
			}
		})
	}
}

func TestLexerValues(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
		value string
	}{
		{`"a\nb"`, TokenStringLiteral, "a\nb"},
		{`'\x41B\u{43}'`, TokenStringLiteral, "ABC"},
		{`"line\` + "\n" + `cont"`, TokenStringLiteral, "linecont"},
		{`\u0061bc`, TokenIdentifier, "abc"},
		{"`tab\\t`", TokenTemplateStringAtom, "tab\t"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.js", LexStrict(false))
			for {
				tok := lexer.NextToken()
				if tok.Kind == TokenEOF {
					t.Fatalf("no %v token", tt.kind)
				}
				if tok.Kind == tt.kind {
					if tok.Value != tt.value {
						t.Errorf("got value %q, want %q", tok.Value, tt.value)
					}
					return
				}
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	lexer := NewLexer([]byte("a\n  bc\r\nd"), "test.js")
	want := []struct {
		literal string
		line    int
		column  int
		offset  int
	}{
		{"a", 1, 1, 0},
		{"bc", 2, 3, 4},
		{"d", 3, 1, 8},
	}

	var got []Token
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenEOF {
			break
		}
		if tok.Channel == ChannelDefault {
			got = append(got, tok)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(got), len(want))
	}
	for i, w := range want {
		tok := got[i]
		if tok.Literal != w.literal || tok.Span.Start.Line != w.line || tok.Span.Start.Column != w.column || tok.Span.Start.Offset != w.offset {
			t.Errorf("token %d: got %q at %d:%d (%d), want %q at %d:%d (%d)",
				i, tok.Literal, tok.Span.Start.Line, tok.Span.Start.Column, tok.Span.Start.Offset,
				w.literal, w.line, w.column, w.offset)
		}
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input string
		opts  []LexerOption
		kind  LexicalErrorKind
	}{
		{`"abc`, nil, LexUnterminatedString},
		{"'abc\ndef'", nil, LexUnterminatedString},
		{`'\x4'`, nil, LexInvalidEscape},
		{"`abc", nil, LexUnterminatedTemplate},
		{"/* abc", nil, LexUnterminatedComment},
		{"x = /abc", nil, LexUnterminatedRegex},
		{"x = /a/q", nil, LexInvalidRegex},
		{"x = /(/", []LexerOption{LexRegexValidation()}, LexInvalidRegex},
		{"010", nil, LexInvalidNumber},
		{"3in", nil, LexInvalidNumber},
		{"0x", nil, LexInvalidNumber},
		{"1.5n", nil, LexInvalidNumber},
		{"@", nil, LexUnexpectedCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Tokenize([]byte(tt.input), "test.js", tt.opts...)
			if err == nil {
				t.Fatal("expected an error")
			}
			var lexErr *LexicalError
			if !errors.As(err, &lexErr) {
				t.Fatalf("got %T, want *LexicalError", err)
			}
			if lexErr.Kind != tt.kind {
				t.Errorf("got %v, want %v", lexErr.Kind, tt.kind)
			}
		})
	}
}

func TestLexerErrorChannel(t *testing.T) {
	tokens, err := Tokenize([]byte("a @ b"), "test.js")
	if err == nil {
		t.Fatal("expected an error")
	}
	var channels []Channel
	for _, tok := range tokens {
		if tok.Kind != TokenWhiteSpaces {
			channels = append(channels, tok.Channel)
		}
	}
	want := []Channel{ChannelDefault, ChannelError, ChannelDefault, ChannelDefault}
	if len(channels) != len(want) {
		t.Fatalf("got %v, want %v", channels, want)
	}
	for i := range want {
		if channels[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, channels[i], want[i])
		}
	}
}

func TestLexerLegacyOctalSloppy(t *testing.T) {
	got := significantKinds(t, "010 019", LexStrict(false))
	assertKinds(t, got, []TokenKind{TokenOctalIntegerLiteral, TokenDecimalLiteral, TokenEOF})
}

func TestLexerRegexValidation(t *testing.T) {
	for _, input := range []string{"x = /a(b)c/i", "x = /[a-z]+$/m", "x = /(/u"} {
		t.Run(input, func(t *testing.T) {
			if _, err := Tokenize([]byte(input), "test.js", LexRegexValidation()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLexerRegexValidationRejects(t *testing.T) {
	_, err := Tokenize([]byte("x = /(/i"), "test.js", LexRegexValidation())
	var lexErr *LexicalError
	if !errors.As(err, &lexErr) || lexErr.Kind != LexInvalidRegex {
		t.Errorf("got %v, want an invalid regex error", err)
	}
}

func TestRegexOptions(t *testing.T) {
	tests := []struct {
		flags string
		want  regexp2.RegexOptions
	}{
		{"", regexp2.ECMAScript},
		{"g", regexp2.ECMAScript},
		{"im", regexp2.ECMAScript | regexp2.IgnoreCase | regexp2.Multiline},
		{"s", regexp2.ECMAScript | regexp2.Singleline},
	}

	for _, tt := range tests {
		t.Run(tt.flags, func(t *testing.T) {
			if got := regexOptions(tt.flags); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLexerStringLiteralHook(t *testing.T) {
	var seen []string
	hook := func(tok Token) {
		seen = append(seen, tok.Value)
	}
	if _, err := Tokenize([]byte(`"use strict"; f('a', "b")`), "test.js", LexStringLiteralHook(hook)); err != nil {
		t.Fatal(err)
	}
	want := []string{"use strict", "a", "b"}
	if len(seen) != len(want) {
		t.Fatalf("got %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("string %d: got %q, want %q", i, seen[i], want[i])
		}
	}
}
