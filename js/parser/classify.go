package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	runeLS   = '\u2028'
	runePS   = '\u2029'
	runeZWNJ = '\u200C'
	runeZWJ  = '\u200D'
	runeBOM  = '\uFEFF'
	runeNBSP = '\u00A0'
)

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isOctalDigit(ch byte) bool {
	return ch >= '0' && ch <= '7'
}

func isBinaryDigit(ch byte) bool {
	return ch == '0' || ch == '1'
}

func isASCIILetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIDStart(r rune) bool {
	if r < utf8.RuneSelf {
		return isASCIILetter(byte(r)) || r == '$' || r == '_'
	}
	return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_ID_Start, r)
}

func isIDContinue(r rune) bool {
	if r < utf8.RuneSelf {
		return isASCIILetter(byte(r)) || isDigit(byte(r)) || r == '$' || r == '_'
	}
	if r == runeZWNJ || r == runeZWJ {
		return true
	}
	return isIDStart(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == runeLS || r == runePS
}

func isWhiteSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f', runeNBSP, runeBOM:
		return true
	}
	return r >= utf8.RuneSelf && unicode.Is(unicode.Zs, r)
}

// regexAllowedAfter reports whether a '/' following a significant token of
// the given kind starts a regular expression literal. Tokens that can end a
// value expression force division.
func regexAllowedAfter(kind TokenKind) bool {
	switch kind {
	case TokenIdentifier, TokenNullLiteral, TokenBooleanLiteral, TokenThis, TokenSuper,
		TokenCloseBracket, TokenCloseParen, TokenPlusPlus, TokenMinusMinus,
		TokenStringLiteral, TokenRegularExpressionLiteral, TokenBackTick, TokenURL:
		return false
	}
	if kind.IsNumeric() || kind.IsBigInt() {
		return false
	}
	return true
}

// bigIntKind maps an integer literal kind to its BigInt counterpart. Legacy
// octal literals have none.
func bigIntKind(kind TokenKind) (TokenKind, bool) {
	switch kind {
	case TokenDecimalLiteral:
		return TokenBigDecimalIntegerLiteral, true
	case TokenHexIntegerLiteral:
		return TokenBigHexIntegerLiteral, true
	case TokenOctalIntegerLiteral2:
		return TokenBigOctalIntegerLiteral, true
	case TokenBinaryIntegerLiteral:
		return TokenBigBinaryIntegerLiteral, true
	}
	return kind, false
}

// validRegexFlags reports whether flags only contains known regular
// expression flags, each at most once.
func validRegexFlags(flags string) bool {
	seen := 0
	for i := 0; i < len(flags); i++ {
		idx := strings.IndexByte("dgimsuyv", flags[i])
		if idx < 0 || seen&(1<<idx) != 0 {
			return false
		}
		seen |= 1 << idx
	}
	return true
}

// isURLStop reports whether ch ends the body of a URL literal.
func isURLStop(r rune) bool {
	switch r {
	case ',', ';', ')', ']', '}', '"', '\'', '`':
		return true
	}
	return isWhiteSpace(r) || isLineTerminator(r)
}

type escapeError struct {
	offset int
	msg    string
}

// unescape cooks the body of a string literal or template atom. offset in
// the returned error is relative to the start of body.
func unescape(body string) (string, *escapeError) {
	if strings.IndexByte(body, '\\') < 0 {
		return body, nil
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		ch := body[i]
		if ch != '\\' {
			b.WriteByte(ch)
			i++
			continue
		}
		start := i
		i++
		if i >= len(body) {
			return "", &escapeError{offset: start, msg: "trailing backslash"}
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'v':
			b.WriteByte('\v')
			i++
		case '0':
			if i+1 < len(body) && isDigit(body[i+1]) {
				n, width := legacyOctalEscape(body[i:])
				b.WriteRune(rune(n))
				i += width
				break
			}
			b.WriteByte(0)
			i++
		case '1', '2', '3', '4', '5', '6', '7':
			n, width := legacyOctalEscape(body[i:])
			b.WriteRune(rune(n))
			i += width
		case 'x':
			if i+2 >= len(body) || !isHexDigit(body[i+1]) || !isHexDigit(body[i+2]) {
				return "", &escapeError{offset: start, msg: `malformed \x escape`}
			}
			n, _ := strconv.ParseUint(body[i+1:i+3], 16, 8)
			b.WriteRune(rune(n))
			i += 3
		case 'u':
			r, width, ok := unicodeEscape(body[i:])
			if !ok {
				return "", &escapeError{offset: start, msg: `malformed \u escape`}
			}
			b.WriteRune(r)
			i += width
		case '\r':
			i++
			if i < len(body) && body[i] == '\n' {
				i++
			}
		case '\n':
			i++
		default:
			r, size := utf8.DecodeRuneInString(body[i:])
			if r != runeLS && r != runePS {
				b.WriteRune(r)
			}
			i += size
		}
	}
	return b.String(), nil
}

func legacyOctalEscape(s string) (int, int) {
	n, width := 0, 0
	limit := 2
	if s[0] <= '3' {
		limit = 3
	}
	for width < limit && width < len(s) && isOctalDigit(s[width]) {
		n = n*8 + int(s[width]-'0')
		width++
	}
	if width == 0 {
		// \8 and \9 denote the digit itself
		return int(s[0]), 1
	}
	return n, width
}

// unicodeEscape decodes "uHHHH" or "u{H+}" at the start of s, returning the
// rune and the number of bytes consumed after the backslash.
func unicodeEscape(s string) (rune, int, bool) {
	if len(s) < 2 || s[0] != 'u' {
		return 0, 0, false
	}
	if s[1] == '{' {
		end := strings.IndexByte(s, '}')
		if end < 3 {
			return 0, 0, false
		}
		digits := s[2:end]
		for i := 0; i < len(digits); i++ {
			if !isHexDigit(digits[i]) {
				return 0, 0, false
			}
		}
		n, err := strconv.ParseUint(digits, 16, 32)
		if err != nil || n > unicode.MaxRune {
			return 0, 0, false
		}
		return rune(n), end + 1, true
	}
	if len(s) < 5 {
		return 0, 0, false
	}
	for i := 1; i < 5; i++ {
		if !isHexDigit(s[i]) {
			return 0, 0, false
		}
	}
	n, _ := strconv.ParseUint(s[1:5], 16, 32)
	return rune(n), 5, true
}
