package parser

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

type braceFrame int

const (
	braceBlock braceFrame = iota
	braceSubstitution
)

type LexerOption func(*Lexer)

// LexStrict sets the strict-mode flag. It is read once per token and must
// not change while a unit is being scanned.
func LexStrict(strict bool) LexerOption {
	return func(l *Lexer) {
		l.strict = strict
	}
}

// LexRegexValidation compiles the body of every regular expression literal
// and reports patterns the regex engine rejects.
func LexRegexValidation() LexerOption {
	return func(l *Lexer) {
		l.validateRegex = true
	}
}

// LexStringLiteralHook registers a function called with every string
// literal token the lexer produces.
func LexStringLiteralHook(fn func(Token)) LexerOption {
	return func(l *Lexer) {
		l.onString = fn
	}
}

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int

	strict        bool
	validateRegex bool
	onString      func(Token)

	braces        []braceFrame
	inTemplate    bool
	regexPossible bool

	errors []*LexicalError
}

func NewLexer(input []byte, file string, opts ...LexerOption) *Lexer {
	l := &Lexer{
		input:         input,
		file:          file,
		line:          1,
		column:        1,
		strict:        true,
		regexPossible: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// BraceDepth is the number of open '{' and '${' frames.
func (l *Lexer) BraceDepth() int {
	return len(l.braces)
}

func (l *Lexer) Strict() bool {
	return l.strict
}

// Errors returns the lexical errors found so far, in source order.
func (l *Lexer) Errors() []*LexicalError {
	return l.errors
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return 0, 0
	}
	if ch := l.input[l.pos]; ch < utf8.RuneSelf {
		return rune(ch), 1
	}
	return utf8.DecodeRune(l.input[l.pos:])
}

func (l *Lexer) hasPrefix(s string) bool {
	return bytes.HasPrefix(l.input[l.pos:], []byte(s))
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	switch {
	case ch == '\n', ch == '\r' && l.peek() != '\n':
		l.line++
		l.column = 1
	default:
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// advanceRune consumes one UTF-8 encoded rune. Columns count bytes.
func (l *Lexer) advanceRune() rune {
	r, size := l.peekRune()
	if size <= 1 {
		l.advance()
		return r
	}
	l.pos += size
	if r == runeLS || r == runePS {
		l.line++
		l.column = 1
	} else {
		l.column += size
	}
	return r
}

// NextToken scans the next token. After the end of input it keeps returning
// EOF tokens.
func (l *Lexer) NextToken() Token {
	tok := l.nextToken()
	if tok.Channel == ChannelDefault && tok.Kind != TokenEOF {
		l.regexPossible = regexAllowedAfter(tok.Kind)
	}
	return tok
}

func (l *Lexer) nextToken() Token {
	start := l.Position()

	if l.inTemplate {
		return l.scanTemplate(start)
	}

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()

	if l.pos == 0 && ch == '#' && l.peekN(1) == '!' {
		return l.scanHashBang(start)
	}

	if ch == '\n' || ch == '\r' {
		if ch == '\r' && l.peekN(1) == '\n' {
			l.advance()
		}
		l.advance()
		return l.hidden(TokenLineTerminator, start)
	}

	if ch >= utf8.RuneSelf {
		r, _ := l.peekRune()
		switch {
		case r == runeLS || r == runePS:
			l.advanceRune()
			return l.hidden(TokenLineTerminator, start)
		case isWhiteSpace(r):
			return l.scanWhitespace(start)
		case isIDStart(r):
			return l.scanIdentOrKeyword(start)
		}
		return l.unexpected(start)
	}

	switch {
	case ch == ' ' || ch == '\t' || ch == '\v' || ch == '\f':
		return l.scanWhitespace(start)
	case ch == '/' && l.peekN(1) == '/':
		return l.scanLineComment(start)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case ch == '<' && l.hasPrefix("<!--"):
		return l.scanDelimitedComment(start, TokenHTMLComment, "<!--", "-->")
	case ch == '<' && l.hasPrefix("<![CDATA["):
		return l.scanDelimitedComment(start, TokenCDataComment, "<![CDATA[", "]]>")
	case ch == '\\' && l.peekN(1) == 'u':
		return l.scanIdentOrKeyword(start)
	case isASCIILetter(ch):
		if n := l.urlLength(); n > 0 {
			l.advanceN(n)
			return l.token(TokenURL, start)
		}
		return l.scanIdentOrKeyword(start)
	case ch == '$' || ch == '_':
		return l.scanIdentOrKeyword(start)
	case isDigit(ch), ch == '.' && isDigit(l.peekN(1)):
		return l.scanNumber(start)
	case ch == '"' || ch == '\'':
		return l.scanString(start, ch)
	case ch == '`':
		l.advance()
		l.inTemplate = true
		return l.token(TokenBackTick, start)
	case ch == '/' && l.regexPossible:
		return l.scanRegex(start)
	}

	return l.scanPunctuator(start)
}

func (l *Lexer) scanHashBang(start Position) Token {
	for l.pos < len(l.input) {
		if r, _ := l.peekRune(); isLineTerminator(r) {
			break
		}
		l.advanceRune()
	}
	return l.hidden(TokenHashBangLine, start)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for l.pos < len(l.input) {
		r, _ := l.peekRune()
		if !isWhiteSpace(r) {
			break
		}
		l.advanceRune()
	}
	return l.hidden(TokenWhiteSpaces, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for l.pos < len(l.input) {
		if r, _ := l.peekRune(); isLineTerminator(r) {
			break
		}
		l.advanceRune()
	}
	return l.hidden(TokenSingleLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for {
		if l.pos >= len(l.input) {
			tok := l.hidden(TokenMultiLineComment, start)
			l.fail(&tok, LexUnterminatedComment, "")
			return tok
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advanceRune()
	}
	return l.hidden(TokenMultiLineComment, start)
}

func (l *Lexer) scanDelimitedComment(start Position, kind TokenKind, open, close string) Token {
	l.advanceN(len(open))
	for !l.hasPrefix(close) {
		if l.pos >= len(l.input) {
			tok := l.hidden(kind, start)
			l.fail(&tok, LexUnterminatedComment, "")
			return tok
		}
		l.advanceRune()
	}
	l.advanceN(len(close))
	return l.hidden(kind, start)
}

// urlLength returns the length of a scheme://rest URL literal starting at
// the cursor, or 0 when there is none.
func (l *Lexer) urlLength() int {
	i := l.pos
	for i < len(l.input) && (isASCIILetter(l.input[i]) || isDigit(l.input[i])) {
		i++
	}
	if !bytes.HasPrefix(l.input[i:], []byte("://")) {
		return 0
	}
	i += 3
	bodyStart := i
	for i < len(l.input) {
		r, size := utf8.DecodeRune(l.input[i:])
		if isURLStop(r) {
			break
		}
		i += size
	}
	if i == bodyStart {
		return 0
	}
	return i - l.pos
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	escaped := false
	for l.pos < len(l.input) {
		if l.peek() == '\\' {
			r, width, ok := unicodeEscape(string(l.input[l.pos+1 : min(len(l.input), l.pos+12)]))
			if !ok || !isIDContinue(r) {
				break
			}
			escaped = true
			l.advanceN(width + 1)
			continue
		}
		r, _ := l.peekRune()
		if !isIDContinue(r) {
			break
		}
		l.advanceRune()
	}

	tok := l.token(TokenIdentifier, start)
	if tok.Literal == "" {
		// lone backslash
		l.advance()
		tok = l.token(TokenUnexpectedCharacter, start)
		l.fail(&tok, LexInvalidEscape, `expected \u escape in identifier`)
		return tok
	}
	if escaped {
		tok.Value, _ = unescape(tok.Literal)
		return tok
	}
	tok.Kind = LookupKeyword(tok.Literal, l.strict)
	return tok
}

func (l *Lexer) scanNumber(start Position) Token {
	kind := TokenDecimalLiteral
	integer := true

	switch {
	case l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X'):
		l.advanceN(2)
		kind = TokenHexIntegerLiteral
		if !l.scanDigits(isHexDigit) {
			return l.invalidNumber(start, "missing hexadecimal digits")
		}
	case l.peek() == '0' && (l.peekN(1) == 'o' || l.peekN(1) == 'O'):
		l.advanceN(2)
		kind = TokenOctalIntegerLiteral2
		if !l.scanDigits(isOctalDigit) {
			return l.invalidNumber(start, "missing octal digits")
		}
	case l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B'):
		l.advanceN(2)
		kind = TokenBinaryIntegerLiteral
		if !l.scanDigits(isBinaryDigit) {
			return l.invalidNumber(start, "missing binary digits")
		}
	case l.peek() == '0' && isDigit(l.peekN(1)):
		l.advance()
		kind = TokenOctalIntegerLiteral
		for isDigit(l.peek()) {
			if !isOctalDigit(l.advance()) {
				kind = TokenDecimalLiteral
			}
		}
		if kind == TokenOctalIntegerLiteral && l.strict {
			return l.invalidNumber(start, "legacy octal literals are not allowed in strict mode")
		}
		if kind == TokenDecimalLiteral {
			integer = l.scanFraction()
		}
	default:
		if l.peek() != '.' {
			l.scanDigits(isDigit)
		}
		integer = l.scanFraction()
	}

	if l.peek() == 'n' {
		big, ok := bigIntKind(kind)
		if !ok || !integer {
			l.advance()
			return l.invalidNumber(start, "invalid BigInt literal")
		}
		l.advance()
		kind = big
	}

	if r, _ := l.peekRune(); l.pos < len(l.input) && (isIDStart(r) || isDigit(l.peek()) || r == '\\') {
		for l.pos < len(l.input) {
			if r, _ := l.peekRune(); !isIDContinue(r) {
				break
			}
			l.advanceRune()
		}
		return l.invalidNumber(start, "identifier starts immediately after numeric literal")
	}

	return l.token(kind, start)
}

// scanDigits consumes digits accepted by ok, allowing single '_' separators
// between them. It reports whether any digit was consumed.
func (l *Lexer) scanDigits(ok func(byte) bool) bool {
	if !ok(l.peek()) {
		return false
	}
	for ok(l.peek()) || (l.peek() == '_' && ok(l.peekN(1))) {
		l.advance()
	}
	return true
}

// scanFraction consumes an optional fraction and exponent and reports
// whether the literal is still an integer.
func (l *Lexer) scanFraction() bool {
	integer := true
	if l.peek() == '.' {
		integer = false
		l.advance()
		l.scanDigits(isDigit)
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekN(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekN(2))) {
			integer = false
			l.advanceN(2)
			l.scanDigits(isDigit)
		}
	}
	return integer
}

func (l *Lexer) invalidNumber(start Position, msg string) Token {
	tok := l.token(TokenDecimalLiteral, start)
	l.fail(&tok, LexInvalidNumber, msg)
	return tok
}

func (l *Lexer) scanString(start Position, quote byte) Token {
	l.advance()
	for {
		if l.pos >= len(l.input) {
			tok := l.token(TokenStringLiteral, start)
			l.fail(&tok, LexUnterminatedString, "")
			return tok
		}
		ch := l.peek()
		if ch == quote {
			l.advance()
			break
		}
		if ch == '\\' {
			l.advance()
			if l.pos < len(l.input) {
				if l.peek() == '\r' && l.peekN(1) == '\n' {
					l.advance()
				}
				l.advanceRune()
			}
			continue
		}
		if ch == '\n' || ch == '\r' {
			tok := l.token(TokenStringLiteral, start)
			l.fail(&tok, LexUnterminatedString, "")
			return tok
		}
		l.advanceRune()
	}

	tok := l.token(TokenStringLiteral, start)
	body := tok.Literal[1 : len(tok.Literal)-1]
	value, escErr := unescape(body)
	if escErr != nil {
		l.fail(&tok, LexInvalidEscape, escErr.msg)
		return tok
	}
	tok.Value = value
	if l.onString != nil {
		l.onString(tok)
	}
	return tok
}

// scanTemplate scans raw template text up to the next '`' or '${'.
func (l *Lexer) scanTemplate(start Position) Token {
	if l.peek() == '`' {
		l.advance()
		l.inTemplate = false
		return l.token(TokenBackTick, start)
	}
	if l.peek() == '$' && l.peekN(1) == '{' {
		l.advanceN(2)
		l.inTemplate = false
		l.onOpenBrace(braceSubstitution)
		return l.token(TokenTemplateStringStartExpression, start)
	}

	for {
		if l.pos >= len(l.input) {
			tok := l.token(TokenTemplateStringAtom, start)
			l.inTemplate = false
			l.fail(&tok, LexUnterminatedTemplate, "")
			return tok
		}
		ch := l.peek()
		if ch == '`' || (ch == '$' && l.peekN(1) == '{') {
			break
		}
		if ch == '\\' {
			l.advance()
		}
		l.advanceRune()
	}

	tok := l.token(TokenTemplateStringAtom, start)
	if value, escErr := unescape(tok.Literal); escErr == nil {
		tok.Value = value
	}
	return tok
}

func (l *Lexer) scanRegex(start Position) Token {
	l.advance()
	inClass := false
	for {
		if l.pos >= len(l.input) {
			tok := l.token(TokenRegularExpressionLiteral, start)
			l.fail(&tok, LexUnterminatedRegex, "")
			return tok
		}
		r, _ := l.peekRune()
		if isLineTerminator(r) {
			tok := l.token(TokenRegularExpressionLiteral, start)
			l.fail(&tok, LexUnterminatedRegex, "")
			return tok
		}
		l.advanceRune()
		switch r {
		case '\\':
			if r, _ := l.peekRune(); l.pos < len(l.input) && !isLineTerminator(r) {
				l.advanceRune()
			}
			continue
		case '[':
			inClass = true
		case ']':
			inClass = false
		}
		if r == '/' && !inClass {
			break
		}
	}
	bodyEnd := l.pos - 1

	for l.pos < len(l.input) {
		if r, _ := l.peekRune(); !isIDContinue(r) {
			break
		}
		l.advanceRune()
	}

	tok := l.token(TokenRegularExpressionLiteral, start)
	pattern := string(l.input[start.Offset+1 : bodyEnd])
	flags := string(l.input[bodyEnd+1 : l.pos])
	if !validRegexFlags(flags) {
		l.fail(&tok, LexInvalidRegex, "invalid flags "+flags)
		return tok
	}
	// regexp2 has no unicode-sets mode, so u and v patterns are only
	// checked for termination and flags.
	if l.validateRegex && !strings.ContainsAny(flags, "uv") {
		if _, err := regexp2.Compile(pattern, regexOptions(flags)); err != nil {
			l.fail(&tok, LexInvalidRegex, err.Error())
		}
	}
	return tok
}

func regexOptions(flags string) regexp2.RegexOptions {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	for i := 0; i < len(flags); i++ {
		switch flags[i] {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		}
	}
	return opts
}

var punctuators = []struct {
	text string
	kind TokenKind
}{
	{">>>=", TokenRightShiftLogicalAssign},
	{"...", TokenEllipsis},
	{"===", TokenIdentityEquals},
	{"!==", TokenIdentityNotEquals},
	{">>>", TokenRightShiftLogical},
	{"<<=", TokenLeftShiftArithmeticAssign},
	{">>=", TokenRightShiftArithmeticAssign},
	{"**=", TokenPowerAssign},
	{"=>", TokenArrow},
	{"==", TokenEquals},
	{"!=", TokenNotEquals},
	{"<=", TokenLessThanEquals},
	{">=", TokenGreaterThanEquals},
	{"<<", TokenLeftShiftArithmetic},
	{">>", TokenRightShiftArithmetic},
	{"**", TokenPower},
	{"++", TokenPlusPlus},
	{"--", TokenMinusMinus},
	{"&&", TokenAnd},
	{"||", TokenOr},
	{"??", TokenNullCoalesce},
	{"?.", TokenQuestionMarkDot},
	{"*=", TokenMultiplyAssign},
	{"/=", TokenDivideAssign},
	{"%=", TokenModulusAssign},
	{"+=", TokenPlusAssign},
	{"-=", TokenMinusAssign},
	{"&=", TokenBitAndAssign},
	{"^=", TokenBitXorAssign},
	{"|=", TokenBitOrAssign},
	{"[", TokenOpenBracket},
	{"]", TokenCloseBracket},
	{"(", TokenOpenParen},
	{")", TokenCloseParen},
	{"{", TokenOpenBrace},
	{"}", TokenCloseBrace},
	{";", TokenSemiColon},
	{",", TokenComma},
	{"=", TokenAssign},
	{"?", TokenQuestionMark},
	{":", TokenColon},
	{".", TokenDot},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"~", TokenBitNot},
	{"!", TokenNot},
	{"*", TokenMultiply},
	{"/", TokenDivide},
	{"%", TokenModulus},
	{"#", TokenHashtag},
	{"<", TokenLessThan},
	{">", TokenMoreThan},
	{"&", TokenBitAnd},
	{"^", TokenBitXOr},
	{"|", TokenBitOr},
}

func (l *Lexer) scanPunctuator(start Position) Token {
	for _, p := range punctuators {
		if !l.hasPrefix(p.text) {
			continue
		}
		// a?.5:0 is a conditional, not optional chaining
		if p.kind == TokenQuestionMarkDot && isDigit(l.peekN(2)) {
			continue
		}
		l.advanceN(len(p.text))
		switch p.kind {
		case TokenOpenBrace:
			l.onOpenBrace(braceBlock)
		case TokenCloseBrace:
			if l.onCloseBrace() == braceSubstitution {
				l.inTemplate = true
				return l.token(TokenTemplateCloseBrace, start)
			}
		}
		return l.token(p.kind, start)
	}
	return l.unexpected(start)
}

func (l *Lexer) onOpenBrace(frame braceFrame) {
	l.braces = append(l.braces, frame)
}

// onCloseBrace pops the innermost frame and returns its kind. An unmatched
// '}' reports braceBlock and leaves the stack empty.
func (l *Lexer) onCloseBrace() braceFrame {
	if len(l.braces) == 0 {
		return braceBlock
	}
	frame := l.braces[len(l.braces)-1]
	l.braces = l.braces[:len(l.braces)-1]
	return frame
}

func (l *Lexer) unexpected(start Position) Token {
	l.advanceRune()
	tok := l.token(TokenUnexpectedCharacter, start)
	l.fail(&tok, LexUnexpectedCharacter, "")
	return tok
}

// fail moves tok to the error channel and records a lexical error for it.
func (l *Lexer) fail(tok *Token, kind LexicalErrorKind, msg string) {
	tok.Channel = ChannelError
	if msg == "" && kind == LexUnexpectedCharacter {
		msg = tok.Literal
	}
	l.errors = append(l.errors, &LexicalError{Kind: kind, Message: msg, Span: tok.Span})
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) hidden(kind TokenKind, start Position) Token {
	tok := l.token(kind, start)
	tok.Channel = ChannelHidden
	return tok
}

// Tokenize scans the whole input and returns every token, including hidden
// and error channel tokens, terminated by EOF.
func Tokenize(input []byte, file string, opts ...LexerOption) ([]Token, error) {
	l := NewLexer(input, file, opts...)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	var errs ErrorList
	for _, err := range l.errors {
		errs = append(errs, err)
	}
	return tokens, errs.Err()
}
