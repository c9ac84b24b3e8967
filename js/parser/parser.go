package parser

import (
	"io"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("esq.parser")

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

func WithPositions() Option {
	return func(p *Parser) {
		p.includePositions = true
	}
}

// WithStrict sets the strict-mode flag handed to the lexer. Strict mode is
// on by default.
func WithStrict(strict bool) Option {
	return func(p *Parser) {
		p.strict = strict
	}
}

// WithRecovery makes the parser resynchronize at the next statement boundary
// after a syntax error instead of abandoning the parse. Finish then returns
// the tree, with Error nodes in place of the broken statements, together
// with the errors.
func WithRecovery() Option {
	return func(p *Parser) {
		p.recovery = true
	}
}

func WithRegexValidation() Option {
	return func(p *Parser) {
		p.validateRegex = true
	}
}

// WithStringLiteralHook registers fn to be called with every string literal
// token as it is scanned.
func WithStringLiteralHook(fn func(Token)) Option {
	return func(p *Parser) {
		p.onString = fn
	}
}

type parseFunc func(*Parser) *Node

type Parser struct {
	file             string
	includeComments  bool
	includePositions bool
	strict           bool
	recovery         bool
	validateRegex    bool
	onString         func(Token)

	reader io.Reader
	input  []byte
	lexer  *Lexer
	entry  parseFunc

	// tokens holds the default channel tokens. newlineBefore[i] records
	// whether a line terminator separates tokens[i] from the token before it.
	tokens        []Token
	newlineBefore []bool
	comments      []Token
	hashBang      *Token
	pos           int

	errors      ErrorList
	noIn        bool
	speculating int
}

// bailout unwinds the current rule after a syntax error was recorded.
type bailout struct{}

func newParser(r io.Reader, entry parseFunc, opts []Option) *Parser {
	p := &Parser{
		reader: r,
		entry:  entry,
		strict: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseProgram prepares a parser for a whole source unit.
func ParseProgram(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseProgram, opts)
}

// ParseExpression prepares a parser for a single expression, which may be a
// query expression.
func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseStandaloneExpression, opts)
}

func (p *Parser) IncludesPositions() bool {
	return p.includePositions
}

func (p *Parser) Comments() []Token {
	return p.comments
}

// Tokens returns the default channel tokens of the last parse, ending with
// EOF.
func (p *Parser) Tokens() []Token {
	return p.tokens
}

// BraceDepth reports the lexer's open brace frames after the last parse.
func (p *Parser) BraceDepth() int {
	if p.lexer == nil {
		return 0
	}
	return p.lexer.BraceDepth()
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

func (p *Parser) lexerOptions() []LexerOption {
	opts := []LexerOption{LexStrict(p.strict)}
	if p.validateRegex {
		opts = append(opts, LexRegexValidation())
	}
	if p.onString != nil {
		opts = append(opts, LexStringLiteralHook(p.onString))
	}
	return opts
}

// Finish reads the input, parses it and returns the tree. Without
// WithRecovery the first error abandons the parse and the tree is nil.
// Errors are reported as an ErrorList.
func (p *Parser) Finish() (*Node, error) {
	if err := p.readAll(); err != nil {
		return nil, err
	}
	p.lexer = NewLexer(p.input, p.file, p.lexerOptions()...)
	p.tokens = nil
	p.newlineBefore = nil
	p.comments = nil
	p.hashBang = nil
	p.pos = 0
	p.errors = nil
	p.noIn = false
	p.tokenize()
	for _, err := range p.lexer.Errors() {
		p.errors = append(p.errors, err)
	}

	result := p.run()
	if result != nil {
		linkParents(result)
	}

	if len(p.errors) == 0 && p.lexer.BraceDepth() != 0 {
		eof := p.tokens[len(p.tokens)-1]
		p.errors = append(p.errors, &SyntaxError{
			Message:  "unbalanced braces at end of input",
			Span:     eof.Span,
			Got:      eof,
			Expected: []TokenKind{TokenCloseBrace},
		})
	}

	if len(p.errors) > 0 {
		sort.SliceStable(p.errors, func(i, j int) bool {
			return errorOffset(p.errors[i]) < errorOffset(p.errors[j])
		})
		if !p.recovery {
			return nil, p.errors
		}
		return result, p.errors
	}
	return result, nil
}

func (p *Parser) run() (result *Node) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			result = nil
		}
	}()
	return p.entry(p)
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.lexer = nil
	p.tokens = nil
	p.newlineBefore = nil
	p.comments = nil
	p.pos = 0
	p.errors = nil
}

func errorOffset(err error) int {
	switch e := err.(type) {
	case *LexicalError:
		return e.Span.Start.Offset
	case *SyntaxError:
		return e.Span.Start.Offset
	}
	return 0
}

func (p *Parser) tokenize() {
	newline := false
	for {
		tok := p.lexer.NextToken()
		switch tok.Channel {
		case ChannelError:
			// already recorded by the lexer
			continue
		case ChannelHidden:
			switch {
			case tok.Kind == TokenLineTerminator:
				newline = true
			case tok.Kind == TokenHashBangLine:
				p.hashBang = &tok
			case tok.Kind.IsComment():
				if strings.ContainsAny(tok.Literal, "\n\r\u2028\u2029") {
					newline = true
				}
				if p.includeComments {
					p.comments = append(p.comments, tok)
				}
			}
			continue
		}
		p.tokens = append(p.tokens, tok)
		p.newlineBefore = append(p.newlineBefore, newline)
		newline = false
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// expect consumes a token of the given kind or fails the current rule.
func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind != kind {
		p.failExpected(kind)
	}
	p.advance()
	return &tok
}

// accept consumes a token of the given kind if it is next.
func (p *Parser) accept(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

// isContextual reports whether the next token is an identifier spelled word.
func (p *Parser) isContextual(word string) bool {
	tok := p.peek()
	return tok.Kind == TokenIdentifier && tok.Text() == word
}

func (p *Parser) isContextualN(n int, word string) bool {
	tok := p.peekN(n)
	return tok.Kind == TokenIdentifier && tok.Text() == word
}

func (p *Parser) expectContextual(word string) *Token {
	if !p.isContextual(word) {
		p.fail("expected '" + word + "'")
	}
	tok := p.advance()
	return &tok
}

// newlineAhead reports whether a line terminator precedes the next token.
func (p *Parser) newlineAhead() bool {
	if p.pos >= len(p.newlineBefore) {
		return false
	}
	return p.newlineBefore[p.pos]
}

func (p *Parser) newlineAheadN(n int) bool {
	if p.pos+n >= len(p.newlineBefore) {
		return false
	}
	return p.newlineBefore[p.pos+n]
}

// eos consumes an end of statement: an explicit ';', or nothing when the next
// token is '}' or EOF or sits on a later line.
func (p *Parser) eos() {
	if p.accept(TokenSemiColon) != nil {
		return
	}
	if p.match(TokenCloseBrace, TokenEOF) || p.newlineAhead() {
		return
	}
	p.failExpected(TokenSemiColon)
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

// startNodeAt starts a node whose span begins where child's does, for nodes
// whose first child is parsed before the node kind is known.
func (p *Parser) startNodeAt(kind NodeKind, child *Node) *Node {
	n := &Node{
		Kind: kind,
		Span: Span{Start: child.Span.Start},
	}
	n.AddChild(child)
	return n
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 {
		n.Span.End = p.tokens[p.pos-1].Span.End
	}
	if n.Span.End.Offset < n.Span.Start.Offset {
		n.Span.End = n.Span.Start
	}
	return n
}

func (p *Parser) leaf(kind NodeKind, tok Token) *Node {
	return &Node{Kind: kind, Token: &tok, Span: tok.Span}
}

// fail records a syntax error at the next token and unwinds the current
// rule.
func (p *Parser) fail(msg string, expected ...TokenKind) {
	tok := p.peek()
	p.errors = append(p.errors, &SyntaxError{
		Message:  msg,
		Span:     tok.Span,
		Got:      tok,
		Expected: expected,
	})
	panic(bailout{})
}

func (p *Parser) failExpected(kinds ...TokenKind) {
	tok := p.peek()
	if tok.Kind == TokenEOF {
		p.fail("unexpected end of input", kinds...)
	}
	p.fail("unexpected token '"+tok.Literal+"'", kinds...)
}

func (p *Parser) failUnexpected() {
	p.failExpected()
}

// try runs fn as a tentative parse. On a syntax error the cursor and the
// error list are restored and ok is false.
func (p *Parser) try(fn func() *Node) (node *Node, ok bool) {
	save := p.pos
	nerr := len(p.errors)
	savedNoIn := p.noIn
	p.speculating++
	defer func() {
		p.speculating--
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			log.Debugf("rolling back tentative parse at %s", p.tokens[save].Span.Start)
			p.pos = save
			p.errors = p.errors[:nerr]
			p.noIn = savedNoIn
			node, ok = nil, false
		}
	}()
	return fn(), true
}

// recoverStatement is deferred by statement list loops in recovery mode. It
// turns the error that unwound the statement into an Error node and skips to
// the next statement boundary.
func (p *Parser) recoverStatement(start int, out **Node) {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(bailout); !ok || !p.recovery || p.speculating > 0 {
		panic(r)
	}
	errTok := p.peek()
	node := &Node{Kind: KindError, Span: Span{Start: p.tokens[start].Span.Start}}
	if se, ok := p.errors[len(p.errors)-1].(*SyntaxError); ok {
		got := se.Got
		node.Error = &Error{Message: se.Message, Expected: se.Expected, Got: &got}
	}
	log.Debugf("recovering from syntax error at %s", errTok.Span.Start)
	p.noIn = false
	p.synchronize(start)
	p.finishNode(node)
	*out = node
}

// synchronize skips to the next likely statement start: past a ';', before a
// '}' or before a token on a new line.
func (p *Parser) synchronize(start int) {
	if p.pos == start && !p.check(TokenEOF) {
		p.advance()
	}
	for !p.check(TokenEOF) {
		if p.check(TokenSemiColon) {
			p.advance()
			return
		}
		if p.check(TokenCloseBrace) || p.newlineAhead() {
			return
		}
		p.advance()
	}
}

// withNoIn parses fn with the 'in' operator disabled, as in a for head.
func (p *Parser) withNoIn(noIn bool, fn func() *Node) *Node {
	saved := p.noIn
	p.noIn = noIn
	defer func() { p.noIn = saved }()
	return fn()
}
