package parser

// Binary operator precedence, loosest first. Assignment and the conditional
// operator are handled outside the climbing loop.
const (
	precNone = iota
	_
	_
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precNullish
	precShift
	precAdditive
	precMultiplicative
	precExponent
)

func (p *Parser) binaryPrecedence(kind TokenKind) int {
	switch kind {
	case TokenOr:
		return precLogicalOr
	case TokenAnd:
		return precLogicalAnd
	case TokenBitOr:
		return precBitOr
	case TokenBitXOr:
		return precBitXor
	case TokenBitAnd:
		return precBitAnd
	case TokenEquals, TokenNotEquals, TokenIdentityEquals, TokenIdentityNotEquals:
		return precEquality
	case TokenLessThan, TokenMoreThan, TokenLessThanEquals, TokenGreaterThanEquals, TokenInstanceof:
		return precRelational
	case TokenIn:
		if p.noIn {
			return precNone
		}
		return precRelational
	case TokenNullCoalesce:
		return precNullish
	case TokenLeftShiftArithmetic, TokenRightShiftArithmetic, TokenRightShiftLogical:
		return precShift
	case TokenPlus, TokenMinus:
		return precAdditive
	case TokenMultiply, TokenDivide, TokenModulus:
		return precMultiplicative
	case TokenPower:
		return precExponent
	}
	return precNone
}

func (p *Parser) parseStandaloneExpression() *Node {
	expr := p.parseExpression()
	if !p.check(TokenEOF) {
		p.failExpected(TokenEOF)
	}
	return expr
}

// parseExpression parses a comma separated expression sequence.
func (p *Parser) parseExpression() *Node {
	first := p.parseAssignment()
	if !p.check(TokenComma) {
		return first
	}
	seq := p.startNodeAt(KindSequenceExpression, first)
	for p.accept(TokenComma) != nil {
		seq.AddChild(p.parseAssignment())
	}
	return p.finishNode(seq)
}

func (p *Parser) parseAssignment() *Node {
	if p.check(TokenYield) {
		return p.parseYield()
	}
	if p.isArrowAhead() {
		return p.parseArrowFunction()
	}

	left := p.parseConditional()

	if p.peek().Kind.IsAssignOp() {
		op := p.peek()
		if op.Kind == TokenAssign {
			left = p.toAssignable(left)
		} else {
			p.checkSimpleTarget(left)
		}
		p.advance()
		node := p.startNodeAt(KindAssignmentExpression, left)
		node.Token = &op
		node.AddChild(p.parseAssignment())
		return p.finishNode(node)
	}

	return left
}

func (p *Parser) parseConditional() *Node {
	test := p.parseBinary(precLogicalOr)
	if !p.check(TokenQuestionMark) {
		return test
	}
	p.advance()
	node := p.startNodeAt(KindConditionalExpression, test)
	node.AddChild(p.withNoIn(false, p.parseAssignment))
	p.expect(TokenColon)
	node.AddChild(p.parseAssignment())
	return p.finishNode(node)
}

// parseBinary climbs binary operators binding at least as tight as minPrec.
// Exponentiation is right associative, everything else left associative.
func (p *Parser) parseBinary(minPrec int) *Node {
	left := p.parseUnary()
	for {
		prec := p.binaryPrecedence(p.peek().Kind)
		if prec == precNone || prec < minPrec {
			return left
		}
		op := p.advance()
		next := prec + 1
		if op.Kind == TokenPower {
			next = prec
		}
		node := p.startNodeAt(KindBinaryExpression, left)
		node.Token = &op
		node.AddChild(p.parseBinary(next))
		left = p.finishNode(node)
	}
}

func (p *Parser) parseUnary() *Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenDelete, TokenVoid, TokenTypeof, TokenPlus, TokenMinus, TokenBitNot, TokenNot:
		node := p.startNode(KindUnaryExpression)
		p.advance()
		node.Token = &tok
		node.AddChild(p.parseUnary())
		return p.finishNode(node)
	case TokenPlusPlus, TokenMinusMinus:
		node := p.startNode(KindUpdateExpression)
		p.advance()
		node.Token = &tok
		node.Flags |= FlagPrefix
		operand := p.parseUnary()
		p.checkSimpleTarget(operand)
		node.AddChild(operand)
		return p.finishNode(node)
	case TokenIdentifier:
		if p.isAwaitExpression() {
			node := p.startNode(KindAwaitExpression)
			p.advance()
			node.Token = &tok
			node.AddChild(p.parseUnary())
			return p.finishNode(node)
		}
	}
	return p.parsePostfix()
}

// isAwaitExpression treats await as an operator when an operand follows it.
// A following '+' or '-' keeps await an identifier in a binary expression.
func (p *Parser) isAwaitExpression() bool {
	if !p.isContextual("await") {
		return false
	}
	next := p.peekN(1).Kind
	if next == TokenPlus || next == TokenMinus {
		return false
	}
	return canStartExpression(next)
}

func canStartExpression(kind TokenKind) bool {
	switch kind {
	case TokenIdentifier, TokenThis, TokenSuper, TokenNew, TokenFunction, TokenClass,
		TokenTypeof, TokenVoid, TokenDelete, TokenImport, TokenYield,
		TokenNullLiteral, TokenBooleanLiteral, TokenStringLiteral, TokenRegularExpressionLiteral, TokenURL,
		TokenOpenParen, TokenOpenBracket, TokenOpenBrace, TokenBackTick,
		TokenNot, TokenBitNot, TokenPlus, TokenMinus, TokenPlusPlus, TokenMinusMinus:
		return true
	}
	return kind.IsNumeric() || kind.IsBigInt()
}

func (p *Parser) parsePostfix() *Node {
	expr := p.parseLeftHandSide()
	if p.match(TokenPlusPlus, TokenMinusMinus) && !p.newlineAhead() {
		p.checkSimpleTarget(expr)
		op := p.advance()
		node := p.startNodeAt(KindUpdateExpression, expr)
		node.Token = &op
		return p.finishNode(node)
	}
	return expr
}

func (p *Parser) parseLeftHandSide() *Node {
	var expr *Node
	if p.check(TokenNew) {
		expr = p.parseNew()
	} else {
		expr = p.parsePrimary()
	}
	return p.parseCallTail(expr, true)
}

// parseCallTail applies member access, calls, optional chaining and tagged
// templates to expr. Calls are left alone when allowCall is false, as in
// the callee of a new expression.
func (p *Parser) parseCallTail(expr *Node, allowCall bool) *Node {
	for {
		switch p.peek().Kind {
		case TokenDot:
			p.advance()
			node := p.startNodeAt(KindMemberExpression, expr)
			node.AddChild(p.parseMemberName())
			expr = p.finishNode(node)
		case TokenQuestionMarkDot:
			if !allowCall {
				p.fail("optional chain is not allowed in a new expression")
			}
			p.advance()
			switch p.peek().Kind {
			case TokenOpenParen:
				node := p.startNodeAt(KindCallExpression, expr)
				node.Flags |= FlagOptional
				node.AddChild(p.parseArguments())
				expr = p.finishNode(node)
			case TokenOpenBracket:
				expr = p.parseComputedMember(expr)
				expr.Flags |= FlagOptional
			default:
				node := p.startNodeAt(KindMemberExpression, expr)
				node.Flags |= FlagOptional
				node.AddChild(p.parseMemberName())
				expr = p.finishNode(node)
			}
		case TokenOpenBracket:
			expr = p.parseComputedMember(expr)
		case TokenOpenParen:
			if !allowCall {
				return expr
			}
			node := p.startNodeAt(KindCallExpression, expr)
			node.AddChild(p.parseArguments())
			expr = p.finishNode(node)
		case TokenBackTick:
			node := p.startNodeAt(KindTaggedTemplate, expr)
			node.AddChild(p.parseTemplateLiteral())
			expr = p.finishNode(node)
		default:
			return expr
		}
	}
}

func (p *Parser) parseComputedMember(object *Node) *Node {
	node := p.startNodeAt(KindMemberExpression, object)
	node.Flags |= FlagComputed
	p.expect(TokenOpenBracket)
	node.AddChild(p.withNoIn(false, p.parseExpression))
	p.expect(TokenCloseBracket)
	return p.finishNode(node)
}

// parseMemberName parses the name after '.' or '?.': any identifier name,
// keywords included, or a #private name.
func (p *Parser) parseMemberName() *Node {
	if p.check(TokenHashtag) {
		return p.parsePrivateName()
	}
	return p.parseIdentifierName()
}

func (p *Parser) parsePrivateName() *Node {
	node := p.startNode(KindPrivateName)
	p.expect(TokenHashtag)
	if !p.isIdentifierName() {
		p.fail("private name expected", TokenIdentifier)
	}
	name := p.advance()
	node.Token = &name
	return p.finishNode(node)
}

func (p *Parser) parseArguments() *Node {
	node := p.startNode(KindArguments)
	p.expect(TokenOpenParen)
	p.withNoIn(false, func() *Node {
		for !p.check(TokenCloseParen) {
			if p.check(TokenEllipsis) {
				node.AddChild(p.parseSpread())
			} else {
				node.AddChild(p.parseAssignment())
			}
			if !p.check(TokenCloseParen) {
				p.expect(TokenComma)
			}
		}
		return node
	})
	p.expect(TokenCloseParen)
	return p.finishNode(node)
}

func (p *Parser) parseSpread() *Node {
	node := p.startNode(KindSpreadElement)
	p.expect(TokenEllipsis)
	node.AddChild(p.parseAssignment())
	return p.finishNode(node)
}

func (p *Parser) parseNew() *Node {
	node := p.startNode(KindNewExpression)
	newTok := p.expect(TokenNew)

	if p.accept(TokenDot) != nil {
		node.Kind = KindMetaProperty
		node.Token = newTok
		target := p.expectContextual("target")
		node.AddChild(p.leaf(KindIdentifier, *target))
		return p.finishNode(node)
	}

	var callee *Node
	if p.check(TokenNew) {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	node.AddChild(p.parseCallTail(callee, false))
	if p.check(TokenOpenParen) {
		node.AddChild(p.parseArguments())
	}
	return p.finishNode(node)
}

func (p *Parser) parsePrimary() *Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenThis:
		return p.leaf(KindThis, p.advance())
	case TokenSuper:
		return p.leaf(KindSuper, p.advance())
	case TokenIdentifier:
		switch {
		case p.isAsyncFunction():
			return p.parseFunction(KindFunctionExpression, true)
		case p.isSelectStart():
			return p.parseQueryExpression()
		case p.isContextual("using"):
			if node, ok := p.try(p.parseQueryExpression); ok {
				return node
			}
		}
		return p.leaf(KindIdentifier, p.advance())
	case TokenNullLiteral, TokenBooleanLiteral, TokenStringLiteral, TokenRegularExpressionLiteral, TokenURL:
		return p.leaf(KindLiteral, p.advance())
	case TokenBackTick:
		return p.parseTemplateLiteral()
	case TokenOpenBracket:
		return p.parseArrayLiteral()
	case TokenOpenBrace:
		return p.parseObjectLiteral()
	case TokenOpenParen:
		return p.parseParenthesized()
	case TokenFunction:
		return p.parseFunction(KindFunctionExpression, true)
	case TokenClass:
		return p.parseClass(KindClassExpression, true)
	case TokenImport:
		return p.parseImportExpression()
	}
	if tok.Kind.IsNumeric() || tok.Kind.IsBigInt() {
		return p.leaf(KindLiteral, p.advance())
	}
	if tok.Kind.IsStrictReserved() {
		p.fail("'" + tok.Literal + "' is a reserved word in strict mode")
	}
	p.failUnexpected()
	return nil
}

// parseImportExpression parses import(specifier) and import.meta.
func (p *Parser) parseImportExpression() *Node {
	node := p.startNode(KindImportCall)
	importTok := p.expect(TokenImport)
	if p.accept(TokenDot) != nil {
		node.Kind = KindMetaProperty
		node.Token = importTok
		meta := p.expectContextual("meta")
		node.AddChild(p.leaf(KindIdentifier, *meta))
		return p.finishNode(node)
	}
	p.expect(TokenOpenParen)
	node.AddChild(p.withNoIn(false, p.parseAssignment))
	p.expect(TokenCloseParen)
	return p.finishNode(node)
}

func (p *Parser) parseParenthesized() *Node {
	node := p.startNode(KindParenthesizedExpression)
	p.expect(TokenOpenParen)
	node.AddChild(p.withNoIn(false, p.parseExpression))
	p.expect(TokenCloseParen)
	return p.finishNode(node)
}

func (p *Parser) parseTemplateLiteral() *Node {
	node := p.startNode(KindTemplateLiteral)
	p.expect(TokenBackTick)
	for !p.match(TokenBackTick, TokenEOF) {
		switch p.peek().Kind {
		case TokenTemplateStringAtom:
			node.AddChild(p.leaf(KindTemplateElement, p.advance()))
		case TokenTemplateStringStartExpression:
			p.advance()
			node.AddChild(p.withNoIn(false, p.parseExpression))
			p.expect(TokenTemplateCloseBrace)
		default:
			p.failUnexpected()
		}
	}
	p.expect(TokenBackTick)
	return p.finishNode(node)
}

func (p *Parser) parseArrayLiteral() *Node {
	node := p.startNode(KindArrayLiteral)
	p.expect(TokenOpenBracket)
	p.withNoIn(false, func() *Node {
		for !p.check(TokenCloseBracket) {
			if p.check(TokenComma) {
				hole := p.startNode(KindElision)
				p.advance()
				node.AddChild(p.finishNode(hole))
				continue
			}
			if p.check(TokenEllipsis) {
				node.AddChild(p.parseSpread())
			} else {
				node.AddChild(p.parseAssignment())
			}
			if !p.check(TokenCloseBracket) {
				p.expect(TokenComma)
			}
		}
		return node
	})
	p.expect(TokenCloseBracket)
	return p.finishNode(node)
}

func (p *Parser) parseObjectLiteral() *Node {
	node := p.startNode(KindObjectLiteral)
	p.expect(TokenOpenBrace)
	p.withNoIn(false, func() *Node {
		for !p.check(TokenCloseBrace) {
			node.AddChild(p.parsePropertyDefinition())
			if !p.check(TokenCloseBrace) {
				p.expect(TokenComma)
			}
		}
		return node
	})
	p.expect(TokenCloseBrace)
	return p.finishNode(node)
}

// parsePropertyDefinition parses one object literal member: key: value,
// shorthand (optionally with a default, for destructuring assignment),
// methods, accessors and spread.
func (p *Parser) parsePropertyDefinition() *Node {
	if p.check(TokenEllipsis) {
		return p.parseSpread()
	}

	node := p.startNode(KindProperty)
	p.parseMethodModifiers(node)
	key := p.parsePropertyName(node, false)
	node.AddChild(key)

	if p.check(TokenOpenParen) {
		node.Kind = KindMethodDefinition
		node.AddChild(p.parseFormalParameters())
		node.AddChild(p.parseFunctionBody())
		return p.finishNode(node)
	}
	if node.Flags&(FlagAsync|FlagGenerator|FlagGetter|FlagSetter) != 0 {
		p.failExpected(TokenOpenParen)
	}

	if p.accept(TokenColon) != nil {
		node.AddChild(p.parseAssignment())
		return p.finishNode(node)
	}

	if key.Kind != KindIdentifier || node.Flags.Has(FlagComputed) || !key.Token.Kind.isIdentifierReference() {
		p.failExpected(TokenColon)
	}
	node.Flags |= FlagShorthand
	if p.check(TokenAssign) {
		p.advance()
		def := p.startNodeAt(KindAssignmentPattern, key)
		def.AddChild(p.parseAssignment())
		node.Children = nil
		node.AddChild(p.finishNode(def))
	}
	return p.finishNode(node)
}

// parsePropertyName parses a literal, identifier name or computed key.
// Private names are only allowed in class bodies.
func (p *Parser) parsePropertyName(owner *Node, allowPrivate bool) *Node {
	tok := p.peek()
	switch {
	case tok.Kind == TokenOpenBracket:
		p.advance()
		owner.Flags |= FlagComputed
		key := p.withNoIn(false, p.parseAssignment)
		p.expect(TokenCloseBracket)
		return key
	case tok.Kind == TokenHashtag && allowPrivate:
		return p.parsePrivateName()
	case tok.Kind == TokenStringLiteral || tok.Kind.IsNumeric() || tok.Kind.IsBigInt():
		return p.leaf(KindLiteral, p.advance())
	case p.isIdentifierName():
		return p.leaf(KindIdentifier, p.advance())
	}
	p.fail("property name expected", TokenIdentifier, TokenStringLiteral, TokenOpenBracket)
	return nil
}

// isIdentifierReference reports whether a token of this kind may be used as
// a variable reference.
func (k TokenKind) isIdentifierReference() bool {
	return k == TokenIdentifier || k == TokenYield
}

func (p *Parser) isIdentifierName() bool {
	kind := p.peek().Kind
	return kind == TokenIdentifier || kind.IsKeyword()
}

func (p *Parser) parseIdentifierName() *Node {
	if !p.isIdentifierName() {
		p.fail("identifier expected", TokenIdentifier)
	}
	return p.leaf(KindIdentifier, p.advance())
}

func (p *Parser) parseYield() *Node {
	node := p.startNode(KindYieldExpression)
	yield := p.expect(TokenYield)
	node.Token = yield
	if p.newlineAhead() {
		return p.finishNode(node)
	}
	if p.accept(TokenMultiply) != nil {
		node.Flags |= FlagDelegate
		node.AddChild(p.parseAssignment())
	} else if canStartExpression(p.peek().Kind) {
		node.AddChild(p.parseAssignment())
	}
	return p.finishNode(node)
}

// isArrowAhead reports whether an arrow function starts at the cursor:
// "x =>", "async x =>", or a parenthesized list whose matching ')' is
// followed by '=>'.
func (p *Parser) isArrowAhead() bool {
	i := p.pos
	if p.isContextual("async") && !p.newlineAheadN(1) {
		next := p.tokenAt(i + 1).Kind
		if next == TokenIdentifier && p.tokenAt(i+2).Kind == TokenArrow {
			return true
		}
		if next == TokenOpenParen {
			i++
		}
	}
	tok := p.tokenAt(i)
	if tok.Kind == TokenIdentifier && p.tokenAt(i+1).Kind == TokenArrow {
		return true
	}
	if tok.Kind != TokenOpenParen {
		return false
	}
	end := p.matchingClose(i)
	return end >= 0 && p.tokenAt(end+1).Kind == TokenArrow
}

func (p *Parser) tokenAt(i int) Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// matchingClose returns the index of the bracket closing the one at open,
// or -1 when the input ends first.
func (p *Parser) matchingClose(open int) int {
	depth := 0
	for i := open; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case TokenOpenParen, TokenOpenBracket, TokenOpenBrace, TokenTemplateStringStartExpression:
			depth++
		case TokenCloseParen, TokenCloseBracket, TokenCloseBrace, TokenTemplateCloseBrace:
			depth--
			if depth == 0 {
				return i
			}
		case TokenEOF:
			return -1
		}
	}
	return -1
}

func (p *Parser) parseArrowFunction() *Node {
	node := p.startNode(KindArrowFunction)
	if p.isContextual("async") && p.peekN(1).Kind != TokenArrow {
		p.advance()
		node.Flags |= FlagAsync
	}

	if p.check(TokenIdentifier) {
		params := p.startNode(KindFormalParameters)
		params.AddChild(p.parseBindingIdentifier())
		node.AddChild(p.finishNode(params))
	} else {
		node.AddChild(p.parseFormalParameters())
	}

	if p.newlineAhead() {
		p.fail("line terminator not allowed before '=>'")
	}
	p.expect(TokenArrow)

	if p.check(TokenOpenBrace) {
		node.AddChild(p.parseFunctionBody())
	} else {
		node.AddChild(p.parseAssignment())
	}
	return p.finishNode(node)
}

// checkSimpleTarget fails unless n can be the operand of a compound
// assignment or an update expression.
func (p *Parser) checkSimpleTarget(n *Node) {
	switch n.Kind {
	case KindIdentifier, KindMemberExpression:
		if !n.Flags.Has(FlagOptional) {
			return
		}
	case KindParenthesizedExpression:
		if len(n.Children) == 1 {
			p.checkSimpleTarget(n.Children[0])
			return
		}
	}
	p.failAt(n, "invalid assignment target")
}

// failAt records a syntax error spanning n and unwinds the current rule.
func (p *Parser) failAt(n *Node, msg string) {
	got := p.tokenAtOffset(n.Span.Start.Offset)
	p.errors = append(p.errors, &SyntaxError{
		Message: msg,
		Span:    n.Span,
		Got:     got,
	})
	panic(bailout{})
}

func (p *Parser) tokenAtOffset(offset int) Token {
	lo, hi := 0, len(p.tokens)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if p.tokens[mid].Span.Start.Offset < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return p.tokens[lo]
}
