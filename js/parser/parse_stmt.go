package parser

func (p *Parser) parseProgram() *Node {
	node := p.startNode(KindProgram)
	if p.hashBang != nil {
		node.Span.Start = p.hashBang.Span.Start
		node.AddChild(p.leaf(KindHashBang, *p.hashBang))
	}

	for !p.check(TokenEOF) {
		node.AddChild(p.parseStatementListItem())
	}

	return p.finishNode(node)
}

// parseStatementListItem parses one statement. In recovery mode a syntax
// error inside the statement yields an Error node instead of unwinding.
func (p *Parser) parseStatementListItem() (node *Node) {
	if p.recovery && p.speculating == 0 {
		defer p.recoverStatement(p.pos, &node)
	}
	return p.parseStatement()
}

func (p *Parser) parseStatement() *Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenOpenBrace:
		return p.parseBlock()
	case TokenSemiColon:
		node := p.startNode(KindEmptyStatement)
		p.advance()
		return p.finishNode(node)
	case TokenVar, TokenConst, TokenLet:
		return p.parseVariableStatement()
	case TokenIf:
		return p.parseIfStatement()
	case TokenDo:
		return p.parseDoStatement()
	case TokenWhile:
		return p.parseWhileStatement()
	case TokenFor:
		return p.parseForStatement()
	case TokenContinue:
		return p.parseJumpStatement(KindContinueStatement)
	case TokenBreak:
		return p.parseJumpStatement(KindBreakStatement)
	case TokenReturn:
		return p.parseOperandStatement(KindReturnStatement)
	case TokenThrow:
		return p.parseOperandStatement(KindThrowStatement)
	case TokenWith:
		return p.parseWithStatement()
	case TokenSwitch:
		return p.parseSwitchStatement()
	case TokenTry:
		return p.parseTryStatement()
	case TokenDebugger:
		node := p.startNode(KindDebuggerStatement)
		p.advance()
		p.eos()
		return p.finishNode(node)
	case TokenFunction:
		return p.parseFunction(KindFunctionDeclaration, false)
	case TokenClass:
		return p.parseClass(KindClassDeclaration, false)
	case TokenImport:
		if next := p.peekN(1).Kind; next != TokenOpenParen && next != TokenDot {
			return p.parseImportStatement()
		}
	case TokenExport:
		return p.parseExportStatement()
	case TokenOpenParen:
		if p.startsSubquery(1) {
			if node, ok := p.try(p.parseQuerySelectStatement); ok {
				return node
			}
		}
	case TokenIdentifier:
		switch {
		case p.isAsyncFunction():
			return p.parseFunction(KindFunctionDeclaration, false)
		case p.peekN(1).Kind == TokenColon:
			return p.parseLabelledStatement()
		case p.isSelectStart():
			return p.parseQuerySelectStatement()
		case p.isContextual("using"):
			if node, ok := p.try(p.parseQuerySelectStatement); ok {
				return node
			}
		}
	}
	if tok.Kind.IsStrictReserved() {
		p.fail("'" + tok.Literal + "' is a reserved word in strict mode")
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseBlock() *Node {
	node := p.startNode(KindBlock)
	p.expect(TokenOpenBrace)

	for !p.match(TokenCloseBrace, TokenEOF) {
		node.AddChild(p.parseStatementListItem())
	}

	p.expect(TokenCloseBrace)
	return p.finishNode(node)
}

func (p *Parser) parseExpressionStatement() *Node {
	node := p.startNode(KindExpressionStatement)
	node.AddChild(p.parseExpression())
	p.eos()
	return p.finishNode(node)
}

func (p *Parser) parseVariableStatement() *Node {
	node := p.startNode(KindVariableStatement)
	p.parseVariableDeclarationList(node)
	p.eos()
	return p.finishNode(node)
}

// parseVariableDeclarationList consumes the var, let or const keyword into
// node.Token and appends one declaration per binding.
func (p *Parser) parseVariableDeclarationList(node *Node) {
	tok := p.advance()
	node.Token = &tok
	for {
		node.AddChild(p.parseVariableDeclaration())
		if p.accept(TokenComma) == nil {
			break
		}
	}
}

func (p *Parser) parseVariableDeclaration() *Node {
	node := p.startNode(KindVariableDeclaration)
	node.AddChild(p.parseBindingTarget())
	if p.accept(TokenAssign) != nil {
		node.AddChild(p.parseAssignment())
	}
	return p.finishNode(node)
}

func (p *Parser) parseIfStatement() *Node {
	node := p.startNode(KindIfStatement)
	p.expect(TokenIf)
	node.AddChild(p.parseParenthesizedCondition())
	node.AddChild(p.parseStatement())
	if p.accept(TokenElse) != nil {
		node.AddChild(p.parseStatement())
	}
	return p.finishNode(node)
}

func (p *Parser) parseParenthesizedCondition() *Node {
	p.expect(TokenOpenParen)
	expr := p.withNoIn(false, p.parseExpression)
	p.expect(TokenCloseParen)
	return expr
}

func (p *Parser) parseDoStatement() *Node {
	node := p.startNode(KindDoStatement)
	p.expect(TokenDo)
	node.AddChild(p.parseStatement())
	p.expect(TokenWhile)
	node.AddChild(p.parseParenthesizedCondition())
	// the ';' after do-while is always optional
	p.accept(TokenSemiColon)
	return p.finishNode(node)
}

func (p *Parser) parseWhileStatement() *Node {
	node := p.startNode(KindWhileStatement)
	p.expect(TokenWhile)
	node.AddChild(p.parseParenthesizedCondition())
	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

// parseForStatement handles the classic, for-in, for-of and for-await forms.
// The head is parsed with 'in' disabled; the token after the first part
// decides which form it is.
func (p *Parser) parseForStatement() *Node {
	node := p.startNode(KindForStatement)
	p.expect(TokenFor)
	if p.isContextual("await") {
		p.advance()
		node.Flags |= FlagAwait
	}
	p.expect(TokenOpenParen)

	var init *Node
	switch {
	case p.check(TokenSemiColon):
	case p.match(TokenVar, TokenConst, TokenLet):
		decl := p.startNode(KindVariableStatement)
		p.withNoIn(true, func() *Node {
			p.parseVariableDeclarationList(decl)
			return decl
		})
		init = p.finishNode(decl)
	default:
		init = p.withNoIn(true, p.parseExpression)
	}

	if init != nil && (p.check(TokenIn) || p.isContextual("of")) {
		return p.parseForInOfRest(node, init)
	}
	if node.Flags.Has(FlagAwait) {
		p.fail("for await requires 'of'")
	}

	initNode := p.startNode(KindForInit)
	if init != nil {
		initNode.Span.Start = init.Span.Start
		initNode.AddChild(init)
	}
	node.AddChild(p.finishNode(initNode))
	p.expect(TokenSemiColon)

	test := p.startNode(KindForTest)
	if !p.check(TokenSemiColon) {
		test.AddChild(p.withNoIn(false, p.parseExpression))
	}
	node.AddChild(p.finishNode(test))
	p.expect(TokenSemiColon)

	update := p.startNode(KindForUpdate)
	if !p.check(TokenCloseParen) {
		update.AddChild(p.withNoIn(false, p.parseExpression))
	}
	node.AddChild(p.finishNode(update))
	p.expect(TokenCloseParen)

	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) parseForInOfRest(node, init *Node) *Node {
	isOf := p.isContextual("of")
	if isOf {
		node.Kind = KindForOfStatement
	} else {
		node.Kind = KindForInStatement
		if node.Flags.Has(FlagAwait) {
			p.fail("for await requires 'of'")
		}
	}

	if init.Kind == KindVariableStatement {
		if len(init.Children) != 1 {
			p.failAt(init, "only one binding is allowed in a for-in or for-of head")
		}
		node.AddChild(init)
	} else {
		node.AddChild(p.toAssignable(init))
	}
	p.advance()

	if isOf {
		node.AddChild(p.withNoIn(false, p.parseAssignment))
	} else {
		node.AddChild(p.withNoIn(false, p.parseExpression))
	}
	p.expect(TokenCloseParen)
	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

// parseJumpStatement parses break and continue. The label only attaches
// when it is on the same line.
func (p *Parser) parseJumpStatement(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	if p.check(TokenIdentifier) && !p.newlineAhead() {
		node.AddChild(p.leaf(KindIdentifier, p.advance()))
	}
	p.eos()
	return p.finishNode(node)
}

// parseOperandStatement parses return and throw. A line terminator after the
// keyword ends the statement.
func (p *Parser) parseOperandStatement(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	if !p.newlineAhead() && !p.match(TokenSemiColon, TokenCloseBrace, TokenEOF) {
		node.AddChild(p.parseExpression())
	}
	p.eos()
	return p.finishNode(node)
}

func (p *Parser) parseWithStatement() *Node {
	node := p.startNode(KindWithStatement)
	p.expect(TokenWith)
	node.AddChild(p.parseParenthesizedCondition())
	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) parseSwitchStatement() *Node {
	node := p.startNode(KindSwitchStatement)
	p.expect(TokenSwitch)
	node.AddChild(p.parseParenthesizedCondition())
	p.expect(TokenOpenBrace)

	seenDefault := false
	for !p.match(TokenCloseBrace, TokenEOF) {
		var clause *Node
		switch p.peek().Kind {
		case TokenCase:
			clause = p.startNode(KindCaseClause)
			p.advance()
			clause.AddChild(p.withNoIn(false, p.parseExpression))
		case TokenDefault:
			if seenDefault {
				p.fail("more than one default clause in switch")
			}
			seenDefault = true
			clause = p.startNode(KindDefaultClause)
			p.advance()
		default:
			p.failExpected(TokenCase, TokenDefault)
		}
		p.expect(TokenColon)
		for !p.match(TokenCase, TokenDefault, TokenCloseBrace, TokenEOF) {
			clause.AddChild(p.parseStatementListItem())
		}
		node.AddChild(p.finishNode(clause))
	}

	p.expect(TokenCloseBrace)
	return p.finishNode(node)
}

func (p *Parser) parseLabelledStatement() *Node {
	node := p.startNode(KindLabelledStatement)
	node.AddChild(p.leaf(KindIdentifier, p.advance()))
	p.expect(TokenColon)
	if p.check(TokenFunction) {
		node.AddChild(p.parseFunction(KindFunctionDeclaration, false))
	} else {
		node.AddChild(p.parseStatement())
	}
	return p.finishNode(node)
}

func (p *Parser) parseTryStatement() *Node {
	node := p.startNode(KindTryStatement)
	p.expect(TokenTry)
	node.AddChild(p.parseBlock())

	if p.check(TokenCatch) {
		node.AddChild(p.parseCatchClause())
	}
	if p.check(TokenFinally) {
		clause := p.startNode(KindFinallyClause)
		p.advance()
		clause.AddChild(p.parseBlock())
		node.AddChild(p.finishNode(clause))
	}
	if len(node.Children) < 2 {
		p.failExpected(TokenCatch, TokenFinally)
	}
	return p.finishNode(node)
}

// parseCatchClause accepts catch without a binding, and a binding with or
// without parentheses. An unparenthesized '{' always starts the block.
func (p *Parser) parseCatchClause() *Node {
	node := p.startNode(KindCatchClause)
	p.expect(TokenCatch)
	switch {
	case p.accept(TokenOpenParen) != nil:
		node.AddChild(p.parseBindingTarget())
		p.expect(TokenCloseParen)
	case p.match(TokenIdentifier, TokenOpenBracket):
		node.AddChild(p.parseBindingTarget())
	}
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) isAsyncFunction() bool {
	return p.isContextual("async") && p.peekN(1).Kind == TokenFunction && !p.newlineAheadN(1)
}

// parseFunction parses a function declaration or expression, including the
// async and generator forms. nameOptional allows an anonymous declaration
// after export default.
func (p *Parser) parseFunction(kind NodeKind, nameOptional bool) *Node {
	node := p.startNode(kind)
	if p.isContextual("async") {
		p.advance()
		node.Flags |= FlagAsync
	}
	p.expect(TokenFunction)
	if p.accept(TokenMultiply) != nil {
		node.Flags |= FlagGenerator
	}

	if p.isBindingIdentifier() {
		node.AddChild(p.parseBindingIdentifier())
	} else if kind == KindFunctionDeclaration && !nameOptional {
		p.fail("function name expected", TokenIdentifier)
	}

	node.AddChild(p.parseFormalParameters())
	node.AddChild(p.parseFunctionBody())
	return p.finishNode(node)
}

func (p *Parser) parseFormalParameters() *Node {
	node := p.startNode(KindFormalParameters)
	p.expect(TokenOpenParen)
	for !p.check(TokenCloseParen) {
		if p.check(TokenEllipsis) {
			node.AddChild(p.parseRestElement())
			break
		}
		node.AddChild(p.parseBindingElement())
		if !p.check(TokenCloseParen) {
			p.expect(TokenComma)
		}
	}
	p.expect(TokenCloseParen)
	return p.finishNode(node)
}

func (p *Parser) parseFunctionBody() *Node {
	node := p.startNode(KindFunctionBody)
	p.expect(TokenOpenBrace)
	p.withNoIn(false, func() *Node {
		for !p.match(TokenCloseBrace, TokenEOF) {
			node.AddChild(p.parseStatementListItem())
		}
		return node
	})
	p.expect(TokenCloseBrace)
	return p.finishNode(node)
}

func (p *Parser) parseClass(kind NodeKind, nameOptional bool) *Node {
	node := p.startNode(kind)
	p.expect(TokenClass)

	if p.isBindingIdentifier() {
		node.AddChild(p.parseBindingIdentifier())
	} else if kind == KindClassDeclaration && !nameOptional {
		p.fail("class name expected", TokenIdentifier)
	}

	if p.check(TokenExtends) {
		heritage := p.startNode(KindClassHeritage)
		p.advance()
		heritage.AddChild(p.parseLeftHandSide())
		node.AddChild(p.finishNode(heritage))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseClassBody() *Node {
	node := p.startNode(KindClassBody)
	p.expect(TokenOpenBrace)
	for !p.match(TokenCloseBrace, TokenEOF) {
		if p.accept(TokenSemiColon) != nil {
			continue
		}
		node.AddChild(p.parseClassMember())
	}
	p.expect(TokenCloseBrace)
	return p.finishNode(node)
}

func (p *Parser) parseClassMember() *Node {
	node := p.startNode(KindMethodDefinition)

	if p.isStaticModifier() {
		static := p.advance()
		node.Token = &static
		node.Flags |= FlagStatic
		if p.check(TokenOpenBrace) {
			// static initialization block
			node.Kind = KindBlock
			block := p.parseBlock()
			node.Children = nil
			for _, child := range block.Children {
				node.AddChild(child)
			}
			return p.finishNode(node)
		}
	}
	p.parseMethodModifiers(node)

	node.AddChild(p.parsePropertyName(node, true))

	if p.check(TokenOpenParen) {
		node.AddChild(p.parseFormalParameters())
		node.AddChild(p.parseFunctionBody())
		return p.finishNode(node)
	}

	if node.Flags&(FlagAsync|FlagGenerator|FlagGetter|FlagSetter) != 0 {
		p.failExpected(TokenOpenParen)
	}
	node.Kind = KindFieldDefinition
	if p.accept(TokenAssign) != nil {
		node.AddChild(p.withNoIn(false, p.parseAssignment))
	}
	p.eos()
	return p.finishNode(node)
}

// parseMethodModifiers consumes async, '*' and get/set in front of a method
// name in a class body or object literal.
func (p *Parser) parseMethodModifiers(node *Node) {
	if next := p.peekN(1).Kind; p.isContextual("async") && !p.newlineAheadN(1) &&
		(next == TokenMultiply || p.startsPropertyName(next)) {
		p.advance()
		node.Flags |= FlagAsync
	}
	if p.accept(TokenMultiply) != nil {
		node.Flags |= FlagGenerator
		return
	}
	if node.Flags.Has(FlagAsync) {
		return
	}
	if (p.isContextual("get") || p.isContextual("set")) && p.startsPropertyName(p.peekN(1).Kind) {
		if p.advance().Text() == "get" {
			node.Flags |= FlagGetter
		} else {
			node.Flags |= FlagSetter
		}
	}
}

// isStaticModifier recognizes static by kind in strict mode and by lexeme
// otherwise, unless it is itself the member name.
func (p *Parser) isStaticModifier() bool {
	if !p.check(TokenStatic) && !p.isContextual("static") {
		return false
	}
	switch p.peekN(1).Kind {
	case TokenOpenParen, TokenAssign, TokenSemiColon, TokenCloseBrace:
		return false
	}
	return true
}

func (p *Parser) startsPropertyName(kind TokenKind) bool {
	switch kind {
	case TokenOpenBracket, TokenHashtag, TokenStringLiteral:
		return true
	}
	return kind == TokenIdentifier || kind.IsKeyword() || kind.IsNumeric() || kind.IsBigInt()
}

func (p *Parser) parseImportStatement() *Node {
	node := p.startNode(KindImportStatement)
	p.expect(TokenImport)

	if p.check(TokenStringLiteral) {
		node.AddChild(p.leaf(KindLiteral, p.advance()))
		p.eos()
		return p.finishNode(node)
	}

	needClause := true
	if p.isBindingIdentifier() {
		node.AddChild(p.parseBindingIdentifier())
		needClause = p.accept(TokenComma) != nil
	}

	if needClause {
		switch {
		case p.check(TokenMultiply):
			ns := p.startNode(KindImportNamespace)
			p.advance()
			p.expectContextual("as")
			ns.AddChild(p.parseBindingIdentifier())
			node.AddChild(p.finishNode(ns))
		case p.check(TokenOpenBrace):
			node.AddChild(p.parseModuleSpecifiers(KindNamedImports, KindImportSpecifier))
		default:
			p.failExpected(TokenMultiply, TokenOpenBrace)
		}
	}

	p.expectContextual("from")
	node.AddChild(p.leaf(KindLiteral, *p.expect(TokenStringLiteral)))
	p.eos()
	return p.finishNode(node)
}

// parseModuleSpecifiers parses "{ a, b as c }" for both imports and exports.
func (p *Parser) parseModuleSpecifiers(listKind, specKind NodeKind) *Node {
	list := p.startNode(listKind)
	p.expect(TokenOpenBrace)
	for !p.check(TokenCloseBrace) {
		spec := p.startNode(specKind)
		spec.AddChild(p.parseIdentifierName())
		if p.isContextual("as") {
			p.advance()
			spec.AddChild(p.parseIdentifierName())
		}
		list.AddChild(p.finishNode(spec))
		if !p.check(TokenCloseBrace) {
			p.expect(TokenComma)
		}
	}
	p.expect(TokenCloseBrace)
	return p.finishNode(list)
}

func (p *Parser) parseExportStatement() *Node {
	node := p.startNode(KindExportStatement)
	p.expect(TokenExport)

	switch {
	case p.accept(TokenDefault) != nil:
		node.Flags |= FlagDefault
		switch {
		case p.check(TokenFunction) || p.isAsyncFunction():
			node.AddChild(p.parseFunction(KindFunctionDeclaration, true))
		case p.check(TokenClass):
			node.AddChild(p.parseClass(KindClassDeclaration, true))
		default:
			node.AddChild(p.parseAssignment())
			p.eos()
		}
	case p.check(TokenMultiply):
		ns := p.startNode(KindExportNamespace)
		p.advance()
		if p.isContextual("as") {
			p.advance()
			ns.AddChild(p.parseIdentifierName())
		}
		node.AddChild(p.finishNode(ns))
		p.expectContextual("from")
		node.AddChild(p.leaf(KindLiteral, *p.expect(TokenStringLiteral)))
		p.eos()
	case p.check(TokenOpenBrace):
		node.AddChild(p.parseModuleSpecifiers(KindNamedExports, KindExportSpecifier))
		if p.isContextual("from") {
			p.advance()
			node.AddChild(p.leaf(KindLiteral, *p.expect(TokenStringLiteral)))
		}
		p.eos()
	case p.match(TokenVar, TokenConst, TokenLet):
		node.AddChild(p.parseVariableStatement())
	case p.check(TokenFunction) || p.isAsyncFunction():
		node.AddChild(p.parseFunction(KindFunctionDeclaration, false))
	case p.check(TokenClass):
		node.AddChild(p.parseClass(KindClassDeclaration, false))
	default:
		p.failExpected(TokenDefault, TokenMultiply, TokenOpenBrace, TokenVar, TokenFunction, TokenClass)
	}

	return p.finishNode(node)
}

func (p *Parser) parseQuerySelectStatement() *Node {
	node := p.startNode(KindQuerySelectStatement)
	node.AddChild(p.parseQueryExpression())
	p.eos()
	return p.finishNode(node)
}
