package parser

// isSelectStart reports whether the cursor sits on a query that starts with
// select. "select *" and "select name" always commit to the query grammar.
func (p *Parser) isSelectStart() bool {
	if !p.isContextual("select") {
		return false
	}
	next := p.peekN(1).Kind
	return next == TokenMultiply || next == TokenIdentifier
}

// parseQueryExpression parses a query specification or parenthesized query
// followed by any number of union clauses, chained left to right.
func (p *Parser) parseQueryExpression() *Node {
	node := p.startNode(KindQueryExpression)
	node.AddChild(p.parseQueryPrimary())
	for p.isContextual("union") {
		union := p.startNode(KindUnionClause)
		p.advance()
		if p.isContextual("all") {
			p.advance()
			union.Flags |= FlagAll
		}
		union.AddChild(p.parseQueryPrimary())
		node.AddChild(p.finishNode(union))
	}
	return p.finishNode(node)
}

func (p *Parser) parseQueryPrimary() *Node {
	if !p.check(TokenOpenParen) {
		return p.parseQuerySpecification()
	}
	node := p.startNode(KindParenthesizedExpression)
	p.advance()
	node.AddChild(p.withNoIn(false, p.parseQueryExpression))
	p.expect(TokenCloseParen)
	return p.finishNode(node)
}

func (p *Parser) parseQuerySpecification() *Node {
	node := p.startNode(KindQuerySpecification)

	if p.isContextual("using") {
		bind := p.startNode(KindBindClause)
		p.advance()
		bind.AddChild(p.parseAssignment())
		node.AddChild(p.finishNode(bind))
	}

	p.expectContextual("select")
	node.AddChild(p.parseSelectList())

	if p.isContextual("within") {
		within := p.startNode(KindWithinClause)
		p.advance()
		within.AddChild(p.parseAssignment())
		for p.accept(TokenComma) != nil {
			within.AddChild(p.parseAssignment())
		}
		node.AddChild(p.finishNode(within))
	}

	if p.isContextual("from") {
		from := p.startNode(KindFromClause)
		p.advance()
		p.parseDataSources(from)
		node.AddChild(p.finishNode(from))
	}

	if p.isContextual("where") {
		where := p.startNode(KindWhereClause)
		p.advance()
		where.AddChild(p.parseAssignment())
		node.AddChild(p.finishNode(where))
	}

	if p.isContextual("produce") {
		produce := p.startNode(KindProduceClause)
		p.advance()
		produce.AddChild(p.parseAssignment())
		node.AddChild(p.finishNode(produce))
	}

	return p.finishNode(node)
}

func (p *Parser) parseSelectList() *Node {
	list := p.startNode(KindSelectList)
	for {
		list.AddChild(p.parseSelectElement())
		if p.accept(TokenComma) == nil {
			break
		}
	}
	return p.finishNode(list)
}

// parseSelectElement parses '*', or an identifier or call projection with an
// optional alias.
func (p *Parser) parseSelectElement() *Node {
	if p.check(TokenMultiply) {
		return p.leaf(KindSelectStar, p.advance())
	}
	node := p.startNode(KindSelectElement)
	expr := p.parseLeftHandSide()
	if expr.Kind != KindIdentifier && expr.Kind != KindCallExpression {
		p.failAt(expr, "select element must be an identifier or a call")
	}
	node.AddChild(expr)
	if p.isContextual("as") {
		p.advance()
		node.AddChild(p.parseIdentifierName())
	}
	return p.finishNode(node)
}

// parseDataSources appends comma separated data sources to owner.
func (p *Parser) parseDataSources(owner *Node) {
	for {
		owner.AddChild(p.parseDataSource())
		if p.accept(TokenComma) == nil {
			return
		}
	}
}

// parseDataSource parses an item with its using clause and joins, optionally
// wrapped in parentheses. "(select" and "(using" open a subquery item
// instead.
func (p *Parser) parseDataSource() *Node {
	if p.check(TokenOpenParen) && !p.startsSubquery(1) {
		node := p.startNode(KindDataSource)
		p.advance()
		node.Flags |= FlagParenthesized
		p.parseJoinedItem(node)
		p.expect(TokenCloseParen)
		return p.finishNode(node)
	}
	node := p.startNode(KindDataSource)
	p.parseJoinedItem(node)
	return p.finishNode(node)
}

func (p *Parser) startsSubquery(n int) bool {
	return p.isContextualN(n, "select") || p.isContextualN(n, "using")
}

func (p *Parser) parseJoinedItem(node *Node) {
	node.AddChild(p.parseDataSourceItem())

	if p.isContextual("using") {
		using := p.startNode(KindUsingSourceClause)
		p.advance()
		if p.check(TokenOpenBrace) {
			using.AddChild(p.parseQueryObjectLiteral())
		} else {
			using.AddChild(p.parseAssignment())
		}
		node.AddChild(p.finishNode(using))
	}

	for p.isContextual("join") {
		node.AddChild(p.parseJoinClause())
	}
}

func (p *Parser) parseDataSourceItem() *Node {
	switch {
	case p.check(TokenURL):
		return p.leaf(KindLiteral, p.advance())
	case p.check(TokenOpenParen):
		node := p.startNode(KindParenthesizedExpression)
		p.advance()
		node.AddChild(p.withNoIn(false, p.parseQueryExpression))
		p.expect(TokenCloseParen)
		return p.finishNode(node)
	}
	expr := p.parseLeftHandSide()
	if expr.Kind != KindIdentifier && expr.Kind != KindCallExpression {
		p.failAt(expr, "data source must be an identifier, a call, a URL or a subquery")
	}
	return expr
}

// parseJoinClause parses "join sources [on left = right]". The operands of
// the condition bind tighter than equality so the '=' or '==' between them
// is not consumed as an operator.
func (p *Parser) parseJoinClause() *Node {
	node := p.startNode(KindJoinClause)
	p.expectContextual("join")
	p.parseDataSources(node)

	if p.isContextual("on") {
		cond := p.startNode(KindJoinCondition)
		p.advance()
		cond.AddChild(p.parseBinary(precRelational))
		if !p.match(TokenAssign, TokenEquals) {
			p.failExpected(TokenAssign, TokenEquals)
		}
		op := p.advance()
		cond.Token = &op
		cond.AddChild(p.parseBinary(precRelational))
		node.AddChild(p.finishNode(cond))
	}
	return p.finishNode(node)
}

// parseQueryObjectLiteral parses the configuration object of a using clause.
// Keys may be any identifier name, keywords included.
func (p *Parser) parseQueryObjectLiteral() *Node {
	node := p.startNode(KindQueryObjectLiteral)
	p.expect(TokenOpenBrace)
	p.withNoIn(false, func() *Node {
		for !p.check(TokenCloseBrace) {
			prop := p.startNode(KindProperty)
			switch kind := p.peek().Kind; {
			case kind == TokenStringLiteral || kind.IsNumeric():
				prop.AddChild(p.leaf(KindLiteral, p.advance()))
			default:
				prop.AddChild(p.parseIdentifierName())
			}
			p.expect(TokenColon)
			prop.AddChild(p.parseAssignment())
			node.AddChild(p.finishNode(prop))
			if !p.check(TokenCloseBrace) {
				p.expect(TokenComma)
			}
		}
		return node
	})
	p.expect(TokenCloseBrace)
	return p.finishNode(node)
}
