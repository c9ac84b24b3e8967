package parser

func (p *Parser) isBindingIdentifier() bool {
	return p.check(TokenIdentifier)
}

func (p *Parser) parseBindingIdentifier() *Node {
	tok := p.peek()
	if tok.Kind != TokenIdentifier {
		if tok.Kind.IsStrictReserved() {
			p.fail("'" + tok.Literal + "' is a reserved word in strict mode")
		}
		p.fail("identifier expected", TokenIdentifier)
	}
	return p.leaf(KindIdentifier, p.advance())
}

// parseBindingTarget parses the target of a declaration, parameter or catch
// binding: an identifier or a destructuring pattern.
func (p *Parser) parseBindingTarget() *Node {
	switch p.peek().Kind {
	case TokenOpenBracket:
		return p.parseArrayBindingPattern()
	case TokenOpenBrace:
		return p.parseObjectBindingPattern()
	}
	return p.parseBindingIdentifier()
}

// parseBindingElement parses a binding target with an optional default.
func (p *Parser) parseBindingElement() *Node {
	target := p.parseBindingTarget()
	if !p.check(TokenAssign) {
		return target
	}
	p.advance()
	node := p.startNodeAt(KindAssignmentPattern, target)
	node.AddChild(p.withNoIn(false, p.parseAssignment))
	return p.finishNode(node)
}

func (p *Parser) parseRestElement() *Node {
	node := p.startNode(KindRestElement)
	p.expect(TokenEllipsis)
	node.AddChild(p.parseBindingTarget())
	return p.finishNode(node)
}

func (p *Parser) parseArrayBindingPattern() *Node {
	node := p.startNode(KindArrayPattern)
	p.expect(TokenOpenBracket)
	for !p.check(TokenCloseBracket) {
		if p.check(TokenComma) {
			hole := p.startNode(KindElision)
			p.advance()
			node.AddChild(p.finishNode(hole))
			continue
		}
		if p.check(TokenEllipsis) {
			node.AddChild(p.parseRestElement())
			break
		}
		node.AddChild(p.parseBindingElement())
		if !p.check(TokenCloseBracket) {
			p.expect(TokenComma)
		}
	}
	p.expect(TokenCloseBracket)
	return p.finishNode(node)
}

func (p *Parser) parseObjectBindingPattern() *Node {
	node := p.startNode(KindObjectPattern)
	p.expect(TokenOpenBrace)
	for !p.check(TokenCloseBrace) {
		if p.check(TokenEllipsis) {
			rest := p.startNode(KindRestElement)
			p.advance()
			rest.AddChild(p.parseBindingIdentifier())
			node.AddChild(p.finishNode(rest))
			break
		}
		node.AddChild(p.parseBindingProperty())
		if !p.check(TokenCloseBrace) {
			p.expect(TokenComma)
		}
	}
	p.expect(TokenCloseBrace)
	return p.finishNode(node)
}

func (p *Parser) parseBindingProperty() *Node {
	node := p.startNode(KindProperty)
	key := p.parsePropertyName(node, false)

	if p.accept(TokenColon) != nil {
		node.AddChild(key)
		node.AddChild(p.parseBindingElement())
		return p.finishNode(node)
	}

	if key.Kind != KindIdentifier || node.Flags.Has(FlagComputed) || key.Token.Kind != TokenIdentifier {
		p.failExpected(TokenColon)
	}
	node.Flags |= FlagShorthand
	if p.check(TokenAssign) {
		p.advance()
		def := p.startNodeAt(KindAssignmentPattern, key)
		def.AddChild(p.withNoIn(false, p.parseAssignment))
		key = p.finishNode(def)
	}
	node.AddChild(key)
	return p.finishNode(node)
}

// toAssignable reinterprets an expression already parsed as the left side of
// '=' or a for-in/of head. Array and object literals become patterns.
func (p *Parser) toAssignable(n *Node) *Node {
	switch n.Kind {
	case KindIdentifier:
		if n.Token.Kind != TokenIdentifier {
			p.failAt(n, "invalid assignment target")
		}
		return n
	case KindMemberExpression:
		if n.Flags.Has(FlagOptional) {
			p.failAt(n, "optional chain is not a valid assignment target")
		}
		return n
	case KindParenthesizedExpression:
		p.checkSimpleTarget(n)
		return n
	case KindArrayLiteral:
		n.Kind = KindArrayPattern
		for i, child := range n.Children {
			switch child.Kind {
			case KindElision:
			case KindSpreadElement:
				if i != len(n.Children)-1 {
					p.failAt(child, "rest element must be last")
				}
				child.Kind = KindRestElement
				child.Children[0] = p.toAssignable(child.Children[0])
			default:
				n.Children[i] = p.toAssignableElement(child)
			}
		}
		linkParents(n)
		return n
	case KindObjectLiteral:
		n.Kind = KindObjectPattern
		for i, child := range n.Children {
			switch child.Kind {
			case KindProperty:
				if !child.Flags.Has(FlagShorthand) {
					child.Children[1] = p.toAssignableElement(child.Children[1])
				}
			case KindSpreadElement:
				if i != len(n.Children)-1 {
					p.failAt(child, "rest element must be last")
				}
				child.Kind = KindRestElement
				child.Children[0] = p.toAssignable(child.Children[0])
			default:
				p.failAt(child, "invalid destructuring target")
			}
		}
		linkParents(n)
		return n
	case KindAssignmentPattern:
		return n
	}
	p.failAt(n, "invalid assignment target")
	return nil
}

// toAssignableElement converts a pattern element, where "x = 1" is a
// default value rather than an assignment.
func (p *Parser) toAssignableElement(n *Node) *Node {
	if n.Kind == KindAssignmentExpression && n.Token.Kind == TokenAssign {
		n.Kind = KindAssignmentPattern
		n.Token = nil
		n.Children[0] = p.toAssignable(n.Children[0])
		return n
	}
	return p.toAssignable(n)
}
