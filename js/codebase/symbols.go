package codebase

import (
	"github.com/dhamidi/esq/js/parser"
)

type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolClass
	SymbolMethod
	SymbolProperty
	SymbolField
	SymbolVariable
	SymbolConstant
	SymbolQuery
)

var symbolKindNames = map[SymbolKind]string{
	SymbolFunction: "function",
	SymbolClass:    "class",
	SymbolMethod:   "method",
	SymbolProperty: "property",
	SymbolField:    "field",
	SymbolVariable: "variable",
	SymbolConstant: "constant",
	SymbolQuery:    "query",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Symbol is a top-level declaration, a class member or a query statement.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Detail   string
	Span     parser.Span
	NameSpan parser.Span
	Children []Symbol
}

// Symbols lists the declarations at the top level of a program.
func Symbols(root *parser.Node) []Symbol {
	var symbols []Symbol
	for _, child := range root.Children {
		symbols = appendSymbols(symbols, child)
	}
	return symbols
}

func appendSymbols(symbols []Symbol, n *parser.Node) []Symbol {
	switch n.Kind {
	case parser.KindExportStatement:
		for _, child := range n.Children {
			symbols = appendSymbols(symbols, child)
		}
	case parser.KindFunctionDeclaration:
		if name := n.FirstChildOfKind(parser.KindIdentifier); name != nil {
			symbols = append(symbols, Symbol{
				Name:     name.TokenLiteral(),
				Kind:     SymbolFunction,
				Detail:   n.Flags.String(),
				Span:     n.Span,
				NameSpan: name.Span,
			})
		}
	case parser.KindClassDeclaration:
		if name := n.FirstChildOfKind(parser.KindIdentifier); name != nil {
			symbols = append(symbols, Symbol{
				Name:     name.TokenLiteral(),
				Kind:     SymbolClass,
				Span:     n.Span,
				NameSpan: name.Span,
				Children: classMembers(n.FirstChildOfKind(parser.KindClassBody)),
			})
		}
	case parser.KindVariableStatement:
		kind := SymbolVariable
		if n.Token != nil && n.Token.Kind == parser.TokenConst {
			kind = SymbolConstant
		}
		for _, decl := range n.ChildrenOfKind(parser.KindVariableDeclaration) {
			for _, name := range bindingNames(decl.Child(0), nil) {
				symbols = append(symbols, Symbol{
					Name:     name.TokenLiteral(),
					Kind:     kind,
					Span:     decl.Span,
					NameSpan: name.Span,
				})
			}
		}
	case parser.KindQuerySelectStatement:
		symbols = append(symbols, Symbol{
			Name:     querySymbolName(n),
			Kind:     SymbolQuery,
			Span:     n.Span,
			NameSpan: n.Span,
		})
	}
	return symbols
}

func classMembers(body *parser.Node) []Symbol {
	if body == nil {
		return nil
	}
	var members []Symbol
	for _, member := range body.Children {
		var kind SymbolKind
		switch {
		case member.Kind == parser.KindFieldDefinition:
			kind = SymbolField
		case member.Kind != parser.KindMethodDefinition:
			continue
		case member.Flags.Has(parser.FlagGetter) || member.Flags.Has(parser.FlagSetter):
			kind = SymbolProperty
		default:
			kind = SymbolMethod
		}
		key := member.Child(0)
		if key == nil {
			continue
		}
		members = append(members, Symbol{
			Name:     memberName(member, key),
			Kind:     kind,
			Detail:   member.Flags.String(),
			Span:     member.Span,
			NameSpan: key.Span,
		})
	}
	return members
}

func memberName(member, key *parser.Node) string {
	switch {
	case member.Flags.Has(parser.FlagComputed):
		return "[computed]"
	case key.Token != nil:
		return key.Token.Text()
	}
	return key.Kind.String()
}

// bindingNames collects the identifiers a binding target declares.
func bindingNames(target *parser.Node, names []*parser.Node) []*parser.Node {
	if target == nil {
		return names
	}
	switch target.Kind {
	case parser.KindIdentifier:
		names = append(names, target)
	case parser.KindAssignmentPattern, parser.KindRestElement:
		names = bindingNames(target.Child(0), names)
	case parser.KindProperty:
		names = bindingNames(target.Child(len(target.Children)-1), names)
	case parser.KindArrayPattern, parser.KindObjectPattern:
		for _, child := range target.Children {
			names = bindingNames(child, names)
		}
	}
	return names
}

// querySymbolName names a query statement after its first data source.
func querySymbolName(stmt *parser.Node) string {
	var source *parser.Node
	parser.Walk(stmt, func(n *parser.Node) bool {
		if source != nil {
			return false
		}
		if n.Kind == parser.KindDataSource {
			source = n.Child(0)
			return false
		}
		return true
	})
	if source == nil || source.Token == nil {
		return "select"
	}
	return "select from " + source.Token.Text()
}
