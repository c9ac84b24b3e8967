package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota

	// Program level
	KindProgram
	KindHashBang

	// Statements
	KindBlock
	KindEmptyStatement
	KindExpressionStatement
	KindVariableStatement
	KindVariableDeclaration
	KindIfStatement
	KindDoStatement
	KindWhileStatement
	KindForStatement
	KindForInit
	KindForTest
	KindForUpdate
	KindForInStatement
	KindForOfStatement
	KindContinueStatement
	KindBreakStatement
	KindReturnStatement
	KindWithStatement
	KindSwitchStatement
	KindCaseClause
	KindDefaultClause
	KindLabelledStatement
	KindThrowStatement
	KindTryStatement
	KindCatchClause
	KindFinallyClause
	KindDebuggerStatement

	// Modules
	KindImportStatement
	KindImportNamespace
	KindNamedImports
	KindImportSpecifier
	KindExportStatement
	KindExportNamespace
	KindNamedExports
	KindExportSpecifier

	// Functions and classes
	KindFunctionDeclaration
	KindFunctionExpression
	KindArrowFunction
	KindFormalParameters
	KindFunctionBody
	KindClassDeclaration
	KindClassExpression
	KindClassHeritage
	KindClassBody
	KindMethodDefinition
	KindFieldDefinition
	KindPrivateName

	// Expressions
	KindIdentifier
	KindThis
	KindSuper
	KindLiteral
	KindTemplateLiteral
	KindTemplateElement
	KindTaggedTemplate
	KindArrayLiteral
	KindElision
	KindSpreadElement
	KindObjectLiteral
	KindProperty
	KindParenthesizedExpression
	KindSequenceExpression
	KindAssignmentExpression
	KindConditionalExpression
	KindBinaryExpression
	KindUnaryExpression
	KindAwaitExpression
	KindUpdateExpression
	KindYieldExpression
	KindCallExpression
	KindArguments
	KindMemberExpression
	KindNewExpression
	KindMetaProperty
	KindImportCall

	// Patterns
	KindArrayPattern
	KindObjectPattern
	KindAssignmentPattern
	KindRestElement

	// Query sublanguage
	KindQuerySelectStatement
	KindQueryExpression
	KindUnionClause
	KindQuerySpecification
	KindBindClause
	KindSelectList
	KindSelectElement
	KindSelectStar
	KindWithinClause
	KindFromClause
	KindDataSource
	KindUsingSourceClause
	KindQueryObjectLiteral
	KindJoinClause
	KindJoinCondition
	KindWhereClause
	KindProduceClause
)

var nodeKindNames = map[NodeKind]string{
	KindError:                   "Error",
	KindProgram:                 "Program",
	KindHashBang:                "HashBang",
	KindBlock:                   "Block",
	KindEmptyStatement:          "EmptyStatement",
	KindExpressionStatement:     "ExpressionStatement",
	KindVariableStatement:       "VariableStatement",
	KindVariableDeclaration:     "VariableDeclaration",
	KindIfStatement:             "IfStatement",
	KindDoStatement:             "DoStatement",
	KindWhileStatement:          "WhileStatement",
	KindForStatement:            "ForStatement",
	KindForInit:                 "ForInit",
	KindForTest:                 "ForTest",
	KindForUpdate:               "ForUpdate",
	KindForInStatement:          "ForInStatement",
	KindForOfStatement:          "ForOfStatement",
	KindContinueStatement:       "ContinueStatement",
	KindBreakStatement:          "BreakStatement",
	KindReturnStatement:         "ReturnStatement",
	KindWithStatement:           "WithStatement",
	KindSwitchStatement:         "SwitchStatement",
	KindCaseClause:              "CaseClause",
	KindDefaultClause:           "DefaultClause",
	KindLabelledStatement:       "LabelledStatement",
	KindThrowStatement:          "ThrowStatement",
	KindTryStatement:            "TryStatement",
	KindCatchClause:             "CatchClause",
	KindFinallyClause:           "FinallyClause",
	KindDebuggerStatement:       "DebuggerStatement",
	KindImportStatement:         "ImportStatement",
	KindImportNamespace:         "ImportNamespace",
	KindNamedImports:            "NamedImports",
	KindImportSpecifier:         "ImportSpecifier",
	KindExportStatement:         "ExportStatement",
	KindExportNamespace:         "ExportNamespace",
	KindNamedExports:            "NamedExports",
	KindExportSpecifier:         "ExportSpecifier",
	KindFunctionDeclaration:     "FunctionDeclaration",
	KindFunctionExpression:      "FunctionExpression",
	KindArrowFunction:           "ArrowFunction",
	KindFormalParameters:        "FormalParameters",
	KindFunctionBody:            "FunctionBody",
	KindClassDeclaration:        "ClassDeclaration",
	KindClassExpression:         "ClassExpression",
	KindClassHeritage:           "ClassHeritage",
	KindClassBody:               "ClassBody",
	KindMethodDefinition:        "MethodDefinition",
	KindFieldDefinition:         "FieldDefinition",
	KindPrivateName:             "PrivateName",
	KindIdentifier:              "Identifier",
	KindThis:                    "This",
	KindSuper:                   "Super",
	KindLiteral:                 "Literal",
	KindTemplateLiteral:         "TemplateLiteral",
	KindTemplateElement:         "TemplateElement",
	KindTaggedTemplate:          "TaggedTemplate",
	KindArrayLiteral:            "ArrayLiteral",
	KindElision:                 "Elision",
	KindSpreadElement:           "SpreadElement",
	KindObjectLiteral:           "ObjectLiteral",
	KindProperty:                "Property",
	KindParenthesizedExpression: "ParenthesizedExpression",
	KindSequenceExpression:      "SequenceExpression",
	KindAssignmentExpression:    "AssignmentExpression",
	KindConditionalExpression:   "ConditionalExpression",
	KindBinaryExpression:        "BinaryExpression",
	KindUnaryExpression:         "UnaryExpression",
	KindAwaitExpression:         "AwaitExpression",
	KindUpdateExpression:        "UpdateExpression",
	KindYieldExpression:         "YieldExpression",
	KindCallExpression:          "CallExpression",
	KindArguments:               "Arguments",
	KindMemberExpression:        "MemberExpression",
	KindNewExpression:           "NewExpression",
	KindMetaProperty:            "MetaProperty",
	KindImportCall:              "ImportCall",
	KindArrayPattern:            "ArrayPattern",
	KindObjectPattern:           "ObjectPattern",
	KindAssignmentPattern:       "AssignmentPattern",
	KindRestElement:             "RestElement",
	KindQuerySelectStatement:    "QuerySelectStatement",
	KindQueryExpression:         "QueryExpression",
	KindUnionClause:             "UnionClause",
	KindQuerySpecification:      "QuerySpecification",
	KindBindClause:              "BindClause",
	KindSelectList:              "SelectList",
	KindSelectElement:           "SelectElement",
	KindSelectStar:              "SelectStar",
	KindWithinClause:            "WithinClause",
	KindFromClause:              "FromClause",
	KindDataSource:              "DataSource",
	KindUsingSourceClause:       "UsingSourceClause",
	KindQueryObjectLiteral:      "QueryObjectLiteral",
	KindJoinClause:              "JoinClause",
	KindJoinCondition:           "JoinCondition",
	KindWhereClause:             "WhereClause",
	KindProduceClause:           "ProduceClause",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// NodeFlags carries modifiers that do not get a node of their own.
type NodeFlags uint32

const (
	FlagAsync NodeFlags = 1 << iota
	FlagGenerator
	FlagStatic
	FlagGetter
	FlagSetter
	FlagComputed
	FlagOptional
	FlagShorthand
	FlagPrefix
	FlagDelegate
	FlagAll
	FlagDefault
	FlagAwait
	FlagParenthesized
)

var flagNames = []struct {
	flag NodeFlags
	name string
}{
	{FlagAsync, "async"},
	{FlagGenerator, "generator"},
	{FlagStatic, "static"},
	{FlagGetter, "get"},
	{FlagSetter, "set"},
	{FlagComputed, "computed"},
	{FlagOptional, "optional"},
	{FlagShorthand, "shorthand"},
	{FlagPrefix, "prefix"},
	{FlagDelegate, "delegate"},
	{FlagAll, "all"},
	{FlagDefault, "default"},
	{FlagAwait, "await"},
	{FlagParenthesized, "parenthesized"},
}

func (f NodeFlags) Has(flag NodeFlags) bool {
	return f&flag != 0
}

// Names lists the set flags in declaration order.
func (f NodeFlags) Names() []string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return names
}

func (f NodeFlags) String() string {
	return strings.Join(f.Names(), ",")
}

type Error struct {
	Message  string
	Expected []TokenKind
	Got      *Token
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	// Token is the identifying token of a leaf, or the operator, keyword or
	// modifier token of an interior node.
	Token *Token
	Flags NodeFlags
	Error *Error
	// Parent is set once the tree is complete. It does not own the parent.
	Parent *Node
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		child.Parent = n
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, fn)
	}
}

// Errors returns the error nodes in the tree in source order.
func (n *Node) Errors() []*Node {
	var errs []*Node
	Walk(n, func(c *Node) bool {
		if c.IsError() {
			errs = append(errs, c)
		}
		return true
	})
	return errs
}

func linkParents(n *Node) {
	for _, child := range n.Children {
		child.Parent = n
		linkParents(child)
	}
}

func (n *Node) String() string {
	var b strings.Builder
	n.writeIndent(&b, 0, false)
	return b.String()
}

func (n *Node) StringWithPositions() string {
	var b strings.Builder
	n.writeIndent(&b, 0, true)
	return b.String()
}

func (n *Node) writeIndent(b *strings.Builder, indent int, showPositions bool) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(n.Kind.String())
	if n.Flags != 0 {
		b.WriteString(" (" + n.Flags.String() + ")")
	}
	if showPositions {
		b.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		b.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		b.WriteString(" ERROR: " + n.Error.Message)
	}
	b.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(b, indent+1, showPositions)
	}
}
