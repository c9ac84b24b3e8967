package parser

import (
	"strings"
	"testing"
)

func querySpec(t *testing.T, stmt *Node) *Node {
	t.Helper()
	if stmt.Kind != KindQuerySelectStatement {
		t.Fatalf("got %v, want QuerySelectStatement", stmt.Kind)
	}
	query := stmt.Children[0]
	if query.Kind != KindQueryExpression {
		t.Fatalf("got %v, want QueryExpression", query.Kind)
	}
	return query.Children[0]
}

func TestSelectStatement(t *testing.T) {
	program := parseProgram(t, "select * from users where id = 1")
	spec := querySpec(t, program.Children[0])
	assertChildKinds(t, spec, KindSelectList, KindFromClause, KindWhereClause)
	assertChildKinds(t, spec.Children[0], KindSelectStar)
	assertChildKinds(t, spec.Children[1], KindDataSource)
	assertChildKinds(t, spec.Children[1].Children[0], KindIdentifier)
	if got := spec.Children[1].Children[0].Children[0].TokenLiteral(); got != "users" {
		t.Errorf("got source %q, want users", got)
	}
	if got := shape(spec.Children[2].Children[0]); got != "(id = 1)" {
		t.Errorf("got where %s, want (id = 1)", got)
	}
}

func TestSelectStatementTree(t *testing.T) {
	program := parseProgram(t, "select * from t;")
	want := `Program
  QuerySelectStatement
    QueryExpression
      QuerySpecification
        SelectList
          SelectStar *
        FromClause
          DataSource
            Identifier t
`
	if got := program.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestInlineQuery(t *testing.T) {
	program := parseProgram(t, "let x = (select * from users where id = 1);")
	assertChildKinds(t, program, KindVariableStatement)
	decl := program.Children[0].Children[0]
	assertChildKinds(t, decl, KindIdentifier, KindParenthesizedExpression)
	paren := decl.Children[1]
	assertChildKinds(t, paren, KindQueryExpression)
	assertChildKinds(t, paren.Children[0], KindQuerySpecification)
	assertChildKinds(t, paren.Children[0].Children[0], KindSelectList, KindFromClause, KindWhereClause)
}

func TestQueryAsOperand(t *testing.T) {
	tests := []struct {
		input string
		path  []NodeKind
	}{
		{"render(select name from people)", []NodeKind{KindExpressionStatement, KindCallExpression, KindArguments, KindQueryExpression}},
		{"const rows = using db select * from users;", []NodeKind{KindVariableStatement, KindVariableDeclaration, KindQueryExpression}},
		{"return select a from b", []NodeKind{KindReturnStatement, KindQueryExpression}},
		{"f(() => select a from b)", []NodeKind{KindExpressionStatement, KindCallExpression, KindArguments, KindArrowFunction, KindQueryExpression}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := parseProgram(t, tt.input)
			for _, kind := range tt.path {
				var next *Node
				for _, child := range node.Children {
					if child.Kind == kind {
						next = child
						break
					}
				}
				if next == nil {
					t.Fatalf("%v has no %v child: %v", node.Kind, kind, kinds(node.Children))
				}
				node = next
			}
		})
	}
}

func TestQueryClauses(t *testing.T) {
	input := "select a as x, count(b) as n within w1, w2 " +
		"from https://api.example.com/users using {timeout: 5, default: true} " +
		"join orders on a.id == orders.uid " +
		"where x > 1 produce {a, n}"
	spec := querySpec(t, parseProgram(t, input).Children[0])
	assertChildKinds(t, spec, KindSelectList, KindWithinClause, KindFromClause, KindWhereClause, KindProduceClause)

	list := spec.Children[0]
	assertChildKinds(t, list, KindSelectElement, KindSelectElement)
	assertChildKinds(t, list.Children[0], KindIdentifier, KindIdentifier)
	assertChildKinds(t, list.Children[1], KindCallExpression, KindIdentifier)
	if got := list.Children[1].Children[1].TokenLiteral(); got != "n" {
		t.Errorf("got alias %q, want n", got)
	}

	assertChildKinds(t, spec.Children[1], KindIdentifier, KindIdentifier)

	source := spec.Children[2].Children[0]
	assertChildKinds(t, source, KindLiteral, KindUsingSourceClause, KindJoinClause)
	if got := source.Children[0].Token.Kind; got != TokenURL {
		t.Errorf("got %v, want Url", got)
	}
	config := source.Children[1].Children[0]
	if config.Kind != KindQueryObjectLiteral {
		t.Fatalf("got %v, want QueryObjectLiteral", config.Kind)
	}
	assertChildKinds(t, config, KindProperty, KindProperty)
	if got := config.Children[1].Children[0].TokenLiteral(); got != "default" {
		t.Errorf("got key %q, want default", got)
	}

	join := source.Children[2]
	assertChildKinds(t, join, KindDataSource, KindJoinCondition)
	cond := join.Children[1]
	if cond.TokenLiteral() != "==" {
		t.Errorf("got join operator %q, want ==", cond.TokenLiteral())
	}
	if got := shape(cond.Children[0]) + " " + shape(cond.Children[1]); got != "a.id orders.uid" {
		t.Errorf("got join operands %s", got)
	}

	assertChildKinds(t, spec.Children[4], KindObjectLiteral)
}

func TestQueryBindClause(t *testing.T) {
	spec := querySpec(t, parseProgram(t, "using ctx select a from b").Children[0])
	assertChildKinds(t, spec, KindBindClause, KindSelectList, KindFromClause)
	assertChildKinds(t, spec.Children[0], KindIdentifier)
}

func TestQueryUnion(t *testing.T) {
	program := parseProgram(t, "select a from b union all select a from c union (select a from d)")
	query := program.Children[0].Children[0]
	assertChildKinds(t, query, KindQuerySpecification, KindUnionClause, KindUnionClause)
	if !query.Children[1].Flags.Has(FlagAll) {
		t.Error("first union should be 'all'")
	}
	if query.Children[2].Flags.Has(FlagAll) {
		t.Error("second union should not be 'all'")
	}
	assertChildKinds(t, query.Children[2], KindParenthesizedExpression)
	assertChildKinds(t, query.Children[2].Children[0], KindQueryExpression)

	t.Run("parenthesized first operand", func(t *testing.T) {
		program := parseProgram(t, "(select * from a) union (select * from b)")
		assertChildKinds(t, program, KindQuerySelectStatement)
		query := program.Children[0].Children[0]
		assertChildKinds(t, query, KindParenthesizedExpression, KindUnionClause)
		assertChildKinds(t, query.Children[1], KindParenthesizedExpression)
	})

	t.Run("parenthesized query used as an expression", func(t *testing.T) {
		program := parseProgram(t, "(select * from a).length;")
		assertChildKinds(t, program, KindExpressionStatement)
	})
}

func TestQueryDataSources(t *testing.T) {
	t.Run("subquery and identifier", func(t *testing.T) {
		spec := querySpec(t, parseProgram(t, "select * from (select a from b), c").Children[0])
		from := spec.Children[1]
		assertChildKinds(t, from, KindDataSource, KindDataSource)
		assertChildKinds(t, from.Children[0], KindParenthesizedExpression)
		if from.Children[0].Flags.Has(FlagParenthesized) {
			t.Error("subquery source should not be a parenthesized join")
		}
	})

	t.Run("parenthesized join", func(t *testing.T) {
		spec := querySpec(t, parseProgram(t, "select * from (a join b on a.x = b.y)").Children[0])
		source := spec.Children[1].Children[0]
		if !source.Flags.Has(FlagParenthesized) {
			t.Error("expected parenthesized flag")
		}
		assertChildKinds(t, source, KindIdentifier, KindJoinClause)
		if got := source.Children[1].Children[1].TokenLiteral(); got != "=" {
			t.Errorf("got join operator %q, want =", got)
		}
	})

	t.Run("call source with using expression", func(t *testing.T) {
		spec := querySpec(t, parseProgram(t, "select * from fetch('/api') using opts").Children[0])
		source := spec.Children[1].Children[0]
		assertChildKinds(t, source, KindCallExpression, KindUsingSourceClause)
		assertChildKinds(t, source.Children[1], KindIdentifier)
	})

	t.Run("join list", func(t *testing.T) {
		spec := querySpec(t, parseProgram(t, "select * from a join b, c join d").Children[0])
		source := spec.Children[1].Children[0]
		assertChildKinds(t, source, KindIdentifier, KindJoinClause)
		assertChildKinds(t, source.Children[1], KindDataSource, KindDataSource)
	})
}

func TestQueryFallback(t *testing.T) {
	tests := []struct {
		input string
		kind  NodeKind
	}{
		{"using + 1", KindBinaryExpression},
		{"using(x)", KindCallExpression},
		{"select(1)", KindCallExpression},
		{"select", KindIdentifier},
		{"using ? a : b", KindConditionalExpression},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseExpr(t, tt.input).Kind; got != tt.kind {
				t.Errorf("got %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestQueryErrors(t *testing.T) {
	tests := []string{
		"select * from 1",
		"select a + b from c",
		"select * from a join b on a.x",
		"select * from a join b on a.x < b.y",
		"select a from (b",
		"using x select",
		"select a from b union",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseProgram(strings.NewReader(input)).Finish(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
