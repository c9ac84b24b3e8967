package parser

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNodeFlags(t *testing.T) {
	tests := []struct {
		flags NodeFlags
		want  string
	}{
		{0, ""},
		{FlagAsync, "async"},
		{FlagAsync | FlagGenerator, "async,generator"},
		{FlagStatic | FlagGetter, "static,get"},
		{FlagParenthesized, "parenthesized"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.flags.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNodeKindString(t *testing.T) {
	if got := KindQuerySpecification.String(); got != "QuerySpecification" {
		t.Errorf("got %q", got)
	}
	if got := NodeKind(-1).String(); got != "Unknown" {
		t.Errorf("got %q, want Unknown", got)
	}
	for kind := KindError; kind <= KindProduceClause; kind++ {
		if kind.String() == "Unknown" {
			t.Errorf("node kind %d has no name", int(kind))
		}
	}
}

func TestNodeNavigation(t *testing.T) {
	program := parseProgram(t, "f(1, 2); g();")
	if program.Child(5) != nil || program.Child(-1) != nil {
		t.Error("out of range Child should be nil")
	}
	var nilNode *Node
	if nilNode.Child(0) != nil {
		t.Error("Child on nil node should be nil")
	}

	call := program.Child(0).FirstChildOfKind(KindCallExpression)
	if call == nil {
		t.Fatal("no call expression")
	}
	args := call.FirstChildOfKind(KindArguments)
	if got := len(args.ChildrenOfKind(KindLiteral)); got != 2 {
		t.Errorf("got %d literal arguments, want 2", got)
	}
	if program.FirstChildOfKind(KindClassDeclaration) != nil {
		t.Error("unexpected class declaration")
	}
}

func TestWalk(t *testing.T) {
	program := parseProgram(t, "function f() { a(); } b();")

	var all []NodeKind
	Walk(program, func(n *Node) bool {
		all = append(all, n.Kind)
		return true
	})
	if all[0] != KindProgram {
		t.Errorf("got first %v, want Program", all[0])
	}

	var skipped []NodeKind
	Walk(program, func(n *Node) bool {
		skipped = append(skipped, n.Kind)
		return n.Kind != KindFunctionDeclaration
	})
	if len(skipped) >= len(all) {
		t.Errorf("pruned walk visited %d nodes, full walk %d", len(skipped), len(all))
	}
	for _, kind := range skipped {
		if kind == KindFunctionBody {
			t.Error("pruned walk entered the function body")
		}
	}
}

func TestNodeString(t *testing.T) {
	tree := parseExpr(t, "async () => a?.b")
	want := `ArrowFunction (async)
  FormalParameters
  MemberExpression (optional)
    Identifier a
    Identifier b
`
	if got := tree.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestNodeStringWithPositions(t *testing.T) {
	tree := parseExpr(t, "a + b")
	want := `BinaryExpression [1:1-1:6] +
  Identifier [1:1-1:2] a
  Identifier [1:5-1:6] b
`
	if got := tree.StringWithPositions(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestNodeMarshalJSON(t *testing.T) {
	tree := parseExpr(t, "a?.b")
	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		Kind  string   `json:"kind"`
		Flags []string `json:"flags"`
		Span  struct {
			Start struct {
				Offset int `json:"offset"`
				Line   int `json:"line"`
			} `json:"start"`
			End struct {
				Offset int `json:"offset"`
			} `json:"end"`
		} `json:"span"`
		Children []struct {
			Kind  string `json:"kind"`
			Token string `json:"token"`
		} `json:"children"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Kind != "MemberExpression" {
		t.Errorf("got kind %q", got.Kind)
	}
	if len(got.Flags) != 1 || got.Flags[0] != "optional" {
		t.Errorf("got flags %v, want [optional]", got.Flags)
	}
	if got.Span.Start.Line != 1 || got.Span.End.Offset != 4 {
		t.Errorf("got span %+v", got.Span)
	}
	if len(got.Children) != 2 || got.Children[0].Token != "a" || got.Children[1].Token != "b" {
		t.Errorf("got children %+v", got.Children)
	}
}

func TestStringLiteralJSONValue(t *testing.T) {
	tree := parseExpr(t, `"a\tb"`)
	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Token string `json:"token"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Token != `"a\tb"` || got.Value != "a\tb" {
		t.Errorf("got token %q value %q", got.Token, got.Value)
	}
}

func TestErrorNodes(t *testing.T) {
	tree, _ := ParseProgram(strings.NewReader("a = ;\nb;"), WithRecovery()).Finish()
	errs := tree.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d error nodes, want 1", len(errs))
	}
	if !errs[0].IsError() || errs[0].Error.Got == nil || errs[0].Error.Got.Literal != ";" {
		t.Errorf("got error node %+v", errs[0].Error)
	}
	if got := tree.String(); got != "Program\n  Error ERROR: unexpected token ';'\n  ExpressionStatement\n    Identifier b\n" {
		t.Errorf("got\n%s", got)
	}
}
