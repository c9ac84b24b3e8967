package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/esq/js/parser"
)

type jsonPosition struct {
	Offset int `json:"offset"`
}

type jsonNode struct {
	Kind string `json:"kind"`
	Span *struct {
		End jsonPosition `json:"end"`
	} `json:"span"`
	Token    string      `json:"token"`
	Value    string      `json:"value"`
	Flags    []string    `json:"flags"`
	Children []*jsonNode `json:"children"`
}

func parse(t *testing.T, input string) *parser.Node {
	t.Helper()
	node, err := parser.ParseProgram(strings.NewReader(input)).Finish()
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return node
}

func TestASTJSONEncoder(t *testing.T) {
	node := parse(t, "x = 'a'")

	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(node); err != nil {
		t.Fatal(err)
	}

	var got jsonNode
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if got.Kind != "Program" {
		t.Errorf("got kind %q, want Program", got.Kind)
	}
	if got.Span == nil || got.Span.End.Offset != 7 {
		t.Errorf("got span %+v, want end offset 7", got.Span)
	}

	assign := got.Children[0].Children[0]
	if assign.Kind != "AssignmentExpression" || assign.Token != "=" {
		t.Fatalf("got %s %q, want AssignmentExpression =", assign.Kind, assign.Token)
	}
	str := assign.Children[1]
	if str.Token != "'a'" || str.Value != "a" {
		t.Errorf("got token %q value %q", str.Token, str.Value)
	}
}

func TestASTJSONEncoderWithoutPositions(t *testing.T) {
	node := parse(t, "a")
	enc := NewASTJSONEncoder(nil)
	enc.Positions = false
	text, err := enc.MarshalText(node)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(text, []byte(`"span"`)) {
		t.Errorf("unexpected span in\n%s", text)
	}
}

func TestASTJSONEncoderFlags(t *testing.T) {
	node := parse(t, "async function* f() {}")
	text, err := NewASTJSONEncoder(nil).MarshalText(node)
	if err != nil {
		t.Fatal(err)
	}
	var got jsonNode
	if err := json.Unmarshal(text, &got); err != nil {
		t.Fatal(err)
	}
	fn := got.Children[0]
	if strings.Join(fn.Flags, ",") != "async,generator" {
		t.Errorf("got flags %v", fn.Flags)
	}
}

func TestASTJSONEncoderMatchesNodeJSON(t *testing.T) {
	node := parse(t, "async function* f(a = 1) { return `a${b}`; }")
	text, err := NewASTJSONEncoder(nil).MarshalText(node)
	if err != nil {
		t.Fatal(err)
	}
	want, err := json.Marshal(node)
	if err != nil {
		t.Fatal(err)
	}
	var got bytes.Buffer
	if err := json.Compact(&got, text); err != nil {
		t.Fatal(err)
	}
	if got.String() != string(want) {
		t.Errorf("got\n%s\nwant\n%s", got.String(), want)
	}
}

func TestTreeEncoder(t *testing.T) {
	node := parse(t, "a")
	tests := []struct {
		positions bool
		want      string
	}{
		{false, "Program\n  ExpressionStatement\n    Identifier a\n"},
		{true, "Program [1:1-1:2]\n  ExpressionStatement [1:1-1:2]\n    Identifier [1:1-1:2] a\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		if err := NewTreeEncoder(&buf, tt.positions).Encode(node); err != nil {
			t.Fatal(err)
		}
		if buf.String() != tt.want {
			t.Errorf("positions=%v: got\n%s\nwant\n%s", tt.positions, buf.String(), tt.want)
		}
	}
}

func TestNewEncoder(t *testing.T) {
	for _, name := range []string{"json", "tree"} {
		if _, err := NewEncoder(name, nil, true); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := NewEncoder("java", nil, true); err == nil {
		t.Error("expected an error for an unknown format")
	}
	if _, err := NewTokenEncoder("yaml", nil, false); err == nil {
		t.Error("expected an error for an unknown token format")
	}
}

func TestTokenLineEncoder(t *testing.T) {
	tokens, err := parser.Tokenize([]byte("a = 1"), "")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		hidden bool
		want   string
	}{
		{false, "1:1\tIdentifier\tdefault\t\"a\"\n" +
			"1:3\t=\tdefault\t\"=\"\n" +
			"1:5\tDecimalLiteral\tdefault\t\"1\"\n" +
			"1:6\tEOF\tdefault\t\"\"\n"},
		{true, "1:1\tIdentifier\tdefault\t\"a\"\n" +
			"1:2\tWhiteSpaces\thidden\t\" \"\n" +
			"1:3\t=\tdefault\t\"=\"\n" +
			"1:4\tWhiteSpaces\thidden\t\" \"\n" +
			"1:5\tDecimalLiteral\tdefault\t\"1\"\n" +
			"1:6\tEOF\tdefault\t\"\"\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		enc := NewTokenLineEncoder(&buf)
		enc.Hidden = tt.hidden
		if err := enc.Encode(tokens); err != nil {
			t.Fatal(err)
		}
		if buf.String() != tt.want {
			t.Errorf("hidden=%v: got\n%s\nwant\n%s", tt.hidden, buf.String(), tt.want)
		}
	}
}

func TestTokenJSONEncoder(t *testing.T) {
	tokens, err := parser.Tokenize([]byte(`"a\nb";`), "")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := NewTokenJSONEncoder(&buf).Encode(tokens); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	var first struct {
		Kind    string `json:"kind"`
		Literal string `json:"literal"`
		Value   string `json:"value"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if first.Kind != "StringLiteral" || first.Value != "a\nb" {
		t.Errorf("got %+v", first)
	}
}
