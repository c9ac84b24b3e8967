package codebase

import (
	"testing"

	"github.com/dhamidi/esq/js/parser"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestToRange(t *testing.T) {
	span := parser.Span{
		Start: parser.Position{Line: 2, Column: 3},
		End:   parser.Position{Line: 2, Column: 7},
	}
	got := toRange(span)
	if got.Start.Line != 1 || got.Start.Character != 2 || got.End.Character != 6 {
		t.Errorf("got %+v", got)
	}
	if zero := toRange(parser.Span{}); zero.Start.Line != 0 || zero.Start.Character != 0 {
		t.Errorf("got %+v for an empty span", zero)
	}
}

func TestURIConversion(t *testing.T) {
	tests := []struct {
		uri  string
		path string
	}{
		{"file:///home/me/app.js", "/home/me/app.js"},
		{"file:///tmp/with%20space.js", "/tmp/with space.js"},
		{"untitled:1", "untitled:1"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := uriToPath(tt.uri)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.path {
				t.Errorf("got %q, want %q", got, tt.path)
			}
		})
	}

	if got := pathToURI("/tmp/with space.js"); got != "file:///tmp/with%20space.js" {
		t.Errorf("got %q", got)
	}
}

func TestToDocumentSymbols(t *testing.T) {
	symbols := []Symbol{{
		Name: "A",
		Kind: SymbolClass,
		Children: []Symbol{
			{Name: "m", Kind: SymbolMethod, Detail: "static"},
		},
	}, {
		Name: "select from users",
		Kind: SymbolQuery,
	}}

	got := toDocumentSymbols(symbols)
	if len(got) != 2 {
		t.Fatalf("got %d symbols", len(got))
	}
	if got[0].Kind != protocol.SymbolKindClass || got[1].Kind != protocol.SymbolKindObject {
		t.Errorf("got kinds %v %v", got[0].Kind, got[1].Kind)
	}
	if got[0].Detail != nil {
		t.Error("empty detail should be omitted")
	}
	m := got[0].Children[0]
	if m.Kind != protocol.SymbolKindMethod || m.Detail == nil || *m.Detail != "static" {
		t.Errorf("got member %+v", m)
	}
}
