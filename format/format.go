package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/esq/js/parser"
)

// Encoder writes a syntax tree to an underlying writer.
type Encoder interface {
	Encode(node *parser.Node) error
	MarshalText(node *parser.Node) ([]byte, error)
}

// TokenEncoder writes a token stream to an underlying writer.
type TokenEncoder interface {
	Encode(tokens []parser.Token) error
}

// NewEncoder returns the tree encoder registered under name: "json" or
// "tree".
func NewEncoder(name string, w io.Writer, positions bool) (Encoder, error) {
	switch name {
	case "json":
		enc := NewASTJSONEncoder(w)
		enc.Positions = positions
		return enc, nil
	case "tree":
		return NewTreeEncoder(w, positions), nil
	}
	return nil, fmt.Errorf("unknown format: %s (expected json or tree)", name)
}

// NewTokenEncoder returns the token encoder registered under name: "json"
// or "line". Hidden channel tokens are dropped unless hidden is set.
func NewTokenEncoder(name string, w io.Writer, hidden bool) (TokenEncoder, error) {
	switch name {
	case "json":
		return &TokenJSONEncoder{w: w, Hidden: hidden}, nil
	case "line":
		return &TokenLineEncoder{w: w, Hidden: hidden}, nil
	}
	return nil, fmt.Errorf("unknown format: %s (expected json or line)", name)
}
