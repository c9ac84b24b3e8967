package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/esq/js/parser"
)

// ASTJSONEncoder writes the indented form of the tree Node.MarshalJSON
// produces.
type ASTJSONEncoder struct {
	w io.Writer
	// Positions controls whether spans are written.
	Positions bool
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w, Positions: true}
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return json.MarshalIndent(node.JSONTree(e.Positions), "", "  ")
}
