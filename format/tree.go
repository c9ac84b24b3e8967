package format

import (
	"io"

	"github.com/dhamidi/esq/js/parser"
)

// TreeEncoder writes the indented one-node-per-line dump of a tree.
type TreeEncoder struct {
	w         io.Writer
	positions bool
}

func NewTreeEncoder(w io.Writer, positions bool) *TreeEncoder {
	return &TreeEncoder{w: w, positions: positions}
}

func (e *TreeEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	if e.positions {
		return []byte(node.StringWithPositions()), nil
	}
	return []byte(node.String()), nil
}
