package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/esq/js/parser"
)

// TokenLineEncoder writes one tab separated line per token:
//
//	line:column	kind	channel	"literal"
type TokenLineEncoder struct {
	w      io.Writer
	Hidden bool
}

func NewTokenLineEncoder(w io.Writer) *TokenLineEncoder {
	return &TokenLineEncoder{w: w}
}

func (e *TokenLineEncoder) Encode(tokens []parser.Token) error {
	text, err := e.MarshalText(tokens)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenLineEncoder) MarshalText(tokens []parser.Token) ([]byte, error) {
	var sb strings.Builder
	for _, tok := range tokens {
		if tok.Channel == parser.ChannelHidden && !e.Hidden {
			continue
		}
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%q\n", tok.Span.Start, tok.Kind, tok.Channel, tok.Literal)
	}
	return []byte(sb.String()), nil
}

// TokenJSONEncoder writes one JSON object per token and line.
type TokenJSONEncoder struct {
	w      io.Writer
	Hidden bool
}

func NewTokenJSONEncoder(w io.Writer) *TokenJSONEncoder {
	return &TokenJSONEncoder{w: w}
}

func (e *TokenJSONEncoder) Encode(tokens []parser.Token) error {
	enc := json.NewEncoder(e.w)
	for _, tok := range tokens {
		if tok.Channel == parser.ChannelHidden && !e.Hidden {
			continue
		}
		if err := enc.Encode(tok); err != nil {
			return err
		}
	}
	return nil
}
