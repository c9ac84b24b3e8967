package parser

import "encoding/json"

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     *jsonSpan   `json:"span,omitempty"`
	Token    string      `json:"token,omitempty"`
	Value    string      `json:"value,omitempty"`
	Flags    []string    `json:"flags,omitempty"`
	Error    *jsonError  `json:"error,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonError struct {
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Got      string   `json:"got,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON(true))
}

// JSONTree returns the value MarshalJSON encodes. Spans are left out unless
// positions is set.
func (n *Node) JSONTree(positions bool) any {
	return n.toJSON(positions)
}

func (n *Node) toJSON(positions bool) *jsonNode {
	jn := &jsonNode{
		Kind:  n.Kind.String(),
		Flags: n.Flags.Names(),
	}

	if positions && (n.Span.Start.Line != 0 || n.Span.End.Line != 0) {
		jn.Span = &jsonSpan{
			Start: jsonPosition{Offset: n.Span.Start.Offset, Line: n.Span.Start.Line, Column: n.Span.Start.Column},
			End:   jsonPosition{Offset: n.Span.End.Offset, Line: n.Span.End.Line, Column: n.Span.End.Column},
		}
	}

	if n.Token != nil {
		jn.Token = n.Token.Literal
		if n.Token.Value != n.Token.Literal {
			jn.Value = n.Token.Value
		}
	}

	if n.Error != nil {
		jn.Error = &jsonError{
			Message: n.Error.Message,
		}
		for _, exp := range n.Error.Expected {
			jn.Error.Expected = append(jn.Error.Expected, exp.String())
		}
		if n.Error.Got != nil {
			jn.Error.Got = n.Error.Got.Literal
		}
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON(positions)
		}
	}

	return jn
}

type jsonToken struct {
	Kind    string    `json:"kind"`
	Channel string    `json:"channel"`
	Literal string    `json:"literal"`
	Value   string    `json:"value,omitempty"`
	Span    *jsonSpan `json:"span"`
}

func (t Token) MarshalJSON() ([]byte, error) {
	jt := jsonToken{
		Kind:    t.Kind.String(),
		Channel: t.Channel.String(),
		Literal: t.Literal,
		Span: &jsonSpan{
			Start: jsonPosition{Offset: t.Span.Start.Offset, Line: t.Span.Start.Line, Column: t.Span.Start.Column},
			End:   jsonPosition{Offset: t.Span.End.Offset, Line: t.Span.End.Line, Column: t.Span.End.Column},
		},
	}
	if t.Value != t.Literal {
		jt.Value = t.Value
	}
	return json.Marshal(jt)
}
