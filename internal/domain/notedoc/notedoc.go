// Package notedoc defines the structured document model used by advanced
// notes: an ordered list of typed block nodes carrying styled text runs.
// It replaces the free-form HTML a content-editable editor would produce
// with an explicit, validatable representation.
package notedoc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// NodeType enumerates the supported block node kinds.
type NodeType string

const (
	NodeParagraph  NodeType = "paragraph"
	NodeHeading    NodeType = "heading"
	NodeBlockquote NodeType = "blockquote"
	NodeImage      NodeType = "image"
)

var (
	ErrEmptyDocument = errors.New("document has no nodes")
	ErrInvalidNode   = errors.New("invalid document node")
)

// TextRun is a span of text with uniform inline styling.
type TextRun struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
}

// Node is one block-level element of a document. Runs apply to paragraph,
// heading and blockquote nodes; Src/Alt apply to image nodes only.
type Node struct {
	Type  NodeType  `json:"type"`
	Level int       `json:"level,omitempty"` // heading level 1-3
	Runs  []TextRun `json:"runs,omitempty"`
	Src   string    `json:"src,omitempty"`
	Alt   string    `json:"alt,omitempty"`
}

// Document is an ordered list of block nodes.
type Document struct {
	Nodes []Node `json:"nodes"`
}

// PlainText flattens the document to unstyled text, nodes separated by
// newlines. Image nodes contribute their alt text.
func (d *Document) PlainText() string {
	var out []byte
	for i, n := range d.Nodes {
		if i > 0 {
			out = append(out, '\n')
		}
		if n.Type == NodeImage {
			out = append(out, n.Alt...)
			continue
		}
		for _, r := range n.Runs {
			out = append(out, r.Text...)
		}
	}
	return string(out)
}

// Validate checks that every node is well formed.
func (d *Document) Validate() error {
	if len(d.Nodes) == 0 {
		return ErrEmptyDocument
	}
	for i, n := range d.Nodes {
		if err := n.validate(); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
	}
	return nil
}

func (n Node) validate() error {
	switch n.Type {
	case NodeParagraph, NodeBlockquote:
		return nil
	case NodeHeading:
		if n.Level < 1 || n.Level > 3 {
			return fmt.Errorf("%w: heading level %d out of range", ErrInvalidNode, n.Level)
		}
		return nil
	case NodeImage:
		if n.Src == "" {
			return fmt.Errorf("%w: image node without src", ErrInvalidNode)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidNode, n.Type)
	}
}

// Encode serializes the document to JSON.
func Encode(d *Document) ([]byte, error) {
	return json.Marshal(d)
}

// Decode parses and validates a serialized document.
func Decode(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
