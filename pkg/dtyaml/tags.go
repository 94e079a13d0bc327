package dtyaml

import (
	"fmt"

	"github.com/goccy/go-yaml/ast"
)

// TagFunc decodes the content of a node carrying a local tag
type TagFunc func(d *Decoder, tag string, content ast.Node) (*Node, error)

// Tags maps local YAML tags to their decoders
type Tags map[string]TagFunc

// DevicetreeTags are the tags emitted by dtc for typed property values.
// Sized integer tags only mark the cell width; their content is decoded as a
// plain sequence. Phandle and path references stay unresolved scalars.
var DevicetreeTags = Tags{
	"!u8":      SequenceTag,
	"!u16":     SequenceTag,
	"!u32":     SequenceTag,
	"!u64":     SequenceTag,
	"!phandle": ScalarTag,
	"!path":    ScalarTag,
}

// SequenceTag decodes tagged content as an ordinary sequence
func SequenceTag(d *Decoder, tag string, content ast.Node) (*Node, error) {
	n, err := d.Decode(content)
	if err != nil {
		return nil, err
	}
	if !n.IsSequence() {
		return nil, d.contentError(content, "tag %s expects a sequence, got %s", tag, n.Kind)
	}
	n.Tag = tag
	return n, nil
}

// ScalarTag decodes tagged content as the raw text of a single scalar
func ScalarTag(d *Decoder, tag string, content ast.Node) (*Node, error) {
	n, err := d.Decode(content)
	if err != nil {
		return nil, err
	}
	if n.Kind != ScalarNode {
		return nil, d.contentError(content, "tag %s expects a scalar, got %s", tag, n.Kind)
	}
	n.Tag = tag
	n.Value = scalarText(content, n.Value)
	return n, nil
}

func scalarText(content ast.Node, decoded any) string {
	if s, ok := decoded.(string); ok {
		return s
	}
	if decoded == nil && content == nil {
		return ""
	}
	if text := tokenValue(content); text != "" {
		return text
	}
	return fmt.Sprint(decoded)
}
