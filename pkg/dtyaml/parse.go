package dtyaml

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

// Parser turns YAML text into position-tracked Node trees. A Parser is
// immutable once built and can be shared between goroutines.
type Parser struct {
	tags Tags
}

// NewParser returns a parser that accepts the given local tags. Tags not in
// the table are rejected.
func NewParser(tags Tags) *Parser {
	p := &Parser{tags: make(Tags, len(tags))}
	for tag, fn := range tags {
		p.tags[tag] = fn
	}
	return p
}

var defaultParser = NewParser(DevicetreeTags)

// Parse parses src with the devicetree tag set
func Parse(src []byte) (*Node, error) {
	return defaultParser.Parse(src)
}

// Load reads r fully and parses it with the devicetree tag set
func Load(r io.Reader) (*Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML: %w", err)
	}
	return Parse(src)
}

// Parse parses a single YAML document. An empty input yields a null scalar.
func (p *Parser) Parse(src []byte) (*Node, error) {
	file, err := parser.ParseBytes(src, 0)
	if err != nil {
		return nil, newSyntaxError(err)
	}
	if file == nil || len(file.Docs) == 0 {
		return NewScalar(nil), nil
	}
	if len(file.Docs) > 1 {
		return nil, &ParseError{Message: "expected a single document in the stream"}
	}

	d := &Decoder{
		tags:    p.tags,
		anchors: make(map[string]*Node),
		lines:   strings.Split(string(src), "\n"),
	}
	return d.Decode(file.Docs[0])
}

// Decoder converts goccy/go-yaml AST nodes into Nodes. It lives for the
// duration of one Parse call.
type Decoder struct {
	tags    Tags
	anchors map[string]*Node
	lines   []string
}

// Decode converts n and everything below it
func (d *Decoder) Decode(n ast.Node) (*Node, error) {
	if n == nil {
		return NewScalar(nil), nil
	}

	switch n := n.(type) {
	case *ast.DocumentNode:
		return d.Decode(n.Body)
	case *ast.MappingNode:
		return d.decodeMapping(nodePos(n), n.Values)
	case *ast.MappingValueNode:
		return d.decodeMapping(nodePos(n), []*ast.MappingValueNode{n})
	case *ast.SequenceNode:
		s := &Node{Kind: SequenceNode, Pos: nodePos(n), Items: make([]*Node, 0, len(n.Values))}
		for _, v := range n.Values {
			item, err := d.Decode(v)
			if err != nil {
				return nil, err
			}
			s.Items = append(s.Items, item)
		}
		return s, nil
	case *ast.TagNode:
		return d.decodeTag(n)
	case *ast.AnchorNode:
		v, err := d.Decode(n.Value)
		if err != nil {
			return nil, err
		}
		d.anchors[tokenValue(n.Name)] = v
		return v, nil
	case *ast.AliasNode:
		name := tokenValue(n.Value)
		v, ok := d.anchors[name]
		if !ok {
			return nil, nodeError(n, "unknown anchor %q", name)
		}
		c := v.Copy()
		c.Pos = nodePos(n)
		return c, nil
	case *ast.StringNode:
		return &Node{Kind: ScalarNode, Value: n.Value, Pos: nodePos(n)}, nil
	case *ast.LiteralNode:
		var s string
		if n.Value != nil {
			s = n.Value.Value
		}
		return &Node{Kind: ScalarNode, Value: s, Pos: nodePos(n)}, nil
	case *ast.IntegerNode:
		return &Node{Kind: ScalarNode, Value: integerValue(n), Pos: nodePos(n)}, nil
	case *ast.FloatNode:
		return &Node{Kind: ScalarNode, Value: n.Value, Pos: nodePos(n)}, nil
	case *ast.InfinityNode:
		return &Node{Kind: ScalarNode, Value: n.Value, Pos: nodePos(n)}, nil
	case *ast.NanNode:
		return &Node{Kind: ScalarNode, Value: math.NaN(), Pos: nodePos(n)}, nil
	case *ast.BoolNode:
		return &Node{Kind: ScalarNode, Value: n.Value, Pos: nodePos(n)}, nil
	case *ast.NullNode:
		return &Node{Kind: ScalarNode, Pos: nodePos(n)}, nil
	default:
		return &Node{Kind: ScalarNode, Value: tokenValue(n), Pos: nodePos(n)}, nil
	}
}

// decodeMapping builds a mapping from its entries. Keys brought in by a
// "<<" merge give way to keys written in the mapping itself, wherever they
// appear.
func (d *Decoder) decodeMapping(pos *LineCol, values []*ast.MappingValueNode) (*Node, error) {
	m := &Node{Kind: MappingNode, Pos: pos, Pairs: make([]*Pair, 0, len(values))}
	merged := make(map[string]bool)
	for _, mv := range values {
		if mv == nil {
			continue
		}
		if mv.Key != nil && mv.Key.IsMergeKey() {
			if err := d.merge(m, merged, mv.Value); err != nil {
				return nil, err
			}
			continue
		}

		key := keyText(mv.Key)
		i := m.pairIndex(key)
		if i >= 0 && !merged[key] {
			return nil, nodeError(mv.Key, "duplicate key %q", key)
		}
		value, err := d.Decode(mv.Value)
		if err != nil {
			return nil, err
		}
		pair := &Pair{Key: key, KeyPos: nodePos(mv.Key), Value: value}
		if i >= 0 {
			m.Pairs[i] = pair
			delete(merged, key)
			continue
		}
		m.Pairs = append(m.Pairs, pair)
	}
	return m, nil
}

// merge adds the pairs of a merged mapping, or of each mapping in a merged
// sequence, that m does not already hold. Earlier sources win.
func (d *Decoder) merge(m *Node, merged map[string]bool, src ast.Node) error {
	v, err := d.Decode(src)
	if err != nil {
		return err
	}
	sources := []*Node{v}
	if v.IsSequence() {
		sources = v.Items
	}
	for _, s := range sources {
		if !s.IsMapping() {
			return nodeError(src, "merge key expects a mapping or a sequence of mappings, got %s", s.Kind)
		}
		for _, p := range s.Pairs {
			if m.Has(p.Key) {
				continue
			}
			m.Pairs = append(m.Pairs, &Pair{Key: p.Key, KeyPos: copyPos(p.KeyPos), Value: p.Value})
			merged[p.Key] = true
		}
	}
	return nil
}

func (d *Decoder) decodeTag(n *ast.TagNode) (*Node, error) {
	tag := ""
	if n.Start != nil {
		tag = n.Start.Value
	}

	// Core schema tags only pin the type of their content
	if strings.HasPrefix(tag, "!!") {
		v, err := d.Decode(n.Value)
		if err != nil {
			return nil, err
		}
		if tag == "!!str" && v.Kind == ScalarNode {
			v.Value = scalarText(n.Value, v.Value)
		}
		return v, nil
	}

	fn, ok := d.tags[tag]
	if !ok {
		return nil, nodeError(n, "unknown tag %s", tag)
	}
	v, err := fn(d, tag, n.Value)
	if err != nil {
		return nil, err
	}
	v.Pos = nodePos(n)
	return v, nil
}

// integerValue returns n as an int64. Only values above math.MaxInt64 stay
// uint64.
func integerValue(n *ast.IntegerNode) any {
	switch v := n.Value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v)
		}
		return v
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v)
		}
		return uint64(v)
	}
	return tokenValue(n)
}

func keyText(k ast.MapKeyNode) string {
	if k == nil {
		return ""
	}
	switch k := k.(type) {
	case *ast.StringNode:
		return k.Value
	case *ast.MappingKeyNode:
		return tokenValue(k.Value)
	}
	return tokenValue(k)
}

func tokenValue(n ast.Node) string {
	if n == nil {
		return ""
	}
	if tok := n.GetToken(); tok != nil {
		return tok.Value
	}
	return ""
}

// nodePos returns where n starts. Block mappings start at their first key
// rather than at the first ':' indicator the AST points to.
func nodePos(n ast.Node) *LineCol {
	if n == nil {
		return nil
	}
	switch n := n.(type) {
	case *ast.DocumentNode:
		return nodePos(n.Body)
	case *ast.MappingNode:
		if !n.IsFlowStyle && len(n.Values) > 0 {
			return nodePos(n.Values[0])
		}
	case *ast.MappingValueNode:
		return nodePos(n.Key)
	}
	return tokenPos(n.GetToken())
}

func tokenPos(tok *token.Token) *LineCol {
	if tok == nil || tok.Position == nil {
		return nil
	}
	return &LineCol{Line: tok.Position.Line - 1, Col: tok.Position.Column - 1}
}
