package dtyaml

import "fmt"

// Kind identifies the shape of a Node
type Kind int

const (
	ScalarNode Kind = iota
	MappingNode
	SequenceNode
)

func (k Kind) String() string {
	switch k {
	case MappingNode:
		return "mapping"
	case SequenceNode:
		return "sequence"
	default:
		return "scalar"
	}
}

// LineCol is a 0-indexed source position
type LineCol struct {
	Line int
	Col  int
}

func (lc LineCol) String() string {
	return fmt.Sprintf("%d:%d", lc.Line+1, lc.Col+1)
}

// Node is one element of a parsed YAML document. Mappings keep their keys in
// source order. Pos is nil for nodes that were not produced by the parser.
type Node struct {
	Kind  Kind
	Tag   string
	Value any
	Pairs []*Pair
	Items []*Node
	Pos   *LineCol
}

// Pair is a single key/value entry of a mapping node
type Pair struct {
	Key    string
	KeyPos *LineCol
	Value  *Node
}

// NewScalar returns an untracked scalar node
func NewScalar(v any) *Node {
	return &Node{Kind: ScalarNode, Value: v}
}

// NewMapping returns an untracked mapping node holding pairs in order
func NewMapping(pairs ...*Pair) *Node {
	return &Node{Kind: MappingNode, Pairs: pairs}
}

// NewSequence returns an untracked sequence node
func NewSequence(items ...*Node) *Node {
	return &Node{Kind: SequenceNode, Items: items}
}

// IsMapping reports whether n is a non-nil mapping node
func (n *Node) IsMapping() bool {
	return n != nil && n.Kind == MappingNode
}

// IsSequence reports whether n is a non-nil sequence node
func (n *Node) IsSequence() bool {
	return n != nil && n.Kind == SequenceNode
}

// Len returns the number of pairs or items; scalars have length 0
func (n *Node) Len() int {
	switch {
	case n.IsMapping():
		return len(n.Pairs)
	case n.IsSequence():
		return len(n.Items)
	}
	return 0
}

func (n *Node) pairIndex(key string) int {
	if !n.IsMapping() {
		return -1
	}
	for i, p := range n.Pairs {
		if p.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key
func (n *Node) Get(key string) (*Node, bool) {
	if i := n.pairIndex(key); i >= 0 {
		return n.Pairs[i].Value, true
	}
	return nil, false
}

// Has reports whether a mapping contains key
func (n *Node) Has(key string) bool {
	return n.pairIndex(key) >= 0
}

// HasAny reports whether a mapping contains at least one of keys
func (n *Node) HasAny(keys ...string) bool {
	for _, k := range keys {
		if n.Has(k) {
			return true
		}
	}
	return false
}

// Keys returns mapping keys in order
func (n *Node) Keys() []string {
	if !n.IsMapping() {
		return nil
	}
	keys := make([]string, len(n.Pairs))
	for i, p := range n.Pairs {
		keys[i] = p.Key
	}
	return keys
}

// KeyPos returns the position of the key token for key
func (n *Node) KeyPos(key string) (*LineCol, bool) {
	if i := n.pairIndex(key); i >= 0 && n.Pairs[i].KeyPos != nil {
		return n.Pairs[i].KeyPos, true
	}
	return nil, false
}

// Set replaces the value under key in place, or appends a new pair
func (n *Node) Set(key string, value *Node) {
	if i := n.pairIndex(key); i >= 0 {
		n.Pairs[i].Value = value
		return
	}
	n.Pairs = append(n.Pairs, &Pair{Key: key, Value: value})
}

// Prepend moves key to the front of the mapping with the given value. The
// key position is kept when the key already existed.
func (n *Node) Prepend(key string, value *Node) {
	pair := &Pair{Key: key, Value: value}
	if i := n.pairIndex(key); i >= 0 {
		pair.KeyPos = n.Pairs[i].KeyPos
		n.Pairs = append(n.Pairs[:i], n.Pairs[i+1:]...)
	}
	n.Pairs = append([]*Pair{pair}, n.Pairs...)
}

// Delete removes key from the mapping, returning the removed value
func (n *Node) Delete(key string) (*Node, bool) {
	i := n.pairIndex(key)
	if i < 0 {
		return nil, false
	}
	v := n.Pairs[i].Value
	n.Pairs = append(n.Pairs[:i], n.Pairs[i+1:]...)
	return v, true
}

// Copy returns a deep copy of n, positions included
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Kind: n.Kind, Tag: n.Tag, Value: n.Value, Pos: copyPos(n.Pos)}
	if n.Pairs != nil {
		c.Pairs = make([]*Pair, len(n.Pairs))
		for i, p := range n.Pairs {
			c.Pairs[i] = &Pair{Key: p.Key, KeyPos: copyPos(p.KeyPos), Value: p.Value.Copy()}
		}
	}
	if n.Items != nil {
		c.Items = make([]*Node, len(n.Items))
		for i, item := range n.Items {
			c.Items[i] = item.Copy()
		}
	}
	return c
}

func copyPos(p *LineCol) *LineCol {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
