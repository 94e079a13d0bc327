package dtyaml

import (
	"github.com/goccy/go-yaml"
)

// Marshal renders n as YAML, keeping mapping keys in their current order.
// Local tags are not written back.
func Marshal(n *Node) ([]byte, error) {
	return yaml.Marshal(n.ordered())
}

func (n *Node) ordered() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case MappingNode:
		m := make(yaml.MapSlice, 0, len(n.Pairs))
		for _, p := range n.Pairs {
			m = append(m, yaml.MapItem{Key: p.Key, Value: p.Value.ordered()})
		}
		return m
	case SequenceNode:
		s := make([]any, len(n.Items))
		for i, item := range n.Items {
			s[i] = item.ordered()
		}
		return s
	}
	return n.Value
}
