package dtyaml

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Plain converts n into the value shapes a JSON decoder would produce:
// map[string]any, []any, json.Number, string, bool and nil.
//
// Infinities become numbers past the float64 range, so they still compare
// beyond every finite bound. NaN has no exact numeric form and becomes the
// string ".nan".
func (n *Node) Plain() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case MappingNode:
		m := make(map[string]any, len(n.Pairs))
		for _, p := range n.Pairs {
			m[p.Key] = p.Value.Plain()
		}
		return m
	case SequenceNode:
		s := make([]any, len(n.Items))
		for i, item := range n.Items {
			s[i] = item.Plain()
		}
		return s
	}
	return plainScalar(n.Value)
}

// positiveInfinity is larger than math.MaxFloat64
const positiveInfinity = "1e400"

func plainScalar(v any) any {
	switch v := v.(type) {
	case nil, bool, string:
		return v
	case int64:
		return json.Number(strconv.FormatInt(v, 10))
	case uint64:
		return json.Number(strconv.FormatUint(v, 10))
	case int:
		return json.Number(strconv.Itoa(v))
	case float64:
		switch {
		case math.IsInf(v, 1):
			return json.Number(positiveInfinity)
		case math.IsInf(v, -1):
			return json.Number("-" + positiveInfinity)
		case math.IsNaN(v):
			return ".nan"
		}
		return json.Number(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return fmt.Sprint(v)
}
