package validator

import (
	"github.com/devicetree-org/dtschema/pkg/constants"
	"github.com/devicetree-org/dtschema/pkg/dtyaml"
)

// Fixup returns a copy of a binding schema with the shorthand forms rewritten
// into plain JSON-Schema. The input tree is not modified.
//
// A bare const or enum on a property becomes a single-cell items list, and
// every tuple-form items list without an explicit size gets one. Running
// Fixup on its own output returns an equal tree.
func Fixup(schema *dtyaml.Node) *dtyaml.Node {
	fixed := schema.Copy()

	props, ok := fixed.Get("properties")
	if !ok || !props.IsMapping() {
		return fixed
	}

	for _, p := range props.Pairs {
		fixupScalarToArray(p.Value, "const")
		fixupScalarToArray(p.Value, "enum")
	}

	fixupItemsSize(props)
	return fixed
}

// fixupScalarToArray turns {K: v} into {items: [{K: v}]}
func fixupScalarToArray(node *dtyaml.Node, keyword string) {
	value, ok := node.Get(keyword)
	if !ok {
		return
	}
	cell := dtyaml.NewMapping(&dtyaml.Pair{Key: keyword, Value: value})
	node.Prepend("items", dtyaml.NewSequence(cell))
	node.Delete(keyword)
}

func fixupItemsSize(node *dtyaml.Node) {
	switch {
	case node.IsSequence():
		for _, item := range node.Items {
			fixupItemsSize(item)
		}
	case node.IsMapping():
		if items, ok := node.Get("items"); ok && items.IsSequence() && !node.HasAny(constants.SizeKeywords...) {
			n := int64(len(items.Items))
			node.Prepend("minItems", dtyaml.NewScalar(n))
			node.Prepend("maxItems", dtyaml.NewScalar(n))
			node.Prepend("additionalItems", dtyaml.NewScalar(false))
		}
		for _, p := range node.Pairs {
			fixupItemsSize(p.Value)
		}
	}
}
