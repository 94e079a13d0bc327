package dtyaml

import "strconv"

// Lookup follows path from tree, using mapping keys and sequence indices
func Lookup(tree *Node, path []string) (*Node, bool) {
	cur := tree
	for _, pc := range path {
		switch {
		case cur.IsMapping():
			next, ok := cur.Get(pc)
			if !ok {
				return nil, false
			}
			cur = next
		case cur.IsSequence():
			i, err := strconv.Atoi(pc)
			if err != nil || i < 0 || i >= len(cur.Items) {
				return nil, false
			}
			cur = cur.Items[i]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// LineColOf finds the source position for the node at path within tree.
//
// A non-nil obj with a known position wins. Otherwise the node at path is
// located and its position used. Nodes without a position of their own (for
// instance values inserted after parsing) fall back to the position of their
// key in the parent mapping. ok is false when nothing could be resolved.
func LineColOf(tree *Node, path []string, obj *Node) (lc LineCol, ok bool) {
	if obj != nil && obj.Pos != nil {
		return *obj.Pos, true
	}
	if node, found := Lookup(tree, path); found && node.Pos != nil {
		return *node.Pos, true
	}
	if len(path) == 0 {
		return LineCol{}, false
	}
	parent, found := Lookup(tree, path[:len(path)-1])
	if !found || !parent.IsMapping() {
		return LineCol{}, false
	}
	if pos, found := parent.KeyPos(path[len(path)-1]); found {
		return *pos, true
	}
	return LineCol{}, false
}
