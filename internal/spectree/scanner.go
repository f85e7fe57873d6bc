package spectree

import "strconv"

// RefHit is a single "$ref" field found while walking a tree.
type RefHit struct {
	// Pointer is the JSON pointer of the object CONTAINING the $ref key
	// (not of the $ref key itself), e.g. "/paths/~1pets/get/responses/200/schema".
	Pointer string
	// Ref is the raw string value of the $ref field.
	Ref string
	// Node is the object node that holds the $ref key, so callers can
	// rewrite or delete it in place without re-resolving the pointer.
	Node *Node
}

// ScanRefs walks root depth-first, in deterministic (insertion) order, and
// returns every object containing a "$ref" key. Grounded on the DFS
// pointer-accumulating walk in other_examples/grafana-mimir__extract_refs.go
// and the recursive ref-rewrite walk in
// other_examples/erraggy-oastools__ref_rewrite.go.
func ScanRefs(root *Node) []RefHit {
	var hits []RefHit
	walkRefs(root, "", &hits)
	return hits
}

func walkRefs(n *Node, ptr string, hits *[]RefHit) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindObject:
		if refVal, ok := n.Obj.Get("$ref"); ok && refVal.IsString() {
			*hits = append(*hits, RefHit{Pointer: ptr, Ref: refVal.StringValue(), Node: n})
		}
		for _, k := range n.Obj.Keys() {
			v, _ := n.Obj.Get(k)
			walkRefs(v, JoinPointer(append(splitPointerUnsafe(ptr), k)...), hits)
		}
	case KindArray:
		for i, item := range n.Arr {
			walkRefs(item, JoinPointer(append(splitPointerUnsafe(ptr), strconv.Itoa(i))...), hits)
		}
	}
}

// splitPointerUnsafe re-splits a pointer we built ourselves with JoinPointer,
// so it never contains an invalid leading-slash violation; errors are
// therefore impossible here and are discarded.
func splitPointerUnsafe(ptr string) []string {
	tokens, _ := SplitPointer(ptr)
	return tokens
}
