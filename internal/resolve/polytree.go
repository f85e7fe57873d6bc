package resolve

// PolyTree is the PolymorphicTree described in spec.md §3: a discriminator
// root or one of its descendants, plus its ordered children. Built fresh
// per discriminator root by DiscriminatorResolver.
type PolyTree struct {
	Name     string
	children *orderedChildren
}

// orderedChildren is an insertion-order-preserving name -> *PolyTree map,
// mirroring spectree.ObjectMap's shape for the same reason: discriminator
// child order feeds directly into the oneOf array built in discriminator.go,
// and that order must be reproducible (spec.md §9, Testable Property 4).
type orderedChildren struct {
	names []string
	nodes map[string]*PolyTree
}

func newPolyTree(name string) *PolyTree {
	return &PolyTree{Name: name, children: &orderedChildren{nodes: make(map[string]*PolyTree)}}
}

// AddChild adds name as a child, idempotently: re-adding a name already
// present returns the existing node. Grounded on spec.md §3's "duplicates by
// name are idempotent" and §9's note that the source's addChildByName throws
// only when name is not a non-empty string.
func (t *PolyTree) AddChild(name string) (*PolyTree, error) {
	if name == "" {
		return nil, &InvalidArgument{Arg: "name", Reason: "must be a non-empty string"}
	}
	if existing, ok := t.children.nodes[name]; ok {
		return existing, nil
	}
	child := newPolyTree(name)
	t.children.names = append(t.children.names, name)
	t.children.nodes[name] = child
	return child, nil
}

// Children returns the direct children in insertion order.
func (t *PolyTree) Children() []*PolyTree {
	out := make([]*PolyTree, len(t.children.names))
	for i, n := range t.children.names {
		out[i] = t.children.nodes[n]
	}
	return out
}

// Descendants returns every transitive descendant in DFS order (children
// before grandchildren's siblings), per spec.md §4.5's "descendants are
// transitive... included by recursive tree construction before the
// rewrite."
func (t *PolyTree) Descendants() []*PolyTree {
	var out []*PolyTree
	for _, c := range t.Children() {
		out = append(out, c)
		out = append(out, c.Descendants()...)
	}
	return out
}
