// Package spectree implements the generic, order-preserving JSON tree that
// the resolver reads and rewrites in place. A Swagger 2.0 document decodes
// into a Node and the resolver's passes mutate that Node directly; nothing
// in this package knows about Swagger semantics.
package spectree

import "fmt"

// Kind tags the shape of a Node, mirroring the Null|Bool|Number|String|
// Array|Object sum type described for SpecTree.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Node is a single value in the tree. Exactly one of the typed fields is
// meaningful, selected by Kind.
type Node struct {
	Kind Kind

	Bool   bool
	Number float64
	Str    string
	Arr    []*Node
	Obj    *ObjectMap
}

// ObjectMap is an insertion-order-preserving string-keyed map of *Node.
// Swagger documents rely on key order being stable across a resolve (e.g.
// definitions appearing in source order), so this is a slice of keys plus a
// lookup map rather than a bare Go map.
type ObjectMap struct {
	keys   []string
	values map[string]*Node
}

// NewObjectMap returns an empty, ready-to-use ObjectMap.
func NewObjectMap() *ObjectMap {
	return &ObjectMap{values: make(map[string]*Node)}
}

// Get returns the value stored at key, and whether it was present.
func (m *ObjectMap) Get(key string) (*Node, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set stores value at key, appending key to the order if it is new.
func (m *ObjectMap) Set(key string, value *Node) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key if present.
func (m *ObjectMap) Delete(key string) {
	if m == nil {
		return
	}
	if _, exists := m.values[key]; !exists {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. Callers must not mutate the
// returned slice.
func (m *ObjectMap) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Len returns the number of entries.
func (m *ObjectMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Has reports whether key is present.
func (m *ObjectMap) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.values[key]
	return ok
}

// Constructors.

func NewNull() *Node { return &Node{Kind: KindNull} }

func NewBool(b bool) *Node { return &Node{Kind: KindBool, Bool: b} }

func NewNumber(n float64) *Node { return &Node{Kind: KindNumber, Number: n} }

func NewString(s string) *Node { return &Node{Kind: KindString, Str: s} }

func NewArray(items ...*Node) *Node { return &Node{Kind: KindArray, Arr: items} }

func NewObject() *Node { return &Node{Kind: KindObject, Obj: NewObjectMap()} }

// IsObject, IsArray, IsString report the Node's Kind.
func (n *Node) IsObject() bool { return n != nil && n.Kind == KindObject }
func (n *Node) IsArray() bool  { return n != nil && n.Kind == KindArray }
func (n *Node) IsString() bool { return n != nil && n.Kind == KindString }
func (n *Node) IsNull() bool   { return n == nil || n.Kind == KindNull }

// Field is a convenience accessor for n.Obj.Get, safe on a nil or non-object
// Node.
func (n *Node) Field(key string) (*Node, bool) {
	if n == nil || n.Kind != KindObject {
		return nil, false
	}
	return n.Obj.Get(key)
}

// SetField sets a field on an object Node, turning n into an object first if
// it was Null (the common case of filling in an absent optional field).
func (n *Node) SetField(key string, value *Node) error {
	if n == nil {
		return fmt.Errorf("spectree: SetField on nil node")
	}
	if n.Kind == KindNull {
		n.Kind = KindObject
		n.Obj = NewObjectMap()
	}
	if n.Kind != KindObject {
		return fmt.Errorf("spectree: SetField on non-object node (kind=%s)", n.Kind)
	}
	n.Obj.Set(key, value)
	return nil
}

// DeleteField removes a field from an object Node; a no-op otherwise.
func (n *Node) DeleteField(key string) {
	if n == nil || n.Kind != KindObject {
		return
	}
	n.Obj.Delete(key)
}

// StringValue returns the string value, or "" if n is not a string.
func (n *Node) StringValue() string {
	if n == nil || n.Kind != KindString {
		return ""
	}
	return n.Str
}

// BoolValue returns the bool value, defaulting to false.
func (n *Node) BoolValue() bool {
	if n == nil || n.Kind != KindBool {
		return false
	}
	return n.Bool
}

// Clone returns a deep copy of n.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Bool: n.Bool, Number: n.Number, Str: n.Str}
	switch n.Kind {
	case KindArray:
		out.Arr = make([]*Node, len(n.Arr))
		for i, item := range n.Arr {
			out.Arr[i] = Clone(item)
		}
	case KindObject:
		out.Obj = NewObjectMap()
		for _, k := range n.Obj.Keys() {
			v, _ := n.Obj.Get(k)
			out.Obj.Set(k, Clone(v))
		}
	}
	return out
}

// Equal reports whether a and b are structurally identical: same Kind,
// same scalar value, same array elements in order, same object keys in any
// order with equal values. Object key ORDER is deliberately ignored here —
// idempotence (Testable Property 5) is a semantic property, not a
// byte-for-byte one.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindNumber:
		return a.Number == b.Number
	case KindString:
		return a.Str == b.Str
	case KindArray:
		if len(a.Arr) != len(b.Arr) {
			return false
		}
		for i := range a.Arr {
			if !Equal(a.Arr[i], b.Arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.Obj.Len() != b.Obj.Len() {
			return false
		}
		for _, k := range a.Obj.Keys() {
			av, _ := a.Obj.Get(k)
			bv, ok := b.Obj.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// DeepMerge merges src into dst and returns a new tree; neither input is
// modified. Object values are merged key-by-key, recursively. On any
// non-object collision (scalar, array, or mismatched kinds) src wins
// outright, matching a plain overwrite. MergeParentIntoChild calls
// DeepMerge(parentValue, childValue) so that the child (src) wins; see allof.go.
func DeepMerge(dst, src *Node) *Node {
	if dst == nil {
		return Clone(src)
	}
	if src == nil {
		return Clone(dst)
	}
	if dst.Kind != KindObject || src.Kind != KindObject {
		return Clone(src)
	}
	out := Clone(dst)
	for _, k := range src.Obj.Keys() {
		sv, _ := src.Obj.Get(k)
		if ev, ok := out.Obj.Get(k); ok {
			out.Obj.Set(k, DeepMerge(ev, sv))
		} else {
			out.Obj.Set(k, Clone(sv))
		}
	}
	return out
}
