package spectree

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FromYAML decodes raw YAML or JSON bytes (JSON is a YAML subset) into a
// Node tree, preserving mapping key order via yaml.v3's *yaml.Node.
func FromYAML(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("spectree: decode: %w", err)
	}
	if doc.Kind == 0 {
		return NewNull(), nil
	}
	// A top-level Document node wraps the real content in Content[0].
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return NewNull(), nil
		}
		return fromYAMLNode(doc.Content[0])
	}
	return fromYAMLNode(&doc)
}

func fromYAMLNode(n *yaml.Node) (*Node, error) {
	if n == nil {
		return NewNull(), nil
	}
	switch n.Kind {
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	case yaml.ScalarNode:
		return scalarFromYAML(n)
	case yaml.SequenceNode:
		arr := make([]*Node, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := fromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, item)
		}
		return &Node{Kind: KindArray, Arr: arr}, nil
	case yaml.MappingNode:
		obj := NewObjectMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			key := keyNode.Value
			val, err := fromYAMLNode(valNode)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		return &Node{Kind: KindObject, Obj: obj}, nil
	default:
		return NewNull(), nil
	}
}

func scalarFromYAML(n *yaml.Node) (*Node, error) {
	switch n.Tag {
	case "!!null":
		return NewNull(), nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, fmt.Errorf("spectree: invalid bool %q: %w", n.Value, err)
		}
		return NewBool(b), nil
	case "!!int", "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("spectree: invalid number %q: %w", n.Value, err)
		}
		return NewNumber(f), nil
	default:
		return NewString(n.Value), nil
	}
}

// ToYAML re-encodes a Node back into a generic Go value tree
// (map[string]any / []any / scalars) suitable for yaml.Marshal or
// json.Marshal.
func ToYAML(n *Node) any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindNull:
		return nil
	case KindBool:
		return n.Bool
	case KindNumber:
		if n.Number == float64(int64(n.Number)) {
			return int64(n.Number)
		}
		return n.Number
	case KindString:
		return n.Str
	case KindArray:
		out := make([]any, len(n.Arr))
		for i, item := range n.Arr {
			out[i] = ToYAML(item)
		}
		return out
	case KindObject:
		out := make(map[string]any, n.Obj.Len())
		for _, k := range n.Obj.Keys() {
			v, _ := n.Obj.Get(k)
			out[k] = ToYAML(v)
		}
		return out
	default:
		return nil
	}
}

// FromAny converts a generic Go value (as produced by yaml.Unmarshal into
// `any`, or by encoding/json.Unmarshal into `any`) into a Node. Map key
// order is not preserved by this path since Go maps have none; it exists
// for test fixtures and for interop with callers that already hold a
// decoded `any` tree, not for the primary document-loading path (use
// FromYAML for that).
func FromAny(v any) *Node {
	switch val := v.(type) {
	case nil:
		return NewNull()
	case bool:
		return NewBool(val)
	case int:
		return NewNumber(float64(val))
	case int64:
		return NewNumber(float64(val))
	case float64:
		return NewNumber(val)
	case string:
		return NewString(val)
	case []any:
		arr := make([]*Node, len(val))
		for i, item := range val {
			arr[i] = FromAny(item)
		}
		return &Node{Kind: KindArray, Arr: arr}
	case map[string]any:
		obj := NewObjectMap()
		for k, item := range val {
			obj.Set(k, FromAny(item))
		}
		return &Node{Kind: KindObject, Obj: obj}
	default:
		return NewNull()
	}
}
