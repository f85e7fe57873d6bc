package spectree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// SplitPointer breaks an RFC-6901 pointer ("/definitions/Cat/properties/name")
// into its unescaped tokens ("definitions", "Cat", "properties", "name").
// The root pointer "" returns a nil slice.
func SplitPointer(ptr string) ([]string, error) {
	if ptr == "" {
		return nil, nil
	}
	if !strings.HasPrefix(ptr, "/") {
		return nil, fmt.Errorf("spectree: pointer %q must start with '/'", ptr)
	}
	raw := strings.Split(ptr[1:], "/")
	tokens := make([]string, len(raw))
	for i, t := range raw {
		tokens[i] = jsonpointer.Unescape(t)
	}
	return tokens, nil
}

// JoinPointer builds an RFC-6901 pointer string from unescaped tokens.
func JoinPointer(tokens ...string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(jsonpointer.Escape(t))
	}
	return b.String()
}

// Get resolves ptr against root, returning (nil, false) if any segment is
// missing or the path walks through a non-container node.
func Get(root *Node, ptr string) (*Node, bool) {
	tokens, err := SplitPointer(ptr)
	if err != nil {
		return nil, false
	}
	cur := root
	for _, tok := range tokens {
		switch {
		case cur == nil:
			return nil, false
		case cur.Kind == KindObject:
			v, ok := cur.Obj.Get(tok)
			if !ok {
				return nil, false
			}
			cur = v
		case cur.Kind == KindArray:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(cur.Arr) {
				return nil, false
			}
			cur = cur.Arr[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Set resolves ptr against root and stores value there, creating
// intermediate Object nodes as needed (per the SpecTree data model). Set
// fails if an intermediate segment addresses an array index out of range,
// or if root itself is nil (the root node must exist before Set is called).
func Set(root *Node, ptr string, value *Node) error {
	tokens, err := SplitPointer(ptr)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return fmt.Errorf("spectree: cannot Set the root pointer in place")
	}
	if root == nil {
		return fmt.Errorf("spectree: Set against a nil root")
	}

	cur := root
	for i, tok := range tokens {
		last := i == len(tokens)-1
		switch cur.Kind {
		case KindObject:
			if last {
				cur.Obj.Set(tok, value)
				return nil
			}
			next, ok := cur.Obj.Get(tok)
			if !ok || next == nil {
				next = NewObject()
				cur.Obj.Set(tok, next)
			}
			cur = next
		case KindArray:
			idx, aerr := strconv.Atoi(tok)
			if aerr != nil {
				return fmt.Errorf("spectree: pointer segment %q is not a valid array index", tok)
			}
			if idx < 0 || idx >= len(cur.Arr) {
				return fmt.Errorf("spectree: array index %d out of range (len=%d)", idx, len(cur.Arr))
			}
			if last {
				cur.Arr[idx] = value
				return nil
			}
			next := cur.Arr[idx]
			if next == nil {
				next = NewObject()
				cur.Arr[idx] = next
			}
			cur = next
		default:
			return fmt.Errorf("spectree: cannot descend into a %s node at segment %q", cur.Kind, tok)
		}
	}
	return nil
}
