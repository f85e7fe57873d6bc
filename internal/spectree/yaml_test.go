package spectree

import "testing"

func TestFromYAMLPreservesKeyOrder(t *testing.T) {
	doc := []byte(`
swagger: "2.0"
info:
  title: Demo
  version: "1.0"
paths: {}
`)
	n, err := FromYAML(doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !n.IsObject() {
		t.Fatalf("expected object root")
	}
	got := n.Obj.Keys()
	want := []string{"swagger", "info", "paths"}
	if len(got) != len(want) {
		t.Fatalf("keys: got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("key[%d]: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestFromYAMLScalars(t *testing.T) {
	n, err := FromYAML([]byte(`
b: true
n: 42
f: 3.5
s: hello
z: null
`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	check := func(key string, want *Node) {
		got, ok := n.Field(key)
		if !ok {
			t.Fatalf("%s: missing", key)
		}
		if !Equal(got, want) {
			t.Fatalf("%s: got kind=%v want kind=%v", key, got.Kind, want.Kind)
		}
	}
	check("b", NewBool(true))
	check("n", NewNumber(42))
	check("f", NewNumber(3.5))
	check("s", NewString("hello"))
	check("z", NewNull())
}

func TestToYAMLRoundTrip(t *testing.T) {
	n, err := FromYAML([]byte(`{"a": [1, 2, {"b": "c"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out := ToYAML(n)
	m, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", out)
	}
	arr, ok := m["a"].([]any)
	if !ok || len(arr) != 3 {
		t.Fatalf("expected 3-element array, got %v", m["a"])
	}
}
