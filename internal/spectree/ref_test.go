package spectree

import "testing"

func TestParseReferenceLocal(t *testing.T) {
	r := ParseReference("#/foo/bar")
	if !r.IsLocal() || r.LocalPointer != "/foo/bar" {
		t.Fatalf("got %+v", r)
	}
}

func TestParseReferenceFileOnly(t *testing.T) {
	r := ParseReference("./other.json")
	if r.IsLocal() {
		t.Fatalf("expected non-local reference")
	}
	if r.FilePath != "./other.json" || r.LocalPointer != "" {
		t.Fatalf("got %+v", r)
	}
}

func TestParseReferenceFileAndPointer(t *testing.T) {
	r := ParseReference("./other.json#/defs/X")
	if r.FilePath != "./other.json" || r.LocalPointer != "/defs/X" {
		t.Fatalf("got %+v", r)
	}
}

func TestReferenceEmpty(t *testing.T) {
	r := ParseReference("")
	if !r.Empty() {
		t.Fatalf("expected empty reference")
	}
}

func TestReferenceString(t *testing.T) {
	r := Reference{FilePath: "./other.json", LocalPointer: "/defs/X"}
	if r.String() != "./other.json#/defs/X" {
		t.Fatalf("got %q", r.String())
	}
	r2 := Reference{LocalPointer: "/defs/X"}
	if r2.String() != "#/defs/X" {
		t.Fatalf("got %q", r2.String())
	}
}
