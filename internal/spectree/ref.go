package spectree

import "strings"

// Reference is the parsed form of a $ref string: [filePath]["#"localPointer].
// At least one of FilePath or LocalPointer is non-empty for a well-formed
// reference. Grounded on the minimal (file, pointer) split used throughout
// the retrieval pack's reference-resolution code (e.g. the Ref type in
// other_examples/erraggy-oastools__ref.go and the relative/remote/local
// classification in other_examples/miorlan-openapi-bundler__refs.go).
type Reference struct {
	FilePath     string
	LocalPointer string
}

// IsLocal reports whether the reference has no file component, i.e. it
// resolves entirely within the current document.
func (r Reference) IsLocal() bool { return r.FilePath == "" }

// Empty reports whether neither component is set — a malformed $ref.
func (r Reference) Empty() bool { return r.FilePath == "" && r.LocalPointer == "" }

// String reassembles the reference into its canonical $ref form.
func (r Reference) String() string {
	if r.LocalPointer == "" {
		return r.FilePath
	}
	return r.FilePath + "#" + r.LocalPointer
}

// ParseReference parses a raw $ref string into its components.
//
//	"#/foo/bar"              -> {FilePath: "", LocalPointer: "/foo/bar"}
//	"./other.json"           -> {FilePath: "./other.json", LocalPointer: ""}
//	"./other.json#/defs/X"   -> {FilePath: "./other.json", LocalPointer: "/defs/X"}
func ParseReference(raw string) Reference {
	idx := strings.Index(raw, "#")
	if idx < 0 {
		return Reference{FilePath: raw}
	}
	return Reference{FilePath: raw[:idx], LocalPointer: raw[idx+1:]}
}
