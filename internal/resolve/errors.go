package resolve

import "fmt"

// ResolveSpecError is the umbrella error surfaced by Resolve for any
// pass failure. It carries the document path and the inner cause(s),
// mirroring the teacher's SpecError{Code, Message, Location, Cause}
// pattern (internal/spec/loader.go) generalized to a list of inner
// errors per spec.md §7.
type ResolveSpecError struct {
	SpecPath string
	Message  string
	Inner    []error
}

func (e *ResolveSpecError) Error() string {
	if len(e.Inner) == 0 {
		return fmt.Sprintf("resolve %s: %s", e.SpecPath, e.Message)
	}
	return fmt.Sprintf("resolve %s: %s: %v", e.SpecPath, e.Message, e.Inner[0])
}

func (e *ResolveSpecError) Unwrap() error {
	if len(e.Inner) == 0 {
		return nil
	}
	return e.Inner[0]
}

func wrapPassError(docPath, pass string, cause error) *ResolveSpecError {
	return &ResolveSpecError{
		SpecPath: docPath,
		Message:  fmt.Sprintf("pass %q failed", pass),
		Inner:    []error{cause},
	}
}

// InvalidArgument is raised eagerly at pass/function entry for a null/empty
// name, a non-object tree, or a non-string path.
type InvalidArgument struct {
	Arg    string
	Reason string
}

func (e *InvalidArgument) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Arg, e.Reason)
}

// MalformedReference is raised when a $ref string parses to no components
// (neither a file path nor a local pointer).
type MalformedReference struct {
	Raw string
}

func (e *MalformedReference) Error() string {
	return fmt.Sprintf("malformed $ref: %q", e.Raw)
}
