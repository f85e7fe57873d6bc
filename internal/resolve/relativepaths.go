package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/swagger2resolve/internal/spectree"
)

// refFilter selects which $refs a relativePaths pass considers.
type refFilter int

const (
	filterRelativeOrRemote refFilter = iota // only $refs with a non-empty file component
	filterAll                               // local $refs are visited too
)

// resolveRelativePaths implements spec.md §4.3: it inlines every cross-file
// $ref reachable from s.tree, sequentially (never in parallel — §5), using
// visitedEntities to break cycles and guarantee termination.
func (s *state) resolveRelativePaths(ctx context.Context) error {
	return s.resolveRefsIn(ctx, s.tree, s.tree, s.docPath, filterRelativeOrRemote)
}

// resolveRefsIn scans scanRoot (a subtree already living inside s.tree) for
// $ref hits and resolves each one in turn. sourceTree/sourceDocPath identify
// the document that PURELY LOCAL pointers found in scanRoot should be read
// from — this is s.tree itself for the initial top-level call, but becomes
// the most-recently-loaded external file's tree once resolution recurses
// into spliced content (per spec.md §4.3 step 4: "recursively run relative-
// path resolution on the newly spliced subtree using the external file's
// docPath as base").
func (s *state) resolveRefsIn(ctx context.Context, scanRoot, sourceTree *spectree.Node, sourceDocPath string, filter refFilter) error {
	hits := spectree.ScanRefs(scanRoot)
	sourceDir := docDirOf(sourceDocPath)

	for _, hit := range hits {
		ref := spectree.ParseReference(hit.Ref)
		if ref.Empty() {
			return &MalformedReference{Raw: hit.Ref}
		}

		if ref.FilePath == "" {
			if filter != filterAll {
				continue
			}
			if err := s.resolveLocalPointerFromSource(ctx, ref.LocalPointer, sourceTree, sourceDocPath); err != nil {
				return err
			}
			continue
		}

		extAbsPath := joinRef(sourceDir, ref.FilePath)
		if ref.LocalPointer == "" {
			if s.isXmsExamplesSkip(hit.Pointer) {
				continue
			}
			extTree, err := s.loadCached(ctx, extAbsPath)
			if err != nil {
				return err
			}
			spliceWholeFile(hit.Node, extTree)
			if err := s.resolveRefsIn(ctx, hit.Node, extTree, extAbsPath, filterAll); err != nil {
				return err
			}
			continue
		}

		// With a local pointer component: rewrite to a purely local $ref,
		// then splice+recurse once per distinct local pointer.
		hit.Node.Obj.Set("$ref", spectree.NewString("#"+ref.LocalPointer))

		extTree, err := s.loadCached(ctx, extAbsPath)
		if err != nil {
			return err
		}
		if err := s.spliceAndRecurse(ctx, ref.LocalPointer, extTree, extAbsPath); err != nil {
			return err
		}
	}
	return nil
}

// resolveLocalPointerFromSource handles a $ref with no file component that
// was found while scanning content sourced from an external file: the
// pointer is still resolved against that external file's tree, not the
// host document, because it was local *to that file* before splicing.
func (s *state) resolveLocalPointerFromSource(ctx context.Context, localPointer string, sourceTree *spectree.Node, sourceDocPath string) error {
	return s.spliceAndRecurse(ctx, localPointer, sourceTree, sourceDocPath)
}

// spliceAndRecurse implements the "with local pointer" branch of §4.3 step
// 4, plus the transitive-allOf pickup described in the same step and
// clarified in §9: once per distinct local pointer, copy the referenced
// subobject into s.tree at that same pointer, record it as visited, recurse
// into it, and pre-emptively pick up any allOf-using sibling definitions
// that haven't been visited yet.
func (s *state) spliceAndRecurse(ctx context.Context, localPointer string, sourceTree *spectree.Node, sourceDocPath string) error {
	if _, already := s.visitedEntities[localPointer]; already {
		return nil
	}

	sub, ok := spectree.Get(sourceTree, localPointer)
	if !ok {
		return &ResolveSpecError{SpecPath: sourceDocPath, Message: fmt.Sprintf("local pointer %q not found", localPointer)}
	}
	cloned := spectree.Clone(sub)
	if err := spectree.Set(s.tree, localPointer, cloned); err != nil {
		return err
	}
	s.visitedEntities[localPointer] = cloned

	if err := s.resolveRefsIn(ctx, cloned, sourceTree, sourceDocPath, filterAll); err != nil {
		return err
	}

	return s.pickUpTransitiveAllOf(ctx, sourceTree, sourceDocPath)
}

// pickUpTransitiveAllOf implements the clarified semantics from spec.md §9:
// for each definition in the external file whose pointer is not yet in
// visitedEntities, if it has an allOf, splice it and recurse. This captures
// base models reachable only through a composed child's allOf, not through
// any explicit $ref in the host document (spec.md §8 scenario S5).
func (s *state) pickUpTransitiveAllOf(ctx context.Context, sourceTree *spectree.Node, sourceDocPath string) error {
	defs, ok := sourceTree.Field("definitions")
	if !ok || !defs.IsObject() {
		return nil
	}
	for _, name := range defs.Obj.Keys() {
		def, _ := defs.Obj.Get(name)
		if !def.IsObject() {
			continue
		}
		if _, hasAllOf := def.Field("allOf"); !hasAllOf {
			continue
		}
		ptr := spectree.JoinPointer("definitions", name)
		if _, already := s.visitedEntities[ptr]; already {
			continue
		}
		if err := s.spliceAndRecurse(ctx, ptr, sourceTree, sourceDocPath); err != nil {
			return err
		}
	}
	return nil
}

// spliceWholeFile replaces refNode's content with a clone of the entire
// loaded external document, implementing the whole-file import branch of
// §4.3 step 3. refNode keeps its identity (it is still whatever slot the
// parent object/array holds a pointer to) but its Kind/Obj/Arr are
// overwritten in place.
func spliceWholeFile(refNode, extTree *spectree.Node) {
	cloned := spectree.Clone(extTree)
	refNode.Kind = cloned.Kind
	refNode.Bool = cloned.Bool
	refNode.Number = cloned.Number
	refNode.Str = cloned.Str
	refNode.Arr = cloned.Arr
	refNode.Obj = cloned.Obj
}

func (s *state) isXmsExamplesSkip(pointer string) bool {
	if s.opts.resolveXmsExamples {
		return false
	}
	return strings.Contains(strings.ToLower(pointer), "x-ms-examples")
}

// loadCached loads absPath via s.loader, caching the result per absolute
// path for the lifetime of this Resolve call — the resolver treats loader
// results as immutable (spec.md §5) and copies subobjects out of them
// rather than aliasing, so sharing one loaded tree across multiple $refs
// into the same file is safe.
func (s *state) loadCached(ctx context.Context, absPath string) (*spectree.Node, error) {
	if s.docCache == nil {
		s.docCache = make(map[string]*spectree.Node)
	}
	if tree, ok := s.docCache[absPath]; ok {
		return tree, nil
	}
	tree, err := s.loader.Load(ctx, absPath)
	if err != nil {
		return nil, &ResolveSpecError{SpecPath: absPath, Message: "load external document failed", Inner: []error{err}}
	}
	s.docCache[absPath] = tree
	return tree, nil
}
