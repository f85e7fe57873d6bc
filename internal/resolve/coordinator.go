package resolve

import (
	"context"

	"github.com/mark3labs/swagger2resolve/internal/spectree"
)

// Result is the outcome of ResolveWithReport: the rewritten tree plus
// informational bookkeeping collected along the way.
type Result struct {
	Tree *spectree.Node
	// UnrecognizedTopLevelKeys lists document-level keys that are neither a
	// known Swagger 2.0 field nor an "x-" vendor extension. Informational
	// only; spec.md's Non-goals exclude schema validation.
	UnrecognizedTopLevelKeys []string
}

// Resolve implements spec.md §6's single entry point: Resolve(tree, docPath,
// options) -> tree. It is a thin wrapper around ResolveWithReport for
// callers that only need the rewritten tree.
func Resolve(ctx context.Context, tree *spectree.Node, docPath string, opts Options, loader DocLoader) (*spectree.Node, error) {
	result, err := ResolveWithReport(ctx, tree, docPath, opts, loader)
	if err != nil {
		return nil, err
	}
	return result.Tree, nil
}

// ResolveWithReport runs the same ten-pass pipeline as Resolve (§4.1, fixed
// order, each gated by its effective option flag) but also returns the
// bookkeeping a caller might want to surface, such as unrecognized
// top-level keys.
func ResolveWithReport(ctx context.Context, tree *spectree.Node, docPath string, opts Options, loader DocLoader) (*Result, error) {
	if tree == nil || !tree.IsObject() {
		return nil, &InvalidArgument{Arg: "tree", Reason: "must be a non-nil object"}
	}
	if docPath == "" {
		return nil, &InvalidArgument{Arg: "docPath", Reason: "must be non-empty"}
	}

	effective := resolveEffectiveOptions(opts, tree)
	s := newState(tree, docPath, effective, loader)

	for _, step := range s.pipeline(ctx) {
		if err := ctxErr(ctx); err != nil {
			return nil, wrapPassError(docPath, step.name, err)
		}
		if !step.enabled {
			continue
		}
		if err := step.run(); err != nil {
			return nil, wrapPassError(docPath, step.name, err)
		}
	}
	return &Result{Tree: s.tree, UnrecognizedTopLevelKeys: s.unrecognizedTopLevelKeys}, nil
}

type pipelineStep struct {
	name    string
	enabled bool
	run     func() error
}

// pipeline returns the ten steps of §4.1 in their fixed order. Passes that
// need a context (only relative-path resolution, since DocLoader.Load is
// the sole suspension point per §5) close over ctx via resolveRelativePaths.
func (s *state) pipeline(ctx context.Context) []pipelineStep {
	return []pipelineStep{
		{"UnifyXmsPaths", true, s.unifyXmsPaths},
		{"ResolveRelativePaths", s.opts.resolveRelativePaths, func() error { return s.resolveRelativePaths(ctx) }},
		{"ResolveAllOfInDefinitions", s.opts.resolveAllOf, s.resolveAllOfInDefinitions},
		{"ResolveDiscriminator", s.opts.resolveDiscriminator, s.resolveDiscriminator},
		{"DeleteReferencesToAllOf", s.opts.resolveAllOf, s.deleteReferencesToAllOf},
		{"SetAdditionalPropertiesFalse", s.opts.setAdditionalPropertiesFalse, s.setAdditionalPropertiesFalse},
		{"ResolveParameterizedHost", s.opts.resolveParameterizedHost, s.resolveParameterizedHost},
		{"ResolvePureObjects", s.opts.resolvePureObjects, s.resolvePureObjects},
		{"ResolveNullableTypes", s.opts.resolveNullableTypes, s.resolveNullableTypes},
		{"ModelImplicitDefaultResponse", s.opts.modelImplicitDefaultResponse, s.modelImplicitDefaultResponse},
	}
}

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
