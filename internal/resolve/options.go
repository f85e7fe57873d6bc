package resolve

import "github.com/mark3labs/swagger2resolve/internal/spectree"

// Options mirrors spec.md's ResolverOptions. Every field is an optional
// boolean; pointer fields distinguish "unset" (apply the default in §4.1)
// from an explicit true/false. Use the With* helpers to build an Options
// value, or construct one directly for tests.
type Options struct {
	ShouldResolveRelativePaths         *bool
	ShouldResolveXmsExamples           *bool
	ShouldResolveAllOf                 *bool
	ShouldSetAdditionalPropertiesFalse *bool
	ShouldResolvePureObjects           *bool
	ShouldResolveDiscriminator         *bool
	ShouldResolveParameterizedHost     *bool
	ShouldResolveNullableTypes         *bool
	ShouldModelImplicitDefaultResponse *bool
}

func boolPtr(b bool) *bool { return &b }

func WithResolveRelativePaths(b bool) func(*Options) {
	return func(o *Options) { o.ShouldResolveRelativePaths = boolPtr(b) }
}
func WithResolveXmsExamples(b bool) func(*Options) {
	return func(o *Options) { o.ShouldResolveXmsExamples = boolPtr(b) }
}
func WithResolveAllOf(b bool) func(*Options) {
	return func(o *Options) { o.ShouldResolveAllOf = boolPtr(b) }
}
func WithSetAdditionalPropertiesFalse(b bool) func(*Options) {
	return func(o *Options) { o.ShouldSetAdditionalPropertiesFalse = boolPtr(b) }
}
func WithResolvePureObjects(b bool) func(*Options) {
	return func(o *Options) { o.ShouldResolvePureObjects = boolPtr(b) }
}
func WithResolveDiscriminator(b bool) func(*Options) {
	return func(o *Options) { o.ShouldResolveDiscriminator = boolPtr(b) }
}
func WithResolveParameterizedHost(b bool) func(*Options) {
	return func(o *Options) { o.ShouldResolveParameterizedHost = boolPtr(b) }
}
func WithResolveNullableTypes(b bool) func(*Options) {
	return func(o *Options) { o.ShouldResolveNullableTypes = boolPtr(b) }
}
func WithModelImplicitDefaultResponse(b bool) func(*Options) {
	return func(o *Options) { o.ShouldModelImplicitDefaultResponse = boolPtr(b) }
}

// effectiveOptions resolves every field to a concrete bool, applying the
// defaults and interaction rules from spec.md §4.1, given whether the
// document has a "definitions" key at all.
type effectiveOptions struct {
	resolveRelativePaths         bool
	resolveXmsExamples           bool
	resolveAllOf                 bool
	setAdditionalPropertiesFalse bool
	resolvePureObjects           bool
	resolveDiscriminator         bool
	resolveParameterizedHost     bool
	resolveNullableTypes         bool
	modelImplicitDefaultResponse bool
}

func resolveEffectiveOptions(opts Options, doc *spectree.Node) effectiveOptions {
	hasDefinitions := false
	if defs, ok := doc.Field("definitions"); ok && defs.IsObject() {
		hasDefinitions = true
	}

	out := effectiveOptions{
		resolveRelativePaths:         orDefault(opts.ShouldResolveRelativePaths, true),
		resolveXmsExamples:           orDefault(opts.ShouldResolveXmsExamples, true),
		resolveAllOf:                 orDefault(opts.ShouldResolveAllOf, hasDefinitions),
		resolvePureObjects:           orDefault(opts.ShouldResolvePureObjects, true),
		resolveParameterizedHost:     orDefault(opts.ShouldResolveParameterizedHost, true),
		modelImplicitDefaultResponse: orDefault(opts.ShouldModelImplicitDefaultResponse, false),
	}

	// shouldSetAdditionalPropertiesFalse / shouldResolveDiscriminator /
	// shouldResolveNullableTypes default to shouldResolveAllOf's *final*
	// value (after the hasDefinitions fallback above), unless the caller
	// set them explicitly.
	out.setAdditionalPropertiesFalse = orDefault(opts.ShouldSetAdditionalPropertiesFalse, out.resolveAllOf)
	out.resolveDiscriminator = orDefault(opts.ShouldResolveDiscriminator, out.resolveAllOf)
	out.resolveNullableTypes = orDefault(opts.ShouldResolveNullableTypes, out.resolveAllOf)

	// Interaction rule: discriminator expansion requires composed models.
	if out.resolveDiscriminator {
		out.resolveAllOf = true
	}

	// Interaction rule: xms-examples inlining requires relative-path
	// resolution to be running at all.
	if !out.resolveRelativePaths {
		out.resolveXmsExamples = false
	}

	return out
}

func orDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
