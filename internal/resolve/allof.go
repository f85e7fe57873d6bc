package resolve

import "github.com/mark3labs/swagger2resolve/internal/spectree"

// resolveAllOfInDefinitions implements spec.md §4.4's entry point:
// ComposeModel every top-level definition in tree.definitions.
func (s *state) resolveAllOfInDefinitions() error {
	defs, ok := s.tree.Field("definitions")
	if !ok || !defs.IsObject() {
		return nil
	}
	for _, name := range defs.Obj.Keys() {
		model, _ := defs.Obj.Get(name)
		if err := s.composeModel(model, spectree.JoinPointer("definitions", name)); err != nil {
			return err
		}
	}
	return nil
}

// composeModel implements §4.4's ComposeModel. resolvedAllOfModels is the
// cycle-breaking cache: a pointer mid-composition (or already composed) is
// treated as done (§5 cycle handling).
func (s *state) composeModel(model *spectree.Node, modelRef string) error {
	if model == nil {
		return nil
	}
	if _, done := s.resolvedAllOfModels[modelRef]; done {
		return nil
	}

	allOf, hasAllOf := model.Field("allOf")
	if !hasAllOf || !allOf.IsArray() || len(allOf.Arr) == 0 {
		s.resolvedAllOfModels[modelRef] = model
		return nil
	}
	// Record before recursing into parents so a cyclic allOf re-entry on
	// this same pointer sees "already composed" rather than looping.
	s.resolvedAllOfModels[modelRef] = model

	for _, item := range allOf.Arr {
		parent := item
		parentRef := ""

		if refVal, ok := item.Field("$ref"); ok && refVal.IsString() {
			ref := spectree.ParseReference(refVal.StringValue())
			if !ref.IsLocal() {
				return &InvalidArgument{Arg: "allOf[].$ref", Reason: "must be local by the time AllOfComposer runs; relative-path resolution should have inlined it"}
			}
			parentRef = ref.LocalPointer
			resolved, ok := spectree.Get(s.tree, parentRef)
			if !ok {
				return &InvalidArgument{Arg: "allOf[].$ref", Reason: "local pointer " + parentRef + " not found"}
			}
			parent = resolved
		}

		if parentRef != "" {
			if err := s.composeModel(parent, parentRef); err != nil {
				return err
			}
		}
		mergeParentIntoChild(parent, model)
		if parentRef != "" {
			s.resolvedAllOfModels[parentRef] = parent
		}
	}
	return nil
}

// mergeParentIntoChild implements §4.4's MergeParentIntoChild: child.properties
// is the deep merge of parent.properties and child.properties with child
// winning on collision, child.required is the order-preserving union of both
// required arrays, and x-ms-azure-resource is copied down if the parent has
// it. Other fields are left alone.
func mergeParentIntoChild(parent, child *spectree.Node) {
	if parentProps, ok := parent.Field("properties"); ok && parentProps.IsObject() {
		childProps, ok := child.Field("properties")
		if !ok || !childProps.IsObject() {
			childProps = spectree.NewObject()
		}
		merged := spectree.DeepMerge(parentProps, childProps)
		_ = child.SetField("properties", merged)
	}

	parentReq := stringArrayField(parent, "required")
	childReq := stringArrayField(child, "required")
	if union := unionPreserveOrder(parentReq, childReq); len(union) > 0 {
		items := make([]*spectree.Node, len(union))
		for i, v := range union {
			items[i] = spectree.NewString(v)
		}
		_ = child.SetField("required", spectree.NewArray(items...))
	}

	if azRes, ok := parent.Field("x-ms-azure-resource"); ok {
		_ = child.SetField("x-ms-azure-resource", spectree.Clone(azRes))
	}
}

// deleteReferencesToAllOf implements §4.4's final step: after composition,
// the allOf key is removed from every top-level definition.
func (s *state) deleteReferencesToAllOf() error {
	defs, ok := s.tree.Field("definitions")
	if !ok || !defs.IsObject() {
		return nil
	}
	for _, name := range defs.Obj.Keys() {
		model, _ := defs.Obj.Get(name)
		model.DeleteField("allOf")
	}
	return nil
}

func stringArrayField(n *spectree.Node, key string) []string {
	field, ok := n.Field(key)
	if !ok || !field.IsArray() {
		return nil
	}
	out := make([]string, 0, len(field.Arr))
	for _, item := range field.Arr {
		if item.IsString() {
			out = append(out, item.StringValue())
		}
	}
	return out
}

func unionPreserveOrder(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, v := range a {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range b {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
