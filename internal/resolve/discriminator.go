package resolve

import (
	"strings"

	"github.com/mark3labs/swagger2resolve/internal/spectree"
)

// resolveDiscriminator implements spec.md §4.5. It must run after allOf
// composition and before DeleteReferencesToAllOf (the pipeline in
// coordinator.go enforces that order): finding a discriminator root's
// children depends on the post-compose, pre-delete allOf arrays.
func (s *state) resolveDiscriminator() error {
	defs, ok := s.tree.Field("definitions")
	if !ok || !defs.IsObject() {
		return nil
	}

	for _, name := range defs.Obj.Keys() {
		model, _ := defs.Obj.Get(name)
		discField, ok := model.Field("discriminator")
		if !ok || !discField.IsString() || discField.StringValue() == "" {
			continue
		}
		propName := discField.StringValue()

		if err := s.rewriteDiscriminatorProperty(propName, name, model); err != nil {
			return err
		}

		root := newPolyTree(name)
		if err := s.buildPolyChildren(root, name, map[string]bool{name: true}); err != nil {
			return err
		}

		// Every descendant inherited the discriminator property's shape via
		// allOf composition, but never independently rewrote it: each needs
		// its own enum value naming its own on-wire name.
		for _, d := range root.Descendants() {
			childModel, ok := defs.Obj.Get(d.Name)
			if !ok {
				continue
			}
			if err := s.rewriteDiscriminatorProperty(propName, d.Name, childModel); err != nil {
				return err
			}
		}

		s.rewriteRefsToOneOf(name, root)
	}
	return nil
}

// rewriteDiscriminatorProperty implements §4.5's discriminator property
// rewrite: the property becomes a single-value enum carrying the model's
// on-wire name, or x-ms-discriminator-value if present. propName is the
// discriminator property as declared on the hierarchy's root; descendants
// never redeclare "discriminator" themselves, only inherit the property via
// allOf composition, so it is passed explicitly rather than re-read from
// each model.
func (s *state) rewriteDiscriminatorProperty(propName, name string, model *spectree.Node) error {
	props, ok := model.Field("properties")
	if !ok || !props.IsObject() {
		return nil
	}
	propNode, ok := props.Obj.Get(propName)
	if !ok {
		return nil
	}

	propNode.DeleteField("$ref")
	if _, hasType := propNode.Field("type"); !hasType {
		_ = propNode.SetField("type", spectree.NewString("string"))
	}

	value := name
	if dv, ok := model.Field("x-ms-discriminator-value"); ok && dv.IsString() && dv.StringValue() != "" {
		value = dv.StringValue()
	}
	_ = propNode.SetField("enum", spectree.NewArray(spectree.NewString(value)))
	s.discriminatorProps[propNode] = true
	return nil
}

// findChildren implements §4.5's "finding children of model N": scan all
// top-level definitions for ones whose (post-compose) allOf array contains
// an item with $ref == "#/definitions/N".
func (s *state) findChildren(name string) []string {
	defs, ok := s.tree.Field("definitions")
	if !ok || !defs.IsObject() {
		return nil
	}
	target := "#/definitions/" + name

	var names []string
	for _, candidate := range defs.Obj.Keys() {
		if candidate == name {
			continue
		}
		def, _ := defs.Obj.Get(candidate)
		allOf, ok := def.Field("allOf")
		if !ok || !allOf.IsArray() {
			continue
		}
		for _, item := range allOf.Arr {
			if refVal, ok := item.Field("$ref"); ok && refVal.IsString() && refVal.StringValue() == target {
				names = append(names, candidate)
				break
			}
		}
	}
	return names
}

// buildPolyChildren recursively attaches name's children (and their
// children) to node, refusing to re-enter a name already on the
// construction stack (spec.md §3, §5, §9): visiting tracks that stack, not
// a global dedup set, since the same model can legitimately appear as a
// child reached via two different branches.
func (s *state) buildPolyChildren(node *PolyTree, name string, visiting map[string]bool) error {
	for _, childName := range s.findChildren(name) {
		if visiting[childName] {
			continue
		}
		child, err := node.AddChild(childName)
		if err != nil {
			return err
		}
		visiting[childName] = true
		if err := s.buildPolyChildren(child, childName, visiting); err != nil {
			return err
		}
		delete(visiting, childName)
	}
	return nil
}

// rewriteRefsToOneOf implements §4.5's ref rewriting: every $ref pointing
// exactly at the discriminator root, outside any allOf/oneOf subtree, is
// replaced by a oneOf array of [root, descendants...] in DFS order with
// duplicates removed.
func (s *state) rewriteRefsToOneOf(rootName string, root *PolyTree) {
	target := "#/definitions/" + rootName

	seen := map[string]bool{rootName: true}
	items := []*spectree.Node{refItem(rootName)}
	for _, d := range root.Descendants() {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		items = append(items, refItem(d.Name))
	}

	for _, hit := range spectree.ScanRefs(s.tree) {
		if hit.Ref != target {
			continue
		}
		if strings.Contains(hit.Pointer, "/allOf") || strings.Contains(hit.Pointer, "/oneOf") {
			continue
		}
		hit.Node.DeleteField("$ref")
		cloned := make([]*spectree.Node, len(items))
		for i, it := range items {
			cloned[i] = spectree.Clone(it)
		}
		_ = hit.Node.SetField("oneOf", spectree.NewArray(cloned...))
	}
}

func refItem(name string) *spectree.Node {
	item := spectree.NewObject()
	_ = item.SetField("$ref", spectree.NewString("#/definitions/"+name))
	return item
}
