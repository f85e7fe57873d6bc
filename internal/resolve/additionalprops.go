package resolve

import "github.com/mark3labs/swagger2resolve/internal/spectree"

// setAdditionalPropertiesFalse implements §4.7: close open objects that
// declare properties but say nothing about additionalProperties. Models
// with zero properties are left untouched since they are already acting as
// deliberately open objects (ModelRelaxer has already or will make that
// explicit via its own pass, depending on pipeline order).
func (s *state) setAdditionalPropertiesFalse() error {
	defs, ok := s.tree.Field("definitions")
	if !ok || !defs.IsObject() {
		return nil
	}
	for _, name := range defs.Obj.Keys() {
		model, _ := defs.Obj.Get(name)
		closeAdditionalProperties(model, false)
	}
	return nil
}

// closeAdditionalProperties implements §4.7's per-model rule. force=true
// sets additionalProperties=false unconditionally; otherwise it is only set
// when additionalProperties is absent and properties is non-empty.
func closeAdditionalProperties(model *spectree.Node, force bool) {
	if !model.IsObject() {
		return
	}
	if force {
		_ = model.SetField("additionalProperties", spectree.NewBool(false))
		return
	}
	if _, hasAddl := model.Field("additionalProperties"); hasAddl {
		return
	}
	props, ok := model.Field("properties")
	if !ok || !props.IsObject() || props.Obj.Len() == 0 {
		return
	}
	_ = model.SetField("additionalProperties", spectree.NewBool(false))
}
