package resolve

import "github.com/mark3labs/swagger2resolve/internal/spectree"

// resolvePureObjects implements §4.6's application sites: every definition,
// every path-level and operation-level parameter, every operation response
// schema, and every global parameters entry.
func (s *state) resolvePureObjects() error {
	defs, ok := s.tree.Field("definitions")
	if ok && defs.IsObject() {
		for _, name := range defs.Obj.Keys() {
			model, _ := defs.Obj.Get(name)
			relaxModelLikeEntities(model)
		}
	}

	if globalParams, ok := s.tree.Field("parameters"); ok && globalParams.IsObject() {
		for _, name := range globalParams.Obj.Keys() {
			param, _ := globalParams.Obj.Get(name)
			s.relaxParameter(param, nil)
		}
	}

	paths, ok := s.tree.Field("paths")
	if !ok || !paths.IsObject() {
		return nil
	}
	for _, pathName := range paths.Obj.Keys() {
		pathItem, _ := paths.Obj.Get(pathName)
		if !pathItem.IsObject() {
			continue
		}
		if pathParams, ok := pathItem.Field("parameters"); ok && pathParams.IsArray() {
			for _, p := range pathParams.Arr {
				s.relaxParameter(p, nil)
			}
		}
		for _, method := range pathItem.Obj.Keys() {
			if !isHTTPMethod(method) {
				continue
			}
			op, _ := pathItem.Obj.Get(method)
			if !op.IsObject() {
				continue
			}
			s.relaxOperation(op)
		}
	}
	return nil
}

func (s *state) relaxOperation(op *spectree.Node) {
	consumes := s.effectiveMimeTypes(op, "consumes")
	produces := s.effectiveMimeTypes(op, "produces")

	if params, ok := op.Field("parameters"); ok && params.IsArray() {
		for _, p := range params.Arr {
			s.relaxParameter(p, consumes)
		}
	}

	responses, ok := op.Field("responses")
	if !ok || !responses.IsObject() {
		return
	}
	if hasOctetStream(produces) {
		return
	}
	for _, code := range responses.Obj.Keys() {
		resp, _ := responses.Obj.Get(code)
		if !resp.IsObject() {
			continue
		}
		if schema, ok := resp.Field("schema"); ok && schema.IsObject() {
			relaxModelLikeEntities(schema)
		}
	}
}

func (s *state) relaxParameter(param *spectree.Node, consumes []string) {
	if !param.IsObject() {
		return
	}
	inField, _ := param.Field("in")
	if inField != nil && inField.StringValue() == "body" {
		if hasOctetStream(consumes) {
			return
		}
		if schema, ok := param.Field("schema"); ok && schema.IsObject() {
			relaxModelLikeEntities(schema)
		}
		return
	}
	relaxEntityType(param)
}

// effectiveMimeTypes implements §4.6's fallback chain: operation's, else
// spec-global's, else ["application/json"].
func (s *state) effectiveMimeTypes(op *spectree.Node, key string) []string {
	if v := stringArrayField(op, key); len(v) > 0 {
		return v
	}
	if v := stringArrayField(s.tree, key); len(v) > 0 {
		return v
	}
	return []string{"application/json"}
}

func hasOctetStream(mimeTypes []string) bool {
	for _, m := range mimeTypes {
		if m == "application/octet-stream" {
			return true
		}
	}
	return false
}

func isHTTPMethod(key string) bool {
	switch key {
	case "get", "put", "post", "delete", "options", "head", "patch":
		return true
	default:
		return false
	}
}

// relaxModelLikeEntities implements §4.6's RelaxModelLikeEntities: recurse
// into every subschema location, and relax a type=="object" schema with no
// declared properties and no additionalProperties into a permissive one.
func relaxModelLikeEntities(s *spectree.Node) {
	if s == nil || !s.IsObject() {
		return
	}

	if props, ok := s.Field("properties"); ok && props.IsObject() {
		for _, k := range props.Obj.Keys() {
			v, _ := props.Obj.Get(k)
			relaxModelLikeEntities(v)
		}
	}
	if allOf, ok := s.Field("allOf"); ok && allOf.IsArray() {
		for _, v := range allOf.Arr {
			relaxModelLikeEntities(v)
		}
	}
	if oneOf, ok := s.Field("oneOf"); ok && oneOf.IsArray() {
		for _, v := range oneOf.Arr {
			relaxModelLikeEntities(v)
		}
	}
	if anyOf, ok := s.Field("anyOf"); ok && anyOf.IsArray() {
		for _, v := range anyOf.Arr {
			relaxModelLikeEntities(v)
		}
	}
	if items, ok := s.Field("items"); ok && items.IsObject() {
		relaxModelLikeEntities(items)
	}
	if addl, ok := s.Field("additionalProperties"); ok && addl.IsObject() {
		// A bare {type: "object"} additionalProperties schema collapses to
		// permissive-true directly (rule 3). Recursing into it first would
		// let rule 2 fire on addl itself and add its own
		// additionalProperties:true, which makes addl's key count always 2
		// by the time rule 3 would check it, so rule 3 could never collapse.
		if isPermissiveObjectSchema(addl) {
			_ = s.SetField("additionalProperties", spectree.NewBool(true))
		} else {
			relaxModelLikeEntities(addl)
		}
	}

	typeField, _ := s.Field("type")
	isObjectType := typeField != nil && typeField.StringValue() == "object"
	props, hasProps := s.Field("properties")
	propsEmpty := !hasProps || !props.IsObject() || props.Obj.Len() == 0
	_, hasAddl := s.Field("additionalProperties")

	if isObjectType && propsEmpty && !hasAddl {
		_ = s.SetField("additionalProperties", spectree.NewBool(true))
	}
}

// isPermissiveObjectSchema reports whether addl is exactly {type: "object"}
// with no further constraints, §4.6 rule 3's literal collapse trigger.
func isPermissiveObjectSchema(addl *spectree.Node) bool {
	addlType, ok := addl.Field("type")
	if !ok || addlType.StringValue() != "object" {
		return false
	}
	return addl.Obj.Len() == 1
}

// relaxEntityType implements §4.6's RelaxEntityType for non-body
// parameters: an untyped parameter becomes a permissive object.
func relaxEntityType(param *spectree.Node) {
	if _, hasType := param.Field("type"); hasType {
		return
	}
	_ = param.SetField("type", spectree.NewString("object"))
	_ = param.SetField("additionalProperties", spectree.NewBool(true))
}
