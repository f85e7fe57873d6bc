package resolve

import "github.com/mark3labs/swagger2resolve/internal/spectree"

// resolveNullableTypes implements §4.8 across every schema subtree
// (definitions, parameters, response schemas).
func (s *state) resolveNullableTypes() error {
	if defs, ok := s.tree.Field("definitions"); ok && defs.IsObject() {
		for _, name := range defs.Obj.Keys() {
			model, _ := defs.Obj.Get(name)
			rewriteNullableSchema(model, s.discriminatorProps)
		}
	}

	if globalParams, ok := s.tree.Field("parameters"); ok && globalParams.IsObject() {
		for _, name := range globalParams.Obj.Keys() {
			param, _ := globalParams.Obj.Get(name)
			rewriteNullableParameter(param, s.discriminatorProps)
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
				rewriteNullableParameter(p, s.discriminatorProps)
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
			if params, ok := op.Field("parameters"); ok && params.IsArray() {
				for _, p := range params.Arr {
					rewriteNullableParameter(p, s.discriminatorProps)
				}
			}
			if responses, ok := op.Field("responses"); ok && responses.IsObject() {
				for _, code := range responses.Obj.Keys() {
					resp, _ := responses.Obj.Get(code)
					if !resp.IsObject() {
						continue
					}
					if schema, ok := resp.Field("schema"); ok && schema.IsObject() {
						rewriteNullableSchema(schema, s.discriminatorProps)
					}
				}
			}
		}
	}
	return nil
}

// rewriteNullableSchema implements §4.8's per-property tri-state rule,
// recursing first so nested schemas are rewritten before a parent property
// is (possibly) wrapped. discriminatorProps marks property nodes that
// DiscriminatorResolver already rewrote into a single-value enum; those are
// never nullable-wrapped, or the enum would end up hidden under oneOf[0]
// instead of directly on the property.
func rewriteNullableSchema(schema *spectree.Node, discriminatorProps map[*spectree.Node]bool) {
	if schema == nil || !schema.IsObject() {
		return
	}

	required := stringArrayField(schema, "required")
	requiredSet := make(map[string]bool, len(required))
	for _, r := range required {
		requiredSet[r] = true
	}

	if props, ok := schema.Field("properties"); ok && props.IsObject() {
		for _, name := range props.Obj.Keys() {
			prop, _ := props.Obj.Get(name)
			rewriteNullableSchema(prop, discriminatorProps)
			if discriminatorProps[prop] {
				continue
			}
			if shouldWrapNullable(prop, requiredSet[name]) {
				props.Obj.Set(name, wrapNullable(prop))
			}
		}
	}
	if allOf, ok := schema.Field("allOf"); ok && allOf.IsArray() {
		for _, v := range allOf.Arr {
			rewriteNullableSchema(v, discriminatorProps)
		}
	}
	if oneOf, ok := schema.Field("oneOf"); ok && oneOf.IsArray() {
		for _, v := range oneOf.Arr {
			rewriteNullableSchema(v, discriminatorProps)
		}
	}
	if anyOf, ok := schema.Field("anyOf"); ok && anyOf.IsArray() {
		for _, v := range anyOf.Arr {
			rewriteNullableSchema(v, discriminatorProps)
		}
	}
	if items, ok := schema.Field("items"); ok && items.IsObject() {
		rewriteNullableSchema(items, discriminatorProps)
	}
}

// shouldWrapNullable implements §4.8's tri-state: explicit x-nullable wins;
// otherwise the enclosing required-ness decides.
func shouldWrapNullable(prop *spectree.Node, isRequired bool) bool {
	if xn, ok := prop.Field("x-nullable"); ok && xn.Kind == spectree.KindBool {
		return xn.BoolValue()
	}
	return !isRequired
}

func wrapNullable(original *spectree.Node) *spectree.Node {
	nullType := spectree.NewObject()
	_ = nullType.SetField("type", spectree.NewString("null"))
	wrapped := spectree.NewObject()
	_ = wrapped.SetField("oneOf", spectree.NewArray(spectree.Clone(original), nullType))
	return wrapped
}

// rewriteNullableParameter implements §4.8's allowNullableParams rule for
// non-body parameters, keyed on the parameter's own required flag. Swagger
// 2.0 non-body parameters carry their type directly (no nested schema), so
// the type-bearing keys are lifted into a oneOf branch alongside the
// parameter's own name/in/required/description metadata, which is left in
// place.
func rewriteNullableParameter(param *spectree.Node, discriminatorProps map[*spectree.Node]bool) {
	if !param.IsObject() {
		return
	}
	if inField, ok := param.Field("in"); ok && inField.StringValue() == "body" {
		if schema, ok := param.Field("schema"); ok && schema.IsObject() {
			rewriteNullableSchema(schema, discriminatorProps)
		}
		return
	}

	requiredField, _ := param.Field("required")
	isRequired := requiredField != nil && requiredField.BoolValue()
	if !shouldWrapNullable(param, isRequired) {
		return
	}

	typeBearing := spectree.NewObject()
	for _, key := range nullableTypeKeys {
		if v, ok := param.Field(key); ok {
			_ = typeBearing.SetField(key, spectree.Clone(v))
			param.DeleteField(key)
		}
	}
	nullType := spectree.NewObject()
	_ = nullType.SetField("type", spectree.NewString("null"))
	_ = param.SetField("oneOf", spectree.NewArray(typeBearing, nullType))
}

var nullableTypeKeys = []string{
	"type", "format", "items", "enum", "default",
	"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum",
	"minLength", "maxLength", "pattern",
	"minItems", "maxItems", "uniqueItems", "multipleOf", "collectionFormat",
}
