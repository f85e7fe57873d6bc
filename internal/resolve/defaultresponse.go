package resolve

import "github.com/mark3labs/swagger2resolve/internal/spectree"

// cloudErrorDefinitionsYAML holds the canonical CloudError, CloudErrorBody and
// CloudErrorWrapper definitions injected by §4.10, kept as a data blob the same way the teacher
// keeps its sample config as a constant string (internal/cli/init.go's
// sampleConfigYAML) rather than building it field by field in Go.
const cloudErrorDefinitionsYAML = `
CloudError:
  type: object
  properties:
    error:
      $ref: '#/definitions/CloudErrorBody'
  x-ms-external: true
CloudErrorBody:
  type: object
  properties:
    code:
      type: string
    message:
      type: string
    target:
      type: string
    details:
      type: array
      items:
        $ref: '#/definitions/CloudErrorBody'
  required:
    - code
    - message
CloudErrorWrapper:
  type: object
  properties:
    error:
      $ref: '#/definitions/CloudErrorBody'
`

func cloudErrorDefinitions() (*spectree.Node, error) {
	return spectree.FromYAML([]byte(cloudErrorDefinitionsYAML))
}

func cloudErrorDefaultResponse() *spectree.Node {
	resp := spectree.NewObject()
	_ = resp.SetField("description", spectree.NewString("An unexpected error response."))
	schema := spectree.NewObject()
	_ = schema.SetField("$ref", spectree.NewString("#/definitions/CloudError"))
	_ = resp.SetField("schema", schema)
	return resp
}

// modelImplicitDefaultResponse implements §4.10: inject canonical
// CloudError/CloudErrorWrapper definitions if absent, then add a default
// response to every operation that lacks one.
func (s *state) modelImplicitDefaultResponse() error {
	defs, ok := s.tree.Field("definitions")
	if !ok || !defs.IsObject() {
		defs = spectree.NewObject()
		if err := s.tree.SetField("definitions", defs); err != nil {
			return err
		}
	}

	if !defs.Obj.Has("CloudError") {
		injected, err := cloudErrorDefinitions()
		if err != nil {
			return err
		}
		for _, name := range injected.Obj.Keys() {
			if defs.Obj.Has(name) {
				continue
			}
			v, _ := injected.Obj.Get(name)
			defs.Obj.Set(name, v)
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
		for _, method := range pathItem.Obj.Keys() {
			if !isHTTPMethod(method) {
				continue
			}
			op, _ := pathItem.Obj.Get(method)
			if !op.IsObject() {
				continue
			}
			responses, ok := op.Field("responses")
			if !ok || !responses.IsObject() {
				responses = spectree.NewObject()
				_ = op.SetField("responses", responses)
			}
			if responses.Obj.Has("default") {
				continue
			}
			responses.Obj.Set("default", cloudErrorDefaultResponse())
		}
	}
	return nil
}
