package resolve

import "github.com/mark3labs/swagger2resolve/internal/spectree"

// resolveParameterizedHost implements §4.9: fold
// x-ms-parameterized-host.parameters into every operation's parameters
// array, creating it if absent. The extension itself is left in place.
func (s *state) resolveParameterizedHost() error {
	hostExt, ok := s.tree.Field("x-ms-parameterized-host")
	if !ok || !hostExt.IsObject() {
		return nil
	}
	hostParams, ok := hostExt.Field("parameters")
	if !ok || !hostParams.IsArray() || len(hostParams.Arr) == 0 {
		return nil
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
			params, ok := op.Field("parameters")
			if !ok || !params.IsArray() {
				params = spectree.NewArray()
			}
			for _, hp := range hostParams.Arr {
				params.Arr = append(params.Arr, spectree.Clone(hp))
			}
			_ = op.SetField("parameters", params)
		}
	}
	return nil
}
