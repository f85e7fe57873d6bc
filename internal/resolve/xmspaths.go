package resolve

import (
	"reflect"
	"strings"
	"sync"

	openapi2 "github.com/getkin/kin-openapi/openapi2"

	"github.com/mark3labs/swagger2resolve/internal/spectree"
)

// unifyXmsPaths implements spec.md §4.2: fold every (key, value) pair of
// tree["x-ms-paths"] into tree.paths. The key sets are assumed disjoint; on
// collision the existing "paths" entry wins and the x-ms-paths entry is
// discarded. The "x-ms-paths" key itself is left in place. Unrecognized
// top-level keys are recorded for every document, with or without x-ms-paths.
func (s *state) unifyXmsPaths() error {
	xmsPaths, ok := s.tree.Field("x-ms-paths")
	if !ok || !xmsPaths.IsObject() || xmsPaths.Obj.Len() == 0 {
		return s.warnOnUnrecognizedTopLevelKeys()
	}

	paths, ok := s.tree.Field("paths")
	if !ok || !paths.IsObject() {
		paths = spectree.NewObject()
		if err := s.tree.SetField("paths", paths); err != nil {
			return err
		}
	}

	for _, key := range xmsPaths.Obj.Keys() {
		if paths.Obj.Has(key) {
			continue
		}
		value, _ := xmsPaths.Obj.Get(key)
		paths.Obj.Set(key, value)
	}

	return s.warnOnUnrecognizedTopLevelKeys()
}

var (
	swagger2TopLevelKeysOnce sync.Once
	swagger2TopLevelKeys     map[string]bool
)

// knownSwagger2TopLevelKeys derives the canonical Swagger 2.0 top-level key
// set from kin-openapi's openapi2.T struct tags, rather than hand-copying
// the list, so it tracks whatever version of openapi2.T is vendored.
func knownSwagger2TopLevelKeys() map[string]bool {
	swagger2TopLevelKeysOnce.Do(func() {
		swagger2TopLevelKeys = make(map[string]bool)
		t := reflect.TypeOf(openapi2.T{})
		for i := 0; i < t.NumField(); i++ {
			tag := t.Field(i).Tag.Get("json")
			name := strings.Split(tag, ",")[0]
			if name == "" || name == "-" {
				continue
			}
			swagger2TopLevelKeys[name] = true
		}
	})
	return swagger2TopLevelKeys
}

// warnOnUnrecognizedTopLevelKeys records (but never fails on) top-level
// keys that are neither a recognized Swagger 2.0 field nor an "x-" vendor
// extension. spec.md's Non-goals exclude schema validation, so this is
// informational bookkeeping rather than a rejection.
func (s *state) warnOnUnrecognizedTopLevelKeys() error {
	if !s.tree.IsObject() {
		return nil
	}
	known := knownSwagger2TopLevelKeys()
	for _, key := range s.tree.Obj.Keys() {
		if known[key] || strings.HasPrefix(key, "x-") {
			continue
		}
		s.unrecognizedTopLevelKeys = append(s.unrecognizedTopLevelKeys, key)
	}
	return nil
}
