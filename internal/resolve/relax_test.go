package resolve

import (
	"context"
	"testing"

	"github.com/mark3labs/swagger2resolve/internal/spectree"
)

func TestResolvePureObjects_EmptyObjectBecomesPermissive(t *testing.T) {
	tree := mustTree(t, `
swagger: "2.0"
paths: {}
definitions:
  Bag:
    type: object
`)
	out, err := Resolve(context.Background(), tree, "/doc.json", Options{}, &fakeLoader{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	addl, ok := spectree.Get(out, "/definitions/Bag/additionalProperties")
	if !ok || addl.Kind != spectree.KindBool || !addl.BoolValue() {
		t.Fatalf("expected additionalProperties=true, got %+v", addl)
	}
}

func TestResolvePureObjects_NestedAdditionalPropertiesObjectCollapses(t *testing.T) {
	tree := mustTree(t, `
swagger: "2.0"
paths: {}
definitions:
  Wrapper:
    type: object
    properties:
      bag:
        type: object
    additionalProperties:
      type: object
`)
	out, err := Resolve(context.Background(), tree, "/doc.json", Options{}, &fakeLoader{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	addl, ok := spectree.Get(out, "/definitions/Wrapper/additionalProperties")
	if !ok || addl.Kind != spectree.KindBool || !addl.BoolValue() {
		t.Fatalf("expected a bare {type: object} additionalProperties to collapse to true, got %+v", addl)
	}
}

func TestResolvePureObjects_ModelWithPropertiesUntouched(t *testing.T) {
	tree := mustTree(t, `
swagger: "2.0"
paths: {}
definitions:
  Named:
    type: object
    properties:
      name:
        type: string
`)
	opts := Options{
		ShouldSetAdditionalPropertiesFalse: boolPtr(false),
		ShouldResolveAllOf:                 boolPtr(false),
	}
	out, err := Resolve(context.Background(), tree, "/doc.json", opts, &fakeLoader{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, ok := spectree.Get(out, "/definitions/Named/additionalProperties"); ok {
		t.Fatalf("did not expect additionalProperties on a model with declared properties")
	}
}

func TestRelaxOperation_SkipsOctetStreamBody(t *testing.T) {
	tree := mustTree(t, `
swagger: "2.0"
consumes: [application/octet-stream]
paths:
  /upload:
    post:
      parameters:
        - in: body
          name: file
          schema:
            type: object
      responses:
        "200":
          description: ok
`)
	out, err := Resolve(context.Background(), tree, "/doc.json", Options{}, &fakeLoader{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	schema, ok := spectree.Get(out, "/paths/~1upload/post/parameters/0/schema")
	if !ok {
		t.Fatalf("expected body schema")
	}
	if _, hasAddl := schema.Field("additionalProperties"); hasAddl {
		t.Fatalf("did not expect relaxation for an octet-stream body, got %+v", schema)
	}
}

func TestRelaxEntityType_UntypedNonBodyParam(t *testing.T) {
	tree := mustTree(t, `
swagger: "2.0"
paths:
  /search:
    get:
      parameters:
        - in: query
          name: filter
      responses:
        "200":
          description: ok
`)
	out, err := Resolve(context.Background(), tree, "/doc.json", Options{}, &fakeLoader{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	param, ok := spectree.Get(out, "/paths/~1search/get/parameters/0")
	if !ok {
		t.Fatalf("expected parameter")
	}
	typeField, ok := param.Field("type")
	if !ok || typeField.StringValue() != "object" {
		t.Fatalf("expected type=object, got %+v", typeField)
	}
}
