package resolve

import (
	"context"
	"testing"

	"github.com/mark3labs/swagger2resolve/internal/spectree"
)

func TestUnifyXmsPaths_PathsWinsOnCollision(t *testing.T) {
	tree := mustTree(t, `
swagger: "2.0"
paths:
  /pets:
    get:
      responses:
        "200":
          description: from paths
x-ms-paths:
  /pets:
    get:
      responses:
        "200":
          description: from x-ms-paths
  /pets/{id}:
    get:
      responses:
        "200":
          description: only here
`)
	out, err := Resolve(context.Background(), tree, "/doc.json", Options{}, &fakeLoader{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	desc, ok := spectree.Get(out, "/paths/~1pets/get/responses/200/description")
	if !ok || desc.StringValue() != "from paths" {
		t.Fatalf("expected paths to win on collision, got %+v", desc)
	}
	if _, ok := spectree.Get(out, "/paths/~1pets~1{id}/get"); !ok {
		t.Fatalf("expected the non-colliding x-ms-paths entry to be folded in")
	}
	if _, ok := spectree.Get(out, "/x-ms-paths"); !ok {
		t.Fatalf("expected x-ms-paths to remain in place")
	}
}

func TestKnownSwagger2TopLevelKeys_IncludesCoreFields(t *testing.T) {
	known := knownSwagger2TopLevelKeys()
	for _, field := range []string{"swagger", "info", "paths", "definitions"} {
		if !known[field] {
			t.Fatalf("expected %q to be a recognized Swagger 2.0 top-level key, got %v", field, known)
		}
	}
}
