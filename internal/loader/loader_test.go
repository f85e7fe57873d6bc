package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_BlocksFileURL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := New()
	_, err := l.Load(ctx, "file:///etc/hosts")
	if err == nil {
		t.Fatalf("expected error for file:// URL")
	}
	var le *LoaderError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoaderError, got %T", err)
	}
	if le.Code != InputError {
		t.Fatalf("expected InputError, got %v", le.Code)
	}
}

func TestLoad_AllowFileURL(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	if err := os.WriteFile(path, []byte("swagger: \"2.0\"\npaths: {}\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx := context.Background()
	l := New(WithAllowFileRefs(true))
	tree, err := l.Load(ctx, "file://"+path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tree == nil || !tree.IsObject() {
		t.Fatalf("expected an object tree")
	}
}

func TestLoad_UnsupportedScheme(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := New()
	_, err := l.Load(ctx, "ftp://example.com/spec.yaml")
	if err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
	var le *LoaderError
	if !errors.As(err, &le) || le.Code != InputError {
		t.Fatalf("expected InputError, got %v (%T)", err, err)
	}
}

func TestLoad_NetworkError(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	l := New(WithHTTPTimeout(200*time.Millisecond), WithMaxRetries(2))
	_, err := l.Load(ctx, "http://127.0.0.1:1/spec.yaml")
	if err == nil {
		t.Fatalf("expected network error")
	}
	var le *LoaderError
	if !errors.As(err, &le) || le.Code != NetworkError {
		t.Fatalf("expected NetworkError, got %v (%T)", err, err)
	}
}

func TestLoad_RejectsOpenAPI3(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "v3.yaml")
	content := strings.TrimSpace(`openapi: 3.0.0
info:
  title: Bad
  version: "1.0.0"
paths: {}
`) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx := context.Background()
	l := New()
	_, err := l.Load(ctx, path)
	if err == nil {
		t.Fatalf("expected rejection of an OpenAPI 3.x document")
	}
	var le *LoaderError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoaderError, got %T", err)
	}
	if le.Code != ParseError {
		t.Fatalf("expected ParseError, got %v", le.Code)
	}
}

func TestLoad_Swagger2_Succeeds(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "swagger.yaml")
	content := strings.TrimSpace(`swagger: "2.0"
info:
  title: Sample
  version: "1.0.0"
paths:
  "/hello":
    get:
      responses:
        "200":
          description: ok
`) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx := context.Background()
	l := New()
	tree, err := l.Load(ctx, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	swagger, ok := tree.Field("swagger")
	if !ok || swagger.StringValue() != "2.0" {
		t.Fatalf("expected swagger: 2.0, got %+v", swagger)
	}
}
