package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit_WritesFixtureFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out := filepath.Join(dir, "fixture")

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init", "--out", out})

	if err := root.Execute(); err != nil {
		t.Fatalf("init execute: %v", err)
	}

	main, err := os.ReadFile(filepath.Join(out, "main.yaml"))
	if err != nil {
		t.Fatalf("read main.yaml: %v", err)
	}
	if !strings.Contains(string(main), "definitions.yaml#/NamedEntity") {
		t.Fatalf("expected main.yaml to reference definitions.yaml, got: %s", main)
	}

	defs, err := os.ReadFile(filepath.Join(out, "definitions.yaml"))
	if err != nil {
		t.Fatalf("read definitions.yaml: %v", err)
	}
	if !strings.Contains(string(defs), "NamedEntity") {
		t.Fatalf("expected definitions.yaml to contain NamedEntity, got: %s", defs)
	}
}

func TestInit_ExistingWithoutForce(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out := filepath.Join(dir, "fixture")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(out, "main.yaml"), []byte("x"), 0o600); err != nil {
		t.Fatalf("prewrite: %v", err)
	}

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init", "--out", out})

	err := root.Execute()
	if err == nil {
		t.Fatalf("expected error for existing file without --force")
	}
	if _, ok := err.(usageError); !ok {
		t.Fatalf("expected usage error, got %T: %v", err, err)
	}
}

func TestInit_ForceOverwrites(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out := filepath.Join(dir, "fixture")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(out, "main.yaml"), []byte("x"), 0o600); err != nil {
		t.Fatalf("prewrite: %v", err)
	}

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init", "--out", out, "--force"})

	if err := root.Execute(); err != nil {
		t.Fatalf("init execute: %v", err)
	}
}
