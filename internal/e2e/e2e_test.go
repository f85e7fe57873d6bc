// Package e2e exercises the swagger2resolve binary end to end: scaffold a
// fixture with `init`, resolve it with `resolve`, and check the output is a
// well-formed, self-contained Swagger 2.0 document.
package e2e

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"gopkg.in/yaml.v3"
)

func buildBinary(t *testing.T) string {
	t.Helper()
	_, thisFile, _, _ := runtime.Caller(0)
	repoRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")

	bin := filepath.Join(t.TempDir(), "swagger2resolve")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/swagger2resolve")
	cmd.Dir = repoRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Skipf("skipping e2e test: build failed (likely no network/module cache available): %v\n%s", err, out)
	}
	return bin
}

func TestE2E_InitThenResolve(t *testing.T) {
	bin := buildBinary(t)

	workDir := t.TempDir()
	fixtureDir := filepath.Join(workDir, "fixture")

	initCmd := exec.Command(bin, "init", "--out", fixtureDir)
	if out, err := initCmd.CombinedOutput(); err != nil {
		t.Fatalf("init: %v\n%s", err, out)
	}

	mainPath := filepath.Join(fixtureDir, "main.yaml")
	resolveCmd := exec.Command(bin, "resolve", "--input", mainPath)
	var stdout, stderr bytes.Buffer
	resolveCmd.Stdout = &stdout
	resolveCmd.Stderr = &stderr
	if err := resolveCmd.Run(); err != nil {
		t.Fatalf("resolve: %v\n%s", err, stderr.Bytes())
	}

	var doc map[string]any
	if err := yaml.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("resolved output did not parse as YAML: %v\n%s", err, stdout.String())
	}

	defs, ok := doc["definitions"].(map[string]any)
	if !ok {
		t.Fatalf("expected a definitions map in the resolved document, got %+v", doc["definitions"])
	}
	dog, ok := defs["Dog"].(map[string]any)
	if !ok {
		t.Fatalf("expected Dog definition to survive composition, got %+v", defs)
	}
	if _, hasAllOf := dog["allOf"]; hasAllOf {
		t.Fatalf("expected Dog's allOf to be removed after composition, got %+v", dog)
	}
	props, ok := dog["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected Dog to have merged properties, got %+v", dog)
	}
	for _, want := range []string{"id", "name", "petType", "breed"} {
		if _, ok := props[want]; !ok {
			t.Fatalf("expected Dog.properties to include %q after allOf composition, got %+v", want, props)
		}
	}
}

func TestE2E_ResolveMissingInput(t *testing.T) {
	bin := buildBinary(t)

	cmd := exec.Command(bin, "resolve")
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected a usage error for a missing --input, got output: %s", out)
	}
	if !bytes.Contains(out, []byte("--input is required")) {
		t.Fatalf("expected a helpful usage message, got: %s", out)
	}
}
