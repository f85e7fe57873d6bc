package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputDir string
	Force     bool
	Verbose   bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample multi-file Swagger 2.0 fixture",
		Long: "Scaffold a small Swagger 2.0 document plus an external definitions file it references, " +
			"so `resolve` has something to exercise relative-$ref splicing, allOf composition, and " +
			"discriminator expansion against.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			cfg := &InitConfig{OutputDir: out, Force: force, Verbose: verbose}
			return initRunner(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("out", "swagger2resolve-fixture", "Directory to write the sample fixture into")
	cmd.Flags().Bool("force", false, "Overwrite existing fixture files if present")

	return cmd
}

func runInit(ctx context.Context, cfg *InitConfig) error {
	_ = ctx

	dir := strings.TrimSpace(cfg.OutputDir)
	if dir == "" {
		dir = "swagger2resolve-fixture"
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot create %s: %v", absDir, err))
	}

	files := map[string]string{
		"main.yaml":        sampleMainYAML,
		"definitions.yaml": sampleDefinitionsYAML,
	}

	for name, content := range files {
		target := filepath.Join(absDir, name)
		if st, err := os.Stat(target); err == nil && st.Mode().IsRegular() && !cfg.Force {
			return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", target))
		}
		if err := writeFileAtomic(target, content); err != nil {
			return err
		}
		if cfg.Verbose {
			fmt.Fprintf(os.Stdout, "wrote %s\n", target)
		}
	}

	fmt.Fprintf(os.Stdout, "Wrote sample fixture to %s\n", absDir)
	fmt.Fprintf(os.Stdout, "Try: swagger2resolve resolve --input %s\n", filepath.Join(absDir, "main.yaml"))
	return nil
}

func writeFileAtomic(path, content string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strings.TrimSpace(content)+"\n"), 0o644); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot write temp file: %v\nHint: choose a different --out or check directory permissions.", err))
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return newUsageError(fmt.Sprintf("init: cannot place file at %s: %v", path, err))
	}
	return nil
}

// sampleMainYAML is a small Swagger 2.0 document whose Pet definition pulls
// in a base model from definitions.yaml via a relative $ref, and whose Pet
// and Dog definitions form an allOf/discriminator hierarchy.
const sampleMainYAML = `swagger: "2.0"
info:
  title: Sample Pet Store
  version: "1.0.0"
host: api.example.com
basePath: /v1
schemes:
  - https
consumes:
  - application/json
produces:
  - application/json
paths:
  /pets/{petId}:
    get:
      operationId: getPet
      parameters:
        - name: petId
          in: path
          required: true
          type: string
      responses:
        "200":
          description: a pet
          schema:
            $ref: "#/definitions/Pet"
definitions:
  Pet:
    discriminator: petType
    allOf:
      - $ref: "definitions.yaml#/NamedEntity"
      - type: object
        required:
          - petType
        properties:
          petType:
            type: string
  Dog:
    allOf:
      - $ref: "#/definitions/Pet"
      - type: object
        properties:
          breed:
            type: string
`

// sampleDefinitionsYAML is a bare fragment (no swagger/openapi key) holding
// the base model main.yaml pulls in by relative $ref.
const sampleDefinitionsYAML = `NamedEntity:
  type: object
  required:
    - id
    - name
  properties:
    id:
      type: string
    name:
      type: string
`
