package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	resolveloader "github.com/mark3labs/swagger2resolve/internal/loader"
	"github.com/mark3labs/swagger2resolve/internal/resolve"
	"github.com/mark3labs/swagger2resolve/internal/spectree"
)

// ResolveConfig captures all inputs that influence the resolve command after
// merging defaults, config file values, and CLI overrides.
type ResolveConfig struct {
	Input         string
	Out           string
	ConfigPath    string
	AllowFileRefs bool
	Verbose       bool

	ResolveRelativePaths         *bool
	ResolveXmsExamples           *bool
	ResolveAllOf                 *bool
	SetAdditionalPropertiesFalse *bool
	ResolvePureObjects           *bool
	ResolveDiscriminator         *bool
	ResolveParameterizedHost     *bool
	ResolveNullableTypes         *bool
	ModelImplicitDefaultResponse *bool
}

var resolveRunner = runResolve

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a Swagger/OpenAPI 2.0 document into a self-contained form",
		Long: "Resolve a Swagger/OpenAPI 2.0 document into a self-contained, validation-ready form: " +
			"inlines external and relative $refs, composes allOf hierarchies, expands discriminators " +
			"into oneOf unions, closes open object schemas, folds x-ms-parameterized-host into every " +
			"operation, and more. Options can be provided via flags, a config file, or defaults.",
		Example: strings.TrimSpace(`  swagger2resolve resolve --input spec.yaml --out resolved.yaml
  swagger2resolve --config config.yaml resolve --allow-file-refs`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveResolveConfig(cmd)
			if err != nil {
				return err
			}
			return resolveRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the Swagger/OpenAPI 2.0 document")
	flags.String("out", "", "Output file for the resolved document (default: stdout)")
	flags.Bool("allow-file-refs", false, "Permit file:// URLs in $ref targets")
	flags.Bool("resolve-relative-paths", true, "Inline external and relative $refs")
	flags.Bool("resolve-xms-examples", true, "Inline x-ms-examples files (requires resolve-relative-paths)")
	flags.Bool("resolve-all-of", true, "Compose allOf hierarchies into flat models")
	flags.Bool("set-additional-properties-false", true, "Close open object schemas")
	flags.Bool("resolve-pure-objects", true, "Relax bare object schemas and untyped parameters")
	flags.Bool("resolve-discriminator", true, "Expand discriminators into oneOf unions")
	flags.Bool("resolve-parameterized-host", true, "Fold x-ms-parameterized-host into every operation")
	flags.Bool("resolve-nullable-types", true, "Rewrite x-nullable schemas into oneOf null unions")
	flags.Bool("model-implicit-default-response", false, "Inject a CloudError default response where absent")

	return cmd
}

func resolveResolveConfig(cmd *cobra.Command) (*ResolveConfig, error) {
	cfg := &ResolveConfig{}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyResolveConfigFromFile(cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyResolveFlagOverrides(cmd.Flags(), cfg); err != nil {
		return nil, err
	}

	cfg.Input = strings.TrimSpace(cfg.Input)
	cfg.Out = strings.TrimSpace(cfg.Out)
	if cfg.Input == "" {
		return nil, newUsageError("resolve: --input is required (set via flag or config file)")
	}

	return cfg, nil
}

func applyResolveFlagOverrides(flags *pflag.FlagSet, cfg *ResolveConfig) error {
	if flags.Changed("input") {
		v, err := flags.GetString("input")
		if err != nil {
			return err
		}
		cfg.Input = strings.TrimSpace(v)
	}
	if flags.Changed("out") {
		v, err := flags.GetString("out")
		if err != nil {
			return err
		}
		cfg.Out = strings.TrimSpace(v)
	}
	if flags.Changed("allow-file-refs") {
		v, err := flags.GetBool("allow-file-refs")
		if err != nil {
			return err
		}
		cfg.AllowFileRefs = v
	}
	if flags.Changed("verbose") {
		v, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = v
	}

	for flagName, dst := range map[string]**bool{
		"resolve-relative-paths":          &cfg.ResolveRelativePaths,
		"resolve-xms-examples":            &cfg.ResolveXmsExamples,
		"resolve-all-of":                  &cfg.ResolveAllOf,
		"set-additional-properties-false": &cfg.SetAdditionalPropertiesFalse,
		"resolve-pure-objects":            &cfg.ResolvePureObjects,
		"resolve-discriminator":           &cfg.ResolveDiscriminator,
		"resolve-parameterized-host":      &cfg.ResolveParameterizedHost,
		"resolve-nullable-types":          &cfg.ResolveNullableTypes,
		"model-implicit-default-response": &cfg.ModelImplicitDefaultResponse,
	} {
		if !flags.Changed(flagName) {
			continue
		}
		v, err := flags.GetBool(flagName)
		if err != nil {
			return err
		}
		*dst = boolPtrCLI(v)
	}

	return nil
}

func boolPtrCLI(b bool) *bool { return &b }

func runResolve(ctx context.Context, cfg *ResolveConfig) error {
	l := resolveloader.New(resolveloader.WithAllowFileRefs(cfg.AllowFileRefs))

	absInput, err := absoluteInputPath(cfg.Input)
	if err != nil {
		return newUsageError(fmt.Sprintf("resolve: %v", err))
	}

	tree, err := l.Load(ctx, absInput)
	if err != nil {
		return wrapLoaderError(err)
	}

	opts := resolve.Options{
		ShouldResolveRelativePaths:         cfg.ResolveRelativePaths,
		ShouldResolveXmsExamples:           cfg.ResolveXmsExamples,
		ShouldResolveAllOf:                 cfg.ResolveAllOf,
		ShouldSetAdditionalPropertiesFalse: cfg.SetAdditionalPropertiesFalse,
		ShouldResolvePureObjects:           cfg.ResolvePureObjects,
		ShouldResolveDiscriminator:         cfg.ResolveDiscriminator,
		ShouldResolveParameterizedHost:     cfg.ResolveParameterizedHost,
		ShouldResolveNullableTypes:         cfg.ResolveNullableTypes,
		ShouldModelImplicitDefaultResponse: cfg.ModelImplicitDefaultResponse,
	}

	result, err := resolve.ResolveWithReport(ctx, tree, absInput, opts, l)
	if err != nil {
		return wrapResolveError(err)
	}
	if cfg.Verbose {
		for _, key := range result.UnrecognizedTopLevelKeys {
			fmt.Fprintf(os.Stderr, "warning: unrecognized top-level key %q\n", key)
		}
	}

	out, err := yaml.Marshal(spectree.ToYAML(result.Tree))
	if err != nil {
		return fmt.Errorf("marshal resolved document: %w", err)
	}

	if cfg.Out == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(cfg.Out, out, 0o644); err != nil {
		return newUsageError(fmt.Sprintf("resolve: write %s: %v", cfg.Out, err))
	}
	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "wrote resolved document to %s\n", cfg.Out)
	}
	return nil
}

func absoluteInputPath(input string) (string, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") || strings.HasPrefix(input, "file://") {
		return input, nil
	}
	return filepath.Abs(input)
}

func wrapLoaderError(err error) error {
	var le *resolveloader.LoaderError
	if errors.As(err, &le) {
		msg := fmt.Sprintf("load: %s", le.Message)
		if le.Location != "" {
			msg = fmt.Sprintf("%s\nLocation: %s", msg, le.Location)
		}
		return newUsageError(msg)
	}
	return err
}

func wrapResolveError(err error) error {
	var rse *resolve.ResolveSpecError
	if errors.As(err, &rse) {
		msg := fmt.Sprintf("resolve: %s", rse.Message)
		if rse.SpecPath != "" {
			msg = fmt.Sprintf("%s\nDocument: %s", msg, rse.SpecPath)
		}
		return newUsageError(msg)
	}
	return err
}

func applyResolveConfigFromFile(cfg *ResolveConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	boolFields := map[string]**bool{
		"resolverelativepaths":         &cfg.ResolveRelativePaths,
		"resolvexmsexamples":           &cfg.ResolveXmsExamples,
		"resolveallof":                 &cfg.ResolveAllOf,
		"setadditionalpropertiesfalse": &cfg.SetAdditionalPropertiesFalse,
		"resolvepureobjects":           &cfg.ResolvePureObjects,
		"resolvediscriminator":         &cfg.ResolveDiscriminator,
		"resolveparameterizedhost":     &cfg.ResolveParameterizedHost,
		"resolvenullabletypes":         &cfg.ResolveNullableTypes,
		"modelimplicitdefaultresponse": &cfg.ModelImplicitDefaultResponse,
	}

	for key, value := range raw {
		normalized := normalizeKey(key)
		switch normalized {
		case "input":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Input = str
		case "out":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Out = str
		case "allowfilerefs":
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.AllowFileRefs = val
		case "verbose":
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Verbose = val
		default:
			if dst, ok := boolFields[normalized]; ok {
				val, err := valueAsBool(value)
				if err != nil {
					return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
				}
				*dst = boolPtrCLI(val)
				continue
			}
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(val))
		switch trimmed {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}
