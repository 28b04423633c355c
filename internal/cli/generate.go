package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swaggerdocs/internal/catalog"
	"github.com/mark3labs/swaggerdocs/internal/docs"
	"github.com/mark3labs/swaggerdocs/internal/emitter/docsemitter"
	"github.com/mark3labs/swaggerdocs/internal/schema"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Input       string
	Out         string
	Dialect     string
	Format      string
	OpenAPI3    bool
	SchemaTypes []string
	IncludeTags []string
	ExcludeTags []string
	Methods     []string
	Paths       []string
	ConfigPath  string
	DryRun      bool
	Force       bool
	Verbose     bool
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{Dialect: "swagger2", Format: "json"}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a Swagger 2.0 document from a type and route catalog",
		Long: "Generate a Swagger 2.0 document, and optionally an OpenAPI 3 document and standalone " +
			"JSON Schemas, from a catalog of types and routes. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  swaggerdocs generate --input catalog.yaml --out ./docs
  swaggerdocs generate --input catalog.yaml --openapi3 --schema-type Model --format yaml
  swaggerdocs --config swaggerdocs.yaml generate --force --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the catalog (YAML or JSON)")
	flags.String("out", "", "Output directory (derived from the catalog title when omitted)")
	flags.String("dialect", "", "Schema dialect (swagger2|jsonschema); defaults to swagger2")
	flags.String("format", "", "Document encoding (json|yaml); defaults to json")
	flags.Bool("openapi3", false, "Also write an OpenAPI 3 conversion of the document")
	flags.StringSlice("schema-type", nil, "Write a standalone JSON Schema for these types (\"all\" for every type)")
	flags.StringSlice("include-tags", nil, "Only include operations with these tags")
	flags.StringSlice("exclude-tags", nil, "Exclude operations with these tags")
	flags.StringSlice("methods", nil, "Only include operations using these HTTP methods")
	flags.StringSlice("paths", nil, "Only include operations whose URL matches one of these regular expressions")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")
	flags.Bool("force", false, "Overwrite existing output when set")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	for name, dst := range map[string]*string{
		"input":   &cfg.Input,
		"out":     &cfg.Out,
		"dialect": &cfg.Dialect,
		"format":  &cfg.Format,
	} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = strings.TrimSpace(value)
	}
	for name, dst := range map[string]*[]string{
		"schema-type":  &cfg.SchemaTypes,
		"include-tags": &cfg.IncludeTags,
		"exclude-tags": &cfg.ExcludeTags,
		"methods":      &cfg.Methods,
		"paths":        &cfg.Paths,
	} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetStringSlice(name)
		if err != nil {
			return err
		}
		*dst = sanitizeTags(value)
	}
	for name, dst := range map[string]*bool{
		"openapi3": &cfg.OpenAPI3,
		"dry-run":  &cfg.DryRun,
		"force":    &cfg.Force,
		"verbose":  &cfg.Verbose,
	} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = value
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Out = strings.TrimSpace(c.Out)
	c.Dialect = strings.ToLower(strings.TrimSpace(c.Dialect))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.SchemaTypes = sanitizeTags(c.SchemaTypes)
	c.IncludeTags = sanitizeTags(c.IncludeTags)
	c.ExcludeTags = sanitizeTags(c.ExcludeTags)
	c.Methods = sanitizeTags(c.Methods)
	c.Paths = sanitizeTags(c.Paths)
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --input is required (set via flag or config file)")
	}

	if _, ok := schema.ParseDialect(c.Dialect); !ok {
		return newUsageError(fmt.Sprintf("generate: unsupported --dialect %q (allowed: swagger2, jsonschema)", c.Dialect))
	}
	if c.Dialect == "" {
		c.Dialect = "swagger2"
	}
	if _, ok := docsemitter.ParseFormat(c.Format); !ok {
		return newUsageError(fmt.Sprintf("generate: unsupported --format %q (allowed: json, yaml)", c.Format))
	}
	if c.Format == "" {
		c.Format = "json"
	}
	if c.OpenAPI3 && c.Dialect != "swagger2" {
		return newUsageError("generate: --openapi3 requires the swagger2 dialect")
	}

	for _, m := range c.Methods {
		if _, ok := docs.ParseMethod(m); !ok {
			return newUsageError(fmt.Sprintf("generate: unsupported method %q in --methods", m))
		}
	}
	for _, p := range c.Paths {
		if _, err := regexp.Compile(p); err != nil {
			return newUsageError(fmt.Sprintf("generate: invalid --paths pattern %q: %v", p, err))
		}
	}

	overlap := intersect(c.IncludeTags, c.ExcludeTags)
	if len(overlap) > 0 {
		return newUsageError(fmt.Sprintf("generate: include/exclude tags overlap: %s", strings.Join(overlap, ", ")))
	}

	return nil
}

// buildOptions translates the filters and dialect into document options.
func (c *GenerateConfig) buildOptions() []docs.Option {
	dialect, _ := schema.ParseDialect(c.Dialect)
	methods := make([]docs.HttpMethod, 0, len(c.Methods))
	for _, m := range c.Methods {
		if hm, ok := docs.ParseMethod(m); ok {
			methods = append(methods, hm)
		}
	}
	return []docs.Option{
		docs.WithDialect(dialect),
		docs.WithIncludeTags(c.IncludeTags),
		docs.WithExcludeTags(c.ExcludeTags),
		docs.WithMethods(methods),
		docs.WithPathPatterns(c.Paths),
	}
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	// 1) Load the catalog (file or http/https URL)
	c, err := loadCatalog(ctx, cfg.Input)
	if err != nil {
		return err
	}

	// 2) Assemble the document with filters applied
	doc, err := docs.Build(c.Registry, c.Info, cfg.buildOptions()...)
	if err != nil {
		return fmt.Errorf("build document: %w", err)
	}
	artifacts := docsemitter.Artifacts{Document: doc}

	if cfg.OpenAPI3 {
		v3, err := docs.ToOpenAPI3(ctx, doc)
		if err != nil {
			return fmt.Errorf("openapi3: %w", err)
		}
		artifacts.OpenAPI3 = v3
	}

	// 3) Standalone schemas for the requested root types
	schemas, err := buildStandaloneSchemas(c, cfg)
	if err != nil {
		return err
	}
	artifacts.Schemas = schemas

	// 4) Derive the output directory when omitted
	outDir := strings.TrimSpace(cfg.Out)
	if outDir == "" {
		outDir = deriveOutDir(c.Info.Title)
	}
	absOut := outDir
	if ap, err := filepath.Abs(outDir); err == nil {
		absOut = ap
	}

	format, _ := docsemitter.ParseFormat(cfg.Format)
	res, err := docsemitter.Emit(ctx, artifacts, docsemitter.Options{
		OutDir:  outDir,
		Format:  format,
		Force:   cfg.Force,
		DryRun:  cfg.DryRun,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		return wrapOutputError(err, absOut)
	}

	paths := make([]string, 0, len(res.Planned))
	for _, p := range res.Planned {
		paths = append(paths, p.RelPath)
	}
	if cfg.DryRun {
		printPlan(absOut, len(paths), paths)
		return nil
	}
	if cfg.Verbose {
		fmt.Fprintf(os.Stdout, "Documented %d paths and %d definitions from %s\n", len(doc.Paths), len(doc.Definitions), c.Location)
		fmt.Fprintf(os.Stdout, "Wrote %d files to %s\n", len(paths), absOut)
	}
	return nil
}

func loadCatalog(ctx context.Context, input string) (*catalog.Catalog, error) {
	c, err := catalog.Load(ctx, input)
	if err != nil {
		// Map structured catalog errors into friendly messages
		var le *catalog.LoadError
		if errors.As(err, &le) {
			msg := fmt.Sprintf("catalog: %s", le.Message)
			if le.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, le.Location)
			}
			if le.JSONPointer != "" {
				msg = fmt.Sprintf("%s\nPointer: %s", msg, le.JSONPointer)
			}
			return nil, newUsageError(msg)
		}
		return nil, err
	}
	return c, nil
}

func buildStandaloneSchemas(c *catalog.Catalog, cfg *GenerateConfig) (map[string]schema.Schema, error) {
	if len(cfg.SchemaTypes) == 0 {
		return nil, nil
	}
	names := cfg.SchemaTypes
	for _, n := range names {
		if strings.EqualFold(n, "all") {
			names = c.TypeNames()
			break
		}
	}
	dialect, _ := schema.ParseDialect(cfg.Dialect)
	out := make(map[string]schema.Schema, len(names))
	for _, name := range names {
		t, ok := c.Type(name)
		if !ok {
			return nil, newUsageError(fmt.Sprintf("generate: unknown type %q in --schema-type (known: %s)", name, strings.Join(c.TypeNames(), ", ")))
		}
		s, err := schema.BuildSchema(t, dialect)
		if err != nil {
			return nil, err
		}
		if err := schema.Check(s); err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
}

func printPlan(outDir string, count int, relPaths []string) {
	fmt.Fprintf(os.Stdout, "Planned writes to %s (%d files):\n", outDir, count)
	for _, p := range relPaths {
		fmt.Fprintf(os.Stdout, "- %s\n", p)
	}
}

func wrapOutputError(err error, outDir string) error {
	// Provide clearer guidance for common FS failures.
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") || strings.Contains(lower, "rename") || strings.Contains(lower, "output directory") {
		return newUsageError(fmt.Sprintf("output error for %s: %s\nHint: choose a different --out or use --force when appropriate.", outDir, msg))
	}
	return err
}

// deriveOutDir slugs the catalog title, falling back to "docs".
func deriveOutDir(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	repl := strings.NewReplacer("/", " ", "_", " ", ".", " ", ",", " ", ":", " ")
	t = repl.Replace(t)
	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(t), "-") {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "docs"
	}
	return out + "-docs"
}

func sanitizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	var result []string
	for _, item := range b {
		if _, ok := set[item]; ok {
			result = append(result, item)
		}
	}
	return result
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	scalars := map[string]*string{
		"input":   &cfg.Input,
		"out":     &cfg.Out,
		"dialect": &cfg.Dialect,
		"format":  &cfg.Format,
	}
	lists := map[string]*[]string{
		"schematypes": &cfg.SchemaTypes,
		"includetags": &cfg.IncludeTags,
		"excludetags": &cfg.ExcludeTags,
		"methods":     &cfg.Methods,
		"paths":       &cfg.Paths,
	}
	bools := map[string]*bool{
		"openapi3": &cfg.OpenAPI3,
		"dryrun":   &cfg.DryRun,
		"force":    &cfg.Force,
		"verbose":  &cfg.Verbose,
	}

	for key, value := range raw {
		normalized := normalizeKey(key)
		if dst, ok := scalars[normalized]; ok {
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			*dst = str
			continue
		}
		if dst, ok := lists[normalized]; ok {
			list, err := valueAsStringSlice(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			*dst = sanitizeTags(list)
			continue
		}
		if dst, ok := bools[normalized]; ok {
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			*dst = val
			continue
		}
		return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
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

func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return splitAndTrim(val), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
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
		case "false", "f", "0", "no", "n":
			return false, nil
		case "":
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

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
