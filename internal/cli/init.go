package cli

import (
    "context"
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "github.com/spf13/cobra"

    "github.com/mark3labs/swaggerdocs/internal/catalog"
)

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath  string
	CatalogPath string
	Force       bool
	Verbose     bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
    cmd := &cobra.Command{
        Use:   "init",
        Short: "Scaffold a sample swaggerdocs configuration file and catalog",
        Long:  "Scaffold a commented swaggerdocs configuration file that documents available options, and optionally a sample catalog it points at.",
        RunE: func(cmd *cobra.Command, args []string) error {
            out, err := cmd.Flags().GetString("out")
            if err != nil {
                return err
            }
            catalogPath, err := cmd.Flags().GetString("catalog")
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
            cfg := &InitConfig{
                OutputPath:  out,
                CatalogPath: catalogPath,
                Force:       force,
                Verbose:     verbose,
            }
            return initRunner(cmd.Context(), cfg)
        },
    }

    cmd.Flags().String("out", "swaggerdocs.yaml", "Where to write the sample config file")
    cmd.Flags().String("catalog", "", "Also write a sample catalog to this path")
    cmd.Flags().Bool("force", false, "Overwrite the target files if they already exist")

    return cmd
}

func runInit(ctx context.Context, cfg *InitConfig) error {
    _ = ctx

    out := strings.TrimSpace(cfg.OutputPath)
    if out == "" {
        out = "swaggerdocs.yaml"
    }
    absPath, err := writeSample(out, sampleConfigYAML, cfg.Force)
    if err != nil {
        return err
    }
    fmt.Fprintf(os.Stdout, "Wrote sample config to %s\n", absPath)

    catalogPath := strings.TrimSpace(cfg.CatalogPath)
    if catalogPath == "" {
        return nil
    }
    // The sample catalog must always load; fail loudly if it drifts.
    if _, err := catalog.Parse([]byte(sampleCatalogYAML), "sample"); err != nil {
        return fmt.Errorf("init: sample catalog: %w", err)
    }
    absCatalog, err := writeSample(catalogPath, sampleCatalogYAML, cfg.Force)
    if err != nil {
        return err
    }
    fmt.Fprintf(os.Stdout, "Wrote sample catalog to %s\n", absCatalog)
    if cfg.Verbose {
        fmt.Fprintf(os.Stdout, "Next: swaggerdocs generate --input %s\n", absCatalog)
    }
    return nil
}

func writeSample(path, content string, force bool) (string, error) {
    absPath, err := filepath.Abs(path)
    if err != nil {
        return "", fmt.Errorf("init: resolve output path: %w", err)
    }

    if st, err := os.Stat(absPath); err == nil && !force {
        if st.Mode().IsRegular() {
            return "", newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", absPath))
        }
    }

    if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
        return "", newUsageError(fmt.Sprintf("init: cannot create parent directory: %v", err))
    }

    data := strings.TrimSpace(content) + "\n"

    // Atomic write via temp + rename
    tmp := absPath + ".tmp"
    if err := os.WriteFile(tmp, []byte(data), 0o644); err != nil {
        return "", newUsageError(fmt.Sprintf("init: cannot write temp file: %v\nHint: choose a different --out or check directory permissions.", err))
    }
    if err := os.Rename(tmp, absPath); err != nil {
        _ = os.Remove(tmp)
        return "", newUsageError(fmt.Sprintf("init: cannot place file at %s: %v", absPath, err))
    }
    return absPath, nil
}

// sampleConfigYAML is a commented example config documenting available options.
const sampleConfigYAML = `# swaggerdocs configuration (YAML)
# All fields are optional. Command-line flags override config values.

# Path or URL to the catalog of types and routes (http/https or local file).
# input: ./catalog.yaml

# Output directory. When omitted, derived from the catalog title.
# out: ./docs

# Schema dialect (swagger2|jsonschema). Defaults to swagger2.
# dialect: swagger2

# Document encoding (json|yaml). Defaults to json.
# format: json

# Also write an OpenAPI 3 conversion (swagger2 dialect only).
# openapi3: false

# Write standalone JSON Schemas for these types ("all" for every type).
# schemaTypes: [Pet]

# Only include operations with these tags (comma-separated or list).
# includeTags: [public,read]

# Exclude operations with these tags (comma-separated or list).
# excludeTags: [internal]

# Only include operations using these HTTP methods.
# methods: [get,post]

# Only include operations whose URL matches one of these regular expressions.
# paths: ["^/api/"]

# Preview planned outputs without writing files.
# dryRun: false

# Overwrite non-empty output directory.
# force: false

# Enable verbose logging.
# verbose: false
`

// sampleCatalogYAML is a small catalog exercising objects, arrays, unions and
// parameters.
const sampleCatalogYAML = `info:
  title: Pet Store
  version: 1.0.0
  description: Sample catalog written by swaggerdocs init
types:
  Pet:
    description: A pet
    fields:
      id: {declared: string, required: true}
      name: {declared: string, required: true, minLength: 1}
      age: {declared: number, minimum: 0}
      tags: {declared: "[]string"}
      owner: {declared: Owner}
  Owner:
    fields:
      name: {declared: string, required: true}
      pets: {declared: array, type: Pet}
controllers:
  - prefix: api
    routes:
      - method: get
        path: pets
        docs:
          summary: List pets
          tags: [read]
          responses:
            "200": {description: ok, type: "[]Pet"}
        parameters:
          - name: limit
            kind: query
            declared: number
            swagger: {description: page size, default: 20, minimum: 1, maximum: 100}
      - method: get
        path: "pets/:id"
        docs:
          summary: Get a pet
          tags: [read]
          responses:
            "200": {description: ok, type: Pet}
            "404": {description: not found}
        parameters:
          - {name: id, kind: path, declared: string, required: true}
      - method: post
        path: pets
        docs:
          summary: Create a pet
          tags: [write]
          responses:
            "201": {description: created, type: Pet}
`
