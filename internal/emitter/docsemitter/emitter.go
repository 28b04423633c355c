package docsemitter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swaggerdocs/internal/docs"
	"github.com/mark3labs/swaggerdocs/internal/schema"
)

// Format selects the encoding of the document files.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	}
	return "", false
}

// Options controls where and how artifacts are written.
type Options struct {
	OutDir  string // required; target directory
	Format  Format // document encoding; defaults to json
	Force   bool   // overwrite a non-empty output directory
	DryRun  bool   // don't write, only plan
	Verbose bool
}

// Artifacts are the generated values to write. Document is required.
type Artifacts struct {
	Document *docs.Document
	OpenAPI3 *openapi3.T
	// Schemas are standalone JSON Schema documents keyed by root type name.
	Schemas map[string]schema.Schema
}

// PlannedFile describes a file the emitter intends to write.
type PlannedFile struct {
	RelPath string
	Size    int
	Mode    os.FileMode
}

// Result returns the planned files in write order.
type Result struct {
	Planned []PlannedFile
}

// Emit renders the artifacts and writes them under opts.OutDir.
func Emit(ctx context.Context, a Artifacts, opts Options) (*Result, error) {
	_ = ctx
	if a.Document == nil {
		return nil, fmt.Errorf("docsemitter: nil document")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("docsemitter: OutDir is required")
	}
	format := opts.Format
	if format == "" {
		format = FormatJSON
	}

	files := map[string][]byte{}
	data, err := encode(a.Document, format)
	if err != nil {
		return nil, fmt.Errorf("encode swagger document: %w", err)
	}
	files["swagger."+string(format)] = data

	if a.OpenAPI3 != nil {
		data, err := encode(a.OpenAPI3, format)
		if err != nil {
			return nil, fmt.Errorf("encode openapi3 document: %w", err)
		}
		files["openapi3."+string(format)] = data
	}

	for name, s := range a.Schemas {
		data, err := encode(s, FormatJSON)
		if err != nil {
			return nil, fmt.Errorf("encode schema %s: %w", name, err)
		}
		files[filepath.Join("schemas", name+".schema.json")] = data
	}

	rels := make([]string, 0, len(files))
	for p := range files {
		rels = append(rels, filepath.ToSlash(p))
	}
	sort.Strings(rels)

	planned := make([]PlannedFile, 0, len(rels))
	for _, rel := range rels {
		planned = append(planned, PlannedFile{RelPath: rel, Size: len(files[filepath.FromSlash(rel)]), Mode: 0o644})
	}

	if !opts.DryRun {
		if err := writeFiles(opts.OutDir, files, opts.Force); err != nil {
			return nil, err
		}
		if opts.Verbose {
			for _, pf := range planned {
				fmt.Fprintf(os.Stdout, "wrote %s (%d bytes)\n", pf.RelPath, pf.Size)
			}
		}
	}

	return &Result{Planned: planned}, nil
}

// encode renders v as indented JSON, or as YAML produced from its JSON form
// so json tags and custom marshalers apply to both.
func encode(v any, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return append(data, '\n'), nil
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return yaml.Marshal(tree)
}

func writeFiles(outDir string, files map[string][]byte, force bool) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	// Pre-flight: if directory exists and not empty and not force, error.
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("docsemitter: output directory %q is not empty (use --force to overwrite)", abs)
		}
	}
	for rel, content := range files {
		p := filepath.Join(abs, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
		// atomic write via temp file + rename
		tmp := p + ".tmp-" + time.Now().Format("20060102150405")
		if err := os.WriteFile(tmp, content, 0o644); err != nil {
			return fmt.Errorf("write temp %s: %w", rel, err)
		}
		if err := os.Rename(tmp, p); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("rename %s: %w", rel, err)
		}
	}
	return nil
}
