package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mark3labs/swaggerdocs/internal/docs"
	"github.com/mark3labs/swaggerdocs/internal/schema"
	"github.com/mark3labs/swaggerdocs/internal/server"
)

var serveRunner = runServe

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated document and a Swagger UI over HTTP",
		Long: "Serve the document built from a catalog at the docs path, a Swagger UI under <docs>/ui, " +
			"and a 501 stub for every catalog route. Settings are read from SWAGGERDOCS_* environment " +
			"variables; flags override them.",
		Example: strings.TrimSpace(`  swaggerdocs serve --input catalog.yaml
  SWAGGERDOCS_ADDR=:9090 swaggerdocs serve --input catalog.yaml --openapi3`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveServeConfig(cmd)
			if err != nil {
				return err
			}
			return serveRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the catalog (defaults to $SWAGGERDOCS_CATALOG)")
	flags.String("addr", "", "Listen address (defaults to $SWAGGERDOCS_ADDR or :8080)")
	flags.String("docs-path", "", "Path serving the document (defaults to $SWAGGERDOCS_DOCS_PATH or /docs)")
	flags.String("dialect", "", "Schema dialect (swagger2|jsonschema)")
	flags.Bool("openapi3", false, "Also serve an OpenAPI 3 conversion at <docs>/v3")
	flags.Bool("no-routes", false, "Do not mount the catalog routes")

	return cmd
}

func resolveServeConfig(cmd *cobra.Command) (*server.Config, error) {
	cfg, err := server.NewConfig()
	if err != nil {
		return nil, usageErrorf("serve: %v", err)
	}

	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"input":     &cfg.Catalog,
		"addr":      &cfg.Addr,
		"docs-path": &cfg.DocsPath,
		"dialect":   &cfg.Dialect,
	} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return nil, err
		}
		*dst = strings.TrimSpace(value)
	}
	if flags.Changed("openapi3") {
		value, err := flags.GetBool("openapi3")
		if err != nil {
			return nil, err
		}
		cfg.ServeOpenAPI3 = value
	}
	if flags.Changed("no-routes") {
		value, err := flags.GetBool("no-routes")
		if err != nil {
			return nil, err
		}
		cfg.MountRoutes = !value
	}

	cfg.Catalog = strings.TrimSpace(cfg.Catalog)
	cfg.Dialect = strings.ToLower(strings.TrimSpace(cfg.Dialect))
	if cfg.Catalog == "" {
		return nil, newUsageError("serve: --input is required (set via flag or SWAGGERDOCS_CATALOG)")
	}
	if _, ok := schema.ParseDialect(cfg.Dialect); !ok {
		return nil, usageErrorf("serve: unsupported --dialect %q (allowed: swagger2, jsonschema)", cfg.Dialect)
	}
	if cfg.ServeOpenAPI3 && cfg.Dialect == "jsonschema" {
		return nil, newUsageError("serve: --openapi3 requires the swagger2 dialect")
	}
	return cfg, nil
}

func runServe(ctx context.Context, cfg *server.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := loadCatalog(ctx, cfg.Catalog)
	if err != nil {
		return err
	}
	dialect, _ := schema.ParseDialect(cfg.Dialect)
	gen := docs.NewGenerator(c.Registry, c.Info, docs.WithDialect(dialect))
	// Build eagerly so a broken catalog fails at startup.
	if _, err := gen.Document(); err != nil {
		return fmt.Errorf("build document: %w", err)
	}

	srv := server.NewServer(cfg, c.Registry, gen)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Printf("Server exited")
	return nil
}
