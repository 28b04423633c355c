package server

import (
	"fmt"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read by NewConfig.
const EnvPrefix = "SWAGGERDOCS_"

// Config holds the server configuration.
type Config struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	DocsPath string `env:"DOCS_PATH" envDefault:"/docs"`
	// Catalog is the descriptor file or URL the CLI loads when --input is omitted.
	Catalog         string        `env:"CATALOG" envDefault:""`
	Dialect         string        `env:"DIALECT" envDefault:"swagger2"`
	ServeOpenAPI3   bool          `env:"SERVE_OPENAPI3" envDefault:"false"`
	MountRoutes     bool          `env:"MOUNT_ROUTES" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// NewConfig reads the configuration from SWAGGERDOCS_* environment variables.
func NewConfig() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.DocsPath = normalizeDocsPath(cfg.DocsPath)
	return &cfg, nil
}

func normalizeDocsPath(p string) string {
	p = strings.TrimSpace(p)
	p = "/" + strings.Trim(p, "/")
	if p == "/" {
		return "/docs"
	}
	return p
}
