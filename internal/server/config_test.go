package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "/docs", cfg.DocsPath)
	assert.Equal(t, "swagger2", cfg.Dialect)
	assert.True(t, cfg.MountRoutes)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestNewConfig_FromEnv(t *testing.T) {
	t.Setenv("SWAGGERDOCS_ADDR", "127.0.0.1:9999")
	t.Setenv("SWAGGERDOCS_DOCS_PATH", "api-docs/")
	t.Setenv("SWAGGERDOCS_DIALECT", "jsonschema")
	t.Setenv("SWAGGERDOCS_SERVE_OPENAPI3", "true")
	t.Setenv("SWAGGERDOCS_SHUTDOWN_TIMEOUT", "1s")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Addr)
	assert.Equal(t, "/api-docs", cfg.DocsPath)
	assert.Equal(t, "jsonschema", cfg.Dialect)
	assert.True(t, cfg.ServeOpenAPI3)
	assert.Equal(t, time.Second, cfg.ShutdownTimeout)
}

func TestNewConfig_InvalidValue(t *testing.T) {
	t.Setenv("SWAGGERDOCS_SHUTDOWN_TIMEOUT", "soon")
	_, err := NewConfig()
	assert.Error(t, err)
}
