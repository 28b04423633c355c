package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/swaggerdocs/internal/docs"
	"github.com/mark3labs/swaggerdocs/internal/schema"
)

func testRegistry(t *testing.T) *docs.Registry {
	t.Helper()
	model := schema.NewType("Model").
		Field("a", schema.StringRef, schema.FieldDescriptor{Required: true})
	hello := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello " + r.PathValue("id")))
	})
	reg := docs.NewRegistry()
	require.NoError(t, reg.Register(docs.Controller{
		Kind:   docs.ControllerAPI,
		Prefix: "api",
		Routes: []docs.Route{
			{
				Method:  docs.GET,
				Path:    "models/:id",
				Handler: hello,
				Docs: &docs.OperationDescriptor{Responses: map[string]docs.ResponseDescriptor{
					"200": {Description: "ok", Type: schema.TypeOf(schema.Ref(model))},
				}},
				Parameters: []docs.ParameterDescriptor{{Name: "id", Kind: docs.KindPath, Required: true, Type: schema.StringRef}},
			},
			{Method: docs.GET, Path: "/models/:id", Handler: hello},
			{Method: docs.POST, Path: "models", Handler: hello},
		},
	}))
	return reg
}

func newTestServer(t *testing.T, cfg Config, reg *docs.Registry) http.Handler {
	t.Helper()
	gen := docs.NewGenerator(reg, docs.Info{Title: "Test", Version: "1.0.0"})
	return NewServer(&cfg, reg, gen).Handler()
}

func defaultConfig() Config {
	return Config{Addr: ":0", DocsPath: "/docs", MountRoutes: true}
}

func TestDocsEndpoint(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, defaultConfig(), testRegistry(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc["swagger"])
	paths := doc["paths"].(map[string]any)
	assert.Contains(t, paths, "/api/models/{id}")
	assert.NotContains(t, paths, "/api/models")
	assert.Contains(t, doc["definitions"].(map[string]any), "Model")
}

func TestDocsEndpoint_BuildFailure(t *testing.T) {
	t.Parallel()
	reg := docs.NewRegistry()
	require.NoError(t, reg.Register(docs.Controller{Kind: "rpc"}))
	h := newTestServer(t, defaultConfig(), reg)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "rpc")
}

func TestMountedRoutes(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, defaultConfig(), testRegistry(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models/42", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello 42", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/models", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/models", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRoutesNotMounted(t *testing.T) {
	t.Parallel()
	cfg := defaultConfig()
	cfg.MountRoutes = false
	h := newTestServer(t, cfg, testRegistry(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models/42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSwaggerUI(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, defaultConfig(), testRegistry(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/ui", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/docs/ui/index.html", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/ui/index.html", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}

func TestOpenAPI3Endpoint(t *testing.T) {
	t.Parallel()
	cfg := defaultConfig()
	cfg.ServeOpenAPI3 = true
	h := newTestServer(t, cfg, testRegistry(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/v3", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc, "openapi")
	assert.Contains(t, doc["paths"].(map[string]any), "/api/models/{id}")
}

func TestRoutePattern(t *testing.T) {
	t.Parallel()
	tests := []struct {
		method docs.HttpMethod
		prefix string
		path   string
		want   string
	}{
		{docs.GET, "api", "models/:id", "GET /api/models/{id}"},
		{docs.POST, "/api/", "/models", "POST /api/models"},
		{docs.DELETE, "", "", "DELETE /"},
		{docs.GET, "files", "report.:ext", "GET /files/report.:ext"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, routePattern(tc.method, tc.prefix, tc.path))
	}
}
