package catalog

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "os"
    "path/filepath"
    "sync/atomic"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/mark3labs/swaggerdocs/internal/docs"
    "github.com/mark3labs/swaggerdocs/internal/schema"
)

func loadPets(t *testing.T) *Catalog {
    t.Helper()
    c, err := Load(context.Background(), filepath.Join("testdata", "pets.yaml"))
    require.NoError(t, err)
    return c
}

func TestLoad_File(t *testing.T) {
    t.Parallel()
    c := loadPets(t)

    assert.Equal(t, docs.Info{Title: "Pets", Version: "1.0.0", Description: "Demo catalog"}, c.Info)
    assert.Equal(t, []string{"A", "B", "Model", "OneOf", "Open", "Other"}, c.TypeNames())

    model, ok := c.Type("Model")
    require.True(t, ok)
    require.NotNil(t, model.Object)
    assert.Equal(t, "A model", model.Object.Description)
    assert.True(t, model.Object.Fields["a"].Required)

    declared, ok := model.DeclaredType("d")
    require.True(t, ok)
    assert.True(t, declared.IsArray())
    _, ok = model.DeclaredType("u")
    assert.False(t, ok)

    other, _ := c.Type("Other")
    c2, _ := model.DeclaredType("c")
    assert.Same(t, other, c2.Named())

    controllers := c.Registry.Controllers()
    require.Len(t, controllers, 1)
    assert.Equal(t, docs.ControllerAPI, controllers[0].Kind)
    require.Len(t, controllers[0].Routes, 3)
    assert.Equal(t, docs.POST, controllers[0].Routes[1].Method)
    assert.Nil(t, controllers[0].Routes[2].Docs)
}

func TestLoad_BuildsDocument(t *testing.T) {
    t.Parallel()
    c := loadPets(t)

    doc, err := docs.Build(c.Registry, c.Info)
    require.NoError(t, err)

    require.Contains(t, doc.Paths, "/api/models/{id}")
    get := doc.Paths["/api/models/{id}"][docs.GET]
    require.NotNil(t, get)
    assert.Equal(t, []string{"read"}, get.Tags)
    assert.Equal(t, schema.Schema{"$ref": "#/definitions/Model"}, get.Responses["200"].Schema)
    assert.Nil(t, get.Responses["404"].Schema)
    require.Len(t, get.Parameters, 2)
    assert.Equal(t, "path", get.Parameters[0].In)
    assert.Equal(t, "query", get.Parameters[1].In)
    assert.Equal(t, schema.Schema{"$ref": "#/definitions/Open"}, get.Parameters[1].Schema)
    assert.NotContains(t, doc.Paths["/api/models/{id}"], docs.DELETE)

    model := doc.Definitions["Model"]
    props := model["properties"].(schema.Schema)
    assert.Equal(t, []string{"a"}, model["required"])
    assert.Equal(t, schema.Schema{"type": "string", "pattern": "^[a-z]+$"}, props["a"])
    assert.Equal(t, schema.Schema{"type": "number", "minimum": 0.0}, props["b"])
    assert.Equal(t, schema.Schema{"type": "array", "items": schema.Schema{"type": "number"}}, props["d"])
    assert.Equal(t, schema.Schema{"$ref": "#/definitions/B"}, props["u"])
    assert.Equal(t, schema.Schema{"type": "string", "format": "date-time"}, props["raw"])

    assert.Equal(t, "#/definitions/B", doc.Definitions["OneOf"]["$ref"])
    assert.Equal(t, []any{"null", "object"}, doc.Definitions["Open"]["type"])
    for _, name := range []string{"Model", "Other", "Open", "OneOf", "B"} {
        assert.Contains(t, doc.Definitions, name)
    }
}

func TestLoad_MockHandler(t *testing.T) {
    t.Parallel()
    c := loadPets(t)
    route := c.Registry.Controllers()[0].Routes[0]

    rec := httptest.NewRecorder()
    route.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models/1", nil))
    assert.Equal(t, http.StatusNotImplemented, rec.Code)
    assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

    var body map[string]string
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    assert.Equal(t, "GET /api/models/:id", body["operation"])
}

func TestLoad_BlocksFileURL(t *testing.T) {
    t.Parallel()
    _, err := Load(context.Background(), "file:///etc/hosts")
    var le *LoadError
    require.True(t, errors.As(err, &le))
    assert.Equal(t, InputError, le.Code)
}

func TestLoad_UnsupportedScheme(t *testing.T) {
    t.Parallel()
    _, err := Load(context.Background(), "ftp://example.com/catalog.yaml")
    var le *LoadError
    require.True(t, errors.As(err, &le))
    assert.Equal(t, InputError, le.Code)
}

func TestLoad_Empty(t *testing.T) {
    t.Parallel()
    _, err := Load(context.Background(), "  ")
    var le *LoadError
    require.True(t, errors.As(err, &le))
    assert.Equal(t, InputError, le.Code)
}

func TestLoad_MissingFile(t *testing.T) {
    t.Parallel()
    _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
    var le *LoadError
    require.True(t, errors.As(err, &le))
    assert.Equal(t, InputError, le.Code)
}

func TestLoad_NetworkError(t *testing.T) {
    t.Parallel()
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    _, err := Load(ctx, "http://127.0.0.1:1/catalog.yaml",
        WithHTTPTimeout(200*time.Millisecond), WithMaxRetries(2), WithBackoffBase(10*time.Millisecond))
    var le *LoadError
    require.True(t, errors.As(err, &le))
    assert.Equal(t, NetworkError, le.Code)
}

func TestLoad_HTTPRetriesTransientFailures(t *testing.T) {
    t.Parallel()
    data, err := os.ReadFile(filepath.Join("testdata", "pets.yaml"))
    require.NoError(t, err)

    var calls atomic.Int32
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if calls.Add(1) == 1 {
            w.WriteHeader(http.StatusServiceUnavailable)
            return
        }
        _, _ = w.Write(data)
    }))
    defer srv.Close()

    c, err := Load(context.Background(), srv.URL+"/pets.yaml", WithBackoffBase(time.Millisecond))
    require.NoError(t, err)
    assert.Equal(t, int32(2), calls.Load())
    assert.Equal(t, srv.URL+"/pets.yaml", c.Location)
}

func TestLoad_HTTPClientErrorNotRetried(t *testing.T) {
    t.Parallel()
    var calls atomic.Int32
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        calls.Add(1)
        http.NotFound(w, r)
    }))
    defer srv.Close()

    _, err := Load(context.Background(), srv.URL+"/missing.yaml", WithBackoffBase(time.Millisecond))
    var le *LoadError
    require.True(t, errors.As(err, &le))
    assert.Equal(t, NetworkError, le.Code)
    assert.Equal(t, int32(1), calls.Load())
}

func TestParse_Errors(t *testing.T) {
    t.Parallel()
    tests := []struct {
        name    string
        input   string
        code    ErrorCode
        pointer string
    }{
        {"bad yaml", "types: [", ParseError, ""},
        {"unknown field type", "types:\n  T:\n    fields:\n      f: {declared: Missing}\n", ReferenceError, "#/types/T/fields/f/declared"},
        {"unknown oneOf", "types:\n  T:\n    oneOf: [Nope]\n", ReferenceError, "#/types/T/oneOf/0"},
        {"unknown union member", "types:\n  T:\n    fields:\n      f: {types: [string, Nope]}\n", ReferenceError, "#/types/T/fields/f/types/1"},
        {"reserved name", "types:\n  string: {}\n", ReferenceError, "#/types/string"},
        {"bad method", "controllers:\n  - routes:\n      - {method: fetch, path: x}\n", ParseError, "#/controllers/0/routes/0/method"},
        {"unknown response type", "controllers:\n  - routes:\n      - method: get\n        docs: {responses: {\"200\": {type: Nope}}}\n", ReferenceError, "#/controllers/0/routes/0/docs/responses/200/type"},
        {"empty parameter name", "controllers:\n  - routes:\n      - method: get\n        parameters: [{kind: query}]\n", ParseError, "#/controllers/0/routes/0/parameters/0/name"},
    }
    for _, tc := range tests {
        t.Run(tc.name, func(t *testing.T) {
            _, err := Parse([]byte(tc.input), "inline.yaml")
            var le *LoadError
            require.True(t, errors.As(err, &le), "got %v", err)
            assert.Equal(t, tc.code, le.Code)
            assert.Equal(t, tc.pointer, le.JSONPointer)
            assert.Equal(t, "inline.yaml", le.Location)
        })
    }
}

func TestParse_JSON(t *testing.T) {
    t.Parallel()
    input := `{
  "info": {"title": "J", "version": "2"},
  "types": {"Node": {"fields": {"next": {"declared": "Node"}, "tags": {"declared": "[]string"}}}},
  "controllers": [{"routes": [{"method": "get", "path": "/nodes", "docs": {"responses": {"200": {"description": "ok", "type": "[]Node"}}}}]}]
}`
    c, err := Parse([]byte(input), "inline.json")
    require.NoError(t, err)

    doc, err := docs.Build(c.Registry, c.Info, docs.WithDialect(schema.DialectJSONSchema))
    require.NoError(t, err)
    assert.Equal(t,
        schema.Schema{"type": "array", "items": schema.Schema{"$ref": "#/definitions/Node"}},
        doc.Paths["/nodes"][docs.GET].Responses["200"].Schema)
    props := doc.Definitions["Node"]["properties"].(schema.Schema)
    assert.Equal(t, schema.Schema{"$ref": "#/definitions/Node"}, props["next"])
    assert.Equal(t, schema.Schema{"type": "array", "items": schema.Schema{"type": "string"}}, props["tags"])
}
