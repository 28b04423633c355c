package docs

import (
    "encoding/json"
    "errors"
    "net/http"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/mark3labs/swaggerdocs/internal/schema"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

func endToEndModel() *schema.NamedType {
    return schema.NewType("Model").
        Describe(schema.ObjectDescriptor{Description: "A model"}).
        Field("a", schema.StringRef, schema.FieldDescriptor{Required: true}).
        Field("b", schema.NumberRef, schema.FieldDescriptor{}).
        Field("d", schema.AnyArray(), schema.FieldDescriptor{Type: schema.TypeOf(schema.NumberRef)})
}

func endToEndRegistry(t *testing.T) *Registry {
    t.Helper()
    reg := NewRegistry()
    require.NoError(t, reg.Register(Controller{
        Kind: ControllerAPI,
        Routes: []Route{
            {
                Method:  GET,
                Path:    "route",
                Handler: okHandler,
                Docs: &OperationDescriptor{
                    Description: "Get the model",
                    Responses: map[string]ResponseDescriptor{
                        "200": {Description: "ok", Type: schema.TypeOf(schema.Ref(endToEndModel()))},
                    },
                },
            },
            {Method: POST, Path: "hidden", Handler: okHandler},
        },
    }))
    return reg
}

func TestBuild_EndToEnd(t *testing.T) {
    t.Parallel()
    doc, err := Build(endToEndRegistry(t), Info{Title: "Test", Version: "1.0.0"})
    require.NoError(t, err)

    assert.Equal(t, "2.0", doc.Swagger)
    assert.Equal(t, []string{"application/json"}, doc.Consumes)
    assert.Equal(t, []string{"application/json"}, doc.Produces)
    assert.Empty(t, doc.Dialect)

    model := doc.Definitions["Model"]
    require.NotNil(t, model)
    assert.Equal(t, []string{"a"}, model["required"])
    assert.Equal(t,
        schema.Schema{"type": "array", "items": schema.Schema{"type": "number"}},
        model["properties"].(schema.Schema)["d"])

    get := doc.Paths["/route"][GET]
    require.NotNil(t, get)
    assert.Equal(t, "Get the model", get.Description)
    assert.Equal(t, []string{"application/json"}, get.Produces)
    assert.Equal(t, schema.Schema{"$ref": "#/definitions/Model"}, get.Responses["200"].Schema)
    assert.Equal(t, "ok", get.Responses["200"].Description)
}

func TestBuild_UndocumentedRoutesExcluded(t *testing.T) {
    t.Parallel()
    doc, err := Build(endToEndRegistry(t), Info{})
    require.NoError(t, err)
    assert.NotContains(t, doc.Paths, "/hidden")
    assert.Len(t, doc.Paths, 1)
}

func TestBuild_JSONShape(t *testing.T) {
    t.Parallel()
    doc, err := Build(endToEndRegistry(t), Info{Title: "Test", Version: "1.0.0"})
    require.NoError(t, err)

    raw, err := json.Marshal(doc)
    require.NoError(t, err)
    var tree map[string]any
    require.NoError(t, json.Unmarshal(raw, &tree))

    get := tree["paths"].(map[string]any)["/route"].(map[string]any)["get"].(map[string]any)
    assert.Equal(t, []any{}, get["parameters"])
    assert.Equal(t, "#/definitions/Model",
        get["responses"].(map[string]any)["200"].(map[string]any)["schema"].(map[string]any)["$ref"])
    assert.NotContains(t, tree, "x-schema-dialect")
}

func TestBuild_URLJoin(t *testing.T) {
    t.Parallel()
    tests := []struct {
        name      string
        prefix    string
        path      string
        opts      []Option
        wantURL   string
    }{
        {"prefix and path", "api", ":id", nil, "/api/{id}"},
        {"slashes kept", "/api", "/users/:id/items/:item_id", nil, "/api/users/{id}/items/{item_id}"},
        {"no prefix", "", "users", nil, "/users"},
        {"root", "", "", nil, "/"},
        {"generic keeps colons", "api", ":id", []Option{WithDialect(schema.DialectJSONSchema)}, "/api/:id"},
        {"forced templates", "api", ":id", []Option{WithDialect(schema.DialectJSONSchema), WithPathTemplates(true)}, "/api/{id}"},
        {"templates off", "api", ":id", []Option{WithPathTemplates(false)}, "/api/:id"},
    }
    for _, tc := range tests {
        t.Run(tc.name, func(t *testing.T) {
            reg := NewRegistry()
            require.NoError(t, reg.Register(Controller{
                Kind:   ControllerAPI,
                Prefix: tc.prefix,
                Routes: []Route{{Method: GET, Path: tc.path, Handler: okHandler, Docs: &OperationDescriptor{}}},
            }))
            doc, err := Build(reg, Info{}, tc.opts...)
            require.NoError(t, err)
            assert.Contains(t, doc.Paths, tc.wantURL)
        })
    }
}

func TestBuild_SharedURLMergesMethods(t *testing.T) {
    t.Parallel()
    reg := NewRegistry()
    require.NoError(t, reg.Register(Controller{
        Prefix: "items",
        Routes: []Route{
            {Method: GET, Handler: okHandler, Docs: &OperationDescriptor{Summary: "list"}},
            {Method: "POST", Handler: okHandler, Docs: &OperationDescriptor{Summary: "create"}},
        },
    }))
    doc, err := Build(reg, Info{})
    require.NoError(t, err)
    require.Len(t, doc.Paths["/items"], 2)
    assert.Equal(t, "list", doc.Paths["/items"][GET].Summary)
    assert.Equal(t, "create", doc.Paths["/items"][POST].Summary)
}

func TestBuild_UnrecognizedControllerKind(t *testing.T) {
    t.Parallel()
    reg := NewRegistry()
    require.NoError(t, reg.Register(Controller{Kind: "websocket", Prefix: "ws"}))

    doc, err := Build(reg, Info{})
    assert.Nil(t, doc)
    require.Error(t, err)
    assert.True(t, errors.Is(err, ErrUnrecognizedControllerKind))
    assert.Contains(t, err.Error(), "websocket")
}

func TestRegistry_MissingHandler(t *testing.T) {
    t.Parallel()
    reg := NewRegistry()
    err := reg.Register(Controller{
        Kind:   ControllerAPI,
        Routes: []Route{{Method: GET, Path: "x", Docs: &OperationDescriptor{}}},
    })
    require.Error(t, err)
    assert.True(t, errors.Is(err, ErrMissingHandler))
    assert.Empty(t, reg.Controllers())

    require.NoError(t, reg.Register(Controller{
        Kind:   ControllerAPI,
        Routes: []Route{{Method: GET, Path: "undocumented"}},
    }))
}

func TestBuild_FieldErrorAbortsBuild(t *testing.T) {
    t.Parallel()
    bad := schema.NewType("Bad").Field("list", schema.AnyArray(), schema.FieldDescriptor{})
    reg := NewRegistry()
    require.NoError(t, reg.Register(Controller{
        Routes: []Route{{
            Method:  GET,
            Path:    "bad",
            Handler: okHandler,
            Docs: &OperationDescriptor{Responses: map[string]ResponseDescriptor{
                "200": {Description: "ok", Type: schema.TypeOf(schema.Ref(bad))},
            }},
        }},
    }))
    doc, err := Build(reg, Info{})
    assert.Nil(t, doc)
    require.Error(t, err)
    assert.True(t, errors.Is(err, schema.ErrInvalidField))
    assert.Contains(t, err.Error(), "Bad.list")
    assert.Contains(t, err.Error(), "GET /bad")
}

func TestBuild_Filters(t *testing.T) {
    t.Parallel()
    reg := NewRegistry()
    require.NoError(t, reg.Register(Controller{
        Prefix: "api",
        Routes: []Route{
            {Method: GET, Path: "pets", Handler: okHandler, Docs: &OperationDescriptor{Tags: []string{"pets"}}},
            {Method: POST, Path: "pets", Handler: okHandler, Docs: &OperationDescriptor{Tags: []string{"pets", "admin"}}},
            {Method: GET, Path: "users", Handler: okHandler, Docs: &OperationDescriptor{Tags: []string{"users"}}},
        },
    }))

    count := func(opts ...Option) int {
        doc, err := Build(reg, Info{}, opts...)
        require.NoError(t, err)
        n := 0
        for _, item := range doc.Paths {
            n += len(item)
        }
        return n
    }

    assert.Equal(t, 3, count())
    assert.Equal(t, 2, count(WithIncludeTags([]string{"pets"})))
    assert.Equal(t, 2, count(WithExcludeTags([]string{" admin "})))
    assert.Equal(t, 1, count(WithIncludeTags([]string{"pets"}), WithExcludeTags([]string{"admin"})))
    assert.Equal(t, 2, count(WithMethods([]HttpMethod{GET})))
    assert.Equal(t, 1, count(WithPathPatterns([]string{"^/api/users$"})))
    assert.Equal(t, 0, count(WithPathPatterns([]string{"("})))
}

func TestBuild_GenericDialect(t *testing.T) {
    t.Parallel()
    a := schema.NewType("A").Field("x", schema.StringRef, schema.FieldDescriptor{})
    b := schema.NewType("B").Field("y", schema.NumberRef, schema.FieldDescriptor{})
    owner := schema.NewType("Owner").Field("u", schema.TypeRef{}, schema.FieldDescriptor{
        Types: []schema.TypeRef{schema.Ref(a), schema.Ref(b)},
    })
    reg := NewRegistry()
    require.NoError(t, reg.Register(Controller{
        Routes: []Route{{
            Method:  GET,
            Path:    "owner",
            Handler: okHandler,
            Docs: &OperationDescriptor{Responses: map[string]ResponseDescriptor{
                "200": {Description: "ok", Type: schema.TypeOf(schema.Ref(owner))},
            }},
        }},
    }))

    generic, err := Build(reg, Info{}, WithDialect(schema.DialectJSONSchema))
    require.NoError(t, err)
    assert.Equal(t, "jsonschema", generic.Dialect)
    assert.Equal(t, schema.Schema{"oneOf": []any{
        schema.Schema{"$ref": "#/definitions/A"},
        schema.Schema{"$ref": "#/definitions/B"},
    }}, generic.Definitions["Owner"]["properties"].(schema.Schema)["u"])
    assert.Contains(t, generic.Definitions, "A")

    legacy, err := Build(reg, Info{})
    require.NoError(t, err)
    assert.Equal(t, schema.Schema{"$ref": "#/definitions/B"},
        legacy.Definitions["Owner"]["properties"].(schema.Schema)["u"])
    assert.NotContains(t, legacy.Definitions, "A")
}

func TestGenerator_Memoizes(t *testing.T) {
    t.Parallel()
    gen := NewGenerator(endToEndRegistry(t), Info{Title: "Test"})
    first, err := gen.Document()
    require.NoError(t, err)
    second, err := gen.Document()
    require.NoError(t, err)
    assert.Same(t, first, second)
}

func TestGenerator_MemoizesError(t *testing.T) {
    t.Parallel()
    reg := NewRegistry()
    require.NoError(t, reg.Register(Controller{Kind: "rpc"}))
    gen := NewGenerator(reg, Info{})
    _, err1 := gen.Document()
    _, err2 := gen.Document()
    require.Error(t, err1)
    assert.Same(t, err1, err2)
}
