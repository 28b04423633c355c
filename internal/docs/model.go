package docs

import (
    "net/http"
    "strings"

    "github.com/mark3labs/swaggerdocs/internal/schema"
)

// Operation descriptors registered by the host and the document built from them.

type HttpMethod string

const (
    GET     HttpMethod = "get"
    POST    HttpMethod = "post"
    PUT     HttpMethod = "put"
    DELETE  HttpMethod = "delete"
    PATCH   HttpMethod = "patch"
    HEAD    HttpMethod = "head"
    OPTIONS HttpMethod = "options"
    TRACE   HttpMethod = "trace"
)

// ParseMethod reports whether name is a supported HTTP method, case-insensitively.
func ParseMethod(name string) (HttpMethod, bool) {
    m := HttpMethod(strings.ToLower(strings.TrimSpace(name)))
    switch m {
    case GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS, TRACE:
        return m, true
    }
    return "", false
}

// OperationDescriptor documents one route. Routes without one are left out of
// the document.
type OperationDescriptor struct {
    Description string
    Summary     string
    Tags        []string
    Responses   map[string]ResponseDescriptor
}

type ResponseDescriptor struct {
    Description string
    Type        *schema.TypeRef
}

// ParameterKind is where a parameter is read from. The set is open so hosts
// can add kinds; Build rejects kinds it cannot place.
type ParameterKind string

const (
    KindBody   ParameterKind = "body"
    KindQuery  ParameterKind = "query"
    KindCookie ParameterKind = "cookie"
    KindHeader ParameterKind = "header"
    KindPath   ParameterKind = "path"
)

type ParameterDescriptor struct {
    Name     string
    Kind     ParameterKind
    Required bool
    // Type is the declared static type of the parameter.
    Type    schema.TypeRef
    Swagger *ParameterOverride
}

// ParameterOverride carries documentation-only data for a parameter.
type ParameterOverride struct {
    Default     any
    Description string
    Minimum     *float64
    Maximum     *float64
    Deprecated  bool
    Enum        []any
    Type        *schema.TypeRef
}

type Route struct {
    Method     HttpMethod
    Path       string
    Handler    http.Handler
    Docs       *OperationDescriptor
    Parameters []ParameterDescriptor
}

type ControllerKind string

// ControllerAPI is the only kind the assembler knows how to document.
const ControllerAPI ControllerKind = "api"

type Controller struct {
    Kind   ControllerKind
    Prefix string
    Routes []Route
}

type Info struct {
    Title       string `json:"title" yaml:"title"`
    Version     string `json:"version" yaml:"version"`
    Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Document is the assembled Swagger 2.0 document.
type Document struct {
    Swagger     string              `json:"swagger" yaml:"swagger"`
    Info        Info                `json:"info" yaml:"info"`
    Consumes    []string            `json:"consumes" yaml:"consumes"`
    Produces    []string            `json:"produces" yaml:"produces"`
    Paths       map[string]PathItem `json:"paths" yaml:"paths"`
    Definitions schema.Definitions  `json:"definitions" yaml:"definitions"`
    // Dialect is set only for the generic JSON-Schema dialect.
    Dialect string `json:"x-schema-dialect,omitempty" yaml:"x-schema-dialect,omitempty"`
}

type PathItem map[HttpMethod]*Handler

type Handler struct {
    Description string              `json:"description,omitempty" yaml:"description,omitempty"`
    Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
    Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
    Produces    []string            `json:"produces" yaml:"produces"`
    Parameters  []Parameter         `json:"parameters" yaml:"parameters"`
    Responses   map[string]Response `json:"responses" yaml:"responses"`
}

type Response struct {
    Description string        `json:"description" yaml:"description"`
    Schema      schema.Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

type Parameter struct {
    Name        string        `json:"name" yaml:"name"`
    In          string        `json:"in" yaml:"in"`
    Required    bool          `json:"required" yaml:"required"`
    Type        string        `json:"type,omitempty" yaml:"type,omitempty"`
    Items       schema.Schema `json:"items,omitempty" yaml:"items,omitempty"`
    Schema      schema.Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
    Default     any           `json:"default,omitempty" yaml:"default,omitempty"`
    Description string        `json:"description,omitempty" yaml:"description,omitempty"`
    Minimum     *float64      `json:"minimum,omitempty" yaml:"minimum,omitempty"`
    Maximum     *float64      `json:"maximum,omitempty" yaml:"maximum,omitempty"`
    Deprecated  bool          `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
    Enum        []any         `json:"enum,omitempty" yaml:"enum,omitempty"`
}
