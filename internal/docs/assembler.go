package docs

import (
    "fmt"
    "regexp"
    "strings"

    "github.com/mark3labs/swaggerdocs/internal/schema"
)

const (
    // DefinitionsPath is where named types live in the document.
    DefinitionsPath = "/definitions"
    jsonMime        = "application/json"
    swaggerVersion  = "2.0"
)

var colonParam = regexp.MustCompile(`:([A-Za-z0-9_]+)`)

// Build assembles the document for every documented route in reg. It either
// returns a complete document or an error, never a partial one.
func Build(reg *Registry, info Info, opts ...Option) (*Document, error) {
    cfg := newBuildConfig(opts)
    b := schema.Builder{BasePath: DefinitionsPath, Dialect: cfg.dialect}

    doc := &Document{
        Swagger:     swaggerVersion,
        Info:        info,
        Consumes:    []string{jsonMime},
        Produces:    []string{jsonMime},
        Paths:       map[string]PathItem{},
        Definitions: schema.Definitions{},
    }
    if cfg.dialect == schema.DialectJSONSchema {
        doc.Dialect = cfg.dialect.String()
    }

    for _, c := range reg.Controllers() {
        if c.Kind != "" && c.Kind != ControllerAPI {
            return nil, &Error{
                Code:    UnrecognizedControllerKind,
                Message: fmt.Sprintf("unknown controller kind %q for prefix %q", c.Kind, c.Prefix),
            }
        }
        for _, r := range c.Routes {
            if r.Docs == nil {
                continue
            }
            url := joinURL(c.Prefix, r.Path, cfg.templates())
            method := HttpMethod(strings.ToLower(string(r.Method)))
            if !cfg.keep(method, url, r.Docs.Tags) {
                continue
            }

            h, err := buildHandler(b, doc.Definitions, r)
            if err != nil {
                return nil, fmt.Errorf("build %s %s: %w", strings.ToUpper(string(method)), url, err)
            }
            item, ok := doc.Paths[url]
            if !ok {
                item = PathItem{}
                doc.Paths[url] = item
            }
            item[method] = h
        }
    }
    return doc, nil
}

func buildHandler(b schema.Builder, defs schema.Definitions, r Route) (*Handler, error) {
    params, err := buildParameters(b, defs, r.Parameters)
    if err != nil {
        return nil, err
    }
    responses, err := buildResponses(b, defs, r.Docs.Responses)
    if err != nil {
        return nil, err
    }
    return &Handler{
        Description: r.Docs.Description,
        Summary:     r.Docs.Summary,
        Tags:        append([]string(nil), r.Docs.Tags...),
        Produces:    []string{jsonMime},
        Parameters:  params,
        Responses:   responses,
    }, nil
}

func buildResponses(b schema.Builder, defs schema.Definitions, descriptors map[string]ResponseDescriptor) (map[string]Response, error) {
    responses := make(map[string]Response, len(descriptors))
    for code, d := range descriptors {
        resp := Response{Description: d.Description}
        if d.Type != nil {
            leaf, toRegister := b.Leaf(*d.Type)
            resp.Schema = leaf
            for _, t := range toRegister {
                if err := b.Register(defs, t); err != nil {
                    return nil, fmt.Errorf("response %s: %w", code, err)
                }
            }
        }
        responses[code] = resp
    }
    return responses, nil
}

// joinURL joins the controller prefix and route path, each with exactly one
// leading slash.
func joinURL(prefix, path string, templates bool) string {
    url := preSlash(prefix) + preSlash(path)
    if url == "" {
        url = "/"
    }
    if templates {
        url = colonParam.ReplaceAllString(url, "{$1}")
    }
    return url
}

func preSlash(s string) string {
    if s == "" || strings.HasPrefix(s, "/") {
        return s
    }
    return "/" + s
}
