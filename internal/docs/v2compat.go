package docs

import (
    "strings"

    "github.com/mark3labs/swaggerdocs/internal/schema"
)

// preprocessForConversion rewrites the JSON form of a document in place so
// kin-openapi accepts it as strict Swagger 2.0:
// - every schema is reduced to the legacy dialect (no unions);
// - "type" lists become a single type plus "x-nullable";
// - definition "id" stubs are dropped;
// - parameter "deprecated" moves to "x-deprecated".
//
// It reports whether anything changed.
func preprocessForConversion(doc map[string]any) bool {
    modified := false

    if defs, ok := doc["definitions"].(map[string]any); ok {
        for name, d := range defs {
            defs[name] = compatSchema(d)
            modified = true
        }
    }

    paths, ok := doc["paths"].(map[string]any)
    if !ok || len(paths) == 0 {
        return modified
    }
    for _, pim := range paths {
        pi, ok := pim.(map[string]any)
        if !ok {
            continue
        }
        for method, opm := range pi {
            if _, known := ParseMethod(method); !known {
                continue
            }
            op, ok := opm.(map[string]any)
            if !ok {
                continue
            }
            if params, ok := op["parameters"].([]any); ok {
                for _, p := range params {
                    pm, _ := p.(map[string]any)
                    if pm == nil {
                        continue
                    }
                    if dep, ok := pm["deprecated"]; ok {
                        delete(pm, "deprecated")
                        pm["x-deprecated"] = dep
                        modified = true
                    }
                    for _, key := range []string{"schema", "items"} {
                        if s, ok := pm[key]; ok {
                            pm[key] = compatSchema(s)
                            modified = true
                        }
                    }
                }
            }
            if responses, ok := op["responses"].(map[string]any); ok {
                for _, r := range responses {
                    rm, _ := r.(map[string]any)
                    if rm == nil {
                        continue
                    }
                    if s, ok := rm["schema"]; ok {
                        rm["schema"] = compatSchema(s)
                        modified = true
                    }
                }
            }
        }
    }
    return modified
}

func compatSchema(v any) any {
    m, ok := v.(map[string]any)
    if !ok {
        return v
    }
    legacy := schema.ToSwagger2(schema.Normalize(m).(schema.Schema))
    return stripCompat(legacy)
}

// stripCompat converts a legacy schema back to plain maps, fixing the
// constructs strict Swagger 2.0 rejects.
func stripCompat(v any) any {
    var s map[string]any
    switch val := v.(type) {
    case schema.Schema:
        s = val
    case map[string]any:
        s = val
    default:
        return v
    }

    out := make(map[string]any, len(s))
    for k, item := range s {
        switch k {
        case "id":
        case "items", "additionalProperties":
            out[k] = stripCompat(item)
        case "properties":
            props := map[string]any{}
            switch pv := item.(type) {
            case schema.Schema:
                for name, p := range pv {
                    props[name] = stripCompat(p)
                }
            case map[string]any:
                for name, p := range pv {
                    props[name] = stripCompat(p)
                }
            }
            out[k] = props
        default:
            out[k] = plain(item)
        }
    }
    if types, ok := out["type"].([]any); ok {
        single := ""
        nullable := false
        for _, t := range types {
            name, _ := t.(string)
            if strings.EqualFold(name, "null") {
                nullable = true
                continue
            }
            if single == "" {
                single = name
            }
        }
        if single == "" {
            delete(out, "type")
        } else {
            out["type"] = single
        }
        if nullable {
            out["x-nullable"] = true
        }
    }
    return out
}

// plain turns Schema values back into map[string]any for JSON re-encoding.
func plain(v any) any {
    switch val := v.(type) {
    case schema.Schema:
        out := make(map[string]any, len(val))
        for k, item := range val {
            out[k] = plain(item)
        }
        return out
    case []any:
        out := make([]any, len(val))
        for i, item := range val {
            out[i] = plain(item)
        }
        return out
    default:
        return v
    }
}
