package schema

import "strings"

// Keywords with no Swagger 2.0 equivalent.
var swagger2Unsupported = []string{
    "$schema", "$id", "const", "not", "if", "then", "else",
    "contains", "propertyNames", "patternProperties", "dependencies",
}

// ToSwagger2 rewrites a generic schema fragment into the Swagger 2.0 dialect.
// Unions collapse: a union of patterns becomes one alternated pattern,
// anything else keeps only its last member.
func ToSwagger2(s Schema) Schema {
    out, ok := asSchema(toSwagger2(s))
    if !ok {
        return Schema{}
    }
    return out
}

func toSwagger2(v any) any {
    s, ok := asSchema(v)
    if !ok {
        return v
    }

    for _, key := range []string{"oneOf", "anyOf"} {
        members, ok := asList(s[key])
        if !ok || len(members) == 0 {
            continue
        }
        if patterns, ok := allPatterns(members); ok {
            return Schema{
                "type":    "string",
                "pattern": "(" + strings.Join(patterns, ")|(") + ")",
            }
        }
        return toSwagger2(members[len(members)-1])
    }

    out := clone(s)
    for _, key := range swagger2Unsupported {
        delete(out, key)
    }
    if items, ok := out["items"]; ok {
        out["items"] = toSwagger2(items)
    }
    if ap, ok := out["additionalProperties"]; ok {
        if _, isBool := ap.(bool); !isBool {
            out["additionalProperties"] = toSwagger2(ap)
        }
    }
    if props, ok := asSchema(out["properties"]); ok {
        converted := make(Schema, len(props))
        for name, p := range props {
            converted[name] = toSwagger2(p)
        }
        out["properties"] = converted
    }
    return out
}

func allPatterns(members []any) ([]string, bool) {
    patterns := make([]string, 0, len(members))
    for _, m := range members {
        ms, ok := asSchema(m)
        if !ok {
            return nil, false
        }
        p, ok := ms["pattern"].(string)
        if !ok || p == "" {
            return nil, false
        }
        patterns = append(patterns, p)
    }
    return patterns, true
}

func asSchema(v any) (Schema, bool) {
    switch val := v.(type) {
    case Schema:
        return val, val != nil
    case map[string]any:
        return Schema(val), val != nil
    default:
        return nil, false
    }
}

func asList(v any) ([]any, bool) {
    switch val := v.(type) {
    case []any:
        return val, true
    case []Schema:
        out := make([]any, len(val))
        for i, s := range val {
            out[i] = s
        }
        return out, true
    default:
        return nil, false
    }
}

// Normalize converts decoded JSON/YAML maps into Schema values recursively so
// builders and comparisons see one map type.
func Normalize(v any) any {
    switch val := v.(type) {
    case map[string]any:
        out := make(Schema, len(val))
        for k, item := range val {
            out[k] = Normalize(item)
        }
        return out
    case Schema:
        out := make(Schema, len(val))
        for k, item := range val {
            out[k] = Normalize(item)
        }
        return out
    case []any:
        out := make([]any, len(val))
        for i, item := range val {
            out[i] = Normalize(item)
        }
        return out
    default:
        return v
    }
}
