package schema

import "strings"

// Builder compiles descriptors into schema fragments. BasePath and Dialect are
// fixed for one document.
type Builder struct {
    // BasePath prefixes $ref pointers, e.g. "/definitions" yields
    // "#/definitions/Name". When empty, refs are the bare name and definition
    // ids take the "#Name" form.
    BasePath string
    Dialect  Dialect
}

// RefTo returns the $ref pointer for a named type.
func (b Builder) RefTo(name string) string {
    if b.BasePath == "" {
        return name
    }
    return "#" + strings.TrimSuffix(b.BasePath, "/") + "/" + name
}

// definitionID is the id stub stored on every registered definition.
func (b Builder) definitionID(name string) string {
    if b.BasePath == "" {
        return "#" + name
    }
    return name
}

// Leaf builds the smallest schema for ref: inline for primitives, a pointer for
// named types. Named types reached are returned for registration.
func (b Builder) Leaf(ref TypeRef) (Schema, []*NamedType) {
    switch ref.kind {
    case refPrimitive:
        return Schema{"type": string(ref.primitive)}, nil
    case refArray:
        if ref.elem == nil {
            return Schema{"type": "array"}, nil
        }
        items, toRegister := b.Leaf(*ref.elem)
        return Schema{"type": "array", "items": items}, toRegister
    case refInline:
        return clone(ref.inline), nil
    case refNamed:
        if ref.named == nil {
            return Schema{}, nil
        }
        return Schema{"$ref": b.RefTo(ref.named.Name)}, []*NamedType{ref.named}
    default:
        return Schema{}, nil
    }
}

// clone copies a schema deeply enough that builders can add keywords without
// touching the descriptor.
func clone(s Schema) Schema {
    if s == nil {
        return nil
    }
    out := make(Schema, len(s))
    for k, v := range s {
        out[k] = cloneValue(v)
    }
    return out
}

func cloneValue(v any) any {
    switch val := v.(type) {
    case Schema:
        return clone(val)
    case map[string]any:
        return clone(Schema(val))
    case []Schema:
        out := make([]Schema, len(val))
        for i, item := range val {
            out[i] = clone(item)
        }
        return out
    case []any:
        out := make([]any, len(val))
        for i, item := range val {
            out[i] = cloneValue(item)
        }
        return out
    default:
        return v
    }
}
