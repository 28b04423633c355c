package docs

import (
    "fmt"

    "github.com/mark3labs/swaggerdocs/internal/schema"
)

// parameterLocation maps a parameter kind to its "in" value. Body parameters
// are documented as query parameters.
func parameterLocation(kind ParameterKind) (string, error) {
    switch kind {
    case KindBody, KindQuery:
        return "query", nil
    case KindCookie:
        return "cookie", nil
    case KindHeader:
        return "header", nil
    case KindPath:
        return "path", nil
    default:
        return "", &Error{
            Code:    UnknownParameterLocation,
            Message: fmt.Sprintf("unknown parameter location: %q", kind),
        }
    }
}

// buildParameter builds one parameter, registering every named type its
// override type reaches into defs.
func buildParameter(b schema.Builder, defs schema.Definitions, p ParameterDescriptor) (Parameter, error) {
    in, err := parameterLocation(p.Kind)
    if err != nil {
        return Parameter{}, err
    }
    param := Parameter{
        Name:     p.Name,
        In:       in,
        Required: p.Required,
    }
    if prim, ok := p.Type.Primitive(); ok {
        param.Type = string(prim)
    }

    o := p.Swagger
    if o == nil {
        return param, nil
    }
    param.Default = o.Default
    param.Description = o.Description
    param.Minimum = o.Minimum
    param.Maximum = o.Maximum
    param.Deprecated = o.Deprecated
    if o.Enum != nil {
        param.Enum = append([]any(nil), o.Enum...)
    }
    if o.Type == nil {
        return param, nil
    }

    leaf, toRegister := b.Leaf(*o.Type)
    if p.Type.IsArray() {
        param.Type = "array"
        param.Items = leaf
    } else {
        param.Schema = leaf
    }
    for _, t := range toRegister {
        if err := b.Register(defs, t); err != nil {
            return Parameter{}, err
        }
    }
    return param, nil
}

func buildParameters(b schema.Builder, defs schema.Definitions, descriptors []ParameterDescriptor) ([]Parameter, error) {
    params := make([]Parameter, 0, len(descriptors))
    for _, d := range descriptors {
        p, err := buildParameter(b, defs, d)
        if err != nil {
            return nil, &Error{
                Code:    InvalidParameter,
                Message: fmt.Sprintf("invalid parameter %s: %v", d.Name, err),
                Cause:   err,
            }
        }
        params = append(params, p)
    }
    return params, nil
}
