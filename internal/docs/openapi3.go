package docs

import (
    "context"
    "encoding/json"
    "fmt"

    openapi2 "github.com/getkin/kin-openapi/openapi2"
    "github.com/getkin/kin-openapi/openapi2conv"
    "github.com/getkin/kin-openapi/openapi3"
)

// ToOpenAPI3 converts a built document to OpenAPI 3 with kin-openapi and
// validates the result. Unions are reduced as in the legacy dialect first.
func ToOpenAPI3(ctx context.Context, doc *Document) (*openapi3.T, error) {
    if doc == nil {
        return nil, &Error{Code: ConversionFailed, Message: "convert to openapi3: nil document"}
    }
    raw, err := json.Marshal(doc)
    if err != nil {
        return nil, conversionError("marshal document", err)
    }
    var tree map[string]any
    if err := json.Unmarshal(raw, &tree); err != nil {
        return nil, conversionError("decode document", err)
    }
    if preprocessForConversion(tree) {
        if raw, err = json.Marshal(tree); err != nil {
            return nil, conversionError("marshal compatible document", err)
        }
    }

    var v2 openapi2.T
    if err := json.Unmarshal(raw, &v2); err != nil {
        return nil, conversionError("parse swagger 2.0", err)
    }
    v3, err := openapi2conv.ToV3(&v2)
    if err != nil {
        return nil, conversionError("convert v2→v3", err)
    }
    if err := openapi3.NewLoader().ResolveRefsIn(v3, nil); err != nil {
        return nil, conversionError("resolve refs", err)
    }
    if err := v3.Validate(ctx); err != nil {
        return nil, conversionError("validate openapi3", err)
    }
    return v3, nil
}

func conversionError(step string, err error) error {
    return &Error{Code: ConversionFailed, Message: fmt.Sprintf("%s: %v", step, err), Cause: err}
}
