package schema

import (
    "bytes"
    "encoding/json"
    "fmt"

    jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// MetaSchema is the $schema marker of standalone documents. Draft-07 ignores
// the legacy "id" stubs on definitions, which draft-04 would treat as base URIs.
const MetaSchema = "http://json-schema.org/draft-07/schema#"

// BuildSchema returns a self-contained JSON Schema document for t: all reached
// definitions live under "definitions" and the root refers to t.
func BuildSchema(t *NamedType, dialect Dialect) (Schema, error) {
    if t == nil {
        return nil, fmt.Errorf("build schema: nil type")
    }
    b := Builder{BasePath: "/definitions", Dialect: dialect}
    defs := Definitions{}
    if err := b.Register(defs, t); err != nil {
        return nil, fmt.Errorf("build schema for %s: %w", t.Name, err)
    }
    return Schema{
        "$schema":     MetaSchema,
        "$ref":        b.RefTo(t.Name),
        "definitions": defs,
    }, nil
}

// Check compiles doc as a JSON Schema, reporting whether the generated schema
// is itself well formed and all its refs resolve.
func Check(doc Schema) error {
    data, err := json.Marshal(doc)
    if err != nil {
        return fmt.Errorf("marshal schema: %w", err)
    }
    const url = "schema.json"
    compiler := jsonschema.NewCompiler()
    compiler.Draft = jsonschema.Draft7
    if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
        return fmt.Errorf("add schema resource: %w", err)
    }
    if _, err := compiler.Compile(url); err != nil {
        return fmt.Errorf("invalid schema: %w", err)
    }
    return nil
}
