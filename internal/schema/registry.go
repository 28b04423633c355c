package schema

import (
    "fmt"
    "sort"
)

// Register adds the definition of t, and of every named type it reaches, to
// defs. A type already present is skipped; the name is reserved before any
// field is built so self- and mutually-referencing types terminate.
func (b Builder) Register(defs Definitions, t *NamedType) error {
    if t == nil {
        return nil
    }
    if _, ok := defs[t.Name]; ok {
        return nil
    }

    def := Schema{"id": b.definitionID(t.Name)}
    defs[t.Name] = def

    var queue []*NamedType
    obj := t.Object
    if obj != nil {
        if obj.Description != "" {
            def["description"] = obj.Description
        }
        var err error
        if len(obj.OneOf) > 0 {
            queue = b.oneOf(def, obj)
        } else if queue, err = b.object(def, t); err != nil {
            return err
        }
    }

    for _, next := range queue {
        if err := b.Register(defs, next); err != nil {
            return err
        }
    }
    return nil
}

func (b Builder) oneOf(def Schema, obj *ObjectDescriptor) []*NamedType {
    if b.Dialect == DialectSwagger2 {
        last := obj.OneOf[len(obj.OneOf)-1]
        def["$ref"] = b.RefTo(last.Name)
        return []*NamedType{last}
    }
    refs := make([]any, 0, len(obj.OneOf))
    for _, alt := range obj.OneOf {
        refs = append(refs, Schema{"$ref": b.RefTo(alt.Name)})
    }
    def["oneOf"] = refs
    return append([]*NamedType(nil), obj.OneOf...)
}

func (b Builder) object(def Schema, t *NamedType) ([]*NamedType, error) {
    obj := t.Object
    var queue []*NamedType

    if obj.Nullable {
        def["type"] = []any{"null", "object"}
    } else {
        def["type"] = "object"
    }

    if obj.AdditionalPropertiesType != nil {
        leaf, refs := b.Leaf(*obj.AdditionalPropertiesType)
        def["additionalProperties"] = leaf
        queue = append(queue, refs...)
    }

    if len(obj.Fields) > 0 {
        names := make([]string, 0, len(obj.Fields))
        for name := range obj.Fields {
            names = append(names, name)
        }
        sort.Strings(names)

        properties := make(Schema, len(names))
        var required []string
        for _, name := range names {
            fd := obj.Fields[name]
            s, refs, err := b.Field(name, fd, t)
            if err != nil {
                return nil, err
            }
            properties[name] = s
            queue = append(queue, refs...)
            if fd.Required {
                required = append(required, name)
            }
        }
        def["properties"] = properties
        if len(required) > 0 {
            def["required"] = required
        }
    }

    if obj.AdditionalProperties != nil {
        def["additionalProperties"] = *obj.AdditionalProperties
    }
    return queue, nil
}

// BuildDefinitions registers t and everything it reaches into a fresh set of
// definitions using flat refs.
func BuildDefinitions(t *NamedType, dialect Dialect) (Definitions, error) {
    defs := Definitions{}
    b := Builder{Dialect: dialect}
    if err := b.Register(defs, t); err != nil {
        return nil, fmt.Errorf("build definitions for %s: %w", t.Name, err)
    }
    return defs, nil
}
