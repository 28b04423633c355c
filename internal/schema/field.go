package schema

import "fmt"

// TypeSchema builds the schema of a field whose declared static type is base,
// optionally overridden by typ. An array-like base needs typ as the item type
// unless base itself knows its element type.
func (b Builder) TypeSchema(fd FieldDescriptor, base TypeRef, typ *TypeRef) (Schema, []*NamedType, error) {
    if !base.IsArray() {
        leafRef := base
        if typ != nil {
            leafRef = *typ
        }
        leaf, toRegister := b.Leaf(leafRef)
        return leaf, toRegister, nil
    }
    if typ == nil {
        elem, ok := base.Elem()
        if !ok {
            return nil, nil, &Error{Code: InvalidField, Message: "array field requires an item type"}
        }
        typ = &elem
    }

    items, toRegister := b.Leaf(*typ)
    s := Schema{
        "type":  "array",
        "items": items,
    }
    if fd.MinLength != nil {
        s["minLength"] = *fd.MinLength
    }
    if fd.Pattern != "" {
        items["pattern"] = fd.Pattern
    }
    if fd.Nullable {
        s["type"] = []any{"null", "array"}
    }
    if fd.UniqueItems {
        s["uniqueItems"] = true
    }
    return s, toRegister, nil
}

// Field builds the schema for one field of owner. Any failure is reported as
// a FieldBuild error naming the owner and field.
func (b Builder) Field(name string, fd FieldDescriptor, owner *NamedType) (Schema, []*NamedType, error) {
    s, toRegister, err := b.field(name, fd, owner)
    if err != nil {
        ownerName := ""
        if owner != nil {
            ownerName = owner.Name
        }
        return nil, nil, &Error{
            Code:    FieldBuild,
            Message: fmt.Sprintf("build field %s.%s: %v", ownerName, name, err),
            Type:    ownerName,
            Field:   name,
            Cause:   err,
        }
    }
    return s, toRegister, nil
}

func (b Builder) field(name string, fd FieldDescriptor, owner *NamedType) (Schema, []*NamedType, error) {
    if fd.Schema != nil {
        if b.Dialect == DialectSwagger2 {
            return ToSwagger2(fd.Schema), nil, nil
        }
        return clone(fd.Schema), nil, nil
    }

    if fd.Enum != nil {
        return Schema{"enum": append([]any(nil), fd.Enum...)}, nil, nil
    }

    if len(fd.Types) > 0 {
        if b.Dialect == DialectSwagger2 {
            // Swagger 2.0 has no unions; the last member wins.
            leaf, toRegister := b.Leaf(fd.Types[len(fd.Types)-1])
            return leaf, toRegister, nil
        }
        alternatives := make([]any, 0, len(fd.Types)+1)
        if fd.Nullable {
            alternatives = append(alternatives, Schema{"type": "null"})
        }
        var toRegister []*NamedType
        for _, ref := range fd.Types {
            leaf, refs := b.Leaf(ref)
            alternatives = append(alternatives, leaf)
            toRegister = append(toRegister, refs...)
        }
        return Schema{"oneOf": alternatives}, toRegister, nil
    }

    if fd.Items != nil {
        items, toRegister, err := b.field(name, *fd.Items, owner)
        if err != nil {
            return nil, nil, err
        }
        s := Schema{"type": "array", "items": items}
        if fd.UniqueItems {
            s["uniqueItems"] = true
        }
        return s, toRegister, nil
    }

    base, ok := owner.DeclaredType(name)
    if fd.Type != nil {
        if !ok {
            // Nothing is known about the field at rest; treat it as exactly Type.
            leaf, toRegister := b.Leaf(*fd.Type)
            return leaf, toRegister, nil
        }
        return b.TypeSchema(fd, base, fd.Type)
    }
    if !ok {
        return nil, nil, &Error{Code: InvalidField, Message: "no schema, type or declared type"}
    }

    if p, isPrimitive := base.Primitive(); isPrimitive {
        return scalar(p, fd), nil, nil
    }
    return b.TypeSchema(fd, base, nil)
}

func scalar(p Primitive, fd FieldDescriptor) Schema {
    s := Schema{"type": string(p)}
    if fd.Pattern != "" {
        s["pattern"] = fd.Pattern
    }
    if fd.MinLength != nil {
        s["minLength"] = *fd.MinLength
    }
    if fd.MaxLength != nil {
        s["maxLength"] = *fd.MaxLength
    }
    if fd.Minimum != nil {
        s["minimum"] = *fd.Minimum
    }
    if fd.Maximum != nil {
        s["maximum"] = *fd.Maximum
    }
    if fd.MultipleOf != nil {
        s["multipleOf"] = *fd.MultipleOf
    }
    if fd.Nullable {
        s["type"] = []any{"null", string(p)}
    }
    return s
}
