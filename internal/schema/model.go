package schema

// Descriptor model used by the builders. Values are plain data; the builders
// never mutate them.

// Schema is a JSON-Schema fragment. Nested fragments are Schema values and
// lists are []any or []Schema.
type Schema map[string]any

// Definitions maps a named type's name to its built schema.
type Definitions map[string]Schema

// Dialect selects the schema output variant.
type Dialect int

const (
    // DialectSwagger2 flattens unions and drops keywords Swagger 2.0 cannot express.
    DialectSwagger2 Dialect = iota
    // DialectJSONSchema keeps oneOf unions and references.
    DialectJSONSchema
)

func (d Dialect) String() string {
    switch d {
    case DialectSwagger2:
        return "swagger2"
    case DialectJSONSchema:
        return "jsonschema"
    default:
        return "unknown"
    }
}

// ParseDialect accepts the names returned by Dialect.String. An empty name
// selects DialectSwagger2.
func ParseDialect(name string) (Dialect, bool) {
    switch name {
    case "", "swagger2":
        return DialectSwagger2, true
    case "jsonschema":
        return DialectJSONSchema, true
    }
    return 0, false
}

// Primitive is one of the scalar types that compile inline.
type Primitive string

const (
    String  Primitive = "string"
    Boolean Primitive = "boolean"
    Number  Primitive = "number"
)

// ParsePrimitive reports whether name is a known primitive.
func ParsePrimitive(name string) (Primitive, bool) {
    switch Primitive(name) {
    case String, Boolean, Number:
        return Primitive(name), true
    }
    return "", false
}

type refKind int

const (
    refNone refKind = iota
    refPrimitive
    refNamed
    refArray
    refInline
)

// TypeRef identifies a type: a primitive, a named type, an array of another
// TypeRef, or an inline schema. The zero value refers to nothing.
type TypeRef struct {
    kind      refKind
    primitive Primitive
    named     *NamedType
    elem      *TypeRef
    inline    Schema
}

// PrimitiveRef refers to a primitive type.
func PrimitiveRef(p Primitive) TypeRef { return TypeRef{kind: refPrimitive, primitive: p} }

// Ref refers to a named type.
func Ref(t *NamedType) TypeRef { return TypeRef{kind: refNamed, named: t} }

// ArrayOf refers to a sequence of elem.
func ArrayOf(elem TypeRef) TypeRef { return TypeRef{kind: refArray, elem: &elem} }

// AnyArray is a sequence whose element type is not known, the shape a field
// has when only "this is a list" can be observed.
func AnyArray() TypeRef { return TypeRef{kind: refArray} }

// Inline wraps a literal schema; it is used verbatim and never registered.
func Inline(s Schema) TypeRef { return TypeRef{kind: refInline, inline: s} }

var (
    StringRef  = PrimitiveRef(String)
    BooleanRef = PrimitiveRef(Boolean)
    NumberRef  = PrimitiveRef(Number)
)

// IsZero reports whether the ref refers to nothing.
func (r TypeRef) IsZero() bool { return r.kind == refNone }

// Primitive returns the primitive type when the ref is primitive.
func (r TypeRef) Primitive() (Primitive, bool) {
    return r.primitive, r.kind == refPrimitive
}

// Named returns the named type, or nil.
func (r TypeRef) Named() *NamedType {
    if r.kind != refNamed {
        return nil
    }
    return r.named
}

// IsArray reports whether the ref describes a sequence.
func (r TypeRef) IsArray() bool { return r.kind == refArray }

// Elem returns the element type of an array ref, if known.
func (r TypeRef) Elem() (TypeRef, bool) {
    if r.kind != refArray || r.elem == nil {
        return TypeRef{}, false
    }
    return *r.elem, true
}

func (r TypeRef) String() string {
    switch r.kind {
    case refPrimitive:
        return string(r.primitive)
    case refNamed:
        if r.named == nil {
            return "<nil>"
        }
        return r.named.Name
    case refArray:
        if r.elem == nil {
            return "array"
        }
        return "[]" + r.elem.String()
    case refInline:
        return "inline"
    default:
        return ""
    }
}

// NamedType is a data type with a stable, process-unique name. It compiles to
// exactly one definition.
type NamedType struct {
    Name   string
    Object *ObjectDescriptor

    declared map[string]TypeRef
}

// NewType creates a named type with no fields.
func NewType(name string) *NamedType {
    return &NamedType{Name: name, declared: map[string]TypeRef{}}
}

// Describe attaches the object descriptor, keeping any fields added before.
func (t *NamedType) Describe(obj ObjectDescriptor) *NamedType {
    if t.Object != nil && obj.Fields == nil {
        obj.Fields = t.Object.Fields
    }
    t.Object = &obj
    return t
}

// Field records the declared static type of a field together with its
// descriptor.
func (t *NamedType) Field(name string, declared TypeRef, fd FieldDescriptor) *NamedType {
    if t.Object == nil {
        t.Object = &ObjectDescriptor{}
    }
    if t.Object.Fields == nil {
        t.Object.Fields = map[string]FieldDescriptor{}
    }
    t.Object.Fields[name] = fd
    t.Declare(name, declared)
    return t
}

// Declare records the declared static type of a field without documenting it.
func (t *NamedType) Declare(name string, declared TypeRef) *NamedType {
    if t.declared == nil {
        t.declared = map[string]TypeRef{}
    }
    if !declared.IsZero() {
        t.declared[name] = declared
    }
    return t
}

// DeclaredType returns the static type the field has at rest.
func (t *NamedType) DeclaredType(field string) (TypeRef, bool) {
    if t == nil || t.declared == nil {
        return TypeRef{}, false
    }
    ref, ok := t.declared[field]
    return ref, ok
}

// ObjectDescriptor describes a named type's shape.
type ObjectDescriptor struct {
    Description string
    Fields      map[string]FieldDescriptor
    // OneOf lists mutually exclusive alternatives; the type IS one of them.
    OneOf []*NamedType
    // AdditionalPropertiesType is the schema of unnamed properties.
    AdditionalPropertiesType *TypeRef
    // AdditionalProperties is copied literally when set.
    AdditionalProperties *bool
    Nullable             bool
}

// FieldDescriptor describes one field. Exactly one structural choice applies,
// in order: Schema, Enum, Types, Items, then Type with the declared static type.
type FieldDescriptor struct {
    Required bool

    Schema Schema
    Enum   []any
    Types  []TypeRef
    Items  *FieldDescriptor
    Type   *TypeRef

    Pattern     string
    MinLength   *int
    MaxLength   *int
    Minimum     *float64
    Maximum     *float64
    MultipleOf  *float64
    UniqueItems bool
    Nullable    bool
}

// Ptr returns a pointer to v, for optional descriptor fields.
func Ptr[T any](v T) *T { return &v }

// TypeOf returns a pointer to ref, for FieldDescriptor.Type.
func TypeOf(ref TypeRef) *TypeRef { return &ref }
