package catalog

import (
    "fmt"
    "sort"
    "strings"

    "gopkg.in/yaml.v3"

    "github.com/mark3labs/swaggerdocs/internal/docs"
    "github.com/mark3labs/swaggerdocs/internal/schema"
)

// Catalog is a resolved descriptor file: named types plus the documented
// controllers, ready for docs.Build.
type Catalog struct {
    Info     docs.Info
    Types    map[string]*schema.NamedType
    Registry *docs.Registry
    // Location is the file path or URL the catalog was read from.
    Location string
}

// Type returns a named type by name.
func (c *Catalog) Type(name string) (*schema.NamedType, bool) {
    t, ok := c.Types[name]
    return t, ok
}

// TypeNames returns the declared type names in sorted order.
func (c *Catalog) TypeNames() []string {
    names := make([]string, 0, len(c.Types))
    for name := range c.Types {
        names = append(names, name)
    }
    sort.Strings(names)
    return names
}

// On-disk shape. JSON catalogs decode through the same YAML path.

type catalogFile struct {
    Info        docs.Info           `yaml:"info"`
    Types       map[string]typeFile `yaml:"types"`
    Controllers []controllerFile    `yaml:"controllers"`
}

type typeFile struct {
    Description              string               `yaml:"description"`
    Fields                   map[string]fieldFile `yaml:"fields"`
    OneOf                    []string             `yaml:"oneOf"`
    AdditionalPropertiesType string               `yaml:"additionalPropertiesType"`
    AdditionalProperties     *bool                `yaml:"additionalProperties"`
    Nullable                 bool                 `yaml:"nullable"`
}

type fieldFile struct {
    Declared    string         `yaml:"declared"`
    Required    bool           `yaml:"required"`
    Schema      map[string]any `yaml:"schema"`
    Enum        []any          `yaml:"enum"`
    Types       []string       `yaml:"types"`
    Items       *fieldFile     `yaml:"items"`
    Type        string         `yaml:"type"`
    Pattern     string         `yaml:"pattern"`
    MinLength   *int           `yaml:"minLength"`
    MaxLength   *int           `yaml:"maxLength"`
    Minimum     *float64       `yaml:"minimum"`
    Maximum     *float64       `yaml:"maximum"`
    MultipleOf  *float64       `yaml:"multipleOf"`
    UniqueItems bool           `yaml:"uniqueItems"`
    Nullable    bool           `yaml:"nullable"`
}

type controllerFile struct {
    Kind   string      `yaml:"kind"`
    Prefix string      `yaml:"prefix"`
    Routes []routeFile `yaml:"routes"`
}

type routeFile struct {
    Method     string          `yaml:"method"`
    Path       string          `yaml:"path"`
    Docs       *docsFile       `yaml:"docs"`
    Parameters []parameterFile `yaml:"parameters"`
}

type docsFile struct {
    Description string                  `yaml:"description"`
    Summary     string                  `yaml:"summary"`
    Tags        []string                `yaml:"tags"`
    Responses   map[string]responseFile `yaml:"responses"`
}

type responseFile struct {
    Description string `yaml:"description"`
    Type        string `yaml:"type"`
}

type parameterFile struct {
    Name     string        `yaml:"name"`
    Kind     string        `yaml:"kind"`
    Declared string        `yaml:"declared"`
    Required bool          `yaml:"required"`
    Swagger  *overrideFile `yaml:"swagger"`
}

type overrideFile struct {
    Default     any      `yaml:"default"`
    Description string   `yaml:"description"`
    Minimum     *float64 `yaml:"minimum"`
    Maximum     *float64 `yaml:"maximum"`
    Deprecated  bool     `yaml:"deprecated"`
    Enum        []any    `yaml:"enum"`
    Type        string   `yaml:"type"`
}

// Parse decodes and resolves catalog bytes. location is only used in errors.
func Parse(data []byte, location string) (*Catalog, error) {
    var f catalogFile
    if err := yaml.Unmarshal(data, &f); err != nil {
        return nil, &LoadError{Code: ParseError, Message: fmt.Sprintf("parse catalog: %v", err), Location: location, Cause: err}
    }

    r := &resolver{location: location, types: make(map[string]*schema.NamedType, len(f.Types))}
    names := make([]string, 0, len(f.Types))
    for name := range f.Types {
        names = append(names, name)
    }
    sort.Strings(names)

    // Every name exists before any descriptor is resolved, so types may
    // refer to each other in any order.
    for _, name := range names {
        if _, isPrimitive := schema.ParsePrimitive(name); isPrimitive || name == "array" || strings.HasPrefix(name, "[]") {
            return nil, r.errorf(ReferenceError, "#/types/"+name, "type name %q is reserved", name)
        }
        r.types[name] = schema.NewType(name)
    }
    for _, name := range names {
        if err := r.describe(name, f.Types[name]); err != nil {
            return nil, err
        }
    }

    reg := docs.NewRegistry()
    for i, cf := range f.Controllers {
        c, err := r.controller(i, cf)
        if err != nil {
            return nil, err
        }
        if err := reg.Register(c); err != nil {
            return nil, r.wrap(ReferenceError, fmt.Sprintf("#/controllers/%d", i), err)
        }
    }

    return &Catalog{Info: f.Info, Types: r.types, Registry: reg, Location: location}, nil
}

type resolver struct {
    location string
    types    map[string]*schema.NamedType
}

func (r *resolver) errorf(code ErrorCode, pointer, format string, args ...any) error {
    return &LoadError{
        Code:        code,
        Message:     fmt.Sprintf("%s: %s", pointer, fmt.Sprintf(format, args...)),
        Location:    r.location,
        JSONPointer: pointer,
    }
}

func (r *resolver) wrap(code ErrorCode, pointer string, err error) error {
    return &LoadError{
        Code:        code,
        Message:     fmt.Sprintf("%s: %v", pointer, err),
        Location:    r.location,
        JSONPointer: pointer,
        Cause:       err,
    }
}

// ref parses a TypeRef expression: a primitive, "array" for an array of
// unknown elements, "[]T", or a declared type name.
func (r *resolver) ref(expr, pointer string) (schema.TypeRef, error) {
    expr = strings.TrimSpace(expr)
    switch {
    case expr == "":
        return schema.TypeRef{}, nil
    case expr == "array":
        return schema.AnyArray(), nil
    case strings.HasPrefix(expr, "[]"):
        elem, err := r.ref(strings.TrimPrefix(expr, "[]"), pointer)
        if err != nil {
            return schema.TypeRef{}, err
        }
        if elem.IsZero() {
            return schema.TypeRef{}, r.errorf(ReferenceError, pointer, "array type %q has no element type", expr)
        }
        return schema.ArrayOf(elem), nil
    }
    if p, ok := schema.ParsePrimitive(expr); ok {
        return schema.PrimitiveRef(p), nil
    }
    if t, ok := r.types[expr]; ok {
        return schema.Ref(t), nil
    }
    return schema.TypeRef{}, r.errorf(ReferenceError, pointer, "unknown type %q", expr)
}

func (r *resolver) optionalRef(expr, pointer string) (*schema.TypeRef, error) {
    ref, err := r.ref(expr, pointer)
    if err != nil || ref.IsZero() {
        return nil, err
    }
    return &ref, nil
}

func (r *resolver) describe(name string, tf typeFile) error {
    t := r.types[name]
    base := "#/types/" + name

    obj := schema.ObjectDescriptor{
        Description:          tf.Description,
        AdditionalProperties: tf.AdditionalProperties,
        Nullable:             tf.Nullable,
    }
    for i, alt := range tf.OneOf {
        at, ok := r.types[strings.TrimSpace(alt)]
        if !ok {
            return r.errorf(ReferenceError, fmt.Sprintf("%s/oneOf/%d", base, i), "unknown type %q", alt)
        }
        obj.OneOf = append(obj.OneOf, at)
    }
    ap, err := r.optionalRef(tf.AdditionalPropertiesType, base+"/additionalPropertiesType")
    if err != nil {
        return err
    }
    obj.AdditionalPropertiesType = ap
    t.Describe(obj)

    fieldNames := make([]string, 0, len(tf.Fields))
    for fname := range tf.Fields {
        fieldNames = append(fieldNames, fname)
    }
    sort.Strings(fieldNames)
    for _, fname := range fieldNames {
        ff := tf.Fields[fname]
        pointer := base + "/fields/" + fname
        declared, err := r.ref(ff.Declared, pointer+"/declared")
        if err != nil {
            return err
        }
        fd, err := r.field(ff, pointer)
        if err != nil {
            return err
        }
        t.Field(fname, declared, fd)
    }
    return nil
}

func (r *resolver) field(ff fieldFile, pointer string) (schema.FieldDescriptor, error) {
    fd := schema.FieldDescriptor{
        Required:    ff.Required,
        Enum:        ff.Enum,
        Pattern:     ff.Pattern,
        MinLength:   ff.MinLength,
        MaxLength:   ff.MaxLength,
        Minimum:     ff.Minimum,
        Maximum:     ff.Maximum,
        MultipleOf:  ff.MultipleOf,
        UniqueItems: ff.UniqueItems,
        Nullable:    ff.Nullable,
    }
    if ff.Schema != nil {
        fd.Schema = schema.Normalize(ff.Schema).(schema.Schema)
    }
    for i, expr := range ff.Types {
        ref, err := r.ref(expr, fmt.Sprintf("%s/types/%d", pointer, i))
        if err != nil {
            return fd, err
        }
        if ref.IsZero() {
            return fd, r.errorf(ReferenceError, fmt.Sprintf("%s/types/%d", pointer, i), "empty union member")
        }
        fd.Types = append(fd.Types, ref)
    }
    if ff.Items != nil {
        items, err := r.field(*ff.Items, pointer+"/items")
        if err != nil {
            return fd, err
        }
        fd.Items = &items
    }
    typ, err := r.optionalRef(ff.Type, pointer+"/type")
    if err != nil {
        return fd, err
    }
    fd.Type = typ
    return fd, nil
}

func (r *resolver) controller(i int, cf controllerFile) (docs.Controller, error) {
    kind := docs.ControllerKind(strings.TrimSpace(cf.Kind))
    if kind == "" {
        kind = docs.ControllerAPI
    }
    c := docs.Controller{Kind: kind, Prefix: cf.Prefix}
    for j, rf := range cf.Routes {
        pointer := fmt.Sprintf("#/controllers/%d/routes/%d", i, j)
        method, ok := docs.ParseMethod(rf.Method)
        if !ok {
            return c, r.errorf(ParseError, pointer+"/method", "unsupported HTTP method %q", rf.Method)
        }
        route := docs.Route{
            Method:  method,
            Path:    rf.Path,
            Handler: notImplemented(method, joinPath(cf.Prefix, rf.Path)),
        }
        if rf.Docs != nil {
            op, err := r.operation(*rf.Docs, pointer+"/docs")
            if err != nil {
                return c, err
            }
            route.Docs = op
        }
        for k, pf := range rf.Parameters {
            p, err := r.parameter(pf, fmt.Sprintf("%s/parameters/%d", pointer, k))
            if err != nil {
                return c, err
            }
            route.Parameters = append(route.Parameters, p)
        }
        c.Routes = append(c.Routes, route)
    }
    return c, nil
}

func (r *resolver) operation(df docsFile, pointer string) (*docs.OperationDescriptor, error) {
    op := &docs.OperationDescriptor{
        Description: df.Description,
        Summary:     df.Summary,
        Tags:        df.Tags,
        Responses:   make(map[string]docs.ResponseDescriptor, len(df.Responses)),
    }
    for code, rf := range df.Responses {
        typ, err := r.optionalRef(rf.Type, pointer+"/responses/"+code+"/type")
        if err != nil {
            return nil, err
        }
        op.Responses[code] = docs.ResponseDescriptor{Description: rf.Description, Type: typ}
    }
    return op, nil
}

func (r *resolver) parameter(pf parameterFile, pointer string) (docs.ParameterDescriptor, error) {
    if strings.TrimSpace(pf.Name) == "" {
        return docs.ParameterDescriptor{}, r.errorf(ParseError, pointer+"/name", "parameter name is empty")
    }
    declared, err := r.ref(pf.Declared, pointer+"/declared")
    if err != nil {
        return docs.ParameterDescriptor{}, err
    }
    p := docs.ParameterDescriptor{
        Name:     pf.Name,
        Kind:     docs.ParameterKind(strings.ToLower(strings.TrimSpace(pf.Kind))),
        Required: pf.Required,
        Type:     declared,
    }
    if o := pf.Swagger; o != nil {
        typ, err := r.optionalRef(o.Type, pointer+"/swagger/type")
        if err != nil {
            return p, err
        }
        p.Swagger = &docs.ParameterOverride{
            Default:     o.Default,
            Description: o.Description,
            Minimum:     o.Minimum,
            Maximum:     o.Maximum,
            Deprecated:  o.Deprecated,
            Enum:        o.Enum,
            Type:        typ,
        }
    }
    return p, nil
}
