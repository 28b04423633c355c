package docs

import (
    "regexp"
    "strings"

    "github.com/mark3labs/swaggerdocs/internal/schema"
)

// Option configures how a Document is built from a Registry.
type Option func(*buildConfig)

type buildConfig struct {
    dialect       schema.Dialect
    pathTemplates *bool
    includeTags   map[string]struct{}
    excludeTags   map[string]struct{}
    methods       map[HttpMethod]struct{}
    pathRes       []*regexp.Regexp
}

func newBuildConfig(opts []Option) *buildConfig {
    cfg := &buildConfig{dialect: schema.DialectSwagger2}
    for _, opt := range opts {
        if opt != nil {
            opt(cfg)
        }
    }
    return cfg
}

// WithDialect selects the schema dialect. The default is DialectSwagger2.
func WithDialect(d schema.Dialect) Option {
    return func(c *buildConfig) { c.dialect = d }
}

// WithPathTemplates forces ":id" to "{id}" conversion on or off. By default
// it is on for DialectSwagger2 only.
func WithPathTemplates(enabled bool) Option {
    return func(c *buildConfig) { c.pathTemplates = &enabled }
}

func (c *buildConfig) templates() bool {
    if c.pathTemplates != nil {
        return *c.pathTemplates
    }
    return c.dialect == schema.DialectSwagger2
}

// WithIncludeTags keeps only operations that have at least one of the given tags.
func WithIncludeTags(tags []string) Option {
    return func(c *buildConfig) {
        c.includeTags = addTags(c.includeTags, tags)
    }
}

// WithExcludeTags removes operations that have any of the given tags.
func WithExcludeTags(tags []string) Option {
    return func(c *buildConfig) {
        c.excludeTags = addTags(c.excludeTags, tags)
    }
}

func addTags(set map[string]struct{}, tags []string) map[string]struct{} {
    for _, t := range tags {
        t = strings.TrimSpace(t)
        if t == "" {
            continue
        }
        if set == nil {
            set = make(map[string]struct{}, len(tags))
        }
        set[t] = struct{}{}
    }
    return set
}

// WithMethods keeps only operations using one of the provided HTTP methods.
func WithMethods(methods []HttpMethod) Option {
    return func(c *buildConfig) {
        if len(methods) == 0 {
            return
        }
        if c.methods == nil {
            c.methods = make(map[HttpMethod]struct{}, len(methods))
        }
        for _, m := range methods {
            c.methods[m] = struct{}{}
        }
    }
}

// WithPathPatterns keeps only operations whose URL matches at least one of the
// provided regular expressions. An invalid pattern matches nothing.
func WithPathPatterns(patterns []string) Option {
    return func(c *buildConfig) {
        for _, p := range patterns {
            p = strings.TrimSpace(p)
            if p == "" {
                continue
            }
            re, err := regexp.Compile(p)
            if err != nil {
                re = regexp.MustCompile("a^$")
            }
            c.pathRes = append(c.pathRes, re)
        }
    }
}

// keep applies the method, path and tag filters to one operation.
func (c *buildConfig) keep(method HttpMethod, url string, tags []string) bool {
    if len(c.methods) > 0 {
        if _, ok := c.methods[method]; !ok {
            return false
        }
    }
    if len(c.pathRes) > 0 {
        matched := false
        for _, re := range c.pathRes {
            if re.MatchString(url) {
                matched = true
                break
            }
        }
        if !matched {
            return false
        }
    }
    if len(c.includeTags) > 0 {
        found := false
        for _, t := range tags {
            if _, ok := c.includeTags[t]; ok {
                found = true
                break
            }
        }
        if !found {
            return false
        }
    }
    for _, t := range tags {
        if _, ok := c.excludeTags[t]; ok {
            return false
        }
    }
    return true
}
