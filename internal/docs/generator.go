package docs

import "sync"

// Generator builds the document on first use and serves the same result,
// error included, afterwards. It is safe for concurrent use.
type Generator struct {
    reg  *Registry
    info Info
    opts []Option

    once sync.Once
    doc  *Document
    err  error
}

func NewGenerator(reg *Registry, info Info, opts ...Option) *Generator {
    return &Generator{reg: reg, info: info, opts: opts}
}

func (g *Generator) Document() (*Document, error) {
    g.once.Do(func() {
        g.doc, g.err = Build(g.reg, g.info, g.opts...)
    })
    return g.doc, g.err
}
