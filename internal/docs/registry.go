package docs

import (
    "fmt"
    "sync"
)

// Registry holds the controllers a document is built from. It is filled at
// startup and read by Build.
type Registry struct {
    mu          sync.RWMutex
    controllers []Controller
}

func NewRegistry() *Registry { return &Registry{} }

// Register adds a controller. A documented route without a handler is
// rejected so the document never advertises an operation nothing serves.
func (r *Registry) Register(c Controller) error {
    for _, route := range c.Routes {
        if route.Docs != nil && route.Handler == nil {
            return &Error{
                Code:    MissingHandler,
                Message: fmt.Sprintf("route %s %s of controller %q is documented but has no handler", route.Method, route.Path, c.Prefix),
            }
        }
    }
    r.mu.Lock()
    defer r.mu.Unlock()
    r.controllers = append(r.controllers, c)
    return nil
}

// Controllers returns the registered controllers in registration order.
func (r *Registry) Controllers() []Controller {
    if r == nil {
        return nil
    }
    r.mu.RLock()
    defer r.mu.RUnlock()
    return append([]Controller(nil), r.controllers...)
}
