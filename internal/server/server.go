package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mark3labs/swaggerdocs/internal/docs"
)

// Server serves the generated document, a Swagger UI for it, and the
// registered routes.
type Server struct {
	config *Config
	gen    *docs.Generator
	mux    *http.ServeMux
	server *http.Server

	v3Once sync.Once
	v3     *openapi3.T
	v3Err  error
}

// NewServer wires the docs endpoints and, when enabled, every route in reg.
func NewServer(cfg *Config, reg *docs.Registry, gen *docs.Generator) *Server {
	mux := http.NewServeMux()
	s := &Server{
		config: cfg,
		gen:    gen,
		mux:    mux,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	docsPath := normalizeDocsPath(cfg.DocsPath)
	mux.HandleFunc("GET "+docsPath, DocsHandler(gen))
	if cfg.ServeOpenAPI3 {
		mux.HandleFunc("GET "+docsPath+"/v3", s.openAPI3Handler)
	}
	mux.HandleFunc("GET "+docsPath+"/ui", redirect(docsPath+"/ui/index.html"))
	mux.HandleFunc("GET "+docsPath+"/ui/{$}", redirect(docsPath+"/ui/index.html"))
	mux.Handle("GET "+docsPath+"/ui/", httpSwagger.Handler(
		httpSwagger.URL(docsPath),
		httpSwagger.DeepLinking(true),
	))

	if cfg.MountRoutes {
		mountRoutes(mux, reg)
	}
	return s
}

// Handler exposes the mux for tests and embedding.
func (s *Server) Handler() http.Handler { return s.mux }

// Start begins listening for incoming HTTP requests.
func (s *Server) Start() error {
	log.Printf("HTTP server starting on %s", s.config.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// DocsHandler serves the memoized document as JSON, or a 500 when it
// cannot be built.
func DocsHandler(gen *docs.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := gen.Document()
		if err != nil {
			log.Printf("build document: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func (s *Server) openAPI3Handler(w http.ResponseWriter, r *http.Request) {
	s.v3Once.Do(func() {
		doc, err := s.gen.Document()
		if err != nil {
			s.v3Err = err
			return
		}
		s.v3, s.v3Err = docs.ToOpenAPI3(r.Context(), doc)
	})
	if s.v3Err != nil {
		log.Printf("convert document: %v", s.v3Err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": s.v3Err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.v3)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("encode response: %v", err)
		http.Error(w, `{"error":"encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func redirect(to string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, to, http.StatusFound)
	}
}

// mountRoutes registers every route that has a handler. Routes whose
// pattern is already taken or cannot be expressed are skipped with a warning.
func mountRoutes(mux *http.ServeMux, reg *docs.Registry) {
	seen := map[string]bool{}
	for _, c := range reg.Controllers() {
		for _, r := range c.Routes {
			if r.Handler == nil {
				continue
			}
			pattern := routePattern(r.Method, c.Prefix, r.Path)
			if seen[pattern] {
				log.Printf("[WARN] skipping duplicate route %s", pattern)
				continue
			}
			if err := handle(mux, pattern, r.Handler); err != nil {
				log.Printf("[WARN] skipping route %s: %v", pattern, err)
				continue
			}
			seen[pattern] = true
		}
	}
}

// routePattern turns a route into a ServeMux pattern; whole ":name"
// segments become "{name}" wildcards.
func routePattern(method docs.HttpMethod, prefix, path string) string {
	var segments []string
	for _, part := range []string{prefix, path} {
		for _, seg := range strings.Split(part, "/") {
			if seg == "" {
				continue
			}
			if strings.HasPrefix(seg, ":") && len(seg) > 1 {
				seg = "{" + seg[1:] + "}"
			}
			segments = append(segments, seg)
		}
	}
	return strings.ToUpper(string(method)) + " /" + strings.Join(segments, "/")
}

func handle(mux *http.ServeMux, pattern string, h http.Handler) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	mux.Handle(pattern, h)
	return nil
}
