package catalog

import (
    "encoding/json"
    "net/http"
    "strings"

    "github.com/mark3labs/swaggerdocs/internal/docs"
)

// notImplemented stands in for routes whose behavior lives outside the
// catalog. It answers 501 with a JSON body naming the operation.
func notImplemented(method docs.HttpMethod, path string) http.Handler {
    op := strings.ToUpper(string(method)) + " " + path
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json")
        w.WriteHeader(http.StatusNotImplemented)
        _ = json.NewEncoder(w).Encode(map[string]string{
            "error":     "not implemented",
            "operation": op,
        })
    })
}

func joinPath(prefix, path string) string {
    out := ""
    for _, part := range []string{prefix, path} {
        part = strings.Trim(part, "/")
        if part != "" {
            out += "/" + part
        }
    }
    if out == "" {
        return "/"
    }
    return out
}
