package catalog

import (
    "context"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "os"
    "path/filepath"
    "strings"
    "time"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
    InputError     ErrorCode = "InputError"
    NetworkError   ErrorCode = "NetworkError"
    ParseError     ErrorCode = "ParseError"
    ReferenceError ErrorCode = "ReferenceError"
)

// LoadError is a structured error with an optional location and JSON Pointer
// into the catalog.
type LoadError struct {
    Code        ErrorCode
    Message     string
    Location    string // file path or URL
    JSONPointer string // e.g. "#/types/Model/fields/a"
    Cause       error
}

func (e *LoadError) Error() string { return e.Message }
func (e *LoadError) Unwrap() error { return e.Cause }

// Settings configures loader behavior.
type Settings struct {
    // HTTPTimeout bounds each HTTP request.
    HTTPTimeout time.Duration
    // MaxRetries for transient HTTP failures (>=500, 429, or network errors).
    MaxRetries int
    // BackoffBase is the base delay for exponential backoff.
    BackoffBase time.Duration
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
    return Settings{
        HTTPTimeout: 10 * time.Second,
        MaxRetries:  3,
        BackoffBase: 200 * time.Millisecond,
    }
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option  { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option            { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }

// Load reads a catalog from a filesystem path or an http/https URL and
// resolves it into named types and a route registry. file:// URLs are blocked.
func Load(ctx context.Context, input string, opts ...Option) (*Catalog, error) {
    if strings.TrimSpace(input) == "" {
        return nil, &LoadError{Code: InputError, Message: "catalog: input is empty"}
    }

    settings := DefaultSettings()
    for _, opt := range opts {
        opt(&settings)
    }

    u, uerr := url.Parse(input)
    isURL := uerr == nil && u.Scheme != "" && u.Host != ""

    if isURL {
        scheme := strings.ToLower(u.Scheme)
        if scheme == "file" {
            return nil, &LoadError{Code: InputError, Message: "catalog: file:// URLs are blocked", Location: input}
        }
        if scheme != "http" && scheme != "https" {
            return nil, &LoadError{Code: InputError, Message: fmt.Sprintf("catalog: unsupported URL scheme %q (only http/https allowed)", scheme), Location: input}
        }
        raw, err := fetchWithRetry(ctx, input, settings)
        if err != nil {
            return nil, &LoadError{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", input, err), Location: input, Cause: err}
        }
        return Parse(raw, input)
    }

    abs, err := filepath.Abs(input)
    if err != nil {
        return nil, &LoadError{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
    }
    raw, err := os.ReadFile(abs)
    if err != nil {
        return nil, &LoadError{Code: InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Location: abs, Cause: err}
    }
    return Parse(raw, abs)
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
    client := &http.Client{Timeout: settings.HTTPTimeout}
    var lastErr error
    backoff := settings.BackoffBase
    if backoff <= 0 {
        backoff = 200 * time.Millisecond
    }
    attempts := settings.MaxRetries
    if attempts <= 0 {
        attempts = 1
    }
    for i := 0; i < attempts; i++ {
        body, retry, err := fetchOnce(ctx, client, rawURL)
        if err == nil {
            return body, nil
        }
        if !retry {
            return nil, err
        }
        lastErr = err
        if i == attempts-1 {
            break
        }
        select {
        case <-ctx.Done():
            return nil, ctx.Err()
        case <-time.After(backoff):
        }
        backoff *= 2
    }
    if lastErr == nil {
        lastErr = errors.New("fetch failed")
    }
    return nil, lastErr
}

// fetchOnce performs a single GET, reporting whether a failure is transient.
func fetchOnce(ctx context.Context, client *http.Client, rawURL string) ([]byte, bool, error) {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
    if err != nil {
        return nil, false, err
    }
    resp, err := client.Do(req)
    if err != nil {
        return nil, true, err
    }
    defer resp.Body.Close()
    if resp.StatusCode < 300 {
        body, err := io.ReadAll(resp.Body)
        return body, false, err
    }
    if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
        return nil, true, fmt.Errorf("transient http error %d", resp.StatusCode)
    }
    body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
    return nil, false, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
