// Package loader implements the DocLoader external collaborator described
// by spec.md §6: Load(absolutePath) -> SpecTree. It generalizes the
// teacher's internal/spec/loader.go from "fetch, detect version, convert
// Swagger v2 to OpenAPI v3" to "fetch any referenced document, local or
// remote, and decode it into a spectree.Node" — this resolver's job is to
// keep documents in Swagger 2.0 shape, not convert them.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	openapi2 "github.com/getkin/kin-openapi/openapi2"
	"github.com/go-openapi/swag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swagger2resolve/internal/spectree"
)

// ErrorCode categorizes loader errors, mirroring the teacher's ErrorCode.
type ErrorCode string

const (
	InputError   ErrorCode = "InputError"
	NetworkError ErrorCode = "NetworkError"
	ParseError   ErrorCode = "ParseError"
)

// LoaderError is a structured loader failure, mirroring the teacher's
// SpecError{Code, Message, Location, Cause}.
type LoaderError struct {
	Code     ErrorCode
	Message  string
	Location string
	Cause    error
}

func (e *LoaderError) Error() string { return e.Message }
func (e *LoaderError) Unwrap() error { return e.Cause }

// Settings configures Default, mirroring the teacher's loader Settings.
type Settings struct {
	HTTPTimeout time.Duration
	MaxRetries  int
	BackoffBase time.Duration
	// AllowFileRefs controls whether file:// URLs are permitted. Local
	// filesystem paths (no scheme at all) are always permitted — this flag
	// only gates the explicit file:// URL form.
	AllowFileRefs bool
}

// DefaultSettings mirrors the teacher's DefaultSettings.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout:   10 * time.Second,
		MaxRetries:    3,
		BackoffBase:   200 * time.Millisecond,
		AllowFileRefs: false,
	}
}

// Option mutates Settings, following the teacher's functional-option shape.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option  { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option             { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option  { return func(s *Settings) { s.BackoffBase = d } }
func WithAllowFileRefs(allow bool) Option     { return func(s *Settings) { s.AllowFileRefs = allow } }

// Default is the default resolve.DocLoader implementation.
type Default struct {
	settings Settings
}

// New builds a Default loader with DefaultSettings() plus any options.
func New(opts ...Option) *Default {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	return &Default{settings: settings}
}

// Load fetches absolutePath (a local filesystem path, a file:// URL, or an
// http(s) URL), detects and rejects OpenAPI 3.x content, and decodes the
// rest into a spectree.Node.
func (l *Default) Load(ctx context.Context, absolutePath string) (*spectree.Node, error) {
	if strings.TrimSpace(absolutePath) == "" {
		return nil, &LoaderError{Code: InputError, Message: "loader: path is empty"}
	}

	raw, err := l.fetch(ctx, absolutePath)
	if err != nil {
		return nil, err
	}

	yamlDoc, derr := swag.BytesToYAMLDoc(raw)
	if derr != nil {
		return nil, &LoaderError{Code: ParseError, Message: fmt.Sprintf("normalize %s: %v", absolutePath, derr), Location: absolutePath, Cause: derr}
	}

	normalized, nerr := swag.YAMLToJSON(yamlDoc)
	if nerr != nil {
		return nil, &LoaderError{Code: ParseError, Message: fmt.Sprintf("normalize %s: %v", absolutePath, nerr), Location: absolutePath, Cause: nerr}
	}

	if verErr := rejectNonSwagger2(normalized); verErr != nil {
		return nil, &LoaderError{Code: ParseError, Message: verErr.Error(), Location: absolutePath, Cause: verErr}
	}

	tree, err := spectree.FromYAML(normalized)
	if err != nil {
		return nil, &LoaderError{Code: ParseError, Message: fmt.Sprintf("decode %s: %v", absolutePath, err), Location: absolutePath, Cause: err}
	}
	return tree, nil
}

func (l *Default) fetch(ctx context.Context, absolutePath string) ([]byte, error) {
	u, uerr := url.Parse(absolutePath)
	isURL := uerr == nil && u.Scheme != "" && (u.Host != "" || u.Scheme == "file")

	if !isURL {
		return l.readFile(absolutePath)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		if !l.settings.AllowFileRefs {
			return nil, &LoaderError{Code: InputError, Message: "loader: file:// URLs are blocked by default", Location: absolutePath}
		}
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		return l.readFile(path)
	case "http", "https":
		raw, err := fetchWithRetry(ctx, absolutePath, l.settings)
		if err != nil {
			return nil, &LoaderError{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", absolutePath, err), Location: absolutePath, Cause: err}
		}
		return raw, nil
	default:
		return nil, &LoaderError{Code: InputError, Message: fmt.Sprintf("loader: unsupported URL scheme %q", u.Scheme), Location: absolutePath}
	}
}

func (l *Default) readFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoaderError{Code: InputError, Message: fmt.Sprintf("read file %s: %v", path, err), Location: path, Cause: err}
	}
	return raw, nil
}

// rejectNonSwagger2 sniffs the document's declared version the way the
// teacher's detectSpecVersion does, but in the opposite direction: this
// resolver only ever rewrites Swagger 2.0 documents, so an "openapi: 3.x"
// declaration is rejected rather than converted. Documents referenced via
// relative $ref are often bare fragments (a lone "definitions" map with no
// version key at all), so the absence of "swagger" is not itself an error
// -- only an explicit "openapi: 3.x" is. A document that does declare
// "swagger: 2.0" is additionally unmarshalled into kin-openapi's
// openapi2.T, so a structurally broken top-level document (wrong types
// under paths/definitions) is caught here instead of surfacing as a
// confusing pass failure later.
func rejectNonSwagger2(data []byte) error {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if v, ok := root["openapi"]; ok {
		if s, _ := v.(string); strings.HasPrefix(strings.TrimSpace(s), "3.") {
			return fmt.Errorf("loader: OpenAPI 3.x documents are not supported by this resolver (got openapi: %q)", s)
		}
	}
	if v, ok := root["swagger"]; ok {
		if s, _ := v.(string); strings.HasPrefix(strings.TrimSpace(s), "2.") {
			var probe openapi2.T
			if err := yaml.Unmarshal(data, &probe); err != nil {
				return fmt.Errorf("loader: document declares swagger: %q but does not parse as Swagger 2.0: %w", s, err)
			}
		} else {
			return fmt.Errorf("loader: unsupported swagger version %q (expected 2.0)", s)
		}
	}
	return nil
}

// fetchWithRetry mirrors the teacher's fetchWithRetry: exponential backoff
// on transient failures (network errors, >=500, 429).
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
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode < 300 {
			defer resp.Body.Close()
			return io.ReadAll(resp.Body)
		}
		if err != nil {
			lastErr = err
		} else {
			defer resp.Body.Close()
			if resp.StatusCode >= 500 || resp.StatusCode == 429 {
				lastErr = fmt.Errorf("transient http error %d", resp.StatusCode)
			} else {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
				return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			}
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
