// Package cloudflare is a minimal gateway to the Cloudflare v4 REST API.
// It performs single best-effort requests authenticated with a caller-supplied
// bearer token and narrows the loosely-typed JSON bodies into the summaries
// exposed as MCP tools.
package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bobmcallan/cloudflare-mcp/internal/common"
)

// maxResponseSize caps the response body to prevent OOM from unexpectedly large responses.
const maxResponseSize = 50 << 20 // 50MB

const tracerName = "github.com/bobmcallan/cloudflare-mcp/internal/cloudflare"

// Client sends requests to the Cloudflare API. It holds no credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewClient creates a client for the API rooted at baseURL
// (normally https://api.cloudflare.com/client/v4).
// No client-side timeout is set; cancellation flows from the caller's context.
func NewClient(baseURL string, logger *common.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
		now:        time.Now,
	}
}

// UseTracerProvider makes the client create its request spans from tp.
func (c *Client) UseTracerProvider(tp trace.TracerProvider) {
	c.tracer = tp.Tracer(tracerName)
}

// BaseURL returns the configured API origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOptions customises a single request. Header values replace the
// defaults (Authorization, Content-Type) when they share a key.
type RequestOptions struct {
	Method string
	Body   any
	Header http.Header
}

// Result is the raw outcome of a request that reached the API.
// Body always holds syntactically valid JSON.
type Result struct {
	StatusCode int
	OK         bool
	Body       json.RawMessage
}

// Decode unmarshals the body into v.
func (r *Result) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Request performs one call to baseURL+path. path is used verbatim and may
// already carry a query string. It returns a *TransportError when the API
// could not be reached or the body is not JSON; non-2xx statuses are not
// errors at this level.
func (c *Client) Request(ctx context.Context, path, token string, opts *RequestOptions) (*Result, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	route, _, _ := strings.Cut(path, "?")
	ctx, span := c.tracer.Start(ctx, "cloudflare "+method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("cloudflare.route", route),
		),
	)
	defer span.End()

	log := common.LoggerFor(ctx, c.logger)
	log.Debug().Str("method", method).Str("path", path).Str("trace_id", traceID(span)).Msg("cloudflare request")

	var bodyReader io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, c.fail(span, &TransportError{Method: method, Path: path, Err: fmt.Errorf("failed to marshal request: %w", err)})
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, c.fail(span, &TransportError{Method: method, Path: path, Err: err})
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	for key, vals := range opts.Header {
		req.Header.Del(key)
		for _, v := range vals {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Error().Str("method", method).Str("path", path).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("cloudflare request failed")
		return nil, c.fail(span, &TransportError{Method: method, Path: path, Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, c.fail(span, &TransportError{Method: method, Path: path, Err: fmt.Errorf("failed to read response: %w", err)})
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	log.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("cloudflare response")

	if !json.Valid(body) {
		return nil, c.fail(span, &TransportError{
			Method: method,
			Path:   path,
			Err:    fmt.Errorf("invalid JSON response (status %d): %s", resp.StatusCode, snippet(body)),
		})
	}

	res := &Result{
		StatusCode: resp.StatusCode,
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		Body:       json.RawMessage(body),
	}
	if !res.OK {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	return res, nil
}

// traceID returns the span's trace ID, or "" when tracing is off.
func traceID(span trace.Span) string {
	if sc := span.SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

func (c *Client) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// snippet returns at most 64 bytes of body for error messages.
func snippet(body []byte) string {
	const max = 64
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "empty body"
	}
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// escapeURLText percent-encodes control bytes, space, non-ASCII bytes and the
// characters '"', '<' and '>', matching what a browser URL parser escapes in a
// path or query. Reserved characters such as '&' and '/' pass through.
func escapeURLText(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c >= 0x7F || c == '"' || c == '<' || c == '>' {
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xF])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
