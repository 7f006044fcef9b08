package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultTimeout bounds every remote call. There is no retry.
	DefaultTimeout = 5 * time.Second

	maxResponseBytes = 1 << 20
	userAgent        = "rios/1 (+https://github.com/riosspedro/rios)"
)

var tracer = otel.Tracer("github.com/riosspedro/rios/internal/lookup")

// Fetcher performs the GET-and-decode-JSON calls shared by all adapters.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher whose calls are bounded by timeout.
// A non-positive timeout means DefaultTimeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// NewFetcherWithClient wraps an existing client, typically an
// httptest.Server client.
func NewFetcherWithClient(c *http.Client) *Fetcher {
	return &Fetcher{client: c}
}

// getJSON sends a GET to endpoint with query and decodes the body into T.
// Every failure is returned as a *TransportError.
func getJSON[T any](ctx context.Context, f *Fetcher, endpoint string, query url.Values) (*T, error) {
	ctx, span := tracer.Start(ctx, "lookup.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", endpoint)),
	)
	defer span.End()

	target := endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	out, err := doGet[T](ctx, f, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(ClassOf(err)))
		return nil, err
	}
	return out, nil
}

func doGet[T any](ctx context.Context, f *Fetcher, target string) (*T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Class: ClassConnectionError, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{Class: classifyRequestError(err), URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Class: classifyRequestError(err), URL: target, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			Class:  ClassHTTPError,
			URL:    target,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &TransportError{Class: ClassInvalidJSON, URL: target, Err: err}
	}
	return &out, nil
}
