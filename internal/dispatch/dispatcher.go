// Package dispatch performs the outbound HTTP calls behind compiled tools.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/merchkit/commerce-mcp/internal/common"
)

// maxResponseSize caps response bodies to prevent OOM from unexpectedly
// large backend responses.
const maxResponseSize = 50 << 20 // 50MB

// Dispatcher executes a single HTTP call per tool invocation against the
// commerce backend. The credential is captured at construction and never
// mutated; concurrent invocations share nothing else.
type Dispatcher struct {
	baseURL    string
	token      string
	headers    http.Header
	httpClient *http.Client
	logger     *common.Logger
}

// NewDispatcher creates a dispatcher for one API surface. token is sent as
// a bearer credential on every request; extra headers (e.g. the store
// publishable key) are copied onto every request as well.
func NewDispatcher(baseURL, token string, extra http.Header, logger *common.Logger) *Dispatcher {
	headers := make(http.Header)
	for key, vals := range extra {
		for _, v := range vals {
			headers.Add(key, v)
		}
	}

	return &Dispatcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		headers: headers,
		httpClient: &http.Client{
			Timeout: 300 * time.Second,
		},
		logger: logger,
	}
}

// Do performs one request and returns the raw response body verbatim.
// Non-success statuses are NOT converted to errors: the backend response is
// surfaced to the caller exactly as received. Only transport-level failures
// return an error. No retries are attempted.
func (d *Dispatcher) Do(ctx context.Context, method, path string, query url.Values, body map[string]any) ([]byte, error) {
	fullURL := d.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	d.logger.Debug().
		Str("method", method).
		Str("url", fullURL).
		Msg("dispatching backend request")

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), fullURL, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}
	for key, vals := range d.headers {
		for _, v := range vals {
			req.Header.Set(key, v)
		}
	}

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		d.logger.Error().Err(err).Str("url", fullURL).Dur("duration", duration).Msg("backend request failed")
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(respBody) >= maxResponseSize {
		d.logger.Warn().
			Str("url", fullURL).
			Int("cap_bytes", maxResponseSize).
			Msg("response body reached the size cap and may be truncated")
	}

	d.logger.Debug().
		Str("status", resp.Status).
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Int("bytes", len(respBody)).
		Msg("backend response")

	return respBody, nil
}

// WithLogger returns a copy of the dispatcher bound to the given logger,
// used to thread per-invocation correlation IDs into request logs.
func (d *Dispatcher) WithLogger(logger *common.Logger) *Dispatcher {
	clone := *d
	clone.logger = logger
	return &clone
}
