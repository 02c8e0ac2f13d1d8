package fakturoid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	httpclient "github.com/michalnik/money-collector/pkg/http"
)

// ResultKind tags the classified shape of an API response.
type ResultKind int

const (
	// ResultObject is a single JSON object body.
	ResultObject ResultKind = iota
	// ResultArray is a JSON array body.
	ResultArray
	// ResultBinary is an opaque byte body, signaled by a binary
	// Content-Transfer-Encoding header. Used for PDF downloads.
	ResultBinary
	// ResultEmpty is a 204 fire-and-forget success.
	ResultEmpty
)

func (k ResultKind) String() string {
	switch k {
	case ResultObject:
		return "object"
	case ResultArray:
		return "array"
	case ResultBinary:
		return "binary"
	case ResultEmpty:
		return "empty"
	}
	return "unknown"
}

// Result is the tagged union of the four response shapes. Exactly the field
// matching Kind is populated; callers switch on Kind rather than type-assert.
type Result struct {
	Kind   ResultKind
	Object json.RawMessage
	Array  []json.RawMessage
	Bytes  []byte
}

// ReqOptions carries the optional parts of a Request call.
type ReqOptions struct {
	ID      *int
	Query   map[string]string
	Body    interface{}
	Headers map[string]string
}

// Request performs one authenticated call against a named endpoint.
// The endpoint is resolved before anything touches the network, the token
// is acquired lazily on the first call, and the response is classified
// into a Result. Any non-2xx status yields a *RequestError.
func (c *Client) Request(ctx context.Context, method, name string, opts ReqOptions) (*Result, error) {
	path, err := c.resolve(name, opts.ID)
	if err != nil {
		return nil, err
	}

	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	headers := c.headers()
	for k, v := range opts.Headers {
		headers[k] = v
	}

	c.logger.Debug("Calling endpoint",
		zap.String("method", method),
		zap.String("endpoint", name),
		zap.String("path", path))

	resp, err := c.httpClient.Do(httpclient.RequestOptions{
		Method:      method,
		URL:         c.config.BaseURL + path,
		Headers:     headers,
		QueryParams: opts.Query,
		Body:        opts.Body,
		Context:     ctx,
	})
	if err != nil {
		return nil, fmt.Errorf("endpoint %s request failed: %w", name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Endpoint returned error status",
			zap.String("endpoint", name),
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(resp.Body)))
		return nil, &RequestError{Status: resp.StatusCode, Body: string(resp.Body)}
	}

	return classify(resp)
}

// classify maps a successful response onto the Result union. Precedence:
// binary transfer-encoding marker, then 204, then JSON by leading token.
func classify(resp *httpclient.Response) (*Result, error) {
	if resp.Headers.Get("Content-Transfer-Encoding") == "binary" {
		return &Result{Kind: ResultBinary, Bytes: resp.Body}, nil
	}
	if resp.StatusCode == 204 {
		return &Result{Kind: ResultEmpty}, nil
	}

	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		return &Result{Kind: ResultEmpty}, nil
	}
	switch body[0] {
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(body, &arr); err != nil {
			return nil, fmt.Errorf("failed to parse JSON array response: %w", err)
		}
		return &Result{Kind: ResultArray, Array: arr}, nil
	default:
		var obj json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return &Result{Kind: ResultObject, Object: obj}, nil
	}
}

// expect asserts the classified shape a caller relies on. A mismatch is a
// contract violation surfaced immediately, never coerced.
func expect(res *Result, kind ResultKind) error {
	if res.Kind != kind {
		return fmt.Errorf("unexpected response shape: got %s, want %s", res.Kind, kind)
	}
	return nil
}
