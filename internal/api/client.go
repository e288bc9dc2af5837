// Package api implements the session lifecycle and per-buoy queries against
// the remote buoy telemetry service.
//
// A Session owns the bearer token and the authorized buoy-id set. A Client
// borrows a Session per call and never mutates it. All requests go through
// an injected transport.Doer so tests can stand in for the network.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/oceanobs/bog/internal/transport"
)

// doJSON issues one request and decodes a JSON response into out (when out
// is non-nil). Transport failures and non-2xx statuses are returned as a
// *RequestError wrapping kind.
func doJSON(
	ctx context.Context,
	client transport.Doer,
	method, url string,
	body any,
	header http.Header,
	out any,
	kind error,
) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Kind: kind, Reason: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &RequestError{Kind: kind, Reason: fmt.Sprintf("build request: %v", err)}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return &RequestError{Kind: kind, Reason: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Kind: kind, StatusCode: resp.StatusCode, Reason: http.StatusText(resp.StatusCode), Body: fmt.Sprintf("read body: %v", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &RequestError{
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Reason:     http.StatusText(resp.StatusCode),
			Body:       string(data),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &RequestError{Kind: kind, StatusCode: resp.StatusCode, Reason: http.StatusText(resp.StatusCode), Body: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}
