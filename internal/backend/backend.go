// Package backend contains typed clients for the analytics data services.
// All three services share the same envelope: {"data": ...} on success and
// {"errors": ...} (or a legacy {"message": ...}) on failure.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const unknownAPIError = "An unknown API error occurred."

// APIError is a classified failure from a data service. StatusCode carries
// the upstream HTTP status, or 503 for network-level failures where no
// response was received.
type APIError struct {
	StatusCode int
	Errors     []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, strings.Join(e.Errors, "; "))
}

// Message joins the error strings for presentation in tool results.
func (e *APIError) Message() string {
	return strings.Join(e.Errors, "; ")
}

// extractErrors normalizes an upstream error body to a non-empty message
// list. Accepted shapes: {"errors": "x"}, {"errors": ["a","b"]}, and the
// legacy {"message": "x"}.
func extractErrors(body []byte) []string {
	var payload struct {
		Errors  json.RawMessage `json:"errors"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Errors) > 0 {
			var single string
			if err := json.Unmarshal(payload.Errors, &single); err == nil && single != "" {
				return []string{single}
			}
			var many []string
			if err := json.Unmarshal(payload.Errors, &many); err == nil {
				out := make([]string, 0, len(many))
				for _, m := range many {
					if strings.TrimSpace(m) != "" {
						out = append(out, m)
					}
				}
				if len(out) > 0 {
					return out
				}
			}
		}
		if payload.Message != "" {
			return []string{payload.Message}
		}
	}
	return []string{unknownAPIError}
}

// sharedHTTPClient pools connections across all per-request client values.
var sharedHTTPClient = &http.Client{Timeout: 20 * time.Second}

// client is the request helper embedded in each service client. The bearer
// token is request-scoped; it is attached to outbound calls and never logged.
type client struct {
	baseURL string
	token   string
	service string
	http    *http.Client
}

func newClient(baseURL, token, service string) client {
	return client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		service: service,
		http:    sharedHTTPClient,
	}
}

// getData performs one GET against endpoint and returns the envelope's data
// field. Non-2xx responses and network failures come back as *APIError.
func (c *client) getData(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	slog.Info("backend request", "service", c.service, "method", http.MethodGet, "endpoint", endpoint, "params", params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("backend unreachable", "service", c.service, "endpoint", endpoint, "error", err)
		return nil, &APIError{
			StatusCode: http.StatusServiceUnavailable,
			Errors:     []string{fmt.Sprintf("Failed to connect to the service: %v", err)},
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("backend read failed", "service", c.service, "endpoint", endpoint, "error", err)
		return nil, &APIError{
			StatusCode: http.StatusServiceUnavailable,
			Errors:     []string{fmt.Sprintf("Failed to connect to the service: %v", err)},
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errs := extractErrors(body)
		slog.Error("backend error", "service", c.service, "endpoint", endpoint, "status", resp.StatusCode, "errors", strings.Join(errs, "; "))
		return nil, &APIError{StatusCode: resp.StatusCode, Errors: errs}
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}
	if len(envelope.Data) == 0 {
		return nil, fmt.Errorf("response envelope has no data field")
	}
	return envelope.Data, nil
}

// parseObject decodes one record, rejecting records that omit a required
// field rather than letting it default silently to zero.
func parseObject(raw json.RawMessage, required []string, out any) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	for _, field := range required {
		if _, ok := probe[field]; !ok {
			return fmt.Errorf("record missing required field %q", field)
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// parseList decodes a list of records with the same required-field check.
func parseList[T any](raw json.RawMessage, required []string) ([]T, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode data list: %w", err)
	}
	out := make([]T, len(items))
	for i, item := range items {
		if err := parseObject(item, required, &out[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return out, nil
}

func dateRangeParams(startDate, endDate string) url.Values {
	params := url.Values{}
	params.Set("start_date", startDate)
	params.Set("end_date", endDate)
	return params
}
