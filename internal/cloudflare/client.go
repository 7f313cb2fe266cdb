// Package cloudflare is a thin client for the platform API that agentview
// provisions customer workers on. Every call runs under the customer's own
// API token; errors are split into structured API rejections (APIError) and
// network failures (TransportError). The client never retries: sequencing
// decisions belong to the orchestrator.
package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production platform endpoint.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// maxResponseBytes caps how much of a platform response we will read.
const maxResponseBytes = 4 << 20

// Client issues authenticated requests against the platform API on behalf
// of a single customer token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*apiResponse]
}

type apiResponse struct {
	status int
	body   []byte
}

type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool            `json:"success"`
	Errors  []apiMessage    `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

// NewClient creates a client bound to one customer API token.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	settings := gobreaker.Settings{
		Name: "cloudflare-api",
		// Open after 5 consecutive transport failures, probe again after 30s.
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		Timeout: 30 * time.Second,
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Platform API circuit breaker state change", "from", from.String(), "to", to.String())
			if to == gobreaker.StateOpen {
				circuitBreakerState.Set(1)
			} else {
				circuitBreakerState.Set(0)
			}
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		token:      token,
		// The platform allows 1200 requests per 5 minutes per token.
		limiter: rate.NewLimiter(rate.Limit(4), 8),
		breaker: gobreaker.NewCircuitBreaker[*apiResponse](settings),
	}
}

// roundTrip executes one rate-limited, breaker-guarded request and
// returns the raw status and body.
func (c *Client) roundTrip(ctx context.Context, op, method, path, contentType string, body []byte) (*apiResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	resp, err := c.breaker.Execute(func() (*apiResponse, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		res, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := res.Body.Close(); err != nil {
				slog.Debug("failed to close response body", "error", err)
			}
		}()

		raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
		if err != nil {
			return nil, err
		}

		return &apiResponse{status: res.StatusCode, body: raw}, nil
	})
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return resp, nil
}

// do executes one request and returns the raw result payload from the
// platform envelope.
func (c *Client) do(ctx context.Context, op, method, path, contentType string, body []byte) (json.RawMessage, error) {
	start := time.Now()
	resp, err := c.roundTrip(ctx, op, method, path, contentType, body)
	if err != nil {
		recordRequest(op, "transport_error", time.Since(start).Seconds())
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(resp.body, &env); err != nil {
		if resp.status >= 400 {
			recordRequest(op, "api_error", time.Since(start).Seconds())
			return nil, &APIError{Message: http.StatusText(resp.status), HTTPStatus: resp.status}
		}
		recordRequest(op, "transport_error", time.Since(start).Seconds())
		return nil, &TransportError{Op: op, Err: fmt.Errorf("malformed response body: %w", err)}
	}

	if !env.Success || resp.status >= 400 {
		recordRequest(op, "api_error", time.Since(start).Seconds())
		apiErr := &APIError{Message: http.StatusText(resp.status), HTTPStatus: resp.status}
		if len(env.Errors) > 0 {
			apiErr.Code = env.Errors[0].Code
			apiErr.Message = env.Errors[0].Message
		}
		return nil, apiErr
	}

	recordRequest(op, "ok", time.Since(start).Seconds())
	return env.Result, nil
}

// doPlain executes one request against a data-plane endpoint. These
// endpoints answer with plain HTTP status/body semantics rather than the
// control-plane envelope, so success is any 2xx regardless of body.
func (c *Client) doPlain(ctx context.Context, op, method, path, contentType string, body []byte) error {
	start := time.Now()
	resp, err := c.roundTrip(ctx, op, method, path, contentType, body)
	if err != nil {
		recordRequest(op, "transport_error", time.Since(start).Seconds())
		return err
	}

	if resp.status >= 200 && resp.status < 300 {
		recordRequest(op, "ok", time.Since(start).Seconds())
		return nil
	}

	recordRequest(op, "api_error", time.Since(start).Seconds())
	apiErr := &APIError{Message: http.StatusText(resp.status), HTTPStatus: resp.status}
	// Error bodies may still carry the structured envelope; surface its
	// message when present.
	var env envelope
	if json.Unmarshal(resp.body, &env) == nil && len(env.Errors) > 0 {
		apiErr.Code = env.Errors[0].Code
		apiErr.Message = env.Errors[0].Message
	}
	return apiErr
}

// request executes a call and decodes the envelope result into T.
func request[T any](ctx context.Context, c *Client, op, method, path, contentType string, body []byte) (T, error) {
	var out T

	result, err := c.do(ctx, op, method, path, contentType, body)
	if err != nil {
		return out, err
	}

	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return out, nil
	}

	if err := json.Unmarshal(result, &out); err != nil {
		return out, &TransportError{Op: op, Err: fmt.Errorf("decoding result: %w", err)}
	}

	return out, nil
}

func marshalBody(op string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("encoding request: %w", err)}
	}
	return body, nil
}
