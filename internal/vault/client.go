// Package vault provides clients and utilities for interacting with HashiCorp Vault.
package vault

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
)

// Client wraps the Vault API client for agentview-specific operations.
type Client struct {
	client *api.Client
}

// Config holds Vault client configuration.
type Config struct {
	Address string
	Token   string
}

const (
	// Retry configuration for Vault requests
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 2 * time.Second
	backoffFactor  = 2.0
)

// NewClient creates a new Vault client wrapper.
func NewClient(config *Config) (*Client, error) {
	vaultConfig := api.DefaultConfig()
	vaultConfig.Address = config.Address

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	if config.Token != "" {
		client.SetToken(config.Token)
	} else if token := os.Getenv("VAULT_TOKEN"); token != "" {
		client.SetToken(token)
	}

	return &Client{
		client: client,
	}, nil
}

// SetToken sets the token for the client. Wired to the config reloader so a
// rotated vault-agent token takes effect without a restart.
func (c *Client) SetToken(token string) {
	c.client.SetToken(token)
}

// retryWithBackoff executes an operation with exponential backoff retry logic.
// It retries transient errors up to maxRetries times with exponentially increasing delays.
func retryWithBackoff[T any](ctx context.Context, operation string, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}

		if !isRetryableError(lastErr) {
			return result, lastErr
		}

		// Don't sleep after the last attempt
		if attempt == maxRetries {
			break
		}

		backoff := time.Duration(float64(initialBackoff) * math.Pow(backoffFactor, float64(attempt)))
		if backoff > maxBackoff {
			backoff = maxBackoff
		}

		slog.Warn("Vault operation failed, retrying",
			"operation", operation,
			"attempt", attempt+1,
			"max_attempts", maxRetries+1,
			"backoff", backoff,
			"error", lastErr)

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return result, fmt.Errorf("vault operation %s failed after %d attempts: %w", operation, maxRetries+1, lastErr)
}

// isRetryableError determines if a Vault error should trigger a retry.
// Retries transient network errors and server errors, but not auth/permission errors.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if respErr, ok := err.(*api.ResponseError); ok {
		// Retry on 5xx server errors and 429 rate limiting
		statusCode := respErr.StatusCode
		return statusCode == 429 || (statusCode >= 500 && statusCode < 600)
	}

	// The Vault Go client wraps network errors in various ways, so we check
	// the error message
	errMsg := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"temporary failure",
		"no such host",
		"i/o timeout",
		"tls handshake timeout",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}
