// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package chai

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the CHAI API.
const (
	// DefaultBaseURL is the default endpoint for the chat service.
	DefaultBaseURL = "https://guanaco-submitter.chai-research.com/endpoints/onsite/chat"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of attempts for transient errors.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize caps the response body read to keep a misbehaving
	// server from exhausting memory.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// sharedHTTPClient is used by all CHAI clients. Connection pooling
// avoids repeated TCP/TLS handshakes across turns.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// Error variables for common client failures.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("CHAI API key not configured")

	// ErrAuthFailed indicates authentication was rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates the service rejected the request shape.
	ErrBadRequest = errors.New("malformed request")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmptyPrompt indicates there was no user message to send.
	ErrEmptyPrompt = errors.New("empty prompt")
)

// APIError represents an error response from the CHAI service.
type APIError struct {
	Message string
	Status  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("CHAI error (HTTP %d): %s", e.Status, e.Message)
}

// HistoryEntry is a single turn in the wire-format chat history.
type HistoryEntry struct {
	Sender  string `json:"sender"`  // bot name or user name
	Message string `json:"message"` // raw message text
}

// ChatRequest is the request body for the chat endpoint.
type ChatRequest struct {
	Memory      string         `json:"memory"`
	Prompt      string         `json:"prompt"`
	BotName     string         `json:"bot_name"`
	UserName    string         `json:"user_name"`
	ChatHistory []HistoryEntry `json:"chat_history"`
}

// chatResponse is the JSON shape of a successful reply. The service
// sometimes returns the reply as a bare string body instead, which the
// client handles as a fallback.
type chatResponse struct {
	ModelOutput string `json:"model_output"`
}

// Client is a client for the CHAI chat endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	botName    string
	userName   string
	memory     string
	maxRetries int
	timeout    time.Duration
	limiter    *rate.Limiter

	// backoffBase is retryBaseDelay in production; tests shrink it.
	backoffBase time.Duration
}

// NewClient creates a client with the given API key. An empty key is
// allowed; Send then fails with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		botName:    "CHAI Friend",
		userName:   "You",
		maxRetries: DefaultMaxRetries,
		timeout:    DefaultTimeout,
		// One request per second sustained, short bursts allowed.
		limiter:     rate.NewLimiter(rate.Every(time.Second), 3),
		backoffBase: retryBaseDelay,
	}
}

// WithBaseURL sets a custom endpoint URL.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// WithMaxRetries sets the maximum number of attempts for transient
// failures.
func (c *Client) WithMaxRetries(maxRetries int) *Client {
	c.maxRetries = maxRetries
	return c
}

// WithPersona sets the bot and user display names used on the wire.
func (c *Client) WithPersona(botName, userName string) *Client {
	if botName != "" {
		c.botName = botName
	}
	if userName != "" {
		c.userName = userName
	}
	return c
}

// WithMemory sets the persona memory string sent with every request.
func (c *Client) WithMemory(memory string) *Client {
	c.memory = memory
	return c
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// BotName returns the configured companion name.
func (c *Client) BotName() string {
	return c.botName
}

// UserName returns the configured user name.
func (c *Client) UserName() string {
	return c.userName
}

// Send submits the conversation history and returns the outcome of the
// turn. The last entry of history must be the pending user message.
//
// Transient failures (timeouts, connection errors, 429, 5xx) are
// retried with exponential backoff up to the configured attempt bound,
// then surfaced as TransientFailure. Non-retryable failures (auth
// rejection, malformed request) surface immediately as FatalFailure.
// The retry loop is an explicit attempt counter so the bound stays
// visible.
func (c *Client) Send(ctx context.Context, history []HistoryEntry) Outcome {
	if !c.IsConfigured() {
		return FatalFailure(ErrNotConfigured)
	}
	if len(history) == 0 {
		return FatalFailure(ErrEmptyPrompt)
	}

	prompt := history[len(history)-1].Message
	reqBody := ChatRequest{
		Memory:      c.memory,
		Prompt:      prompt,
		BotName:     c.botName,
		UserName:    c.userName,
		ChatHistory: history,
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return TransientFailure(err)
	}

	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		// Apply backoff delay after first attempt
		if attempt > 0 {
			delay := c.calculateBackoff(attempt)
			select {
			case <-ctx.Done():
				return TransientFailure(ctx.Err())
			case <-time.After(delay):
			}
		}

		text, err := c.doRequest(ctx, reqBody)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return TransientFailure(err)
			}
			if c.isRetryable(err) {
				lastErr = err
				continue
			}
			return FatalFailure(err)
		}

		return Success(text)
	}

	if lastErr == nil {
		lastErr = errors.New("max retries exceeded")
	} else {
		lastErr = fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	return TransientFailure(lastErr)
}

// doRequest performs a single HTTP request to the chat endpoint.
func (c *Client) doRequest(ctx context.Context, reqBody ChatRequest) (string, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := sharedHTTPClient.Do(req)

	// Drop the auth header right away so a logged request never
	// carries the key.
	req.Header.Del("Authorization")

	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.handleErrorResponse(resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err == nil && chatResp.ModelOutput != "" {
		return strings.TrimSpace(chatResp.ModelOutput), nil
	}

	// Some deployments return the reply as a plain text body.
	return strings.TrimSpace(string(body)), nil
}

// setHeaders sets the required headers for CHAI API requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "chai/0.1.0")
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts HTTP error responses to typed errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	msg := strings.TrimSpace(string(body))

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrAuthFailed, msg)
		}
		return ErrAuthFailed
	case http.StatusBadRequest, http.StatusNotFound:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrBadRequest, msg)
		}
		return ErrBadRequest
	case http.StatusTooManyRequests:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrRateLimited, msg)
		}
		return ErrRateLimited
	default:
		return &APIError{Message: msg, Status: statusCode}
	}
}

// isRetryable determines if an error should trigger a retry.
func (c *Client) isRetryable(err error) bool {
	// Caller cancellation is never retried. Per-request deadline
	// expiry is a timeout and stays retryable; the retry loop checks
	// the outer context between attempts.
	if errors.Is(err, context.Canceled) {
		return false
	}

	if IsTransient(err) {
		return true
	}

	// Remaining transport-level failures (connection refused, DNS).
	return strings.Contains(err.Error(), "request failed")
}

// calculateBackoff returns the delay before the next retry.
// Exponential: 500ms, 1s, 2s, ... capped at retryMaxDelay.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	delay := c.backoffBase * time.Duration(1<<uint(attempt))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
