package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultTimeoutSeconds = 30

const actionPath = "/action"

// TransportError is returned when the executor answers with a non-2xx status
// or the response body cannot be read or decoded.
type TransportError struct {
	StatusCode int
	Status     string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("executor request failed: %s", e.Status)
}

type response struct {
	Response string `json:"response"`
}

// Client posts action payloads to the external executor endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an executor client for the given base URL
// (e.g. http://127.0.0.1:8000).
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeoutSeconds * time.Second,
		},
		logger: logger.With("module", "executor"),
	}
}

// Execute posts the payload and returns the executor's response text. A
// non-2xx status yields a TransportError; interpreting the text as success
// or failure is the caller's concern (see IsFailure).
func (c *Client) Execute(ctx context.Context, payload Payload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+actionPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")

	c.logger.DebugContext(ctx, "Dispatching action to executor", "action", payload.Action)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executor request failed: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WarnContext(ctx, "Failed to close executor response body", "error", err)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &TransportError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read executor response: %w", err)
	}

	var parsed response
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode executor response: %w", err)
	}

	return parsed.Response, nil
}
