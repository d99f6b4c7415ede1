// Package redactor is the HTTP client for the external redaction/LLM
// service. It sends a rendered conversation transcript and returns the
// processed reply text.
package redactor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"hipaai-chat-be/internal/apperror"
)

const defaultTimeout = 30 * time.Second

// Redactor is the outbound dependency the chat service talks to.
type Redactor interface {
	Redact(ctx context.Context, apiKey string, text string) (string, error)
}

// RedactRequest is the request payload for the redaction API
type RedactRequest struct {
	Text string `json:"text"`
}

// RedactResponse is the success payload; failure bodies carry Error or Detail
type RedactResponse struct {
	Text   string `json:"text"`
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Redact posts the transcript to the upstream service and returns the reply
// text. Transport failures, non-2xx statuses and malformed bodies are all
// classified into apperror kinds so the boundary can map them once.
func (c *Client) Redact(ctx context.Context, apiKey string, text string) (string, error) {
	payload := RedactRequest{Text: text}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", apperror.Internal("Failed to build upstream request.", fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(payloadJSON))
	if err != nil {
		return "", apperror.Internal("Failed to build upstream request.", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", apperror.UpstreamTimeout(err)
		}
		return "", apperror.Upstream(0, "Failed to communicate with the redaction service.",
			fmt.Errorf("redactor request failed: %w", err))
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", apperror.Upstream(0, "Failed to read the redaction service response.",
			fmt.Errorf("read response: %w", err))
	}

	var redactRes RedactResponse
	parseErr := json.Unmarshal(resBody, &redactRes)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		message := "The redaction service reported an error."
		if parseErr == nil {
			if redactRes.Error != "" {
				message = redactRes.Error
			} else if redactRes.Detail != "" {
				message = redactRes.Detail
			}
		}
		return "", apperror.Upstream(res.StatusCode, message,
			fmt.Errorf("redactor error: status %d, body: %s", res.StatusCode, string(resBody)))
	}

	if parseErr != nil {
		return "", apperror.Upstream(0, "The redaction service returned an unreadable response.",
			fmt.Errorf("unmarshal response: %w", parseErr))
	}
	if redactRes.Text == "" {
		return "", apperror.Upstream(0, "The redaction service returned an empty response.",
			fmt.Errorf("redactor response missing text field, body: %s", string(resBody)))
	}

	return redactRes.Text, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
