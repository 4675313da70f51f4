package generate

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

	"relay/model"
)

// Generator sends a prompt to a text model and returns the raw response body.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// GeminiClient calls the generateContent endpoint. The API key travels as a
// query parameter, so the full URL must never be logged.
type GeminiClient struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
	maxBody int64
}

// maxResponseBytes caps how much of a generation response is read.
const maxResponseBytes = 8 << 20

func NewGeminiClient(baseURL, model, apiKey string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		maxBody: maxResponseBytes,
	}
}

// Endpoint is the request URL without the key, safe for logs.
func (c *GeminiClient) Endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	payload, err := json.Marshal(model.NewGeminiPayload(prompt))
	if err != nil {
		return nil, err
	}

	target := c.Endpoint() + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build gemini request: %w", redact(err, c.apiKey))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// *url.Error embeds the request URL, key included.
		return nil, fmt.Errorf("gemini unreachable: %w", redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read gemini response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("gemini response exceeds %d bytes", c.maxBody)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}
	return body, nil
}

type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.cause }

func redact(err error, secret string) error {
	if secret == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(secret), "REDACTED")
	msg = strings.ReplaceAll(msg, secret, "REDACTED")
	return &redactedError{msg: msg, cause: err}
}
