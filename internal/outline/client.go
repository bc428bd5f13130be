// Package outline is a typed client for the Outline HTTP API. All endpoints
// are POST-only RPC calls under /api returning a {"data": ...} envelope; file
// bytes are delivered separately to a presigned destination without the
// bearer credential.
package outline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/takak2166/docmost2outline/internal/logger"
)

const (
	apiTimeout    = 30 * time.Second
	uploadTimeout = 60 * time.Second
)

// APIError is returned for any non-2xx API response.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string

	retryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("outline API %s returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// RateLimited reports whether the response was an HTTP 429.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// Client wraps the Outline API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	uploads *http.Client
	retry   RetryPolicy
}

// Option customizes a Client.
type Option func(*Client)

// WithRetryPolicy overrides the rate-limit retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates an Outline client for the given instance URL and API key.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: apiTimeout},
		uploads: &http.Client{Timeout: uploadTimeout},
		retry:   DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured instance URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TestConnection probes auth.info and returns the authenticated identity.
func (c *Client) TestConnection(ctx context.Context) (*AuthInfo, error) {
	var info AuthInfo
	if err := c.post(ctx, "/auth.info", struct{}{}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CreateCollection creates a new collection.
func (c *Client) CreateCollection(ctx context.Context, name, description, color string) (*Collection, error) {
	payload := map[string]interface{}{"name": name}
	if description != "" {
		payload["description"] = description
	}
	if color != "" {
		payload["color"] = color
	}

	var collection Collection
	if err := c.post(ctx, "/collections.create", payload, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

// GetCollection fetches a collection by ID.
func (c *Client) GetCollection(ctx context.Context, id string) (*Collection, error) {
	var collection Collection
	if err := c.post(ctx, "/collections.info", map[string]string{"id": id}, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

// CreateDocument creates a document, retrying on rate limits per the
// configured policy.
func (c *Client) CreateDocument(ctx context.Context, req CreateDocumentRequest) (*Document, error) {
	var doc Document
	if err := c.postWithRetry(ctx, "/documents.create", req, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument deletes a document, permanently when permanent is true.
func (c *Client) DeleteDocument(ctx context.Context, id string, permanent bool) error {
	payload := map[string]interface{}{"id": id}
	if permanent {
		payload["permanent"] = true
	}
	return c.post(ctx, "/documents.delete", payload, nil)
}

// DeleteCollection deletes a collection and every document in it.
func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	return c.post(ctx, "/collections.delete", map[string]string{"id": id}, nil)
}

// CreateAttachment creates an attachment record and returns the presigned
// upload destination, retrying on rate limits per the configured policy.
func (c *Client) CreateAttachment(ctx context.Context, name, contentType string, size int64) (*AttachmentUpload, error) {
	payload := map[string]interface{}{
		"name":        name,
		"contentType": contentType,
		"size":        size,
		"preset":      "documentAttachment",
	}

	var upload AttachmentUpload
	if err := c.postWithRetry(ctx, "/attachments.create", payload, &upload); err != nil {
		return nil, err
	}
	return &upload, nil
}

// UploadToStorage delivers file bytes to a presigned destination as a
// multipart form. The destination is pre-signed, so no Authorization header
// is attached.
func (c *Client) UploadToStorage(ctx context.Context, uploadURL string, form map[string]string, fileName, contentType string, body io.Reader) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range form {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(fileName)))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return fmt.Errorf("failed to buffer file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.uploads.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Endpoint: uploadURL, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}

// post performs a single RPC call without retries. Non-2xx responses come
// back as *APIError.
func (c *Client) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload for %s: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api"+endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
			retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s data: %w", endpoint, err)
	}
	return nil
}

// postWithRetry wraps post with the rate-limit retry policy: 429 responses
// are retried after the advertised Retry-After wait, everything else fails
// immediately.
func (c *Client) postWithRetry(ctx context.Context, endpoint string, payload, out interface{}) error {
	bo := &retryAfterBackOff{defaultWait: c.retry.DefaultWait}

	operation := func() error {
		err := c.post(ctx, endpoint, payload, out)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.RateLimited() {
			bo.next = apiErr.retryAfter
			return err
		}
		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("Rate limited, backing off", map[string]interface{}{
			"endpoint": endpoint,
			"wait":     wait.String(),
		})
	}

	maxRetries := uint64(0)
	if c.retry.MaxAttempts > 1 {
		maxRetries = uint64(c.retry.MaxAttempts - 1)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx)

	return backoff.RetryNotifyWithTimer(operation, policy, notify, c.retry.Timer)
}

// parseRetryAfter interprets a Retry-After header value as (possibly
// fractional) seconds. Zero means "not specified".
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
