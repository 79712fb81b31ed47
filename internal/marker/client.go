// Package marker calls the Datalab Marker API: submit a PDF, poll the
// check URL until extraction completes, return the nested block
// structure. The service never interprets the blocks itself; decoding is
// the block package's job.
package marker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

const DefaultURL = "https://www.datalab.to/api/v1/marker"

// Client talks to the Marker extraction API.
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
	maxPolls     int
}

func NewClient(baseURL, apiKey string, pollInterval time.Duration, maxPolls int) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if maxPolls <= 0 {
		maxPolls = 300
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		pollInterval: pollInterval,
		maxPolls:     maxPolls,
	}
}

// SubmitOptions mirror the Marker form fields.
type SubmitOptions struct {
	Langs                  string
	ForceOCR               bool
	Paginate               bool
	UseLLM                 bool
	StripExistingOCR       bool
	DisableImageExtraction bool
}

// DefaultSubmitOptions match the upstream defaults the viewer relies on;
// pagination must stay on or page blocks lose their explicit numbers.
func DefaultSubmitOptions() SubmitOptions {
	return SubmitOptions{
		Langs:    "English",
		Paginate: true,
	}
}

// Result is the completed extraction payload, also the shape stored in
// the result cache.
type Result struct {
	Success bool              `json:"success"`
	Blocks  json.RawMessage   `json:"blocks"`
	Images  map[string]string `json:"images"`
}

type submitResponse struct {
	Success         bool   `json:"success"`
	Error           string `json:"error"`
	RequestID       string `json:"request_id"`
	RequestCheckURL string `json:"request_check_url"`
}

type checkResponse struct {
	Status  string            `json:"status"`
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	JSON    json.RawMessage   `json:"json"`
	Images  map[string]string `json:"images"`
}

// Process submits the PDF and polls until extraction completes or the
// poll budget runs out.
func (c *Client) Process(ctx context.Context, filename string, data []byte, opts SubmitOptions) (*Result, error) {
	checkURL, err := c.Submit(ctx, filename, data, opts)
	if err != nil {
		return nil, err
	}
	return c.Poll(ctx, checkURL)
}

// Submit sends the PDF and returns the URL to poll for the result.
func (c *Client) Submit(ctx context.Context, filename string, data []byte, opts SubmitOptions) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}

	fields := map[string]string{
		"langs":                    opts.Langs,
		"force_ocr":                strconv.FormatBool(opts.ForceOCR),
		"paginate":                 strconv.FormatBool(opts.Paginate),
		"output_format":            "json",
		"use_llm":                  strconv.FormatBool(opts.UseLLM),
		"strip_existing_ocr":       strconv.FormatBool(opts.StripExistingOCR),
		"disable_image_extraction": strconv.FormatBool(opts.DisableImageExtraction),
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return "", fmt.Errorf("write form field %s: %w", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("marker submit: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read submit response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("marker submit status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var sr submitResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if !sr.Success {
		return "", fmt.Errorf("marker submit rejected: %s", sr.Error)
	}
	if sr.RequestCheckURL == "" {
		return "", fmt.Errorf("marker submit returned no check url")
	}
	return sr.RequestCheckURL, nil
}

// Poll queries the check URL until the extraction completes. Each poll
// waits pollInterval first, matching the upstream protocol.
func (c *Client) Poll(ctx context.Context, checkURL string) (*Result, error) {
	for range c.maxPolls {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		cr, err := c.check(ctx, checkURL)
		if err != nil {
			return nil, err
		}
		if cr.Status != "complete" {
			continue
		}
		if !cr.Success {
			return nil, fmt.Errorf("marker processing failed: %s", cr.Error)
		}
		return &Result{Success: true, Blocks: cr.JSON, Images: cr.Images}, nil
	}
	return nil, fmt.Errorf("marker processing timed out after %d polls", c.maxPolls)
}

func (c *Client) check(ctx context.Context, checkURL string) (*checkResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("marker poll: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, fmt.Errorf("read poll response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{StatusCode: resp.StatusCode, Message: truncate(string(respBody), 200)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("marker poll status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var cr checkResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return nil, fmt.Errorf("decode poll response: %w", err)
	}
	return &cr, nil
}

// RetryableError indicates a transient upstream failure worth retrying.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
