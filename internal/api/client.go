package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenProvider supplies the current bearer token. Returning "" means the
// request goes out unauthenticated.
type TokenProvider func() string

// AuthError indicates that the backend rejected the bearer token (401).
// The UI reacts by redirecting to the login view.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// ValidationError carries the backend's field-level validation messages
// (400 responses shaped {message, timeStamp, errorList}).
type ValidationError struct {
	Message string   `json:"message"`
	Fields  []string `json:"errorList"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, "; "))
	}
	return e.Message
}

// IsValidationError extracts a ValidationError from err's chain, if present.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// APIError is a non-2xx response that is neither a 401 nor a parseable
// validation failure.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// errorBody is the backend's generic error envelope.
type errorBody struct {
	Message   string   `json:"message"`
	ErrorList []string `json:"errorList"`
}

// Client is a thin HTTP client for the marketplace REST backend. It handles
// Bearer token authentication, JSON marshaling, and automatic retry with
// exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	token      TokenProvider
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a backend client. The baseURL is the root URL of the
// REST backend (e.g. http://localhost:8888); tokens are read per request
// from the provider so login/logout take effect immediately.
func NewClient(baseURL string, timeout time.Duration, token TokenProvider) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: 3,
	}
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post performs an HTTP POST request with a JSON body and unmarshals the
// JSON response.
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// Put performs an HTTP PUT request with a JSON body and unmarshals the
// JSON response.
func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

// Patch performs an HTTP PATCH request with a JSON body and unmarshals the
// JSON response.
func (c *Client) Patch(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, result)
}

// Delete performs an HTTP DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do is the core HTTP method that builds the request, handles auth,
// rate limiting with exponential backoff, and JSON (de)serialization.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Rebuild the body reader on retries since it was consumed.
		if attempt > 0 && body != nil {
			data, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		req.Header.Set("Accept", "application/json")
		// A fresh id per attempt lets the backend correlate retries.
		req.Header.Set("X-Request-Id", uuid.NewString())
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request %s %s: %w", method, path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf("rate limited (429) on %s %s", method, path)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if err := checkStatus(resp.StatusCode, method, path, respBody); err != nil {
			return err
		}

		// No content to parse (e.g. 204).
		if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
		}

		return nil
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// FilePart names a local file to attach to a multipart request.
type FilePart struct {
	// Field is the multipart field name (e.g. "immagini", "avatar").
	Field string

	// Path is the local file path to read.
	Path string
}

// doMultipart sends a multipart/form-data request with an optional JSON
// part and file attachments, then unmarshals the JSON response. The listing
// and avatar endpoints consume this shape.
func (c *Client) doMultipart(
	ctx context.Context,
	method string,
	path string,
	jsonField string,
	jsonValue interface{},
	files []FilePart,
	result interface{},
) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if jsonField != "" {
		data, err := json.Marshal(jsonValue)
		if err != nil {
			return fmt.Errorf("marshaling %s part: %w", jsonField, err)
		}
		if err := mw.WriteField(jsonField, string(data)); err != nil {
			return fmt.Errorf("writing %s part: %w", jsonField, err)
		}
	}

	for _, f := range files {
		src, err := os.Open(f.Path)
		if err != nil {
			return fmt.Errorf("opening upload %s: %w", f.Path, err)
		}
		part, err := mw.CreateFormFile(f.Field, filepath.Base(f.Path))
		if err != nil {
			src.Close()
			return fmt.Errorf("creating form file %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, src); err != nil {
			src.Close()
			return fmt.Errorf("copying upload %s: %w", f.Path, err)
		}
		src.Close()
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalizing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if err := checkStatus(resp.StatusCode, method, path, respBody); err != nil {
		return err
	}

	if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}

// checkStatus converts a non-2xx response into a typed error.
func checkStatus(status int, method, path string, respBody []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	if status == http.StatusUnauthorized {
		return &AuthError{
			Message: fmt.Sprintf("token rejected on %s %s", method, path),
		}
	}

	var eb errorBody
	if json.Unmarshal(respBody, &eb) == nil && eb.Message != "" {
		if status == http.StatusBadRequest && len(eb.ErrorList) > 0 {
			return &ValidationError{Message: eb.Message, Fields: eb.ErrorList}
		}
		return &APIError{Status: status, Message: eb.Message}
	}

	return &APIError{
		Status:  status,
		Message: fmt.Sprintf("unexpected status on %s %s: %s", method, path, string(respBody)),
	}
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
