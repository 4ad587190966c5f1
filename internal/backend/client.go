package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the remote commerce backend, the authoritative store for
// products, transportation rates and orders. The service bearer token lives
// here and only here; it is never handed to anything client-facing. Admin
// calls override it per request with the token captured at login.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

const readTimeout = 10 * time.Second

// ErrTimeout marks a read that was aborted after the blanket read timeout.
// Writes are never cancelled once issued.
var ErrTimeout = errors.New("request timed out, please try again")

// MultipartPayload is a prepared multipart form body with its boundary
// content type, built by the admin form mapper.
type MultipartPayload struct {
	Body        io.Reader
	ContentType string
}

// APIError is a backend-rejected response (4xx/5xx) with the extracted
// message, shown to the user verbatim when the body was parseable.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// New constructs a Client. The token is the service-level bearer used for
// storefront reads; admin mutations pass a session token instead.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

type requestOpts struct {
	method      string
	path        string
	query       url.Values
	body        any // JSON-encoded when non-nil and rawBody is nil
	rawBody     io.Reader
	contentType string
	token       string // overrides the service token when set
	read        bool   // read operations carry the blanket timeout
}

func (c *Client) do(ctx context.Context, opts requestOpts) ([]byte, error) {
	target := c.baseURL + "/" + strings.TrimLeft(opts.path, "/")
	if len(opts.query) > 0 {
		target += "?" + opts.query.Encode()
	}

	var bodyReader io.Reader
	contentType := opts.contentType
	switch {
	case opts.rawBody != nil:
		bodyReader = opts.rawBody
	case opts.body != nil:
		payload, err := json.Marshal(opts.body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
		if contentType == "" {
			contentType = "application/json"
		}
	}

	if opts.read {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, readTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, opts.method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token := opts.token
	if token == "" {
		token = c.token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: extractMessage(respBody, resp.StatusCode),
		}
	}

	return respBody, nil
}

// extractMessage pulls the backend's error message out of a failure body.
// The backend sends either a plain string message or an {en, ar} pair; an
// unparseable body falls back to a generic message.
func extractMessage(body []byte, status int) string {
	var envelope struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if len(envelope.Message) > 0 {
			var plain string
			if json.Unmarshal(envelope.Message, &plain) == nil && plain != "" {
				return plain
			}
			var localized map[string]string
			if json.Unmarshal(envelope.Message, &localized) == nil {
				if msg := localized["en"]; msg != "" {
					return msg
				}
			}
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" && !strings.HasPrefix(trimmed, "<") {
		return trimmed
	}
	return fmt.Sprintf("Request failed (HTTP %d)", status)
}
