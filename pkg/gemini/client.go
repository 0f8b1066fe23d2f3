// Package gemini is the platform adapter for the Google generative-language
// API: one-shot generateContent calls for analysis and speech synthesis,
// and the BidiGenerateContent websocket for live duplex audio.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SmileAfterBurn/social-map-care/pkg/assistant"
	"github.com/SmileAfterBurn/social-map-care/pkg/core"
)

const (
	// DefaultBaseURL is the REST endpoint for generateContent calls.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultLiveURL is the websocket endpoint for live sessions.
	DefaultLiveURL = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"
)

// Client talks to the Gemini API. It holds no conversation state; every
// call is independent.
type Client struct {
	apiKey     string
	baseURL    string
	liveURL    string
	httpClient *http.Client
	cfg        *assistant.Config
	classify   assistant.Classifier
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the REST endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithLiveURL overrides the live websocket endpoint.
func WithLiveURL(url string) Option {
	return func(c *Client) {
		c.liveURL = url
	}
}

// WithHTTPClient sets the HTTP client for REST requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithClassifier replaces the keyword-based diagnostic classifier.
func WithClassifier(classify assistant.Classifier) Option {
	return func(c *Client) {
		c.classify = classify
	}
}

// New creates a Gemini client. A nil cfg uses the default model lineup.
func New(apiKey string, cfg *assistant.Config, opts ...Option) *Client {
	if cfg == nil {
		cfg = assistant.DefaultConfig()
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		liveURL:    DefaultLiveURL,
		httpClient: &http.Client{},
		cfg:        cfg,
		classify:   assistant.KeywordClassifier(cfg.DiagnosticKeywords),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doRequest posts one generateContent call and returns the raw response
// body, or a typed error.
func (c *Client) doRequest(ctx context.Context, model string, req *geminiRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &core.TransportError{Op: http.MethodPost, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, parseError(resp)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return respBody, nil
}

// geminiError is the API's error envelope.
type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// parseError maps an API error response to a typed *core.Error, so callers
// never have to match on message text.
func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr geminiError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return &core.Error{
			Type:    core.ErrProvider,
			Message: string(body),
		}
	}

	var errType core.ErrorType
	switch apiErr.Error.Status {
	case "INVALID_ARGUMENT", "FAILED_PRECONDITION":
		errType = core.ErrInvalidRequest
	case "UNAUTHENTICATED":
		errType = core.ErrAuthentication
	case "PERMISSION_DENIED":
		errType = core.ErrPermission
	case "NOT_FOUND":
		errType = core.ErrNotFound
	case "RESOURCE_EXHAUSTED":
		errType = core.ErrRateLimit
	case "INTERNAL":
		errType = core.ErrAPI
	case "UNAVAILABLE":
		errType = core.ErrOverloaded
	default:
		errType = core.ErrProvider
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		errType = core.ErrRateLimit
	case http.StatusServiceUnavailable:
		errType = core.ErrOverloaded
	case http.StatusUnauthorized, http.StatusForbidden:
		errType = core.ErrAuthentication
	}

	return &core.Error{
		Type:          errType,
		Message:       apiErr.Error.Message,
		Code:          apiErr.Error.Status,
		ProviderError: apiErr.Error,
	}
}
