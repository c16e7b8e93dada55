package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/modelget/model-installer/internal/logging"
	"github.com/modelget/model-installer/internal/model"
)

// Client timeouts and retry bounds
const (
	DefaultTimeout = 30 * time.Second

	// GETs (status, health, expected_size) are idempotent polls and may be
	// retried at the transport layer. POSTs are never retried here: the
	// only automatic POST retry in the system is the single
	// post-authentication one, owned by the auth flow.
	GetRetryMax     = 2
	GetRetryWaitMin = 500 * time.Millisecond
	GetRetryWaitMax = 2 * time.Second

	maxErrorBodyBytes = 64 * 1024
)

// retryLogger adapts our logger to the retryablehttp.LeveledLogger interface
type retryLogger struct {
	log *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Msgf("%s %v", msg, keysAndValues)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Msgf("%s %v", msg, keysAndValues)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{})  {}
func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {}

// Client talks to the model installer backend over its JSON contract
type Client struct {
	baseURL string
	log     *logging.Logger

	// getClient retries transient failures on idempotent polls;
	// postClient performs exactly one attempt per call.
	getClient  *nethttp.Client
	postClient *nethttp.Client
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, log *logging.Logger) (*Client, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("server base URL is empty")
	}
	if log == nil {
		log = logging.Nop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = GetRetryMax
	retryClient.RetryWaitMin = GetRetryWaitMin
	retryClient.RetryWaitMax = GetRetryWaitMax
	retryClient.HTTPClient.Timeout = DefaultTimeout
	retryClient.Logger = &retryLogger{log: log}

	return &Client{
		baseURL:    baseURL,
		log:        log,
		getClient:  retryClient.StandardClient(),
		postClient: &nethttp.Client{Timeout: DefaultTimeout},
	}, nil
}

// Health checks whether the installer feature is available on the backend
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.getJSON(ctx, "/model_installer/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status queries the remote installation state for one item. The query is
// keyed by directory+filename when both are known, by URL otherwise.
func (c *Client) Status(ctx context.Context, id model.Identity) (*StatusResponse, error) {
	q := url.Values{}
	if id.Resolved() {
		q.Set("directory", id.Directory)
		q.Set("filename", id.Filename)
	} else {
		q.Set("url", id.URL)
	}
	var out StatusResponse
	if err := c.getJSON(ctx, "/models/status", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExpectedSize looks up the expected byte count for a download URL.
// Best-effort: any failure maps to zero (unknown), never to an error.
func (c *Client) ExpectedSize(ctx context.Context, rawURL string) int64 {
	q := url.Values{}
	q.Set("url", rawURL)
	var out ExpectedSizeResponse
	if err := c.getJSON(ctx, "/models/expected_size", q, &out); err != nil {
		c.log.Debug().Err(err).Str("url", rawURL).Msg("expected_size lookup failed")
		return 0
	}
	if out.Expected < 0 {
		return 0
	}
	return out.Expected
}

// Install asks the backend to download a model file
func (c *Client) Install(ctx context.Context, req InstallRequest) (*InstallResponse, error) {
	var out InstallResponse
	if err := c.postJSON(ctx, "/models/install", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Uninstall asks the backend to remove an installed model file
func (c *Client) Uninstall(ctx context.Context, req UninstallRequest) (*UninstallResponse, error) {
	var out UninstallResponse
	if err := c.postJSON(ctx, "/models/uninstall", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HFLogin exchanges a Hugging Face token with the backend. The client holds
// no credential state after the call returns.
func (c *Client) HFLogin(ctx context.Context, token string) error {
	var out LoginResponse
	return c.postJSON(ctx, "/auth/hf_login", LoginRequest{Token: token}, &out)
}

// HFAuthStatus reports whether the backend already holds a Hugging Face token
func (c *Client) HFAuthStatus(ctx context.Context) (bool, error) {
	var out AuthStatusResponse
	if err := c.getJSON(ctx, "/auth/hf_status", nil, &out); err != nil {
		return false, err
	}
	return out.Authenticated, nil
}

// getJSON performs a GET with transport-level retries for transient failures
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.getClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return decodeResponse(resp, out)
}

// postJSON performs a single-attempt POST with a JSON body
func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.postClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return decodeResponse(resp, out)
}

// decodeResponse maps a non-2xx status to *Error and decodes a 2xx body
// into out
func decodeResponse(resp *nethttp.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newServerError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// newServerError builds an *Error from a failure payload, tolerating
// non-JSON bodies
func newServerError(resp *nethttp.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return apiErr
	}
	var body errorBody
	if json.Unmarshal(data, &body) == nil {
		apiErr.Code = body.ErrorCode
		if body.Message != "" {
			apiErr.Message = body.Message
		} else {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
