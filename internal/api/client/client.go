package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"hvac-dashboard/internal/auth"
	"hvac-dashboard/internal/common"
	"hvac-dashboard/internal/sensors"
)

// Client is the single shared client for the upstream building-management
// API. Its base URL is repointed whenever the active tenant changes.
type Client struct {
	httpClient  *http.Client
	retryCount  int
	retryDelay  time.Duration
	loginPath   string
	sensorsPath string

	mu          sync.RWMutex
	baseURL     string
	accessToken string
}

// ClientConfig holds client configuration
type ClientConfig struct {
	BaseURL     string
	Timeout     time.Duration
	RetryCount  int
	RetryDelay  time.Duration
	LoginPath   string
	SensorsPath string
}

// DefaultClientConfig returns default client configuration
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:     "http://localhost:8000/api",
		Timeout:     common.DefaultTimeout,
		RetryCount:  2,
		RetryDelay:  time.Second,
		LoginPath:   "/auth/login/",
		SensorsPath: "/sensors/status/",
	}
}

// NewClient creates a new upstream API client
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	defaults := DefaultClientConfig()
	if config.LoginPath == "" {
		config.LoginPath = defaults.LoginPath
	}
	if config.SensorsPath == "" {
		config.SensorsPath = defaults.SensorsPath
	}

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		retryCount:  config.RetryCount,
		retryDelay:  config.RetryDelay,
		loginPath:   config.LoginPath,
		sensorsPath: config.SensorsPath,
	}
}

// BaseURL returns the origin every request is currently sent to
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL repoints all following requests at baseURL
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	c.mu.Unlock()
}

// SetAccessToken sets the bearer token sent with every request; an empty
// token removes the header.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

// Login exchanges credentials for session tokens
func (c *Client) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	var response auth.LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, c.loginPath, req, &response); err != nil {
		return nil, err
	}
	if response.Access == "" {
		return nil, common.NewError(common.ErrUpstream, "login response carries no access token")
	}
	return &response, nil
}

// ListSensorStatus fetches the status of every sensor visible to the
// active tenant
func (c *Client) ListSensorStatus(ctx context.Context) ([]sensors.Record, error) {
	var response SensorStatusResponse
	if err := c.doRequest(ctx, http.MethodGet, c.sensorsPath, nil, &response); err != nil {
		return nil, err
	}
	return response.Results, nil
}

// doRequest performs an HTTP request, retrying transport failures only
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var lastErr error

	for i := 0; i <= c.retryCount; i++ {
		req, err := c.createRequest(ctx, method, path, body)
		if err != nil {
			return common.NewErrorWithCause(common.ErrInternal, "failed to create request", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if i < c.retryCount {
				select {
				case <-time.After(time.Duration(i+1) * c.retryDelay):
					continue
				case <-ctx.Done():
					lastErr = ctx.Err()
				}
			}
			break
		}

		return c.handleResponse(resp, req.URL.String(), result)
	}

	return common.NewErrorWithCause(common.ErrNetworkFailure,
		fmt.Sprintf("%s %s failed after %d retries", method, path, c.retryCount), lastErr)
}

func (c *Client) handleResponse(resp *http.Response, url string, result interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if result != nil {
			if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
				return common.NewErrorWithCause(common.ErrUpstream, "failed to decode response", err).WithContext("url", url)
			}
		}
		return nil
	}

	code := common.ErrUpstream
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		code = common.ErrUnauthorized
	}

	var errorResp ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err := json.Unmarshal(data, &errorResp); err != nil || errorResp.message() == "" {
		return common.NewError(code, fmt.Sprintf("request failed with status %d", resp.StatusCode)).
			WithContext("status", resp.StatusCode).WithContext("url", url)
	}

	return common.NewError(code, errorResp.message()).
		WithContext("status", resp.StatusCode).WithContext("url", url)
}

// createRequest creates an HTTP request against the current base URL
func (c *Client) createRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	c.mu.RLock()
	url := c.baseURL + path
	token := c.accessToken
	c.mu.RUnlock()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hvac-dashboard/1.0")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// SensorStatusResponse is the upstream sensor status listing
type SensorStatusResponse struct {
	Count   int              `json:"count"`
	Results []sensors.Record `json:"results"`
}

// ErrorResponse is the upstream error body; Django-style APIs use detail
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (e ErrorResponse) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Detail
}
