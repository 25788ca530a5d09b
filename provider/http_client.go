package provider

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClientConfig represents configuration for the connector HTTP client
type HTTPClientConfig struct {
	BaseURL            string
	Timeout            time.Duration
	InsecureSkipVerify bool
	DefaultHeaders     map[string]string
}

// HTTPRequest represents a standardized HTTP request
type HTTPRequest struct {
	Method      string
	Endpoint    string
	Headers     map[string]string
	Body        any
	FormData    map[string]string
	QueryParams map[string]string
}

// HTTPResponse represents a standardized HTTP response
type HTTPResponse struct {
	StatusCode int
	Body       []byte
}

// HTTPStatusError is returned for non-2xx responses
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Body)
}

// ProviderHTTPClient wraps resty for outbound bank and connector calls.
// It never retries.
type ProviderHTTPClient struct {
	config *HTTPClientConfig
	client *resty.Client
}

// NewProviderHTTPClient creates a new provider HTTP client
func NewProviderHTTPClient(config *HTTPClientConfig) *ProviderHTTPClient {
	if config.Timeout == 0 {
		config.Timeout = DefaultBankTimeout
	}

	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetRetryCount(0).
		SetHeaders(config.DefaultHeaders)
	if config.InsecureSkipVerify {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	return &ProviderHTTPClient{
		config: config,
		client: client,
	}
}

// SendJSON sends a JSON request and returns the response
func (c *ProviderHTTPClient) SendJSON(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error) {
	r := c.request(ctx, req).SetHeader("Content-Type", "application/json")
	if req.Body != nil {
		r.SetBody(req.Body)
	}
	return c.do(r, req)
}

// SendForm sends a form-encoded request and returns the response
func (c *ProviderHTTPClient) SendForm(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error) {
	r := c.request(ctx, req).SetFormData(req.FormData)
	return c.do(r, req)
}

func (c *ProviderHTTPClient) request(ctx context.Context, req *HTTPRequest) *resty.Request {
	return c.client.R().
		SetContext(ctx).
		SetHeaders(req.Headers).
		SetQueryParams(req.QueryParams)
}

func (c *ProviderHTTPClient) do(r *resty.Request, req *HTTPRequest) (*HTTPResponse, error) {
	method := req.Method
	if method == "" {
		method = resty.MethodPost
	}

	resp, err := r.Execute(method, req.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	response := &HTTPResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}
	if resp.IsError() {
		return response, &HTTPStatusError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	return response, nil
}

// ParseJSONResponse parses the response body as JSON into target
func (c *ProviderHTTPClient) ParseJSONResponse(response *HTTPResponse, target any) error {
	return json.Unmarshal(response.Body, target)
}

// CreateHTTPClientConfig creates a standard HTTP client configuration
func CreateHTTPClientConfig(baseURL string, isProduction bool, timeout time.Duration) *HTTPClientConfig {
	if timeout == 0 {
		timeout = DefaultBankTimeout
	}

	return &HTTPClientConfig{
		BaseURL:            baseURL,
		Timeout:            timeout,
		InsecureSkipVerify: !isProduction,
		DefaultHeaders: map[string]string{
			"Accept":     "application/json",
			"User-Agent": "GoPOS/1.0",
		},
	}
}
