// Package api is the HTTP client for the PostPilot content API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "https://postpilotai-be-production.up.railway.app"

const fallbackMessage = "Request failed"

// Query holds optional query parameters. Nil and empty-string values are dropped.
type Query map[string]any

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client issues JSON requests against the API base URL.
type Client struct {
	baseURL string
	http    *resty.Client
	logger  *zap.Logger
}

// New creates a Client. The base URL is resolved once here.
func New(opts Options) *Client {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimSuffix(base, "/")

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	hc := resty.New().
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		hc.SetTimeout(opts.Timeout)
	}

	return &Client{baseURL: base, http: hc, logger: logger}
}

// BaseURL returns the resolved base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// BuildURL joins base and path with exactly one slash and appends the
// non-empty query values.
func BuildURL(base, path string, query Query) (string, error) {
	normalizedPath := "/" + strings.TrimLeft(path, "/")
	u, err := url.Parse(base + normalizedPath)
	if err != nil {
		return "", fmt.Errorf("build url: %w", err)
	}
	if len(query) > 0 {
		values := u.Query()
		for key, value := range query {
			if s, ok := queryValue(value); ok {
				values.Set(key, s)
			}
		}
		u.RawQuery = values.Encode()
	}
	return u.String(), nil
}

func queryValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case *string:
		if val == nil || *val == "" {
			return "", false
		}
		return *val, true
	case *int:
		if val == nil {
			return "", false
		}
		return strconv.Itoa(*val), true
	default:
		return fmt.Sprint(val), true
	}
}

// Do sends one request and decodes the JSON response into T.
// Failures are returned as *APIError.
func Do[T any](ctx context.Context, c *Client, method, path string, body any, query Query) (T, error) {
	var out T

	target, err := BuildURL(c.baseURL, path, query)
	if err != nil {
		return out, &APIError{Message: err.Error(), cause: err}
	}

	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, target)
	if err != nil {
		c.logger.Warn("api request failed",
			zap.String("method", method),
			zap.String("url", target),
			zap.Error(err))
		return out, &APIError{Message: fmt.Sprintf("network error: %v", err), Details: err, cause: err}
	}
	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("took", time.Since(start)))

	isJSON := strings.Contains(strings.ToLower(resp.Header().Get("Content-Type")), "application/json")
	raw := resp.Body()

	if !resp.IsSuccess() {
		return out, errorFromResponse(resp.StatusCode(), resp.Status(), isJSON, raw)
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		return out, nil
	}
	if !isJSON {
		return out, &APIError{
			Status:  resp.StatusCode(),
			Message: fmt.Sprintf("unexpected content type %q", resp.Header().Get("Content-Type")),
			Details: string(raw),
		}
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &APIError{
			Status:  resp.StatusCode(),
			Message: fmt.Sprintf("decode response: %v", err),
			Details: string(raw),
			cause:   err,
		}
	}
	return out, nil
}

func errorFromResponse(code int, status string, isJSON bool, raw []byte) *APIError {
	var details any
	if isJSON {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			details = decoded
		}
	} else if len(raw) > 0 {
		details = string(raw)
	}

	message := ""
	if obj, ok := details.(map[string]any); ok {
		message = nonEmptyString(obj["message"])
		if message == "" {
			message = nonEmptyString(obj["error"])
		}
	}
	if message == "" {
		message = statusText(code, status)
	}
	if message == "" {
		message = fallbackMessage
	}
	return &APIError{Status: code, Message: message, Details: details}
}

func nonEmptyString(v any) string {
	s, _ := v.(string)
	return s
}

// statusText strips the numeric code from a "404 Not Found" style status line.
func statusText(code int, status string) string {
	text := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if text != "" {
		return text
	}
	return http.StatusText(code)
}
