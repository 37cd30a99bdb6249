package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrSessionExpired is returned when a request got a 401 and the one refresh
// attempt could not produce a new access token.
var ErrSessionExpired = errors.New("session expired")

// Client is a thin HTTP adapter over the platform API. It injects the bearer
// token and the CSRF header, and transparently retries a request once after
// refreshing an expired access token.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// SetTokens installs the token pair returned by a login or refresh response.
func (c *Client) SetTokens(access, refresh string) {
	c.mu.Lock()
	c.accessToken = access
	c.refreshToken = refresh
	c.mu.Unlock()
}

func (c *Client) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

// ClearTokens drops the stored pair, leaving the client anonymous.
func (c *Client) ClearTokens() {
	c.SetTokens("", "")
}

// APIError carries the message extracted from an error response body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// extractError digs the most specific message out of an error body: detail,
// then error, then message, then the raw body, then a plain HTTP status.
func extractError(statusCode int, body []byte) *APIError {
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, key := range []string{"detail", "error", "message"} {
			if v, ok := parsed[key].(string); ok && v != "" {
				return &APIError{StatusCode: statusCode, Message: v}
			}
		}
	}
	raw := strings.TrimSpace(string(body))
	if raw != "" && !strings.HasPrefix(raw, "<") {
		return &APIError{StatusCode: statusCode, Message: raw}
	}
	return &APIError{StatusCode: statusCode, Message: fmt.Sprintf("HTTP %d", statusCode)}
}

func (c *Client) csrfToken() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil || c.HTTPClient.Jar == nil {
		return ""
	}
	for _, cookie := range c.HTTPClient.Jar.Cookies(u) {
		if cookie.Name == "csrftoken" {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) do(method, path string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if access, _ := c.tokens(); access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	if method != http.MethodGet && method != http.MethodHead {
		if token := c.csrfToken(); token != "" {
			req.Header.Set("X-CSRFToken", token)
		}
	}

	return c.HTTPClient.Do(req)
}

// Request performs one API call, decoding a JSON response into result when
// result is non-nil. On a 401 it refreshes the access token once and retries;
// a second 401 surfaces as ErrSessionExpired.
func (c *Client) Request(method, path string, payload, result interface{}) error {
	resp, err := c.do(method, path, payload)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if err := c.refresh(); err != nil {
			c.ClearTokens()
			return ErrSessionExpired
		}
		resp, err = c.do(method, path, payload)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			c.ClearTokens()
			return ErrSessionExpired
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return extractError(resp.StatusCode, raw)
	}
	if result == nil || resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, result)
}

type tokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// refresh exchanges the refresh token for a new pair. The refresh cookie set
// by the server rides along via the jar; the body carries the token too for
// clients running without cookies.
func (c *Client) refresh() error {
	_, refreshToken := c.tokens()

	payload := map[string]string{}
	if refreshToken != "" {
		payload["refresh"] = refreshToken
	}

	resp, err := c.do(http.MethodPost, "/api/users/refresh", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return extractError(resp.StatusCode, raw)
	}

	var tokens tokenResponse
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return err
	}
	if tokens.Token == "" {
		return errors.New("refresh response missing token")
	}
	c.SetTokens(tokens.Token, tokens.RefreshToken)
	return nil
}

func (c *Client) Get(path string, result interface{}) error {
	return c.Request(http.MethodGet, path, nil, result)
}

func (c *Client) Post(path string, payload, result interface{}) error {
	return c.Request(http.MethodPost, path, payload, result)
}

func (c *Client) Put(path string, payload, result interface{}) error {
	return c.Request(http.MethodPut, path, payload, result)
}

func (c *Client) Delete(path string) error {
	return c.Request(http.MethodDelete, path, nil, nil)
}
