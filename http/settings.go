package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/scratches"
)

// MaxSettingsSize is the largest settings document accepted from the sync
// endpoint, in bytes.
const MaxSettingsSize = 1 << 20

// Ensure SettingsClient implements scratches.SettingsStore at compile time.
var _ scratches.SettingsStore = (*SettingsClient)(nil)

// SettingsClient stores the settings document on a sync endpoint. The
// document lives at <baseURL>/settings and is read with GET and replaced
// with PUT.
type SettingsClient struct {
	client  *http.Client
	baseURL string
	token   string
}

// SettingsOption configures a SettingsClient.
type SettingsOption func(*SettingsClient)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) SettingsOption {
	return func(c *SettingsClient) {
		c.token = token
	}
}

// WithHTTPClient replaces the default client, which times out after
// DefaultFetchTimeout.
func WithHTTPClient(client *http.Client) SettingsOption {
	return func(c *SettingsClient) {
		c.client = client
	}
}

// NewSettingsClient creates a client for the sync endpoint at baseURL.
func NewSettingsClient(baseURL string, opts ...SettingsOption) *SettingsClient {
	c := &SettingsClient{
		client:  &http.Client{Timeout: DefaultFetchTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadSettings fetches the stored document.
// Returns ENOTFOUND if the endpoint has no document.
func (c *SettingsClient) ReadSettings(ctx context.Context) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusNoContent:
		return nil, scratches.Errorf(scratches.ENOTFOUND, "no settings stored at %s", c.baseURL)
	default:
		return nil, statusError(resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSettingsSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxSettingsSize {
		return nil, scratches.Errorf(scratches.EINVALID, "settings document exceeds %d bytes", MaxSettingsSize)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, scratches.Errorf(scratches.ENOTFOUND, "no settings stored at %s", c.baseURL)
	}
	return data, nil
}

// WriteSettings replaces the stored document.
func (c *SettingsClient) WriteSettings(ctx context.Context, data []byte) error {
	req, err := c.newRequest(ctx, http.MethodPut, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *SettingsClient) newRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	if c.baseURL == "" {
		return nil, scratches.Errorf(scratches.EINVALID, "settings sync URL required")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/settings", body)
	if err != nil {
		return nil, scratches.Errorf(scratches.EINVALID, "invalid settings sync URL: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	text := strings.TrimSpace(string(msg))
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return scratches.Errorf(scratches.EUNAUTHORIZED, "settings sync rejected credentials: HTTP %d", resp.StatusCode)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return scratches.Errorf(scratches.EINVALID, "settings sync rejected document: %s", text)
	}
	if text == "" {
		return fmt.Errorf("HTTP %d from settings sync", resp.StatusCode)
	}
	return fmt.Errorf("HTTP %d from settings sync: %s", resp.StatusCode, text)
}
