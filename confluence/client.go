// Package confluence is a minimal client for the Confluence Cloud REST API:
// it updates page bodies in storage format and uploads page attachments.
package confluence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rgonek/md2confluence/internal/logging"
)

const (
	apiPrefix    = "wiki/rest/api"
	maxErrorBody = 64 << 10
)

// Config configures a Client. BaseURL takes precedence over Domain; with only
// a Domain the site is https://<domain>.atlassian.net.
type Config struct {
	BaseURL    string
	Domain     string
	Username   string
	Password   string
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client performs authenticated requests against one Confluence site. The
// underlying *http.Client is shared by every call.
type Client struct {
	baseURL  *url.URL
	username string
	password string
	http     *http.Client
	logger   logging.Logger
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		domain := strings.TrimSpace(cfg.Domain)
		if domain == "" {
			return nil, errors.New("confluence: base URL or domain is required")
		}
		base = fmt.Sprintf("https://%s.atlassian.net", domain)
	}

	parsed, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("confluence: invalid base URL %q: %w", base, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("confluence: invalid base URL %q: scheme and host are required", base)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Client{
		baseURL:  parsed,
		username: cfg.Username,
		password: cfg.Password,
		http:     httpClient,
		logger:   logger,
	}, nil
}

// BaseURL returns the site URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(query url.Values, segments ...string) string {
	elements := make([]string, 0, len(segments)+1)
	elements = append(elements, apiPrefix)
	for _, segment := range segments {
		elements = append(elements, url.PathEscape(segment))
	}

	u := c.baseURL.JoinPath(elements...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}

	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}

// do sends req and decodes a JSON response into out when out is non-nil.
// Non-2xx responses become *APIError.
func (c *Client) do(req *http.Request, op string, out any) error {
	c.logger.Debug("confluence request", "op", op, "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Op:         op,
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}

	return nil
}
