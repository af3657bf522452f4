// Package ifsc looks up Indian bank branch details by IFSC code.
package ifsc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const defaultBaseURL = "https://ifsc.razorpay.com"

// ifscPattern: 4 letters, a zero, 6 alphanumerics.
var ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

// Branch is the subset of the lookup response the app displays.
type Branch struct {
	IFSC   string `json:"IFSC"`
	Bank   string `json:"BANK"`
	Branch string `json:"BRANCH"`
	City   string `json:"CITY"`
	State  string `json:"STATE"`
}

// Client queries an IFSC directory service. Lookups are user-initiated
// and best-effort; callers surface failures as-is and never block
// ingestion on them.
type Client struct {
	client  *http.Client
	baseURL string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithBaseURL sets a custom base URL (useful for testing)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// NewClient creates an IFSC lookup client with a short request timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup fetches branch details for the given IFSC code.
func (c *Client) Lookup(ctx context.Context, code string) (*Branch, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !ifscPattern.MatchString(code) {
		return nil, fmt.Errorf("invalid IFSC code: %q", code)
	}

	lookupURL := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("unknown IFSC code: %s", code)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var branch Branch
	if err := json.NewDecoder(resp.Body).Decode(&branch); err != nil {
		return nil, fmt.Errorf("decode response for %s: %w", code, err)
	}
	return &branch, nil
}
