// Package backend is the typed client of the school REST API.
// Every call carries the session token, sends and receives JSON, and is never retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/masomo-portal/core/session"
)

type (
	Client struct {
		baseURL string
		http    *rest.Client
		token   string
		metrics *Metrics
	}

	Option func(*Client)
)

// WithHTTPClient sets the underlying http client. Its timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = &rest.Client{HTTPClient: hc} }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient returns an anonymous client of the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(baseURL, "baseURL"),
		vala.GreaterThan(int(timeout/time.Millisecond), 0, "timeout"),
	).Check()
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: baseURL,
		http:    &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithToken returns a copy of c authenticating with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// For returns a copy of c acting on behalf of sess.
func (c *Client) For(sess session.Session) *Client {
	return c.WithToken(sess.Token)
}

// do sends one request and decodes a 2xx body into target (when not nil).
// Paginated responses are unwrapped to their "results".
func (c *Client) do(ctx context.Context, method rest.Method, endpoint string, query map[string]string, body, target interface{}) error {
	req := rest.Request{
		Method:      method,
		BaseURL:     c.baseURL + endpoint,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: query,
	}
	if c.token != "" {
		req.Headers["Authorization"] = "Bearer " + c.token
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		req.Body = data
		req.Headers["Content-Type"] = "application/json"
	}

	hreq, err := rest.BuildRequestObject(req)
	if err != nil {
		return errors.Wrapf(err, "building %s %s", method, endpoint)
	}

	start := time.Now()
	hres, err := c.http.MakeRequest(hreq.WithContext(ctx))
	if err != nil {
		c.metrics.observe(endpoint, string(method), 0, time.Since(start))
		return errors.Wrapf(err, "%s %s", method, endpoint)
	}
	res, err := rest.BuildResponse(hres)
	if err != nil {
		c.metrics.observe(endpoint, string(method), 0, time.Since(start))
		return errors.Wrapf(err, "reading %s %s", method, endpoint)
	}
	c.metrics.observe(endpoint, string(method), res.StatusCode, time.Since(start))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return newError(res.StatusCode, res.Body)
	}
	if target == nil || len(bytes.TrimSpace([]byte(res.Body))) == 0 {
		return nil
	}
	return decode([]byte(res.Body), target)
}

func decode(data []byte, target interface{}) error {
	var page struct {
		Results json.RawMessage `json:"results"`
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		if err := json.Unmarshal(data, &page); err == nil && len(page.Results) > 0 {
			data = page.Results
		}
	}
	if err := json.Unmarshal(data, target); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, query map[string]string, target interface{}) error {
	return c.do(ctx, rest.Get, endpoint, query, nil, target)
}

func (c *Client) post(ctx context.Context, endpoint string, body, target interface{}) error {
	return c.do(ctx, rest.Post, endpoint, nil, body, target)
}
