package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/matzehuels/partscout/pkg/httputil"
	"github.com/matzehuels/partscout/pkg/observability"
)

// Options configures the shared access layer.
type Options struct {
	MinDelay  time.Duration     // Lower bound of the pacing window
	MaxDelay  time.Duration     // Upper bound of the pacing window
	Timeout   time.Duration     // Total timeout of a single attempt
	Retry     httputil.Policy   // Attempt budget and waits
	Headers   map[string]string // Sent with every request
	CookieJar bool              // Keep cookies between requests (needed by some storefronts)
}

// DefaultOptions returns a 2-5s pacing window, a 30s timeout and
// [httputil.DefaultPolicy].
func DefaultOptions() Options {
	return Options{
		MinDelay: 2 * time.Second,
		MaxDelay: 5 * time.Second,
		Timeout:  defaultTimeout,
		Retry:    httputil.DefaultPolicy(),
	}
}

// Client provides shared HTTP functionality for every upstream client.
// It handles pacing, User-Agent rotation, retry and status mapping.
// A Client is safe for concurrent use.
type Client struct {
	http      *http.Client
	pacer     *httputil.Pacer
	policy    httputil.Policy
	headers   map[string]string
	userAgent func() string
}

// NewClient creates a Client from opts. Zero durations fall back to the
// defaults except MinDelay, where zero disables pacing.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retry.Attempts <= 0 {
		opts.Retry = httputil.DefaultPolicy()
	}
	hc := &http.Client{Timeout: opts.Timeout}
	if opts.CookieJar {
		jar, _ := cookiejar.New(nil) // only fails on a non-nil bad PublicSuffixList
		hc.Jar = jar
	}
	return &Client{
		http:      hc,
		pacer:     httputil.NewPacer(opts.MinDelay, opts.MaxDelay),
		policy:    opts.Retry,
		headers:   opts.Headers,
		userAgent: httputil.RandomUserAgent,
	}
}

// Request describes one logical call. Retries reuse it verbatim.
type Request struct {
	Method  string
	URL     string
	Params  url.Values        // Appended to URL as a query string
	Body    any               // JSON-encoded when non-nil
	Headers map[string]string // Override client defaults for the same key
}

// Do executes req and returns the response body of the first 200 reply.
//
// A 429 reply is retried with the policy's linear back-off; a transport
// failure is retried after the fixed transport wait. Any other non-200 reply
// fails immediately with an [*UpstreamError]. When the budget is exhausted the
// error wraps [ErrRateLimited], [ErrTimeout] or [ErrNetwork].
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	target, err := buildURL(req.URL, req.Params)
	if err != nil {
		return nil, err
	}
	var payload []byte
	if req.Body != nil {
		if payload, err = json.Marshal(req.Body); err != nil {
			return nil, err
		}
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body []byte
	var lastErr error
	err = httputil.Retry(ctx, c.policy, func(attempt int) error {
		if attempt > 1 {
			observability.HTTP().OnRetry(ctx, method, target.Host, target.Path, attempt-1, lastErr)
		}
		if err := c.pacer.Wait(ctx); err != nil {
			return err
		}
		b, err := c.send(ctx, method, target, payload, req.Headers)
		if err != nil {
			lastErr = err
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		var rl *httputil.RateLimitError
		if errors.As(err, &rl) {
			return nil, fmt.Errorf("%w: %d attempts exhausted", ErrRateLimited, max(c.policy.Attempts, 1))
		}
		return nil, err
	}
	return body, nil
}

// GetJSON performs a GET and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, v any) error {
	body, err := c.Do(ctx, Request{Method: http.MethodGet, URL: rawURL, Params: params})
	if err != nil {
		return err
	}
	return decode(body, v)
}

// PostJSON performs a POST with a JSON body and decodes the JSON response into v.
func (c *Client) PostJSON(ctx context.Context, rawURL string, in, v any) error {
	body, err := c.Do(ctx, Request{Method: http.MethodPost, URL: rawURL, Body: in})
	if err != nil {
		return err
	}
	return decode(body, v)
}

// GetText performs a GET and returns the response body as a string.
// Used for storefront pages that embed their data in HTML.
func (c *Client) GetText(ctx context.Context, rawURL string, params url.Values) (string, error) {
	body, err := c.Do(ctx, Request{
		Method:  http.MethodGet,
		URL:     rawURL,
		Params:  params,
		Headers: map[string]string{"Accept": "text/html,application/xhtml+xml"},
	})
	return string(body), err
}

func (c *Client) send(ctx context.Context, method string, target *url.URL, payload []byte, headers map[string]string) ([]byte, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), rd)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("User-Agent", c.userAgent())

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, target.Host, target.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		hooks.OnError(ctx, method, target.Host, target.Path, err)
		return nil, &httputil.RetryableError{Err: transportError(err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, target.Host, target.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, target); err != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httputil.RetryableError{Err: transportError(err)}
	}
	return data, nil
}

func checkStatus(code int, target *url.URL) error {
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusTooManyRequests:
		return &httputil.RateLimitError{Err: fmt.Errorf("%w: status %d", ErrRateLimited, code)}
	default:
		return &UpstreamError{Status: code, URL: redact(target)}
	}
}

func buildURL(rawURL string, params url.Values) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

// redact drops the query string; catalog tokens are long and carry session state.
func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	c := *u
	c.RawQuery = ""
	return c.String()
}

func decode(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
