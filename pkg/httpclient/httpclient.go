// Package httpclient is a small fasthttp-backed client for posting JSON to a fixed endpoint.
package httpclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/valyala/fasthttp"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	// Timeout bounds a single request. The context deadline wins when it is earlier.
	Timeout time.Duration

	// Headers are sent with every request.
	Headers map[string]string

	// Debug logs every finished request.
	Debug bool
}

type Client struct {
	endpoint *url.URL
	config   Config
	client   *fasthttp.Client
}

func New(endpoint string, config ...Config) (*Client, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse endpoint")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.Errorf("unsupported endpoint scheme %q", parsed.Scheme)
	}

	var conf Config
	if len(config) > 0 {
		conf = config[0]
	}
	if conf.Timeout <= 0 {
		conf.Timeout = defaultTimeout
	}
	return &Client{
		endpoint: parsed,
		config:   conf,
		client: &fasthttp.Client{
			Name: "commission-ledger",
		},
	}, nil
}

type Response struct {
	URL        string
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= fasthttp.StatusOK && r.StatusCode < fasthttp.StatusMultipleChoices
}

func (r *Response) Decode(out any) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return errors.Wrapf(err, "can't unmarshal body from %s, %q", r.URL, string(r.Body))
	}
	return nil
}

// URL resolves p against the endpoint. An empty p is the endpoint itself.
func (c *Client) URL(p string) string {
	u := *c.endpoint
	if p != "" {
		u.Path = path.Join(u.Path, p)
	}
	return u.String()
}

// PostJSON marshals payload and posts it to the endpoint joined with p.
func (c *Client) PostJSON(ctx context.Context, p string, payload any, header map[string]string) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "can't marshal payload")
	}
	return c.Do(ctx, fasthttp.MethodPost, p, body, header)
}

func (c *Client) Do(ctx context.Context, method, p string, body []byte, header map[string]string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	target := c.URL(p)
	req.SetRequestURI(target)
	req.Header.SetMethod(method)
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	deadline := time.Now().Add(c.config.Timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	start := time.Now()
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, target)
	}

	respBody, err := resp.BodyUncompressed()
	if err != nil {
		return nil, errors.Wrapf(err, "can't uncompress body from %s", target)
	}
	result := &Response{
		URL:        target,
		StatusCode: resp.StatusCode(),
		Body:       append([]byte(nil), respBody...),
	}

	if c.config.Debug {
		logger.DebugContext(ctx, "Finished request",
			slog.String("package", "httpclient"),
			slog.String("method", method),
			slog.String("url", target),
			slog.Int("status_code", result.StatusCode),
			slog.Int("req_content_length", len(body)),
			slog.Int("resp_content_length", len(result.Body)),
			slog.Duration("latency", time.Since(start)),
		)
	}
	return result, nil
}
