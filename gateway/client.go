package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const (
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 4 << 20
)

type Config struct {
	BaseURL   string
	Session   Session
	Navigator Navigator
	// LoginPath defaults to DefaultLoginPath.
	LoginPath string
	// Timeout bounds every request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient defaults to a pooled cleanhttp client. It is copied and its
	// redirect policy wrapped so redirects never downgrade to plain http.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type RequestOptions struct {
	// Method defaults to GET.
	Method string
	// Headers are merged over the defaults. Authorization is always
	// ignored; the gateway sets it from the session.
	Headers map[string]string
	// Body is encoded as JSON when non-nil.
	Body any
}

// Client is the single choke point for authenticated API calls.
type Client struct {
	baseURL   *url.URL
	session   Session
	navigator Navigator
	loginPath string
	timeout   time.Duration
	http      *http.Client
	logger    *slog.Logger
}

func New(cfg Config) (*Client, error) {
	base, err := SecureURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:   base,
		session:   cfg.Session,
		navigator: cfg.Navigator,
		loginPath: cfg.LoginPath,
		timeout:   cfg.Timeout,
		http:      guardedClient(cfg.HTTPClient),
		logger:    cfg.Logger,
	}
	if c.session == nil {
		c.session = NewMemorySession("")
	}
	if c.loginPath == "" {
		c.loginPath = DefaultLoginPath
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) Session() Session {
	return c.session
}

// Request performs one authenticated call and decodes a 2xx JSON answer into
// out. A 401 clears the session, navigates to the login path and returns
// ErrSessionExpired. Every other failure is an *OperationFailedError.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions, out any) error {
	target, err := c.resolve(endpoint)
	if err != nil {
		return err
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range opts.Headers {
		if strings.EqualFold(key, "Authorization") {
			continue
		}
		req.Header.Set(key, value)
	}
	if token, ok := c.session.CurrentToken(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.DebugContext(ctx, "gateway request", "method", method, "path", target.Path)

	resp, err := c.http.Do(req)
	if err != nil {
		return transportFailure(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportFailure(err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.expire(ctx)
		return ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &OperationFailedError{
			Status:  resp.StatusCode,
			Message: errorMessage(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &OperationFailedError{
			Status:  resp.StatusCode,
			Message: "malformed response body",
			Err:     err,
		}
	}
	return nil
}

func (c *Client) expire(ctx context.Context) {
	c.logger.InfoContext(ctx, "session expired, returning to login", "login_path", c.loginPath)

	if err := c.session.Clear(); err != nil {
		c.logger.WarnContext(ctx, "failed to clear session", "error", err)
	}
	if c.navigator != nil {
		c.navigator.Navigate(c.loginPath)
	}
}

// resolve joins endpoint onto the base URL. Absolute endpoints are accepted
// and go through the same https upgrade.
func (c *Client) resolve(endpoint string) (*url.URL, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInsecureURL, err)
	}
	if ref.IsAbs() {
		return SecureURL(endpoint)
	}

	target := c.baseURL.JoinPath(ref.Path)
	target.RawQuery = ref.RawQuery
	return target, nil
}

// guardedClient returns a shallow copy of base with the redirect policy
// restricted to secure targets. The caller's client is left untouched.
func guardedClient(base *http.Client) *http.Client {
	if base == nil {
		base = cleanhttp.DefaultPooledClient()
	}
	guarded := *base
	guarded.CheckRedirect = secureRedirects(base.CheckRedirect)
	return &guarded
}

func transportFailure(err error) error {
	if errors.Is(err, ErrInsecureURL) {
		return &OperationFailedError{Message: "refused redirect to an insecure URL", Err: err}
	}

	var netErr net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())

	msg := "request could not be completed"
	if timeout {
		msg = "request timed out"
	}
	return &OperationFailedError{Message: msg, Timeout: timeout, Err: err}
}

// errorMessage pulls a human readable message out of an error body. Both the
// gin style {"error": ...} and {"message": ...} are understood.
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return genericFailureMessage
}
