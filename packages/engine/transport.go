package engine

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/apiprobe/apiprobe/packages/request"
)

// Transport is the injected capability that actually sends a request. It is
// the only way the engine touches a network; a simulator satisfies it just
// as well as a real client.
type Transport interface {
	Send(ctx context.Context, req *request.Request) (*Response, error)
}

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// HTTPTransport sends requests over real HTTP.
type HTTPTransport struct {
	httpClient     *http.Client
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	validateSSL    bool
	proxyURL       string
	defaultHeaders map[string]string
}

type HTTPOption func(*HTTPTransport)

func NewHTTPTransport(opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		timeout:        DefaultTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		validateSSL:    true,
		defaultHeaders: make(map[string]string),
	}

	for _, opt := range opts {
		opt(t)
	}

	transport := &http.Transport{
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	if !t.validateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if t.proxyURL != "" {
		if proxyURL, err := neturl.Parse(t.proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !t.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= t.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	t.httpClient = &http.Client{
		Transport:     transport,
		Timeout:       t.timeout,
		CheckRedirect: redirectPolicy,
	}

	return t
}

func WithTimeout(d time.Duration) HTTPOption {
	return func(t *HTTPTransport) {
		t.timeout = d
	}
}

func WithFollowRedirects(follow bool) HTTPOption {
	return func(t *HTTPTransport) {
		t.followRedirect = follow
	}
}

func WithMaxRedirects(max int) HTTPOption {
	return func(t *HTTPTransport) {
		t.maxRedirects = max
	}
}

func WithValidateSSL(validate bool) HTTPOption {
	return func(t *HTTPTransport) {
		t.validateSSL = validate
	}
}

func WithProxy(url string) HTTPOption {
	return func(t *HTTPTransport) {
		t.proxyURL = url
	}
}

// WithDefaultHeaders sets headers applied to every request unless the
// request already carries the key.
func WithDefaultHeaders(headers map[string]string) HTTPOption {
	return func(t *HTTPTransport) {
		for k, v := range headers {
			t.defaultHeaders[k] = v
		}
	}
}

// Send performs the HTTP call. The request is expected to be fully
// resolved; Send does no placeholder substitution of its own.
func (t *HTTPTransport) Send(ctx context.Context, req *request.Request) (*Response, error) {
	var bodyReader io.Reader
	if req.Body != "" {
		bodyReader = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, err
	}

	for k, v := range t.defaultHeaders {
		if req.Header(k) == "" {
			httpReq.Header.Set(k, v)
		}
	}
	for _, h := range req.Headers() {
		httpReq.Header.Set(h.Key, h.Value)
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(resp.Header))
	for k, values := range resp.Header {
		headers[k] = strings.Join(values, ", ")
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    headers,
		Body:       body,
	}, nil
}
