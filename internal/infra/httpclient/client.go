package httpclient

import (
	"net"
	"net/http"

	"github.com/quickai/server/internal/infra/config"
	"github.com/quickai/server/internal/utils/requestctx"
)

// UserAgent identifies outbound calls to the AI and media providers.
const UserAgent = "quickai-server/1.0"

// RequestIDHeader carries the inbound request id to upstreams that log it.
const RequestIDHeader = "X-Request-ID"

// New creates the shared outbound HTTP client used by every upstream adapter.
// The response timeout bounds a whole upstream call, body included.
func New(cfg config.HTTPClientConfig) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &http.Client{
		Transport: &tagging{next: transport},
		Timeout:   cfg.ResponseTimeout,
	}
}

// tagging stamps the user agent and the request id on every outbound call.
type tagging struct {
	next http.RoundTripper
}

func (t *tagging) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}
	if id := requestctx.RequestID(req.Context()); id != "" && req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, id)
	}
	return t.next.RoundTrip(req)
}
