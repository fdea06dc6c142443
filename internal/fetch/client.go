package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/jxwalker/gitnr/internal/config"
	"github.com/jxwalker/gitnr/internal/logging"
)

// Version is stamped into the default User-Agent. cmd/gitnr overrides it at startup.
var Version = "dev"

// Client performs single-attempt GET requests. Failures are reported, never retried.
type Client struct {
	http *http.Client
	ua   string
	log  *logging.Logger
}

func New(cfg *config.Config, log *logging.Logger) *Client {
	return &Client{http: newHTTPClient(cfg), ua: userAgent(cfg), log: log}
}

// NewWithHTTPClient wraps an existing client, e.g. one from httptest.
func NewWithHTTPClient(hc *http.Client, ua string, log *logging.Logger) *Client {
	if ua == "" {
		ua = userAgent(nil)
	}
	return &Client{http: hc, ua: ua, log: log}
}

// Get returns the response body of rawURL. Non-2xx responses yield *StatusError.
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", logging.SanitizeURL(rawURL), err)
	}
	req.Header.Set("User-Agent", c.ua)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	start := time.Now()
	c.log.Debugf("GET %s", logging.SanitizeURL(rawURL))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", logging.SanitizeURL(rawURL), err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		c.log.Infof("GET %s -> %s", logging.SanitizeURL(rawURL), resp.Status)
		return nil, &StatusError{
			URL:     rawURL,
			Code:    resp.StatusCode,
			Status:  resp.Status,
			HadAuth: req.Header.Get("Authorization") != "",
		}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", logging.SanitizeURL(rawURL), err)
	}
	c.log.Debugf("GET %s -> %d (%d bytes in %s)", logging.SanitizeURL(rawURL), resp.StatusCode, len(b), time.Since(start).Round(time.Millisecond))
	return b, nil
}

func newHTTPClient(cfg *config.Config) *http.Client {
	// 0 keeps the client unbounded; a slow provider blocks the caller
	var timeout time.Duration
	if cfg != nil && cfg.Network.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Network.TimeoutSeconds) * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   4,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
	client := &http.Client{Transport: tr, Timeout: timeout}
	// Keep the UA across redirects. Only forward Authorization to the same host.
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return fmt.Errorf("stopped after %d redirects", len(via))
		}
		prev := via[len(via)-1]
		if ua := prev.Header.Get("User-Agent"); ua != "" {
			req.Header.Set("User-Agent", ua)
		}
		if prev.URL != nil && req.URL != nil && strings.EqualFold(prev.URL.Host, req.URL.Host) {
			if auth := prev.Header.Get("Authorization"); auth != "" {
				req.Header.Set("Authorization", auth)
			}
		} else {
			req.Header.Del("Authorization")
		}
		return nil
	}
	return client
}

// userAgent returns network.user_agent, or "gitnr/<version> (<goos>/<goarch>)".
func userAgent(cfg *config.Config) string {
	if cfg != nil && cfg.Network.UserAgent != "" {
		return cfg.Network.UserAgent
	}
	return fmt.Sprintf("gitnr/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}
