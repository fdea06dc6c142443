package system

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/jxwalker/gitnr/internal/errors"
)

// CheckEndpoint resolves the host of rawURL and opens a TCP connection to it.
// No HTTP request is made, so rate limits are not consumed.
func CheckEndpoint(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return errors.NewFriendlyError(
			fmt.Sprintf("Invalid endpoint URL: %s", rawURL),
			"Check sources.*.api_base / raw_base in your config",
		).WithDetails(err)
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}

	resolver := &net.Resolver{}
	if _, err := resolver.LookupHost(ctx, host); err != nil {
		return errors.NewFriendlyError(
			fmt.Sprintf("Cannot resolve host: %s", host),
			"Check that the hostname is correct and your DNS is working",
		).WithDetails(err)
	}

	dialer := &net.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return errors.NewFriendlyError(
			fmt.Sprintf("Cannot connect to host: %s", host),
			fmt.Sprintf("Host is unreachable:\n"+
				"1. Check internet connection\n"+
				"2. Verify host is not blocked by firewall\n"+
				"3. Try: curl -I %s", rawURL),
		).WithDetails(err)
	}
	_ = conn.Close()
	return nil
}

// ProxySettings returns proxy configuration from the environment.
func ProxySettings() map[string]string {
	proxies := make(map[string]string)
	for _, envVar := range []string{"HTTP_PROXY", "HTTPS_PROXY", "NO_PROXY", "http_proxy", "https_proxy", "no_proxy"} {
		if val := os.Getenv(envVar); val != "" {
			proxies[envVar] = val
		}
	}

	req, _ := http.NewRequest(http.MethodGet, "https://raw.githubusercontent.com", nil)
	if proxyURL, _ := http.ProxyFromEnvironment(req); proxyURL != nil {
		if _, exists := proxies["HTTPS_PROXY"]; !exists {
			proxies["HTTPS_PROXY"] = proxyURL.String()
		}
	}
	return proxies
}
