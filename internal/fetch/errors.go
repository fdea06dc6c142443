package fetch

import (
	"errors"
	"fmt"
	"net/http"
	neturl "net/url"
	"strings"

	"github.com/jxwalker/gitnr/internal/logging"
)

// StatusError is a non-2xx response.
type StatusError struct {
	URL     string
	Code    int
	Status  string
	HadAuth bool
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", logging.SanitizeURL(e.URL), e.Message())
}

// Message is a host-aware description of the status.
func (e *StatusError) Message() string {
	return friendlyHTTPStatusMessage(hostFromURL(e.URL), e.Code, e.Status, e.HadAuth)
}

// IsNotFound reports whether err wraps a 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

func friendlyHTTPStatusMessage(host string, statusCode int, status string, hadAuth bool) string {
	h := strings.ToLower(strings.TrimSpace(host))
	mk := func(base string) string {
		switch {
		case hostIs(h, "api.github.com"):
			if statusCode == http.StatusForbidden || statusCode == http.StatusTooManyRequests {
				if hadAuth {
					return base + " (GitHub API: rate limit reached for this token)"
				}
				return base + " (GitHub API: unauthenticated rate limit reached; export GITHUB_TOKEN)"
			}
			return base
		case hostIs(h, "raw.githubusercontent.com"):
			if statusCode == http.StatusNotFound {
				return base + " (GitHub: no such template; names are case-sensitive)"
			}
			return base
		case hostIs(h, "toptal.com"):
			if statusCode == http.StatusNotFound {
				return base + " (TopTal: unknown template name)"
			}
			return base
		}
		return base
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		return mk("429 Too Many Requests: rate limited")
	case http.StatusUnauthorized:
		if hadAuth {
			return mk("401 Unauthorized: token present but not authorized")
		}
		return mk("401 Unauthorized: token required")
	case http.StatusForbidden:
		if hadAuth {
			return mk("403 Forbidden: token lacks permission")
		}
		return mk("403 Forbidden: access denied")
	case http.StatusNotFound:
		return mk("404 Not Found")
	default:
		if status == "" {
			return fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode))
		}
		return status
	}
}

// hostIs returns true if h equals root or is a subdomain of root.
func hostIs(h, root string) bool {
	h = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), ".")
	root = strings.ToLower(strings.TrimSpace(root))
	return h == root || strings.HasSuffix(h, "."+root)
}

func hostFromURL(raw string) string {
	if u, err := neturl.Parse(raw); err == nil && u != nil {
		return u.Hostname()
	}
	return ""
}
