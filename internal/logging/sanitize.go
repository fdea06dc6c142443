package logging

import (
	"net/url"
	"strings"
)

// SanitizeURL drops userinfo, query and fragment from http(s) locators before they
// reach a log line. File paths and anything unparseable pass through unchanged.
func SanitizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return s
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
