package errors

import (
	"fmt"
	"strings"
)

// UserFriendlyError provides actionable error messages for end users
type UserFriendlyError struct {
	Message    string // User-facing message explaining what went wrong
	Suggestion string // Actionable steps to fix the issue
	Details    error  // Original error for debugging/logs
}

func (e *UserFriendlyError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString("How to fix:\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

func (e *UserFriendlyError) Unwrap() error {
	return e.Details
}

// NewFriendlyError creates a user-friendly error
func NewFriendlyError(message, suggestion string) *UserFriendlyError {
	return &UserFriendlyError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// WithDetails adds the underlying error details
func (e *UserFriendlyError) WithDetails(err error) *UserFriendlyError {
	e.Details = err
	return e
}

// NetworkError returns a network-related error with helpful suggestions
func NetworkError(err error) *UserFriendlyError {
	msg := "Network error occurred"
	suggestion := "Check your internet connection and try again"

	if err != nil {
		errStr := err.Error()

		if strings.Contains(errStr, "no such host") || strings.Contains(errStr, "name resolution") {
			msg = "Cannot resolve hostname - DNS lookup failed"
			suggestion = "1. Check your internet connection\n2. Verify DNS settings\n3. Check sources.*.api_base / raw_base in your config"
		}

		if strings.Contains(errStr, "connection refused") {
			msg = "Server refused connection"
			suggestion = "The server may be down or blocking requests. Try again later."
		}

		if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
			msg = "Connection timed out"
			suggestion = "Server is slow or unreachable. Try:\n1. Raise network.timeout_seconds in your config\n2. Try again later"
		}

		if strings.Contains(errStr, "certificate") || strings.Contains(errStr, "x509") {
			msg = "SSL/TLS certificate verification failed"
			suggestion = "You may be behind a corporate proxy. Make sure its CA certificate is installed,\nor set HTTPS_PROXY for the proxy in use"
		}
	}

	return &UserFriendlyError{
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}

// AuthError covers 401/403/429 answers. provider is "github" for the GitHub API.
func AuthError(provider string, statusCode int, tokenEnv string, err error) *UserFriendlyError {
	msg := fmt.Sprintf("Request rejected (%d)", statusCode)
	suggestion := "Wait a moment and try again"

	if provider == "github" {
		if tokenEnv == "" {
			tokenEnv = "GITHUB_TOKEN"
		}
		msg = "GitHub API request was rejected"
		suggestion = "The unauthenticated API rate limit is 60 requests per hour.\n" +
			"1. Set a token: export " + tokenEnv + "=ghp_...\n" +
			"2. Or wait an hour; cached catalogs are reused until then"
	}

	return &UserFriendlyError{
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}

// TemplateNotFound reports a template the provider does not have.
func TemplateNotFound(arg string, suggestions []string, err error) *UserFriendlyError {
	suggestion := "Run 'gitnr list' to see the available templates, or 'gitnr search' to browse them"
	if len(suggestions) > 0 {
		suggestion = "Did you mean:\n  " + strings.Join(suggestions, "\n  ")
	}
	return &UserFriendlyError{
		Message:    fmt.Sprintf("Template not found: %s", arg),
		Suggestion: suggestion,
		Details:    err,
	}
}

// ConfigError returns configuration-related errors
func ConfigError(path string, err error) *UserFriendlyError {
	return &UserFriendlyError{
		Message:    fmt.Sprintf("Configuration error in %s", path),
		Suggestion: "Fix the file or point --config / GITNR_CONFIG at a valid one.\nEvery key is optional; an empty file uses the defaults.",
		Details:    err,
	}
}

// DatabaseError returns history database errors with recovery suggestions
func DatabaseError(path string, err error) *UserFriendlyError {
	msg := "History database error"
	suggestion := "Set history.enabled: false to skip recording"

	if err != nil {
		errStr := err.Error()

		if strings.Contains(errStr, "locked") {
			msg = "History database is locked by another process"
			suggestion = "Close other gitnr instances and try again"
		}

		if strings.Contains(errStr, "corrupt") || strings.Contains(errStr, "malformed") {
			msg = "History database is corrupted"
			suggestion = fmt.Sprintf("Remove it and start over:\n  rm %s", path)
		}
	}

	return &UserFriendlyError{
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}

// PathError returns file/directory path related errors
func PathError(path string, err error) *UserFriendlyError {
	msg := fmt.Sprintf("Path error: %s", path)
	suggestion := "Check that the path exists and you have permission to access it"

	if err != nil {
		errStr := err.Error()

		if strings.Contains(errStr, "permission denied") {
			msg = fmt.Sprintf("Permission denied: %s", path)
			suggestion = fmt.Sprintf("Ensure you have write permission:\n  chmod u+w %s", path)
		}

		if strings.Contains(errStr, "no such file or directory") || strings.Contains(errStr, "not found") {
			msg = fmt.Sprintf("File does not exist: %s", path)
			suggestion = "Check the path, or use a template name instead of a file"
		}

		if strings.Contains(errStr, "is a directory") {
			msg = fmt.Sprintf("Path is a directory: %s", path)
			suggestion = "Pass a file path, e.g. " + strings.TrimRight(path, "/") + "/.gitignore"
		}
	}

	return &UserFriendlyError{
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}
