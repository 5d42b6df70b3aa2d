package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ternarybob/rdms-mcp/internal/services/scraper"
)

// jsonResult marshals a payload into a single text content block. Every tool
// answers with JSON so the calling model gets a stable shape to work against.
func jsonResult(payload interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encoding response: %w", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(data)),
		},
	}
}

// errorResult converts a domain error into a well-formed JSON tool result.
// Failures travel inside the result payload, never as protocol errors, so the
// calling model can read the code and react (e.g. prompt for a new login).
func errorResult(err error) *mcp.CallToolResult {
	payload := map[string]interface{}{
		"success": false,
		"code":    errorCode(err),
		"error":   err.Error(),
	}
	data, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		data = []byte(fmt.Sprintf(`{"success":false,"code":"internal_error","error":%q}`, err.Error()))
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.NewTextContent(string(data)),
		},
	}
}

// errorCode maps sentinel errors to stable machine-readable codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, scraper.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, scraper.ErrCaptchaRequired):
		return "captcha_required"
	case errors.Is(err, scraper.ErrUnknownLoginFailure):
		return "unknown_login_failure"
	case errors.Is(err, scraper.ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, scraper.ErrSessionExpired):
		return "session_expired"
	case errors.Is(err, scraper.ErrNetworkTimeout):
		return "network_timeout"
	case errors.Is(err, scraper.ErrNetworkError):
		return "network_error"
	case errors.Is(err, scraper.ErrImageFetchFailed):
		return "image_fetch_failed"
	default:
		return "internal_error"
	}
}
