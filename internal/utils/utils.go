package utils

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// IsTransient reports whether err looks like a provider hiccup (rate limit,
// server error, timeout) rather than a bad response. Every failure is retried
// regardless; the classification only feeds the logs.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= 500 || apiErr.HTTPStatusCode == 429
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode >= 500 || reqErr.HTTPStatusCode == 429
	}

	errMsg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"rate limit",
		"500 internal server error",
		"502 bad gateway",
		"503 service unavailable",
		"504 gateway timeout",
		"timeout",
		"connection reset by peer",
	} {
		if strings.Contains(errMsg, marker) {
			return true
		}
	}
	return false
}

// CleanJSONOutput strips whitespace and a surrounding markdown code fence from
// a model reply so it can be decoded as JSON.
func CleanJSONOutput(llmOutput string) string {
	cleaned := strings.TrimSpace(llmOutput)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}
