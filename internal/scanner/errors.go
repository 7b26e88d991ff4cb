package scanner

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/deceptoguard/urlrisk/internal/predictclient"
)

// classifyErrorType categorizes a backend error for metric labels and log
// filtering.
func classifyErrorType(err error) string {
	var statusErr *predictclient.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Code >= http.StatusInternalServerError {
			return "5xx"
		}
		return "4xx"
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "deadline exceeded") || strings.Contains(lower, "timeout"):
		return "timeout"
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "dial tcp") ||
		strings.Contains(lower, "no such host"):
		return "connection"
	case strings.Contains(lower, "decode") || strings.Contains(lower, "unmarshal") ||
		strings.Contains(lower, "eof"):
		return "decode"
	default:
		return "unknown"
	}
}

// fallbackDiagnostic renders the reason prepended to a heuristic fallback
// result, telling the caller why the backend answer is missing.
func fallbackDiagnostic(err error) string {
	var statusErr *predictclient.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Backend returned %d %s; local heuristics applied",
			statusErr.Code, http.StatusText(statusErr.Code))
	}
	if errors.Is(err, predictclient.ErrUnavailable) {
		return "Backend unreachable or timed out; local heuristics applied"
	}
	return "Backend response could not be interpreted; local heuristics applied"
}
