package api

import (
	"errors"
	"fmt"
	"strings"
)

const maxRequestURLLength = 2048

// injectionMarkers are substrings that mark a scan request as an injection
// attempt rather than a URL worth scoring. Matched case-insensitively.
var injectionMarkers = []string{
	"javascript:",
	"data:",
	"vbscript:",
	"file:",
	"<script",
	"</script>",
	"<iframe",
	"</iframe>",
	"eval(",
	"alert(",
}

// validateScanURL rejects requests the scanner should never see. It does not
// judge whether the URL parses; malformed-but-harmless input is the heuristic
// engine's job.
func validateScanURL(rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return errors.New("URL cannot be empty")
	}
	if len(trimmed) > maxRequestURLLength {
		return fmt.Errorf("URL too long (max %d characters)", maxRequestURLLength)
	}

	lower := strings.ToLower(trimmed)
	for _, marker := range injectionMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("URL contains potentially malicious content: %s", marker)
		}
	}
	return nil
}
