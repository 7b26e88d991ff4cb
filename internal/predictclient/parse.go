package predictclient

import (
	"html"
	"regexp"
	"strings"
)

// The /predict endpoint answers with free-form markup. Extraction is
// best-effort pattern matching: a "Result:" verdict token plus list items
// carrying the reasons. Callers depend on the defaults (VerdictUnknown,
// empty reasons) when extraction finds nothing.
var (
	verdictPattern  = regexp.MustCompile(`Result:\s*(Phishing|Legitimate)`)
	listItemPattern = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
	tagPattern      = regexp.MustCompile(`<[^>]+>`)
)

// parseMarkup extracts the verdict and reason list from a markup body.
func parseMarkup(body string) *Prediction {
	verdict := VerdictUnknown
	if m := verdictPattern.FindStringSubmatch(body); m != nil {
		verdict = m[1]
	}

	var reasons []string
	for _, m := range listItemPattern.FindAllStringSubmatch(body, -1) {
		text := tagPattern.ReplaceAllString(m[1], "")
		text = strings.TrimSpace(html.UnescapeString(text))
		if text != "" {
			reasons = append(reasons, text)
		}
	}

	return &Prediction{Verdict: verdict, Reasons: reasons}
}
