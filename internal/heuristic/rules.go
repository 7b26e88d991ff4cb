package heuristic

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Indicator penalties. The final score is BaseScore plus the sum of every
// triggered penalty, clamped to [0,100].
const (
	penaltyInvalidURL     = 30
	penaltyNonHTTPS       = 25
	penaltyCredentialAt   = 15
	penaltyPunycode       = 15
	penaltyIPHost         = 25
	penaltyManySubdomains = 15
	penaltyLongHostname   = 10
	penaltyLongURL        = 10
	penaltyKeywords       = 10
	penaltyBrandSubdomain = 30
	penaltyLeetspeak      = 20
	penaltySuspiciousTLD  = 10
	penaltyLinkShortener  = 10
	penaltyHomograph      = 15
)

// Structural thresholds.
const (
	maxLabelsBeforePenalty = 3
	maxHostnameLength      = 45
	maxURLLength           = 120
)

// Fixed reason strings for single-message indicators.
const (
	reasonInvalidURL    = "Invalid URL format"
	reasonNonHTTPS      = "Uses HTTP (no TLS)"
	reasonCredentialAt  = "URL contains '@' (possible credential obfuscation)"
	reasonPunycode      = "Hostname uses punycode (lookalike risk)"
	reasonIPHost        = "Hostname is an IP address"
	reasonLongHostname  = "Unusually long hostname"
	reasonLongURL       = "Unusually long URL"
	reasonKeywords      = "Suspicious keywords in host/path"
	reasonSuspiciousTLD = "High-risk top-level domain"
	reasonShortener     = "Link shortener hides the destination"
	reasonHomograph     = "Hostname contains non-ASCII characters (homograph risk)"
)

// Indicator names used as metric labels.
const (
	indInvalidURL     = "invalid_url"
	indNonHTTPS       = "non_https"
	indCredentialAt   = "credential_at"
	indPunycode       = "punycode"
	indIPHost         = "ip_host"
	indManySubdomains = "many_subdomains"
	indLongHostname   = "long_hostname"
	indLongURL        = "long_url"
	indKeywords       = "keywords"
	indBrandSubdomain = "brand_subdomain"
	indLeetspeak      = "leetspeak"
	indSuspiciousTLD  = "suspicious_tld"
	indLinkShortener  = "link_shortener"
	indHomograph      = "homograph"
)

// suspiciousKeywords flag credential-harvesting vocabulary anywhere in the
// hostname or path.
var suspiciousKeywords = []string{
	"login", "verify", "secure", "update", "account",
	"confirm", "signin", "pay", "reset",
}

// knownBrands are checked for subdomain impersonation, in order. The scan
// stops at the first matching brand.
var knownBrands = []string{
	"paypal", "google", "apple", "amazon", "bankofamerica",
}

// leetspeakPattern pairs a brand with a pattern matching its common
// character-substituted spellings. Each pattern requires at least one
// substitution so the genuine brand spelling never matches.
type leetspeakPattern struct {
	brand   string
	pattern *regexp.Regexp
}

var leetspeakPatterns = []leetspeakPattern{
	{"PayPal", regexp.MustCompile(`paypa1|p4ypal|p4yp4l|payp4l`)},
	{"Google", regexp.MustCompile(`g00gle|g0ogle|go0gle|goog1e|googl3`)},
	{"Apple", regexp.MustCompile(`app1e|appl3|4pple`)},
	{"Amazon", regexp.MustCompile(`amaz0n|am4zon|4mazon`)},
	{"Bank of America", regexp.MustCompile(`bank0famerica|bankofamer1ca|b4nkofamerica`)},
}

// dottedQuadPattern matches a hostname that is entirely a dotted-quad IP
// literal. Octet range is deliberately not validated; the signal is the
// shape, not a routable address.
var dottedQuadPattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// suspiciousTLDs see disproportionate phishing registration volume.
var suspiciousTLDs = []string{
	".tk", ".ml", ".cf", ".ga", ".ph", ".cc",
}

// linkShorteners hide the final destination from the scanner.
var linkShorteners = []string{
	"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly", "is.gd",
}

// safeDomains is a small allowlist of major registrable domains. Matching is
// advisory only and never lowers the score.
var safeDomains = map[string]struct{}{
	"google.com":    {},
	"gmail.com":     {},
	"youtube.com":   {},
	"facebook.com":  {},
	"instagram.com": {},
	"whatsapp.com":  {},
	"amazon.com":    {},
	"microsoft.com": {},
	"office.com":    {},
	"outlook.com":   {},
	"apple.com":     {},
	"icloud.com":    {},
	"github.com":    {},
	"wikipedia.org": {},
	"linkedin.com":  {},
	"twitter.com":   {},
	"paypal.com":    {},
	"ebay.com":      {},
	"netflix.com":   {},
	"spotify.com":   {},
}

// apexDomain returns the last two dot-separated labels joined by ".".
// This is deliberately not public-suffix-list aware: multi-part suffixes
// such as "co.uk" yield the suffix itself. Known accuracy limitation.
func apexDomain(labels []string) string {
	if len(labels) < 2 {
		return strings.Join(labels, ".")
	}
	return strings.Join(labels[len(labels)-2:], ".")
}

// hostLabels splits a hostname on ".", discarding empty labels.
func hostLabels(host string) []string {
	parts := strings.Split(host, ".")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			labels = append(labels, p)
		}
	}
	return labels
}

// brandSubdomainReason reports impersonation when a brand name appears in a
// label outside the apex while the apex itself is unrelated to the brand.
// Evaluated once: the first matching brand wins.
func brandSubdomainReason(labels []string, apex string) (string, bool) {
	if len(labels) <= 2 {
		return "", false
	}
	subLabels := labels[:len(labels)-2]
	for _, brand := range knownBrands {
		if strings.Contains(apex, brand) {
			continue
		}
		for _, label := range subLabels {
			if strings.Contains(label, brand) {
				return fmt.Sprintf("Brand appears in subdomain but apex is '%s' (subdomain trick)", apex), true
			}
		}
	}
	return "", false
}

// leetspeakReason scans the fixed pattern list in order and stops at the
// first hit.
func leetspeakReason(host string) (string, bool) {
	for _, lp := range leetspeakPatterns {
		if lp.pattern.MatchString(host) {
			return fmt.Sprintf("Possible %s lookalike detected (character substitution)", lp.brand), true
		}
	}
	return "", false
}

func hasSuspiciousTLD(host string) bool {
	for _, tld := range suspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			return true
		}
	}
	return false
}

func isLinkShortener(host string) bool {
	for _, s := range linkShorteners {
		if host == s || strings.HasSuffix(host, "."+s) {
			return true
		}
	}
	return false
}

// diacriticFolder strips combining marks so accented lookalikes fold to
// their plain ASCII spelling.
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// homographReason flags hostnames containing non-ASCII characters. When
// folding diacritics away yields a plain ASCII name, the folded spelling is
// named so the impersonated target is visible.
func homographReason(host string) (string, bool) {
	if isASCII(host) {
		return "", false
	}
	folded, _, err := transform.String(diacriticFolder, host)
	if err == nil && folded != host && isASCII(folded) {
		return fmt.Sprintf("Hostname uses accented lookalike characters (resembles '%s')", folded), true
	}
	return reasonHomograph, true
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// IsKnownSafeDomain reports whether the hostname or any of its parent
// domains is on the safe-domain allowlist. Advisory only; it never changes
// the score.
func IsKnownSafeDomain(host string) bool {
	labels := hostLabels(strings.ToLower(host))
	for i := range labels {
		candidate := strings.Join(labels[i:], ".")
		if _, ok := safeDomains[candidate]; ok {
			return true
		}
	}
	return false
}
