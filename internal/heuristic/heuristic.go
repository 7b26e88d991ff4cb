// Package heuristic implements the offline URL risk-scoring engine. It is
// deterministic and performs no I/O: the same URL always yields the same
// score, status, and reasons (only the result id and timestamp vary).
package heuristic

import (
	"fmt"
	"net/url"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/deceptoguard/urlrisk/internal/domain"
	"github.com/deceptoguard/urlrisk/internal/logging"
	"github.com/deceptoguard/urlrisk/internal/telemetry"
)

// Engine evaluates URLs against the fixed indicator table.
type Engine struct {
	keywords  *ahocorasick.Matcher
	logger    logging.Logger
	telemetry *telemetry.Provider
}

// NewEngine creates an engine with the keyword automaton prebuilt.
// telemetry may be nil.
func NewEngine(logger logging.Logger, tp *telemetry.Provider) *Engine {
	return &Engine{
		keywords:  ahocorasick.NewStringMatcher(suspiciousKeywords),
		logger:    logger,
		telemetry: tp,
	}
}

// Evaluate scores rawURL and returns a fresh ScanResult. A string that does
// not parse into a scheme and host short-circuits to a phishing result; no
// other indicator is evaluated for it.
func (e *Engine) Evaluate(rawURL string) *domain.ScanResult {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Hostname() == "" {
		e.record(indInvalidURL)
		result := domain.NewScanResultWithStatus(rawURL, domain.BaseScore+penaltyInvalidURL, domain.StatusPhishing, []string{reasonInvalidURL})
		e.logResult(result)
		return result
	}

	host := strings.ToLower(parsed.Hostname())
	scheme := strings.ToLower(parsed.Scheme)
	labels := hostLabels(host)
	apex := apexDomain(labels)

	score := domain.BaseScore
	var reasons []string

	add := func(indicator string, penalty int, reason string) {
		score += penalty
		reasons = append(reasons, reason)
		e.record(indicator)
	}

	if scheme != "https" {
		add(indNonHTTPS, penaltyNonHTTPS, reasonNonHTTPS)
	}
	if strings.Contains(rawURL, "@") {
		add(indCredentialAt, penaltyCredentialAt, reasonCredentialAt)
	}
	if strings.Contains(host, "xn--") {
		add(indPunycode, penaltyPunycode, reasonPunycode)
	}
	if dottedQuadPattern.MatchString(host) {
		add(indIPHost, penaltyIPHost, reasonIPHost)
	}
	if len(labels) > maxLabelsBeforePenalty {
		add(indManySubdomains, penaltyManySubdomains,
			fmt.Sprintf("Many subdomains detected (%d)", len(labels)))
	}
	if len(host) > maxHostnameLength {
		add(indLongHostname, penaltyLongHostname, reasonLongHostname)
	}
	if len(rawURL) > maxURLLength {
		add(indLongURL, penaltyLongURL, reasonLongURL)
	}
	if e.containsSuspiciousKeyword(host, parsed.Path) {
		add(indKeywords, penaltyKeywords, reasonKeywords)
	}
	if reason, ok := brandSubdomainReason(labels, apex); ok {
		add(indBrandSubdomain, penaltyBrandSubdomain, reason)
	}
	if reason, ok := leetspeakReason(host); ok {
		add(indLeetspeak, penaltyLeetspeak, reason)
	}
	if hasSuspiciousTLD(host) {
		add(indSuspiciousTLD, penaltySuspiciousTLD, reasonSuspiciousTLD)
	}
	if isLinkShortener(host) {
		add(indLinkShortener, penaltyLinkShortener, reasonShortener)
	}
	if reason, ok := homographReason(host); ok {
		add(indHomograph, penaltyHomograph, reason)
	}

	result := domain.NewScanResult(rawURL, score, reasons)
	e.logResult(result)
	return result
}

// containsSuspiciousKeyword runs the keyword automaton over the lowercased
// hostname and path in a single pass.
func (e *Engine) containsSuspiciousKeyword(host, path string) bool {
	text := host + " " + strings.ToLower(path)
	return len(e.keywords.Match([]byte(text))) > 0
}

func (e *Engine) record(indicator string) {
	if e.telemetry != nil {
		e.telemetry.RecordIndicator(indicator)
	}
}

func (e *Engine) logResult(result *domain.ScanResult) {
	if e.logger == nil {
		return
	}
	e.logger.Debug("heuristic evaluation complete",
		logging.String("url", result.URL),
		logging.Int("score", result.Score),
		logging.String("status", string(result.Status)),
		logging.Int("reasons", len(result.Reasons)),
	)
}
