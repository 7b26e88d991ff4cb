// Package domain defines the scan result model shared by the heuristic
// engine, the prediction client, and the API layer.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the tri-level risk classification of a scanned URL.
type Status string

// Status values, derived purely from the score.
const (
	StatusSafe       Status = "safe"
	StatusSuspicious Status = "suspicious"
	StatusPhishing   Status = "phishing"
)

// Score thresholds and bounds.
const (
	// PhishingThreshold marks the score at which a URL is classified phishing.
	PhishingThreshold = 70
	// SuspiciousThreshold marks the score at which a URL is classified suspicious.
	SuspiciousThreshold = 40

	// BaseScore is the starting score before any indicator penalties.
	BaseScore = 10

	minScore = 0
	maxScore = 100
)

// PlaceholderReason is substituted when no indicator fired; reasons are never
// empty.
const PlaceholderReason = "No obvious risk indicators found"

// timestampLayout renders scan timestamps for direct display.
const timestampLayout = time.RFC1123

// ScanResult is the canonical output of a scan. It is immutable after
// construction; the engine keeps no history.
type ScanResult struct {
	ID        string   `json:"id"`
	URL       string   `json:"url"`
	Score     int      `json:"score"`
	Status    Status   `json:"status"`
	Timestamp string   `json:"timestamp"`
	Reasons   []string `json:"reasons"`
}

// NewScanResult builds a ScanResult for rawURL, clamping the score, deriving
// the status, and substituting the placeholder reason when none triggered.
func NewScanResult(rawURL string, score int, reasons []string) *ScanResult {
	score = ClampScore(score)
	return NewScanResultWithStatus(rawURL, score, StatusForScore(score), reasons)
}

// NewScanResultWithStatus builds a ScanResult with the status fixed by the
// caller instead of derived from the score. Unparseable input is classified
// phishing outright even though its score alone would read as suspicious.
func NewScanResultWithStatus(rawURL string, score int, status Status, reasons []string) *ScanResult {
	score = ClampScore(score)
	if len(reasons) == 0 {
		reasons = []string{PlaceholderReason}
	}
	return &ScanResult{
		ID:        uuid.NewString(),
		URL:       rawURL,
		Score:     score,
		Status:    status,
		Timestamp: time.Now().Format(timestampLayout),
		Reasons:   reasons,
	}
}

// StatusForScore derives the status from a score. Status is a pure function
// of score; no other signal participates.
func StatusForScore(score int) Status {
	switch {
	case score >= PhishingThreshold:
		return StatusPhishing
	case score >= SuspiciousThreshold:
		return StatusSuspicious
	default:
		return StatusSafe
	}
}

// ClampScore bounds a score to [0,100].
func ClampScore(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
