package api

import (
	"github.com/deceptoguard/urlrisk/internal/backendhealth"
	"github.com/deceptoguard/urlrisk/internal/domain"
)

// ScanRequest is the body accepted by all scan endpoints.
type ScanRequest struct {
	URL string `json:"url"`
}

// ScanResponse wraps a scan result for the dashboard. KnownSafeDomain is
// advisory; it never changes the score.
type ScanResponse struct {
	Result          *domain.ScanResult `json:"result"`
	KnownSafeDomain bool               `json:"known_safe_domain"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BackendHealthResponse reports the prediction backend's probe snapshot.
type BackendHealthResponse struct {
	Backend backendhealth.Status `json:"backend"`
}
