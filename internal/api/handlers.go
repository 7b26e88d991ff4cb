// Package api exposes the urlrisk scanning service over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/deceptoguard/urlrisk/internal/backendhealth"
	"github.com/deceptoguard/urlrisk/internal/domain"
	"github.com/deceptoguard/urlrisk/internal/heuristic"
	"github.com/deceptoguard/urlrisk/internal/logging"
	"github.com/deceptoguard/urlrisk/internal/predictclient"
)

// ScanService is the scanning surface the handlers depend on, satisfied by
// scanner.Scanner.
type ScanService interface {
	Scan(ctx context.Context, rawURL string) *domain.ScanResult
	ScanStrict(ctx context.Context, rawURL string) (*domain.ScanResult, error)
	ScanLocal(rawURL string) *domain.ScanResult
}

// Handler handles HTTP requests for the urlrisk API.
type Handler struct {
	scans   ScanService
	prober  backendhealth.Prober
	service string
	version string
	logger  logging.Logger
}

// NewHandler creates a new API handler.
func NewHandler(scans ScanService, prober backendhealth.Prober, service, version string, logger logging.Logger) *Handler {
	return &Handler{
		scans:   scans,
		prober:  prober,
		service: service,
		version: version,
		logger:  logger,
	}
}

// ScanURL handles POST /api/v1/scan. The backend is consulted first; any
// backend failure degrades to local heuristics inside the scanner, so this
// endpoint never fails for a valid request.
func (h *Handler) ScanURL(c *gin.Context) {
	req, ok := h.bindScanRequest(c)
	if !ok {
		return
	}

	result := h.scans.Scan(c.Request.Context(), req.URL)
	c.JSON(http.StatusOK, scanResponse(req.URL, result))
}

// ScanStrict handles POST /api/v1/scan/strict. Backend failures surface as
// 502 instead of falling back.
func (h *Handler) ScanStrict(c *gin.Context) {
	req, ok := h.bindScanRequest(c)
	if !ok {
		return
	}

	result, err := h.scans.ScanStrict(c.Request.Context(), req.URL)
	if err != nil {
		h.logger.Error("strict scan failed",
			logging.String("url", req.URL),
			logging.Error(err),
		)
		status := http.StatusBadGateway
		var statusErr *predictclient.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusBadRequest {
			// The backend rejected the URL itself; relay that to the caller.
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, scanResponse(req.URL, result))
}

// ScanLocal handles POST /api/v1/scan/local, running heuristics only.
func (h *Handler) ScanLocal(c *gin.Context) {
	req, ok := h.bindScanRequest(c)
	if !ok {
		return
	}

	result := h.scans.ScanLocal(req.URL)
	c.JSON(http.StatusOK, scanResponse(req.URL, result))
}

// BackendHealth handles GET /api/v1/metrics/backend-health.
func (h *Handler) BackendHealth(c *gin.Context) {
	status := backendhealth.Check(c.Request.Context(), h.prober)
	c.JSON(http.StatusOK, BackendHealthResponse{Backend: status})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
		"version": h.version,
	})
}

// ReadyCheck handles GET /ready. The service stays ready even when the
// backend is down because every scan can fall back to local heuristics.
func (h *Handler) ReadyCheck(c *gin.Context) {
	backend := "ok"
	if reachable, _, _, err := h.prober.Health(c.Request.Context()); err != nil || !reachable {
		backend = "unreachable"
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": gin.H{
			"backend":    backend,
			"heuristics": "ok",
		},
	})
}

// scanResponse annotates the result with the known-safe-domain flag for the
// request's hostname.
func scanResponse(rawURL string, result *domain.ScanResult) ScanResponse {
	safe := false
	if parsed, err := url.Parse(rawURL); err == nil {
		safe = heuristic.IsKnownSafeDomain(parsed.Hostname())
	}
	return ScanResponse{Result: result, KnownSafeDomain: safe}
}

func (h *Handler) bindScanRequest(c *gin.Context) (ScanRequest, bool) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid scan request", logging.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body must be JSON with a url field"})
		return req, false
	}
	if err := validateScanURL(req.URL); err != nil {
		h.logger.Warn("scan request rejected",
			logging.String("url", req.URL),
			logging.Error(err),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return req, false
	}
	return req, true
}
