package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/deceptoguard/urlrisk/internal/domain"
	"github.com/deceptoguard/urlrisk/internal/logging"
	"github.com/deceptoguard/urlrisk/internal/predictclient"
)

// stubScanService returns canned results without touching a backend.
type stubScanService struct {
	result    *domain.ScanResult
	strictErr error
}

func (s *stubScanService) Scan(_ context.Context, rawURL string) *domain.ScanResult {
	return s.resultFor(rawURL)
}

func (s *stubScanService) ScanStrict(_ context.Context, rawURL string) (*domain.ScanResult, error) {
	if s.strictErr != nil {
		return nil, s.strictErr
	}
	return s.resultFor(rawURL), nil
}

func (s *stubScanService) ScanLocal(rawURL string) *domain.ScanResult {
	return s.resultFor(rawURL)
}

func (s *stubScanService) resultFor(rawURL string) *domain.ScanResult {
	if s.result != nil {
		return s.result
	}
	return domain.NewScanResult(rawURL, 10, nil)
}

type stubProber struct {
	reachable bool
	err       error
}

func (p *stubProber) Health(_ context.Context) (bool, int64, string, error) {
	return p.reachable, 3, "1.0.0", p.err
}

func setupTestHandler(scans ScanService, prober *stubProber) *Handler {
	if prober == nil {
		prober = &stubProber{reachable: true}
	}
	return NewHandler(scans, prober, "urlrisk", "1.0.0", logging.NewNop())
}

func setupRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, handler, http.NotFoundHandler(), nil)
	return router
}

func postScan(router *gin.Engine, path, url string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(ScanRequest{URL: url})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(setupTestHandler(&stubScanService{}, nil))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", response["status"])
	}
}

func TestReadyCheckReportsBackendState(t *testing.T) {
	tests := []struct {
		name        string
		prober      *stubProber
		wantBackend string
	}{
		{"backend up", &stubProber{reachable: true}, "ok"},
		{"backend down", &stubProber{err: errors.New("connection refused")}, "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(setupTestHandler(&stubScanService{}, tt.prober))

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/ready", nil)
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}

			var response struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if response.Status != "ready" {
				t.Errorf("expected status ready, got %q", response.Status)
			}
			if response.Checks["backend"] != tt.wantBackend {
				t.Errorf("expected backend %q, got %q", tt.wantBackend, response.Checks["backend"])
			}
		})
	}
}

func TestScanURL_Success(t *testing.T) {
	result := domain.NewScanResult("https://example.com/", 65, []string{"Many subdomains detected (6)"})
	router := setupRouter(setupTestHandler(&stubScanService{result: result}, nil))

	w := postScan(router, "/api/v1/scan", "https://example.com/")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response ScanResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response.Result.Score != 65 {
		t.Errorf("expected score 65, got %d", response.Result.Score)
	}
	if response.Result.Status != domain.StatusSuspicious {
		t.Errorf("expected suspicious, got %q", response.Result.Status)
	}
}

func TestScanURL_FlagsKnownSafeDomains(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantSafe bool
	}{
		{"allowlisted apex", "https://github.com/login", true},
		{"allowlisted subdomain", "https://docs.github.com/", true},
		{"unknown domain", "https://example.com/", false},
		{"allowlist lookalike", "https://github.com.evil.net/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(setupTestHandler(&stubScanService{}, nil))

			w := postScan(router, "/api/v1/scan", tt.url)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			var response ScanResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if response.KnownSafeDomain != tt.wantSafe {
				t.Errorf("expected known_safe_domain=%v for %s", tt.wantSafe, tt.url)
			}
		})
	}
}

func TestScanURL_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantMsg string
	}{
		{"empty url", "", "URL cannot be empty"},
		{"whitespace url", "   ", "URL cannot be empty"},
		{"oversized url", "https://example.com/" + strings.Repeat("a", maxRequestURLLength), "URL too long"},
		{"script payload", "https://example.com/<script>alert(1)</script>", "potentially malicious content"},
		{"javascript scheme", "javascript:alert(1)", "potentially malicious content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(setupTestHandler(&stubScanService{}, nil))

			w := postScan(router, "/api/v1/scan", tt.url)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", w.Code)
			}
			var response ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if !strings.Contains(response.Error, tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, response.Error)
			}
		})
	}
}

func TestScanURL_RejectsNonJSONBody(t *testing.T) {
	router := setupRouter(setupTestHandler(&stubScanService{}, nil))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/scan", strings.NewReader("url=not-json"))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestScanStrict_BackendFailureIs502(t *testing.T) {
	scans := &stubScanService{strictErr: &predictclient.StatusError{Code: http.StatusInternalServerError}}
	router := setupRouter(setupTestHandler(scans, nil))

	w := postScan(router, "/api/v1/scan/strict", "https://example.com/")

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", w.Code)
	}
}

func TestScanStrict_BackendRejectionIs400(t *testing.T) {
	scans := &stubScanService{strictErr: &predictclient.StatusError{Code: http.StatusBadRequest}}
	router := setupRouter(setupTestHandler(scans, nil))

	w := postScan(router, "/api/v1/scan/strict", "https://example.com/")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestBackendHealthEndpoint(t *testing.T) {
	router := setupRouter(setupTestHandler(&stubScanService{}, &stubProber{reachable: true}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/metrics/backend-health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response BackendHealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !response.Backend.Reachable {
		t.Error("expected backend reachable")
	}
	if response.Backend.ModelVersion != "1.0.0" {
		t.Errorf("expected model version 1.0.0, got %q", response.Backend.ModelVersion)
	}
}

func TestRateLimitScopedToScanEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	limiter := RateLimitMiddleware(1, 1, logging.NewNop())
	SetupRoutes(router, setupTestHandler(&stubScanService{}, nil), http.NotFoundHandler(), limiter)

	first := postScan(router, "/api/v1/scan", "https://example.com/")
	if first.Code != http.StatusOK {
		t.Fatalf("expected first scan to pass, got %d", first.Code)
	}

	second := postScan(router, "/api/v1/scan", "https://example.com/")
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("expected second scan to be throttled with 429, got %d", second.Code)
	}

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/health", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected health check to bypass the limiter, got %d", w.Code)
		}
	}
}
