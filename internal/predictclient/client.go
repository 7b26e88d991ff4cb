// Package predictclient is the HTTP client for the external prediction
// service. It exposes the tolerant markup endpoint, the strict JSON
// endpoint, and the health probe.
package predictclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every backend call unless configured otherwise.
const DefaultTimeout = 5 * time.Second

// ErrUnavailable indicates the prediction service could not be reached.
var ErrUnavailable = errors.New("prediction service unavailable")

// Verdict tokens the backend is expected to answer with.
const (
	VerdictPhishing   = "Phishing"
	VerdictLegitimate = "Legitimate"
	VerdictUnknown    = "Unknown"
)

// Prediction is the normalized answer from either backend endpoint.
type Prediction struct {
	Verdict string
	Reasons []string
}

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("prediction service returned %d %s", e.Code, http.StatusText(e.Code))
}

// jsonResponse is the body shape of POST /api/predict.
type jsonResponse struct {
	URL     string   `json:"url"`
	Result  string   `json:"result"`
	Reasons []string `json:"reasons"`
}

// Client calls the prediction service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service rooted at baseURL. A zero
// timeout falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Predict posts rawURL as a form field to /predict and extracts the verdict
// token and reason list from the markup response. Extraction is tolerant:
// a missing verdict yields VerdictUnknown and the reason list may be empty.
func (c *Client) Predict(ctx context.Context, rawURL string) (*Prediction, error) {
	form := url.Values{"url": {rawURL}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return parseMarkup(string(body)), nil
}

// PredictJSON posts {"url": rawURL} to /api/predict and decodes the
// structured response. Unlike Predict, every failure surfaces to the caller.
func (c *Client) PredictJSON(ctx context.Context, rawURL string) (*Prediction, error) {
	payload, err := json.Marshal(map[string]string{"url": rawURL})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/predict",
		bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var decoded jsonResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	verdict := decoded.Result
	if verdict == "" {
		verdict = VerdictUnknown
	}
	return &Prediction{Verdict: verdict, Reasons: decoded.Reasons}, nil
}

// Health calls GET /health and returns reachability, round-trip latency in
// milliseconds, and the model version when the backend reports one.
func (c *Client) Health(ctx context.Context) (reachable bool, latencyMs int64, modelVersion string, err error) {
	start := time.Now()

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if reqErr != nil {
		return false, 0, "", fmt.Errorf("create request: %w", reqErr)
	}

	resp, doErr := c.httpClient.Do(req)
	latencyMs = time.Since(start).Milliseconds()
	if doErr != nil {
		return false, latencyMs, "", fmt.Errorf("%w: %w", ErrUnavailable, doErr)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, latencyMs, "", &StatusError{Code: resp.StatusCode}
	}

	var health struct {
		ModelVersion string `json:"model_version"`
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(&health); decodeErr == nil {
		modelVersion = health.ModelVersion
	}
	return true, latencyMs, modelVersion, nil
}
