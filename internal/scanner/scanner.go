// Package scanner orchestrates URL scans: it delegates to the external
// prediction service and falls back to the local heuristic engine when the
// backend cannot answer.
package scanner

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/deceptoguard/urlrisk/internal/domain"
	"github.com/deceptoguard/urlrisk/internal/heuristic"
	"github.com/deceptoguard/urlrisk/internal/logging"
	"github.com/deceptoguard/urlrisk/internal/predictclient"
	"github.com/deceptoguard/urlrisk/internal/telemetry"
)

// Verdict score normalization: a phishing verdict starts high, anything else
// starts at the heuristic base, and every extracted reason adds weight.
const (
	verdictPhishingBase = 70
	verdictDefaultBase  = 10
	perReasonWeight     = 5
)

// reasonAnalysisComplete is substituted when the backend returned zero
// reasons.
const reasonAnalysisComplete = "Analysis complete"

// Predictor is the backend surface the scanner depends on.
type Predictor interface {
	Predict(ctx context.Context, rawURL string) (*predictclient.Prediction, error)
	PredictJSON(ctx context.Context, rawURL string) (*predictclient.Prediction, error)
}

// Scanner produces ScanResults from either the backend or the local engine.
// It holds no per-scan state; concurrent scans are independent.
type Scanner struct {
	engine    *heuristic.Engine
	client    Predictor
	logger    logging.Logger
	telemetry *telemetry.Provider
}

// New creates a Scanner. telemetry may be nil.
func New(engine *heuristic.Engine, client Predictor, logger logging.Logger, tp *telemetry.Provider) *Scanner {
	return &Scanner{
		engine:    engine,
		client:    client,
		logger:    logger,
		telemetry: tp,
	}
}

// Scan classifies rawURL via the backend's markup endpoint and never fails:
// any backend error, timeout, or non-2xx status falls back to the local
// heuristic engine with a diagnostic reason prepended to the heuristic's own
// reasons.
func (s *Scanner) Scan(ctx context.Context, rawURL string) *domain.ScanResult {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "scanner.Scan", rawURL)
	defer endSpan(span)

	pred, err := s.client.Predict(ctx, rawURL)
	s.recordBackendLatency(start)
	if err != nil {
		result := s.fallback(rawURL, err)
		s.recordScan(telemetry.ModeTolerant, result, start)
		return result
	}

	result := resultFromPrediction(rawURL, pred)
	s.logger.Info("backend scan complete",
		logging.String("url", rawURL),
		logging.String("verdict", pred.Verdict),
		logging.Int("score", result.Score),
		logging.String("status", string(result.Status)),
	)
	s.recordScan(telemetry.ModeTolerant, result, start)
	return result
}

// ScanStrict classifies rawURL via the backend's JSON endpoint. Backend
// failures propagate to the caller; there is no heuristic fallback.
func (s *Scanner) ScanStrict(ctx context.Context, rawURL string) (*domain.ScanResult, error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "scanner.ScanStrict", rawURL)
	defer endSpan(span)

	pred, err := s.client.PredictJSON(ctx, rawURL)
	s.recordBackendLatency(start)
	if err != nil {
		s.logger.Warn("strict scan failed",
			logging.String("url", rawURL),
			logging.String("error_type", classifyErrorType(err)),
			logging.Error(err),
		)
		return nil, err
	}

	result := resultFromPrediction(rawURL, pred)
	s.recordScan(telemetry.ModeStrict, result, start)
	return result, nil
}

// ScanLocal runs the heuristic engine only, with no backend call.
func (s *Scanner) ScanLocal(rawURL string) *domain.ScanResult {
	start := time.Now()
	result := s.engine.Evaluate(rawURL)
	s.recordScan(telemetry.ModeLocal, result, start)
	return result
}

// fallback evaluates rawURL locally and prepends a diagnostic describing why
// the backend was bypassed. Score and status are the heuristic engine's.
func (s *Scanner) fallback(rawURL string, cause error) *domain.ScanResult {
	errType := classifyErrorType(cause)
	s.logger.Warn("backend scan failed, using local heuristics",
		logging.String("url", rawURL),
		logging.String("error_type", errType),
		logging.Error(cause),
	)
	if s.telemetry != nil {
		s.telemetry.RecordFallback(errType)
	}

	local := s.engine.Evaluate(rawURL)
	reasons := make([]string, 0, len(local.Reasons)+1)
	reasons = append(reasons, fallbackDiagnostic(cause))
	reasons = append(reasons, local.Reasons...)
	return domain.NewScanResultWithStatus(rawURL, local.Score, local.Status, reasons)
}

// resultFromPrediction is the single scoring/normalization routine shared by
// the tolerant and strict paths.
func resultFromPrediction(rawURL string, pred *predictclient.Prediction) *domain.ScanResult {
	score := verdictDefaultBase
	if pred.Verdict == predictclient.VerdictPhishing {
		score = verdictPhishingBase
	}
	score += perReasonWeight * len(pred.Reasons)

	reasons := pred.Reasons
	if len(reasons) == 0 {
		reasons = []string{reasonAnalysisComplete}
	}
	return domain.NewScanResult(rawURL, score, reasons)
}

func (s *Scanner) recordScan(mode string, result *domain.ScanResult, start time.Time) {
	if s.telemetry != nil {
		s.telemetry.RecordScan(mode, string(result.Status), time.Since(start))
	}
}

func (s *Scanner) recordBackendLatency(start time.Time) {
	if s.telemetry != nil {
		s.telemetry.RecordBackendLatency(time.Since(start))
	}
}

func (s *Scanner) startSpan(ctx context.Context, name, rawURL string) (context.Context, trace.Span) {
	if s.telemetry == nil {
		return ctx, nil
	}
	return s.telemetry.StartSpan(ctx, name, attribute.String("scan.url", rawURL))
}

func endSpan(span trace.Span) {
	if span != nil {
		span.End()
	}
}
