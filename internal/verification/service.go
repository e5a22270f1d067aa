// Package verification runs the full document pipeline: text recognition,
// MRZ detection and parsing, field aggregation, validation, eligibility and
// reporting.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docverify/internal/eligibility"
	"docverify/internal/fields"
	"docverify/internal/metrics"
	"docverify/internal/models"
	"docverify/internal/mrz"
	"docverify/internal/ocr"
	"docverify/internal/report"
	"docverify/internal/validation"
)

const DefaultTimeout = 30 * time.Second

var (
	ErrNoImage      = errors.New("no image provided")
	ErrInvalidImage = errors.New("invalid image data")
	ErrRecognition  = errors.New("text recognition failed")
)

// Analysis is a verification result plus how the fields were obtained.
type Analysis struct {
	Result models.VerificationResult
	Source fields.Source
}

// Analyze runs every stage after text recognition. It is pure: the same
// text, declaration and day always give the same result.
func Analyze(text string, decl *models.ApplicantDeclaration, today time.Time) Analysis {
	candidates := mrz.DetectLines(mrz.SplitLines(text))
	data, source := fields.Aggregate(text, candidates, decl)

	checks := validation.Validate(data, decl, today)
	if checks == nil {
		checks = []models.ValidationCheck{}
	}
	assessment := eligibility.Assess(data.DocumentType.Value, checks, decl)
	overall := report.OverallConfidence(data, checks)

	return Analysis{
		Result: models.VerificationResult{
			OverallConfidence:     overall,
			ExtractedData:         data,
			ValidationChecks:      checks,
			EligibilityAssessment: assessment,
			Summary:               report.Summary(overall, data, assessment),
			NextActions:           report.NextActions(overall, checks, assessment),
		},
		Source: source,
	}
}

// Service verifies document images end to end.
type Service struct {
	recognizer ocr.Recognizer
	timeout    time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

type Option func(*Service)

func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the source of "today" used by the expiry and age checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(recognizer ocr.Recognizer, opts ...Option) *Service {
	s := &Service{
		recognizer: recognizer,
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify recognizes the text on image and analyzes it against decl, which
// may be nil. Recognition faults are wrapped in ErrRecognition.
func (s *Service) Verify(ctx context.Context, image []byte, decl *models.ApplicantDeclaration) (Analysis, error) {
	if len(image) == 0 {
		return Analysis{}, ErrNoImage
	}

	ocrCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.recognizer.Recognize(ocrCtx, image)
	s.metrics.ObserveOCRLatency(time.Since(start))
	if err != nil {
		s.metrics.IncrementOutcome(metrics.OutcomeError)
		s.logger.ErrorContext(ctx, "text recognition failed",
			"image_bytes", len(image),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return Analysis{}, fmt.Errorf("%w: %w", ErrRecognition, err)
	}

	a := Analyze(text, decl, s.now())
	s.record(ctx, a, len(text), time.Since(start))
	return a, nil
}

func (s *Service) record(ctx context.Context, a Analysis, textLen int, d time.Duration) {
	outcome := metrics.OutcomeIneligible
	if a.Result.EligibilityAssessment.Eligible {
		outcome = metrics.OutcomeEligible
	}
	s.metrics.IncrementOutcome(outcome)
	s.metrics.IncrementMRZ(a.Source == fields.SourceMRZ)
	s.metrics.ObserveConfidence(a.Result.OverallConfidence)

	checks := a.Result.ValidationChecks
	s.logger.InfoContext(ctx, "document verified",
		"source", a.Source,
		"document_type", a.Result.ExtractedData.DocumentType.Value,
		"text_len", textLen,
		"overall_confidence", a.Result.OverallConfidence,
		"eligible", a.Result.EligibilityAssessment.Eligible,
		"failed_checks", models.CountStatus(checks, models.StatusFail),
		"warning_checks", models.CountStatus(checks, models.StatusWarning),
		"duration_ms", d.Milliseconds(),
	)
}
