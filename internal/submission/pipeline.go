package submission

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/internal/journal"
	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/internal/stats"
	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Blog-Submission-Pipeline/pkg/tracing"
)

// Reporter delivers user-facing messages. It decouples validation-result
// presentation from the pipeline computation.
type Reporter interface {
	Report(message string)
}

// Options carries the optional pipeline collaborators. Any field may be nil.
type Options struct {
	Journal *journal.Journal
	Stats   *stats.Aggregator
	Metrics *metrics.Metrics
	Clock   func() time.Time
}

// Pipeline validates, serializes, enriches, and counts form submissions. It
// has no presentation-layer dependencies; the Reporter is the only channel
// back to the user.
type Pipeline struct {
	reporter Reporter
	journal  *journal.Journal
	stats    *stats.Aggregator
	metrics  *metrics.Metrics
	clock    func() time.Time
	counter  counter
	logger   *slog.Logger
}

// New creates a Pipeline that reports user-facing messages through reporter.
func New(reporter Reporter, opts Options) *Pipeline {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Pipeline{
		reporter: reporter,
		journal:  opts.Journal,
		stats:    opts.Stats,
		metrics:  opts.Metrics,
		clock:    clock,
		logger:   slog.Default().With("component", "submission-pipeline"),
	}
}

// Validate runs the gate checks in order and returns the first failure, or
// nil when the payload may proceed to enrichment.
func Validate(payload FormPayload) *ValidationError {
	if utf8.RuneCountInString(payload.BlogContent) <= MinContentLength {
		return &ValidationError{
			Err:     ErrContentTooShort,
			Field:   "blogContent",
			Message: fmt.Sprintf("Blog content must be longer than %d characters.", MinContentLength),
		}
	}
	if !payload.TermsAgreed {
		return &ValidationError{
			Err:     ErrTermsNotAccepted,
			Field:   "termsAgreed",
			Message: "You must agree to the terms and conditions before submitting.",
		}
	}
	return nil
}

// HandleSubmit runs the pipeline on one payload. The context carries
// observability values only; the pipeline never checks it for cancellation.
//
// Gate failures return a *ValidationError and leave the counter untouched.
func (p *Pipeline) HandleSubmit(ctx context.Context, payload FormPayload) (*Result, error) {
	submissionID := uuid.NewString()
	ctx = logger.WithSubmissionID(ctx, submissionID)
	log := logger.FromContext(ctx)

	ctx, span := tracing.StartSpan(ctx, "submission", submissionID)
	defer func() {
		span.End()
		span.Log()
	}()
	start := time.Now()

	_, validateSpan := tracing.StartChildSpan(ctx, "validate")
	validationErr := Validate(payload)
	validateSpan.End()
	if validationErr != nil {
		span.SetAttr("outcome", "rejected")
		span.SetAttr("reason", validationErr.Reason())
		return nil, p.reject(log, submissionID, validationErr)
	}

	_, serializeSpan := tracing.StartChildSpan(ctx, "serialize")
	doc, err := Serialize(payload)
	serializeSpan.End()
	if err != nil {
		span.SetAttr("outcome", "error")
		return nil, err
	}
	log.Debug("payload serialized", "json", doc)

	_, roundTripSpan := tracing.StartChildSpan(ctx, "round_trip")
	reparsed, err := Parse(doc)
	if err == nil {
		err = checkRoundTrip(payload, reparsed)
	}
	roundTripSpan.End()
	if err != nil {
		span.SetAttr("outcome", "error")
		log.Error("round-trip check failed", "error", err)
		return nil, err
	}

	// Destructure title and email for the observability channel.
	title, email := reparsed.BlogTitle, reparsed.Email
	log.Info("submission fields extracted", "title", title, "email", email)

	_, enrichSpan := tracing.StartChildSpan(ctx, "enrich")
	enriched := EnrichedPayload{
		FormPayload:    reparsed,
		SubmissionDate: p.clock().Format(SubmissionDateLayout),
	}
	enrichSpan.End()

	_, countSpan := tracing.StartChildSpan(ctx, "count")
	count := p.counter.increment()
	countSpan.End()

	digest, err := Digest(reparsed)
	if err != nil {
		span.SetAttr("outcome", "error")
		return nil, err
	}

	span.SetAttr("outcome", "accepted")
	span.SetAttr("count", count)
	log.Info("submission accepted",
		"title", title,
		"count", count,
		"digest", digest,
	)

	if p.metrics != nil {
		p.metrics.SubmissionsTotal.Inc()
		p.metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
	}
	if p.stats != nil {
		p.stats.RecordAccepted(reparsed.Category, utf8.RuneCountInString(reparsed.BlogContent))
	}
	if p.journal != nil {
		p.journal.Record(journal.Record{
			Kind:           journal.KindAccepted,
			SubmissionID:   submissionID,
			Title:          title,
			Email:          email,
			Category:       reparsed.Category,
			Digest:         digest,
			SubmissionDate: enriched.SubmissionDate,
			Count:          count,
			Timestamp:      p.clock(),
		})
	}
	if p.reporter != nil {
		p.reporter.Report(fmt.Sprintf("Thank you! %q was submitted successfully (submission #%d).", title, count))
	}

	return &Result{
		SubmissionID: submissionID,
		Payload:      enriched,
		Count:        count,
		Digest:       digest,
	}, nil
}

// reject reports a gate failure to the user and the observability surfaces.
// The counter is never touched on this path.
func (p *Pipeline) reject(log *slog.Logger, submissionID string, validationErr *ValidationError) error {
	log.Warn("submission rejected",
		"reason", validationErr.Reason(),
		"field", validationErr.Field,
	)
	if p.metrics != nil {
		p.metrics.RejectionsTotal.WithLabelValues(validationErr.Reason()).Inc()
	}
	if p.stats != nil {
		p.stats.RecordRejected(validationErr.Reason())
	}
	if p.journal != nil {
		p.journal.Record(journal.Record{
			Kind:         journal.KindRejected,
			SubmissionID: submissionID,
			Reason:       validationErr.Reason(),
			Message:      validationErr.Message,
			Timestamp:    p.clock(),
		})
	}
	if p.reporter != nil {
		p.reporter.Report(validationErr.Message)
	}
	return validationErr
}
