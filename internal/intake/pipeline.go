package intake

import (
	"context"
	"errors"
	"time"

	"booking-workers/internal/common/logger"
	"booking-workers/internal/common/metrics"
	"booking-workers/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Submitter delivers a payload to the booking-request API. A nil error means 2xx.
// Non-2xx answers are reported as *RejectionError, or ErrUnreadableRejection
// when the body cannot be read.
type Submitter interface {
	Submit(ctx context.Context, payload models.BookingRequestPayload) error
}

type PipelineConfig struct {
	LookupTimeout     time.Duration
	SubmissionTimeout time.Duration
}

// Pipeline runs the ordered submission checks. Local checks always run before
// any network call. It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	lookup    IdentityLookup
	submitter Submitter
	config    PipelineConfig
	logger    logger.Logger
	tracer    trace.Tracer
}

func NewPipeline(lookup IdentityLookup, submitter Submitter, cfg PipelineConfig, log logger.Logger) *Pipeline {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 5 * time.Second
	}
	if cfg.SubmissionTimeout <= 0 {
		cfg.SubmissionTimeout = 15 * time.Second
	}
	return &Pipeline{
		lookup:    lookup,
		submitter: submitter,
		config:    cfg,
		logger:    log,
		tracer:    otel.Tracer("booking-workers/intake"),
	}
}

// ValidateLocally runs every check that needs no network, in submission order.
func ValidateLocally(draft models.BookingRequestDraft) error {
	if fe := ValidateRequiredFields(draft); len(fe) > 0 {
		return &FieldValidationError{Fields: fe}
	}
	if err := ValidateTerms(draft); err != nil {
		return err
	}
	if fe := ValidateDateOrder(draft); len(fe) > 0 {
		return &FieldValidationError{Fields: fe}
	}
	if unmet := ValidatePasswordPolicy(draft.Password); len(unmet) > 0 {
		return &PasswordPolicyError{Unmet: unmet}
	}
	return CheckPasswordConfirmation(draft.Password, draft.PasswordConfirmation)
}

// Submit validates draft and, if every check passes, posts it. The returned
// payload is what was sent.
func (p *Pipeline) Submit(ctx context.Context, draft models.BookingRequestDraft) (*models.BookingRequestPayload, error) {
	ctx, span := p.tracer.Start(ctx, "intake.Submit")
	defer span.End()

	payload, err := p.submit(ctx, draft)

	outcome := "submitted"
	if err != nil {
		outcome = Kind(err)
		span.SetStatus(codes.Error, outcome)
		span.RecordError(err)
	}
	span.SetAttributes(attribute.String("intake.outcome", outcome))
	metrics.IntakeOutcomes.WithLabelValues(outcome).Inc()

	return payload, err
}

func (p *Pipeline) submit(ctx context.Context, draft models.BookingRequestDraft) (*models.BookingRequestPayload, error) {
	if fe := ValidateRequiredFields(draft); len(fe) > 0 {
		return nil, &FieldValidationError{Fields: fe}
	}
	if err := ValidateTerms(draft); err != nil {
		return nil, err
	}
	if fe := ValidateDateOrder(draft); len(fe) > 0 {
		return nil, &FieldValidationError{Fields: fe}
	}

	email := NormalizeEmail(draft.Email)
	if err := p.ensureEmailUsable(ctx, email); err != nil {
		return nil, err
	}

	if unmet := ValidatePasswordPolicy(draft.Password); len(unmet) > 0 {
		return nil, &PasswordPolicyError{Unmet: unmet}
	}
	if err := CheckPasswordConfirmation(draft.Password, draft.PasswordConfirmation); err != nil {
		return nil, err
	}

	payload := BuildPayload(draft)
	if err := p.send(ctx, payload); err != nil {
		return nil, err
	}

	p.logger.Info("booking request submitted", map[string]interface{}{
		"email":    email,
		"bookings": len(payload.Bookings),
	})
	return &payload, nil
}

// ensureEmailUsable fails closed: an unverifiable email is reported as taken.
func (p *Pipeline) ensureEmailUsable(ctx context.Context, email string) error {
	ctx, span := p.tracer.Start(ctx, "intake.CheckEmailUniqueness")
	defer span.End()

	lookupCtx, cancel := context.WithTimeout(ctx, p.config.LookupTimeout)
	defer cancel()

	status, err := CheckEmailUniqueness(lookupCtx, email, p.lookup)
	span.SetAttributes(attribute.String("intake.email_status", string(status)))

	switch status {
	case EmailUnique:
		return nil
	case EmailLookupFailed:
		p.logger.Warn("email uniqueness lookup failed, rejecting", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		return &DuplicateEmailError{Email: email, Cause: err}
	default:
		return &DuplicateEmailError{Email: email}
	}
}

func (p *Pipeline) send(ctx context.Context, payload models.BookingRequestPayload) error {
	ctx, span := p.tracer.Start(ctx, "intake.SubmitBookingRequest")
	defer span.End()

	sendCtx, cancel := context.WithTimeout(ctx, p.config.SubmissionTimeout)
	defer cancel()

	err := p.submitter.Submit(sendCtx, payload)
	if err == nil {
		return nil
	}

	classified := ClassifySubmissionError(payload.Email, err)
	fields := map[string]interface{}{
		"email": payload.Email,
		"error": err.Error(),
		"kind":  Kind(classified),
	}
	var rej *RejectionError
	if errors.As(err, &rej) {
		fields["status"] = rej.StatusCode
	}
	p.logger.Warn("booking request rejected", fields)
	return classified
}
