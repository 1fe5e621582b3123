package checkemailuniqueness

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/common/metrics"
	"booking-workers/internal/intake"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "check-email-uniqueness"
)

// Handler confirms that no contractor or landlord account already uses an email.
// A lookup that fails or times out is reported exactly like a taken email.
type Handler struct {
	config       *Config
	lookup       intake.IdentityLookup
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, lookup intake.IdentityLookup, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		lookup:       lookup,
		logger:       l,
		errorHandler: apperrors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	tracker := metrics.StartJob(TaskType)
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := apperrors.NewInvalidInputError(err.Error())
		tracker.Fail(string(stdErr.Code))
		h.errorHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		stdErr := intake.ToStandardError(err)
		if output != nil {
			stdErr = stdErr.WithMetadata("emailStatus", output.EmailStatus)
		}
		tracker.Fail(string(stdErr.Code))
		h.errorHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	h.completeJob(ctx, client, job, output)
	tracker.Complete()
}

// execute returns the output alongside a DuplicateEmailError so the caller can
// still see which status was reached.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.NewInvalidInputError("email is required")
	}

	email := intake.NormalizeEmail(input.Email)

	lookupCtx, cancel := context.WithTimeout(ctx, h.config.LookupTimeout)
	defer cancel()

	status, err := intake.CheckEmailUniqueness(lookupCtx, email, h.lookup)
	output := &Output{NormalizedEmail: email, EmailStatus: string(status)}

	switch status {
	case intake.EmailUnique:
		return output, nil
	case intake.EmailLookupFailed:
		h.logger.Warn("email uniqueness lookup failed, rejecting", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		return output, &intake.DuplicateEmailError{Email: email, Cause: err}
	default:
		return output, &intake.DuplicateEmailError{Email: email}
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
