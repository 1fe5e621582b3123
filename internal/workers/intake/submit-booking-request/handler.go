package submitbookingrequest

import (
	"context"
	"encoding/json"
	"errors"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/common/metrics"
	"booking-workers/internal/intake"
	"booking-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "submit-booking-request"
)

// Submission is the part of the intake pipeline this worker drives.
type Submission interface {
	Submit(ctx context.Context, draft models.BookingRequestDraft) (*models.BookingRequestPayload, error)
}

// Handler runs the whole intake pipeline for one draft. Business rejections
// complete the job with the outcome; they are never retried.
type Handler struct {
	config       *Config
	pipeline     Submission
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, pipeline Submission, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		pipeline:     pipeline,
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
		stdErr := apperrors.AsStandardError(err)
		tracker.Fail(string(stdErr.Code))
		h.errorHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	h.completeJob(ctx, client, job, output)
	tracker.Complete()
}

// execute only returns an error for unusable input. Every pipeline outcome is
// folded into the Output.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Draft == nil {
		return nil, apperrors.NewInvalidInputError("draft is required")
	}
	if err := intake.CheckDateRangeIDs(input.Draft.BookingDateRanges); err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}

	payload, err := h.pipeline.Submit(ctx, *input.Draft)
	if err != nil {
		return resultFromError(err), nil
	}

	return &Output{
		Submitted: true,
		Requester: &Requester{
			FullName:    payload.FullName,
			CompanyName: payload.CompanyName,
			Email:       payload.Email,
			Phone:       payload.Phone,
		},
		Bookings: payload.Bookings,
	}, nil
}

func resultFromError(err error) *Output {
	out := &Output{
		ErrorKind: intake.Kind(err),
		Message:   intake.UserMessage(err),
	}

	var fieldErr *intake.FieldValidationError
	if errors.As(err, &fieldErr) {
		out.FieldErrors = fieldErr.Fields
	}
	var policyErr *intake.PasswordPolicyError
	if errors.As(err, &policyErr) {
		out.UnmetPasswordRequirements = policyErr.Unmet
	}
	return out
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
