package notifybookingrequest

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-booking-request"
)

// EmailSender is satisfied by the SES client in internal/common/aws.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, textBody, htmlBody string) (string, error)
}

// SMSSender is satisfied by the SNS client in internal/common/aws.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

// Handler confirms a submitted booking request to the requester. Email is the
// primary channel and its failure is retried; SMS is best effort.
type Handler struct {
	config       *Config
	email        EmailSender
	sms          SMSSender
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		email:        email,
		sms:          sms,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Requester == nil || strings.TrimSpace(input.Requester.Email) == "" {
		return nil, apperrors.NewInvalidInputError("requester email is required")
	}
	r := input.Requester

	output := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	if h.config.EmailEnabled && h.email != nil {
		messageID, err := h.email.SendEmail(ctx, r.Email, emailSubject,
			textBody(r, input.Bookings), htmlBody(r, input.Bookings))
		if err != nil {
			metrics.NotificationsSent.WithLabelValues(ChannelEmail, "failed").Inc()
			return nil, apperrors.NewNotificationSendFailedError(ChannelEmail, err)
		}
		metrics.NotificationsSent.WithLabelValues(ChannelEmail, "sent").Inc()
		output.Channels = append(output.Channels, ChannelEmail)
		h.logger.Debug("confirmation email sent", map[string]interface{}{
			"email":     r.Email,
			"messageId": messageID,
		})
	}

	smsFailed := false
	if h.config.SMSEnabled && h.sms != nil && strings.TrimSpace(r.Phone) != "" {
		if _, err := h.sms.SendSMS(ctx, r.Phone, smsBody(input.Bookings)); err != nil {
			metrics.NotificationsSent.WithLabelValues(ChannelSMS, "failed").Inc()
			h.logger.Warn("confirmation SMS failed", map[string]interface{}{
				"error": err.Error(),
			})
			smsFailed = true
		} else {
			metrics.NotificationsSent.WithLabelValues(ChannelSMS, "sent").Inc()
			output.Channels = append(output.Channels, ChannelSMS)
		}
	}

	switch {
	case smsFailed:
		output.Status = StatusPartial
	case len(output.Channels) > 0:
		output.Status = StatusSent
	}
	return output, nil
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
