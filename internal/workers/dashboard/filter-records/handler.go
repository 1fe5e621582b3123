package filterrecords

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/common/metrics"
	"booking-workers/internal/filter"
	"booking-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "filter-records"
)

type BookingSource interface {
	ClientBookings(ctx context.Context, clientID string) ([]models.Booking, error)
}

type PropertySource interface {
	PartnerProperties(ctx context.Context, partnerID string) ([]models.Property, error)
}

// Handler loads a dashboard's records and narrows them by the user's filters.
type Handler struct {
	config        *Config
	bookings      BookingSource
	properties    PropertySource
	clientEngine  *filter.Engine[models.Booking]
	partnerEngine *filter.Engine[models.Property]
	logger        logger.Logger
	errorHandler  *apperrors.ErrorHandler
}

func NewHandler(config *Config, bookings BookingSource, properties PropertySource, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:        config,
		bookings:      bookings,
		properties:    properties,
		clientEngine:  filter.ClientBookings(config.Location),
		partnerEngine: filter.PartnerProperties(),
		logger:        l,
		errorHandler:  apperrors.NewErrorHandler(l),
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

	input, err := decodeInput(job.Variables)
	if err != nil {
		stdErr := apperrors.AsStandardError(err)
		tracker.Fail(string(stdErr.Code))
		h.errorHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		stdErr := apperrors.AsStandardError(err)
		tracker.Fail(string(stdErr.Code))
		h.errorHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	h.completeJob(ctx, client, job, output)
	tracker.Complete()
}

func decodeInput(variables string) (*Input, error) {
	result, err := inputSchema.ValidateJSON(variables)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return nil, apperrors.NewInvalidInputError(strings.Join(result.GetErrorMessages(), "; ")).
			WithMetadata("validationErrors", result.Errors)
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	return &input, nil
}

func selectionFor(input *Input) *filter.Selection {
	if input.ActiveFilters == nil {
		sel := filter.NewSelection()
		sel.Set(filter.Search, input.FilterValues[string(filter.Search)])
		return sel
	}

	active := make([]filter.Key, 0, len(input.ActiveFilters))
	for _, k := range input.ActiveFilters {
		active = append(active, filter.Key(k))
	}
	values := make(map[filter.Key]string, len(input.FilterValues))
	for k, v := range input.FilterValues {
		values[filter.Key(k)] = v
	}
	return filter.SelectionOf(active, values)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || strings.TrimSpace(input.OwnerID) == "" {
		return nil, apperrors.NewInvalidInputError("ownerId is required")
	}

	sel := selectionFor(input)
	output := &Output{Dashboard: input.Dashboard, ActiveFilters: make([]string, 0)}
	for _, k := range sel.ActiveKeys() {
		output.ActiveFilters = append(output.ActiveFilters, string(k))
	}

	switch input.Dashboard {
	case DashboardClient:
		all, err := h.bookings.ClientBookings(ctx, input.OwnerID)
		if err != nil {
			return nil, err
		}
		matched := h.clientEngine.Apply(all, sel)
		output.Records, output.TotalCount, output.MatchedCount = matched, len(all), len(matched)
	case DashboardPartner:
		all, err := h.properties.PartnerProperties(ctx, input.OwnerID)
		if err != nil {
			return nil, err
		}
		matched := h.partnerEngine.Apply(all, sel)
		output.Records, output.TotalCount, output.MatchedCount = matched, len(all), len(matched)
	default:
		return nil, apperrors.NewUnknownDashboardError(input.Dashboard)
	}

	if output.TotalCount > 0 {
		metrics.FilterMatchRatio.WithLabelValues(input.Dashboard).
			Observe(float64(output.MatchedCount) / float64(output.TotalCount))
	}
	h.logger.Debug("records filtered", map[string]interface{}{
		"dashboard": input.Dashboard,
		"total":     output.TotalCount,
		"matched":   output.MatchedCount,
	})
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
