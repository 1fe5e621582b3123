package camunda

import (
	"context"
	"sync"
	"time"

	"booking-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Registration describes one job worker to open against the broker.
type Registration struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
	Handler       worker.JobHandler
}

// JobRecorder receives one measurement per handled job.
type JobRecorder interface {
	RecordJobProcessed(ctx context.Context, taskType, status string)
	RecordJobDuration(ctx context.Context, taskType string, duration time.Duration)
}

// Pool tracks the job workers opened by the manager so they can be closed together.
type Pool struct {
	client   zbc.Client
	logger   logger.Logger
	recorder JobRecorder
	mu       sync.Mutex
	workers  map[string]worker.JobWorker
}

func NewPool(client zbc.Client, log logger.Logger) *Pool {
	return &Pool{client: client, logger: log, workers: make(map[string]worker.JobWorker)}
}

// WithRecorder instruments every handler opened afterwards.
func (p *Pool) WithRecorder(r JobRecorder) *Pool {
	p.recorder = r
	return p
}

// Job outcomes reported to a JobRecorder, named after the last command the
// handler issued for the job.
const (
	OutcomeCompleted  = "completed"
	OutcomeFailed     = "failed"
	OutcomeBPMNError  = "bpmn_error"
	OutcomeUnresolved = "unresolved"
)

// outcomeClient remembers which command a handler built for its job.
type outcomeClient struct {
	worker.JobClient
	outcome string
}

func (c *outcomeClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.outcome = OutcomeCompleted
	return c.JobClient.NewCompleteJobCommand()
}

func (c *outcomeClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.outcome = OutcomeFailed
	return c.JobClient.NewFailJobCommand()
}

func (c *outcomeClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.outcome = OutcomeBPMNError
	return c.JobClient.NewThrowErrorCommand()
}

// Instrument wraps h so each job is counted by outcome and timed by r.
func Instrument(taskType string, r JobRecorder, h worker.JobHandler) worker.JobHandler {
	if r == nil {
		return h
	}
	return func(client worker.JobClient, job entities.Job) {
		oc := &outcomeClient{JobClient: client, outcome: OutcomeUnresolved}
		start := time.Now()
		h(oc, job)
		ctx := context.Background()
		r.RecordJobDuration(ctx, taskType, time.Since(start))
		r.RecordJobProcessed(ctx, taskType, oc.outcome)
	}
}

// Open starts polling for reg.TaskType.
func (p *Pool) Open(reg Registration) {
	step := p.client.NewJobWorker().
		JobType(reg.TaskType).
		Handler(Instrument(reg.TaskType, p.recorder, reg.Handler)).
		MaxJobsActive(reg.MaxJobsActive).
		Name(reg.TaskType)
	if reg.Timeout > 0 {
		step = step.Timeout(reg.Timeout)
	}

	p.mu.Lock()
	p.workers[reg.TaskType] = step.Open()
	p.mu.Unlock()

	p.logger.Info("worker started", map[string]interface{}{
		"taskType":      reg.TaskType,
		"maxJobsActive": reg.MaxJobsActive,
	})
}

// TaskTypes lists the registered task types.
func (p *Pool) TaskTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.workers))
	for t := range p.workers {
		out = append(out, t)
	}
	return out
}

// Close stops every worker, waiting for in-flight jobs up to ctx's deadline.
func (p *Pool) Close(ctx context.Context) {
	p.mu.Lock()
	workers := p.workers
	p.workers = make(map[string]worker.JobWorker)
	p.mu.Unlock()

	var wg sync.WaitGroup
	for taskType, w := range workers {
		wg.Add(1)
		go func(taskType string, w worker.JobWorker) {
			defer wg.Done()
			w.Close()
			w.AwaitClose()
			p.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
		}(taskType, w)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		p.logger.Warn("worker shutdown timed out", map[string]interface{}{"error": ctx.Err().Error()})
	}
}
