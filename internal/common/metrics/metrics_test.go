package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestJobTracker(t *testing.T) {
	const taskType = "metrics-test-task"

	StartJob(taskType).Complete()
	StartJob(taskType).Fail("DUPLICATE_EMAIL")
	StartJob(taskType).Fail("DUPLICATE_EMAIL")

	assert.Equal(t, float64(1), testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues(taskType)))
	assert.Equal(t, float64(2), testutil.ToFloat64(WorkerJobsFailed.WithLabelValues(taskType, "DUPLICATE_EMAIL")))
	assert.Equal(t, float64(0), testutil.ToFloat64(WorkerJobsActive.WithLabelValues(taskType)))
}
