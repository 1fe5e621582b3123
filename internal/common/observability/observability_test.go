package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	"booking-workers/internal/common/logger"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RecordsJobs(t *testing.T) {
	reg := prom.NewRegistry()
	o := New(Options{ServiceName: "booking-workers", Registerer: reg}, logger.NewTestLogger(t))
	defer func() { assert.NoError(t, o.Shutdown(context.Background())) }()

	ctx := context.Background()
	o.RecordJobProcessed(ctx, "filter-records", "completed")
	o.RecordJobDuration(ctx, "filter-records", 12*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "jobs_processed") {
			found = true
		}
	}
	assert.True(t, found, "jobs.processed counter not exported")
}

func TestObservability_ZeroValueIsSafe(t *testing.T) {
	o := &Observability{}
	o.RecordJobProcessed(context.Background(), "x", "completed")
	o.RecordJobDuration(context.Background(), "x", time.Second)
	assert.NoError(t, o.Shutdown(context.Background()))
}
