package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
app:
  name: booking-workers
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: bookings
    user: booking
  elasticsearch:
    addresses: ["http://localhost:9200"]
  redis:
    address: localhost:6379
intake:
  submission_base_url: ${TEST_BOOKING_API}
  lookup_timeout: 2500
workers:
  check-email-uniqueness:
    enabled: false
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("TEST_BOOKING_API", "https://api.example.test")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test", cfg.Intake.SubmissionBaseURL)
	assert.Equal(t, 2500, cfg.Intake.LookupTimeout)
	assert.Equal(t, 15000, cfg.Intake.SubmissionTimeout)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "properties", cfg.Database.Elasticsearch.PropertyIndex)
	assert.Equal(t, "Local", cfg.Dashboards.TimeZone)
	assert.Equal(t, "json", cfg.Logging.Format)

	worker := cfg.Workers["check-email-uniqueness"]
	assert.False(t, worker.Enabled)
	assert.Equal(t, 5, worker.MaxJobsActive)
	assert.Equal(t, 3, worker.MaxRetries)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "database:\n  postgres:\n    host: x\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name: "missing submission url",
			body: `
camunda: {broker_address: "localhost:26500"}
database:
  postgres: {host: h, database: d, user: u}
  elasticsearch: {addresses: ["http://es:9200"]}
  redis: {address: "r:6379"}
`,
			wantErr: "intake.submission_base_url is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BOOKING_API_BASE_URL", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWorkerConfigHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"filter-records": {Enabled: false, MaxJobsActive: 2, Timeout: 1000},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "filter-records"))
	assert.True(t, IsWorkerEnabled(cfg, "submit-booking-request"))
	assert.Equal(t, 2, GetWorkerConfig(cfg, "filter-records").MaxJobsActive)
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "unknown").Timeout)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestDashboardLocation(t *testing.T) {
	assert.Equal(t, time.UTC, DashboardConfig{TimeZone: "UTC"}.Location())
	assert.Equal(t, time.Local, DashboardConfig{TimeZone: "Not/AZone"}.Location())
}
