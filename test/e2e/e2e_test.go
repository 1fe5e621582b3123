package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/identity"
	"booking-workers/internal/intake"
	"booking-workers/internal/models"
	"booking-workers/internal/records"
	"booking-workers/internal/submission"

	filterrecords "booking-workers/internal/workers/dashboard/filter-records"
	checkemailuniqueness "booking-workers/internal/workers/intake/check-email-uniqueness"
	notifybookingrequest "booking-workers/internal/workers/intake/notify-booking-request"
	submitbookingrequest "booking-workers/internal/workers/intake/submit-booking-request"
	validatebookingrequest "booking-workers/internal/workers/intake/validate-booking-request"
)

// The booking-request process runs validate -> check email -> submit -> notify.
// These tests drive the handlers in that order against in-process fakes of
// Postgres, Redis, Elasticsearch, the booking API and SES.

// ==========================
// Fakes
// ==========================

type bookingAPI struct {
	mu     sync.Mutex
	bodies []models.BookingRequestPayload
}

func (a *bookingAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var p models.BookingRequestPayload
	_ = json.NewDecoder(r.Body).Decode(&p)

	a.mu.Lock()
	a.bodies = append(a.bodies, p)
	a.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	_, _ = io.WriteString(w, `{"id": "br-1"}`)
}

func (a *bookingAPI) posts() []models.BookingRequestPayload {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.BookingRequestPayload(nil), a.bodies...)
}

type mockEmailSender struct {
	mock.Mock
}

func (m *mockEmailSender) SendEmail(ctx context.Context, to, subject, textBody, htmlBody string) (string, error) {
	args := m.Called(ctx, to, subject, textBody, htmlBody)
	return args.String(0), args.Error(1)
}

type process struct {
	validate *validatebookingrequest.Handler
	check    *checkemailuniqueness.Handler
	submit   *submitbookingrequest.Handler
	notify   *notifybookingrequest.Handler
	api      *bookingAPI
	email    *mockEmailSender
	db       sqlmock.Sqlmock
}

func newProcess(t *testing.T) *process {
	t.Helper()
	log := logger.NewTestLogger(t)

	db, dbMock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	dbMock.MatchExpectationsInOrder(false)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	lookup := identity.NewCachedLookup(identity.NewPostgresLookup(db), rdb, time.Minute, log)

	api := &bookingAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	pipeline := intake.NewPipeline(lookup, submission.NewClient(srv.URL, time.Second), intake.PipelineConfig{
		LookupTimeout:     time.Second,
		SubmissionTimeout: time.Second,
	}, log)

	email := &mockEmailSender{}
	notifyCfg := notifybookingrequest.LoadConfig()
	notifyCfg.SMSEnabled = false

	return &process{
		validate: validatebookingrequest.NewHandler(validatebookingrequest.LoadConfig(), log),
		check:    checkemailuniqueness.NewHandler(checkemailuniqueness.LoadConfig(), lookup, log),
		submit:   submitbookingrequest.NewHandler(submitbookingrequest.LoadConfig(), pipeline, log),
		notify:   notifybookingrequest.NewHandler(notifyCfg, email, nil, log),
		api:      api,
		email:    email,
		db:       dbMock,
	}
}

func (p *process) expectIdentityQuery(table, email string, ids ...string) {
	rows := sqlmock.NewRows([]string{"id", "email"})
	for _, id := range ids {
		rows.AddRow(id, email)
	}
	p.db.ExpectQuery(regexp.QuoteMeta("FROM " + table + " WHERE LOWER(email) = $1")).
		WithArgs(email).
		WillReturnRows(rows)
}

func createDraft(email string) *models.BookingRequestDraft {
	return &models.BookingRequestDraft{
		RequesterName:        "Sam Carter",
		CompanyName:          "Carter Builds",
		Email:                email,
		Phone:                "07700900123",
		Password:             "Abcd123!",
		PasswordConfirmation: "Abcd123!",
		City:                 "Bristol",
		Postcode:             "BS1 4DJ",
		TeamSize:             "6",
		BookingDateRanges: []models.DateRangeEntry{
			{ID: "r1", StartDate: "2024-05-01", EndDate: "2024-05-08"},
		},
		TermsAccepted: true,
	}
}

// rebind copies one worker's output into the next worker's input the way
// process variables are merged by the broker.
func rebind(t *testing.T, from, to interface{}) {
	t.Helper()
	raw, err := json.Marshal(from)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, to))
}

// ==========================
// Booking request process
// ==========================

func TestBookingRequestProcess_NewContractor(t *testing.T) {
	ctx := context.Background()
	p := newProcess(t)

	// once for the check worker, once for the pipeline: misses are never cached
	for i := 0; i < 2; i++ {
		p.expectIdentityQuery("contractors", "test@test.com")
		p.expectIdentityQuery("landlords", "test@test.com")
	}

	draft := createDraft("test@test.com")

	validated, err := p.validate.Execute(ctx, &validatebookingrequest.Input{Draft: draft})
	require.NoError(t, err)
	assert.True(t, validated.IsValid)
	assert.Equal(t, 1, validated.BookingCount)

	checked, err := p.check.Execute(ctx, &checkemailuniqueness.Input{Email: draft.Email})
	require.NoError(t, err)
	assert.Equal(t, string(intake.EmailUnique), checked.EmailStatus)

	submitted, err := p.submit.Execute(ctx, &submitbookingrequest.Input{Draft: draft})
	require.NoError(t, err)
	require.True(t, submitted.Submitted, submitted.Message)

	posts := p.api.posts()
	require.Len(t, posts, 1)
	assert.Equal(t, "test@test.com", posts[0].Email)
	assert.Equal(t, []models.BookingDates{{StartDate: "2024-05-01", EndDate: "2024-05-08"}}, posts[0].Bookings)

	p.email.On("SendEmail", mock.Anything, "test@test.com", mock.AnythingOfType("string"), mock.Anything, mock.Anything).
		Return("ses-42", nil).
		Once()

	var notifyInput notifybookingrequest.Input
	rebind(t, submitted, &notifyInput)

	notified, err := p.notify.Execute(ctx, &notifyInput)
	require.NoError(t, err)
	assert.Equal(t, notifybookingrequest.StatusSent, notified.Status)
	assert.Equal(t, []string{notifybookingrequest.ChannelEmail}, notified.Channels)

	p.email.AssertExpectations(t)
	assert.NoError(t, p.db.ExpectationsWereMet())
}

func TestBookingRequestProcess_LandlordEmail(t *testing.T) {
	ctx := context.Background()
	p := newProcess(t)

	// the landlord match is cached after the first lookup
	p.expectIdentityQuery("contractors", "test@test.com")
	p.expectIdentityQuery("landlords", "test@test.com", "l-7")
	p.expectIdentityQuery("contractors", "test@test.com")

	draft := createDraft("Test@Test.com")

	validated, err := p.validate.Execute(ctx, &validatebookingrequest.Input{Draft: draft})
	require.NoError(t, err)
	assert.Equal(t, "test@test.com", validated.NormalizedEmail)

	checked, err := p.check.Execute(ctx, &checkemailuniqueness.Input{Email: draft.Email})
	require.Error(t, err)
	assert.Equal(t, string(apperrors.ErrCodeDuplicateEmail), intake.Kind(err))
	assert.Equal(t, string(intake.EmailTaken), checked.EmailStatus)

	submitted, err := p.submit.Execute(ctx, &submitbookingrequest.Input{Draft: draft})
	require.NoError(t, err)
	assert.False(t, submitted.Submitted)
	assert.Equal(t, string(apperrors.ErrCodeDuplicateEmail), submitted.ErrorKind)
	assert.NotEmpty(t, submitted.Message)

	assert.Empty(t, p.api.posts())
	p.email.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, p.db.ExpectationsWereMet())
}

// ==========================
// Dashboards
// ==========================

const partnerHits = `{
  "hits": {
    "total": {"value": 3},
    "hits": [
      {"_id": "p-1", "_source": {"id": "p-1", "partnerId": "partner-9", "name": "Harbour View", "address": "1 Quay St, BS1 4DJ", "propertyType": "House", "parkingType": "Driveway"}},
      {"_id": "p-2", "_source": {"id": "p-2", "partnerId": "partner-9", "name": "Mill House", "address": "2 Mill Ln, M4 5JD", "propertyType": "Flat", "parkingType": "Street"}},
      {"_id": "p-3", "_source": {"id": "p-3", "partnerId": "partner-9", "name": "Dock Cottage", "address": "3 Dock Rd, BS1 6UX", "propertyType": "Flat", "parkingType": "None"}}
    ]
  }
}`

func newDashboardHandler(t *testing.T) (*filterrecords.Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, partnerHits)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}, MaxRetries: 1})
	require.NoError(t, err)

	cfg := filterrecords.LoadConfig()
	cfg.Location = time.UTC

	h := filterrecords.NewHandler(cfg,
		records.NewBookingStore(db, 100),
		records.NewPropertyIndex(es, "properties", 100),
		logger.NewTestLogger(t))
	return h, dbMock
}

func TestDashboards_FilterRecords(t *testing.T) {
	ctx := context.Background()
	h, dbMock := newDashboardHandler(t)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	dbMock.ExpectQuery(regexp.QuoteMeta("FROM bookings b")).
		WithArgs("client-1", 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "name", "address", "start_date", "end_date", "status", "team_size"}).
			AddRow("b-1", "client-1", "Harbour View", "1 Quay St, BS1 4DJ", start, start.AddDate(0, 0, 7), "confirmed", 6).
			AddRow("b-2", "client-1", "Mill House", "2 Mill Ln, M4 5JD", start.AddDate(0, 0, 1), start.AddDate(0, 0, 4), "pending", 2))

	clientOut, err := h.Execute(ctx, &filterrecords.Input{
		Dashboard:     filterrecords.DashboardClient,
		OwnerID:       "client-1",
		ActiveFilters: []string{"search", "startDate"},
		FilterValues:  map[string]string{"startDate": "2025-06-01"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, clientOut.TotalCount)
	assert.Equal(t, 1, clientOut.MatchedCount)
	bookings, ok := clientOut.Records.([]models.Booking)
	require.True(t, ok)
	assert.Equal(t, "b-1", bookings[0].ID)

	partnerOut, err := h.Execute(ctx, &filterrecords.Input{
		Dashboard:     filterrecords.DashboardPartner,
		OwnerID:       "partner-9",
		ActiveFilters: []string{"postcode", "property_type"},
		FilterValues:  map[string]string{"postcode": "bs1", "property_type": "Flat"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, partnerOut.TotalCount)
	properties, ok := partnerOut.Records.([]models.Property)
	require.True(t, ok)
	require.Len(t, properties, 1)
	assert.Equal(t, "p-3", properties[0].ID)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}
