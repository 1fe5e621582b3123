package intake

import (
	"context"
	"strings"
	"sync"

	"booking-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

// memoryLookup serves identities from fixed tables and records each call.
type memoryLookup struct {
	mu     sync.Mutex
	tables map[models.IdentityTable][]models.Identity
	errs   map[models.IdentityTable]error
	calls  []models.IdentityTable
	block  chan struct{}
}

func newMemoryLookup() *memoryLookup {
	return &memoryLookup{
		tables: map[models.IdentityTable][]models.Identity{},
		errs:   map[models.IdentityTable]error{},
	}
}

func (m *memoryLookup) add(table models.IdentityTable, email string) *memoryLookup {
	m.tables[table] = append(m.tables[table], models.Identity{ID: "id-" + email, Email: email, Table: table})
	return m
}

func (m *memoryLookup) FindByEmail(ctx context.Context, table models.IdentityTable, email string) ([]models.Identity, error) {
	m.mu.Lock()
	m.calls = append(m.calls, table)
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := m.errs[table]; err != nil {
		return nil, err
	}
	var out []models.Identity
	for _, id := range m.tables[table] {
		if strings.EqualFold(id.Email, email) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *memoryLookup) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type fakeSubmitter struct {
	mu       sync.Mutex
	err      error
	payloads []models.BookingRequestPayload
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeSubmitter) Submit(ctx context.Context, payload models.BookingRequestPayload) error {
	f.mu.Lock()
	f.payloads = append(f.payloads, payload)
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if release != nil {
		<-release
	}
	return f.err
}

func (f *fakeSubmitter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

// validDraft passes every local check.
func validDraft() models.BookingRequestDraft {
	d := NewDraft()
	d.RequesterName = "Jane Doe"
	d.CompanyName = "Doe Builders"
	d.Email = "test@test.com"
	d.Phone = "+441234567890"
	d.Password = "Abcd123!"
	d.PasswordConfirmation = "Abcd123!"
	d.City = "Leeds"
	d.Postcode = "LS1 4AP"
	d.TeamSize = "6"
	d.TermsAccepted = true
	d.BookingDateRanges[0].StartDate = "2024-05-01"
	d.BookingDateRanges[0].EndDate = "2024-05-08"
	return d
}
